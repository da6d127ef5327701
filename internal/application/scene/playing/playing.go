// Package playing provides the main gameplay scene.
package playing

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/rig"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

// Control and mesh names
const (
	ButtonLose    = "lose"
	MeshGround    = "ground"
	MeshEnv       = "environment"
	MeshPlayer    = "player"
	MeshCollision = "player_collision"
)

const (
	groundSize   = 24
	groundHeight = 0.02 // y scale of the ground box
	defaultSpeed = 6    // units per second
)

// Colors for rendering
var (
	colorGround    = color.RGBA{80, 110, 80, 255}
	colorEnv       = color.RGBA{150, 150, 170, 255}
	colorPlayer    = color.RGBA{100, 200, 100, 255}
	colorCollision = color.RGBA{200, 200, 100, 128}
	colorBG        = color.RGBA{26, 26, 46, 255}
)

// Builder constructs the Game scene from prepared assets
type Builder struct {
	Engine *engine.Engine
	Slot   *assets.Slot
	Rig    rig.Config
	// Speed is the player speed in units per second. Zero uses the default.
	Speed  float32
	Logger *log.Logger
}

// Build implements orchestrator.Builder
func (b *Builder) Build(ctx context.Context, host orchestrator.Host) (scene.Scene, error) {
	f := b.Slot.Take()
	if f == nil {
		return nil, &scene.ConstructionError{State: state.StateGame, Reason: "game assets were not prepared"}
	}
	a, err := f.Await(ctx)
	if err != nil {
		// Re-arm so the same action can be retried.
		b.Slot.Prepare()
		return nil, err
	}
	if a == nil || a.Player == nil {
		b.Slot.Prepare()
		return nil, &scene.ConstructionError{State: state.StateGame, Reason: "prepared assets have no player"}
	}

	s := b.Engine.CreateScene("game")
	s.ClearColor = colorBG

	ground := s.CreateMesh(MeshGround, engine.BoxData(MeshGround, groundSize))
	ground.Node.Scaling = mgl32.Vec3{1, groundHeight, 1}
	ground.Color = colorGround
	if a.Environment != nil {
		env := s.CreateMesh(MeshEnv, a.Environment)
		env.Color = colorEnv
	}

	player := NewPlayer(s, a, b.speed())
	r := rig.New(s, player.Mesh.Node, b.Rig)

	sun := s.CreateDirectionalLight("sun", mgl32.Vec3{-1, -2, -1})
	sun.AddShadowCaster(player.Mesh)
	s.CreateHemisphericLight("sky", mgl32.Vec3{0, 1, 0})

	s.OnBeforeRender(func(dt float64, in scene.Input) {
		player.Move(dt, in)
		r.Update(player.Position)
	})

	ui := engine.NewFullscreenUI(s, "UI")
	lose := engine.NewSimpleButton(ButtonLose, "LOSE")
	lose.Top = -14
	lose.VerticalAlignment = engine.AlignBottom
	lose.OnActivated(func() {
		if err := host.Dispatch(state.ActionLose); err != nil {
			b.Logger.Debug("lose ignored", "err", err)
		}
	})
	ui.AddControl(lose)

	b.Logger.Debug("game scene built", "player", a.Player.Name, "environment", a.Environment != nil)
	return s, nil
}

func (b *Builder) speed() float32 {
	if b.Speed > 0 {
		return b.Speed
	}
	return defaultSpeed
}

// Player is the entity the rig follows
type Player struct {
	Position  mgl32.Vec3
	Speed     float32
	Mesh      *engine.Mesh
	Collision *engine.Mesh
}

// NewPlayer instantiates the prepared player meshes in s
func NewPlayer(s *engine.Scene, a *assets.GameAssets, speed float32) *Player {
	m := s.CreateMesh(MeshPlayer, a.Player)
	m.Color = colorPlayer

	p := &Player{Speed: speed, Mesh: m}
	if a.Collision != nil {
		c := s.CreateMesh(MeshCollision, a.Collision)
		c.Color = colorCollision
		c.Visible = false
		c.Node.SetParent(m.Node)
		p.Collision = c
	}
	return p
}

// Move applies one frame of keyboard movement and keeps the player on the ground
func (p *Player) Move(dt float64, in scene.Input) {
	dir := mgl32.Vec3{float32(in.MoveX), 0, float32(in.MoveZ)}
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}
	p.Position = p.Position.Add(dir.Mul(p.Speed * float32(dt)))

	half := float32(groundSize) / 2
	p.Position[0] = mgl32.Clamp(p.Position[0], -half, half)
	p.Position[2] = mgl32.Clamp(p.Position[2], -half, half)
}
