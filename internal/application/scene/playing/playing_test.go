package playing

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/orchestrator/orchestratortest"
	"github.com/younwookim/stagehand/internal/application/rig"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

type importerFunc func(ctx context.Context, path string) (*engine.MeshData, error)

func (f importerFunc) LoadModel(ctx context.Context, path string) (*engine.MeshData, error) {
	return f(ctx, path)
}

func okImporter(ctx context.Context, path string) (*engine.MeshData, error) {
	if path == "env.gltf" {
		return engine.BoxData("env", 4), nil
	}
	return engine.BoxData("player", 1), nil
}

func newBuilder(t *testing.T, imp importerFunc, env string) *Builder {
	t.Helper()
	logger := log.New(io.Discard)
	e, err := engine.New(1280, 720, logger)
	require.NoError(t, err)

	p := assets.NewPreparer(assets.PreparerConfig{
		Importer:         imp,
		PlayerModel:      "player.gltf",
		EnvironmentModel: env,
		Logger:           logger,
	})
	return &Builder{
		Engine: e,
		Slot:   assets.NewSlot(context.Background(), p),
		Rig:    rig.DefaultConfig(),
		Logger: logger,
	}
}

func build(t *testing.T, b *Builder, host *orchestratortest.Host) *engine.Scene {
	t.Helper()
	sc, err := b.Build(context.Background(), host)
	require.NoError(t, err)
	require.NoError(t, sc.WhenReady(context.Background()))
	return sc.(*engine.Scene)
}

func TestBuild_WithoutPreparedAssets(t *testing.T) {
	b := newBuilder(t, okImporter, "")

	sc, err := b.Build(context.Background(), &orchestratortest.Host{})

	assert.Nil(t, sc)
	var cerr *scene.ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, state.StateGame, cerr.State)
	assert.Equal(t, 0, b.Engine.LiveScenes())
}

func TestBuild_AssetFailureRearmsPreparation(t *testing.T) {
	boom := errors.New("truncated buffer")
	var calls int
	b := newBuilder(t, func(ctx context.Context, path string) (*engine.MeshData, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return okImporter(ctx, path)
	}, "")
	b.Slot.Prepare()

	_, err := b.Build(context.Background(), &orchestratortest.Host{})

	var le *assets.LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, boom)
	assert.True(t, b.Slot.Pending(), "preparation is re-armed for the retry")
	assert.Equal(t, 0, b.Engine.LiveScenes())

	s := build(t, b, &orchestratortest.Host{})
	assert.NotNil(t, s.Mesh(MeshPlayer))
	assert.False(t, b.Slot.Pending())
}

func TestBuild_Composition(t *testing.T) {
	b := newBuilder(t, okImporter, "env.gltf")
	b.Slot.Prepare()

	s := build(t, b, &orchestratortest.Host{})

	ground := s.Mesh(MeshGround)
	require.NotNil(t, ground)
	assert.Equal(t, mgl32.Vec3{1, groundHeight, 1}, ground.Node.Scaling)
	lo, hi := ground.Data.Bounds()
	assert.InDelta(t, groundSize, hi.X()-lo.X(), 1e-5)

	assert.NotNil(t, s.Mesh(MeshEnv))

	player := s.Mesh(MeshPlayer)
	require.NotNil(t, player)
	assert.Equal(t, "rig_root", player.Node.Parent().Name)
	assert.Equal(t, "rig_camera", s.ActiveCamera().Name)

	collision := s.Mesh(MeshCollision)
	require.NotNil(t, collision)
	assert.False(t, collision.Visible)
	assert.Equal(t, player.Node, collision.Node.Parent())

	kinds := map[engine.LightKind]int{}
	for _, l := range s.Lights() {
		kinds[l.Kind]++
	}
	assert.Equal(t, 1, kinds[engine.LightDirectional])
	assert.Equal(t, 1, kinds[engine.LightHemispheric])
}

func TestBuild_EnvironmentIsOptional(t *testing.T) {
	b := newBuilder(t, okImporter, "")
	b.Slot.Prepare()

	s := build(t, b, &orchestratortest.Host{})
	assert.Nil(t, s.Mesh(MeshEnv))
}

func TestBuild_LoseButtonDispatchesLose(t *testing.T) {
	b := newBuilder(t, okImporter, "")
	b.Slot.Prepare()
	host := &orchestratortest.Host{}

	s := build(t, b, host)
	btn := s.GUI().Control(ButtonLose)
	require.NotNil(t, btn)
	assert.Equal(t, "LOSE", btn.Label)
	btn.Activate()

	assert.Equal(t, []state.Action{state.ActionLose}, host.Actions())
}

func TestBuild_MovementDrivesRig(t *testing.T) {
	b := newBuilder(t, okImporter, "")
	b.Slot.Prepare()
	s := build(t, b, &orchestratortest.Host{})
	player := s.Mesh(MeshPlayer)

	for i := 0; i < 60; i++ {
		s.Update(1.0/60, scene.Input{MoveX: 1})
	}

	pos := player.Node.WorldPosition()
	assert.Greater(t, pos.X(), float32(4))
	assert.LessOrEqual(t, pos.X(), float32(defaultSpeed))
	assert.InDelta(t, 0, pos.Z(), 1e-4)

	// The camera keeps looking at the rig root.
	root := player.Node.Parent()
	assert.True(t, s.ActiveCamera().Target().ApproxEqual(root.WorldPosition()))
}

func TestPlayer_MoveNormalisesAndClamps(t *testing.T) {
	p := &Player{Speed: 10}

	p.Move(1, scene.Input{MoveX: 1, MoveZ: 1})
	assert.InDelta(t, 10, p.Position.Len(), 1e-4)

	for i := 0; i < 10; i++ {
		p.Move(1, scene.Input{MoveX: 1})
	}
	assert.Equal(t, float32(groundSize/2), p.Position.X())
}
