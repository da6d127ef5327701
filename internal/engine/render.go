package engine

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// project maps a world position to screen pixels.
// ok is false for points behind the camera.
func project(vp mgl32.Mat4, p mgl32.Vec3, w, h int) (x, y float32, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X() + 1) / 2 * float32(w)
	y = (1 - ndc.Y()) / 2 * float32(h)
	return x, y, true
}

// shade scales c by the summed light contribution for an upward facing surface
func shade(c color.RGBA, lights []*Light) color.RGBA {
	if len(lights) == 0 {
		return c
	}
	var k float32 = 0.2
	up := mgl32.Vec3{0, 1, 0}
	for _, l := range lights {
		k += l.contribution(up)
	}
	k = mgl32.Clamp(k, 0.2, 1)
	return color.RGBA{
		R: uint8(float32(c.R) * k),
		G: uint8(float32(c.G) * k),
		B: uint8(float32(c.B) * k),
		A: c.A,
	}
}

func drawMeshes(screen *ebiten.Image, cam *Camera, lights []*Light, meshes []*Mesh) {
	if cam == nil {
		return
	}
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	vp := cam.ViewProjection(float32(w) / float32(h))

	for _, m := range meshes {
		if !m.Visible || m.Data == nil {
			continue
		}
		mvp := vp.Mul4(m.Node.World())
		clr := shade(m.Color, lights)
		pos := m.Data.Positions
		for _, e := range m.Data.Edges {
			x0, y0, ok0 := project(mvp, pos[e[0]], w, h)
			x1, y1, ok1 := project(mvp, pos[e[1]], w, h)
			if !ok0 || !ok1 {
				continue
			}
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}
	}
}
