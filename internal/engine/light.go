package engine

import "github.com/go-gl/mathgl/mgl32"

// LightKind selects how a light contributes to shading
type LightKind int

const (
	LightHemispheric LightKind = iota
	LightDirectional
)

// Light is a scene light. The wireframe renderer only uses Intensity and
// Direction to shade edges, so lights stay cheap.
type Light struct {
	Name      string
	Kind      LightKind
	Direction mgl32.Vec3
	Intensity float32

	// ShadowCasters lists meshes registered as shadow casters
	ShadowCasters []*Mesh
}

// AddShadowCaster registers m with the light
func (l *Light) AddShadowCaster(m *Mesh) {
	l.ShadowCasters = append(l.ShadowCasters, m)
}

// contribution returns how much the light brightens a surface facing normal
func (l *Light) contribution(normal mgl32.Vec3) float32 {
	dir := l.Direction
	if dir.Len() == 0 {
		return 0
	}
	dir = dir.Normalize()
	switch l.Kind {
	case LightHemispheric:
		// Sky light: full from the direction, half from the opposite side.
		return l.Intensity * (0.5 + 0.5*normal.Dot(dir))
	default:
		d := -normal.Dot(dir)
		if d < 0 {
			d = 0
		}
		return l.Intensity * d
	}
}
