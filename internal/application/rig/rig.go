// Package rig implements the follow camera attached to the player.
//
// The rig is a three node hierarchy:
//
//	root   world position of the followed subject (smoothed)
//	 tilt  fixed pitch
//	  cam  fixed offset, looks at root
//
// The camera transform is fully determined by the root position and the
// two constants; the rig keeps no other camera state.
package rig

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/younwookim/stagehand/internal/engine"
)

// Config holds the rig constants
type Config struct {
	EyeHeight float32
	Smoothing float32 // lerp factor per update, in (0, 1]
	Tilt      float32 // radians around X
	Offset    mgl32.Vec3
}

// DefaultConfig returns the shipped rig constants
func DefaultConfig() Config {
	return Config{
		EyeHeight: 2,
		Smoothing: 0.4,
		Tilt:      mgl32.DegToRad(30),
		Offset:    mgl32.Vec3{0, 0, -30},
	}
}

// PlayerRig is the camera-follow transform hierarchy
type PlayerRig struct {
	cfg Config

	Root   *engine.Node
	Tilt   *engine.Node
	Camera *engine.Camera

	subject *engine.Node
}

// New builds the rig in s, parents subject under the root and makes the rig
// camera the active camera.
func New(s *engine.Scene, subject *engine.Node, cfg Config) *PlayerRig {
	root := engine.NewNode("rig_root")

	tilt := engine.NewNode("rig_tilt")
	tilt.Rotation = mgl32.QuatRotate(cfg.Tilt, mgl32.Vec3{1, 0, 0})
	tilt.SetParent(root)

	camNode := engine.NewNode("rig_camera")
	camNode.Position = cfg.Offset
	camNode.SetParent(tilt)

	cam := s.CreateCamera("rig_camera", camNode)
	cam.LockTarget(root)
	s.SetActiveCamera(cam)

	if subject != nil {
		// The visual rides on the root, so cancel the eye height.
		subject.SetParent(root)
		subject.Position = mgl32.Vec3{0, -cfg.EyeHeight, 0}
	}

	return &PlayerRig{
		cfg:     cfg,
		Root:    root,
		Tilt:    tilt,
		Camera:  cam,
		subject: subject,
	}
}

// Subject returns the node attached to the rig root
func (r *PlayerRig) Subject() *engine.Node {
	return r.subject
}

// Update moves the root toward the tracked position lifted by the eye height
func (r *PlayerRig) Update(tracked mgl32.Vec3) {
	target := tracked.Add(mgl32.Vec3{0, r.cfg.EyeHeight, 0})
	r.Root.Position = Lerp(r.Root.Position, target, r.cfg.Smoothing)
}

// Lerp interpolates linearly between a and b
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
