package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera projects the scene from the world position of its node
type Camera struct {
	Name string
	Node *Node

	FOV       float32 // vertical, radians
	Near, Far float32

	target     mgl32.Vec3
	targetNode *Node
}

func newCamera(name string, node *Node) *Camera {
	return &Camera{
		Name: name,
		Node: node,
		FOV:  mgl32.DegToRad(60),
		Near: 0.1,
		Far:  1000,
	}
}

// SetTarget makes the camera look at a fixed world position
func (c *Camera) SetTarget(v mgl32.Vec3) {
	c.target = v
	c.targetNode = nil
}

// LockTarget makes the camera track the world position of n
func (c *Camera) LockTarget(n *Node) {
	c.targetNode = n
}

// Target returns the world position the camera looks at
func (c *Camera) Target() mgl32.Vec3 {
	if c.targetNode != nil {
		return c.targetNode.WorldPosition()
	}
	return c.target
}

// Eye returns the camera world position
func (c *Camera) Eye() mgl32.Vec3 {
	return c.Node.WorldPosition()
}

// View returns the look-at matrix
func (c *Camera) View() mgl32.Mat4 {
	eye := c.Eye()
	center := c.Target()
	if eye.ApproxEqual(center) {
		// Degenerate look-at; keep looking down -Z.
		center = eye.Add(mgl32.Vec3{0, 0, -1})
	}
	return mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection * view for the given aspect ratio
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
	return proj.Mul4(c.View())
}
