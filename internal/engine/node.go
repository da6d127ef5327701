package engine

import "github.com/go-gl/mathgl/mgl32"

// Node is a transform in the scene graph.
// World transforms are always derived from the parent chain; nothing is cached.
type Node struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scaling  mgl32.Vec3

	parent   *Node
	children []*Node
}

// NewNode creates an identity transform
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scaling:  mgl32.Vec3{1, 1, 1},
	}
}

// SetParent re-parents the node. A nil parent detaches it.
func (n *Node) SetParent(p *Node) {
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.parent = p
	if p != nil {
		p.children = append(p.children, n)
	}
}

// Parent returns the parent node, or nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children
func (n *Node) Children() []*Node {
	return n.children
}

// Local returns translation * rotation * scale
func (n *Node) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scaling.X(), n.Scaling.Y(), n.Scaling.Z())
	return t.Mul4(r).Mul4(s)
}

// World returns the node transform in world space
func (n *Node) World() mgl32.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul4(n.Local())
}

// WorldPosition returns the translation part of World
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.World().Col(3).Vec3()
}
