package engine

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is importable geometry: positions plus a triangle list.
// Edges is the line list used by the renderer; it is derived on upload
// when only triangles are present.
type MeshData struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
	Edges     [][2]uint32
}

// Validate checks that every index is in range
func (d *MeshData) Validate() error {
	if len(d.Positions) == 0 {
		return errors.New("mesh has no positions")
	}
	n := uint32(len(d.Positions))
	if len(d.Indices)%3 != 0 {
		return fmt.Errorf("triangle index count %d is not a multiple of 3", len(d.Indices))
	}
	for _, i := range d.Indices {
		if i >= n {
			return fmt.Errorf("index %d out of range (%d positions)", i, n)
		}
	}
	for _, e := range d.Edges {
		if e[0] >= n || e[1] >= n {
			return fmt.Errorf("edge %v out of range (%d positions)", e, n)
		}
	}
	return nil
}

// BuildEdges derives a deduplicated edge list from the triangle list.
// Existing edges are kept.
func (d *MeshData) BuildEdges() {
	if len(d.Edges) > 0 || len(d.Indices) == 0 {
		return
	}
	seen := make(map[[2]uint32]struct{}, len(d.Indices))
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		k := [2]uint32{a, b}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		d.Edges = append(d.Edges, k)
	}
	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
}

// Clone returns a deep copy
func (d *MeshData) Clone() *MeshData {
	c := &MeshData{Name: d.Name}
	c.Positions = append([]mgl32.Vec3(nil), d.Positions...)
	c.Indices = append([]uint32(nil), d.Indices...)
	c.Edges = append([][2]uint32(nil), d.Edges...)
	return c
}

// Bounds returns the axis aligned bounding box of the positions
func (d *MeshData) Bounds() (lo, hi mgl32.Vec3) {
	if len(d.Positions) == 0 {
		return lo, hi
	}
	lo, hi = d.Positions[0], d.Positions[0]
	for _, p := range d.Positions[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

// BoxData creates an axis aligned cube of the given edge size centred on the origin
func BoxData(name string, size float32) *MeshData {
	h := size / 2
	d := &MeshData{Name: name}
	for _, z := range []float32{-h, h} {
		for _, y := range []float32{-h, h} {
			for _, x := range []float32{-h, h} {
				d.Positions = append(d.Positions, mgl32.Vec3{x, y, z})
			}
		}
	}
	// vertex index = x + 2y + 4z
	d.Edges = [][2]uint32{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	return d
}

// BoundingBoxData creates a box mesh enclosing src
func BoundingBoxData(name string, src *MeshData) *MeshData {
	lo, hi := src.Bounds()
	d := BoxData(name, 1)
	for i, p := range d.Positions {
		d.Positions[i] = mgl32.Vec3{
			lerpf(lo.X(), hi.X(), p.X()+0.5),
			lerpf(lo.Y(), hi.Y(), p.Y()+0.5),
			lerpf(lo.Z(), hi.Z(), p.Z()+0.5),
		}
	}
	return d
}

// SphereData creates a UV sphere made of latitude and longitude rings
func SphereData(name string, diameter float32, segments int) *MeshData {
	if segments < 3 {
		segments = 3
	}
	r := diameter / 2
	rings := segments / 2
	d := &MeshData{Name: name}
	for i := 0; i <= rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		for j := 0; j < segments; j++ {
			theta := 2 * math.Pi * float64(j) / float64(segments)
			d.Positions = append(d.Positions, mgl32.Vec3{
				r * float32(math.Sin(phi)*math.Cos(theta)),
				r * float32(math.Cos(phi)),
				r * float32(math.Sin(phi)*math.Sin(theta)),
			})
		}
	}
	idx := func(i, j int) uint32 { return uint32(i*segments + j%segments) }
	for i := 0; i <= rings; i++ {
		for j := 0; j < segments; j++ {
			if i > 0 && i < rings {
				d.Edges = append(d.Edges, [2]uint32{idx(i, j), idx(i, j+1)})
			}
			if i < rings {
				d.Edges = append(d.Edges, [2]uint32{idx(i, j), idx(i+1, j)})
			}
		}
	}
	return d
}

func lerpf(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Mesh is a renderable instance of MeshData placed by a node
type Mesh struct {
	Name    string
	Node    *Node
	Data    *MeshData
	Color   color.RGBA
	Visible bool
}
