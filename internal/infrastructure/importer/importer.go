// Package importer imports glTF 2.0 models into engine mesh data.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/younwookim/stagehand/internal/engine"
)

// ErrNoGeometry is returned for documents without triangle primitives
var ErrNoGeometry = errors.New("no triangle geometry")

// Importer reads .gltf / .glb files relative to a base directory
type Importer struct {
	dir string
}

// NewImporter creates an importer rooted at dir
func NewImporter(dir string) *Importer {
	return &Importer{dir: dir}
}

// LoadModel merges every triangle primitive of every mesh into one MeshData
func (im *Importer) LoadModel(ctx context.Context, path string) (*engine.MeshData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(im.dir, path)
	}
	doc, err := gltf.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	data := &engine.MeshData{Name: modelName(doc, path)}
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := appendPrimitive(doc, prim, data); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
	}
	if len(data.Positions) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
	return data, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, data *engine.MeshData) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return errors.New("missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := uint32(len(data.Positions))
	for _, p := range positions {
		data.Positions = append(data.Positions, mgl32.Vec3{p[0], p[1], p[2]})
	}

	if prim.Indices == nil {
		for i := range positions {
			data.Indices = append(data.Indices, base+uint32(i))
		}
		return nil
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return fmt.Errorf("read indices: %w", err)
	}
	for _, i := range indices {
		data.Indices = append(data.Indices, base+i)
	}
	return nil
}

func modelName(doc *gltf.Document, path string) string {
	for _, m := range doc.Meshes {
		if m.Name != "" {
			return m.Name
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
