// Package formats provides decoders for the mesh file formats referenced by
// robot descriptions.
package formats

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrUnsupportedMeshFormat is returned for file extensions without a decoder.
var ErrUnsupportedMeshFormat = errors.New("unsupported mesh format")

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices [][3]float32
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max [3]float32) {
	for i, v := range m.Vertices {
		for c := 0; c < 3; c++ {
			if i == 0 || v[c] < min[c] {
				min[c] = v[c]
			}
			if i == 0 || v[c] > max[c] {
				max[c] = v[c]
			}
		}
	}
	return min, max
}

// vertexSet deduplicates vertices while building an indexed mesh.
type vertexSet struct {
	mesh  *Mesh
	index map[[3]float32]uint32
}

func newVertexSet(m *Mesh) *vertexSet {
	return &vertexSet{mesh: m, index: make(map[[3]float32]uint32)}
}

func (s *vertexSet) add(v [3]float32) uint32 {
	if i, ok := s.index[v]; ok {
		return i
	}
	i := uint32(len(s.mesh.Vertices))
	s.mesh.Vertices = append(s.mesh.Vertices, v)
	s.index[v] = i
	return i
}

// Decode picks a decoder from the file name extension.
func Decode(name string, data []byte) (*Mesh, error) {
	ext := strings.ToLower(path.Ext(name))
	var (
		m   *Mesh
		err error
	)
	switch ext {
	case ".stl":
		m, err = ParseSTL(data)
	case ".obj":
		m, err = ParseOBJ(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMeshFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	return m, nil
}
