package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// buildSyntheticSTL creates a binary STL with the given triangles.
func buildSyntheticSTL(header string, tris [][3][3]float32) []byte {
	var buf bytes.Buffer
	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(&buf, binary.LittleEndian, [3]float32{}) // normal
		for _, v := range tri {
			binary.Write(&buf, binary.LittleEndian, v)
		}
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

var quad = [][3][3]float32{
	{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

func TestParseSTL_Binary(t *testing.T) {
	data := buildSyntheticSTL("quad", quad)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if m.Name != "quad" {
		t.Errorf("expected name 'quad', got %q", m.Name)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	// Shared corners are deduplicated
	if len(m.Vertices) != 4 {
		t.Errorf("expected 4 unique vertices, got %d", len(m.Vertices))
	}
	min, max := m.Bounds()
	if min != [3]float32{0, 0, 0} || max != [3]float32{1, 1, 0} {
		t.Errorf("unexpected bounds %v %v", min, max)
	}
}

func TestParseSTL_BinaryWithSolidHeader(t *testing.T) {
	// Binary exporters sometimes write "solid" into the header.
	data := buildSyntheticSTL("solid exported", quad)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
}

func TestParseSTL_Truncated(t *testing.T) {
	_, err := ParseSTL([]byte("short"))
	if err != ErrTruncatedSTLData {
		t.Errorf("expected ErrTruncatedSTLData, got %v", err)
	}

	data := buildSyntheticSTL("quad", quad)
	_, err = ParseSTL(data[:len(data)-10])
	if !errors.Is(err, ErrTruncatedSTLData) {
		t.Errorf("expected ErrTruncatedSTLData, got %v", err)
	}
}

const asciiTriangle = `solid gripper
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0.5
    endloop
  endfacet
endsolid gripper
`

func TestParseSTL_ASCII(t *testing.T) {
	m, err := ParseSTL([]byte(asciiTriangle))
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if m.Name != "gripper" {
		t.Errorf("expected name 'gripper', got %q", m.Name)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if got := m.Vertices[m.Indices[2]]; got != [3]float32{0, 1, 0.5} {
		t.Errorf("third vertex = %v", got)
	}
}

func TestParseSTL_ASCIIInvalid(t *testing.T) {
	tests := map[string]string{
		"bad number":   "solid x\nfacet normal 0 0 1\nouter loop\nvertex a 0 0\n",
		"short vertex": "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0\n",
		"two vertices": "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\n",
		"unfinished":   "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSTL([]byte(src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSTL_PreservesNaNBits(t *testing.T) {
	nan := float32(math.NaN())
	data := buildSyntheticSTL("nan", [][3][3]float32{{{nan, 0, 0}, {1, 0, 0}, {0, 1, 0}}})
	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if v := m.Vertices[m.Indices[0]][0]; v == v {
		t.Errorf("expected NaN coordinate, got %v", v)
	}
}
