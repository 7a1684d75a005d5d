package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOBJ is returned for malformed Wavefront OBJ data.
var ErrInvalidOBJ = errors.New("invalid OBJ data")

// ParseOBJ parses the geometry of a Wavefront OBJ file. Polygons are
// triangulated as fans; texture coordinates, normals and materials are
// ignored.
func ParseOBJ(data []byte) (*Mesh, error) {
	m := &Mesh{}
	var positions [][3]float32
	verts := newVertexSet(m)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "o":
			if m.Name == "" && len(fields) > 1 {
				m.Name = fields[1]
			}
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrInvalidOBJ, line)
			}
			var p [3]float32
			for c := range p {
				f, err := strconv.ParseFloat(fields[c+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, line, err)
				}
				p[c] = float32(f)
			}
			positions = append(positions, p)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 vertices", ErrInvalidOBJ, line)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := objIndex(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, line, err)
				}
				face = append(face, verts.add(positions[idx]))
			}
			for i := 1; i+1 < len(face); i++ {
				m.Indices = append(m.Indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// objIndex resolves a "v/vt/vn" reference to a zero-based position index.
// Negative indices count back from the last vertex.
func objIndex(ref string, count int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	}
	return 0, fmt.Errorf("vertex index %d out of range (%d vertices)", n, count)
}
