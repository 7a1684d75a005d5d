package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrInvalidSTL       = errors.New("invalid STL data")
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + attribute count
)

// ParseSTL parses a binary or ASCII STL file.
func ParseSTL(data []byte) (*Mesh, error) {
	if isASCIISTL(data) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// isASCIISTL tells the two encodings apart. Some binary exporters also
// start their header with "solid", so a matching binary size wins.
func isASCIISTL(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return false
	}
	if len(data) >= stlHeaderSize+4 {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlTriangleSize {
			return false
		}
	}
	return true
}

func parseBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	header := bytes.TrimRight(data[:stlHeaderSize], "\x00 ")
	m := &Mesh{Name: string(header)}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*stlTriangleSize {
		return nil, fmt.Errorf("%w: %d triangles declared, %d bytes present", ErrTruncatedSTLData, count, len(body))
	}

	verts := newVertexSet(m)
	m.Indices = make([]uint32, 0, int(count)*3)
	for i := 0; i < int(count); i++ {
		tri := body[i*stlTriangleSize:]
		for v := 0; v < 3; v++ {
			var vert [3]float32
			for c := range vert {
				const start = 3 * 4 // skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(tri[start+12*v+4*c:]))
			}
			m.Indices = append(m.Indices, verts.add(vert))
		}
	}
	return m, nil
}

func parseASCIISTL(data []byte) (*Mesh, error) {
	m := &Mesh{}
	verts := newVertexSet(m)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	pending := 0
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			if m.Name == "" && len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrInvalidSTL, line)
			}
			var vert [3]float32
			for c := range vert {
				f, err := strconv.ParseFloat(fields[c+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSTL, line, err)
				}
				vert[c] = float32(f)
			}
			m.Indices = append(m.Indices, verts.add(vert))
			pending++
		case "endfacet":
			if pending != 3 {
				return nil, fmt.Errorf("%w: line %d: facet with %d vertices", ErrInvalidSTL, line, pending)
			}
			pending = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending != 0 {
		return nil, ErrTruncatedSTLData
	}
	return m, nil
}
