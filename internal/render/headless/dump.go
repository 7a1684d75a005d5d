package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/urdf-preview/pkg/math"
)

// Dump writes the live scene graph as an indented tree.
func (e *Engine) Dump(w io.Writer) error {
	for _, root := range e.Roots() {
		if err := e.dump(w, root, 0); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) dump(w io.Writer, n *Node, depth int) error {
	p := n.WorldPosition()
	line := fmt.Sprintf("%s%s [%s] at (%.3f, %.3f, %.3f)",
		strings.Repeat("  ", depth), n.name, n.kind, p.X, p.Y, p.Z)
	if q := n.rotation; !q.ApproxEqual(math.QuatIdentity(), 1e-6) {
		line += fmt.Sprintf(" rot=(%.3f, %.3f, %.3f, %.3f)", q.X, q.Y, q.Z, q.W)
	}
	if s := n.scaling; !s.ApproxEqual(math.One, 1e-6) {
		line += fmt.Sprintf(" scale=(%.3f, %.3f, %.3f)", s.X, s.Y, s.Z)
	}
	if m := n.MaterialState(); m != nil {
		r, g, b := m.Diffuse()
		line += fmt.Sprintf(" material=%s rgb=(%.2f, %.2f, %.2f) alpha=%.2f", m.name, r, g, b, m.alpha)
		if z := m.ZOffset(); z != 0 {
			line += fmt.Sprintf(" zoffset=%g", z)
		}
	}
	if n.Geometry != nil {
		line += fmt.Sprintf(" triangles=%d", n.Geometry.TriangleCount())
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range e.Children(n) {
		if err := e.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
