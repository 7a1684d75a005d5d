package headless

import (
	"github.com/Faultbox/urdf-preview/pkg/math"
)

// localExtent returns the node's bounding box in its own frame. Primitives
// are centered on their origin; cylinders stand along Y.
func (n *Node) localExtent() (min, max math.Vec3, ok bool) {
	var half math.Vec3
	switch n.kind {
	case KindBox:
		if len(n.Dimensions) < 3 {
			return min, max, false
		}
		half = math.Vec3{X: n.Dimensions[0], Y: n.Dimensions[1], Z: n.Dimensions[2]}.Scale(0.5)
	case KindCylinder:
		if len(n.Dimensions) < 2 {
			return min, max, false
		}
		r := n.Dimensions[1] / 2
		half = math.Vec3{X: r, Y: n.Dimensions[0] / 2, Z: r}
	case KindSphere:
		if len(n.Dimensions) < 1 {
			return min, max, false
		}
		r := n.Dimensions[0] / 2
		half = math.Vec3{X: r, Y: r, Z: r}
	case KindMesh:
		if n.Geometry == nil || len(n.Geometry.Vertices) == 0 {
			return min, max, false
		}
		lo, hi := n.Geometry.Bounds()
		min = math.Vec3{X: lo[0], Y: lo[1], Z: lo[2]}
		max = math.Vec3{X: hi[0], Y: hi[1], Z: hi[2]}
		return min, max, !min.HasNaN() && !max.HasNaN()
	default:
		return min, max, false
	}
	if half.HasNaN() {
		return min, max, false
	}
	return half.Scale(-1), half, true
}

// Bounds returns the world-space axis-aligned box enclosing every live
// primitive and loaded mesh. ok is false when nothing has an extent.
func (e *Engine) Bounds() (min, max math.Vec3, ok bool) {
	for _, n := range e.Nodes() {
		lo, hi, has := n.localExtent()
		if !has {
			continue
		}
		world := math.Mat4(n.WorldMatrix())
		for i := 0; i < 8; i++ {
			corner := lo
			if i&1 != 0 {
				corner.X = hi.X
			}
			if i&2 != 0 {
				corner.Y = hi.Y
			}
			if i&4 != 0 {
				corner.Z = hi.Z
			}
			p := world.TransformVec3(corner)
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			min = math.Vec3{X: min32(min.X, p.X), Y: min32(min.Y, p.Y), Z: min32(min.Z, p.Z)}
			max = math.Vec3{X: max32(max.X, p.X), Y: max32(max.Y, p.Y), Z: max32(max.Z, p.Z)}
		}
	}
	return min, max, ok
}

func min32(a, b float32) float32 {
	if b < a {
		return b
	}
	return a
}

func max32(a, b float32) float32 {
	if b > a {
		return b
	}
	return a
}
