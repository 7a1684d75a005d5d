package headless

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/formats"
	"github.com/Faultbox/urdf-preview/pkg/math"
)

// Kind identifies how a node was created.
type Kind string

// Node kinds.
const (
	KindBox       Kind = "box"
	KindCylinder  Kind = "cylinder"
	KindSphere    Kind = "sphere"
	KindTransform Kind = "transform"
	KindMesh      Kind = "mesh"
)

// Node is an in-memory scene node. It implements both render.Node and
// render.Mesh; transforms simply never get a material.
type Node struct {
	name     string
	kind     Kind
	parent   *Node
	position math.Vec3
	rotation math.Quat
	scaling  math.Vec3
	material *Material
	disposed bool

	// Dimensions holds the construction parameters of primitives:
	// width/height/depth for boxes, height/diameter for cylinders and
	// diameter/segments for spheres.
	Dimensions []float32
	// Geometry is the decoded file of loaded meshes.
	Geometry *formats.Mesh
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		name:     name,
		kind:     kind,
		rotation: math.QuatIdentity(),
		scaling:  math.One,
	}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Kind returns how the node was created.
func (n *Node) Kind() Kind { return n.kind }

// Parent implements render.Node.
func (n *Node) Parent() render.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode returns the concrete parent, or nil.
func (n *Node) ParentNode() *Node { return n.parent }

// SetParent implements render.Node. Nodes from other engines are ignored.
func (n *Node) SetParent(p render.Node) {
	if p == nil {
		n.parent = nil
		return
	}
	if pn, ok := p.(*Node); ok {
		n.parent = pn
	}
}

func (n *Node) Position() math.Vec3     { return n.position }
func (n *Node) SetPosition(p math.Vec3) { n.position = p }
func (n *Node) Rotation() math.Quat     { return n.rotation }
func (n *Node) SetRotation(q math.Quat) { n.rotation = q }
func (n *Node) Scaling() math.Vec3      { return n.scaling }
func (n *Node) SetScaling(s math.Vec3)  { n.scaling = s }

// Material implements render.Mesh.
func (n *Node) Material() render.Material {
	if n.material == nil {
		return nil
	}
	return n.material
}

// SetMaterial implements render.Mesh.
func (n *Node) SetMaterial(m render.Material) {
	if m == nil {
		n.material = nil
		return
	}
	if mm, ok := m.(*Material); ok {
		n.material = mm
	}
}

// MaterialState returns the concrete material, or nil.
func (n *Node) MaterialState() *Material { return n.material }

// Dispose detaches the node. A disposed mesh also releases its material.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	if n.material != nil {
		n.material.Dispose()
	}
}

// Disposed reports whether Dispose was called.
func (n *Node) Disposed() bool { return n.disposed }

// LocalMatrix returns translation * rotation * scaling.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	return mgl32.Mat4(math.Compose(n.position, n.rotation, n.scaling))
}

// WorldMatrix composes the local matrices from the root down.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() math.Vec3 {
	return math.Mat4(n.WorldMatrix()).Translation()
}

// Root returns the top-most ancestor, or n itself.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}
