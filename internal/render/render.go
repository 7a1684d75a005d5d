// Package render declares the capabilities the viewer needs from a
// rendering engine and a widget toolkit. Adapters implement these for a
// concrete engine; see the headless package for an in-memory one.
package render

import (
	"github.com/Faultbox/urdf-preview/pkg/math"
)

// Node is a positioned, oriented scene node.
type Node interface {
	Name() string
	// Parent returns nil for root nodes.
	Parent() Node
	SetParent(parent Node)
	Position() math.Vec3
	SetPosition(p math.Vec3)
	Rotation() math.Quat
	SetRotation(q math.Quat)
	// Dispose removes the node from the scene. Calling it twice is a no-op.
	Dispose()
	Disposed() bool
}

// Mesh is a node carrying geometry and an optional material.
type Mesh interface {
	Node
	Scaling() math.Vec3
	SetScaling(s math.Vec3)
	// Material returns nil when the engine's default material is in use.
	Material() Material
	SetMaterial(m Material)
}

// Material describes the surface appearance of a mesh.
type Material interface {
	Name() string
	// Clone returns an independent copy with the given name.
	Clone(name string) Material
	Diffuse() (r, g, b float32)
	SetDiffuse(r, g, b float32)
	Alpha() float32
	SetAlpha(a float32)
	Texture() string
	SetTexture(uri string)
	SetZOffset(z float32)
	Dispose()
	Disposed() bool
}

// LoadFunc receives the result of an asynchronous mesh load. Exactly one
// of mesh and err is non-nil.
type LoadFunc func(mesh Mesh, err error)

// Engine constructs scene content.
type Engine interface {
	CreateBox(name string, width, height, depth float32) Mesh
	CreateCylinder(name string, height, diameter float32) Mesh
	CreateSphere(name string, diameter float32, segments int) Mesh
	CreateTransform(name string) Node
	CreateMaterial(name string) Material
	// LoadMesh fetches and decodes the mesh file at uri without blocking.
	// done is invoked exactly once, on the goroutine that owns the viewer.
	LoadMesh(name, uri string, done LoadFunc)
}

// Label is a text widget.
type Label interface {
	Text() string
	SetText(text string)
}

// Slider is a bounded numeric control.
type Slider interface {
	Min() float32
	Max() float32
	Value() float32
	// SetValue moves the slider and notifies the change handler, if any.
	SetValue(v float32)
	OnChange(fn func(v float32))
}

// Panel holds the interactive joint controls.
type Panel interface {
	AddLabel(text string) Label
	AddSlider(min, max, value float32) Slider
	Clear()
}

// Camera is the scene camera.
type Camera interface {
	Reset()
}
