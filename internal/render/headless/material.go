package headless

import "github.com/Faultbox/urdf-preview/internal/render"

// Material is an in-memory render.Material.
type Material struct {
	name     string
	diffuse  [3]float32
	alpha    float32
	texture  string
	zOffset  float32
	disposed bool
}

func newMaterial(name string) *Material {
	return &Material{name: name, diffuse: [3]float32{1, 1, 1}, alpha: 1}
}

func (m *Material) Name() string { return m.name }

// Clone implements render.Material.
func (m *Material) Clone(name string) render.Material {
	c := *m
	c.name = name
	c.disposed = false
	return &c
}

func (m *Material) Diffuse() (r, g, b float32) {
	return m.diffuse[0], m.diffuse[1], m.diffuse[2]
}

func (m *Material) SetDiffuse(r, g, b float32) { m.diffuse = [3]float32{r, g, b} }
func (m *Material) Alpha() float32             { return m.alpha }
func (m *Material) SetAlpha(a float32)         { m.alpha = a }
func (m *Material) Texture() string            { return m.texture }
func (m *Material) SetTexture(uri string)      { m.texture = uri }
func (m *Material) ZOffset() float32           { return m.zOffset }
func (m *Material) SetZOffset(z float32)       { m.zOffset = z }
func (m *Material) Dispose()                   { m.disposed = true }
func (m *Material) Disposed() bool             { return m.disposed }
