package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/math"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// initMaterials creates one base material per description material, in
// document order. Meshes get clones of these.
func (r *Renderer) initMaterials(robot *urdf.Robot) {
	for i, desc := range robot.Materials {
		m := r.engine.CreateMaterial(desc.Name)
		m.SetZOffset(float32(i))

		if desc.Color != nil {
			c := urdf.StringToColor(desc.Color.RGBA)
			if c.HasNaN() {
				r.log.Debug("incomplete color",
					zap.String("material", desc.Name), zap.String("rgba", desc.Color.RGBA))
			}
			if !c.RGB().HasNaN() {
				m.SetDiffuse(c.Red, c.Green, c.Blue)
			}
			if a := c.Alpha; a == a { // NaN when absent
				m.SetAlpha(a)
			}
		}
		if desc.Texture != nil && desc.Texture.Filename != "" {
			m.SetTexture(desc.Texture.Filename)
		}

		if old, ok := r.materials[desc.Name]; ok {
			r.log.Debug("duplicate material name, replacing", zap.String("material", desc.Name))
			old.Dispose()
		}
		r.materials[desc.Name] = m
	}
}

// initLinks builds the primitive meshes. Links whose geometry is an
// external mesh are left to loadMeshes.
func (r *Renderer) initLinks(robot *urdf.Robot) {
	for i := range robot.Links {
		link := &robot.Links[i]
		g := link.Geometry()
		if g == nil {
			continue
		}
		if link.Name == "" {
			r.log.Debug("skipping unnamed link")
			continue
		}

		var mesh render.Mesh
		switch {
		case g.Box != nil:
			mesh = r.buildBox(link.Name, g.Box)
		case g.Cylinder != nil:
			mesh = r.buildCylinder(link.Name, g.Cylinder)
		case g.Sphere != nil:
			mesh = r.buildSphere(link.Name, g.Sphere)
		default:
			continue
		}
		if mesh == nil {
			continue
		}
		r.registerMesh(link.Name, mesh)
		r.setupBaseProperties(mesh, link)
	}
}

// primitive reports whether the geometry is built synchronously.
func primitive(g *urdf.Geometry) bool {
	return g != nil && (g.Box != nil || g.Cylinder != nil || g.Sphere != nil)
}

func (r *Renderer) buildBox(name string, box *urdf.Box) render.Mesh {
	if box.Size == "" {
		r.log.Debug("skipping box without size", zap.String("link", name))
		return nil
	}
	d := urdf.StringToVector3(box.Size)
	return r.engine.CreateBox(name, d.X, d.Y, d.Z)
}

// NaN dimensions pass through; the engine builds a degenerate mesh.
func (r *Renderer) buildCylinder(name string, c *urdf.Cylinder) render.Mesh {
	height := float32(urdf.ParseFloat(c.Length))
	diameter := float32(urdf.ParseFloat(c.Radius) * 2)
	return r.engine.CreateCylinder(name, height, diameter)
}

func (r *Renderer) buildSphere(name string, s *urdf.Sphere) render.Mesh {
	diameter := float32(urdf.ParseFloat(s.Radius) * 2)
	return r.engine.CreateSphere(name, diameter, r.opts.SphereSegments)
}

// setupBaseProperties applies the visual origin and a private copy of the
// referenced material.
func (r *Renderer) setupBaseProperties(mesh render.Mesh, link *urdf.Link) {
	v := link.Visual
	if v == nil {
		return
	}
	if v.Origin != nil {
		applyOrigin(mesh, v.Origin)
	}
	if name := link.MaterialName(); name != "" {
		base, ok := r.materials[name]
		if !ok {
			r.log.Debug("unresolved material", zap.String("link", link.Name), zap.String("material", name))
			return
		}
		mesh.SetMaterial(base.Clone(name + "/" + link.Name))
	}
}

// applyOrigin sets position and rotation from an origin, skipping values
// that are absent or malformed.
func applyOrigin(n render.Node, o *urdf.Origin) {
	if o.XYZ != "" {
		if p := urdf.StringToVector3(o.XYZ); !p.HasNaN() {
			n.SetPosition(p)
		}
	}
	if q, ok := originRotation(o); ok {
		n.SetRotation(q)
	}
}

// originRotation returns the rotation described by o.RPY.
func originRotation(o *urdf.Origin) (math.Quat, bool) {
	if o == nil || o.RPY == "" {
		return math.QuatIdentity(), false
	}
	rpy := urdf.StringToOrientation(o.RPY)
	if rpy.HasNaN() {
		return math.QuatIdentity(), false
	}
	return math.QuatFromEuler(rpy.Euler()), true
}
