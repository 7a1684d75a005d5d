// Package urdf defines the robot description model and the conversions
// from its loosely typed source form into render-space values.
package urdf

// JointType enumerates the joint kinds of a robot description.
type JointType string

// Joint types. Only revolute and continuous joints are articulated.
const (
	JointFixed      JointType = "fixed"
	JointRevolute   JointType = "revolute"
	JointContinuous JointType = "continuous"
	JointPrismatic  JointType = "prismatic"
	JointPlanar     JointType = "planar"
	JointFloating   JointType = "floating"
)

// Articulated reports whether joints of this type get an interactive control.
func (t JointType) Articulated() bool {
	return t == JointRevolute || t == JointContinuous
}

// Robot is the normalized robot model. The slices are never nil after
// normalization.
type Robot struct {
	Name      string     `json:"name,omitempty"`
	Version   string     `json:"version,omitempty"`
	Materials []Material `json:"material"`
	Links     []Link     `json:"link"`
	Joints    []Joint    `json:"joint"`
}

// ColorSpec holds an "r g b a" string.
type ColorSpec struct {
	RGBA string `json:"rgba,omitempty"`
}

// Texture references an image asset.
type Texture struct {
	Filename string `json:"filename,omitempty"`
}

// Material is a named appearance shared by visuals.
type Material struct {
	Name    string     `json:"name,omitempty"`
	Color   *ColorSpec `json:"color,omitempty"`
	Texture *Texture   `json:"texture,omitempty"`
}

// MaterialReference points at a Material by name.
type MaterialReference struct {
	Name string `json:"name,omitempty"`
}

// Box geometry; Size is "x y z".
type Box struct {
	Size string `json:"size,omitempty"`
}

// Cylinder geometry.
type Cylinder struct {
	Radius string `json:"radius,omitempty"`
	Length string `json:"length,omitempty"`
}

// Sphere geometry.
type Sphere struct {
	Radius string `json:"radius,omitempty"`
}

// MeshRef references an external mesh file with an optional "x y z" scale.
type MeshRef struct {
	Filename string `json:"filename,omitempty"`
	Scale    string `json:"scale,omitempty"`
}

// Geometry holds the shape of a visual. At most one field drives
// mesh construction.
type Geometry struct {
	Box      *Box      `json:"box,omitempty"`
	Cylinder *Cylinder `json:"cylinder,omitempty"`
	Mesh     *MeshRef  `json:"mesh,omitempty"`
	Sphere   *Sphere   `json:"sphere,omitempty"`
}

// Origin is a static offset; both fields are optional.
type Origin struct {
	XYZ string `json:"xyz,omitempty"`
	RPY string `json:"rpy,omitempty"`
}

// Visual describes how a link is drawn.
type Visual struct {
	Geometry *Geometry          `json:"geometry,omitempty"`
	Material *MaterialReference `json:"material,omitempty"`
	Origin   *Origin            `json:"origin,omitempty"`
}

// Link is a rigid body. Its name identifies its mesh in the scene.
type Link struct {
	Name   string  `json:"name,omitempty"`
	Visual *Visual `json:"visual,omitempty"`
}

// LinkRef names a link from a joint.
type LinkRef struct {
	Link string `json:"link,omitempty"`
}

// Axis is the "x y z" rotation axis of a joint.
type Axis struct {
	XYZ string `json:"xyz,omitempty"`
}

// Limit holds the joint range in radians.
type Limit struct {
	Lower string `json:"lower,omitempty"`
	Upper string `json:"upper,omitempty"`
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string    `json:"name,omitempty"`
	Type   JointType `json:"type,omitempty"`
	Origin *Origin   `json:"origin,omitempty"`
	Parent *LinkRef  `json:"parent,omitempty"`
	Child  *LinkRef  `json:"child,omitempty"`
	Axis   *Axis     `json:"axis,omitempty"`
	Limit  *Limit    `json:"limit,omitempty"`
}

// Geometry returns the visual geometry of the link, or nil.
func (l *Link) Geometry() *Geometry {
	if l.Visual == nil {
		return nil
	}
	return l.Visual.Geometry
}

// MeshFilename returns the external mesh file of the link, or "".
func (l *Link) MeshFilename() string {
	g := l.Geometry()
	if g == nil || g.Mesh == nil {
		return ""
	}
	return g.Mesh.Filename
}

// MaterialName returns the referenced material name, or "".
func (l *Link) MaterialName() string {
	if l.Visual == nil || l.Visual.Material == nil {
		return ""
	}
	return l.Visual.Material.Name
}

// ParentLink returns the parent link name, or "".
func (j *Joint) ParentLink() string {
	if j.Parent == nil {
		return ""
	}
	return j.Parent.Link
}

// ChildLink returns the child link name, or "".
func (j *Joint) ChildLink() string {
	if j.Child == nil {
		return ""
	}
	return j.Child.Link
}
