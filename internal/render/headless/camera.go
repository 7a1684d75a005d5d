package headless

import (
	gomath "math"

	"github.com/Faultbox/urdf-preview/pkg/math"
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Radius float32
	Alpha  float32 // Horizontal angle (radians)
	Beta   float32 // Vertical angle from the up axis (radians)

	// Constraints
	MinRadius float32
	MaxRadius float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Radius:          3,
		MinRadius:       2,
		MaxRadius:       10,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.01,
	}
	c.Reset()
	return c
}

// Reset implements render.Camera. The radius is kept.
func (c *OrbitCamera) Reset() {
	c.Alpha = 0
	c.Beta = gomath.Pi / 4
	c.Target = math.Vec3{}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinB := gomath.Sin(float64(c.Beta))
	x := c.Radius * float32(gomath.Cos(float64(c.Alpha))*sinB)
	y := c.Radius * float32(gomath.Cos(float64(c.Beta)))
	z := c.Radius * float32(gomath.Sin(float64(c.Alpha))*sinB)
	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// HandleDrag updates the angles based on a pointer drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Alpha -= deltaX * c.DragSensitivity
	c.Beta -= deltaY * c.DragSensitivity

	// Keep away from the poles
	const eps = 0.01
	if c.Beta < eps {
		c.Beta = eps
	}
	if c.Beta > gomath.Pi-eps {
		c.Beta = gomath.Pi - eps
	}
}

// HandleZoom updates the radius based on a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Radius -= delta * c.ZoomSensitivity
	if c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
}
