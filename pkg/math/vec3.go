// Package math provides the vector, quaternion and matrix types used to
// place robot links in render space.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// One is the unit scale vector.
var One = Vec3{1, 1, 1}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// HasNaN reports whether any component is NaN.
func (v Vec3) HasNaN() bool {
	return isNaN(v.X) || isNaN(v.Y) || isNaN(v.Z)
}

// ApproxEqual compares two vectors component-wise within eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	return approx(v.X, other.X, eps) && approx(v.Y, other.Y, eps) && approx(v.Z, other.Z, eps)
}

func isNaN(f float32) bool {
	return f != f
}

func approx(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}
