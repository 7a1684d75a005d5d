package urdf

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	vmath "github.com/Faultbox/urdf-preview/pkg/math"
)

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseFloat interprets the longest leading decimal prefix of s, after
// leading whitespace, and returns NaN when there is none. "1.5m" is 1.5,
// "abc" and "" are NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	m := leadingFloat.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range values saturate to ±Inf or 0.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// Orientation is a roll/pitch/yaw triple in render space.
type Orientation struct {
	Roll, Yaw, Pitch float32
}

// Euler returns the render-space rotation vector {X: roll, Y: pitch, Z: yaw}.
func (o Orientation) Euler() vmath.Vec3 {
	return vmath.Vec3{X: o.Roll, Y: o.Pitch, Z: o.Yaw}
}

// HasNaN reports whether any angle is missing.
func (o Orientation) HasNaN() bool {
	return o.Euler().HasNaN()
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	Red, Green, Blue, Alpha float32
}

// HasNaN reports whether any component is missing.
func (c Color) HasNaN() bool {
	return c.Red != c.Red || c.Green != c.Green || c.Blue != c.Blue || c.Alpha != c.Alpha
}

// RGB returns the color channels without alpha.
func (c Color) RGB() vmath.Vec3 {
	return vmath.Vec3{X: c.Red, Y: c.Green, Z: c.Blue}
}

// numbers splits s on whitespace and parses exactly n values; missing
// values are NaN and extra values are ignored.
func numbers(s string, n int) []float32 {
	fields := strings.Fields(s)
	out := make([]float32, n)
	for i := range out {
		if i < len(fields) {
			out[i] = float32(ParseFloat(fields[i]))
		} else {
			out[i] = float32(math.NaN())
		}
	}
	return out
}

// StringToVector3 parses "x y z" from the Z-up description space into the
// Y-up render space by swapping the second and third values.
func StringToVector3(s string) vmath.Vec3 {
	n := numbers(s, 3)
	return vmath.Vec3{X: n[0], Y: n[2], Z: n[1]}
}

// StringToOrientation parses "roll pitch yaw" with the same axis swap as
// StringToVector3.
func StringToOrientation(s string) Orientation {
	n := numbers(s, 3)
	return Orientation{Roll: n[0], Yaw: n[1], Pitch: n[2]}
}

// StringToColor parses "r g b a" without reordering.
func StringToColor(s string) Color {
	n := numbers(s, 4)
	return Color{Red: n[0], Green: n[1], Blue: n[2], Alpha: n[3]}
}

// ScaleFactor replaces non-positive and NaN scale components with 1.
func ScaleFactor(v float32) float32 {
	if v > 0 {
		return v
	}
	return 1
}
