// Package geometry provides the trajectory math used by the motion core:
// vector primitives, best-fit plane extraction, and arc/chord angle
// conversions. All functions are pure; nothing here holds state across calls.
package geometry

import "math"

// Vec3 is a 3D vector in session-relative meters.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a point in the coordinates of a fitted plane.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector of v. The second return value is false
// when v is too short to normalize reliably.
func (v Vec3) Normalize() (Vec3, bool) {
	n := v.Norm()
	if n < normEpsilon {
		return Vec3{}, false
	}
	return v.Scale(1 / n), true
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Sub returns p - o.
func (p Vec2) Sub(o Vec2) Vec2 { return Vec2{p.X - o.X, p.Y - o.Y} }

// Norm returns the Euclidean length of p.
func (p Vec2) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and o.
func (p Vec2) Dist(o Vec2) float64 { return p.Sub(o).Norm() }

// normEpsilon is the length below which a vector is treated as zero.
const normEpsilon = 1e-12

// AngleBetween returns the angle, in degrees, between vectors u and v at a
// shared joint. The cosine is clamped to [-1, 1] before the inverse cosine so
// floating-point overshoot cannot produce a domain error.
func AngleBetween(u, v Vec2) (float64, bool) {
	nu := u.Norm()
	nv := v.Norm()
	if nu < normEpsilon || nv < normEpsilon {
		return 0, false
	}
	cos := (u.X*v.X + u.Y*v.Y) / (nu * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}
