package geom

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float32
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalized returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Perp returns v rotated by 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a homogeneous 4D vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat22 is a 2x2 matrix in row-major order.
type Mat22 struct {
	M [4]float32
}

// Rotation returns a counter-clockwise rotation around the z axis.
func Rotation(radians float32) Mat22 {
	s, c := math.Sincos(float64(radians))
	return Mat22{M: [4]float32{
		float32(c), float32(-s),
		float32(s), float32(c),
	}}
}

// MulVec2 applies the matrix to v.
func (m Mat22) MulVec2(v Vec2) Vec2 {
	return Vec2{
		X: m.M[0]*v.X + m.M[1]*v.Y,
		Y: m.M[2]*v.X + m.M[3]*v.Y,
	}
}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * (math.Pi / 180)
}
