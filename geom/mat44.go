package geom

// Mat44 is a 4x4 matrix stored row-major and applied to column vectors.
// Translation lives in M[3], M[7] and M[11].
type Mat44 struct {
	M [16]float32
}

// Ident44 returns the 4x4 identity.
func Ident44() Mat44 {
	return Mat44{M: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translation returns a translation by v.
func Translation(v Vec3) Mat44 {
	return Mat44{M: [16]float32{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}}
}

// Scaling returns a uniform scale on x, y and z.
func Scaling(s float32) Mat44 {
	return Mat44{M: [16]float32{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}}
}

// Ortho returns an orthographic projection mapping the given box to clip
// space.
func Ortho(left, right, bottom, top, near, far float32) Mat44 {
	rml := right - left
	tmb := top - bottom
	fmn := far - near
	return Mat44{M: [16]float32{
		2 / rml, 0, 0, -(right + left) / rml,
		0, 2 / tmb, 0, -(top + bottom) / tmb,
		0, 0, 2 / fmn, -(far + near) / fmn,
		0, 0, 0, 1,
	}}
}

// Mul returns m * o.
func (m Mat44) Mul(o Mat44) Mat44 {
	var r Mat44
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.M[row*4+k] * o.M[k*4+col]
			}
			r.M[row*4+col] = sum
		}
	}
	return r
}

// MulVec4 returns m * v.
func (m Mat44) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m.M[0]*v.X + m.M[1]*v.Y + m.M[2]*v.Z + m.M[3]*v.W,
		Y: m.M[4]*v.X + m.M[5]*v.Y + m.M[6]*v.Z + m.M[7]*v.W,
		Z: m.M[8]*v.X + m.M[9]*v.Y + m.M[10]*v.Z + m.M[11]*v.W,
		W: m.M[12]*v.X + m.M[13]*v.Y + m.M[14]*v.Z + m.M[15]*v.W,
	}
}

// MulVec2 transforms the point (v.X, v.Y, 0, 1) and drops z and w.
func (m Mat44) MulVec2(v Vec2) Vec2 {
	r := m.MulVec4(Vec4{X: v.X, Y: v.Y, Z: 0, W: 1})
	return Vec2{X: r.X, Y: r.Y}
}

// Transposed returns the transpose of m. Shader uniforms expect
// column-major storage, which is the transpose of this layout.
func (m Mat44) Transposed() Mat44 {
	var r Mat44
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r.M[col*4+row] = m.M[row*4+col]
		}
	}
	return r
}
