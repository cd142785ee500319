package geom

// Affine is a 2D affine transform used for texture coordinates.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	u' = a*u + b*v + c
//	v' = d*u + e*v + f
type Affine struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation transform.
func Translate(x, y float32) Affine {
	return Affine{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling transform.
func Scale(x, y float32) Affine {
	return Affine{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// SubRect maps the unit square onto the rectangle (x, y, w, h) of a
// texture that is texW by texH texels. It is the UV transform of an atlas
// region.
func SubRect(x, y, w, h, texW, texH int) Affine {
	if texW <= 0 || texH <= 0 {
		return Identity()
	}
	fw, fh := float32(texW), float32(texH)
	return Affine{
		A: float32(w) / fw, B: 0, C: float32(x) / fw,
		D: 0, E: float32(h) / fh, F: float32(y) / fh,
	}
}

// Multiply returns m * other, which applies other first.
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply transforms p.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// WithScaling returns m with a scale applied before it.
func (m Affine) WithScaling(x, y float32) Affine {
	return m.Multiply(Scale(x, y))
}

// WithTranslation returns a translation applied after m.
func (m Affine) WithTranslation(x, y float32) Affine {
	return Translate(x, y).Multiply(m)
}

// IsIdentity reports whether m is the identity transform.
func (m Affine) IsIdentity() bool {
	return m == Identity()
}
