// Package color defines the vertex color type used by the renderer.
package color

import (
	stdcolor "image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// Color is an RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// RGBA creates a color from float components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGBA8 creates a color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// Gray returns a color with all four components set to v.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: v}
}

// HSV creates an opaque color from hue in degrees, saturation and value.
func HSV(h, s, v float32) Color {
	if s <= 0 {
		return Color{R: v, G: v, B: v, A: 1}
	}
	hh := float32(math.Mod(float64(h), 360)) / 60
	i := int(math.Floor(float64(hh)))
	ff := hh - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*ff)
	t := v * (1 - s*(1-ff))

	switch i {
	case 0:
		return Color{v, t, p, 1}
	case 1:
		return Color{q, v, p, 1}
	case 2:
		return Color{p, v, t, 1}
	case 3:
		return Color{p, q, v, 1}
	case 4:
		return Color{t, p, v, 1}
	default:
		return Color{v, p, q, 1}
	}
}

// Rainbow returns the fully saturated color at hue h.
func Rainbow(h float32) Color { return HSV(h, 1, 1) }

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA".
func Hex(hex string) Color {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return Black
	}
	return RGBA8(uint8(r), uint8(g), uint8(b), uint8(a))
}

func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Array returns the components as a vertex attribute.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Packed returns the color as 0xRRGGBBAA.
func (c Color) Packed() uint32 {
	return uint32(to8(c.R))<<24 | uint32(to8(c.G))<<16 | uint32(to8(c.B))<<8 | uint32(to8(c.A))
}

// Std converts c to a non-premultiplied standard library color.
func (c Color) Std() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// GPU converts c to the clear color type used by backends.
func (c Color) GPU() gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// FromGPU converts a backend color back to Color.
func FromGPU(c gputypes.Color) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(c.A)}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
