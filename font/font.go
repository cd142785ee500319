// Package font lays out text as textured quads.
//
// A Font maps runes to glyph rectangles in a texture. Fonts come from
// bitmap descriptions (`<name>.font.yaml`) or are rasterised from OpenType
// data into an atlas image. Layout produces quads in a box whose origin is
// the bottom-left corner, with y pointing up.
package font

import (
	"image"
	"strings"

	"github.com/gogpu/quad/geom"
	"golang.org/x/text/unicode/norm"
)

// DefaultFallback is the rune drawn for runes a font does not have.
const DefaultFallback = '?'

// Glyph is one rune of a font.
type Glyph struct {
	Rune    rune
	Rect    image.Rectangle // texels in the font texture, y down
	Advance float32         // pen movement after the glyph
	Offset  geom.Vec2       // bottom-left of the quad relative to the pen on the line bottom
	UV      geom.Affine     // maps the unit square onto Rect
}

// Size returns the quad size of the glyph.
func (g Glyph) Size() geom.Vec2 {
	return geom.V2(float32(g.Rect.Dx()), float32(g.Rect.Dy()))
}

// Kerner returns the extra advance between two consecutive runes.
type Kerner func(a, b rune) float32

// Font is a set of glyphs sharing one texture.
type Font struct {
	Name       string
	Texture    string // texture name in the renderer's registry
	LineHeight float32
	Fallback   rune

	glyphs  map[rune]Glyph
	kerning map[[2]rune]float32
	kerner  Kerner
}

// New returns an empty font drawing from the named texture.
func New(name, texture string, lineHeight float32) *Font {
	return &Font{
		Name:       name,
		Texture:    texture,
		LineHeight: lineHeight,
		Fallback:   DefaultFallback,
		glyphs:     make(map[rune]Glyph),
		kerning:    make(map[[2]rune]float32),
	}
}

// AddGlyph adds or replaces the glyph for g.Rune.
func (f *Font) AddGlyph(g Glyph) { f.glyphs[g.Rune] = g }

// Glyph returns the glyph for r without fallback.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// Len returns the number of glyphs.
func (f *Font) Len() int { return len(f.glyphs) }

// SetKerning sets the adjustment between a and b.
func (f *Font) SetKerning(a, b rune, amount float32) {
	f.kerning[[2]rune{a, b}] = amount
}

// SetKerner installs a function consulted for pairs without a table entry.
func (f *Font) SetKerner(k Kerner) { f.kerner = k }

// Kerning returns the adjustment between a and b.
func (f *Font) Kerning(a, b rune) float32 {
	if k, ok := f.kerning[[2]rune{a, b}]; ok {
		return k
	}
	if f.kerner != nil {
		return f.kerner(a, b)
	}
	return 0
}

// SetTextureSize recomputes every glyph's UV for a texture of w x h texels.
func (f *Font) SetTextureSize(w, h int) {
	for r, g := range f.glyphs {
		g.UV = geom.SubRect(g.Rect.Min.X, g.Rect.Min.Y, g.Rect.Dx(), g.Rect.Dy(), w, h)
		f.glyphs[r] = g
	}
}

func (f *Font) lookup(r rune) (Glyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, true
	}
	g, ok := f.glyphs[f.Fallback]
	return g, ok
}

// Quad is one glyph placed by Layout.
type Quad struct {
	Pos  geom.Vec2 // centre
	Size geom.Vec2
	UV   geom.Affine
}

// Layout is laid out text.
type Layout struct {
	Quads []Quad
	Size  geom.Vec2
}

// Layout places text. The text is NFC normalised first; lines are separated
// by '\n' and stack downwards. Runes without a glyph use the fallback glyph
// or are skipped when the font has none.
func (f *Font) Layout(text string) Layout {
	text = norm.NFC.String(text)
	lines := strings.Split(text, "\n")
	height := float32(len(lines)) * f.LineHeight

	var l Layout
	var width float32
	for i, line := range lines {
		bottom := height - float32(i+1)*f.LineHeight
		var pen float32
		prev := rune(-1)
		for _, r := range line {
			if r == '\r' {
				continue
			}
			g, ok := f.lookup(r)
			if !ok {
				continue
			}
			if prev >= 0 {
				pen += f.Kerning(prev, r)
			}
			if !g.Rect.Empty() {
				size := g.Size()
				l.Quads = append(l.Quads, Quad{
					Pos:  geom.V2(pen+g.Offset.X+size.X/2, bottom+g.Offset.Y+size.Y/2),
					Size: size,
					UV:   g.UV,
				})
			}
			pen += g.Advance
			prev = r
		}
		width = max(width, pen)
	}
	l.Size = geom.V2(width, height)
	return l
}
