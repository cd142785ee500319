// Package debugdraw collects debug lines and text during a frame and draws
// them as flat-coloured quads through a Target.
//
// Shapes are stored in world units and rendered on their own layer with
// their own effect, so they sort after (or before) regular content.
package debugdraw

import (
	"unicode/utf8"

	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/geom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CircleSegments is the number of lines approximating a circle.
const CircleSegments = 24

// Target is what debug geometry is drawn into. *quad.Renderer satisfies it.
type Target interface {
	UseLayer(layer uint8)
	UseEffect(effect uint16)
	SetColor(c color.Color)
	AddVertex(pos geom.Vec2) uint32
	AddTriangle(a, b, c uint32)
}

type line struct {
	start, end geom.Vec2
	width      float32
	color      color.Color
}

type text struct {
	pos   geom.Vec2
	text  string
	scale float32
	width float32
	color color.Color
}

// Renderer accumulates debug shapes.
type Renderer struct {
	Layer  uint8
	Effect uint16

	offset geom.Vec2
	lines  []line
	texts  []text
	upper  cases.Caser
}

// New returns a renderer drawing on layer with effect.
func New(layer uint8, effect uint16) *Renderer {
	return &Renderer{Layer: layer, Effect: effect, upper: cases.Upper(language.Und)}
}

// BeginFrame forgets the previous frame's shapes.
func (r *Renderer) BeginFrame() {
	r.lines = r.lines[:0]
	r.texts = r.texts[:0]
}

// SetOffset sets the offset added to lines added afterwards.
func (r *Renderer) SetOffset(offset geom.Vec2) { r.offset = offset }

// Lines returns the number of lines queued.
func (r *Renderer) Lines() int { return len(r.lines) }

// AddLine queues a line of the given width.
func (r *Renderer) AddLine(start, end geom.Vec2, width float32, c color.Color) {
	r.lines = append(r.lines, line{
		start: start.Add(r.offset),
		end:   end.Add(r.offset),
		width: width,
		color: c,
	})
}

// AddRectangle outlines the rectangle with the given bottom-left corner.
func (r *Renderer) AddRectangle(bottomLeft, size geom.Vec2, width float32, c color.Color) {
	s, e := bottomLeft, bottomLeft.Add(size)
	r.AddLine(geom.V2(s.X, s.Y), geom.V2(e.X, s.Y), width, c)
	r.AddLine(geom.V2(e.X, s.Y), geom.V2(e.X, e.Y), width, c)
	r.AddLine(geom.V2(e.X, e.Y), geom.V2(s.X, e.Y), width, c)
	r.AddLine(geom.V2(s.X, e.Y), geom.V2(s.X, s.Y), width, c)
}

// AddFrame outlines the rectangle centred on pos and crosses it.
func (r *Renderer) AddFrame(pos, size geom.Vec2, width float32, c color.Color) {
	half := size.Mul(geom.V2(-0.5, 0.5))
	tl := pos.Add(half)
	br := pos.Sub(half)
	r.AddLine(tl, br, width, c)
	r.AddLine(geom.V2(br.X, tl.Y), geom.V2(tl.X, br.Y), width, c)
	r.AddLine(geom.V2(tl.X, tl.Y), geom.V2(tl.X, br.Y), width, c)
	r.AddLine(geom.V2(br.X, tl.Y), geom.V2(br.X, br.Y), width, c)
	r.AddLine(geom.V2(tl.X, tl.Y), geom.V2(br.X, tl.Y), width, c)
	r.AddLine(geom.V2(tl.X, br.Y), geom.V2(br.X, br.Y), width, c)
}

// AddCircle approximates a circle with CircleSegments lines.
func (r *Renderer) AddCircle(pos geom.Vec2, radius, width float32, c color.Color) {
	rot := geom.Rotation(geom.DegToRad(360.0 / CircleSegments))
	var pts [CircleSegments]geom.Vec2
	v := geom.V2(radius, 0)
	for i := range pts {
		pts[i] = pos.Add(v)
		v = rot.MulVec2(v)
	}
	for i := range pts {
		r.AddLine(pts[i], pts[(i+1)%len(pts)], width, c)
	}
}

// AddText queues upper-cased sixteen-segment text centred on pos. Scale is
// the glyph height.
func (r *Renderer) AddText(pos geom.Vec2, s string, scale, width float32, c color.Color) {
	r.texts = append(r.texts, text{
		pos:   pos,
		text:  r.upper.String(s),
		scale: scale,
		width: width,
		color: c,
	})
}

// Render draws everything queued this frame.
func (r *Renderer) Render(t Target) {
	t.UseLayer(r.Layer)
	t.UseEffect(r.Effect)
	for _, l := range r.lines {
		renderLine(t, l.start, l.end, l.width, l.color)
	}
	for _, tx := range r.texts {
		scale := geom.V2(tx.scale, tx.scale)
		advance := tx.scale * 0.75
		pos := tx.pos
		pos.X -= advance * 0.5 * float32(utf8.RuneCountInString(tx.text))
		pos.Y -= 0.5 * tx.scale
		for _, ch := range tx.text {
			for _, seg := range SixteenSegment(ch) {
				s := pos.Add(seg[0].Mul(scale))
				e := pos.Add(seg[1].Mul(scale))
				renderLine(t, s, e, tx.width, tx.color)
			}
			pos.X += advance
		}
	}
}

// renderLine draws the line as a quad, counter-clockwise whatever its
// direction.
func renderLine(t Target, s, e geom.Vec2, width float32, c color.Color) {
	perp := e.Sub(s).Normalized().Perp()
	left := perp.Scale(0.5 * width)
	right := perp.Scale(-0.5 * width)

	t.SetColor(c)
	v0 := t.AddVertex(s.Add(right))
	v1 := t.AddVertex(e.Add(right))
	v2 := t.AddVertex(s.Add(left))
	v3 := t.AddVertex(e.Add(left))
	t.AddTriangle(v0, v1, v2)
	t.AddTriangle(v2, v1, v3)
}
