package quad

import (
	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/geom"
)

// Unit quad corners in draw order: top-left, bottom-left, bottom-right,
// top-right.
var (
	quadCorners = [4]geom.Vec2{
		{X: -0.5, Y: 0.5},
		{X: -0.5, Y: -0.5},
		{X: 0.5, Y: -0.5},
		{X: 0.5, Y: 0.5},
	}
	quadTexCoords = [4]geom.Vec2{
		{X: 0, Y: 0},
		{X: 0, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 0},
	}
)

// AddVertex appends a vertex at pos and returns its index in the frame's
// vertex list. The position goes through the active layer's transform;
// the current texture coordinate goes through the texture matrix and then
// the region transform of the texture bound to channel 0.
func (r *Renderer) AddVertex(pos geom.Vec2) uint32 {
	p := r.layers.Top(r.layer).MulVec2(pos)
	tc := r.activeTexture(0).UV.Apply(r.texMatrix.Apply(r.texCoords))
	r.vertices = append(r.vertices, backend.Vertex{
		Pos:   [3]float32{p.X, p.Y, 0},
		UV:    [2]float32{tc.X, tc.Y},
		Color: r.color.Array(),
	})
	return uint32(len(r.vertices) - 1)
}

// AddTriangle appends a triangle of previously added vertices to the
// active material. Triangles naming a vertex that does not exist are
// skipped.
func (r *Renderer) AddTriangle(v0, v1, v2 uint32) {
	n := uint32(len(r.vertices))
	if v0 >= n || v1 >= n || v2 >= n {
		r.log.Debug("quad: triangle skipped, vertex out of range", "v0", v0, "v1", v1, "v2", v2, "vertices", n)
		return
	}
	r.materials.MustActive().AddTriangle(v0, v1, v2)
}

// VertexCount returns the number of vertices added this frame.
func (r *Renderer) VertexCount() int { return len(r.vertices) }

// Vertices returns the vertices added this frame. The slice is reused by
// the next frame.
func (r *Renderer) Vertices() []backend.Vertex { return r.vertices }

// RenderQuad draws an axis-aligned quad centred on pos with the current
// color and texture coordinate.
func (r *Renderer) RenderQuad(pos, size geom.Vec2) {
	hs := size.Scale(0.5)

	tl := geom.V2(pos.X-hs.X, pos.Y+hs.Y)
	bl := geom.V2(pos.X-hs.X, pos.Y-hs.Y)
	br := geom.V2(pos.X+hs.X, pos.Y-hs.Y)
	tr := geom.V2(pos.X+hs.X, pos.Y+hs.Y)

	v0 := r.AddVertex(tl)
	v1 := r.AddVertex(bl)
	v2 := r.AddVertex(br)
	v3 := r.AddVertex(tr)

	r.AddTriangle(v0, v1, v2)
	r.AddTriangle(v2, v3, v0)
}

// RenderTexturedQuad draws the texture bound to channel 0 on a quad
// centred on pos.
func (r *Renderer) RenderTexturedQuad(pos, size geom.Vec2) {
	r.RenderTexturedQuadWithRotation(pos, size, 0)
}

// RenderTexturedQuadWithRotation draws a textured quad centred on pos,
// rotated counter-clockwise by angle degrees.
func (r *Renderer) RenderTexturedQuadWithRotation(pos, size geom.Vec2, angle float32) {
	rot := geom.Rotation(geom.DegToRad(angle))
	saved := r.texCoords

	var v [4]uint32
	for i, corner := range quadCorners {
		p := rot.MulVec2(corner.Mul(size)).Add(pos)
		r.texCoords = quadTexCoords[i]
		v[i] = r.AddVertex(p)
	}
	r.texCoords = saved

	r.AddTriangle(v[0], v[1], v[2])
	r.AddTriangle(v[2], v[3], v[0])
}

// RenderTexturedFullscreenQuad covers the logical size with the texture
// bound to channel 0.
func (r *Renderer) RenderTexturedFullscreenQuad() {
	r.RenderTexturedQuad(geom.Vec2{}, r.size)
}

// RenderTexturedCenteredFullheightQuad draws an image of the given aspect
// ratio at full height. On screens wider than the image it is centred
// with empty sides; on narrower screens its sides are cropped.
func (r *Renderer) RenderTexturedCenteredFullheightQuad(aspect float32) {
	size := r.size
	tex := geom.Identity()
	if ours := r.AspectRatio(); ours > aspect {
		size.X = size.Y * aspect
	} else {
		oa := ours / aspect
		tex = tex.WithScaling(oa, 1).WithTranslation((1-oa)*0.5, 0)
	}

	saved := r.texMatrix
	r.texMatrix = tex
	r.RenderTexturedQuad(geom.Vec2{}, size)
	r.texMatrix = saved
}
