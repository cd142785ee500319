package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/debugdraw"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/vfs"
)

func newTextRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, _, fs := newTestRenderer(t, opts...)
	fs.AddString("pixel.font.yaml", pixelFont)
	fs.Add("pixel.png", pngBytes(t, 8, 8))
	require.NoError(t, r.LoadFont(1, "pixel"))
	r.UseFont(1)
	return r
}

func TestPrintCentred(t *testing.T) {
	r := newTextRenderer(t)
	r.BeginFrame()

	r.Print(geom.V2(0, 0), geom.V2(100, 100), geom.V2(0, 0), "AA")

	vs := r.Vertices()
	require.Len(t, vs, 8)
	// The 8x4 layout is centred on the box: glyphs span x -4..0 and 0..4.
	assert.Equal(t, [3]float32{-4, 2, 0}, vs[0].Pos)
	assert.Equal(t, [3]float32{0, -2, 0}, vs[2].Pos)
	assert.Equal(t, [3]float32{0, 2, 0}, vs[4].Pos)
	// Glyph A is the top-left quarter of the font texture.
	assert.Equal(t, [2]float32{0, 0}, vs[0].UV)
	assert.Equal(t, [2]float32{0.5, 0.5}, vs[2].UV)
}

func TestPrintAligned(t *testing.T) {
	r := newTextRenderer(t)
	r.BeginFrame()

	r.Print(geom.V2(0, 0), geom.V2(100, 100), geom.V2(1, 1), "A")
	vs := r.Vertices()
	require.Len(t, vs, 4)
	assert.Equal(t, [3]float32{46, 50, 0}, vs[0].Pos, "top-right corner of the box")

	r.Print(geom.V2(0, 0), geom.V2(100, 100), geom.V2(-1, -1), "A")
	vs = r.Vertices()[4:]
	assert.Equal(t, [3]float32{-50, -46, 0}, vs[0].Pos, "bottom-left corner of the box")
}

func TestPrintRestoresTexture(t *testing.T) {
	r := newTextRenderer(t)
	r.BeginFrame()
	r.UseTextureID(0, 0)
	before := r.materials.MustActive().Key

	r.Print(geom.V2(0, 0), geom.V2(10, 10), geom.V2(0, 0), "A")

	assert.Equal(t, int32(0), r.channelIDs[0])
	assert.Equal(t, before, r.materials.MustActive().Key)
	assert.Equal(t, geom.Identity(), r.texMatrix)
	assert.Equal(t, 2, r.MaterialCount())
}

func TestPrintRestoresTexMatrix(t *testing.T) {
	r := newTextRenderer(t)
	r.BeginFrame()
	uv := geom.Translate(0.25, 0.5).Multiply(geom.Scale(0.5, 0.5))
	r.SetTexMatrix(uv)

	r.Print(geom.V2(0, 0), geom.V2(10, 10), geom.V2(0, 0), "AB")
	assert.Equal(t, uv, r.texMatrix)

	// Quads drawn after the text still sample the caller's region.
	first := r.VertexCount()
	r.RenderTexturedQuad(geom.V2(0, 0), geom.V2(2, 2))
	want := r.activeTexture(0).UV.Apply(uv.Apply(geom.V2(0, 1)))
	assert.Equal(t, [2]float32{want.X, want.Y}, r.Vertices()[first+1].UV)
}

func TestPrintDebugOutlines(t *testing.T) {
	dbg := debugdraw.New(9, 0)
	r := newTextRenderer(t, WithDebug(dbg))
	r.BeginFrame()

	r.Print(geom.V2(0, 0), geom.V2(10, 10), geom.V2(0, 0), "AA")
	assert.Zero(t, dbg.Lines(), "outlines are off by default")

	r.SetTextDebug(true)
	r.Print(geom.V2(0, 0), geom.V2(10, 10), geom.V2(0, 0), "AA")
	// Two glyph frames, the box and the layout, six lines each.
	assert.Equal(t, 4*6, dbg.Lines())
}

func TestPrintUnknownFont(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()
	r.UseFont(200)

	r.Print(geom.V2(0, 0), geom.V2(10, 10), geom.V2(0, 0), "A")
	assert.Zero(t, r.VertexCount())
}

func TestPrintDefaultFont(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()

	r.Print(geom.V2(0, 0), geom.V2(200, 50), geom.V2(0, 0), "Hi")
	assert.Equal(t, 8, r.VertexCount())
}

func TestLoadFontMissing(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	assert.ErrorIs(t, r.LoadFont(3, "nothing"), vfs.ErrNotExist)
}

func TestPrintReusesLayouts(t *testing.T) {
	r := newTextRenderer(t)
	r.BeginFrame()

	r.Print(geom.V2(0, 0), geom.V2(100, 100), geom.V2(0, 0), "AA")
	first := append([]backend.Vertex(nil), r.Vertices()...)
	r.BeginFrame()
	r.Print(geom.V2(0, 0), geom.V2(100, 100), geom.V2(0, 0), "AA")

	assert.Equal(t, first, r.Vertices())
	s := r.layouts.Stats()
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(1), s.Hits)

	// Replacing a font drops layouts made with the old glyphs.
	f, ok := r.Font(1)
	require.True(t, ok)
	require.NoError(t, r.RegisterFont(1, f))
	assert.Zero(t, r.layouts.Len())
}
