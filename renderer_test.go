package quad

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/backend/null"
	"github.com/gogpu/quad/capture"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/effect"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/telemetry"
	"github.com/gogpu/quad/texture"
	"github.com/gogpu/quad/vfs"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *null.Backend, *vfs.Memory) {
	t.Helper()
	be := null.New()
	fs := vfs.NewMemory("assets", false)
	opts = append([]Option{WithBackend(be), WithViewport(64, 32)}, opts...)
	r, err := NewRenderer(opts...)
	require.NoError(t, err)
	require.NoError(t, r.Setup(fs))
	t.Cleanup(func() {
		if r.ready {
			assert.NoError(t, r.Teardown())
		}
	})
	return r, be, fs
}

func positions(vs []backend.Vertex) []geom.Vec2 {
	out := make([]geom.Vec2, len(vs))
	for i, v := range vs {
		out[i] = geom.V2(v.Pos[0], v.Pos[1])
	}
	return out
}

func TestSetupRegistersDefaults(t *testing.T) {
	r, be, _ := newTestRenderer(t)

	tex, ok := r.Texture(0)
	require.True(t, ok)
	assert.Equal(t, DefaultTextureName, tex.Name)
	assert.Equal(t, 1, r.EffectCount())
	assert.Equal(t, uint16(0), r.DefaultEffect())
	f, ok := r.Font(0)
	require.True(t, ok)
	assert.Equal(t, DefaultFontName, f.Name)
	_, ok = r.FindTexture(DefaultFontName)
	assert.True(t, ok, "default font atlas registered")
	assert.Equal(t, "init", be.Ops[0])

	assert.ErrorIs(t, r.Setup(vfs.Empty{}), ErrAlreadySetup)
}

func TestTeardown(t *testing.T) {
	r, be, _ := newTestRenderer(t)

	require.NoError(t, r.Teardown())
	assert.True(t, be.Destroyed)
	assert.Empty(t, be.Textures)
	assert.Zero(t, r.TextureCount())
	assert.ErrorIs(t, r.Teardown(), ErrNotSetup)
}

func TestNewRendererUnknownBackend(t *testing.T) {
	_, err := NewRenderer(WithBackendName("no-such-backend"))
	assert.Error(t, err)
}

func TestRenderQuadWinding(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	r.BeginFrame()
	r.RenderQuad(geom.V2(0, 0), geom.V2(2, 2))

	assert.Equal(t, []geom.Vec2{
		{X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1},
	}, positions(r.Vertices()))
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, r.materials.MustActive().Indices())
}

func TestMaterialReuse(t *testing.T) {
	r, be, _ := newTestRenderer(t)

	r.BeginFrame()
	r.UseTexture(DefaultTextureName)
	r.RenderQuad(geom.V2(0, 0), geom.V2(2, 2))
	r.UseLayer(0)
	r.RenderQuad(geom.V2(4, 0), geom.V2(2, 2))
	assert.Equal(t, 1, r.MaterialCount())
	assert.Len(t, r.materials.MustActive().Indices(), 12)

	r.EndFrame()
	require.Len(t, be.Submissions, 1)
	assert.Len(t, be.Submissions[0].Batch.Vertices, 8)
	assert.Equal(t, 12, be.Submissions[0].Batch.IndexCount())
	assert.Equal(t, FrameStats{Frame: 0, Vertices: 8, Materials: 1, MaterialsWithVertices: 1}, r.Stats())
}

type drawCall struct {
	layer  uint8
	effect uint16
}

func permutations(in []drawCall) [][]drawCall {
	if len(in) <= 1 {
		return [][]drawCall{append([]drawCall(nil), in...)}
	}
	var out [][]drawCall
	for i := range in {
		rest := append(append([]drawCall(nil), in[:i]...), in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]drawCall{in[i]}, p...))
		}
	}
	return out
}

func TestBatchDeterminism(t *testing.T) {
	r, be, _ := newTestRenderer(t)
	a := r.RegisterEffect(effect.New("A", 0))
	b := r.RegisterEffect(effect.New("B", 0).WithBlend(effect.SrcAlpha, effect.One))

	layerColors := []color.Color{color.RGBA(1, 0, 0, 1), color.RGBA(0, 0, 1, 1)}
	calls := []drawCall{{0, a}, {0, b}, {1, a}, {1, b}}

	type submitted struct {
		red bool
		dst any
	}
	var reference []submitted
	for _, order := range permutations(calls) {
		be.Reset()
		r.BeginFrame()
		for _, s := range order {
			r.UseLayer(s.layer)
			r.UseEffect(s.effect)
			r.SetColor(layerColors[s.layer])
			r.RenderQuad(geom.V2(0, 0), geom.V2(1, 1))
		}
		r.EndFrame()

		require.Len(t, be.Submissions, 4)
		var got []submitted
		seenLayer1 := false
		for _, sub := range be.Submissions {
			red := sub.Batch.Vertices[0].Color[0] == 1
			if !red {
				seenLayer1 = true
			}
			assert.False(t, red && seenLayer1, "layer 0 batch after layer 1 for order %v", order)
			got = append(got, submitted{red: red, dst: sub.Pipeline.Color.DstFactor})
		}
		if reference == nil {
			reference = got
			continue
		}
		assert.Equal(t, reference, got, "submission order depends on draw order %v", order)
	}
}

func TestLayerMatrixRoundTrip(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()

	r.PushLayerMatrix(3, geom.Translation(geom.Vec3{X: 5}))
	r.PushMultiplyLayerMatrix(3, geom.Scaling(2))
	r.AddTranslationForLayer(3, geom.V2(1, 1))
	r.AddScalingForLayer(3, 0.5)
	assert.NotEqual(t, geom.Ident44(), r.LayerMatrix(3))
	for range 4 {
		r.PopLayerMatrix(3)
	}
	assert.Equal(t, geom.Ident44(), r.LayerMatrix(3))
	assert.Panics(t, func() { r.PopLayerMatrix(3) })
}

func TestAddVertexAppliesLayerTransform(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()

	r.AddTranslationForLayer(2, geom.V2(10, 0))
	r.UseLayer(2)
	i := r.AddVertex(geom.V2(1, 1))
	r.UseLayer(0)
	j := r.AddVertex(geom.V2(1, 1))

	vs := r.Vertices()
	assert.Equal(t, [3]float32{11, 1, 0}, vs[i].Pos)
	assert.Equal(t, [3]float32{1, 1, 0}, vs[j].Pos)

	r.BeginFrame()
	r.UseLayer(2)
	k := r.AddVertex(geom.V2(1, 1))
	assert.Equal(t, [3]float32{1, 1, 0}, r.Vertices()[k].Pos, "layer transforms reset at begin frame")
}

func TestDrawBeforeFirstFrame(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	m := r.materials.MustActive()
	assert.Equal(t, uint8(0), m.Key.Layer)
	assert.Equal(t, r.DefaultEffect(), m.Key.Effect)

	r.RenderQuad(geom.V2(0, 0), geom.V2(2, 2))
	assert.Len(t, m.Indices(), 6)
}

func TestAddTriangleSkipsMissingVertices(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()

	v := r.AddVertex(geom.V2(0, 0))
	r.AddTriangle(v, v+1, v+2)
	assert.Empty(t, r.materials.MustActive().Indices())

	r.AddVertex(geom.V2(1, 0))
	r.AddVertex(geom.V2(0, 1))
	r.AddTriangle(0, 1, 2)
	assert.Equal(t, []uint32{0, 1, 2}, r.materials.MustActive().Indices())
}

func TestTexturedQuadUsesAtlasRegion(t *testing.T) {
	r, _, fs := newTestRenderer(t)
	fs.Add("sheet.png", pngBytes(t, 4, 4))
	fs.AddString("sheet"+texture.ManifestSuffix, "textures:\n  - {name: ship, x: 2, y: 0, w: 2, h: 2}\n")
	require.NoError(t, r.LoadTexture("sheet"))

	r.BeginFrame()
	r.UseTexture("ship")
	r.RenderTexturedQuad(geom.V2(0, 0), geom.V2(2, 2))

	vs := r.Vertices()
	require.Len(t, vs, 4)
	assert.Equal(t, [2]float32{0.5, 0}, vs[0].UV)
	assert.Equal(t, [2]float32{1, 0.5}, vs[2].UV)
}

func TestRotatedQuad(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	r.BeginFrame()

	r.RenderTexturedQuadWithRotation(geom.V2(0, 0), geom.V2(2, 2), 90)

	vs := r.Vertices()
	require.Len(t, vs, 4)
	// Top-left rotates a quarter turn counter-clockwise to bottom-left.
	assert.InDelta(t, -1, vs[0].Pos[0], 1e-5)
	assert.InDelta(t, -1, vs[0].Pos[1], 1e-5)
	assert.Equal(t, [2]float32{0, 0}, vs[0].UV)
	assert.Equal(t, geom.Vec2{}, r.texCoords, "tex coords restored")
}

func TestCenteredFullheightQuad(t *testing.T) {
	r, _, _ := newTestRenderer(t) // 64x32, aspect 2
	r.BeginFrame()

	r.RenderTexturedCenteredFullheightQuad(1)
	vs := r.Vertices()
	require.Len(t, vs, 4)
	assert.Equal(t, [3]float32{-16, 16, 0}, vs[0].Pos)

	r.RenderTexturedCenteredFullheightQuad(4)
	vs = r.Vertices()[4:]
	assert.Equal(t, [3]float32{-32, 16, 0}, vs[0].Pos)
	assert.InDelta(t, 0.25, vs[0].UV[0], 1e-6)
	assert.InDelta(t, 0.75, vs[2].UV[0], 1e-6)
	assert.Equal(t, geom.Identity(), r.texMatrix)
}

func TestMissingTextureFallsBackAndLoads(t *testing.T) {
	r, _, fs := newTestRenderer(t)
	fs.Add("hero.png", pngBytes(t, 2, 2))

	r.BeginFrame()
	r.UseTexture("hero")
	assert.Equal(t, int32(0), r.channelIDs[0], "default texture used this frame")
	r.RenderTexturedQuad(geom.V2(0, 0), geom.V2(1, 1))
	r.EndFrame()

	require.NoError(t, r.Update())
	hero, ok := r.FindTexture("hero")
	require.True(t, ok)

	r.BeginFrame()
	r.UseTexture("hero")
	assert.Equal(t, int32(hero.ID), r.channelIDs[0])
	assert.Equal(t, int64(hero.Handle), r.materials.MustActive().Key.Textures[0])
}

func writeChain(fs *vfs.Memory, names []string, target string) {
	for i, n := range names {
		next := target
		if i+1 < len(names) {
			next = names[i+1]
		}
		fs.AddString(n+texture.ReferenceSuffix, next+"\n")
	}
}

func TestTextureAliasChain(t *testing.T) {
	r, _, fs := newTestRenderer(t)
	fs.Add("texture.png", pngBytes(t, 2, 2))
	writeChain(fs, []string{"a", "b", "c"}, "texture")

	r.BeginFrame()
	r.UseTexture("a")
	r.EndFrame()

	for i := range 3 {
		require.NoError(t, r.Update())
		_, ok := r.FindTexture("a")
		require.False(t, ok, "registered after %d drains", i+1)
	}
	require.NoError(t, r.Update())
	a, ok := r.FindTexture("a")
	require.True(t, ok)
	target, ok := r.FindTexture("texture")
	require.True(t, ok)
	assert.Equal(t, target.Handle, a.Handle)
	assert.NotEqual(t, target.ID, a.ID)
}

func TestTextureAliasChainTooDeep(t *testing.T) {
	r, _, fs := newTestRenderer(t)
	fs.Add("end.png", pngBytes(t, 2, 2))
	var names []string
	for i := range 17 {
		names = append(names, "link"+string(rune('a'+i)))
	}
	writeChain(fs, names, "end")
	before := r.TextureCount()

	r.RequestTexture(names[0])
	for range 20 {
		require.NoError(t, r.Update())
	}
	_, ok := r.FindTexture(names[0])
	assert.False(t, ok)
	assert.Equal(t, before, r.TextureCount())
}

func TestEffectFallback(t *testing.T) {
	r, be, _ := newTestRenderer(t)

	r.BeginFrame()
	r.UseEffect(42)
	r.RenderQuad(geom.V2(0, 0), geom.V2(1, 1))
	assert.NotPanics(t, r.EndFrame)
	require.Len(t, be.Submissions, 1)
	def, _ := r.Effect(r.DefaultEffect())
	assert.Equal(t, def.PipelineState(), be.Submissions[0].Pipeline)
}

func TestDisableTextureForChannel(t *testing.T) {
	r, be, _ := newTestRenderer(t)

	r.BeginFrame()
	r.UseTextureID(0, 1)
	r.RenderQuad(geom.V2(0, 0), geom.V2(1, 1))
	r.DisableTextureForChannel(1)
	r.RenderQuad(geom.V2(0, 0), geom.V2(1, 1))
	r.EndFrame()

	require.Len(t, be.Submissions, 2)
	canvas, _ := r.Texture(0)
	// NoTexture sorts first.
	assert.Zero(t, be.Submissions[0].Textures[1])
	assert.Equal(t, canvas.Handle, be.Submissions[1].Textures[1])
}

func TestScreenshotSchedule(t *testing.T) {
	save := vfs.NewMemory("save", true)
	r, _, _ := newTestRenderer(t, WithSaveFilesystem(save))

	r.BeginFrame()
	r.EndFrame()
	require.Equal(t, uint64(1), r.Frame())

	r.QueueScreenshot(2, 3, "shot")
	var captured []int
	for range 7 {
		require.NoError(t, r.Update())
		before := r.PendingScreenshots()
		r.BeginFrame()
		r.EndFrame()
		captured = append(captured, r.PendingScreenshots()-before)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 1, 0, 0}, captured)
	require.NoError(t, r.FlushScreenshots())
	assert.Equal(t, []string{"shot-000003.png", "shot-000004.png", "shot-000005.png"}, save.Names())

	data, ok := save.Bytes("shot-000004.png")
	require.True(t, ok)
	require.NoError(t, capture.CheckHeader(data))
	chunks, err := capture.TextChunks(data)
	require.NoError(t, err)
	assert.Equal(t, capture.DefaultCreator, chunks[capture.CreatorKeyword])
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestScreenshotReadOnlySink(t *testing.T) {
	r, _, _ := newTestRenderer(t, WithScreenshotCreator("tests"))

	r.QueueScreenshot(0, 1, "")
	r.BeginFrame()
	r.EndFrame()
	require.Equal(t, 1, r.PendingScreenshots())

	err := r.Update()
	assert.ErrorIs(t, err, vfs.ErrNotWritable)
	assert.Zero(t, r.PendingScreenshots(), "failed screenshot dropped")
	assert.NoError(t, r.Update())
}

func TestUpdateTextureImage(t *testing.T) {
	r, be, _ := newTestRenderer(t)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, imgcolor.RGBA{R: 255, A: 255})
	_, err := r.UploadTexture("video", img)
	require.NoError(t, err)

	img.Set(1, 1, imgcolor.RGBA{G: 255, A: 255})
	require.NoError(t, r.UpdateTextureImage("video", img))
	tex, _ := r.FindTexture("video")
	assert.Equal(t, 1, be.Textures[tex.Handle].Updates)

	assert.Error(t, r.UpdateTextureImage("video", image.NewRGBA(image.Rect(0, 0, 3, 3))))
	assert.Error(t, r.UpdateTextureImage("nope", img))
}

func TestAnimatedTextureAdvances(t *testing.T) {
	r, _, fs := newTestRenderer(t, WithClock(StepClock(time.Unix(0, 0), 100*time.Millisecond)))
	for i := range 3 {
		fs.Add(texture.FillTemplate("boom-%02d", i)+".png", pngBytes(t, 1, 1))
	}
	n, err := texture.RegisterAll(fs, r.Backend(), textureResolver{r}, "boom-%02d")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	a := texture.NewAnimatedTexture()
	a.Setup("boom-%02d", 0, 3, 15)
	r.RegisterAnimatedTexture("boom", a)

	r.BeginFrame()
	r.UseAnimatedTexture("boom")
	boom0, _ := r.FindTexture("boom-00")
	assert.Equal(t, int32(boom0.ID), r.channelIDs[0])
	r.EndFrame()

	assert.Equal(t, 1, a.CurrentFrame())
	r.BeginFrame()
	r.UseAnimatedTexture("boom")
	boom1, _ := r.FindTexture("boom-01")
	assert.Equal(t, int32(boom1.ID), r.channelIDs[0])
	r.EndFrame()
}

func TestTelemetryAndStats(t *testing.T) {
	rec := telemetry.New()
	r, _, _ := newTestRenderer(t, WithTelemetry(rec), WithStatsInterval(1))

	for range 3 {
		r.BeginFrame()
		r.RenderQuad(geom.V2(0, 0), geom.V2(1, 1))
		r.EndFrame()
	}
	samples := rec.Get(TraceVertices)
	require.Len(t, samples, 3)
	assert.Equal(t, telemetry.Sample{Value: 4, OK: true}, samples[2])
	assert.Equal(t, uint64(2), r.Stats().Frame)
	assert.Equal(t, uint64(3), r.Frame())
}

func TestClearAndViewport(t *testing.T) {
	r, be, _ := newTestRenderer(t, WithClearColor(color.RGBA(0, 0, 1, 1)))

	r.SetViewport(geom.V2(2, 4), geom.V2(16, 8))
	r.BeginFrame()
	r.Clear(color.White)
	assert.Equal(t, [4]int{2, 4, 16, 8}, be.Viewport)
	require.Len(t, be.Clears, 2)
	assert.Equal(t, color.RGBA(0, 0, 1, 1).GPU(), be.Clears[0])
	assert.Equal(t, color.White.GPU(), be.Clears[1])
	assert.InDelta(t, 2, r.AspectRatio(), 1e-6)
}
