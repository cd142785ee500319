// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements the quad backend on the CPU.
//
// Triangles are rasterized into an *image.RGBA with edge functions,
// textured from channel 0 with nearest sampling, modulated by the vertex
// color and blended with the bound gputypes blend state. Shader programs
// are accepted but ignored: the fixed-function path is the only program.
package software

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/geom"
)

func init() {
	backend.Register(backend.NameSoftware, func() backend.Backend { return New() })
}

// Backend is a CPU rasterizer.
type Backend struct {
	log *slog.Logger

	target *image.RGBA
	depth  []float32

	textures    map[backend.Handle]*image.RGBA
	nextTexture backend.Handle
	programs    backend.Program

	viewport image.Rectangle // y measured from the bottom edge
	state    backend.PipelineState
	bound    [backend.MaxTextureChannels]backend.Handle

	triangles int
	culled    int
}

// New creates an uninitialized software backend.
func New() *Backend {
	return &Backend{
		log:      slog.New(discardHandler{}),
		textures: make(map[backend.Handle]*image.RGBA),
		state:    backend.DefaultPipelineState(),
	}
}

// SetLogger sets the logger used for diagnostics.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	b.log = l
}

// Name returns "software".
func (b *Backend) Name() string { return backend.NameSoftware }

// Init allocates the color and depth targets.
func (b *Backend) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("software: invalid target size %dx%d", width, height)
	}
	b.target = image.NewRGBA(image.Rect(0, 0, width, height))
	b.depth = make([]float32, width*height)
	for i := range b.depth {
		b.depth[i] = 1
	}
	b.viewport = image.Rect(0, 0, width, height)
	b.log.Info("software: target ready", "width", width, "height", height)
	return nil
}

// Image returns the render target. Row 0 is the top of the screen.
func (b *Backend) Image() *image.RGBA { return b.target }

// CreateTexture stores a copy of the pixels.
func (b *Backend) CreateTexture(width, height int, rgba []byte) (backend.Handle, error) {
	if err := backend.CheckTextureData(width, height, rgba); err != nil {
		return 0, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, rgba)
	b.nextTexture++
	b.textures[b.nextTexture] = img
	return b.nextTexture, nil
}

// UpdateTexture replaces a texture's pixels.
func (b *Backend) UpdateTexture(h backend.Handle, rgba []byte) error {
	img, ok := b.textures[h]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrInvalidTexture, h)
	}
	size := img.Bounds().Size()
	if err := backend.CheckTextureData(size.X, size.Y, rgba); err != nil {
		return err
	}
	copy(img.Pix, rgba)
	return nil
}

// DestroyTexture forgets a texture.
func (b *Backend) DestroyTexture(h backend.Handle) {
	delete(b.textures, h)
}

// CreateProgram accepts any non-empty pair of stages.
func (b *Backend) CreateProgram(vertex, fragment []uint32) (backend.Program, error) {
	if len(vertex) == 0 || len(fragment) == 0 {
		return 0, backend.ErrInvalidProgram
	}
	b.programs++
	return b.programs, nil
}

// SetViewport sets the region NDC maps to; y is measured from the bottom.
func (b *Backend) SetViewport(x, y, width, height int) {
	b.viewport = image.Rect(x, y, x+width, y+height)
}

// Clear fills the whole target and resets the depth buffer.
func (b *Backend) Clear(c gputypes.Color) {
	if b.target == nil {
		b.log.Warn("software: clear before init")
		return
	}
	fill := color.RGBA{R: unorm8(c.R), G: unorm8(c.G), B: unorm8(c.B), A: unorm8(c.A)}
	draw.Draw(b.target, b.target.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	for i := range b.depth {
		b.depth[i] = 1
	}
}

// BindPipeline sets the state used by subsequent submits.
func (b *Backend) BindPipeline(state backend.PipelineState) { b.state = state }

// BindTextures sets the texture channels; only channel 0 is sampled.
func (b *Backend) BindTextures(textures [backend.MaxTextureChannels]backend.Handle) {
	b.bound = textures
}

// Submit rasterizes every triangle of the batch.
func (b *Backend) Submit(batch backend.Batch) {
	if b.target == nil {
		b.log.Warn("software: submit before init")
		return
	}
	n := batch.IndexCount()
	if n%3 != 0 {
		b.log.Warn("software: index count not a multiple of 3", "count", n)
		n -= n % 3
	}
	tex := b.textures[b.bound[0]]
	for i := 0; i < n; i += 3 {
		var tri [3]fragVertex
		ok := true
		for k := 0; k < 3; k++ {
			idx := int(batch.Index(i + k))
			if idx >= len(batch.Vertices) {
				ok = false
				break
			}
			tri[k] = b.project(batch.MVP, batch.Vertices[idx])
		}
		if !ok {
			b.log.Warn("software: index out of range", "triangle", i/3)
			continue
		}
		b.rasterize(tri, tex)
	}
}

// Flush logs frame counters. The software backend draws synchronously.
func (b *Backend) Flush() error {
	b.log.Debug("software: flush", "triangles", b.triangles, "culled", b.culled)
	b.triangles, b.culled = 0, 0
	return nil
}

// ReadPixels copies a region, bottom row first.
func (b *Backend) ReadPixels(x, y, width, height int) ([]byte, error) {
	if b.target == nil {
		return nil, backend.ErrNotInitialized
	}
	size := b.target.Bounds().Size()
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > size.X || y+height > size.Y {
		return nil, fmt.Errorf("software: read region %d,%d %dx%d outside %dx%d target", x, y, width, height, size.X, size.Y)
	}
	out := make([]byte, width*height*4)
	for r := 0; r < height; r++ {
		row := size.Y - 1 - (y + r)
		src := b.target.Pix[row*b.target.Stride+x*4:]
		copy(out[r*width*4:(r+1)*width*4], src[:width*4])
	}
	return out, nil
}

// Destroy drops all resources.
func (b *Backend) Destroy() {
	b.target = nil
	b.depth = nil
	clear(b.textures)
}

// fragVertex is a vertex in window space (y up) with its varyings.
type fragVertex struct {
	x, y, z float32
	u, v    float32
	c       [4]float32
}

func (b *Backend) project(mvp geom.Mat44, v backend.Vertex) fragVertex {
	clip := mvp.MulVec4(geom.Vec4{X: v.Pos[0], Y: v.Pos[1], Z: v.Pos[2], W: 1})
	w := clip.W
	if w == 0 {
		w = 1
	}
	vp := b.viewport
	return fragVertex{
		x: float32(vp.Min.X) + (clip.X/w+1)*0.5*float32(vp.Dx()),
		y: float32(vp.Min.Y) + (clip.Y/w+1)*0.5*float32(vp.Dy()),
		z: clip.Z/w*0.5 + 0.5,
		u: v.UV[0],
		v: v.UV[1],
		c: v.Color,
	}
}

func edge(a, b fragVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether pixels exactly on edge a->b of a counter-clockwise
// triangle belong to it. Shared edges are owned by exactly one triangle.
func topLeft(a, b fragVertex) bool {
	dy := b.y - a.y
	return dy < 0 || (dy == 0 && b.x < a.x)
}

func (b *Backend) rasterize(tri [3]fragVertex, tex *image.RGBA) {
	area := edge(tri[0], tri[1], tri[2].x, tri[2].y)
	if area == 0 {
		return
	}
	switch b.state.Cull {
	case gputypes.CullModeBack:
		if area < 0 {
			b.culled++
			return
		}
	case gputypes.CullModeFront:
		if area > 0 {
			b.culled++
			return
		}
	}
	if area < 0 {
		tri[1], tri[2] = tri[2], tri[1]
		area = -area
	}
	b.triangles++

	size := b.target.Bounds().Size()
	clip := b.viewport.Intersect(image.Rect(0, 0, size.X, size.Y))
	minX := max(clip.Min.X, int(math.Floor(float64(min(tri[0].x, tri[1].x, tri[2].x)))))
	maxX := min(clip.Max.X-1, int(math.Ceil(float64(max(tri[0].x, tri[1].x, tri[2].x)))))
	minY := max(clip.Min.Y, int(math.Floor(float64(min(tri[0].y, tri[1].y, tri[2].y)))))
	maxY := min(clip.Max.Y-1, int(math.Ceil(float64(max(tri[0].y, tri[1].y, tri[2].y)))))

	tl := [3]bool{topLeft(tri[1], tri[2]), topLeft(tri[2], tri[0]), topLeft(tri[0], tri[1])}
	for py := minY; py <= maxY; py++ {
		fy := float32(py) + 0.5
		for px := minX; px <= maxX; px++ {
			fx := float32(px) + 0.5
			w0 := edge(tri[1], tri[2], fx, fy)
			w1 := edge(tri[2], tri[0], fx, fy)
			w2 := edge(tri[0], tri[1], fx, fy)
			if !inside(w0, tl[0]) || !inside(w1, tl[1]) || !inside(w2, tl[2]) {
				continue
			}
			w0, w1, w2 = w0/area, w1/area, w2/area
			b.shade(px, size.Y-1-py, tri, w0, w1, w2, tex)
		}
	}
}

func inside(w float32, owned bool) bool {
	return w > 0 || (w == 0 && owned)
}

func (b *Backend) shade(x, row int, tri [3]fragVertex, w0, w1, w2 float32, tex *image.RGBA) {
	di := row*b.target.Bounds().Dx() + x
	z := tri[0].z*w0 + tri[1].z*w1 + tri[2].z*w2
	if !compare(b.state.Depth, z, b.depth[di]) {
		return
	}

	var src [4]float32
	for i := range src {
		src[i] = tri[0].c[i]*w0 + tri[1].c[i]*w1 + tri[2].c[i]*w2
	}
	if tex != nil {
		u := tri[0].u*w0 + tri[1].u*w1 + tri[2].u*w2
		v := tri[0].v*w0 + tri[1].v*w1 + tri[2].v*w2
		t := sample(tex, u, v)
		for i := range src {
			src[i] *= t[i]
		}
	}

	off := b.target.PixOffset(x, row)
	pix := b.target.Pix[off : off+4 : off+4]
	dst := [4]float32{float32(pix[0]) / 255, float32(pix[1]) / 255, float32(pix[2]) / 255, float32(pix[3]) / 255}
	out := blend(b.state.Color, b.state.Alpha, src, dst)
	for i := range pix {
		pix[i] = unorm8(float64(out[i]))
	}
	if b.state.Depth != gputypes.CompareFunctionAlways && b.state.Depth != gputypes.CompareFunctionUndefined {
		b.depth[di] = z
	}
}

// sample returns the nearest texel with clamp-to-edge addressing.
func sample(tex *image.RGBA, u, v float32) [4]float32 {
	size := tex.Bounds().Size()
	x := clampInt(int(math.Floor(float64(u*float32(size.X)))), 0, size.X-1)
	y := clampInt(int(math.Floor(float64(v*float32(size.Y)))), 0, size.Y-1)
	off := tex.PixOffset(x, y)
	p := tex.Pix[off : off+4 : off+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func compare(f gputypes.CompareFunction, z, stored float32) bool {
	switch f {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return z < stored
	case gputypes.CompareFunctionEqual:
		return z == stored
	case gputypes.CompareFunctionLessEqual:
		return z <= stored
	case gputypes.CompareFunctionGreater:
		return z > stored
	case gputypes.CompareFunctionNotEqual:
		return z != stored
	case gputypes.CompareFunctionGreaterEqual:
		return z >= stored
	default:
		return true
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func unorm8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
