// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/backend"
)

// ErrNoHAL is returned by FromProvider when the provider does not expose
// hal objects.
var ErrNoHAL = errors.New("wgpu: provider does not expose hal.Device and hal.Queue")

// gpuTexture is a sampled texture and its view.
type gpuTexture struct {
	tex           hal.Texture
	view          hal.TextureView
	width, height uint32
}

// program holds the two shader modules of a compiled effect.
type program struct {
	vertex   hal.ShaderModule
	fragment hal.ShaderModule
}

// Backend renders through a hal.Device.
type Backend struct {
	log    *slog.Logger
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	width, height uint32
	target        hal.Texture
	targetView    hal.TextureView
	depth         hal.Texture
	depthView     hal.TextureView

	sampler        hal.Sampler
	bindLayout     hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	builtin        program

	programs    map[backend.Program]program
	nextProgram backend.Program
	pipelines   map[backend.PipelineState]hal.RenderPipeline

	textures    map[backend.Handle]*gpuTexture
	nextTexture backend.Handle
	white       *gpuTexture

	viewport [4]int
	state    backend.PipelineState
	bound    [backend.MaxTextureChannels]backend.Handle

	frame frameState
}

// New creates a backend on an opened device and its queue. The render
// target uses RGBA8Unorm.
func New(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{
		log:       slog.New(discardHandler{}),
		device:    device,
		queue:     queue,
		format:    gputypes.TextureFormatRGBA8Unorm,
		programs:  make(map[backend.Program]program),
		pipelines: make(map[backend.PipelineState]hal.RenderPipeline),
		textures:  make(map[backend.Handle]*gpuTexture),
		state:     backend.DefaultPipelineState(),
	}
}

// FromProvider creates a backend from a host application's device
// provider. The target adopts the provider's surface format when it is
// RGBA8 or BGRA8.
func FromProvider(p gpucontext.DeviceProvider) (*Backend, error) {
	device, ok := p.Device().(hal.Device)
	if !ok {
		return nil, ErrNoHAL
	}
	queue, ok := p.Queue().(hal.Queue)
	if !ok {
		return nil, ErrNoHAL
	}
	b := New(device, queue)
	switch f := p.SurfaceFormat(); f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		b.format = f
	}
	return b, nil
}

// SetLogger sets the logger used for diagnostics.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	b.log = l
}

// Name returns "wgpu".
func (b *Backend) Name() string { return backend.NameWGPU }

// Format returns the render target format.
func (b *Backend) Format() gputypes.TextureFormat { return b.format }

// Init creates the render target, the shared layouts and the built-in
// program.
func (b *Backend) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	b.width, b.height = uint32(width), uint32(height)
	b.viewport = [4]int{0, 0, width, height}

	if err := b.createTargets(); err != nil {
		b.Destroy()
		return err
	}
	if err := b.createLayouts(); err != nil {
		b.Destroy()
		return err
	}
	builtin, err := b.createModules("quad_builtin", hal.ShaderSource{WGSL: backend.DefaultShaderWGSL})
	if err != nil {
		b.Destroy()
		return err
	}
	b.builtin = builtin

	white, err := b.newTexture(1, 1, []byte{255, 255, 255, 255})
	if err != nil {
		b.Destroy()
		return err
	}
	b.white = white

	b.log.Info("wgpu: target ready", "width", width, "height", height, "format", b.format)
	return nil
}

func (b *Backend) createTargets() error {
	target, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "quad_target",
		Size:          hal.Extent3D{Width: b.width, Height: b.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create target: %w", err)
	}
	b.target = target

	view, err := b.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "quad_target_view",
		Format:        b.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create target view: %w", err)
	}
	b.targetView = view

	depth, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "quad_depth",
		Size:          hal.Extent3D{Width: b.width, Height: b.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth32Float,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create depth target: %w", err)
	}
	b.depth = depth

	depthView, err := b.device.CreateTextureView(depth, &hal.TextureViewDescriptor{
		Label:         "quad_depth_view",
		Format:        gputypes.TextureFormatDepth32Float,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create depth view: %w", err)
	}
	b.depthView = depthView
	return nil
}

// CreateTexture uploads RGBA8 pixels into a sampled texture.
func (b *Backend) CreateTexture(width, height int, rgba []byte) (backend.Handle, error) {
	if err := backend.CheckTextureData(width, height, rgba); err != nil {
		return 0, err
	}
	t, err := b.newTexture(uint32(width), uint32(height), rgba)
	if err != nil {
		return 0, err
	}
	b.nextTexture++
	b.textures[b.nextTexture] = t
	return b.nextTexture, nil
}

func (b *Backend) newTexture(width, height uint32, rgba []byte) (*gpuTexture, error) {
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "quad_texture",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "quad_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	t := &gpuTexture{tex: tex, view: view, width: width, height: height}
	if err := b.upload(t, rgba); err != nil {
		b.destroyTexture(t)
		return nil, err
	}
	return t, nil
}

func (b *Backend) upload(t *gpuTexture, rgba []byte) error {
	err := b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		rgba,
		&hal.ImageDataLayout{BytesPerRow: t.width * 4, RowsPerImage: t.height},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture: %w", err)
	}
	return nil
}

// UpdateTexture replaces a texture's pixels.
func (b *Backend) UpdateTexture(h backend.Handle, rgba []byte) error {
	t, ok := b.textures[h]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrInvalidTexture, h)
	}
	if err := backend.CheckTextureData(int(t.width), int(t.height), rgba); err != nil {
		return err
	}
	return b.upload(t, rgba)
}

// DestroyTexture releases a texture. Unknown handles are ignored.
func (b *Backend) DestroyTexture(h backend.Handle) {
	t, ok := b.textures[h]
	if !ok {
		return
	}
	delete(b.textures, h)
	b.destroyTexture(t)
}

func (b *Backend) destroyTexture(t *gpuTexture) {
	if t.view != nil {
		b.device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		b.device.DestroyTexture(t.tex)
	}
}

// SetViewport sets the draw region; y is measured from the bottom edge.
func (b *Backend) SetViewport(x, y, width, height int) {
	b.viewport = [4]int{x, y, width, height}
}

// BindPipeline sets the state used by subsequent submits.
func (b *Backend) BindPipeline(state backend.PipelineState) { b.state = state }

// BindTextures sets the texture channels of subsequent submits.
func (b *Backend) BindTextures(textures [backend.MaxTextureChannels]backend.Handle) {
	b.bound = textures
}

// Destroy releases every GPU resource the backend created.
func (b *Backend) Destroy() {
	if b.device == nil {
		return
	}
	b.frame.discard(b.device)

	for state, p := range b.pipelines {
		b.device.DestroyRenderPipeline(p)
		delete(b.pipelines, state)
	}
	for id, p := range b.programs {
		b.destroyProgram(p)
		delete(b.programs, id)
	}
	b.destroyProgram(b.builtin)
	b.builtin = program{}

	for h, t := range b.textures {
		b.destroyTexture(t)
		delete(b.textures, h)
	}
	if b.white != nil {
		b.destroyTexture(b.white)
		b.white = nil
	}

	if b.pipelineLayout != nil {
		b.device.DestroyPipelineLayout(b.pipelineLayout)
		b.pipelineLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.depthView != nil {
		b.device.DestroyTextureView(b.depthView)
		b.depthView = nil
	}
	if b.depth != nil {
		b.device.DestroyTexture(b.depth)
		b.depth = nil
	}
	if b.targetView != nil {
		b.device.DestroyTextureView(b.targetView)
		b.targetView = nil
	}
	if b.target != nil {
		b.device.DestroyTexture(b.target)
		b.target = nil
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
