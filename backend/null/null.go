// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package null provides a backend that draws nothing and records every
// call. It makes the renderer testable without a GPU.
package null

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/quad/backend"
)

func init() {
	backend.Register(backend.NameNull, func() backend.Backend { return New() })
}

// Texture is a recorded texture upload.
type Texture struct {
	Width, Height int
	Pixels        []byte
	Updates       int
}

// Submission is one recorded Submit call together with the state it was
// drawn with.
type Submission struct {
	Batch    backend.Batch
	Pipeline backend.PipelineState
	Textures [backend.MaxTextureChannels]backend.Handle
	Viewport [4]int
}

// Backend records calls instead of drawing.
type Backend struct {
	Width, Height int

	Textures map[backend.Handle]*Texture
	Programs [][2][]uint32
	Viewport [4]int
	Pipeline backend.PipelineState
	Bound    [backend.MaxTextureChannels]backend.Handle

	Submissions []Submission
	Clears      []gputypes.Color
	Flushes     int
	Ops         []string
	Destroyed   bool

	// FlushErr is returned by the next Flush, then cleared.
	FlushErr error

	nextTexture backend.Handle
	clear       gputypes.Color
	initialized bool
}

// New creates a recording backend.
func New() *Backend {
	return &Backend{Textures: make(map[backend.Handle]*Texture)}
}

// Name returns "null".
func (b *Backend) Name() string { return backend.NameNull }

// Init records the target size.
func (b *Backend) Init(width, height int) error {
	b.Ops = append(b.Ops, "init")
	b.Width, b.Height = width, height
	b.Viewport = [4]int{0, 0, width, height}
	b.initialized = true
	return nil
}

// CreateTexture stores a copy of the pixels.
func (b *Backend) CreateTexture(width, height int, rgba []byte) (backend.Handle, error) {
	if err := backend.CheckTextureData(width, height, rgba); err != nil {
		return 0, err
	}
	b.Ops = append(b.Ops, "create_texture")
	b.nextTexture++
	b.Textures[b.nextTexture] = &Texture{Width: width, Height: height, Pixels: slices.Clone(rgba)}
	return b.nextTexture, nil
}

// UpdateTexture replaces the stored pixels.
func (b *Backend) UpdateTexture(h backend.Handle, rgba []byte) error {
	tex, ok := b.Textures[h]
	if !ok {
		return fmt.Errorf("%w: %d", backend.ErrInvalidTexture, h)
	}
	if err := backend.CheckTextureData(tex.Width, tex.Height, rgba); err != nil {
		return err
	}
	b.Ops = append(b.Ops, "update_texture")
	tex.Pixels = slices.Clone(rgba)
	tex.Updates++
	return nil
}

// DestroyTexture forgets a texture.
func (b *Backend) DestroyTexture(h backend.Handle) {
	b.Ops = append(b.Ops, "destroy_texture")
	delete(b.Textures, h)
}

// CreateProgram stores both stages and returns their 1-based index.
func (b *Backend) CreateProgram(vertex, fragment []uint32) (backend.Program, error) {
	if len(vertex) == 0 || len(fragment) == 0 {
		return 0, backend.ErrInvalidProgram
	}
	b.Ops = append(b.Ops, "create_program")
	b.Programs = append(b.Programs, [2][]uint32{vertex, fragment})
	return backend.Program(len(b.Programs)), nil
}

// SetViewport records the viewport.
func (b *Backend) SetViewport(x, y, width, height int) {
	b.Ops = append(b.Ops, "viewport")
	b.Viewport = [4]int{x, y, width, height}
}

// Clear records the clear color; ReadPixels returns it afterwards.
func (b *Backend) Clear(c gputypes.Color) {
	b.Ops = append(b.Ops, "clear")
	b.Clears = append(b.Clears, c)
	b.clear = c
}

// BindPipeline records the pipeline state.
func (b *Backend) BindPipeline(state backend.PipelineState) {
	b.Ops = append(b.Ops, "pipeline")
	b.Pipeline = state
}

// BindTextures records the bound texture channels.
func (b *Backend) BindTextures(textures [backend.MaxTextureChannels]backend.Handle) {
	b.Ops = append(b.Ops, "textures")
	b.Bound = textures
}

// Submit records the batch with the current state.
func (b *Backend) Submit(batch backend.Batch) {
	b.Ops = append(b.Ops, "submit")
	b.Submissions = append(b.Submissions, Submission{
		Batch: backend.Batch{
			Vertices:  slices.Clone(batch.Vertices),
			Indices16: slices.Clone(batch.Indices16),
			Indices32: slices.Clone(batch.Indices32),
			MVP:       batch.MVP,
		},
		Pipeline: b.Pipeline,
		Textures: b.Bound,
		Viewport: b.Viewport,
	})
}

// Flush counts flushes and returns FlushErr once.
func (b *Backend) Flush() error {
	b.Ops = append(b.Ops, "flush")
	b.Flushes++
	err := b.FlushErr
	b.FlushErr = nil
	return err
}

// ReadPixels returns the region filled with the last clear color.
func (b *Backend) ReadPixels(x, y, width, height int) ([]byte, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > b.Width || y+height > b.Height {
		return nil, fmt.Errorf("null: read region %d,%d %dx%d outside %dx%d target", x, y, width, height, b.Width, b.Height)
	}
	b.Ops = append(b.Ops, "read_pixels")
	px := [4]byte{unorm8(b.clear.R), unorm8(b.clear.G), unorm8(b.clear.B), unorm8(b.clear.A)}
	out := make([]byte, width*height*4)
	for i := 0; i < len(out); i += 4 {
		copy(out[i:i+4], px[:])
	}
	return out, nil
}

// Destroy marks the backend destroyed.
func (b *Backend) Destroy() {
	b.Ops = append(b.Ops, "destroy")
	b.Destroyed = true
	clear(b.Textures)
}

// Reset forgets recorded submissions, clears and ops.
func (b *Backend) Reset() {
	b.Submissions = nil
	b.Clears = nil
	b.Ops = nil
	b.Flushes = 0
}

func unorm8(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + 0.5)
}
