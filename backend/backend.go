// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/quad/geom"
)

// Common backend errors.
var (
	// ErrUnknownBackend is returned by New for names nobody registered.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrInvalidTexture is returned for handles the backend does not own.
	ErrInvalidTexture = errors.New("backend: invalid texture handle")

	// ErrTextureData is returned when pixel data does not match the size.
	ErrTextureData = errors.New("backend: texture data size mismatch")

	// ErrInvalidProgram is returned when a program cannot be created.
	ErrInvalidProgram = errors.New("backend: invalid program")
)

// MaxTextureChannels is the number of texture channels a material binds.
const MaxTextureChannels = 4

// Handle identifies a texture owned by a backend. Zero means "no texture".
type Handle uint32

// Program identifies a compiled shader program. Zero means the backend's
// built-in program.
type Program uint32

// Vertex is the interleaved vertex layout shared by every backend.
type Vertex struct {
	Pos   [3]float32
	UV    [2]float32
	Color [4]float32
}

// VertexStride is the size in bytes of one Vertex.
const VertexStride = int(unsafe.Sizeof(Vertex{}))

// Byte offsets of the Vertex attributes.
const (
	OffsetPos   = 0
	OffsetUV    = 12
	OffsetColor = 20
)

// PipelineState is the fixed-function state a batch is drawn with.
type PipelineState struct {
	Program Program
	Cull    gputypes.CullMode
	Depth   gputypes.CompareFunction
	Color   gputypes.BlendComponent
	Alpha   gputypes.BlendComponent
}

// DefaultPipelineState returns back-face culling, no depth test and
// straight alpha blending. Color and alpha blend with the same factors.
func DefaultPipelineState() PipelineState {
	blend := gputypes.BlendStateAlpha().Color
	return PipelineState{
		Cull:  gputypes.CullModeBack,
		Depth: gputypes.CompareFunctionAlways,
		Color: blend,
		Alpha: blend,
	}
}

// Blend returns the state's blend components as a gputypes.BlendState.
func (s PipelineState) Blend() gputypes.BlendState {
	return gputypes.BlendState{Color: s.Color, Alpha: s.Alpha}
}

// Batch is one indexed triangle list. Exactly one of Indices16 and
// Indices32 is set.
type Batch struct {
	Vertices  []Vertex
	Indices16 []uint16
	Indices32 []uint32
	MVP       geom.Mat44
}

// IndexCount returns the number of indices in the batch.
func (b *Batch) IndexCount() int {
	if b.Indices32 != nil {
		return len(b.Indices32)
	}
	return len(b.Indices16)
}

// Index returns the i-th index regardless of its width.
func (b *Batch) Index(i int) uint32 {
	if b.Indices32 != nil {
		return b.Indices32[i]
	}
	return uint32(b.Indices16[i])
}

// Backend is the interface the renderer draws through.
//
// Per-frame calls (SetViewport, Clear, BindPipeline, BindTextures, Submit)
// do not return errors; implementations log problems and skip the call.
// Flush reports anything that went wrong during the frame.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init prepares a render target of the given size.
	Init(width, height int) error

	// CreateTexture uploads tightly packed RGBA8 pixels.
	CreateTexture(width, height int, rgba []byte) (Handle, error)

	// UpdateTexture replaces the pixels of an existing texture.
	UpdateTexture(h Handle, rgba []byte) error

	// DestroyTexture releases a texture. Unknown handles are ignored.
	DestroyTexture(h Handle)

	// CreateProgram builds a program from SPIR-V vertex and fragment stages.
	CreateProgram(vertex, fragment []uint32) (Program, error)

	SetViewport(x, y, width, height int)
	Clear(c gputypes.Color)
	BindPipeline(state PipelineState)
	BindTextures(textures [MaxTextureChannels]Handle)
	Submit(b Batch)

	// Flush finishes the frame's work.
	Flush() error

	// ReadPixels returns RGBA8 rows of the given region, bottom row first.
	ReadPixels(x, y, width, height int) ([]byte, error)

	// Destroy releases every resource. The backend must not be used after.
	Destroy()
}

// LoggerSetter is implemented by backends that log through the renderer's
// logger.
type LoggerSetter interface {
	SetLogger(l *slog.Logger)
}

// CheckTextureData validates an RGBA8 upload.
func CheckTextureData(width, height int, rgba []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrTextureData, width, height)
	}
	if len(rgba) != width*height*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", ErrTextureData, len(rgba), width, height)
	}
	return nil
}
