// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/backend"
)

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

func alignRow(n uint32) uint32 {
	return (n + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
}

// ReadPixels flushes pending work and copies a region of the target back
// to the CPU. Rows are returned bottom row first as RGBA8.
func (b *Backend) ReadPixels(x, y, width, height int) ([]byte, error) {
	if b.target == nil {
		return nil, backend.ErrNotInitialized
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > int(b.width) || y+height > int(b.height) {
		return nil, fmt.Errorf("wgpu: read region %d,%d %dx%d outside %dx%d target", x, y, width, height, b.width, b.height)
	}
	if err := b.Flush(); err != nil {
		return nil, err
	}

	w, h := uint32(width), uint32(height)
	rowBytes := w * 4
	stride := alignRow(rowBytes)
	size := uint64(stride) * uint64(h)

	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	defer b.device.DestroyBuffer(staging)

	enc, err := b.ensureEncoder()
	if err != nil {
		return nil, err
	}
	// GPU rows start at the top edge.
	top := b.height - uint32(y) - h
	enc.CopyTextureToBuffer(b.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: stride, RowsPerImage: h},
		TextureBase: hal.ImageCopyTexture{
			Texture: b.target,
			Origin:  hal.Origin3D{X: uint32(x), Y: top},
			Aspect:  gputypes.TextureAspectAll,
		},
		Size: hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	if err := b.submit(); err != nil {
		return nil, err
	}

	mapping, err := b.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: map readback buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size) //nolint:gosec // mapped range of size bytes
	out := make([]byte, int(rowBytes)*height)
	for r := 0; r < height; r++ {
		// Buffer row r is the r-th row from the top; output starts at the bottom.
		dst := out[(height-1-r)*int(rowBytes):]
		copy(dst[:rowBytes], src[uint32(r)*stride:])
	}
	if err := b.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("wgpu: unmap readback buffer: %w", err)
	}

	if b.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out, nil
}
