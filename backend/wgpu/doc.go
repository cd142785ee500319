// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the quad backend on a gogpu/wgpu hal.Device.
//
// The backend renders into an offscreen RGBA8 target. Each Submit records a
// render pass into the frame's command encoder with its own vertex, index
// and uniform buffers; Flush submits the encoder and releases the frame's
// buffers once the queue is idle. ReadPixels copies the target into a
// mappable staging buffer.
//
// Pipelines are created lazily, one per distinct backend.PipelineState.
//
// # Usage
//
//	b := wgpu.New(device, queue)
//	if err := b.Init(800, 600); err != nil {
//		return err
//	}
//	defer b.Destroy()
//
// A gpucontext.DeviceProvider that hands out hal objects can be used
// directly:
//
//	b, err := wgpu.FromProvider(provider)
package wgpu
