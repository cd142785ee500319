// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend defines the narrow interface the quad renderer submits
// its batches through.
//
// A backend owns GPU (or CPU) resources: textures, shader programs and a
// render target. The renderer never touches those directly; it uploads
// textures, binds a pipeline state and a set of texture channels, then
// submits indexed triangle batches.
//
// # Backend Registration
//
// Backends register a factory under a name, usually from init():
//
//	import _ "github.com/gogpu/quad/backend/software"
//
// The wgpu backend needs a device and queue, so applications register it
// themselves:
//
//	backend.Register(backend.NameWGPU, func() backend.Backend {
//		return wgpu.New(device, queue)
//	})
//
// # Backend Selection
//
// Use Best to get the highest priority backend that is registered, or New
// to request one by name:
//
//	b := backend.Best()
//	b, err := backend.New("software")
//
// # Available Backends
//
//   - "wgpu": hal.Device based, renders into an offscreen target
//   - "software": CPU triangle rasterizer into an image.RGBA
//   - "null": records calls, used by tests
package backend
