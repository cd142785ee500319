// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/backend"
)

// uniformSize is one column-major mat4x4<f32>.
const uniformSize = 64

// batchResources holds the per-batch GPU resources of a frame.
type batchResources struct {
	vertBuf    hal.Buffer
	indexBuf   hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

func (r *batchResources) destroy(device hal.Device) {
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
	}
	if r.uniformBuf != nil {
		device.DestroyBuffer(r.uniformBuf)
	}
	if r.indexBuf != nil {
		device.DestroyBuffer(r.indexBuf)
	}
	if r.vertBuf != nil {
		device.DestroyBuffer(r.vertBuf)
	}
}

// frameState is the work recorded since the last Flush.
type frameState struct {
	encoder   hal.CommandEncoder
	batches   []batchResources
	clear     *gputypes.Color
	err       error
	passes    int
	submitted int
}

func (f *frameState) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// discard drops recorded work without submitting it.
func (f *frameState) discard(device hal.Device) {
	if f.encoder != nil {
		f.encoder.DiscardEncoding()
		f.encoder = nil
	}
	for i := range f.batches {
		f.batches[i].destroy(device)
	}
	f.batches = f.batches[:0]
	f.clear = nil
	f.passes = 0
}

func (b *Backend) ensureEncoder() (hal.CommandEncoder, error) {
	if b.frame.encoder != nil {
		return b.frame.encoder, nil
	}
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "quad_frame"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("quad_frame"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	b.frame.encoder = enc
	return enc, nil
}

// Clear makes the next render pass clear the target and depth buffer.
func (b *Backend) Clear(c gputypes.Color) {
	b.frame.clear = &c
}

// beginPass opens a render pass on the frame encoder, consuming a pending
// clear.
func (b *Backend) beginPass(enc hal.CommandEncoder) hal.RenderPassEncoder {
	color := hal.RenderPassColorAttachment{
		View:    b.targetView,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	depth := &hal.RenderPassDepthStencilAttachment{
		View:              b.depthView,
		DepthLoadOp:       gputypes.LoadOpLoad,
		DepthStoreOp:      gputypes.StoreOpStore,
		StencilLoadOp:     gputypes.LoadOpLoad,
		StencilStoreOp:    gputypes.StoreOpStore,
		StencilReadOnly:   true,
		DepthClearValue:   1,
		StencilClearValue: 0,
	}
	if b.frame.clear != nil {
		color.LoadOp = gputypes.LoadOpClear
		color.ClearValue = *b.frame.clear
		depth.DepthLoadOp = gputypes.LoadOpClear
		b.frame.clear = nil
	}
	b.frame.passes++
	return enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:                  "quad_pass",
		ColorAttachments:       []hal.RenderPassColorAttachment{color},
		DepthStencilAttachment: depth,
	})
}

// Submit records one render pass drawing the batch.
func (b *Backend) Submit(batch backend.Batch) {
	if b.target == nil {
		b.log.Warn("wgpu: submit before init")
		return
	}
	count := batch.IndexCount()
	if count == 0 || len(batch.Vertices) == 0 {
		return
	}
	pipe, err := b.pipeline(b.state)
	if err != nil {
		b.log.Warn("wgpu: batch skipped", "err", err)
		b.frame.fail(err)
		return
	}
	res, format, err := b.createBatch(batch)
	if err != nil {
		res.destroy(b.device)
		b.log.Warn("wgpu: batch skipped", "err", err)
		b.frame.fail(err)
		return
	}
	b.frame.batches = append(b.frame.batches, res)

	enc, err := b.ensureEncoder()
	if err != nil {
		b.frame.fail(err)
		return
	}
	vx, vy, vw, vh := b.viewportRect()
	pass := b.beginPass(enc)
	pass.SetPipeline(pipe)
	pass.SetBindGroup(0, res.bindGroup, nil)
	pass.SetVertexBuffer(0, res.vertBuf, 0)
	pass.SetIndexBuffer(res.indexBuf, format, 0)
	pass.SetViewport(vx, vy, vw, vh, 0, 1)
	pass.DrawIndexed(uint32(count), 1, 0, 0, 0)
	pass.End()
	b.frame.submitted++
}

// viewportRect converts the bottom-left based viewport to the top-left
// based one the GPU expects.
func (b *Backend) viewportRect() (x, y, w, h float32) {
	vp := b.viewport
	top := int(b.height) - (vp[1] + vp[3])
	return float32(vp[0]), float32(top), float32(vp[2]), float32(vp[3])
}

func (b *Backend) createBatch(batch backend.Batch) (batchResources, gputypes.IndexFormat, error) {
	var res batchResources

	verts := encodeVertices(batch.Vertices)
	vb, err := b.writeBuffer("quad_vertices", gputypes.BufferUsageVertex, verts)
	if err != nil {
		return res, 0, err
	}
	res.vertBuf = vb

	indices, format := encodeIndices(&batch)
	ib, err := b.writeBuffer("quad_indices", gputypes.BufferUsageIndex, indices)
	if err != nil {
		return res, 0, err
	}
	res.indexBuf = ib

	ub, err := b.writeBuffer("quad_uniforms", gputypes.BufferUsageUniform, encodeMatrix(batch.MVP.Transposed().M))
	if err != nil {
		return res, 0, err
	}
	res.uniformBuf = ub

	entries := []gputypes.BindGroupEntry{
		{Binding: backend.BindingUniforms, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Size: uniformSize}},
		{Binding: backend.BindingSampler, Resource: gputypes.SamplerBinding{Sampler: b.sampler.NativeHandle()}},
	}
	for ch, h := range b.bound {
		t := b.white
		if bound, ok := b.textures[h]; ok {
			t = bound
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(backend.BindingTexture0 + ch),
			Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()},
		})
	}
	group, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "quad_bind_group",
		Layout:  b.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return res, 0, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	res.bindGroup = group
	return res, format, nil
}

func (b *Backend) writeBuffer(label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: write %s: %w", label, err)
	}
	return buf, nil
}

// Flush submits the frame's commands, waits for the queue and releases
// per-batch buffers. It returns the first error recorded during the frame.
func (b *Backend) Flush() error {
	if b.frame.clear != nil && b.target != nil {
		if enc, err := b.ensureEncoder(); err != nil {
			b.frame.fail(err)
		} else {
			b.beginPass(enc).End()
		}
	}
	passes, batches := b.frame.passes, b.frame.submitted
	err := b.submit()
	if err == nil {
		err = b.frame.err
	}
	b.log.Debug("wgpu: flush", "passes", passes, "batches", batches)
	b.frame.err = nil
	b.frame.submitted = 0
	return err
}

func (b *Backend) submit() error {
	if b.frame.encoder == nil {
		b.frame.discard(b.device)
		return nil
	}
	enc := b.frame.encoder
	b.frame.encoder = nil
	defer b.frame.discard(b.device)

	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmd)
	if _, err := b.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait idle: %w", err)
	}
	return nil
}

// encodeVertices serializes vertices in the backend.Vertex layout.
func encodeVertices(vs []backend.Vertex) []byte {
	buf := make([]byte, len(vs)*backend.VertexStride)
	for i := range vs {
		v := &vs[i]
		o := buf[i*backend.VertexStride:]
		putFloats(o[backend.OffsetPos:], v.Pos[:])
		putFloats(o[backend.OffsetUV:], v.UV[:])
		putFloats(o[backend.OffsetColor:], v.Color[:])
	}
	return buf
}

// encodeIndices serializes indices, padding 16-bit data to a multiple of
// four bytes as buffer writes require.
func encodeIndices(batch *backend.Batch) ([]byte, gputypes.IndexFormat) {
	if batch.Indices32 != nil {
		buf := make([]byte, len(batch.Indices32)*4)
		for i, idx := range batch.Indices32 {
			binary.LittleEndian.PutUint32(buf[i*4:], idx)
		}
		return buf, gputypes.IndexFormatUint32
	}
	n := len(batch.Indices16) * 2
	buf := make([]byte, (n+3)&^3)
	for i, idx := range batch.Indices16 {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf, gputypes.IndexFormatUint16
}

func encodeMatrix(m [16]float32) []byte {
	buf := make([]byte, uniformSize)
	putFloats(buf, m[:])
	return buf
}

func putFloats(dst []byte, fs []float32) {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
