// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/backend"
)

// createLayouts creates the sampler, the group 0 layout shared by every
// program and the pipeline layout.
func (b *Backend) createLayouts() error {
	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "quad_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	b.sampler = sampler

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    backend.BindingUniforms,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: uniformSize},
		},
		{
			Binding:    backend.BindingSampler,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
	for ch := 0; ch < backend.MaxTextureChannels; ch++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(backend.BindingTexture0 + ch),
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	layout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "quad_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	b.bindLayout = layout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	b.pipelineLayout = pipeLayout
	return nil
}

// createModules compiles a single-source program; both stages share one
// module.
func (b *Backend) createModules(label string, src hal.ShaderSource) (program, error) {
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: label, Source: src})
	if err != nil {
		return program{}, fmt.Errorf("wgpu: compile %s: %w", label, err)
	}
	return program{vertex: module, fragment: module}, nil
}

// CreateProgram creates shader modules from SPIR-V stages.
func (b *Backend) CreateProgram(vertex, fragment []uint32) (backend.Program, error) {
	if len(vertex) == 0 || len(fragment) == 0 {
		return 0, backend.ErrInvalidProgram
	}
	vs, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_effect_vs",
		Source: hal.ShaderSource{SPIRV: vertex},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: vertex stage: %w", backend.ErrInvalidProgram, err)
	}
	fs, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_effect_fs",
		Source: hal.ShaderSource{SPIRV: fragment},
	})
	if err != nil {
		b.device.DestroyShaderModule(vs)
		return 0, fmt.Errorf("%w: fragment stage: %w", backend.ErrInvalidProgram, err)
	}
	b.nextProgram++
	b.programs[b.nextProgram] = program{vertex: vs, fragment: fs}
	return b.nextProgram, nil
}

func (b *Backend) destroyProgram(p program) {
	if p.vertex != nil {
		b.device.DestroyShaderModule(p.vertex)
	}
	if p.fragment != nil && p.fragment != p.vertex {
		b.device.DestroyShaderModule(p.fragment)
	}
}

// pipeline returns the render pipeline for state, creating it on first use.
// Unknown programs fall back to the built-in one.
func (b *Backend) pipeline(state backend.PipelineState) (hal.RenderPipeline, error) {
	if p, ok := b.pipelines[state]; ok {
		return p, nil
	}

	prog := b.builtin
	if state.Program != 0 {
		if p, ok := b.programs[state.Program]; ok {
			prog = p
		} else {
			b.log.Warn("wgpu: unknown program, using built-in", "program", state.Program)
		}
	}

	blend := state.Blend()
	depthCompare := state.Depth
	if depthCompare == gputypes.CompareFunctionUndefined {
		depthCompare = gputypes.CompareFunctionAlways
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}

	p, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "quad_pipeline",
		Layout: b.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     prog.vertex,
			EntryPoint: backend.VertexEntryPoint,
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     prog.fragment,
			EntryPoint: backend.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    b.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  state.Cull,
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            gputypes.TextureFormatDepth32Float,
			DepthWriteEnabled: depthCompare != gputypes.CompareFunctionAlways,
			DepthCompare:      depthCompare,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline: %w", err)
	}
	b.pipelines[state] = p
	b.log.Debug("wgpu: pipeline created", "program", state.Program, "cull", state.Cull, "pipelines", len(b.pipelines))
	return p, nil
}

// vertexLayout describes backend.Vertex.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: uint64(backend.VertexStride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: backend.OffsetPos, ShaderLocation: 0},   // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: backend.OffsetUV, ShaderLocation: 1},    // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: backend.OffsetColor, ShaderLocation: 2}, // color
			},
		},
	}
}
