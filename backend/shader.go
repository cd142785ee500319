// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

// Binding slots of group 0 shared by every program.
const (
	BindingUniforms = 0
	BindingSampler  = 1
	BindingTexture0 = 2 // channels occupy BindingTexture0..BindingTexture0+3
)

// Shader entry points every program must export.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// DefaultShaderWGSL is the built-in program: the vertex color modulated by
// texture channel 0. Custom effects declare the same bindings and vertex
// inputs.
const DefaultShaderWGSL = `
struct Uniforms {
    mvp: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var samp: sampler;
@group(0) @binding(2) var tex0: texture_2d<f32>;
@group(0) @binding(3) var tex1: texture_2d<f32>;
@group(0) @binding(4) var tex2: texture_2d<f32>;
@group(0) @binding(5) var tex3: texture_2d<f32>;

struct VertexInput {
    @location(0) pos: vec3<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) pos: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.pos = u.mvp * vec4<f32>(in.pos, 1.0);
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(tex0, samp, in.uv) * in.color;
}
`
