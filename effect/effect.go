// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect describes shader programs together with the fixed-function
// state they are drawn with: face culling, depth testing and blending.
//
// Effects are created at setup time and do not change afterwards.
// Programs are written in WGSL and compiled to SPIR-V with naga; they must
// export the entry points and bindings documented in package backend.
package effect

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/quad/backend"
)

// Effect is a program plus its render state.
type Effect struct {
	ID        uint16
	Name      string
	Program   backend.Program // 0 selects the backend's built-in program
	CullFace  bool
	DepthTest bool
	BlendSrc  BlendFactor
	BlendDst  BlendFactor
}

// New returns an effect with back-face culling, no depth test and straight
// alpha blending.
func New(name string, program backend.Program) Effect {
	return Effect{
		Name:     name,
		Program:  program,
		CullFace: true,
		BlendSrc: SrcAlpha,
		BlendDst: OneMinusSrcAlpha,
	}
}

// WithCullFace returns a copy with culling enabled or disabled.
func (e Effect) WithCullFace(enabled bool) Effect {
	e.CullFace = enabled
	return e
}

// WithDepthTest returns a copy with depth testing enabled or disabled.
func (e Effect) WithDepthTest(enabled bool) Effect {
	e.DepthTest = enabled
	return e
}

// WithBlend returns a copy using src and dst as blend factors.
func (e Effect) WithBlend(src, dst BlendFactor) Effect {
	e.BlendSrc = src
	e.BlendDst = dst
	return e
}

// ExactBlend reports whether both blend factors map onto the GPU without
// substitution.
func (e Effect) ExactBlend() bool {
	_, srcOK := e.BlendSrc.GPU()
	_, dstOK := e.BlendDst.GPU()
	return srcOK && dstOK
}

// PipelineState converts the effect to backend state. Color and alpha
// blend with the same factors.
func (e Effect) PipelineState() backend.PipelineState {
	src, _ := e.BlendSrc.GPU()
	dst, _ := e.BlendDst.GPU()
	blend := gputypes.BlendComponent{
		SrcFactor: src,
		DstFactor: dst,
		Operation: gputypes.BlendOperationAdd,
	}
	s := backend.PipelineState{
		Program: e.Program,
		Cull:    gputypes.CullModeNone,
		Depth:   gputypes.CompareFunctionAlways,
		Color:   blend,
		Alpha:   blend,
	}
	if e.CullFace {
		s.Cull = gputypes.CullModeBack
	}
	if e.DepthTest {
		s.Depth = gputypes.CompareFunctionLessEqual
	}
	return s
}
