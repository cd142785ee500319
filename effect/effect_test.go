// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/backend/null"
	"github.com/gogpu/quad/vfs"
	"gopkg.in/yaml.v3"
)

func TestNewMatchesDefaultState(t *testing.T) {
	got := New("default", 0).PipelineState()
	want := backend.DefaultPipelineState()
	if got != want {
		t.Errorf("PipelineState() = %+v, want %+v", got, want)
	}
}

func TestPipelineStateFlags(t *testing.T) {
	e := New("x", 3).WithCullFace(false).WithDepthTest(true).WithBlend(One, One)
	s := e.PipelineState()
	if s.Program != 3 {
		t.Errorf("Program = %d", s.Program)
	}
	if s.Cull != gputypes.CullModeNone {
		t.Errorf("Cull = %v, want none", s.Cull)
	}
	if s.Depth != gputypes.CompareFunctionLessEqual {
		t.Errorf("Depth = %v, want less-equal", s.Depth)
	}
	if s.Color.SrcFactor != gputypes.BlendFactorOne || s.Alpha.DstFactor != gputypes.BlendFactorOne {
		t.Errorf("blend = %+v / %+v", s.Color, s.Alpha)
	}
	if s.Color.Operation != gputypes.BlendOperationAdd {
		t.Errorf("Operation = %v", s.Color.Operation)
	}
}

func TestBlendFactorGPU(t *testing.T) {
	tests := []struct {
		f     BlendFactor
		want  gputypes.BlendFactor
		exact bool
	}{
		{Zero, gputypes.BlendFactorZero, true},
		{SrcAlpha, gputypes.BlendFactorSrcAlpha, true},
		{OneMinusDstAlpha, gputypes.BlendFactorOneMinusDstAlpha, true},
		{DstColor, gputypes.BlendFactorDst, true},
		{SrcAlphaSaturate, gputypes.BlendFactorSrcAlphaSaturated, true},
		{ConstantColor, gputypes.BlendFactorConstant, true},
		{ConstantAlpha, gputypes.BlendFactorOne, false},
		{OneMinusConstantAlpha, gputypes.BlendFactorOne, false},
		{BlendFactor(200), gputypes.BlendFactorOne, false},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			got, exact := tt.f.GPU()
			if got != tt.want || exact != tt.exact {
				t.Errorf("GPU() = %v, %v; want %v, %v", got, exact, tt.want, tt.exact)
			}
		})
	}

	if New("x", 0).WithBlend(ConstantAlpha, One).ExactBlend() {
		t.Error("ExactBlend() = true for a constant-alpha factor")
	}
}

func TestParseBlendFactor(t *testing.T) {
	for f := Zero; f <= OneMinusConstantAlpha; f++ {
		got, err := ParseBlendFactor(f.String())
		if err != nil || got != f {
			t.Errorf("ParseBlendFactor(%q) = %v, %v", f.String(), got, err)
		}
	}
	if got, err := ParseBlendFactor(" ONE_MINUS_SRC_ALPHA "); err != nil || got != OneMinusSrcAlpha {
		t.Errorf("ParseBlendFactor(upper snake) = %v, %v", got, err)
	}
	if _, err := ParseBlendFactor("sideways"); err == nil {
		t.Error("ParseBlendFactor(sideways) succeeded")
	}
}

func TestBlendFactorYAML(t *testing.T) {
	var cfg struct {
		Src BlendFactor `yaml:"src"`
		Dst BlendFactor `yaml:"dst"`
	}
	if err := yaml.Unmarshal([]byte("src: one\ndst: one-minus-src-alpha\n"), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Src != One || cfg.Dst != OneMinusSrcAlpha {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := yaml.Unmarshal([]byte("src: nope\n"), &cfg); err == nil {
		t.Error("Unmarshal(unknown factor) succeeded")
	}
}

func TestCompile(t *testing.T) {
	words, err := Compile("default", backend.DefaultShaderWGSL)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(words) < 5 || words[0] != 0x07230203 {
		t.Errorf("missing SPIR-V magic: %d words", len(words))
	}

	if _, err := Compile("broken", "fn {"); !errors.Is(err, ErrCompile) {
		t.Errorf("Compile(broken) error = %v, want ErrCompile", err)
	}
}

func TestLoad(t *testing.T) {
	fs := vfs.NewMemory("shaders", false)
	fs.AddString("sprite.wgsl", backend.DefaultShaderWGSL)
	be := null.New()

	e, err := Load(fs, be, "sprite", "sprite.wgsl", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if e.Name != "sprite" || e.Program != 1 || len(be.Programs) != 1 {
		t.Errorf("effect = %+v, programs = %d", e, len(be.Programs))
	}

	if _, err := Load(fs, be, "missing", "missing.wgsl", ""); !errors.Is(err, vfs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want vfs.ErrNotExist", err)
	}
}
