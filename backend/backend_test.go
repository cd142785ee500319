// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/backend/null"
)

func TestVertexLayout(t *testing.T) {
	if backend.VertexStride != 36 {
		t.Errorf("VertexStride = %d, want 36", backend.VertexStride)
	}
	if backend.OffsetUV != 3*4 || backend.OffsetColor != 5*4 {
		t.Errorf("offsets = %d/%d", backend.OffsetUV, backend.OffsetColor)
	}
}

func TestDefaultPipelineState(t *testing.T) {
	s := backend.DefaultPipelineState()
	if s.Cull != gputypes.CullModeBack {
		t.Errorf("Cull = %v, want back", s.Cull)
	}
	if s.Depth != gputypes.CompareFunctionAlways {
		t.Errorf("Depth = %v, want always", s.Depth)
	}
	if s.Color.SrcFactor != gputypes.BlendFactorSrcAlpha || s.Color.DstFactor != gputypes.BlendFactorOneMinusSrcAlpha {
		t.Errorf("Color blend = %+v", s.Color)
	}
	if s.Alpha != s.Color {
		t.Errorf("Alpha blend = %+v, want the color factors %+v", s.Alpha, s.Color)
	}
	if s.Blend().Color != s.Color {
		t.Error("Blend() does not carry the color component")
	}
}

func TestBatchIndices(t *testing.T) {
	b16 := backend.Batch{Indices16: []uint16{0, 1, 2}}
	if b16.IndexCount() != 3 || b16.Index(2) != 2 {
		t.Errorf("16-bit batch: count=%d idx=%d", b16.IndexCount(), b16.Index(2))
	}
	b32 := backend.Batch{Indices32: []uint32{7, 70000}}
	if b32.IndexCount() != 2 || b32.Index(1) != 70000 {
		t.Errorf("32-bit batch: count=%d idx=%d", b32.IndexCount(), b32.Index(1))
	}
}

func TestCheckTextureData(t *testing.T) {
	tests := []struct {
		name    string
		w, h, n int
		wantErr bool
	}{
		{"ok", 2, 2, 16, false},
		{"short", 2, 2, 15, true},
		{"zero size", 0, 2, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := backend.CheckTextureData(tt.w, tt.h, make([]byte, tt.n))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckTextureData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, backend.ErrTextureData) {
				t.Errorf("error %v does not wrap ErrTextureData", err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	if !backend.IsRegistered(backend.NameNull) {
		t.Fatal("null backend not registered by import")
	}
	if !slices.Contains(backend.Available(), backend.NameNull) {
		t.Errorf("Available() = %v, missing null", backend.Available())
	}

	b, err := backend.New(backend.NameNull)
	if err != nil {
		t.Fatalf("New(null) error = %v", err)
	}
	if b.Name() != backend.NameNull {
		t.Errorf("Name() = %q", b.Name())
	}

	if _, err := backend.New("nope"); !errors.Is(err, backend.ErrUnknownBackend) {
		t.Errorf("New(nope) error = %v, want ErrUnknownBackend", err)
	}
}

func TestRegistryPriority(t *testing.T) {
	backend.Register(backend.NameWGPU, func() backend.Backend { return null.New() })
	defer backend.Unregister(backend.NameWGPU)

	if got := backend.BestName(); got != backend.NameWGPU {
		t.Errorf("BestName() = %q, want %q", got, backend.NameWGPU)
	}
	if backend.Best() == nil {
		t.Error("Best() = nil")
	}
}
