// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// BlendFactor is one of the fixed blend factors an effect may choose for
// its source and destination.
type BlendFactor uint8

// Blend factors.
const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	DstColor
	OneMinusDstColor
	SrcAlpha
	OneMinusSrcAlpha
	DstAlpha
	OneMinusDstAlpha
	SrcAlphaSaturate
	ConstantColor
	OneMinusConstantColor
	ConstantAlpha
	OneMinusConstantAlpha
)

var blendNames = [...]string{
	Zero:                  "zero",
	One:                   "one",
	SrcColor:              "src-color",
	OneMinusSrcColor:      "one-minus-src-color",
	DstColor:              "dst-color",
	OneMinusDstColor:      "one-minus-dst-color",
	SrcAlpha:              "src-alpha",
	OneMinusSrcAlpha:      "one-minus-src-alpha",
	DstAlpha:              "dst-alpha",
	OneMinusDstAlpha:      "one-minus-dst-alpha",
	SrcAlphaSaturate:      "src-alpha-saturate",
	ConstantColor:         "constant-color",
	OneMinusConstantColor: "one-minus-constant-color",
	ConstantAlpha:         "constant-alpha",
	OneMinusConstantAlpha: "one-minus-constant-alpha",
}

var gpuFactors = [...]gputypes.BlendFactor{
	Zero:                  gputypes.BlendFactorZero,
	One:                   gputypes.BlendFactorOne,
	SrcColor:              gputypes.BlendFactorSrc,
	OneMinusSrcColor:      gputypes.BlendFactorOneMinusSrc,
	DstColor:              gputypes.BlendFactorDst,
	OneMinusDstColor:      gputypes.BlendFactorOneMinusDst,
	SrcAlpha:              gputypes.BlendFactorSrcAlpha,
	OneMinusSrcAlpha:      gputypes.BlendFactorOneMinusSrcAlpha,
	DstAlpha:              gputypes.BlendFactorDstAlpha,
	OneMinusDstAlpha:      gputypes.BlendFactorOneMinusDstAlpha,
	SrcAlphaSaturate:      gputypes.BlendFactorSrcAlphaSaturated,
	ConstantColor:         gputypes.BlendFactorConstant,
	OneMinusConstantColor: gputypes.BlendFactorOneMinusConstant,
	ConstantAlpha:         gputypes.BlendFactorOne,
	OneMinusConstantAlpha: gputypes.BlendFactorOne,
}

// String returns the factor's configuration name.
func (f BlendFactor) String() string {
	if int(f) < len(blendNames) {
		return blendNames[f]
	}
	return fmt.Sprintf("BlendFactor(%d)", uint8(f))
}

// Valid reports whether f is a known factor.
func (f BlendFactor) Valid() bool { return int(f) < len(blendNames) }

// GPU returns the gputypes factor for f. The constant-alpha factors have no
// equivalent and come back as One with exact set to false, as do unknown
// values.
func (f BlendFactor) GPU() (factor gputypes.BlendFactor, exact bool) {
	if !f.Valid() {
		return gputypes.BlendFactorOne, false
	}
	return gpuFactors[f], f != ConstantAlpha && f != OneMinusConstantAlpha
}

// ParseBlendFactor accepts the names produced by String, case-insensitively
// and with '_' in place of '-'.
func ParseBlendFactor(s string) (BlendFactor, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range blendNames {
		if name == s {
			return BlendFactor(i), nil
		}
	}
	return 0, fmt.Errorf("effect: unknown blend factor %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f BlendFactor) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("effect: invalid blend factor %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *BlendFactor) UnmarshalText(text []byte) error {
	v, err := ParseBlendFactor(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
