// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/gogpu/gputypes"

// blendConstant is the blend constant color. The backend has no API to
// change it, so it stays opaque white.
var blendConstant = [4]float32{1, 1, 1, 1}

// blend combines a straight-alpha fragment with the target pixel.
func blend(colorState, alphaState gputypes.BlendComponent, src, dst [4]float32) [4]float32 {
	var out [4]float32
	for i := 0; i < 3; i++ {
		out[i] = apply(colorState, i, src, dst)
	}
	out[3] = apply(alphaState, 3, src, dst)
	return out
}

func apply(c gputypes.BlendComponent, ch int, src, dst [4]float32) float32 {
	s := src[ch]
	d := dst[ch]
	switch c.Operation {
	case gputypes.BlendOperationMin:
		return min(s, d)
	case gputypes.BlendOperationMax:
		return max(s, d)
	}
	sf := s * factor(c.SrcFactor, ch, src, dst)
	df := d * factor(c.DstFactor, ch, src, dst)
	var r float32
	switch c.Operation {
	case gputypes.BlendOperationSubtract:
		r = sf - df
	case gputypes.BlendOperationReverseSubtract:
		r = df - sf
	default:
		r = sf + df
	}
	return min(max(r, 0), 1)
}

func factor(f gputypes.BlendFactor, ch int, src, dst [4]float32) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorSrc:
		return src[ch]
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - src[ch]
	case gputypes.BlendFactorSrcAlpha:
		return src[3]
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - src[3]
	case gputypes.BlendFactorDst:
		return dst[ch]
	case gputypes.BlendFactorOneMinusDst:
		return 1 - dst[ch]
	case gputypes.BlendFactorDstAlpha:
		return dst[3]
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - dst[3]
	case gputypes.BlendFactorSrcAlphaSaturated:
		if ch == 3 {
			return 1
		}
		return min(src[3], 1-dst[3])
	case gputypes.BlendFactorConstant:
		return blendConstant[ch]
	case gputypes.BlendFactorOneMinusConstant:
		return 1 - blendConstant[ch]
	default:
		return 1
	}
}
