// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
)

// ErrBadHeader is returned when encoded data does not start with the PNG
// signature.
var ErrBadHeader = errors.New("capture: broken PNG header")

// CreatorKeyword is the text chunk keyword carrying the creator.
const CreatorKeyword = "Creator"

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ihdrEnd is the offset after the signature and the IHDR chunk, which the
// encoder always writes first.
const ihdrEnd = 8 + 4 + 4 + 13 + 4

// FlipRows reverses the order of height rows of stride bytes in place.
func FlipRows(pix []byte, stride, height int) {
	swp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bot := pix[(height-y-1)*stride : (height-y)*stride]
		copy(swp, top)
		copy(top, bot)
		copy(bot, swp)
	}
}

// EncodePNG encodes top-down RGBA8 pixels as a PNG with a Creator text
// chunk. An empty creator omits the chunk.
func EncodePNG(width, height int, pix []byte, creator string) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("capture: %dx%d image needs %d bytes, got %d", width, height, width*height*4, len(pix))
	}
	img := &image.RGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("capture: encode: %w", err)
	}
	data := buf.Bytes()
	if err := CheckHeader(data); err != nil {
		return nil, err
	}
	if creator == "" {
		return data, nil
	}
	chunk := textChunk(CreatorKeyword, creator)
	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...), nil
}

// CheckHeader verifies the PNG signature.
func CheckHeader(data []byte) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return ErrBadHeader
	}
	return nil
}

// textChunk builds a tEXt chunk: keyword, NUL, Latin-1 text.
func textChunk(keyword, text string) []byte {
	body := make([]byte, 0, 4+len(keyword)+1+len(text))
	body = append(body, "tEXt"...)
	body = append(body, keyword...)
	body = append(body, 0)
	body = append(body, text...)

	chunk := make([]byte, 4, 4+len(body)+4)
	binary.BigEndian.PutUint32(chunk, uint32(len(body)-4))
	chunk = append(chunk, body...)
	return binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))
}

// TextChunks returns the tEXt keyword/value pairs of an encoded PNG.
func TextChunks(data []byte) (map[string]string, error) {
	if err := CheckHeader(data); err != nil {
		return nil, err
	}
	texts := make(map[string]string)
	for p := len(pngSignature); p+8 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[p:]))
		typ := string(data[p+4 : p+8])
		end := p + 8 + n + 4
		if n < 0 || end > len(data) {
			return nil, fmt.Errorf("capture: truncated %q chunk", typ)
		}
		if typ == "tEXt" {
			body := data[p+8 : p+8+n]
			if k, v, ok := bytes.Cut(body, []byte{0}); ok {
				texts[string(k)] = string(v)
			}
		}
		p = end
	}
	return texts, nil
}
