// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"errors"
	"image/png"
	"reflect"
	"testing"

	"github.com/gogpu/quad/vfs"
)

func TestSchedulerDelayAndFrames(t *testing.T) {
	var s Scheduler
	s.Queue(2, 3, "shot")

	var got [][]string
	for i := 0; i < 7; i++ {
		got = append(got, s.Due())
	}
	want := [][]string{nil, nil, {"shot"}, {"shot"}, {"shot"}, nil, nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Due() sequence = %v, want %v", got, want)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after completion", s.Len())
	}
}

func TestSchedulerDefaultsAndOrder(t *testing.T) {
	var s Scheduler
	s.Queue(0, 0, "")
	s.Queue(-4, 2, "b")
	s.Queue(1, 1, "c")

	if got := s.Due(); !reflect.DeepEqual(got, []string{DefaultBaseName, "b"}) {
		t.Errorf("first Due() = %v", got)
	}
	if got := s.Due(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("second Due() = %v", got)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		base  string
		frame uint64
		want  string
	}{
		{"shot", 3, "shot-000003.png"},
		{"ScreenShot", 0, "ScreenShot-000000.png"},
		{"big", 1234567, "big-1234567.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.base, tt.frame); got != tt.want {
			t.Errorf("FileName(%q, %d) = %q, want %q", tt.base, tt.frame, got, tt.want)
		}
	}
}

func TestFlipRows(t *testing.T) {
	pix := []byte{1, 1, 2, 2, 3, 3}
	FlipRows(pix, 2, 3)
	if !bytes.Equal(pix, []byte{3, 3, 2, 2, 1, 1}) {
		t.Errorf("FlipRows() = %v", pix)
	}
	even := []byte{1, 2, 3, 4}
	FlipRows(even, 2, 2)
	if !bytes.Equal(even, []byte{3, 4, 1, 2}) {
		t.Errorf("FlipRows(even) = %v", even)
	}
}

func TestEncodePNG(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 128,
	}
	data, err := EncodePNG(2, 2, pix, "quad-test")
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	if err := CheckHeader(data); err != nil {
		t.Fatalf("CheckHeader() error = %v", err)
	}

	texts, err := TextChunks(data)
	if err != nil {
		t.Fatalf("TextChunks() error = %v", err)
	}
	if texts[CreatorKeyword] != "quad-test" {
		t.Errorf("Creator = %q", texts[CreatorKeyword])
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v (chunk CRC or placement broken)", err)
	}
	if r, g, b, _ := img.At(1, 0).RGBA(); r != 0 || g != 0xffff || b != 0 {
		t.Errorf("pixel (1,0) = %v", img.At(1, 0))
	}

	plain, err := EncodePNG(2, 2, pix, "")
	if err != nil {
		t.Fatalf("EncodePNG(no creator) error = %v", err)
	}
	if texts, _ := TextChunks(plain); len(texts) != 0 {
		t.Errorf("texts = %v, want none", texts)
	}

	if _, err := EncodePNG(2, 2, pix[:4], "x"); err == nil {
		t.Error("EncodePNG(short pixels) succeeded")
	}
}

func TestCheckHeader(t *testing.T) {
	if err := CheckHeader([]byte("GIF89a")); !errors.Is(err, ErrBadHeader) {
		t.Errorf("CheckHeader(gif) = %v", err)
	}
	if _, err := TextChunks(nil); !errors.Is(err, ErrBadHeader) {
		t.Errorf("TextChunks(nil) = %v", err)
	}
}

// bottomUp returns a reader whose bottom row is red and top row is blue.
type bottomUp struct{ err error }

func (b bottomUp) ReadPixels(_, _, w, h int) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if y == 0 {
				pix[i] = 255
			} else {
				pix[i+2] = 255
			}
			pix[i+3] = 255
		}
	}
	return pix, nil
}

func TestPipeline(t *testing.T) {
	p := NewPipeline(WithCreator("tester"))
	if err := p.Capture(bottomUp{}, 3, 2, "a.png"); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if err := p.Capture(bottomUp{}, 3, 2, "b.png"); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if p.Pending() != 2 {
		t.Fatalf("Pending() = %d", p.Pending())
	}

	sink := vfs.NewMemory("save", true)
	name, err := p.Flush(sink)
	if err != nil || name != "a.png" {
		t.Fatalf("Flush() = %q, %v", name, err)
	}
	if p.Pending() != 1 {
		t.Errorf("Flush wrote more than one screenshot")
	}

	data, _ := sink.Bytes("a.png")
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode stored screenshot: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b != 0xffff {
		t.Errorf("top-left = %v, want the blue top row", img.At(0, 0))
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r != 0xffff {
		t.Errorf("bottom-left = %v, want red", img.At(0, 1))
	}
	if texts, _ := TextChunks(data); texts[CreatorKeyword] != "tester" {
		t.Errorf("Creator = %q", texts[CreatorKeyword])
	}

	p.Flush(sink)
	if name, err := p.Flush(sink); name != "" || err != nil {
		t.Errorf("Flush(empty) = %q, %v", name, err)
	}
}

func TestPipelineErrors(t *testing.T) {
	p := NewPipeline()
	readErr := errors.New("gpu lost")
	if err := p.Capture(bottomUp{err: readErr}, 1, 1, "x.png"); !errors.Is(err, readErr) {
		t.Errorf("Capture() error = %v", err)
	}
	if p.Pending() != 0 {
		t.Error("failed capture was queued")
	}

	if err := p.Capture(bottomUp{}, 1, 1, "x.png"); err != nil {
		t.Fatal(err)
	}
	_, err := p.Flush(vfs.NewMemory("ro", false))
	if !errors.Is(err, vfs.ErrNotWritable) {
		t.Errorf("Flush(read-only) error = %v, want ErrNotWritable", err)
	}
	if p.Pending() != 0 {
		t.Error("failed screenshot was kept")
	}
}
