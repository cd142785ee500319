package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPackerAllocate(t *testing.T) {
	p := NewPacker(64, 64, 0)

	a := p.Allocate(32, 16)
	b := p.Allocate(32, 16)
	c := p.Allocate(10, 10)
	if a != (Region{0, 0, 32, 16}) || b != (Region{32, 0, 32, 16}) {
		t.Errorf("first shelf: a=%v b=%v", a, b)
	}
	if c.Y != 16 || c.X != 0 {
		t.Errorf("c = %v, want a new shelf at y=16", c)
	}
	if p.Count() != 3 {
		t.Errorf("Count() = %d", p.Count())
	}
	if got := p.Utilization(); got <= 0 || got > 1 {
		t.Errorf("Utilization() = %v", got)
	}
}

func TestPackerRejects(t *testing.T) {
	p := NewPacker(16, 16, 1)
	tests := []struct {
		name string
		w, h int
	}{
		{"zero", 0, 4},
		{"too wide with padding", 16, 1},
		{"too tall", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := p.Allocate(tt.w, tt.h); r.IsValid() {
				t.Errorf("Allocate(%d, %d) = %v, want invalid", tt.w, tt.h, r)
			}
		})
	}

	for p.Allocate(7, 7).IsValid() {
	}
	if p.Count() != 4 {
		t.Errorf("Count() = %d, want 4 padded 7x7 cells in 16x16", p.Count())
	}
	p.Reset()
	if p.Count() != 0 || !p.Allocate(15, 15).IsValid() {
		t.Error("Reset() did not free the area")
	}
}

func TestBuildAtlas(t *testing.T) {
	red := image.NewRGBA(image.Rect(0, 0, 40, 40))
	blue := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			red.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			blue.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	atlas, regions, err := BuildAtlas([]image.Image{red, blue}, 1)
	if err != nil {
		t.Fatalf("BuildAtlas() error = %v", err)
	}
	if atlas.Bounds().Dx() != 2*MinAtlasSize {
		t.Errorf("atlas size = %v, want doubled once", atlas.Bounds())
	}
	for i, want := range []color.RGBA{{R: 255, A: 255}, {B: 255, A: 255}} {
		r := regions[i]
		if got := atlas.RGBAAt(r.X+r.Width-1, r.Y+r.Height-1); got != want {
			t.Errorf("region %d corner = %v, want %v", i, got, want)
		}
	}

	huge := image.NewRGBA(image.Rect(0, 0, MaxAtlasSize+1, 1))
	if _, _, err := BuildAtlas([]image.Image{huge}, 0); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("oversized error = %v, want ErrAtlasFull", err)
	}
}
