package texture

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrAtlasFull is returned when images do not fit the largest atlas size.
var ErrAtlasFull = errors.New("texture: atlas is full")

// Atlas sizes used by BuildAtlas.
const (
	// MinAtlasSize is the smallest atlas dimension.
	MinAtlasSize = 64

	// MaxAtlasSize is the largest atlas dimension.
	MaxAtlasSize = 4096
)

// Region is a rectangle inside an atlas.
type Region struct {
	X, Y          int
	Width, Height int
}

// IsValid returns true if the region has valid dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the atlas.
type shelf struct {
	y      int // top of the shelf
	height int // tallest item so far, padding included
	nextX  int // next free x
}

// Packer places rectangles into a fixed-size area with shelf packing:
// each rectangle goes onto the first shelf with room, otherwise onto a new
// shelf below the last one.
type Packer struct {
	width, height int
	padding       int
	shelves       []*shelf
	count         int
	usedArea      int
}

// NewPacker creates a packer for a width x height area. Padding is kept
// free to the right of and below every rectangle.
func NewPacker(width, height, padding int) *Packer {
	return &Packer{
		width:   max(width, 1),
		height:  max(height, 1),
		padding: max(padding, 0),
		shelves: make([]*shelf, 0, 16),
	}
}

// Allocate reserves a width x height rectangle. It returns an invalid
// region when the rectangle does not fit.
func (p *Packer) Allocate(width, height int) Region {
	if width <= 0 || height <= 0 {
		return Region{}
	}
	pw, ph := width+p.padding, height+p.padding
	if pw > p.width || ph > p.height {
		return Region{}
	}
	for _, s := range p.shelves {
		if p.fits(s, pw, ph) {
			return p.place(s, width, height, pw, ph)
		}
	}

	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > p.height {
		return Region{}
	}
	s := &shelf{y: y}
	p.shelves = append(p.shelves, s)
	return p.place(s, width, height, pw, ph)
}

func (p *Packer) fits(s *shelf, pw, ph int) bool {
	if s.nextX+pw > p.width {
		return false
	}
	// Only an empty shelf may grow taller.
	return ph <= s.height || s.nextX == 0
}

func (p *Packer) place(s *shelf, width, height, pw, ph int) Region {
	r := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
	s.nextX += pw
	s.height = max(s.height, ph)
	p.count++
	p.usedArea += width * height
	return r
}

// Reset forgets every allocation.
func (p *Packer) Reset() {
	p.shelves = p.shelves[:0]
	p.count = 0
	p.usedArea = 0
}

// Count returns the number of allocations.
func (p *Packer) Count() int { return p.count }

// Utilization returns the used fraction of the area.
func (p *Packer) Utilization() float64 {
	return float64(p.usedArea) / float64(p.width*p.height)
}

// BuildAtlas packs images into one RGBA image. The atlas starts at
// MinAtlasSize and doubles until everything fits. regions[i] is where
// images[i] landed.
func BuildAtlas(images []image.Image, padding int) (*image.RGBA, []Region, error) {
	for size := MinAtlasSize; size <= MaxAtlasSize; size *= 2 {
		p := NewPacker(size, size, padding)
		regions := make([]Region, len(images))
		ok := true
		for i, img := range images {
			b := img.Bounds()
			if b.Empty() {
				continue
			}
			r := p.Allocate(b.Dx(), b.Dy())
			if !r.IsValid() {
				ok = false
				break
			}
			regions[i] = r
		}
		if !ok {
			continue
		}
		atlas := image.NewRGBA(image.Rect(0, 0, size, size))
		for i, img := range images {
			r := regions[i]
			if !r.IsValid() {
				continue
			}
			dst := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
			draw.Draw(atlas, dst, img, img.Bounds().Min, draw.Src)
		}
		return atlas, regions, nil
	}
	return nil, nil, fmt.Errorf("%w: %d images exceed %dx%d", ErrAtlasFull, len(images), MaxAtlasSize, MaxAtlasSize)
}
