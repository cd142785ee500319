package font

import (
	"fmt"
	"image"

	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/texture"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ASCII returns the printable ASCII runes.
func ASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(' '); r <= '~'; r++ {
		runes = append(runes, r)
	}
	return runes
}

// atlasPadding keeps neighbouring glyphs from bleeding under linear
// filtering.
const atlasPadding = 1

// NewOpenType rasterises runes of the OpenType font ttf at size pixels per
// em. It returns the font and the atlas image, white glyphs on a
// transparent background, to be registered as the texture called name.
// Kerning comes from the font's kern table.
func NewOpenType(name string, ttf []byte, size float64, runes []rune) (*Font, *image.RGBA, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, nil, fmt.Errorf("font: failed to parse %s: %w", name, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("font: face %s: %w", name, err)
	}

	m := face.Metrics()
	descent := fixedToFloat(m.Descent)
	f := New(name, name, fixedToFloat(m.Height))

	type pending struct {
		glyph Glyph
		img   image.Image
	}
	var glyphs []pending
	for _, r := range runes {
		bounds, advance, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
		maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
		g := Glyph{
			Rune:    r,
			Advance: fixedToFloat(advance),
			Offset:  geom.V2(float32(minX), descent-float32(maxY)),
			UV:      geom.Identity(),
		}
		var mask image.Image = image.NewRGBA(image.Rectangle{})
		if w, h := maxX-minX, maxY-minY; w > 0 && h > 0 {
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			d := xfont.Drawer{
				Dst:  dst,
				Src:  image.White,
				Face: face,
				Dot:  fixed.P(-minX, -minY),
			}
			d.DrawString(string(r))
			mask = dst
		}
		glyphs = append(glyphs, pending{glyph: g, img: mask})
	}
	if len(glyphs) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoGlyphs, name)
	}

	images := make([]image.Image, len(glyphs))
	for i, p := range glyphs {
		images[i] = p.img
	}
	atlas, regions, err := texture.BuildAtlas(images, atlasPadding)
	if err != nil {
		return nil, nil, fmt.Errorf("font: %s: %w", name, err)
	}
	for i, p := range glyphs {
		g := p.glyph
		if r := regions[i]; r.IsValid() {
			g.Rect = image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		}
		f.AddGlyph(g)
	}
	f.SetTextureSize(atlas.Bounds().Dx(), atlas.Bounds().Dy())
	f.SetKerner(func(a, b rune) float32 { return fixedToFloat(face.Kern(a, b)) })
	return f, atlas, nil
}

// Default rasterises the printable ASCII range of Go Regular.
func Default(name string, size float64) (*Font, *image.RGBA, error) {
	return NewOpenType(name, goregular.TTF, size, ASCII())
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
