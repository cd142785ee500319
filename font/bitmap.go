package font

import (
	"errors"
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/vfs"
	"gopkg.in/yaml.v3"
)

// DescriptionSuffix is appended to a font name to find its description.
const DescriptionSuffix = ".font.yaml"

// ErrNoGlyphs is returned for a description without usable glyphs.
var ErrNoGlyphs = errors.New("font: no glyphs")

// Description is the YAML form of a bitmap font.
type Description struct {
	Texture    string             `yaml:"texture"`
	LineHeight float32            `yaml:"line_height"`
	Fallback   string             `yaml:"fallback,omitempty"`
	Glyphs     []GlyphDescription `yaml:"glyphs"`
	Kerning    []KernDescription  `yaml:"kerning,omitempty"`
}

// GlyphDescription places one rune in the texture. Advance defaults to W.
type GlyphDescription struct {
	Rune    string  `yaml:"rune"`
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	W       int     `yaml:"w"`
	H       int     `yaml:"h"`
	Advance float32 `yaml:"advance,omitempty"`
	OffsetX float32 `yaml:"offset_x,omitempty"`
	OffsetY float32 `yaml:"offset_y,omitempty"`
}

// KernDescription adjusts the advance between the two runes of Pair.
type KernDescription struct {
	Pair   string  `yaml:"pair"`
	Amount float32 `yaml:"amount"`
}

// ParseDescription decodes a bitmap font description.
func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("font: parse description: %w", err)
	}
	return &d, nil
}

// Font builds a font called name. UVs are computed once the texture size
// is known through SetTextureSize.
func (d *Description) Font(name string) (*Font, error) {
	texture := d.Texture
	if texture == "" {
		texture = name
	}
	lineHeight := d.LineHeight
	f := New(name, texture, lineHeight)
	if fb, _ := utf8.DecodeRuneInString(d.Fallback); fb != utf8.RuneError {
		f.Fallback = fb
	}

	for _, gd := range d.Glyphs {
		r, n := utf8.DecodeRuneInString(gd.Rune)
		if r == utf8.RuneError || n != len(gd.Rune) || gd.W < 0 || gd.H < 0 {
			return nil, fmt.Errorf("font: %s: bad glyph %q", name, gd.Rune)
		}
		adv := gd.Advance
		if adv == 0 {
			adv = float32(gd.W)
		}
		f.AddGlyph(Glyph{
			Rune:    r,
			Rect:    image.Rect(gd.X, gd.Y, gd.X+gd.W, gd.Y+gd.H),
			Advance: adv,
			Offset:  geom.V2(gd.OffsetX, gd.OffsetY),
			UV:      geom.Identity(),
		})
		if lineHeight == 0 {
			f.LineHeight = max(f.LineHeight, float32(gd.H))
		}
	}
	if f.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGlyphs, name)
	}

	for _, k := range d.Kerning {
		runes := []rune(k.Pair)
		if len(runes) != 2 {
			return nil, fmt.Errorf("font: %s: kerning pair %q must have two runes", name, k.Pair)
		}
		f.SetKerning(runes[0], runes[1], k.Amount)
	}
	return f, nil
}

// LoadBitmap reads `<name>.font.yaml` from fs.
func LoadBitmap(fs vfs.Filesystem, name string) (*Font, error) {
	data, err := vfs.ReadAll(fs, name+DescriptionSuffix)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	d, err := ParseDescription(data)
	if err != nil {
		return nil, err
	}
	return d.Font(name)
}
