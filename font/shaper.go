package font

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Shaper measures kerning with HarfBuzz shaping. It reads GPOS kerning,
// which the kern-table lookup of NewOpenType does not see.
//
// A Shaper is not safe for concurrent use.
type Shaper struct {
	font   *gotext.Font
	shaper shaping.HarfbuzzShaper
	cache  map[kernKey]float32
}

type kernKey struct {
	a, b rune
	size fixed.Int26_6
}

// NewShaper parses ttf for shaping.
func NewShaper(ttf []byte) (*Shaper, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("font: shaper: %w", err)
	}
	return &Shaper{font: face.Font, cache: make(map[kernKey]float32)}, nil
}

// Kerning returns the advance adjustment between a and b at size pixels
// per em. Pairs that shape into a ligature report zero.
func (s *Shaper) Kerning(a, b rune, size float64) float32 {
	key := kernKey{a: a, b: b, size: fixed.Int26_6(size * 64)}
	if k, ok := s.cache[key]; ok {
		return k
	}
	pair := s.shape([]rune{a, b}, key.size)
	single := s.shape([]rune{a}, key.size)
	var k float32
	if len(pair) == 2 && len(single) == 1 {
		k = fixedToFloat(pair[0].Advance - single[0].Advance)
	}
	s.cache[key] = k
	return k
}

// Kerner returns Kerning bound to size, for Font.SetKerner.
func (s *Shaper) Kerner(size float64) Kerner {
	return func(a, b rune) float32 { return s.Kerning(a, b, size) }
}

func (s *Shaper) shape(runes []rune, size fixed.Int26_6) []shaping.Glyph {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(s.font),
		Size:      size,
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}
	return s.shaper.Shape(input).Glyphs
}
