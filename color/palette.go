package color

// Palette cycles through a fixed list of colors.
// It is used by debug drawing to tell neighbouring shapes apart.
type Palette struct {
	colors []Color
	next   int
}

// DefaultPalette returns the material-design palette used for debug output.
func DefaultPalette() *Palette {
	return NewPalette(
		RGBA8(244, 67, 54, 255),
		RGBA8(33, 150, 243, 255),
		RGBA8(139, 195, 74, 255),
		RGBA8(121, 85, 72, 255),
		RGBA8(156, 39, 176, 255),
		RGBA8(0, 188, 212, 255),
		RGBA8(255, 235, 59, 255),
		RGBA8(0, 150, 136, 255),
		RGBA8(255, 152, 0, 255),
	)
}

// NewPalette returns a palette over colors.
func NewPalette(colors ...Color) *Palette {
	return &Palette{colors: colors}
}

// At returns the color at index, wrapping around, and makes Next continue
// after it.
func (p *Palette) At(index int) Color {
	if len(p.colors) == 0 {
		return White
	}
	index %= len(p.colors)
	if index < 0 {
		index += len(p.colors)
	}
	p.next = index + 1
	return p.colors[index]
}

// Next returns the color after the last one handed out.
func (p *Palette) Next() Color {
	return p.At(p.next)
}
