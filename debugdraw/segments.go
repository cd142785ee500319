package debugdraw

import "github.com/gogpu/quad/geom"

// Segment end points of a glyph cell half as wide as it is tall, origin at
// the bottom left.
var segmentPoints = [9]geom.Vec2{
	{X: 0, Y: 1}, {X: 0.25, Y: 1}, {X: 0.5, Y: 1},
	{X: 0, Y: 0.5}, {X: 0.25, Y: 0.5}, {X: 0.5, Y: 0.5},
	{X: 0, Y: 0}, {X: 0.25, Y: 0}, {X: 0.5, Y: 0},
}

// Segments in the order a1 a2 b c d1 d2 e f g1 g2 h i j k l m:
//
//	 a1   a2
//	f h i j b
//	 g1   g2
//	e k l m c
//	 d1   d2
var segments = [16][2]int{
	{0, 1}, {1, 2}, {2, 5}, {5, 8}, {6, 7}, {7, 8}, {6, 3}, {3, 0},
	{3, 4}, {4, 5}, {0, 4}, {1, 4}, {2, 4}, {6, 4}, {7, 4}, {8, 4},
}

// Lit segments per rune, one bit per segment, a1 in the highest bit.
var characters = map[rune]uint16{
	'0': seg("1111111100001100"),
	'1': seg("0000000000010010"),
	'2': seg("1110111011000000"),
	'3': seg("1111110011000000"),
	'4': seg("0011000111000000"),
	'5': seg("1101110111000000"),
	'6': seg("1101111111000000"),
	'7': seg("1111000000000000"),
	'8': seg("1111111111000000"),
	'9': seg("1111110111000000"),
	'A': seg("1111001111000000"),
	'B': seg("1111110001010010"),
	'C': seg("1100111100000000"),
	'D': seg("1111110000010010"),
	'E': seg("1100111111000000"),
	'F': seg("1100001111000000"),
	'G': seg("1101111101000000"),
	'H': seg("0011001111000000"),
	'I': seg("0000000000010010"),
	'J': seg("0011111000000000"),
	'K': seg("0000001100001101"),
	'L': seg("0000111100000000"),
	'M': seg("1111001100010000"),
	'N': seg("0011001100100001"),
	'O': seg("1111111100000000"),
	'P': seg("1110001111000000"),
	'Q': seg("1111111100000001"),
	'R': seg("1110001111000001"),
	'S': seg("1101110111000000"),
	'T': seg("1100000000010010"),
	'U': seg("0011111100000000"),
	'W': seg("0011001100000101"),
	'X': seg("0000000000101101"),
	'Y': seg("0000000000101010"),
	'Z': seg("1100110000001100"),
	'-': seg("0000000011000000"),
	'+': seg("0000000011010010"),
	'*': seg("0000000011111111"),
	'/': seg("0000000000001100"),
	' ': 0,
}

func seg(bits string) uint16 {
	var v uint16
	for _, b := range bits {
		v <<= 1
		if b == '1' {
			v |= 1
		}
	}
	return v
}

// SixteenSegment returns the lines drawing r in a unit-high cell. 'V' uses
// two diagonals instead of its segment form. Runes without a pattern light
// every segment.
func SixteenSegment(r rune) [][2]geom.Vec2 {
	if r == 'V' {
		return [][2]geom.Vec2{
			{segmentPoints[0], segmentPoints[7]},
			{segmentPoints[7], segmentPoints[2]},
		}
	}
	bits, ok := characters[r]
	if !ok {
		bits = 0xffff
	}
	var lines [][2]geom.Vec2
	for i, s := range segments {
		if bits&(1<<(15-i)) != 0 {
			lines = append(lines, [2]geom.Vec2{segmentPoints[s[0]], segmentPoints[s[1]]})
		}
	}
	return lines
}
