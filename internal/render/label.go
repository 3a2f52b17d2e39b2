package render

import (
	"image"
	"image/color"
)

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// glyphs is a 3x5 pixel font covering the digits.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel prints text with its top-left corner at (x, y) on a filled box.
// Pixels outside the canvas are dropped; unknown runes leave a blank cell.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	b := img.Bounds()
	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(b) {
			img.SetNRGBA(px, py, c)
		}
	}

	width := len(text) * glyphAdvance
	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < width; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += glyphAdvance
	}
}
