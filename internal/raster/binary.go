package raster

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
)

// DefaultThreshold is the luminance level below which a pixel counts as ink
// when converting a decoded scan with FromImage.
const DefaultThreshold uint8 = 128

// Binary is a two-level raster where a Pix value of 1 marks ink (foreground)
// and 0 marks paper (background).
//
// Pixels are stored row-major: the pixel at (x, y) lives at Pix[y*Width+x].
// The origin is the top-left corner regardless of the bounds of the image the
// raster was built from.
type Binary struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinary allocates an all-background raster of the given size.
func NewBinary(width, height int) *Binary {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Binary{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// Bounds returns the raster rectangle anchored at the origin.
func (b *Binary) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At reports whether (x, y) is ink. Coordinates outside the raster read as
// background.
func (b *Binary) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] != 0
}

// Set marks (x, y) as ink or background. Out-of-range writes are ignored.
func (b *Binary) Set(x, y int, ink bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	if ink {
		b.Pix[y*b.Width+x] = 1
	} else {
		b.Pix[y*b.Width+x] = 0
	}
}

// FillRect marks every pixel of r (clipped to the raster) as ink.
func (b *Binary) FillRect(r image.Rectangle) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Pix[y*b.Width : (y+1)*b.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
}

// Clone returns a deep copy of the raster.
func (b *Binary) Clone() *Binary {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Binary{Width: b.Width, Height: b.Height, Pix: pix}
}

// Equal reports whether two rasters have the same size and pixels.
func (b *Binary) Equal(o *Binary) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if (b.Pix[i] != 0) != (o.Pix[i] != 0) {
			return false
		}
	}
	return true
}

// InkCount returns the number of foreground pixels.
func (b *Binary) InkCount() int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// FromImage binarizes img: pixels whose luminance is below level become ink.
//
// This is the outer convenience used by the loader; the staff core itself
// expects an already two-level input.
func FromImage(img image.Image, level uint8) *Binary {
	gray := segment.Threshold(img, level)
	gb := gray.Bounds()
	out := NewBinary(gb.Dx(), gb.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			if gray.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y == 0 {
				out.Pix[y*out.Width+x] = 1
			}
		}
	}
	return out
}

// FromGray treats every non-white pixel of g as ink.
func FromGray(g *image.Gray) *Binary {
	gb := g.Bounds()
	out := NewBinary(gb.Dx(), gb.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			if g.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y < 255 {
				out.Pix[y*out.Width+x] = 1
			}
		}
	}
	return out
}

// ToGray renders the raster as black ink on a white page.
func (b *Binary) ToGray() *image.Gray {
	g := image.NewGray(b.Bounds())
	for i, v := range b.Pix {
		if v != 0 {
			g.Pix[i] = Ink.Y
		} else {
			g.Pix[i] = Paper.Y
		}
	}
	return g
}

// Ink and Paper are the gray levels written by ToGray.
var (
	Ink   = color.Gray{Y: 0}
	Paper = color.Gray{Y: 255}
)
