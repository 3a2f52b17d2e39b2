package staff

import (
	"image"
	"math"
)

// Realign straightens img in place so that the model's staff lines run at a
// constant row.
//
// Every model column is shifted vertically by minus its rounded gradient.
// Straight models take the rotation-only path and shift by the rounded line
// slope instead, without reading the gradient. Shifts wrap around the column
// so no pixel is lost: Realign with m.Negate() restores the input exactly.
//
// Panics with a *GeometryError if m does not fit img.
func Realign(img *image.Gray, m *Model) {
	b := img.Bounds()
	h := b.Dy()
	mustMatch("realign", m, b.Dx(), h)
	if h == 0 {
		return
	}

	slope := math.Tan(m.Rot)
	col := make([]uint8, h)
	for i := range m.Gradient {
		var offset float64
		if m.Straight {
			offset = slope * float64(i)
		} else {
			offset = m.Gradient[i]
		}
		shift := -int(math.Round(offset)) % h
		if shift < 0 {
			shift += h
		}
		if shift == 0 {
			continue
		}

		base := img.PixOffset(b.Min.X+m.StartCol+i, b.Min.Y)
		for y := 0; y < h; y++ {
			col[y] = img.Pix[base+y*img.Stride]
		}
		for y := 0; y < h; y++ {
			img.Pix[base+((y+shift)%h)*img.Stride] = col[y]
		}
	}
}
