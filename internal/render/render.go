package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

var (
	background = color.NRGBA{0, 0, 0, 255}
	curveColor = color.NRGBA{255, 255, 255, 255}
	inkColor   = color.NRGBA{96, 96, 96, 255}
	paperColor = color.NRGBA{255, 255, 255, 255}
	labelFg    = color.NRGBA{255, 255, 255, 255}
	labelBg    = color.NRGBA{0, 0, 0, 200}
)

// StaffModel draws the model's gradient field: a black canvas the size of
// the source raster with the gradient curve traced at every staff-space row
// offset from StartRow.
func StaffModel(m *staff.Model) *image.NRGBA {
	canvas := imaging.New(m.Width, m.Height, background)
	if m.StaffSpace <= 0 {
		return canvas
	}

	first := m.StartRow % m.StaffSpace
	for row := first - m.StaffSpace; row < m.Height+m.StaffSpace; row += m.StaffSpace {
		traceRow(canvas, m, float64(row), curveColor)
	}
	return canvas
}

// Staffs draws the raster in gray on white with the five lines of every
// staff traced in its own color and the staff index printed at the left
// margin.
func Staffs(img *raster.Binary, staffs staff.Staffs, m *staff.Model) *image.NRGBA {
	canvas := imaging.New(img.Width, img.Height, paperColor)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if img.At(x, y) {
				canvas.SetNRGBA(x, y, inkColor)
			}
		}
	}

	pal := Palette(len(staffs))
	for i, s := range staffs {
		for k := 0; k < 5; k++ {
			traceRow(canvas, m, s.Line(k), pal[i])
		}
		top := m.RowAt(float64(s.First), 0)
		drawLabel(canvas, 2, top-labelHeight-1, strconv.Itoa(i), labelFg, labelBg)
	}
	return canvas
}

// Palette returns n opaque colors whose hues advance by the golden angle.
func Palette(n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		hue := math.Mod(float64(i)*137.508, 360)
		r, g, b := colorful.Hsv(hue, 0.85, 0.95).Clamped().RGB255()
		out[i] = color.NRGBA{r, g, b, 255}
	}
	return out
}

func traceRow(canvas *image.NRGBA, m *staff.Model, row float64, c color.NRGBA) {
	b := canvas.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		y := m.RowAt(row, x)
		if y >= b.Min.Y && y < b.Max.Y {
			canvas.SetNRGBA(x, y, c)
		}
	}
}
