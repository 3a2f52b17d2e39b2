package staff

import (
	"image"
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// drawStaff draws five lines of the given thickness, top line starting at
// row top, across columns [x0, x1). offset shifts each column vertically.
func drawStaff(b *raster.Binary, top, thickness, space, x0, x1 int, offset func(x int) int) {
	for x := x0; x < x1; x++ {
		dy := 0
		if offset != nil {
			dy = offset(x)
		}
		for k := 0; k < linesPerStaff; k++ {
			for t := 0; t < thickness; t++ {
				b.Set(x, top+k*space+t+dy, true)
			}
		}
	}
}

// scenarioPage is a 1000x200 page with two flat staves (height 2, space 8)
// whose top lines start at rows 40 and 120.
func scenarioPage() *raster.Binary {
	b := raster.NewBinary(1000, 200)
	drawStaff(b, 40, 2, 8, 0, 1000, nil)
	drawStaff(b, 120, 2, 8, 0, 1000, nil)
	return b
}

// stemRect is a 2-column, 10-row stem crossing the top line of the first
// scenario staff.
var stemRect = image.Rect(500, 36, 502, 46)

// noteRect is a 9x7 notehead crossing the second line of the second staff.
var noteRect = image.Rect(300, 124, 309, 131)

// curvedOffset bends lines by a sine of the given amplitude over width.
func curvedOffset(amplitude float64, width int) func(x int) int {
	return func(x int) int {
		return int(math.Round(amplitude * math.Sin(2*math.Pi*float64(x)/float64(width))))
	}
}

// curvedPage is a 1200x220 page with two staves (height 2, space 12) bent
// by a sine of amplitude 2.
func curvedPage() *raster.Binary {
	b := raster.NewBinary(1200, 220)
	off := curvedOffset(2, 1200)
	drawStaff(b, 50, 2, 12, 0, 1200, off)
	drawStaff(b, 140, 2, 12, 0, 1200, off)
	return b
}

// tiltOffset shifts column x by the row drift of a page rotated deg degrees.
func tiltOffset(deg float64) func(x int) int {
	slope := math.Tan(deg * math.Pi / 180)
	return func(x int) int {
		return int(math.Round(slope * float64(x)))
	}
}

// tiltedPage draws one staff (height 2, space 8) per top row, each rotated
// deg degrees about column 0.
func tiltedPage(width, height int, deg float64, tops ...int) *raster.Binary {
	b := raster.NewBinary(width, height)
	for _, top := range tops {
		drawStaff(b, top, 2, 8, 0, width, tiltOffset(deg))
	}
	return b
}

// flatModel builds a zero-gradient model for a width x height raster.
func flatModel(width, height, staffHeight, staffSpace int) *Model {
	return &Model{
		Gradient:    make([]float64, width),
		StaffHeight: staffHeight,
		StaffSpace:  staffSpace,
		Straight:    true,
		Width:       width,
		Height:      height,
	}
}
