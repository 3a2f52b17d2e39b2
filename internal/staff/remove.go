package staff

import (
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// RemoveStaffs erases staff lines from img with the default parameters.
// See Params.RemoveStaffs.
func RemoveStaffs(img *raster.Binary, staffs Staffs, m *Model) {
	DefaultParams().RemoveStaffs(img, staffs, m)
}

// RemoveStaffs erases the staff-line pixels of every staff in place.
//
// For each staff line and each model column the expected row is the line
// row plus the column's gradient. The nearest ink within one staff height of
// it is followed up and down to its full vertical run. The run is erased only
// when it is no longer than floor(StaffHeight * SafetyFactor); longer runs
// are stems, beams or noteheads crossing the line and stay intact.
//
// Panics with a *GeometryError if m or staffs do not fit img.
func (p Params) RemoveStaffs(img *raster.Binary, staffs Staffs, m *Model) {
	mustMatch("remove staffs", m, img.Width, img.Height)
	if err := m.ValidateStaffs(staffs); err != nil {
		panic(err)
	}

	maxRun := lineRunBound(m.StaffHeight, p.SafetyFactor)
	radius := maxInt(1, m.StaffHeight)
	erased := 0

	for _, s := range staffs {
		for k := 0; k < linesPerStaff; k++ {
			line := s.Line(k)
			for i, g := range m.Gradient {
				x := m.StartCol + i
				y, ok := nearestInk(img, x, int(math.Round(line+g)), radius)
				if !ok {
					continue
				}
				top, bottom := runExtent(img, x, y)
				if bottom-top+1 > maxRun {
					continue
				}
				for yy := top; yy <= bottom; yy++ {
					img.Pix[yy*img.Width+x] = 0
				}
				erased += bottom - top + 1
			}
		}
	}
	p.logf("staff: erased %d pixels from %d staves", erased, len(staffs))
}

// nearestInk searches column x outward from row y, up first on ties.
func nearestInk(img *raster.Binary, x, y, radius int) (int, bool) {
	if img.At(x, y) {
		return y, true
	}
	for d := 1; d <= radius; d++ {
		if img.At(x, y-d) {
			return y - d, true
		}
		if img.At(x, y+d) {
			return y + d, true
		}
	}
	return 0, false
}

// runExtent returns the first and last row of the vertical ink run through
// (x, y).
func runExtent(img *raster.Binary, x, y int) (int, int) {
	top, bottom := y, y
	for img.At(x, top-1) {
		top--
	}
	for img.At(x, bottom+1) {
		bottom++
	}
	return top, bottom
}
