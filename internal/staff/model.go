package staff

import (
	"fmt"
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// Model describes the staff-line geometry of one page.
//
// A staff line found at row r in column StartCol lies at row
// r + Gradient[c-StartCol] in column c. A Model is immutable once returned by
// GetStaffModel; Negate and the editors never modify their receiver.
type Model struct {
	// Gradient holds one vertical offset per column, starting at StartCol.
	Gradient []float64 `json:"gradient"`

	StartCol int `json:"start_col"`
	StartRow int `json:"start_row"`

	// StaffHeight is the modal thickness of a staff line, in rows.
	StaffHeight int `json:"staff_height"`

	// StaffSpace is the modal distance between adjacent lines of a staff.
	StaffSpace int `json:"staff_space"`

	// Rot is the average line rotation in radians. Positive values slope
	// downward to the right.
	Rot float64 `json:"rot"`

	// Straight is set when Rot alone explains Gradient within tolerance.
	Straight bool `json:"straight"`

	// StaffImage is the line-candidate mask, kept only on request.
	StaffImage *raster.Binary `json:"-"`

	// Width and Height are the dimensions of the source raster.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Profile is the gradient-corrected row histogram of the line mask.
	// Profile[i] counts row i+ProfileOrigin as seen from StartCol.
	Profile       []int `json:"-"`
	ProfileOrigin int   `json:"-"`
}

// Columns returns the number of columns covered by the model.
func (m *Model) Columns() int {
	return len(m.Gradient)
}

// Offset returns the gradient at image column col, or 0 outside the model.
func (m *Model) Offset(col int) float64 {
	i := col - m.StartCol
	if i < 0 || i >= len(m.Gradient) {
		return 0
	}
	return m.Gradient[i]
}

// RowAt maps a row measured at StartCol to its row in column col.
func (m *Model) RowAt(row float64, col int) int {
	return int(math.Round(row + m.Offset(col)))
}

// Negate returns the inverse model: Rot and every Gradient entry flip sign.
// Realign with the inverse undoes Realign with m.
func (m *Model) Negate() *Model {
	inv := *m
	inv.Rot = -m.Rot
	inv.Gradient = make([]float64, len(m.Gradient))
	for i, g := range m.Gradient {
		inv.Gradient[i] = -g
	}
	return &inv
}

// Validate reports whether the model can be applied to a raster of the
// given size. The error wraps ErrInconsistentGeometry.
func (m *Model) Validate(width, height int) error {
	return m.validate("validate", width, height)
}

func (m *Model) validate(op string, width, height int) error {
	fail := func(format string, args ...interface{}) error {
		return &GeometryError{Op: op, Reason: fmt.Sprintf(format, args...)}
	}
	if m == nil {
		return fail("nil model")
	}
	if m.StaffHeight <= 0 || m.StaffSpace <= m.StaffHeight {
		return fail("staff height %d / space %d", m.StaffHeight, m.StaffSpace)
	}
	if m.Width != width || m.Height != height {
		return fail("model is %dx%d, raster is %dx%d", m.Width, m.Height, width, height)
	}
	if m.StartCol < 0 || m.StartCol+len(m.Gradient) > width {
		return fail("columns [%d,%d) outside raster width %d", m.StartCol, m.StartCol+len(m.Gradient), width)
	}
	return nil
}

// ValidateStaffs checks that every staff touches the model's raster. Rows are
// measured at StartCol, so on a tilted page a staff may start above row 0 or
// end below the last row as long as the gradient carries it into the raster
// somewhere in the model's column range.
func (m *Model) ValidateStaffs(staffs Staffs) error {
	pad := int(math.Ceil(m.maxDrift()))
	for i, s := range staffs {
		if s.First >= s.Last || s.Last < -pad || s.First >= m.Height+pad {
			return &GeometryError{
				Op: "validate",
				Reason: fmt.Sprintf("staff %d spans rows %d..%d, outside a %d-row raster with drift %d",
					i, s.First, s.Last, m.Height, pad),
			}
		}
	}
	return nil
}

// maxDrift is the largest absolute gradient entry.
func (m *Model) maxDrift() float64 {
	var d float64
	for _, g := range m.Gradient {
		d = math.Max(d, math.Abs(g))
	}
	return d
}
