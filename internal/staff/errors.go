package staff

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStaffSignal reports that no periodic staff-line pattern could be
	// measured. Callers should read it as "no staves on this page".
	ErrNoStaffSignal = errors.New("no staff signal")

	// ErrInconsistentGeometry reports a Model or Staffs value that does not
	// describe the raster it is applied to.
	ErrInconsistentGeometry = errors.New("inconsistent staff geometry")
)

// GeometryError describes a model/raster mismatch. It unwraps to
// ErrInconsistentGeometry.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInconsistentGeometry, e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrInconsistentGeometry
}

// mustMatch panics when m does not fit a width x height raster. Editing a
// raster with a foreign model is a caller bug, not a runtime condition.
func mustMatch(op string, m *Model, width, height int) {
	if err := m.validate(op, width, height); err != nil {
		panic(err)
	}
}
