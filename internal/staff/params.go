package staff

import (
	"fmt"
	"math"
)

// Params holds the tuning knobs of the estimator, fitter and editor.
//
// The zero value is not useful; start from DefaultParams and override fields.
// Params is safe to copy and to share between goroutines.
type Params struct {
	// MaxAngle bounds the coarse rotation search, in degrees either side of
	// horizontal.
	MaxAngle float64 `yaml:"max_angle"`

	// AngleStep is the spacing between candidate angles, in degrees.
	AngleStep float64 `yaml:"angle_step"`

	// ChunkWidth is the number of columns tracked by one worker task. It is
	// fixed per page so the result does not depend on the thread count.
	ChunkWidth int `yaml:"chunk_width"`

	// BandRadius is the half-width, in columns, of the band sampled around
	// each tracked column. Zero means one staff space.
	BandRadius int `yaml:"band_radius"`

	// SeamBlend is the half-width of the moving average applied across each
	// chunk seam.
	SeamBlend int `yaml:"seam_blend"`

	// StraightTolerance is the residual gradient variance (rows squared)
	// under which a page is modelled by rotation alone.
	StraightTolerance float64 `yaml:"straight_tolerance"`

	// PeakFraction is the fraction of the strongest profile row a row must
	// reach to be part of a staff-line peak.
	PeakFraction float64 `yaml:"peak_fraction"`

	// SpaceTolerance is the accepted deviation of a line gap from the staff
	// space, as a fraction of the staff space.
	SpaceTolerance float64 `yaml:"space_tolerance"`

	// SafetyFactor scales the staff height into the longest vertical run
	// still treated as staff line. Longer runs belong to symbols.
	SafetyFactor float64 `yaml:"safety_factor"`

	// KeepStaffImage stores the line-candidate mask on the model for
	// diagnostics.
	KeepStaffImage bool `yaml:"keep_staff_image"`

	// Logf receives debug output when non-nil.
	Logf func(format string, args ...interface{}) `yaml:"-"`
}

// DefaultParams returns the tuning used by the package-level functions.
func DefaultParams() Params {
	return Params{
		MaxAngle:          5,
		AngleStep:         0.25,
		ChunkWidth:        128,
		BandRadius:        0,
		SeamBlend:         4,
		StraightTolerance: 0.25,
		PeakFraction:      0.3,
		SpaceTolerance:    0.25,
		SafetyFactor:      2.0,
	}
}

// Validate rejects parameter sets the algorithms cannot run with.
func (p Params) Validate() error {
	switch {
	case p.MaxAngle < 0 || p.MaxAngle >= 45:
		return fmt.Errorf("max_angle must be in [0, 45), got %g", p.MaxAngle)
	case p.AngleStep <= 0:
		return fmt.Errorf("angle_step must be positive, got %g", p.AngleStep)
	case p.ChunkWidth < 1:
		return fmt.Errorf("chunk_width must be at least 1, got %d", p.ChunkWidth)
	case p.BandRadius < 0:
		return fmt.Errorf("band_radius must not be negative, got %d", p.BandRadius)
	case p.SeamBlend < 0:
		return fmt.Errorf("seam_blend must not be negative, got %d", p.SeamBlend)
	case p.StraightTolerance < 0:
		return fmt.Errorf("straight_tolerance must not be negative, got %g", p.StraightTolerance)
	case p.PeakFraction <= 0 || p.PeakFraction > 1:
		return fmt.Errorf("peak_fraction must be in (0, 1], got %g", p.PeakFraction)
	case p.SpaceTolerance <= 0 || p.SpaceTolerance >= 0.5:
		return fmt.Errorf("space_tolerance must be in (0, 0.5), got %g", p.SpaceTolerance)
	case p.SafetyFactor < 1:
		return fmt.Errorf("safety_factor must be at least 1, got %g", p.SafetyFactor)
	}
	return nil
}

func (p Params) logf(format string, args ...interface{}) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}

// lineRunBound is the longest vertical ink run still counted as staff line.
func lineRunBound(staffHeight int, safety float64) int {
	n := int(math.Floor(float64(staffHeight) * safety))
	if n < staffHeight {
		n = staffHeight
	}
	return n
}
