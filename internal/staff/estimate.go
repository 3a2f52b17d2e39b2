package staff

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// GetStaffModel estimates the staff model of a binary page with the default
// parameters. See Params.GetStaffModel.
func GetStaffModel(img *raster.Binary, nThreads int) (*Model, error) {
	return DefaultParams().GetStaffModel(img, nThreads)
}

// GetStaffModel estimates the staff-line geometry of img.
//
// # Algorithm
//
//  1. Run-length statistics give the line thickness and spacing, and select
//     the line-candidate mask (runs no longer than the removal bound).
//  2. Candidate angles in [-MaxAngle, MaxAngle] are scored in parallel by the
//     sharpness of the sheared mask profile; the sharpest gives the coarse
//     rotation.
//  3. The columns are cut into ChunkWidth chunks and each chunk tracks the
//     per-column offset against the coarse profile on the worker pool.
//  4. Chunk results, already in column order, are smoothed across seams.
//  5. A least-squares line through the gradient gives Rot; the residual
//     variance decides Straight.
//
// nThreads bounds the number of worker goroutines; values below 1 run on
// one. The result is identical for every nThreads.
//
// Returns ErrNoStaffSignal when the page carries no periodic line pattern.
func (p Params) GetStaffModel(img *raster.Binary, nThreads int) (*Model, error) {
	if nThreads < 1 {
		nThreads = 1
	}

	stats, err := MeasureRuns(img)
	if err != nil {
		return nil, err
	}
	p.logf("staff: height=%d (%d votes) space=%d (%d votes)",
		stats.StaffHeight, stats.HeightVotes, stats.StaffSpace, stats.SpaceVotes)

	mask := lineMask(img, lineRunBound(stats.StaffHeight, p.SafetyFactor))
	pts := collectPoints(mask)
	if len(pts.xs) == 0 {
		return nil, ErrNoStaffSignal
	}

	const startCol = 0
	angle, ref, refOrigin := estimateRotation(pts, startCol, img.Width, img.Height, p, nThreads)
	p.logf("staff: coarse rotation %.3f deg", angle*180/math.Pi)

	tr := newTracker(mask, ref, refOrigin, math.Tan(angle), startCol, stats, p)
	raw := make([]float64, img.Width-startCol)
	chunks := chunkBounds(len(raw), p.ChunkWidth)
	parallelFor(nThreads, len(chunks), func(i int) {
		c := chunks[i]
		tr.track(c, raw[c.from:c.to])
	})
	gradient := smoothSeams(raw, chunks, p.SeamBlend)

	rot, residual := fitRotation(gradient, math.Tan(angle))
	straight := residual < p.StraightTolerance
	p.logf("staff: %d chunks, rot=%.5f rad, residual variance=%.4f, straight=%v",
		len(chunks), rot, residual, straight)

	m := &Model{
		Gradient:    gradient,
		StartCol:    startCol,
		StartRow:    firstPeakRow(ref, refOrigin, img.Height),
		StaffHeight: stats.StaffHeight,
		StaffSpace:  stats.StaffSpace,
		Rot:         rot,
		Straight:    straight,
		Width:       img.Width,
		Height:      img.Height,
	}
	m.Profile, m.ProfileOrigin = correctedProfile(mask, m)
	if p.KeepStaffImage {
		m.StaffImage = mask
	}
	return m, nil
}

// fitRotation fits a line through the gradient and returns its angle and the
// variance of the gradient about it. Pages too narrow to fit keep the coarse
// slope.
func fitRotation(gradient []float64, coarseSlope float64) (float64, float64) {
	if len(gradient) < 2 {
		return math.Atan(coarseSlope), 0
	}
	xs := make([]float64, len(gradient))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, gradient, nil, false)

	residuals := make([]float64, len(gradient))
	for i, g := range gradient {
		residuals[i] = g - (alpha + beta*xs[i])
	}
	return math.Atan(beta), stat.Variance(residuals, nil)
}

// firstPeakRow returns the first row whose coarse profile reaches half the
// maximum, clamped into the raster.
func firstPeakRow(profile []int, origin, height int) int {
	peak := 0
	for _, v := range profile {
		if v > peak {
			peak = v
		}
	}
	for i, v := range profile {
		if peak > 0 && 2*v >= peak {
			return clampInt(i+origin, 0, maxInt(0, height-1))
		}
	}
	return 0
}

// correctedProfile projects the mask onto rows after subtracting each
// column's gradient, so tilted and curved lines collapse into sharp peaks
// expressed in StartCol rows.
func correctedProfile(mask *raster.Binary, m *Model) ([]int, int) {
	pad := 1
	for _, g := range m.Gradient {
		if a := int(math.Ceil(math.Abs(g))) + 1; a > pad {
			pad = a
		}
	}
	profile := make([]int, mask.Height+2*pad)
	w := mask.Width
	for y := 0; y < mask.Height; y++ {
		row := mask.Pix[y*w : (y+1)*w]
		for i, g := range m.Gradient {
			if row[m.StartCol+i] == 0 {
				continue
			}
			idx := y - int(math.Round(g)) + pad
			if idx >= 0 && idx < len(profile) {
				profile[idx]++
			}
		}
	}
	return profile, -pad
}
