package staff

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// minSignalPairs is the number of line-like run pairs a page needs before
// its spacing mode is trusted.
const minSignalPairs = 4

// RunStats is the outcome of the vertical run-length scan.
type RunStats struct {
	// StaffHeight is the modal ink-run length.
	StaffHeight int `json:"staff_height"`

	// StaffSpace is the modal start-to-start distance between consecutive
	// line-like runs in a column.
	StaffSpace int `json:"staff_space"`

	// HeightVotes and SpaceVotes are the histogram counts at each mode.
	HeightVotes int `json:"height_votes"`
	SpaceVotes  int `json:"space_votes"`
}

// MeasureRuns estimates staff line thickness and spacing from the vertical
// run-length histograms of img.
//
// Every column is scanned. The most frequent ink-run length is the staff
// height. Runs whose length lies within max(1, height/2) of it are paired
// with the next such run in the same column, and the most frequent distance
// between their starts is the staff space. Ties resolve to the shorter value.
//
// Returns ErrNoStaffSignal when the page has no ink, fewer than
// minSignalPairs line-like pairs, or a spacing not larger than the height.
func MeasureRuns(img *raster.Binary) (RunStats, error) {
	if img.Height == 0 || img.Width == 0 {
		return RunStats{}, ErrNoStaffSignal
	}

	lengths := make([]float64, img.Height+1)
	total := 0
	forEachRun(img, func(x, start, length int) {
		lengths[length]++
		total++
	})
	if total == 0 {
		return RunStats{}, ErrNoStaffSignal
	}
	height := floats.MaxIdx(lengths)

	tol := height / 2
	if tol < 1 {
		tol = 1
	}
	lineLike := func(length int) bool {
		d := length - height
		return d >= -tol && d <= tol
	}

	spaces := make([]float64, img.Height+1)
	prevStart := make([]int, img.Width)
	for i := range prevStart {
		prevStart[i] = -1
	}
	pairs := 0
	forEachRun(img, func(x, start, length int) {
		if !lineLike(length) {
			prevStart[x] = -1
			return
		}
		if prevStart[x] >= 0 {
			spaces[start-prevStart[x]]++
			pairs++
		}
		prevStart[x] = start
	})
	if pairs < minSignalPairs {
		return RunStats{}, ErrNoStaffSignal
	}
	space := floats.MaxIdx(spaces)
	if space <= height {
		return RunStats{}, ErrNoStaffSignal
	}

	return RunStats{
		StaffHeight: height,
		StaffSpace:  space,
		HeightVotes: int(lengths[height]),
		SpaceVotes:  int(spaces[space]),
	}, nil
}

// forEachRun calls fn for every vertical ink run, column by column in
// ascending start order within a column. The raster is walked row-major with
// per-column state so memory is read sequentially.
func forEachRun(img *raster.Binary, fn func(x, start, length int)) {
	w := img.Width
	runLen := make([]int, w)
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*w : (y+1)*w]
		for x, v := range row {
			if v != 0 {
				runLen[x]++
				continue
			}
			if runLen[x] > 0 {
				fn(x, y-runLen[x], runLen[x])
				runLen[x] = 0
			}
		}
	}
	for x, n := range runLen {
		if n > 0 {
			fn(x, img.Height-n, n)
		}
	}
}

// lineMask keeps only ink belonging to vertical runs of at most maxRun rows:
// the pixels that can be staff line rather than stems, beams or noteheads.
func lineMask(img *raster.Binary, maxRun int) *raster.Binary {
	mask := raster.NewBinary(img.Width, img.Height)
	forEachRun(img, func(x, start, length int) {
		if length > maxRun {
			return
		}
		for y := start; y < start+length; y++ {
			mask.Pix[y*img.Width+x] = 1
		}
	})
	return mask
}
