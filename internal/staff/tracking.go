package staff

import (
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// chunk is a half-open range of gradient indices tracked by one task.
type chunk struct {
	from, to int
}

// chunkBounds splits n columns into consecutive chunks of the given width.
// The split depends only on n and width, never on the worker count.
func chunkBounds(n, width int) []chunk {
	if width < 1 {
		width = n
	}
	var chunks []chunk
	for from := 0; from < n; from += width {
		to := from + width
		if to > n {
			to = n
		}
		chunks = append(chunks, chunk{from: from, to: to})
	}
	return chunks
}

// tracker follows the staff-line reference row column by column.
//
// ref is the coarse sheared profile of the line mask. For a column c the
// offset d aligns the column band with ref when band row y matches ref row
// y-d; d is searched around the previous column's offset and kept within
// reach of the coarse line prediction so it cannot slip onto a neighbour
// line one staff space away.
type tracker struct {
	mask      *raster.Binary
	ref       []int
	refOrigin int
	slope     float64
	startCol  int
	band      int
	step      int
	reach     int
}

func newTracker(mask *raster.Binary, ref []int, refOrigin int, slope float64, startCol int, stats RunStats, p Params) *tracker {
	band := p.BandRadius
	if band == 0 {
		band = stats.StaffSpace
	}
	step := stats.StaffSpace / 4
	if step < 1 {
		step = 1
	}
	reach := stats.StaffSpace/2 - 1
	if reach < 1 {
		reach = 1
	}
	return &tracker{
		mask:      mask,
		ref:       ref,
		refOrigin: refOrigin,
		slope:     slope,
		startCol:  startCol,
		band:      band,
		step:      step,
		reach:     reach,
	}
}

// predict returns the coarse rotation's offset for gradient index i.
func (t *tracker) predict(i int) int {
	return int(math.Round(t.slope * float64(i)))
}

// addColumn adds (sign=1) or removes (sign=-1) one mask column from the
// running band profile.
func (t *tracker) addColumn(band []int, x, sign int) {
	if x < 0 || x >= t.mask.Width {
		return
	}
	w := t.mask.Width
	for y := range band {
		if t.mask.Pix[y*w+x] != 0 {
			band[y] += sign
		}
	}
}

// correlate scores offset d for the current band profile.
func (t *tracker) correlate(band []int, d int) int64 {
	var s int64
	for y, v := range band {
		if v == 0 {
			continue
		}
		idx := y - d - t.refOrigin
		if idx >= 0 && idx < len(t.ref) {
			s += int64(v) * int64(t.ref[idx])
		}
	}
	return s
}

// track fills out with offsets for gradient indices [c.from, c.to).
// It reads the shared mask and ref only and owns out exclusively.
func (t *tracker) track(c chunk, out []float64) {
	band := make([]int, t.mask.Height)
	x0 := t.startCol + c.from
	for x := x0 - t.band; x <= x0+t.band; x++ {
		t.addColumn(band, x, 1)
	}

	prev := t.predict(c.from)
	for i := c.from; i < c.to; i++ {
		if i > c.from {
			x := t.startCol + i
			t.addColumn(band, x-t.band-1, -1)
			t.addColumn(band, x+t.band, 1)
		}

		pred := t.predict(i)
		lo := maxInt(prev-t.step, pred-t.reach)
		hi := minInt(prev+t.step, pred+t.reach)
		if lo > hi {
			prev = clampInt(prev, pred-t.reach, pred+t.reach)
			lo, hi = prev, prev
		}

		best, bestScore := prev, int64(0)
		for d := lo; d <= hi; d++ {
			s := t.correlate(band, d)
			if s > bestScore || (s == bestScore && s > 0 && closer(d, best, prev)) {
				best, bestScore = d, s
			}
		}
		if bestScore > 0 {
			prev = best
		}
		out[i-c.from] = float64(prev)
	}
}

// closer reports whether d is a better tie-break than cur around centre:
// nearer the centre first, then the smaller offset.
func closer(d, cur, centre int) bool {
	dd, dc := absInt(d-centre), absInt(cur-centre)
	if dd != dc {
		return dd < dc
	}
	return d < cur
}

// smoothSeams blends the gradient across every interior chunk boundary.
// Columns within blend of a seam take the mean of the unsmoothed gradient
// over [i-blend, i+blend]. It runs sequentially after all chunks are merged.
func smoothSeams(raw []float64, chunks []chunk, blend int) []float64 {
	out := make([]float64, len(raw))
	copy(out, raw)
	if blend < 1 || len(chunks) < 2 {
		return out
	}
	for _, c := range chunks[1:] {
		seam := c.from
		for i := seam - blend; i < seam+blend; i++ {
			if i < 0 || i >= len(raw) {
				continue
			}
			lo, hi := maxInt(0, i-blend), minInt(len(raw)-1, i+blend)
			var sum float64
			for j := lo; j <= hi; j++ {
				sum += raw[j]
			}
			out[i] = sum / float64(hi-lo+1)
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
