package staff

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// linesPerStaff is the number of lines in a regular staff.
const linesPerStaff = 5

// Staff is one detected five-line staff, given by the rows of its first and
// last line as seen from the model's StartCol.
type Staff struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Line returns the row of line k (0 = top, 4 = bottom) at StartCol.
func (s Staff) Line(k int) float64 {
	return float64(s.First) + float64(k)*float64(s.Last-s.First)/(linesPerStaff-1)
}

// Span returns the distance between the first and last line.
func (s Staff) Span() int {
	return s.Last - s.First
}

// Staffs lists detected staves from top to bottom.
type Staffs []Staff

// FitStaffModel locates the staves described by m with the default
// parameters. See Params.FitStaffModel.
func FitStaffModel(m *Model) Staffs {
	return DefaultParams().FitStaffModel(m)
}

// FitStaffModel groups the peaks of the model's corrected profile into
// five-line staves.
//
// Rows reaching PeakFraction of the strongest row form peak bands; bands
// thicker than the line-run bound are rejected. Peaks whose gap is within
// SpaceTolerance of the staff space chain together. Every window of five
// consecutive peaks in a chain is a candidate; candidates with the lowest gap
// variance win when they overlap. Chains of fewer than five peaks are noise.
//
// A page without staves returns an empty result.
func (p Params) FitStaffModel(m *Model) Staffs {
	peaks := p.profilePeaks(m)
	if len(peaks) < linesPerStaff {
		return Staffs{}
	}

	tol := p.SpaceTolerance * float64(m.StaffSpace)
	spaced := func(a, b int) bool {
		return math.Abs(float64(b-a)-float64(m.StaffSpace)) <= tol
	}

	type candidate struct {
		staff    Staff
		variance float64
	}
	var candidates []candidate
	start := 0
	for i := 1; i <= len(peaks); i++ {
		if i < len(peaks) && spaced(peaks[i-1], peaks[i]) {
			continue
		}
		chain := peaks[start:i]
		for j := 0; j+linesPerStaff <= len(chain); j++ {
			window := chain[j : j+linesPerStaff]
			gaps := make([]float64, linesPerStaff-1)
			for k := range gaps {
				gaps[k] = float64(window[k+1] - window[k])
			}
			candidates = append(candidates, candidate{
				staff:    Staff{First: window[0], Last: window[linesPerStaff-1]},
				variance: stat.Variance(gaps, nil),
			})
		}
		start = i
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].variance != candidates[j].variance {
			return candidates[i].variance < candidates[j].variance
		}
		return candidates[i].staff.First < candidates[j].staff.First
	})

	staffs := Staffs{}
	for _, c := range candidates {
		overlaps := false
		for _, s := range staffs {
			if c.staff.First <= s.Last && s.First <= c.staff.Last {
				overlaps = true
				break
			}
		}
		if !overlaps {
			staffs = append(staffs, c.staff)
		}
	}
	sort.Slice(staffs, func(i, j int) bool { return staffs[i].First < staffs[j].First })

	p.logf("staff: %d peaks, %d candidates, %d staves", len(peaks), len(candidates), len(staffs))
	return staffs
}

// profilePeaks returns the centroid rows of the line-thick peak bands in the
// model's profile, in ascending order.
func (p Params) profilePeaks(m *Model) []int {
	top := 0
	for _, v := range m.Profile {
		if v > top {
			top = v
		}
	}
	if top == 0 {
		return nil
	}
	threshold := p.PeakFraction * float64(top)
	maxWidth := lineRunBound(m.StaffHeight, p.SafetyFactor)

	var peaks []int
	for i := 0; i < len(m.Profile); {
		if float64(m.Profile[i]) < threshold {
			i++
			continue
		}
		j := i
		var sum, weighted float64
		for j < len(m.Profile) && float64(m.Profile[j]) >= threshold {
			v := float64(m.Profile[j])
			sum += v
			weighted += v * float64(j+m.ProfileOrigin)
			j++
		}
		if j-i <= maxWidth {
			peaks = append(peaks, int(math.Round(weighted/sum)))
		}
		i = j
	}
	return peaks
}
