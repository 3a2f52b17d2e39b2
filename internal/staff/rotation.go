package staff

import (
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// inkPoints is a flat list of mask pixel coordinates, shared read-only by
// the angle-scoring workers.
type inkPoints struct {
	xs []int32
	ys []int32
}

func collectPoints(mask *raster.Binary) inkPoints {
	var pts inkPoints
	for y := 0; y < mask.Height; y++ {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x, v := range row {
			if v != 0 {
				pts.xs = append(pts.xs, int32(x))
				pts.ys = append(pts.ys, int32(y))
			}
		}
	}
	return pts
}

// candidateAngles returns the coarse search angles in radians, ordered from
// -MaxAngle to +MaxAngle.
func candidateAngles(p Params) []float64 {
	n := int(math.Round(2*p.MaxAngle/p.AngleStep)) + 1
	if n < 1 {
		n = 1
	}
	angles := make([]float64, n)
	for i := range angles {
		deg := -p.MaxAngle + float64(i)*p.AngleStep
		angles[i] = deg * math.Pi / 180
	}
	return angles
}

// shearProfile projects the points onto rows after removing a line slope:
// a pixel at (x, y) lands in row y - round(slope*(x-startCol)).
// The returned origin is the row of profile[0].
func shearProfile(pts inkPoints, slope float64, startCol, width, height int) ([]int, int) {
	maxShift := int(math.Ceil(math.Abs(slope)*float64(width))) + 1
	profile := make([]int, height+2*maxShift)
	for i := range pts.xs {
		shift := int(math.Round(slope * float64(int(pts.xs[i])-startCol)))
		idx := int(pts.ys[i]) - shift + maxShift
		if idx >= 0 && idx < len(profile) {
			profile[idx]++
		}
	}
	return profile, -maxShift
}

// sharpness scores a profile by its sum of squared counts. With the ink
// total fixed this orders profiles exactly as their variance does.
func sharpness(profile []int) int64 {
	var s int64
	for _, v := range profile {
		s += int64(v) * int64(v)
	}
	return s
}

// estimateRotation scores every candidate angle on the worker pool and
// returns the sharpest one along with its profile.
//
// The reduction runs after all workers join: highest score wins, ties go to
// the angle closest to horizontal and then to the lower index, so the pick
// never depends on scheduling.
func estimateRotation(pts inkPoints, startCol, width, height int, p Params, workers int) (float64, []int, int) {
	angles := candidateAngles(p)
	scores := make([]int64, len(angles))

	parallelFor(workers, len(angles), func(i int) {
		profile, _ := shearProfile(pts, math.Tan(angles[i]), startCol, width, height)
		scores[i] = sharpness(profile)
	})

	best := 0
	for i := 1; i < len(angles); i++ {
		switch {
		case scores[i] > scores[best]:
			best = i
		case scores[i] == scores[best] && math.Abs(angles[i]) < math.Abs(angles[best]):
			best = i
		}
	}

	profile, origin := shearProfile(pts, math.Tan(angles[best]), startCol, width, height)
	return angles[best], profile, origin
}
