package staff

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

func TestMeasureRuns(t *testing.T) {
	tests := []struct {
		name      string
		thickness int
		space     int
	}{
		{"thin lines", 1, 6},
		{"scenario lines", 2, 8},
		{"thick lines", 3, 11},
		{"wide spacing", 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := raster.NewBinary(200, 200)
			drawStaff(b, 20, tt.thickness, tt.space, 0, 200, nil)
			drawStaff(b, 20+5*tt.space+10, tt.thickness, tt.space, 0, 200, nil)

			stats, err := MeasureRuns(b)
			if err != nil {
				t.Fatalf("MeasureRuns failed: %v", err)
			}
			if stats.StaffHeight != tt.thickness {
				t.Errorf("StaffHeight: got %d, want %d", stats.StaffHeight, tt.thickness)
			}
			if stats.StaffSpace != tt.space {
				t.Errorf("StaffSpace: got %d, want %d", stats.StaffSpace, tt.space)
			}
			if stats.HeightVotes == 0 || stats.SpaceVotes == 0 {
				t.Errorf("votes should be positive: %+v", stats)
			}
		})
	}
}

func TestMeasureRuns_IgnoresSymbols(t *testing.T) {
	b := scenarioPage()
	b.FillRect(stemRect)
	b.FillRect(noteRect)

	stats, err := MeasureRuns(b)
	if err != nil {
		t.Fatalf("MeasureRuns failed: %v", err)
	}
	if stats.StaffHeight != 2 || stats.StaffSpace != 8 {
		t.Errorf("got height=%d space=%d, want 2 and 8", stats.StaffHeight, stats.StaffSpace)
	}
}

func TestMeasureRuns_NoSignal(t *testing.T) {
	stems := raster.NewBinary(100, 100)
	for x := 10; x < 100; x += 10 {
		stems.FillRect(image.Rect(x, 10, x+2, 90))
	}

	tests := []struct {
		name string
		img  *raster.Binary
	}{
		{"blank page", raster.NewBinary(100, 100)},
		{"empty raster", raster.NewBinary(0, 0)},
		{"stems only", stems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MeasureRuns(tt.img)
			if !errors.Is(err, ErrNoStaffSignal) {
				t.Errorf("got %v, want ErrNoStaffSignal", err)
			}
		})
	}
}

func TestForEachRun(t *testing.T) {
	b := raster.NewBinary(2, 10)
	b.FillRect(image.Rect(0, 1, 1, 3))
	b.FillRect(image.Rect(0, 5, 1, 6))
	b.FillRect(image.Rect(1, 7, 2, 10))

	type run struct{ x, start, length int }
	var got []run
	forEachRun(b, func(x, start, length int) {
		got = append(got, run{x, start, length})
	})

	want := []run{{0, 1, 2}, {0, 5, 1}, {1, 7, 3}}
	if len(got) != len(want) {
		t.Fatalf("runs: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("run %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLineMask(t *testing.T) {
	b := scenarioPage()
	b.FillRect(stemRect)

	mask := lineMask(b, lineRunBound(2, 2.0))

	if mask.At(500, 40) || mask.At(500, 36) {
		t.Error("stem pixels should be excluded from the line mask")
	}
	if !mask.At(10, 40) || !mask.At(500, 48) {
		t.Error("plain staff-line pixels should be in the line mask")
	}
}

func TestLineRunBound(t *testing.T) {
	tests := []struct {
		height int
		factor float64
		want   int
	}{
		{1, 2.0, 2},
		{2, 2.0, 4},
		{3, 1.5, 4},
		{2, 1.0, 2},
		{4, 0.5, 4},
	}

	for _, tt := range tests {
		if got := lineRunBound(tt.height, tt.factor); got != tt.want {
			t.Errorf("lineRunBound(%d, %g): got %d, want %d", tt.height, tt.factor, got, tt.want)
		}
	}
}
