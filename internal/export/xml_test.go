package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

func testModel() *staff.Model {
	return &staff.Model{
		Gradient:      []float64{0, 0.25, -1.5, 3},
		StartCol:      1,
		StartRow:      12,
		StaffHeight:   2,
		StaffSpace:    8,
		Rot:           0.0125,
		Straight:      false,
		Width:         5,
		Height:        90,
		Profile:       []int{0, 4, 4, 0, 1},
		ProfileOrigin: -2,
	}
}

func TestSaveToDisk_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.xml")
	m := testModel()
	staffs := staff.Staffs{{First: 12, Last: 44}, {First: 50, Last: 82}}

	if err := SaveToDisk(path, staffs, m); err != nil {
		t.Fatalf("SaveToDisk failed: %v", err)
	}

	gotStaffs, gotModel, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(gotStaffs, staffs) {
		t.Errorf("staffs: got %v, want %v", gotStaffs, staffs)
	}
	if !reflect.DeepEqual(gotModel, m) {
		t.Errorf("model: got %+v, want %+v", gotModel, m)
	}
}

func TestSaveToDisk_StaffAboveStartRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilted.xml")
	m := testModel()
	// The gradient drifts 3 rows, so a staff starting at -3 still reaches row 0.
	staffs := staff.Staffs{{First: -3, Last: 29}}

	if err := SaveToDisk(path, staffs, m); err != nil {
		t.Fatalf("SaveToDisk failed: %v", err)
	}
	gotStaffs, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(gotStaffs, staffs) {
		t.Errorf("staffs: got %v, want %v", gotStaffs, staffs)
	}
}

func TestEncode_WritesLines(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, staff.Staffs{{First: 10, Last: 42}}, testModel()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") {
		t.Error("document should start with an XML declaration")
	}
	for _, want := range []string{`<staff index="0" first="10" last="42">`, `row="18"`, `row="42"`, `<gradient>0 0.25 -1.5 3</gradient>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestEncode_NoStaves(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, staff.Staffs{}, testModel()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	staffs, _, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(staffs) != 0 {
		t.Errorf("got %d staves, want 0", len(staffs))
	}
}

func TestDecode_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<staffs width=\"3\" height=\"40\" start_col=\"0\" start_row=\"4\" staff_height=\"1\" staff_space=\"5\" rot=\"0\" straight=\"true\">" +
		"<!-- p\xe1gina -->" +
		"<gradient>0 0 0</gradient>" +
		"<staff index=\"0\" first=\"4\" last=\"24\"></staff>" +
		"</staffs>"

	staffs, m, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(staffs) != 1 || staffs[0].Last != 24 {
		t.Errorf("staffs: got %v", staffs)
	}
	if !m.Straight || m.StaffSpace != 5 {
		t.Errorf("model: got %+v", m)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "hello"},
		{"bad gradient", `<staffs width="2" height="20" staff_height="1" staff_space="4"><gradient>0 x</gradient></staffs>`},
		{"bad profile", `<staffs width="2" height="20" staff_height="1" staff_space="4"><profile origin="0">1 2.5</profile></staffs>`},
		{"gradient too long", `<staffs width="2" height="20" staff_height="1" staff_space="4"><gradient>0 0 0</gradient></staffs>`},
		{"space not above height", `<staffs width="2" height="20" staff_height="3" staff_space="3"></staffs>`},
		{"staff outside page", `<staffs width="2" height="20" staff_height="1" staff_space="4"><staff first="30" last="46"></staff></staffs>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("got %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}
