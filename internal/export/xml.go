package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

// Export errors.
var (
	ErrInvalidDocument = errors.New("export: invalid staff document")
)

type xmlDocument struct {
	XMLName     xml.Name   `xml:"staffs"`
	Width       int        `xml:"width,attr"`
	Height      int        `xml:"height,attr"`
	StartCol    int        `xml:"start_col,attr"`
	StartRow    int        `xml:"start_row,attr"`
	StaffHeight int        `xml:"staff_height,attr"`
	StaffSpace  int        `xml:"staff_space,attr"`
	Rot         float64    `xml:"rot,attr"`
	Straight    bool       `xml:"straight,attr"`
	Gradient    string     `xml:"gradient"`
	Profile     xmlProfile `xml:"profile"`
	Staffs      []xmlStaff `xml:"staff"`
}

type xmlProfile struct {
	Origin int    `xml:"origin,attr"`
	Counts string `xml:",chardata"`
}

type xmlStaff struct {
	Index int       `xml:"index,attr"`
	First int       `xml:"first,attr"`
	Last  int       `xml:"last,attr"`
	Lines []xmlLine `xml:"line"`
}

type xmlLine struct {
	Row float64 `xml:"row,attr"`
}

// Encode writes staffs and their model as an XML document.
func Encode(w io.Writer, staffs staff.Staffs, m *staff.Model) error {
	doc := xmlDocument{
		Width:       m.Width,
		Height:      m.Height,
		StartCol:    m.StartCol,
		StartRow:    m.StartRow,
		StaffHeight: m.StaffHeight,
		StaffSpace:  m.StaffSpace,
		Rot:         m.Rot,
		Straight:    m.Straight,
		Gradient:    joinFloats(m.Gradient),
		Profile:     xmlProfile{Origin: m.ProfileOrigin, Counts: joinInts(m.Profile)},
	}
	for i, s := range staffs {
		xs := xmlStaff{Index: i, First: s.First, Last: s.Last}
		for k := 0; k < 5; k++ {
			xs.Lines = append(xs.Lines, xmlLine{Row: s.Line(k)})
		}
		doc.Staffs = append(doc.Staffs, xs)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode staffs: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// SaveToDisk writes the staff document to path, replacing any existing file.
func SaveToDisk(path string, staffs staff.Staffs, m *staff.Model) error {
	var buf bytes.Buffer
	if err := Encode(&buf, staffs, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Decode reads a staff document. Documents declaring a non-UTF-8 encoding
// are transcoded. The model is checked against its own dimensions and every
// staff against the model.
func Decode(r io.Reader) (staff.Staffs, *staff.Model, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc xmlDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	gradient, err := splitFloats(doc.Gradient)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: gradient: %v", ErrInvalidDocument, err)
	}
	profile, err := splitInts(doc.Profile.Counts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: profile: %v", ErrInvalidDocument, err)
	}

	m := &staff.Model{
		Gradient:      gradient,
		StartCol:      doc.StartCol,
		StartRow:      doc.StartRow,
		StaffHeight:   doc.StaffHeight,
		StaffSpace:    doc.StaffSpace,
		Rot:           doc.Rot,
		Straight:      doc.Straight,
		Width:         doc.Width,
		Height:        doc.Height,
		Profile:       profile,
		ProfileOrigin: doc.Profile.Origin,
	}
	if err := m.Validate(doc.Width, doc.Height); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	staffs := make(staff.Staffs, 0, len(doc.Staffs))
	for _, xs := range doc.Staffs {
		staffs = append(staffs, staff.Staff{First: xs.First, Last: xs.Last})
	}
	if err := m.ValidateStaffs(staffs); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return staffs, m, nil
}

// Load reads a staff document written by SaveToDisk.
func Load(path string) (staff.Staffs, *staff.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func splitFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func splitInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
