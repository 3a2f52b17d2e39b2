package server

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/staff-tools-mcp/internal/export"
	"github.com/ironsheep/staff-tools-mcp/internal/imaging"
	"github.com/ironsheep/staff-tools-mcp/internal/render"
	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "staff_model").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the page and its staff analysis from cache as needed
//  4. Calls the appropriate imaging/staff/render/export function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Page Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Staff Analysis
	case "staff_model":
		return s.handleStaffModel(args)
	case "staff_fit":
		return s.handleStaffFit(args)

	// Staff Editing
	case "staff_remove":
		return s.handleStaffRemove(args)
	case "staff_realign":
		return s.handleStaffRealign(args)

	// Visualization
	case "staff_render_model":
		return s.handleStaffRenderModel(args)
	case "staff_render_staffs":
		return s.handleStaffRenderStaffs(args)

	// Persistence
	case "staff_save":
		return s.handleStaffSave(args)
	case "staff_load":
		return s.handleStaffLoad(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Analysis Cache ===

// analyze returns the staff analysis of the page at path, estimating the
// model on first use. threads <= 0 selects the configured worker count.
func (s *Server) analyze(path string, threads int) (*analysis, error) {
	s.mu.Lock()
	a, ok := s.analyses[path]
	s.mu.Unlock()
	if ok {
		return a, nil
	}

	page, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if threads <= 0 {
		threads = s.cfg.Threads
	}
	m, err := s.cfg.Staff.GetStaffModel(page.Binary(), threads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.analyses[path]; ok {
		return existing, nil
	}
	a = &analysis{page: page, model: m}
	s.analyses[path] = a
	return a, nil
}

// staffsOf fits the staves of a on first use.
func (s *Server) staffsOf(a *analysis) staff.Staffs {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !a.fitted {
		a.staffs = s.cfg.Staff.FitStaffModel(a.model)
		a.fitted = true
	}
	return a.staffs
}

// checkGeometry guards the editors against a model that does not describe
// the page, which they would otherwise treat as a programming error.
func checkGeometry(a *analysis) error {
	b := a.page.Image.Bounds()
	if err := a.model.Validate(b.Dx(), b.Dy()); err != nil {
		return err
	}
	return a.model.ValidateStaffs(a.staffs)
}

// === Page Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	page, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(page.Image, image.Rect(a.X1, a.Y1, a.X2, a.Y2), a.Scale)
}

// === Staff Analysis Handlers ===

type staffModelArgs struct {
	Path            string `json:"path"`
	Threads         int    `json:"threads"`
	IncludeGradient bool   `json:"include_gradient"`
}

// ModelSummary is the staff_model result.
type ModelSummary struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	StartCol    int       `json:"start_col"`
	StartRow    int       `json:"start_row"`
	StaffHeight int       `json:"staff_height"`
	StaffSpace  int       `json:"staff_space"`
	Rot         float64   `json:"rot"`
	RotDegrees  float64   `json:"rot_degrees"`
	Straight    bool      `json:"straight"`
	Columns     int       `json:"columns"`
	GradientMin float64   `json:"gradient_min"`
	GradientMax float64   `json:"gradient_max"`
	Gradient    []float64 `json:"gradient,omitempty"`
}

func summarize(m *staff.Model, withGradient bool) *ModelSummary {
	sum := &ModelSummary{
		Width:       m.Width,
		Height:      m.Height,
		StartCol:    m.StartCol,
		StartRow:    m.StartRow,
		StaffHeight: m.StaffHeight,
		StaffSpace:  m.StaffSpace,
		Rot:         m.Rot,
		RotDegrees:  m.Rot * 180 / math.Pi,
		Straight:    m.Straight,
		Columns:     m.Columns(),
	}
	for i, g := range m.Gradient {
		if i == 0 || g < sum.GradientMin {
			sum.GradientMin = g
		}
		if i == 0 || g > sum.GradientMax {
			sum.GradientMax = g
		}
	}
	if withGradient {
		sum.Gradient = m.Gradient
	}
	return sum
}

func (s *Server) handleStaffModel(args json.RawMessage) (interface{}, error) {
	var a staffModelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, a.Threads)
	if err != nil {
		return nil, err
	}
	return summarize(an.model, a.IncludeGradient), nil
}

// StaffInfo describes one fitted staff.
type StaffInfo struct {
	Index int        `json:"index"`
	First int        `json:"first"`
	Last  int        `json:"last"`
	Lines [5]float64 `json:"lines"`
}

// FitResult is the staff_fit result.
type FitResult struct {
	Count  int         `json:"count"`
	Staffs []StaffInfo `json:"staffs"`
}

func (s *Server) handleStaffFit(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}

	staffs := s.staffsOf(an)
	res := &FitResult{Count: len(staffs), Staffs: make([]StaffInfo, len(staffs))}
	for i, st := range staffs {
		info := StaffInfo{Index: i, First: st.First, Last: st.Last}
		for k := range info.Lines {
			info.Lines[k] = st.Line(k)
		}
		res.Staffs[i] = info
	}
	return res, nil
}

// === Staff Editing Handlers ===

type staffRemoveArgs struct {
	Path         string  `json:"path"`
	SafetyFactor float64 `json:"safety_factor"`
}

// RemoveResult is the staff_remove result: the cleaned page and the number
// of ink pixels erased.
type RemoveResult struct {
	imaging.ImageResult
	ErasedPixels int `json:"erased_pixels"`
	Staffs       int `json:"staffs"`
}

func (s *Server) handleStaffRemove(args json.RawMessage) (interface{}, error) {
	var a staffRemoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}
	staffs := s.staffsOf(an)
	if err := checkGeometry(an); err != nil {
		return nil, err
	}

	p := s.cfg.Staff
	if a.SafetyFactor != 0 {
		p.SafetyFactor = a.SafetyFactor
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bin := an.page.Binary()
	before := bin.InkCount()
	p.RemoveStaffs(bin, staffs, an.model)

	img, err := imaging.EncodePNG(bin.ToGray())
	if err != nil {
		return nil, err
	}
	return &RemoveResult{
		ImageResult:  *img,
		ErasedPixels: before - bin.InkCount(),
		Staffs:       len(staffs),
	}, nil
}

type staffRealignArgs struct {
	Path    string `json:"path"`
	Inverse bool   `json:"inverse"`
}

func (s *Server) handleStaffRealign(args json.RawMessage) (interface{}, error) {
	var a staffRealignArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}
	if err := checkGeometry(an); err != nil {
		return nil, err
	}

	m := an.model
	if a.Inverse {
		m = m.Negate()
	}
	g := an.page.Gray()
	staff.Realign(g, m)
	return imaging.EncodePNG(g)
}

// === Visualization Handlers ===

func (s *Server) handleStaffRenderModel(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(render.StaffModel(an.model))
}

func (s *Server) handleStaffRenderStaffs(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}
	staffs := s.staffsOf(an)
	return imaging.EncodePNG(render.Staffs(an.page.Binary(), staffs, an.model))
}

// === Persistence Handlers ===

type staffFileArgs struct {
	Path string `json:"path"`
	File string `json:"file"`
}

// FileResult reports a staff document written or read.
type FileResult struct {
	File   string `json:"file"`
	Staffs int    `json:"staffs"`
}

func (s *Server) handleStaffSave(args json.RawMessage) (interface{}, error) {
	var a staffFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.File == "" {
		return nil, fmt.Errorf("file is required")
	}
	an, err := s.analyze(a.Path, 0)
	if err != nil {
		return nil, err
	}
	staffs := s.staffsOf(an)
	if err := export.SaveToDisk(a.File, staffs, an.model); err != nil {
		return nil, err
	}
	return &FileResult{File: a.File, Staffs: len(staffs)}, nil
}

// handleStaffLoad attaches a saved staff document to a page, replacing any
// analysis computed for it.
func (s *Server) handleStaffLoad(args json.RawMessage) (interface{}, error) {
	var a staffFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	page, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	staffs, m, err := export.Load(a.File)
	if err != nil {
		return nil, err
	}

	an := &analysis{page: page, model: m, staffs: staffs, fitted: true}
	if err := checkGeometry(an); err != nil {
		return nil, fmt.Errorf("%s does not describe %s: %w", a.File, a.Path, err)
	}

	s.mu.Lock()
	s.analyses[a.Path] = an
	s.mu.Unlock()
	return &FileResult{File: a.File, Staffs: len(staffs)}, nil
}
