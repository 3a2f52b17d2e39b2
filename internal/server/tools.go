package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the score page image (PNG, JPEG, GIF, TIFF or BMP)",
	}
}

func pathOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": pathProperty(),
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Page Information
		{
			Name:        "image_load",
			Description: "Load a score page and return its dimensions, format and ink ratio after binarization.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of a score page.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from a page and return it as base64-encoded PNG. Use this to inspect a staff or a symbol up close.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Staff Analysis
		{
			Name:        "staff_model",
			Description: "Estimate the staff-line geometry of a page: line thickness, line spacing, rotation and the per-column vertical offset of the lines. The result is cached for the other staff tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threads": map[string]interface{}{
						"type":        "integer",
						"description": "Worker count for the estimate. Defaults to the configured value; the result does not depend on it",
					},
					"include_gradient": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the per-column offsets in the result. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "staff_fit",
			Description: "Locate the five-line staves on a page. Returns each staff's first and last line row and the rows of its five lines, measured at the left edge.",
			InputSchema: pathOnlySchema(),
		},

		// Staff Editing
		{
			Name:        "staff_remove",
			Description: "Erase the staff lines of a page while keeping the symbols that cross them. Returns the cleaned page as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"safety_factor": map[string]interface{}{
						"type":        "number",
						"description": "Vertical ink runs longer than line thickness times this factor are kept. Default from configuration (2.0)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "staff_realign",
			Description: "Shift every column of the page so the staff lines become horizontal. Returns the straightened page as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"inverse": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply the inverse shift instead. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Visualization
		{
			Name:        "staff_render_model",
			Description: "Draw the estimated line geometry: white curves on black, one per line spacing. Returns base64-encoded PNG.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "staff_render_staffs",
			Description: "Draw the page with each detected staff traced in its own color and numbered. Returns base64-encoded PNG.",
			InputSchema: pathOnlySchema(),
		},

		// Persistence
		{
			Name:        "staff_save",
			Description: "Write the page's staves and line geometry to an XML file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"file": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the XML file to write",
					},
				},
				"required": []string{"path", "file"},
			},
		},
		{
			Name:        "staff_load",
			Description: "Attach staves and line geometry saved by staff_save to a page, replacing any estimate made for it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"file": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the XML file to read",
					},
				},
				"required": []string{"path", "file"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
