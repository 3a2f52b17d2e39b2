// Package server implements the MCP (Model Context Protocol) server for the
// staff-line tools.
//
// The server speaks JSON-RPC 2.0 over stdio and exposes staff-line analysis
// of sheet-music scans to MCP clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Page Information:
//   - image_load: Load a page and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Extract a rectangular region
//
// Staff Analysis:
//   - staff_model: Estimate line thickness, spacing and curvature
//   - staff_fit: Locate the five-line staves
//
// Staff Editing:
//   - staff_remove: Erase staff lines, keeping crossing symbols
//   - staff_realign: Straighten the page along the staff lines
//
// Visualization:
//   - staff_render_model: Draw the estimated line geometry
//   - staff_render_staffs: Draw the detected staves over the page
//
// Persistence:
//   - staff_save: Write staves and geometry to XML
//   - staff_load: Attach saved staves and geometry to a page
//
// # Caching
//
// Pages are cached by path together with their binary raster. The staff
// model of a page is estimated on the first staff tool call and reused by
// every later one; staves are fitted once on first use. Editing tools work
// on private copies, so the cached page never changes.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A page without staff lines fails staff_model with "no staff signal".
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
