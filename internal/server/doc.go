// Package server implements the MCP (Model Context Protocol) server for the
// raster algebra.
//
// It exposes the raster package as tools: clients create rasters, edit
// cells, combine rasters and render them as images, addressing each raster
// by a short id.
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
// Creation:
//   - raster_new: Empty (white) or filled raster of a given size
//   - raster_from_image: Convert an image file, optionally cropped, resized
//     or thresholded
//   - image_info, image_dimensions: Inspect a source image
//
// Inspection:
//   - raster_list, raster_info, raster_get
//   - raster_point_at, raster_count_level, raster_average_level
//   - raster_equal
//
// In-place mutation:
//   - raster_set_point, raster_turn_on, raster_turn_off, raster_randomize
//
// Derived rasters (each stored under a new id):
//   - raster_negate, raster_lighten, raster_darken, raster_duplicate,
//     raster_contrast_boost
//   - raster_add, raster_subtract, raster_xor, raster_intersect
//
// Output:
//   - raster_render: PNG, optionally with a cell grid
//   - raster_delete
//
// # Raster Store
//
// Rasters live in memory for the lifetime of the process under ids "r1",
// "r2", ... Ids are never reused. Levels are exchanged by name: "white",
// "light_gray", "mid_gray", "dark_gray" and "black".
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. a dimension mismatch between operands
//
// # Usage
//
//	opts, err := server.OptionsFromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(opts)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
