package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var levelNames = []string{"white", "light_gray", "mid_gray", "dark_gray", "black"}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func idProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func levelProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        levelNames,
		"description": description,
	}
}

var storageProp = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"dense", "assoc"},
	"description": "Storage strategy. Defaults to the server's configured strategy. Both give identical results.",
}

var pathProp = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// unaryTool describes a tool that reads one raster and stores a new one.
func unaryTool(name, description string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: objectSchema(map[string]interface{}{
			"id": idProp("Source raster id"),
		}, "id"),
	}
}

// binaryTool describes a tool that combines rasters a and b cell by cell.
func binaryTool(name, description string) Tool {
	return Tool{
		Name:        name,
		Description: description + " Both rasters must have the same width and height; the result uses a's storage strategy and gets a new id.",
		InputSchema: objectSchema(map[string]interface{}{
			"a": idProp("Left operand raster id"),
			"b": idProp("Right operand raster id"),
		}, "a", "b"),
	}
}

// pointTool describes a tool addressing one cell.
func pointTool(name, description string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: objectSchema(map[string]interface{}{
			"id": idProp("Raster id"),
			"x":  intProp("Column, 0-based from the left"),
			"y":  intProp("Row, 0-based from the top"),
		}, "id", "x", "y"),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Creation
		{
			Name:        "raster_new",
			Description: "Create a raster of the given size with every cell white (or the fill level). Returns its id.",
			InputSchema: objectSchema(map[string]interface{}{
				"width":   intProp("Number of columns (0 or more)"),
				"height":  intProp("Number of rows (0 or more)"),
				"storage": storageProp,
				"fill":    levelProp("Optional initial level for every cell. Default white"),
			}, "width", "height"),
		},
		{
			Name:        "raster_from_image",
			Description: "Convert an image file into a raster. Pixels map to the nearest of the five gray levels, or to black/white when a threshold is given. Optionally crop a region and resize first.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":    pathProp,
				"x1":      intProp("Optional crop: left edge X coordinate (0-based)"),
				"y1":      intProp("Optional crop: top edge Y coordinate (0-based)"),
				"x2":      intProp("Optional crop: right edge X coordinate (exclusive)"),
				"y2":      intProp("Optional crop: bottom edge Y coordinate (exclusive)"),
				"width":   intProp("Optional raster width. With only one of width/height the aspect ratio is kept"),
				"height":  intProp("Optional raster height"),
				"storage": storageProp,
				"threshold": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     255,
					"description": "Optional luminance threshold 1-255. Pixels at or above it become white, the rest black. 0 keeps five levels",
				},
			}, "path"),
		},
		{
			Name:        "image_info",
			Description: "Load an image file and return its dimensions, format and the number of pixels at each gray level.",
			InputSchema: objectSchema(map[string]interface{}{"path": pathProp}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file, which is the raster size raster_from_image produces without resizing.",
			InputSchema: objectSchema(map[string]interface{}{"path": pathProp}, "path"),
		},

		// Inspection
		{
			Name:        "raster_list",
			Description: "List the ids, sizes and storage strategies of all stored rasters.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "raster_info",
			Description: "Get the size, storage strategy and per-level cell counts of a raster.",
			InputSchema: objectSchema(map[string]interface{}{"id": idProp("Raster id")}, "id"),
		},
		{
			Name:        "raster_get",
			Description: "Get every cell of a raster as rows of level names, plus a compact text form using W, L, M, D and B.",
			InputSchema: objectSchema(map[string]interface{}{"id": idProp("Raster id")}, "id"),
		},
		pointTool("raster_point_at", "Get the level at one cell. Fails if the coordinate is outside the raster."),
		{
			Name:        "raster_set_point",
			Description: "Set one cell to a level. Coordinates outside the raster are ignored and reported with written=false.",
			InputSchema: objectSchema(map[string]interface{}{
				"id":    idProp("Raster id"),
				"x":     intProp("Column, 0-based from the left"),
				"y":     intProp("Row, 0-based from the top"),
				"level": levelProp("Level to store"),
			}, "id", "x", "y", "level"),
		},
		pointTool("raster_turn_on", "Set one cell to black. Coordinates outside the raster are ignored."),
		pointTool("raster_turn_off", "Set one cell to white. Coordinates outside the raster are ignored."),
		{
			Name:        "raster_randomize",
			Description: "Overwrite every cell of a raster with black or white at random, in place.",
			InputSchema: objectSchema(map[string]interface{}{"id": idProp("Raster id")}, "id"),
		},
		{
			Name:        "raster_count_level",
			Description: "Count the cells of a raster at one level.",
			InputSchema: objectSchema(map[string]interface{}{
				"id":    idProp("Raster id"),
				"level": levelProp("Level to count"),
			}, "id", "level"),
		},
		{
			Name:        "raster_average_level",
			Description: "Get the level of the mean rank of all cells (white=0 ... black=4), truncated toward white. Fails on a raster with no cells.",
			InputSchema: objectSchema(map[string]interface{}{"id": idProp("Raster id")}, "id"),
		},
		{
			Name:        "raster_equal",
			Description: "Report whether two rasters have the same size and the same level in every cell, regardless of storage strategy.",
			InputSchema: objectSchema(map[string]interface{}{
				"a": idProp("First raster id"),
				"b": idProp("Second raster id"),
			}, "a", "b"),
		},

		// Derived rasters
		unaryTool("raster_negate", "Create the inverse of a raster: white and black swap, light and dark gray swap, mid gray stays."),
		unaryTool("raster_lighten", "Create a copy with every non-white cell one step lighter. White cells stay white."),
		unaryTool("raster_darken", "Create a copy with every non-black cell one step darker. Black cells come out white."),
		unaryTool("raster_duplicate", "Create an independent copy of a raster."),
		unaryTool("raster_contrast_boost", "Create a copy where cells darker than the average level get darker and lighter cells get lighter. Cells at the average come out white. Fails on a raster with no cells."),
		binaryTool("raster_add", "Create the cell-wise sum of two rasters, saturating at black."),
		binaryTool("raster_subtract", "Create the cell-wise difference a - b, saturating at white."),
		binaryTool("raster_xor", "Create the cell-wise xor of two rasters: the level whose rank is the rank difference. On black/white rasters this is boolean xor."),
		binaryTool("raster_intersect", "Create a raster keeping the cells where a and b agree; all other cells are white."),

		// Output
		{
			Name:        "raster_render",
			Description: "Render a raster as a base64-encoded PNG, each cell drawn as a scale x scale block of its gray. Optionally overlay the cell grid.",
			InputSchema: objectSchema(map[string]interface{}{
				"id": idProp("Raster id"),
				"scale": map[string]interface{}{
					"type":        "integer",
					"description": "Pixels per cell side. Default 8",
					"default":     8,
				},
				"grid": map[string]interface{}{
					"type":        "boolean",
					"description": "Draw lines along cell boundaries. Default false",
					"default":     false,
				},
				"grid_color": map[string]interface{}{
					"type":        "string",
					"description": "Grid color in hex (#RRGGBB or #RRGGBBAA). Default #FF000080",
				},
				"labels": map[string]interface{}{
					"type":        "boolean",
					"description": "Label every fifth grid crossing with its cell coordinates. Default false",
					"default":     false,
				},
			}, "id"),
		},
		{
			Name:        "raster_delete",
			Description: "Remove a raster from the store. Its id is not reused.",
			InputSchema: objectSchema(map[string]interface{}{"id": idProp("Raster id")}, "id"),
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
