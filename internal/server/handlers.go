package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/raster-algebra-mcp/internal/graylevel"
	"github.com/ironsheep/raster-algebra-mcp/internal/imaging"
	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

// maxCells bounds the size of rasters created through tools.
const maxCells = 1 << 22

// defaultRenderScale is the cell size used when raster_render gets no scale.
const defaultRenderScale = 8

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_new", "raster_xor").
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
		s.log.Debug("tool failed", "tool", params.Name, "err", err)
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Creation
	case "raster_new":
		return s.handleRasterNew(args)
	case "raster_from_image":
		return s.handleRasterFromImage(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Inspection
	case "raster_list":
		return s.handleRasterList(args)
	case "raster_info":
		return s.handleRasterInfo(args)
	case "raster_get":
		return s.handleRasterGet(args)
	case "raster_point_at":
		return s.handleRasterPointAt(args)
	case "raster_count_level":
		return s.handleRasterCountLevel(args)
	case "raster_average_level":
		return s.handleRasterAverageLevel(args)
	case "raster_equal":
		return s.handleRasterEqual(args)

	// In-place mutation
	case "raster_set_point":
		return s.handleRasterSetPoint(args)
	case "raster_turn_on":
		return s.handleRasterTurn(args, raster.Raster.TurnOn)
	case "raster_turn_off":
		return s.handleRasterTurn(args, raster.Raster.TurnOff)
	case "raster_randomize":
		return s.handleRasterRandomize(args)

	// Derived rasters
	case "raster_negate":
		return s.derive(args, infallible(raster.Raster.Negate))
	case "raster_lighten":
		return s.derive(args, infallible(raster.Raster.LightenImage))
	case "raster_darken":
		return s.derive(args, infallible(raster.Raster.DarkenImage))
	case "raster_duplicate":
		return s.derive(args, infallible(raster.Raster.Duplicate))
	case "raster_contrast_boost":
		return s.derive(args, raster.Raster.ContrastBoost)
	case "raster_add":
		return s.combine(args, raster.Raster.Add)
	case "raster_subtract":
		return s.combine(args, raster.Raster.Subtract)
	case "raster_xor":
		return s.combine(args, raster.Raster.Xor)
	case "raster_intersect":
		return s.combine(args, raster.Raster.Intersect)

	// Output
	case "raster_render":
		return s.handleRasterRender(args)
	case "raster_delete":
		return s.handleRasterDelete(args)

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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments leave v untouched.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Result types ===

type rasterRef struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Storage string `json:"storage"`
}

func refOf(id string, r raster.Raster) rasterRef {
	storage := "unknown"
	if kind, ok := raster.KindOf(r); ok {
		storage = kind.String()
	}
	return rasterRef{ID: id, Width: r.Width(), Height: r.Height(), Storage: storage}
}

// levelCounts maps level names to cell counts.
func levelCounts(h [graylevel.Count]int) map[string]int {
	counts := make(map[string]int, graylevel.Count)
	for _, l := range graylevel.All() {
		counts[l.String()] = h[l.Rank()]
	}
	return counts
}

var levelLetters = [graylevel.Count]byte{'W', 'L', 'M', 'D', 'B'}

// compactRows renders each row as one letter per cell.
func compactRows(rows [][]graylevel.Level) []string {
	out := make([]string, len(rows))
	for y, row := range rows {
		var b strings.Builder
		b.Grow(len(row))
		for _, l := range row {
			b.WriteByte(levelLetters[l.Rank()])
		}
		out[y] = b.String()
	}
	return out
}

// === Shared helpers ===

func (s *Server) put(r raster.Raster) rasterRef {
	id := s.store.Put(r)
	s.log.Debug("raster stored", "id", id, "width", r.Width(), "height", r.Height())
	return refOf(id, r)
}

func (s *Server) storageKind(name string) (raster.Kind, error) {
	if name == "" {
		return s.opts.Storage, nil
	}
	return raster.ParseKind(name)
}

func checkSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", raster.ErrInvalidDimensions, width, height)
	}
	if width > maxCells || height > maxCells || (width > 0 && height > maxCells/width) {
		return fmt.Errorf("raster %dx%d exceeds %d cells", width, height, maxCells)
	}
	return nil
}

func infallible(f func(raster.Raster) raster.Raster) func(raster.Raster) (raster.Raster, error) {
	return func(r raster.Raster) (raster.Raster, error) {
		return f(r), nil
	}
}

type idArgs struct {
	ID string `json:"id"`
}

func (s *Server) lookup(args json.RawMessage) (string, raster.Raster, error) {
	var a idArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", nil, err
	}
	r, err := s.store.Get(a.ID)
	if err != nil {
		return "", nil, err
	}
	return a.ID, r, nil
}

// === Creation Handlers ===

type rasterNewArgs struct {
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Storage string           `json:"storage"`
	Fill    *graylevel.Level `json:"fill"`
}

func (s *Server) handleRasterNew(args json.RawMessage) (interface{}, error) {
	var a rasterNewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkSize(a.Width, a.Height); err != nil {
		return nil, err
	}
	kind, err := s.storageKind(a.Storage)
	if err != nil {
		return nil, err
	}
	r, err := raster.New(kind, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	if a.Fill != nil && !a.Fill.IsWhite() {
		for y := 0; y < a.Height; y++ {
			for x := 0; x < a.Width; x++ {
				r.SetPoint(x, y, *a.Fill)
			}
		}
	}
	return s.put(r), nil
}

type rasterFromImageArgs struct {
	Path      string `json:"path"`
	X1        *int   `json:"x1"`
	Y1        *int   `json:"y1"`
	X2        *int   `json:"x2"`
	Y2        *int   `json:"y2"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Threshold int    `json:"threshold"`
	Storage   string `json:"storage"`
}

type rasterFromImageResult struct {
	rasterRef
	Source    string         `json:"source"`
	Histogram map[string]int `json:"histogram"`
}

func (a rasterFromImageArgs) region() (*imaging.Region, error) {
	set := 0
	for _, p := range []*int{a.X1, a.Y1, a.X2, a.Y2} {
		if p != nil {
			set++
		}
	}
	switch set {
	case 0:
		return nil, nil
	case 4:
		return &imaging.Region{X1: *a.X1, Y1: *a.Y1, X2: *a.X2, Y2: *a.Y2}, nil
	}
	return nil, errors.New("crop region needs all of x1, y1, x2 and y2")
}

func (s *Server) handleRasterFromImage(args json.RawMessage) (interface{}, error) {
	var a rasterFromImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold < 0 || a.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside 0-255", a.Threshold)
	}
	region, err := a.region()
	if err != nil {
		return nil, err
	}
	kind, err := s.storageKind(a.Storage)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if err := checkSize(a.Width, a.Height); err != nil {
		return nil, err
	}
	opts := imaging.ConvertOptions{
		Region:    region,
		Width:     a.Width,
		Height:    a.Height,
		Threshold: uint8(a.Threshold),
		Kind:      kind,
	}
	src := img.Bounds()
	if region != nil {
		src = region.Rect()
	}
	if err := checkSize(opts.OutputSize(src)); err != nil {
		return nil, err
	}

	r, err := imaging.ToRaster(img, opts)
	if err != nil {
		return nil, err
	}
	return rasterFromImageResult{
		rasterRef: s.put(r),
		Source:    a.Path,
		Histogram: levelCounts(raster.Histogram(r)),
	}, nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Inspection Handlers ===

type rasterListResult struct {
	Rasters []rasterRef `json:"rasters"`
}

func (s *Server) handleRasterList(args json.RawMessage) (interface{}, error) {
	var a struct{}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res := rasterListResult{Rasters: []rasterRef{}}
	for _, id := range s.store.IDs() {
		// Deleted between IDs and Get: skip.
		if r, err := s.store.Get(id); err == nil {
			res.Rasters = append(res.Rasters, refOf(id, r))
		}
	}
	return res, nil
}

type rasterInfoResult struct {
	rasterRef
	Cells     int            `json:"cells"`
	Histogram map[string]int `json:"histogram"`
}

func (s *Server) handleRasterInfo(args json.RawMessage) (interface{}, error) {
	id, r, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	return rasterInfoResult{
		rasterRef: refOf(id, r),
		Cells:     r.Width() * r.Height(),
		Histogram: levelCounts(raster.Histogram(r)),
	}, nil
}

type rasterGetResult struct {
	rasterRef
	Levels [][]graylevel.Level `json:"levels"`
	Rows   []string            `json:"rows"`
}

func (s *Server) handleRasterGet(args json.RawMessage) (interface{}, error) {
	id, r, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	levels := raster.Snapshot(r)
	return rasterGetResult{
		rasterRef: refOf(id, r),
		Levels:    levels,
		Rows:      compactRows(levels),
	}, nil
}

type pointArgs struct {
	ID    string           `json:"id"`
	X     int              `json:"x"`
	Y     int              `json:"y"`
	Level *graylevel.Level `json:"level"`
}

type pointResult struct {
	ID      string          `json:"id"`
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Level   graylevel.Level `json:"level"`
	Written *bool           `json:"written,omitempty"`
}

func (s *Server) lookupPoint(args json.RawMessage) (pointArgs, raster.Raster, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return a, nil, err
	}
	r, err := s.store.Get(a.ID)
	if err != nil {
		return a, nil, err
	}
	return a, r, nil
}

func (s *Server) handleRasterPointAt(args json.RawMessage) (interface{}, error) {
	a, r, err := s.lookupPoint(args)
	if err != nil {
		return nil, err
	}
	l, err := r.PointAt(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return pointResult{ID: a.ID, X: a.X, Y: a.Y, Level: l}, nil
}

// writeResult reports the cell after a write. Writes outside the raster are
// ignored by the raster itself; here they are reported as not written.
func writeResult(a pointArgs, r raster.Raster) pointResult {
	res := pointResult{ID: a.ID, X: a.X, Y: a.Y}
	l, err := r.PointAt(a.X, a.Y)
	written := err == nil
	if written {
		res.Level = l
	}
	res.Written = &written
	return res
}

func (s *Server) handleRasterSetPoint(args json.RawMessage) (interface{}, error) {
	a, r, err := s.lookupPoint(args)
	if err != nil {
		return nil, err
	}
	if a.Level == nil {
		return nil, errors.New("level is required")
	}
	r.SetPoint(a.X, a.Y, *a.Level)
	return writeResult(a, r), nil
}

func (s *Server) handleRasterTurn(args json.RawMessage, turn func(raster.Raster, int, int)) (interface{}, error) {
	a, r, err := s.lookupPoint(args)
	if err != nil {
		return nil, err
	}
	turn(r, a.X, a.Y)
	return writeResult(a, r), nil
}

type countResult struct {
	ID    string          `json:"id"`
	Level graylevel.Level `json:"level"`
	Count int             `json:"count"`
}

func (s *Server) handleRasterCountLevel(args json.RawMessage) (interface{}, error) {
	a, r, err := s.lookupPoint(args)
	if err != nil {
		return nil, err
	}
	if a.Level == nil {
		return nil, errors.New("level is required")
	}
	return countResult{ID: a.ID, Level: *a.Level, Count: r.CountLevel(*a.Level)}, nil
}

type averageResult struct {
	ID    string          `json:"id"`
	Level graylevel.Level `json:"level"`
	Rank  int             `json:"rank"`
}

func (s *Server) handleRasterAverageLevel(args json.RawMessage) (interface{}, error) {
	id, r, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	l, err := r.AverageLevel()
	if err != nil {
		return nil, err
	}
	return averageResult{ID: id, Level: l, Rank: l.Rank()}, nil
}

type pairArgs struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (s *Server) lookupPair(args json.RawMessage) (pairArgs, raster.Raster, raster.Raster, error) {
	var a pairArgs
	if err := decodeArgs(args, &a); err != nil {
		return a, nil, nil, err
	}
	left, err := s.store.Get(a.A)
	if err != nil {
		return a, nil, nil, err
	}
	right, err := s.store.Get(a.B)
	if err != nil {
		return a, nil, nil, err
	}
	return a, left, right, nil
}

type equalResult struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Equal bool   `json:"equal"`
}

func (s *Server) handleRasterEqual(args json.RawMessage) (interface{}, error) {
	a, left, right, err := s.lookupPair(args)
	if err != nil {
		return nil, err
	}
	return equalResult{A: a.A, B: a.B, Equal: raster.Equal(left, right)}, nil
}

// === Mutation Handlers ===

type randomizeResult struct {
	rasterRef
	Histogram map[string]int `json:"histogram"`
}

func (s *Server) handleRasterRandomize(args json.RawMessage) (interface{}, error) {
	id, r, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	r.Randomize(s.random)
	return randomizeResult{
		rasterRef: refOf(id, r),
		Histogram: levelCounts(raster.Histogram(r)),
	}, nil
}

// === Derived Raster Handlers ===

type derivedResult struct {
	rasterRef
	From []string `json:"from"`
}

func (s *Server) derive(args json.RawMessage, op func(raster.Raster) (raster.Raster, error)) (interface{}, error) {
	id, r, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	out, err := op(r)
	if err != nil {
		return nil, err
	}
	return derivedResult{rasterRef: s.put(out), From: []string{id}}, nil
}

func (s *Server) combine(args json.RawMessage, op func(a, b raster.Raster) (raster.Raster, error)) (interface{}, error) {
	a, left, right, err := s.lookupPair(args)
	if err != nil {
		return nil, err
	}
	out, err := op(left, right)
	if err != nil {
		return nil, err
	}
	return derivedResult{rasterRef: s.put(out), From: []string{a.A, a.B}}, nil
}

// === Output Handlers ===

type rasterRenderArgs struct {
	ID        string `json:"id"`
	Scale     int    `json:"scale"`
	Grid      bool   `json:"grid"`
	GridColor string `json:"grid_color"`
	Labels    bool   `json:"labels"`
}

type rasterRenderResult struct {
	ID string `json:"id"`
	*imaging.RenderResult
}

// fitScale returns the default scale, reduced so the image stays within
// imaging.MaxRenderSide.
func fitScale(r raster.Raster) int {
	side := max(r.Width(), r.Height())
	if side == 0 {
		return defaultRenderScale
	}
	return max(1, min(defaultRenderScale, imaging.MaxRenderSide/side))
}

func (s *Server) handleRasterRender(args json.RawMessage) (interface{}, error) {
	var a rasterRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.store.Get(a.ID)
	if err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = fitScale(r)
	}
	res, err := imaging.Render(r, imaging.RenderOptions{
		Scale:     a.Scale,
		Grid:      a.Grid,
		GridColor: a.GridColor,
		Labels:    a.Labels,
	})
	if err != nil {
		return nil, err
	}
	return rasterRenderResult{ID: a.ID, RenderResult: res}, nil
}

type deleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleRasterDelete(args json.RawMessage) (interface{}, error) {
	var a idArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !s.store.Delete(a.ID) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, a.ID)
	}
	s.log.Debug("raster deleted", "id", a.ID)
	return deleteResult{ID: a.ID, Deleted: true}, nil
}
