package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ironsheep/raster-algebra-mcp/internal/raster"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Options{Storage: raster.KindDense, Seed: 1, HasSeed: true})
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	if s.cache == nil || s.store == nil || s.random == nil || s.log == nil {
		t.Fatalf("New left fields unset: %+v", s)
	}
	if s.store.Len() != 0 {
		t.Errorf("store: got %d rasters, want 0", s.store.Len())
	}
}

func TestNew_SeedIsReproducible(t *testing.T) {
	a := New(Options{Seed: 42, HasSeed: true})
	b := New(Options{Seed: 42, HasSeed: true})
	for i := 0; i < 8; i++ {
		if x, y := a.random.Uint64(), b.random.Uint64(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "init-1", Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "init-1" {
		t.Errorf("ID: got %v, want init-1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "raster-algebra-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v, want %s", serverInfo["version"], Version)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools, want %d", len(tools), len(GetToolDefinitions()))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := newTestServer(t)
	if resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notifications/initialized should return nil response, got %+v", resp)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})
	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe_Session(t *testing.T) {
	var logs bytes.Buffer
	s := New(Options{
		Seed:    3,
		HasSeed: true,
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`this is not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"raster_new","arguments":{"width":2,"height":2}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"raster_turn_on","arguments":{"id":"r1","x":0,"y":0}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"raster_average_level","arguments":{"id":"r1"}}}`,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"raster_xor","arguments":{"a":"r1","b":"r9"}}}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	var responses []MCPResponse
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		responses = append(responses, resp)
	}

	// One response each for ids 1 through 5; the notification, the blank
	// line and the garbage line produce none.
	if len(responses) != 5 {
		t.Fatalf("got %d responses, want 5:\n%s", len(responses), out.String())
	}
	for i, resp := range responses {
		if want := float64(i + 1); resp.ID != want {
			t.Errorf("response %d: ID %v, want %v", i, resp.ID, want)
		}
	}
	for i := 0; i < 4; i++ {
		if responses[i].Error != nil {
			t.Errorf("response %d: unexpected error %+v", i, responses[i].Error)
		}
	}

	avg := responses[3].Result.(map[string]interface{})["content"].([]interface{})[0].(map[string]interface{})["text"].(string)
	if !strings.Contains(avg, `"level": "light_gray"`) {
		t.Errorf("average result: got %s", avg)
	}

	if responses[4].Error == nil || responses[4].Error.Code != -32000 {
		t.Errorf("missing operand: got %+v, want -32000", responses[4].Error)
	}
	if !strings.Contains(logs.String(), "failed to parse request") {
		t.Errorf("expected parse failure in logs:\n%s", logs.String())
	}
}
