package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// callTool sends a tools/call request for name with args.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeContent unmarshals the text content of a successful tool response.
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("Failed to decode content: %v", err)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := createSceneFile(t, t.TempDir(), "scene.png")

	var info ImageInfo
	decodeContent(t, callTool(t, s, "image_load", map[string]string{"path": path}), &info)

	if info.Width != 1200 || info.Height != 600 {
		t.Errorf("size = %dx%d, want 1200x600", info.Width, info.Height)
	}
	if info.Path != path {
		t.Errorf("Path = %s", info.Path)
	}
}

func TestHandleToolsCall_PlateLocate(t *testing.T) {
	s := newTestServer(t)
	path := createSceneFile(t, t.TempDir(), "scene.png")

	var res LocateResult
	decodeContent(t, callTool(t, s, "plate_locate", map[string]string{"path": path}), &res)

	if res.Count != 1 || len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", res.Count)
	}
	if c := res.Candidates[0]; c.Width < 900 || c.Height < 190 {
		t.Errorf("candidate size = %.0fx%.0f", c.Width, c.Height)
	}
}

func TestHandleToolsCall_PlateRead(t *testing.T) {
	s := newTestServer(t)
	path := createSceneFile(t, t.TempDir(), "scene.png")

	var res struct {
		Text     string            `json:"text"`
		Attempts []json.RawMessage `json:"attempts"`
	}
	decodeContent(t, callTool(t, s, "plate_read", map[string]string{"path": path}), &res)

	if res.Text != "PL-12345" {
		t.Errorf("Text = %q, want PL-12345", res.Text)
	}
	if len(res.Attempts) != 1 {
		t.Errorf("got %d attempts, want 1", len(res.Attempts))
	}
}

func TestHandleToolsCall_PlateBatch(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createSceneFile(t, dir, "a.png")
	if err := os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	resultsFile := filepath.Join(t.TempDir(), "results.json")

	var res BatchResult
	args := map[string]string{"dir": dir, "results_file": resultsFile}
	decodeContent(t, callTool(t, s, "plate_batch", args), &res)

	if res.Count != 1 || res.Results["a.png"] != "PL-12345" {
		t.Errorf("results = %v", res.Results)
	}

	data, err := os.ReadFile(resultsFile)
	if err != nil {
		t.Fatalf("results file not written: %v", err)
	}
	var written map[string]string
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("results file is not JSON: %v", err)
	}
	if written["a.png"] != "PL-12345" {
		t.Errorf("written = %v", written)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args interface{}
	}{
		{"unknown tool", "nonexistent_tool", map[string]string{}},
		{"missing path", "image_load", map[string]string{}},
		{"nonexistent file", "plate_read", map[string]string{"path": "/nonexistent/image.png"}},
		{"missing dir", "plate_batch", map[string]string{}},
		{"nonexistent dir", "plate_batch", map[string]string{"dir": "/nonexistent/dir"}},
		{"wrong argument type", "plate_locate", map[string]int{"path": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_NoPlate(t *testing.T) {
	s := newTestServer(t)
	path := writePNG(t, filepath.Join(t.TempDir(), "empty.png"), createEmptyScene())

	for _, tool := range []string{"plate_locate", "plate_read"} {
		resp := callTool(t, s, tool, map[string]string{"path": path})
		if resp.Error == nil {
			t.Errorf("%s: expected error for photo without plate", tool)
		}
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
