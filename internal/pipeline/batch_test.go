package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt", "d.gif"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	if err := os.Mkdir(filepath.Join(dir, "e.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	want := []string{"a.jpg", "b.PNG", "c.jpeg"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("names = %v, want %v", names, want)
	}

	if _, err := ListImages(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "plate.png"), plateScene(t, "PL123456", 2))
	writeImage(t, filepath.Join(dir, "empty.png"), blankScene(800, 600))
	writeFile(t, filepath.Join(dir, "broken.jpg"), "not a jpeg")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	reader := newTestReader(t, testConfig())

	tests := []struct {
		name     string
		opts     BatchOptions
		fallback string
	}{
		{"defaults", BatchOptions{}, DefaultFallback},
		{"custom fallback", BatchOptions{Workers: 2, Fallback: "NONE"}, "NONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := reader.ReadDir(context.Background(), dir, tt.opts)
			if err != nil {
				t.Fatalf("ReadDir failed: %v", err)
			}
			if len(results) != 2 {
				t.Errorf("got %d results, want 2: %v", len(results), results)
			}
			if results["plate.png"] != "PL-123456" {
				t.Errorf("plate.png = %q, want PL-123456", results["plate.png"])
			}
			if results["empty.png"] != tt.fallback {
				t.Errorf("empty.png = %q, want %q", results["empty.png"], tt.fallback)
			}
			if _, ok := results["broken.jpg"]; ok {
				t.Error("undecodable image should be skipped")
			}
		})
	}
}

func TestReadDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "empty.png"), blankScene(200, 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewReader(testConfig(), &scriptedReader{texts: []string{"XX-1"}})
	_, err := reader.ReadDir(ctx, dir, BatchOptions{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	results := map[string]string{
		"b.jpg": DefaultFallback,
		"a.png": "PL-123456",
	}

	if err := WriteResults(path, results); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read results: %v", err)
	}
	want := "{\n    \"a.png\": \"PL-123456\",\n    \"b.jpg\": \"PO12345\"\n}\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("results are not valid JSON: %v", err)
	}

	if err := WriteResults(filepath.Join(path, "nested"), results); err == nil {
		t.Error("expected error writing below a file")
	}
}
