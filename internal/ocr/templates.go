package ocr

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// ErrNoTemplates is returned when a template directory holds no usable
// images, or when no template is eligible for a glyph.
var ErrNoTemplates = errors.New("no templates available")

// templateExtensions lists the file types LoadTemplates reads.
var templateExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// Template is a reference glyph for one character label.
type Template struct {
	Label string
	Mask  *image.Gray
}

// TemplateSet holds the reference glyphs of both width classes, each sorted
// by label. It is never modified after construction and may be shared by
// concurrent readers.
type TemplateSet struct {
	wide   []Template
	narrow []Template
}

// TemplateConfig names the width-class subdirectories of a template root.
type TemplateConfig struct {
	WideDir   string `yaml:"wide_dir"`
	NarrowDir string `yaml:"narrow_dir"`
}

// DefaultTemplateConfig returns the "54" (wide) and "43" (narrow) layout,
// named after the glyph widths in pixels at scale 1.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{WideDir: "54", NarrowDir: "43"}
}

// NewTemplateSet builds a set from in-memory masks keyed by label.
func NewTemplateSet(wide, narrow map[string]*image.Gray) *TemplateSet {
	return &TemplateSet{
		wide:   sortedTemplates(wide),
		narrow: sortedTemplates(narrow),
	}
}

func sortedTemplates(masks map[string]*image.Gray) []Template {
	out := make([]Template, 0, len(masks))
	for label, mask := range masks {
		out = append(out, Template{Label: label, Mask: mask})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// LoadTemplates reads the wide and narrow template directories below root.
// Each image file's name without extension is its label, so "A.png" holds
// the reference glyph for A.
func LoadTemplates(root string, cfg TemplateConfig) (*TemplateSet, error) {
	wide, err := loadTemplateDir(filepath.Join(root, cfg.WideDir))
	if err != nil {
		return nil, err
	}
	narrow, err := loadTemplateDir(filepath.Join(root, cfg.NarrowDir))
	if err != nil {
		return nil, err
	}
	return NewTemplateSet(wide, narrow), nil
}

func loadTemplateDir(dir string) (map[string]*image.Gray, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	masks := make(map[string]*image.Gray)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !templateExtensions[ext] {
			continue
		}

		img, err := imaging.LoadImage(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", entry.Name(), err)
		}
		label := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		masks[label] = imaging.ToGray(img)
	}

	if len(masks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}
	return masks, nil
}

// Fit returns a set whose templates have the glyph size cfg crops for their
// width class, so matching compares equal-sized masks. Templates already at
// that size are shared with s.
func (s *TemplateSet) Fit(cfg SegmentConfig) *TemplateSet {
	if s == nil {
		return nil
	}
	return &TemplateSet{
		wide:   fitTemplates(s.wide, cfg, Wide),
		narrow: fitTemplates(s.narrow, cfg, Narrow),
	}
}

func fitTemplates(templates []Template, cfg SegmentConfig, w GlyphWidth) []Template {
	width, height := cfg.GlyphSize(w)
	out := make([]Template, len(templates))
	for i, tpl := range templates {
		out[i] = tpl
		if tpl.Mask == nil || tpl.Mask.Bounds().Size() == image.Pt(width, height) {
			continue
		}
		if mask, err := imaging.ResizeMask(tpl.Mask, width, height); err == nil {
			out[i].Mask = mask
		}
	}
	return out
}

// Templates returns the templates of one width class in label order.
// The returned slice must not be modified.
func (s *TemplateSet) Templates(w GlyphWidth) []Template {
	if s == nil {
		return nil
	}
	if w == Wide {
		return s.wide
	}
	return s.narrow
}

// Len returns the total number of templates.
func (s *TemplateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.wide) + len(s.narrow)
}
