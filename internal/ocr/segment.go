package ocr

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// ErrNoCharactersDetected is returned when fewer than two character-sized
// components are found on a plate.
var ErrNoCharactersDetected = errors.New("no characters detected in the image")

// GlyphWidth is one of the two canonical character widths on a plate.
type GlyphWidth int

const (
	// Narrow glyphs are used for the plate number, and for every character
	// of long plates.
	Narrow GlyphWidth = iota
	// Wide glyphs are used for the region code of short plates.
	Wide
)

func (w GlyphWidth) String() string {
	if w == Wide {
		return "wide"
	}
	return "narrow"
}

// SegmentConfig controls character segmentation. Lengths are given for a
// scale 1 plate (466x100) and multiplied by Scale; areas by Scale squared.
// Range limits are exclusive.
type SegmentConfig struct {
	Scale int `yaml:"scale"`

	BlurRadius    float64 `yaml:"blur_radius"`
	GrayThreshold uint8   `yaml:"gray_threshold"`
	CloseRadius   float64 `yaml:"close_radius"`
	OpenRadius    float64 `yaml:"open_radius"`

	AreaMin   float64 `yaml:"area_min"`
	AreaMax   float64 `yaml:"area_max"`
	WidthMin  float64 `yaml:"width_min"`
	WidthMax  float64 `yaml:"width_max"`
	HeightMin float64 `yaml:"height_min"`
	HeightMax float64 `yaml:"height_max"`

	GlyphHeight int `yaml:"glyph_height"`
	WideWidth   int `yaml:"wide_width"`
	NarrowWidth int `yaml:"narrow_width"`

	// UniformNarrowAbove switches every glyph to Narrow when a plate has more
	// characters than this.
	UniformNarrowAbove int `yaml:"uniform_narrow_above"`
}

// DefaultSegmentConfig returns the limits used for scale 4 plates.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		Scale:              4,
		BlurRadius:         1,
		GrayThreshold:      127,
		CloseRadius:        1.25,
		OpenRadius:         0.5,
		AreaMin:            500,
		AreaMax:            3125,
		WidthMin:           7.5,
		WidthMax:           65,
		HeightMin:          65,
		HeightMax:          90,
		GlyphHeight:        80,
		WideWidth:          54,
		NarrowWidth:        43,
		UniformNarrowAbove: 7,
	}
}

func (c SegmentConfig) length(v float64) float64 { return v * float64(c.Scale) }
func (c SegmentConfig) area(v float64) float64   { return v * float64(c.Scale*c.Scale) }

func (c SegmentConfig) radius(v float64) int {
	return int(math.Round(v * float64(c.Scale)))
}

// GlyphSize returns the pixel size of a glyph of the given width class.
func (c SegmentConfig) GlyphSize(w GlyphWidth) (int, int) {
	width := c.NarrowWidth
	if w == Wide {
		width = c.WideWidth
	}
	return width * c.Scale, c.GlyphHeight * c.Scale
}

// Glyph is a single character cropped from a plate: a binary mask with the
// character in black on white.
type Glyph struct {
	Index  int             `json:"index"`
	Width  GlyphWidth      `json:"width"`
	Bounds image.Rectangle `json:"bounds"`
	Mask   *image.Gray     `json:"-"`
}

// Segmentation is the ordered glyph sequence of one plate. Boundary is the
// index of the first glyph after the widest gap, separating the region code
// from the plate number.
type Segmentation struct {
	Glyphs   []Glyph `json:"glyphs"`
	Boundary int     `json:"boundary"`
}

// Segment splits a rectified plate into character glyphs.
//
// # Algorithm
//
//  1. Blur, grayscale and threshold the plate
//  2. Close then open the white background to drop speckle
//  3. Label connected dark components and keep the character-sized ones
//  4. Order left to right and split at the widest gap between centres
//  5. Crop every component to a fixed-size glyph centred on its bounding box
//
// Returns ErrNoCharactersDetected when fewer than two components survive.
func Segment(plate image.Image, cfg SegmentConfig) (*Segmentation, error) {
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("invalid segment scale %d", cfg.Scale)
	}
	src, err := imaging.ToNRGBA(plate)
	if err != nil {
		return nil, err
	}

	mask := imaging.Binarize(src, cfg.BlurRadius, cfg.GrayThreshold)
	mask = imaging.Close(mask, cfg.radius(cfg.CloseRadius))
	mask = imaging.Open(mask, cfg.radius(cfg.OpenRadius))

	labels, blobs := labelDark(mask)

	chars := make([]blob, 0, len(blobs))
	for _, b := range blobs {
		if isCharacter(b, cfg) {
			chars = append(chars, b)
		}
	}
	sort.SliceStable(chars, func(i, j int) bool {
		return chars[i].bounds.Min.X < chars[j].bounds.Min.X
	})

	if len(chars) <= 1 {
		return nil, ErrNoCharactersDetected
	}

	centers := make([]int, len(chars))
	for i, b := range chars {
		centers[i] = b.bounds.Min.X + b.bounds.Dx()/2
	}
	boundary := BoundaryIndex(centers)

	width := mask.Bounds().Dx()
	glyphs := make([]Glyph, len(chars))
	for i, b := range chars {
		class := Narrow
		if len(chars) <= cfg.UniformNarrowAbove && i < boundary {
			class = Wide
		}

		glyphMask, err := cropGlyph(labels, width, b, cfg, class)
		if err != nil {
			return nil, fmt.Errorf("failed to crop glyph %d: %w", i, err)
		}
		glyphs[i] = Glyph{Index: i, Width: class, Bounds: b.bounds, Mask: glyphMask}
	}

	return &Segmentation{Glyphs: glyphs, Boundary: boundary}, nil
}

func isCharacter(b blob, cfg SegmentConfig) bool {
	area := float64(b.area)
	w, h := float64(b.bounds.Dx()), float64(b.bounds.Dy())
	return area > cfg.area(cfg.AreaMin) && area < cfg.area(cfg.AreaMax) &&
		w > cfg.length(cfg.WidthMin) && w < cfg.length(cfg.WidthMax) &&
		h > cfg.length(cfg.HeightMin) && h < cfg.length(cfg.HeightMax)
}

// cropGlyph scales a component so its height fills the glyph and crops the
// glyph width around the component's centre.
func cropGlyph(labels []int32, width int, b blob, cfg SegmentConfig, class GlyphWidth) (*image.Gray, error) {
	gw, gh := cfg.GlyphSize(class)
	h := b.bounds.Dy()
	srcW := int(math.Round(float64(gw) * float64(h) / float64(gh)))
	if srcW < 1 {
		srcW = 1
	}

	own := blobMask(labels, width, b)
	window, err := imaging.Window(own, float64(b.bounds.Dx())/2, float64(h)/2, srcW, h, 255)
	if err != nil {
		return nil, err
	}
	return imaging.ResizeMask(window, gw, gh)
}

// BoundaryIndex returns the index of the element following the largest gap
// between consecutive centres. The first of several equal gaps wins.
// Fewer than two centres yield 0.
func BoundaryIndex(centers []int) int {
	if len(centers) < 2 {
		return 0
	}
	best, bestGap := 0, centers[1]-centers[0]
	for i := 1; i < len(centers)-1; i++ {
		if gap := centers[i+1] - centers[i]; gap > bestGap {
			best, bestGap = i, gap
		}
	}
	return best + 1
}
