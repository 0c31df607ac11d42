package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// RegionConfig holds the color and shape limits a plate region must satisfy.
// Range limits are exclusive; Extent and Solidity must strictly exceed their
// minimums. Sizes are in source-image pixels.
type RegionConfig struct {
	// SaturationMax and ValueMin select near-white pixels (0-255 HSV scale).
	SaturationMax uint8 `yaml:"saturation_max"`
	ValueMin      uint8 `yaml:"value_min"`

	AreaMin     float64 `yaml:"area_min"`
	AreaMax     float64 `yaml:"area_max"`
	WidthMin    float64 `yaml:"width_min"`
	WidthMax    float64 `yaml:"width_max"`
	HeightMin   float64 `yaml:"height_min"`
	HeightMax   float64 `yaml:"height_max"`
	RatioMin    float64 `yaml:"ratio_min"`
	RatioMax    float64 `yaml:"ratio_max"`
	ExtentMin   float64 `yaml:"extent_min"`
	SolidityMin float64 `yaml:"solidity_min"`
}

// DefaultRegionConfig returns limits tuned for plates photographed from a
// parking-gate distance with a high resolution camera.
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		SaturationMax: 50,
		ValueMin:      150,
		AreaMin:       500000,
		AreaMax:       1800000,
		WidthMin:      1400,
		WidthMax:      3500,
		HeightMin:     300,
		HeightMax:     750,
		RatioMin:      2.5,
		RatioMax:      7.5,
		ExtentMin:     0.7,
		SolidityMin:   0.75,
	}
}

// Candidate is a plate-shaped region found by Locate.
type Candidate struct {
	// Hull is the convex hull of the region's outer contour.
	Hull []image.Point `json:"hull"`

	// Frame is the bounds of the image the region was found in.
	Frame image.Rectangle `json:"frame"`

	// Rect is the raw minimum-area rectangle around the hull.
	Rect RotatedRect `json:"rect"`

	// Width and Height are the rectangle sides with Width always the more
	// horizontal one.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Area     float64 `json:"area"`
	Ratio    float64 `json:"ratio"`
	Extent   float64 `json:"extent"`
	Solidity float64 `json:"solidity"`
}

// Locate finds plate-shaped regions in img.
//
// # Algorithm
//
//  1. White mask: keep pixels with low saturation and high value (HSV)
//  2. Contours: trace the outer boundary of every connected white region
//  3. Area filter on the contour area
//  4. Rotated rectangle: fit the minimum-area rectangle, swapping sides when
//     its angle is 45 degrees or more so Width is the horizontal side
//  5. Width, height, aspect ratio, extent and solidity filters
//
// Returns ErrNoPlateDetected when nothing survives and
// imaging.ErrInvalidImage for a nil or empty image.
func Locate(img image.Image, cfg RegionConfig) ([]Candidate, error) {
	mask, err := imaging.WhiteMask(img, cfg.SaturationMax, cfg.ValueMin)
	if err != nil {
		return nil, fmt.Errorf("failed to build white mask: %w", err)
	}
	frame := mask.Bounds()

	candidates := make([]Candidate, 0)
	for _, contour := range findContours(mask) {
		if c, ok := evaluateContour(contour, frame, cfg); ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoPlateDetected
	}
	return candidates, nil
}

// evaluateContour applies the shape filters to one contour.
func evaluateContour(contour []image.Point, frame image.Rectangle, cfg RegionConfig) (Candidate, bool) {
	area := polygonArea(contour)
	if area <= cfg.AreaMin || area >= cfg.AreaMax {
		return Candidate{}, false
	}

	hull := convexHull(contour)
	rect := minAreaRect(hull)

	w, h := rect.Width, rect.Height
	if rect.Angle >= 45 {
		w, h = h, w
	}
	if w <= cfg.WidthMin || w >= cfg.WidthMax {
		return Candidate{}, false
	}
	if h <= cfg.HeightMin || h >= cfg.HeightMax {
		return Candidate{}, false
	}

	ratio := w / h
	extent := area / (w * h)
	hullArea := polygonArea(hull)
	if hullArea == 0 {
		return Candidate{}, false
	}
	solidity := area / hullArea

	if ratio <= cfg.RatioMin || ratio >= cfg.RatioMax {
		return Candidate{}, false
	}
	if extent <= cfg.ExtentMin || solidity <= cfg.SolidityMin {
		return Candidate{}, false
	}

	return Candidate{
		Hull:     hull,
		Frame:    frame,
		Rect:     rect,
		Width:    w,
		Height:   h,
		Area:     area,
		Ratio:    ratio,
		Extent:   extent,
		Solidity: solidity,
	}, true
}
