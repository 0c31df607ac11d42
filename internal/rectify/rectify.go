package rectify

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
)

// ErrInvalidSize is returned when Config describes an empty plate.
var ErrInvalidSize = errors.New("invalid plate size")

// Point is a sub-pixel image coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad holds plate corners in the order top-left, top-right, bottom-right,
// bottom-left.
type Quad [4]Point

// Area returns the area enclosed by the quadrilateral.
func (q Quad) Area() float64 {
	sum := 0.0
	for i := range q {
		j := (i + 1) % len(q)
		sum += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(sum) / 2
}

// Config sets the canonical plate size. The output image is
// PlateWidth*Scale x PlateHeight*Scale pixels.
type Config struct {
	PlateWidth  int `yaml:"plate_width"`
	PlateHeight int `yaml:"plate_height"`
	Scale       int `yaml:"scale"`
}

// DefaultConfig returns the 466x100 plate proportions at scale 4.
func DefaultConfig() Config {
	return Config{PlateWidth: 466, PlateHeight: 100, Scale: 4}
}

// Size returns the output width and height in pixels.
func (c Config) Size() (int, int) {
	return c.PlateWidth * c.Scale, c.PlateHeight * c.Scale
}

// Plate is a perspective-corrected plate image.
type Plate struct {
	Image   *image.NRGBA `json:"-"`
	Corners Quad         `json:"corners"`
}

// Intersect solves the 2x2 system for the crossing point of two lines.
// It returns false when the lines are parallel or nearly so.
func Intersect(a, b detection.EdgeLine) (Point, bool) {
	s1, c1 := math.Sincos(a.Theta)
	s2, c2 := math.Sincos(b.Theta)

	det := c1*s2 - s1*c2
	if math.Abs(det) < 1e-9 {
		return Point{}, false
	}
	return Point{
		X: (a.Rho*s2 - s1*b.Rho) / det,
		Y: (c1*b.Rho - a.Rho*c2) / det,
	}, true
}

// Corners intersects each vertical edge with each horizontal edge and
// returns the four points ordered by OrderCorners.
func Corners(e detection.Edges) (Quad, error) {
	pairs := [4][2]detection.EdgeLine{
		{e.Left, e.Top},
		{e.Right, e.Top},
		{e.Right, e.Bottom},
		{e.Left, e.Bottom},
	}

	var pts [4]Point
	for i, pair := range pairs {
		p, ok := Intersect(pair[0], pair[1])
		if !ok {
			return Quad{}, &detection.InsufficientLinesError{Vertical: 2, Horizontal: 2, Degenerate: true}
		}
		pts[i] = p
	}
	return OrderCorners(pts), nil
}

// OrderCorners sorts points by x into a left and a right pair, then each pair
// by y, yielding top-left, top-right, bottom-right, bottom-left.
func OrderCorners(pts [4]Point) Quad {
	sorted := pts
	sort.SliceStable(sorted[:], func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	left := [2]Point{sorted[0], sorted[1]}
	right := [2]Point{sorted[2], sorted[3]}
	if left[1].Y < left[0].Y {
		left[0], left[1] = left[1], left[0]
	}
	if right[1].Y < right[0].Y {
		right[0], right[1] = right[1], right[0]
	}
	return Quad{left[0], right[0], right[1], left[1]}
}

// Rectify warps the region bounded by edges onto the canonical plate
// rectangle.
//
// Returns a *detection.InsufficientLinesError with Degenerate set when the
// edges do not form a usable quadrilateral, imaging.ErrInvalidImage for a nil
// or empty base image, and ErrInvalidSize for a bad Config.
func Rectify(base image.Image, edges detection.Edges, cfg Config) (*Plate, error) {
	width, height := cfg.Size()
	if cfg.PlateWidth <= 0 || cfg.PlateHeight <= 0 || cfg.Scale <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at scale %d", ErrInvalidSize, cfg.PlateWidth, cfg.PlateHeight, cfg.Scale)
	}

	src, err := imaging.ToNRGBA(base)
	if err != nil {
		return nil, err
	}

	quad, err := Corners(edges)
	if err != nil {
		return nil, err
	}
	if quad.Area() < 1 {
		return nil, &detection.InsufficientLinesError{Vertical: 2, Horizontal: 2, Degenerate: true}
	}

	canonical := Quad{
		{X: 0, Y: 0},
		{X: float64(width), Y: 0},
		{X: float64(width), Y: float64(height)},
		{X: 0, Y: float64(height)},
	}
	// Output pixels are pulled from the source, so map canonical -> source.
	m := quadToQuad(canonical, quad)
	if !m.valid(canonical) {
		return nil, &detection.InsufficientLinesError{Vertical: 2, Horizontal: 2, Degenerate: true}
	}

	return &Plate{
		Image:   warp(src, m, width, height),
		Corners: quad,
	}, nil
}
