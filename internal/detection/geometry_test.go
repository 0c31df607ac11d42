package detection

import (
	"image"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []image.Point
		want float64
	}{
		{"empty", nil, 0},
		{"segment", []image.Point{{0, 0}, {5, 0}}, 0},
		{"unit square", []image.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"reversed winding", []image.Point{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, 1},
		{"triangle", []image.Point{{0, 0}, {4, 0}, {0, 3}}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := polygonArea(tt.pts); got != tt.want {
				t.Errorf("polygonArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvexHull(t *testing.T) {
	pts := []image.Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {3, 7}, // interior
		{5, 0}, // collinear on an edge
	}

	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull = %v, want 4 corners", hull)
	}
	if area := polygonArea(hull); area != 100 {
		t.Errorf("hull area = %v, want 100", area)
	}

	if pts[4] != (image.Point{5, 5}) {
		t.Error("convexHull modified its input")
	}
}

func TestMinAreaRect_AxisAligned(t *testing.T) {
	hull := []image.Point{{10, 20}, {110, 20}, {110, 60}, {10, 60}}

	r := minAreaRect(hull)
	if !approxEqual(r.Width, 100, 1e-9) || !approxEqual(r.Height, 40, 1e-9) {
		t.Errorf("size = %vx%v, want 100x40", r.Width, r.Height)
	}
	if !approxEqual(r.Angle, 0, 1e-9) {
		t.Errorf("angle = %v, want 0", r.Angle)
	}
	if !approxEqual(r.CenterX, 60, 1e-9) || !approxEqual(r.CenterY, 40, 1e-9) {
		t.Errorf("center = (%v,%v), want (60,40)", r.CenterX, r.CenterY)
	}
}

func TestMinAreaRect_Rotated(t *testing.T) {
	// Sides along (40,30) and (-6,8): 50 x 10, tilted by atan(3/4).
	hull := convexHull([]image.Point{{10, 0}, {50, 30}, {44, 38}, {4, 8}})

	r := minAreaRect(hull)
	if !approxEqual(r.Width, 50, 1e-9) || !approxEqual(r.Height, 10, 1e-9) {
		t.Errorf("size = %vx%v, want 50x10", r.Width, r.Height)
	}
	wantAngle := math.Atan2(30, 40) * 180 / math.Pi
	if !approxEqual(r.Angle, wantAngle, 1e-9) {
		t.Errorf("angle = %v, want %v", r.Angle, wantAngle)
	}
	if !approxEqual(r.CenterX, 27, 1e-9) || !approxEqual(r.CenterY, 19, 1e-9) {
		t.Errorf("center = (%v,%v), want (27,19)", r.CenterX, r.CenterY)
	}
}

func TestMinAreaRect_Steep(t *testing.T) {
	// A tall thin box: the angle stays below 90 and the sides swap so Width
	// follows the reported angle.
	hull := []image.Point{{0, 0}, {10, 0}, {10, 100}, {0, 100}}

	r := minAreaRect(hull)
	if r.Angle < 0 || r.Angle >= 90 {
		t.Fatalf("angle %v outside [0,90)", r.Angle)
	}
	if !approxEqual(r.Width*r.Height, 1000, 1e-9) {
		t.Errorf("area = %v, want 1000", r.Width*r.Height)
	}
	if r.Angle == 0 && !approxEqual(r.Width, 10, 1e-9) {
		t.Errorf("width along 0 degrees = %v, want 10", r.Width)
	}
}

func TestMinAreaRect_Degenerate(t *testing.T) {
	if r := minAreaRect(nil); r != (RotatedRect{}) {
		t.Errorf("empty hull gave %+v", r)
	}
	r := minAreaRect([]image.Point{{3, 4}})
	if r.CenterX != 3 || r.CenterY != 4 || r.Width != 0 || r.Height != 0 {
		t.Errorf("single point gave %+v", r)
	}
}
