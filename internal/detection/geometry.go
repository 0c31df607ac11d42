package detection

import (
	"image"
	"math"
	"sort"
)

// RotatedRect is the minimum-area rectangle enclosing a point set.
//
// Angle is in degrees within [0, 90). Width is the extent along the Angle
// direction and Height the extent perpendicular to it.
type RotatedRect struct {
	CenterX float64 `json:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" yaml:"center_y"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Angle   float64 `json:"angle" yaml:"angle"`
}

// polygonArea returns the absolute area of a closed polygon (shoelace formula).
func polygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// convexHull computes the convex hull of pts with Andrew's monotone chain.
// Collinear points are dropped. The input slice is not modified.
func convexHull(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]image.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// minAreaRect finds the minimum-area enclosing rectangle of a convex hull by
// testing every hull edge as a candidate rectangle side.
func minAreaRect(hull []image.Point) RotatedRect {
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		return RotatedRect{CenterX: float64(hull[0].X), CenterY: float64(hull[0].Y)}
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ux, uy := dx/length, dy/length
		vx, vy := -uy, ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := float64(p.X)*ux + float64(p.Y)*uy
			v := float64(p.X)*vx + float64(p.Y)*vy
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		w, h := maxU-minU, maxV-minV
		if w*h >= bestArea {
			continue
		}
		bestArea = w * h

		midU, midV := (minU+maxU)/2, (minV+maxV)/2
		angle := math.Mod(math.Atan2(uy, ux)*180/math.Pi+360, 180)
		if angle >= 90 {
			angle -= 90
			w, h = h, w
		}
		best = RotatedRect{
			CenterX: midU*ux + midV*vx,
			CenterY: midU*uy + midV*vy,
			Width:   w,
			Height:  h,
			Angle:   angle,
		}
	}
	return best
}
