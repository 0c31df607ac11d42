package detection

import "image"

// mooreDirs lists the 8 neighbour offsets in clockwise order starting at west.
var mooreDirs = [8]image.Point{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// component is an 8-connected region of foreground pixels.
type component struct {
	label int32
	start image.Point // first pixel in raster order
	size  int
}

// labelComponents groups the non-zero pixels of mask into 8-connected
// components. The returned slice holds one label per pixel (row-major,
// 0 = background, components numbered from 1 in raster order of their first
// pixel).
func labelComponents(mask *image.Gray) ([]int32, []component) {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	labels := make([]int32, width*height)
	components := make([]component, 0)

	var stack []image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] == 0 || labels[y*width+x] != 0 {
				continue
			}

			label := int32(len(components) + 1)
			comp := component{label: label, start: image.Point{X: x, Y: y}}

			// Flood fill with an explicit stack; recursion would overflow on
			// plate-sized regions.
			labels[y*width+x] = label
			stack = append(stack[:0], image.Point{X: x, Y: y})
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.size++

				for _, d := range mooreDirs {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					idx := ny*width + nx
					if labels[idx] != 0 || mask.Pix[ny*mask.Stride+nx] == 0 {
						continue
					}
					labels[idx] = label
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
			components = append(components, comp)
		}
	}
	return labels, components
}

// traceBoundary follows the outer boundary of one labelled component using
// Moore-neighbour tracing with Jacob's stopping criterion. Points are returned
// in traversal order without repeating the start point.
func traceBoundary(labels []int32, width, height int, comp component) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height &&
			labels[p.Y*width+p.X] == comp.label
	}

	// next returns the first foreground neighbour of p scanning clockwise
	// from the backtrack direction, plus the new backtrack direction.
	next := func(p image.Point, back int) (image.Point, int, bool) {
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			q := p.Add(mooreDirs[d])
			if !inside(q) {
				continue
			}
			prev := p.Add(mooreDirs[(d+7)%8])
			return q, dirIndex(prev.Sub(q)), true
		}
		return image.Point{}, 0, false
	}

	start := comp.start
	// The start pixel is the first in raster order, so its west neighbour
	// is background.
	second, back, ok := next(start, 0)
	if !ok {
		return []image.Point{start}
	}

	contour := []image.Point{start, second}
	p := second
	limit := 8*comp.size + 8
	for i := 0; i < limit; i++ {
		q, b, _ := next(p, back)
		if p == start && q == second {
			break
		}
		contour = append(contour, q)
		p, back = q, b
	}

	// The walk ends on the start pixel, which is already first.
	if len(contour) > 1 && contour[len(contour)-1] == start {
		contour = contour[:len(contour)-1]
	}
	return contour
}

func dirIndex(d image.Point) int {
	for i, m := range mooreDirs {
		if m == d {
			return i
		}
	}
	return 0
}

// findContours returns the outer boundary of every 8-connected foreground
// component of mask, in raster order of the components' first pixels.
func findContours(mask *image.Gray) [][]image.Point {
	labels, components := labelComponents(mask)
	width, height := mask.Bounds().Dx(), mask.Bounds().Dy()

	contours := make([][]image.Point, 0, len(components))
	for _, comp := range components {
		contours = append(contours, traceBoundary(labels, width, height, comp))
	}
	return contours
}
