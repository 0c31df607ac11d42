package detection

import (
	"image"
	"math"
	"sort"
)

// EdgeLine is a straight line in Hough normal form: the set of points with
// x*cos(Theta) + y*sin(Theta) = Rho. Theta is in radians within [0, pi).
type EdgeLine struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
}

// Edges holds the four sides of a plate region.
type Edges struct {
	Left   EdgeLine `json:"left"`
	Right  EdgeLine `json:"right"`
	Top    EdgeLine `json:"top"`
	Bottom EdgeLine `json:"bottom"`
}

// LineConfig controls edge extraction.
type LineConfig struct {
	// HoughThreshold is the vote count a line must exceed.
	HoughThreshold int           `yaml:"hough_threshold"`
	Cluster        ClusterConfig `yaml:"cluster"`
}

// DefaultLineConfig returns a 100 vote Hough threshold and the default
// clustering parameters.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		HoughThreshold: 100,
		Cluster:        DefaultClusterConfig(),
	}
}

// projectedLine is a Hough line with its intercept on the image midline.
type projectedLine struct {
	line EdgeLine
	pos  float64
}

// ExtractEdges finds the left, right, top and bottom edges of a candidate.
//
// The hull outline is drawn on a blank canvas the size of the source frame
// and run through a standard Hough transform. Lines steeper than 45 degrees
// are vertical, the rest horizontal. Each group is split in two by 2-means
// clustering on its midline intercept, and the median-rho line of each
// cluster becomes that side.
//
// Returns *InsufficientLinesError when fewer than two lines of either
// orientation are found.
func ExtractEdges(c Candidate, cfg LineConfig) (Edges, error) {
	width, height := c.Frame.Dx(), c.Frame.Dy()
	canvas := image.NewGray(image.Rect(0, 0, width, height))
	drawPolygon(canvas, c.Hull)

	lines := houghLines(canvas, cfg.HoughThreshold)

	var vertical, horizontal []projectedLine
	halfW, halfH := float64(width/2), float64(height/2)
	for _, l := range lines {
		sin, cos := math.Sincos(l.Theta)
		if sin == 0 {
			vertical = append(vertical, projectedLine{line: l, pos: l.Rho})
			continue
		}
		a := cos / sin
		b := l.Rho / sin
		if math.Abs(a) > 1 {
			vertical = append(vertical, projectedLine{line: l, pos: (b - halfH) / a})
		} else {
			horizontal = append(horizontal, projectedLine{line: l, pos: -a*halfW + b})
		}
	}

	if len(vertical) < 2 || len(horizontal) < 2 {
		return Edges{}, &InsufficientLinesError{Vertical: len(vertical), Horizontal: len(horizontal)}
	}

	left, right := splitLines(vertical, cfg.Cluster)
	top, bottom := splitLines(horizontal, cfg.Cluster)
	return Edges{Left: left, Right: right, Top: top, Bottom: bottom}, nil
}

// splitLines clusters lines into two groups by intercept and returns the
// representative of the lower-intercept group first.
func splitLines(lines []projectedLine, cfg ClusterConfig) (EdgeLine, EdgeLine) {
	pos := make([]float64, len(lines))
	for i, l := range lines {
		pos[i] = l.pos
	}
	labels, centers := twoMeans(pos, cfg)

	var groups [2][]EdgeLine
	for i, l := range lines {
		groups[labels[i]] = append(groups[labels[i]], l.line)
	}

	a, b := medianLine(groups[0]), medianLine(groups[1])
	if centers[1] < centers[0] {
		return b, a
	}
	return a, b
}

// medianLine returns the line with the median rho. Ties keep detection order.
func medianLine(lines []EdgeLine) EdgeLine {
	if len(lines) == 0 {
		return EdgeLine{}
	}
	sorted := make([]EdgeLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rho < sorted[j].Rho
	})
	return sorted[len(sorted)/2]
}

// houghLines runs the standard Hough transform with 1 pixel and 1 degree
// resolution over the non-zero pixels of edges.
//
// A cell is reported when its votes exceed threshold and it is a local
// maximum against its four neighbours. Results are ordered by votes,
// strongest first.
func houghLines(edges *image.Gray, threshold int) []EdgeLine {
	width, height := edges.Bounds().Dx(), edges.Bounds().Dy()
	const numAngle = 180
	numRho := 2*(width+height) + 1
	offset := (numRho - 1) / 2

	sinTab := make([]float64, numAngle)
	cosTab := make([]float64, numAngle)
	for n := 0; n < numAngle; n++ {
		sinTab[n], cosTab[n] = math.Sincos(float64(n) * math.Pi / numAngle)
	}

	// The accumulator has a one cell border so the peak test never needs
	// bounds checks.
	stride := numRho + 2
	accum := make([]int, (numAngle+2)*stride)
	for y := 0; y < height; y++ {
		row := edges.Pix[y*edges.Stride:]
		for x := 0; x < width; x++ {
			if row[x] == 0 {
				continue
			}
			for n := 0; n < numAngle; n++ {
				r := int(math.RoundToEven(float64(x)*cosTab[n]+float64(y)*sinTab[n])) + offset
				accum[(n+1)*stride+r+1]++
			}
		}
	}

	type peak struct {
		base  int
		n, r  int
		votes int
	}
	peaks := make([]peak, 0)
	for r := 0; r < numRho; r++ {
		for n := 0; n < numAngle; n++ {
			base := (n+1)*stride + r + 1
			v := accum[base]
			if v > threshold &&
				v > accum[base-1] && v >= accum[base+1] &&
				v > accum[base-stride] && v >= accum[base+stride] {
				peaks = append(peaks, peak{base: base, n: n, r: r, votes: v})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		return peaks[i].base < peaks[j].base
	})

	lines := make([]EdgeLine, len(peaks))
	for i, p := range peaks {
		lines[i] = EdgeLine{
			Rho:   float64(p.r - offset),
			Theta: float64(p.n) * math.Pi / numAngle,
		}
	}
	return lines
}

// drawPolygon draws the closed outline through pts with 1 pixel wide lines.
func drawPolygon(canvas *image.Gray, pts []image.Point) {
	for i := range pts {
		drawLine(canvas, pts[i], pts[(i+1)%len(pts)])
	}
}

// drawLine rasterises a segment with Bresenham's algorithm, clipping to the
// canvas.
func drawLine(canvas *image.Gray, a, b image.Point) {
	bounds := canvas.Bounds()
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		if (image.Point{X: x, Y: y}).In(bounds) {
			canvas.Pix[canvas.PixOffset(x, y)] = 255
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
