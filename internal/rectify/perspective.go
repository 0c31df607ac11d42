package rectify

import "math"

// transform is a 3x3 projective transform in row-vector form: a point
// (x, y, 1) maps to (x', y', w) and the result is (x'/w, y'/w).
type transform struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// quadToQuad returns the transform taking the corners of from onto the
// corners of to, in order.
func quadToQuad(from, to Quad) *transform {
	qToS := quadToSquare(from)
	sToQ := squareToQuad(to)
	return sToQ.times(qToS)
}

// squareToQuad maps the unit square (0,0), (1,0), (1,1), (0,1) onto q.
func squareToQuad(q Quad) *transform {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y

	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// Parallelogram: the transform is affine.
		return &transform{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a13: 0, a23: 0, a33: 1,
		}
	}

	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / denominator
	a23 := (dx1*dy3 - dx3*dy1) / denominator
	return &transform{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// quadToSquare is the inverse of squareToQuad up to scale.
func quadToSquare(q Quad) *transform {
	return squareToQuad(q).adjoint()
}

func (t *transform) adjoint() *transform {
	return &transform{
		a11: t.a22*t.a33 - t.a23*t.a32,
		a21: t.a23*t.a31 - t.a21*t.a33,
		a31: t.a21*t.a32 - t.a22*t.a31,
		a12: t.a13*t.a32 - t.a12*t.a33,
		a22: t.a11*t.a33 - t.a13*t.a31,
		a32: t.a12*t.a31 - t.a11*t.a32,
		a13: t.a12*t.a23 - t.a13*t.a22,
		a23: t.a13*t.a21 - t.a11*t.a23,
		a33: t.a11*t.a22 - t.a12*t.a21,
	}
}

// times returns t applied after other.
func (t *transform) times(other *transform) *transform {
	return &transform{
		a11: t.a11*other.a11 + t.a21*other.a12 + t.a31*other.a13,
		a21: t.a11*other.a21 + t.a21*other.a22 + t.a31*other.a23,
		a31: t.a11*other.a31 + t.a21*other.a32 + t.a31*other.a33,
		a12: t.a12*other.a11 + t.a22*other.a12 + t.a32*other.a13,
		a22: t.a12*other.a21 + t.a22*other.a22 + t.a32*other.a23,
		a32: t.a12*other.a31 + t.a22*other.a32 + t.a32*other.a33,
		a13: t.a13*other.a11 + t.a23*other.a12 + t.a33*other.a13,
		a23: t.a13*other.a21 + t.a23*other.a22 + t.a33*other.a23,
		a33: t.a13*other.a31 + t.a23*other.a32 + t.a33*other.a33,
	}
}

// apply maps a single point.
func (t *transform) apply(x, y float64) (float64, float64) {
	denominator := t.a13*x + t.a23*y + t.a33
	return (t.a11*x + t.a21*y + t.a31) / denominator,
		(t.a12*x + t.a22*y + t.a32) / denominator
}

// valid reports whether every corner of q maps to a finite point.
func (t *transform) valid(q Quad) bool {
	for _, p := range q {
		x, y := t.apply(p.X, p.Y)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return false
		}
	}
	return true
}
