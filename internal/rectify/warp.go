package rectify

import (
	"image"
	"math"
)

// snapTolerance absorbs floating point noise so integer source positions
// sample exactly one pixel.
const snapTolerance = 1e-6

// warp builds a width x height image whose pixel (u, v) is src sampled
// bilinearly at m(u, v). Samples outside src read as opaque black.
func warp(src *image.NRGBA, m *transform, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()

	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			x, y := m.apply(float64(u), float64(v))
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			x, y = snap(x), snap(y)

			x0, y0 := math.Floor(x), math.Floor(y)
			fx, fy := x-x0, y-y0
			ix, iy := int(x0), int(y0)

			var acc [3]float64
			weights := [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy}
			offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
			for k, w := range weights {
				if w == 0 {
					continue
				}
				px, py := ix+offsets[k][0], iy+offsets[k][1]
				if px < 0 || px >= sw || py < 0 || py >= sh {
					continue
				}
				off := py*src.Stride + px*4
				acc[0] += w * float64(src.Pix[off])
				acc[1] += w * float64(src.Pix[off+1])
				acc[2] += w * float64(src.Pix[off+2])
			}

			off := v*out.Stride + u*4
			out.Pix[off] = toByte(acc[0])
			out.Pix[off+1] = toByte(acc[1])
			out.Pix[off+2] = toByte(acc[2])
			out.Pix[off+3] = 255
		}
	}
	return out
}

func snap(f float64) float64 {
	if r := math.Round(f); math.Abs(f-r) < snapTolerance {
		return r
	}
	return f
}

func toByte(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(math.Round(f))
}
