package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Window copies the w x h rectangle of src centred on (cx, cy) into a new
// grayscale image with a (0,0) origin. Pixels of the window that fall outside
// src are set to fill.
//
// Returns ErrInvalidImage when src is nil or the window is empty.
func Window(src *image.Gray, cx, cy float64, w, h int, fill uint8) (*image.Gray, error) {
	if src == nil || w <= 0 || h <= 0 {
		return nil, ErrInvalidImage
	}

	bounds := src.Bounds()
	x0 := int(math.Round(cx-float64(w)/2)) + bounds.Min.X
	y0 := int(math.Round(cy-float64(h)/2)) + bounds.Min.Y

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i := range out.Pix {
		out.Pix[i] = fill
	}

	// Intersect the window with the source so the copy loop never indexes
	// outside either buffer.
	sx0 := clamp(x0, bounds.Min.X, bounds.Max.X)
	sx1 := clamp(x0+w, bounds.Min.X, bounds.Max.X)
	sy0 := clamp(y0, bounds.Min.Y, bounds.Max.Y)
	sy1 := clamp(y0+h, bounds.Min.Y, bounds.Max.Y)
	if sx0 >= sx1 || sy0 >= sy1 {
		return out, nil
	}

	for y := sy0; y < sy1; y++ {
		srcOff := src.PixOffset(sx0, y)
		dstOff := (y-y0)*out.Stride + (sx0 - x0)
		copy(out.Pix[dstOff:dstOff+(sx1-sx0)], src.Pix[srcOff:srcOff+(sx1-sx0)])
	}
	return out, nil
}

// ResizeMask scales a binary mask to w x h using bilinear interpolation and
// re-binarises the result: values of 128 and above become 255, the rest 0.
func ResizeMask(mask *image.Gray, w, h int) (*image.Gray, error) {
	if mask == nil || mask.Bounds().Empty() || w <= 0 || h <= 0 {
		return nil, ErrInvalidImage
	}

	resized := imaging.Resize(mask, w, h, imaging.Linear)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < w; x++ {
			if row[x*4] >= 128 {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out, nil
}
