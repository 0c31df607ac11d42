package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Binarize converts img to a black/white mask.
//
// The pipeline is:
//  1. Gaussian blur with the given radius to suppress sensor noise
//     (skipped when blurRadius <= 0)
//  2. Grayscale conversion
//  3. Global threshold: pixels strictly brighter than threshold become 255,
//     all others become 0
//
// The result always has a (0,0) origin.
func Binarize(img image.Image, blurRadius float64, threshold uint8) *image.Gray {
	src := img
	if blurRadius > 0 {
		src = blur.Gaussian(img, blurRadius)
	}
	gray := ToGray(effect.Grayscale(src))

	// The gray channel is compared as is; another luminance pass would
	// truncate values and shift the threshold by one.
	for i, v := range gray.Pix {
		if v > threshold {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
	return gray
}

// Close performs morphological closing (dilation followed by erosion) of the
// white areas of mask. Dark gaps narrower than about 2*radius are filled.
// A radius of zero returns mask unchanged.
func Close(mask *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return mask
	}
	dilated := redChannel(effect.Dilate(mask, float64(radius)))
	return redChannel(effect.Erode(dilated, float64(radius)))
}

// Open performs morphological opening (erosion followed by dilation) of the
// white areas of mask. White specks smaller than about 2*radius are removed.
// A radius of zero returns mask unchanged.
func Open(mask *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return mask
	}
	eroded := redChannel(effect.Erode(mask, float64(radius)))
	return redChannel(effect.Dilate(eroded, float64(radius)))
}

// redChannel extracts the red channel of an RGBA image produced from a
// grayscale source. Going through a weighted luminance conversion would
// round 255 down on some inputs and corrupt binary masks.
func redChannel(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := img.Pix[y*img.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
