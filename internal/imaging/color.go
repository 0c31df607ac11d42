package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is a color in hue/saturation/value space using the 8-bit conventions
// common in computer vision code:
//   - H: 0-179 (degrees halved so the full circle fits in a byte)
//   - S: 0-255 (0 = gray, 255 = fully saturated)
//   - V: 0-255 (0 = black, 255 = brightest)
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// ToHSV converts 8-bit RGB components to 8-bit HSV.
func ToHSV(r, g, b uint8) HSV {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := c.Hsv()
	return HSV{
		H: uint8(math.Min(179, math.Round(h/2))),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// WhiteMask builds a binary mask of near-white pixels.
//
// A pixel is foreground (255) when its saturation is at most maxSaturation and
// its value is at least minValue, both on the 0-255 scale; everything else is 0.
// The mask has the same dimensions as img with its origin at (0,0).
//
// Plates are white-backgrounded, so this mask isolates candidate plate areas
// from colored or dark surroundings.
func WhiteMask(img image.Image, maxSaturation, minValue uint8) (*image.Gray, error) {
	src, err := ToNRGBA(img)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	mask := image.NewGray(bounds)

	for y := 0; y < bounds.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+bounds.Dx()*4]
		for x := 0; x < bounds.Dx(); x++ {
			hsv := ToHSV(row[x*4], row[x*4+1], row[x*4+2])
			if hsv.S <= maxSaturation && hsv.V >= minValue {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}

	return mask, nil
}

// ToGray converts img to an 8-bit grayscale image with a (0,0) origin.
// *image.Gray inputs that already start at the origin are returned unchanged.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray))
		}
	}
	return out
}
