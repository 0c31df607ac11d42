package ocr

import "image"

// blob is an 8-connected group of dark pixels with its bounding box.
type blob struct {
	label  int32
	bounds image.Rectangle
	area   int
}

// labelDark labels the 8-connected components formed by zero-valued pixels
// of mask. Labels are numbered from 1 in raster order and stored row-major.
func labelDark(mask *image.Gray) ([]int32, []blob) {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	labels := make([]int32, width*height)
	blobs := make([]blob, 0)

	var stack []int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] != 0 || labels[y*width+x] != 0 {
				continue
			}

			b := blob{
				label:  int32(len(blobs) + 1),
				bounds: image.Rect(x, y, x+1, y+1),
			}
			labels[y*width+x] = b.label
			stack = append(stack[:0], y*width+x)

			for len(stack) > 0 {
				idx := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := idx%width, idx/width
				b.area++
				b.bounds = b.bounds.Union(image.Rect(px, py, px+1, py+1))

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || nx >= width || ny < 0 || ny >= height {
							continue
						}
						n := ny*width + nx
						if labels[n] != 0 || mask.Pix[ny*mask.Stride+nx] != 0 {
							continue
						}
						labels[n] = b.label
						stack = append(stack, n)
					}
				}
			}
			blobs = append(blobs, b)
		}
	}
	return labels, blobs
}

// blobMask renders one blob as a bounds-sized image: the blob's own pixels
// are 0 and everything else, including other blobs, is 255.
func blobMask(labels []int32, width int, b blob) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, b.bounds.Dx(), b.bounds.Dy()))
	for y := b.bounds.Min.Y; y < b.bounds.Max.Y; y++ {
		row := out.Pix[(y-b.bounds.Min.Y)*out.Stride:]
		for x := b.bounds.Min.X; x < b.bounds.Max.X; x++ {
			if labels[y*width+x] != b.label {
				row[x-b.bounds.Min.X] = 255
			}
		}
	}
	return out
}
