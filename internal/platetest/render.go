// Package platetest renders synthetic plates and scenes for tests.
//
// Characters use a 5x7 block font whose strokes only touch orthogonally, so
// every character is one connected component after thresholding. At scale 1
// a cell is 7x11 pixels, giving 35x77 pixel characters on a 466x100 plate.
package platetest

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
)

const (
	// PlateWidth and PlateHeight are the plate size at scale 1.
	PlateWidth  = 466
	PlateHeight = 100

	CellWidth  = 7
	CellHeight = 11
	Columns    = 5
	Rows       = 7

	// Top is the y offset of every character at scale 1.
	Top = 11
)

var font = map[rune][Rows]string{
	'0': {"#####", "#...#", "#...#", "#...#", "#...#", "#...#", "#####"},
	'1': {"..#..", ".##..", "..#..", "..#..", "..#..", "..#..", ".###."},
	'2': {"#####", "....#", "....#", "#####", "#....", "#....", "#####"},
	'3': {"#####", "....#", "....#", ".####", "....#", "....#", "#####"},
	'4': {"#...#", "#...#", "#...#", "#####", "....#", "....#", "....#"},
	'5': {"#####", "#....", "#....", "#####", "....#", "....#", "#####"},
	'6': {"#####", "#....", "#....", "#####", "#...#", "#...#", "#####"},
	'7': {"#####", "....#", "....#", "....#", "....#", "....#", "....#"},
	'8': {"#####", "#...#", "#...#", "#####", "#...#", "#...#", "#####"},
	'9': {"#####", "#...#", "#...#", "#####", "....#", "....#", "#####"},
	'A': {"#####", "#...#", "#...#", "#####", "#...#", "#...#", "#...#"},
	'C': {"#####", "#....", "#....", "#....", "#....", "#....", "#####"},
	'E': {"#####", "#....", "#....", "####.", "#....", "#....", "#####"},
	'F': {"#####", "#....", "#....", "####.", "#....", "#....", "#...."},
	'H': {"#...#", "#...#", "#...#", "#####", "#...#", "#...#", "#...#"},
	'L': {"#....", "#....", "#....", "#....", "#....", "#....", "#####"},
	'P': {"#####", "#...#", "#...#", "#####", "#....", "#....", "#...."},
	'T': {"#####", "..#..", "..#..", "..#..", "..#..", "..#..", "..#.."},
	'U': {"#...#", "#...#", "#...#", "#...#", "#...#", "#...#", "#####"},
}

// Labels returns every character the font can render, sorted.
func Labels() []rune {
	out := make([]rune, 0, len(font))
	for r := range font {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Layout returns scale 1 x positions for a plate with regionLen region code
// characters followed, after a wide gap, by numberLen plate number
// characters.
func Layout(regionLen, numberLen int) []int {
	xs := make([]int, 0, regionLen+numberLen)
	for i := 0; i < regionLen; i++ {
		xs = append(xs, 20+45*i)
	}
	for i := 0; i < numberLen; i++ {
		xs = append(xs, 150+45*i)
	}
	return xs
}

// RenderPlate draws text in black on a white plate. xs holds the scale 1 x
// position of every character.
func RenderPlate(text string, xs []int, scale int) (*image.NRGBA, error) {
	runes := []rune(text)
	if len(runes) != len(xs) {
		return nil, fmt.Errorf("%d characters but %d positions", len(runes), len(xs))
	}

	img := image.NewNRGBA(image.Rect(0, 0, PlateWidth*scale, PlateHeight*scale))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	cw, ch := CellWidth*scale, CellHeight*scale
	for i, r := range runes {
		rows, ok := font[r]
		if !ok {
			return nil, fmt.Errorf("no glyph for %q", r)
		}
		for row, line := range rows {
			for col, c := range line {
				if c != '#' {
					continue
				}
				x := xs[i]*scale + col*cw
				y := Top*scale + row*ch
				draw.Draw(img, image.Rect(x, y, x+cw, y+ch), image.Black, image.Point{}, draw.Src)
			}
		}
	}
	return img, nil
}

// Background is the neutral scene color: zero saturation but too dark to
// pass as plate white.
var Background = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// RenderScene places plate, enlarged zoom times, at the given offset of a
// width x height neutral scene. The white plate area is one pixel larger than
// the enlarged plate so its traced outline runs exactly zoom*PlateWidth and
// zoom*PlateHeight pixels between opposite edges.
func RenderScene(plate *image.NRGBA, width, height int, at image.Point, zoom int) *image.NRGBA {
	scene := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(scene, scene.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	pw, ph := plate.Bounds().Dx()*zoom, plate.Bounds().Dy()*zoom
	draw.Draw(scene, image.Rect(at.X, at.Y, at.X+pw+1, at.Y+ph+1), image.White, image.Point{}, draw.Src)

	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			scene.SetNRGBA(at.X+x, at.Y+y, plate.NRGBAAt(x/zoom, y/zoom))
		}
	}
	return scene
}
