package imaging

import (
	"errors"
	"image"
	"testing"
)

func TestWindow_Inside(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	// Centre (3,3) with a 2x2 window covers pixels (2,2)-(3,3).
	out, err := Window(src, 3, 3, 2, 2, 255)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	want := []uint8{14, 15, 20, 21}
	for i, v := range want {
		if out.Pix[i] != v {
			t.Errorf("pixel %d = %d, want %d", i, out.Pix[i], v)
		}
	}
}

func TestWindow_PadsOutside(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))

	out, err := Window(src, 0, 0, 4, 4, 255)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	// Top-left quadrant lies outside the source and is padded.
	if out.GrayAt(0, 0).Y != 255 {
		t.Errorf("padded pixel = %d, want 255", out.GrayAt(0, 0).Y)
	}
	// Bottom-right quadrant maps onto source pixels (0,0)-(1,1).
	if out.GrayAt(3, 3).Y != 0 {
		t.Errorf("copied pixel = %d, want 0", out.GrayAt(3, 3).Y)
	}
}

func TestWindow_FullyOutside(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	out, err := Window(src, 100, 100, 3, 3, 7)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	for i, v := range out.Pix {
		if v != 7 {
			t.Fatalf("pixel %d = %d, want fill 7", i, v)
		}
	}
}

func TestWindow_Invalid(t *testing.T) {
	if _, err := Window(nil, 0, 0, 2, 2, 0); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("nil source: got %v, want ErrInvalidImage", err)
	}
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	if _, err := Window(src, 0, 0, 0, 2, 0); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("zero width: got %v, want ErrInvalidImage", err)
	}
}

func TestResizeMask(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}

	out, err := ResizeMask(mask, 20, 40)
	if err != nil {
		t.Fatalf("ResizeMask failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 20, 40) {
		t.Fatalf("bounds = %v, want 20x40", out.Bounds())
	}
	if out.GrayAt(1, 20).Y != 0 {
		t.Error("left side should stay black")
	}
	if out.GrayAt(18, 20).Y != 255 {
		t.Error("right side should stay white")
	}
	for i, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d = %d, mask must stay binary", i, v)
		}
	}
}
