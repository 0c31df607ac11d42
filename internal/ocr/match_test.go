package ocr

import (
	"errors"
	"image"
	"math"
	"testing"
	"unicode"

	"github.com/ironsheep/plate-reader/internal/platetest"
)

const testLabels = "0123456789ACEFHLPTU"

func TestScore_SelfMatchIsMaximal(t *testing.T) {
	wide, _ := buildTemplates(t, testLabels)

	for label, mask := range wide {
		self := Score(mask, mask)
		if math.Abs(self-1) > 1e-9 {
			t.Errorf("%s: self score = %v, want 1", label, self)
		}
		for other, otherMask := range wide {
			if other == label {
				continue
			}
			if s := Score(mask, otherMask); s >= self {
				t.Errorf("%s scores %v against %s, not below self score %v", label, s, other, self)
			}
		}
	}
}

func TestScore_Inverted(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 4, 4))
	b := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range a.Pix {
		if i%3 == 0 {
			a.Pix[i] = 255
		} else {
			b.Pix[i] = 255
		}
	}
	if s := Score(a, b); math.Abs(s+1) > 1e-9 {
		t.Errorf("inverted score = %v, want -1", s)
	}
}

func TestScore_ConstantImage(t *testing.T) {
	flat := image.NewGray(image.Rect(0, 0, 5, 5))
	other := image.NewGray(image.Rect(0, 0, 5, 5))
	other.Pix[3] = 255
	if s := Score(flat, other); s != 0 {
		t.Errorf("score against a constant image = %v, want 0", s)
	}
}

func TestScore_SlidesSmallerOverLarger(t *testing.T) {
	large := image.NewGray(image.Rect(0, 0, 10, 10))
	patch := image.NewGray(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			v := uint8((x*3 + y) * 20)
			patch.Pix[y*3+x] = v
			large.Pix[(y+5)*10+x+6] = v
		}
	}

	for _, pair := range [][2]*image.Gray{{large, patch}, {patch, large}} {
		if s := Score(pair[0], pair[1]); math.Abs(s-1) > 1e-9 {
			t.Errorf("score = %v, want 1 at the embedded position", s)
		}
	}
}

func TestScore_MixedSizes(t *testing.T) {
	wide, narrow := buildTemplates(t, "L")
	// 54x80 against 43x80 fits; a 60x70 template is resized first.
	if s := Score(wide["L"], narrow["L"]); s <= 0 {
		t.Errorf("wide vs narrow L scored %v", s)
	}
	odd := image.NewGray(image.Rect(0, 0, 60, 70))
	if s := Score(wide["L"], odd); s != 0 {
		t.Errorf("constant resized template scored %v, want 0", s)
	}
}

func TestRecognize_SevenCharacters(t *testing.T) {
	wide, narrow := buildTemplates(t, testLabels)
	set := NewTemplateSet(wide, narrow)

	seg, err := Segment(renderPlate(t, "PL12345"), scaleOneConfig())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	reading, err := Recognize(seg, set, DefaultMatchConfig())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if reading.Text != "PL-12345" {
		t.Errorf("Text = %q, want %q", reading.Text, "PL-12345")
	}
	if reading.Boundary != 2 || len(reading.Characters) != 7 {
		t.Errorf("Boundary = %d, characters = %d", reading.Boundary, len(reading.Characters))
	}
	for i, m := range reading.Characters {
		if math.Abs(m.Score-1) > 1e-9 {
			t.Errorf("character %d (%s) score = %v, want 1", i, m.Label, m.Score)
		}
	}
}

func TestRecognize_RegionCodeSkipsDigits(t *testing.T) {
	wide, narrow := buildTemplates(t, testLabels)
	set := NewTemplateSet(wide, narrow)

	// The first character is a zero, which cannot be part of a region code.
	seg, err := Segment(renderPlate(t, "0L12345"), scaleOneConfig())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	reading, err := Recognize(seg, set, MatchConfig{Separator: " "})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	first := []rune(reading.Characters[0].Label)[0]
	if unicode.IsDigit(first) {
		t.Errorf("region code matched digit %q", first)
	}
	if got := reading.Text[1:]; got != "L 12345" {
		t.Errorf("Text = %q, want ?L 12345", reading.Text)
	}
}

func TestRecognize_Errors(t *testing.T) {
	if _, err := Recognize(nil, NewTemplateSet(nil, nil), DefaultMatchConfig()); !errors.Is(err, ErrNoCharactersDetected) {
		t.Errorf("nil segmentation: got %v", err)
	}

	wide, _ := buildTemplates(t, "12")
	seg, err := Segment(renderPlate(t, "PL12345"), scaleOneConfig())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if _, err := Recognize(seg, nil, DefaultMatchConfig()); !errors.Is(err, ErrNoTemplates) {
		t.Errorf("nil template set: got %v, want ErrNoTemplates", err)
	}
	// Only digit templates: the region code has nothing to match.
	_, err = Recognize(seg, NewTemplateSet(wide, nil), DefaultMatchConfig())
	if !errors.Is(err, ErrNoTemplates) {
		t.Errorf("got %v, want ErrNoTemplates", err)
	}
}

func TestTemplateReader(t *testing.T) {
	wide, narrow := buildTemplates(t, testLabels)
	reader := NewTemplateReader(NewTemplateSet(wide, narrow), scaleOneConfig(), DefaultMatchConfig())

	var _ PlateReader = reader
	reading, err := reader.ReadPlate(renderPlate(t, "CE345678"))
	if err != nil {
		t.Fatalf("ReadPlate failed: %v", err)
	}
	if reading.Text != "CE-345678" {
		t.Errorf("Text = %q, want %q", reading.Text, "CE-345678")
	}
}

func TestTemplateReader_ScalesTemplates(t *testing.T) {
	wide, narrow := buildTemplates(t, testLabels)
	cfg := DefaultSegmentConfig()
	cfg.Scale = 2
	reader := NewTemplateReader(NewTemplateSet(wide, narrow), cfg, DefaultMatchConfig())

	gw, gh := cfg.GlyphSize(Wide)
	if size := reader.Templates.Templates(Wide)[0].Mask.Bounds().Size(); size != image.Pt(gw, gh) {
		t.Fatalf("wide template size = %v, want %dx%d", size, gw, gh)
	}

	plate, err := platetest.RenderPlate("CE345678", platetest.Layout(2, 6), 2)
	if err != nil {
		t.Fatalf("failed to render plate: %v", err)
	}
	reading, err := reader.ReadPlate(plate)
	if err != nil {
		t.Fatalf("ReadPlate failed: %v", err)
	}
	if reading.Text != "CE-345678" {
		t.Errorf("Text = %q, want %q", reading.Text, "CE-345678")
	}
}
