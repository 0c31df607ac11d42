//go:build tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractReader reads plates with the Tesseract engine instead of the
// template set. It needs a system Tesseract install and the language data
// for Language.
type TesseractReader struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string
	// Whitelist restricts recognition to plate characters.
	Whitelist string
	// Separator is inserted between the leading letters and the rest.
	Separator string
}

// NewTesseractReader creates a reader for the given language.
func NewTesseractReader(language, separator string) (*TesseractReader, error) {
	return &TesseractReader{
		Language:  language,
		Whitelist: plateAlphabet,
		Separator: separator,
	}, nil
}

// ReadPlate implements PlateReader.
//
// A client is created per call, so a single reader may be shared between
// goroutines. Recognized text is reduced to the whitelist characters and
// split after the leading letters.
func (r *TesseractReader) ReadPlate(plate image.Image) (*Reading, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, plate); err != nil {
		return nil, fmt.Errorf("failed to encode plate image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(r.Whitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	return composeReading(text, r.Whitelist, r.Separator)
}
