//go:build !tesseract

package ocr

import (
	"errors"
	"image"
)

// ErrTesseractUnavailable is returned when the binary was built without the
// tesseract build tag.
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with -tags tesseract)")

// TesseractReader is a placeholder in builds without Tesseract.
type TesseractReader struct{}

// NewTesseractReader always fails in builds without Tesseract.
func NewTesseractReader(language, separator string) (*TesseractReader, error) {
	return nil, ErrTesseractUnavailable
}

// ReadPlate implements PlateReader.
func (r *TesseractReader) ReadPlate(plate image.Image) (*Reading, error) {
	return nil, ErrTesseractUnavailable
}
