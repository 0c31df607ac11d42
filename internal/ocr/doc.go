// Package ocr reads the characters of a rectified license plate.
//
// Segment binarizes the plate, labels its dark connected components and
// keeps the character-sized ones, ordered left to right. The widest gap
// between characters splits the region code from the plate number, which
// decides each glyph's canonical width. Every character is cropped to a
// fixed-size binary glyph.
//
// Recognize scores each glyph against a TemplateSet with normalized
// cross-correlation and joins the best labels, putting a separator at the
// region code boundary. TemplateReader bundles both steps behind the
// PlateReader interface.
//
// # Tesseract
//
// Builds with the "tesseract" tag also provide TesseractReader, which hands
// the whole plate to the Tesseract engine via gosseract. Tesseract must then
// be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Without the tag, NewTesseractReader returns ErrTesseractUnavailable.
package ocr
