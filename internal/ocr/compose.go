package ocr

import (
	"strings"
	"unicode"
)

// plateAlphabet is every character that can appear on a plate.
const plateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// composeReading builds a Reading from free OCR text: characters outside
// alphabet are dropped and the separator goes after the leading letters.
// Engines that do not segment glyphs themselves report scores of 1.
func composeReading(raw, alphabet, separator string) (*Reading, error) {
	chars := make([]rune, 0, len(raw))
	for _, r := range strings.ToUpper(raw) {
		if strings.ContainsRune(alphabet, r) {
			chars = append(chars, r)
		}
	}
	if len(chars) < 2 {
		return nil, ErrNoCharactersDetected
	}

	boundary := 0
	for boundary < len(chars) && unicode.IsLetter(chars[boundary]) {
		boundary++
	}
	if boundary == len(chars) {
		boundary = 0
	}

	reading := &Reading{
		Characters: make([]Match, len(chars)),
		Boundary:   boundary,
	}
	var text strings.Builder
	for i, r := range chars {
		if i == boundary && i > 0 {
			text.WriteString(separator)
		}
		text.WriteRune(r)
		reading.Characters[i] = Match{Label: string(r), Score: 1}
	}
	reading.Text = text.String()
	return reading, nil
}
