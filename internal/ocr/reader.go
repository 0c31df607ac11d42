package ocr

import "image"

// PlateReader turns a rectified plate image into text.
type PlateReader interface {
	ReadPlate(plate image.Image) (*Reading, error)
}

// TemplateReader reads plates by segmenting them and matching every glyph
// against a TemplateSet. It holds no mutable state and is safe for
// concurrent use.
type TemplateReader struct {
	Templates *TemplateSet
	Segment   SegmentConfig
	Match     MatchConfig
}

// NewTemplateReader creates a reader over set, with every template scaled
// once to the glyph size segment produces.
func NewTemplateReader(set *TemplateSet, segment SegmentConfig, match MatchConfig) *TemplateReader {
	return &TemplateReader{Templates: set.Fit(segment), Segment: segment, Match: match}
}

// ReadPlate implements PlateReader.
func (r *TemplateReader) ReadPlate(plate image.Image) (*Reading, error) {
	seg, err := Segment(plate, r.Segment)
	if err != nil {
		return nil, err
	}
	return Recognize(seg, r.Templates, r.Match)
}
