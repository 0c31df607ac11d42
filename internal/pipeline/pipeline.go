package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/ocr"
	"github.com/ironsheep/plate-reader/internal/rectify"
)

// Config gathers the tuning of every stage.
type Config struct {
	Region    detection.RegionConfig `yaml:"region"`
	Lines     detection.LineConfig   `yaml:"lines"`
	Rectify   rectify.Config         `yaml:"rectify"`
	Segment   ocr.SegmentConfig      `yaml:"segment"`
	Match     ocr.MatchConfig        `yaml:"match"`
	Templates ocr.TemplateConfig     `yaml:"templates"`
}

// DefaultConfig returns the stock configuration for full resolution photos.
func DefaultConfig() Config {
	return Config{
		Region:    detection.DefaultRegionConfig(),
		Lines:     detection.DefaultLineConfig(),
		Rectify:   rectify.DefaultConfig(),
		Segment:   ocr.DefaultSegmentConfig(),
		Match:     ocr.DefaultMatchConfig(),
		Templates: ocr.DefaultTemplateConfig(),
	}
}

// NewTemplateReader builds the default plate reader for cfg. The segmenter
// always runs at the scale the rectifier produces.
func NewTemplateReader(set *ocr.TemplateSet, cfg Config) *ocr.TemplateReader {
	seg := cfg.Segment
	seg.Scale = cfg.Rectify.Scale
	return ocr.NewTemplateReader(set, seg, cfg.Match)
}

// Attempt records what happened to one plate candidate.
type Attempt struct {
	Candidate detection.Candidate `json:"candidate"`
	Corners   *rectify.Quad       `json:"corners,omitempty"`
	Reading   *ocr.Reading        `json:"reading,omitempty"`
	Error     string              `json:"error,omitempty"`

	err error
}

// Err returns the failure of the attempt, or nil when it produced a reading.
func (a Attempt) Err() error { return a.err }

// Result is the outcome of reading one photo.
type Result struct {
	Text     string       `json:"text"`
	Reading  *ocr.Reading `json:"reading"`
	Attempts []Attempt    `json:"attempts"`
}

// Reader runs the full recognition chain on photos. It is safe for
// concurrent use as long as its PlateReader is.
type Reader struct {
	cfg    Config
	plates ocr.PlateReader
	logger *log.Logger
	debug  bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for per-candidate diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// WithDebug enables logging of every rejected candidate.
func WithDebug(debug bool) Option {
	return func(r *Reader) { r.debug = debug }
}

// NewReader creates a Reader that recognizes rectified plates with plates.
func NewReader(cfg Config, plates ocr.PlateReader, opts ...Option) *Reader {
	r := &Reader{
		cfg:    cfg,
		plates: plates,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the configuration the reader was built with.
func (r *Reader) Config() Config { return r.cfg }

// Locate returns the plate candidates of img without reading them.
func (r *Reader) Locate(img image.Image) ([]detection.Candidate, error) {
	return detection.Locate(img, r.cfg.Region)
}

// Read recognizes the plate in img.
//
// Every candidate is tried in turn. A candidate that fails is logged and
// skipped; the last candidate that yields a reading supplies Result.Text.
// When no candidate succeeds the candidate failures are returned joined, so
// errors.Is still matches ErrInsufficientLines or ErrNoCharactersDetected.
func (r *Reader) Read(img image.Image) (*Result, error) {
	base, err := imaging.ToNRGBA(img)
	if err != nil {
		return nil, err
	}

	candidates, err := detection.Locate(base, r.cfg.Region)
	if err != nil {
		return nil, err
	}

	result := &Result{Attempts: make([]Attempt, 0, len(candidates))}
	var errs []error
	found := false

	for i, c := range candidates {
		attempt := r.readCandidate(base, c)
		if attempt.err != nil {
			if r.debug {
				r.logger.Printf("candidate %d at (%.0f, %.0f) rejected: %v", i, c.Rect.CenterX, c.Rect.CenterY, attempt.err)
			}
			errs = append(errs, fmt.Errorf("candidate %d: %w", i, attempt.err))
		} else {
			result.Text = attempt.Reading.Text
			result.Reading = attempt.Reading
			found = true
		}
		result.Attempts = append(result.Attempts, attempt)
	}

	if !found {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

func (r *Reader) readCandidate(base *image.NRGBA, c detection.Candidate) Attempt {
	attempt := Attempt{Candidate: c}
	fail := func(err error) Attempt {
		attempt.err = err
		attempt.Error = err.Error()
		return attempt
	}

	edges, err := detection.ExtractEdges(c, r.cfg.Lines)
	if err != nil {
		return fail(err)
	}

	plate, err := rectify.Rectify(base, edges, r.cfg.Rectify)
	if err != nil {
		return fail(err)
	}
	attempt.Corners = &plate.Corners

	reading, err := r.plates.ReadPlate(plate.Image)
	if err != nil {
		return fail(err)
	}
	attempt.Reading = reading
	return attempt
}
