package detection

import (
	"errors"
	"fmt"
)

// ErrNoPlateDetected is returned by Locate when no region of the image passes
// the plate shape filters.
var ErrNoPlateDetected = errors.New("no license plate detected in the image")

// ErrInsufficientLines matches any *InsufficientLinesError via errors.Is.
var ErrInsufficientLines = errors.New("not enough lines detected")

// InsufficientLinesError reports that a candidate region did not yield two
// vertical and two horizontal edges.
//
// Degenerate is set when enough lines were found but two of them were
// parallel, so the plate corners could not be solved.
type InsufficientLinesError struct {
	Vertical   int
	Horizontal int
	Degenerate bool
}

func (e *InsufficientLinesError) Error() string {
	if e.Degenerate {
		return fmt.Sprintf("not enough lines detected: vertical lines: %d, horizontal lines: %d (edges do not intersect)",
			e.Vertical, e.Horizontal)
	}
	return fmt.Sprintf("not enough lines detected: vertical lines: %d, horizontal lines: %d", e.Vertical, e.Horizontal)
}

// Is makes errors.Is(err, ErrInsufficientLines) succeed for any count.
func (e *InsufficientLinesError) Is(target error) bool {
	return target == ErrInsufficientLines
}
