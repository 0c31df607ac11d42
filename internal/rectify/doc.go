// Package rectify turns the four edges of a plate region into a fixed-size,
// perspective-corrected plate image.
//
// Corners computes the plate corners as intersections of the edge lines and
// orders them top-left, top-right, bottom-right, bottom-left. Rectify then
// maps the canonical plate rectangle onto that quadrilateral with a
// projective transform and samples the source image bilinearly.
//
// Parallel edges have no intersection; they are reported as a
// *detection.InsufficientLinesError with Degenerate set, the same kind a
// failed edge extraction produces.
package rectify
