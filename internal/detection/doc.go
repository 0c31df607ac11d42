// Package detection finds license plate regions in a photograph and extracts
// their four bounding edges.
//
// # Region Localization
//
// Locate builds a near-white mask in HSV space, traces the outer contour of
// every connected white region and keeps the ones whose area, rotated
// rectangle, aspect ratio, extent and solidity fall inside the limits of a
// RegionConfig. Survivors are returned as Candidates carrying their convex
// hull.
//
// # Edge Extraction
//
// ExtractEdges draws a candidate's hull, runs a standard Hough transform over
// the outline and groups the resulting lines into vertical and horizontal
// sets. Each set is split into two clusters with seeded 2-means, and the
// median line of each cluster becomes one plate side.
//
// # Errors
//
// Both stages report expected outcomes as typed errors: ErrNoPlateDetected
// when no region passes the filters, and *InsufficientLinesError (matching
// ErrInsufficientLines) when a region lacks two edges of either orientation.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
