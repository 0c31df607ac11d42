// Package pipeline chains the recognition stages into a plate reader.
//
// A Reader locates plate-shaped white regions, fits the four plate edges,
// warps each candidate to the canonical plate size and hands the result to an
// ocr.PlateReader. ReadDir runs the same chain over a directory of photos on a
// pool of workers and WriteResults stores the outcome as JSON.
package pipeline
