// Package imaging provides the pixel-level primitives shared by the plate
// reading stages.
//
// Every function hands back images whose bounds start at (0,0), so callers
// can index Pix directly. Coordinates follow the usual raster convention:
// X grows to the right, Y grows downward, and rectangles are half-open.
//
// # Contents
//
//   - Loading: LoadImage, Decode and the concurrency-safe ImageCache. PNG,
//     JPEG, GIF, BMP, TIFF and WebP are registered.
//   - Color: ToHSV and WhiteMask (8-bit HSV with hue in 0-179), ToGray.
//   - Filtering: Binarize (blur, grayscale, threshold) plus the Close and
//     Open morphology operators, built on bild.
//   - Geometry: Window (fixed-size crop with padding) and ResizeMask.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and never modify their inputs, so they may run concurrently on shared
// images.
package imaging
