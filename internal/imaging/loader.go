package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrInvalidImage is returned when an operation receives a nil or zero-sized
// image. It is a caller bug, never a detection outcome.
var ErrInvalidImage = errors.New("invalid image: nil or zero-sized buffer")

// ImageCache provides thread-safe caching of decoded images to avoid redundant disk reads.
//
// The cache stores images keyed by their file path, already normalised to
// *image.NRGBA with a (0,0) origin so every pipeline stage can index pixels
// directly. Once an image is loaded, subsequent Load() calls for the same path
// return the cached copy without disk I/O.
//
// ImageCache is safe for concurrent use by multiple goroutines. Cached images
// must be treated as read-only.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// Batch runs over large directories should use LoadImage instead.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The image is cached
// using the exact path string provided.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadImage opens and decodes an image file without caching it.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an encoded image and normalises it with ToNRGBA.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToNRGBA(img)
}

// ToNRGBA returns img as an *image.NRGBA whose bounds start at (0,0).
//
// Images that already satisfy this are returned as-is; anything else is copied.
// A nil or empty image yields ErrInvalidImage.
func ToNRGBA(img image.Image) (*image.NRGBA, error) {
	if isNilImage(img) || img.Bounds().Empty() {
		return nil, ErrInvalidImage
	}
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n, nil
	}
	return imaging.Clone(img), nil
}

// isNilImage reports whether img is nil, including typed nil pointers of the
// standard image types.
func isNilImage(img image.Image) bool {
	switch v := img.(type) {
	case nil:
		return true
	case *image.NRGBA:
		return v == nil
	case *image.RGBA:
		return v == nil
	case *image.Gray:
		return v == nil
	case *image.YCbCr:
		return v == nil
	}
	return false
}
