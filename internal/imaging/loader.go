package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder, common for scans

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
)

// Page is a decoded score page together with its lazily built binary form.
//
// The decoded image and the cached raster are never modified. Callers that
// edit a page must work on the copies returned by Binary and Gray.
type Page struct {
	// Path is the file the page was loaded from.
	Path string

	// Image is the decoded page with EXIF orientation applied.
	Image image.Image

	once      sync.Once
	threshold uint8
	binary    *raster.Binary
}

// Binary returns a private copy of the page's binary raster. The raster is
// computed on first use with the cache's threshold.
func (p *Page) Binary() *raster.Binary {
	p.once.Do(func() {
		p.binary = raster.FromImage(p.Image, p.threshold)
	})
	return p.binary.Clone()
}

// Gray returns a private grayscale copy of the page.
func (p *Page) Gray() *image.Gray {
	src := imaging.Grayscale(p.Image)
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Pix[y*g.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return g
}

// ImageCache provides thread-safe caching of loaded pages to avoid redundant
// disk reads and repeated binarization.
//
// Pages are keyed by the exact path string used to load them. Different
// paths to the same file (e.g., relative vs absolute) result in separate
// entries.
//
// # Memory Management
//
// Cached pages remain in memory until explicitly removed via Evict() or
// Clear(). A page holds the decoded image plus, once requested, a one byte
// per pixel raster.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	page, err := cache.Load("/scans/page-01.tif")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bin := page.Binary()
type ImageCache struct {
	mu        sync.RWMutex
	pages     map[string]*Page
	threshold uint8
}

// NewImageCache creates an empty cache that binarizes pages at
// raster.DefaultThreshold.
func NewImageCache() *ImageCache {
	return NewImageCacheWithThreshold(raster.DefaultThreshold)
}

// NewImageCacheWithThreshold creates an empty cache that binarizes pages at
// the given luminance level.
func NewImageCacheWithThreshold(level uint8) *ImageCache {
	return &ImageCache{
		pages:     make(map[string]*Page),
		threshold: level,
	}
}

// Load retrieves a page from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, TIFF and BMP.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (*Page, error) {
	c.mu.RLock()
	if p, ok := c.pages[path]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	p := &Page{Path: path, Image: img, threshold: c.threshold}

	c.mu.Lock()
	if existing, ok := c.pages[path]; ok {
		p = existing
	} else {
		c.pages[path] = p
	}
	c.mu.Unlock()

	return p, nil
}

// Clear removes all pages from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.pages = make(map[string]*Page)
	c.mu.Unlock()
}

// Evict removes a specific page from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.pages, path)
	c.mu.Unlock()
}

// Len returns the number of cached pages.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// ImageInfo contains metadata about a loaded page.
type ImageInfo struct {
	// Width is the page width in pixels.
	Width int `json:"width"`

	// Height is the page height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file extension: "png", "jpeg",
	// "gif", "tiff", "bmp", or "unknown".
	Format string `json:"format"`

	// InkRatio is the fraction of pixels that binarize to ink. Values far
	// above 0.3 usually mean the threshold or the scan is off.
	InkRatio float64 `json:"ink_ratio"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads a page and returns its metadata, binarizing it to
// measure the ink ratio.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	p, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bin := p.Binary()
	ratio := 0.0
	if n := len(bin.Pix); n > 0 {
		ratio = float64(bin.InkCount()) / float64(n)
	}

	bounds := p.Image.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		InkRatio:      ratio,
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}

// DimensionsResult contains the width and height of a page.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of a page without binarizing it.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	p, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := p.Image.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
