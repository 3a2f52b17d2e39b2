// Package imaging loads score pages for the staff tools and encodes results.
//
// Pages are decoded with github.com/disintegration/imaging (PNG, JPEG, GIF,
// plus TIFF and BMP through golang.org/x/image) and cached by path. Each
// cached Page lazily builds its binary raster the first time it is needed,
// so repeated tool calls on one scan binarize it once.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Pages are shared between
// callers: Page.Binary and Page.Gray hand out private copies, so editing
// tools never touch the cached pixels.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O errors during page loading
//   - Undecodable image data
//   - Crop regions outside the image bounds
//   - Encoding errors during PNG output
package imaging
