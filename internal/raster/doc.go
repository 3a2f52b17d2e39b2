// Package raster provides the two-level page raster consumed by the staff
// detection core.
//
// A Binary holds one byte per pixel, 1 for ink and 0 for paper, stored
// row-major with the origin at the top-left corner:
//   - X increases rightward (columns)
//   - Y increases downward (rows)
//
// # Conversion
//
// FromImage thresholds any decoded image on luminance (dark pixels become
// ink). ToGray and FromGray convert to and from the black-on-white grayscale
// form used by Realign and by PNG encoding.
//
// # Thread Safety
//
// A Binary is a plain value with no internal locking. Concurrent readers are
// safe; a caller mutating a raster must hold exclusive access to it.
package raster
