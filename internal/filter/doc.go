// Package filter softens smoke overlays.
//
// Filters operate in place on the premultiplied RGBA data of a
// [gg.Pixmap], treating the four channels independently, which is correct
// for premultiplied colour:
//   - Gaussian: separable convolution with an exact, odd number of taps
//   - Box: fast uniform approximation backed by bild
//
// Filters are safe for concurrent use on distinct pixmaps.
package filter
