// Package imaging loads screenshots from disk and cuts out the regions the
// CLI hands to the recognizer.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Regions can be given as "x1,y1,x2,y2" or by name ("top-half", "center",
// "bottom-right", ...). Named regions are resolved against the image size.
//
// # Thread Safety
//
// Loader is safe for concurrent use. Cropping is stateless and
// never mutates the source image.
package imaging
