package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Region is a crop rectangle. (X1,Y1) is inclusive, (X2,Y2) exclusive.
// When Name is set the coordinates are resolved from the image size.
type Region struct {
	X1, Y1, X2, Y2 int
	Name           string
}

func (r Region) String() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%d,%d,%d,%d", r.X1, r.Y1, r.X2, r.Y2)
}

// namedRegions places each region name on a 4x4 grid over the image.
var namedRegions = map[string]image.Rectangle{
	"top-left":     image.Rect(0, 0, 2, 2),
	"top-right":    image.Rect(2, 0, 4, 2),
	"bottom-left":  image.Rect(0, 2, 2, 4),
	"bottom-right": image.Rect(2, 2, 4, 4),
	"top-half":     image.Rect(0, 0, 4, 2),
	"bottom-half":  image.Rect(0, 2, 4, 4),
	"left-half":    image.Rect(0, 0, 2, 4),
	"right-half":   image.Rect(2, 0, 4, 4),
	"center":       image.Rect(1, 1, 3, 3),
}

// quarter maps grid line q (0..4) onto a side of length n. Lines past the
// middle are measured from the far edge so opposite margins match.
func quarter(n, q int) int {
	if q <= 2 {
		return n * q / 4
	}
	return n - n*(4-q)/4
}

// ParseRegion accepts "x1,y1,x2,y2" or a region name such as "top-half".
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if _, ok := namedRegions[s]; ok {
		return Region{Name: s}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("invalid region %q: want x1,y1,x2,y2 or a region name", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		v[i] = n
	}
	return Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// Resolve returns the pixel rectangle of r inside bounds.
func (r Region) Resolve(bounds image.Rectangle) (image.Rectangle, error) {
	if r.Name == "" {
		// Not image.Rect: swapped corners must stay invalid.
		return image.Rectangle{Min: image.Pt(r.X1, r.Y1), Max: image.Pt(r.X2, r.Y2)}, nil
	}

	grid, ok := namedRegions[r.Name]
	if !ok {
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", r.Name)
	}
	w, h := bounds.Dx(), bounds.Dy()
	rect := image.Rect(quarter(w, grid.Min.X), quarter(h, grid.Min.Y), quarter(w, grid.Max.X), quarter(h, grid.Max.Y))
	return rect.Add(bounds.Min), nil
}

// Crop extracts r from img and optionally rescales it with Lanczos. A
// non-positive scale keeps the original size.
func Crop(img image.Image, r Region, scale float64) (image.Image, error) {
	bounds := img.Bounds()
	rect, err := r.Resolve(bounds)
	if err != nil {
		return nil, err
	}

	if rect.Min.X < bounds.Min.X || rect.Min.Y < bounds.Min.Y || rect.Max.X > bounds.Max.X || rect.Max.Y > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if rect.Min.X >= rect.Max.X || rect.Min.Y >= rect.Max.Y {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, rect)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.2f leaves an empty image", scale)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}
	return cropped, nil
}
