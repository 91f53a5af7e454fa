package detection

import (
	"image"

	"github.com/ironsheep/textocr/internal/preprocess"
)

// LineOptions tunes text line detection.
type LineOptions struct {
	// MinHeight is the shortest band, in pixels, kept as a line.
	MinHeight int

	// MaxGap is the number of blank rows allowed inside one line.
	MaxGap int

	// Margin is added around each detected line.
	Margin int

	// Preprocess configures binarization, e.g. letter-color isolation.
	// Upscaling and border are always disabled so coordinates match img.
	Preprocess []preprocess.Option
}

// DefaultLineOptions suits UI text rendered at 10 px and above.
var DefaultLineOptions = LineOptions{MinHeight: 4, MaxGap: 1, Margin: 2}

var keepGeometry = []preprocess.Option{preprocess.WithMinHeight(0), preprocess.WithBorder(0)}

// flat binarizes by luminance without changing geometry.
var flat = preprocess.New(keepGeometry...)

func (o LineOptions) pipeline() *preprocess.Pipeline {
	if len(o.Preprocess) == 0 {
		return flat
	}
	opts := make([]preprocess.Option, 0, len(o.Preprocess)+len(keepGeometry))
	opts = append(opts, o.Preprocess...)
	return preprocess.New(append(opts, keepGeometry...)...)
}

// DetectTextLines returns the bounding box of each text line in img, top to
// bottom. Nil or empty images yield no lines.
func DetectTextLines(img image.Image, opts LineOptions) []image.Rectangle {
	tr := opts.pipeline().Run(img)
	if tr == nil {
		return nil
	}
	bin := tr.Output
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// ink[y] counts dark pixels on row y
	ink := make([]int, height)
	for y := 0; y < height; y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+width]
		for _, v := range row {
			if v == 0 {
				ink[y]++
			}
		}
	}

	var lines []image.Rectangle
	for _, band := range rowBands(ink, opts.MaxGap) {
		if band[1]-band[0] < opts.MinHeight {
			continue
		}
		x1, x2 := inkExtent(bin, band[0], band[1])
		if x1 >= x2 {
			continue
		}
		r := image.Rect(x1-opts.Margin, band[0]-opts.Margin, x2+opts.Margin, band[1]+opts.Margin)
		r = r.Intersect(image.Rect(0, 0, width, height))
		lines = append(lines, r.Add(img.Bounds().Min))
	}
	return lines
}

// rowBands groups inked rows into [start, end) bands, bridging up to maxGap
// blank rows.
func rowBands(ink []int, maxGap int) [][2]int {
	var bands [][2]int
	start, lastInk := -1, -1
	for y, n := range ink {
		if n == 0 {
			continue
		}
		if start >= 0 && y-lastInk-1 > maxGap {
			bands = append(bands, [2]int{start, lastInk + 1})
			start = -1
		}
		if start < 0 {
			start = y
		}
		lastInk = y
	}
	if start >= 0 {
		bands = append(bands, [2]int{start, lastInk + 1})
	}
	return bands
}

// inkExtent returns the [x1, x2) column range holding ink between rows y1 and y2.
func inkExtent(bin *image.Gray, y1, y2 int) (int, int) {
	width := bin.Bounds().Dx()
	x1, x2 := width, 0
	for y := y1; y < y2; y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+width]
		for x, v := range row {
			if v != 0 {
				continue
			}
			x1 = min(x1, x)
			x2 = max(x2, x+1)
		}
	}
	return x1, x2
}
