package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultMinHeight is the shortest crop height handed to an engine.
	DefaultMinHeight = 32

	// DefaultBorder is the width of the white frame added around the output.
	DefaultBorder = 5

	// DefaultLetterTolerance is the CIE76 distance at which a pixel stops
	// being treated as part of a glyph during letter-color isolation.
	DefaultLetterTolerance = 40.0
)

// Options controls the pipeline stages.
type Options struct {
	// MinHeight is the minimum output height before padding. Zero disables upscaling.
	MinHeight int

	// Border is the padding width in pixels on every side.
	Border int

	// Filter is the resampling filter used when upscaling.
	Filter imaging.ResampleFilter

	// LetterColor, when non-nil, switches stage 1 to letter-color isolation.
	LetterColor color.Color

	// LetterTolerance is the color distance mapped to white during isolation.
	LetterTolerance float64
}

// Option mutates pipeline options.
type Option func(*Options)

// WithMinHeight overrides the upscale threshold.
func WithMinHeight(h int) Option {
	return func(o *Options) { o.MinHeight = h }
}

// WithBorder overrides the padding width.
func WithBorder(px int) Option {
	return func(o *Options) { o.Border = px }
}

// WithFilter overrides the upscale interpolation.
func WithFilter(f imaging.ResampleFilter) Option {
	return func(o *Options) { o.Filter = f }
}

// WithLetterColor enables letter-color isolation. A non-positive tolerance
// falls back to DefaultLetterTolerance.
func WithLetterColor(c color.Color, tolerance float64) Option {
	return func(o *Options) {
		o.LetterColor = c
		o.LetterTolerance = tolerance
		if tolerance <= 0 {
			o.LetterTolerance = DefaultLetterTolerance
		}
	}
}

// Pipeline turns raw crops into binarized, dark-on-light, padded rasters.
// A Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	opts Options
}

// New builds a pipeline with the default stages, adjusted by opts.
func New(opts ...Option) *Pipeline {
	o := Options{
		MinHeight: DefaultMinHeight,
		Border:    DefaultBorder,
		Filter:    imaging.CatmullRom,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MinHeight < 0 {
		o.MinHeight = 0
	}
	if o.Border < 0 {
		o.Border = 0
	}
	return &Pipeline{opts: o}
}

// Options returns a copy of the pipeline configuration.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Trace records the intermediate rasters of one pipeline run.
type Trace struct {
	// Gray is the single-channel input after stage 1.
	Gray *image.Gray

	// Scaled is Gray after stage 2 (the same image when no upscale happened).
	Scaled *image.Gray

	// Threshold is the Otsu level chosen in stage 3.
	Threshold uint8

	// Binary is the thresholded image before polarity correction.
	Binary *image.Gray

	// Inverted reports whether stage 4 flipped the polarity.
	Inverted bool

	// Output is the final padded raster.
	Output *image.Gray
}

// Process runs every stage and returns the final raster. Degenerate input is
// returned unchanged.
func (p *Pipeline) Process(img image.Image) image.Image {
	tr := p.Run(img)
	if tr == nil {
		return img
	}
	return tr.Output
}

// Run executes the pipeline and keeps the intermediate results. It returns
// nil for degenerate input.
func (p *Pipeline) Run(img image.Image) *Trace {
	if isEmpty(img) {
		return nil
	}

	tr := &Trace{}
	if p.opts.LetterColor != nil {
		tr.Gray = isolateLetters(img, p.opts.LetterColor, p.opts.LetterTolerance)
	} else {
		tr.Gray = toGray(img)
	}

	tr.Scaled = p.upscale(tr.Gray)
	tr.Threshold = OtsuThreshold(tr.Scaled)
	tr.Binary = Binarize(tr.Scaled, tr.Threshold)

	polarized := tr.Binary
	if whiteRatio(tr.Binary) < 0.5 {
		polarized = invert(tr.Binary)
		tr.Inverted = true
	}

	tr.Output = p.pad(polarized)
	return tr
}

// isEmpty reports whether img cannot be processed. Typed-nil images panic on
// Bounds, which is treated as empty.
func isEmpty(img image.Image) (empty bool) {
	if img == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			empty = true
		}
	}()
	return img.Bounds().Empty()
}

// toGray converts img to an origin-based *image.Gray.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// isolateLetters maps every pixel to its CIE76 distance from letter, scaled so
// that exact matches are black and anything at or beyond tolerance is white.
func isolateLetters(img image.Image, letter color.Color, tolerance float64) *image.Gray {
	target, _ := colorful.MakeColor(letter)
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c, ok := colorful.MakeColor(img.At(x+b.Min.X, y+b.Min.Y))
			if !ok {
				// fully transparent
				gray.Pix[y*gray.Stride+x] = 255
				continue
			}
			d := c.DistanceCIE76(target) * 100 / tolerance
			if d > 1 {
				d = 1
			}
			gray.Pix[y*gray.Stride+x] = uint8(math.Round(d * 255))
		}
	}
	return gray
}

// upscale resizes gray to MinHeight when it is shorter, keeping aspect ratio.
func (p *Pipeline) upscale(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	if p.opts.MinHeight == 0 || b.Dy() >= p.opts.MinHeight {
		return gray
	}
	scale := float64(p.opts.MinHeight) / float64(b.Dy())
	width := int(math.Round(float64(b.Dx()) * scale))
	if width < 1 {
		width = 1
	}
	resized := imaging.Resize(gray, width, p.opts.MinHeight, p.opts.Filter)
	return toGray(resized)
}

// OtsuThreshold returns the level that maximizes between-class variance of
// the gray histogram. Ties keep the lowest level.
func OtsuThreshold(gray *image.Gray) uint8 {
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	total := 0
	sum := 0.0
	for level, n := range bins {
		total += n
		sum += float64(level) * float64(n)
	}
	if total == 0 {
		return 0
	}

	var (
		best       uint8
		bestVar    = -1.0
		weightBack int
		sumBack    float64
	)
	for level := 0; level < len(bins) && level < 256; level++ {
		weightBack += bins[level]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(level) * float64(bins[level])
		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)
		between := float64(weightBack) * float64(weightFore) * (meanBack - meanFore) * (meanBack - meanFore)
		if between > bestVar {
			bestVar = between
			best = uint8(level)
		}
	}
	return best
}

// Binarize maps pixels above threshold to 255 and the rest to 0.
func Binarize(gray *image.Gray, threshold uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if gray.GrayAt(x+b.Min.X, y+b.Min.Y).Y > threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// whiteRatio is the share of 255-valued pixels in a binary image.
func whiteRatio(bin *image.Gray) float64 {
	if len(bin.Pix) == 0 {
		return 1
	}
	white := 0
	for _, v := range bin.Pix {
		if v == 255 {
			white++
		}
	}
	return float64(white) / float64(len(bin.Pix))
}

func invert(bin *image.Gray) *image.Gray {
	out := image.NewGray(bin.Bounds())
	for i, v := range bin.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// pad surrounds img with a white frame of the configured width.
func (p *Pipeline) pad(img *image.Gray) *image.Gray {
	if p.opts.Border == 0 {
		return img
	}
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*p.opts.Border, b.Dy()+2*p.opts.Border, color.White)
	canvas = imaging.Paste(canvas, img, image.Pt(p.opts.Border, p.opts.Border))
	return toGray(canvas)
}
