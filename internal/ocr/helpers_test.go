package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	point := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  point,
	}
	d.DrawString(text)
}

// textImage renders dark text on a white strip, the shape of a cropped UI label.
func textImage(text string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(text)*7+8, 18))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(img, 4, 14, text, color.Black)
	return img
}

// scaledTextImage renders text and enlarges it by an integer factor.
func scaledTextImage(text string, scale int) *image.RGBA {
	small := textImage(text)
	b := small.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// testLogger returns a logger writing into buf.
func testLogger(buf *bytes.Buffer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "ocr-test",
		Level:  hclog.Debug,
		Output: &syncWriter{w: buf},
	})
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// fakeAdapter is a scriptable engine. By default it echoes the requested
// alphabet, which makes config leaks between callers visible.
type fakeAdapter struct {
	capability Capability
	preprocess bool
	recognize  func(img image.Image, req Request) (string, error)
	batchErr   error

	mu       sync.Mutex
	requests []Request
	batches  int
	seen     []image.Image
	closed   bool
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		capability: CapabilityTesseract,
		recognize: func(_ image.Image, req Request) (string, error) {
			return req.Config.Alphabet, nil
		},
	}
}

func (a *fakeAdapter) Capability() Capability { return a.capability }

func (a *fakeAdapter) Preprocess() bool { return a.preprocess }

func (a *fakeAdapter) Recognize(img image.Image, req Request) (string, error) {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	a.seen = append(a.seen, img)
	a.mu.Unlock()
	return a.recognize(img, req)
}

func (a *fakeAdapter) RecognizeBatch(imgs []image.Image, req Request) ([]string, error) {
	a.mu.Lock()
	a.batches++
	a.mu.Unlock()
	if a.batchErr != nil {
		return nil, a.batchErr
	}
	return recognizeEach(a, imgs, req)
}

func (a *fakeAdapter) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}

func (a *fakeAdapter) lastRequest() Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

func (a *fakeAdapter) requestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// fixedProbe resolves straight to adapter.
func fixedProbe(adapter Adapter) *Probe {
	return NewProbe(hclog.NewNullLogger(), Candidate{
		Capability: adapter.Capability(),
		Open:       func() (Adapter, error) { return adapter, nil },
	})
}

// newTestRegistry builds a registry around adapter with a silent logger.
func newTestRegistry(t *testing.T, adapter Adapter, opts ...Option) *Registry {
	t.Helper()
	base := []Option{
		WithLogger(hclog.NewNullLogger()),
		WithProbe(fixedProbe(adapter)),
		WithDebugDir(t.TempDir()),
	}
	return NewRegistry(append(base, opts...)...)
}
