package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// Request describes one recognition call as seen by an adapter.
type Request struct {
	// Locale is a '+'-joined list of engine language codes.
	Locale string

	// Config holds the segmentation mode, engine mode and alphabet.
	Config EngineConfig
}

// Adapter is a concrete recognition engine.
//
// Implementations must be safe for concurrent use and must not panic. Errors
// are returned to the Facade, which logs them and degrades to "".
type Adapter interface {
	// Capability reports which engine this adapter drives.
	Capability() Capability

	// Preprocess reports whether the Facade should binarize images first.
	Preprocess() bool

	// Recognize returns the raw text found in img.
	Recognize(img image.Image, req Request) (string, error)

	// RecognizeBatch returns one raw text per image, in order.
	RecognizeBatch(imgs []image.Image, req Request) ([]string, error)

	// Close releases engine resources.
	Close() error
}

// encodePNG serializes img for engines that take encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// filterAlphabet keeps only runes present in alphabet. Whitespace survives so
// word boundaries are kept. An empty alphabet keeps everything.
func filterAlphabet(text, alphabet string) string {
	if alphabet == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, text)
}

// recognizeEach is the batch fallback for engines without a native batch path.
func recognizeEach(a Adapter, imgs []image.Image, req Request) ([]string, error) {
	out := make([]string, len(imgs))
	for i, img := range imgs {
		text, err := a.Recognize(img, req)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out[i] = text
	}
	return out, nil
}
