//go:build !tesseract

package ocr

import (
	"errors"
	"image"
)

// errNoTesseractLib is returned when the binary was built without the
// tesseract tag.
var errNoTesseractLib = errors.New("built without libtesseract support (use -tags tesseract)")

// TesseractAdapter is unavailable in this build.
type TesseractAdapter struct{}

// OpenTesseract always fails in builds without the tesseract tag.
func OpenTesseract(string) (*TesseractAdapter, error) {
	return nil, errNoTesseractLib
}

func (a *TesseractAdapter) Capability() Capability { return CapabilityTesseract }

func (a *TesseractAdapter) Preprocess() bool { return true }

func (a *TesseractAdapter) Recognize(image.Image, Request) (string, error) {
	return "", errNoTesseractLib
}

func (a *TesseractAdapter) RecognizeBatch([]image.Image, Request) ([]string, error) {
	return nil, errNoTesseractLib
}

func (a *TesseractAdapter) Close() error { return nil }
