package ocr

import "image"

// noopAdapter backs CapabilityNone. It never fails and never finds text.
type noopAdapter struct{}

// NewNoopAdapter returns the adapter used when no engine is available.
func NewNoopAdapter() Adapter { return noopAdapter{} }

func (noopAdapter) Capability() Capability { return CapabilityNone }

func (noopAdapter) Preprocess() bool { return false }

func (noopAdapter) Recognize(image.Image, Request) (string, error) { return "", nil }

func (noopAdapter) RecognizeBatch(imgs []image.Image, _ Request) ([]string, error) {
	return make([]string, len(imgs)), nil
}

func (noopAdapter) Close() error { return nil }
