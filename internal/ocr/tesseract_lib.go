//go:build tesseract

package ocr

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractAdapter runs libtesseract in-process through gosseract.
//
// A fresh client is created per call, or per batch, so the adapter holds no
// mutable state and is safe for concurrent use.
type TesseractAdapter struct {
	tessdataPrefix string
}

// OpenTesseract checks that libtesseract is usable. tessdataPrefix may be
// empty to use the library default.
func OpenTesseract(tessdataPrefix string) (a *TesseractAdapter, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("tesseract library unavailable: %v", r)
		}
	}()

	client := gosseract.NewClient()
	defer client.Close()
	if client.Version() == "" {
		return nil, errors.New("tesseract library reported no version")
	}
	return &TesseractAdapter{tessdataPrefix: tessdataPrefix}, nil
}

func (a *TesseractAdapter) Capability() Capability { return CapabilityTesseract }

func (a *TesseractAdapter) Preprocess() bool { return true }

func (a *TesseractAdapter) Recognize(img image.Image, req Request) (string, error) {
	texts, err := a.RecognizeBatch([]image.Image{img}, req)
	if err != nil {
		return "", err
	}
	return texts[0], nil
}

// RecognizeBatch shares one configured client across imgs.
func (a *TesseractAdapter) RecognizeBatch(imgs []image.Image, req Request) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("tesseract panicked: %v", r)
		}
	}()

	client, err := a.newClient(req)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	texts = make([]string, len(imgs))
	for i, img := range imgs {
		data, err := encodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		if err := client.SetImageFromBytes(data); err != nil {
			return nil, fmt.Errorf("image %d: failed to set image: %w", i, err)
		}
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("image %d: OCR failed: %w", i, err)
		}
		texts[i] = text
	}
	return texts, nil
}

// newClient applies req to a new client. The binding exposes no engine mode
// setter, so Config.EngineMode is left to the library default.
func (a *TesseractAdapter) newClient(req Request) (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if a.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(a.tessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(req.Locale, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(req.Config.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if req.Config.Alphabet != "" {
		if err := client.SetWhitelist(req.Config.Alphabet); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	return client, nil
}

func (a *TesseractAdapter) Close() error { return nil }
