package ocr

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/doraemonkeys/paddleocr"
)

// PaddleOCR-json status codes.
const (
	paddleCodeOK     = 100
	paddleCodeNoText = 101
)

// PaddleAdapter drives a PaddleOCR-json child process.
//
// The process handles one request at a time, so calls are serialized. The
// engine carries its own detection and normalization, so the Facade skips
// binarization. It has no native character whitelist; the alphabet is applied
// to the output instead.
type PaddleAdapter struct {
	mu     sync.Mutex
	engine *paddleocr.Ppocr
}

// OpenPaddle starts PaddleOCR-json at exePath with the given extra arguments.
func OpenPaddle(exePath string, args ...string) (*PaddleAdapter, error) {
	if exePath == "" {
		return nil, errors.New("paddle executable not configured")
	}
	if _, err := os.Stat(exePath); err != nil {
		return nil, fmt.Errorf("paddle executable: %w", err)
	}
	engine, err := paddleocr.NewPpocr(exePath, paddleocr.OcrArgs{}, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start paddle: %w", err)
	}
	return &PaddleAdapter{engine: engine}, nil
}

func (a *PaddleAdapter) Capability() Capability { return CapabilityPaddle }

func (a *PaddleAdapter) Preprocess() bool { return false }

// Recognize joins every detected text box with a single space, in the order
// the engine reports them.
func (a *PaddleAdapter) Recognize(img image.Image, req Request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("paddle panicked: %v", r)
		}
	}()

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return "", errors.New("paddle engine closed")
	}
	result, err := a.engine.OcrAndParse(data)
	if err != nil {
		return "", fmt.Errorf("paddle OCR failed: %w", err)
	}

	switch result.Code {
	case paddleCodeOK:
	case paddleCodeNoText:
		return "", nil
	default:
		return "", fmt.Errorf("paddle error %d: %s", result.Code, result.Msg)
	}

	texts := make([]string, 0, len(result.Data))
	for _, d := range result.Data {
		if d.Text != "" {
			texts = append(texts, d.Text)
		}
	}
	return filterAlphabet(strings.Join(texts, " "), req.Config.Alphabet), nil
}

func (a *PaddleAdapter) RecognizeBatch(imgs []image.Image, req Request) ([]string, error) {
	return recognizeEach(a, imgs, req)
}

// Close stops the child process.
func (a *PaddleAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return nil
	}
	err := a.engine.Close()
	a.engine = nil
	return err
}
