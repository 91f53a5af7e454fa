package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strings"
)

// TesseractCLIAdapter runs the tesseract executable once per image, feeding
// PNG data on stdin and reading text from stdout.
type TesseractCLIAdapter struct {
	path    string
	version string
}

// OpenTesseractCLI locates tesseract and checks that `tesseract --version`
// succeeds. An empty path searches PATH.
func OpenTesseractCLI(path string) (*TesseractCLIAdapter, error) {
	if path == "" {
		path = "tesseract"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("tesseract executable not found: %w", err)
	}

	// Older releases print the version banner on stderr.
	out, err := exec.Command(resolved, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("tesseract --version failed: %w", err)
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return &TesseractCLIAdapter{path: resolved, version: version}, nil
}

// Version is the first line of the executable's version banner.
func (a *TesseractCLIAdapter) Version() string { return a.version }

func (a *TesseractCLIAdapter) Capability() Capability { return CapabilityTesseractCLI }

func (a *TesseractCLIAdapter) Preprocess() bool { return true }

func (a *TesseractCLIAdapter) Recognize(img image.Image, req Request) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	cmd := exec.Command(a.path, a.args(req)...)
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return string(out), nil
}

func (a *TesseractCLIAdapter) RecognizeBatch(imgs []image.Image, req Request) ([]string, error) {
	return recognizeEach(a, imgs, req)
}

func (a *TesseractCLIAdapter) Close() error { return nil }

func (a *TesseractCLIAdapter) args(req Request) []string {
	locale := req.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	return append([]string{"-", "-", "-l", locale}, req.Config.Args()...)
}
