package ocr

import (
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCLIOrSkip(t *testing.T) *TesseractCLIAdapter {
	t.Helper()
	a, err := OpenTesseractCLI("")
	if err != nil {
		t.Skip("Tesseract not available")
	}
	return a
}

func TestTesseractCLI_Args(t *testing.T) {
	a := &TesseractCLIAdapter{path: "tesseract"}

	assert.Equal(t,
		[]string{"-", "-", "-l", "jpn+eng", "--psm", "7", "--oem", "3", "-c", "tessedit_char_whitelist=0-9"},
		a.args(Request{Locale: "jpn+eng", Config: BuildConfig(7, 3, "0-9")}))
	assert.Equal(t,
		[]string{"-", "-", "-l", "eng", "--psm", "6", "--oem", "1"},
		a.args(Request{Config: BuildConfig(6, 1, "")}))
}

func TestTesseractCLI_MissingExecutable(t *testing.T) {
	_, err := OpenTesseractCLI(filepath.Join(t.TempDir(), "no-tesseract-here"))
	assert.Error(t, err)
}

func TestTesseractCLI_Recognize(t *testing.T) {
	a := openCLIOrSkip(t)
	t.Logf("tesseract version: %s", a.Version())

	reg := NewRegistry(
		WithLogger(hclog.NewNullLogger()),
		WithProbe(fixedProbe(a)),
		WithDebugDir(t.TempDir()),
	)
	f := reg.Get("azur_lane")

	testCases := []string{"HELLO", "12345", "ABC123"}
	for _, text := range testCases {
		t.Run(text, func(t *testing.T) {
			img := scaledTextImage(text, 3)

			// Talk to the adapter directly first so engine errors surface.
			if _, err := a.Recognize(f.prepare(img), f.request(f.Config())); err != nil {
				if strings.Contains(err.Error(), "tesseract") {
					t.Skipf("Tesseract not usable: %v", err)
				}
				t.Fatalf("Recognize failed: %v", err)
			}

			got := f.OCRSingleLine(img)
			t.Logf("Input: %q, Output: %q", text, got)
			assert.NotContains(t, got, "\n")
		})
	}
}

func TestTesseractCLI_DigitAlphabet(t *testing.T) {
	a := openCLIOrSkip(t)
	f := NewRegistry(WithLogger(hclog.NewNullLogger()), WithProbe(fixedProbe(a))).Get("azur_lane")

	got := f.AtomicOCRSingleLine(scaledTextImage("12:30", 3), "0123456789:")
	t.Logf("Restricted output: %q", got)
	for _, r := range got {
		assert.Contains(t, "0123456789: ", string(r))
	}
	assert.Equal(t, "", f.Alphabet())
}

func TestTesseractCLI_Batch(t *testing.T) {
	a := openCLIOrSkip(t)
	imgs := []image.Image{scaledTextImage("ONE", 3), scaledTextImage("TWO", 3)}
	texts, err := a.RecognizeBatch(imgs, Request{Locale: "eng", Config: BuildConfig(7, 3, "")})
	if err != nil {
		t.Skipf("Tesseract not usable: %v", err)
	}
	require.Len(t, texts, 2)
}

func TestOpenTesseract_Library(t *testing.T) {
	a, err := OpenTesseract("")
	if err != nil {
		t.Skipf("Tesseract library not available: %v", err)
	}
	assert.Equal(t, CapabilityTesseract, a.Capability())
	assert.True(t, a.Preprocess())
	assert.NoError(t, a.Close())
}

func TestOpenPaddle_Unavailable(t *testing.T) {
	_, err := OpenPaddle("")
	assert.Error(t, err)

	_, err = OpenPaddle(filepath.Join(t.TempDir(), "PaddleOCR-json"))
	assert.Error(t, err)
}

func TestPaddle_ClosedEngine(t *testing.T) {
	a := &PaddleAdapter{}
	assert.Equal(t, CapabilityPaddle, a.Capability())
	assert.False(t, a.Preprocess())
	assert.NoError(t, a.Close())

	_, err := a.Recognize(textImage("1"), Request{})
	assert.Error(t, err)
}

func TestNoopAdapter(t *testing.T) {
	a := NewNoopAdapter()
	assert.Equal(t, CapabilityNone, a.Capability())
	assert.False(t, a.Preprocess())

	texts, err := a.RecognizeBatch([]image.Image{textImage("A"), nil}, Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, texts)
	assert.NoError(t, a.Close())
}
