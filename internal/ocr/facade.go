package ocr

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/textocr/internal/preprocess"
)

// Facade is the recognition entry point for one language profile.
//
// All methods are safe for concurrent use and never panic. Failures are
// logged and reported as empty text.
type Facade struct {
	name     string
	locale   string
	adapter  Adapter
	pipeline *preprocess.Pipeline
	logger   hclog.Logger
	debugDir string

	// overrideMu serializes atomic calls and SetCandAlphabet.
	overrideMu sync.Mutex

	// stateMu guards alphabet and config.
	stateMu  sync.RWMutex
	alphabet string
	config   EngineConfig
}

func newFacade(profile LanguageProfile, base EngineConfig, adapter Adapter, pipeline *preprocess.Pipeline, logger hclog.Logger, debugDir string) *Facade {
	return &Facade{
		name:     profile.Name,
		locale:   profile.Locale,
		adapter:  adapter,
		pipeline: pipeline,
		logger:   logger.With("profile", profile.Name),
		debugDir: debugDir,
		alphabet: profile.Alphabet,
		config:   base.WithAlphabet(profile.Alphabet),
	}
}

// Name returns the profile name.
func (f *Facade) Name() string { return f.name }

// Locale returns the engine language codes for the profile.
func (f *Facade) Locale() string { return f.locale }

// Capability returns the engine serving this profile.
func (f *Facade) Capability() Capability { return f.adapter.Capability() }

// Alphabet returns the persistent character restriction.
func (f *Facade) Alphabet() string {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.alphabet
}

// Config returns the persistent engine configuration.
func (f *Facade) Config() EngineConfig {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.config
}

// Profile returns a snapshot of the language profile.
func (f *Facade) Profile() LanguageProfile {
	return LanguageProfile{Name: f.name, Locale: f.locale, Alphabet: f.Alphabet()}
}

// OCR recognizes img with the profile's persistent configuration.
func (f *Facade) OCR(img image.Image) string {
	return f.recognize(img, f.Config())
}

// OCRSingleLine recognizes img as a single line of text.
func (f *Facade) OCRSingleLine(img image.Image) string {
	return f.recognize(img, f.Config().WithPageSegMode(SingleLinePageSegMode))
}

// OCRSingleLines recognizes each image as a single line. The result has the
// same length and order as imgs.
func (f *Facade) OCRSingleLines(imgs []image.Image) []string {
	return f.recognizeBatch(imgs, f.Config().WithPageSegMode(SingleLinePageSegMode))
}

// SetCandAlphabet replaces the persistent alphabet. An empty alphabet removes
// the restriction.
func (f *Facade) SetCandAlphabet(alphabet string) {
	f.overrideMu.Lock()
	defer f.overrideMu.Unlock()

	f.stateMu.Lock()
	f.alphabet = alphabet
	f.config = f.config.WithAlphabet(alphabet)
	f.stateMu.Unlock()
}

// AtomicOCR recognizes img restricted to alphabet for this call only. The
// persistent alphabet is left untouched. An empty alphabet behaves like OCR.
func (f *Facade) AtomicOCR(img image.Image, alphabet string) string {
	if alphabet == "" {
		return f.OCR(img)
	}
	f.overrideMu.Lock()
	defer f.overrideMu.Unlock()
	return f.recognize(img, f.Config().WithAlphabet(alphabet))
}

// AtomicOCRSingleLine is AtomicOCR in single-line mode.
func (f *Facade) AtomicOCRSingleLine(img image.Image, alphabet string) string {
	if alphabet == "" {
		return f.OCRSingleLine(img)
	}
	f.overrideMu.Lock()
	defer f.overrideMu.Unlock()
	return f.recognize(img, f.Config().WithAlphabet(alphabet).WithPageSegMode(SingleLinePageSegMode))
}

// AtomicOCRSingleLines recognizes each image as a single line restricted to
// alphabet and splits every result into characters.
func (f *Facade) AtomicOCRSingleLines(imgs []image.Image, alphabet string) [][]rune {
	if alphabet == "" {
		return CharLists(f.OCRSingleLines(imgs))
	}
	f.overrideMu.Lock()
	defer f.overrideMu.Unlock()
	cfg := f.Config().WithAlphabet(alphabet).WithPageSegMode(SingleLinePageSegMode)
	return CharLists(f.recognizeBatch(imgs, cfg))
}

func (f *Facade) request(cfg EngineConfig) Request {
	return Request{Locale: f.locale, Config: cfg}
}

// prepare returns the raster handed to the adapter.
func (f *Facade) prepare(img image.Image) image.Image {
	if f.adapter.Preprocess() && f.pipeline != nil {
		return f.pipeline.Process(img)
	}
	return img
}

func (f *Facade) recognize(img image.Image, cfg EngineConfig) (text string) {
	defer func() {
		if r := recover(); r != nil {
			f.warn("recognition panicked", fmt.Errorf("%v", r))
			text = ""
		}
	}()

	if !validImage(img) {
		f.logger.Warn("invalid image, skipping recognition", "engine", f.adapter.Capability())
		return ""
	}

	raw, err := f.adapter.Recognize(f.prepare(img), f.request(cfg))
	if err != nil {
		f.warn("recognition failed", err)
		return ""
	}
	text = cleanText(raw)
	f.logger.Debug("recognized", "engine", f.adapter.Capability(), "config", cfg.String(), "text", text)
	return text
}

func (f *Facade) recognizeBatch(imgs []image.Image, cfg EngineConfig) []string {
	out := make([]string, len(imgs))
	if len(imgs) == 0 {
		return out
	}

	var (
		valid    []int
		prepared []image.Image
	)
	for i, img := range imgs {
		if !validImage(img) {
			f.logger.Warn("invalid image, skipping recognition", "engine", f.adapter.Capability(), "index", i)
			continue
		}
		p, ok := f.safePrepare(img)
		if !ok {
			continue
		}
		valid = append(valid, i)
		prepared = append(prepared, p)
	}
	if len(valid) == 0 {
		return out
	}

	texts, err := f.batch(prepared, cfg)
	if err != nil {
		f.warn("batch recognition failed, retrying per image", err)
		for _, i := range valid {
			out[i] = f.recognize(imgs[i], cfg)
		}
		return out
	}
	for k, i := range valid {
		out[i] = cleanText(texts[k])
	}
	return out
}

func (f *Facade) safePrepare(img image.Image) (p image.Image, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f.warn("preprocessing panicked", fmt.Errorf("%v", r))
			p, ok = nil, false
		}
	}()
	return f.prepare(img), true
}

func (f *Facade) batch(imgs []image.Image, cfg EngineConfig) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("batch panicked: %v", r)
		}
	}()
	texts, err = f.adapter.RecognizeBatch(imgs, f.request(cfg))
	if err == nil && len(texts) != len(imgs) {
		err = fmt.Errorf("engine returned %d results for %d images", len(texts), len(imgs))
	}
	return texts, err
}

func (f *Facade) warn(msg string, err error) {
	f.logger.Warn(msg, "engine", f.adapter.Capability(), "error", err)
}

var textCleaner = strings.NewReplacer("\f", "", "\r", " ", "\n", " ")

// cleanText removes form feeds, turns line breaks into spaces and trims.
func cleanText(raw string) string {
	return strings.TrimSpace(textCleaner.Replace(raw))
}

// validImage rejects nil, typed-nil and zero-area images.
func validImage(img image.Image) (ok bool) {
	if img == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return !img.Bounds().Empty()
}
