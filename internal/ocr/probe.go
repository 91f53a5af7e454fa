package ocr

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Candidate is one engine the Probe may select.
type Candidate struct {
	Capability Capability

	// Open checks availability and returns a ready adapter. It is called at
	// most once per Probe.
	Open func() (Adapter, error)
}

// EngineOptions locates the optional engines.
type EngineOptions struct {
	// PaddlePath is the PaddleOCR-json executable. Empty disables paddle.
	PaddlePath string

	// PaddleArgs are extra command-line arguments for PaddleOCR-json.
	PaddleArgs []string

	// TesseractPath is the tesseract executable. Empty means look it up in PATH.
	TesseractPath string

	// TessdataPrefix overrides the tessdata directory for the library binding.
	TessdataPrefix string

	// Priority restricts and orders the candidates. Empty means the default
	// order: paddle, tesseract, tesseract-cli.
	Priority []Capability
}

// DefaultCandidates builds the standard candidate table for opts.
func DefaultCandidates(opts EngineOptions) []Candidate {
	all := map[Capability]Candidate{
		CapabilityPaddle: {
			Capability: CapabilityPaddle,
			Open:       func() (Adapter, error) { return OpenPaddle(opts.PaddlePath, opts.PaddleArgs...) },
		},
		CapabilityTesseract: {
			Capability: CapabilityTesseract,
			Open:       func() (Adapter, error) { return OpenTesseract(opts.TessdataPrefix) },
		},
		CapabilityTesseractCLI: {
			Capability: CapabilityTesseractCLI,
			Open:       func() (Adapter, error) { return OpenTesseractCLI(opts.TesseractPath) },
		},
	}

	order := opts.Priority
	if len(order) == 0 {
		order = []Capability{CapabilityPaddle, CapabilityTesseract, CapabilityTesseractCLI}
	}

	candidates := make([]Candidate, 0, len(order))
	seen := make(map[Capability]bool, len(order))
	for _, c := range order {
		cand, ok := all[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, cand)
	}
	return candidates
}

// Probe selects the best available engine exactly once.
type Probe struct {
	logger     hclog.Logger
	candidates []Candidate

	once    sync.Once
	adapter Adapter
}

// NewProbe returns a probe over candidates, tried in order. A nil logger
// uses the global hclog logger.
func NewProbe(logger hclog.Logger, candidates ...Candidate) *Probe {
	if logger == nil {
		logger = hclog.L().Named("ocr")
	}
	return &Probe{logger: logger, candidates: candidates}
}

// Resolve runs the probe on first use and returns the selected capability.
func (p *Probe) Resolve() Capability {
	return p.Adapter().Capability()
}

// Adapter runs the probe on first use and returns the selected adapter.
// It never returns nil.
func (p *Probe) Adapter() Adapter {
	p.once.Do(p.resolve)
	return p.adapter
}

func (p *Probe) resolve() {
	for _, cand := range p.candidates {
		if cand.Open == nil {
			continue
		}
		adapter, err := tryOpen(cand)
		if err != nil {
			p.logger.Debug("engine unavailable", "engine", cand.Capability, "error", err)
			continue
		}
		p.logger.Info("using OCR engine", "engine", cand.Capability)
		p.adapter = adapter
		return
	}
	p.logger.Warn("no OCR engine available, recognition will return empty text")
	p.adapter = NewNoopAdapter()
}

func tryOpen(cand Candidate) (adapter Adapter, err error) {
	defer func() {
		if r := recover(); r != nil {
			adapter, err = nil, fmt.Errorf("open panicked: %v", r)
		}
	}()
	adapter, err = cand.Open()
	if err == nil && adapter == nil {
		err = fmt.Errorf("open returned no adapter")
	}
	return adapter, err
}
