package ocr

import (
	"image"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/textocr/internal/preprocess"
)

type registryOptions struct {
	logger      hclog.Logger
	probe       *Probe
	engine      EngineOptions
	pipeline    *preprocess.Pipeline
	pageSegMode int
	engineMode  int
	debugDir    string
}

// Option configures a Registry.
type Option func(*registryOptions)

// WithLogger sets the logger shared by the probe and every Facade.
func WithLogger(logger hclog.Logger) Option {
	return func(o *registryOptions) { o.logger = logger }
}

// WithProbe replaces the engine probe. It takes precedence over WithEngineOptions.
func WithProbe(p *Probe) Option {
	return func(o *registryOptions) { o.probe = p }
}

// WithEngineOptions configures the default probe's candidates.
func WithEngineOptions(opts EngineOptions) Option {
	return func(o *registryOptions) { o.engine = opts }
}

// WithPipeline replaces the preprocessing pipeline.
func WithPipeline(p *preprocess.Pipeline) Option {
	return func(o *registryOptions) { o.pipeline = p }
}

// WithPageSegMode sets the persistent page segmentation mode of new Facades.
func WithPageSegMode(psm int) Option {
	return func(o *registryOptions) { o.pageSegMode = psm }
}

// WithEngineMode sets the engine mode of new Facades.
func WithEngineMode(oem int) Option {
	return func(o *registryOptions) { o.engineMode = oem }
}

// WithDebugDir sets where Facade.Debug writes its images.
func WithDebugDir(dir string) Option {
	return func(o *registryOptions) { o.debugDir = dir }
}

type registryEntry struct {
	once   sync.Once
	facade *Facade
}

// Registry hands out one Facade per profile name. The same name always yields
// the same Facade, and concurrent first requests construct it once.
type Registry struct {
	opts registryOptions

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry returns an empty registry. The probe runs on the first Get.
func NewRegistry(opts ...Option) *Registry {
	o := registryOptions{
		pageSegMode: DefaultPageSegMode,
		engineMode:  DefaultEngineMode,
		debugDir:    DefaultDebugDir,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.L().Named("ocr")
	}
	if o.probe == nil {
		o.probe = NewProbe(o.logger, DefaultCandidates(o.engine)...)
	}
	if o.pipeline == nil {
		o.pipeline = preprocess.New()
	}
	return &Registry{opts: o, entries: make(map[string]*registryEntry)}
}

// Get returns the Facade for name, building it on first use. Unknown names
// get the default locale.
func (r *Registry) Get(name string) *Facade {
	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		e = &registryEntry{}
		r.entries[name] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		adapter := r.opts.probe.Adapter()
		base := BuildConfig(r.opts.pageSegMode, r.opts.engineMode, "")
		e.facade = newFacade(NewProfile(name), base, adapter, r.opts.pipeline, r.opts.logger, r.opts.debugDir)
	})
	return e.facade
}

// Capability resolves the probe and returns the selected engine.
func (r *Registry) Capability() Capability {
	return r.opts.probe.Resolve()
}

// Close releases the selected engine.
func (r *Registry) Close() error {
	return r.opts.probe.Adapter().Close()
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// SetDefaultRegistry installs r as the process-wide registry.
func SetDefaultRegistry(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}

// Get returns the Facade for name from the process-wide registry.
func Get(name string) *Facade {
	return Default().Get(name)
}

// OCR is a convenience for Get(profile).OCR(img).
func OCR(profile string, img image.Image) string {
	return Get(profile).OCR(img)
}
