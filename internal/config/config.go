// Package config loads textocr settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/ironsheep/textocr/internal/ocr"
	"github.com/ironsheep/textocr/internal/preprocess"
)

// EnvPrefix prefixes every environment override, e.g. TEXTOCR_ENGINE_PADDLE_PATH.
const EnvPrefix = "TEXTOCR"

// Settings is the full configuration of the CLI and the recognizer.
type Settings struct {
	LogLevel   string           `mapstructure:"log_level"`
	DebugDir   string           `mapstructure:"debug_dir"`
	Engine     EngineSettings   `mapstructure:"engine"`
	Preprocess PipelineSettings `mapstructure:"preprocess"`
}

// EngineSettings locates and tunes the recognition engines.
type EngineSettings struct {
	// Priority lists capability names in the order they are tried.
	Priority       []string `mapstructure:"priority"`
	PaddlePath     string   `mapstructure:"paddle_path"`
	PaddleArgs     []string `mapstructure:"paddle_args"`
	TesseractPath  string   `mapstructure:"tesseract_path"`
	TessdataPrefix string   `mapstructure:"tessdata_prefix"`
	PageSegMode    int      `mapstructure:"page_seg_mode"`
	EngineMode     int      `mapstructure:"engine_mode"`
}

// PipelineSettings tunes image preprocessing.
type PipelineSettings struct {
	MinHeight int `mapstructure:"min_height"`
	Border    int `mapstructure:"border"`

	// LetterColor is a hex color such as "#ffffff". When set, glyphs are
	// isolated by color distance instead of luminance.
	LetterColor     string  `mapstructure:"letter_color"`
	LetterTolerance float64 `mapstructure:"letter_tolerance"`
}

var defaults = map[string]interface{}{
	"log_level":                   "info",
	"debug_dir":                   ocr.DefaultDebugDir,
	"engine.priority":             []string{},
	"engine.paddle_path":          "",
	"engine.paddle_args":          []string{},
	"engine.tesseract_path":       "",
	"engine.tessdata_prefix":      "",
	"engine.page_seg_mode":        ocr.DefaultPageSegMode,
	"engine.engine_mode":          ocr.DefaultEngineMode,
	"preprocess.min_height":       preprocess.DefaultMinHeight,
	"preprocess.border":           preprocess.DefaultBorder,
	"preprocess.letter_color":     "",
	"preprocess.letter_tolerance": preprocess.DefaultLetterTolerance,
}

// Load reads settings. With an empty path it looks for textocr.yaml in the
// working directory and carries on with defaults when none exists. An
// explicit path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("textocr")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &s, nil
}

// Logger builds the root logger at the configured level, writing to w.
func (s *Settings) Logger(w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := hclog.LevelFromString(s.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "textocr",
		Level:  level,
		Output: w,
	})
}

// EngineOptions converts the engine section for the probe.
func (s *Settings) EngineOptions() (ocr.EngineOptions, error) {
	priority := make([]ocr.Capability, 0, len(s.Engine.Priority))
	for _, name := range s.Engine.Priority {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := ocr.ParseCapability(name)
		if err != nil {
			return ocr.EngineOptions{}, fmt.Errorf("engine.priority: %w", err)
		}
		priority = append(priority, c)
	}
	return ocr.EngineOptions{
		PaddlePath:     s.Engine.PaddlePath,
		PaddleArgs:     s.Engine.PaddleArgs,
		TesseractPath:  s.Engine.TesseractPath,
		TessdataPrefix: s.Engine.TessdataPrefix,
		Priority:       priority,
	}, nil
}

// Pipeline builds the preprocessing pipeline described by the settings.
func (s *Settings) Pipeline() (*preprocess.Pipeline, error) {
	opts, err := s.PipelineOptions()
	if err != nil {
		return nil, err
	}
	return preprocess.New(opts...), nil
}

// PipelineOptions returns the preprocessing options described by the settings.
func (s *Settings) PipelineOptions() ([]preprocess.Option, error) {
	opts := []preprocess.Option{
		preprocess.WithMinHeight(s.Preprocess.MinHeight),
		preprocess.WithBorder(s.Preprocess.Border),
	}
	if s.Preprocess.LetterColor != "" {
		c, err := colorful.Hex(s.Preprocess.LetterColor)
		if err != nil {
			return nil, fmt.Errorf("preprocess.letter_color: %w", err)
		}
		opts = append(opts, preprocess.WithLetterColor(c, s.Preprocess.LetterTolerance))
	}
	return opts, nil
}

// RegistryOptions wires the settings into ocr.NewRegistry.
func (s *Settings) RegistryOptions(logger hclog.Logger) ([]ocr.Option, error) {
	engine, err := s.EngineOptions()
	if err != nil {
		return nil, err
	}
	pipeline, err := s.Pipeline()
	if err != nil {
		return nil, err
	}
	return []ocr.Option{
		ocr.WithLogger(logger),
		ocr.WithEngineOptions(engine),
		ocr.WithPipeline(pipeline),
		ocr.WithPageSegMode(s.Engine.PageSegMode),
		ocr.WithEngineMode(s.Engine.EngineMode),
		ocr.WithDebugDir(s.DebugDir),
	}, nil
}
