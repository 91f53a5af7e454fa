package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/textocr/internal/config"
	"github.com/ironsheep/textocr/internal/ocr"
	"github.com/ironsheep/textocr/internal/textparse"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "textocr",
		Short: "Recognize text in cropped UI screenshots",
		Long: `textocr reads text from small screenshot crops through whichever OCR
engine is installed (PaddleOCR-json, libtesseract or the tesseract CLI).
When no engine is available every read returns empty text.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "config file (default ./textocr.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newProbeCmd(g))
	root.AddCommand(newReadCmd(g))
	root.AddCommand(newDebugCmd(g))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "textocr %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

func newProbeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show which OCR engine would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer env.close()

			fmt.Fprintf(cmd.OutOrStdout(), "engine: %s\n", env.registry.Capability())
			return nil
		},
	}
}

// runtimeEnv is the state a subcommand needs to recognize text.
type runtimeEnv struct {
	settings *config.Settings
	logger   hclog.Logger
	registry *ocr.Registry
}

// setup loads configuration, applies command-line overrides and installs the
// process-wide registry.
func setup(cmd *cobra.Command, g *globalFlags, overrides ...func(*config.Settings)) (*runtimeEnv, error) {
	settings, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		settings.LogLevel = g.logLevel
	}
	for _, o := range overrides {
		o(settings)
	}
	logger := settings.Logger(cmd.ErrOrStderr())

	opts, err := settings.RegistryOptions(logger)
	if err != nil {
		return nil, err
	}
	registry := ocr.NewRegistry(opts...)
	ocr.SetDefaultRegistry(registry)
	textparse.Logger = logger.Named("textparse")

	logger.Debug("textocr starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)
	return &runtimeEnv{settings: settings, logger: logger, registry: registry}, nil
}

func (e *runtimeEnv) close() {
	if err := e.registry.Close(); err != nil {
		e.logger.Warn("failed to close OCR engine", "error", err)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
