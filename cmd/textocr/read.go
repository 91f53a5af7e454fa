package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/ironsheep/textocr/internal/config"
	"github.com/ironsheep/textocr/internal/detection"
	"github.com/ironsheep/textocr/internal/imaging"
	"github.com/ironsheep/textocr/internal/ocr"
	"github.com/ironsheep/textocr/internal/preprocess"
	"github.com/ironsheep/textocr/internal/textparse"
)

// cropFlags select what part of each input image is recognized.
type cropFlags struct {
	region     string
	scale      float64
	splitLines bool
}

func (c *cropFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.region, "region", "r", "", `crop region "x1,y1,x2,y2" or a name such as top-half`)
	cmd.Flags().Float64Var(&c.scale, "scale", 1.0, "rescale the crop before recognition")
	cmd.Flags().BoolVar(&c.splitLines, "split-lines", false, "detect text lines and recognize each separately")
}

// crops loads every path and cuts it into the images to recognize. The
// returned labels name each crop for output. Line splitting binarizes the
// way settings configure the recognizer.
func (c *cropFlags) crops(paths []string, settings *config.Settings) ([]string, []image.Image, error) {
	var region *imaging.Region
	if c.region != "" {
		r, err := imaging.ParseRegion(c.region)
		if err != nil {
			return nil, nil, err
		}
		region = &r
	}

	lineOpts := detection.DefaultLineOptions
	if c.splitLines {
		pre, err := settings.PipelineOptions()
		if err != nil {
			return nil, nil, err
		}
		lineOpts.Preprocess = pre
	}

	loader := imaging.NewLoader()
	imgs, err := loader.LoadAll(paths)
	if err != nil {
		return nil, nil, err
	}

	var (
		labels []string
		crops  []image.Image
	)
	for i, img := range imgs {
		if region != nil || c.scale != 1.0 {
			b := img.Bounds()
			r := imaging.Region{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y}
			if region != nil {
				r = *region
			}
			img, err = imaging.Crop(img, r, c.scale)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", paths[i], err)
			}
		}

		if !c.splitLines {
			labels = append(labels, paths[i])
			crops = append(crops, img)
			continue
		}
		for j, rect := range detection.DetectTextLines(img, lineOpts) {
			line, err := imaging.Crop(img, imaging.Region{X1: rect.Min.X, Y1: rect.Min.Y, X2: rect.Max.X, Y2: rect.Max.Y}, 1.0)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", paths[i], j, err)
			}
			labels = append(labels, fmt.Sprintf("%s#%d", paths[i], j))
			crops = append(crops, line)
		}
	}
	return labels, crops, nil
}

type readFlags struct {
	crop        cropFlags
	profile     string
	alphabet    string
	singleLine  bool
	parse       string
	letterColor string
	tolerance   float64
}

func newReadCmd(g *globalFlags) *cobra.Command {
	f := &readFlags{}
	cmd := &cobra.Command{
		Use:   "read [images...]",
		Short: "Recognize text in image files",
		Long: `Recognize text in each image and print one "<image>\t<result>" line per crop.

--parse interprets the text: "duration" (01:30:00), "digit" (120) or
"counter" (12/30). Each mode applies its own character restriction.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, g, f, args)
		},
	}
	f.crop.register(cmd)
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "azur_lane", "language profile")
	cmd.Flags().StringVarP(&f.alphabet, "alphabet", "a", "", "restrict recognition to these characters")
	cmd.Flags().BoolVar(&f.singleLine, "single-line", false, "treat each crop as a single text line")
	cmd.Flags().StringVar(&f.parse, "parse", "text", "result type: text, duration, digit, counter")
	cmd.Flags().StringVar(&f.letterColor, "letter-color", "", "isolate glyphs of this hex color, e.g. #ffffff")
	cmd.Flags().Float64Var(&f.tolerance, "letter-tolerance", preprocess.DefaultLetterTolerance, "color distance still treated as glyph")
	return cmd
}

func runRead(cmd *cobra.Command, g *globalFlags, f *readFlags, args []string) error {
	switch f.parse {
	case "text", "duration", "digit", "counter":
	default:
		return fmt.Errorf("unknown --parse mode %q", f.parse)
	}

	env, err := setup(cmd, g, func(s *config.Settings) {
		if f.letterColor != "" {
			s.Preprocess.LetterColor = f.letterColor
			s.Preprocess.LetterTolerance = f.tolerance
		}
	})
	if err != nil {
		return err
	}
	defer env.close()

	labels, crops, err := f.crop.crops(args, env.settings)
	if err != nil {
		return err
	}
	facade := env.registry.Get(f.profile)

	results := make([]string, len(crops))
	switch f.parse {
	case "duration":
		for i, img := range crops {
			if d, ok := textparse.ReadDuration(facade, img); ok {
				results[i] = d.String()
			}
		}
	case "digit":
		for i, img := range crops {
			if n, ok := textparse.ReadDigit(facade, img); ok {
				results[i] = fmt.Sprint(n)
			}
		}
	case "counter":
		for i, img := range crops {
			if cur, total, ok := textparse.ReadCounter(facade, img); ok {
				results[i] = fmt.Sprintf("%d/%d", cur, total)
			}
		}
	default:
		results = recognize(facade, crops, f.alphabet, f.singleLine || f.crop.splitLines)
	}

	out := cmd.OutOrStdout()
	for i, label := range labels {
		fmt.Fprintf(out, "%s\t%s\n", label, results[i])
	}
	return nil
}

// recognize runs plain text recognition on crops.
func recognize(f *ocr.Facade, crops []image.Image, alphabet string, singleLine bool) []string {
	if singleLine {
		if alphabet == "" {
			return f.OCRSingleLines(crops)
		}
		lists := f.AtomicOCRSingleLines(crops, alphabet)
		texts := make([]string, len(lists))
		for i, chars := range lists {
			texts[i] = string(chars)
		}
		return texts
	}

	texts := make([]string, len(crops))
	for i, img := range crops {
		texts[i] = f.AtomicOCR(img, alphabet)
	}
	return texts
}

type debugFlags struct {
	crop    cropFlags
	profile string
	dir     string
}

func newDebugCmd(g *globalFlags) *cobra.Command {
	f := &debugFlags{}
	cmd := &cobra.Command{
		Use:   "debug [images...]",
		Short: "Save the images handed to the engine and log what it reads",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g, func(s *config.Settings) {
				if f.dir != "" {
					s.DebugDir = f.dir
				}
			})
			if err != nil {
				return err
			}
			defer env.close()

			labels, crops, err := f.crop.crops(args, env.settings)
			if err != nil {
				return err
			}
			paths := env.registry.Get(f.profile).Debug(crops)
			out := cmd.OutOrStdout()
			for i, label := range labels {
				path := paths[i]
				if path == "" {
					path = "(not written)"
				}
				fmt.Fprintf(out, "%s\t%s\n", label, path)
			}
			return nil
		},
	}
	f.crop.register(cmd)
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "azur_lane", "language profile")
	cmd.Flags().StringVar(&f.dir, "dir", "", "output directory (default from config)")
	return cmd
}
