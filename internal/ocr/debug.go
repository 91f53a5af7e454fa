package ocr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultDebugDir receives debug rasters when no directory is configured.
const DefaultDebugDir = "./log/ocr_debug"

// Debug saves the preprocessing pipeline's output for each image as
// <debugDir>/debug_<i>.png and logs the text recognized from it. The raster
// is written even for engines that take the raw crop. Failures are
// logged and never reach the caller. The returned paths hold the files that
// were written; skipped images leave an empty entry.
func (f *Facade) Debug(imgs []image.Image) []string {
	paths := make([]string, len(imgs))
	if len(imgs) == 0 {
		return paths
	}
	if err := os.MkdirAll(f.debugDir, 0755); err != nil {
		f.warn("failed to create debug directory", err)
		return paths
	}

	cfg := f.Config()
	for i, img := range imgs {
		if !validImage(img) {
			f.logger.Warn("invalid image, skipping debug", "index", i)
			continue
		}
		path := filepath.Join(f.debugDir, fmt.Sprintf("debug_%d.png", i))
		if err := f.saveDebug(img, path); err != nil {
			f.warn("failed to write debug image", err)
		} else {
			paths[i] = path
		}
		text := f.recognize(img, cfg)
		f.logger.Info("debug OCR", "index", i, "path", path, "text", text)
	}
	return paths
}

func (f *Facade) saveDebug(img image.Image, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("debug save panicked: %v", r)
		}
	}()
	raster := img
	if f.pipeline != nil {
		raster = f.pipeline.Process(img)
	}
	if err := imaging.Save(raster, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
