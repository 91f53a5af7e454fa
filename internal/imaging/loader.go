package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Loader decodes screenshots from disk and remembers them by absolute path,
// so "shot.png" and "./shot.png" share one entry. JPEG files are rotated
// according to their EXIF orientation.
//
// Loader is safe for concurrent use.
type Loader struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewLoader returns a loader with nothing cached.
func NewLoader() *Loader {
	return &Loader{images: make(map[string]image.Image)}
}

func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Load returns the decoded image at path. PNG, JPEG, GIF, BMP and TIFF are
// supported. Failed decodes are not remembered.
func (l *Loader) Load(path string) (image.Image, error) {
	key := cacheKey(path)

	l.mu.RLock()
	img, ok := l.images[key]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	l.mu.Lock()
	if cached, ok := l.images[key]; ok {
		img = cached
	} else {
		l.images[key] = img
	}
	l.mu.Unlock()
	return img, nil
}

// LoadAll loads paths in order and stops at the first failure.
func (l *Loader) LoadAll(paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, len(paths))
	for i, p := range paths {
		img, err := l.Load(p)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		imgs[i] = img
	}
	return imgs, nil
}

// Len reports how many images are held.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// Forget drops path so the next Load reads it from disk again.
func (l *Loader) Forget(path string) {
	l.mu.Lock()
	delete(l.images, cacheKey(path))
	l.mu.Unlock()
}
