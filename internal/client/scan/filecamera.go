package scan

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var frameExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".webp": {},
}

// FileCamera stands in for a camera: it serves a single image file, or
// every image of a directory in name order, looping forever.
type FileCamera struct {
	path string
}

func NewFileCamera(path string) *FileCamera {
	return &FileCamera{path: path}
}

func (c *FileCamera) Available() bool {
	if c.path == "" {
		return false
	}
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *FileCamera) Open(ctx context.Context, cons Constraints) (Stream, error) {
	paths, err := c.framePaths()
	if err != nil {
		return nil, err
	}

	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := loadFrame(p)
		if err != nil {
			return nil, fmt.Errorf("load frame %s: %w", p, err)
		}
		frames = append(frames, fit(img, cons.IdealWidth, cons.IdealHeight))
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return &fileStream{frames: frames}, nil
}

func (c *FileCamera) framePaths() ([]string, error) {
	fi, err := os.Stat(c.path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{c.path}, nil
	}

	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := frameExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			paths = append(paths, filepath.Join(c.path, e.Name()))
		}
	}
	return paths, nil
}

func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// fit scales img down to fit within w x h, keeping its aspect ratio.
// Smaller images are returned unchanged.
func fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}

	scale := min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	nw := max(1, int(float64(b.Dx())*scale))
	nh := max(1, int(float64(b.Dy())*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

type fileStream struct {
	mu     sync.Mutex
	frames []image.Image
	next   int
}

func (s *fileStream) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, false
	}
	img := s.frames[s.next%len(s.frames)]
	s.next++
	return img, true
}

func (s *fileStream) Stop() {
	s.mu.Lock()
	s.frames = nil
	s.mu.Unlock()
}
