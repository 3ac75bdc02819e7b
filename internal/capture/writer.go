package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/koyoi/falls/internal/config"
)

// ErrNoFrame is returned when the frame source has nothing to sample.
var ErrNoFrame = errors.New("capture: frame buffer unavailable")

// FrameSource hands out the current frame buffer resized to the requested
// resolution. It is implemented by the rendering side.
type FrameSource interface {
	Frame(width, height int) (image.Image, error)
}

// Writer performs captures into a single output root.
type Writer struct {
	root    string
	workers int
}

// NewWriter creates a writer confined to root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, workers: 4}
}

// Root returns the output root.
func (w *Writer) Root() string {
	return w.root
}

// Capture samples one frame from src and encodes it. An image request
// writes a single file. A sequence request writes req.Frames index-suffixed
// copies of that same frame; it does not sample across time.
func (w *Writer) Capture(src FrameSource, req config.CaptureRequest) ([]string, error) {
	if src == nil {
		return nil, ErrNoFrame
	}
	img, err := src.Frame(req.Width, req.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	if img == nil {
		return nil, ErrNoFrame
	}

	path, err := OutputPath(w.root, req.Output)
	if err != nil {
		return nil, err
	}
	enc, ok := LookupEncoder(filepath.Ext(path))
	if !ok {
		path += ".png"
		enc = png.Encode
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("capture: cannot create directory: %w", err)
	}

	if req.Kind != config.CaptureSequence {
		if err := writeImage(path, img, enc); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	frames := req.Frames
	if frames < config.MinCaptureFrames {
		frames = config.MinCaptureFrames
	}
	paths := make([]string, frames)
	for i := range paths {
		paths[i] = FramePath(path, i)
	}

	var g errgroup.Group
	g.SetLimit(w.workers)
	for _, p := range paths {
		g.Go(func() error {
			return writeImage(p, img, enc)
		})
	}
	if err := g.Wait(); err != nil {
		return paths, err
	}
	return paths, nil
}

func writeImage(path string, img image.Image, enc Encoder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: cannot create %s: %w", path, err)
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("capture: cannot encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("capture: cannot write %s: %w", path, err)
	}
	return nil
}
