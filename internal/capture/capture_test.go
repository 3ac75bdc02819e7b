package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koyoi/falls/internal/config"
)

// solidSource returns a uniform frame of the requested size.
type solidSource struct {
	calls int
	err   error
}

func (s *solidSource) Frame(w, h int) (image.Image, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img, nil
}

func TestSchedulerSettleDelay(t *testing.T) {
	var s Scheduler
	req := config.DefaultCaptureRequest()

	s.Arm(req, 10)
	if !s.Pending() || s.Remaining(10) != 2 {
		t.Fatalf("after Arm: pending=%v remaining=%d", s.Pending(), s.Remaining(10))
	}
	if _, ok := s.Due(10); ok {
		t.Fatal("capture must not fire in the tick it was armed")
	}
	if _, ok := s.Due(11); ok {
		t.Fatal("capture must not fire one tick after arming")
	}
	if _, ok := s.Due(12); !ok {
		t.Fatal("capture should fire two ticks after arming")
	}
	if s.Pending() {
		t.Error("scheduler should be idle after firing")
	}
	if _, ok := s.Due(13); ok {
		t.Error("capture should fire only once")
	}
}

func TestSchedulerRearmRestartsCountdown(t *testing.T) {
	var s Scheduler
	s.Arm(config.CaptureRequest{Output: "first.png"}, 1)
	s.Arm(config.CaptureRequest{Output: "second.png"}, 2)

	if _, ok := s.Due(3); ok {
		t.Fatal("re-arming should restart the countdown")
	}
	req, ok := s.Due(4)
	if !ok || req.Output != "second.png" {
		t.Fatalf("Due() = %+v, %v; expected the latest request", req, ok)
	}
}

func TestSchedulerCancel(t *testing.T) {
	var s Scheduler
	s.Arm(config.DefaultCaptureRequest(), 0)
	s.Cancel()
	if s.Pending() || s.Remaining(0) != 0 {
		t.Error("Cancel should return to idle")
	}
	if _, ok := s.Due(100); ok {
		t.Error("cancelled capture must never fire")
	}
}

func TestOutputPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name string
		want string
	}{
		{name: "shot.png", want: filepath.Join(root, "shot.png")},
		{name: "", want: filepath.Join(root, config.DefaultCaptureOutput)},
		{name: "   ", want: filepath.Join(root, config.DefaultCaptureOutput)},
		{name: "noext", want: filepath.Join(root, "noext.png")},
		{name: "../../x.png", want: filepath.Join(root, "_", "_", "x.png")},
		{name: "/etc/passwd", want: filepath.Join(root, "etc", "passwd.png")},
		{name: "a/../../b.jpg", want: filepath.Join(root, "a", "_", "_", "b.jpg")},
		{name: `..\..\win.png`, want: filepath.Join(root, "_", "_", "win.png")},
	}

	for _, tc := range tests {
		got, err := OutputPath(root, tc.name)
		if err != nil {
			t.Errorf("OutputPath(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("OutputPath(%q) = %q, expected %q", tc.name, got, tc.want)
		}
		if strings.Contains(got, "..") {
			t.Errorf("OutputPath(%q) kept a traversal sequence: %q", tc.name, got)
		}
	}
}

func TestFramePath(t *testing.T) {
	if got := FramePath(filepath.Join("out", "burst.png"), 3); got != filepath.Join("out", "burst_0003.png") {
		t.Errorf("FramePath() = %q", got)
	}
}

func TestWriterImage(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	src := &solidSource{}

	req := config.CaptureRequest{Kind: config.CaptureImage, Width: 64, Height: 80, Output: "still.png"}
	paths, err := w.Capture(src, req)
	if err != nil {
		t.Fatalf("Capture() failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(root, "still.png") {
		t.Fatalf("Capture() paths = %v", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 80 {
		t.Errorf("image size = %dx%d, expected 64x80", b.Dx(), b.Dy())
	}
}

func TestWriterSequenceWritesIdenticalFrames(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	src := &solidSource{}

	req := config.CaptureRequest{Kind: config.CaptureSequence, Width: 64, Height: 64, Output: "burst.png", Frames: 5}
	paths, err := w.Capture(src, req)
	if err != nil {
		t.Fatalf("Capture() failed: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(paths))
	}
	if src.calls != 1 {
		t.Errorf("frame source sampled %d times, expected once", src.calls)
	}

	first, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	for i, p := range paths {
		if p != filepath.Join(root, fmt.Sprintf("burst_%04d.png", i)) {
			t.Errorf("paths[%d] = %q", i, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", p, err)
		}
		if !bytes.Equal(data, first) {
			t.Errorf("frame %d differs from frame 0", i)
		}
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 5 {
		t.Errorf("output root has %d files, expected 5", len(entries))
	}
}

func TestWriterEncoderByExtension(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	for _, name := range []string{"a.jpg", "b.bmp", "c.tiff", "d.webp"} {
		paths, err := w.Capture(&solidSource{}, config.CaptureRequest{Width: 64, Height: 64, Output: name})
		if err != nil {
			t.Fatalf("Capture(%s) failed: %v", name, err)
		}
		if _, err := os.Stat(paths[0]); err != nil {
			t.Errorf("Capture(%s) did not write %s", name, paths[0])
		}
	}
	if _, err := os.Stat(filepath.Join(root, "d.webp.png")); err != nil {
		t.Errorf("unknown extension should fall back to png: %v", err)
	}
}

func TestWriterFrameFailure(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.Capture(&solidSource{err: errors.New("viewport gone")}, config.DefaultCaptureRequest())
	if !errors.Is(err, ErrNoFrame) {
		t.Errorf("expected ErrNoFrame, got %v", err)
	}
	if _, err := w.Capture(nil, config.DefaultCaptureRequest()); !errors.Is(err, ErrNoFrame) {
		t.Errorf("expected ErrNoFrame for nil source, got %v", err)
	}
}

func TestEncoderRegistry(t *testing.T) {
	if _, ok := LookupEncoder(".PNG"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	exts := Extensions()
	if len(exts) < 6 || exts[0] != ".bmp" {
		t.Errorf("Extensions() = %v", exts)
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	RegisterEncoder(".png", func(io.Writer, image.Image) error { return nil })
}
