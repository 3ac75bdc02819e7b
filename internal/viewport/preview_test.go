package viewport

import (
	"image"
	"testing"

	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/director"
)

var _ director.ParameterApplier = (*Preview)(nil)

func TestPreviewFrameNativeSize(t *testing.T) {
	p := New(32, 16)
	img, err := p.Frame(32, 16)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
	// Default background is opaque black.
	r, g, b, a := img.At(5, 5).RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("Expected opaque black, got %d %d %d %d", r, g, b, a)
	}
}

func TestPreviewFrameRescales(t *testing.T) {
	p := New(32, 16)
	img, err := p.Frame(64, 80)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 80 {
		t.Errorf("Expected 64x80, got %v", img.Bounds())
	}
}

func TestPreviewBackgroundGradient(t *testing.T) {
	p := New(4, 11)
	p.SetBackground([]core.Color{{R: 0, A: 255}, {R: 200, A: 255}})

	img, err := p.Frame(4, 11)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	nrgba := img.(*image.NRGBA)
	if top := nrgba.NRGBAAt(0, 0); top.R != 0 {
		t.Errorf("Expected top red 0, got %d", top.R)
	}
	if mid := nrgba.NRGBAAt(0, 5); mid.R != 100 {
		t.Errorf("Expected middle red 100, got %d", mid.R)
	}
	if bottom := nrgba.NRGBAAt(0, 10); bottom.R != 200 {
		t.Errorf("Expected bottom red 200, got %d", bottom.R)
	}
}

func TestPreviewDeterministicForSeed(t *testing.T) {
	render := func(seed uint32) *image.NRGBA {
		p := New(40, 40)
		p.SetEmissionRate(500)
		p.SetSizeRange(2, 4)
		p.SetColorRamp([]core.Color{{R: 255, A: 255}, {G: 255, A: 255}})
		p.SetSeed(seed)
		img, err := p.Frame(40, 40)
		if err != nil {
			t.Fatalf("Frame() failed: %v", err)
		}
		return img.(*image.NRGBA)
	}

	a, b, c := render(1), render(1), render(2)
	if string(a.Pix) != string(b.Pix) {
		t.Error("Same seed produced different frames")
	}
	if string(a.Pix) == string(c.Pix) {
		t.Error("Different seeds produced identical frames")
	}
}

func TestPreviewEmptyViewport(t *testing.T) {
	p := New(0, 0)
	if _, err := p.Frame(64, 64); err != ErrEmptyViewport {
		t.Errorf("Expected ErrEmptyViewport, got %v", err)
	}
}

func TestGradientAt(t *testing.T) {
	stops := []core.Color{{R: 0, A: 255}, {R: 100, A: 255}, {R: 200, A: 255}}
	tests := []struct {
		t    float64
		want uint8
	}{
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{1, 200},
		{2, 200},
	}
	for _, tt := range tests {
		if got := gradientAt(stops, tt.t); got.R != tt.want {
			t.Errorf("gradientAt(%v) = %d, want %d", tt.t, got.R, tt.want)
		}
	}
}
