package capture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes an image in one file format.
type Encoder func(w io.Writer, img image.Image) error

var (
	encoders = make(map[string]Encoder)
	mu       sync.RWMutex
)

func init() {
	RegisterEncoder(".png", png.Encode)
	RegisterEncoder(".jpg", encodeJPEG)
	RegisterEncoder(".jpeg", encodeJPEG)
	RegisterEncoder(".bmp", bmp.Encode)
	RegisterEncoder(".tif", encodeTIFF)
	RegisterEncoder(".tiff", encodeTIFF)
}

// RegisterEncoder adds an encoder for a file extension (with leading dot).
// Panics if the extension is already registered.
func RegisterEncoder(ext string, enc Encoder) {
	mu.Lock()
	defer mu.Unlock()

	ext = strings.ToLower(ext)
	if _, exists := encoders[ext]; exists {
		panic(fmt.Sprintf("capture: encoder %q already registered", ext))
	}
	encoders[ext] = enc
}

// LookupEncoder returns the encoder for ext, case-insensitively.
func LookupEncoder(ext string) (Encoder, bool) {
	mu.RLock()
	defer mu.RUnlock()

	enc, ok := encoders[strings.ToLower(ext)]
	return enc, ok
}

// Extensions returns every registered extension, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(encoders))
	for ext := range encoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
