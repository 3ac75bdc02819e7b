package config

import (
	_ "embed"

	"github.com/koyoi/falls/internal/core"
)

//go:embed defaults/director.yaml
var defaultSettingsYAML []byte

// Default capture values used when a request omits them.
const (
	DefaultCaptureWidth  = 1920
	DefaultCaptureHeight = 1080
	DefaultCaptureOutput = "capture.png"
)

// DefaultPreset returns the baseline preset: zero motion, a single white
// palette entry, black background and no obstacle mask.
func DefaultPreset() Preset {
	return Preset{
		Palette:    []core.Color{core.White},
		SizeMin:    1,
		SizeMax:    1,
		Background: []core.Color{core.Black, core.Black},
	}
}

// DefaultCaptureRequest returns the values a capture request starts from.
func DefaultCaptureRequest() CaptureRequest {
	return CaptureRequest{
		Kind:   CaptureImage,
		Width:  DefaultCaptureWidth,
		Height: DefaultCaptureHeight,
		Output: DefaultCaptureOutput,
		Frames: 1,
	}
}

// DefaultSettings returns the built-in director settings.
func DefaultSettings() Settings {
	return Settings{
		WatchDir:  "runtime",
		ResRoot:   ".",
		OutputDir: "output",
		TickRate:  60,
		Viewport: ViewportSettings{
			Width:  1280,
			Height: 720,
		},
		JournalPath: "~/.falls/captures.db",
		LogLevel:    "info",
	}
}

// DefaultSettingsYAML returns the embedded default settings file.
func DefaultSettingsYAML() []byte {
	return defaultSettingsYAML
}
