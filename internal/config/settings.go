package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/koyoi/falls/internal/core"
)

// Settings configures the director process itself, as opposed to the
// hot-reloaded runtime documents it watches.
type Settings struct {
	WatchDir    string           `yaml:"watch_dir" env:"FALLS_WATCH_DIR"`
	ResRoot     string           `yaml:"res_root" env:"FALLS_RES_ROOT"`
	OutputDir   string           `yaml:"output_dir" env:"FALLS_OUTPUT_DIR"`
	TickRate    int              `yaml:"tick_rate" env:"FALLS_TICK_RATE"`
	Viewport    ViewportSettings `yaml:"viewport" envPrefix:"FALLS_VIEWPORT_"`
	JournalPath string           `yaml:"journal" env:"FALLS_JOURNAL"`
	LogLevel    string           `yaml:"log_level" env:"FALLS_LOG_LEVEL"`
}

// ViewportSettings is the size of the preview frame buffer.
type ViewportSettings struct {
	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`
}

// LoadSettings loads director settings.
// Search order: customPath -> ~/.falls/director.yaml -> ./director.yaml -> embedded default.
// Environment variables are applied on top of whichever file won.
func LoadSettings(customPath string) (Settings, error) {
	cfg := DefaultSettings()

	switch {
	case customPath != "":
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read settings %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse settings %s: %w", customPath, err)
		}
	case tryLoad(userConfigPath("director.yaml"), &cfg):
	case tryLoad("director.yaml", &cfg):
	default:
		if err := yaml.Unmarshal(defaultSettingsYAML, &cfg); err != nil {
			cfg = DefaultSettings()
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

// tryLoad unmarshals path into cfg, leaving cfg untouched on any failure.
func tryLoad(path string, cfg *Settings) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	candidate := *cfg
	if err := yaml.Unmarshal(data, &candidate); err != nil {
		return false
	}
	*cfg = candidate
	return true
}

// normalize fills blanks with defaults and clamps numeric fields.
func (s *Settings) normalize() {
	def := DefaultSettings()
	if s.WatchDir == "" {
		s.WatchDir = def.WatchDir
	}
	if s.ResRoot == "" {
		s.ResRoot = def.ResRoot
	}
	if s.OutputDir == "" {
		s.OutputDir = def.OutputDir
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	s.TickRate = core.Clamp(s.TickRate, 1, 240)
	s.Viewport.Width = core.Clamp(s.Viewport.Width, MinCaptureDim, MaxCaptureDim)
	s.Viewport.Height = core.Clamp(s.Viewport.Height, MinCaptureDim, MaxCaptureDim)
	s.JournalPath = ExpandHome(s.JournalPath)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], string(filepath.Separator)))
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".falls", filename)
}
