// Package config loads the hot-reloadable runtime documents (preset,
// forcefield, sequence, capture) and the director's own settings.
//
// Every document loader returns a usable record: on a missing or malformed
// file the record is the documented default and the error says why.
// Out-of-range values are never errors; they are clamped to the nearest bound.
package config

import "github.com/koyoi/falls/internal/core"

// Preset is the emitter, motion, appearance, fx and obstacle record.
// It is replaced wholesale on every reload.
type Preset struct {
	Name          string  `yaml:"name"`
	EmissionRate  int     `yaml:"emission_rate"`
	Seed          uint32  `yaml:"seed"`
	BurstInterval float64 `yaml:"burst_interval"`
	BurstCount    int     `yaml:"burst_count"`

	Gravity  core.Vec2 `yaml:"gravity"`
	Drag     float64   `yaml:"drag"`
	SwayAmp  float64   `yaml:"sway_amp"`
	SwayFreq float64   `yaml:"sway_freq"`
	Spin     float64   `yaml:"spin"`

	Palette []core.Color `yaml:"palette"`
	SizeMin float64      `yaml:"size_min"`
	SizeMax float64      `yaml:"size_max"`

	Background []core.Color `yaml:"background"`
	Bloom      float64      `yaml:"bloom"`

	ObstacleMask       string  `yaml:"obstacle_mask"`
	ObstacleStickiness float64 `yaml:"obstacle_stickiness"`
}

// ForceEvent is one time-stamped entry of a force timeline.
type ForceEvent struct {
	T      float64 `yaml:"t"`              // Start time in seconds
	Type   string  `yaml:"type,omitempty"` // Free-form tag, e.g. "wind"
	DirDeg float64 `yaml:"dir_deg"`        // 0 = +X, clockwise on screen
	Speed  float64 `yaml:"speed"`
	Dur    float64 `yaml:"dur,omitempty"` // 0 means the event never expires
}

// ForceField is a timeline of force events in non-decreasing T order.
// The order is the author's responsibility and is never re-sorted.
type ForceField struct {
	Timeline []ForceEvent `yaml:"timeline"`
}

// Track is one scripted configuration swap.
type Track struct {
	T      float64 `yaml:"t"`
	Preset string  `yaml:"preset,omitempty"`
	Force  string  `yaml:"force,omitempty"`
}

// Sequence is an ordered list of tracks.
type Sequence struct {
	Tracks []Track `yaml:"tracks"`
	Loop   bool    `yaml:"loop"` // True when the document omits it
}

// Duration returns the timestamp of the last track, or 0 when empty.
func (s Sequence) Duration() float64 {
	if len(s.Tracks) == 0 {
		return 0
	}
	return s.Tracks[len(s.Tracks)-1].T
}

// CaptureKind selects between a single still and an image sequence.
type CaptureKind string

const (
	CaptureImage    CaptureKind = "image"
	CaptureSequence CaptureKind = "sequence"
)

// CaptureRequest is a one-shot export instruction.
type CaptureRequest struct {
	Kind   CaptureKind `yaml:"kind"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Output string      `yaml:"output"`
	Frames int         `yaml:"frames"` // Only meaningful for sequences
}

// CaptureDoc is the parsed capture.json. Request is nil when the document
// holds no capture instruction.
type CaptureDoc struct {
	Request *CaptureRequest `yaml:"capture,omitempty"`
	Seed    *uint32         `yaml:"seed,omitempty"`
}
