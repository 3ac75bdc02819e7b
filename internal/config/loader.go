package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/koyoi/falls/internal/core"
)

// Loader error taxonomy. Both are recoverable: the caller gets the default
// record alongside the error.
var (
	ErrMissingFile       = errors.New("config: missing file")
	ErrMalformedDocument = errors.New("config: malformed document")
)

// readDocument reads path and returns its root JSON object.
func readDocument(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gjson.Result{}, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return gjson.Result{}, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}
	root, err := parseDocument(data)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s", err, path)
	}
	return root, nil
}

// parseDocument validates data and requires a top-level object.
func parseDocument(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: top level is not an object", ErrMalformedDocument)
	}
	return root, nil
}

// LoadPreset reads and clamps a preset document.
func LoadPreset(path string) (Preset, error) {
	root, err := readDocument(path)
	if err != nil {
		return DefaultPreset(), err
	}
	return presetFrom(root), nil
}

// ParsePreset parses preset bytes.
func ParsePreset(data []byte) (Preset, error) {
	root, err := parseDocument(data)
	if err != nil {
		return DefaultPreset(), err
	}
	return presetFrom(root), nil
}

func presetFrom(root gjson.Result) Preset {
	p := DefaultPreset()

	p.Name = str(root, "name", "")
	p.EmissionRate = int(core.ClampF(math.Round(num(root, "emitter.rate_per_sec", 0)), 0, MaxEmissionRate))
	if v := root.Get("emitter.random_seed"); v.Type == gjson.Number {
		p.Seed = uint32(v.Int() & 0xFFFFFFFF)
	}
	p.BurstInterval = math.Max(0, num(root, "emitter.burst.interval_sec", 0))
	p.BurstCount = int(core.ClampF(math.Round(num(root, "emitter.burst.count", 0)), 0, MaxEmissionRate))

	p.Gravity = gravity(root.Get("motion.gravity"))
	p.Drag = core.ClampF(num(root, "motion.drag", 0), 0, MaxDrag)
	p.SwayAmp = core.ClampF(num(root, "motion.sway.amp", 0), 0, MaxSwayAmp)
	p.SwayFreq = core.ClampF(num(root, "motion.sway.freq", 0), 0, MaxSwayFreq)
	p.Spin = core.ClampF(num(root, "motion.spin.deg_per_sec", 0), -MaxSpin, MaxSpin)

	if palette := core.ParsePalette(strs(root, "appearance.palette")); len(palette) > 0 {
		p.Palette = palette
	}
	p.SizeMin = core.ClampF(num(root, "appearance.size_px.min", p.SizeMin), 0, MaxSize)
	p.SizeMax = core.ClampF(num(root, "appearance.size_px.max", p.SizeMax), p.SizeMin, MaxSize)

	if gradient := core.ParsePalette(strs(root, "fx.background.gradient")); len(gradient) > 0 {
		p.Background = gradient
	}
	p.Bloom = core.ClampF(num(root, "fx.bloom", 0), 0, MaxBloom)

	p.ObstacleMask = str(root, "obstacle.collide_mask", "")
	p.ObstacleStickiness = core.ClampF(num(root, "obstacle.stickiness", 0), 0, 1)

	return p
}

// gravity accepts a scalar (downward acceleration) or an [x, y] pair and
// limits the magnitude to MaxGravity.
func gravity(v gjson.Result) core.Vec2 {
	switch {
	case v.Type == gjson.Number:
		return core.Vec2{Y: core.ClampF(v.Float(), -MaxGravity, MaxGravity)}
	case v.IsArray():
		arr := v.Array()
		if len(arr) != 2 || arr[0].Type != gjson.Number || arr[1].Type != gjson.Number {
			return core.Zero
		}
		return core.Vec2{X: arr[0].Float(), Y: arr[1].Float()}.ClampLen(MaxGravity)
	default:
		return core.Zero
	}
}

// LoadForceField reads a forcefield document.
func LoadForceField(path string) (ForceField, error) {
	root, err := readDocument(path)
	if err != nil {
		return ForceField{}, err
	}
	return forceFieldFrom(root)
}

// ParseForceField parses forcefield bytes.
func ParseForceField(data []byte) (ForceField, error) {
	root, err := parseDocument(data)
	if err != nil {
		return ForceField{}, err
	}
	return forceFieldFrom(root)
}

func forceFieldFrom(root gjson.Result) (ForceField, error) {
	timeline := root.Get("timeline")
	if !timeline.Exists() {
		return ForceField{}, nil
	}
	if !timeline.IsArray() {
		return ForceField{}, fmt.Errorf("%w: timeline is not an array", ErrMalformedDocument)
	}

	var ff ForceField
	for _, ev := range timeline.Array() {
		if !ev.IsObject() {
			continue
		}
		dir := math.Mod(num(ev, "dir_deg", 0), 360)
		if dir < 0 {
			dir += 360
		}
		ff.Timeline = append(ff.Timeline, ForceEvent{
			T:      math.Max(0, num(ev, "t", 0)),
			Type:   str(ev, "type", ""),
			DirDeg: dir,
			Speed:  core.ClampF(num(ev, "speed", 0), 0, MaxForceSpeed),
			Dur:    math.Max(0, num(ev, "dur", 0)),
		})
	}
	return ff, nil
}

// LoadSequence reads a sequence document.
func LoadSequence(path string) (Sequence, error) {
	root, err := readDocument(path)
	if err != nil {
		return Sequence{}, err
	}
	return sequenceFrom(root)
}

// ParseSequence parses sequence bytes.
func ParseSequence(data []byte) (Sequence, error) {
	root, err := parseDocument(data)
	if err != nil {
		return Sequence{}, err
	}
	return sequenceFrom(root)
}

func sequenceFrom(root gjson.Result) (Sequence, error) {
	seq := Sequence{Loop: true}
	if v := root.Get("loop"); v.Exists() {
		seq.Loop = v.Bool()
	}

	tracks := root.Get("tracks")
	if !tracks.Exists() {
		return seq, nil
	}
	if !tracks.IsArray() {
		return Sequence{}, fmt.Errorf("%w: tracks is not an array", ErrMalformedDocument)
	}

	for _, tr := range tracks.Array() {
		if !tr.IsObject() {
			continue
		}
		seq.Tracks = append(seq.Tracks, Track{
			T:      math.Max(0, num(tr, "t", 0)),
			Preset: str(tr, "apply.preset", ""),
			Force:  str(tr, "apply.force", ""),
		})
	}
	return seq, nil
}

// LoadCapture reads a capture document.
func LoadCapture(path string) (CaptureDoc, error) {
	root, err := readDocument(path)
	if err != nil {
		return CaptureDoc{}, err
	}
	return captureFrom(root), nil
}

// ParseCapture parses capture bytes.
func ParseCapture(data []byte) (CaptureDoc, error) {
	root, err := parseDocument(data)
	if err != nil {
		return CaptureDoc{}, err
	}
	return captureFrom(root), nil
}

func captureFrom(root gjson.Result) CaptureDoc {
	var doc CaptureDoc

	if v := root.Get("seed"); v.Type == gjson.Number {
		seed := uint32(core.ClampF(math.Round(v.Float()), 0, math.MaxUint32))
		doc.Seed = &seed
	}

	c := root.Get("capture")
	if !c.IsObject() || len(c.Map()) == 0 {
		return doc
	}

	req := DefaultCaptureRequest()
	if strings.EqualFold(str(c, "type", ""), string(CaptureSequence)) {
		req.Kind = CaptureSequence
	}
	req.Width = int(core.ClampF(math.Round(num(c, "w", DefaultCaptureWidth)), MinCaptureDim, MaxCaptureDim))
	req.Height = int(core.ClampF(math.Round(num(c, "h", DefaultCaptureHeight)), MinCaptureDim, MaxCaptureDim))
	req.Output = str(c, "output", "")
	req.Frames = int(core.ClampF(math.Round(num(c, "frames", 1)), MinCaptureFrames, MaxCaptureFrames))
	doc.Request = &req
	return doc
}

// num returns the number at path, or def when absent or not a number.
func num(r gjson.Result, path string, def float64) float64 {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return def
	}
	return v.Float()
}

// str returns the string at path, or def when absent or not a string.
func str(r gjson.Result, path, def string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return def
	}
	return v.String()
}

// strs returns the string entries of the array at path.
func strs(r gjson.Result, path string) []string {
	v := r.Get(path)
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, e := range v.Array() {
		if e.Type == gjson.String {
			out = append(out, e.String())
		}
	}
	return out
}
