// Package director runs the per-tick orchestration: it watches the runtime
// documents, plays the scripted sequence, evaluates the force timeline,
// pushes parameters to the renderer and fires deferred captures.
//
// A Director is owned by a single goroutine. Nothing in it is safe for
// concurrent use; callers that share it across goroutines must serialize
// access themselves (see platform/tui.Hub).
package director

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/koyoi/falls/internal/capture"
	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/forcefield"
	"github.com/koyoi/falls/internal/sequence"
	"github.com/koyoi/falls/internal/storage"
	"github.com/koyoi/falls/internal/watch"
)

// Watched document names, relative to the watch directory.
const (
	PresetFile     = "preset.json"
	ForceFieldFile = "forcefield.json"
	SequenceFile   = "sequence.json"
	CaptureFile    = "capture.json"
	MaskFile       = "obstacles_mask.png"
)

// Journal records fired captures. *storage.Store satisfies it.
type Journal interface {
	RecordCapture(e storage.CaptureEntry) (int64, error)
}

// Options configures a Director.
type Options struct {
	WatchDir  string
	ResRoot   string // Root for res:// references; defaults to WatchDir
	OutputDir string
	Applier   ParameterApplier    // nil pushes nowhere
	Frames    capture.FrameSource // nil makes every capture fail
	Journal   Journal             // optional
	Logger    *log.Logger         // nil discards
}

// Director owns all runtime configuration state.
type Director struct {
	watchDir string
	resRoot  string

	applier ParameterApplier
	frames  capture.FrameSource
	journal Journal
	log     *log.Logger

	watcher *watch.Watcher
	forces  *forcefield.Evaluator
	player  *sequence.Player
	sched   capture.Scheduler
	writer  *capture.Writer

	preset      config.Preset
	request     *config.CaptureRequest
	seed        uint32
	maskRef     string
	tick        uint64
	lastCapture []string
	params      core.Params
}

// New creates a director. Call Start before the first Tick.
func New(opts Options) *Director {
	applier := opts.Applier
	if applier == nil {
		applier = NopApplier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	resRoot := opts.ResRoot
	if resRoot == "" {
		resRoot = opts.WatchDir
	}

	d := &Director{
		watchDir: opts.WatchDir,
		resRoot:  resRoot,
		applier:  applier,
		frames:   opts.Frames,
		journal:  opts.Journal,
		log:      logger,
		forces:   forcefield.New(),
		player:   sequence.New(),
		writer:   capture.NewWriter(opts.OutputDir),
		preset:   config.DefaultPreset(),
	}
	d.watcher = watch.New(
		d.path(PresetFile),
		d.path(ForceFieldFile),
		d.path(SequenceFile),
		d.path(CaptureFile),
		d.path(MaskFile),
	)
	return d
}

func (d *Director) path(name string) string {
	return filepath.Join(d.watchDir, name)
}

// Start primes the watcher and loads every document once. A capture.json
// already present at startup is armed like a fresh edit.
func (d *Director) Start() {
	d.watcher.Prime()

	d.loadPreset(d.path(PresetFile))
	d.loadForceField(d.path(ForceFieldFile))
	d.loadSequence(d.path(SequenceFile))
	d.loadCapture(d.path(CaptureFile))
	if _, err := os.Stat(d.path(MaskFile)); err == nil {
		d.maskChanged()
	}

	d.pushTickParams()
	d.params = d.snapshot()
	d.log.Info("director started", "dir", d.watchDir, "output", d.writer.Root())
}

// Tick advances the simulation by dt seconds and returns the parameters
// applied during this tick.
func (d *Director) Tick(dt float64) core.Params {
	if dt < 0 {
		dt = 0
	}
	d.tick++

	for _, ch := range d.watcher.Poll(dt) {
		d.handle(ch)
	}

	d.player.Advance(dt, d.fireTrack)
	d.forces.Advance(dt)
	d.pushTickParams()

	if req, ok := d.sched.Due(d.tick); ok {
		d.performCapture(req)
	}

	d.params = d.snapshot()
	return d.params
}

// TriggerCapture re-arms the request from the current capture.json. It
// returns false when the file is absent or holds no usable request.
func (d *Director) TriggerCapture() bool {
	if d.request == nil {
		return false
	}
	d.sched.Arm(*d.request, d.tick)
	d.log.Info("capture armed", "output", d.request.Output, "trigger", "manual")
	return true
}

// Force returns the force currently in effect.
func (d *Director) Force() core.Vec2 {
	return d.forces.Force()
}

// Params returns the snapshot produced by the last Tick (or Start).
func (d *Director) Params() core.Params {
	return d.params
}

// Preset returns the preset currently in effect.
func (d *Director) Preset() config.Preset {
	return d.preset
}

// CapturePending reports whether a capture is waiting to fire.
func (d *Director) CapturePending() bool {
	return d.sched.Pending()
}

// WatchDir returns the watched directory.
func (d *Director) WatchDir() string {
	return d.watchDir
}

func (d *Director) handle(ch watch.Change) {
	d.log.Debug("file event", "path", ch.Path, "kind", ch.Kind)

	removed := ch.Kind == watch.Removed
	switch filepath.Base(ch.Path) {
	case PresetFile:
		if removed {
			d.preset = config.DefaultPreset()
			d.maskRef = d.resolveMask()
			d.applyPreset()
			d.log.Info("preset removed, defaults restored")
			return
		}
		d.loadPreset(ch.Path)
	case ForceFieldFile:
		if removed {
			d.forces.Clear()
			d.log.Info("forcefield removed")
			return
		}
		d.loadForceField(ch.Path)
	case SequenceFile:
		if removed {
			d.player.Clear()
			d.log.Info("sequence removed")
			return
		}
		d.loadSequence(ch.Path)
	case CaptureFile:
		if removed {
			d.dropCapture()
			return
		}
		d.loadCapture(ch.Path)
	case MaskFile:
		if removed {
			d.maskRef = d.resolveMask()
			d.log.Info("obstacle mask removed")
			return
		}
		d.maskChanged()
	}
}

// fireTrack reloads the documents a track names through the same path a
// file edit takes.
func (d *Director) fireTrack(t config.Track) {
	d.log.Debug("track fired", "t", t.T, "preset", t.Preset, "force", t.Force)
	if t.Preset != "" {
		d.loadPreset(sequence.ResolveRef(d.watchDir, d.resRoot, t.Preset))
	}
	if t.Force != "" {
		d.loadForceField(sequence.ResolveRef(d.watchDir, d.resRoot, t.Force))
	}
}

func (d *Director) loadPreset(path string) {
	p, err := config.LoadPreset(path)
	d.report("preset", path, err)
	d.preset = p
	d.maskRef = d.resolveMask()
	d.applyPreset()
}

func (d *Director) applyPreset() {
	applyPreset(d.applier, d.preset)
	d.seed = d.preset.Seed
}

func (d *Director) loadForceField(path string) {
	ff, err := config.LoadForceField(path)
	d.report("forcefield", path, err)
	d.forces.Load(ff)
}

func (d *Director) loadSequence(path string) {
	seq, err := config.LoadSequence(path)
	d.report("sequence", path, err)
	d.player.Load(seq)
}

func (d *Director) loadCapture(path string) {
	doc, err := config.LoadCapture(path)
	d.report("capture", path, err)
	if doc.Seed != nil {
		d.seed = *doc.Seed
		d.applier.SetSeed(d.seed)
	}
	if doc.Request == nil {
		// An unusable document counts as no request, same as removal.
		d.dropCapture()
		return
	}
	req := *doc.Request
	d.request = &req
	d.sched.Arm(req, d.tick)
	d.log.Info("capture armed", "kind", req.Kind, "size", [2]int{req.Width, req.Height}, "output", req.Output)
}

// resolveMask returns the preset's own mask reference, or the watched mask
// file when the preset names none and the file is on disk.
func (d *Director) resolveMask() string {
	if d.preset.ObstacleMask != "" {
		return sequence.ResolveRef(d.watchDir, d.resRoot, d.preset.ObstacleMask)
	}
	if _, err := os.Stat(d.path(MaskFile)); err == nil {
		return d.path(MaskFile)
	}
	return ""
}

// dropCapture cancels any pending capture and forgets the loaded request.
func (d *Director) dropCapture() {
	if d.sched.Pending() {
		d.log.Info("capture cancelled")
	}
	d.sched.Cancel()
	d.request = nil
}

// maskChanged re-pushes the mask reference so the renderer reloads the
// pixels. A preset without its own mask falls back to the watched file.
func (d *Director) maskChanged() {
	d.maskRef = d.resolveMask()
	// Clear first so an unchanged reference still reads as an update.
	d.applier.SetObstacleMask("")
	d.applier.SetObstacleMask(d.maskRef)
	d.log.Info("obstacle mask updated", "ref", d.maskRef)
}

func (d *Director) report(doc, path string, err error) {
	switch {
	case err == nil:
		d.log.Info("loaded", "doc", doc, "path", path)
	case errors.Is(err, config.ErrMissingFile):
		d.log.Debug("not present, using defaults", "doc", doc, "path", path)
	default:
		d.log.Warn("cannot load, using defaults", "doc", doc, "path", path, "err", err)
	}
}

// pushTickParams forwards the values re-applied on every tick.
func (d *Director) pushTickParams() {
	dir, mag := d.forces.Direction()
	d.applier.SetForce(dir, mag)
	d.applier.SetBloom(d.preset.Bloom)
	d.applier.SetObstacleMask(d.maskRef)
	d.applier.SetObstacleStickiness(d.preset.ObstacleStickiness)
}

func (d *Director) performCapture(req config.CaptureRequest) {
	paths, err := d.writer.Capture(d.frames, req)

	entry := storage.CaptureEntry{
		Kind:   string(req.Kind),
		Width:  req.Width,
		Height: req.Height,
		Output: req.Output,
		Paths:  paths,
		Tick:   d.tick,
	}
	if err != nil {
		entry.Error = err.Error()
		d.log.Warn("capture failed", "output", req.Output, "err", err)
	} else {
		d.lastCapture = paths
		d.log.Info("capture written", "files", len(paths), "first", paths[0])
	}

	if d.journal != nil {
		if _, jerr := d.journal.RecordCapture(entry); jerr != nil {
			d.log.Warn("cannot journal capture", "err", jerr)
		}
	}
}

func (d *Director) snapshot() core.Params {
	p := d.preset
	dir, mag := d.forces.Direction()
	return core.Params{
		Tick:               d.tick,
		PresetName:         p.Name,
		EmissionRate:       p.EmissionRate,
		Seed:               d.seed,
		Gravity:            p.Gravity,
		Drag:               p.Drag,
		SwayAmp:            p.SwayAmp,
		SwayFreq:           p.SwayFreq,
		Spin:               p.Spin,
		Palette:            p.Palette,
		SizeMin:            p.SizeMin,
		SizeMax:            p.SizeMax,
		Background:         p.Background,
		Bloom:              p.Bloom,
		ObstacleMask:       d.maskRef,
		ObstacleStickiness: p.ObstacleStickiness,
		Force:              d.forces.Force(),
		ForceDir:           dir,
		ForceMagnitude:     mag,
		ForceTime:          d.forces.Elapsed(),
		ActiveEvent:        d.forces.ActiveIndex(),
		ActiveType:         d.forces.ActiveType(),
		SequenceTime:       d.player.Elapsed(),
		SequenceIndex:      d.player.Cursor(),
		CapturePending:     d.sched.Pending(),
		CaptureRemaining:   d.sched.Remaining(d.tick),
		LastCapture:        d.lastCapture,
	}
}
