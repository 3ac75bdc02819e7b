// Package forcefield turns a time-indexed list of force events into the
// force vector active at a given moment.
package forcefield

import (
	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/core"
)

// Active scans a timeline sorted by T and returns the last event whose start
// time has been reached. The scan stops at the first event that starts later
// than elapsed, so an unsorted timeline gives wrong answers.
//
// ok is false when no event has started. When the selected event has a
// positive duration that has run out, the returned force is zero while index
// still points at that event.
func Active(timeline []config.ForceEvent, elapsed float64) (index int, force core.Vec2, ok bool) {
	index = -1
	for i, ev := range timeline {
		if ev.T > elapsed {
			break
		}
		index = i
	}
	if index < 0 {
		return -1, core.Zero, false
	}

	ev := timeline[index]
	if ev.Dur > 0 && elapsed > ev.T+ev.Dur {
		return index, core.Zero, true
	}
	speed := core.ClampF(ev.Speed, 0, config.MaxForceSpeed)
	return index, core.FromDegrees(ev.DirDeg).Scale(speed), true
}

// Evaluator owns a timeline and its elapsed-time counter.
type Evaluator struct {
	timeline []config.ForceEvent
	elapsed  float64
	force    core.Vec2
	active   int
}

// New returns an evaluator with an empty timeline.
func New() *Evaluator {
	return &Evaluator{active: -1}
}

// Load replaces the timeline and resets elapsed time and force to zero.
func (e *Evaluator) Load(ff config.ForceField) {
	e.timeline = ff.Timeline
	e.reset()
}

// Clear drops the timeline, as when the forcefield file is removed.
func (e *Evaluator) Clear() {
	e.timeline = nil
	e.reset()
}

func (e *Evaluator) reset() {
	e.elapsed = 0
	e.force = core.Zero
	e.active = -1
}

// Advance moves force time forward by dt and re-evaluates. If no event has
// started yet the previous force is kept.
func (e *Evaluator) Advance(dt float64) core.Vec2 {
	e.elapsed += dt
	if idx, f, ok := Active(e.timeline, e.elapsed); ok {
		e.active = idx
		e.force = f
	}
	return e.force
}

// Force returns the current force vector.
func (e *Evaluator) Force() core.Vec2 {
	return e.force
}

// Direction returns the unit direction and the magnitude of the current
// force, the form the renderer takes it in.
func (e *Evaluator) Direction() (core.Vec2, float64) {
	mag := core.ClampF(e.force.Len(), 0, config.MaxForceSpeed)
	return e.force.Normalized(), mag
}

// Elapsed returns the seconds since the last Load or Clear.
func (e *Evaluator) Elapsed() float64 {
	return e.elapsed
}

// ActiveIndex returns the index of the active event, or -1.
func (e *Evaluator) ActiveIndex() int {
	return e.active
}

// ActiveType returns the type tag of the active event.
func (e *Evaluator) ActiveType() string {
	if e.active < 0 || e.active >= len(e.timeline) {
		return ""
	}
	return e.timeline[e.active].Type
}

// Len returns the number of events in the timeline.
func (e *Evaluator) Len() int {
	return len(e.timeline)
}
