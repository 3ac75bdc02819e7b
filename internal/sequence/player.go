// Package sequence plays a scripted list of timed configuration swaps.
package sequence

import (
	"math"

	"github.com/koyoi/falls/internal/config"
)

// Player fires each track once when sequence time reaches it.
// Tracks are expected in ascending T order; ties fire in listed order.
type Player struct {
	seq     config.Sequence
	elapsed float64
	cursor  int
}

// New returns a player with no tracks.
func New() *Player {
	return &Player{}
}

// Load replaces the sequence and rewinds time and cursor.
func (p *Player) Load(seq config.Sequence) {
	p.seq = seq
	p.elapsed = 0
	p.cursor = 0
}

// Clear drops the sequence, as when the sequence file is removed.
func (p *Player) Clear() {
	p.Load(config.Sequence{})
}

// Advance moves sequence time forward by dt and calls fire for every track
// that became due, in order. When looping and past the end, the tracks left
// in the finished pass fire first, then time wraps by modulo and the cursor
// restarts for the tracks due in the wrapped time. Without looping the
// cursor stays pinned at the end.
//
// It returns the number of tracks fired.
func (p *Player) Advance(dt float64, fire func(config.Track)) int {
	p.elapsed += dt

	dur := p.seq.Duration()
	if !p.seq.Loop || dur <= 0 || p.elapsed <= dur {
		return p.fireUntil(p.elapsed, fire)
	}

	fired := p.fireUntil(dur, fire)
	p.elapsed = math.Mod(p.elapsed, dur)
	p.cursor = 0
	return fired + p.fireUntil(p.elapsed, fire)
}

// fireUntil fires every unfired track with T <= t.
func (p *Player) fireUntil(t float64, fire func(config.Track)) int {
	fired := 0
	for p.cursor < len(p.seq.Tracks) && p.seq.Tracks[p.cursor].T <= t {
		track := p.seq.Tracks[p.cursor]
		p.cursor++
		fired++
		if fire != nil {
			fire(track)
		}
	}
	return fired
}

// Elapsed returns the current sequence time.
func (p *Player) Elapsed() float64 {
	return p.elapsed
}

// Cursor returns the index of the next track to fire.
func (p *Player) Cursor() int {
	return p.cursor
}

// Sequence returns the loaded sequence.
func (p *Player) Sequence() config.Sequence {
	return p.seq
}
