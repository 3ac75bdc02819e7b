// Package watch detects edits to a fixed set of files by polling their
// modification times.
package watch

import (
	"os"
	"time"
)

// PollInterval is the simulated time between two filesystem scans.
const PollInterval = 0.5

// Kind is the type of change observed for a watched path.
type Kind int

const (
	Changed Kind = iota // Created, or modification time differs
	Removed             // Previously present, now gone
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is a single observed change.
type Change struct {
	Path string
	Kind Kind
}

// entry is one watched path and its last known modification time.
type entry struct {
	path  string
	known bool
	mtime time.Time
}

// Watcher polls a fixed list of paths. It is not safe for concurrent use;
// the director owns it and calls it once per tick.
type Watcher struct {
	entries []entry
	acc     float64
	stat    func(string) (os.FileInfo, error)
}

// New creates a watcher for the given paths. Events are always reported in
// this order.
func New(paths ...string) *Watcher {
	w := &Watcher{stat: os.Stat}
	for _, p := range paths {
		w.entries = append(w.entries, entry{path: p})
	}
	return w
}

// Paths returns the watched paths.
func (w *Watcher) Paths() []string {
	out := make([]string, len(w.entries))
	for i, e := range w.entries {
		out[i] = e.path
	}
	return out
}

// Prime records the current modification times without reporting anything,
// so files present at startup do not count as changes.
func (w *Watcher) Prime() {
	for i := range w.entries {
		e := &w.entries[i]
		info, err := w.stat(e.path)
		if err != nil {
			e.known = false
			e.mtime = time.Time{}
			continue
		}
		e.known = true
		e.mtime = info.ModTime()
	}
	w.acc = 0
}

// Poll advances the poll clock by dt seconds and, once PollInterval has
// accumulated, scans every path. Unchanged files produce nothing.
func (w *Watcher) Poll(dt float64) []Change {
	w.acc += dt
	if w.acc < PollInterval {
		return nil
	}
	w.acc = 0
	return w.scan()
}

func (w *Watcher) scan() []Change {
	var changes []Change
	for i := range w.entries {
		e := &w.entries[i]
		info, err := w.stat(e.path)
		if err != nil {
			if e.known {
				changes = append(changes, Change{Path: e.path, Kind: Removed})
				e.known = false
				e.mtime = time.Time{}
			}
			continue
		}
		if !e.known || !info.ModTime().Equal(e.mtime) {
			changes = append(changes, Change{Path: e.path, Kind: Changed})
			e.known = true
			e.mtime = info.ModTime()
		}
	}
	return changes
}
