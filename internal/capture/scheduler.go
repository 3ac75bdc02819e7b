// Package capture schedules and performs still-image and image-sequence
// exports of the simulation's frame buffer.
package capture

import "github.com/koyoi/falls/internal/config"

// SettleTicks is how many ticks a capture waits after being armed, so that a
// configuration change applied in the same tick has visibly taken effect.
const SettleTicks = 2

// Scheduler is the Idle -> Pending -> Idle state machine.
type Scheduler struct {
	pending bool
	armedAt uint64
	req     config.CaptureRequest
}

// Arm makes req pending as of tick, restarting the countdown if a capture
// was already pending.
func (s *Scheduler) Arm(req config.CaptureRequest, tick uint64) {
	s.pending = true
	s.armedAt = tick
	s.req = req
}

// Cancel drops any pending capture without firing it.
func (s *Scheduler) Cancel() {
	s.pending = false
}

// Due reports whether the pending capture fires at tick. When it does the
// scheduler returns to idle before the caller performs the capture, so a
// failed capture is never retried.
func (s *Scheduler) Due(tick uint64) (config.CaptureRequest, bool) {
	if !s.pending || tick < s.armedAt+SettleTicks {
		return config.CaptureRequest{}, false
	}
	s.pending = false
	return s.req, true
}

// Pending reports whether a capture is waiting.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Remaining returns the ticks left before the pending capture fires at the
// given tick, or 0 when idle.
func (s *Scheduler) Remaining(tick uint64) int {
	if !s.pending {
		return 0
	}
	due := s.armedAt + SettleTicks
	if tick >= due {
		return 0
	}
	return int(due - tick)
}
