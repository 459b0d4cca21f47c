// Package timer implements the polled software timer used by the ticker,
// the fault manager and the board-support objects.
//
// A Timer is a plain value embedded in its owner. It never runs a goroutine
// and never blocks: the owner polls HasElapsed from its update path.
//
// # Modes
//
// One-shot timers report true from HasElapsed exactly once, on the first poll
// at or after the deadline, and stay quiet until Reset. Expired still reports
// the level condition afterwards.
//
// Auto-reset timers advance the deadline by exactly one period on every true
// poll. The next deadline is computed from the previous deadline and not
// from the poll time, so late polls never shift the phase. When several
// periods have gone by between polls, each poll consumes one of them.
package timer

import "github.com/f4kit/f4kit/pkg/timebase"

// Timer is a deadline on a millisecond tick source.
// The zero value has no source and is permanently expired.
type Timer struct {
	src       timebase.Source
	deadline  uint64
	period    uint64
	autoReset bool
	fired     bool
}

// New returns a timer anchored at src.Now() that elapses periodMs later.
func New(src timebase.Source, periodMs uint64, autoReset bool) Timer {
	var t Timer
	t.Setup(src, periodMs, autoReset)
	return t
}

// Setup (re)configures the timer in place, anchored at src.Now().
func (t *Timer) Setup(src timebase.Source, periodMs uint64, autoReset bool) {
	t.src = src
	t.period = periodMs
	t.autoReset = autoReset
	t.fired = false
	t.deadline = t.now() + periodMs
}

// HasElapsed reports whether the deadline has been reached.
func (t *Timer) HasElapsed() bool {
	if t.src == nil {
		return true
	}
	if t.now() < t.deadline {
		return false
	}
	if t.autoReset {
		t.deadline += t.period
		return true
	}
	if t.fired {
		return false
	}
	t.fired = true
	return true
}

// Reset re-anchors the deadline at now + period, keeping the mode.
func (t *Timer) Reset() {
	t.fired = false
	t.deadline = t.now() + t.period
}

// Expired reports whether now is at or past the deadline without consuming
// a fire or advancing an auto-reset deadline.
func (t *Timer) Expired() bool {
	return t.src == nil || t.now() >= t.deadline
}

// Remaining returns the milliseconds left until the deadline, or 0.
func (t *Timer) Remaining() uint64 {
	now := t.now()
	if t.src == nil || now >= t.deadline {
		return 0
	}
	return t.deadline - now
}

// Deadline returns the absolute tick at which the timer elapses.
func (t *Timer) Deadline() uint64 {
	return t.deadline
}

// Period returns the configured period in milliseconds.
func (t *Timer) Period() uint64 {
	return t.period
}

// AutoReset reports whether the timer re-arms itself.
func (t *Timer) AutoReset() bool {
	return t.autoReset
}

func (t *Timer) now() uint64 {
	if t.src == nil {
		return 0
	}
	return t.src.Now()
}
