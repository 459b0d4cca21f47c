// Package timebase provides the monotonic millisecond tick source shared by
// the timer, ticker and fault packages.
//
// All core logic reads time through the Source interface and never calls
// time.Now directly. Production code uses System; tests drive a Mock.
package timebase

import (
	"sync/atomic"
	"time"
)

// Source returns a strictly non-decreasing millisecond tick count.
type Source interface {
	Now() uint64
}

// Func adapts a plain function to the Source interface.
type Func func() uint64

// Now calls f.
func (f Func) Now() uint64 {
	return f()
}

// System is a Source backed by the runtime monotonic clock.
// Tick 0 is the moment the System was created.
type System struct {
	epoch time.Time
}

// NewSystem creates a System anchored at the current time.
func NewSystem() *System {
	return &System{epoch: time.Now()}
}

// Now returns the milliseconds elapsed since the System was created.
func (s *System) Now() uint64 {
	return uint64(time.Since(s.epoch).Milliseconds())
}

// Mock is a manually driven Source for tests and host simulation.
// It is safe for concurrent use.
type Mock struct {
	ticks atomic.Uint64
}

// NewMock creates a Mock starting at tick 0.
func NewMock() *Mock {
	return &Mock{}
}

// Now returns the current simulated tick count.
func (m *Mock) Now() uint64 {
	return m.ticks.Load()
}

// Set moves the clock to an absolute tick value.
func (m *Mock) Set(ticks uint64) {
	m.ticks.Store(ticks)
}

// Advance moves the clock forward by delta milliseconds.
func (m *Mock) Advance(delta uint64) {
	m.ticks.Add(delta)
}

// Reset moves the clock back to zero.
func (m *Mock) Reset() {
	m.ticks.Store(0)
}

// Compile-time interface satisfaction checks.
var (
	_ Source = Func(nil)
	_ Source = (*System)(nil)
	_ Source = (*Mock)(nil)
)
