// Package bsp provides board-support objects driven through an abstract pin:
// a debounced Button with hold detection and a simple LED.
//
// Objects poll their pins from an update call and never block, so they can
// run as ticker tasks alongside the fault manager.
package bsp

import "sync/atomic"

// Pin is a single digital I/O line.
type Pin interface {
	Read() bool
	Write(level bool)
	Toggle()
}

// SimPin is an in-memory Pin. The zero value reads low.
type SimPin struct {
	level atomic.Bool
}

// NewSimPin returns a pin at the given level.
func NewSimPin(level bool) *SimPin {
	p := &SimPin{}
	p.level.Store(level)
	return p
}

// Read returns the current level.
func (p *SimPin) Read() bool {
	return p.level.Load()
}

// Write sets the level.
func (p *SimPin) Write(level bool) {
	p.level.Store(level)
}

// Toggle inverts the level.
func (p *SimPin) Toggle() {
	for {
		old := p.level.Load()
		if p.level.CompareAndSwap(old, !old) {
			return
		}
	}
}
