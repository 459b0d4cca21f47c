// Package ringbuf implements a fixed-capacity FIFO over a power-of-two
// backing array. Indices are wrapped with a bitmask, so the capacity must be
// a power of two.
package ringbuf

import (
	"errors"
	"sync"
)

// ErrSize is returned by New when the size is zero or not a power of two.
var ErrSize = errors.New("ring buffer size must be a non-zero power of two")

// Ring is a bounded FIFO. It is safe for concurrent use.
// One producer and one consumer is the expected pattern.
type Ring[T any] struct {
	mu   sync.Mutex
	buf  []T
	mask uint32
	head uint32 // next write
	tail uint32 // next read
}

// New creates a ring with room for size elements.
func New[T any](size int) (*Ring[T], error) {
	if size <= 0 || size&(size-1) != 0 || uint64(size) > 1<<31 {
		return nil, ErrSize
	}
	return &Ring[T]{
		buf:  make([]T, size),
		mask: uint32(size - 1),
	}, nil
}

// Write appends v. It returns false and drops v when the ring is full.
func (r *Ring[T]) Write(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head-r.tail == uint32(len(r.buf)) {
		return false
	}
	r.buf[r.head&r.mask] = v
	r.head++
	return true
}

// Overwrite appends v, discarding the oldest element if the ring is full.
// It reports whether an element was discarded.
func (r *Ring[T]) Overwrite(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := false
	if r.head-r.tail == uint32(len(r.buf)) {
		var zero T
		r.buf[r.tail&r.mask] = zero
		r.tail++
		dropped = true
	}
	r.buf[r.head&r.mask] = v
	r.head++
	return dropped
}

// Read removes and returns the oldest element.
// ok is false when the ring is empty.
func (r *Ring[T]) Read() (v T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head == r.tail {
		return v, false
	}
	idx := r.tail & r.mask
	v = r.buf[idx]
	var zero T
	r.buf[idx] = zero
	r.tail++
	return v, true
}

// Snapshot returns the buffered elements, oldest first, without consuming them.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, r.head-r.tail)
	for i := r.tail; i != r.head; i++ {
		out = append(out, r.buf[i&r.mask])
	}
	return out
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.head - r.tail)
}

// Cap returns the capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Empty reports whether the ring holds no elements.
func (r *Ring[T]) Empty() bool {
	return r.Len() == 0
}

// Full reports whether a Write would be dropped.
func (r *Ring[T]) Full() bool {
	return r.Len() == len(r.buf)
}

// Reset discards all elements.
func (r *Ring[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.buf)
	r.head = 0
	r.tail = 0
}
