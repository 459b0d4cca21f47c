package log

import "github.com/f4kit/f4kit/pkg/ringbuf"

// RingLogger keeps the most recent events in memory.
// When full, the oldest event is discarded.
type RingLogger struct {
	ring *ringbuf.Ring[Event]
}

// NewRingLogger creates a RingLogger holding up to size events.
// size must be a power of two.
func NewRingLogger(size int) (*RingLogger, error) {
	r, err := ringbuf.New[Event](size)
	if err != nil {
		return nil, err
	}
	return &RingLogger{ring: r}, nil
}

// Log stores the event, evicting the oldest one if necessary.
func (l *RingLogger) Log(event Event) {
	l.ring.Overwrite(event)
}

// Events returns the buffered events, oldest first.
func (l *RingLogger) Events() []Event {
	return l.ring.Snapshot()
}

// Len returns the number of buffered events.
func (l *RingLogger) Len() int {
	return l.ring.Len()
}

// Reset discards all buffered events.
func (l *RingLogger) Reset() {
	l.ring.Reset()
}

// Compile-time interface satisfaction check.
var _ Logger = (*RingLogger)(nil)
