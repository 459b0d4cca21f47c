package log

// Logger is the interface applications implement to receive diagnostic events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must not
	// block: Log is called from the fault and scheduler update paths.
	Log(event Event)
}

// NoopLogger discards all events. Use when capture is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// BootLogger stamps every event with a boot identifier before forwarding it,
// so that traces from consecutive runs appended to one file stay separable.
type BootLogger struct {
	next   Logger
	bootID string
}

// NewBootLogger wraps next. Events that already carry a BootID keep it.
func NewBootLogger(next Logger, bootID string) *BootLogger {
	if next == nil {
		next = NoopLogger{}
	}
	return &BootLogger{next: next, bootID: bootID}
}

// BootID returns the identifier stamped on events.
func (b *BootLogger) BootID() string {
	return b.bootID
}

// Log stamps and forwards the event.
func (b *BootLogger) Log(event Event) {
	if event.BootID == "" {
		event.BootID = b.bootID
	}
	b.next.Log(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*BootLogger)(nil)
)
