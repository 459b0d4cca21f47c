package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes diagnostic events to an slog.Logger.
// Useful for development when you want to see transitions in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.Uint64("tick", event.Tick),
		slog.String("source", event.Source.String()),
		slog.String("kind", event.Kind.String()),
	}

	if event.BootID != "" {
		attrs = append(attrs, slog.String("boot_id", event.BootID))
	}
	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}
	if event.Index >= 0 {
		attrs = append(attrs, slog.Int("index", event.Index))
	}

	switch {
	case event.Fault != nil:
		if event.Fault.OldState != "" {
			attrs = append(attrs, slog.String("old_state", event.Fault.OldState))
		}
		attrs = append(attrs,
			slog.String("new_state", event.Fault.NewState),
			slog.Uint64("trigger_count", uint64(event.Fault.TriggerCount)),
			slog.String("active_mask", fmt.Sprintf("0x%08x", event.Fault.ActiveMask)),
			slog.String("history_mask", fmt.Sprintf("0x%08x", event.Fault.HistoryMask)),
		)
	case event.Task != nil:
		if event.Task.PeriodMs != 0 {
			attrs = append(attrs, slog.Uint64("period_ms", uint64(event.Task.PeriodMs)))
		}
		if event.Task.Requested != 0 || event.Task.Scheduled != 0 {
			attrs = append(attrs,
				slog.Int("requested", event.Task.Requested),
				slog.Int("scheduled", event.Task.Scheduled),
			)
		}
	}

	if event.Message != "" {
		attrs = append(attrs, slog.String("note", event.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "diag", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
