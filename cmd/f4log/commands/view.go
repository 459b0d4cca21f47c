// Package commands implements the f4log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/f4kit/f4kit/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Source *log.Source
	Kind   *log.Kind
	Name   string
	BootID string
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		BootID: f.BootID,
		Source: f.Source,
		Kind:   f.Kind,
		Name:   f.Name,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp tick=N [boot:id] SOURCE KIND name[index]
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s tick=%d [boot:%s] %-6s %s", ts, event.Tick, shortenBootID(event.BootID),
		event.Source, event.Kind)
	if event.Name != "" {
		fmt.Fprintf(w, " %s", event.Name)
		if event.Index >= 0 {
			fmt.Fprintf(w, "[%d]", event.Index)
		}
	}
	fmt.Fprintln(w)

	switch {
	case event.Fault != nil:
		formatFaultDetails(w, event.Fault)
	case event.Task != nil:
		formatTaskDetails(w, event.Task)
	}
	if event.Message != "" {
		fmt.Fprintf(w, "  Note: %s\n", event.Message)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenBootID returns the first 8 characters of the boot ID.
func shortenBootID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatFaultDetails writes fault transition details.
func formatFaultDetails(w io.Writer, fe *log.FaultEvent) {
	if fe.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", fe.OldState, fe.NewState)
	} else if fe.NewState != "" {
		fmt.Fprintf(w, "  -> %s\n", fe.NewState)
	}
	fmt.Fprintf(w, "  Count: %d\n", fe.TriggerCount)
	fmt.Fprintf(w, "  Masks: active=0x%08x history=0x%08x\n", fe.ActiveMask, fe.HistoryMask)
	if fe.RecoveryMs > 0 {
		fmt.Fprintf(w, "  Recovery: %d ms\n", fe.RecoveryMs)
	}
}

// formatTaskDetails writes scheduler details.
func formatTaskDetails(w io.Writer, te *log.TaskEvent) {
	if te.PeriodMs > 0 {
		fmt.Fprintf(w, "  Period: %d ms\n", te.PeriodMs)
	}
	if te.Requested > 0 || te.Scheduled > 0 {
		fmt.Fprintf(w, "  Tasks: %d scheduled of %d requested\n", te.Scheduled, te.Requested)
	}
}

// ParseSourceFlag parses a source string from command-line flag (case-insensitive).
func ParseSourceFlag(s string) (log.Source, error) {
	return log.ParseSource(s)
}

// ParseKindFlag parses a kind string from command-line flag (case-insensitive).
func ParseKindFlag(s string) (log.Kind, error) {
	return log.ParseKind(s)
}

// parseTick parses an optional tick bound.
func parseTick(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid tick %q: %w", s, err)
	}
	return &v, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
