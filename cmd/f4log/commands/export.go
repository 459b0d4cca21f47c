package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/f4kit/f4kit/pkg/log"
)

// jsonEvent is the JSONL export shape. Enumerations are written by name.
type jsonEvent struct {
	Timestamp string          `json:"timestamp"`
	Tick      uint64          `json:"tick"`
	BootID    string          `json:"boot_id,omitempty"`
	Source    string          `json:"source"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name,omitempty"`
	Index     int             `json:"index"`
	Fault     *log.FaultEvent `json:"fault,omitempty"`
	Task      *log.TaskEvent  `json:"task,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		je := jsonEvent{
			Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			Tick:      event.Tick,
			BootID:    event.BootID,
			Source:    event.Source.String(),
			Kind:      event.Kind.String(),
			Name:      event.Name,
			Index:     event.Index,
			Fault:     event.Fault,
			Task:      event.Task,
			Message:   event.Message,
		}
		if err := encoder.Encode(je); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "tick", "boot_id", "source", "kind", "name", "index",
		"old_state", "new_state", "trigger_count", "active_mask", "history_mask", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var oldState, newState, count, active, history string
		if fe := event.Fault; fe != nil {
			oldState = fe.OldState
			newState = fe.NewState
			count = strconv.FormatUint(uint64(fe.TriggerCount), 10)
			active = fmt.Sprintf("0x%08x", fe.ActiveMask)
			history = fmt.Sprintf("0x%08x", fe.HistoryMask)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			strconv.FormatUint(event.Tick, 10),
			event.BootID,
			event.Source.String(),
			event.Kind.String(),
			event.Name,
			strconv.Itoa(event.Index),
			oldState,
			newState,
			count,
			active,
			history,
			event.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
