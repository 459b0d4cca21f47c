package commands

import (
	"fmt"
	"io"

	"github.com/f4kit/f4kit/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	BootID    string
	Source    string
	Kind      string
	Name      string
	TickStart string
	TickEnd   string
}

// RunFilter filters the log file and writes matching events to a new file.
// A summary line is written to w.
func RunFilter(path string, opts FilterOptions, w io.Writer) error {
	// Build filter
	filter := log.Filter{
		BootID: opts.BootID,
		Name:   opts.Name,
	}

	var err error
	if filter.TickStart, err = parseTick(opts.TickStart); err != nil {
		return fmt.Errorf("invalid tick-start: %w", err)
	}
	if filter.TickEnd, err = parseTick(opts.TickEnd); err != nil {
		return fmt.Errorf("invalid tick-end: %w", err)
	}

	if opts.Source != "" {
		s, err := log.ParseSource(opts.Source)
		if err != nil {
			return err
		}
		filter.Source = &s
	}

	if opts.Kind != "" {
		k, err := log.ParseKind(opts.Kind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}

	// Open input
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered events
	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, opts.Output)
	return nil
}
