package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/f4kit/f4kit/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents    int
	EventsBySource map[log.Source]int
	EventsByKind   map[log.Kind]int
	Boots          map[string]*BootStats
	Faults         map[string]*FaultStats
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// BootStats holds statistics for a single run.
type BootStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	LastTick  uint64
}

// FaultStats holds per-fault transition counts.
type FaultStats struct {
	Triggers   int
	Extensions int
	Recoveries int
	Clears     int
	Refused    int
	MaxCount   uint32
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsBySource: make(map[log.Source]int),
		EventsByKind:   make(map[log.Kind]int),
		Boots:          make(map[string]*BootStats),
		Faults:         make(map[string]*FaultStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsBySource[event.Source]++
		stats.EventsByKind[event.Kind]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track boot stats
		boot, ok := stats.Boots[event.BootID]
		if !ok {
			boot = &BootStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Boots[event.BootID] = boot
		}
		boot.Events++
		if event.Timestamp.After(boot.LastSeen) {
			boot.LastSeen = event.Timestamp
		}
		if event.Tick > boot.LastTick {
			boot.LastTick = event.Tick
		}

		if event.Source != log.SourceFault || event.Name == "" {
			continue
		}
		fs, ok := stats.Faults[event.Name]
		if !ok {
			fs = &FaultStats{}
			stats.Faults[event.Name] = fs
		}
		switch event.Kind {
		case log.KindTrigger:
			fs.Triggers++
		case log.KindExtend:
			fs.Extensions++
		case log.KindRecover:
			fs.Recoveries++
		case log.KindClear:
			fs.Clears++
		case log.KindClearRefused:
			fs.Refused++
		}
		if event.Fault != nil && event.Fault.TriggerCount > fs.MaxCount {
			fs.MaxCount = event.Fault.TriggerCount
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Diagnostic Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by source
	fmt.Fprintln(w, "Events by Source:")
	for _, src := range []log.Source{log.SourceFault, log.SourceTicker, log.SourceBoard} {
		if count := stats.EventsBySource[src]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", src.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	kinds := make([]log.Kind, 0, len(stats.EventsByKind))
	for k := range stats.EventsByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-16s %d\n", k.String()+":", stats.EventsByKind[k])
	}
	fmt.Fprintln(w)

	// Boots
	fmt.Fprintf(w, "Boots: %d\n", len(stats.Boots))
	if len(stats.Boots) > 0 {
		type bootInfo struct {
			id    string
			stats *BootStats
		}
		boots := make([]bootInfo, 0, len(stats.Boots))
		for id, bs := range stats.Boots {
			boots = append(boots, bootInfo{id, bs})
		}
		sort.Slice(boots, func(i, j int) bool {
			return boots[i].stats.FirstSeen.Before(boots[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, b := range boots {
			duration := b.stats.LastSeen.Sub(b.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s, last tick %d\n",
				shortenBootID(b.id), b.stats.Events, duration, b.stats.LastTick)
		}
	}

	// Faults
	if len(stats.Faults) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Faults: %d\n", len(stats.Faults))
		names := make([]string, 0, len(stats.Faults))
		for name := range stats.Faults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fs := stats.Faults[name]
			fmt.Fprintf(w, "  %s: triggers=%d extensions=%d recoveries=%d clears=%d refused=%d max_count=%d\n",
				name, fs.Triggers, fs.Extensions, fs.Recoveries, fs.Clears, fs.Refused, fs.MaxCount)
		}
	}
}
