package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/f4kit/f4kit/pkg/log"
)

func TestStatsCounts(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := sampleEvents(ts)
	events = append(events, log.Event{
		Timestamp: ts.Add(6 * time.Second),
		Tick:      6000,
		BootID:    "0a1b2c3d-0000-0000-0000-000000000000",
		Source:    log.SourceBoard,
		Kind:      log.KindInput,
		Name:      "flag:overtemp",
		Index:     -1,
	})
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"FAULT:",
		"TICKER:",
		"BOARD:",
		"TRIGGER:",
		"Boots: 2",
		"[5f0c1f9e] 3 events",
		"last tick 5030",
		"Faults: 1",
		"button_fault: triggers=1 extensions=0 recoveries=1 clears=0 refused=0 max_count=1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero events, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "Time Range") {
		t.Error("empty file should have no time range")
	}
}
