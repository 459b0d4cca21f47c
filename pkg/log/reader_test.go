package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.flog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var read []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return read
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Tick: 1, Source: SourceTicker, Kind: KindSchedulerInit, Index: -1},
		{Timestamp: time.Now(), Tick: 2, Source: SourceFault, Kind: KindTrigger, Name: "a"},
		{Timestamp: time.Now(), Tick: 3, Source: SourceFault, Kind: KindRecover, Name: "a"},
	}

	reader, err := NewReader(createTestLogFile(t, events))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[0].Tick != 1 || read[2].Tick != 3 {
		t.Errorf("order mismatch: ticks %d..%d", read[0].Tick, read[2].Tick)
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFilteredReader(t *testing.T) {
	events := []Event{
		{Tick: 10, Source: SourceFault, Kind: KindTrigger, Name: "a"},
		{Tick: 20, Source: SourceFault, Kind: KindExtend, Name: "a"},
		{Tick: 30, Source: SourceFault, Kind: KindTrigger, Name: "b"},
		{Tick: 40, Source: SourceTicker, Kind: KindTaskOverflow},
	}
	path := createTestLogFile(t, events)

	kind := KindTrigger
	reader, err := NewFilteredReader(path, Filter{Kind: &kind})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	if read[0].Name != "a" || read[1].Name != "b" {
		t.Errorf("unexpected events: %+v", read)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.flog")); err == nil {
		t.Error("NewReader on missing file: error = nil")
	}
}

func TestReaderStopsAtMalformedRecord(t *testing.T) {
	path := createTestLogFile(t, []Event{{Tick: 1, Source: SourceBoard, Kind: KindInput, Name: "flag:ovp"}})

	bad, err := EncodeEvent(Event{Tick: 2, Source: SourceBoard, Kind: Kind(77)})
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(bad); err != nil {
		t.Fatal(err)
	}
	f.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	if ev, err := reader.Next(); err != nil || ev.Tick != 1 {
		t.Fatalf("first Next() = %+v, %v", ev, err)
	}
	if _, err := reader.Next(); !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("second Next() error = %v, want ErrMalformedEvent", err)
	}
}
