package commands

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/f4kit/f4kit/pkg/log"
)

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	r, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer r.Close()

	var out []log.Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		out = append(out, ev)
	}
}

func TestFilterBySourceAndTick(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(ts))
	out := filepath.Join(t.TempDir(), "filtered.f4ev")

	var buf bytes.Buffer
	err := RunFilter(path, FilterOptions{
		Output:    out,
		Source:    "fault",
		TickStart: "10",
		TickEnd:   "5000",
	}, &buf)
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary: %s", buf.String())
	}

	got := readAll(t, out)
	if len(got) != 1 || got[0].Kind != log.KindTrigger {
		t.Errorf("expected the trigger event only, got %+v", got)
	}
}

func TestFilterByKindAndName(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(ts))
	out := filepath.Join(t.TempDir(), "filtered.f4ev")

	err := RunFilter(path, FilterOptions{Output: out, Kind: "recover", Name: "button_fault"}, io.Discard)
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	got := readAll(t, out)
	if len(got) != 1 || got[0].Tick != 5030 {
		t.Errorf("expected the recover event only, got %+v", got)
	}
}

func TestFilterRejectsBadOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	out := filepath.Join(t.TempDir(), "x.f4ev")

	tests := []FilterOptions{
		{Output: out, Source: "radio"},
		{Output: out, Kind: "explode"},
		{Output: out, TickStart: "soon"},
		{Output: out, TickEnd: "-1"},
	}
	for _, opts := range tests {
		if err := RunFilter(path, opts, io.Discard); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}
