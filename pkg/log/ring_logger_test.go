package log

import "testing"

func TestRingLoggerKeepsNewest(t *testing.T) {
	rl, err := NewRingLogger(4)
	if err != nil {
		t.Fatalf("NewRingLogger: %v", err)
	}

	for i := 0; i < 6; i++ {
		rl.Log(Event{Tick: uint64(i)})
	}

	events := rl.Events()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	for i, e := range events {
		if want := uint64(i + 2); e.Tick != want {
			t.Errorf("events[%d].Tick = %d, want %d", i, e.Tick, want)
		}
	}
	if rl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", rl.Len())
	}

	rl.Reset()
	if rl.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", rl.Len())
	}
}

func TestRingLoggerRejectsBadSize(t *testing.T) {
	if _, err := NewRingLogger(5); err == nil {
		t.Error("NewRingLogger(5) error = nil, want error")
	}
}
