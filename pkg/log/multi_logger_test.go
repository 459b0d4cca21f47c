package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	multi.Log(Event{
		Timestamp: time.Now(),
		Source:    SourceFault,
		Kind:      KindRecover,
		Name:      "overtemp",
	})

	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].Name != "overtemp" {
			t.Errorf("logger %d: Name = %q, want %q", i, mock.events[0].Name, "overtemp")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now()})
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	rec := &mockLogger{}
	multi := NewMultiLogger(nil, rec, nil)

	multi.Log(Event{Name: "x"})

	if len(rec.events) != 1 {
		t.Errorf("got %d events, want 1", len(rec.events))
	}
}
