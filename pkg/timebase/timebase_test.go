package timebase

import (
	"testing"
	"time"
)

func TestMockStartsAtZero(t *testing.T) {
	m := NewMock()
	if got := m.Now(); got != 0 {
		t.Errorf("Now() = %d, want 0", got)
	}
}

func TestMockSetAdvanceReset(t *testing.T) {
	m := NewMock()

	m.Set(1000)
	if got := m.Now(); got != 1000 {
		t.Errorf("after Set: Now() = %d, want 1000", got)
	}

	m.Advance(250)
	if got := m.Now(); got != 1250 {
		t.Errorf("after Advance: Now() = %d, want 1250", got)
	}

	m.Reset()
	if got := m.Now(); got != 0 {
		t.Errorf("after Reset: Now() = %d, want 0", got)
	}
}

func TestFuncAdapter(t *testing.T) {
	var ticks uint64 = 42
	src := Func(func() uint64 { return ticks })

	if got := src.Now(); got != 42 {
		t.Errorf("Now() = %d, want 42", got)
	}
	ticks = 43
	if got := src.Now(); got != 43 {
		t.Errorf("Now() = %d, want 43", got)
	}
}

func TestSystemIsMonotonic(t *testing.T) {
	s := &System{epoch: time.Now().Add(-5 * time.Second)}

	first := s.Now()
	if first < 5000 {
		t.Errorf("Now() = %d, want >= 5000", first)
	}
	if second := s.Now(); second < first {
		t.Errorf("Now() went backwards: %d then %d", first, second)
	}
}
