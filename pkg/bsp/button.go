package bsp

import (
	"sync"

	"github.com/f4kit/f4kit/pkg/timebase"
	"github.com/f4kit/f4kit/pkg/timer"
)

// ButtonState is the debounce state of a Button.
type ButtonState uint8

const (
	// ButtonIdle indicates the pin is inactive.
	ButtonIdle ButtonState = iota

	// ButtonDebounce indicates the pin went active and the debounce window is open.
	ButtonDebounce

	// ButtonPressed indicates a confirmed press.
	ButtonPressed

	// ButtonHeld indicates the hold time elapsed while pressed.
	ButtonHeld

	// ButtonReleaseDebounce indicates the pin went inactive and the release
	// debounce window is open.
	ButtonReleaseDebounce
)

// String returns a human-readable state name.
func (s ButtonState) String() string {
	switch s {
	case ButtonIdle:
		return "IDLE"
	case ButtonDebounce:
		return "DEBOUNCE"
	case ButtonPressed:
		return "PRESSED"
	case ButtonHeld:
		return "HELD"
	case ButtonReleaseDebounce:
		return "RELEASE_DB"
	default:
		return "UNKNOWN"
	}
}

// ButtonEvent is a debounced button event.
type ButtonEvent uint8

const (
	EventNone ButtonEvent = iota
	EventPressed
	EventReleased
	EventHeld
)

// String returns a human-readable event name.
func (e ButtonEvent) String() string {
	switch e {
	case EventNone:
		return "NONE"
	case EventPressed:
		return "PRESSED"
	case EventReleased:
		return "RELEASED"
	case EventHeld:
		return "HELD"
	default:
		return "UNKNOWN"
	}
}

// ButtonConfig configures a Button.
type ButtonConfig struct {
	Name       string
	DebounceMs uint32

	// HoldMs is the press duration that raises EventHeld. 0 disables it.
	HoldMs uint32

	// Inverted treats a low pin as pressed.
	Inverted bool
}

// Button debounces a Pin and reports press, release and hold events.
type Button struct {
	mu  sync.Mutex
	cfg ButtonConfig
	pin Pin
	src timebase.Source

	state    ButtonState
	debounce timer.Timer
	hold     timer.Timer
	pending  ButtonEvent
	pressed  bool
}

// NewButton returns an idle Button on pin. A nil src falls back to a system
// clock.
func NewButton(cfg ButtonConfig, pin Pin, src timebase.Source) *Button {
	if src == nil {
		src = timebase.NewSystem()
	}
	return &Button{cfg: cfg, pin: pin, src: src}
}

// Name returns the button name.
func (b *Button) Name() string {
	if b == nil {
		return ""
	}
	return b.cfg.Name
}

func (b *Button) active() bool {
	if b.pin == nil {
		return false
	}
	level := b.pin.Read()
	if b.cfg.Inverted {
		return !level
	}
	return level
}

// Update samples the pin and advances the debounce state machine.
func (b *Button) Update() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	active := b.active()

	switch b.state {
	case ButtonIdle:
		if active {
			b.debounce.Setup(b.src, uint64(b.cfg.DebounceMs), false)
			b.state = ButtonDebounce
		}

	case ButtonDebounce:
		if !active {
			// Glitch shorter than the debounce window.
			b.state = ButtonIdle
		} else if b.debounce.HasElapsed() {
			b.state = ButtonPressed
			b.pressed = true
			b.pending = EventPressed
			if b.cfg.HoldMs > 0 {
				b.hold.Setup(b.src, uint64(b.cfg.HoldMs), false)
			}
		}

	case ButtonPressed:
		if !active {
			b.debounce.Setup(b.src, uint64(b.cfg.DebounceMs), false)
			b.state = ButtonReleaseDebounce
		} else if b.cfg.HoldMs > 0 && b.hold.HasElapsed() {
			b.state = ButtonHeld
			b.pending = EventHeld
		}

	case ButtonHeld:
		if !active {
			b.debounce.Setup(b.src, uint64(b.cfg.DebounceMs), false)
			b.state = ButtonReleaseDebounce
		}

	case ButtonReleaseDebounce:
		if active {
			b.state = ButtonPressed
		} else if b.debounce.HasElapsed() {
			b.state = ButtonIdle
			b.pressed = false
			b.pending = EventReleased
		}
	}
}

// Event returns and consumes the pending event.
func (b *Button) Event() ButtonEvent {
	if b == nil {
		return EventNone
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ev := b.pending
	b.pending = EventNone
	return ev
}

// IsPressed reports the debounced logical state.
func (b *Button) IsPressed() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

// State returns the debounce state.
func (b *Button) State() ButtonState {
	if b == nil {
		return ButtonIdle
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
