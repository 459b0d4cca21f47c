package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/f4kit/f4kit/pkg/fault"
	"github.com/f4kit/f4kit/pkg/ticker"
)

// Validation errors.
var (
	ErrInvalidBoard       = errors.New("invalid board")
	ErrInvalidButton      = errors.New("invalid button")
	ErrInvalidLED         = errors.New("invalid led")
	ErrInvalidTask        = errors.New("invalid task")
	ErrInvalidFault       = errors.New("invalid fault")
	ErrInvalidDiagnostics = errors.New("invalid diagnostics")
)

// Input kinds for Fault.Input.
const (
	InputButton = "button"
	InputFlag   = "flag"
)

// Input is a parsed fault input reference.
type Input struct {
	Kind string
	Name string
}

// String returns the "kind:name" form.
func (i Input) String() string {
	return i.Kind + ":" + i.Name
}

// ParseInput parses "button:<name>" or "flag:<name>".
func ParseInput(s string) (Input, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Input{}, fmt.Errorf("input %q: want kind:name", s)
	}
	switch kind {
	case InputButton, InputFlag:
		return Input{Kind: kind, Name: name}, nil
	default:
		return Input{}, fmt.Errorf("input %q: unknown kind %q (valid: button, flag)", s, kind)
	}
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// Validate checks capacity limits, names and cross references.
func (c *Config) Validate() error {
	switch c.Board.Clock {
	case ClockSystem, ClockMock:
	default:
		return fmt.Errorf("%w: clock %q (valid: system, mock)", ErrInvalidBoard, c.Board.Clock)
	}
	if c.Board.FaultCapacity < 0 || c.Board.FaultCapacity > fault.MaxCapacity {
		return fmt.Errorf("%w: fault_capacity %d out of range 0..%d",
			ErrInvalidBoard, c.Board.FaultCapacity, fault.MaxCapacity)
	}

	buttons := make(map[string]bool, len(c.Buttons))
	for i, b := range c.Buttons {
		if b.Name == "" {
			return fmt.Errorf("%w: buttons[%d] has no name", ErrInvalidButton, i)
		}
		if buttons[b.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidButton, b.Name)
		}
		buttons[b.Name] = true
	}

	leds := make(map[string]bool, len(c.LEDs))
	for i, l := range c.LEDs {
		if l.Name == "" {
			return fmt.Errorf("%w: leds[%d] has no name", ErrInvalidLED, i)
		}
		if leds[l.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidLED, l.Name)
		}
		leds[l.Name] = true
	}

	if len(c.Tasks) > ticker.MaxTasks {
		return fmt.Errorf("%w: %d tasks exceed the limit of %d", ErrInvalidTask, len(c.Tasks), ticker.MaxTasks)
	}
	tasks := make(map[string]bool, len(c.Tasks))
	for i, t := range c.Tasks {
		if t.Name == "" {
			return fmt.Errorf("%w: tasks[%d] has no name", ErrInvalidTask, i)
		}
		if tasks[t.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidTask, t.Name)
		}
		tasks[t.Name] = true

		switch t.Action {
		case ActionButtonPoll, ActionHeartbeat:
		case ActionLEDBlink:
			if !leds[t.Target] {
				return fmt.Errorf("%w: %s: unknown led %q", ErrInvalidTask, t.Name, t.Target)
			}
		default:
			return fmt.Errorf("%w: %s: unknown action %q", ErrInvalidTask, t.Name, t.Action)
		}
	}

	capacity := c.Board.FaultCapacity
	if capacity == 0 {
		capacity = fault.DefaultCapacity
	}
	if len(c.Faults) > capacity {
		return fmt.Errorf("%w: %d faults exceed the capacity of %d", ErrInvalidFault, len(c.Faults), capacity)
	}
	faults := make(map[string]bool, len(c.Faults))
	for i, f := range c.Faults {
		if f.Name == "" {
			return fmt.Errorf("%w: faults[%d] has no name", ErrInvalidFault, i)
		}
		if faults[f.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidFault, f.Name)
		}
		faults[f.Name] = true

		in, err := ParseInput(f.Input)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidFault, f.Name, err)
		}
		if in.Kind == InputButton && !buttons[in.Name] {
			return fmt.Errorf("%w: %s: unknown button %q", ErrInvalidFault, f.Name, in.Name)
		}
		if f.LED != "" && !leds[f.LED] {
			return fmt.Errorf("%w: %s: unknown led %q", ErrInvalidFault, f.Name, f.LED)
		}
		if f.RecoveryMs < 0 || f.RecoveryMs > math.MaxUint32 {
			return fmt.Errorf("%w: %s: recovery_ms %d out of range", ErrInvalidFault, f.Name, f.RecoveryMs)
		}
	}

	d := c.Diagnostics
	if _, err := ParseLevel(d.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDiagnostics, err)
	}
	if d.EventBuffer <= 0 || d.EventBuffer&(d.EventBuffer-1) != 0 {
		return fmt.Errorf("%w: event_buffer %d is not a power of two", ErrInvalidDiagnostics, d.EventBuffer)
	}
	if d.Baud < 0 {
		return fmt.Errorf("%w: baud %d", ErrInvalidDiagnostics, d.Baud)
	}
	return nil
}
