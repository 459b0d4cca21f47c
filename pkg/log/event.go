package log

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a diagnostic event captured from a core component.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp is the wall-clock time the event was recorded.
	Timestamp time.Time `cbor:"1,keyasint"`

	// Tick is the monotonic millisecond tick at which the event happened.
	Tick uint64 `cbor:"2,keyasint"`

	// BootID identifies the run that produced the event (UUID).
	BootID string `cbor:"3,keyasint,omitempty"`

	// Source is the component that emitted the event.
	Source Source `cbor:"4,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"5,keyasint"`

	// Name is the fault, task or board object name.
	Name string `cbor:"6,keyasint,omitempty"`

	// Index is the registry index of the fault or task, -1 if not applicable.
	Index int `cbor:"7,keyasint"`

	// Type-specific payload (at most one of these is set).
	Fault *FaultEvent `cbor:"8,keyasint,omitempty"`
	Task  *TaskEvent  `cbor:"9,keyasint,omitempty"`

	// Message is an optional human-readable note.
	Message string `cbor:"10,keyasint,omitempty"`
}

// Source indicates which component emitted the event.
type Source uint8

const (
	// SourceFault is the fault manager.
	SourceFault Source = 0
	// SourceTicker is the periodic task scheduler.
	SourceTicker Source = 1
	// SourceBoard is the board assembly (inputs, operator commands).
	SourceBoard Source = 2
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceFault:
		return "FAULT"
	case SourceTicker:
		return "TICKER"
	case SourceBoard:
		return "BOARD"
	default:
		return "UNKNOWN"
	}
}

// ParseSource parses a case-insensitive source name.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(s) {
	case "fault":
		return SourceFault, nil
	case "ticker":
		return SourceTicker, nil
	case "board":
		return SourceBoard, nil
	default:
		return 0, fmt.Errorf("invalid source %q (valid: fault, ticker, board)", s)
	}
}

// Kind classifies the event.
type Kind uint8

const (
	// KindTrigger is a fault leaving IDLE.
	KindTrigger Kind = 0
	// KindExtend is a recovering fault whose condition was still present at
	// the end of its cooldown.
	KindExtend Kind = 1
	// KindRecover is an automatic return to IDLE after cooldown.
	KindRecover Kind = 2
	// KindClear is a successful manual clear of a latched fault.
	KindClear Kind = 3
	// KindClearRefused is a manual clear refused because the condition persists.
	KindClearRefused Kind = 4
	// KindHistoryClear is a history flag reset (single fault or all).
	KindHistoryClear Kind = 5
	// KindRegister is a fault registration.
	KindRegister Kind = 6
	// KindSchedulerInit is a ticker initialisation.
	KindSchedulerInit Kind = 7
	// KindTaskOverflow is a task table truncated to the scheduler capacity.
	KindTaskOverflow Kind = 8
	// KindInput is a simulated input change or operator command.
	KindInput Kind = 9
)

var kindNames = map[Kind]string{
	KindTrigger:       "TRIGGER",
	KindExtend:        "EXTEND",
	KindRecover:       "RECOVER",
	KindClear:         "CLEAR",
	KindClearRefused:  "CLEAR_REFUSED",
	KindHistoryClear:  "HISTORY_CLEAR",
	KindRegister:      "REGISTER",
	KindSchedulerInit: "SCHEDULER_INIT",
	KindTaskOverflow:  "TASK_OVERFLOW",
	KindInput:         "INPUT",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseKind parses a case-insensitive kind name such as "trigger" or
// "clear-refused".
func ParseKind(s string) (Kind, error) {
	want := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for k, name := range kindNames {
		if name == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid kind %q", s)
}

// FaultEvent captures a fault state transition.
type FaultEvent struct {
	// OldState is the state before the transition (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// TriggerCount is the fault's trigger count after the transition.
	TriggerCount uint32 `cbor:"3,keyasint"`

	// ActiveMask and HistoryMask snapshot the global masks after the transition.
	ActiveMask  uint32 `cbor:"4,keyasint"`
	HistoryMask uint32 `cbor:"5,keyasint"`

	// RecoveryMs is the configured cooldown (0 for latched faults).
	RecoveryMs uint32 `cbor:"6,keyasint,omitempty"`
}

// TaskEvent captures a scheduler event.
type TaskEvent struct {
	// PeriodMs is the task period, for per-task events.
	PeriodMs uint32 `cbor:"1,keyasint,omitempty"`

	// Requested is the number of tasks handed to the scheduler.
	Requested int `cbor:"2,keyasint,omitempty"`

	// Scheduled is the number of tasks actually scheduled.
	Scheduled int `cbor:"3,keyasint,omitempty"`
}
