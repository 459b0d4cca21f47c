// Package config loads the YAML board description used by the simulator:
// buttons, LEDs, ticker tasks, faults and diagnostic outputs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Clock selects the tick source.
const (
	// ClockSystem runs on the host monotonic clock.
	ClockSystem = "system"

	// ClockMock only moves when advanced explicitly.
	ClockMock = "mock"
)

// Task actions understood by the simulator.
const (
	ActionButtonPoll = "button_poll"
	ActionLEDBlink   = "led_blink"
	ActionHeartbeat  = "heartbeat"
)

// Config is the full board description.
type Config struct {
	Board       Board       `yaml:"board"`
	Buttons     []Button    `yaml:"buttons"`
	LEDs        []LED       `yaml:"leds"`
	Tasks       []Task      `yaml:"tasks"`
	Faults      []Fault     `yaml:"faults"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Board holds board-wide settings.
type Board struct {
	Name  string `yaml:"name"`
	Clock string `yaml:"clock"`

	// FaultCapacity sizes the fault registry; 0 selects the default.
	FaultCapacity int `yaml:"fault_capacity"`
}

// Button describes a debounced input.
type Button struct {
	Name       string `yaml:"name"`
	DebounceMs uint32 `yaml:"debounce_ms"`
	HoldMs     uint32 `yaml:"hold_ms"`
	Inverted   bool   `yaml:"inverted"`
}

// LED describes an indicator output.
type LED struct {
	Name      string `yaml:"name"`
	InitialOn bool   `yaml:"initial_on"`
}

// Task describes a periodic ticker task.
type Task struct {
	Name     string `yaml:"name"`
	Action   string `yaml:"action"`
	PeriodMs uint32 `yaml:"period_ms"`

	// Target names the LED toggled by led_blink.
	Target string `yaml:"target,omitempty"`
}

// Fault describes a fault whose condition is read from a simulated input.
type Fault struct {
	Name string `yaml:"name"`

	// Input is "button:<name>" or "flag:<name>".
	Input string `yaml:"input"`

	// LED is lit while the fault is active. Optional.
	LED string `yaml:"led,omitempty"`

	// RecoveryMs is the cooldown; 0 latches the fault.
	RecoveryMs int64 `yaml:"recovery_ms"`
}

// Diagnostics configures log and event outputs.
type Diagnostics struct {
	LogLevel string `yaml:"log_level"`

	// EventLog is a CBOR event capture file. Empty disables capture.
	EventLog string `yaml:"event_log,omitempty"`

	// EventBuffer is the size of the in-memory event ring (power of two).
	EventBuffer int `yaml:"event_buffer"`

	// Serial mirrors console output to a UART. Empty disables it.
	Serial string `yaml:"serial,omitempty"`
	Baud   int    `yaml:"baud,omitempty"`
	CRLF   bool   `yaml:"crlf"`
}

// Default returns the Nucleo demo board: one user button, a status and a
// fault LED, a blinking heartbeat and two faults.
func Default() *Config {
	return &Config{
		Board: Board{
			Name:  "nucleo-f411re",
			Clock: ClockSystem,
		},
		Buttons: []Button{
			{Name: "user", DebounceMs: 20, HoldMs: 1000},
		},
		LEDs: []LED{
			{Name: "status"},
			{Name: "fault"},
		},
		Tasks: []Task{
			{Name: "button_poll", Action: ActionButtonPoll, PeriodMs: 10},
			{Name: "led_blink", Action: ActionLEDBlink, PeriodMs: 500, Target: "status"},
			{Name: "heartbeat", Action: ActionHeartbeat, PeriodMs: 1000},
		},
		Faults: []Fault{
			{Name: "button_fault", Input: "button:user", LED: "fault", RecoveryMs: 5000},
			{Name: "overtemp", Input: "flag:overtemp", LED: "fault"},
		},
		Diagnostics: Diagnostics{
			LogLevel:    "info",
			EventBuffer: 64,
			CRLF:        true,
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Lists present in
// the document replace the default lists; unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
