// Package sim assembles a host-side board from a config.Config: a tick
// source, simulated buttons and LEDs, the ticker and the fault manager. It
// is the main loop of the firmware expressed as Step.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/f4kit/f4kit/pkg/bsp"
	"github.com/f4kit/f4kit/pkg/config"
	"github.com/f4kit/f4kit/pkg/fault"
	"github.com/f4kit/f4kit/pkg/log"
	"github.com/f4kit/f4kit/pkg/ticker"
	"github.com/f4kit/f4kit/pkg/timebase"
	"github.com/f4kit/f4kit/pkg/uprint"
)

// Board errors.
var (
	ErrUnknownButton = errors.New("unknown button")
	ErrUnknownFlag   = errors.New("unknown flag")
	ErrUnknownFault  = errors.New("unknown fault")
	ErrSystemClock   = errors.New("board runs on the system clock")
)

type button struct {
	btn *bsp.Button
	pin *bsp.SimPin
	cfg config.Button
}

// Board is a simulated board. Step, Advance and the input setters are safe
// to call from different goroutines.
type Board struct {
	// stepMu serializes main-loop iterations against operator commands.
	stepMu sync.Mutex

	cfg    *config.Config
	clock  timebase.Source
	mock   *timebase.Mock
	bootID string

	logger *slog.Logger
	events log.Logger
	ring   *log.RingLogger
	out    *uprint.Printer

	buttons     map[string]*button
	buttonOrder []string
	leds        map[string]*bsp.LED
	ledOrder    []string
	flags       map[string]*atomic.Bool
	faultLEDs   map[string][]*fault.Fault

	ticker *ticker.Scheduler
	faults *fault.Manager
}

// Option configures a Board.
type Option func(*options)

type options struct {
	logger *slog.Logger
	events []log.Logger
	out    *uprint.Printer
	clock  timebase.Source
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventLogger adds a diagnostic event sink next to the in-memory ring.
func WithEventLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.events = append(o.events, l)
		}
	}
}

// WithOutput sets the console printer used for board messages.
func WithOutput(p *uprint.Printer) Option {
	return func(o *options) { o.out = p }
}

// WithClock overrides the tick source selected by the config.
func WithClock(src timebase.Source) Option {
	return func(o *options) { o.clock = src }
}

// New builds a Board from cfg.
func New(cfg *config.Config, opts ...Option) (*Board, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.out == nil {
		o.out = uprint.New([]io.Writer{io.Discard})
	}

	b := &Board{
		cfg:       cfg,
		bootID:    uuid.NewString(),
		logger:    o.logger,
		out:       o.out,
		buttons:   make(map[string]*button),
		leds:      make(map[string]*bsp.LED),
		flags:     make(map[string]*atomic.Bool),
		faultLEDs: make(map[string][]*fault.Fault),
	}

	switch {
	case o.clock != nil:
		b.clock = o.clock
		b.mock, _ = o.clock.(*timebase.Mock)
	case cfg.Board.Clock == config.ClockMock:
		b.mock = timebase.NewMock()
		b.clock = b.mock
	default:
		b.clock = timebase.NewSystem()
	}

	ring, err := log.NewRingLogger(cfg.Diagnostics.EventBuffer)
	if err != nil {
		return nil, fmt.Errorf("event buffer: %w", err)
	}
	b.ring = ring
	b.events = log.NewBootLogger(log.NewMultiLogger(append([]log.Logger{ring}, o.events...)...), b.bootID)
	b.logger = b.logger.With("boot_id", b.bootID)

	for _, lc := range cfg.LEDs {
		led := bsp.NewLED(lc.Name, bsp.NewSimPin(lc.InitialOn))
		b.leds[lc.Name] = led
		b.ledOrder = append(b.ledOrder, lc.Name)
	}

	for _, bc := range cfg.Buttons {
		// Released level: low, or high for active-low buttons.
		pin := bsp.NewSimPin(bc.Inverted)
		btn := bsp.NewButton(bsp.ButtonConfig{
			Name:       bc.Name,
			DebounceMs: bc.DebounceMs,
			HoldMs:     bc.HoldMs,
			Inverted:   bc.Inverted,
		}, pin, b.clock)
		b.buttons[bc.Name] = &button{btn: btn, pin: pin, cfg: bc}
		b.buttonOrder = append(b.buttonOrder, bc.Name)
	}

	if err := b.buildFaults(); err != nil {
		return nil, err
	}
	b.buildTicker()

	b.logger.Info("board initialised",
		"board", cfg.Board.Name, "clock", cfg.Board.Clock,
		"buttons", len(b.buttons), "leds", len(b.leds),
		"tasks", b.ticker.Count(), "faults", b.faults.Count())
	b.out.Printf("Init the board! (%s)\n", cfg.Board.Name)
	return b, nil
}

func (b *Board) buildFaults() error {
	mgr, err := fault.New(b.clock, b.cfg.Board.FaultCapacity,
		fault.WithLogger(b.logger.With("component", "fault")),
		fault.WithEventLogger(b.events))
	if err != nil {
		return err
	}
	b.faults = mgr

	for _, fc := range b.cfg.Faults {
		in, err := config.ParseInput(fc.Input)
		if err != nil {
			return err
		}

		var detect func() bool
		switch in.Kind {
		case config.InputButton:
			btn := b.buttons[in.Name].btn
			detect = btn.IsPressed
		case config.InputFlag:
			flag, ok := b.flags[in.Name]
			if !ok {
				flag = new(atomic.Bool)
				b.flags[in.Name] = flag
			}
			detect = flag.Load
		}

		var handle *fault.Fault
		name := fc.Name
		ledName := fc.LED
		handle, err = mgr.Register(&fault.Config{
			Name:   name,
			Detect: detect,
			OnFault: func() {
				b.leds[ledName].Set(true)
				b.out.Printf("[FAULT] '%s' triggered (#%d)\n", name, handle.TriggerCount())
			},
			OnRecover: func() {
				b.leds[ledName].Set(b.ledDemanded(ledName))
				b.out.Printf("[FAULT] '%s' recovered\n", name)
			},
			RecoveryMs: uint32(fc.RecoveryMs),
		})
		if err != nil {
			return fmt.Errorf("register fault %s: %w", fc.Name, err)
		}
		if ledName != "" {
			b.faultLEDs[ledName] = append(b.faultLEDs[ledName], handle)
		}
	}
	return nil
}

// ledDemanded reports whether any fault driving the LED is still raised.
// Called from fault callbacks, so it only reads fault state.
func (b *Board) ledDemanded(name string) bool {
	for _, f := range b.faultLEDs[name] {
		if f.State() != fault.StateIdle {
			return true
		}
	}
	return false
}

func (b *Board) buildTicker() {
	tasks := make([]ticker.Task, 0, len(b.cfg.Tasks))
	for _, tc := range b.cfg.Tasks {
		var fn func()
		switch tc.Action {
		case config.ActionButtonPoll:
			fn = b.pollButtons
		case config.ActionLEDBlink:
			fn = b.leds[tc.Target].Toggle
		case config.ActionHeartbeat:
			fn = b.heartbeat
		}
		tasks = append(tasks, ticker.Task{Fn: fn, PeriodMs: tc.PeriodMs, Name: tc.Name})
	}
	b.ticker = ticker.New(b.clock, tasks,
		ticker.WithLogger(b.logger.With("component", "ticker")),
		ticker.WithEventLogger(b.events))
}

func (b *Board) pollButtons() {
	for _, name := range b.buttonOrder {
		btn := b.buttons[name].btn
		btn.Update()
		if ev := btn.Event(); ev != bsp.EventNone {
			b.logger.Debug("button event", "button", name, "event", ev.String())
			b.out.Printf("[BTN] %s %s\n", name, ev)
		}
	}
}

func (b *Board) heartbeat() {
	b.logger.Info("heartbeat", "uptime_ms", b.clock.Now(), "active_mask", b.faults.Masks().Active.String())
}

// Step runs one main-loop iteration: the ticker, then the fault manager.
func (b *Board) Step() {
	b.stepMu.Lock()
	defer b.stepMu.Unlock()
	b.stepLocked()
}

func (b *Board) stepLocked() {
	b.ticker.Update()
	b.faults.Update()
}

// Advance moves a mock clock forward ms milliseconds, stepping after each
// millisecond.
func (b *Board) Advance(ms uint64) error {
	if b.mock == nil {
		return ErrSystemClock
	}
	b.stepMu.Lock()
	defer b.stepMu.Unlock()

	for i := uint64(0); i < ms; i++ {
		b.mock.Advance(1)
		b.stepLocked()
	}
	return nil
}

// Run steps the board every interval until ctx is done. On a mock clock each
// interval also advances the clock by the same amount.
func (b *Board) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if b.mock != nil {
				_ = b.Advance(uint64(interval / time.Millisecond))
				continue
			}
			b.Step()
		}
	}
}

// Press drives a button pin to its pressed level. The press is seen after
// the next polls pass the debounce window.
func (b *Board) Press(name string) error {
	return b.setButton(name, true)
}

// Release drives a button pin to its released level.
func (b *Board) Release(name string) error {
	return b.setButton(name, false)
}

func (b *Board) setButton(name string, pressed bool) error {
	btn, ok := b.buttons[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownButton, name)
	}
	b.stepMu.Lock()
	btn.pin.Write(pressed != btn.cfg.Inverted)
	b.stepMu.Unlock()

	action := "release"
	if pressed {
		action = "press"
	}
	b.input("button:"+name, action)
	return nil
}

// SetFlag sets a manual fault input.
func (b *Board) SetFlag(name string, present bool) error {
	flag, ok := b.flags[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
	b.stepMu.Lock()
	flag.Store(present)
	b.stepMu.Unlock()

	action := "unset"
	if present {
		action = "set"
	}
	b.input("flag:"+name, action)
	return nil
}

// Clear manually clears the named fault.
func (b *Board) Clear(name string) error {
	f := b.faults.Lookup(name)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownFault, name)
	}
	b.stepMu.Lock()
	defer b.stepMu.Unlock()
	return f.Clear()
}

// ClearHistory clears the history of the named fault, or of every fault when
// name is empty or "all".
func (b *Board) ClearHistory(name string) error {
	b.stepMu.Lock()
	defer b.stepMu.Unlock()

	if name == "" || name == "all" {
		b.faults.ClearHistoryAll()
		return nil
	}
	f := b.faults.Lookup(name)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownFault, name)
	}
	f.ClearHistory()
	return nil
}

func (b *Board) input(name, action string) {
	b.logger.Debug("input changed", "input", name, "action", action)
	b.events.Log(log.Event{
		Timestamp: time.Now(),
		Tick:      b.clock.Now(),
		Source:    log.SourceBoard,
		Kind:      log.KindInput,
		Name:      name,
		Index:     -1,
		Message:   action,
	})
}

// BootID returns the identifier stamped on this run's events.
func (b *Board) BootID() string { return b.bootID }

// Now returns the current tick.
func (b *Board) Now() uint64 { return b.clock.Now() }

// Mock reports whether the board runs on a mock clock.
func (b *Board) Mock() bool { return b.mock != nil }

// Faults returns the fault manager.
func (b *Board) Faults() *fault.Manager { return b.faults }

// Ticker returns the scheduler.
func (b *Board) Ticker() *ticker.Scheduler { return b.ticker }

// Events returns the buffered diagnostic events, oldest first.
func (b *Board) Events() []log.Event { return b.ring.Events() }

// LED returns the named LED, or nil.
func (b *Board) LED(name string) *bsp.LED { return b.leds[name] }

// Button returns the named button, or nil.
func (b *Board) Button(name string) *bsp.Button {
	if btn, ok := b.buttons[name]; ok {
		return btn.btn
	}
	return nil
}

// Flag returns the value of a manual fault input.
func (b *Board) Flag(name string) (bool, error) {
	flag, ok := b.flags[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
	return flag.Load(), nil
}

// Flags returns the manual fault input names, sorted.
func (b *Board) Flags() []string {
	names := make([]string, 0, len(b.flags))
	for name := range b.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrintIO writes the button and LED states to w.
func (b *Board) PrintIO(w io.Writer) {
	fmt.Fprintln(w, "===================================")
	fmt.Fprintf(w, "BOARD %s  tick=%d\n", b.cfg.Board.Name, b.clock.Now())
	for _, name := range b.buttonOrder {
		btn := b.buttons[name].btn
		fmt.Fprintf(w, "  button %s  state=%s  pressed=%t\n", name, btn.State(), btn.IsPressed())
	}
	for _, name := range b.ledOrder {
		state := "off"
		if b.leds[name].On() {
			state = "on"
		}
		fmt.Fprintf(w, "  led %s  %s\n", name, state)
	}
	for _, name := range b.Flags() {
		v, _ := b.Flag(name)
		fmt.Fprintf(w, "  flag %s  %t\n", name, v)
	}
	fmt.Fprintln(w, "===================================")
}
