package fault

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/f4kit/f4kit/pkg/log"
	"github.com/f4kit/f4kit/pkg/timebase"
	"github.com/f4kit/f4kit/pkg/timer"
)

// Fault is a handle to a registered fault entry. Handles stay valid for the
// life of the Manager; a nil handle is accepted everywhere and reads as IDLE.
type Fault struct {
	mgr   *Manager
	index uint8
	cfg   Config

	state         State
	recovery      timer.Timer
	triggerCount  uint32
	everTriggered bool
}

// Manager owns the fault registry and the diagnostic masks.
type Manager struct {
	// updateMu serializes Register, Update, Clear and the history clears.
	updateMu sync.Mutex

	// mu guards entry state and the masks.
	mu      sync.RWMutex
	entries []Fault
	count   int
	active  Mask
	history Mask

	src    timebase.Source
	logger *slog.Logger
	events log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the operational logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEventLogger sets the diagnostic event logger.
func WithEventLogger(l log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.events = l
		}
	}
}

// New creates an empty Manager holding up to capacity faults. A capacity of 0
// selects DefaultCapacity. A nil src falls back to a system clock.
func New(src timebase.Source, capacity int, opts ...Option) (*Manager, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 || capacity > MaxCapacity {
		return nil, ErrCapacity
	}
	if src == nil {
		src = timebase.NewSystem()
	}

	m := &Manager{
		entries: make([]Fault, capacity),
		src:     src,
		logger:  slog.New(slog.DiscardHandler),
		events:  log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Reset empties the registry and zeroes both masks. Handles issued before the
// reset become inert and read as IDLE; later registrations get new handles.
func (m *Manager) Reset() {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	m.mu.Lock()
	for i := range m.entries {
		m.entries[i] = Fault{}
	}
	m.entries = make([]Fault, len(m.entries))
	m.count = 0
	m.active = 0
	m.history = 0
	m.mu.Unlock()

	m.logger.Info("fault manager reset")
}

// Register adds a fault in IDLE state and returns its handle. The entry index,
// which is also its mask bit, is the registration order.
func (m *Manager) Register(cfg *Config) (*Fault, error) {
	if err := cfg.validate(); err != nil {
		m.logger.Warn("fault registration rejected", "error", err)
		return nil, err
	}

	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	m.mu.Lock()
	if m.count >= len(m.entries) {
		m.mu.Unlock()
		m.logger.Warn("fault registry full", "fault", cfg.Name, "capacity", len(m.entries))
		return nil, ErrRegistryFull
	}
	f := &m.entries[m.count]
	*f = Fault{
		mgr:   m,
		index: uint8(m.count),
		cfg:   *cfg,
	}
	m.count++
	ev := m.snapshotLocked(f, "")
	m.mu.Unlock()

	m.logger.Debug("fault registered",
		"fault", f.cfg.Name, "index", f.index, "recovery_ms", f.cfg.RecoveryMs)
	m.emit(log.KindRegister, f, ev, "")
	return f, nil
}

// Update advances every registered fault's state machine by one step, in
// registration order. Callbacks run synchronously on the caller's goroutine
// once the pass is complete, in the order of the transitions.
func (m *Manager) Update() {
	m.updateMu.Lock()

	m.mu.RLock()
	n := m.count
	m.mu.RUnlock()

	var pending []func()
	for i := 0; i < n; i++ {
		if cb := m.step(&m.entries[i]); cb != nil {
			pending = append(pending, cb)
		}
	}
	m.updateMu.Unlock()

	for _, cb := range pending {
		cb()
	}
}

// step runs one transition for f and returns the callback it owes, if any.
// Entry state is only written under updateMu, so reads here need no lock;
// writes take mu to exclude readers.
func (m *Manager) step(f *Fault) func() {
	switch f.state {
	case StateIdle:
		if !f.cfg.Detect() {
			return nil
		}
		return m.trigger(f)

	case StateRecovering:
		m.mu.Lock()
		elapsed := f.recovery.HasElapsed()
		m.mu.Unlock()
		if !elapsed {
			return nil
		}

		if f.cfg.Detect() {
			m.mu.Lock()
			f.recovery.Setup(m.src, uint64(f.cfg.RecoveryMs), false)
			ev := m.snapshotLocked(f, StateRecovering.String())
			m.mu.Unlock()

			m.logger.Warn("fault still active, extending cooldown",
				"fault", f.cfg.Name, "recovery_ms", f.cfg.RecoveryMs)
			m.emit(log.KindExtend, f, ev, "still active, extending cooldown")
			return nil
		}

		m.mu.Lock()
		m.active.clear(f.index)
		f.state = StateIdle
		ev := m.snapshotLocked(f, StateRecovering.String())
		m.mu.Unlock()

		m.logger.Info("fault recovered", "fault", f.cfg.Name)
		m.emit(log.KindRecover, f, ev, "recovering")
		return f.cfg.OnRecover

	case StateActive:
		// Latched; only Clear leaves this state.
	}
	return nil
}

func (m *Manager) trigger(f *Fault) func() {
	m.mu.Lock()
	if f.triggerCount < math.MaxUint32 {
		f.triggerCount++
	}
	f.everTriggered = true
	m.active.set(f.index)
	m.history.set(f.index)
	if f.cfg.RecoveryMs > 0 {
		f.recovery.Setup(m.src, uint64(f.cfg.RecoveryMs), false)
		f.state = StateRecovering
	} else {
		f.state = StateActive
	}
	count := f.triggerCount
	ev := m.snapshotLocked(f, StateIdle.String())
	m.mu.Unlock()

	m.logger.Warn("fault triggered",
		"fault", f.cfg.Name, "count", count, "state", ev.NewState)
	m.emit(log.KindTrigger, f, ev, "")
	return f.cfg.OnFault
}

// Clear manually clears a latched fault. It succeeds only when the fault is
// ACTIVE and its condition is no longer detected; on success OnRecover runs
// and the fault returns to IDLE. A nil handle is a no-op.
func (m *Manager) Clear(f *Fault) error {
	if f == nil {
		return nil
	}

	m.updateMu.Lock()
	onRecover, err := m.clearLocked(f)
	m.updateMu.Unlock()

	if onRecover != nil {
		onRecover()
	}
	return err
}

func (m *Manager) clearLocked(f *Fault) (func(), error) {
	if f.mgr != m {
		return nil, nil
	}
	if f.state != StateActive {
		return nil, ErrNotLatched
	}

	if f.cfg.Detect() {
		m.mu.RLock()
		ev := m.snapshotLocked(f, StateActive.String())
		m.mu.RUnlock()

		m.logger.Warn("fault clear ignored, condition still active", "fault", f.cfg.Name)
		m.emit(log.KindClearRefused, f, ev, "clear ignored, condition still active")
		return nil, ErrConditionPresent
	}

	m.mu.Lock()
	m.active.clear(f.index)
	f.state = StateIdle
	ev := m.snapshotLocked(f, StateActive.String())
	m.mu.Unlock()

	m.logger.Info("fault cleared manually", "fault", f.cfg.Name)
	m.emit(log.KindClear, f, ev, "cleared manually")
	return f.cfg.OnRecover, nil
}

// ClearHistory resets the history flag and history bit of one fault. State,
// trigger count and the active bit are untouched.
func (m *Manager) ClearHistory(f *Fault) {
	if f == nil {
		return
	}

	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	if f.mgr != m {
		return
	}
	m.mu.Lock()
	f.everTriggered = false
	m.history.clear(f.index)
	ev := m.snapshotLocked(f, "")
	m.mu.Unlock()

	m.logger.Debug("fault history cleared", "fault", f.cfg.Name)
	m.emit(log.KindHistoryClear, f, ev, "")
}

// ClearHistoryAll resets every history flag and zeroes the history mask.
func (m *Manager) ClearHistoryAll() {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	m.mu.Lock()
	for i := 0; i < m.count; i++ {
		m.entries[i].everTriggered = false
	}
	m.history = 0
	ev := &log.FaultEvent{ActiveMask: uint32(m.active), HistoryMask: uint32(m.history)}
	m.mu.Unlock()

	m.logger.Debug("all fault history cleared")
	m.emit(log.KindHistoryClear, nil, ev, "all")
}

// Masks returns a snapshot of both diagnostic masks.
func (m *Manager) Masks() Masks {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Masks{Active: m.active, History: m.history}
}

// AnyActive reports whether any fault is ACTIVE or RECOVERING.
func (m *Manager) AnyActive() bool {
	return m.Masks().Active != 0
}

// AnyInHistory reports whether any fault has triggered since its last
// history clear.
func (m *Manager) AnyInHistory() bool {
	return m.Masks().History != 0
}

// Count returns the number of registered faults.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

// Capacity returns the registry size.
func (m *Manager) Capacity() int {
	return len(m.entries)
}

// At returns the handle registered at index, or nil.
func (m *Manager) At(index int) *Fault {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= m.count {
		return nil
	}
	return &m.entries[index]
}

// Lookup returns the first fault registered under name, or nil.
func (m *Manager) Lookup(name string) *Fault {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := 0; i < m.count; i++ {
		if m.entries[i].cfg.Name == name {
			return &m.entries[i]
		}
	}
	return nil
}

// snapshotLocked builds the event payload for f. Caller holds mu.
func (m *Manager) snapshotLocked(f *Fault, oldState string) *log.FaultEvent {
	return &log.FaultEvent{
		OldState:     oldState,
		NewState:     f.state.String(),
		TriggerCount: f.triggerCount,
		ActiveMask:   uint32(m.active),
		HistoryMask:  uint32(m.history),
		RecoveryMs:   f.cfg.RecoveryMs,
	}
}

func (m *Manager) emit(kind log.Kind, f *Fault, ev *log.FaultEvent, msg string) {
	event := log.Event{
		Timestamp: time.Now(),
		Tick:      m.src.Now(),
		Source:    log.SourceFault,
		Kind:      kind,
		Index:     -1,
		Fault:     ev,
		Message:   msg,
	}
	if f != nil {
		event.Name = f.cfg.Name
		event.Index = int(f.index)
	}
	m.events.Log(event)
}

// Name returns the configured fault name.
func (f *Fault) Name() string {
	if f == nil {
		return ""
	}
	return f.cfg.Name
}

// Index returns the registry index (and mask bit), or -1 for a nil handle.
func (f *Fault) Index() int {
	if f == nil || f.mgr == nil {
		return -1
	}
	return int(f.index)
}

// State returns the current state. A nil handle reads as IDLE.
func (f *Fault) State() State {
	if f == nil || f.mgr == nil {
		return StateIdle
	}
	f.mgr.mu.RLock()
	defer f.mgr.mu.RUnlock()
	return f.state
}

// TriggerCount returns the number of IDLE-to-fault transitions since
// registration, saturating at math.MaxUint32. A nil handle reads as 0.
func (f *Fault) TriggerCount() uint32 {
	if f == nil || f.mgr == nil {
		return 0
	}
	f.mgr.mu.RLock()
	defer f.mgr.mu.RUnlock()
	return f.triggerCount
}

// EverTriggered reports whether the fault has triggered since its last
// history clear. A nil handle reads as false.
func (f *Fault) EverTriggered() bool {
	if f == nil || f.mgr == nil {
		return false
	}
	f.mgr.mu.RLock()
	defer f.mgr.mu.RUnlock()
	return f.everTriggered
}

// Clear is shorthand for Manager.Clear on the owning manager.
func (f *Fault) Clear() error {
	if f == nil || f.mgr == nil {
		return nil
	}
	return f.mgr.Clear(f)
}

// ClearHistory is shorthand for Manager.ClearHistory on the owning manager.
func (f *Fault) ClearHistory() {
	if f == nil || f.mgr == nil {
		return
	}
	f.mgr.ClearHistory(f)
}
