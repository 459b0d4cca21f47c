package fault

import (
	"fmt"
	"io"
)

// Status is a snapshot of one fault entry.
type Status struct {
	Index         int
	Name          string
	State         State
	TriggerCount  uint32
	EverTriggered bool
	RecoveryMs    uint32

	// RecoveryRemainingMs is the time left on the cooldown while RECOVERING.
	RecoveryRemainingMs uint64
}

// Status returns a snapshot of every registered fault, in registration order.
func (m *Manager) Status() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, m.count)
	for i := 0; i < m.count; i++ {
		f := &m.entries[i]
		out[i] = Status{
			Index:         i,
			Name:          f.cfg.Name,
			State:         f.state,
			TriggerCount:  f.triggerCount,
			EverTriggered: f.everTriggered,
			RecoveryMs:    f.cfg.RecoveryMs,
		}
		if f.state == StateRecovering {
			out[i].RecoveryRemainingMs = f.recovery.Remaining()
		}
	}
	return out
}

// PrintStatus writes a human-readable status table to w.
func (m *Manager) PrintStatus(w io.Writer) {
	masks := m.Masks()
	faults := m.Status()

	fmt.Fprintln(w, "===================================")
	fmt.Fprintf(w, "FAULT STATUS (%d registered)\n", len(faults))
	fmt.Fprintf(w, "active_mask  = %s\n", masks.Active)
	fmt.Fprintf(w, "history_mask = %s\n", masks.History)
	fmt.Fprintln(w, "===================================")
	for _, s := range faults {
		history := "no"
		if s.EverTriggered {
			history = "YES"
		}
		fmt.Fprintf(w, "  [%d] %s  state=%s  count=%d  history=%s",
			s.Index, s.Name, s.State, s.TriggerCount, history)
		if s.State == StateRecovering {
			fmt.Fprintf(w, "  remaining=%dms", s.RecoveryRemainingMs)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "===================================")
}
