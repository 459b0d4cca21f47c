package fault

import "fmt"

// State is the state of a single fault entry.
type State uint8

const (
	// StateIdle indicates no fault is present.
	StateIdle State = iota

	// StateActive indicates a latched fault waiting for Clear.
	StateActive

	// StateRecovering indicates the cooldown timer is running.
	StateRecovering
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateRecovering:
		return "RECOVERING"
	default:
		return "UNKNOWN"
	}
}

// Mask is a set of registry indices packed into a 32-bit word.
type Mask uint32

// Has reports whether index i is in the set.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= MaxCapacity {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// Indices returns the members of the set in ascending order.
func (m Mask) Indices() []int {
	var out []int
	for i := 0; i < MaxCapacity; i++ {
		if m.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of members.
func (m Mask) Count() int {
	n := 0
	for v := uint32(m); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// String formats the raw mask as 0x%08x.
func (m Mask) String() string {
	return fmt.Sprintf("0x%08x", uint32(m))
}

func (m *Mask) set(i uint8) {
	*m |= 1 << i
}

func (m *Mask) clear(i uint8) {
	*m &^= 1 << i
}

// Masks is a snapshot of both diagnostic masks.
type Masks struct {
	// Active has bit N set while fault N is ACTIVE or RECOVERING.
	Active Mask

	// History has bit N set if fault N triggered since its last history clear.
	History Mask
}
