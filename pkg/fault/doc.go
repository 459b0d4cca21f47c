// Package fault implements the fault manager: a fixed registry of fault
// entries, each driven by a user detection predicate through a three-state
// machine, plus two global diagnostic bitmasks.
//
// # States
//
//	IDLE        no fault present; Detect is polled on every Update
//	ACTIVE      latched (RecoveryMs == 0); only Clear leaves this state
//	RECOVERING  cooldown timer running (RecoveryMs > 0)
//
// # Transitions
//
// IDLE to ACTIVE or RECOVERING happens when Detect reports true. The trigger
// count is incremented, the fault's bit is set in both masks and OnFault runs
// exactly once.
//
// RECOVERING re-checks Detect only when the cooldown elapses. If the condition
// is still present the cooldown restarts; otherwise OnRecover runs once, the
// active bit is cleared and the fault returns to IDLE. A condition that keeps
// flapping therefore never escapes to IDLE while it is present at the check.
//
// ACTIVE returns to IDLE only through Clear, and only when Detect reports false
// at the moment of the call. A refused clear changes nothing.
//
// History bits and per-fault history flags survive recovery. They are reset
// only by ClearHistory and ClearHistoryAll.
//
// # Masks
//
// Bit N of the active mask is set while fault N is ACTIVE or RECOVERING.
// Bit N of the history mask is set once fault N has triggered since its last
// history clear. The registry index doubles as the bit position, so a
// Manager never holds more than MaxCapacity (32) faults.
//
// # Concurrency
//
// Register, Update, Clear and the history clears are serialized by one lock.
// State reads (Masks, Status, the handle accessors) use a separate lock and
// may be called from any goroutine.
//
// OnFault and OnRecover run after that lock is released: Update invokes them
// once its pass is complete, in transition order, and Clear after the fault is
// back in IDLE. A callback may therefore clear other faults or their history.
package fault
