package fault

import "errors"

// Capacity limits.
const (
	// DefaultCapacity is the registry size used when New is given 0.
	DefaultCapacity = 16

	// MaxCapacity is the width of the diagnostic masks.
	MaxCapacity = 32
)

// Registration and control errors.
var (
	ErrNilConfig        = errors.New("fault config is nil")
	ErrMissingDetect    = errors.New("fault config has no detect function")
	ErrMissingAction    = errors.New("fault config has no on-fault action")
	ErrRegistryFull     = errors.New("fault registry is full")
	ErrCapacity         = errors.New("fault capacity must be between 1 and 32")
	ErrNotLatched       = errors.New("fault is not latched")
	ErrConditionPresent = errors.New("fault condition still present")
)

// Config describes a fault at registration time.
type Config struct {
	// Name is a human-readable label for diagnostics.
	Name string

	// Detect reports whether the fault condition is present. Required.
	// It is polled on every Update and must be cheap and non-blocking.
	Detect func() bool

	// OnFault runs once per trigger. Required.
	OnFault func()

	// OnRecover runs once per recovery, automatic or manual. Optional.
	OnRecover func()

	// RecoveryMs is the cooldown in milliseconds. 0 latches the fault until
	// Clear is called.
	RecoveryMs uint32
}

// Condition is the capability form of a fault: an object that can detect its
// own condition and react to trigger and recovery.
type Condition interface {
	Detect() bool
	OnFault()
	OnRecover()
}

// ConfigFor builds a Config whose callbacks dispatch to c.
func ConfigFor(name string, c Condition, recoveryMs uint32) *Config {
	return &Config{
		Name:       name,
		Detect:     c.Detect,
		OnFault:    c.OnFault,
		OnRecover:  c.OnRecover,
		RecoveryMs: recoveryMs,
	}
}

func (c *Config) validate() error {
	switch {
	case c == nil:
		return ErrNilConfig
	case c.Detect == nil:
		return ErrMissingDetect
	case c.OnFault == nil:
		return ErrMissingAction
	}
	return nil
}
