package bsp

// LED drives an indicator through a Pin. A nil *LED or an LED without a pin
// ignores every call.
type LED struct {
	name string
	pin  Pin
}

// NewLED returns an LED named name on pin.
func NewLED(name string, pin Pin) *LED {
	return &LED{name: name, pin: pin}
}

// Name returns the LED name.
func (l *LED) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Set switches the LED on or off.
func (l *LED) Set(on bool) {
	if l == nil || l.pin == nil {
		return
	}
	l.pin.Write(on)
}

// Toggle inverts the LED.
func (l *LED) Toggle() {
	if l == nil || l.pin == nil {
		return
	}
	l.pin.Toggle()
}

// On reports whether the LED is lit.
func (l *LED) On() bool {
	if l == nil || l.pin == nil {
		return false
	}
	return l.pin.Read()
}
