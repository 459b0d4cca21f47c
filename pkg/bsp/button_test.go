package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f4kit/f4kit/pkg/timebase"
)

func newTestButton(cfg ButtonConfig) (*Button, *SimPin, *timebase.Mock) {
	clk := timebase.NewMock()
	pin := NewSimPin(cfg.Inverted)
	return NewButton(cfg, pin, clk), pin, clk
}

func TestButtonPressHoldRelease(t *testing.T) {
	b, pin, clk := newTestButton(ButtonConfig{Name: "user", DebounceMs: 20, HoldMs: 1000})

	pin.Write(true)
	b.Update()
	assert.Equal(t, ButtonDebounce, b.State())
	assert.False(t, b.IsPressed())

	clk.Set(19)
	b.Update()
	assert.Equal(t, ButtonDebounce, b.State())
	assert.Equal(t, EventNone, b.Event())

	clk.Set(20)
	b.Update()
	assert.Equal(t, ButtonPressed, b.State())
	assert.True(t, b.IsPressed())
	assert.Equal(t, EventPressed, b.Event())
	assert.Equal(t, EventNone, b.Event(), "events are consumed")

	clk.Set(1019)
	b.Update()
	assert.Equal(t, ButtonPressed, b.State())

	clk.Set(1020)
	b.Update()
	assert.Equal(t, ButtonHeld, b.State())
	assert.Equal(t, EventHeld, b.Event())

	pin.Write(false)
	clk.Set(1030)
	b.Update()
	assert.Equal(t, ButtonReleaseDebounce, b.State())
	assert.True(t, b.IsPressed())

	clk.Set(1050)
	b.Update()
	assert.Equal(t, ButtonIdle, b.State())
	assert.False(t, b.IsPressed())
	assert.Equal(t, EventReleased, b.Event())
}

func TestButtonPressGlitchIgnored(t *testing.T) {
	b, pin, clk := newTestButton(ButtonConfig{DebounceMs: 20})

	pin.Write(true)
	b.Update()
	clk.Set(5)
	pin.Write(false)
	b.Update()

	assert.Equal(t, ButtonIdle, b.State())
	assert.Equal(t, EventNone, b.Event())
	assert.False(t, b.IsPressed())
}

func TestButtonReleaseGlitchReturnsToPressed(t *testing.T) {
	b, pin, clk := newTestButton(ButtonConfig{DebounceMs: 10})

	pin.Write(true)
	b.Update()
	clk.Set(10)
	b.Update()
	assert.Equal(t, EventPressed, b.Event())

	pin.Write(false)
	clk.Set(11)
	b.Update()
	assert.Equal(t, ButtonReleaseDebounce, b.State())

	pin.Write(true)
	clk.Set(12)
	b.Update()
	assert.Equal(t, ButtonPressed, b.State())
	assert.Equal(t, EventNone, b.Event())
	assert.True(t, b.IsPressed())
}

func TestButtonWithoutHoldNeverHeld(t *testing.T) {
	b, pin, clk := newTestButton(ButtonConfig{DebounceMs: 1})

	pin.Write(true)
	b.Update()
	clk.Set(1)
	b.Update()
	_ = b.Event()

	clk.Set(100000)
	b.Update()
	assert.Equal(t, ButtonPressed, b.State())
	assert.Equal(t, EventNone, b.Event())
}

func TestButtonInverted(t *testing.T) {
	b, pin, clk := newTestButton(ButtonConfig{DebounceMs: 5, Inverted: true})

	b.Update()
	assert.Equal(t, ButtonIdle, b.State(), "pulled-up pin reads released")

	pin.Write(false)
	b.Update()
	clk.Set(5)
	b.Update()
	assert.True(t, b.IsPressed())
}

func TestNilButton(t *testing.T) {
	var b *Button
	assert.NotPanics(t, b.Update)
	assert.Equal(t, EventNone, b.Event())
	assert.False(t, b.IsPressed())
	assert.Equal(t, ButtonIdle, b.State())
	assert.Equal(t, "", b.Name())
}

func TestButtonStrings(t *testing.T) {
	assert.Equal(t, "RELEASE_DB", ButtonReleaseDebounce.String())
	assert.Equal(t, "UNKNOWN", ButtonState(42).String())
	assert.Equal(t, "HELD", EventHeld.String())
	assert.Equal(t, "UNKNOWN", ButtonEvent(42).String())
}
