package interactive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4kit/f4kit/internal/sim"
	"github.com/f4kit/f4kit/pkg/config"
	"github.com/f4kit/f4kit/pkg/log"
)

func newConsole(t *testing.T) *Console {
	t.Helper()
	cfg := config.Default()
	cfg.Board.Clock = config.ClockMock
	b, err := sim.New(cfg)
	require.NoError(t, err)
	return New(b, nil)
}

func run(c *Console, line string) string {
	var buf bytes.Buffer
	c.Execute(&buf, line)
	return buf.String()
}

func TestLatchedFaultSession(t *testing.T) {
	c := newConsole(t)

	assert.Equal(t, "OK\n", run(c, "set overtemp"))
	assert.Equal(t, "tick=1\n", run(c, "advance 1"))
	assert.Contains(t, run(c, "status"), "[1] overtemp  state=ACTIVE  count=1  history=YES")
	assert.Contains(t, run(c, "masks"), "active_mask  = 0x00000002  [1]")

	assert.Contains(t, run(c, "clear overtemp"), "not cleared: fault condition still present")

	run(c, "unset overtemp")
	assert.Equal(t, "overtemp cleared\n", run(c, "clear overtemp"))
	assert.Contains(t, run(c, "status"), "[1] overtemp  state=IDLE")

	assert.Equal(t, "History cleared\n", run(c, "hc all"))
	assert.Contains(t, run(c, "masks"), "history_mask = 0x00000000  []")
}

func TestButtonSession(t *testing.T) {
	c := newConsole(t)

	run(c, "press user")
	run(c, "advance 50")
	out := run(c, "io")
	assert.Contains(t, out, "button user  state=PRESSED  pressed=true")
	assert.Contains(t, out, "led fault  on")
	assert.Contains(t, run(c, "status"), "state=RECOVERING")
}

func TestEventsCommand(t *testing.T) {
	c := newConsole(t)
	run(c, "set overtemp")
	run(c, "advance 1")

	out := run(c, "events 2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INPUT")
	assert.Contains(t, lines[0], "flag:overtemp")
	assert.Contains(t, lines[1], "TRIGGER")
	assert.Contains(t, lines[1], "IDLE->ACTIVE  count=1")

	assert.Contains(t, run(c, "events zero"), "Invalid count")
}

func TestUsageAndErrors(t *testing.T) {
	c := newConsole(t)

	tests := []struct {
		line string
		want string
	}{
		{"press", "Usage: press <button>"},
		{"press blue", "unknown button: blue"},
		{"set humidity", "unknown flag: humidity"},
		{"advance", "Usage: advance <ms>"},
		{"advance soon", "Invalid duration: soon"},
		{"clear", "Usage: clear <fault>"},
		{"clear nope", "unknown fault: nope"},
		{"hc nope", "unknown fault: nope"},
		{"dance", "Unknown command: dance"},
		{"help", "Board Simulator Commands:"},
		{"tasks", "TICKER - 3 task(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Contains(t, run(c, tt.line), tt.want)
		})
	}
}

func TestQuit(t *testing.T) {
	c := newConsole(t)
	var buf bytes.Buffer
	assert.True(t, c.Execute(&buf, "   "))
	assert.False(t, c.Execute(&buf, "quit"))
	assert.False(t, c.Execute(&buf, "EXIT"))
}

func TestFormatEventLine(t *testing.T) {
	line := formatEventLine(log.Event{
		Tick:   5030,
		Source: log.SourceFault,
		Kind:   log.KindRecover,
		Name:   "button_fault",
		Fault:  &log.FaultEvent{OldState: "RECOVERING", NewState: "IDLE", TriggerCount: 1},
	})
	assert.Equal(t, "    5030  FAULT  RECOVER        button_fault  RECOVERING->IDLE  count=1", line)
}
