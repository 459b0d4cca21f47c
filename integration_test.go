package f4kit_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4kit/f4kit/cmd/f4log/commands"
	"github.com/f4kit/f4kit/internal/sim"
	"github.com/f4kit/f4kit/pkg/config"
	"github.com/f4kit/f4kit/pkg/fault"
	"github.com/f4kit/f4kit/pkg/log"
)

// TestE2E_ButtonFaultCapture runs the demo board, captures its events to a
// file and reads them back the way f4log does.
func TestE2E_ButtonFaultCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.f4ev")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Board.Clock = config.ClockMock
	board, err := sim.New(cfg, sim.WithEventLogger(fl))
	require.NoError(t, err)

	require.NoError(t, board.Press("user"))
	require.NoError(t, board.Advance(100))
	require.NoError(t, board.Release("user"))
	require.NoError(t, board.Advance(6000))
	require.NoError(t, fl.Close())

	f := board.Faults().Lookup("button_fault")
	assert.Equal(t, fault.StateIdle, f.State())
	assert.Equal(t, uint32(1), f.TriggerCount())

	src := log.SourceFault
	r, err := log.NewFilteredReader(path, log.Filter{Source: &src, Name: "button_fault"})
	require.NoError(t, err)
	defer r.Close()

	var kinds []log.Kind
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, board.BootID(), ev.BootID)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []log.Kind{log.KindRegister, log.KindTrigger, log.KindRecover}, kinds)

	var out bytes.Buffer
	require.NoError(t, commands.RunStats(path, &out))
	assert.Contains(t, out.String(), "button_fault: triggers=1 extensions=0 recoveries=1")
}

// TestE2E_LatchedFaultFromConfig builds a board from a YAML file and walks a
// latched fault through a refused and a successful clear.
func TestE2E_LatchedFaultFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
board:
  name: bench
  clock: mock
leds:
  - name: status
  - name: alarm
tasks:
  - name: blink
    action: led_blink
    period_ms: 250
    target: status
faults:
  - name: overvolt
    input: flag:overvolt
    led: alarm
    recovery_ms: 0
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	board, err := sim.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Faults().Count())
	assert.Equal(t, 1, board.Ticker().Count())

	require.NoError(t, board.SetFlag("overvolt", true))
	require.NoError(t, board.Advance(1))

	f := board.Faults().Lookup("overvolt")
	assert.Equal(t, fault.StateActive, f.State())
	assert.True(t, board.LED("alarm").On())

	// Latched faults stay active for as long as the board runs.
	require.NoError(t, board.Advance(10000))
	assert.Equal(t, fault.StateActive, f.State())
	assert.ErrorIs(t, board.Clear("overvolt"), fault.ErrConditionPresent)

	require.NoError(t, board.SetFlag("overvolt", false))
	require.NoError(t, board.Clear("overvolt"))
	assert.Equal(t, fault.StateIdle, f.State())
	assert.False(t, board.LED("alarm").On())
	assert.True(t, board.Faults().Masks().History.Has(0))
}
