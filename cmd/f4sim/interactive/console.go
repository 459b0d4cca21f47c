// Package interactive provides the interactive command-line interface
// for the board simulator.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/f4kit/f4kit/internal/sim"
	"github.com/f4kit/f4kit/pkg/log"
)

const defaultEventCount = 10

// NewReadline creates the terminal used by the console. Create it before the
// board so that log output can be routed through its Stdout.
func NewReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "f4> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("status"),
			readline.PcItem("tasks"),
			readline.PcItem("masks"),
			readline.PcItem("io"),
			readline.PcItem("press"),
			readline.PcItem("release"),
			readline.PcItem("set"),
			readline.PcItem("unset"),
			readline.PcItem("advance"),
			readline.PcItem("clear"),
			readline.PcItem("history-clear"),
			readline.PcItem("events"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

// Console handles interactive mode for f4sim.
type Console struct {
	board *sim.Board
	rl    *readline.Instance
}

// New creates a console for board. rl may be nil when commands are only
// driven through Execute.
func New(board *sim.Board, rl *readline.Instance) *Console {
	return &Console{board: board, rl: rl}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp(c.rl.Stdout())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		if !c.Execute(c.rl.Stdout(), line) {
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line, writing its output to w. It returns false
// when the command asks the console to exit.
func (c *Console) Execute(w io.Writer, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp(w)

	case "status", "s":
		c.board.Faults().PrintStatus(w)

	case "tasks", "t":
		c.board.Ticker().PrintTasks(w)

	case "masks", "m":
		c.cmdMasks(w)

	case "io":
		c.board.PrintIO(w)

	case "press", "p":
		c.withName(w, args, "press <button>", c.board.Press)

	case "release", "r":
		c.withName(w, args, "release <button>", c.board.Release)

	case "set":
		c.withName(w, args, "set <flag>", func(name string) error { return c.board.SetFlag(name, true) })

	case "unset":
		c.withName(w, args, "unset <flag>", func(name string) error { return c.board.SetFlag(name, false) })

	case "advance", "a":
		c.cmdAdvance(w, args)

	case "clear", "c":
		c.cmdClear(w, args)

	case "history-clear", "hc":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		if err := c.board.ClearHistory(name); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return true
		}
		fmt.Fprintln(w, "History cleared")

	case "events", "e":
		c.cmdEvents(w, args)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
Board Simulator Commands:
  Inspection:
    status             - Show fault table and masks
    tasks              - Show ticker tasks
    masks              - Show active and history masks
    io                 - Show buttons, LEDs and flags
    events [n]         - Show the last n diagnostic events (default 10)

  Inputs:
    press <button>     - Hold a button down
    release <button>   - Let a button go
    set <flag>         - Raise a manual fault input
    unset <flag>       - Lower a manual fault input
    advance <ms>       - Step a mock clock forward

  Faults:
    clear <fault>      - Clear a latched fault
    history-clear [f]  - Clear history of one fault (or all)

  General:
    help               - Show this help
    quit               - Exit simulator`)
}

func (c *Console) withName(w io.Writer, args []string, usage string, fn func(string) error) {
	if len(args) < 1 {
		fmt.Fprintf(w, "Usage: %s\n", usage)
		return
	}
	if err := fn(args[0]); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, "OK")
}

func (c *Console) cmdMasks(w io.Writer) {
	masks := c.board.Faults().Masks()
	fmt.Fprintf(w, "active_mask  = %s  %v\n", masks.Active, masks.Active.Indices())
	fmt.Fprintf(w, "history_mask = %s  %v\n", masks.History, masks.History.Indices())
}

func (c *Console) cmdAdvance(w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: advance <ms>")
		return
	}
	ms, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(w, "Invalid duration: %s\n", args[0])
		return
	}
	if err := c.board.Advance(ms); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "tick=%d\n", c.board.Now())
}

func (c *Console) cmdClear(w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: clear <fault>")
		return
	}
	err := c.board.Clear(args[0])
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s cleared\n", args[0])
	case errors.Is(err, sim.ErrUnknownFault):
		fmt.Fprintf(w, "Error: %v\n", err)
	default:
		fmt.Fprintf(w, "%s not cleared: %v\n", args[0], err)
	}
}

func (c *Console) cmdEvents(w io.Writer, args []string) {
	n := defaultEventCount
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(w, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	events := c.board.Events()
	if len(events) > n {
		events = events[len(events)-n:]
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	for _, ev := range events {
		fmt.Fprintln(w, formatEventLine(ev))
	}
}

// formatEventLine renders an event on one line: tick, source, kind, name and
// the state change if any.
func formatEventLine(ev log.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8d  %-6s %-14s", ev.Tick, ev.Source, ev.Kind)
	if ev.Name != "" {
		fmt.Fprintf(&b, " %s", ev.Name)
	}
	if fe := ev.Fault; fe != nil && fe.NewState != "" {
		if fe.OldState != "" {
			fmt.Fprintf(&b, "  %s->%s", fe.OldState, fe.NewState)
		} else {
			fmt.Fprintf(&b, "  %s", fe.NewState)
		}
		fmt.Fprintf(&b, "  count=%d", fe.TriggerCount)
	}
	if ev.Message != "" {
		fmt.Fprintf(&b, "  (%s)", ev.Message)
	}
	return b.String()
}
