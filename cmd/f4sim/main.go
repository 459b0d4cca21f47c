// Command f4sim runs the fault manager and ticker on a simulated Nucleo board.
//
// The board is described by a YAML file (see pkg/config). Without one the
// built-in demo board is used: a user button debounced by the ticker, a
// blinking status LED and two faults driving a shared fault LED.
//
// Usage:
//
//	f4sim [flags]
//
// Flags:
//
//	-config string      Board configuration file
//	-clock string       Timebase: system or mock (overrides the file)
//	-log-level string   Log level: debug, info, warn, error
//	-event-log string   Write diagnostic events to a CBOR file (.f4ev)
//	-serial string      Mirror console output to a serial port
//	-baud int           Serial baud rate (default 115200)
//	-interactive        Start the interactive console
//	-duration duration  Run time for non-interactive mode (default 10s)
//	-step duration      Main loop interval (default 1ms)
//	-list-ports         List serial ports and exit
//
// Examples:
//
//	# Run the demo board for ten seconds of simulated time
//	f4sim -clock mock -duration 10s
//
//	# Drive the board by hand and capture events
//	f4sim -interactive -event-log run.f4ev
//
//	# Mirror output to the ST-Link virtual COM port
//	f4sim -config board.yaml -serial /dev/ttyACM0
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/f4kit/f4kit/cmd/f4sim/interactive"
	"github.com/f4kit/f4kit/internal/sim"
	"github.com/f4kit/f4kit/pkg/config"
	"github.com/f4kit/f4kit/pkg/log"
	"github.com/f4kit/f4kit/pkg/uprint"
)

// Options holds the command-line settings.
type Options struct {
	ConfigFile  string
	Clock       string
	LogLevel    string
	EventLog    string
	Serial      string
	Baud        int
	Interactive bool
	Duration    time.Duration
	Step        time.Duration
	ListPorts   bool
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Board configuration file")
	flag.StringVar(&opts.Clock, "clock", "", "Timebase: system or mock (overrides the file)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.EventLog, "event-log", "", "Write diagnostic events to a CBOR file (.f4ev)")
	flag.StringVar(&opts.Serial, "serial", "", "Mirror console output to a serial port")
	flag.IntVar(&opts.Baud, "baud", uprint.DefaultBaud, "Serial baud rate")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Start the interactive console")
	flag.DurationVar(&opts.Duration, "duration", 10*time.Second, "Run time for non-interactive mode")
	flag.DurationVar(&opts.Step, "step", time.Millisecond, "Main loop interval")
	flag.BoolVar(&opts.ListPorts, "list-ports", false, "List serial ports and exit")
}

func main() {
	flag.Parse()

	if opts.ListPorts {
		listPorts()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the board file and applies explicitly set flags on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clock":
			cfg.Board.Clock = opts.Clock
		case "log-level":
			cfg.Diagnostics.LogLevel = opts.LogLevel
		case "event-log":
			cfg.Diagnostics.EventLog = opts.EventLog
		case "serial":
			cfg.Diagnostics.Serial = opts.Serial
		case "baud":
			cfg.Diagnostics.Baud = opts.Baud
		}
	})
	if cfg.Diagnostics.Baud == 0 {
		cfg.Diagnostics.Baud = uprint.DefaultBaud
	}

	return cfg, cfg.Validate()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level, err := config.ParseLevel(cfg.Diagnostics.LogLevel)
	if err != nil {
		return err
	}

	// Create the terminal first so log output does not corrupt the prompt.
	var stdout io.Writer = os.Stdout
	var logOut io.Writer = os.Stderr
	var rl *readline.Instance
	if opts.Interactive {
		if rl, err = interactive.NewReadline(); err != nil {
			return err
		}
		stdout = rl.Stdout()
		logOut = rl.Stdout()
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	out := uprint.New([]io.Writer{stdout})
	if cfg.Diagnostics.Serial != "" {
		port, err := uprint.OpenSerial(cfg.Diagnostics.Serial, cfg.Diagnostics.Baud)
		if err != nil {
			return err
		}
		defer port.Close()

		var popts []uprint.Option
		if cfg.Diagnostics.CRLF {
			popts = append(popts, uprint.WithCRLF())
		}
		out.Add(uprint.New([]io.Writer{port}, popts...))
		logger.Info("serial output enabled", "port", cfg.Diagnostics.Serial, "baud", cfg.Diagnostics.Baud)
	}

	boardOpts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithOutput(out),
		sim.WithEventLogger(log.NewSlogAdapter(logger.With("component", "events"))),
	}
	if cfg.Diagnostics.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.Diagnostics.EventLog)
		if err != nil {
			return fmt.Errorf("event log: %w", err)
		}
		defer fl.Close()
		boardOpts = append(boardOpts, sim.WithEventLogger(fl))
		logger.Info("event capture enabled", "path", cfg.Diagnostics.EventLog)
	}

	board, err := sim.New(cfg, boardOpts...)
	if err != nil {
		if rl != nil {
			rl.Close()
		}
		return err
	}
	logger.Info("board started", "boot_id", board.BootID(), "mock", board.Mock())

	if rl != nil {
		runInteractive(ctx, board, interactive.New(board, rl))
		return nil
	}
	return runFor(ctx, board, out)
}

// runInteractive steps the board in the background while the console reads
// commands. A mock clock only moves on "advance".
func runInteractive(ctx context.Context, board *sim.Board, console *interactive.Console) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !board.Mock() {
		go func() { _ = board.Run(ctx, opts.Step) }()
	}
	console.Run(ctx, cancel)
}

// runFor runs the board for the configured duration and prints the final
// fault table.
func runFor(ctx context.Context, board *sim.Board, out *uprint.Printer) error {
	if board.Mock() {
		if err := board.Advance(uint64(opts.Duration / time.Millisecond)); err != nil {
			return err
		}
	} else {
		runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
		defer cancel()
		_ = board.Run(runCtx, opts.Step)
	}

	board.Faults().PrintStatus(out)
	board.Ticker().PrintTasks(out)
	return nil
}

func listPorts() {
	ports, err := uprint.Ports()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}
