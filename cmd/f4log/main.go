// Command f4log is a tool for viewing and analyzing diagnostic event captures.
//
// Capture files are written by f4sim when run with the -event-log flag. Each
// file is a stream of CBOR-encoded events from the fault manager, the ticker
// and the simulated board; several runs may be appended to one file and are
// told apart by their boot ID.
//
// Usage:
//
//	f4log <command> [flags] <file.f4ev>
//
// Commands:
//
//	view     View capture in human-readable format
//	export   Export capture to JSON or CSV format
//	filter   Filter capture and write to new file
//	stats    Show statistics about the capture
//
// Examples:
//
//	# View all events
//	f4log view run.f4ev
//
//	# View only fault transitions
//	f4log view -source fault run.f4ev
//
//	# View refused clears of one fault
//	f4log view -kind clear-refused -name overtemp run.f4ev
//
//	# Export to CSV
//	f4log export -format csv -o run.csv run.f4ev
//
//	# Keep one run and save it to a new file
//	f4log filter -boot-id 5f0c1f9e-... -o last.f4ev run.f4ev
//
//	# Show statistics
//	f4log stats run.f4ev
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/f4kit/f4kit/cmd/f4log/commands"
)

const usage = `f4log - Diagnostic Event Log Analyzer

Usage:
  f4log <command> [flags] <file.f4ev>

Commands:
  view     View capture in human-readable format
  export   Export capture to JSON or CSV format
  filter   Filter capture and write to new file
  stats    Show statistics about the capture

Use "f4log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `f4log view - View capture in human-readable format

Usage:
  f4log view [flags] <file.f4ev>

Flags:
`)
		fs.PrintDefaults()
	}

	source := fs.String("source", "", "Filter by source (fault, ticker, board)")
	kind := fs.String("kind", "", "Filter by kind (trigger, extend, recover, clear, clear-refused, ...)")
	name := fs.String("name", "", "Filter by fault, task or input name")
	bootID := fs.String("boot-id", "", "Filter by boot ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	filter := commands.ViewFilter{
		Name:   *name,
		BootID: *bootID,
	}

	if *source != "" {
		s, err := commands.ParseSourceFlag(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Source = &s
	}

	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Kind = &k
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `f4log export - Export capture to JSON or CSV format

Usage:
  f4log export [flags] <file.f4ev>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `f4log filter - Filter capture and write to new file

Usage:
  f4log filter [flags] <file.f4ev>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	bootID := fs.String("boot-id", "", "Filter by boot ID")
	source := fs.String("source", "", "Filter by source (fault, ticker, board)")
	kind := fs.String("kind", "", "Filter by kind")
	name := fs.String("name", "", "Filter by fault, task or input name")
	tickStart := fs.String("tick-start", "", "Keep events at or after this tick")
	tickEnd := fs.String("tick-end", "", "Keep events before this tick")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:    *output,
		BootID:    *bootID,
		Source:    *source,
		Kind:      *kind,
		Name:      *name,
		TickStart: *tickStart,
		TickEnd:   *tickEnd,
	}

	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `f4log stats - Show statistics about the capture

Usage:
  f4log stats <file.f4ev>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
