// Package log provides structured diagnostic event capture for the fault
// manager and the ticker scheduler.
//
// It is separate from operational logging (slog). Operational logging gives
// a human the gist; event capture keeps a complete machine-readable trace of
// every fault transition and scheduler event for later analysis.
//
// # Basic Usage
//
// Core objects take a Logger through a functional option:
//
//	// For development: log to console via slog
//	mgr, _ := fault.New(clk, 0, fault.WithEventLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For bench runs: write to binary file
//	fl, _ := log.NewFileLogger("/tmp/board.flog")
//
//	// Both, plus the last 64 events in memory for the console
//	ring, _ := log.NewRingLogger(64)
//	l := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl, ring)
//
// # Event Types
//
// Every Event carries the tick it happened at, its Source (fault, ticker or
// board) and a Kind. Fault transitions carry a FaultEvent with the old and
// new state, the trigger count and a snapshot of both diagnostic masks.
// Scheduler events carry a TaskEvent.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, normally
// with the .flog extension. The f4log tool views, summarizes and exports them.
package log
