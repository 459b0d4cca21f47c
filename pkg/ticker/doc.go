// Package ticker implements a cooperative periodic-task scheduler.
//
// A Scheduler holds a fixed table of tasks, each with its own auto-reset
// timer anchored at initialisation. Every call to Update polls the tasks in
// table order and runs the ones that are due, synchronously, on the caller's
// goroutine.
//
// # Scheduling Rules
//
//   - Table order is fixed at Init and is the only ordering guarantee.
//     Tasks that are due in the same Update run in registration order.
//   - There are no priorities, no deadline-miss detection and no skipping.
//     A task delayed by a slow neighbour simply runs late on a later poll.
//   - Deadlines advance by exactly one period per run (see package timer),
//     so late polls never accumulate drift. A task that is several periods
//     behind runs once per Update until it has caught up.
//   - At most MaxTasks tasks are scheduled. Excess entries are dropped with
//     a warning.
//
// Task callbacks run while the scheduler's update lock is held. They may call
// the read accessors (Tasks, Count, PrintTasks) but must not call Update or
// Init on the same Scheduler.
package ticker
