package ticker

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/f4kit/f4kit/pkg/log"
	"github.com/f4kit/f4kit/pkg/timebase"
	"github.com/f4kit/f4kit/pkg/timer"
)

// MaxTasks is the maximum number of tasks a Scheduler will run.
const MaxTasks = 16

// Task describes a periodic task.
type Task struct {
	// Fn is called each time the task is due.
	Fn func()

	// PeriodMs is the desired period in milliseconds.
	PeriodMs uint32

	// Name is a human-readable label for diagnostics.
	Name string
}

// NewTask builds a Task named after fn's symbol.
func NewTask(fn func(), periodMs uint32) Task {
	return Task{Fn: fn, PeriodMs: periodMs, Name: funcName(fn)}
}

// TaskInfo is a snapshot of a scheduled task.
type TaskInfo struct {
	// Index is the task's position in the table passed to Init.
	Index        int
	Name         string
	PeriodMs     uint32
	NextDeadline uint64
	Runs         uint64
}

type entry struct {
	index int
	task  Task
	timer timer.Timer
	runs  uint64
}

// Scheduler runs periodic tasks cooperatively.
type Scheduler struct {
	// updateMu serializes Init and Update.
	updateMu sync.Mutex

	// mu guards entries.
	mu      sync.RWMutex
	entries []entry

	src    timebase.Source
	logger *slog.Logger
	events log.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the operational logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventLogger sets the diagnostic event logger.
func WithEventLogger(l log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.events = l
		}
	}
}

// New creates a Scheduler on src and initialises it with tasks.
// A nil src falls back to a system clock.
func New(src timebase.Source, tasks []Task, opts ...Option) *Scheduler {
	if src == nil {
		src = timebase.NewSystem()
	}
	s := &Scheduler{
		src:    src,
		logger: slog.New(slog.DiscardHandler),
		events: log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Init(tasks)
	return s
}

// Init replaces the task table and arms one auto-reset timer per task,
// anchored at the current tick. Tasks beyond MaxTasks are dropped; tasks with
// a nil Fn are skipped.
func (s *Scheduler) Init(tasks []Task) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	requested := len(tasks)
	if requested > MaxTasks {
		s.logger.Warn("too many tasks, excess dropped",
			"requested", requested, "supported", MaxTasks)
		s.emit(log.KindTaskOverflow, -1, "", &log.TaskEvent{Requested: requested, Scheduled: MaxTasks},
			"excess tasks dropped")
		tasks = tasks[:MaxTasks]
	}

	entries := make([]entry, 0, len(tasks))
	for i, t := range tasks {
		if t.Fn == nil {
			s.logger.Warn("task has no callback, skipped", "index", i, "task", t.Name)
			continue
		}
		entries = append(entries, entry{
			index: i,
			task:  t,
			timer: timer.New(s.src, uint64(t.PeriodMs), true),
		})
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Info("ticker initialised", "tasks", len(entries))
	s.emit(log.KindSchedulerInit, -1, "", &log.TaskEvent{Requested: requested, Scheduled: len(entries)}, "")
}

// Update runs every task whose period has elapsed, in table order.
func (s *Scheduler) Update() {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()

	for i := 0; i < n; i++ {
		s.mu.Lock()
		e := &s.entries[i]
		due := e.timer.HasElapsed()
		if due {
			e.runs++
		}
		fn := e.task.Fn
		s.mu.Unlock()

		if due {
			fn()
		}
	}
}

// Count returns the number of scheduled tasks.
func (s *Scheduler) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Tasks returns a snapshot of the task table.
func (s *Scheduler) Tasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TaskInfo, len(s.entries))
	for i := range s.entries {
		e := &s.entries[i]
		out[i] = TaskInfo{
			Index:        e.index,
			Name:         e.task.Name,
			PeriodMs:     e.task.PeriodMs,
			NextDeadline: e.timer.Deadline(),
			Runs:         e.runs,
		}
	}
	return out
}

// PrintTasks writes a human-readable task table to w.
func (s *Scheduler) PrintTasks(w io.Writer) {
	tasks := s.Tasks()

	fmt.Fprintln(w, "===================================")
	fmt.Fprintf(w, "TICKER - %d task(s)\n", len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(w, "  [%d] %s  %d ms  runs=%d\n", t.Index, t.Name, t.PeriodMs, t.Runs)
	}
	fmt.Fprintln(w, "===================================")
}

func (s *Scheduler) emit(kind log.Kind, index int, name string, task *log.TaskEvent, msg string) {
	s.events.Log(log.Event{
		Timestamp: time.Now(),
		Tick:      s.src.Now(),
		Source:    log.SourceTicker,
		Kind:      kind,
		Name:      name,
		Index:     index,
		Task:      task,
		Message:   msg,
	})
}

// funcName returns the short symbol name of fn, e.g. "pollButtons".
func funcName(fn func()) string {
	if fn == nil {
		return ""
	}
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
