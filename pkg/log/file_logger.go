package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a capture file (.f4ev) as a CBOR stream.
// Log never reports errors to the component that emitted the event; the
// first write failure is kept and returned by Err and Close.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	enc     *cbor.Encoder
	written uint64
	err     error
	closed  bool
}

// NewFileLogger opens path for appending, creating it if needed. Events from
// several runs can share one file; BootID tells them apart.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{file: f, enc: NewEncoder(f)}, nil
}

// Log appends event. It is a no-op after Close.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		if l.err == nil {
			l.err = err
		}
		return
	}
	l.written++
}

// Written returns the number of events stored so far.
func (l *FileLogger) Written() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Err returns the first write error, if any.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close syncs and closes the file. Later calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	syncErr := l.file.Sync()
	if err := l.file.Close(); err != nil {
		return err
	}
	if l.err != nil {
		return l.err
	}
	return syncErr
}

var _ Logger = (*FileLogger)(nil)
