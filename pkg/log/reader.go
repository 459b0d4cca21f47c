package log

import (
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering log events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// BootID filters by exact boot ID match.
	BootID string

	// Source filters by emitting component.
	Source *Source

	// Kind filters by event kind.
	Kind *Kind

	// Name filters by exact fault or task name.
	Name string

	// TickStart filters events at or after this tick.
	TickStart *uint64

	// TickEnd filters events before this tick.
	TickEnd *uint64
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.BootID != "" && event.BootID != f.BootID {
		return false
	}
	if f.Source != nil && event.Source != *f.Source {
		return false
	}
	if f.Kind != nil && event.Kind != *f.Kind {
		return false
	}
	if f.Name != "" && event.Name != f.Name {
		return false
	}
	if f.TickStart != nil && event.Tick < *f.TickStart {
		return false
	}
	if f.TickEnd != nil && event.Tick >= *f.TickEnd {
		return false
	}
	return true
}

// Reader reads diagnostic events from a CBOR-encoded file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all events from the specified log file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available and ErrMalformedEvent for
// a record that decodes but is not a valid event.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if err := checkEvent(event); err != nil {
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
