package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformedEvent is returned when a decoded record is not a valid event.
var ErrMalformedEvent = errors.New("malformed diagnostic event")

// Capture files are streams of Event maps with integer keys. Encoding is
// canonical so identical events produce identical bytes; decoding bounds
// container sizes so a corrupted capture cannot balloon memory.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

// An Event map has at most ten keys; the nested payloads fewer.
const maxEventMapPairs = 16

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("event encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxNestedLevels:  8,
		MaxMapPairs:      maxEventMapPairs,
		MaxArrayElements: 16,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("event decoder mode: %v", err))
	}
}

// EncodeEvent encodes a single event.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes a single event and checks that its source, kind and
// payload belong together.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := checkEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a stream encoder writing events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder reading events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// checkEvent rejects records that no component of this module emits: unknown
// sources or kinds, and a fault payload on a non-fault event or vice versa.
func checkEvent(event Event) error {
	if event.Source.String() == "UNKNOWN" {
		return fmt.Errorf("%w: source %d", ErrMalformedEvent, event.Source)
	}
	if _, ok := kindNames[event.Kind]; !ok {
		return fmt.Errorf("%w: kind %d", ErrMalformedEvent, event.Kind)
	}
	if event.Fault != nil && event.Source != SourceFault {
		return fmt.Errorf("%w: fault payload on %s event", ErrMalformedEvent, event.Source)
	}
	if event.Task != nil && event.Source != SourceTicker {
		return fmt.Errorf("%w: task payload on %s event", ErrMalformedEvent, event.Source)
	}
	return nil
}
