// Package uprint is the diagnostic text sink: a line printer over any
// io.Writer, optionally translating line endings for a UART terminal.
package uprint

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaud is the UART rate used by the board's debug port.
const DefaultBaud = 115200

// Printer writes diagnostic text to one or more writers. It is safe for
// concurrent use.
type Printer struct {
	mu   sync.Mutex
	out  []io.Writer
	crlf bool
}

// Option configures a Printer.
type Option func(*Printer)

// WithCRLF translates "\n" to "\r\n" on output.
func WithCRLF() Option {
	return func(p *Printer) {
		p.crlf = true
	}
}

// New returns a Printer writing to every non-nil w.
func New(w []io.Writer, opts ...Option) *Printer {
	p := &Printer{}
	for _, out := range w {
		if out != nil {
			p.out = append(p.out, out)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add attaches another output.
func (p *Printer) Add(w io.Writer) {
	if w == nil {
		return
	}
	p.mu.Lock()
	p.out = append(p.out, w)
	p.mu.Unlock()
}

// Write implements io.Writer. The returned count refers to b, not to the
// translated output. Output errors on one writer do not stop the others; the
// first error is returned.
func (p *Printer) Write(b []byte) (int, error) {
	data := b
	if p.crlf {
		data = toCRLF(b)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, w := range p.out {
		if _, err := w.Write(data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(b), firstErr
}

// Printf formats and writes a message.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p, format, args...)
}

// Println writes args followed by a newline.
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p, args...)
}

func toCRLF(b []byte) []byte {
	if bytes.IndexByte(b, '\n') < 0 {
		return b
	}
	out := make([]byte, 0, len(b)+8)
	for i, c := range b {
		if c == '\n' && (i == 0 || b[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, c)
	}
	return out
}

// OpenSerial opens a UART at baud, 8N1.
func OpenSerial(portName string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return port, nil
}

// Ports lists the serial ports present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
