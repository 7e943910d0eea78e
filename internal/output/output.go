// Package output implements the engine's event output sinks. Sinks swallow
// their own errors: a broken sink never fails an invocation.
package output

import (
	"fmt"
	"io"
)

// Sink receives engine output messages.
type Sink interface {
	Write(message string)
}

// WriterSink writes messages to an io.Writer, one per line.
type WriterSink struct {
	W io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w}
}

func (s *WriterSink) Write(message string) {
	_, _ = fmt.Fprintln(s.W, message)
}

// Multi fans one message out to several sinks.
type Multi []Sink

func (m Multi) Write(message string) {
	for _, s := range m {
		s.Write(message)
	}
}
