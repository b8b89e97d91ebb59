package tac

import (
	"bufio"
	"io"
	"strings"
)

// Sink receives emitted lines in order.
type Sink interface {
	Emit(line string)
}

// Listing is an in-memory Sink.
type Listing struct {
	Lines []string
}

func (l *Listing) Emit(line string) {
	l.Lines = append(l.Lines, line)
}

// String returns the lines, each terminated by a newline.
func (l *Listing) String() string {
	if len(l.Lines) == 0 {
		return ""
	}
	return strings.Join(l.Lines, "\n") + "\n"
}

// WriterSink writes one line per Emit to an io.Writer. Write errors are
// recorded rather than reported to the translator; the first one stops
// further output and is returned by Err and Flush.
type WriterSink struct {
	w   *bufio.Writer
	err error
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) Emit(line string) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(line); err != nil {
		s.err = err
		return
	}
	s.err = s.w.WriteByte('\n')
}

// Flush writes buffered lines to the underlying writer.
func (s *WriterSink) Flush() error {
	if s.err != nil {
		return s.err
	}
	s.err = s.w.Flush()
	return s.err
}

// Err returns the first write error, if any.
func (s *WriterSink) Err() error {
	return s.err
}
