package sink

import (
	"errors"

	"github.com/philipp01105/logdispatch/core"
)

var (
	// ErrUnknownSink is returned when a descriptor names a sink no factory
	// was registered for.
	ErrUnknownSink = errors.New("unknown sink")
	// ErrBadArgument is returned for malformed or invalid descriptor arguments.
	ErrBadArgument = errors.New("bad sink argument")
	// ErrClosed is returned by Dispatch after the sink was closed.
	ErrClosed = errors.New("sink closed")
)

// Sink writes or transmits log entries.
type Sink interface {
	// Dispatch delivers one entry. A non-nil error means the entry was not
	// delivered and may be retried.
	Dispatch(entry *core.Entry) error
}

// Flusher is implemented by sinks that buffer output.
type Flusher interface {
	Flush() error
}

// Closer is implemented by sinks holding resources.
type Closer interface {
	Close() error
}

// Func adapts a plain function to the Sink interface.
type Func func(entry *core.Entry) error

// Dispatch calls f(entry).
func (f Func) Dispatch(entry *core.Entry) error {
	return f(entry)
}

// Discard accepts and drops every entry.
var Discard Sink = discard{}

type discard struct{}

func (discard) Dispatch(*core.Entry) error { return nil }

// flushSink flushes s if it implements Flusher.
func flushSink(s Sink) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// closeSink closes s if it implements Closer.
func closeSink(s Sink) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
