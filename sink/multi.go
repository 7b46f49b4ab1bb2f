package sink

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/logdispatch/core"
)

// MultiSink sends entries to several sinks.
//
// Dispatch tries every child and returns the combined errors. When the
// engine retries a failed MultiSink dispatch, children that succeeded the
// first time receive the entry again.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a fan-out sink.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Sinks returns the children.
func (m *MultiSink) Sinks() []Sink {
	return m.sinks
}

// Dispatch implements Sink.
func (m *MultiSink) Dispatch(entry *core.Entry) error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, s.Dispatch(entry))
	}
	return err
}

// Flush flushes every child that buffers.
func (m *MultiSink) Flush() error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, flushSink(s))
	}
	return err
}

// Close closes every child that holds resources.
func (m *MultiSink) Close() error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, closeSink(s))
	}
	return err
}
