// Package benchmark compares logdispatch engines with other Go logging
// libraries and measures the cost of the individual sinks and filters.
package benchmark

import (
	"github.com/philipp01105/logdispatch/core"
)

// noopSink touches the entry and drops it, isolating engine overhead from
// formatting and I/O.
type noopSink struct{}

func (noopSink) Dispatch(e *core.Entry) error {
	_ = len(e.Message)
	return nil
}
