package engine

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/logdispatch/core"
)

// Reporter receives entries that could not be delivered: entries that
// exhausted their retries and entries drained or dropped by the engine.
//
// A Reporter has no access to the engine and must not log through one;
// failures would otherwise feed back into the queue they came from.
type Reporter interface {
	ReportFailure(entry *core.Entry, err error)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(entry *core.Entry, err error)

// ReportFailure calls f(entry, err).
func (f ReporterFunc) ReportFailure(entry *core.Entry, err error) {
	f(entry, err)
}

// WriterReporter writes one line per failed entry to an io.Writer. Write
// errors are ignored.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterReporter creates a reporter writing to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

var defaultReporter Reporter = NewWriterReporter(os.Stderr)

// ReportFailure implements Reporter.
func (r *WriterReporter) ReportFailure(entry *core.Entry, err error) {
	defer func() { _ = recover() }()

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "logdispatch: undelivered %s [%s] %s: %s: %v\n",
		entry.Time.Format(time.RFC3339Nano), entry.Level, entry.Context, entry.Message, err)
}

// ZapReporter logs failed entries to a zap logger at warn level.
type ZapReporter struct {
	logger *zap.Logger
}

// NewZapReporter creates a reporter logging to l. The logger must not
// write through an engine.
func NewZapReporter(l *zap.Logger) *ZapReporter {
	return &ZapReporter{logger: l}
}

// ReportFailure implements Reporter.
func (r *ZapReporter) ReportFailure(entry *core.Entry, err error) {
	defer func() { _ = recover() }()

	r.logger.Warn("log entry not delivered",
		zap.Time("entry_time", entry.Time),
		zap.String("entry_level", entry.Level.String()),
		zap.String("entry_context", entry.Context),
		zap.String("entry_message", entry.Message),
		zap.Error(err),
	)
}
