package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/filter"
	"github.com/philipp01105/logdispatch/sink"
)

// Config holds construction-time settings of an Engine
type Config struct {
	// Name identifies the engine in registries and diagnostics (default: "engine-N")
	Name string
	// Capacity of the queue (default: DefaultCapacity)
	Capacity int
	// Retries after a failed dispatch (0: DefaultRetries, negative: none)
	Retries int
	// Synchronous selects inline dispatch (nil: DefaultSynchronous())
	Synchronous *bool
	// Reporter receives undelivered entries (default: one line to stderr)
	Reporter Reporter
	// Filters are evaluated in order before queuing
	Filters []filter.Filter
	// Registry the engine joins (default: DefaultRegistry())
	Registry *Registry
}

var engineSeq atomic.Uint64

// Engine delivers entries to a sink from a bounded queue.
type Engine struct {
	name     string
	sink     sink.Sink
	reporter Reporter
	registry *Registry
	retries  int
	sync     bool

	queue chan *core.Entry
	wake  chan struct{}
	stop  chan struct{}
	done  chan struct{}

	closed   atomic.Bool
	started  atomic.Bool
	stopping atomic.Bool
	halted   atomic.Bool
	stopped  atomic.Bool

	filterMu sync.Mutex
	filters  atomic.Pointer[filter.Chain]

	// serializes sink calls in synchronous mode and sink shutdown
	dispatchMu sync.Mutex

	pendingMu sync.Mutex
	pending   int
	drained   chan struct{}

	countMu sync.Mutex
	counts  map[string]uint64
}

// New creates an engine delivering to s and registers it. It panics if s
// is nil.
func New(s sink.Sink, cfg Config) *Engine {
	if s == nil {
		panic("engine: nil sink")
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	switch {
	case cfg.Retries == 0:
		cfg.Retries = DefaultRetries
	case cfg.Retries < 0:
		cfg.Retries = 0
	}
	if cfg.Reporter == nil {
		cfg.Reporter = defaultReporter
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("engine-%d", engineSeq.Add(1))
	}
	syncMode := DefaultSynchronous()
	if cfg.Synchronous != nil {
		syncMode = *cfg.Synchronous
	}

	e := &Engine{
		name:     cfg.Name,
		sink:     s,
		reporter: cfg.Reporter,
		registry: cfg.Registry,
		retries:  cfg.Retries,
		sync:     syncMode,
		queue:    make(chan *core.Entry, cfg.Capacity),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
		counts:   make(map[string]uint64),
	}
	close(e.drained)

	chain := filter.Chain(nil).With(cfg.Filters...)
	e.filters.Store(&chain)

	e.registry.Register(e)
	return e
}

// Name returns the engine name.
func (e *Engine) Name() string { return e.name }

// Sink returns the sink the engine delivers to.
func (e *Engine) Sink() sink.Sink { return e.sink }

// Capacity returns the queue capacity.
func (e *Engine) Capacity() int { return cap(e.queue) }

// QueueLen returns the number of queued entries.
func (e *Engine) QueueLen() int { return len(e.queue) }

// Retries returns the number of retries after a failed dispatch.
func (e *Engine) Retries() int { return e.retries }

// Synchronous reports whether the engine dispatches inline.
func (e *Engine) Synchronous() bool { return e.sync }

// IsRunning reports whether the worker goroutine is alive.
func (e *Engine) IsRunning() bool {
	if !e.started.Load() {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// State returns the lifecycle stage.
func (e *Engine) State() State {
	switch {
	case e.stopped.Load():
		return Stopped
	case e.closed.Load():
		return Closing
	case e.started.Load():
		return Running
	default:
		return Created
	}
}

// AddFilter appends f to the filter chain. Entries already queued are not
// re-evaluated.
func (e *Engine) AddFilter(f filter.Filter) {
	e.filterMu.Lock()
	defer e.filterMu.Unlock()
	chain := e.filters.Load().With(f)
	e.filters.Store(&chain)
}

// MessageCounts returns a copy of the per-type counts of delivered entries,
// keyed by the pluralized message type ("warnings", "informations").
func (e *Engine) MessageCounts() map[string]uint64 {
	e.countMu.Lock()
	defer e.countMu.Unlock()
	out := make(map[string]uint64, len(e.counts))
	for k, v := range e.counts {
		out[k] = v
	}
	return out
}

func (e *Engine) count(entry *core.Entry) {
	label := core.Pluralize(entry.MessageType())
	e.countMu.Lock()
	e.counts[label]++
	e.countMu.Unlock()
}

// Submit hands an entry to the engine.
//
// Entries submitted after Close or rejected by a filter are discarded.
// In asynchronous mode Submit blocks while the queue is full and always
// returns nil. In synchronous mode it dispatches inline and returns an
// error wrapping ErrDispatchFailed if every attempt failed; the entry is
// also reported.
func (e *Engine) Submit(entry *core.Entry) error {
	if e.sync {
		return e.SubmitContext(context.Background(), entry)
	}
	_ = e.SubmitContext(context.Background(), entry)
	return nil
}

// SubmitContext is Submit with a context bounding the time spent blocked
// on a full queue. If ctx ends first, the entry is dropped, reported and
// ErrInterrupted is returned. A producer still blocked when the engine
// stops gets ErrStopped.
func (e *Engine) SubmitContext(ctx context.Context, entry *core.Entry) error {
	if entry == nil || e.closed.Load() {
		return nil
	}
	if !e.filters.Load().Accept(entry) {
		return nil
	}

	if e.sync {
		e.dispatchMu.Lock()
		err := e.dispatch(entry)
		e.dispatchMu.Unlock()
		if err != nil {
			e.report(entry, err)
		}
		return err
	}

	e.start()
	return e.enqueue(ctx, entry)
}

func (e *Engine) enqueue(ctx context.Context, entry *core.Entry) error {
	e.acquire()

	select {
	case e.queue <- entry:
	default:
		select {
		case e.queue <- entry:
		case <-ctx.Done():
			e.release(1)
			e.report(entry, ErrInterrupted)
			return ErrInterrupted
		case <-e.stop:
			e.release(1)
			e.report(entry, ErrStopped)
			return ErrStopped
		}
	}

	// Stop may have drained the queue between our closed check and the
	// send; nobody else will pick the entry up.
	if e.halted.Load() {
		e.drain(ErrStopped)
	}
	return nil
}

// Close stops accepting entries. Queued entries are still dispatched.
func (e *Engine) Close() {
	e.closed.Store(true)
}

func (e *Engine) report(entry *core.Entry, err error) {
	defer func() { _ = recover() }()
	e.reporter.ReportFailure(entry, err)
}

// acquire counts an entry about to be queued.
func (e *Engine) acquire() {
	e.pendingMu.Lock()
	if e.pending == 0 {
		e.drained = make(chan struct{})
	}
	e.pending++
	e.pendingMu.Unlock()
}

// release uncounts n entries and wakes flush waiters once none remain.
func (e *Engine) release(n int) {
	if n <= 0 {
		return
	}
	e.pendingMu.Lock()
	if e.pending == 0 {
		e.pendingMu.Unlock()
		return
	}
	e.pending -= n
	if e.pending <= 0 {
		e.pending = 0
		close(e.drained)
	}
	e.pendingMu.Unlock()
}

// Pending returns the number of entries queued or being dispatched.
func (e *Engine) Pending() int {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	return e.pending
}
