package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/sink"
)

var errSink = errors.New("sink unavailable")

// recordSink records delivered entries. fail, when set, decides the
// outcome of each call (1-based).
type recordSink struct {
	mu       sync.Mutex
	entries  []*core.Entry
	calls    int
	fail     func(call int) error
	delay    time.Duration
	flushed  int
	closed   int
	closeErr error
}

func (s *recordSink) Dispatch(e *core.Entry) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		if err := s.fail(s.calls); err != nil {
			return err
		}
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *recordSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed++
	return nil
}

func (s *recordSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

func (s *recordSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Message
	}
	return out
}

func (s *recordSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func alwaysFail(int) error { return errSink }

// gateSink blocks every Dispatch until open is called. Each call is
// announced on entered first.
type gateSink struct {
	entered chan *core.Entry
	gate    chan struct{}
	once    sync.Once
	recordSink
}

func newGateSink() *gateSink {
	return &gateSink{
		entered: make(chan *core.Entry, 1024),
		gate:    make(chan struct{}),
	}
}

func (g *gateSink) Dispatch(e *core.Entry) error {
	g.entered <- e
	<-g.gate
	return g.recordSink.Dispatch(e)
}

func (g *gateSink) open() {
	g.once.Do(func() { close(g.gate) })
}

func (g *gateSink) waitEntered(t *testing.T) *core.Entry {
	t.Helper()
	select {
	case e := <-g.entered:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("sink was never called")
		return nil
	}
}

// recordReporter collects reported failures.
type recordReporter struct {
	mu      sync.Mutex
	entries []*core.Entry
	errs    []error
}

func (r *recordReporter) ReportFailure(e *core.Entry, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	r.errs = append(r.errs, err)
}

func (r *recordReporter) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]string, len(r.entries))
	for i, e := range r.entries {
		msgs[i] = e.Message
	}
	errs := make([]error, len(r.errs))
	copy(errs, r.errs)
	return msgs, errs
}

func info(msg string) *core.Entry {
	return core.NewEntry(core.InfoLevel, "test", msg)
}

// newTestEngine creates an asynchronous engine on a private registry.
func newTestEngine(t *testing.T, s sink.Sink, cfg Config) (*Engine, *recordReporter) {
	t.Helper()
	rep := &recordReporter{}
	if cfg.Reporter == nil {
		cfg.Reporter = rep
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.Synchronous == nil {
		cfg.Synchronous = Bool(false)
	}
	e := New(s, cfg)
	t.Cleanup(func() {
		if g, ok := s.(*gateSink); ok {
			g.open()
		}
		_ = e.Stop(2 * time.Second)
	})
	return e, rep
}
