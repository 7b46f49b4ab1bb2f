package engine

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"
)

// Registry tracks live engines so they can be flushed or stopped together,
// typically on process exit. Engines join on New and leave on Stop.
type Registry struct {
	mu      sync.Mutex
	engines []*Engine
}

// NewRegistry creates an empty registry. Tests use one per case to keep
// engines isolated from the process-wide registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds e. Adding an engine twice has no effect.
func (r *Registry) Register(e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.engines {
		if existing == e {
			return
		}
	}
	r.engines = append(r.engines, e)
}

// Deregister removes e.
func (r *Registry) Deregister(e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.engines {
		if existing == e {
			r.engines = append(r.engines[:i], r.engines[i+1:]...)
			return
		}
	}
}

// Engines returns the registered engines in registration order.
func (r *Registry) Engines() []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Engine, len(r.engines))
	copy(out, r.engines)
	return out
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// FlushAll flushes every engine within a shared maxWait budget and
// reports whether all of them drained.
func (r *Registry) FlushAll(maxWait time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	ok := true
	for _, e := range r.Engines() {
		if !e.Flush(time.Until(deadline)) {
			ok = false
		}
	}
	return ok
}

// StopAll stops every engine concurrently, each with maxWait, and returns
// their combined errors.
func (r *Registry) StopAll(maxWait time.Duration) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, e := range r.Engines() {
		wg.Add(1)
		go func(e *Engine) {
			defer wg.Done()
			if err := e.Stop(maxWait); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.Name(), err))
				mu.Unlock()
			}
		}(e)
	}
	wg.Wait()
	return errs
}

// StopOnSignal stops every engine when one of sigs arrives or ctx ends,
// whichever comes first. Without sigs it listens for SIGINT and SIGTERM.
// The returned channel yields the StopAll result and is then closed.
func (r *Registry) StopOnSignal(ctx context.Context, maxWait time.Duration, sigs ...os.Signal) <-chan error {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	out := make(chan error, 1)
	go func() {
		defer close(out)
		defer signal.Stop(ch)
		select {
		case <-ch:
		case <-ctx.Done():
		}
		out <- r.StopAll(maxWait)
	}()
	return out
}
