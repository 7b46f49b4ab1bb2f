package engine

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/sink"
)

// start launches the worker on the first call.
func (e *Engine) start() {
	if e.started.CompareAndSwap(false, true) {
		go e.run()
	}
}

// run is the single consumer of the queue.
func (e *Engine) run() {
	defer close(e.done)

	for {
		// stop wins over pending work; Stop reports what is left
		select {
		case <-e.stop:
			return
		default:
		}

		select {
		case <-e.stop:
			return
		case <-e.wake:
		case entry := <-e.queue:
			e.process(entry)
		}
	}
}

// process dispatches one dequeued entry and escalates on failure.
func (e *Engine) process(entry *core.Entry) {
	if err := e.dispatch(entry); err != nil {
		e.report(entry, err)
		e.drain(ErrDrained)
	}
	e.release(1)
}

// dispatch makes up to 1+retries attempts and counts the entry on success.
func (e *Engine) dispatch(entry *core.Entry) error {
	var err error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if err = e.safeDispatch(entry); err == nil {
			e.count(entry)
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDispatchFailed, e.retries+1, err)
}

func (e *Engine) safeDispatch(entry *core.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return e.sink.Dispatch(entry)
}

// drain removes the entries currently queued and reports each with
// reason. It takes at most one queue's worth so that concurrent producers
// cannot keep it running. It returns the number drained.
func (e *Engine) drain(reason error) int {
	n := 0
	for n < cap(e.queue) {
		select {
		case entry := <-e.queue:
			e.report(entry, reason)
			e.release(1)
			n++
		default:
			return n
		}
	}
	return n
}

// Flush waits until every queued entry has been dispatched or reported,
// or until maxWait elapses. It returns true if the queue drained. On
// timeout the worker is woken and false is returned.
func (e *Engine) Flush(maxWait time.Duration) bool {
	e.pendingMu.Lock()
	drained := e.drained
	e.pendingMu.Unlock()

	select {
	case <-drained:
		return true
	default:
	}
	if maxWait <= 0 {
		e.signalWake()
		return false
	}

	timer := time.NewTimer(maxWait)
	defer timer.Stop()
	select {
	case <-drained:
		return true
	case <-timer.C:
		e.signalWake()
		return false
	}
}

func (e *Engine) signalWake() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Stop closes the engine, waits up to maxWait for the queue to drain and
// the worker to exit, then flushes and closes the sink and deregisters the
// engine. Entries left in the queue are reported with ErrStopped.
//
// It returns an error wrapping ErrStopTimeout if the budget ran out, in
// which case the sink is left open while the worker finishes its last
// dispatch. Otherwise it returns the sink's flush and close errors. Calls
// after the first return nil.
func (e *Engine) Stop(maxWait time.Duration) error {
	if !e.stopping.CompareAndSwap(false, true) {
		return nil
	}
	deadline := time.Now().Add(maxWait)

	e.Close()
	flushed := e.Flush(maxWait)

	close(e.stop)
	exited := true
	if e.started.Load() {
		exited = e.waitWorker(time.Until(deadline))
	}

	e.halted.Store(true)
	left := e.drain(ErrStopped)

	var err error
	if exited {
		e.dispatchMu.Lock()
		err = multierr.Append(sinkFlush(e.sink), sinkClose(e.sink))
		e.dispatchMu.Unlock()
	}

	e.stopped.Store(true)
	e.registry.Deregister(e)

	if !flushed || !exited {
		return multierr.Append(fmt.Errorf("%w: %s after %v, %d entries not delivered", ErrStopTimeout, e.name, maxWait, left), err)
	}
	return err
}

func (e *Engine) waitWorker(d time.Duration) bool {
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-e.done:
			return true
		case <-timer.C:
		}
	}
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func sinkFlush(s sink.Sink) error {
	if f, ok := s.(sink.Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush sink: %w", err)
		}
	}
	return nil
}

func sinkClose(s sink.Sink) error {
	if c, ok := s.(sink.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close sink: %w", err)
		}
	}
	return nil
}
