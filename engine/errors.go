package engine

import "errors"

var (
	// ErrDispatchFailed wraps the last sink error of an entry that exhausted
	// its retries.
	ErrDispatchFailed = errors.New("dispatch failed")
	// ErrDrained is reported for entries removed from the queue after an
	// escalation, without a dispatch attempt.
	ErrDrained = errors.New("drained after escalation")
	// ErrInterrupted is reported and returned when a producer blocked on a
	// full queue gives up because its context ended.
	ErrInterrupted = errors.New("submit interrupted")
	// ErrStopped is reported for entries still queued, or still waiting to
	// be queued, when the engine stops.
	ErrStopped = errors.New("engine stopped")
	// ErrStopTimeout is returned by Stop when the queue or the worker did
	// not finish within the allowed time.
	ErrStopTimeout = errors.New("stop timed out")
)
