package engine

import "sync/atomic"

const (
	// DefaultCapacity is the queue capacity used when Config.Capacity is zero
	DefaultCapacity = 20000
	// DefaultRetries is the retry count used when Config.Retries is zero
	DefaultRetries = 3
	// NoRetries disables retries: each entry gets a single dispatch attempt
	NoRetries = -1
)

var defaultSynchronous atomic.Bool

// SetDefaultSynchronous sets the process-wide mode for engines whose
// Config leaves Synchronous nil. It affects engines created afterwards.
func SetDefaultSynchronous(sync bool) {
	defaultSynchronous.Store(sync)
}

// DefaultSynchronous reports the process-wide default mode. It is false
// (asynchronous) unless changed.
func DefaultSynchronous() bool {
	return defaultSynchronous.Load()
}

// Bool returns a pointer to v, for Config.Synchronous.
func Bool(v bool) *bool {
	return &v
}
