// Package core defines the shared types used across logdispatch.
//
// It provides the Level type for severity gating, the Entry type that
// represents a single log event, and the Field type for structured
// key-value pairs.
//
// An Entry is created once at the call site with NewEntry and is never
// mutated afterwards. Entries are handed to delivery engines that may
// keep them queued long after the producing call has returned, so they
// are not pooled.
//
// Field encodes values into fixed-size numeric fields (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. The Any field exists as a fallback for
// arbitrary types but will cause an allocation.
//
// Every entry carries a message type label. Engines count dispatched
// entries per pluralized label ("warnings", "problems", ...), see
// Entry.MessageType and Pluralize.
package core
