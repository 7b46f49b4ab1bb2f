// Package engine implements the asynchronous log-delivery engine.
//
// An Engine accepts entries from any number of goroutines, buffers them in
// a bounded FIFO queue and hands them one at a time to a sink from a single
// background worker. The worker is started lazily on the first
// asynchronous Submit, so engines that are never used spawn no goroutine.
//
// When the queue is full Submit blocks; this is the only backpressure
// mechanism and memory stays bounded by the configured capacity.
//
// A failed dispatch is retried immediately up to Retries more times. When
// every attempt fails the entry is escalated: it is handed to the failure
// Reporter and every entry still queued behind it is drained and reported
// without being dispatched. A permanently broken sink therefore costs a
// bounded number of attempts instead of one retry cycle per queued entry.
//
// In synchronous mode Submit dispatches inline on the caller's goroutine
// and returns the dispatch error; no worker is ever started.
//
// Shutdown is Close (stop accepting), Flush (wait for the queue to empty)
// and Stop (Close, Flush, terminate the worker, flush and close the sink).
// Flush and Stop take a maximum wait and never block longer.
//
// Engines register with a Registry on construction and deregister on
// Stop, so a process can flush or stop every live engine on exit:
//
//	reg := engine.DefaultRegistry()
//	defer reg.StopAll(5 * time.Second)
//
// Engine state moves Created → Running → Closing → Stopped.
package engine
