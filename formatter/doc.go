// Package formatter defines how log entries are serialized into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and
// BufferFormatter, which appends into a caller-owned bytes.Buffer. Sinks
// check for BufferFormatter at construction time and prefer it, so the
// single dispatch goroutine of an engine can reuse one buffer for every
// entry it writes.
//
// Both built-in formatters (TextFormatter and JSONFormatter) implement
// both interfaces. They rely on Go's Append-style functions
// (time.AppendFormat, strconv.AppendInt) to avoid per-call allocations.
// The TextFormatter additionally pre-computes level bracket strings
// (" [WARNING] ", etc.) so that the most common path is a single
// WriteString call.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
