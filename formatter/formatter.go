package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/philipp01105/logdispatch/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// IncludeGoroutine adds the producing goroutine id to the output
	IncludeGoroutine bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// render formats entry through a pooled buffer and returns a private copy.
func render(entry *core.Entry, f BufferFormatter) []byte {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}

// ErrUnknownFormat is returned by ByName for a name it does not know.
var ErrUnknownFormat = errors.New("unknown format")

// ByName returns the formatter registered under name: "text" or "json".
// An empty name selects text.
func ByName(name string, cfg Config) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(cfg), nil
	case "json":
		return NewJSONFormatter(cfg), nil
	default:
		return nil, fmt.Errorf("%w %q, want text or json", ErrUnknownFormat, name)
	}
}
