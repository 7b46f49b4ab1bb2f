package sink

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/formatter"
)

// writerBase renders entries into a sink-owned buffer and writes each one
// with a single Write call under mu.
type writerBase struct {
	mu              sync.Mutex
	writer          io.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	buf             bytes.Buffer
	color           bool
	closed          bool
	stats           Stats
}

func (b *writerBase) init(w io.Writer, f formatter.Formatter) {
	if f == nil {
		f = formatter.NewTextFormatter(formatter.Config{})
	}
	b.writer = w
	b.formatter = f
	if bf, ok := f.(formatter.BufferFormatter); ok {
		b.bufferFormatter = bf
	}
}

func (b *writerBase) write(entry *core.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.buf.Reset()
	var code string
	if b.color {
		code = levelColor(entry.Level)
		b.buf.WriteString(code)
	}

	if b.bufferFormatter != nil {
		b.bufferFormatter.FormatEntry(entry, &b.buf)
	} else {
		data, err := b.formatter.Format(entry)
		if err != nil {
			b.stats.record(err)
			return err
		}
		b.buf.Write(data)
	}

	if code != "" {
		line := b.buf.Bytes()
		if n := len(line); n > 0 && line[n-1] == '\n' {
			b.buf.Truncate(n - 1)
		}
		b.buf.WriteString(colorReset)
		b.buf.WriteByte('\n')
	}

	_, err := b.writer.Write(b.buf.Bytes())
	b.stats.record(err)
	return err
}

// Stats returns a snapshot of the write counters.
func (b *writerBase) Stats() Snapshot {
	return b.stats.Snapshot()
}

// WriterSink writes formatted entries to an io.Writer.
type WriterSink struct {
	writerBase
}

// NewWriterSink creates a sink writing to w. A nil formatter selects the
// text formatter.
func NewWriterSink(w io.Writer, f formatter.Formatter) *WriterSink {
	s := &WriterSink{}
	s.init(w, f)
	return s
}

// Dispatch implements Sink.
func (s *WriterSink) Dispatch(entry *core.Entry) error {
	return s.write(entry)
}

// Flush flushes the underlying writer when it buffers or is a regular file.
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flushWriter(s.writer)
}

// Close closes the underlying writer unless it is stdout or stderr.
// Dispatch returns ErrClosed afterwards.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := flushWriter(s.writer); err != nil {
		return err
	}
	if isStdStream(s.writer) {
		return nil
	}
	if c, ok := s.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func flushWriter(w io.Writer) error {
	switch fw := w.(type) {
	case interface{ Flush() error }:
		return fw.Flush()
	case *os.File:
		if isStdStream(fw) {
			return nil
		}
		return fw.Sync()
	}
	return nil
}

func isStdStream(w io.Writer) bool {
	return w == os.Stdout || w == os.Stderr
}

// errWriter records write errors of libraries that handle them internally,
// so that Dispatch can return them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}

// take returns and clears the recorded error.
func (e *errWriter) take() error {
	err := e.err
	e.err = nil
	return err
}

// openOutput resolves an "output" argument: stdout, stderr or a file path
// opened for appending. The returned closer is nil for standard streams.
func openOutput(name string) (io.Writer, io.Closer, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}
