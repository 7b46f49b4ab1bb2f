package sink

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/formatter"
)

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriterSink_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf, formatter.NewTextFormatter(formatter.Config{}))

	entry := core.NewEntry(core.WarnLevel, "db", "pool exhausted", core.Int("size", 8))
	if err := s.Dispatch(entry); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[WARNING]", "db: ", "pool exhausted", "size=8"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got: %s", want, out)
		}
	}
	if got := s.Stats(); got.Processed != 1 || got.Failed != 0 {
		t.Errorf("Stats() = %+v, want 1 processed", got)
	}
}

func TestWriterSink_WriteError(t *testing.T) {
	boom := errors.New("disk full")
	s := NewWriterSink(failingWriter{err: boom}, nil)

	err := s.Dispatch(core.NewEntry(core.InfoLevel, "", "x"))
	if !errors.Is(err, boom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, boom)
	}
	if got := s.Stats(); got.Failed != 1 {
		t.Errorf("Stats().Failed = %d, want 1", got.Failed)
	}
}

func TestWriterSink_Close(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf, nil)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := s.Dispatch(core.NewEntry(core.InfoLevel, "", "late")); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch() after Close error = %v, want ErrClosed", err)
	}
}

func TestConsoleSink_Color(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsole(ConsoleConfig{Writer: &buf, Color: ColorAlways})
	if !s.Colored() {
		t.Fatal("ColorAlways sink is not colored")
	}

	if err := s.Dispatch(core.NewEntry(core.ErrorLevel, "", "broken")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b[31m") {
		t.Errorf("Expected red prefix, got: %q", out)
	}
	if !strings.HasSuffix(out, colorReset+"\n") {
		t.Errorf("Expected reset before newline, got: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Expected exactly one newline, got: %q", out)
	}
}

func TestConsoleSink_AutoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsole(ConsoleConfig{Writer: &buf})
	if s.Colored() {
		t.Error("auto color mode colored a non-terminal writer")
	}
}

func TestParseColorMode(t *testing.T) {
	tests := map[string]ColorMode{
		"":       ColorAuto,
		"auto":   ColorAuto,
		"always": ColorAlways,
		"true":   ColorAlways,
		"never":  ColorNever,
		"off":    ColorNever,
	}
	for in, want := range tests {
		got, ok := ParseColorMode(in)
		if !ok || got != want {
			t.Errorf("ParseColorMode(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseColorMode("rainbow"); ok {
		t.Error("ParseColorMode accepted an invalid mode")
	}
}

type recordingSink struct {
	entries []*core.Entry
	err     error
	flushed int
	closed  int
}

func (r *recordingSink) Dispatch(e *core.Entry) error {
	r.entries = append(r.entries, e)
	return r.err
}

func (r *recordingSink) Flush() error {
	r.flushed++
	return nil
}

func (r *recordingSink) Close() error {
	r.closed++
	return r.err
}

func TestMultiSink(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	a := &recordingSink{err: errA}
	b := &recordingSink{err: errB}
	ok := &recordingSink{}
	m := NewMultiSink(a, ok, b, Discard)

	err := m.Dispatch(core.NewEntry(core.InfoLevel, "", "fan-out"))
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("Expected 2 combined errors, got %d: %v", got, err)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("combined error %v does not wrap both child errors", err)
	}
	for i, r := range []*recordingSink{a, ok, b} {
		if len(r.entries) != 1 {
			t.Errorf("child %d received %d entries, want 1", i, len(r.entries))
		}
	}

	if err := m.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
	_ = m.Close()
	if ok.flushed != 1 || ok.closed != 1 {
		t.Errorf("child flushed=%d closed=%d, want 1/1", ok.flushed, ok.closed)
	}
}

func TestFuncAndDiscard(t *testing.T) {
	var got string
	f := Func(func(e *core.Entry) error {
		got = e.Message
		return nil
	})
	if err := f.Dispatch(core.NewEntry(core.InfoLevel, "", "hello")); err != nil || got != "hello" {
		t.Errorf("Func sink got %q, err %v", got, err)
	}
	if err := Discard.Dispatch(core.NewEntry(core.InfoLevel, "", "x")); err != nil {
		t.Errorf("Discard.Dispatch() error = %v", err)
	}
}
