package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/formatter"
	"github.com/philipp01105/logdispatch/sink"
)

func newSlogLogger(t *testing.T, buf *syncBuffer, level Level) *slog.Logger {
	t.Helper()
	l := NewBuilder().
		WithEngine(newBufferEngine(t, buf, formatter.Config{IncludeCaller: true})).
		WithContext("slog").
		WithLevel(level).
		WithCaller(true).
		Build()
	return slog.New(NewSlogHandler(l))
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf syncBuffer
	l := NewBuilder().
		WithEngine(newBufferEngine(t, &buf, formatter.Config{})).
		WithLevel(InfoLevel).
		Build()
	sh := NewSlogHandler(l)

	if sh.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should not be enabled when level is Info")
	}
	for _, level := range []slog.Level{slog.LevelInfo, slog.LevelWarn, LevelProblem, slog.LevelError} {
		if !sh.Enabled(context.Background(), level) {
			t.Errorf("%v should be enabled when level is Info", level)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	var buf syncBuffer
	logger := newSlogLogger(t, &buf, DebugLevel)

	logger.Info("test message", "key", "value", "count", 42, "ok", true)

	output := buf.String()
	for _, want := range []string{"slog: ", "test message", "key=value", "count=42", "ok=true", "[slog_test.go:"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf syncBuffer
	logger := newSlogLogger(t, &buf, DebugLevel).With("request_id", "req-123")

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "request_id=req-123") {
		t.Errorf("Expected 'request_id=req-123' in output, got: %s", output)
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf syncBuffer
	logger := newSlogLogger(t, &buf, DebugLevel).WithGroup("auth")

	logger.Info("test message", "user_id", 123, slog.Group("session", "id", "s1", "age", time.Minute))

	output := buf.String()
	for _, want := range []string{"auth.user_id=123", "auth.session.id=s1", "auth.session.age=1m0s"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestSlogHandler_InlineGroupAndEmpty(t *testing.T) {
	var buf syncBuffer
	logger := newSlogLogger(t, &buf, DebugLevel)

	logger.Info("msg", slog.Group("", "inlined", 1), slog.Attr{}, "err", errors.New("bad"))

	output := buf.String()
	if !strings.Contains(output, " inlined=1") {
		t.Errorf("Expected inlined group attribute, got: %s", output)
	}
	if !strings.Contains(output, "err=bad") {
		t.Errorf("Expected error attribute, got: %s", output)
	}
	if strings.Contains(output, " =") {
		t.Errorf("empty attribute leaked into output: %s", output)
	}
}

func TestSlogHandler_LevelFiltering(t *testing.T) {
	var buf syncBuffer
	logger := newSlogLogger(t, &buf, InfoLevel)

	logger.Debug("should not appear")
	if buf.String() != "" {
		t.Error("Debug message should not have been logged")
	}

	logger.Info("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("Expected 'should appear' in output, got: %s", buf.String())
	}

	logger.Log(context.Background(), LevelProblem, "needs attention")
	if !strings.Contains(buf.String(), "[PROBLEM]") {
		t.Errorf("Expected problem level in output, got: %s", buf.String())
	}
}

func TestSlogHandler_ReturnsDeliveryError(t *testing.T) {
	failure := errors.New("unreachable")
	l := NewBuilder().
		WithEngine(newEngine(t, sink.Func(func(*core.Entry) error { return failure }), true)).
		Build()
	sh := NewSlogHandler(l)

	err := sh.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "lost", 0))
	if !errors.Is(err, failure) || !errors.Is(err, engine.ErrDispatchFailed) {
		t.Errorf("Handle() error = %v, want dispatch failure", err)
	}
}

func TestSlogLevelToCore(t *testing.T) {
	tests := []struct {
		slogLevel slog.Level
		coreLevel core.Level
	}{
		{slog.LevelDebug - 4, core.DebugLevel},
		{slog.LevelDebug, core.DebugLevel},
		{slog.LevelInfo, core.InfoLevel},
		{slog.LevelWarn, core.WarnLevel},
		{LevelProblem, core.ProblemLevel},
		{slog.LevelError, core.ErrorLevel},
		{slog.LevelError + 4, core.FatalLevel},
	}

	for _, tt := range tests {
		got := slogLevelToCore(tt.slogLevel)
		if got != tt.coreLevel {
			t.Errorf("slogLevelToCore(%v) = %v, want %v", tt.slogLevel, got, tt.coreLevel)
		}
	}
}
