package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/philipp01105/logdispatch/core"
)

// LevelProblem is the slog level mapped to ProblemLevel, between
// slog.LevelWarn and slog.LevelError.
const LevelProblem = slog.LevelWarn + 2

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so that engines can back log/slog.
type SlogHandler struct {
	logger *Logger
	attrs  []core.Field
	group  string
}

// NewSlogHandler creates a new slog.Handler submitting to the engines of l
// with its context, type, level threshold and fields.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.Enabled(slogLevelToCore(level))
}

// Handle converts record to an entry and submits it. Synchronous engines
// report their delivery errors through the returned error.
func (s *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	l := s.logger
	entry := &core.Entry{
		Time:      record.Time,
		Level:     slogLevelToCore(record.Level),
		Context:   l.context,
		Type:      l.typ,
		Message:   record.Message,
		Goroutine: core.GoroutineID(),
	}

	entry.Fields = make([]core.Field, 0, len(l.fields)+len(s.attrs)+record.NumAttrs())
	entry.Fields = append(entry.Fields, l.fields...)
	entry.Fields = append(entry.Fields, s.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = appendAttr(entry.Fields, s.group, a)
		return true
	})

	if l.includeCaller && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		entry.Caller = core.CallerInfo{
			File:      frame.File,
			ShortFile: filepath.Base(frame.File),
			Line:      frame.Line,
			Function:  frame.Function,
			Defined:   true,
		}
	}

	return l.submit(ctx, entry)
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendAttr(newAttrs, s.group, a)
	}
	return &SlogHandler{
		logger: s.logger,
		attrs:  newAttrs,
		group:  s.group,
	}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &SlogHandler{
		logger: s.logger,
		attrs:  s.attrs,
		group:  joinGroup(s.group, name),
	}
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level > slog.LevelError:
		return core.FatalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= LevelProblem:
		return core.ProblemLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

func joinGroup(group, name string) string {
	if group == "" {
		return name
	}
	return group + "." + name
}

// appendAttr flattens a into fields, prefixing keys with the group path.
// Empty attributes are dropped and groups without a key are inlined.
func appendAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Key == "" && a.Value.Kind() == slog.KindAny && a.Value.Any() == nil {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := group
		if a.Key != "" {
			sub = joinGroup(group, a.Key)
		}
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, sub, ga)
		}
		return fields
	}

	key := joinGroup(group, a.Key)
	switch a.Value.Kind() {
	case slog.KindString:
		return append(fields, core.String(key, a.Value.String()))
	case slog.KindInt64:
		return append(fields, core.Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(fields, core.Any(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return append(fields, core.Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(fields, core.Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(fields, core.Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(fields, core.Duration(key, a.Value.Duration()))
	default:
		if err, ok := a.Value.Any().(error); ok {
			f := core.Err(err)
			f.Key = key
			return append(fields, f)
		}
		return append(fields, core.Any(key, a.Value.Any()))
	}
}
