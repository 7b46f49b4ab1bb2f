package sink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logdispatch/core"
)

// ZapSink forwards entries to a zapcore.Core. The entry context becomes the
// zap logger name.
type ZapSink struct {
	core zapcore.Core
}

// NewZap creates a sink writing to c.
func NewZap(c zapcore.Core) *ZapSink {
	return &ZapSink{core: c}
}

// NewZapLogger creates a sink writing to the core of l.
func NewZapLogger(l *zap.Logger) *ZapSink {
	return NewZap(l.Core())
}

// Dispatch implements Sink. Entries below the core's level are accepted
// and dropped.
func (s *ZapSink) Dispatch(entry *core.Entry) error {
	lvl := zapLevel(entry.Level)
	if !s.core.Enabled(lvl) {
		return nil
	}

	ent := zapcore.Entry{
		Level:      lvl,
		Time:       entry.Time,
		LoggerName: entry.Context,
		Message:    entry.Message,
	}
	if entry.Caller.Defined {
		ent.Caller = zapcore.NewEntryCaller(0, entry.Caller.File, entry.Caller.Line, true)
		ent.Caller.Function = entry.Caller.Function
	}

	fields := make([]zapcore.Field, 0, len(entry.Fields)+2)
	fields = append(fields,
		zap.String("type", entry.MessageType()),
		zap.Uint64("goroutine", entry.Goroutine),
	)
	for _, f := range entry.Fields {
		fields = append(fields, zapField(f))
	}
	return s.core.Write(ent, fields)
}

// Flush syncs the core.
func (s *ZapSink) Flush() error {
	return s.core.Sync()
}

func zapLevel(l core.Level) zapcore.Level {
	switch l {
	case core.DebugLevel:
		return zapcore.DebugLevel
	case core.WarnLevel, core.ProblemLevel:
		return zapcore.WarnLevel
	case core.ErrorLevel:
		return zapcore.ErrorLevel
	case core.FatalLevel:
		// Core.Write never exits; only CheckedEntry.Write does
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapField(f core.Field) zapcore.Field {
	switch f.Type {
	case core.StringType:
		return zap.String(f.Key, f.Str)
	case core.IntType, core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	case core.TimeType, core.DurationType:
		return zap.Any(f.Key, f.Value())
	case core.ErrorType:
		return zap.String(f.Key, f.Str)
	default:
		return zap.Any(f.Key, f.Any)
	}
}

// newZapCore builds the core used by the "zap" descriptor.
func newZapCore(format string, ws zapcore.WriteSyncer) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == "console" {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.Lock(ws), zapcore.DebugLevel)
}
