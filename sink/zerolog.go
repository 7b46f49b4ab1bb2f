package sink

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/philipp01105/logdispatch/core"
)

// ZerologSink forwards entries to a zerolog logger writing JSON lines.
type ZerologSink struct {
	mu     sync.Mutex
	out    errWriter
	logger zerolog.Logger
	closer io.Closer
}

// NewZerolog creates a sink writing to w.
func NewZerolog(w io.Writer) *ZerologSink {
	s := &ZerologSink{}
	s.out.w = w
	s.logger = zerolog.New(&s.out)
	return s
}

// Dispatch implements Sink.
func (s *ZerologSink) Dispatch(entry *core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := s.logger.WithLevel(zerologLevel(entry.Level))
	if ev == nil {
		return nil
	}
	ev = ev.Time(zerolog.TimestampFieldName, entry.Time).
		Str("severity", entry.Level.String()).
		Str("type", entry.MessageType()).
		Uint64("goroutine", entry.Goroutine)
	if entry.Context != "" {
		ev = ev.Str("context", entry.Context)
	}
	for _, f := range entry.Fields {
		switch f.Type {
		case core.StringType, core.ErrorType:
			ev = ev.Str(f.Key, f.Str)
		case core.IntType, core.Int64Type:
			ev = ev.Int64(f.Key, f.Int64)
		case core.Float64Type:
			ev = ev.Float64(f.Key, f.Float64)
		case core.BoolType:
			ev = ev.Bool(f.Key, f.Int64 == 1)
		default:
			ev = ev.Interface(f.Key, f.Value())
		}
	}
	ev.Msg(entry.Message)
	return s.out.take()
}

// Close closes the output if the sink opened it.
func (s *ZerologSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func zerologLevel(l core.Level) zerolog.Level {
	switch l {
	case core.NoneLevel:
		return zerolog.NoLevel
	case core.DebugLevel:
		return zerolog.DebugLevel
	case core.WarnLevel, core.ProblemLevel:
		return zerolog.WarnLevel
	case core.ErrorLevel:
		return zerolog.ErrorLevel
	case core.FatalLevel:
		// WithLevel does not exit for FatalLevel
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
