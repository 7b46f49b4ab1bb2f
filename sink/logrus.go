package sink

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/logdispatch/core"
)

// LogrusSink forwards entries to a logrus logger.
type LogrusSink struct {
	mu     sync.Mutex
	out    errWriter
	logger *logrus.Logger
	closer io.Closer
}

// NewLogrus creates a sink writing to w with logrus' text formatter, or its
// JSON formatter when json is true.
func NewLogrus(w io.Writer, json bool) *LogrusSink {
	s := &LogrusSink{}
	s.out.w = w

	l := logrus.New()
	l.SetOutput(&s.out)
	l.SetLevel(logrus.TraceLevel)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	s.logger = l
	return s
}

// Dispatch implements Sink.
func (s *LogrusSink) Dispatch(entry *core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(logrus.Fields, len(entry.Fields)+3)
	data["type"] = entry.MessageType()
	data["goroutine"] = entry.Goroutine
	if entry.Context != "" {
		data["context"] = entry.Context
	}
	for _, f := range entry.Fields {
		data[f.Key] = f.Value()
	}

	// Entry.Log never exits or panics for the levels used here
	s.logger.WithFields(data).WithTime(entry.Time).Log(logrusLevel(entry.Level), entry.Message)
	return s.out.take()
}

// Close closes the output if the sink opened it.
func (s *LogrusSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func logrusLevel(l core.Level) logrus.Level {
	switch l {
	case core.DebugLevel:
		return logrus.DebugLevel
	case core.WarnLevel, core.ProblemLevel:
		return logrus.WarnLevel
	case core.ErrorLevel:
		return logrus.ErrorLevel
	case core.FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
