package benchmark

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/formatter"
	"github.com/philipp01105/logdispatch/logger"
	"github.com/philipp01105/logdispatch/sink"
)

// emitter is the common surface every contender is driven through. All of
// them write one JSON object per call.
type emitter interface {
	// plain logs msg at info level with no fields.
	plain(msg string)
	// request logs msg at info level with the request fields below.
	request(msg string)
	// disabled logs at debug level on a logger whose minimum is error.
	disabled(msg string)
	// done waits until everything logged has been written.
	done()
}

const (
	reqMethod  = "GET"
	reqPath    = "/api/users"
	reqStatus  = 200
	reqLatency = 150 * time.Millisecond
)

type contender struct {
	name string
	open func(b *testing.B, w io.Writer) emitter
}

var contenders = []contender{
	{"logdispatch-async", func(b *testing.B, w io.Writer) emitter { return newDispatch(b, w, false) }},
	{"logdispatch-sync", func(b *testing.B, w io.Writer) emitter { return newDispatch(b, w, true) }},
	{"zap", func(_ *testing.B, w io.Writer) emitter { return newZap(w) }},
	{"slog", func(_ *testing.B, w io.Writer) emitter { return newSlog(w) }},
	{"logrus", func(_ *testing.B, w io.Writer) emitter { return newLogrus(w) }},
	{"zerolog", func(_ *testing.B, w io.Writer) emitter { return newZerolog(w) }},
}

// compete runs loop once per contender. The timer covers everything up to
// done, so asynchronous contenders pay for draining their queue.
func compete(b *testing.B, loop func(b *testing.B, e emitter)) {
	for _, c := range contenders {
		b.Run(c.name, func(b *testing.B) {
			e := c.open(b, io.Discard)
			b.ResetTimer()
			b.ReportAllocs()
			loop(b, e)
			e.done()
		})
	}
}

func BenchmarkCompetitive_InfoNoFields(b *testing.B) {
	compete(b, func(b *testing.B, e emitter) {
		for i := 0; i < b.N; i++ {
			e.plain("info message")
		}
	})
}

func BenchmarkCompetitive_InfoWithFields(b *testing.B) {
	compete(b, func(b *testing.B, e emitter) {
		for i := 0; i < b.N; i++ {
			e.request("request handled")
		}
	})
}

// Cost of a call rejected by the level check.
func BenchmarkCompetitive_DisabledLevel(b *testing.B) {
	compete(b, func(b *testing.B, e emitter) {
		for i := 0; i < b.N; i++ {
			e.disabled("debug message")
		}
	})
}

func BenchmarkCompetitive_Parallel(b *testing.B) {
	compete(b, func(b *testing.B, e emitter) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				e.request("parallel log")
			}
		})
	})
}

func BenchmarkCompetitive_FileOutput(b *testing.B) {
	for _, c := range contenders {
		b.Run(c.name, func(b *testing.B) {
			f, err := os.CreateTemp(b.TempDir(), "bench-*.log")
			if err != nil {
				b.Fatal(err)
			}
			e := c.open(b, f)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				e.plain("file log")
			}
			e.done()
			b.StopTimer()
			_ = f.Close()
		})
	}
}

// logdispatch

type dispatchEmitter struct {
	l, quiet *logger.Logger
}

func newDispatch(b *testing.B, w io.Writer, synchronous bool) *dispatchEmitter {
	e := engine.New(sink.NewWriterSink(w, formatter.NewJSONFormatter(formatter.Config{})), engine.Config{
		Synchronous: engine.Bool(synchronous),
		Registry:    engine.NewRegistry(),
	})
	b.Cleanup(func() { _ = e.Stop(10 * time.Second) })
	l := logger.NewBuilder().WithEngine(e).WithLevel(core.DebugLevel).Build()
	quiet := logger.NewBuilder().WithEngine(e).WithLevel(core.ErrorLevel).Build()
	return &dispatchEmitter{l: l, quiet: quiet}
}

func (d *dispatchEmitter) plain(msg string) { d.l.Info(msg) }

func (d *dispatchEmitter) request(msg string) {
	d.l.Info(msg,
		logger.String("method", reqMethod),
		logger.String("path", reqPath),
		logger.Int("status", reqStatus),
		logger.Duration("latency", reqLatency),
	)
}

func (d *dispatchEmitter) disabled(msg string) { d.quiet.Debug(msg, logger.String("key", "value")) }
func (d *dispatchEmitter) done()               { d.l.Flush(10 * time.Second) }

// zap

type zapEmitter struct {
	l, quiet *zap.Logger
}

func newZap(w io.Writer) *zapEmitter {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	l := zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zap.DebugLevel))
	return &zapEmitter{l: l, quiet: l.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))}
}

func (z *zapEmitter) plain(msg string) { z.l.Info(msg) }

func (z *zapEmitter) request(msg string) {
	z.l.Info(msg,
		zap.String("method", reqMethod),
		zap.String("path", reqPath),
		zap.Int("status", reqStatus),
		zap.Duration("latency", reqLatency),
	)
}

func (z *zapEmitter) disabled(msg string) { z.quiet.Debug(msg, zap.String("key", "value")) }
func (z *zapEmitter) done()               { _ = z.l.Sync() }

// slog

type slogEmitter struct {
	l, quiet *slog.Logger
}

func newSlog(w io.Writer) *slogEmitter {
	return &slogEmitter{
		l:     slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
		quiet: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func (s *slogEmitter) plain(msg string) { s.l.Info(msg) }

func (s *slogEmitter) request(msg string) {
	s.l.Info(msg,
		slog.String("method", reqMethod),
		slog.String("path", reqPath),
		slog.Int("status", reqStatus),
		slog.Duration("latency", reqLatency),
	)
}

func (s *slogEmitter) disabled(msg string) { s.quiet.Debug(msg, slog.String("key", "value")) }
func (s *slogEmitter) done()               {}

// logrus

type logrusEmitter struct {
	l, quiet *logrus.Logger
}

func newLogrus(w io.Writer) *logrusEmitter {
	build := func(level logrus.Level) *logrus.Logger {
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(level)
		return l
	}
	return &logrusEmitter{l: build(logrus.DebugLevel), quiet: build(logrus.ErrorLevel)}
}

func (r *logrusEmitter) plain(msg string) { r.l.Info(msg) }

func (r *logrusEmitter) request(msg string) {
	r.l.WithFields(logrus.Fields{
		"method":  reqMethod,
		"path":    reqPath,
		"status":  reqStatus,
		"latency": reqLatency,
	}).Info(msg)
}

func (r *logrusEmitter) disabled(msg string) { r.quiet.WithField("key", "value").Debug(msg) }
func (r *logrusEmitter) done()               {}

// zerolog

type zerologEmitter struct {
	l, quiet zerolog.Logger
}

func newZerolog(w io.Writer) *zerologEmitter {
	l := zerolog.New(w).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return &zerologEmitter{l: l, quiet: l.Level(zerolog.ErrorLevel)}
}

func (z *zerologEmitter) plain(msg string) { z.l.Info().Msg(msg) }

func (z *zerologEmitter) request(msg string) {
	z.l.Info().
		Str("method", reqMethod).
		Str("path", reqPath).
		Int("status", reqStatus).
		Dur("latency", reqLatency).
		Msg(msg)
}

func (z *zerologEmitter) disabled(msg string) { z.quiet.Debug().Str("key", "value").Msg(msg) }

func (z *zerologEmitter) done() {}
