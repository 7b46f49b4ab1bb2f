package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
)

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

// FatalFlushTimeout bounds the flush performed by Fatal before exiting.
var FatalFlushTimeout = 2 * time.Second

// Logger is the main logging interface (immutable)
type Logger struct {
	engines       []*engine.Engine
	context       string
	typ           string
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	engines       []*engine.Engine
	context       string
	typ           string
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		level:      core.InfoLevel, // Default level
		callerSkip: 2,              // log and the level method
	}
}

// WithEngine adds engines every entry is submitted to, in order.
func (b *Builder) WithEngine(engines ...*engine.Engine) *Builder {
	b.engines = append(b.engines, engines...)
	return b
}

// WithContext sets the originating context (component name) of entries
func (b *Builder) WithContext(name string) *Builder {
	b.context = name
	return b
}

// WithType sets the message type label of entries
func (b *Builder) WithType(label string) *Builder {
	b.typ = label
	return b
}

// WithLevel sets the log level
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFields adds default fields to all log entries
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithCaller enables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	return &Logger{
		engines:       append([]*engine.Engine(nil), b.engines...),
		context:       b.context,
		typ:           b.typ,
		level:         b.level,
		fields:        append([]core.Field(nil), b.fields...),
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}
}

func (l *Logger) clone() *Logger {
	c := *l
	return &c
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	c := l.clone()
	c.fields = newFields
	return c
}

// Named returns a Logger whose entries originate from context name.
func (l *Logger) Named(name string) *Logger {
	c := l.clone()
	c.context = name
	return c
}

// Typed returns a Logger whose entries carry the message type label.
// Per-type message counts and type filters key on it.
func (l *Logger) Typed(label string) *Logger {
	c := l.clone()
	c.typ = label
	return c
}

// Level returns the minimum level the logger submits.
func (l *Logger) Level() core.Level { return l.level }

// Context returns the originating context of entries.
func (l *Logger) Context() string { return l.context }

// Engines returns the engines entries are submitted to.
func (l *Logger) Engines() []*engine.Engine {
	return append([]*engine.Engine(nil), l.engines...)
}

// Enabled reports whether entries at level pass the logger's threshold.
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level && len(l.engines) > 0
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level check optimization - exit early BEFORE any allocations
	if level < l.level {
		return
	}

	_ = l.log(context.Background(), 0, level, msg, fields)
}

// LogContext logs like Log and returns the delivery errors of synchronous
// engines combined. An asynchronous engine returns an error only if ctx is
// done or the engine stops while the queue is full.
func (l *Logger) LogContext(ctx context.Context, level core.Level, msg string, fields ...core.Field) error {
	if level < l.level {
		return nil
	}
	return l.log(ctx, 0, level, msg, fields)
}

func (l *Logger) log(ctx context.Context, skip int, level core.Level, msg string, fields []core.Field) error {
	// Engine check - exit if no engine (avoid any work)
	if len(l.engines) == 0 {
		return nil
	}

	entry := &core.Entry{
		Time:      time.Now(),
		Level:     level,
		Context:   l.context,
		Type:      l.typ,
		Message:   msg,
		Goroutine: core.GoroutineID(),
	}

	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make([]core.Field, 0, n)
		entry.Fields = append(entry.Fields, l.fields...)
		entry.Fields = append(entry.Fields, fields...)
	}

	if l.includeCaller {
		entry.Caller = core.GetCaller(l.callerSkip + skip)
	}

	return l.submit(ctx, entry)
}

// submit hands entry to every engine. Engines share the entry and must not
// modify it.
func (l *Logger) submit(ctx context.Context, entry *core.Entry) error {
	var err error
	for _, e := range l.engines {
		err = multierr.Append(err, e.SubmitContext(ctx, entry))
	}
	return err
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if core.WarnLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.WarnLevel, msg, fields)
}

// Problem logs a recoverable problem
func (l *Logger) Problem(msg string, fields ...core.Field) {
	if core.ProblemLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.ProblemLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.ErrorLevel, msg, fields)
}

// Fatal logs a fatal message, flushes the engines and exits the program
// with os.Exit(1)
func (l *Logger) Fatal(msg string, fields ...core.Field) {
	_ = l.log(context.Background(), 0, core.FatalLevel, msg, fields)
	l.Flush(FatalFlushTimeout)
	osExit(1)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	if core.WarnLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Problemf logs a recoverable problem with formatting
func (l *Logger) Problemf(format string, args ...interface{}) {
	if core.ProblemLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.ProblemLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.level {
		return
	}
	_ = l.log(context.Background(), 0, core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a fatal message with formatting, flushes the engines and
// exits the program with os.Exit(1)
func (l *Logger) Fatalf(format string, args ...interface{}) {
	_ = l.log(context.Background(), 0, core.FatalLevel, fmt.Sprintf(format, args...), nil)
	l.Flush(FatalFlushTimeout)
	osExit(1)
}

// Flush waits up to maxWait in total for every engine to deliver what it
// has accepted. It reports whether all of them finished in time.
func (l *Logger) Flush(maxWait time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	ok := true
	for _, e := range l.engines {
		if !e.Flush(time.Until(deadline)) {
			ok = false
		}
	}
	return ok
}

// Close stops the logger's engines, sharing maxWait between them. Loggers
// derived with With, Named or Typed share the engines and stop logging too.
func (l *Logger) Close(maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	var err error
	for _, e := range l.engines {
		err = multierr.Append(err, e.Stop(time.Until(deadline)))
	}
	return err
}
