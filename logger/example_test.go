package logger_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/philipp01105/logdispatch/config"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/formatter"
	"github.com/philipp01105/logdispatch/logger"
	"github.com/philipp01105/logdispatch/sink"
)

// Use the package-level default logger for quick, no-setup logging.
func Example() {
	logger.Info("Application started")
	logger.Info("User login",
		logger.String("username", "alice"),
		logger.Int("user_id", 123),
	)
}

// Create a custom Logger with the Builder pattern.
func ExampleNewBuilder() {
	e := engine.New(sink.NewConsole(sink.ConsoleConfig{
		Writer: io.Discard,
		Formatter: formatter.NewTextFormatter(formatter.Config{
			IncludeCaller: true,
		}),
	}), engine.Config{Capacity: 1000})

	log := logger.NewBuilder().
		WithEngine(e).
		WithContext("api").
		WithLevel(logger.DebugLevel).
		WithCaller(true).
		WithFields(logger.String("service", "api")).
		Build()

	log.Info("ready", logger.Int("port", 8080))
	log.Close(time.Second)
}

// Use With and Typed to derive loggers with persistent fields and a
// message type.
func ExampleLogger_With() {
	e := engine.New(sink.NewWriterSink(io.Discard, nil), engine.Config{})

	log := logger.NewBuilder().
		WithEngine(e).
		Build()

	reqLog := log.With(
		logger.String("request_id", "req-12345"),
		logger.String("method", "GET"),
	)

	reqLog.Info("Processing request", logger.String("path", "/api/users"))
	reqLog.Typed("audit").Info("Request completed", logger.Int("status", 200))
	log.Close(time.Second)
}

// Build engines from a configuration and log through log/slog.
func ExampleFromConfig() {
	cfg := config.Default()
	sinks, err := config.ParseSinks("discard:level=WARNING")
	if err != nil {
		panic(err)
	}
	cfg.Sinks = sinks

	log, err := logger.FromConfig(cfg, logger.Options{Context: "worker"})
	if err != nil {
		panic(err)
	}
	defer log.Close(cfg.StopTimeout)

	slog.New(logger.NewSlogHandler(log)).Warn("disk almost full", "free_mb", 120)
}
