// Package logger is the producer-facing API of logdispatch. Most users only
// need to import this package.
//
// A Logger is immutable after construction. Its engines, context, type
// label, level and fields are set once via the Builder and never modified,
// which makes Logger safe for concurrent use without locking on the read
// path.
//
// The package-level functions Info, Problem, Debugf, etc. delegate to a
// default Logger that is built from the LOGDISPATCH_* environment on first
// use, so simple programs can log without any setup. An invalid environment
// configuration makes that first use exit the process.
//
//	logger.Info("ready", logger.Int("port", 8080))
//
// For custom configuration, use the Builder with engines of your own:
//
//	e := engine.New(sink.NewConsole(sink.ConsoleConfig{}), engine.Config{})
//	log := logger.NewBuilder().
//	    WithEngine(e).
//	    WithContext("billing").
//	    WithLevel(logger.DebugLevel).
//	    WithCaller(true).
//	    Build()
//
// or build the engines from a configuration:
//
//	cfg, err := config.Load("logdispatch.toml")
//	log, err := logger.FromConfig(cfg, logger.Options{Context: "billing"})
//
// Child loggers are derived with With, Named and Typed. They share the
// engines of their parent:
//
//	audit := log.Typed("audit").With(logger.String("request_id", id))
//
// Level checks happen before any allocation, so filtered-out messages cost
// only a single integer comparison. NewSlogHandler exposes a Logger as a
// log/slog handler.
package logger
