package logger

import (
	"fmt"
	"os"

	"github.com/philipp01105/logdispatch/config"
	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/sink"
)

// Options adjusts loggers built from configuration.
type Options struct {
	// Context is the originating context of entries
	Context string
	// Level is the minimum level name (default: INFORMATION)
	Level string
	// Caller records the call site of every entry
	Caller bool
	// Fields are added to every entry
	Fields []core.Field

	Sinks    *sink.Registry
	Engines  *engine.Registry
	Reporter engine.Reporter
}

// FromConfig builds one engine per configured sink and a Logger feeding
// all of them.
func FromConfig(cfg config.Config, opts Options) (*Logger, error) {
	level := core.InfoLevel
	if opts.Level != "" {
		l, err := core.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
		}
		level = l
	}

	engines, err := cfg.Build(config.BuildOptions{
		Sinks:    opts.Sinks,
		Engines:  opts.Engines,
		Reporter: opts.Reporter,
	})
	if err != nil {
		return nil, err
	}

	return NewBuilder().
		WithEngine(engines...).
		WithContext(opts.Context).
		WithLevel(level).
		WithCaller(opts.Caller).
		WithFields(opts.Fields...).
		Build(), nil
}

// FromEnv builds a Logger from the LOGDISPATCH_* environment variables,
// starting from the file named by LOGDISPATCH_CONFIG when it is set.
func FromEnv() (*Logger, error) {
	cfg, err := config.FromEnvironment()
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, Options{Level: os.Getenv(config.EnvLevel)})
}

// MustFromEnv is like FromEnv but panics on a configuration error.
func MustFromEnv() *Logger {
	l, err := FromEnv()
	if err != nil {
		panic(fmt.Sprintf("logdispatch: %v", err))
	}
	return l
}
