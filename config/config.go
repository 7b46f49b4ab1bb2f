// Package config assembles engines from defaults, a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pbnjay/memory"
	"github.com/pelletier/go-toml/v2"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/filter"
	"github.com/philipp01105/logdispatch/sink"
)

// ErrConfig marks every configuration error.
var ErrConfig = errors.New("invalid configuration")

const (
	// DefaultStopTimeout bounds Stop when nothing else is configured.
	DefaultStopTimeout = 5 * time.Second

	// MinAutoCapacity and MaxAutoCapacity clamp the free-memory based size.
	MinAutoCapacity = 1024
	MaxAutoCapacity = 1_000_000

	// entryFootprint is the assumed size of a queued entry in bytes.
	entryFootprint = 512
)

// Environment variables read by FromEnv.
const (
	EnvSinks       = "LOGDISPATCH_SINKS"
	EnvCapacity    = "LOGDISPATCH_CAPACITY"
	EnvRetries     = "LOGDISPATCH_RETRIES"
	EnvSync        = "LOGDISPATCH_SYNC"
	EnvStopTimeout = "LOGDISPATCH_STOP_TIMEOUT"

	// EnvFile names a TOML file loaded by FromEnvironment.
	EnvFile = "LOGDISPATCH_CONFIG"
	// EnvLevel is the minimum level of loggers built from the environment.
	EnvLevel = "LOGDISPATCH_LEVEL"
)

// Reserved descriptor keys turned into filters instead of sink arguments.
const (
	keyLevel  = "level"
	keyFilter = "filter"
	keyTypes  = "types"
	keyName   = "id"
)

// Config is the construction-time configuration shared by every engine
// built from it.
type Config struct {
	Capacity    int
	Retries     int
	Synchronous bool
	StopTimeout time.Duration
	Sinks       []SinkConfig
}

// SinkConfig describes one sink and the filters of the engine feeding it.
type SinkConfig struct {
	// ID names the engine (default: "<name>-<index>")
	ID     string            `toml:"id"`
	Name   string            `toml:"name"`
	Level  string            `toml:"level"`
	Filter string            `toml:"filter"`
	Types  []string          `toml:"types"`
	Args   map[string]string `toml:"args"`
}

// Default returns the built-in configuration: one console sink fed by an
// engine with the default capacity and retry count.
func Default() Config {
	return Config{
		Capacity:    engine.DefaultCapacity,
		Retries:     engine.DefaultRetries,
		Synchronous: engine.DefaultSynchronous(),
		StopTimeout: DefaultStopTimeout,
		Sinks:       []SinkConfig{{Name: "console"}},
	}
}

// AutoCapacity sizes a queue from the currently free memory.
func AutoCapacity() int {
	free := memory.FreeMemory()
	if free == 0 {
		return engine.DefaultCapacity
	}
	n := free / 100 / entryFootprint
	switch {
	case n < MinAutoCapacity:
		return MinAutoCapacity
	case n > MaxAutoCapacity:
		return MaxAutoCapacity
	}
	return int(n)
}

// file mirrors the TOML layout. Pointers distinguish absent keys from zero
// values so that a file only overrides what it names.
type file struct {
	Capacity     *int         `toml:"capacity"`
	AutoCapacity bool         `toml:"auto_capacity"`
	Retries      *int         `toml:"retries"`
	Synchronous  *bool        `toml:"synchronous"`
	StopTimeout  *Duration    `toml:"stop_timeout"`
	Descriptor   string       `toml:"sinks_descriptor"`
	Sinks        []SinkConfig `toml:"sinks"`
}

// Duration decodes TOML strings such as "1500ms".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Load reads a TOML file on top of Default. Unknown keys are rejected.
//
//	capacity = 5000
//	retries = 2
//	stop_timeout = "3s"
//
//	[[sinks]]
//	name = "file"
//	level = "WARNING"
//	args = { path = "/var/log/app.log", maxsize = "50" }
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	defer f.Close()

	var raw file
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s: %s", ErrConfig, path, strings.TrimSpace(strict.String()))
		}
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}
	return raw.apply(Default())
}

func (raw file) apply(cfg Config) (Config, error) {
	if raw.Capacity != nil {
		cfg.Capacity = *raw.Capacity
	}
	if raw.AutoCapacity {
		cfg.Capacity = AutoCapacity()
	}
	if raw.Retries != nil {
		cfg.Retries = *raw.Retries
	}
	if raw.Synchronous != nil {
		cfg.Synchronous = *raw.Synchronous
	}
	if raw.StopTimeout != nil {
		cfg.StopTimeout = time.Duration(*raw.StopTimeout)
	}
	if len(raw.Sinks) > 0 || raw.Descriptor != "" {
		sinks := append([]SinkConfig(nil), raw.Sinks...)
		if raw.Descriptor != "" {
			parsed, err := ParseSinks(raw.Descriptor)
			if err != nil {
				return Config{}, err
			}
			sinks = append(sinks, parsed...)
		}
		cfg.Sinks = sinks
	}
	return cfg, cfg.Validate()
}

// FromEnv overlays the LOGDISPATCH_* variables that are set onto cfg.
func FromEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvSinks); ok && strings.TrimSpace(v) != "" {
		sinks, err := ParseSinks(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSinks, err)
		}
		cfg.Sinks = sinks
	}
	if v, ok := lookup(EnvCapacity); ok {
		if strings.EqualFold(v, "auto") {
			cfg.Capacity = AutoCapacity()
		} else {
			n, err := atoi(EnvCapacity, v)
			if err != nil {
				return err
			}
			cfg.Capacity = n
		}
	}
	if v, ok := lookup(EnvRetries); ok {
		n, err := atoi(EnvRetries, v)
		if err != nil {
			return err
		}
		cfg.Retries = n
	}
	if v, ok := lookup(EnvSync); ok {
		b, err := sink.Args{EnvSync: v}.Bool(EnvSync, false)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		cfg.Synchronous = b
	}
	if v, ok := lookup(EnvStopTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfig, EnvStopTimeout, err)
		}
		cfg.StopTimeout = d
	}
	return cfg.Validate()
}

// FromEnvironment loads the file named by LOGDISPATCH_CONFIG, or Default
// when it is unset, and overlays the remaining variables.
func FromEnvironment() (Config, error) {
	cfg := Default()
	if path, ok := lookup(EnvFile); ok {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	if err := FromEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func atoi(key, v string) (int, error) {
	n, err := sink.Args{key: v}.Int(key, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return n, nil
}

// ParseSinks parses a sink descriptor such as
//
//	console:level=WARNING,color=auto;file:path=/var/log/app.log,types=audit|security
//
// The keys level, filter (a CEL expression), types ('|' separated) and id
// configure the engine and are not passed to the sink.
func ParseSinks(descriptor string) ([]SinkConfig, error) {
	specs, err := sink.ParseSpecs(descriptor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty sink descriptor", ErrConfig)
	}
	out := make([]SinkConfig, 0, len(specs))
	for _, spec := range specs {
		sc := SinkConfig{
			ID:     spec.Args[keyName],
			Name:   spec.Name,
			Level:  spec.Args[keyLevel],
			Filter: spec.Args[keyFilter],
			Args:   spec.Args.Without(keyName, keyLevel, keyFilter, keyTypes),
		}
		if t := spec.Args[keyTypes]; t != "" {
			for _, label := range strings.Split(t, "|") {
				if label = strings.TrimSpace(label); label != "" {
					sc.Types = append(sc.Types, label)
				}
			}
		}
		if _, err := sc.Filters(); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Spec returns the descriptor handed to the sink registry.
func (sc SinkConfig) Spec() sink.Spec {
	args := make(sink.Args, len(sc.Args))
	for k, v := range sc.Args {
		args[strings.ToLower(k)] = v
	}
	return sink.Spec{Name: strings.ToLower(sc.Name), Args: args}
}

// Filters builds the engine filters for the sink in the order level, types,
// expression.
func (sc SinkConfig) Filters() ([]filter.Filter, error) {
	var fs []filter.Filter
	if sc.Level != "" {
		l, err := core.ParseLevel(sc.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, sc.Name, err)
		}
		fs = append(fs, filter.Level(l))
	}
	if len(sc.Types) > 0 {
		fs = append(fs, filter.Types(sc.Types...))
	}
	if sc.Filter != "" {
		f, err := filter.CEL(sc.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, sc.Name, err)
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// Validate checks value ranges and every sink's filters.
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d must not be negative", ErrConfig, c.Capacity)
	}
	if c.Retries < engine.NoRetries {
		return fmt.Errorf("%w: retries %d must be >= %d", ErrConfig, c.Retries, engine.NoRetries)
	}
	if c.StopTimeout < 0 {
		return fmt.Errorf("%w: stop timeout %s must not be negative", ErrConfig, c.StopTimeout)
	}
	for i, sc := range c.Sinks {
		if strings.TrimSpace(sc.Name) == "" {
			return fmt.Errorf("%w: sink %d has no name", ErrConfig, i)
		}
		if _, err := sc.Filters(); err != nil {
			return err
		}
	}
	return nil
}
