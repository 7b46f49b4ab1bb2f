package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/sink"
)

// BuildOptions carries the collaborators Build wires engines to. Nil fields
// fall back to the package defaults.
type BuildOptions struct {
	Sinks    *sink.Registry
	Engines  *engine.Registry
	Reporter engine.Reporter
}

// Build opens every configured sink and starts one engine per sink. If a
// sink cannot be opened the engines built so far are stopped.
func (c Config) Build(opts BuildOptions) ([]*engine.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if opts.Sinks == nil {
		opts.Sinks = sink.DefaultRegistry()
	}
	if opts.Engines == nil {
		opts.Engines = engine.DefaultRegistry()
	}

	retries := c.Retries
	if retries == 0 {
		retries = engine.NoRetries
	}

	engines := make([]*engine.Engine, 0, len(c.Sinks))
	for i, sc := range c.Sinks {
		filters, err := sc.Filters()
		if err == nil {
			var s sink.Sink
			s, err = opts.Sinks.Open(sc.Spec())
			if err == nil {
				engines = append(engines, engine.New(s, engine.Config{
					Name:        sc.engineName(i),
					Capacity:    c.Capacity,
					Retries:     retries,
					Synchronous: engine.Bool(c.Synchronous),
					Reporter:    opts.Reporter,
					Filters:     filters,
					Registry:    opts.Engines,
				}))
				continue
			}
		}
		for _, e := range engines {
			err = multierr.Append(err, e.Stop(c.StopTimeout))
		}
		return nil, fmt.Errorf("%w: sink %d (%s): %w", ErrConfig, i, sc.Name, err)
	}
	return engines, nil
}

func (sc SinkConfig) engineName(i int) string {
	if sc.ID != "" {
		return sc.ID
	}
	return fmt.Sprintf("%s-%d", sc.Spec().Name, i)
}
