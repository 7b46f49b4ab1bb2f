package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipp01105/logdispatch/config"
	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/engine"
	"github.com/philipp01105/logdispatch/logger"
)

const maxLineSize = 1 << 20

type pipeOptions struct {
	level       string
	context     string
	typ         string
	configPath  string
	sinks       string
	detectLevel bool
	stopTimeout time.Duration
}

func newPipeCmd(diag *zap.Logger) *cobra.Command {
	var opts pipeOptions
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Submit every line read from stdin as a log entry",
		Long: "pipe reads stdin line by line and submits each line to the configured engines.\n" +
			"It stops the engines on EOF, SIGINT or SIGTERM and logs the per-engine message counts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runPipe(ctx, cmd.InOrStdin(), opts, diag)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.level, "level", "INFORMATION", "Level of submitted entries")
	flags.StringVar(&opts.context, "context", "pipe", "Originating context of submitted entries")
	flags.StringVar(&opts.typ, "type", "", "Message type label of submitted entries")
	flags.StringVar(&opts.configPath, "config", os.Getenv(config.EnvFile), "TOML configuration file")
	flags.StringVar(&opts.sinks, "sinks", "", "Sink descriptor, overrides the configuration (e.g. \"console;file:path=app.log\")")
	flags.BoolVar(&opts.detectLevel, "detect-level", false, "Take the level from a \"LEVEL:\" prefix when a line has one")
	flags.DurationVar(&opts.stopTimeout, "stop-timeout", 0, "Time to wait for delivery on shutdown (default from configuration)")
	return cmd
}

func loadPipeConfig(opts pipeOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if err := config.FromEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	if opts.sinks != "" {
		sinks, err := config.ParseSinks(opts.sinks)
		if err != nil {
			return config.Config{}, fmt.Errorf("--sinks: %w", err)
		}
		cfg.Sinks = sinks
	}
	if opts.stopTimeout > 0 {
		cfg.StopTimeout = opts.stopTimeout
	}
	return cfg, nil
}

func runPipe(ctx context.Context, in io.Reader, opts pipeOptions, diag *zap.Logger) error {
	level, err := core.ParseLevel(opts.level)
	if err != nil {
		return fmt.Errorf("--level: %w", err)
	}
	cfg, err := loadPipeConfig(opts)
	if err != nil {
		return err
	}

	engines := engine.NewRegistry()
	log, err := logger.FromConfig(cfg, logger.Options{
		Context:  opts.context,
		Level:    core.NoneLevel.String(),
		Engines:  engines,
		Reporter: engine.NewZapReporter(diag),
	})
	if err != nil {
		return err
	}
	if opts.typ != "" {
		log = log.Typed(opts.typ)
	}
	started := log.Engines()
	for _, e := range started {
		diag.Debug("engine started",
			zap.String("engine", e.Name()),
			zap.Int("capacity", e.Capacity()),
			zap.Int("retries", e.Retries()),
			zap.Bool("synchronous", e.Synchronous()))
	}

	lines, readErr := readLines(ctx, in, func(line string) {
		l := level
		if opts.detectLevel {
			l, line = splitLevel(line, level)
		}
		// Delivery failures are reported through diag by the engines.
		_ = log.LogContext(ctx, l, line)
	})

	if ctx.Err() != nil {
		diag.Info("interrupted, stopping engines", zap.Int("lines", lines))
	}
	stopErr := engines.StopAll(cfg.StopTimeout)

	for _, e := range started {
		fields := []zap.Field{zap.String("engine", e.Name())}
		for label, n := range e.MessageCounts() {
			fields = append(fields, zap.Uint64(label, n))
		}
		diag.Info("engine stopped", fields...)
	}
	diag.Info("pipe finished", zap.Int("lines", lines))

	if readErr != nil {
		return fmt.Errorf("read stdin: %w", readErr)
	}
	return stopErr
}

// readLines calls fn for every line of in until EOF or until ctx is done.
// The scanner runs in its own goroutine because reads from a terminal or
// pipe cannot be interrupted.
func readLines(ctx context.Context, in io.Reader, fn func(string)) (int, error) {
	type result struct {
		line string
		err  error
		eof  bool
	}
	results := make(chan result)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case results <- result{line: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case results <- result{err: scanner.Err(), eof: true}:
		case <-ctx.Done():
		}
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, nil
		case r := <-results:
			if r.eof {
				return n, r.err
			}
			fn(r.line)
			n++
		}
	}
}

// splitLevel strips a leading "LEVEL:" or "[LEVEL]" from line and returns
// the level it names, or def when the line carries none.
func splitLevel(line string, def core.Level) (core.Level, string) {
	trimmed := strings.TrimSpace(line)
	var name, rest string
	switch {
	case strings.HasPrefix(trimmed, "["):
		end := strings.IndexByte(trimmed, ']')
		if end < 0 {
			return def, line
		}
		name, rest = trimmed[1:end], trimmed[end+1:]
	default:
		var ok bool
		name, rest, ok = strings.Cut(trimmed, ":")
		if !ok || strings.ContainsAny(name, " \t") {
			return def, line
		}
	}
	l, err := core.ParseLevel(name)
	if err != nil {
		return def, line
	}
	return l, strings.TrimSpace(rest)
}
