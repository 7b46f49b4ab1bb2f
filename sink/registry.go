package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logdispatch/formatter"
)

// Factory creates a sink from descriptor arguments.
type Factory func(args Args) (Sink, error)

// Registry maps sink names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

var defaultRegistry = NewRegistry()

func init() {
	RegisterBuiltins(defaultRegistry)
}

// DefaultRegistry returns the process-wide registry holding the built-in
// sinks.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register makes a factory available under name. It panics if name is
// empty, f is nil or name is already registered.
func (r *Registry) Register(name string, f Factory) {
	name = strings.ToLower(name)
	if name == "" || f == nil {
		panic("sink: Register with empty name or nil factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		panic("sink: Register called twice for " + name)
	}
	r.factories[name] = f
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open creates the sink described by spec.
func (r *Registry) Open(spec Spec) (Sink, error) {
	r.mu.RLock()
	f, ok := r.factories[spec.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownSink, spec.Name, strings.Join(r.Names(), ", "))
	}
	args := spec.Args
	if args == nil {
		args = Args{}
	}
	s, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("open %s sink: %w", spec.Name, err)
	}
	return s, nil
}

// OpenString parses descriptor and opens every sink it names. Sinks opened
// before a failure are closed.
func (r *Registry) OpenString(descriptor string) ([]Sink, error) {
	specs, err := ParseSpecs(descriptor)
	if err != nil {
		return nil, err
	}
	sinks := make([]Sink, 0, len(specs))
	for _, spec := range specs {
		s, err := r.Open(spec)
		if err != nil {
			for _, opened := range sinks {
				_ = closeSink(opened)
			}
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// RegisterBuiltins registers the sinks of this package on r.
func RegisterBuiltins(r *Registry) {
	r.Register("console", openConsole)
	r.Register("file", openFile)
	r.Register("zap", openZap)
	r.Register("zerolog", openZerolog)
	r.Register("logrus", openLogrus)
	r.Register("beats", openBeats)
	r.Register("pebble", openPebble)
	r.Register("cloud", openCloud)
	r.Register("discard", func(Args) (Sink, error) { return Discard, nil })
}

func formatterArg(args Args) (formatter.Formatter, error) {
	caller, err := args.Bool("caller", false)
	if err != nil {
		return nil, err
	}
	goroutine, err := args.Bool("goroutine", false)
	if err != nil {
		return nil, err
	}
	cfg := formatter.Config{
		IncludeCaller:    caller,
		IncludeGoroutine: goroutine,
		TimestampFormat:  args.String("timeformat", ""),
	}
	f, err := formatter.ByName(args.String("format", "text"), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: format: %w", ErrBadArgument, err)
	}
	return f, nil
}

func openConsole(args Args) (Sink, error) {
	var w io.Writer
	switch out := args.String("output", "stdout"); out {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		return nil, fmt.Errorf("%w: output=%q, want stdout or stderr", ErrBadArgument, out)
	}
	mode, ok := ParseColorMode(args.String("color", "auto"))
	if !ok {
		return nil, fmt.Errorf("%w: color=%q, want auto, always or never", ErrBadArgument, args["color"])
	}
	f, err := formatterArg(args)
	if err != nil {
		return nil, err
	}
	return NewConsole(ConsoleConfig{Writer: w, Formatter: f, Color: mode}), nil
}

func openFile(args Args) (Sink, error) {
	path, err := args.Required("path")
	if err != nil {
		return nil, err
	}
	cfg := FileConfig{Path: path}
	if cfg.MaxSize, err = args.Int("maxsize", 100); err != nil {
		return nil, err
	}
	if cfg.MaxBackups, err = args.Int("maxbackups", 0); err != nil {
		return nil, err
	}
	if cfg.MaxAge, err = args.Int("maxage", 0); err != nil {
		return nil, err
	}
	if cfg.Compress, err = args.Bool("compress", false); err != nil {
		return nil, err
	}
	if cfg.Formatter, err = formatterArg(args); err != nil {
		return nil, err
	}
	return NewFile(cfg)
}

func openZap(args Args) (Sink, error) {
	format := args.String("format", "json")
	if format != "json" && format != "console" {
		return nil, fmt.Errorf("%w: format=%q, want json or console", ErrBadArgument, format)
	}

	var ws zapcore.WriteSyncer
	switch out := args.String("output", "stderr"); out {
	case "stdout":
		// hide os.File.Sync, which fails on terminals and pipes
		ws = zapcore.AddSync(struct{ io.Writer }{os.Stdout})
	case "stderr":
		ws = zapcore.AddSync(struct{ io.Writer }{os.Stderr})
	default:
		fileWS, closeOut, err := zap.Open(out)
		if err != nil {
			return nil, err
		}
		return &closingZapSink{ZapSink: NewZap(newZapCore(format, fileWS)), close: closeOut}, nil
	}
	return NewZap(newZapCore(format, ws)), nil
}

type closingZapSink struct {
	*ZapSink
	close func()
}

func (s *closingZapSink) Close() error {
	err := s.Flush()
	s.close()
	return err
}

func openZerolog(args Args) (Sink, error) {
	w, closer, err := openOutput(args.String("output", "stdout"))
	if err != nil {
		return nil, err
	}
	s := NewZerolog(w)
	s.closer = closer
	return s, nil
}

func openLogrus(args Args) (Sink, error) {
	format := args.String("format", "text")
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("%w: format=%q, want text or json", ErrBadArgument, format)
	}
	w, closer, err := openOutput(args.String("output", "stdout"))
	if err != nil {
		return nil, err
	}
	s := NewLogrus(w, format == "json")
	s.closer = closer
	return s, nil
}

func openBeats(args Args) (Sink, error) {
	addr, err := args.Required("addr")
	if err != nil {
		return nil, err
	}
	cfg := BeatsConfig{Addr: addr}
	if cfg.Timeout, err = args.Duration("timeout", 0); err != nil {
		return nil, err
	}
	if cfg.Compression, err = args.Int("compression", 0); err != nil {
		return nil, err
	}
	return NewBeats(cfg)
}

func openPebble(args Args) (Sink, error) {
	dir, err := args.Required("path")
	if err != nil {
		return nil, err
	}
	syncWrites, err := args.Bool("sync", false)
	if err != nil {
		return nil, err
	}
	return NewPebble(PebbleConfig{Dir: dir, Sync: syncWrites})
}

func openCloud(args Args) (Sink, error) {
	project, err := args.Required("project")
	if err != nil {
		return nil, err
	}
	cfg := CloudConfig{
		Project:   project,
		LogID:     args.String("logid", ""),
		Instance:  args.String("instance", ""),
		UserAgent: args.String("useragent", ""),
	}
	if cfg.WithoutAuthentication, err = args.Bool("noauth", false); err != nil {
		return nil, err
	}
	if cfg.DelayThreshold, err = args.Duration("delay", 0); err != nil {
		return nil, err
	}
	return NewCloud(context.Background(), cfg)
}
