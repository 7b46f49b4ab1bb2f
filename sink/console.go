package sink

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/formatter"
)

// ColorMode selects when the console sink emits ANSI colors.
type ColorMode int

const (
	// ColorAuto colors output when the writer is a terminal and NO_COLOR is unset
	ColorAuto ColorMode = iota
	// ColorAlways colors output unconditionally
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

const colorReset = "\x1b[0m"

var levelColors = [...]string{
	core.NoneLevel:    "",
	core.DebugLevel:   "\x1b[90m",
	core.InfoLevel:    "\x1b[36m",
	core.WarnLevel:    "\x1b[33m",
	core.ProblemLevel: "\x1b[35m",
	core.ErrorLevel:   "\x1b[31m",
	core.FatalLevel:   "\x1b[1;31m",
}

func levelColor(l core.Level) string {
	if l.Valid() {
		return levelColors[l]
	}
	return ""
}

// ConsoleConfig holds configuration for the console sink
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Color selects ANSI coloring (default: ColorAuto)
	Color ColorMode
}

// ConsoleSink writes entries to a console stream.
type ConsoleSink struct {
	writerBase
}

// NewConsole creates a console sink.
func NewConsole(cfg ConsoleConfig) *ConsoleSink {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	s := &ConsoleSink{}
	s.init(cfg.Writer, cfg.Formatter)
	s.color = useColor(cfg.Color, cfg.Writer)
	return s
}

// Dispatch implements Sink.
func (s *ConsoleSink) Dispatch(entry *core.Entry) error {
	return s.write(entry)
}

// Colored reports whether the sink emits ANSI colors.
func (s *ConsoleSink) Colored() bool {
	return s.color
}

func useColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ParseColorMode converts "auto", "always"/"true" or "never"/"false".
func ParseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "", "auto":
		return ColorAuto, true
	case "always", "true", "on":
		return ColorAlways, true
	case "never", "false", "off":
		return ColorNever, true
	}
	return ColorAuto, false
}
