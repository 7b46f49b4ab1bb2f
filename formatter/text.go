package formatter

import (
	"bytes"
	"strconv"
	"time"

	"github.com/philipp01105/logdispatch/core"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	return render(entry, f), nil
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.NoneLevel:    " [NONE] ",
	core.DebugLevel:   " [DEBUG] ",
	core.InfoLevel:    " [INFORMATION] ",
	core.WarnLevel:    " [WARNING] ",
	core.ProblemLevel: " [PROBLEM] ",
	core.ErrorLevel:   " [FAILURE] ",
	core.FatalLevel:   " [FATAL] ",
}

// FormatEntry writes the formatted entry into the given buffer
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	if entry.Level >= 0 && int(entry.Level) < len(levelBrackets) {
		buf.WriteString(levelBrackets[entry.Level])
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	if entry.Context != "" {
		buf.WriteString(entry.Context)
		buf.WriteString(": ")
	}

	if f.IncludeGoroutine && entry.Goroutine != 0 {
		buf.WriteString("<g")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), entry.Goroutine, 10))
		buf.WriteString("> ")
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		buf.WriteString("] ")
	}

	buf.WriteString(entry.Message)

	if entry.Type != "" {
		buf.WriteString(" type=")
		buf.WriteString(entry.Type)
	}

	for _, field := range entry.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}

	buf.WriteByte('\n')
}
