package formatter

import (
	"bytes"
	"strconv"
	"time"

	"github.com/philipp01105/logdispatch/core"
)

// FieldPrefix is prepended to a field key that collides with one of the
// keys the JSON formatter writes itself.
const FieldPrefix = "fields."

var reservedKeys = map[string]struct{}{
	"time":      {},
	"level":     {},
	"message":   {},
	"context":   {},
	"type":      {},
	"goroutine": {},
	"caller":    {},
}

// JSONFormatter writes one JSON object per entry, terminated by a newline.
// Fields become top-level keys; a field named like a built-in key is
// written as FieldPrefix+key.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	return &JSONFormatter{Config: cfg}
}

// Format formats an entry as JSON
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	return render(entry, f), nil
}

// FormatEntry implements BufferFormatter.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	enc := jsonObject{buf: buf}
	enc.open()

	enc.key("time")
	buf.WriteByte('"')
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteByte('"')

	enc.str("level", entry.Level.String())
	enc.str("message", entry.Message)
	if entry.Context != "" {
		enc.str("context", entry.Context)
	}
	enc.str("type", entry.MessageType())

	if f.IncludeGoroutine && entry.Goroutine != 0 {
		enc.key("goroutine")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), entry.Goroutine, 10))
	}

	if f.IncludeCaller && entry.Caller.Defined {
		enc.key("caller")
		caller := jsonObject{buf: buf}
		caller.open()
		caller.str("file", entry.Caller.ShortFile)
		caller.key("line")
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		if entry.Caller.Function != "" {
			caller.str("function", entry.Caller.Function)
		}
		caller.close()
	}

	for _, field := range entry.Fields {
		key := field.Key
		if _, clash := reservedKeys[key]; clash {
			key = FieldPrefix + key
		}
		enc.key(key)
		appendJSONFieldValue(buf, field)
	}

	enc.close()
	buf.WriteByte('\n')
}

// jsonObject tracks the separator state of one object being written.
type jsonObject struct {
	buf  *bytes.Buffer
	more bool
}

func (o *jsonObject) open()  { o.buf.WriteByte('{') }
func (o *jsonObject) close() { o.buf.WriteByte('}') }

func (o *jsonObject) key(k string) {
	if o.more {
		o.buf.WriteByte(',')
	}
	o.more = true
	appendJSONQuoted(o.buf, k)
	o.buf.WriteByte(':')
}

func (o *jsonObject) str(k, v string) {
	o.key(k)
	appendJSONQuoted(o.buf, v)
}

func appendJSONQuoted(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	appendJSONString(buf, s)
	buf.WriteByte('"')
}

// appendJSONString writes s JSON-escaped, without quotes.
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[start:i])
		switch c {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	buf.WriteString(s[start:])
}

const hexChars = "0123456789abcdef"

// appendJSONFieldValue writes the value of field. Durations are written in
// nanoseconds, times in RFC 3339 with nanoseconds.
func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.IntType, core.Int64Type, core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).UTC().AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.StringType, core.ErrorType:
		appendJSONQuoted(buf, field.Str)
	default:
		appendJSONQuoted(buf, field.StringValue())
	}
}
