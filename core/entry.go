package core

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// Entry represents one immutable log event. It is built once at the call
// site and shared read-only with filters, queues and sinks.
type Entry struct {
	Time      time.Time
	Level     Level
	Context   string
	Type      string
	Message   string
	Goroutine uint64
	Fields    []Field
	Caller    CallerInfo
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// NewEntry creates an entry stamped with the current time and the identity
// of the calling goroutine. The fields slice is copied.
func NewEntry(level Level, context, msg string, fields ...Field) *Entry {
	e := &Entry{
		Time:      time.Now(),
		Level:     level,
		Context:   context,
		Message:   msg,
		Goroutine: GoroutineID(),
	}
	if len(fields) > 0 {
		e.Fields = make([]Field, len(fields))
		copy(e.Fields, fields)
	}
	return e
}

// MessageType returns the type label of the entry: the explicit Type when
// set, the level label otherwise.
func (e *Entry) MessageType() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Level.Label()
}

// Field returns the first field with the given key.
func (e *Entry) Field(key string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the runtime identifier of the calling goroutine, or 0
// if it cannot be determined.
func GoroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
