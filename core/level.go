package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognized level names.
var ErrUnknownLevel = errors.New("unknown log level")

// Level represents the severity level of a log entry. Levels are ordered:
// a threshold filter at WarnLevel accepts WarnLevel and everything above.
type Level int8

const (
	// NoneLevel marks entries without a severity; it is below every other level
	NoneLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ProblemLevel for recoverable problems that need attention
	ProblemLevel
	// ErrorLevel for failures
	ErrorLevel
	// FatalLevel for failures the program cannot continue from
	FatalLevel
)

var levelNames = [...]string{
	NoneLevel:    "NONE",
	DebugLevel:   "DEBUG",
	InfoLevel:    "INFORMATION",
	WarnLevel:    "WARNING",
	ProblemLevel: "PROBLEM",
	ErrorLevel:   "FAILURE",
	FatalLevel:   "FATAL",
}

// AllLevels lists every defined level in ascending order.
var AllLevels = []Level{NoneLevel, DebugLevel, InfoLevel, WarnLevel, ProblemLevel, ErrorLevel, FatalLevel}

// String returns the string representation of the level
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Label returns the lower-case message type label of the level.
func (l Level) Label() string {
	return strings.ToLower(l.String())
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= NoneLevel && l <= FatalLevel
}

// ParseLevel converts a level name, a common alias or a numeric level to a
// Level. Matching is case-insensitive.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "NONE":
		return NoneLevel, nil
	case "DEBUG", "TRACE":
		return DebugLevel, nil
	case "INFORMATION", "INFO":
		return InfoLevel, nil
	case "WARNING", "WARN":
		return WarnLevel, nil
	case "PROBLEM":
		return ProblemLevel, nil
	case "FAILURE", "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		if l := Level(n); l.Valid() {
			return l, nil
		}
	}
	return NoneLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
