package logger

import (
	"github.com/philipp01105/logdispatch/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	NoneLevel    = core.NoneLevel
	DebugLevel   = core.DebugLevel
	InfoLevel    = core.InfoLevel
	WarnLevel    = core.WarnLevel
	ProblemLevel = core.ProblemLevel
	ErrorLevel   = core.ErrorLevel
	FatalLevel   = core.FatalLevel
)

// ParseLevel converts a string to a Level, falling back to InfoLevel for
// names it does not know.
func ParseLevel(s string) Level {
	l, err := core.ParseLevel(s)
	if err != nil {
		return InfoLevel
	}
	return l
}
