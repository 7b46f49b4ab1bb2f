package logger

import (
	"fmt"

	"github.com/philipp01105/logdispatch/core"
)

// Field constructors, re-exported so callers need only this package.
var (
	String   = core.String
	Int      = core.Int
	Int64    = core.Int64
	Float64  = core.Float64
	Bool     = core.Bool
	Time     = core.Time
	Duration = core.Duration
	Err      = core.Err
	Any      = core.Any
)

// Stringer creates a string field from v.String(). A nil v yields "<nil>".
func Stringer(key string, v fmt.Stringer) core.Field {
	if v == nil {
		return core.String(key, "<nil>")
	}
	return core.String(key, v.String())
}

// NamedErr is Err under a caller-chosen key.
func NamedErr(key string, err error) core.Field {
	f := core.Err(err)
	f.Key = key
	return f
}
