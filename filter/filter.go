package filter

import (
	"strings"

	"github.com/philipp01105/logdispatch/core"
)

// Filter decides whether an entry should be dispatched.
type Filter interface {
	Accept(entry *core.Entry) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(entry *core.Entry) bool

// Accept calls f(entry).
func (f Func) Accept(entry *core.Entry) bool {
	return f(entry)
}

// Chain is an ordered list of filters that must all accept an entry.
type Chain []Filter

// Accept reports whether every filter in the chain accepts entry. The first
// rejection wins and the remaining filters are not evaluated.
func (c Chain) Accept(entry *core.Entry) bool {
	for _, f := range c {
		if !f.Accept(entry) {
			return false
		}
	}
	return true
}

// With returns a new chain with fs appended. The receiver is not modified.
func (c Chain) With(fs ...Filter) Chain {
	out := make(Chain, 0, len(c)+len(fs))
	out = append(out, c...)
	return append(out, fs...)
}

// LevelFilter rejects entries below a minimum severity.
type LevelFilter struct {
	Min core.Level
}

// Level returns a severity threshold filter.
func Level(min core.Level) LevelFilter {
	return LevelFilter{Min: min}
}

// Accept implements Filter.
func (f LevelFilter) Accept(entry *core.Entry) bool {
	return entry.Level >= f.Min
}

// Types accepts entries whose message type is one of labels.
func Types(labels ...string) Filter {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = struct{}{}
	}
	return Func(func(entry *core.Entry) bool {
		_, ok := set[strings.ToLower(entry.MessageType())]
		return ok
	})
}

// Contexts accepts entries whose originating context starts with one of
// prefixes.
func Contexts(prefixes ...string) Filter {
	return Func(func(entry *core.Entry) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(entry.Context, p) {
				return true
			}
		}
		return false
	})
}

// Not inverts f.
func Not(f Filter) Filter {
	return Func(func(entry *core.Entry) bool {
		return !f.Accept(entry)
	})
}
