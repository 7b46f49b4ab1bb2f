package sink

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Spec is one parsed sink descriptor: a name and its arguments.
type Spec struct {
	Name string
	Args Args
}

// String renders the descriptor with arguments in key order.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte(':')
	for i, k := range s.Args.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		v := s.Args[k]
		if strings.ContainsAny(v, ",;\"") {
			v = strconv.Quote(v)
		}
		b.WriteString(v)
	}
	return b.String()
}

// ParseSpecs parses descriptors of the form
//
//	name[:key=value[,key=value...]][;name...]
//
// Values may be double- or single-quoted to contain ',' or ';'. Empty
// descriptors between separators are skipped.
func ParseSpecs(s string) ([]Spec, error) {
	var specs []Spec
	for _, part := range splitUnquoted(s, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		spec, err := ParseSpec(part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ParseSpec parses a single descriptor.
func ParseSpec(s string) (Spec, error) {
	name, rest, hasArgs := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Spec{}, fmt.Errorf("%w: missing sink name in %q", ErrBadArgument, s)
	}

	spec := Spec{Name: name, Args: Args{}}
	if !hasArgs {
		return spec, nil
	}
	for _, pair := range splitUnquoted(rest, ',') {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return Spec{}, fmt.Errorf("%w: %s: malformed argument %q, want key=value", ErrBadArgument, name, pair)
		}
		if _, dup := spec.Args[key]; dup {
			return Spec{}, fmt.Errorf("%w: %s: duplicate argument %q", ErrBadArgument, name, key)
		}
		spec.Args[key] = unquote(strings.TrimSpace(value))
	}
	return spec, nil
}

// splitUnquoted splits s on sep outside of quoted runs.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(s) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	switch v[0] {
	case '"':
		if u, err := strconv.Unquote(v); err == nil {
			return u
		}
	case '\'':
		if v[len(v)-1] == '\'' {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// Args holds the key/value arguments of a descriptor. Keys are lower-case.
type Args map[string]string

// Keys returns the argument keys in sorted order.
func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value of key, or def when absent.
func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// Required returns the value of key or an error when it is absent or empty.
func (a Args) Required(key string) (string, error) {
	v := a[key]
	if v == "" {
		return "", fmt.Errorf("%w: %q is required", ErrBadArgument, key)
	}
	return v, nil
}

// Int returns key as an integer, or def when absent.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not an integer", ErrBadArgument, key, v)
	}
	return n, nil
}

// Bool returns key as a boolean, or def when absent. A key given without a
// value counts as true.
func (a Args) Bool(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a boolean", ErrBadArgument, key, v)
	}
	return b, nil
}

// Duration returns key as a time.Duration, or def when absent.
func (a Args) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a duration", ErrBadArgument, key, v)
	}
	return d, nil
}

// Without returns a copy of a without the given keys.
func (a Args) Without(keys ...string) Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
