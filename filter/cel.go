package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/philipp01105/logdispatch/core"
)

// CELFilter evaluates a compiled CEL expression against each entry. The
// expression sees these variables:
//
//	level       int     numeric severity (see core.Level)
//	level_name  string  e.g. "WARNING"
//	message     string
//	context     string
//	msg_type    string  message type label
//	goroutine   int
//	ts_ms       int     creation time in unix milliseconds
//	fields      map     structured fields by key
//
// Entries for which evaluation fails or yields a non-boolean are rejected.
type CELFilter struct {
	expr string
	prog cel.Program
}

// CEL compiles expr into a filter.
func CEL(expr string) (*CELFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty CEL expression")
	}
	env, err := cel.NewEnv(
		cel.Variable("level", cel.IntType),
		cel.Variable("level_name", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("context", cel.StringType),
		cel.Variable("msg_type", cel.StringType),
		cel.Variable("goroutine", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("fields", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile %q: expression must yield bool, got %s", expr, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &CELFilter{expr: expr, prog: prog}, nil
}

// String returns the source expression.
func (f *CELFilter) String() string {
	return f.expr
}

// Accept implements Filter.
func (f *CELFilter) Accept(entry *core.Entry) bool {
	fields := make(map[string]any, len(entry.Fields))
	for _, fld := range entry.Fields {
		fields[fld.Key] = celValue(fld)
	}
	out, _, err := f.prog.Eval(map[string]any{
		"level":      int64(entry.Level),
		"level_name": entry.Level.String(),
		"message":    entry.Message,
		"context":    entry.Context,
		"msg_type":   entry.MessageType(),
		"goroutine":  int64(entry.Goroutine),
		"ts_ms":      entry.Time.UnixMilli(),
		"fields":     fields,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// celValue maps a field to a type CEL's default adapter understands.
func celValue(f core.Field) any {
	switch f.Type {
	case core.IntType, core.Int64Type, core.TimeType, core.DurationType:
		return f.Int64
	case core.Float64Type:
		return f.Float64
	case core.BoolType:
		return f.Int64 == 1
	case core.AnyType:
		return f.StringValue()
	default:
		return f.Str
	}
}
