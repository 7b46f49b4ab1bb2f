package filter

import (
	"testing"

	"github.com/philipp01105/logdispatch/core"
)

func TestLevelFilter(t *testing.T) {
	f := Level(core.WarnLevel)

	tests := []struct {
		level core.Level
		want  bool
	}{
		{core.DebugLevel, false},
		{core.InfoLevel, false},
		{core.WarnLevel, true},
		{core.ProblemLevel, true},
		{core.FatalLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := f.Accept(core.NewEntry(tt.level, "", "x")); got != tt.want {
				t.Errorf("Accept(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestChain_ShortCircuit(t *testing.T) {
	var evaluated []string
	track := func(name string, result bool) Filter {
		return Func(func(*core.Entry) bool {
			evaluated = append(evaluated, name)
			return result
		})
	}

	c := Chain{track("a", true), track("b", false), track("c", true)}
	if c.Accept(core.NewEntry(core.InfoLevel, "", "x")) {
		t.Fatal("Chain accepted an entry rejected by one of its filters")
	}
	if len(evaluated) != 2 || evaluated[0] != "a" || evaluated[1] != "b" {
		t.Errorf("evaluated = %v, want [a b]", evaluated)
	}

	if !(Chain{}).Accept(core.NewEntry(core.InfoLevel, "", "x")) {
		t.Error("empty chain must accept")
	}
}

func TestChain_WithDoesNotAlias(t *testing.T) {
	base := make(Chain, 1, 4)
	base[0] = Level(core.InfoLevel)
	a := base.With(Level(core.WarnLevel))
	b := base.With(Level(core.ErrorLevel))

	if a[1].(LevelFilter).Min != core.WarnLevel {
		t.Errorf("With() result aliased another chain: %v", a[1])
	}
	if len(base) != 1 || len(b) != 2 {
		t.Errorf("unexpected lengths base=%d b=%d", len(base), len(b))
	}
}

func TestTypesAndContexts(t *testing.T) {
	audit := core.NewEntry(core.InfoLevel, "billing.invoices", "x")
	audit.Type = "Audit"
	plain := core.NewEntry(core.WarnLevel, "web", "y")

	types := Types("audit", "problem")
	if !types.Accept(audit) || types.Accept(plain) {
		t.Error("Types filter mismatch")
	}

	ctx := Contexts("billing")
	if !ctx.Accept(audit) || ctx.Accept(plain) {
		t.Error("Contexts filter mismatch")
	}

	if Not(ctx).Accept(audit) {
		t.Error("Not(Contexts) accepted a matching entry")
	}
}
