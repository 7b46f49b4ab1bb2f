package sink

import (
	"errors"
	"testing"
	"time"
)

func TestParseSpecs(t *testing.T) {
	specs, err := ParseSpecs(" Console:level=WARNING, color=auto ;; file:path=/var/log/app.log,maxsize=100;discard")
	if err != nil {
		t.Fatalf("ParseSpecs() error = %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("Expected 3 specs, got %d: %v", len(specs), specs)
	}

	if specs[0].Name != "console" {
		t.Errorf("name = %q, want console", specs[0].Name)
	}
	if specs[0].Args["level"] != "WARNING" || specs[0].Args["color"] != "auto" {
		t.Errorf("console args = %v", specs[0].Args)
	}
	if specs[1].Args["path"] != "/var/log/app.log" {
		t.Errorf("file path = %q", specs[1].Args["path"])
	}
	if specs[2].Name != "discard" || len(specs[2].Args) != 0 {
		t.Errorf("discard spec = %+v", specs[2])
	}
}

func TestParseSpecs_Quoted(t *testing.T) {
	specs, err := ParseSpecs(`console:filter="level >= 3 && message.contains(\"a,b;c\")";file:path='/tmp/x;y.log'`)
	if err != nil {
		t.Fatalf("ParseSpecs() error = %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("Expected 2 specs, got %d", len(specs))
	}
	if got, want := specs[0].Args["filter"], `level >= 3 && message.contains("a,b;c")`; got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
	if got := specs[1].Args["path"]; got != "/tmp/x;y.log" {
		t.Errorf("path = %q", got)
	}
}

func TestParseSpecs_Errors(t *testing.T) {
	for _, in := range []string{
		":level=INFO",
		"console:level",
		"console:=x",
		"console:a=1,a=2",
	} {
		if _, err := ParseSpecs(in); !errors.Is(err, ErrBadArgument) {
			t.Errorf("ParseSpecs(%q) error = %v, want ErrBadArgument", in, err)
		}
	}
}

func TestSpecString(t *testing.T) {
	s := Spec{Name: "file", Args: Args{"path": "/tmp/a.log", "maxsize": "5"}}
	if got, want := s.String(), "file:maxsize=5,path=/tmp/a.log"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	round, err := ParseSpec(Spec{Name: "console", Args: Args{"filter": `a,b`}}.String())
	if err != nil || round.Args["filter"] != "a,b" {
		t.Errorf("round trip = %+v, %v", round, err)
	}
}

func TestArgs(t *testing.T) {
	a := Args{"n": "42", "bad": "x", "on": "", "off": "false", "d": "250ms"}

	if n, err := a.Int("n", 0); err != nil || n != 42 {
		t.Errorf("Int(n) = %d, %v", n, err)
	}
	if n, err := a.Int("missing", 7); err != nil || n != 7 {
		t.Errorf("Int(missing) = %d, %v", n, err)
	}
	if _, err := a.Int("bad", 0); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Int(bad) error = %v", err)
	}

	if b, err := a.Bool("on", false); err != nil || !b {
		t.Errorf("Bool(on) = %v, %v", b, err)
	}
	if b, err := a.Bool("off", true); err != nil || b {
		t.Errorf("Bool(off) = %v, %v", b, err)
	}
	if _, err := a.Bool("bad", false); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Bool(bad) error = %v", err)
	}

	if d, err := a.Duration("d", 0); err != nil || d != 250*time.Millisecond {
		t.Errorf("Duration(d) = %v, %v", d, err)
	}
	if _, err := a.Required("missing"); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Required(missing) error = %v", err)
	}

	w := a.Without("n", "bad")
	if w.Has("n") || !a.Has("n") || len(w) != 3 {
		t.Errorf("Without() = %v (original %v)", w, a)
	}
}
