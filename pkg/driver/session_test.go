package driver

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

func TestSessionKeepsBindings(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out, nil)
	steps := []struct {
		input   string
		display string
	}{
		{"let mut a = 1;", "()"},
		{"fn twice(x: i32) -> i32 { x * 2 }", "()"},
		{"a = twice(a) + 1;", "()"},
		{"println!(\"a = {}\", a); a", "3"},
		{"let r = &a; *r == 3", "true"},
	}
	for _, step := range steps {
		result, err := s.Eval(step.input)
		if err != nil {
			t.Fatalf("Eval(%q): %v", step.input, err)
		}
		if result.Display != step.display {
			t.Fatalf("Eval(%q) = %s, want %s", step.input, result.Display, step.display)
		}
	}
	if out.String() != "a = 3\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if names := s.Names(); !slices.Contains(names, "a") || !slices.Contains(names, "r") {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestSessionRejectedInputLeavesScope(t *testing.T) {
	s := NewSession(nil, nil)
	if _, err := s.Eval("let a = 1;"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	_, err := s.Eval("let b = 2; a = 5;")
	if !errors.Is(err, runtime.ErrNotMutable) {
		t.Fatalf("expected immutability error, got %v", err)
	}
	if phase, _ := PhaseOf(err); phase != PhaseCheck {
		t.Fatalf("phase = %q", phase)
	}
	if _, err := s.Eval("b"); !errors.Is(err, runtime.ErrUndefinedVariable) {
		t.Fatalf("rejected binding leaked into the session: %v", err)
	}
	result, err := s.Eval("a")
	if err != nil || result.Display != "1" {
		t.Fatalf("a = %+v, %v", result, err)
	}
}
