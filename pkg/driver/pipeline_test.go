package driver

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/parser"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

func TestPipelineRun(t *testing.T) {
	var out bytes.Buffer
	p := NewPipeline(WithOutput(&out))
	result, err := p.Run(&Source{Name: "main.rs", Text: []byte(`
fn main() -> i32 {
    let mut total = 0;
    let mut i = 1;
    while i < 5 {
        total += i;
        i += 1;
    }
    println!("total = {}", total);
    total
}
`)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Value != ast.IntLiteral(10) || !result.Type.Equal(ast.I32Type()) {
		t.Fatalf("unexpected result %+v", result)
	}
	if out.String() != "total = 10\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestPipelineRunBlockDisplaysReferences(t *testing.T) {
	result, err := NewPipeline().RunBlock(&Source{Name: "block", Text: []byte(`let s = "hi"; &s`)})
	if err != nil {
		t.Fatalf("RunBlock: %v", err)
	}
	if result.Display != `&"hi"` || !result.Type.Equal(ast.RefType(ast.StringType())) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPipelinePhases(t *testing.T) {
	cases := []struct {
		name   string
		source string
		phase  Phase
		target error
	}{
		{"parse", "fn main( {", PhaseParse, parser.ErrSyntax},
		{"check", "fn main() -> i32 { true }", PhaseCheck, runtime.ErrTypeMismatch},
		{"run", "fn main() -> i32 { 1 / 0 }", PhaseRun, runtime.ErrDivisionByZero},
	}
	for _, tc := range cases {
		_, err := NewPipeline().Run(&Source{Name: "main.rs", Text: []byte(tc.source)})
		if !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.target, err)
		}
		if phase, ok := PhaseOf(err); !ok || phase != tc.phase {
			t.Fatalf("%s: phase = %q", tc.name, phase)
		}
		if !strings.HasPrefix(err.Error(), "main.rs: ") {
			t.Fatalf("%s: error should name the source: %v", tc.name, err)
		}
	}
}

func TestPipelineDoesNotRunUncheckedPrograms(t *testing.T) {
	var out bytes.Buffer
	_, err := NewPipeline(WithOutput(&out)).Run(&Source{Text: []byte(`
fn main() {
    println!("side effect");
    let a = 1;
    a = 2;
}
`)})
	if !errors.Is(err, runtime.ErrNotMutable) {
		t.Fatalf("expected immutability error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("program ran despite failing the check: %q", out.String())
	}
}
