package parser

import (
	"errors"
	"testing"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

func mustParseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer p.Close()
	prog, err := p.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return prog
}

func mustParseBlock(t *testing.T, source string) *ast.BlockExpression {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer p.Close()
	block, err := p.ParseBlock([]byte(source))
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	return block
}

func TestParseFunctionSignature(t *testing.T) {
	prog := mustParseProgram(t, `
fn add(a: i32, mut b: &i32) -> i32 {
    a + *b
}

fn main() {}
`)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}
	add := prog.Functions[0]
	if add.ID.Name != "add" || len(add.Params) != 2 {
		t.Fatalf("unexpected signature %+v", add)
	}
	if add.Params[0].Mutable || add.Params[0].Name.Name != "a" || !add.Params[0].Type.Equal(ast.I32Type()) {
		t.Fatalf("unexpected first parameter %+v", add.Params[0])
	}
	if !add.Params[1].Mutable || !add.Params[1].Type.Equal(ast.RefType(ast.I32Type())) {
		t.Fatalf("unexpected second parameter %+v", add.Params[1])
	}
	if !add.Result().Equal(ast.I32Type()) {
		t.Fatalf("return type = %s", add.Result())
	}
	tail, ok := add.Body.Tail()
	if !ok {
		t.Fatalf("expected a tail expression")
	}
	bin, ok := tail.(*ast.BinaryExpression)
	if !ok || bin.Operator != ast.OpAdd {
		t.Fatalf("expected addition, got %#v", tail)
	}
	if deref, ok := bin.Right.(*ast.UnaryExpression); !ok || deref.Operator != ast.OpDeRef {
		t.Fatalf("expected dereference, got %#v", bin.Right)
	}
	if main := prog.Functions[1]; main.ReturnType != nil || len(main.Body.Body) != 0 {
		t.Fatalf("unexpected main %+v", main)
	}
}

func TestParseLetForms(t *testing.T) {
	block := mustParseBlock(t, `
let a = 1;
let mut b: bool = true;
let c: &String;
let d;
`)
	if len(block.Body) != 4 || !block.TrailingSemicolon {
		t.Fatalf("unexpected block %+v", block)
	}
	a := block.Body[0].(*ast.LetStatement)
	if a.Mutable || a.Name.Name != "a" || a.Type != nil {
		t.Fatalf("unexpected let a: %+v", a)
	}
	if lit, ok := a.Value.(*ast.LiteralExpression); !ok || lit.Value != ast.IntLiteral(1) {
		t.Fatalf("unexpected value %#v", a.Value)
	}
	b := block.Body[1].(*ast.LetStatement)
	if !b.Mutable || b.Type == nil || !b.Type.Equal(ast.BoolType()) {
		t.Fatalf("unexpected let b: %+v", b)
	}
	c := block.Body[2].(*ast.LetStatement)
	if c.Value != nil || c.Type == nil || !c.Type.Equal(ast.RefType(ast.StringType())) {
		t.Fatalf("unexpected let c: %+v", c)
	}
	d := block.Body[3].(*ast.LetStatement)
	if d.Value != nil || d.Type != nil {
		t.Fatalf("unexpected let d: %+v", d)
	}
}

func TestParseTrailingSemicolon(t *testing.T) {
	if block := mustParseBlock(t, "let a = 1; a"); block.TrailingSemicolon {
		t.Fatalf("expected a value block")
	}
	if block := mustParseBlock(t, "let a = 1; a;"); !block.TrailingSemicolon {
		t.Fatalf("expected a unit block")
	}
	block := mustParseBlock(t, "if true { 1 } else { 2 }")
	if block.TrailingSemicolon {
		t.Fatalf("if without semicolon should supply the value")
	}
	if _, ok := block.Body[0].(*ast.ExpressionStatement); !ok {
		t.Fatalf("expected expression statement, got %T", block.Body[0])
	}
}

func TestParseAssignments(t *testing.T) {
	block := mustParseBlock(t, `
a = 1;
*b = a + 2;
c += 3;
`)
	if len(block.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(block.Body))
	}
	first := block.Body[0].(*ast.AssignmentStatement)
	if id, ok := first.Target.(*ast.Identifier); !ok || id.Name != "a" {
		t.Fatalf("unexpected target %#v", first.Target)
	}
	second := block.Body[1].(*ast.AssignmentStatement)
	if deref, ok := second.Target.(*ast.UnaryExpression); !ok || deref.Operator != ast.OpDeRef {
		t.Fatalf("unexpected target %#v", second.Target)
	}
	third := block.Body[2].(*ast.AssignmentStatement)
	value, ok := third.Value.(*ast.BinaryExpression)
	if !ok || value.Operator != ast.OpAdd {
		t.Fatalf("compound assignment should desugar to addition, got %#v", third.Value)
	}
	if id, ok := value.Left.(*ast.Identifier); !ok || id.Name != "c" {
		t.Fatalf("unexpected left operand %#v", value.Left)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	block := mustParseBlock(t, "1 + 2 * 3 < 10 && !false")
	tail, _ := block.Tail()
	and, ok := tail.(*ast.BinaryExpression)
	if !ok || and.Operator != ast.OpAnd {
		t.Fatalf("expected &&, got %#v", tail)
	}
	lt, ok := and.Left.(*ast.BinaryExpression)
	if !ok || lt.Operator != ast.OpLt {
		t.Fatalf("expected <, got %#v", and.Left)
	}
	add, ok := lt.Left.(*ast.BinaryExpression)
	if !ok || add.Operator != ast.OpAdd {
		t.Fatalf("expected +, got %#v", lt.Left)
	}
	if mul, ok := add.Right.(*ast.BinaryExpression); !ok || mul.Operator != ast.OpMul {
		t.Fatalf("expected *, got %#v", add.Right)
	}
	if not, ok := and.Right.(*ast.UnaryExpression); !ok || not.Operator != ast.OpBang {
		t.Fatalf("expected !, got %#v", and.Right)
	}
}

func TestParseNegativeLiterals(t *testing.T) {
	block := mustParseBlock(t, "let a = -2147483648; let b = -a;")
	a := block.Body[0].(*ast.LetStatement)
	if lit, ok := a.Value.(*ast.LiteralExpression); !ok || lit.Value != ast.IntLiteral(-2147483648) {
		t.Fatalf("unexpected literal %#v", a.Value)
	}
	b := block.Body[1].(*ast.LetStatement)
	sub, ok := b.Value.(*ast.BinaryExpression)
	if !ok || sub.Operator != ast.OpSub {
		t.Fatalf("expected 0 - a, got %#v", b.Value)
	}
}

func TestParseReferences(t *testing.T) {
	block := mustParseBlock(t, "let b = &a; let c = &mut a; **c")
	b := block.Body[0].(*ast.LetStatement)
	ref, ok := b.Value.(*ast.UnaryExpression)
	if !ok || ref.Operator != ast.OpRef {
		t.Fatalf("expected &, got %#v", b.Value)
	}
	if _, ok := ref.Operand.(*ast.Identifier); !ok {
		t.Fatalf("unexpected operand %#v", ref.Operand)
	}
	c := block.Body[1].(*ast.LetStatement)
	mutRef := c.Value.(*ast.UnaryExpression)
	if inner, ok := mutRef.Operand.(*ast.UnaryExpression); !ok || inner.Operator != ast.OpMut {
		t.Fatalf("expected &mut, got %#v", mutRef.Operand)
	}
	tail, _ := block.Tail()
	outer, ok := tail.(*ast.UnaryExpression)
	if !ok || outer.Operator != ast.OpDeRef {
		t.Fatalf("expected deref, got %#v", tail)
	}
	if inner, ok := outer.Operand.(*ast.UnaryExpression); !ok || inner.Operator != ast.OpDeRef {
		t.Fatalf("expected nested deref, got %#v", outer.Operand)
	}
}

func TestParseControlFlow(t *testing.T) {
	block := mustParseBlock(t, `
while a > 0 {
    a = a - 1;
}
let b = if a == 0 { 1 } else if a < 0 { 2 } else { 3 };
`)
	loop, ok := block.Body[0].(*ast.WhileLoop)
	if !ok {
		t.Fatalf("expected while loop, got %T", block.Body[0])
	}
	if cond, ok := loop.Condition.(*ast.BinaryExpression); !ok || cond.Operator != ast.OpGt {
		t.Fatalf("unexpected condition %#v", loop.Condition)
	}
	if len(loop.Body.Body) != 1 || !loop.Body.TrailingSemicolon {
		t.Fatalf("unexpected body %+v", loop.Body)
	}
	let := block.Body[1].(*ast.LetStatement)
	ifExpr, ok := let.Value.(*ast.IfExpression)
	if !ok || ifExpr.Else == nil {
		t.Fatalf("expected if/else, got %#v", let.Value)
	}
	nested, ok := ifExpr.Else.Tail()
	if !ok {
		t.Fatalf("else if should be the else block's value")
	}
	if inner, ok := nested.(*ast.IfExpression); !ok || inner.Else == nil {
		t.Fatalf("expected nested if/else, got %#v", nested)
	}
}

func TestParseCallsAndMacros(t *testing.T) {
	block := mustParseBlock(t, `
fn f(i: i32, j: i32) -> i32 { i + j }
let a = f(1, 2);
println!("a = {} and another a = {}", a, a);
`)
	if _, ok := block.Body[0].(*ast.FunctionDefinition); !ok {
		t.Fatalf("expected nested function, got %T", block.Body[0])
	}
	let := block.Body[1].(*ast.LetStatement)
	call, ok := let.Value.(*ast.FunctionCall)
	if !ok || call.Callee.Name != "f" || len(call.Arguments) != 2 {
		t.Fatalf("unexpected call %#v", let.Value)
	}
	stmt := block.Body[2].(*ast.ExpressionStatement)
	printCall, ok := stmt.Expression.(*ast.FunctionCall)
	if !ok || printCall.Callee.Name != "println" || len(printCall.Arguments) != 3 {
		t.Fatalf("unexpected println %#v", stmt.Expression)
	}
	format, ok := printCall.Arguments[0].(*ast.LiteralExpression)
	if !ok || format.Value != ast.StringLiteral("a = {} and another a = {}") {
		t.Fatalf("unexpected format %#v", printCall.Arguments[0])
	}
}

func TestParseMacroArgumentSpans(t *testing.T) {
	block := mustParseBlock(t, "let x = 1;\n    println!(\"{}\", x);")
	stmt := block.Body[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	span := call.Arguments[1].Span()
	if span.Start.Line != 2 || span.Start.Column != 20 {
		t.Fatalf("argument span = %v, want 2:20", span)
	}
}

func TestParseSpans(t *testing.T) {
	block := mustParseBlock(t, "let a = 1;\nlet b = a + 2;")
	let := block.Body[1].(*ast.LetStatement)
	if span := let.Span(); span.Start.Line != 2 || span.Start.Column != 1 {
		t.Fatalf("let span = %v", span)
	}
	if span := let.Value.Span(); span.Start.Line != 2 || span.Start.Column != 9 {
		t.Fatalf("value span = %v", span)
	}
}

func TestParseComments(t *testing.T) {
	prog := mustParseProgram(t, `
// leading
fn main() -> i32 {
    /* inline */ let a = 1; // trailing
    a
}
`)
	if len(prog.Functions) != 1 || len(prog.Functions[0].Body.Body) != 2 {
		t.Fatalf("comments should be skipped: %+v", prog.Functions)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		target error
	}{
		{"syntax", "fn main() { let = ; }", ErrSyntax},
		{"missing brace", "fn main() {", ErrSyntax},
		{"top-level let", "let a = 1;", ErrUnsupported},
		{"struct", "struct S {}", ErrUnsupported},
		{"unsupported operator", "fn main() { 1 % 2 }", ErrUnsupported},
		{"unsupported macro", "fn main() { vec![1]; }", ErrUnsupported},
		{"method call", "fn main() { a.b(); }", ErrUnsupported},
		{"loop", "fn main() { loop {} }", ErrUnsupported},
		{"out of range", "fn main() { 2147483648 }", ErrSyntax},
		{"other integer type", "fn main() { 1u8 }", ErrUnsupported},
	}
	for _, tc := range cases {
		_, err := ParseProgram([]byte(tc.source))
		if !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.target, err)
		}
	}
}

func TestParseBlockUnclosedIsSyntaxError(t *testing.T) {
	for _, source := range []string{
		"while a < 3 {\n a = a + 1;",
		"if a {\n let b = 1;",
		"fn f() -> i32 {",
	} {
		_, err := ParseBlockSource([]byte(source))
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("ParseBlockSource(%q): expected %v, got %v", source, ErrSyntax, err)
		}
	}
}
