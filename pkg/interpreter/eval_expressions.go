package interpreter

import (
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/eval"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// semantics evaluates the language as an eval.Semantics over runtime values.
type semantics struct{}

var _ eval.Semantics[runtime.Value] = semantics{}

type walker = eval.Walker[runtime.Value]

func (semantics) Unit() runtime.Value { return runtime.UnitValue() }

func (semantics) Literal(l ast.Literal) runtime.Value { return runtime.Lit(l) }

func (semantics) Load(cell runtime.Value) (runtime.Value, error) {
	if _, ok := cell.(runtime.UninitValue); ok {
		return runtime.UnitValue(), runtime.ErrUninitialized
	}
	return cell, nil
}

func (semantics) Temp(v runtime.Value) runtime.Value { return runtime.StripMut(v) }

func (semantics) Mut(v runtime.Value) runtime.Value { return runtime.MutValue{Inner: v} }

func (semantics) Reference(ref runtime.Ref) runtime.Value { return runtime.RefValue{Ref: ref} }

func (semantics) Not(v runtime.Value) (runtime.Value, error) {
	b, err := boolOf(v)
	if err != nil {
		return runtime.UnitValue(), fmt.Errorf("operand of !: %w", err)
	}
	return runtime.BoolValue(!b), nil
}

func (semantics) Deref(w *walker, v runtime.Value) (runtime.Value, runtime.Ref, error) {
	ref, ok := runtime.StripMut(v).(runtime.RefValue)
	if !ok {
		return runtime.UnitValue(), 0, fmt.Errorf("%w: cannot dereference %s", runtime.ErrNotAReference, describe(v))
	}
	return w.Env().DeRef(ref.Ref), ref.Ref, nil
}

// Binary evaluates an operator over two already evaluated operands; && and
// || do not short-circuit.
func (semantics) Binary(w *walker, op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch {
	case op.Arithmetic():
		return evaluateArithmetic(op, left, right)
	case op.Logical():
		l, err := boolOf(left)
		if err != nil {
			return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
		}
		r, err := boolOf(right)
		if err != nil {
			return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
		}
		if op == ast.OpAnd {
			return runtime.BoolValue(l && r), nil
		}
		return runtime.BoolValue(l || r), nil
	case op.Comparison():
		return evaluateComparison(op, left, right)
	case op == ast.OpEq:
		eq, err := valuesEqual(w.Env(), left, right)
		if err != nil {
			return runtime.UnitValue(), err
		}
		return runtime.BoolValue(eq), nil
	default:
		return runtime.UnitValue(), fmt.Errorf("%w: unknown operator %q", runtime.ErrMalformedProgram, op)
	}
}

func evaluateArithmetic(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	l, err := intOf(left)
	if err != nil {
		return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
	}
	r, err := intOf(right)
	if err != nil {
		return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
	}
	// i32 arithmetic wraps on overflow.
	switch op {
	case ast.OpAdd:
		return runtime.IntValue(l + r), nil
	case ast.OpSub:
		return runtime.IntValue(l - r), nil
	case ast.OpMul:
		return runtime.IntValue(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return runtime.UnitValue(), runtime.ErrDivisionByZero
		}
		return runtime.IntValue(l / r), nil
	default:
		return runtime.UnitValue(), fmt.Errorf("%w: unsupported arithmetic operator %s", runtime.ErrMalformedProgram, op)
	}
}

func evaluateComparison(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	l, err := intOf(left)
	if err != nil {
		return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
	}
	r, err := intOf(right)
	if err != nil {
		return runtime.UnitValue(), fmt.Errorf("operand of %s: %w", op, err)
	}
	if op == ast.OpLt {
		return runtime.BoolValue(l < r), nil
	}
	return runtime.BoolValue(l > r), nil
}

// valuesEqual compares literals structurally; references compare by the
// values they point at.
func valuesEqual(env *runtime.Environment[runtime.Value], left, right runtime.Value) (bool, error) {
	l, err := toLiteral(env, left)
	if err != nil {
		return false, err
	}
	r, err := toLiteral(env, right)
	if err != nil {
		return false, err
	}
	if l.Kind != r.Kind {
		return false, runtime.NewTypeMismatch(l.Type(), r.Type()).In("operands of ==")
	}
	return l == r, nil
}

func intOf(v runtime.Value) (int32, error) {
	if lit, ok := runtime.StripMut(v).(runtime.LiteralValue); ok && lit.Literal.Kind == ast.LiteralInt {
		return lit.Literal.Int, nil
	}
	return 0, &runtime.TypeMismatchError{Expected: ast.I32Type().String(), Got: describe(v)}
}

func boolOf(v runtime.Value) (bool, error) {
	if lit, ok := runtime.StripMut(v).(runtime.LiteralValue); ok && lit.Literal.Kind == ast.LiteralBool {
		return lit.Literal.Bool, nil
	}
	return false, &runtime.TypeMismatchError{Expected: ast.BoolType().String(), Got: describe(v)}
}

// describe names the shape of a value for error messages.
func describe(v runtime.Value) string {
	switch val := runtime.StripMut(v).(type) {
	case runtime.LiteralValue:
		return val.Literal.Type().String()
	case runtime.RefValue:
		return "reference"
	case runtime.UninitValue:
		return "uninitialized value"
	default:
		return fmt.Sprintf("%T", v)
	}
}
