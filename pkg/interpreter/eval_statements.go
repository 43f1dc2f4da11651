package interpreter

import (
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

func (semantics) If(w *walker, expr *ast.IfExpression) (runtime.Value, error) {
	cond, err := w.Expression(expr.Condition)
	if err != nil {
		return runtime.UnitValue(), err
	}
	ok, err := boolOf(cond)
	if err != nil {
		return runtime.UnitValue(), runtime.AtNode(expr.Condition, fmt.Errorf("if condition: %w", err))
	}
	switch {
	case ok:
		return w.Block(expr.Then)
	case expr.Else != nil:
		return w.Block(expr.Else)
	default:
		return runtime.UnitValue(), nil
	}
}

func (semantics) While(w *walker, loop *ast.WhileLoop) error {
	for {
		cond, err := w.Expression(loop.Condition)
		if err != nil {
			return err
		}
		ok, err := boolOf(cond)
		if err != nil {
			return runtime.AtNode(loop.Condition, fmt.Errorf("while condition: %w", err))
		}
		if !ok {
			return nil
		}
		if _, err := w.Block(loop.Body); err != nil {
			return err
		}
	}
}

func (semantics) Let(_ *walker, stmt *ast.LetStatement, value runtime.Value, hasValue bool) (runtime.Value, error) {
	if !hasValue {
		return runtime.UninitValue{}, nil
	}
	return runtime.StripMut(value), nil
}

// Assign does not consult mutability; that is the checker's job.
func (semantics) Assign(_ *walker, _ ast.Expression, _, value runtime.Value) (runtime.Value, error) {
	return runtime.StripMut(value), nil
}

func (semantics) Param(_ *ast.FunctionParameter, arg runtime.Value) runtime.Value {
	return runtime.StripMut(arg)
}

func (semantics) Declare(*walker, *runtime.Function) error { return nil }

func (semantics) Call(w *walker, fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	return w.Invoke(fn, args)
}

func (semantics) Native(w *walker, fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	lits := make([]ast.Literal, len(args))
	for idx, arg := range args {
		lit, err := toLiteral(w.Env(), arg)
		if err != nil {
			return runtime.UnitValue(), fmt.Errorf("argument %d of '%s': %w", idx+1, fn.Name, err)
		}
		lits[idx] = lit
	}
	result, err := fn.Native(lits)
	if err != nil {
		return runtime.UnitValue(), err
	}
	return runtime.Lit(result), nil
}
