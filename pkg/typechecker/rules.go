package typechecker

import (
	"errors"
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/eval"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// rules implements the typing rules as an eval.Semantics over Ty.
type rules struct{}

var _ eval.Semantics[Ty] = rules{}

func (rules) Unit() Ty { return unitTy() }

func (rules) Literal(l ast.Literal) Ty { return lit(l.Type()) }

// Load reads a cell. A pending binding reads as Unit; only an assignment
// may give it a type.
func (rules) Load(cell Ty) (Ty, error) {
	if _, ok := stripMut(cell).(PendingTy); ok {
		return unitTy(), nil
	}
	return stripMut(cell), nil
}

func (rules) Temp(v Ty) Ty { return v }

func (rules) Mut(v Ty) Ty { return MutTy{Inner: v} }

func (rules) Reference(ref runtime.Ref) Ty { return RefTy{Ref: ref} }

func (rules) Binary(w *eval.Walker[Ty], op ast.BinaryOperator, left, right Ty) (Ty, error) {
	env := w.Env()
	switch {
	case op.Arithmetic():
		if err := expectBoth(env, ast.I32Type(), left, right, op); err != nil {
			return unitTy(), err
		}
		return lit(ast.I32Type()), nil
	case op.Logical():
		if err := expectBoth(env, ast.BoolType(), left, right, op); err != nil {
			return unitTy(), err
		}
		return lit(ast.BoolType()), nil
	case op.Comparison():
		if err := expectBoth(env, ast.I32Type(), left, right, op); err != nil {
			return unitTy(), err
		}
		return lit(ast.BoolType()), nil
	case op == ast.OpEq:
		if err := unify(env, left, right); err != nil {
			return unitTy(), inContext(err, "operands of "+string(op))
		}
		return lit(ast.BoolType()), nil
	default:
		return unitTy(), fmt.Errorf("%w: unknown operator %q", runtime.ErrMalformedProgram, op)
	}
}

func expectBoth(env realizer, want ast.Type, left, right Ty, op ast.BinaryOperator) error {
	for _, operand := range []Ty{left, right} {
		if err := unify(env, lit(want), operand); err != nil {
			return inContext(err, "operand of "+string(op))
		}
	}
	return nil
}

func inContext(err error, context string) error {
	var mismatch *runtime.TypeMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.In(context)
	}
	return err
}

func (rules) Not(v Ty) (Ty, error) {
	if t, ok := stripMut(v).(LitTy); !ok || t.Type.Kind != ast.TypeBool {
		return unitTy(), runtime.NewTypeMismatch(ast.BoolType(), describe(v)).In("operand of !")
	}
	return lit(ast.BoolType()), nil
}

// describe renders a Ty for messages without needing storage.
func describe(t Ty) fmt.Stringer {
	if l, ok := stripMut(t).(LitTy); ok {
		return l.Type
	}
	return stripMut(t)
}

func (rules) Deref(w *eval.Walker[Ty], v Ty) (Ty, runtime.Ref, error) {
	env := w.Env()
	switch t := stripMut(v).(type) {
	case RefTy:
		return env.DeRef(t.Ref), t.Ref, nil
	case LitTy:
		if t.Type.Kind == ast.TypeRef && t.Type.Elem != nil {
			// A declared reference type has no cell behind it; give it one.
			pointee := lit(*t.Type.Elem)
			return pointee, env.New(pointee), nil
		}
		return unitTy(), 0, fmt.Errorf("%w: type %s cannot be dereferenced", runtime.ErrNotAReference, t.Type)
	default:
		return unitTy(), 0, fmt.Errorf("%w: %s cannot be dereferenced", runtime.ErrNotAReference, v)
	}
}

func (rules) If(w *eval.Walker[Ty], expr *ast.IfExpression) (Ty, error) {
	env := w.Env()
	cond, err := w.Expression(expr.Condition)
	if err != nil {
		return unitTy(), err
	}
	if err := unify(env, lit(ast.BoolType()), cond); err != nil {
		return unitTy(), runtime.AtNode(expr.Condition, inContext(err, "if condition"))
	}
	then, err := w.Block(expr.Then)
	if err != nil {
		return unitTy(), err
	}
	if expr.Else == nil {
		if err := unify(env, unitTy(), then); err != nil {
			return unitTy(), runtime.AtNode(expr.Then, inContext(err, "if without else"))
		}
		return unitTy(), nil
	}
	els, err := w.Block(expr.Else)
	if err != nil {
		return unitTy(), err
	}
	if err := unify(env, then, els); err != nil {
		return unitTy(), runtime.AtNode(expr.Else, inContext(err, "else branch"))
	}
	return stripMut(then), nil
}

func (rules) While(w *eval.Walker[Ty], loop *ast.WhileLoop) error {
	cond, err := w.Expression(loop.Condition)
	if err != nil {
		return err
	}
	if err := unify(w.Env(), lit(ast.BoolType()), cond); err != nil {
		return runtime.AtNode(loop.Condition, inContext(err, "while condition"))
	}
	_, err = w.Block(loop.Body)
	return err
}

func (rules) Let(w *eval.Walker[Ty], stmt *ast.LetStatement, value Ty, hasValue bool) (Ty, error) {
	var cell Ty
	switch {
	case hasValue:
		if stmt.Type != nil {
			if err := unify(w.Env(), lit(*stmt.Type), value); err != nil {
				return unitTy(), inContext(err, fmt.Sprintf("let '%s'", stmt.Name.Name))
			}
		}
		cell = stripMut(value)
	case stmt.Type != nil:
		cell = lit(*stmt.Type)
	default:
		cell = PendingTy{}
	}
	if stmt.Mutable {
		cell = MutTy{Inner: cell}
	}
	return cell, nil
}

// Assign requires a mutable binding when writing to a name. Writing through
// a dereference only needs matching types. A pending binding, as left by
// `let mut x;`, takes the type of the first value assigned; bindings
// declared or initialised as () unify like any other.
func (rules) Assign(w *eval.Walker[Ty], target ast.Expression, cell, value Ty) (Ty, error) {
	env := w.Env()
	if id, ok := assignedName(target); ok {
		m, mutable := cell.(MutTy)
		if !mutable {
			return cell, fmt.Errorf("%w: cannot assign twice to '%s'", runtime.ErrNotMutable, id.Name)
		}
		if _, pending := m.Inner.(PendingTy); pending {
			return MutTy{Inner: stripMut(value)}, nil
		}
	}
	if err := unify(env, cell, value); err != nil {
		return cell, inContext(err, "assignment")
	}
	return cell, nil
}

func assignedName(target ast.Expression) (*ast.Identifier, bool) {
	for {
		switch t := target.(type) {
		case *ast.ParenthesizedExpression:
			target = t.Inner
		case *ast.Identifier:
			return t, true
		default:
			return nil, false
		}
	}
}

func (rules) Param(param *ast.FunctionParameter, _ Ty) Ty {
	t := lit(param.Type)
	if param.Mutable {
		return MutTy{Inner: t}
	}
	return t
}

// Declare checks a function body once, with its parameters bound to their
// declared types.
func (rules) Declare(w *eval.Walker[Ty], fn *runtime.Function) error {
	decl := fn.Decl
	body, err := w.Invoke(fn, make([]Ty, len(decl.Params)))
	if err != nil {
		return err
	}
	if err := unify(w.Env(), lit(decl.Result()), body); err != nil {
		return runtime.AtNode(decl.Body, inContext(err, fmt.Sprintf("body of '%s'", fn.Name)))
	}
	return nil
}

func (rules) Call(w *eval.Walker[Ty], fn *runtime.Function, args []Ty) (Ty, error) {
	for i, param := range fn.Decl.Params {
		if err := unify(w.Env(), lit(param.Type), args[i]); err != nil {
			return unitTy(), inContext(err, fmt.Sprintf("argument %d of '%s'", i+1, fn.Name))
		}
	}
	return lit(fn.Decl.Result()), nil
}

// Native built-ins accept any arguments and yield Unit.
func (rules) Native(_ *eval.Walker[Ty], _ *runtime.Function, _ []Ty) (Ty, error) {
	return unitTy(), nil
}
