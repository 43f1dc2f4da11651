package eval

import (
	"fmt"
	"log/slog"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// Walker walks statements and expressions over an Environment[V].
type Walker[V any] struct {
	env    *runtime.Environment[V]
	sem    Semantics[V]
	logger *slog.Logger
}

// NewWalker binds a semantics to an environment. A nil logger discards.
func NewWalker[V any](env *runtime.Environment[V], sem Semantics[V], logger *slog.Logger) *Walker[V] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker[V]{env: env, sem: sem, logger: logger}
}

func (w *Walker[V]) Env() *runtime.Environment[V] {
	return w.env
}

// SetEnv swaps the environment, used to commit or discard a session.
func (w *Walker[V]) SetEnv(env *runtime.Environment[V]) {
	w.env = env
}

func (w *Walker[V]) Logger() *slog.Logger {
	return w.logger
}

// Program registers the top-level functions, declares each of them and
// returns main.
func (w *Walker[V]) Program(prog *ast.Program) (*runtime.Function, error) {
	if prog == nil {
		return nil, fmt.Errorf("%w: nil program", runtime.ErrMalformedProgram)
	}
	if err := w.env.AddFunctionsUnique(prog.Functions); err != nil {
		return nil, err
	}
	for _, decl := range prog.Functions {
		fn, _ := w.env.Function(decl.ID.Name)
		if err := w.sem.Declare(w, fn); err != nil {
			return nil, runtime.AtNode(decl, err)
		}
	}
	main, ok := w.env.Function("main")
	if !ok || main.IsNative() {
		return nil, runtime.ErrMainMissing
	}
	if n := len(main.Decl.Params); n != 0 {
		return nil, runtime.AtNode(main.Decl, fmt.Errorf("%w: main takes no parameters, found %d", runtime.ErrArityMismatch, n))
	}
	w.logger.Debug("program declared", "functions", len(prog.Functions))
	return main, nil
}

// Block runs a block in a fresh scope.
func (w *Walker[V]) Block(block *ast.BlockExpression) (V, error) {
	if block == nil {
		return w.sem.Unit(), fmt.Errorf("%w: nil block", runtime.ErrMalformedProgram)
	}
	w.env.PushScope()
	defer w.env.PopScope()
	return w.Statements(block.Body, block.TrailingSemicolon)
}

// Statements runs body in the current scope. Function definitions are
// hoisted and declared before the first statement runs. The result is the
// value of a final expression statement unless trailingSemicolon is set.
func (w *Walker[V]) Statements(body []ast.Statement, trailingSemicolon bool) (V, error) {
	if fns := ast.HoistedFunctions(body); len(fns) > 0 {
		if err := w.env.AddFunctionsUnique(fns); err != nil {
			return w.sem.Unit(), runtime.AtNode(fns[0], err)
		}
		for _, decl := range fns {
			fn, _ := w.env.Function(decl.ID.Name)
			if err := w.sem.Declare(w, fn); err != nil {
				return w.sem.Unit(), runtime.AtNode(decl, err)
			}
		}
	}
	result := w.sem.Unit()
	for i, stmt := range body {
		value, err := w.Statement(stmt)
		if err != nil {
			return w.sem.Unit(), err
		}
		if i == len(body)-1 && !trailingSemicolon {
			if _, ok := stmt.(*ast.ExpressionStatement); ok {
				result = value
			}
		}
	}
	return result, nil
}

// Statement runs one statement. Only expression statements produce a value
// other than Unit.
func (w *Walker[V]) Statement(stmt ast.Statement) (V, error) {
	value, err := w.statement(stmt)
	if err != nil {
		return w.sem.Unit(), runtime.AtNode(stmt, err)
	}
	return value, nil
}

func (w *Walker[V]) statement(stmt ast.Statement) (V, error) {
	unit := w.sem.Unit()
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return w.Expression(s.Expression)
	case *ast.LetStatement:
		var (
			value    V
			hasValue bool
		)
		if s.Value != nil {
			v, err := w.Expression(s.Value)
			if err != nil {
				return unit, err
			}
			value, hasValue = v, true
		}
		cell, err := w.sem.Let(w, s, value, hasValue)
		if err != nil {
			return unit, err
		}
		w.env.Alloc(s.Name.Name, cell)
		return unit, nil
	case *ast.AssignmentStatement:
		value, err := w.Expression(s.Value)
		if err != nil {
			return unit, err
		}
		cell, ref, ok, err := w.place(s.Target)
		if err != nil {
			return unit, err
		}
		if !ok {
			return unit, runtime.AtNode(s.Target, fmt.Errorf("%w: left-hand side of assignment is not assignable", runtime.ErrNotAReference))
		}
		next, err := w.sem.Assign(w, s.Target, cell, value)
		if err != nil {
			return unit, err
		}
		w.env.SetRef(ref, next)
		return unit, nil
	case *ast.WhileLoop:
		return unit, w.sem.While(w, s)
	case *ast.FunctionDefinition:
		// Hoisted by Statements.
		return unit, nil
	case nil:
		return unit, fmt.Errorf("%w: nil statement", runtime.ErrMalformedProgram)
	default:
		return unit, fmt.Errorf("%w: unsupported statement %T", runtime.ErrMalformedProgram, stmt)
	}
}

// Expression evaluates expr to a value.
func (w *Walker[V]) Expression(expr ast.Expression) (V, error) {
	value, err := w.expression(expr)
	if err != nil {
		return w.sem.Unit(), runtime.AtNode(expr, err)
	}
	return value, nil
}

func (w *Walker[V]) expression(expr ast.Expression) (V, error) {
	unit := w.sem.Unit()
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		return w.sem.Literal(e.Value), nil
	case *ast.ParenthesizedExpression:
		return w.Expression(e.Inner)
	case *ast.Identifier:
		cell, _, _, err := w.place(e)
		if err != nil {
			return unit, err
		}
		return w.load(e, cell)
	case *ast.BinaryExpression:
		left, err := w.Expression(e.Left)
		if err != nil {
			return unit, err
		}
		right, err := w.Expression(e.Right)
		if err != nil {
			return unit, err
		}
		return w.sem.Binary(w, e.Operator, left, right)
	case *ast.UnaryExpression:
		return w.unary(e)
	case *ast.IfExpression:
		return w.sem.If(w, e)
	case *ast.BlockExpression:
		return w.Block(e)
	case *ast.FunctionCall:
		return w.call(e)
	case nil:
		return unit, fmt.Errorf("%w: nil expression", runtime.ErrMalformedProgram)
	default:
		return unit, fmt.Errorf("%w: unsupported expression %T", runtime.ErrMalformedProgram, expr)
	}
}

func (w *Walker[V]) unary(e *ast.UnaryExpression) (V, error) {
	unit := w.sem.Unit()
	switch e.Operator {
	case ast.OpBang:
		v, err := w.Expression(e.Operand)
		if err != nil {
			return unit, err
		}
		return w.sem.Not(v)
	case ast.OpMut:
		v, err := w.Expression(e.Operand)
		if err != nil {
			return unit, err
		}
		return w.sem.Mut(v), nil
	case ast.OpDeRef:
		cell, _, _, err := w.place(e)
		if err != nil {
			return unit, err
		}
		return w.load(e, cell)
	case ast.OpRef:
		operand := e.Operand
		// &mut e borrows the place e.
		if inner, ok := operand.(*ast.UnaryExpression); ok && inner.Operator == ast.OpMut {
			operand = inner.Operand
		}
		if _, isPlace := placeOf(operand); isPlace {
			_, ref, _, err := w.place(operand)
			if err != nil {
				return unit, err
			}
			return w.sem.Reference(ref), nil
		}
		v, err := w.Expression(e.Operand)
		if err != nil {
			return unit, err
		}
		return w.sem.Reference(w.env.New(w.sem.Temp(v))), nil
	default:
		return unit, fmt.Errorf("%w: unknown unary operator %q", runtime.ErrMalformedProgram, e.Operator)
	}
}

// placeOf strips parentheses and reports whether expr denotes a storage
// cell: an identifier or a dereference.
func placeOf(expr ast.Expression) (ast.Expression, bool) {
	for {
		switch e := expr.(type) {
		case *ast.ParenthesizedExpression:
			expr = e.Inner
		case *ast.Identifier:
			return e, true
		case *ast.UnaryExpression:
			return e, e.Operator == ast.OpDeRef
		default:
			return expr, false
		}
	}
}

// place resolves a place expression to the raw content and Ref of its cell.
// ok is false when expr is not a place.
func (w *Walker[V]) place(expr ast.Expression) (V, runtime.Ref, bool, error) {
	target, isPlace := placeOf(expr)
	if !isPlace {
		return w.sem.Unit(), 0, false, nil
	}
	switch t := target.(type) {
	case *ast.Identifier:
		cell, ref, found := w.env.Get(t.Name)
		if !found {
			return w.sem.Unit(), 0, false, runtime.AtNode(t, fmt.Errorf("%w '%s'", runtime.ErrUndefinedVariable, t.Name))
		}
		return cell, ref, true, nil
	case *ast.UnaryExpression:
		v, err := w.Expression(t.Operand)
		if err != nil {
			return w.sem.Unit(), 0, false, err
		}
		cell, ref, err := w.sem.Deref(w, v)
		if err != nil {
			return w.sem.Unit(), 0, false, runtime.AtNode(t, err)
		}
		return cell, ref, true, nil
	}
	return w.sem.Unit(), 0, false, nil
}

func (w *Walker[V]) load(expr ast.Expression, cell V) (V, error) {
	v, err := w.sem.Load(cell)
	if err != nil {
		if id, ok := placeOfIdentifier(expr); ok {
			return w.sem.Unit(), fmt.Errorf("%w '%s'", err, id.Name)
		}
		return w.sem.Unit(), err
	}
	return v, nil
}

func placeOfIdentifier(expr ast.Expression) (*ast.Identifier, bool) {
	target, _ := placeOf(expr)
	id, ok := target.(*ast.Identifier)
	return id, ok
}

func (w *Walker[V]) call(e *ast.FunctionCall) (V, error) {
	unit := w.sem.Unit()
	if e.Callee == nil {
		return unit, fmt.Errorf("%w: call without callee", runtime.ErrMalformedProgram)
	}
	name := e.Callee.Name
	fn, ok := w.env.Function(name)
	if !ok {
		return unit, fmt.Errorf("%w '%s'", runtime.ErrUndefinedFunction, name)
	}
	args := make([]V, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := w.Expression(arg)
		if err != nil {
			return unit, err
		}
		args = append(args, v)
	}
	if fn.IsNative() {
		return w.sem.Native(w, fn, args)
	}
	if want := len(fn.Decl.Params); want != len(args) {
		return unit, fmt.Errorf("%w: '%s' takes %d argument(s), %d supplied", runtime.ErrArityMismatch, name, want, len(args))
	}
	w.logger.Debug("call", "function", name, "args", len(args), "depth", w.env.Depth())
	return w.sem.Call(w, fn, args)
}

// Invoke runs fn's body with args bound to its parameters. The body sees
// its parameters and the functions visible where fn was declared.
func (w *Walker[V]) Invoke(fn *runtime.Function, args []V) (V, error) {
	if fn == nil || fn.Decl == nil {
		return w.sem.Unit(), fmt.Errorf("%w: invoke without a definition", runtime.ErrMalformedProgram)
	}
	if len(args) != len(fn.Decl.Params) {
		return w.sem.Unit(), fmt.Errorf("%w: '%s' takes %d argument(s), %d supplied", runtime.ErrArityMismatch, fn.Name, len(fn.Decl.Params), len(args))
	}
	leave := w.env.Enter(fn.Depth)
	defer leave()
	w.env.PushScope()
	defer w.env.PopScope()
	for i, param := range fn.Decl.Params {
		w.env.Alloc(param.Name.Name, w.sem.Param(param, args[i]))
	}
	return w.Block(fn.Decl.Body)
}
