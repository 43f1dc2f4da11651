// Package eval holds the tree walk shared by the type checker and the
// evaluator. The walk owns scoping, hoisting, places and calls; everything
// that depends on what a cell holds is delegated to a Semantics.
package eval

import (
	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// Semantics interprets the language over cell payloads of type V.
type Semantics[V any] interface {
	Unit() V
	Literal(lit ast.Literal) V

	// Load turns the content of a named or dereferenced cell into the
	// value of the expression reading it.
	Load(cell V) (V, error)
	// Temp is the content stored in an anonymous cell created for &e when
	// e is not a place.
	Temp(v V) V

	Binary(w *Walker[V], op ast.BinaryOperator, left, right V) (V, error)
	Not(v V) (V, error)
	Mut(v V) V
	Reference(ref runtime.Ref) V
	// Deref follows v one level and returns the target cell's content and Ref.
	Deref(w *Walker[V], v V) (V, runtime.Ref, error)

	If(w *Walker[V], expr *ast.IfExpression) (V, error)
	While(w *Walker[V], loop *ast.WhileLoop) error

	// Let returns the content of the new binding's cell. hasValue is false
	// when the statement has no initializer.
	Let(w *Walker[V], stmt *ast.LetStatement, value V, hasValue bool) (V, error)
	// Assign returns the new content of the target cell given its current
	// content.
	Assign(w *Walker[V], target ast.Expression, cell, value V) (V, error)
	// Param returns the content bound to a parameter for a call.
	Param(param *ast.FunctionParameter, arg V) V

	// Declare runs when a function definition becomes visible.
	Declare(w *Walker[V], fn *runtime.Function) error
	Call(w *Walker[V], fn *runtime.Function, args []V) (V, error)
	Native(w *Walker[V], fn *runtime.Function, args []V) (V, error)
}
