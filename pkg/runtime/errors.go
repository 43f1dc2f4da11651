package runtime

import (
	"errors"
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

var (
	ErrUndefinedVariable   = errors.New("undefined variable")
	ErrUndefinedFunction   = errors.New("undefined function")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrNotMutable          = errors.New("assignment to immutable binding")
	ErrNotAReference       = errors.New("not a reference")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrMainMissing         = errors.New("main function missing")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrMalformedProgram    = errors.New("malformed program")
	ErrUninitialized       = errors.New("use of uninitialized binding")
)

// TypeMismatchError reports two types that failed to unify. It matches
// ErrTypeMismatch under errors.Is.
type TypeMismatchError struct {
	Expected string
	Got      string
	Context  string
}

func NewTypeMismatch(expected, got fmt.Stringer) *TypeMismatchError {
	return &TypeMismatchError{Expected: expected.String(), Got: got.String()}
}

func (e *TypeMismatchError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("type mismatch in %s: expected %s, got %s", e.Context, e.Expected, e.Got)
	}
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// In records where the mismatch was found.
func (e *TypeMismatchError) In(context string) *TypeMismatchError {
	out := *e
	out.Context = context
	return &out
}

// NodeError attaches a source position to an error.
type NodeError struct {
	Span ast.Span
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Span, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// AtNode prefixes err with the node's position unless it already carries
// one or the node has no span.
func AtNode(node ast.Node, err error) error {
	if err == nil || node == nil {
		return err
	}
	var located *NodeError
	if errors.As(err, &located) {
		return err
	}
	span := node.Span()
	if span.IsZero() {
		return err
	}
	return &NodeError{Span: span, Err: err}
}
