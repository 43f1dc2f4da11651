package typechecker

import (
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

// Ty is the payload of a checker storage cell.
type Ty interface {
	fmt.Stringer
	isTy()
}

// LitTy is a concrete type.
type LitTy struct {
	Type ast.Type
}

// RefTy is a reference to a checker cell. Keeping the Ref rather than the
// pointee type lets writes through the reference see the aliased binding.
type RefTy struct {
	Ref runtime.Ref
}

// MutTy marks a mutable binding.
type MutTy struct {
	Inner Ty
}

// PendingTy is the type of a binding declared with neither a type nor an
// initializer. It realises to Unit until a first assignment replaces it.
type PendingTy struct{}

func (LitTy) isTy()     {}
func (RefTy) isTy()     {}
func (MutTy) isTy()     {}
func (PendingTy) isTy() {}

func (t LitTy) String() string   { return t.Type.String() }
func (t RefTy) String() string   { return "&" + t.Ref.String() }
func (t MutTy) String() string   { return "mut " + t.Inner.String() }
func (PendingTy) String() string { return "_" }

func lit(t ast.Type) Ty { return LitTy{Type: t} }

func unitTy() Ty { return lit(ast.UnitType()) }

func stripMut(t Ty) Ty {
	for {
		m, ok := t.(MutTy)
		if !ok {
			return t
		}
		t = m.Inner
	}
}

// realizer resolves RefTy through an environment.
type realizer interface {
	DeRef(ref runtime.Ref) Ty
}

// realize maps a Ty to the concrete type it denotes. Mut is transparent and
// a reference realises to a reference to its pointee's realised type.
func realize(env realizer, t Ty) ast.Type {
	switch v := t.(type) {
	case LitTy:
		return v.Type
	case MutTy:
		return realize(env, v.Inner)
	case RefTy:
		return ast.RefType(realize(env, env.DeRef(v.Ref)))
	case PendingTy:
		return ast.UnitType()
	default:
		return ast.UnitType()
	}
}

// unify succeeds when both types realise to the same concrete type. It never
// coerces.
func unify(env realizer, expected, got Ty) error {
	want, have := realize(env, expected), realize(env, got)
	if !want.Equal(have) {
		return runtime.NewTypeMismatch(want, have)
	}
	return nil
}
