package runtime

import (
	"fmt"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindLiteral Kind = iota
	KindRef
	KindUninit
	KindMut
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRef:
		return "ref"
	case KindUninit:
		return "uninit"
	case KindMut:
		return "mut"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the payload of an evaluator storage cell.
type Value interface {
	Kind() Kind
}

type LiteralValue struct {
	Literal ast.Literal
}

func (LiteralValue) Kind() Kind { return KindLiteral }

// RefValue aliases another cell.
type RefValue struct {
	Ref Ref
}

func (RefValue) Kind() Kind { return KindRef }

// UninitValue fills a cell declared without an initializer.
type UninitValue struct{}

func (UninitValue) Kind() Kind { return KindUninit }

// MutValue is the transient result of the `mut` operator. It never reaches
// storage: it is stripped before a value is bound or written.
type MutValue struct {
	Inner Value
}

func (MutValue) Kind() Kind { return KindMut }

func Lit(l ast.Literal) LiteralValue    { return LiteralValue{Literal: l} }
func IntValue(i int32) LiteralValue     { return Lit(ast.IntLiteral(i)) }
func BoolValue(b bool) LiteralValue     { return Lit(ast.BoolLiteral(b)) }
func StringValue(s string) LiteralValue { return Lit(ast.StringLiteral(s)) }
func UnitValue() LiteralValue           { return Lit(ast.UnitLiteral()) }

// StripMut removes any number of Mut wrappers.
func StripMut(v Value) Value {
	for {
		m, ok := v.(MutValue)
		if !ok {
			return v
		}
		v = m.Inner
	}
}
