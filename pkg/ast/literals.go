package ast

import (
	"strconv"
	"strings"
)

type LiteralKind int

const (
	LiteralUnit LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralString
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralUnit:
		return "unit"
	case LiteralBool:
		return "bool"
	case LiteralInt:
		return "int"
	case LiteralString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is an immutable constant. Only the field matching Kind is
// meaningful, which keeps Literal comparable with ==.
type Literal struct {
	Kind LiteralKind `json:"kind"`
	Bool bool        `json:"bool,omitempty"`
	Int  int32       `json:"int,omitempty"`
	Str  string      `json:"str,omitempty"`
}

func UnitLiteral() Literal           { return Literal{Kind: LiteralUnit} }
func BoolLiteral(b bool) Literal     { return Literal{Kind: LiteralBool, Bool: b} }
func IntLiteral(i int32) Literal     { return Literal{Kind: LiteralInt, Int: i} }
func StringLiteral(s string) Literal { return Literal{Kind: LiteralString, Str: s} }
func (l Literal) IsUnit() bool       { return l.Kind == LiteralUnit }

// Type returns the static type of the literal.
func (l Literal) Type() Type {
	switch l.Kind {
	case LiteralBool:
		return BoolType()
	case LiteralInt:
		return I32Type()
	case LiteralString:
		return StringType()
	default:
		return UnitType()
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	case LiteralInt:
		return strconv.FormatInt(int64(l.Int), 10)
	case LiteralString:
		return l.Str
	default:
		return "()"
	}
}

// Quoted renders the literal the way it would be written in source.
func (l Literal) Quoted() string {
	if l.Kind == LiteralString {
		return strconv.Quote(l.Str)
	}
	return l.String()
}

type TypeKind int

const (
	TypeUnit TypeKind = iota
	TypeI32
	TypeBool
	TypeString
	TypeRef
)

// Type is a static type. Elem is set only for TypeRef.
type Type struct {
	Kind TypeKind `json:"kind"`
	Elem *Type    `json:"elem,omitempty"`
}

func UnitType() Type   { return Type{Kind: TypeUnit} }
func I32Type() Type    { return Type{Kind: TypeI32} }
func BoolType() Type   { return Type{Kind: TypeBool} }
func StringType() Type { return Type{Kind: TypeString} }

func RefType(elem Type) Type {
	return Type{Kind: TypeRef, Elem: &elem}
}

// Equal compares types structurally.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != TypeRef {
		return true
	}
	if t.Elem == nil || other.Elem == nil {
		return t.Elem == other.Elem
	}
	return t.Elem.Equal(*other.Elem)
}

func (t Type) String() string {
	switch t.Kind {
	case TypeI32:
		return "i32"
	case TypeBool:
		return "bool"
	case TypeString:
		return "String"
	case TypeRef:
		if t.Elem == nil {
			return "&?"
		}
		return "&" + t.Elem.String()
	default:
		return "()"
	}
}

// ParseType resolves a primitive type name such as "i32" or "&bool".
func ParseType(name string) (Type, bool) {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "&") {
		inner := strings.TrimSpace(strings.TrimPrefix(name, "&"))
		inner = strings.TrimSpace(strings.TrimPrefix(inner, "mut "))
		elem, ok := ParseType(inner)
		if !ok {
			return Type{}, false
		}
		return RefType(elem), true
	}
	switch name {
	case "i32":
		return I32Type(), true
	case "bool":
		return BoolType(), true
	case "String", "str":
		return StringType(), true
	case "()":
		return UnitType(), true
	}
	return Type{}, false
}
