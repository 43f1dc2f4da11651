package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int32) *LiteralExpression {
	return NewLiteralExpression(IntLiteral(value))
}

func Bool(value bool) *LiteralExpression {
	return NewLiteralExpression(BoolLiteral(value))
}

func Str(value string) *LiteralExpression {
	return NewLiteralExpression(StringLiteral(value))
}

func Unit() *LiteralExpression {
	return NewLiteralExpression(UnitLiteral())
}

// Type helpers.

func TyPtr(t Type) *Type {
	return &t
}

// Expression helpers.

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Add(left, right Expression) *BinaryExpression { return Bin(OpAdd, left, right) }
func Sub(left, right Expression) *BinaryExpression { return Bin(OpSub, left, right) }
func Mul(left, right Expression) *BinaryExpression { return Bin(OpMul, left, right) }
func Div(left, right Expression) *BinaryExpression { return Bin(OpDiv, left, right) }
func Eq(left, right Expression) *BinaryExpression  { return Bin(OpEq, left, right) }
func Lt(left, right Expression) *BinaryExpression  { return Bin(OpLt, left, right) }
func Gt(left, right Expression) *BinaryExpression  { return Bin(OpGt, left, right) }
func And(left, right Expression) *BinaryExpression { return Bin(OpAnd, left, right) }
func Or(left, right Expression) *BinaryExpression  { return Bin(OpOr, left, right) }

func Not(operand Expression) *UnaryExpression   { return NewUnaryExpression(OpBang, operand) }
func Deref(operand Expression) *UnaryExpression { return NewUnaryExpression(OpDeRef, operand) }
func Ref(operand Expression) *UnaryExpression   { return NewUnaryExpression(OpRef, operand) }
func Mut(operand Expression) *UnaryExpression   { return NewUnaryExpression(OpMut, operand) }

// MutRef builds `&mut operand`.
func MutRef(operand Expression) *UnaryExpression {
	return Ref(Mut(operand))
}

func Par(inner Expression) *ParenthesizedExpression {
	return NewParenthesizedExpression(inner)
}

// Block builds a block whose value is its final expression statement.
func Block(body ...Statement) *BlockExpression {
	return NewBlockExpression(body, false)
}

// BlockSemi builds a block with a trailing semicolon, valued Unit.
func BlockSemi(body ...Statement) *BlockExpression {
	return NewBlockExpression(body, true)
}

func If(condition Expression, then *BlockExpression) *IfExpression {
	return NewIfExpression(condition, then, nil)
}

func IfElse(condition Expression, then, els *BlockExpression) *IfExpression {
	return NewIfExpression(condition, then, els)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

// Statement helpers.

func Let(name string, value Expression) *LetStatement {
	return NewLetStatement(false, ID(name), nil, value)
}

func LetMut(name string, value Expression) *LetStatement {
	return NewLetStatement(true, ID(name), nil, value)
}

func LetTyped(mutable bool, name string, typ Type, value Expression) *LetStatement {
	return NewLetStatement(mutable, ID(name), TyPtr(typ), value)
}

func Assign(target, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(target, value)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func While(condition Expression, body *BlockExpression) *WhileLoop {
	return NewWhileLoop(condition, body)
}

// Function helpers.

func Param(name string, typ Type) *FunctionParameter {
	return NewFunctionParameter(false, ID(name), typ)
}

func ParamMut(name string, typ Type) *FunctionParameter {
	return NewFunctionParameter(true, ID(name), typ)
}

// Fn builds a function; a nil ret leaves the return type implicit (Unit).
func Fn(name string, params []*FunctionParameter, ret *Type, body *BlockExpression) *FunctionDefinition {
	return NewFunctionDefinition(ID(name), params, ret, body)
}

func Prog(functions ...*FunctionDefinition) *Program {
	return NewProgram(functions)
}
