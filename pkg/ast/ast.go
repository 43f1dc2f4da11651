package ast

type NodeType string

const (
	NodeIdentifier              NodeType = "Identifier"
	NodeLiteralExpression       NodeType = "LiteralExpression"
	NodeBinaryExpression        NodeType = "BinaryExpression"
	NodeUnaryExpression         NodeType = "UnaryExpression"
	NodeParenthesizedExpression NodeType = "ParenthesizedExpression"
	NodeIfExpression            NodeType = "IfExpression"
	NodeBlockExpression         NodeType = "BlockExpression"
	NodeFunctionCall            NodeType = "FunctionCall"
	NodeLetStatement            NodeType = "LetStatement"
	NodeAssignmentStatement     NodeType = "AssignmentStatement"
	NodeExpressionStatement     NodeType = "ExpressionStatement"
	NodeWhileLoop               NodeType = "WhileLoop"
	NodeFunctionParameter       NodeType = "FunctionParameter"
	NodeFunctionDefinition      NodeType = "FunctionDefinition"
	NodeProgram                 NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (n *nodeImpl) setSpan(s Span)    { n.span = s }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// BinaryOperator is the source spelling of an infix operator.
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpAnd BinaryOperator = "&&"
	OpOr  BinaryOperator = "||"
	OpEq  BinaryOperator = "=="
	OpLt  BinaryOperator = "<"
	OpGt  BinaryOperator = ">"
)

// Arithmetic reports whether the operator maps i32 operands to an i32.
func (op BinaryOperator) Arithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Logical reports whether the operator maps bool operands to a bool.
func (op BinaryOperator) Logical() bool {
	return op == OpAnd || op == OpOr
}

// Comparison reports whether the operator compares i32 operands.
func (op BinaryOperator) Comparison() bool {
	return op == OpLt || op == OpGt
}

type UnaryOperator string

const (
	OpBang  UnaryOperator = "!"
	OpDeRef UnaryOperator = "*"
	OpRef   UnaryOperator = "&"
	OpMut   UnaryOperator = "mut"
)

// Expressions.

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type LiteralExpression struct {
	nodeImpl
	expressionMarker

	Value Literal `json:"value"`
}

func NewLiteralExpression(value Literal) *LiteralExpression {
	return &LiteralExpression{nodeImpl: newNodeImpl(NodeLiteralExpression), Value: value}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(op BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: op, Left: left, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(op UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: op, Operand: operand}
}

type ParenthesizedExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewParenthesizedExpression(inner Expression) *ParenthesizedExpression {
	return &ParenthesizedExpression{nodeImpl: newNodeImpl(NodeParenthesizedExpression), Inner: inner}
}

// IfExpression has no else block when Else is nil.
type IfExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression       `json:"condition"`
	Then      *BlockExpression `json:"then"`
	Else      *BlockExpression `json:"else,omitempty"`
}

func NewIfExpression(condition Expression, then, els *BlockExpression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: els}
}

// BlockExpression evaluates to Unit when TrailingSemicolon is set; otherwise
// to the value of its final expression statement.
type BlockExpression struct {
	nodeImpl
	expressionMarker

	Body              []Statement `json:"body"`
	TrailingSemicolon bool        `json:"trailingSemicolon"`
}

func NewBlockExpression(body []Statement, trailingSemicolon bool) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body, TrailingSemicolon: trailingSemicolon}
}

// Tail returns the expression that supplies the block's value, if any.
func (b *BlockExpression) Tail() (Expression, bool) {
	if b == nil || b.TrailingSemicolon || len(b.Body) == 0 {
		return nil, false
	}
	stmt, ok := b.Body[len(b.Body)-1].(*ExpressionStatement)
	if !ok {
		return nil, false
	}
	return stmt.Expression, true
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}
