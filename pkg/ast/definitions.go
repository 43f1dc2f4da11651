package ast

// Statements.

// LetStatement introduces a binding. Type and Value are both optional.
type LetStatement struct {
	nodeImpl
	statementMarker

	Mutable bool        `json:"mutable"`
	Name    *Identifier `json:"name"`
	Type    *Type       `json:"type,omitempty"`
	Value   Expression  `json:"value,omitempty"`
}

func NewLetStatement(mutable bool, name *Identifier, typ *Type, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Mutable: mutable, Name: name, Type: typ, Value: value}
}

// AssignmentStatement writes Value into the place denoted by Target, either
// an identifier or a dereference.
type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignmentStatement(target, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignmentStatement), Target: target, Value: value}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression       `json:"condition"`
	Body      *BlockExpression `json:"body"`
}

func NewWhileLoop(condition Expression, body *BlockExpression) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// Functions.

type FunctionParameter struct {
	nodeImpl

	Mutable bool        `json:"mutable"`
	Name    *Identifier `json:"name"`
	Type    Type        `json:"paramType"`
}

func NewFunctionParameter(mutable bool, name *Identifier, typ Type) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Mutable: mutable, Name: name, Type: typ}
}

// FunctionDefinition is also a statement: nested definitions are hoisted to
// the top of the enclosing block.
type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID         *Identifier          `json:"id"`
	Params     []*FunctionParameter `json:"params"`
	ReturnType *Type                `json:"returnType,omitempty"`
	Body       *BlockExpression     `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*FunctionParameter, returnType *Type, body *BlockExpression) *FunctionDefinition {
	return &FunctionDefinition{
		nodeImpl:   newNodeImpl(NodeFunctionDefinition),
		ID:         id,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
	}
}

// Result is the declared return type, Unit when omitted.
func (f *FunctionDefinition) Result() Type {
	if f.ReturnType == nil {
		return UnitType()
	}
	return *f.ReturnType
}

// Program is an ordered list of top-level functions, one of which must be a
// nullary main.
type Program struct {
	nodeImpl

	Functions []*FunctionDefinition `json:"functions"`
}

func NewProgram(functions []*FunctionDefinition) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Functions: functions}
}

// Function returns the top-level definition with the given name.
func (p *Program) Function(name string) (*FunctionDefinition, bool) {
	if p == nil {
		return nil, false
	}
	for _, fn := range p.Functions {
		if fn != nil && fn.ID != nil && fn.ID.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// HoistedFunctions returns the function definitions declared directly in body.
func HoistedFunctions(body []Statement) []*FunctionDefinition {
	var out []*FunctionDefinition
	for _, stmt := range body {
		if fn, ok := stmt.(*FunctionDefinition); ok {
			out = append(out, fn)
		}
	}
	return out
}
