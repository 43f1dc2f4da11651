package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

var binaryOperators = map[string]ast.BinaryOperator{
	"+":  ast.OpAdd,
	"-":  ast.OpSub,
	"*":  ast.OpMul,
	"/":  ast.OpDiv,
	"&&": ast.OpAnd,
	"||": ast.OpOr,
	"==": ast.OpEq,
	"<":  ast.OpLt,
	">":  ast.OpGt,
}

func (d *document) parseExpression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, d.errorf(node, ErrSyntax, "missing expression")
	}
	switch node.Kind() {
	case "identifier":
		return d.parseIdentifier(node)
	case "integer_literal":
		return d.parseIntegerLiteral(node, false)
	case "boolean_literal":
		return d.parseBooleanLiteral(node)
	case "string_literal":
		return d.parseStringLiteral(node)
	case "unit_expression":
		return d.annotateExpression(ast.NewLiteralExpression(ast.UnitLiteral()), node), nil
	case "parenthesized_expression":
		inner, err := d.parseExpression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return d.annotateExpression(ast.NewParenthesizedExpression(inner), node), nil
	case "binary_expression":
		return d.parseBinaryExpression(node)
	case "unary_expression":
		return d.parseUnaryExpression(node)
	case "reference_expression":
		return d.parseReferenceExpression(node)
	case "if_expression":
		return d.parseIfExpression(node)
	case "block":
		return d.parseBlock(node)
	case "call_expression":
		return d.parseCallExpression(node)
	case "macro_invocation":
		return d.parseMacroInvocation(node)
	case "assignment_expression", "compound_assignment_expr", "while_expression":
		return nil, d.unsupported(node, "%s used as a value", node.Kind())
	default:
		return nil, d.unsupported(node, "expression %s", node.Kind())
	}
}

func (d *document) parseBinaryExpression(node *sitter.Node) (ast.Expression, error) {
	opNode := node.ChildByFieldName("operator")
	opText := sliceContent(opNode, d.text)
	op, ok := binaryOperators[opText]
	if !ok {
		return nil, d.unsupported(opNode, "operator %s", opText)
	}
	left, err := d.parseExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := d.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return d.annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}

func (d *document) parseUnaryExpression(node *sitter.Node) (ast.Expression, error) {
	opNode := node.Child(0)
	operandNode := firstNamedChild(node)
	if opNode == nil || operandNode == nil {
		return nil, d.errorf(node, ErrSyntax, "malformed unary expression")
	}
	switch opNode.Kind() {
	case "-":
		// A negated literal folds into the literal so that i32::MIN is
		// expressible; other operands lower to 0 - e.
		if operandNode.Kind() == "integer_literal" {
			lit, err := d.parseIntegerLiteral(operandNode, true)
			if err != nil {
				return nil, err
			}
			return d.annotateExpression(lit, node), nil
		}
		operand, err := d.parseExpression(operandNode)
		if err != nil {
			return nil, err
		}
		zero := d.annotateExpression(ast.NewLiteralExpression(ast.IntLiteral(0)), opNode)
		return d.annotateExpression(ast.NewBinaryExpression(ast.OpSub, zero, operand), node), nil
	case "!":
		operand, err := d.parseExpression(operandNode)
		if err != nil {
			return nil, err
		}
		return d.annotateExpression(ast.NewUnaryExpression(ast.OpBang, operand), node), nil
	case "*":
		operand, err := d.parseExpression(operandNode)
		if err != nil {
			return nil, err
		}
		return d.annotateExpression(ast.NewUnaryExpression(ast.OpDeRef, operand), node), nil
	default:
		return nil, d.unsupported(opNode, "unary operator %s", opNode.Kind())
	}
}

// parseReferenceExpression lowers `&e` and `&mut e`; the latter keeps a mut
// marker around the operand.
func (d *document) parseReferenceExpression(node *sitter.Node) (ast.Expression, error) {
	operand, err := d.parseExpression(node.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}
	mutable := false
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "mutable_specifier" {
			mutable = true
		}
	}
	if mutable {
		operand = d.annotateExpression(ast.NewUnaryExpression(ast.OpMut, operand), node)
	}
	return d.annotateExpression(ast.NewUnaryExpression(ast.OpRef, operand), node), nil
}

func (d *document) parseCondition(node *sitter.Node) (ast.Expression, error) {
	if node != nil && (node.Kind() == "let_condition" || node.Kind() == "let_chain") {
		return nil, d.unsupported(node, "pattern conditions")
	}
	return d.parseExpression(node)
}

// parseIfExpression lowers `else if` into an else block holding the nested
// if as its value.
func (d *document) parseIfExpression(node *sitter.Node) (ast.Expression, error) {
	condition, err := d.parseCondition(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	then, err := d.parseBlock(node.ChildByFieldName("consequence"))
	if err != nil {
		return nil, err
	}
	var els *ast.BlockExpression
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		branch := firstNamedChild(alt)
		if branch == nil {
			return nil, d.errorf(alt, ErrSyntax, "else without a body")
		}
		switch branch.Kind() {
		case "block":
			els, err = d.parseBlock(branch)
			if err != nil {
				return nil, err
			}
		case "if_expression":
			nested, err := d.parseIfExpression(branch)
			if err != nil {
				return nil, err
			}
			stmt := d.annotateStatement(ast.NewExpressionStatement(nested), branch)
			els = ast.NewBlockExpression([]ast.Statement{stmt}, false)
			d.annotate(els, alt)
		default:
			return nil, d.unsupported(branch, "else branch %s", branch.Kind())
		}
	}
	return d.annotateExpression(ast.NewIfExpression(condition, then, els), node), nil
}

func (d *document) parseCallExpression(node *sitter.Node) (ast.Expression, error) {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil || fnNode.Kind() != "identifier" {
		return nil, d.unsupported(node, "calls to anything but a named function")
	}
	callee, err := d.parseIdentifier(fnNode)
	if err != nil {
		return nil, err
	}
	args, err := d.parseArguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	return d.annotateExpression(ast.NewFunctionCall(callee, args), node), nil
}

func (d *document) parseArguments(node *sitter.Node) ([]ast.Expression, error) {
	args := make([]ast.Expression, 0)
	if node == nil {
		return args, nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		arg, err := d.parseExpression(child)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}
