package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

var compoundOperators = map[string]ast.BinaryOperator{
	"+=": ast.OpAdd,
	"-=": ast.OpSub,
	"*=": ast.OpMul,
	"/=": ast.OpDiv,
}

// parseBlock lowers `{ stmt* expr? }`. The block yields a value when it ends
// in a bare expression, or in a block-like expression statement (if, while,
// a nested block) written without a semicolon.
func (d *document) parseBlock(node *sitter.Node) (*ast.BlockExpression, error) {
	if node == nil {
		return nil, d.errorf(node, ErrSyntax, "missing block")
	}
	if node.Kind() != "block" {
		return nil, d.unsupported(node, "%s where a block was expected", node.Kind())
	}

	statements := make([]ast.Statement, 0)
	trailingSemicolon := true
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) || child.Kind() == "label" || child.Kind() == "empty_statement" {
			continue
		}
		stmt, tail, err := d.parseBlockItem(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		trailingSemicolon = !tail
	}

	block := ast.NewBlockExpression(statements, trailingSemicolon)
	d.annotate(block, node)
	return block, nil
}

// parseBlockItem reports tail when the item can supply the block's value.
func (d *document) parseBlockItem(node *sitter.Node) (ast.Statement, bool, error) {
	switch node.Kind() {
	case "expression_statement":
		stmt, err := d.parseExpressionStatement(node)
		return stmt, !hasToken(node, ";"), err
	case "let_declaration":
		stmt, err := d.parseLetDeclaration(node)
		return stmt, false, err
	case "function_item":
		fn, err := d.parseFunctionItem(node)
		return fn, false, err
	default:
		stmt, err := d.parseStatementExpression(node, node)
		return stmt, true, err
	}
}

func (d *document) parseExpressionStatement(node *sitter.Node) (ast.Statement, error) {
	exprNode := firstNamedChild(node)
	if exprNode == nil {
		return nil, d.errorf(node, ErrSyntax, "expression statement missing expression")
	}
	return d.parseStatementExpression(exprNode, node)
}

// parseStatementExpression handles the expression forms that the AST models
// as statements: assignments and while loops. Anything else becomes an
// expression statement.
func (d *document) parseStatementExpression(node, stmtNode *sitter.Node) (ast.Statement, error) {
	switch node.Kind() {
	case "assignment_expression":
		target, err := d.parseExpression(node.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		value, err := d.parseExpression(node.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return d.annotateStatement(ast.NewAssignmentStatement(target, value), stmtNode), nil
	case "compound_assignment_expr":
		opNode := node.ChildByFieldName("operator")
		op, ok := compoundOperators[sliceContent(opNode, d.text)]
		if !ok {
			return nil, d.unsupported(opNode, "operator %s", sliceContent(opNode, d.text))
		}
		target, err := d.parseExpression(node.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		// The target is evaluated twice; places have no side effects.
		current, err := d.parseExpression(node.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := d.parseExpression(node.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		value := d.annotateExpression(ast.NewBinaryExpression(op, current, right), node)
		return d.annotateStatement(ast.NewAssignmentStatement(target, value), stmtNode), nil
	case "while_expression":
		if label := node.ChildByFieldName("label"); label != nil {
			return nil, d.unsupported(label, "loop labels")
		}
		condition, err := d.parseCondition(node.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		body, err := d.parseBlock(node.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return d.annotateStatement(ast.NewWhileLoop(condition, body), stmtNode), nil
	default:
		expr, err := d.parseExpression(node)
		if err != nil {
			return nil, err
		}
		return d.annotateStatement(ast.NewExpressionStatement(expr), stmtNode), nil
	}
}

func (d *document) parseLetDeclaration(node *sitter.Node) (ast.Statement, error) {
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		return nil, d.unsupported(alt, "let-else")
	}
	mutable, name, err := d.parseBinding(node)
	if err != nil {
		return nil, err
	}
	typ, err := d.parseOptionalType(node.ChildByFieldName("type"))
	if err != nil {
		return nil, err
	}
	var value ast.Expression
	if valueNode := node.ChildByFieldName("value"); valueNode != nil {
		value, err = d.parseExpression(valueNode)
		if err != nil {
			return nil, err
		}
	}
	return d.annotateStatement(ast.NewLetStatement(mutable, name, typ, value), node), nil
}
