package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

// document is one parsed text. Text that was synthesised around a slice of
// another document (a wrapped block, a macro body) maps its positions back
// through parent: row rowBase, column colBase of text sits at origin.
type document struct {
	parser *sitter.Parser
	text   []byte

	parent  *document
	origin  sitter.Point
	rowBase uint
	colBase uint
}

func (d *document) position(p sitter.Point) ast.Position {
	row := int(d.origin.Row) + int(p.Row) - int(d.rowBase)
	col := int(p.Column)
	if p.Row <= d.rowBase {
		col = int(d.origin.Column) + int(p.Column) - int(d.colBase)
	}
	if row < int(d.origin.Row) {
		row = int(d.origin.Row)
	}
	if col < 0 {
		col = 0
	}
	if d.parent != nil {
		return d.parent.position(sitter.Point{Row: uint(row), Column: uint(col)})
	}
	return ast.Position{Line: row + 1, Column: col + 1}
}

func (d *document) span(node *sitter.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	return ast.Span{
		Start: d.position(node.StartPosition()),
		End:   d.position(node.EndPosition()),
	}
}

func (d *document) annotate(node ast.Node, tsNode *sitter.Node) {
	if node == nil || tsNode == nil {
		return
	}
	ast.SetSpan(node, d.span(tsNode))
}

func (d *document) annotateStatement(stmt ast.Statement, tsNode *sitter.Node) ast.Statement {
	d.annotate(stmt, tsNode)
	return stmt
}

func (d *document) annotateExpression(expr ast.Expression, tsNode *sitter.Node) ast.Expression {
	d.annotate(expr, tsNode)
	return expr
}

func (d *document) errorf(node *sitter.Node, kind error, format string, args ...any) error {
	pos := d.span(node).Start
	return fmt.Errorf("parser: %d:%d: %w: %s", pos.Line, pos.Column, kind, fmt.Sprintf(format, args...))
}

func (d *document) unsupported(node *sitter.Node, format string, args ...any) error {
	return d.errorf(node, ErrUnsupported, format, args...)
}
