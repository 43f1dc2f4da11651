package parser

import (
	"math"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

var otherIntegerSuffixes = []string{"i8", "i16", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize"}

// parseIntegerLiteral reads an i32 literal. negate applies a leading minus
// before the range check.
func (d *document) parseIntegerLiteral(node *sitter.Node, negate bool) (ast.Expression, error) {
	raw := sliceContent(node, d.text)
	text := strings.ReplaceAll(raw, "_", "")
	text = strings.TrimSuffix(text, "i32")
	for _, suffix := range otherIntegerSuffixes {
		if strings.HasSuffix(text, suffix) {
			return nil, d.unsupported(node, "integer literal %s", raw)
		}
	}
	base := 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0b"):
		base = 0
	}
	value, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, d.errorf(node, ErrSyntax, "invalid integer literal %s", raw)
	}
	if negate {
		value = -value
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return nil, d.errorf(node, ErrSyntax, "integer literal %s out of range for i32", raw)
	}
	return d.annotateExpression(ast.NewLiteralExpression(ast.IntLiteral(int32(value))), node), nil
}

func (d *document) parseBooleanLiteral(node *sitter.Node) (ast.Expression, error) {
	switch text := sliceContent(node, d.text); text {
	case "true":
		return d.annotateExpression(ast.NewLiteralExpression(ast.BoolLiteral(true)), node), nil
	case "false":
		return d.annotateExpression(ast.NewLiteralExpression(ast.BoolLiteral(false)), node), nil
	default:
		return nil, d.errorf(node, ErrSyntax, "invalid boolean literal %s", text)
	}
}

func (d *document) parseStringLiteral(node *sitter.Node) (ast.Expression, error) {
	raw := sliceContent(node, d.text)
	value, err := strconv.Unquote(raw)
	if err != nil {
		return nil, d.unsupported(node, "string literal %s", raw)
	}
	return d.annotateExpression(ast.NewLiteralExpression(ast.StringLiteral(value)), node), nil
}
