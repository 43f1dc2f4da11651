package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

func (d *document) parseType(node *sitter.Node) (ast.Type, error) {
	if node == nil {
		return ast.Type{}, d.errorf(node, ErrSyntax, "missing type")
	}
	switch node.Kind() {
	case "primitive_type", "type_identifier":
		name := sliceContent(node, d.text)
		typ, ok := ast.ParseType(name)
		if !ok {
			return ast.Type{}, d.unsupported(node, "type %s", name)
		}
		return typ, nil
	case "unit_type":
		return ast.UnitType(), nil
	case "reference_type":
		elem, err := d.parseType(node.ChildByFieldName("type"))
		if err != nil {
			return ast.Type{}, err
		}
		return ast.RefType(elem), nil
	default:
		return ast.Type{}, d.unsupported(node, "type %s", node.Kind())
	}
}

func (d *document) parseOptionalType(node *sitter.Node) (*ast.Type, error) {
	if node == nil {
		return nil, nil
	}
	typ, err := d.parseType(node)
	if err != nil {
		return nil, err
	}
	return &typ, nil
}
