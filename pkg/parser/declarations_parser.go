package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

func (d *document) parseFunctionItem(node *sitter.Node) (*ast.FunctionDefinition, error) {
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		return nil, d.unsupported(tp, "generic parameters")
	}
	name, err := d.parseIdentifier(node.ChildByFieldName("name"))
	if err != nil {
		return nil, err
	}
	params, err := d.parseParameters(node.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	ret, err := d.parseOptionalType(node.ChildByFieldName("return_type"))
	if err != nil {
		return nil, err
	}
	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return nil, d.unsupported(node, "function '%s' without a body", name.Name)
	}
	body, err := d.parseBlock(bodyNode)
	if err != nil {
		return nil, err
	}
	fn := ast.NewFunctionDefinition(name, params, ret, body)
	d.annotate(fn, node)
	return fn, nil
}

func (d *document) parseParameters(node *sitter.Node) ([]*ast.FunctionParameter, error) {
	params := make([]*ast.FunctionParameter, 0)
	if node == nil {
		return params, nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		if child.Kind() != "parameter" {
			return nil, d.unsupported(child, "parameter %s", child.Kind())
		}
		param, err := d.parseParameter(child)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

func (d *document) parseParameter(node *sitter.Node) (*ast.FunctionParameter, error) {
	mutable, name, err := d.parseBinding(node)
	if err != nil {
		return nil, err
	}
	typ, err := d.parseType(node.ChildByFieldName("type"))
	if err != nil {
		return nil, err
	}
	param := ast.NewFunctionParameter(mutable, name, typ)
	d.annotate(param, node)
	return param, nil
}

// parseBinding reads the `mut? name` part shared by let declarations and
// parameters. The grammar puts mut either beside the pattern or inside a
// mut_pattern.
func (d *document) parseBinding(node *sitter.Node) (bool, *ast.Identifier, error) {
	mutable := false
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "mutable_specifier" {
			mutable = true
		}
	}
	pattern := node.ChildByFieldName("pattern")
	if pattern != nil && pattern.Kind() == "mut_pattern" {
		mutable = true
		for i := uint(0); i < pattern.NamedChildCount(); i++ {
			if child := pattern.NamedChild(i); child != nil && child.Kind() != "mutable_specifier" {
				pattern = child
				break
			}
		}
	}
	if pattern == nil {
		return false, nil, d.errorf(node, ErrSyntax, "missing binding name")
	}
	name, err := d.parseIdentifier(pattern)
	if err != nil {
		return false, nil, err
	}
	return mutable, name, nil
}
