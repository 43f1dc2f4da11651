package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
)

func (d *document) parseIdentifier(node *sitter.Node) (*ast.Identifier, error) {
	if node == nil {
		return nil, d.errorf(node, ErrSyntax, "expected identifier")
	}
	if node.Kind() != "identifier" {
		return nil, d.unsupported(node, "%s where an identifier was expected", node.Kind())
	}
	id := ast.NewIdentifier(sliceContent(node, d.text))
	d.annotate(id, node)
	return id, nil
}

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			return child
		}
	}
	return nil
}

// hasToken reports whether node has a direct child of the given kind, named
// or not.
func hasToken(node *sitter.Node, kind string) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "line_comment", "block_comment", "attribute_item", "inner_attribute_item":
		return true
	default:
		return false
	}
}
