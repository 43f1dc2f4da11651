package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/runtime"
)

const macroWrapper = "fn __macro() {\n"

// parseMacroInvocation lowers `print!(...)` and `println!(...)` to calls of
// the matching built-in. The grammar leaves macro arguments as an opaque
// token tree, so the invocation is re-parsed as a call expression in a
// document of its own whose positions map back onto this one.
func (d *document) parseMacroInvocation(node *sitter.Node) (ast.Expression, error) {
	macroNode := node.ChildByFieldName("macro")
	if macroNode == nil || macroNode.Kind() != "identifier" {
		return nil, d.unsupported(node, "macro %s", sliceContent(macroNode, d.text))
	}
	name := sliceContent(macroNode, d.text)
	if !runtime.IsBuiltin(name) {
		return nil, d.unsupported(macroNode, "macro %s!", name)
	}
	var args *sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "token_tree" {
			args = child
		}
	}
	if args == nil {
		return nil, d.errorf(node, ErrSyntax, "macro %s! without arguments", name)
	}
	argText := sliceContent(args, d.text)
	if len(argText) < 2 || argText[0] != '(' {
		return nil, d.unsupported(args, "%s! without parentheses", name)
	}

	text := make([]byte, 0, len(macroWrapper)+len(name)+len(argText)+4)
	text = append(text, macroWrapper...)
	text = append(text, name...)
	text = append(text, argText...)
	text = append(text, "\n}"...)
	sub := &document{
		parser:  d.parser,
		text:    text,
		parent:  d,
		origin:  args.StartPosition(),
		rowBase: 1,
		colBase: uint(len(name)),
	}
	prog, err := sub.program()
	if err != nil {
		return nil, err
	}
	tail, ok := prog.Functions[0].Body.Tail()
	if !ok {
		return nil, d.errorf(node, ErrSyntax, "malformed %s! arguments", name)
	}
	call, ok := tail.(*ast.FunctionCall)
	if !ok {
		return nil, d.errorf(node, ErrSyntax, "malformed %s! arguments", name)
	}
	return d.annotateExpression(call, node), nil
}
