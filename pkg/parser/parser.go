package parser

import (
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/parser/language"
)

var (
	ErrSyntax      = errors.New("syntax error")
	ErrUnsupported = errors.New("unsupported construct")
)

// blockWrapper turns a statement list into a function body so the grammar
// accepts it. The user text starts on the wrapper's second row.
const blockWrapper = "fn __block() {\n"

// Parser wraps a tree-sitter parser configured with the Rust grammar and
// lowers the subset this language supports into the AST.
type Parser struct {
	parser *sitter.Parser
}

// NewParser constructs a parser with the grammar loaded.
func NewParser() (*Parser, error) {
	lang := language.Rust()
	if lang == nil {
		return nil, fmt.Errorf("parser: rust language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &Parser{parser: p}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseProgram parses a source file made of function items.
func (p *Parser) ParseProgram(source []byte) (*ast.Program, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	doc := &document{parser: p.parser, text: source}
	return doc.program()
}

// ParseBlock parses a sequence of statements, optionally ending in a bare
// expression, the way they would appear inside braces. Positions refer to
// source.
func (p *Parser) ParseBlock(source []byte) (*ast.BlockExpression, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	text := make([]byte, 0, len(blockWrapper)+len(source)+2)
	text = append(text, blockWrapper...)
	text = append(text, source...)
	text = append(text, "\n}"...)
	doc := &document{parser: p.parser, text: text, rowBase: 1}
	prog, err := doc.program()
	if err != nil {
		return nil, err
	}
	if len(prog.Functions) != 1 {
		return nil, fmt.Errorf("parser: %w: input closes the enclosing block", ErrSyntax)
	}
	return prog.Functions[0].Body, nil
}

// ParseProgram is a convenience wrapper that owns a parser for one call.
func ParseProgram(source []byte) (*ast.Program, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseProgram(source)
}

func (d *document) program() (*ast.Program, error) {
	tree := d.parser.Parse(d.text, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser: %w: empty syntax tree", ErrSyntax)
	}
	if root.IsError() {
		return nil, d.syntaxError(root)
	}
	if root.Kind() != "source_file" {
		return nil, fmt.Errorf("parser: unexpected root node %s", root.Kind())
	}
	if root.HasError() {
		return nil, d.syntaxError(root)
	}

	functions := make([]*ast.FunctionDefinition, 0)
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node == nil || isIgnorableNode(node) {
			continue
		}
		if node.Kind() != "function_item" {
			return nil, d.unsupported(node, "top-level %s", node.Kind())
		}
		fn, err := d.parseFunctionItem(node)
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}

	prog := ast.NewProgram(functions)
	d.annotate(prog, root)
	return prog, nil
}

// syntaxError reports the first error or missing node below root.
func (d *document) syntaxError(root *sitter.Node) error {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}
	if node.IsMissing() {
		return d.errorf(node, ErrSyntax, "missing %s", node.Kind())
	}
	text := sliceContent(node, d.text)
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	return d.errorf(node, ErrSyntax, "unexpected %q", text)
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil || !node.HasError() && !node.IsMissing() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// ParseBlockSource is ParseBlock with a parser owned for one call.
func ParseBlockSource(source []byte) (*ast.BlockExpression, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseBlock(source)
}
