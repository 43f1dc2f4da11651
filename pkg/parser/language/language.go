package language

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Rust returns the tree-sitter grammar the parser is built on.
func Rust() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_rust.Language())
}
