package ast

import "fmt"

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span locates a node in its source text. Lines and columns are 1-based; the
// zero Span means the node was built without a source.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}
