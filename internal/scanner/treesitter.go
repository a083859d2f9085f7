package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// parseTree parses source with the given grammar. A nil tree means the
// parser could make no progress at all; callers treat that as an empty
// event stream, never as a failure.
func parseTree(language *sitter.Language, src []byte) *sitter.Tree {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(language)
	return parser.Parse(src, nil)
}

// nodeText extracts the text content of a node.
func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

// nodeRange converts a node's 0-based tree-sitter positions into a
// 1-based Range. The end column is exclusive.
func nodeRange(node *sitter.Node) symbol.Range {
	start := node.StartPosition()
	end := node.EndPosition()
	return symbol.Range{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

// findChildByKind returns the first direct child with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// eachChild invokes fn for every direct child in document order.
func eachChild(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		fn(node.Child(i))
	}
}

// simpleOccurrence builds an occurrence for a node whose name lives in a
// direct "name" field child.
func simpleOccurrence(node *sitter.Node, src []byte, kind symbol.Kind, role symbol.Role) *Occurrence {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &Occurrence{
		Kind:     kind,
		Role:     role,
		Name:     nodeText(nameNode, src),
		NameSpan: nodeRange(nameNode),
		Span:     nodeRange(node),
	}
}
