package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// javaScanner recognizes classes, interfaces, enums, records, methods,
// constructors, and fields. Type declarations open scopes; nested types
// qualify their members through the ordinary scope stack.
type javaScanner struct {
	language *sitter.Language
}

// NewJavaScanner creates the Java scanner.
func NewJavaScanner() Scanner {
	return &javaScanner{language: sitter.NewLanguage(java.Language())}
}

func (s *javaScanner) Language() string { return "java" }

func (s *javaScanner) Separator() string { return "." }

func (s *javaScanner) Extensions() []string { return []string{"java"} }

func (s *javaScanner) Scan(src []byte) []Event {
	tree := parseTree(s.language, src)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var events []Event
	eachChild(tree.RootNode(), func(child *sitter.Node) {
		events = s.visit(child, src, events)
	})
	return events
}

func (s *javaScanner) visit(node *sitter.Node, src []byte, events []Event) []Event {
	switch node.Kind() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		occ.OpensScope = body != nil
		events = occurrence(events, occ)
		if body == nil {
			return events
		}
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, events)
		})
		return closeScope(events)

	case "method_declaration", "constructor_declaration":
		role := symbol.RoleDefinition
		if findChildByKind(node, "block") == nil && node.ChildByFieldName("body") == nil {
			// Abstract and interface methods carry no body.
			role = symbol.RoleDeclaration
		}
		if occ := simpleOccurrence(node, src, symbol.KindMethod, role); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "field_declaration", "constant_declaration":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() != "variable_declarator" {
				return
			}
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			events = occurrence(events, &Occurrence{
				Kind:     symbol.KindField,
				Role:     symbol.RoleDefinition,
				Name:     nodeText(nameNode, src),
				NameSpan: nodeRange(nameNode),
				Span:     nodeRange(node),
			})
		})
		return events
	}

	return events
}
