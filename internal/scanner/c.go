package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// cScanner recognizes structs, unions, enums, typedefs, functions, and
// file-scope variables in C source. C has no namespaces or member
// functions; nothing opens a scope.
type cScanner struct {
	language *sitter.Language
}

// NewCScanner creates the C scanner.
func NewCScanner() Scanner {
	return &cScanner{language: sitter.NewLanguage(c.Language())}
}

func (s *cScanner) Language() string { return "c" }

func (s *cScanner) Separator() string { return "::" }

func (s *cScanner) Extensions() []string { return []string{"c"} }

func (s *cScanner) Scan(src []byte) []Event {
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

func (s *cScanner) visit(node *sitter.Node, src []byte, events []Event) []Event {
	switch node.Kind() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return events
		}
		role := symbol.RoleDefinition
		if node.ChildByFieldName("body") == nil {
			role = symbol.RoleDeclaration
		}
		return occurrence(events, &Occurrence{
			Kind:     symbol.KindType,
			Role:     role,
			Name:     nodeText(nameNode, src),
			NameSpan: nodeRange(nameNode),
			Span:     nodeRange(node),
		})

	case "type_definition":
		if declarator := node.ChildByFieldName("declarator"); declarator != nil {
			if name, _, span, ok := declaratorName(declarator, src); ok {
				events = occurrence(events, &Occurrence{
					Kind:     symbol.KindType,
					Role:     symbol.RoleDefinition,
					Name:     name,
					NameSpan: span,
					Span:     nodeRange(node),
				})
			}
		}
		// The underlying struct/union/enum may carry its own tag.
		eachChild(node, func(child *sitter.Node) {
			switch child.Kind() {
			case "struct_specifier", "union_specifier", "enum_specifier":
				events = s.visit(child, src, events)
			}
		})
		return events

	case "function_definition":
		name, _, nameSpan, ok := declaratorName(node.ChildByFieldName("declarator"), src)
		if !ok {
			return events
		}
		return occurrence(events, &Occurrence{
			Kind:     symbol.KindFunction,
			Role:     symbol.RoleDefinition,
			Name:     name,
			NameSpan: nameSpan,
			Span:     nodeRange(node),
		})

	case "declaration":
		// Inline struct/union/enum definitions ride along as the
		// declaration's type specifier. Bodyless uses (struct tm t;) are
		// references, not declarations, and stay out of the index.
		eachChild(node, func(child *sitter.Node) {
			switch child.Kind() {
			case "struct_specifier", "union_specifier", "enum_specifier":
				if child.ChildByFieldName("body") != nil {
					events = s.visit(child, src, events)
				}
			}
		})
		if hasFunctionDeclarator(node) {
			name, _, nameSpan, ok := declaratorName(node.ChildByFieldName("declarator"), src)
			if !ok {
				return events
			}
			return occurrence(events, &Occurrence{
				Kind:     symbol.KindFunction,
				Role:     symbol.RoleDeclaration,
				Name:     name,
				NameSpan: nameSpan,
				Span:     nodeRange(node),
			})
		}
		eachChild(node, func(child *sitter.Node) {
			switch child.Kind() {
			case "init_declarator", "identifier", "array_declarator", "pointer_declarator":
				if name, _, span, ok := declaratorName(child, src); ok {
					events = occurrence(events, &Occurrence{
						Kind:     symbol.KindVariable,
						Role:     symbol.RoleDefinition,
						Name:     name,
						NameSpan: span,
						Span:     nodeRange(node),
					})
				}
			}
		})
		return events

	case "preproc_ifdef", "preproc_if", "preproc_else":
		eachChild(node, func(child *sitter.Node) {
			events = s.visit(child, src, events)
		})
		return events
	}

	return events
}
