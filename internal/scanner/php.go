package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// phpScanner recognizes namespaces, classes/interfaces/traits/enums,
// functions, methods, properties, and constants. A namespace statement
// without braces scopes the remainder of the file; its open event is
// never matched by a close, which the normalizer treats as running to
// end of file.
type phpScanner struct {
	language *sitter.Language
}

// NewPHPScanner creates the PHP scanner.
func NewPHPScanner() Scanner {
	return &phpScanner{language: sitter.NewLanguage(php.LanguagePHP())}
}

func (s *phpScanner) Language() string { return "php" }

func (s *phpScanner) Separator() string { return "\\" }

func (s *phpScanner) Extensions() []string { return []string{"php"} }

func (s *phpScanner) Scan(src []byte) []Event {
	tree := parseTree(s.language, src)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var events []Event
	eachChild(tree.RootNode(), func(child *sitter.Node) {
		events = s.visit(child, src, false, events)
	})
	return events
}

func (s *phpScanner) visit(node *sitter.Node, src []byte, inType bool, events []Event) []Event {
	switch node.Kind() {
	case "php_tag", "text_interpolation":
		return events

	case "namespace_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		events = occurrence(events, &Occurrence{
			Kind:       symbol.KindNamespace,
			Role:       symbol.RoleDefinition,
			Name:       nodeText(nameNode, src),
			NameSpan:   nodeRange(nameNode),
			Span:       nodeRange(node),
			OpensScope: true,
		})
		if body == nil {
			// Unbraced form: the scope stays open for the rest of the file.
			return events
		}
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, false, events)
		})
		return closeScope(events)

	case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(node.ChildByFieldName("body"), func(child *sitter.Node) {
			events = s.visit(child, src, true, events)
		})
		return closeScope(events)

	case "function_definition":
		if occ := simpleOccurrence(node, src, symbol.KindFunction, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "method_declaration":
		role := symbol.RoleDefinition
		if node.ChildByFieldName("body") == nil {
			// Abstract and interface methods.
			role = symbol.RoleDeclaration
		}
		if occ := simpleOccurrence(node, src, symbol.KindMethod, role); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "property_declaration":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() != "property_element" {
				return
			}
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				nameNode = findChildByKind(child, "variable_name")
			}
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

	case "const_declaration":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() != "const_element" {
				return
			}
			nameNode := child.Child(0)
			if nameNode == nil || nameNode.Kind() != "name" {
				return
			}
			kind := symbol.KindVariable
			if inType {
				kind = symbol.KindField
			}
			events = occurrence(events, &Occurrence{
				Kind:     kind,
				Role:     symbol.RoleDefinition,
				Name:     nodeText(nameNode, src),
				NameSpan: nodeRange(nameNode),
				Span:     nodeRange(node),
			})
		})
		return events

	case "expression_statement":
		// Top-level assignments to plain variables are not indexed; PHP
		// globals are rarely useful search targets.
		return events
	}

	return events
}
