package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// pythonScanner recognizes classes, functions, methods, and simple
// assignments. Classes open scopes; functions nested inside classes
// become methods, and class-body assignments become fields.
type pythonScanner struct {
	language *sitter.Language
}

// NewPythonScanner creates the Python scanner.
func NewPythonScanner() Scanner {
	return &pythonScanner{language: sitter.NewLanguage(python.Language())}
}

func (s *pythonScanner) Language() string { return "python" }

func (s *pythonScanner) Separator() string { return "." }

func (s *pythonScanner) Extensions() []string { return []string{"py"} }

func (s *pythonScanner) Scan(src []byte) []Event {
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

func (s *pythonScanner) visit(node *sitter.Node, src []byte, inClass bool, events []Event) []Event {
	switch node.Kind() {
	case "class_definition":
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
		kind := symbol.KindFunction
		if inClass {
			kind = symbol.KindMethod
		}
		if occ := simpleOccurrence(node, src, kind, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			return s.visit(def, src, inClass, events)
		}
		return events

	case "expression_statement":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() != "assignment" {
				return
			}
			left := child.ChildByFieldName("left")
			if left == nil || left.Kind() != "identifier" {
				return
			}
			kind := symbol.KindVariable
			if inClass {
				kind = symbol.KindField
			}
			events = occurrence(events, &Occurrence{
				Kind:     kind,
				Role:     symbol.RoleDefinition,
				Name:     nodeText(left, src),
				NameSpan: nodeRange(left),
				Span:     nodeRange(node),
			})
		})
		return events

	case "if_statement", "try_statement", "with_statement":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() == "block" {
				eachChild(child, func(stmt *sitter.Node) {
					events = s.visit(stmt, src, inClass, events)
				})
			}
		})
		return events
	}

	return events
}
