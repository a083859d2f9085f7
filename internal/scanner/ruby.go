package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// rubyScanner recognizes modules, classes, methods, and constant
// assignments. A reopened `class Foo::Bar` body carries the written
// qualifier as ScopePath, mirroring out-of-line C++ members.
type rubyScanner struct {
	language *sitter.Language
}

// NewRubyScanner creates the Ruby scanner.
func NewRubyScanner() Scanner {
	return &rubyScanner{language: sitter.NewLanguage(ruby.Language())}
}

func (s *rubyScanner) Language() string { return "ruby" }

func (s *rubyScanner) Separator() string { return "::" }

func (s *rubyScanner) Extensions() []string { return []string{"rb"} }

func (s *rubyScanner) Scan(src []byte) []Event {
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

func (s *rubyScanner) visit(node *sitter.Node, src []byte, inType bool, events []Event) []Event {
	switch node.Kind() {
	case "module", "class":
		kind := symbol.KindNamespace
		if node.Kind() == "class" {
			kind = symbol.KindType
		}
		name, path, nameSpan, ok := rubyConstantName(node.ChildByFieldName("name"), src)
		if !ok {
			return events
		}
		events = occurrence(events, &Occurrence{
			Kind:       kind,
			Role:       symbol.RoleDefinition,
			Name:       name,
			ScopePath:  path,
			NameSpan:   nameSpan,
			Span:       nodeRange(node),
			OpensScope: true,
		})
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() == "body_statement" {
				eachChild(child, func(stmt *sitter.Node) {
					events = s.visit(stmt, src, node.Kind() == "class", events)
				})
			}
		})
		return closeScope(events)

	case "method", "singleton_method":
		kind := symbol.KindFunction
		if inType {
			kind = symbol.KindMethod
		}
		if occ := simpleOccurrence(node, src, kind, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "assignment":
		left := node.ChildByFieldName("left")
		if left == nil || left.Kind() != "constant" {
			return events
		}
		kind := symbol.KindVariable
		if inType {
			kind = symbol.KindField
		}
		return occurrence(events, &Occurrence{
			Kind:     kind,
			Role:     symbol.RoleDefinition,
			Name:     nodeText(left, src),
			NameSpan: nodeRange(left),
			Span:     nodeRange(node),
		})
	}

	return events
}

// rubyConstantName resolves a module/class name node, decomposing a
// scope_resolution (Foo::Bar) into its qualifier path.
func rubyConstantName(node *sitter.Node, src []byte) (string, []string, symbol.Range, bool) {
	if node == nil {
		return "", nil, symbol.Range{}, false
	}
	switch node.Kind() {
	case "constant":
		return nodeText(node, src), nil, nodeRange(node), true
	case "scope_resolution":
		var path []string
		current := node
		for current.Kind() == "scope_resolution" {
			if scope := current.ChildByFieldName("scope"); scope != nil {
				path = append(path, nodeText(scope, src))
			}
			current = current.ChildByFieldName("name")
			if current == nil {
				return "", nil, symbol.Range{}, false
			}
		}
		return nodeText(current, src), path, nodeRange(current), true
	}
	return "", nil, symbol.Range{}, false
}
