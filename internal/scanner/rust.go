package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// rustScanner recognizes modules, structs/enums/traits, impl members,
// functions, and consts/statics. An impl block is not itself a symbol:
// its items are emitted with the implemented type as ScopePath, the same
// out-of-line attribution used for qualified C++ member definitions.
type rustScanner struct {
	language *sitter.Language
}

// NewRustScanner creates the Rust scanner.
func NewRustScanner() Scanner {
	return &rustScanner{language: sitter.NewLanguage(rust.Language())}
}

func (s *rustScanner) Language() string { return "rust" }

func (s *rustScanner) Separator() string { return "::" }

func (s *rustScanner) Extensions() []string { return []string{"rs"} }

func (s *rustScanner) Scan(src []byte) []Event {
	tree := parseTree(s.language, src)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var events []Event
	eachChild(tree.RootNode(), func(child *sitter.Node) {
		events = s.visit(child, src, nil, events)
	})
	return events
}

// visit walks one item. implPath is non-nil while inside an impl block
// and names the implemented type.
func (s *rustScanner) visit(node *sitter.Node, src []byte, implPath []string, events []Event) []Event {
	switch node.Kind() {
	case "mod_item":
		occ := simpleOccurrence(node, src, symbol.KindNamespace, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		if body == nil {
			// `mod foo;` forward declaration: no scope to open.
			occ.Role = symbol.RoleDeclaration
			return occurrence(events, occ)
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, nil, events)
		})
		return closeScope(events)

	case "struct_item":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		if body == nil || body.Kind() != "field_declaration_list" {
			return occurrence(events, occ)
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(body, func(child *sitter.Node) {
			if child.Kind() != "field_declaration" {
				return
			}
			if field := simpleOccurrence(child, src, symbol.KindField, symbol.RoleDefinition); field != nil {
				events = occurrence(events, field)
			}
		})
		return closeScope(events)

	case "enum_item", "union_item", "type_item":
		if occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "trait_item":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		if body == nil {
			return occurrence(events, occ)
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(body, func(child *sitter.Node) {
			switch child.Kind() {
			case "function_item", "function_signature_item":
				events = s.visitFunction(child, src, nil, events)
			}
		})
		return closeScope(events)

	case "impl_item":
		typeName := implTypeName(node, src)
		body := node.ChildByFieldName("body")
		if body == nil {
			return events
		}
		var path []string
		if typeName != "" {
			path = []string{typeName}
		}
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, path, events)
		})
		return events

	case "function_item", "function_signature_item":
		return s.visitFunction(node, src, implPath, events)

	case "const_item", "static_item":
		if occ := simpleOccurrence(node, src, symbol.KindVariable, symbol.RoleDefinition); occ != nil {
			occ.ScopePath = implPath
			events = occurrence(events, occ)
		}
		return events
	}

	return events
}

func (s *rustScanner) visitFunction(node *sitter.Node, src []byte, implPath []string, events []Event) []Event {
	role := symbol.RoleDefinition
	if node.Kind() == "function_signature_item" {
		role = symbol.RoleDeclaration
	}

	// Associated functions without a self receiver (Widget::new) stay
	// functions; only receiver-taking items are methods.
	kind := symbol.KindFunction
	if hasSelfParameter(node) {
		kind = symbol.KindMethod
	}

	occ := simpleOccurrence(node, src, kind, role)
	if occ == nil {
		return events
	}
	occ.ScopePath = implPath
	return occurrence(events, occ)
}

func implTypeName(node *sitter.Node, src []byte) string {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	switch typeNode.Kind() {
	case "type_identifier":
		return nodeText(typeNode, src)
	case "generic_type":
		if inner := typeNode.ChildByFieldName("type"); inner != nil {
			return nodeText(inner, src)
		}
	}
	return nodeText(typeNode, src)
}

func hasSelfParameter(node *sitter.Node) bool {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	return findChildByKind(params, "self_parameter") != nil
}
