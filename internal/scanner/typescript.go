package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// typeScriptScanner recognizes classes, interfaces, enums, type aliases,
// namespaces, functions, methods, and top-level variable bindings. Plain
// JavaScript files parse with the same grammar; the TypeScript-only
// constructs simply never appear in them.
type typeScriptScanner struct {
	language *sitter.Language
}

// NewTypeScriptScanner creates the TypeScript scanner.
func NewTypeScriptScanner() Scanner {
	return &typeScriptScanner{language: sitter.NewLanguage(typescript.LanguageTypescript())}
}

func (s *typeScriptScanner) Language() string { return "typescript" }

func (s *typeScriptScanner) Separator() string { return "." }

func (s *typeScriptScanner) Extensions() []string {
	return []string{"ts", "tsx", "js", "jsx", "mjs"}
}

func (s *typeScriptScanner) Scan(src []byte) []Event {
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

func (s *typeScriptScanner) visit(node *sitter.Node, src []byte, events []Event) []Event {
	switch node.Kind() {
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			return s.visit(decl, src, events)
		}
		return events

	case "class_declaration", "abstract_class_declaration":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition)
		if occ == nil {
			return events
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(node.ChildByFieldName("body"), func(child *sitter.Node) {
			events = s.visitClassMember(child, src, events)
		})
		return closeScope(events)

	case "interface_declaration":
		occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDeclaration)
		if occ == nil {
			return events
		}
		occ.OpensScope = true
		events = occurrence(events, occ)
		eachChild(node.ChildByFieldName("body"), func(child *sitter.Node) {
			switch child.Kind() {
			case "method_signature":
				if m := simpleOccurrence(child, src, symbol.KindMethod, symbol.RoleDeclaration); m != nil {
					events = occurrence(events, m)
				}
			case "property_signature":
				if p := simpleOccurrence(child, src, symbol.KindField, symbol.RoleDeclaration); p != nil {
					events = occurrence(events, p)
				}
			}
		})
		return closeScope(events)

	case "enum_declaration", "type_alias_declaration":
		if occ := simpleOccurrence(node, src, symbol.KindType, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "internal_module", "module":
		// namespace Foo { ... } and declare module blocks.
		nameNode := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		if nameNode == nil || nameNode.Kind() == "string" {
			return events
		}
		occ := &Occurrence{
			Kind:       symbol.KindNamespace,
			Role:       symbol.RoleDefinition,
			Name:       nodeText(nameNode, src),
			NameSpan:   nodeRange(nameNode),
			Span:       nodeRange(node),
			OpensScope: body != nil,
		}
		events = occurrence(events, occ)
		if body == nil {
			return events
		}
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, events)
		})
		return closeScope(events)

	case "function_declaration", "generator_function_declaration":
		if occ := simpleOccurrence(node, src, symbol.KindFunction, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "function_signature":
		if occ := simpleOccurrence(node, src, symbol.KindFunction, symbol.RoleDeclaration); occ != nil {
			events = occurrence(events, occ)
		}
		return events

	case "lexical_declaration", "variable_declaration":
		eachChild(node, func(child *sitter.Node) {
			if child.Kind() != "variable_declarator" {
				return
			}
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil || nameNode.Kind() != "identifier" {
				return
			}
			kind := symbol.KindVariable
			// const f = () => {} and const f = function() {} name functions.
			if value := child.ChildByFieldName("value"); value != nil {
				switch value.Kind() {
				case "arrow_function", "function_expression", "generator_function":
					kind = symbol.KindFunction
				}
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

	case "ambient_declaration":
		eachChild(node, func(child *sitter.Node) {
			events = s.visit(child, src, events)
		})
		return events
	}

	return events
}

func (s *typeScriptScanner) visitClassMember(node *sitter.Node, src []byte, events []Event) []Event {
	switch node.Kind() {
	case "method_definition":
		if occ := simpleOccurrence(node, src, symbol.KindMethod, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
	case "public_field_definition", "property_signature":
		if occ := simpleOccurrence(node, src, symbol.KindField, symbol.RoleDefinition); occ != nil {
			events = occurrence(events, occ)
		}
	case "method_signature", "abstract_method_signature":
		if occ := simpleOccurrence(node, src, symbol.KindMethod, symbol.RoleDeclaration); occ != nil {
			events = occurrence(events, occ)
		}
	}
	return events
}
