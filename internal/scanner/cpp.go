package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// cppScanner recognizes namespaces, classes/structs, enums, functions,
// methods, fields, and file-scope variables in C++ source. Out-of-line
// member definitions (void Greeter::greet() { ... }) carry the written
// qualifier as ScopePath so the normalizer can attribute them to their
// declaring type instead of the lexical scope.
type cppScanner struct {
	language *sitter.Language
}

// NewCppScanner creates the C++ scanner.
func NewCppScanner() Scanner {
	return &cppScanner{language: sitter.NewLanguage(cpp.Language())}
}

func (s *cppScanner) Language() string { return "cpp" }

func (s *cppScanner) Separator() string { return "::" }

func (s *cppScanner) Extensions() []string {
	return []string{"cpp", "cc", "cxx", "hpp", "hh", "hxx", "h"}
}

func (s *cppScanner) Scan(src []byte) []Event {
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

// visit emits events for one node and its relevant children. inType is
// true while walking a class/struct body, where function definitions and
// declarations become methods and data members become fields.
func (s *cppScanner) visit(node *sitter.Node, src []byte, inType bool, events []Event) []Event {
	switch node.Kind() {
	case "namespace_definition":
		nameNode := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		if nameNode == nil || nameNode.Kind() != "namespace_identifier" {
			// Anonymous or nested-qualifier namespaces contribute no scope
			// name; still walk the body for its contents.
			eachChild(body, func(child *sitter.Node) {
				events = s.visit(child, src, false, events)
			})
			return events
		}
		events = occurrence(events, &Occurrence{
			Kind:       symbol.KindNamespace,
			Role:       symbol.RoleDefinition,
			Name:       nodeText(nameNode, src),
			NameSpan:   nodeRange(nameNode),
			Span:       nodeRange(node),
			OpensScope: true,
		})
		eachChild(body, func(child *sitter.Node) {
			events = s.visit(child, src, false, events)
		})
		return closeScope(events)

	case "class_specifier", "struct_specifier", "union_specifier":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return events
		}
		body := node.ChildByFieldName("body")
		role := symbol.RoleDefinition
		if body == nil {
			role = symbol.RoleDeclaration
		}
		occ := &Occurrence{
			Kind:       symbol.KindType,
			Role:       role,
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
			events = s.visit(child, src, true, events)
		})
		return closeScope(events)

	case "enum_specifier":
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

	case "function_definition":
		return s.visitFunction(node, src, inType, symbol.RoleDefinition, events)

	case "declaration":
		// Forward declarations and inline type definitions ride inside
		// the declaration node as its type specifier. A bodyless
		// specifier next to a declarator (struct tm t;) is a reference,
		// not a declaration.
		hasDeclarator := node.ChildByFieldName("declarator") != nil
		eachChild(node, func(child *sitter.Node) {
			switch child.Kind() {
			case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
				if child.ChildByFieldName("body") != nil || !hasDeclarator {
					events = s.visit(child, src, inType, events)
				}
			}
		})
		if hasFunctionDeclarator(node) {
			return s.visitFunction(node, src, inType, symbol.RoleDeclaration, events)
		}
		if inType {
			return events
		}
		return s.visitVariable(node, src, events)

	case "field_declaration":
		if hasFunctionDeclarator(node) {
			return s.visitFunction(node, src, true, symbol.RoleDeclaration, events)
		}
		return s.visitField(node, src, events)

	case "template_declaration", "linkage_specification", "preproc_ifdef", "preproc_if", "preproc_else":
		eachChild(node, func(child *sitter.Node) {
			events = s.visit(child, src, inType, events)
		})
		return events
	}

	return events
}

func (s *cppScanner) visitFunction(node *sitter.Node, src []byte, inType bool, role symbol.Role, events []Event) []Event {
	declarator := node.ChildByFieldName("declarator")
	name, path, nameSpan, ok := declaratorName(declarator, src)
	if !ok {
		return events
	}

	kind := symbol.KindFunction
	if inType || len(path) > 0 {
		// Lexically inside a class, or written with a member qualifier:
		// either way this names a member function.
		kind = symbol.KindMethod
	}

	return occurrence(events, &Occurrence{
		Kind:      kind,
		Role:      role,
		Name:      name,
		ScopePath: path,
		NameSpan:  nameSpan,
		Span:      nodeRange(node),
	})
}

func (s *cppScanner) visitField(node *sitter.Node, src []byte, events []Event) []Event {
	declarator := node.ChildByFieldName("declarator")
	name, _, nameSpan, ok := declaratorName(declarator, src)
	if !ok {
		return events
	}
	return occurrence(events, &Occurrence{
		Kind:     symbol.KindField,
		Role:     symbol.RoleDefinition,
		Name:     name,
		NameSpan: nameSpan,
		Span:     nodeRange(node),
	})
}

func (s *cppScanner) visitVariable(node *sitter.Node, src []byte, events []Event) []Event {
	eachChild(node, func(child *sitter.Node) {
		switch child.Kind() {
		case "init_declarator", "identifier", "array_declarator", "pointer_declarator":
			name, _, nameSpan, ok := declaratorName(child, src)
			if !ok {
				return
			}
			events = occurrence(events, &Occurrence{
				Kind:     symbol.KindVariable,
				Role:     symbol.RoleDefinition,
				Name:     name,
				NameSpan: nameSpan,
				Span:     nodeRange(node),
			})
		}
	})
	return events
}

// hasFunctionDeclarator reports whether the declaration declares a
// function, searching through pointer/reference wrappers.
func hasFunctionDeclarator(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_declarator":
			return true
		case "pointer_declarator", "reference_declarator", "init_declarator":
			if hasFunctionDeclarator(child) {
				return true
			}
		}
	}
	return false
}

// declaratorName digs through declarator wrappers to the declared
// identifier, decomposing a qualified_identifier into its scope path.
func declaratorName(node *sitter.Node, src []byte) (string, []string, symbol.Range, bool) {
	if node == nil {
		return "", nil, symbol.Range{}, false
	}

	switch node.Kind() {
	case "identifier", "field_identifier", "type_identifier", "destructor_name", "operator_name":
		return nodeText(node, src), nil, nodeRange(node), true

	case "qualified_identifier":
		var path []string
		current := node
		for current.Kind() == "qualified_identifier" {
			if scope := current.ChildByFieldName("scope"); scope != nil {
				path = append(path, nodeText(scope, src))
			}
			current = current.ChildByFieldName("name")
			if current == nil {
				return "", nil, symbol.Range{}, false
			}
		}
		name, _, span, ok := declaratorName(current, src)
		return name, path, span, ok

	case "function_declarator", "pointer_declarator", "reference_declarator",
		"array_declarator", "init_declarator", "parenthesized_declarator":
		if inner := node.ChildByFieldName("declarator"); inner != nil {
			return declaratorName(inner, src)
		}
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if name, path, span, ok := declaratorName(node.Child(i), src); ok {
			return name, path, span, ok
		}
	}
	return "", nil, symbol.Range{}, false
}
