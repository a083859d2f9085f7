// Package normalize turns raw scanner event streams into validated,
// fully qualified symbol records.
//
// The normalizer maintains a scope stack driven by the stream's
// open/close events. An occurrence's qualified name is the stack's
// names plus the occurrence's own qualifier path plus its identifier,
// joined by the language separator. The stack depends only on the
// events, so the same stream always yields the same symbols.
package normalize

import (
	"strings"

	"github.com/mvp-joe/symgrep/internal/scanner"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

type frame struct {
	// name is the frame's contribution to qualified names. For scopes
	// opened with their own qualifier written inline (class Foo::Bar) it
	// is the already joined qualifier plus name.
	name string

	// index is the position of the scope-opening symbol within the
	// file's output slice, used for Scope back-references.
	index int
}

// File converts one file's event stream into symbols. Symbol Scope
// fields are indexes into the returned slice (the position of the
// enclosing scope's symbol), or symbol.NoScope at file scope. Symbol
// IDs are assigned later, at ingest.
//
// A close event with no open scope discards the whole stack: the
// stream lost its nesting (typically from unbalanced delimiters in the
// source) and file scope is the only safe attribution for what
// follows.
func File(path, language, separator string, events []scanner.Event) []*symbol.Symbol {
	var (
		out   []*symbol.Symbol
		stack []frame
	)

	for _, ev := range events {
		if ev.Close {
			if len(stack) == 0 {
				stack = stack[:0]
				continue
			}
			stack = stack[:len(stack)-1]
			continue
		}

		occ := ev.Occ
		if occ == nil {
			continue
		}
		if occ.Name == "" {
			// A dropped opener still nests: push a frame so its matching
			// close pops it and not the enclosing scope.
			if occ.OpensScope {
				stack = append(stack, frame{name: "", index: inheritIndex(stack)})
			}
			continue
		}

		parts := make([]string, 0, len(stack)+len(occ.ScopePath)+1)
		for _, f := range stack {
			if f.name != "" {
				parts = append(parts, f.name)
			}
		}
		parts = append(parts, occ.ScopePath...)
		parts = append(parts, occ.Name)

		scope := symbol.NoScope
		if len(stack) > 0 {
			scope = stack[len(stack)-1].index
		}

		sym := &symbol.Symbol{
			Name:          occ.Name,
			QualifiedName: strings.Join(parts, separator),
			Kind:          occ.Kind,
			Role:          occ.Role,
			Language:      language,
			Path:          path,
			Span:          occ.Span,
			Scope:         scope,
		}
		if err := sym.Validate(); err != nil {
			if occ.OpensScope {
				stack = append(stack, frame{name: frameName(occ, separator), index: inheritIndex(stack)})
			}
			continue
		}

		if occ.OpensScope {
			stack = append(stack, frame{name: frameName(occ, separator), index: len(out)})
		}
		out = append(out, sym)
	}

	return out
}

func frameName(occ *scanner.Occurrence, separator string) string {
	if len(occ.ScopePath) == 0 {
		return occ.Name
	}
	return strings.Join(append(append([]string{}, occ.ScopePath...), occ.Name), separator)
}

// inheritIndex resolves the back-reference for a frame whose own record
// was dropped: members fall through to the nearest surviving scope.
func inheritIndex(stack []frame) int {
	if len(stack) == 0 {
		return symbol.NoScope
	}
	return stack[len(stack)-1].index
}
