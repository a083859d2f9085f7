// Package symbol defines the normalized symbol records produced by scanning
// and consumed by the index and query layers.
package symbol

import (
	"fmt"
	"strings"
)

// Kind classifies a named program entity.
type Kind string

const (
	KindNamespace Kind = "namespace"
	KindType      Kind = "type"
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindField     Kind = "field"
	KindVariable  Kind = "variable"
)

// Kinds lists every valid kind, in a stable order.
var Kinds = []Kind{KindNamespace, KindType, KindFunction, KindMethod, KindField, KindVariable}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown symbol kind %q", s)
}

// IsScope reports whether symbols of this kind introduce a naming scope.
func (k Kind) IsScope() bool {
	return k == KindNamespace || k == KindType
}

// Role distinguishes a declaration from a definition of the same entity.
// A prototype and its out-of-line body are kept as two records sharing a
// qualified name; the index groups them, it never merges them.
type Role string

const (
	RoleDeclaration Role = "declaration"
	RoleDefinition  Role = "definition"
)

// Range is a source span with 1-based inclusive start and end positions.
type Range struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

// Valid reports whether the end position is not before the start position.
func (r Range) Valid() bool {
	if r.StartLine < 1 || r.StartColumn < 1 {
		return false
	}
	if r.EndLine < r.StartLine {
		return false
	}
	return r.EndLine != r.StartLine || r.EndColumn >= r.StartColumn
}

// NoScope marks a symbol with no enclosing namespace or type.
const NoScope = -1

// Symbol is the unit of indexing: one named program entity with its kind,
// qualified name, and defining span.
type Symbol struct {
	// ID is the symbol's handle in the owning index arena. Zero until the
	// record is ingested.
	ID int `json:"id"`

	// Name is the unqualified identifier as written in source.
	Name string `json:"name"`

	// QualifiedName is the enclosing scope chain joined with the language's
	// separator, followed by Name. Computed once at normalization time.
	QualifiedName string `json:"qualified_name"`

	Kind Kind `json:"kind"`
	Role Role `json:"role"`

	// Language is the scanner's stable identifier (e.g. "cpp", "rust").
	Language string `json:"language"`

	// Path is the file the symbol was scanned from.
	Path string `json:"path"`

	Span Range `json:"span"`

	// Scope is the arena id of the nearest enclosing namespace or type
	// symbol in the same file, or NoScope at top level. Lookup-only.
	Scope int `json:"scope"`
}

// Validate checks the record invariants: non-empty names, known kind and
// role, a valid span, and a file path.
func (s *Symbol) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("symbol %q: empty name", s.QualifiedName)
	}
	if s.QualifiedName == "" {
		return fmt.Errorf("symbol %q: empty qualified name", s.Name)
	}
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return fmt.Errorf("symbol %q: %w", s.QualifiedName, err)
	}
	if s.Role != RoleDeclaration && s.Role != RoleDefinition {
		return fmt.Errorf("symbol %q: unknown role %q", s.QualifiedName, s.Role)
	}
	if s.Path == "" {
		return fmt.Errorf("symbol %q: no file path", s.QualifiedName)
	}
	if !s.Span.Valid() {
		return fmt.Errorf("symbol %q: end position %d:%d before start %d:%d",
			s.QualifiedName, s.Span.EndLine, s.Span.EndColumn, s.Span.StartLine, s.Span.StartColumn)
	}
	return nil
}

// Less orders symbols by (path, start line, start column), the total order
// used for query results.
func Less(a, b *Symbol) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Span.StartLine != b.Span.StartLine {
		return a.Span.StartLine < b.Span.StartLine
	}
	return a.Span.StartColumn < b.Span.StartColumn
}
