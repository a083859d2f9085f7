// Package scanner contains the per-language symbol recognizers and the
// dispatcher that selects one by file extension or language id.
//
// A scanner walks one file's text and emits a flat, ordered stream of
// events: raw symbol occurrences plus the scope-close boundaries that let
// the normalizer maintain its scope stack. Scanners are stateless across
// files and never fail a file; constructs they cannot recognize are
// skipped and the walk resumes at the next recognizable node.
package scanner

import (
	"path/filepath"
	"strings"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Occurrence is a raw symbol occurrence as recognized by a scanner,
// before qualification.
type Occurrence struct {
	Kind symbol.Kind
	Role symbol.Role

	// Name is the identifier as written, without qualifiers.
	Name string

	// ScopePath carries the qualifier written on an out-of-line member
	// definition (e.g. Greeter::greet defines greet with ScopePath
	// ["Greeter"]). Nil for ordinary occurrences; the normalizer then
	// qualifies purely from the lexical scope stack.
	ScopePath []string

	// NameSpan covers the identifier; Span covers the whole construct.
	NameSpan symbol.Range
	Span     symbol.Range

	// OpensScope marks namespace/type occurrences that enclose the
	// events emitted until the matching close event.
	OpensScope bool
}

// Event is one element of a scanner's output stream: either an occurrence
// or the close of the most recently opened scope.
type Event struct {
	Occ   *Occurrence
	Close bool
}

// Scanner is the contract every language implementation fulfills. A
// Scanner must not require syntactically valid input: malformed byte
// ranges produce no occurrences and are advanced past.
type Scanner interface {
	// Language is the stable language identifier (e.g. "cpp").
	Language() string

	// Separator joins scope names into qualified names for this language.
	Separator() string

	// Extensions lists the file extensions (without dots) this scanner
	// handles by default.
	Extensions() []string

	// Scan produces the file's ordered event stream. Re-scanning the same
	// text yields the same stream; there is no mid-stream resumption.
	Scan(src []byte) []Event
}

// Registry maps file extensions and language ids to scanners. Adding a
// language means registering one more scanner; the dispatch control
// structure never changes.
type Registry struct {
	scanners []Scanner
	byExt    map[string]Scanner
	byLang   map[string]Scanner
}

// NewRegistry builds a registry with every built-in scanner under its
// default extensions.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:  make(map[string]Scanner),
		byLang: make(map[string]Scanner),
	}
	for _, s := range []Scanner{
		NewCScanner(),
		NewCppScanner(),
		NewRustScanner(),
		NewPythonScanner(),
		NewTypeScriptScanner(),
		NewJavaScanner(),
		NewRubyScanner(),
		NewPHPScanner(),
	} {
		r.Register(s, s.Extensions()...)
	}
	return r
}

// NewRegistryWithRules builds a registry from an explicit extension-to-
// language rule table, as supplied by configuration. Extensions mapping
// to unknown languages are ignored.
func NewRegistryWithRules(rules map[string]string) *Registry {
	base := NewRegistry()
	r := &Registry{
		scanners: base.scanners,
		byExt:    make(map[string]Scanner),
		byLang:   base.byLang,
	}
	for ext, lang := range rules {
		if s := base.ForLanguage(lang); s != nil {
			r.byExt[normalizeExt(ext)] = s
		}
	}
	return r
}

// Register adds a scanner under the given extensions.
func (r *Registry) Register(s Scanner, exts ...string) {
	r.scanners = append(r.scanners, s)
	r.byLang[s.Language()] = s
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = s
	}
}

// ForPath returns the scanner responsible for the file, or nil when no
// rule matches. An unmatched file is skipped, not an error.
func (r *Registry) ForPath(path string) Scanner {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil
	}
	return r.byExt[ext]
}

// ForLanguage returns the scanner for a logical language id, normalizing
// the common aliases, or nil for an unknown language.
func (r *Registry) ForLanguage(id string) Scanner {
	canonical := strings.ToLower(strings.TrimSpace(id))
	switch canonical {
	case "c++", "cxx":
		canonical = "cpp"
	case "rs":
		canonical = "rust"
	case "py":
		canonical = "python"
	case "ts", "tsx", "js", "jsx", "javascript":
		canonical = "typescript"
	case "rb":
		canonical = "ruby"
	}
	return r.byLang[canonical]
}

// Languages lists the registered language ids in registration order.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.scanners))
	for _, s := range r.scanners {
		out = append(out, s.Language())
	}
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// occurrence appends an occurrence event.
func occurrence(events []Event, occ *Occurrence) []Event {
	return append(events, Event{Occ: occ})
}

// closeScope appends a scope-close event.
func closeScope(events []Event) []Event {
	return append(events, Event{Close: true})
}
