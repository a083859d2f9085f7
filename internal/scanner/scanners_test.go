package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symgrep/internal/normalize"
	"github.com/mvp-joe/symgrep/internal/scanner"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

// symbolsFor runs a language's scanner over src and normalizes the
// event stream, the same path the scan driver takes per file.
func symbolsFor(t *testing.T, lang, src string) []*symbol.Symbol {
	t.Helper()
	sc := scanner.NewRegistry().ForLanguage(lang)
	require.NotNil(t, sc, "no scanner registered for %q", lang)
	events := sc.Scan([]byte(src))
	return normalize.File("test."+sc.Extensions()[0], sc.Language(), sc.Separator(), events)
}

// findAll returns every symbol with the given qualified name.
func findAll(syms []*symbol.Symbol, qualified string) []*symbol.Symbol {
	var out []*symbol.Symbol
	for _, sym := range syms {
		if sym.QualifiedName == qualified {
			out = append(out, sym)
		}
	}
	return out
}

// findOne asserts exactly one symbol has the qualified name.
func findOne(t *testing.T, syms []*symbol.Symbol, qualified string) *symbol.Symbol {
	t.Helper()
	matches := findAll(syms, qualified)
	require.Len(t, matches, 1, "expected exactly one %q in %s", qualified, names(syms))
	return matches[0]
}

func names(syms []*symbol.Symbol) []string {
	out := make([]string, len(syms))
	for i, sym := range syms {
		out[i] = sym.QualifiedName
	}
	return out
}
