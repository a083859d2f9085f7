// Package query evaluates symbol searches against a frozen index.
//
// Matching is explicit: the caller picks exact, prefix, substring, or
// regex. Nothing is inferred from the pattern text, so a pattern like
// "get.*" is a literal in every mode except regex.
package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/maypok86/otter"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Mode selects the matching semantics for a search.
type Mode string

const (
	ModeExact     Mode = "exact"
	ModePrefix    Mode = "prefix"
	ModeSubstring Mode = "substring"
	ModeRegex     Mode = "regex"
)

// ParseMode validates a mode name from the CLI or config.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeExact:
		return ModeExact, nil
	case ModePrefix:
		return ModePrefix, nil
	case ModeSubstring, "":
		return ModeSubstring, nil
	case ModeRegex:
		return ModeRegex, nil
	}
	return "", fmt.Errorf("query: unknown mode %q", s)
}

// Options narrow a search beyond its pattern. Zero-value options apply
// no filter.
type Options struct {
	Mode Mode

	// Kinds and Languages restrict results to the listed values.
	Kinds     []symbol.Kind
	Languages []string

	// PathGlob restricts results to files whose path matches the glob.
	PathGlob string

	// Unqualified matches the pattern against the bare name only; by
	// default both the name and the qualified name are consulted. Regex
	// mode ignores it: a regex always evaluates the qualified name.
	Unqualified bool

	// Limit caps the result count after ordering; zero means unlimited.
	Limit int
}

// Engine evaluates searches. Construction requires a frozen index;
// compiled path globs and regular expressions are cached across
// queries.
type Engine struct {
	ix      *index.Index
	globs   otter.Cache[string, glob.Glob]
	regexps otter.Cache[string, *regexp.Regexp]
}

// New creates an engine over a frozen index.
func New(ix *index.Index) (*Engine, error) {
	if !ix.Frozen() {
		return nil, index.ErrNotFrozen
	}
	globs, err := otter.MustBuilder[string, glob.Glob](256).Build()
	if err != nil {
		return nil, err
	}
	regexps, err := otter.MustBuilder[string, *regexp.Regexp](256).Build()
	if err != nil {
		return nil, err
	}
	return &Engine{ix: ix, globs: globs, regexps: regexps}, nil
}

// Search returns the symbols matching pattern under opts, deduplicated
// and ordered by path, start line, start column. An invalid regex or
// path glob fails only this search.
func (e *Engine) Search(pattern string, opts Options) ([]*symbol.Symbol, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeSubstring
	}

	match, err := e.matcher(mode, pattern)
	if err != nil {
		return nil, err
	}

	filter, err := e.filter(opts)
	if err != nil {
		return nil, err
	}

	var candidates []*symbol.Symbol
	if mode == ModeExact {
		// Exact mode resolves through the lookup maps instead of a scan.
		if pattern == "" {
			return []*symbol.Symbol{}, nil
		}
		byName, err := e.ix.ByName(pattern)
		if err != nil {
			return nil, err
		}
		candidates = byName
		if !opts.Unqualified {
			byQualified, err := e.ix.ByQualifiedName(pattern)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, byQualified...)
		}
	} else {
		all, err := e.ix.Symbols()
		if err != nil {
			return nil, err
		}
		for _, sym := range all {
			var hit bool
			if mode == ModeRegex {
				// Regex evaluates the qualified name only, so anchors
				// refer to the full scoped path.
				hit = match(sym.QualifiedName)
			} else {
				hit = match(sym.Name) || (!opts.Unqualified && match(sym.QualifiedName))
			}
			if hit {
				candidates = append(candidates, sym)
			}
		}
	}

	seen := make(map[int]struct{}, len(candidates))
	out := make([]*symbol.Symbol, 0, len(candidates))
	for _, sym := range candidates {
		if _, dup := seen[sym.ID]; dup {
			continue
		}
		seen[sym.ID] = struct{}{}
		if filter(sym) {
			out = append(out, sym)
		}
	}

	sort.Slice(out, func(i, j int) bool { return symbol.Less(out[i], out[j]) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (e *Engine) matcher(mode Mode, pattern string) (func(string) bool, error) {
	switch mode {
	case ModeExact:
		return func(s string) bool { return s == pattern }, nil
	case ModePrefix:
		return func(s string) bool { return strings.HasPrefix(s, pattern) }, nil
	case ModeSubstring:
		// The empty pattern is a substring of everything: match all.
		return func(s string) bool { return strings.Contains(s, pattern) }, nil
	case ModeRegex:
		re, err := e.compileRegexp(pattern)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}
	return nil, fmt.Errorf("query: unknown mode %q", mode)
}

func (e *Engine) filter(opts Options) (func(*symbol.Symbol) bool, error) {
	var kinds map[symbol.Kind]struct{}
	if len(opts.Kinds) > 0 {
		kinds = make(map[symbol.Kind]struct{}, len(opts.Kinds))
		for _, k := range opts.Kinds {
			kinds[k] = struct{}{}
		}
	}

	var languages map[string]struct{}
	if len(opts.Languages) > 0 {
		languages = make(map[string]struct{}, len(opts.Languages))
		for _, l := range opts.Languages {
			languages[strings.ToLower(l)] = struct{}{}
		}
	}

	var pathGlob glob.Glob
	if opts.PathGlob != "" {
		g, err := e.compileGlob(opts.PathGlob)
		if err != nil {
			return nil, err
		}
		pathGlob = g
	}

	return func(sym *symbol.Symbol) bool {
		if kinds != nil {
			if _, ok := kinds[sym.Kind]; !ok {
				return false
			}
		}
		if languages != nil {
			if _, ok := languages[sym.Language]; !ok {
				return false
			}
		}
		if pathGlob != nil && !pathGlob.Match(sym.Path) {
			return false
		}
		return true
	}, nil
}

func (e *Engine) compileRegexp(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexps.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("query: invalid regex %q: %w", pattern, err)
	}
	e.regexps.Set(pattern, re)
	return re, nil
}

func (e *Engine) compileGlob(pattern string) (glob.Glob, error) {
	if g, ok := e.globs.Get(pattern); ok {
		return g, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("query: invalid path glob %q: %w", pattern, err)
	}
	e.globs.Set(pattern, g)
	return g, nil
}

// Members lists the direct members of the scope with the given
// qualified name.
func (e *Engine) Members(qualifiedName string) ([]*symbol.Symbol, error) {
	return e.ix.ScopeMembers(qualifiedName)
}
