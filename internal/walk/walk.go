// Package walk enumerates candidate source files under one or more
// roots, honoring include/exclude globs and .gitignore files, and
// skipping binaries and oversized files.
package walk

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxFileSize is the cutoff above which files are skipped.
const DefaultMaxFileSize = 4 << 20

// sniffLen is how many leading bytes are inspected for NUL to detect
// binaries, matching git's heuristic.
const sniffLen = 8000

var defaultExcludeDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".symgrep":     {},
	"node_modules": {},
	"target":       {},
	"vendor":       {},
	"__pycache__":  {},
}

// Options configure a walk. Glob patterns match the path relative to
// the walked root, with forward slashes.
type Options struct {
	Include     []string
	Exclude     []string
	MaxFileSize int64

	// UseGitignore loads .gitignore files found at each root.
	UseGitignore bool
}

// File is one candidate discovered by the walk.
type File struct {
	// Path is the path as given relative to the walk invocation.
	Path string
	Size int64
	Info fs.FileInfo
}

// Walker enumerates files for the scan driver.
type Walker struct {
	include     []glob.Glob
	exclude     []glob.Glob
	maxFileSize int64
	gitignore   bool
}

// New compiles the options into a walker. Invalid globs fail
// construction.
func New(opts Options) (*Walker, error) {
	w := &Walker{
		maxFileSize: opts.MaxFileSize,
		gitignore:   opts.UseGitignore,
	}
	if w.maxFileSize <= 0 {
		w.maxFileSize = DefaultMaxFileSize
	}
	for _, pat := range opts.Include {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("walk: invalid include glob %q: %w", pat, err)
		}
		w.include = append(w.include, g)
	}
	for _, pat := range opts.Exclude {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("walk: invalid exclude glob %q: %w", pat, err)
		}
		w.exclude = append(w.exclude, g)
	}
	return w, nil
}

// Walk returns every candidate file under the roots, sorted by path.
// Unreadable directory entries are skipped, not fatal.
func (w *Walker) Walk(roots ...string) ([]File, error) {
	var out []File
	seen := make(map[string]struct{})

	for _, root := range roots {
		var ignorer *gitignore.GitIgnore
		if w.gitignore {
			if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
				ignorer = gi
			}
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path == root {
					return nil
				}
				if _, skip := defaultExcludeDirs[d.Name()]; skip {
					return fs.SkipDir
				}
				if w.excluded(rel) {
					return fs.SkipDir
				}
				if ignorer != nil && ignorer.MatchesPath(rel+"/") {
					return fs.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if w.excluded(rel) {
				return nil
			}
			if ignorer != nil && ignorer.MatchesPath(rel) {
				return nil
			}
			if len(w.include) > 0 && !w.included(rel) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() > w.maxFileSize {
				return nil
			}

			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			out = append(out, File{Path: path, Size: info.Size(), Info: info})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk: %s: %w", root, err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (w *Walker) included(rel string) bool {
	for _, g := range w.include {
		if g.Match(rel) || g.Match(filepath.Base(rel)) {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(rel string) bool {
	for _, g := range w.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// IsBinary sniffs the file's leading bytes for a NUL byte.
func IsBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

// NormalizePath converts a path to the canonical slash-separated,
// root-relative form stored in the index.
func NormalizePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
