package walk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symgrep/internal/walk"
)

// Test Plan for the Walker:
// - Recurses and returns files sorted by path
// - Include globs select, exclude globs reject
// - Version-control and dependency directories are skipped by default
// - .gitignore entries are honored when enabled
// - Oversized files are dropped
// - IsBinary detects NUL bytes in the leading window

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func relPaths(root string, files []walk.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestWalk_RecursesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/b.cpp", "int b;")
	writeFile(t, root, "src/a.cpp", "int a;")
	writeFile(t, root, "lib/c.rs", "fn c() {}")

	w, err := walk.New(walk.Options{})
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/c.rs", "src/a.cpp", "src/b.cpp"}, relPaths(root, files))
}

func TestWalk_IncludeAndExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.cpp", "int a;")
	writeFile(t, root, "src/a_test.cpp", "int t;")
	writeFile(t, root, "docs/readme.md", "# hi")

	w, err := walk.New(walk.Options{
		Include: []string{"**/*.cpp"},
		Exclude: []string{"**/*_test.cpp"},
	})
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp"}, relPaths(root, files))
}

func TestWalk_SkipsWellKnownDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.cpp", "int a;")
	writeFile(t, root, ".git/objects/aa", "blob")
	writeFile(t, root, "node_modules/pkg/index.js", "x")
	writeFile(t, root, ".symgrep/meta.json", "{}")

	w, err := walk.New(walk.Options{})
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp"}, relPaths(root, files))
}

func TestWalk_HonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\n*.gen.cpp\n")
	writeFile(t, root, "src/a.cpp", "int a;")
	writeFile(t, root, "src/a.gen.cpp", "int g;")
	writeFile(t, root, "build/out.cpp", "int o;")

	w, err := walk.New(walk.Options{UseGitignore: true})
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "src/a.cpp"}, relPaths(root, files))
}

func TestWalk_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.cpp", "int a;")
	writeFile(t, root, "big.cpp", string(make([]byte, 512)))

	w, err := walk.New(walk.Options{MaxFileSize: 100})
	require.NoError(t, err)

	files, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.cpp"}, relPaths(root, files))
}

func TestWalk_InvalidGlobFailsConstruction(t *testing.T) {
	_, err := walk.New(walk.Options{Include: []string{"[bad"}})
	assert.Error(t, err)
}

func TestIsBinary(t *testing.T) {
	root := t.TempDir()
	text := writeFile(t, root, "a.cpp", "int a;\n")
	binary := writeFile(t, root, "a.o", "ELF\x00\x01\x02")

	isBin, err := walk.IsBinary(text)
	require.NoError(t, err)
	assert.False(t, isBin)

	isBin, err = walk.IsBinary(binary)
	require.NoError(t, err)
	assert.True(t, isBin)
}
