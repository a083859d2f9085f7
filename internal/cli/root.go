package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/symgrep/internal/config"
	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/store"
)

var (
	rootDirFlag string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "symgrep",
	Short: "Symgrep - structural symbol search for codebases",
	Long: `Symgrep indexes the symbols declared in a codebase (namespaces, types,
functions, methods, fields, variables) across several languages and
answers structural queries against that index: exact, prefix,
substring, and regex matches over plain or qualified names.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDirFlag, "root", "", "project root (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// resolveRoot returns the project root as an absolute path.
func resolveRoot() (string, error) {
	dir := rootDirFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", dir, err)
	}
	return abs, nil
}

// openStore loads configuration and opens the configured backend.
func openStore(rootDir string) (*config.Config, store.Backend, error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	indexDir := cfg.Storage.IndexDir
	if !filepath.IsAbs(indexDir) {
		indexDir = filepath.Join(rootDir, indexDir)
	}
	backend, err := store.Open(cfg.Storage.Backend, indexDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, backend, nil
}

// loadIndex opens the backend and rebuilds the frozen in-memory index
// from it. The caller closes the backend.
func loadIndex(rootDir string) (*config.Config, store.Backend, *index.Index, error) {
	cfg, backend, err := openStore(rootDir)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := backend.Meta()
	if err != nil {
		_ = backend.Close()
		return nil, nil, nil, err
	}
	if meta == nil {
		_ = backend.Close()
		return nil, nil, nil, fmt.Errorf("no index found under %s (run \"symgrep index\" first)", rootDir)
	}
	ix, err := store.Load(backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, nil, err
	}
	return cfg, backend, ix, nil
}
