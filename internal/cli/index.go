package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/symgrep/internal/scan"
	"github.com/mvp-joe/symgrep/internal/scanner"
	"github.com/mvp-joe/symgrep/internal/walk"
)

var (
	quietFlag     bool
	workersFlag   int
	jsonIndexFlag bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the symbols declared in the codebase",
	Long: `Index walks the project, extracts declared symbols from every
recognized source file, and persists the result so later searches
start from the stored index.

Files whose size and modification time match the stored record are
reused without rescanning; files that disappeared since the last run
are dropped from the index.

Examples:
  # Index the current directory
  symgrep index

  # Index without progress output
  symgrep index --quiet

  # Index a specific directory
  symgrep --root /path/to/project index
`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	indexCmd.Flags().IntVar(&workersFlag, "workers", 0, "Scan worker count (default: number of CPUs)")
	indexCmd.Flags().BoolVar(&jsonIndexFlag, "json", false, "Print the scan summary as JSON")
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling indexing...")
		cancel()
	}()

	rootDir, err := resolveRoot()
	if err != nil {
		return err
	}

	cfg, backend, err := openStore(rootDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	walker, err := walk.New(walk.Options{
		Include:      cfg.Paths.Include,
		Exclude:      cfg.Paths.Ignore,
		MaxFileSize:  cfg.Scan.MaxFileSize,
		UseGitignore: cfg.Scan.UseGitignore,
	})
	if err != nil {
		return err
	}

	if !quietFlag {
		log.Println("Discovering files...")
	}
	files, err := walker.Walk(rootDir)
	if err != nil {
		return err
	}

	registry := scanner.NewRegistry()
	if len(cfg.Scan.Languages) > 0 {
		registry = scanner.NewRegistryWithRules(cfg.Scan.Languages)
	}

	workers := workersFlag
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	driver := scan.New(registry, workers)
	progress := NewCLIProgressReporter(quietFlag)
	driver.SetProgress(progress.OnFileProcessed)

	progress.OnScanStart(len(files))
	ix, summary, err := driver.Run(ctx, rootDir, files, backend)
	if err != nil {
		return err
	}
	progress.OnScanComplete()

	if jsonIndexFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	if !quietFlag {
		log.Printf("Indexed %d files (%d reused, %d skipped, %d removed): %d symbols in %s across %v\n",
			summary.FilesScanned, summary.FilesReused, summary.FilesSkipped, summary.FilesRemoved,
			summary.Symbols, summary.Took.Round(timeRound), ix.Languages())
	}
	return nil
}
