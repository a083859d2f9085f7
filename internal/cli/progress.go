package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

const timeRound = time.Millisecond

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet     bool
	fileBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// OnScanStart prepares the per-file progress bar.
func (c *CLIProgressReporter) OnScanStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// OnFileProcessed advances the bar; it matches scan.Progress.
func (c *CLIProgressReporter) OnFileProcessed(done, total int, path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	_ = c.fileBar.Add(1)
}

// OnScanComplete finishes the bar.
func (c *CLIProgressReporter) OnScanComplete() {
	if c.quiet || c.fileBar == nil {
		return
	}
	_ = c.fileBar.Finish()
}
