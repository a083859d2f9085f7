// Package scan drives a full indexing pass: walk results are scanned
// and normalized by a worker pool, while a single collector goroutine
// owns all index and store mutations. Workers check for cancellation
// between files, never mid-file.
package scan

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/normalize"
	"github.com/mvp-joe/symgrep/internal/scanner"
	"github.com/mvp-joe/symgrep/internal/store"
	"github.com/mvp-joe/symgrep/internal/symbol"
	"github.com/mvp-joe/symgrep/internal/walk"
)

// Progress reports per-file completion to the caller.
type Progress func(done, total int, path string)

// Summary describes one completed scan.
type Summary struct {
	ScanID string        `json:"scan_id"`
	Root   string        `json:"root"`
	Took   time.Duration `json:"took"`

	FilesScanned int `json:"files_scanned"`
	FilesReused  int `json:"files_reused"`
	FilesSkipped int `json:"files_skipped"`
	FilesRemoved int `json:"files_removed"`
	Symbols      int `json:"symbols"`
}

// Driver runs scans with a fixed worker count.
type Driver struct {
	registry *scanner.Registry
	workers  int
	progress Progress
}

// New creates a driver. A non-positive worker count falls back to one.
func New(registry *scanner.Registry, workers int) *Driver {
	if workers <= 0 {
		workers = 1
	}
	return &Driver{registry: registry, workers: workers}
}

// SetProgress installs a progress callback, invoked from the collector
// goroutine only.
func (d *Driver) SetProgress(p Progress) { d.progress = p }

type job struct {
	file walk.File
	rel  string
	sc   scanner.Scanner
}

type fileResult struct {
	path     string
	language string
	size     int64
	mtime    time.Time
	syms     []*symbol.Symbol
}

// Run indexes the walked files under root. When backend is non-nil,
// files whose size and mtime match the stored record are reused from
// the store instead of rescanned, fresh results are persisted, and
// records for files no longer present are removed. The returned index
// is frozen.
func (d *Driver) Run(ctx context.Context, root string, files []walk.File, backend store.Backend) (*index.Index, *Summary, error) {
	start := time.Now()
	summary := &Summary{ScanID: uuid.NewString(), Root: root}
	ix := index.New()

	// Refuse to touch a store built for a different root before any
	// mutation happens.
	var meta *store.Meta
	if backend != nil {
		var err error
		meta, err = backend.Meta()
		if err != nil {
			return nil, nil, err
		}
		if meta != nil && meta.RootPath != root {
			return nil, nil, fmt.Errorf("%w: index was built for %s, not %s", store.ErrRootMismatch, meta.RootPath, root)
		}
	}

	// Partition serially: unchanged files are reloaded from the store
	// here, before the pool starts, so the backend sees one goroutine
	// at a time.
	var jobs []job
	walked := make(map[string]struct{}, len(files))
	for _, f := range files {
		rel := walk.NormalizePath(root, f.Path)
		sc := d.registry.ForPath(f.Path)
		if sc == nil {
			summary.FilesSkipped++
			continue
		}
		walked[rel] = struct{}{}

		if backend != nil {
			prev, err := backend.GetFileByPath(rel)
			if err != nil {
				return nil, nil, err
			}
			if prev != nil && !prev.Changed(f.Size, f.Info.ModTime()) {
				syms, err := backend.FileSymbols(rel)
				if err != nil {
					return nil, nil, err
				}
				if err := ix.Ingest(rel, syms); err != nil {
					return nil, nil, err
				}
				summary.FilesReused++
				continue
			}
		}
		jobs = append(jobs, job{file: f, rel: rel, sc: sc})
	}

	if err := d.scanAll(ctx, jobs, ix, backend, summary); err != nil {
		return nil, nil, err
	}

	if backend != nil {
		if err := d.removeStale(ix, backend, walked, summary); err != nil {
			return nil, nil, err
		}
		meta, err := store.TouchMeta(meta, root, time.Now())
		if err != nil {
			return nil, nil, err
		}
		if err := backend.SaveMeta(meta); err != nil {
			return nil, nil, err
		}
	}

	if err := ix.Freeze(); err != nil {
		return nil, nil, err
	}
	summary.Symbols = ix.Len()
	summary.Took = time.Since(start)
	return ix, summary, nil
}

// scanAll runs the worker pool over the changed files and collects the
// results into the index and store.
func (d *Driver) scanAll(ctx context.Context, jobs []job, ix *index.Index, backend store.Backend, summary *Summary) error {
	if len(jobs) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan fileResult, d.workers)
	jobCh := make(chan job)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for j := range jobCh {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := scanOne(j)
				if res == nil {
					continue
				}
				select {
				case results <- *res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// The collector runs outside the group: it must keep receiving
	// until the workers finish and results is closed. When a store or
	// ingest write fails it stops receiving, so it cancels the group to
	// unblock any worker parked on the results channel.
	collectErr := make(chan error, 1)
	go func() {
		err := d.collect(results, ix, backend, len(jobs), summary)
		if err != nil {
			cancel()
		}
		collectErr <- err
	}()

	err := g.Wait()
	close(results)
	if cerr := <-collectErr; cerr != nil {
		return cerr
	}
	return err
}

// scanOne reads, scans, and normalizes one file. A nil result means
// the file vanished, turned out binary, or was otherwise unreadable;
// the scan carries on without it.
func scanOne(j job) *fileResult {
	binary, err := walk.IsBinary(j.file.Path)
	if err != nil || binary {
		return nil
	}

	src, err := os.ReadFile(j.file.Path)
	if err != nil {
		return nil
	}

	events := j.sc.Scan(src)
	syms := normalize.File(j.rel, j.sc.Language(), j.sc.Separator(), events)
	return &fileResult{
		path:     j.rel,
		language: j.sc.Language(),
		size:     j.file.Size,
		mtime:    j.file.Info.ModTime(),
		syms:     syms,
	}
}

// collect is the single writer for the index and the store.
func (d *Driver) collect(results <-chan fileResult, ix *index.Index, backend store.Backend, total int, summary *Summary) error {
	done := 0
	for res := range results {
		done++
		summary.FilesScanned++
		if backend != nil {
			info := &store.FileInfo{
				Path:      res.path,
				Language:  res.language,
				Size:      res.size,
				MTime:     res.mtime,
				IndexedAt: time.Now(),
			}
			if err := backend.UpsertFile(info); err != nil {
				return err
			}
			// Persist before Ingest rewrites the Scope fields to arena
			// IDs.
			if err := backend.SetFileSymbols(res.path, res.syms); err != nil {
				return err
			}
		}
		if err := ix.Ingest(res.path, res.syms); err != nil {
			return err
		}
		if d.progress != nil {
			d.progress(done, total, res.path)
		}
	}
	return nil
}

func (d *Driver) removeStale(ix *index.Index, backend store.Backend, walked map[string]struct{}, summary *Summary) error {
	stored, err := backend.ListFiles()
	if err != nil {
		return err
	}
	for _, f := range stored {
		if _, ok := walked[f.Path]; ok {
			continue
		}
		if err := backend.RemoveFileByPath(f.Path); err != nil {
			return fmt.Errorf("scan: remove stale %s: %w", f.Path, err)
		}
		if err := ix.RemoveFile(f.Path); err != nil {
			return err
		}
		summary.FilesRemoved++
	}
	return nil
}
