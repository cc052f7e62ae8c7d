// Package collector turns path references into fingerprinted file records.
//
// # Processing Pipeline
//
//	Input: []string (files and directories picked by the user)
//	    │
//	    ├──► expander: references → files (prompts per directory)
//	    │
//	    ├──► fingerprint: files → SHA-1 (bounded worker pool, one slot per file)
//	    │
//	    ├──► palette: one sequential pass in scan order
//	    │
//	    └──► Output: []types.FileRecord + warnings
//
// # Ordering
//
// Hashing may run on several goroutines, but results are written into a
// slice indexed by scan position and colors are assigned afterwards in that
// order. Output order and colors therefore never depend on scheduling.
//
// Files that cannot be read stay in the output with an unresolved
// fingerprint and types.NoColor, so the user can see and remove them.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ivoronin/dupeview/internal/expander"
	"github.com/ivoronin/dupeview/internal/fingerprint"
	"github.com/ivoronin/dupeview/internal/palette"
	"github.com/ivoronin/dupeview/internal/progress"
	"github.com/ivoronin/dupeview/internal/types"
)

// Options configures a Collector. Zero values select defaults.
type Options struct {
	Filesystem    expander.Filesystem        // Default: local filesystem, hidden files included
	Confirmer     expander.Confirmer         // Default: answer Yes to every directory
	Fingerprinter *fingerprint.Fingerprinter // Default: local filesystem
	Reporter      progress.Reporter          // Default: progress.Discard
	Workers       int                        // Max concurrent hashes; default 1
	Logger        *slog.Logger               // Default: discard
}

// Collector gathers records for batches of path references.
type Collector struct {
	opts Options
}

// New creates a Collector.
func New(opts Options) *Collector {
	if opts.Filesystem == nil {
		opts.Filesystem = expander.NewOSFilesystem(true)
	}
	if opts.Fingerprinter == nil {
		opts.Fingerprinter = fingerprint.New(nil)
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Discard
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{opts: opts}
}

// Result is the outcome of one Collect call.
type Result struct {
	Records   []types.FileRecord
	Warnings  []string
	Cancelled bool
	Summary   Summary
}

// Summary describes a finished collection pass.
type Summary struct {
	Files      int
	Unreadable int
	Unique     int
	Bytes      uint64
	Elapsed    time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("Collected %d files (%s), %d unique, %d unreadable in %.1fs",
		s.Files, humanize.IBytes(s.Bytes), s.Unique, s.Unreadable, s.Elapsed.Seconds())
}

// slot holds the outcome for one file, indexed by scan position.
type slot struct {
	done   bool
	record types.FileRecord
	err    error
}

// Collect expands refs and fingerprints every resulting file.
//
// Each Collect call is one batch: the directory prompt's YesToAll answer
// applies until the call returns.
func (c *Collector) Collect(ctx context.Context, refs []string) Result {
	start := time.Now()
	log := c.opts.Logger

	expanded := expander.New(c.opts.Filesystem, c.opts.Confirmer, log).Expand(ctx, refs)
	log.Debug("expanded references", "refs", len(refs), "files", len(expanded.Paths), "cancelled", expanded.Cancelled)

	slots := make([]slot, len(expanded.Paths))
	var reportMu sync.Mutex
	report := func(text string) {
		reportMu.Lock()
		defer reportMu.Unlock()
		c.opts.Reporter.Show(text, progress.Infinite)
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, path := range expanded.Paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report(fmt.Sprintf("Calculate hash for '%s'...", path))
			slots[i] = c.collectFile(path)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Warnings: expanded.Warnings, Cancelled: expanded.Cancelled || ctx.Err() != nil}
	assigner := palette.New()
	for _, s := range slots {
		if !s.done {
			continue
		}
		rec := s.record
		if s.err != nil {
			res.Warnings = append(res.Warnings, warningFor(s.err))
			res.Summary.Unreadable++
		}
		rec.Color = assigner.ColorFor(rec.Fingerprint)
		res.Records = append(res.Records, rec)
		res.Summary.Bytes += rec.Size
	}

	res.Summary.Files = len(res.Records)
	res.Summary.Unique = assigner.Table().Len()
	res.Summary.Elapsed = time.Since(start)
	log.Debug("collected", "files", res.Summary.Files, "unreadable", res.Summary.Unreadable)
	return res
}

// collectFile snapshots metadata and fingerprints one file.
func (c *Collector) collectFile(path string) slot {
	rec := types.FileRecord{Path: path, Color: types.NoColor}

	if info, err := c.opts.Filesystem.Stat(path); err == nil {
		rec.Size = uint64(max(info.Size(), 0))
		rec.ModTime = info.ModTime()
	} else {
		c.opts.Logger.Debug("stat failed", "path", path, "err", err)
	}

	fp, err := c.opts.Fingerprinter.Sum(path)
	if err != nil {
		c.opts.Logger.Debug("fingerprint failed", "path", path, "err", err)
		return slot{done: true, record: rec, err: err}
	}
	rec.Fingerprint = fp
	return slot{done: true, record: rec}
}

// warningFor renders a per-file failure for the user.
func warningFor(err error) string {
	var re *fingerprint.ReadError
	if errors.As(err, &re) {
		return re.Warning()
	}
	return err.Error()
}

