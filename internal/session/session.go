// Package session is the file list a front-end drives: it owns the catalog,
// the selection and the navigation anchor, and talks back to the user
// through a UI collaborator.
//
// A Session is used from one goroutine. Long operations run under the UI's
// busy state, and a second operation started while one is running fails
// with ErrBusy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/collector"
	"github.com/ivoronin/dupeview/internal/diff"
	"github.com/ivoronin/dupeview/internal/expander"
	"github.com/ivoronin/dupeview/internal/navigator"
	"github.com/ivoronin/dupeview/internal/progress"
	"github.com/ivoronin/dupeview/internal/settings"
)

// User-facing messages.
const (
	msgNothingSelected = "Nothing selected"
	msgNoDiffCommand   = "Please set side-by-side diff command"
)

var (
	// ErrBusy is returned when an operation starts while another is running.
	ErrBusy = errors.New("another operation is in progress")
	// ErrNothingSelected is returned when an operation needs a selection.
	ErrNothingSelected = errors.New(msgNothingSelected)
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// UI is what the session needs from the front-end.
type UI interface {
	expander.Confirmer
	progress.Reporter

	// Busy enters the busy state and returns the function that leaves it.
	Busy() (release func())
	// Warn shows every warning of one batch at once.
	Warn(warnings []string)
	// ConfirmDelete asks before n files are removed from disk.
	ConfirmDelete(n int) bool
	// ConfirmLargeDiff asks before diffing files of the given combined size.
	ConfirmLargeDiff(size uint64) bool
	// RequestDiffCommand asks for a diff command; false means the user gave up.
	RequestDiffCommand(current string) (string, bool)
}

// Settings is the subset of the settings store the session uses.
type Settings interface {
	Value(key string) string
	Set(key, value string) error
}

// Remover deletes files from disk.
type Remover interface {
	Remove(path string) error
}

// RemoverFunc adapts a function to the Remover interface.
type RemoverFunc func(path string) error

// Remove calls f(path).
func (f RemoverFunc) Remove(path string) error { return f(path) }

// DiffFunc runs a diff command on two files.
type DiffFunc func(ctx context.Context, command, left, right string) error

// Options configures a Session.
type Options struct {
	UI            UI                // Required
	Settings      Settings          // Default: memory-only store
	Remover       Remover           // Default: os.Remove
	Diff          DiffFunc          // Default: diff.Launcher
	DiffSizeLimit uint64            // 0 disables the large-diff prompt
	Collector     collector.Options // Confirmer and Reporter are taken from UI
	Logger        *slog.Logger      // Default: discard
}

// Session is the file list of one front-end.
type Session struct {
	opts      Options
	log       *slog.Logger
	catalog   *catalog.Catalog
	selection []int
	anchor    int
	busy      bool
}

// New creates an empty Session.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Settings == nil {
		// A memory-only store has no file to open.
		store, err := settings.Open("")
		if err != nil {
			panic(err)
		}
		opts.Settings = store
	}
	if opts.Remover == nil {
		opts.Remover = RemoverFunc(os.Remove)
	}
	if opts.Diff == nil {
		log := opts.Logger
		opts.Diff = func(ctx context.Context, command, left, right string) error {
			return diff.Launcher{Command: command, Logger: log}.Run(ctx, left, right)
		}
	}
	opts.Collector.Confirmer = opts.UI
	opts.Collector.Reporter = opts.UI
	opts.Collector.Logger = opts.Logger

	return &Session{
		opts:    opts,
		log:     opts.Logger,
		catalog: catalog.New(),
		anchor:  navigator.NoAnchor,
	}
}

// Catalog returns the catalog for rendering. Mutate it only through the Session.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Selection returns the selected catalog rows in ascending order.
func (s *Session) Selection() []int { return slices.Clone(s.selection) }

// Anchor returns the row the next duplicate search resumes after.
func (s *Session) Anchor() int { return s.anchor }

// Select replaces the selection. The first valid row becomes the anchor.
func (s *Session) Select(rows []int) error {
	sel := make([]int, 0, len(rows))
	for _, r := range rows {
		if r < 0 || r >= s.catalog.RowCount() {
			return fmt.Errorf("row %d out of range [0,%d)", r, s.catalog.RowCount())
		}
		sel = append(sel, r)
	}
	s.setSelection(sel, navigator.NoAnchor)
	if len(sel) > 0 {
		s.anchor = sel[0]
	}
	return nil
}

func (s *Session) setSelection(rows []int, anchor int) {
	rows = slices.Clone(rows)
	slices.Sort(rows)
	s.selection = slices.Compact(rows)
	s.anchor = anchor
}

// enter starts an operation under the UI's busy state.
func (s *Session) enter() (leave func(), err error) {
	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	release := s.opts.UI.Busy()
	return func() {
		release()
		s.busy = false
	}, nil
}

// AddResult is the outcome of Add.
type AddResult struct {
	Added     int
	Cancelled bool
	Summary   catalog.Summary
	Collected collector.Summary
}

// Add collects refs and appends them to the catalog.
// Records collected before a cancellation are still added.
func (s *Session) Add(ctx context.Context, refs []string) (AddResult, error) {
	leave, err := s.enter()
	if err != nil {
		return AddResult{}, err
	}
	defer leave()

	res := collector.New(s.opts.Collector).Collect(ctx, refs)
	summary := s.catalog.Append(res.Records...)
	if len(res.Warnings) > 0 {
		s.opts.UI.Warn(res.Warnings)
	}
	s.opts.UI.Show(summary.String(), progress.Short)
	s.log.Info("added files", "refs", len(refs), "added", len(res.Records), "cancelled", res.Cancelled)

	return AddResult{
		Added:     len(res.Records),
		Cancelled: res.Cancelled,
		Summary:   summary,
		Collected: res.Summary,
	}, nil
}

// Remove drops rows from the catalog without touching the disk.
func (s *Session) Remove(rows []int) error {
	if len(rows) == 0 {
		return ErrNothingSelected
	}
	if err := s.catalog.RemoveRows(catalog.NormalizeRows(rows)); err != nil {
		return err
	}
	s.setSelection(nil, navigator.NoAnchor)
	return nil
}

// DeleteError reports the file that stopped a Delete.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string { return fmt.Sprintf("Cannot remove '%s'", e.Path) }

func (e *DeleteError) Unwrap() error { return e.Err }

// Delete removes the files of rows from disk, then drops their rows.
//
// Rows are processed in ascending order and the first failure stops the
// run; rows removed before it are still dropped. A path listed on several
// rows is deleted once and all its rows are dropped.
func (s *Session) Delete(rows []int) (int, error) {
	if len(rows) == 0 {
		return 0, ErrNothingSelected
	}
	rows = slices.Clone(rows)
	slices.Sort(rows)
	rows = slices.Compact(rows)

	if !s.opts.UI.ConfirmDelete(len(rows)) {
		return 0, ErrCancelled
	}

	removed := make(map[string]bool)
	var done []int
	var failure error
	for _, row := range rows {
		rec, ok := s.catalog.Get(row)
		if !ok {
			failure = fmt.Errorf("%w: row %d", catalog.ErrRemovalIndexConflict, row)
			break
		}
		if !removed[rec.Path] {
			if err := s.opts.Remover.Remove(rec.Path); err != nil {
				s.log.Debug("remove failed", "path", rec.Path, "err", err)
				failure = &DeleteError{Path: rec.Path, Err: err}
				break
			}
			removed[rec.Path] = true
		}
		done = append(done, row)
	}

	if err := s.catalog.RemoveRows(catalog.NormalizeRows(done)); err != nil {
		return 0, err
	}
	s.setSelection(nil, navigator.NoAnchor)
	return len(done), failure
}

// NextDuplicates selects the next group of identical files after the anchor.
func (s *Session) NextDuplicates() navigator.Result {
	res := navigator.Next(s.catalog, s.anchor)
	s.setSelection(res.Rows, res.Anchor)
	s.opts.UI.Show(res.Message, progress.Short)
	return res
}

// Diff opens the first two rows in the configured diff tool.
func (s *Session) Diff(ctx context.Context, rows []int) error {
	if len(rows) < 2 {
		s.opts.UI.Show(msgNothingSelected, progress.Short)
		return ErrNothingSelected
	}
	left, okLeft := s.catalog.Get(rows[0])
	right, okRight := s.catalog.Get(rows[1])
	if !okLeft || !okRight {
		return fmt.Errorf("rows %d and %d: out of range", rows[0], rows[1])
	}

	command := s.opts.Settings.Value(settings.DiffCommand)
	if command == "" {
		s.opts.UI.Show(msgNoDiffCommand, progress.Long)
		entered, ok := s.opts.UI.RequestDiffCommand(command)
		if !ok || entered == "" {
			return diff.ErrNotConfigured
		}
		if err := s.opts.Settings.Set(settings.DiffCommand, entered); err != nil {
			return err
		}
		command = entered
	}

	total := left.Size + right.Size
	if diff.TooBig(left.Size, right.Size, s.opts.DiffSizeLimit) && !s.opts.UI.ConfirmLargeDiff(total) {
		s.log.Debug("large diff declined", "size", humanize.IBytes(total))
		return ErrCancelled
	}

	return s.opts.Diff(ctx, command, left.Path, right.Path)
}
