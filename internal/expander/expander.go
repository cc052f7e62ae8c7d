// Package expander turns user-supplied path references into a flat list of files.
//
// # Overview
//
// Each reference is either a regular file (kept as-is), a directory
// (expanded recursively after the user confirms it) or something else
// (reported as a warning). Expansion is strictly sequential: directory
// prompts are asked one at a time, in reference order.
//
// # Confirmation Protocol
//
//	┌──────────┬──────────────────────────────────────────────────────┐
//	│ Answer   │ Effect                                               │
//	├──────────┼──────────────────────────────────────────────────────┤
//	│ Yes      │ expand this directory                                │
//	│ YesToAll │ expand this and every later directory, no prompting  │
//	│ No       │ skip this directory                                  │
//	│ Cancel   │ stop; later references are not processed             │
//	└──────────┴──────────────────────────────────────────────────────┘
//
// Only directory references are prompted. Subdirectories found while
// expanding a confirmed directory are walked without asking.
package expander

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// Answer is the user's reply to a directory expansion prompt.
type Answer int

const (
	Yes Answer = iota
	YesToAll
	No
	Cancel
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case YesToAll:
		return "yes to all"
	case No:
		return "no"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Answer(%d)", int(a))
	}
}

// Confirmer asks the user whether a directory should be expanded.
type Confirmer interface {
	ConfirmExpand(dir string) Answer
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(dir string) Answer

// ConfirmExpand calls f(dir).
func (f ConfirmerFunc) ConfirmExpand(dir string) Answer { return f(dir) }

// Always answers every prompt with the same answer.
func Always(a Answer) Confirmer {
	return ConfirmerFunc(func(string) Answer { return a })
}

// Result is the outcome of one expansion batch.
type Result struct {
	Paths     []string // Files in traversal order
	Warnings  []string // Localized, one per reference or directory that could not be added
	Cancelled bool     // User answered Cancel or the context was cancelled
}

// Expander expands path references. Create one per batch with New:
// the YesToAll answer is remembered for the lifetime of the Expander.
type Expander struct {
	fs        Filesystem
	confirmer Confirmer
	log       *slog.Logger

	yesToAll bool
}

// New creates an Expander. A nil fs uses the local filesystem with hidden
// files included; a nil confirmer answers Yes to every prompt.
func New(fs Filesystem, confirmer Confirmer, log *slog.Logger) *Expander {
	if fs == nil {
		fs = NewOSFilesystem(true)
	}
	if confirmer == nil {
		confirmer = Always(Yes)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Expander{fs: fs, confirmer: confirmer, log: log}
}

// Expand resolves refs into files.
func (e *Expander) Expand(ctx context.Context, refs []string) Result {
	var res Result

	for _, ref := range refs {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		path, err := filepath.Abs(ref)
		if err != nil {
			res.Warnings = append(res.Warnings, cannotAdd(ref))
			continue
		}

		info, err := e.fs.Stat(path)
		switch {
		case err != nil:
			e.log.Debug("stat failed", "path", path, "err", err)
			res.Warnings = append(res.Warnings, cannotAdd(path))
		case info.Mode().IsRegular():
			res.Paths = append(res.Paths, path)
		case info.IsDir():
			if !e.expandDir(ctx, path, &res) {
				res.Cancelled = true
				return res
			}
		default:
			res.Warnings = append(res.Warnings, cannotAdd(path))
		}
	}

	return res
}

// expandDir prompts for dir and walks it. Returns false when expansion must stop.
func (e *Expander) expandDir(ctx context.Context, dir string, res *Result) bool {
	if !e.yesToAll {
		answer := e.confirmer.ConfirmExpand(dir)
		e.log.Debug("directory prompt", "dir", dir, "answer", answer.String())
		switch answer {
		case Cancel:
			return false
		case No:
			return true
		case YesToAll:
			e.yesToAll = true
		}
	}

	files, problems, err := e.fs.ListFiles(ctx, dir)
	res.Paths = append(res.Paths, files...)
	for _, p := range problems {
		res.Warnings = append(res.Warnings, cannotAdd(p))
	}
	if err != nil {
		// Only context cancellation aborts a listing.
		return false
	}
	return true
}

// cannotAdd formats the warning for an unusable reference.
func cannotAdd(path string) string {
	return fmt.Sprintf("Cannot add '%s'", path)
}
