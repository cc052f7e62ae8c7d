package expander

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Filesystem is the part of the filesystem the expander needs.
type Filesystem interface {
	// Stat follows symlinks, like os.Stat.
	Stat(path string) (os.FileInfo, error)

	// ListFiles returns regular files beneath dir, recursively, in traversal
	// order. Directories that cannot be read are returned as problems and
	// skipped. The error is non-nil only if ctx was cancelled.
	ListFiles(ctx context.Context, dir string) (files, problems []string, err error)
}

// OSFilesystem walks the local filesystem.
type OSFilesystem struct {
	includeHidden bool
}

// NewOSFilesystem creates a Filesystem backed by the os package.
// Dot-files and dot-directories are skipped unless includeHidden is set.
func NewOSFilesystem(includeHidden bool) *OSFilesystem {
	return &OSFilesystem{includeHidden: includeHidden}
}

// Stat returns file info, following symlinks.
func (o *OSFilesystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ListFiles walks dir depth-first; entries of each directory are visited in
// lexical order.
func (o *OSFilesystem) ListFiles(ctx context.Context, dir string) (files, problems []string, err error) {
	err = o.walk(ctx, dir, &files, &problems)
	return files, problems, err
}

func (o *OSFilesystem) walk(ctx context.Context, dir string, files, problems *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := listDirectory(dir)
	if err != nil {
		*problems = append(*problems, dir)
		// Keep whatever was listed before the failure.
	}

	for _, entry := range entries {
		if !o.includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())

		switch kind := classify(fullPath, entry); kind {
		case kindDir:
			if err := o.walk(ctx, fullPath, files, problems); err != nil {
				return err
			}
		case kindFile:
			*files = append(*files, fullPath)
		}
	}
	return nil
}

type entryKind int

const (
	kindSkip entryKind = iota
	kindFile
	kindDir
)

// classify decides how to treat a directory entry.
// Symlinks count as files only when they resolve to a regular file; symlinked
// directories are not followed, which keeps the walk free of cycles.
func classify(fullPath string, entry os.DirEntry) entryKind {
	if entry.IsDir() {
		return kindDir
	}
	if entry.Type().IsRegular() {
		return kindFile
	}
	if entry.Type()&os.ModeSymlink != 0 {
		if info, err := os.Stat(fullPath); err == nil && info.Mode().IsRegular() {
			return kindFile
		}
	}
	// Devices, sockets, pipes, dangling links.
	return kindSkip
}

// listDirectory reads all entries of a directory in batches and sorts them by name.
//
// Batched ReadDir (1000 entries per batch) bounds memory for huge directories.
func listDirectory(dirPath string) ([]os.DirEntry, error) {
	dir, err := os.Open(dirPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dir.Close() }()

	const batchSize = 1000
	var all []os.DirEntry
	for {
		entries, err := dir.ReadDir(batchSize)
		all = append(all, entries...)
		if len(entries) == 0 {
			if err != nil && err != io.EOF {
				return sortEntries(all), err
			}
			break
		}
	}
	return sortEntries(all), nil
}

func sortEntries(entries []os.DirEntry) []os.DirEntry {
	slices.SortFunc(entries, func(a, b os.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return entries
}
