package testfs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// -----------------------------------------------------------------------------
// Sow Operations - Create filesystem from spec
// -----------------------------------------------------------------------------

// SowFileTree creates a filesystem structure under root from a FileTree.
func SowFileTree(root string, spec FileTree) error {
	for _, d := range spec.Dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", d, err)
		}
	}
	for _, f := range spec.Files {
		if err := sowFile(root, f); err != nil {
			return err
		}
	}
	if err := sowSymlinks(root, spec.Symlinks); err != nil {
		return err
	}
	for _, p := range spec.Unreadable {
		if err := os.Chmod(filepath.Join(root, p), 0); err != nil {
			return fmt.Errorf("chmod %s: %w", p, err)
		}
	}
	return nil
}

// sowFile writes one independent copy of the content per path.
func sowFile(root string, f File) error {
	for _, p := range f.Path {
		path := filepath.Join(root, p)
		if err := writeChunkedFile(path, f.Chunks); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
	}
	return nil
}

// writeChunkedFile streams content directly to disk.
func writeChunkedFile(path string, chunks []Chunk) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, c := range chunks {
		if err := writeChunk(f, c); err != nil {
			return err
		}
	}
	return nil
}

// writeChunk writes a single chunk to the file using streaming.
func writeChunk(f *os.File, c Chunk) error {
	const maxBufSize = 1 << 20 // 1MiB max buffer

	size, err := humanize.ParseBytes(c.Size)
	if err != nil {
		return fmt.Errorf("parse chunk size %q: %w", c.Size, err)
	}

	bufSize := int(min(size, maxBufSize))
	buf := bytes.Repeat([]byte{byte(c.Pattern)}, bufSize)

	remaining := int64(size)
	for remaining > 0 {
		toWrite := min(int64(len(buf)), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			return err
		}
		remaining -= toWrite
	}
	return nil
}

// sowSymlinks creates symlinks, creating parent dirs.
func sowSymlinks(root string, symlinks []Symlink) error {
	for _, sym := range symlinks {
		linkPath := filepath.Join(root, sym.Path)
		if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
			return err
		}
		if err := os.Symlink(sym.Target, linkPath); err != nil {
			return fmt.Errorf("symlink %s -> %s: %w", linkPath, sym.Target, err)
		}
	}
	return nil
}
