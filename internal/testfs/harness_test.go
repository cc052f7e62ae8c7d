//go:build unix

package testfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestSowCreatesFilesCorrectly verifies that SowFileTree creates files with correct sizes and content.
func TestSowCreatesFilesCorrectly(t *testing.T) {
	root := t.TempDir()

	spec := FileTree{
		Files: []File{
			{Path: []string{"a.txt"}, Chunks: []Chunk{{Pattern: 'A', Size: "100"}}},
			{Path: []string{"sub/b.txt"}, Chunks: []Chunk{{Pattern: 'B', Size: "50"}}},
		},
	}

	if err := SowFileTree(root, spec); err != nil {
		t.Fatalf("SowFileTree failed: %v", err)
	}

	contentA, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatalf("failed to read a.txt: %v", err)
	}
	if !bytes.Equal(contentA, bytes.Repeat([]byte{'A'}, 100)) {
		t.Errorf("a.txt content mismatch (len %d)", len(contentA))
	}

	contentB, err := os.ReadFile(filepath.Join(root, "sub", "b.txt"))
	if err != nil {
		t.Fatalf("failed to read sub/b.txt: %v", err)
	}
	if len(contentB) != 50 {
		t.Errorf("b.txt size: got %d, want 50", len(contentB))
	}
}

// TestSowMultiplePathsAreCopies verifies that paths of one File are independent copies.
func TestSowMultiplePathsAreCopies(t *testing.T) {
	h := New(t, FileTree{
		Files: []File{
			{Path: []string{"x/one", "y/two"}, Chunks: []Chunk{{Pattern: 'Z', Size: "1KiB"}}},
		},
	})

	one, err := os.Stat(h.Path("x/one"))
	if err != nil {
		t.Fatal(err)
	}
	two, err := os.Stat(h.Path("y/two"))
	if err != nil {
		t.Fatal(err)
	}
	if os.SameFile(one, two) {
		t.Error("copies should not share an inode")
	}
	if one.Size() != 1024 || two.Size() != 1024 {
		t.Errorf("sizes: got %d and %d, want 1024", one.Size(), two.Size())
	}
}

// TestSowDirsAndSymlinks verifies empty directories and symlinks.
func TestSowDirsAndSymlinks(t *testing.T) {
	h := New(t, FileTree{
		Files:    []File{{Path: []string{"real"}, Chunks: []Chunk{{Pattern: 'R', Size: "1"}}}},
		Dirs:     []string{"empty/nested"},
		Symlinks: []Symlink{{Path: "link", Target: "real"}},
	})

	h.AssertExists("empty/nested", "link", "real")
	h.AssertMissing("nothing-here")

	target, err := os.Readlink(h.Path("link"))
	if err != nil {
		t.Fatal(err)
	}
	if target != "real" {
		t.Errorf("link target = %q, want real", target)
	}
}

// TestTotalSize verifies chunk size accounting.
func TestTotalSize(t *testing.T) {
	f := File{Chunks: []Chunk{{Pattern: 'A', Size: "1KiB"}, {Pattern: 'B', Size: "24"}}}
	if got := f.TotalSize(); got != 1048 {
		t.Errorf("TotalSize() = %d, want 1048", got)
	}
}
