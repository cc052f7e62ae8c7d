//go:build unix

package testfs

import (
	"os"
	"path/filepath"
	"testing"
)

// Harness creates a FileTree inside t.TempDir().
type Harness struct {
	t    *testing.T
	root string
}

// New creates a Harness with the given FileTree.
//
// Unreadable entries get their permissions restored at cleanup so that
// t.TempDir() can remove them.
func New(t *testing.T, given FileTree) *Harness {
	t.Helper()

	root := t.TempDir()
	h := &Harness{t: t, root: root}

	if err := SowFileTree(root, given); err != nil {
		t.Fatalf("failed to setup files: %v", err)
	}
	for _, p := range given.Unreadable {
		abs := h.Path(p)
		t.Cleanup(func() { _ = os.Chmod(abs, 0o755) })
	}

	return h
}

// Root returns the temporary directory root path.
func (h *Harness) Root() string {
	return h.root
}

// Path returns the absolute path of a root-relative path.
func (h *Harness) Path(rel string) string {
	return filepath.Join(h.root, rel)
}

// Paths maps root-relative paths to absolute ones.
func (h *Harness) Paths(rel ...string) []string {
	out := make([]string, len(rel))
	for i, p := range rel {
		out[i] = h.Path(p)
	}
	return out
}

// AssertExists fails the test if any path is missing.
func (h *Harness) AssertExists(rel ...string) {
	h.t.Helper()
	for _, p := range rel {
		if _, err := os.Lstat(h.Path(p)); err != nil {
			h.t.Errorf("expected %s to exist: %v", p, err)
		}
	}
}

// AssertMissing fails the test if any path exists.
func (h *Harness) AssertMissing(rel ...string) {
	h.t.Helper()
	for _, p := range rel {
		if _, err := os.Lstat(h.Path(p)); err == nil {
			h.t.Errorf("expected %s to be gone", p)
		}
	}
}
