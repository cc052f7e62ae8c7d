//go:build unix

package expander

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ivoronin/dupeview/internal/testfs"
)

// recorder answers prompts from a script and remembers what was asked.
type recorder struct {
	answers []Answer
	asked   []string
}

func (r *recorder) ConfirmExpand(dir string) Answer {
	r.asked = append(r.asked, dir)
	if len(r.answers) == 0 {
		return Yes
	}
	a := r.answers[0]
	r.answers = r.answers[1:]
	return a
}

func oneByte(p rune) []testfs.Chunk { return []testfs.Chunk{{Pattern: p, Size: "1"}} }

// =============================================================================
// Section 1: Reference Dispatch
// =============================================================================

// TestExpandRegularFile tests that a file reference is yielded as-is.
func TestExpandRegularFile(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Files: []testfs.File{{Path: []string{"a.txt"}, Chunks: oneByte('a')}}})
	r := &recorder{}

	res := New(nil, r, nil).Expand(context.Background(), []string{h.Path("a.txt")})

	if !slices.Equal(res.Paths, h.Paths("a.txt")) {
		t.Errorf("Paths = %v, want %v", res.Paths, h.Paths("a.txt"))
	}
	if len(r.asked) != 0 {
		t.Errorf("files must not prompt, asked %v", r.asked)
	}
	if len(res.Warnings) != 0 || res.Cancelled {
		t.Errorf("unexpected warnings %v / cancelled %v", res.Warnings, res.Cancelled)
	}
}

// TestExpandMissingReference tests the "Cannot add" warning.
func TestExpandMissingReference(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Files: []testfs.File{{Path: []string{"ok.txt"}, Chunks: oneByte('o')}}})
	missing := h.Path("missing")

	res := New(nil, nil, nil).Expand(context.Background(), []string{missing, h.Path("ok.txt")})

	want := []string{"Cannot add '" + missing + "'"}
	if !slices.Equal(res.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", res.Warnings, want)
	}
	if !slices.Equal(res.Paths, h.Paths("ok.txt")) {
		t.Errorf("processing should continue after a bad reference, got %v", res.Paths)
	}
}

// TestExpandDanglingSymlinkReference tests a broken link passed as a reference.
func TestExpandDanglingSymlinkReference(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Symlinks: []testfs.Symlink{{Path: "dangling", Target: "nowhere"}}})

	res := New(nil, nil, nil).Expand(context.Background(), []string{h.Path("dangling")})

	if len(res.Paths) != 0 || len(res.Warnings) != 1 {
		t.Errorf("expected one warning and no paths, got %v / %v", res.Paths, res.Warnings)
	}
}

// TestExpandRelativeReference tests that relative references are made absolute.
func TestExpandRelativeReference(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Files: []testfs.File{{Path: []string{"rel.txt"}, Chunks: oneByte('r')}}})
	t.Chdir(h.Root())

	res := New(nil, nil, nil).Expand(context.Background(), []string{"rel.txt"})

	if len(res.Paths) != 1 || !filepath.IsAbs(res.Paths[0]) {
		t.Errorf("expected one absolute path, got %v", res.Paths)
	}
}

// =============================================================================
// Section 2: Directory Expansion
// =============================================================================

func nestedTree() testfs.FileTree {
	return testfs.FileTree{
		Files: []testfs.File{
			{Path: []string{"d/a", "d/b", "d/.hidden"}, Chunks: oneByte('x')},
			{Path: []string{"d/sub/c", "d/sub/d"}, Chunks: oneByte('y')},
		},
	}
}

// TestExpandDirectoryYesToAll tests 3 files + 1 subdirectory with 2 files,
// answered YesToAll: 5 files and no further prompts.
func TestExpandDirectoryYesToAll(t *testing.T) {
	h := testfs.New(t, nestedTree())
	r := &recorder{answers: []Answer{YesToAll}}

	res := New(nil, r, nil).Expand(context.Background(), []string{h.Path("d")})

	want := h.Paths("d/.hidden", "d/a", "d/b", "d/sub/c", "d/sub/d")
	if !slices.Equal(res.Paths, want) {
		t.Errorf("Paths = %v, want %v", res.Paths, want)
	}
	if len(r.asked) != 1 {
		t.Errorf("expected exactly one prompt, got %v", r.asked)
	}
}

// TestExpandYesToAllSuppressesLaterPrompts tests that YesToAll sticks for the batch.
func TestExpandYesToAllSuppressesLaterPrompts(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"one/a", "two/b", "three/c"}, Chunks: oneByte('z')}},
	})
	r := &recorder{answers: []Answer{YesToAll}}

	res := New(nil, r, nil).Expand(context.Background(), h.Paths("one", "two", "three"))

	if len(res.Paths) != 3 {
		t.Errorf("expected 3 files, got %v", res.Paths)
	}
	if !slices.Equal(r.asked, h.Paths("one")) {
		t.Errorf("only the first directory should prompt, asked %v", r.asked)
	}
}

// TestExpandYesPromptsEveryDirectory tests that plain Yes does not stick.
func TestExpandYesPromptsEveryDirectory(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"one/a", "two/b"}, Chunks: oneByte('z')}},
	})
	r := &recorder{answers: []Answer{Yes, Yes}}

	New(nil, r, nil).Expand(context.Background(), h.Paths("one", "two"))

	if len(r.asked) != 2 {
		t.Errorf("expected 2 prompts, got %v", r.asked)
	}
}

// TestExpandNoSkipsDirectory tests that No skips only that directory.
func TestExpandNoSkipsDirectory(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"one/a", "two/b", "f"}, Chunks: oneByte('z')}},
	})
	r := &recorder{answers: []Answer{No, Yes}}

	res := New(nil, r, nil).Expand(context.Background(), h.Paths("one", "two", "f"))

	want := h.Paths("two/b", "f")
	if !slices.Equal(res.Paths, want) {
		t.Errorf("Paths = %v, want %v", res.Paths, want)
	}
	if res.Cancelled {
		t.Error("No must not cancel")
	}
}

// TestExpandCancelStopsBatch tests that Cancel aborts remaining references
// while keeping what was already collected.
func TestExpandCancelStopsBatch(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"f1", "one/a", "f2"}, Chunks: oneByte('z')}},
	})
	r := &recorder{answers: []Answer{Cancel}}

	res := New(nil, r, nil).Expand(context.Background(), h.Paths("f1", "one", "f2"))

	if !res.Cancelled {
		t.Error("expected Cancelled")
	}
	if !slices.Equal(res.Paths, h.Paths("f1")) {
		t.Errorf("Paths = %v, want only f1", res.Paths)
	}
}

// TestExpandEmptyDirectory tests that an empty directory yields nothing.
func TestExpandEmptyDirectory(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Dirs: []string{"empty/deeper"}})

	res := New(nil, nil, nil).Expand(context.Background(), h.Paths("empty"))

	if len(res.Paths) != 0 || len(res.Warnings) != 0 {
		t.Errorf("expected nothing, got %v / %v", res.Paths, res.Warnings)
	}
}

// TestExpandHiddenExcluded tests the includeHidden=false filesystem.
func TestExpandHiddenExcluded(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"d/.dot", "d/.git/config", "d/visible"}, Chunks: oneByte('h')}},
	})

	res := New(NewOSFilesystem(false), nil, nil).Expand(context.Background(), h.Paths("d"))

	if !slices.Equal(res.Paths, h.Paths("d/visible")) {
		t.Errorf("Paths = %v, want only visible", res.Paths)
	}
}

// TestExpandSymlinks tests that links to files are kept and links to directories are not followed.
func TestExpandSymlinks(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{
		Files: []testfs.File{{Path: []string{"d/real", "other/inside"}, Chunks: oneByte('s')}},
		Symlinks: []testfs.Symlink{
			{Path: "d/filelink", Target: "real"},
			{Path: "d/dirlink", Target: "../other"},
			{Path: "d/broken", Target: "missing"},
		},
	})

	res := New(nil, nil, nil).Expand(context.Background(), h.Paths("d"))

	want := h.Paths("d/filelink", "d/real")
	if !slices.Equal(res.Paths, want) {
		t.Errorf("Paths = %v, want %v", res.Paths, want)
	}
}

// TestExpandUnreadableSubdirectory tests that a permission error is a warning, not an abort.
func TestExpandUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores permissions")
	}
	h := testfs.New(t, testfs.FileTree{
		Files:      []testfs.File{{Path: []string{"d/a", "d/locked/secret", "d/z"}, Chunks: oneByte('p')}},
		Unreadable: []string{"d/locked"},
	})

	res := New(nil, nil, nil).Expand(context.Background(), h.Paths("d"))

	if !slices.Equal(res.Paths, h.Paths("d/a", "d/z")) {
		t.Errorf("Paths = %v", res.Paths)
	}
	want := []string{"Cannot add '" + h.Path("d/locked") + "'"}
	if !slices.Equal(res.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", res.Warnings, want)
	}
}

// TestExpandContextCancelled tests cancellation between references.
func TestExpandContextCancelled(t *testing.T) {
	h := testfs.New(t, testfs.FileTree{Files: []testfs.File{{Path: []string{"a"}, Chunks: oneByte('c')}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(nil, nil, nil).Expand(ctx, h.Paths("a"))

	if !res.Cancelled || len(res.Paths) != 0 {
		t.Errorf("expected cancelled empty result, got %+v", res)
	}
}

// TestAnswerString tests answer labels.
func TestAnswerString(t *testing.T) {
	for a, want := range map[Answer]string{Yes: "yes", YesToAll: "yes to all", No: "no", Cancel: "cancel"} {
		if a.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(a), a.String(), want)
		}
	}
}
