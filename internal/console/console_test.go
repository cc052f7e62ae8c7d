package console

import (
	"bytes"
	"crypto/sha1" //nolint:gosec
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/expander"
	"github.com/ivoronin/dupeview/internal/progress"
	"github.com/ivoronin/dupeview/internal/types"
)

func newConsole(input string, opts Options) (*Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(strings.NewReader(input), &out, &errOut, opts), &out, &errOut
}

// =============================================================================
// Section 1: Prompts
// =============================================================================

func TestConfirmExpandAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  expander.Answer
	}{
		{"y\n", expander.Yes},
		{"ALL\n", expander.YesToAll},
		{"n\n", expander.No},
		{"c\n", expander.Cancel},
		{"maybe\nno\n", expander.No},
		{"", expander.Cancel},
		{"a", expander.YesToAll},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			c, out, _ := newConsole(tt.input, Options{})

			assert.Equal(t, tt.want, c.ConfirmExpand("/data"))
			assert.Contains(t, out.String(), "'/data' is a directory.")
		})
	}
}

func TestConfirmExpandRepromptsOnGarbage(t *testing.T) {
	c, out, _ := newConsole("what\n?\ny\n", Options{})

	assert.Equal(t, expander.Yes, c.ConfirmExpand("/d"))
	assert.Equal(t, 3, strings.Count(out.String(), "[y]es/[a]ll/[n]o/[c]ancel"))
}

func TestAssumeYes(t *testing.T) {
	c, out, _ := newConsole("", Options{AssumeYes: true})

	assert.Equal(t, expander.YesToAll, c.ConfirmExpand("/d"))
	assert.True(t, c.ConfirmDelete(3))
	assert.True(t, c.ConfirmLargeDiff(1<<20))
	_, ok := c.RequestDiffCommand("")
	assert.False(t, ok)
	assert.Empty(t, out.String(), "nothing is asked")
}

func TestConfirmDelete(t *testing.T) {
	c, out, _ := newConsole("yes\n\n", Options{})

	assert.True(t, c.ConfirmDelete(2))
	assert.False(t, c.ConfirmDelete(2), "empty answer declines")
	assert.Contains(t, out.String(), "Remove 2 file(s) from disk? [y/N]: ")
}

func TestConfirmLargeDiff(t *testing.T) {
	c, out, _ := newConsole("n\n", Options{})

	assert.False(t, c.ConfirmLargeDiff(600*1024))
	assert.Contains(t, out.String(), "Files are too big (600 KiB)! Show anyway?")
}

func TestRequestDiffCommand(t *testing.T) {
	c, _, _ := newConsole("meld {left} {right}\n\n", Options{})

	cmd, ok := c.RequestDiffCommand("")
	require.True(t, ok)
	assert.Equal(t, "meld {left} {right}", cmd)

	cmd, ok = c.RequestDiffCommand("kdiff3")
	assert.True(t, ok, "empty answer keeps the current command")
	assert.Equal(t, "kdiff3", cmd)

	_, ok = c.RequestDiffCommand("")
	assert.False(t, ok, "end of input gives up")
}

// =============================================================================
// Section 2: Status and Warnings
// =============================================================================

func TestShowPrintsTimedMessages(t *testing.T) {
	c, out, errOut := newConsole("", Options{})
	release := c.Busy()

	c.Show("Calculate hash for '/a'...", progress.Infinite)
	c.Show("There are 1/1 unique file(s)", progress.Short)
	release()

	assert.Equal(t, "There are 1/1 unique file(s)\n", out.String())
	assert.Empty(t, errOut.String(), "spinner disabled")
}

func TestBusyWithProgress(t *testing.T) {
	c, _, errOut := newConsole("", Options{Progress: true})
	release := c.Busy()

	c.Show("Calculate hash for '/a'...", progress.Infinite)
	release()

	assert.NotEmpty(t, errOut.String())
	assert.NotContains(t, errOut.String(), "✔")
}

type summary string

func (s summary) String() string { return string(s) }

func TestDonePrintsSummary(t *testing.T) {
	c, out, errOut := newConsole("", Options{Progress: true})
	release := c.Busy()
	c.Show("Calculate hash for '/a'...", progress.Infinite)
	release()

	c.Done(summary("Collected 1 files"))

	assert.Contains(t, errOut.String(), "✔ Collected 1 files")
	assert.Empty(t, out.String())
}

func TestDoneSilentWithoutProgress(t *testing.T) {
	c, out, errOut := newConsole("", Options{})

	c.Done(summary("Collected 1 files"))

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestWarnJoinsBatch(t *testing.T) {
	c, _, errOut := newConsole("", Options{})

	c.Warn([]string{"Cannot add '/x'", "Unable to open '/y'"})
	c.Warn(nil)

	assert.Equal(t, "Cannot add '/x'\nUnable to open '/y'\n", errOut.String())
}

// =============================================================================
// Section 3: Rendering
// =============================================================================

func sampleCatalog() *catalog.Catalog {
	sum := func(s string) types.Fingerprint {
		h := sha1.Sum([]byte(s)) //nolint:gosec
		return h[:]
	}
	c := catalog.New()
	c.Append(
		types.FileRecord{Path: "/data/a.txt", Size: 2048, Fingerprint: sum("x"), ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)},
		types.FileRecord{Path: "/data/b.txt", Size: 2048, Fingerprint: sum("x")},
		types.FileRecord{Path: "/data/broken.bin"},
	)
	return c
}

func lineWith(t *testing.T, out, needle string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("no line contains %q in:\n%s", needle, out)
	return ""
}

func TestTable(t *testing.T) {
	c, out, _ := newConsole("", Options{})
	cat := sampleCatalog()

	c.Table(cat, []int{2, 0, 1}, []int{0}, []catalog.Column{catalog.Name, catalog.Size, catalog.LastModified})

	text := out.String()
	header := lineWith(t, text, "Name")
	assert.Contains(t, header, "Last modified")

	broken := lineWith(t, text, "broken.bin")
	assert.Contains(t, broken, unknownSwatch)

	selected := lineWith(t, text, "a.txt")
	assert.True(t, strings.HasPrefix(selected, "*"), "selected row is marked: %q", selected)
	assert.Contains(t, selected, "white")
	assert.Contains(t, selected, "2.0 KiB")
	assert.Contains(t, selected, "2024-01-02 03:04:05")

	assert.False(t, strings.HasPrefix(lineWith(t, text, "b.txt"), "*"))
	assert.Less(t, strings.Index(text, "broken.bin"), strings.Index(text, "a.txt"), "rows follow the given order")
}

func TestGroup(t *testing.T) {
	c, out, _ := newConsole("", Options{})

	c.Group(sampleCatalog(), []int{0, 1})

	assert.Contains(t, out.String(), "2 files, 2.0 KiB each")
	assert.Contains(t, out.String(), "     0  /data/a.txt\n")
	assert.Contains(t, out.String(), "     1  /data/b.txt\n")
}
