// Package console is the terminal front-end of a session: it asks the
// questions a session needs answered and renders the catalog.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ivoronin/dupeview/internal/expander"
	"github.com/ivoronin/dupeview/internal/progress"
)

// Options configures a Console.
type Options struct {
	AssumeYes bool // Answer every prompt affirmatively without asking
	Progress  bool // Show a spinner while busy
}

// Console talks to the user over a line-oriented terminal.
// It implements session.UI.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	opts     Options
	renderer *lipgloss.Renderer
	warnings *color.Color
	bar      *progress.Bar
}

// New creates a Console. Swatches are colored only when out is a terminal.
func New(in io.Reader, out, errOut io.Writer, opts Options) *Console {
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		errOut:   errOut,
		opts:     opts,
		renderer: lipgloss.NewRenderer(out),
		warnings: color.New(color.FgYellow),
		bar:      progress.NewWithWriter(false, errOut),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadLine prints prompt and returns the next input line without its newline.
// io.EOF is returned once input is exhausted.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.bar.Clear()
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Printf writes to the console output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ConfirmExpand asks whether a directory reference should be expanded.
// End of input cancels.
func (c *Console) ConfirmExpand(dir string) expander.Answer {
	if c.opts.AssumeYes {
		return expander.YesToAll
	}
	prompt := fmt.Sprintf("'%s' is a directory.\nDo you want to add all files from this directory? [y]es/[a]ll/[n]o/[c]ancel: ", dir)
	for {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return expander.Cancel
		}
		if answer, ok := parseAnswer(line); ok {
			return answer
		}
	}
}

func parseAnswer(s string) (expander.Answer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return expander.Yes, true
	case "a", "all":
		return expander.YesToAll, true
	case "n", "no":
		return expander.No, true
	case "c", "cancel":
		return expander.Cancel, true
	default:
		return 0, false
	}
}

// confirm asks a yes/no question; anything but yes declines.
func (c *Console) confirm(question string) bool {
	if c.opts.AssumeYes {
		return true
	}
	line, err := c.ReadLine(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ConfirmDelete asks before files are removed from disk.
func (c *Console) ConfirmDelete(n int) bool {
	return c.confirm(fmt.Sprintf("Remove %d file(s) from disk?", n))
}

// ConfirmLargeDiff asks before diffing large files.
func (c *Console) ConfirmLargeDiff(size uint64) bool {
	return c.confirm(fmt.Sprintf("Files are too big (%s)! Show anyway?", humanize.IBytes(size)))
}

// RequestDiffCommand asks for the diff command template.
func (c *Console) RequestDiffCommand(current string) (string, bool) {
	if c.opts.AssumeYes {
		return "", false
	}
	prompt := "Side-by-side diff command ({left} and {right} are replaced by the files): "
	if current != "" {
		prompt = fmt.Sprintf("Side-by-side diff command [%s]: ", current)
	}
	line, err := c.ReadLine(prompt)
	if err != nil {
		return "", false
	}
	if line = strings.TrimSpace(line); line == "" {
		return current, current != ""
	}
	return line, true
}

// Busy starts the spinner. The returned func stops it.
func (c *Console) Busy() func() {
	c.bar = progress.NewWithWriter(c.opts.Progress, c.errOut)
	return func() {
		c.bar.Finish(nil)
		c.bar = progress.NewWithWriter(false, c.errOut)
	}
}

// Done prints the closing summary of an operation. Nothing is printed
// when progress is off.
func (c *Console) Done(s fmt.Stringer) {
	c.bar.Clear()
	progress.NewWithWriter(c.opts.Progress, c.errOut).Finish(s)
}

// Show displays status text. Messages that stay until replaced only
// update the spinner; timed messages are printed as lines.
func (c *Console) Show(text string, d time.Duration) {
	if d == progress.Infinite {
		c.bar.Show(text, d)
		c.bar.Add(1)
		return
	}
	if text == "" {
		return
	}
	c.bar.Clear()
	fmt.Fprintln(c.out, text)
}

// Warn prints the warnings of one batch as a single block.
func (c *Console) Warn(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	c.bar.Clear()
	c.warnings.Fprintln(c.errOut, strings.Join(warnings, "\n"))
}

// Error prints a failed operation.
func (c *Console) Error(err error) {
	c.bar.Clear()
	c.warnings.Fprintln(c.errOut, err.Error())
}
