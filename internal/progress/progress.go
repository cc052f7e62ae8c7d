// Package progress displays transient status while long operations run.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// Message durations accepted by Reporter.Show.
const (
	Infinite time.Duration = 0               // Stays until replaced or cleared
	Short                  = 2 * time.Second  // Default for one-off notices
	Long                   = 15 * time.Second // Notices that need action
)

// Reporter receives status text. Reporting is purely observational:
// implementations must not block and callers must not depend on them.
type Reporter interface {
	Show(text string, d time.Duration)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Show(string, time.Duration) {}

// Bar wraps progressbar with enabled/disabled handling.
// All methods are no-ops when disabled.
type Bar struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

// New creates a spinner writing to stderr.
// If enabled=false, returns a Bar where all methods are no-ops.
func New(enabled bool) *Bar {
	return NewWithWriter(enabled, os.Stderr)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(enabled bool, w io.Writer) *Bar {
	if !enabled {
		return &Bar{}
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
	}
	return &Bar{bar: progressbar.NewOptions(-1, opts...), w: w}
}

// Add advances the progress bar.
func (b *Bar) Add(n int) {
	if b.bar != nil {
		_ = b.bar.Add(n)
	}
}

// Show implements Reporter. The spinner line is transient, so d is ignored.
func (b *Bar) Show(text string, _ time.Duration) {
	if b.bar != nil {
		b.bar.Describe(text)
	}
}

// Finish completes the progress bar and prints a final message.
// A nil s only clears the bar.
func (b *Bar) Finish(s fmt.Stringer) {
	if b.bar != nil {
		_ = b.bar.Finish()
		if s != nil {
			fmt.Fprintln(b.w, "✔ "+s.String())
		}
	}
}

// Clear erases the bar so other output can be written; the next update redraws it.
func (b *Bar) Clear() {
	if b.bar != nil {
		_ = b.bar.Clear()
	}
}

// Enabled reports whether the bar renders anything.
func (b *Bar) Enabled() bool { return b.bar != nil }
