// Package diff launches an external side-by-side diff tool on two files.
package diff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultSizeLimit is the combined size above which a diff asks for confirmation.
const DefaultSizeLimit = 512 * 1024

// Placeholders substituted in a command template.
const (
	LeftPlaceholder  = "{left}"
	RightPlaceholder = "{right}"
)

// ErrNotConfigured is returned when no diff command is set.
var ErrNotConfigured = errors.New("please set side-by-side diff command")

// StartError reports a command that could not be started.
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("Unable to execute '%s': the process cannot be started", e.Command)
}

func (e *StartError) Unwrap() error { return e.Err }

// ExitError reports a command that ran and exited with a nonzero status.
type ExitError struct {
	Command string
	Status  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("Command '%s' finished with status %d", e.Command, e.Status)
}

// Launcher runs a diff command template.
//
// The template is split on whitespace. {left} and {right} are replaced by
// the file paths; a template without placeholders gets both paths appended.
type Launcher struct {
	Command string
	Logger  *slog.Logger
}

// Args expands the template for left and right.
func (l Launcher) Args(left, right string) ([]string, error) {
	fields := strings.Fields(l.Command)
	if len(fields) == 0 {
		return nil, ErrNotConfigured
	}

	substituted := false
	args := make([]string, 0, len(fields)+2)
	for _, f := range fields {
		if strings.Contains(f, LeftPlaceholder) || strings.Contains(f, RightPlaceholder) {
			substituted = true
			f = strings.ReplaceAll(f, LeftPlaceholder, left)
			f = strings.ReplaceAll(f, RightPlaceholder, right)
		}
		args = append(args, f)
	}
	if !substituted {
		args = append(args, left, right)
	}
	return args, nil
}

// Run starts the tool and waits for it to exit.
func (l Launcher) Run(ctx context.Context, left, right string) error {
	args, err := l.Args(left, right)
	if err != nil {
		return err
	}

	log := l.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log.Debug("running diff", "args", args)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return &StartError{Command: l.Command, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: l.Command, Status: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait for %s: %w", args[0], err)
	}
	return nil
}

// TooBig reports whether two files together exceed limit bytes.
// A zero limit disables the check.
func TooBig(a, b, limit uint64) bool {
	return limit > 0 && a+b > limit
}
