package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivoronin/dupeview/internal/diff"
	"github.com/ivoronin/dupeview/internal/settings"
)

// diffOptions holds CLI flags for the diff command.
type diffOptions struct {
	command string
	limit   string
}

// newDiffCmd creates the diff subcommand.
func newDiffCmd(global *globalOptions) *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two files with the configured side-by-side diff tool",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(global, func(cmd *cobra.Command, a *app, args []string) error {
			return runDiff(cmd.Context(), a, args[0], args[1], opts)
		}),
	}

	cmd.Flags().StringVar(&opts.command, "command", "", "Diff command for this run (default: stored diff/command)")
	cmd.Flags().StringVar(&opts.limit, "limit", "", "Combined size that asks for confirmation (default: config diff_size_limit)")

	return cmd
}

func runDiff(ctx context.Context, a *app, left, right string, opts *diffOptions) error {
	limit := a.sizeLimit
	if opts.limit != "" {
		n, err := parseSize(opts.limit)
		if err != nil {
			return fmt.Errorf("invalid --limit: %w", err)
		}
		limit = n
	}

	command := opts.command
	if command == "" {
		command = a.store.Value(settings.DiffCommand)
	}
	if command == "" {
		return diff.ErrNotConfigured
	}

	var sizes [2]uint64
	paths := [2]string{left, right}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		paths[i], sizes[i] = abs, uint64(info.Size())
	}

	if diff.TooBig(sizes[0], sizes[1], limit) && !a.console.ConfirmLargeDiff(sizes[0]+sizes[1]) {
		return nil
	}
	return diff.Launcher{Command: command, Logger: a.log}.Run(ctx, paths[0], paths[1])
}
