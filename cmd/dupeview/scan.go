package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ivoronin/dupeview/internal/navigator"
)

// scanOptions holds CLI flags for the scan command.
type scanOptions struct {
	sort    string
	columns string
	noTable bool
}

// newScanCmd creates the scan subcommand.
func newScanCmd(global *globalOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Collect files and list groups of identical ones",
		Long: `Collects the given files and directories, prints the catalog with one color
per distinct content and then every group of identical files.

Directories are expanded after confirmation; use --yes to add them all.`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(global, func(cmd *cobra.Command, a *app, args []string) error {
			return runScan(cmd.Context(), a, args, opts)
		}),
	}

	cmd.Flags().StringVarP(&opts.sort, "sort", "s", "", "Sort the table, e.g. size:desc (default: stored view/sort)")
	cmd.Flags().StringVar(&opts.columns, "columns", "", "Comma-separated table columns (default: stored view/columns)")
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "Print only the duplicate groups")

	return cmd
}

// runScan collects paths, prints the table and then each duplicate group.
func runScan(ctx context.Context, a *app, paths []string, opts *scanOptions) error {
	sort, err := a.sortState(opts.sort)
	if err != nil {
		return err
	}
	cols, err := a.columns(opts.columns)
	if err != nil {
		return err
	}

	sess := a.newSession()
	res, err := sess.Add(ctx, paths)
	if err != nil {
		return err
	}
	a.log.Debug("scan collected", "summary", res.Collected.String())
	a.console.Done(res.Collected)

	cat := sess.Catalog()
	if !opts.noTable {
		a.console.Table(cat, cat.View(sort), nil, cols)
	}

	// Walk the groups once from the top. A row already printed as a
	// match is not printed again as an anchor.
	shown := make(map[int]bool)
	for anchor := navigator.NoAnchor; ; {
		group := navigator.Next(cat, anchor)
		if !group.Found {
			break
		}
		anchor = group.Anchor
		if shown[anchor] {
			continue
		}
		for _, r := range group.Rows {
			shown[r] = true
		}
		a.console.Printf("\n")
		a.console.Group(cat, group.Rows)
	}
	return nil
}
