package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := &globalOptions{workers: runtime.NumCPU()}

	root := &cobra.Command{
		Use:           "dupeview",
		Short:         "Collect files and step through groups of identical ones",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetArgs(args)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default $XDG_CONFIG_HOME/dupeview/config.toml)")
	flags.IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of files hashed in parallel")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	flags.BoolVarP(&opts.assumeYes, "yes", "y", false, "Answer yes to every prompt")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Write debug logs to stderr")

	root.AddCommand(
		newScanCmd(opts),
		newShellCmd(opts),
		newDiffCmd(opts),
		newSettingsCmd(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		printError(err)
		return 1
	}
	return 0
}
