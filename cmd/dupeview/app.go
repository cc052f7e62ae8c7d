package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/config"
	"github.com/ivoronin/dupeview/internal/console"
	"github.com/ivoronin/dupeview/internal/expander"
	"github.com/ivoronin/dupeview/internal/logging"
	"github.com/ivoronin/dupeview/internal/session"
	"github.com/ivoronin/dupeview/internal/settings"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath string
	workers    int
	noProgress bool
	assumeYes  bool
	verbose    bool
}

// app is the wiring shared by the subcommands of one invocation.
type app struct {
	cfg       *config.Config
	store     *settings.Store
	log       *slog.Logger
	console   *console.Console
	sizeLimit uint64
}

// streams are the process streams; tests replace them.
var streams = struct {
	in       io.Reader
	out, err io.Writer
}{os.Stdin, os.Stdout, os.Stderr}

// newApp loads the config, applies flags that were set explicitly and
// opens the settings store. The caller must Close the app.
func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.noProgress {
		cfg.Progress = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limit, err := cfg.SizeLimit()
	if err != nil {
		return nil, err
	}

	log := logging.New(streams.err, opts.verbose)
	log.Debug("config loaded", "path", path, "workers", cfg.Workers, "settings", cfg.SettingsFile)

	store, err := settings.Open(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}

	interactive := isTerminal(streams.err)
	return &app{
		cfg:   cfg,
		store: store,
		log:   log,
		console: console.New(streams.in, streams.out, streams.err, console.Options{
			AssumeYes: opts.assumeYes,
			Progress:  cfg.Progress && interactive,
		}),
		sizeLimit: limit,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && console.IsTerminal(f)
}

// Close releases the settings store.
func (a *app) Close() error { return a.store.Close() }

// newSession creates a session driven by the console.
func (a *app) newSession() *session.Session {
	opts := session.Options{
		UI:            a.console,
		Settings:      a.store,
		DiffSizeLimit: a.sizeLimit,
		Logger:        a.log,
	}
	opts.Collector.Workers = a.cfg.Workers
	opts.Collector.Filesystem = expander.NewOSFilesystem(a.cfg.IncludeHidden)
	return session.New(opts)
}

// sortState returns the persisted sort, or override when given.
func (a *app) sortState(override string) (catalog.SortState, error) {
	if override != "" {
		return catalog.ParseSortState(override)
	}
	s, err := catalog.ParseSortState(a.store.Value(settings.ViewSort))
	if err != nil {
		a.log.Warn("ignoring stored sort", "err", err)
		return catalog.SortState{}, nil
	}
	return s, nil
}

// columns returns the persisted column list, or override when given.
func (a *app) columns(override string) ([]catalog.Column, error) {
	if override != "" {
		return parseColumns(override)
	}
	stored := a.store.Value(settings.ViewColumns)
	if stored == "" {
		return catalog.Columns, nil
	}
	cols, err := parseColumns(stored)
	if err != nil {
		a.log.Warn("ignoring stored columns", "err", err)
		return catalog.Columns, nil
	}
	return cols, nil
}

// withApp adapts a function needing an app to cobra's RunE.
func withApp(opts *globalOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, a, args)
	}
}

// printError writes a command failure to stderr.
func printError(err error) {
	color.New(color.FgRed).Fprintln(streams.err, "error: "+err.Error())
}
