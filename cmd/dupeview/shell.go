package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/session"
	"github.com/ivoronin/dupeview/internal/settings"
)

const shellHelp = `Commands:
  add <paths...>      collect files and directories
  ls                  show the catalog
  sort <column>       sort by column; the third click on a column turns sorting off
  next                select the next group of identical files
  select <rows...>    select rows, e.g. "select 1 4-6"
  rm [rows...]        remove rows from the list (default: selection)
  del [rows...]       delete files from disk (default: selection)
  diff [rows...]      compare two files side by side (default: selection)
  help                show this help
  quit                leave
`

// newShellCmd creates the interactive shell subcommand.
func newShellCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [paths...]",
		Short: "Browse collected files interactively",
		RunE: withApp(global, func(cmd *cobra.Command, a *app, args []string) error {
			sort, err := a.sortState("")
			if err != nil {
				return err
			}
			cols, err := a.columns("")
			if err != nil {
				return err
			}
			sh := &shell{app: a, sess: a.newSession(), sort: sort, cols: cols}
			return sh.run(cmd.Context(), args)
		}),
	}
}

// shell is one interactive browsing session.
type shell struct {
	app  *app
	sess *session.Session
	sort catalog.SortState
	cols []catalog.Column
}

// errQuit ends the loop.
var errQuit = errors.New("quit")

func (s *shell) run(ctx context.Context, initial []string) error {
	if len(initial) > 0 {
		s.report(s.add(ctx, initial))
	}
	for ctx.Err() == nil {
		line, err := s.app.console.ReadLine("dupeview> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		err = s.exec(ctx, strings.Fields(line))
		if errors.Is(err, errQuit) {
			return nil
		}
		s.report(err)
	}
	return nil
}

// report prints a failed command and keeps the shell running.
func (s *shell) report(err error) {
	if err != nil {
		s.app.console.Error(err)
	}
}

func (s *shell) exec(ctx context.Context, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "add":
		if len(args) == 0 {
			return errors.New("usage: add <paths...>")
		}
		return s.add(ctx, args)
	case "ls":
		s.list()
		return nil
	case "sort":
		return s.sortBy(args)
	case "next":
		if s.sess.NextDuplicates().Found {
			s.list()
		}
		return nil
	case "select":
		rows, err := parseRows(args, s.sess.Catalog().RowCount())
		if err != nil {
			return err
		}
		return s.sess.Select(rows)
	case "rm":
		rows, err := s.rows(args)
		if err != nil {
			return err
		}
		return s.sess.Remove(rows)
	case "del":
		rows, err := s.rows(args)
		if err != nil {
			return err
		}
		n, err := s.sess.Delete(rows)
		if n > 0 {
			s.app.console.Printf("Removed %d file(s)\n", n)
		}
		if errors.Is(err, session.ErrCancelled) {
			return nil
		}
		return err
	case "diff":
		rows, err := s.rows(args)
		if err != nil {
			return err
		}
		if err := s.sess.Diff(ctx, rows); err != nil && !errors.Is(err, session.ErrCancelled) && !errors.Is(err, session.ErrNothingSelected) {
			return err
		}
		return nil
	case "help", "?":
		s.app.console.Printf("%s", shellHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", name)
	}
}

func (s *shell) add(ctx context.Context, paths []string) error {
	res, err := s.sess.Add(ctx, paths)
	if err != nil {
		return err
	}
	s.app.console.Done(res.Collected)
	if res.Cancelled {
		s.app.console.Printf("Cancelled; kept %d file(s)\n", res.Added)
	}
	return nil
}

// rows parses args, defaulting to the current selection.
func (s *shell) rows(args []string) ([]int, error) {
	if len(args) == 0 {
		return s.sess.Selection(), nil
	}
	return parseRows(args, s.sess.Catalog().RowCount())
}

func (s *shell) list() {
	cat := s.sess.Catalog()
	s.app.console.Table(cat, cat.View(s.sort), s.sess.Selection(), s.cols)
}

func (s *shell) sortBy(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sort <column>")
	}
	col, err := catalog.ParseColumn(args[0])
	if err != nil {
		return err
	}
	s.sort = s.sort.Click(col)
	if err := s.app.store.Set(settings.ViewSort, s.sort.String()); err != nil {
		return err
	}
	s.app.console.Printf("Sorted by %s\n", s.sort)
	s.list()
	return nil
}
