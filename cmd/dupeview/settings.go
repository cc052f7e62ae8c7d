package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/dupeview/internal/catalog"
	"github.com/ivoronin/dupeview/internal/settings"
)

// newSettingsCmd creates the settings subcommand tree.
func newSettingsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		Long: `Settings are kept in the file named by settings_file in the config.

Keys:
  diff/command   side-by-side diff command; {left} and {right} are replaced by
                 the files, otherwise both are appended
  view/sort      table sort, e.g. size:desc or none
  view/columns   comma-separated table columns: name, dir, size, modified, hash`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored settings",
			Args:  cobra.NoArgs,
			RunE: withApp(global, func(_ *cobra.Command, a *app, _ []string) error {
				entries, err := a.store.List()
				if err != nil {
					return err
				}
				for _, e := range entries {
					a.console.Printf("%s = %s\n", e.Key, e.Value)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(global, func(_ *cobra.Command, a *app, args []string) error {
				v, found, err := a.store.Get(args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s is not set", args[0])
				}
				a.console.Printf("%s\n", v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set <key> [value...]",
			Short: "Change one setting; no value clears it",
			Args:  cobra.MinimumNArgs(1),
			RunE: withApp(global, func(_ *cobra.Command, a *app, args []string) error {
				key, value := args[0], strings.Join(args[1:], " ")
				if err := validateSetting(key, value); err != nil {
					return err
				}
				return a.store.Set(key, value)
			}),
		},
	)

	return cmd
}

// validateSetting rejects values the views could not use.
func validateSetting(key, value string) error {
	if value == "" {
		return nil
	}
	switch key {
	case settings.ViewSort:
		_, err := catalog.ParseSortState(value)
		return err
	case settings.ViewColumns:
		_, err := parseColumns(value)
		return err
	default:
		return nil
	}
}
