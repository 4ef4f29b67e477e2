package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/config"
)

func newConfigCmd() *cobra.Command {
	var global bool
	var system bool
	var unset bool
	var listFlag bool

	cmd := &cobra.Command{
		Use:   "config [name] [value]",
		Short: "Get and set repository or global options",
		Long: `Get and set options in the repository, user, or system configuration.

With no value, prints the effective value for name, resolved through the
repository/user/system/builtin hierarchy. With a value, writes name to the
selected level (repository by default).

Examples:
  # Read the effective value of a key
  kitcat config user.name

  # Set a key at the repository level
  kitcat config user.name "Jane Doe"

  # Set a key at the user level
  kitcat config --global user.email jane@example.com

  # Remove a key
  kitcat config --unset user.name

  # List every effective key/value pair
  kitcat config --list`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			mgr := config.NewManager(repo.WorkingDirectory())
			if err := mgr.Load(context.Background()); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			level := config.RepositoryLevel
			switch {
			case global:
				level = config.UserLevel
			case system:
				level = config.SystemLevel
			}

			if listFlag {
				for _, entry := range mgr.List() {
					fmt.Printf("%s=%s\n", entry.Key, entry.Value)
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("configuration key required")
			}
			key := args[0]

			if unset {
				if err := mgr.Unset(key, level); err != nil {
					return fmt.Errorf("unset %s: %w", key, err)
				}
				return nil
			}

			if len(args) == 1 {
				entry := mgr.Get(key)
				if entry == nil {
					return fmt.Errorf("key not found: %s", key)
				}
				fmt.Println(entry.Value)
				return nil
			}

			value := args[1]
			if err := mgr.Set(key, value, level); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Use the user-level configuration file")
	cmd.Flags().BoolVar(&system, "system", false, "Use the system-level configuration file")
	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the given configuration key")
	cmd.Flags().BoolVarP(&listFlag, "list", "l", false, "List all effective configuration entries")

	return cmd
}
