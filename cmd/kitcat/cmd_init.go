package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

func newInitCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a new kitcat repository",
		Long: `Initialize a new kitcat repository in the current directory or the
given path, creating the .kitcat metadata directory and its layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}

			repoPath, err := kcpath.NewRepositoryPath(absPath)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			repo := kitrepo.NewKitcatRepository()
			if err := repo.Initialize(repoPath); err != nil {
				return fmt.Errorf("failed to initialize repository: %w", err)
			}

			successStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10"))

			checkMark := lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				Render("✓")

			pathStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color("12")).
				Render(fmt.Sprintf("%s/%s", absPath, kcpath.KitcatDir))

			if bare {
				fmt.Printf("%s %s %s\n", checkMark, successStyle.Render("Initialized empty bare kitcat repository in"), pathStyle)
			} else {
				fmt.Printf("%s %s %s\n", checkMark, successStyle.Render("Initialized empty kitcat repository in"), pathStyle)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Create a bare repository")

	return cmd
}
