package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool
	var force bool
	var detach bool
	var orphan string
	var file string
	var useOurs bool
	var useTheirs bool

	cmd := &cobra.Command{
		Use:   "checkout <branch-or-commit>",
		Short: "Switch branches or restore working tree files",
		Long: `Switch the working directory and HEAD to a branch or commit.

Examples:
  # Switch to an existing branch
  kitcat checkout main

  # Create and switch to a new branch
  kitcat checkout -b feature-x

  # Check out a specific commit in detached HEAD state
  kitcat checkout abc123

  # Force checkout, discarding local changes
  kitcat checkout -f main

  # Start a new orphan branch with no history
  kitcat checkout --orphan bootstrap

  # Restore a single file from the index, discarding unstaged edits
  kitcat checkout --file path/to/file.go

  # During a conflicted merge, take one side of a conflicted file
  kitcat checkout --ours -- path/to/file.go
  kitcat checkout --theirs -- path/to/file.go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			if useOurs || useTheirs {
				target := file
				if target == "" && len(args) > 0 {
					target = args[0]
				}
				if target == "" {
					return fmt.Errorf("--ours/--theirs requires a path (use --file or a positional argument)")
				}
				stage := workdir.StageOurs
				if useTheirs {
					stage = workdir.StageTheirs
				}
				workdirMgr := workdir.NewManager(repo)
				if err := workdirMgr.RestoreFileStage(kcpath.RelativePath(target), stage); err != nil {
					return fmt.Errorf("failed to restore '%s': %w", target, err)
				}
				side := "ours"
				if useTheirs {
					side = "theirs"
				}
				fmt.Printf("Restored '%s' from %s\n", target, side)
				return nil
			}

			if file != "" {
				workdirMgr := workdir.NewManager(repo)
				if err := workdirMgr.RestoreFile(kcpath.RelativePath(file)); err != nil {
					return fmt.Errorf("failed to restore '%s': %w", file, err)
				}
				fmt.Printf("Restored '%s' from the index\n", file)
				return nil
			}

			manager := branch.NewManager(repo)
			ctx := context.Background()

			if orphan != "" {
				opts := []branch.CheckoutOption{branch.WithOrphan()}
				if err := manager.Checkout(ctx, orphan, opts...); err != nil {
					return fmt.Errorf("failed to create orphan branch: %w", err)
				}
				fmt.Printf("Switched to a new orphan branch '%s'\n", orphan)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("branch or commit required")
			}
			target := args[0]

			opts := []branch.CheckoutOption{}
			if force {
				opts = append(opts, branch.WithForceCheckout())
			}
			if detach {
				opts = append(opts, branch.WithDetach())
			}
			if createBranch {
				opts = append(opts, branch.WithCreateBranch())
			}

			if err := manager.Checkout(ctx, target, opts...); err != nil {
				return fmt.Errorf("failed to checkout '%s': %w", target, err)
			}

			if createBranch {
				fmt.Printf("Switched to a new branch '%s'\n", target)
			} else if detach {
				fmt.Printf("HEAD is now detached at %s\n", target)
			} else {
				fmt.Printf("Switched to branch '%s'\n", target)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "Create the branch if it doesn't exist")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Discard local changes during checkout")
	cmd.Flags().BoolVar(&detach, "detach", false, "Check out in detached HEAD state")
	cmd.Flags().StringVar(&orphan, "orphan", "", "Create a new orphan branch with no history")
	cmd.Flags().StringVar(&file, "file", "", "Restore a single file from the index without moving HEAD")
	cmd.Flags().BoolVar(&useOurs, "ours", false, "Resolve a conflicted path by taking HEAD's side")
	cmd.Flags().BoolVar(&useTheirs, "theirs", false, "Resolve a conflicted path by taking the merged-in side")

	return cmd
}
