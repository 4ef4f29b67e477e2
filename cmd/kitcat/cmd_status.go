package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the working tree status",
		Long: `Compare HEAD, the index, and the working tree, listing staged
changes, unstaged changes, untracked files, and unresolved conflicts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			branchMgr := branch.NewManager(repo)
			currentBranch, err := branchMgr.CurrentBranch()
			if err != nil {
				return fmt.Errorf("failed to read HEAD: %w", err)
			}

			// Empty on a detached HEAD or unborn branch.
			headCommit, _ := branchMgr.CurrentCommit()

			manager := workdir.NewManager(repo)
			status, err := manager.FullStatus(context.Background(), headCommit)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			fmt.Println(renderHeader(" Repository Status "))
			if currentBranch != "" {
				fmt.Printf("%s %s\n\n", colorCyan(IconBranch), colorBlue("Branch: "+currentBranch))
			} else {
				fmt.Printf("%s %s\n\n", colorCyan(IconBranch), colorYellow("HEAD detached at "+string(headCommit.Short())))
			}

			if len(status.Conflicted) > 0 {
				fmt.Println(renderSection("Unmerged paths:"))
				fmt.Println(colorYellow("  (fix conflicts and run \"kitcat add <file>\", then \"kitcat merge --continue\")"))
				for _, path := range status.Conflicted {
					fmt.Printf("  %s %s\n", colorRed("both modified:"), path)
				}
				fmt.Println()
			}

			printStaged(status)
			printUnstaged(status)
			printUntracked(status)

			if status.IsClean() {
				fmt.Println(colorGreen(fmt.Sprintf("  %s  Working tree clean - nothing to commit", IconCheck)))
			}

			return nil
		},
	}

	return cmd
}

func printStaged(status workdir.TriStatus) {
	if len(status.StagedAdded)+len(status.StagedModified)+len(status.StagedDeleted) == 0 {
		return
	}

	fmt.Println(renderSection("Changes to be committed:"))
	for _, path := range status.StagedAdded {
		fmt.Printf("  %s %s\n", colorGreen("new file:"), path)
	}
	for _, path := range status.StagedModified {
		fmt.Printf("  %s %s\n", colorGreen("modified:"), path)
	}
	for _, path := range status.StagedDeleted {
		fmt.Printf("  %s  %s\n", colorGreen("deleted:"), path)
	}
	fmt.Println()
}

func printUnstaged(status workdir.TriStatus) {
	if len(status.UnstagedModified)+len(status.UnstagedDeleted) == 0 {
		return
	}

	fmt.Println(renderSection("Changes not staged for commit:"))
	fmt.Println(colorYellow("  (use \"kitcat add <file>\" to stage changes)"))
	for _, path := range status.UnstagedModified {
		fmt.Println(formatModified(string(path)))
	}
	for _, path := range status.UnstagedDeleted {
		fmt.Println(formatDeleted(string(path)))
	}
	fmt.Println()
}

func printUntracked(status workdir.TriStatus) {
	if len(status.Untracked) == 0 {
		return
	}

	fmt.Println(renderSection("Untracked files:"))
	fmt.Println(colorYellow("  (use \"kitcat add <file>\" to include them)"))
	for _, path := range status.Untracked {
		fmt.Println(formatUntracked(string(path)))
	}
	fmt.Println()
}
