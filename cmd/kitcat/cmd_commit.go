package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/commitmanager"
)

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record changes to the repository",
		Long: `Build a tree from the index and record it as a new commit on the
current branch, with the staged content as the snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			if message == "" {
				return fmt.Errorf("commit message required (use -m flag)")
			}

			ctx := context.Background()
			commitMgr := commitmanager.NewManager(repo)
			if err := commitMgr.Initialize(ctx); err != nil {
				return fmt.Errorf("failed to initialize commit manager: %w", err)
			}

			result, err := commitMgr.CreateCommit(ctx, commitmanager.CommitOptions{
				Message: message,
			})
			if err != nil {
				return fmt.Errorf("failed to create commit: %w", err)
			}

			sha, err := result.Hash()
			if err != nil {
				return fmt.Errorf("compute commit hash: %w", err)
			}
			fmt.Printf("[%s] %s\n", sha.Short(), result.Message)
			fmt.Printf("Author: %s <%s>\n", result.Author.Name, result.Author.Email)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")

	return cmd
}
