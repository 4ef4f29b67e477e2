package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/commitmanager"
	"github.com/itsSauraj/kit-cat/pkg/merge"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

func newMergeCmd() *cobra.Command {
	var message string
	var abort bool
	var continueFlag bool

	cmd := &cobra.Command{
		Use:   "merge <branch-or-commit>",
		Short: "Join two or more development histories together",
		Long: `Merge TARGET into the current branch.

If the merge is a fast-forward, the branch pointer and working directory
are simply moved forward. Otherwise a merge commit is created from the
common ancestor of the two histories. When a path changed differently on
both sides, the merge stops with conflict markers left in the working
tree and in the index (stage 1/2/3 entries) for you to resolve by hand.

Examples:
  # Merge a branch into the current one
  kitcat merge feature-x

  # Finish a merge after resolving conflicts
  kitcat merge --continue

  # Give up on a conflicted merge
  kitcat merge --abort`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			ctx := context.Background()
			refMgr := refs.NewRefManager(repo)
			branchRefMgr := branch.NewBranchRefManager(refMgr)
			engine := merge.NewEngine(repo)

			if abort {
				return runMergeAbort(ctx, branchRefMgr, engine)
			}

			if continueFlag {
				return runMergeContinue(ctx, repo, engine)
			}

			if len(args) == 0 {
				return fmt.Errorf("merge target required")
			}

			return runMerge(ctx, repo, branchRefMgr, engine, args[0], message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Merge commit message")
	cmd.Flags().BoolVar(&abort, "abort", false, "Abort the current conflicted merge")
	cmd.Flags().BoolVar(&continueFlag, "continue", false, "Continue a merge after resolving conflicts")

	return cmd
}

func runMerge(
	ctx context.Context,
	repo *kitrepo.KitcatRepository,
	branchRefMgr *branch.BranchRefManager,
	engine *merge.Engine,
	target, message string,
) error {
	if engine.IsMergeInProgress() {
		return fmt.Errorf("a merge is already in progress; resolve it with --continue or --abort")
	}

	oursSHA, err := branchRefMgr.GetHeadSHA()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	resolved, err := branch.ResolveRefOrCommit(target, branchRefMgr, repo, branch.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("resolve %s: %w", target, err)
	}
	theirsSHA := resolved.SHA

	currentBranch, err := branchRefMgr.Current()
	if err != nil {
		return fmt.Errorf("get current branch: %w", err)
	}

	// The conflict marker is always the literal HEAD; the commit
	// message names the branch being merged into, falling back to
	// HEAD only when detached.
	oursLabel := "HEAD"

	messageTarget := currentBranch
	if messageTarget == "" {
		messageTarget = "HEAD"
	}
	if message == "" {
		message = fmt.Sprintf("Merge branch '%s' into %s", target, messageTarget)
	}

	result, err := engine.Merge(ctx, oursSHA, theirsSHA, oursLabel, target, message)
	if err != nil {
		return fmt.Errorf("merge %s: %w", target, err)
	}

	switch result.Kind {
	case merge.KindUpToDate:
		fmt.Println("Already up to date.")
		return nil

	case merge.KindFastForward:
		return fastForward(ctx, repo, branchRefMgr, currentBranch, oursSHA, theirsSHA)

	case merge.KindClean:
		sha, err := createMergeCommit(ctx, repo, message, theirsSHA)
		if err != nil {
			return err
		}
		fmt.Printf("Merge made by the three-way merge strategy.\n")
		fmt.Printf("[%s] %s\n", sha.Short(), message)
		return nil

	case merge.KindConflicted:
		printConflicts(result)
		return fmt.Errorf("fix conflicts and run \"kitcat merge --continue\" (or \"kitcat merge --abort\")")
	}

	return nil
}

func runMergeContinue(ctx context.Context, repo *kitrepo.KitcatRepository, engine *merge.Engine) error {
	message, err := engine.ReadMergeMsg()
	if err != nil {
		return fmt.Errorf("read pending merge: %w", err)
	}

	theirsSHA, err := engine.Continue(ctx)
	if err != nil {
		return fmt.Errorf("continue merge: %w", err)
	}

	sha, err := createMergeCommit(ctx, repo, message, theirsSHA)
	if err != nil {
		return err
	}

	fmt.Printf("[%s] %s\n", sha.Short(), message)
	return nil
}

func runMergeAbort(ctx context.Context, branchRefMgr *branch.BranchRefManager, engine *merge.Engine) error {
	if !engine.IsMergeInProgress() {
		return fmt.Errorf("no merge in progress")
	}

	oursSHA, err := branchRefMgr.GetHeadSHA()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	if err := engine.Abort(ctx, oursSHA); err != nil {
		return fmt.Errorf("abort merge: %w", err)
	}

	fmt.Println("Merge aborted")
	return nil
}

// fastForward moves the current branch (or detached HEAD) and the working
// directory straight to theirsSHA, mirroring what Checkout does for an
// existing commit - no merge commit is needed.
func fastForward(
	ctx context.Context,
	repo *kitrepo.KitcatRepository,
	branchRefMgr *branch.BranchRefManager,
	currentBranch string,
	oursSHA, theirsSHA objects.ObjectHash,
) error {
	workdirMgr := workdir.NewManager(repo)
	updateResult, err := workdirMgr.UpdateToCommit(ctx, theirsSHA)
	if err != nil {
		return fmt.Errorf("update working directory: %w", err)
	}
	if !updateResult.Success {
		return fmt.Errorf("failed to update working directory: %v", updateResult.Err)
	}

	if currentBranch != "" {
		if err := branchRefMgr.Update(currentBranch, theirsSHA, false); err != nil {
			return fmt.Errorf("advance branch %s: %w", currentBranch, err)
		}
	} else {
		if err := branchRefMgr.SetHeadDetached(theirsSHA); err != nil {
			return fmt.Errorf("set detached HEAD: %w", err)
		}
	}

	fmt.Printf("Fast-forward\nUpdating %s..%s\n", oursSHA.Short(), theirsSHA.Short())
	return nil
}

func createMergeCommit(ctx context.Context, repo *kitrepo.KitcatRepository, message string, theirsSHA objects.ObjectHash) (objects.ObjectHash, error) {
	commitMgr := commitmanager.NewManager(repo)
	if err := commitMgr.Initialize(ctx); err != nil {
		return "", fmt.Errorf("initialize commit manager: %w", err)
	}

	commitObj, err := commitMgr.CreateCommit(ctx, commitmanager.CommitOptions{
		Message:      message,
		ExtraParents: []objects.ObjectHash{theirsSHA},
	})
	if err != nil {
		return "", fmt.Errorf("create merge commit: %w", err)
	}

	sha, err := commitObj.Hash()
	if err != nil {
		return "", fmt.Errorf("compute commit hash: %w", err)
	}
	return sha, nil
}

func printConflicts(result *merge.Result) {
	fmt.Println(colorYellow("Automatic merge failed; fix conflicts and then commit the result."))
	for _, c := range result.Conflicts {
		fmt.Printf("CONFLICT (%s): %s\n", c.Reason, c.Path)
	}
}
