package branch

import (
	"context"
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

// Checkout moves the repository onto a branch or commit: the working
// directory and index follow the target tree, then HEAD is repointed.
type Checkout struct {
	repo           *kitrepo.KitcatRepository
	refService     *BranchRefManager
	creator        *Creator
	workdirManager *workdir.Manager
}

func NewCheckout(
	repo *kitrepo.KitcatRepository,
	refSvc *BranchRefManager,
	creator *Creator,
	workdirMgr *workdir.Manager,
) *Checkout {
	return &Checkout{
		repo:           repo,
		refService:     refSvc,
		creator:        creator,
		workdirManager: workdirMgr,
	}
}

// Checkout switches to target: a branch name, a full commit hash, or
// an abbreviated one. The working tree moves first; HEAD only changes
// once that succeeded, so a refused checkout leaves HEAD untouched.
func (co *Checkout) Checkout(ctx context.Context, target string, config *CheckoutConfig) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if config.Orphan {
		return co.checkoutOrphan(ctx, target)
	}

	targetSHA, isBranch, err := co.resolveTarget(target, config)
	if err != nil {
		return err
	}

	updateOpts := []workdir.Option{}
	if config.Force {
		updateOpts = append(updateOpts, workdir.WithForce())
	}

	result, err := co.workdirManager.UpdateToCommit(ctx, targetSHA, updateOpts...)
	if err != nil {
		return fmt.Errorf("update working directory: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("failed to update working directory: %v", result.Err)
	}

	if config.Detach || !isBranch {
		if err := co.refService.SetHeadDetached(targetSHA); err != nil {
			return fmt.Errorf("set detached HEAD: %w", err)
		}
	} else {
		if err := co.refService.SetHead(target); err != nil {
			return fmt.Errorf("set HEAD to branch: %w", err)
		}
	}

	return nil
}

// resolveTarget maps target to (commit, isBranch). Branch names win;
// anything hash-shaped falls back to object-store resolution so short
// prefixes work.
func (co *Checkout) resolveTarget(target string, config *CheckoutConfig) (objects.ObjectHash, bool, error) {
	if err := ValidateBranchName(target); err == nil {
		exists, err := co.refService.Exists(target)
		if err != nil {
			return "", false, fmt.Errorf("check branch exists: %w", err)
		}

		if exists {
			sha, err := co.refService.Resolve(target)
			if err != nil {
				return "", false, fmt.Errorf("resolve branch: %w", err)
			}
			return sha, true, nil
		}

		if config.Create {
			createConfig := &CreateConfig{}
			info, err := co.creator.Create(context.Background(), target, createConfig)
			if err != nil {
				return "", false, fmt.Errorf("create branch: %w", err)
			}
			return info.SHA, true, nil
		}

		// Not a branch; maybe an abbreviated hash that also passed the
		// name rules.
		if sha, err := resolveCommit(target, co.repo); err == nil {
			return sha, false, nil
		}

		return "", false, NewNotFoundError(target)
	}

	sha, err := resolveCommit(target, co.repo)
	if err != nil {
		return "", false, err
	}

	if _, err := co.repo.ReadCommitObject(sha); err != nil {
		return "", false, fmt.Errorf("commit %s does not exist: %w", sha.Short(), err)
	}

	return sha, false, nil
}

// checkoutOrphan starts a parentless branch.
func (co *Checkout) checkoutOrphan(ctx context.Context, branchName string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := co.creator.CreateOrphan(ctx, branchName); err != nil {
		return fmt.Errorf("create orphan branch: %w", err)
	}

	return nil
}

// CheckoutCommit detaches HEAD at sha.
func (co *Checkout) CheckoutCommit(ctx context.Context, sha objects.ObjectHash, force bool) error {
	config := &CheckoutConfig{
		Force:  force,
		Detach: true,
	}

	return co.Checkout(ctx, sha.String(), config)
}

// CheckoutBranch switches to branchName.
func (co *Checkout) CheckoutBranch(ctx context.Context, branchName string, force bool) error {
	config := &CheckoutConfig{
		Force:  force,
		Detach: false,
	}

	return co.Checkout(ctx, branchName, config)
}
