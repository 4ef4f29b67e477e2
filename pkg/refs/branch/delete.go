package branch

import (
	"context"
	"fmt"

	cerr "github.com/itsSauraj/kit-cat/pkg/common/err"
	"github.com/itsSauraj/kit-cat/pkg/merge"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// Delete removes branch refs, guarding the checked-out branch and
// unmerged work.
type Delete struct {
	repo       *kitrepo.KitcatRepository
	refService *BranchRefManager
}

// NewDelete wires a deleter onto the repository and ref service.
func NewDelete(repo *kitrepo.KitcatRepository, refSvc *BranchRefManager) *Delete {
	return &Delete{
		repo:       repo,
		refService: refSvc,
	}
}

// Delete removes one branch. Without force, the branch must not be the
// checked-out one and must be fully merged into the current branch.
func (d *Delete) Delete(ctx context.Context, name string, config *DeleteConfig) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := ValidateBranchName(name); err != nil {
		return err
	}

	err := d.refService.ValidateExists(name)
	if err != nil {
		return err
	}

	current, err := d.refService.Current()
	if err != nil {
		return fmt.Errorf("get current branch: %w", err)
	}
	if current == name {
		if !config.Force {
			return NewIsCurrentError(name)
		}
		// Forced deletion of the checked-out branch leaves HEAD on an
		// unborn branch.
		if _, err := d.refService.refManager.DeleteRef(d.refService.branchRefPath(name)); err != nil {
			return fmt.Errorf("delete branch: %w", err)
		}
		return nil
	}

	if !config.Force {
		merged, err := d.IsMerged(ctx, name, current)
		if err != nil {
			return fmt.Errorf("check merge status: %w", err)
		}
		if !merged {
			return NewNotMergedError(name)
		}
	}

	if err := d.refService.Delete(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}

	return nil
}

// DeleteMultiple deletes each name, reporting the first failure after
// attempting them all.
func (d *Delete) DeleteMultiple(ctx context.Context, names []string, config *DeleteConfig) error {
	var firstError error

	for _, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.Delete(ctx, name, config); err != nil {
			if firstError == nil {
				firstError = err
			}
		}
	}

	return firstError
}

// IsMerged reports whether branchName's tip is reachable from targetBranch's
// tip, i.e. every commit on branchName is already part of targetBranch's
// history. It reuses the merge engine's ancestor search: branchName is
// merged into targetBranch exactly when their merge base is branchName's
// own tip.
func (d *Delete) IsMerged(ctx context.Context, branchName, targetBranch string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	branchSHA, err := d.refService.Resolve(branchName)
	if err != nil {
		return false, fmt.Errorf("resolve branch: %w", err)
	}

	targetSHA, err := d.refService.Resolve(targetBranch)
	if err != nil {
		return false, fmt.Errorf("resolve target: %w", err)
	}

	if branchSHA == targetSHA {
		return true, nil
	}

	base, err := merge.FindMergeBase(ctx, d.repo, targetSHA, branchSHA)
	if err != nil {
		if cerr.IsCode(err, cerr.CodeNoCommonAncestor) {
			return false, nil
		}
		return false, fmt.Errorf("find merge base: %w", err)
	}

	return base == branchSHA, nil
}
