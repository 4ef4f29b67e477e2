package branch

import (
	"context"
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// Creator makes branch refs, validating the start point first.
type Creator struct {
	repo        *kitrepo.KitcatRepository
	refService  *BranchRefManager
	infoService *InfoService
}

// NewCreator wires a creator onto the ref and info services.
func NewCreator(repo *kitrepo.KitcatRepository, refSvc *BranchRefManager, infoSvc *InfoService) *Creator {
	return &Creator{
		repo:        repo,
		refService:  refSvc,
		infoService: infoSvc,
	}
}

// Create makes a branch at the configured start point (HEAD by
// default) and returns its info.
func (c *Creator) Create(ctx context.Context, name string, config *CreateConfig) (*BranchInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !config.Force {
		if err := c.validateNotExists(name); err != nil {
			return nil, err
		}
	}

	startSha, err := c.resolveStartPoint(config.StartPoint)
	if err != nil {
		return nil, fmt.Errorf("resolve start point: %w", err)
	}

	if err := c.verifyCommitExists(startSha); err != nil {
		return nil, fmt.Errorf("verify commit: %w", err)
	}

	if err := c.createOrUpdate(name, startSha, config.Force); err != nil {
		return nil, err
	}

	return c.infoService.GetInfo(ctx, name)

}

func (c *Creator) createOrUpdate(name string, startSha objects.ObjectHash, force bool) error {
	if force {
		if err := c.refService.Update(name, startSha, true); err != nil {
			return fmt.Errorf("update branch: %w", err)
		}
		return nil
	}

	if err := c.refService.Create(name, startSha); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// resolveStartPoint maps the configured start point, or HEAD, to a
// commit.
func (c *Creator) resolveStartPoint(startPoint string) (objects.ObjectHash, error) {
	headSHA, err := c.refService.GetHeadSHA()
	if err != nil {
		return "", fmt.Errorf("get HEAD SHA: %w", err)
	}

	options := ResolveOptions{
		DefaultValue: headSHA,
	}

	result, err := ResolveRefOrCommit(startPoint, c.refService, c.repo, options)
	if err != nil {
		return "", err
	}

	return result.SHA, nil
}

// verifyCommitExists refuses to root a branch at a missing object.
func (c *Creator) verifyCommitExists(sha objects.ObjectHash) error {
	exists, err := c.repo.ObjectStore().HasObject(sha)
	if err != nil {
		return fmt.Errorf("check commit %s: %w", sha.Short(), err)
	}
	if !exists {
		return fmt.Errorf("commit %s does not exist", sha.Short())
	}
	return nil
}

// CreateOrphan points HEAD at a branch that has no ref yet; the first
// commit will create it parentless.
func (c *Creator) CreateOrphan(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := c.validateNotExists(name); err != nil {
		return err
	}

	// Only HEAD moves; the branch ref appears with the first commit.
	if err := c.refService.SetHeadUnborn(name); err != nil {
		return fmt.Errorf("create orphan branch: %w", err)
	}

	return nil
}

func (c *Creator) validateNotExists(name string) error {
	exists, err := c.refService.Exists(name)
	if err != nil {
		return fmt.Errorf("check branch exists: %w", err)
	}
	if exists {
		return NewAlreadyExistsError(name)
	}

	return nil
}
