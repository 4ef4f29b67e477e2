package branch

import (
	"context"
	"fmt"
	"runtime"

	pool "github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/merge"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"golang.org/x/sync/errgroup"
)

// InfoService assembles the per-branch metadata `branch -v` shows.
type InfoService struct {
	repo *kitrepo.KitcatRepository
	rs   *BranchRefManager
}

// NewInfoService wires an info service onto the repo and ref layer.
func NewInfoService(repo *kitrepo.KitcatRepository, refSvc *BranchRefManager) *InfoService {
	return &InfoService{
		repo: repo,
		rs:   refSvc,
	}
}

// GetInfo loads one branch's full info, tip commit details included.
func (is *InfoService) GetInfo(ctx context.Context, name string) (*BranchInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := is.rs.ValidateExists(name); err != nil {
		return nil, err
	}

	branchSha, err := is.rs.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}

	currentBranch, err := is.rs.Current()
	if err != nil {
		return nil, fmt.Errorf("get current branch: %w", err)
	}

	info := &BranchInfo{
		Name:            name,
		SHA:             branchSha,
		IsCurrentBranch: name == currentBranch,
	}

	if err := is.enrichWithCommitInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("enrich branch info: %w", err)
	}

	return info, nil
}

// ListAll loads basic info for every branch. Resolution is filesystem
// I/O per branch, so the branches fan out across a worker pool.
func (is *InfoService) ListAll(ctx context.Context) ([]BranchInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	branchNames, err := is.rs.List()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	currentBranch, err := is.rs.Current()
	if err != nil {
		return nil, fmt.Errorf("get current branch: %w", err)
	}

	// Branch resolution is I/O-bound, so oversubscribe the CPU count.
	workerPool := pool.NewWorkerPool[string, BranchInfo](
		pool.WithWorkerCount(runtime.GOMAXPROCS(0) * 2),
	)

	branches, err := workerPool.Process(ctx, branchNames, func(ctx context.Context, name string) (BranchInfo, error) {
		return is.getBranchInfoQuick(name, currentBranch)
	})

	if err != nil {
		return nil, fmt.Errorf("process branches: %w", err)
	}

	return branches, nil
}

// getBranchInfoQuick resolves name and flags the current branch,
// skipping the commit-walk enrichment.
func (is *InfoService) getBranchInfoQuick(name, currentBranch string) (BranchInfo, error) {
	sha, err := is.rs.Resolve(name)
	if err != nil {
		return BranchInfo{}, err
	}

	return BranchInfo{
		Name:            name,
		SHA:             sha,
		IsCurrentBranch: name == currentBranch,
	}, nil
}

// enrichWithCommitInfo fills in tip message, date, and commit count.
func (is *InfoService) enrichWithCommitInfo(ctx context.Context, info *BranchInfo) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	commit, err := is.repo.ReadCommitObject(info.SHA)
	if err != nil {
		return fmt.Errorf("read commit: %w", err)
	}

	if commit == nil {
		return nil
	}

	info.LastCommitMessage = commit.Message
	if commit.Author != nil {
		when := commit.Author.When.Time()
		info.LastCommitDate = &when
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := is.countCommits(ctx, info.SHA)
		if err == nil {
			info.CommitCount = count
		}
		return err
	})

	return g.Wait()
}

// countCommits walks the first-parent chain from startSHA.
func (is *InfoService) countCommits(ctx context.Context, startSHA objects.ObjectHash) (int, error) {
	count := 0
	currentSHA := startSHA

	for currentSHA != "" {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		commit, err := is.repo.ReadCommitObject(currentSHA)
		if err != nil {
			break
		}

		count++

		parents := commit.ParentSHAs
		if len(parents) == 0 {
			break
		}

		currentSHA = parents[0]
	}

	return count, nil
}

// CompareWithBase counts commits each side has beyond their merge
// base, the ahead/behind pair.
func (is *InfoService) CompareWithBase(ctx context.Context, branchName, baseName string) (ahead, behind int, err error) {
	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	default:
	}

	branchSHA, err := is.rs.Resolve(branchName)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve branch: %w", err)
	}

	baseSHA, err := is.rs.Resolve(baseName)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve base: %w", err)
	}

	if branchSHA == baseSHA {
		return 0, 0, nil
	}

	return merge.CountAheadBehind(ctx, is.repo, branchSHA, baseSHA)
}
