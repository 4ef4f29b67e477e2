package commitmanager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	kiterr "github.com/itsSauraj/kit-cat/pkg/common/err"
	"github.com/itsSauraj/kit-cat/pkg/common/logger"
	"github.com/itsSauraj/kit-cat/pkg/config"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// Manager owns the commit workflow: index snapshot to tree objects,
// parent resolution, commit object, then the branch ref advance, in
// that order, so a crash mid-commit never leaves a ref pointing at
// unwritten objects. Not safe for concurrent use.
type Manager struct {
	repo          *kitrepo.KitcatRepository
	treeBuilder   *TreeBuilder
	refManager    *refs.RefManager
	branchManager *branch.BranchRefManager
	configManager *config.Manager
	typedConfig   *config.TypedConfig
	logger        *slog.Logger
}

// NewManager wires a commit manager onto an opened repository.
func NewManager(repo *kitrepo.KitcatRepository) *Manager {
	refMgr := refs.NewRefManager(repo)
	branchMgr := branch.NewBranchRefManager(refMgr)
	configMgr := config.NewManager(repo.WorkingDirectory())
	typedConfig := config.NewTypedConfig(configMgr)

	return &Manager{
		repo:          repo,
		treeBuilder:   NewTreeBuilder(repo),
		refManager:    refMgr,
		branchManager: branchMgr,
		configManager: configMgr,
		typedConfig:   typedConfig,
		logger:        logger.With("component", "commitmanager"),
	}
}

// Initialize loads config and prepares the ref machinery. Call once,
// right after NewManager.
func (m *Manager) Initialize(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.logger.Info("initializing commit manager")

	if err := m.configManager.Load(ctx); err != nil {
		m.logger.Error("failed to load config", "error", err)
		return fmt.Errorf("load config: %w", err)
	}

	if err := m.refManager.Init(); err != nil {
		m.logger.Error("failed to initialize ref manager", "error", err)
		return fmt.Errorf("init ref manager: %w", err)
	}

	if err := m.branchManager.Init(); err != nil {
		m.logger.Error("failed to initialize branch manager", "error", err)
		return fmt.Errorf("init branch manager: %w", err)
	}

	m.logger.Info("commit manager initialized successfully")
	return nil
}

// CreateCommit turns the staged index into a commit and advances the
// current ref. An empty message is always rejected; an empty index is
// rejected unless AllowEmpty is set.
func (m *Manager) CreateCommit(ctx context.Context, options CommitOptions) (*commit.Commit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := options.Validate(); err != nil {
		m.logger.Error("invalid commit options", "error", err)
		return nil, err
	}

	idx, err := m.readIndex(options.AllowEmpty)
	if err != nil {
		return nil, err
	}

	treeSHA, err := m.treeBuilder.BuildFromIndex(ctx, idx)
	if err != nil {
		return nil, NewCommitError("build tree", err, "")
	}

	parentSHAs, err := m.getParentCommits(ctx, options.Amend, options.ExtraParents)
	if err != nil {
		return nil, NewCommitError("get parents", err, "")
	}

	// A commit whose tree equals its parent's records nothing.
	if !options.AllowEmpty && len(parentSHAs) > 0 {
		parentCommit, err := m.repo.ReadCommitObject(parentSHAs[0])
		if err == nil && parentCommit.TreeSHA == treeSHA {
			return nil, NewCommitError("validate", ErrNoTreeChanges, "")
		}
	}

	commitObj, err := m.createCommit(options, treeSHA, parentSHAs)
	if err != nil {
		return nil, NewCommitError("build commit", err, "")
	}

	commitSHA, err := m.repo.WriteObject(commitObj)
	if err != nil {
		return nil, NewCommitError("write commit", err, "")
	}

	if err := m.updateCurrentRef(ctx, commitSHA); err != nil {
		return nil, NewCommitError("update ref", err, "")
	}

	return commitObj, nil
}

func (m *Manager) readIndex(allowEmpty bool) (*index.Index, error) {
	indexPath := m.repo.KitcatDirectory().IndexPath()
	idx, err := index.Read(indexPath.ToAbsolutePath())
	if err != nil {
		m.logger.Error("failed to read index", "error", err, "path", indexPath)
		return nil, NewCommitError("read index", err, "")
	}

	if idx.Count() == 0 && !allowEmpty {
		// Wrap the sentinel so errors.Is(err, ErrNoChanges) still
		// matches while the code surfaces as INVALID_ARGUMENT.
		return nil, kiterr.New("commitmanager", kiterr.CodeInvalidArgument, "read_index",
			"no changes staged for commit", ErrNoChanges)
	}

	return idx, nil
}

func (m *Manager) createCommit(options CommitOptions, treeSHA objects.ObjectHash, parentSHAs []objects.ObjectHash) (*commit.Commit, error) {
	var err error

	author := options.Author
	if author == nil {
		author, err = m.getCurrentUser()
		if err != nil {
			return nil, NewCommitError("get user", err, "")
		}
	}

	committer := options.Committer
	if committer == nil {
		committer = author
	}

	commitObj, err := commit.NewCommitBuilder().
		TreeHash(treeSHA).
		ParentHashes(parentSHAs...).
		Author(author).
		Committer(committer).
		Message(options.Message).
		Build()
	if err != nil {
		return nil, NewCommitError("build commit", err, "")
	}

	return commitObj, nil
}

// GetCommit loads one commit by hash.
func (m *Manager) GetCommit(ctx context.Context, sha objects.ObjectHash) (*commit.Commit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	commitObj, err := m.repo.ReadCommitObject(sha)
	if err != nil {
		return nil, NewCommitError("read commit", err, sha.Short().String())
	}

	return commitObj, nil
}

// GetHistory lists up to limit commits reachable from startSHA (HEAD
// when empty), in log order: depth-first, first parent first.
func (m *Manager) GetHistory(ctx context.Context, startSHA objects.ObjectHash, limit int) ([]*commit.Commit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	history := make([]*commit.Commit, 0, limit)

	var currentSHA objects.ObjectHash
	if startSHA == "" {
		sha, err := m.branchManager.GetHeadSHA()
		if err != nil {
			return history, nil
		}
		currentSHA = sha
	} else {
		currentSHA = startSHA
	}

	return m.walkHistory(ctx, currentSHA, limit)
}

// walkHistory traverses parents depth-first, first-parent-first, each
// commit at most once. History reads as one mainline, with merged-in
// branches surfacing right after the merge commit that pulled them in.
func (m *Manager) walkHistory(ctx context.Context, currentSHA objects.ObjectHash, limit int) ([]*commit.Commit, error) {
	history := make([]*commit.Commit, 0, limit)
	visited := make(map[string]bool)

	// Explicit stack, not recursion: history depth shouldn't be bound
	// by the call stack. Parents push in reverse so pops come out
	// first-parent-first.
	stack := []objects.ObjectHash{currentSHA}

	for len(stack) > 0 && len(history) < limit {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		sha := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[sha.String()] {
			continue
		}
		visited[sha.String()] = true

		result, err := m.GetCommit(ctx, sha)
		if err != nil {
			continue
		}

		history = append(history, result)

		for i := len(result.ParentSHAs) - 1; i >= 0; i-- {
			parentSHA := result.ParentSHAs[i]
			if !visited[parentSHA.String()] {
				stack = append(stack, parentSHA)
			}
		}
	}

	return history, nil
}

// getParentCommits determines the parent commits for a new commit. A merge
// commit carries HEAD plus every hash in extraParents, in that order, so
// ParentSHAs[0] always remains the first-parent (ours) line of history.
func (m *Manager) getParentCommits(ctx context.Context, amend bool, extraParents []objects.ObjectHash) ([]objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	headSHA, err := m.branchManager.GetHeadSHA()
	if err != nil {
		if len(extraParents) > 0 {
			return nil, fmt.Errorf("merge commit requires a current HEAD commit")
		}
		return []objects.ObjectHash{}, nil
	}

	if amend {
		headCommit, err := m.repo.ReadCommitObject(headSHA)
		if err == nil {
			return headCommit.ParentSHAs, nil
		}
	}

	if len(extraParents) == 0 {
		return []objects.ObjectHash{headSHA}, nil
	}

	parents := make([]objects.ObjectHash, 0, 1+len(extraParents))
	parents = append(parents, headSHA)
	parents = append(parents, extraParents...)
	return parents, nil
}

// getCurrentUser resolves the committing identity: config first, then
// the KITCAT_AUTHOR_* environment overrides, then the GIT_AUTHOR_*
// ones for anyone piping in a real git author environment. No identity
// at all is an InvalidArgument-coded error, not a placeholder commit.
func (m *Manager) getCurrentUser() (*commit.CommitPerson, error) {
	name := m.typedConfig.UserName()
	if name == "" {
		name = os.Getenv("KITCAT_AUTHOR_NAME")
	}
	if name == "" {
		name = os.Getenv("GIT_AUTHOR_NAME")
	}

	email := m.typedConfig.UserEmail()
	if email == "" {
		email = os.Getenv("KITCAT_AUTHOR_EMAIL")
	}
	if email == "" {
		email = os.Getenv("GIT_AUTHOR_EMAIL")
	}

	if name == "" || email == "" {
		return nil, kiterr.New("commitmanager", kiterr.CodeInvalidArgument, "get_user",
			"user identity not configured; set user.name and user.email", nil)
	}

	person, err := commit.NewCommitPerson(name, email, time.Now())
	if err != nil {
		return nil, fmt.Errorf("create commit person: %w", err)
	}

	return person, nil
}

// updateCurrentRef advances the checked-out branch, or creates the
// default branch on the very first commit.
func (m *Manager) updateCurrentRef(ctx context.Context, commitSHA objects.ObjectHash) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	currentBranch, err := m.branchManager.Current()
	if err == nil && currentBranch != "" {
		if err := m.branchManager.Update(currentBranch, commitSHA, false); err != nil {
			return fmt.Errorf("update branch manager for %s: %w", currentBranch, err)
		}
		return nil
	}

	defaultBranch := m.typedConfig.DefaultBranch()
	if defaultBranch == "" {
		defaultBranch = branch.DefaultBranch
	}

	if err := m.branchManager.Update(defaultBranch, commitSHA, false); err != nil {
		return fmt.Errorf("update branch manager for %s: %w", defaultBranch, err)
	}

	return m.branchManager.SetHead(defaultBranch)
}
