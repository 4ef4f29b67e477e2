package workdir

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	cerr "github.com/itsSauraj/kit-cat/pkg/common/err"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/workdir/internal"
)

// Manager synchronizes the working directory with tree snapshots:
// checkout-time file updates, the clean/dirty check status relies on,
// and single-file restores. The heavy lifting is split across the
// internal analyzer/validator/transaction/indexer services.
type Manager struct {
	repo         *kitrepo.KitcatRepository
	fileOps      *internal.FileOps
	treeAnalyzer *internal.Analyzer
	validator    *internal.Validator
	transaction  *internal.Manager
	indexer      *internal.IndexUpdater
	indexPath    kcpath.AbsolutePath
	workDir      string
}

// NewManager wires the synchronizer onto an opened repository.
func NewManager(repo *kitrepo.KitcatRepository) *Manager {
	workDir := repo.WorkingDirectory().String()
	kitDir := repo.KitcatDirectory()
	indexPath := kitDir.IndexPath().ToAbsolutePath()

	fileService := internal.NewFileOps(repo)
	treeAnalyzer := internal.NewAnalyzer(repo)
	workDirValidator := internal.NewValidator(repo.WorkingDirectory())
	txnManager := internal.NewManager(fileService, kitDir)
	indexUpdater := internal.NewUpdater(workDir, indexPath)

	return &Manager{
		repo:         repo,
		fileOps:      fileService,
		treeAnalyzer: treeAnalyzer,
		validator:    workDirValidator,
		transaction:  txnManager,
		indexer:      indexUpdater,
		indexPath:    indexPath,
		workDir:      workDir,
	}
}

// UpdateToCommit moves the working directory to a commit's tree:
// analyze the index-vs-target diff, refuse when uncommitted work would
// be lost (unless forced), apply the file operations transactionally,
// then rewrite the index to match the target.
func (m *Manager) UpdateToCommit(ctx context.Context, commitSHA objects.ObjectHash, opts ...Option) (UpdateResult, error) {
	config := &updateConfig{}
	for _, opt := range opts {
		opt(config)
	}

	analysis, err := m.analyzeChanges(ctx, commitSHA)
	if err != nil {
		return UpdateResult{
			Success: false,
			Err:     fmt.Errorf("analyze changes: %w", err),
		}, err
	}

	if !config.force {
		if err := m.performSafetyChecks(analysis.Operations); err != nil {
			return UpdateResult{
				Success: false,
				Err:     err,
			}, err
		}
	}

	if len(analysis.Operations) == 0 {
		return UpdateResult{
			Success:      true,
			FilesChanged: 0,
			Operations:   []Operation{},
		}, nil
	}

	if config.dryRun {
		return m.performDryRun(analysis.Operations), nil
	}

	txnResult := m.transaction.ExecuteAtomically(ctx, analysis.Operations)
	if !txnResult.Success {
		return UpdateResult{
			Success:      false,
			FilesChanged: txnResult.OperationsApplied,
			Operations:   analysis.Operations,
			Err:          txnResult.Err,
		}, txnResult.Err
	}

	// The working tree is already updated at this point; an index
	// rewrite failure is reported in the result rather than undoing
	// the checkout.
	internalResult, err := m.indexer.UpdateToMatch(analysis.TargetFiles)
	if err != nil || !internalResult.Success {
		indexResult := internalResult
		return UpdateResult{
			Success:      true,
			FilesChanged: txnResult.OperationsApplied,
			Operations:   analysis.Operations,
			IndexUpdate:  &indexResult,
		}, nil
	}

	indexResult := internalResult
	return UpdateResult{
		Success:      true,
		FilesChanged: txnResult.OperationsApplied,
		Operations:   analysis.Operations,
		IndexUpdate:  &indexResult,
	}, nil
}

// RestoreFile copies path's staged blob from the index onto the working
// tree, overwriting whatever is there. It does not touch HEAD or the index -
// callers that want to discard a specific file's unstaged edits use this
// instead of UpdateToCommit, which would move the whole tree.
func (m *Manager) RestoreFile(path kcpath.RelativePath) error {
	return m.RestoreFileStage(path, 0)
}

// Conflict-resolution stages written by the merge engine's three-stage
// index convention (see pkg/merge/engine.go's addConflictStages).
const (
	StageBase   uint8 = 1
	StageOurs   uint8 = 2
	StageTheirs uint8 = 3
)

// RestoreFileStage copies path's blob at the given index stage onto the
// working tree. Stage 0 is the normal (unconflicted) entry; stages 1-3 are
// the base/ours/theirs sides of an unresolved merge conflict, letting a
// caller pick a side with `checkout --ours` / `--theirs` instead of
// hand-editing the conflict markers.
func (m *Manager) RestoreFileStage(path kcpath.RelativePath, stage uint8) error {
	idx, err := index.Read(m.indexPath)
	if err != nil {
		return NewIndexError("read", m.indexPath.String(), err)
	}

	entry, ok := idx.GetStage(path, stage)
	if !ok {
		return NewValidationError(fmt.Sprintf("path '%s' has no stage-%d entry", path, stage), nil, nil)
	}

	op := internal.Operation{
		Path:   path,
		Action: internal.ActionModify,
		SHA:    entry.BlobHash,
		Mode:   objects.FileMode(entry.Mode),
	}

	if err := m.fileOps.ApplyOperation(op); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	return nil
}

// IsClean compares every index entry against the working tree.
func (m *Manager) IsClean() (Status, error) {
	idx, err := index.Read(m.indexPath)
	if err != nil {
		return Status{}, NewIndexError("read", m.indexPath.String(), err)
	}

	internalStatus, err := m.validator.ValidateCleanState(idx)
	if err != nil {
		return Status{}, err
	}
	return internalStatus, nil
}

// performSafetyChecks verifies that checkout won't discard uncommitted work.
// Scoped to the paths the incoming checkout will actually touch (created,
// modified, or deleted operations): a path only blocks the checkout when its
// working-tree content diverges from the index AND the target tree differs
// from what's currently staged there, matching the checkout safety rule
// (paths untouched by the target tree are never blocked, unlike a whole-index
// IsClean check).
func (m *Manager) performSafetyChecks(ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}

	idx, err := index.Read(m.indexPath)
	if err != nil {
		return NewIndexError("read", m.indexPath.String(), err)
	}

	paths := make([]kcpath.RelativePath, 0, len(ops))
	for _, op := range ops {
		paths = append(paths, op.Path)
	}

	if err := m.validator.CanSafelyOverwrite(paths, idx); err != nil {
		validation := NewValidationError(
			fmt.Sprintf("error: Your local changes to the following files would be overwritten by checkout: %v", err),
			paths,
			nil,
		)
		return cerr.WrapWithCode(validation, "workdir", cerr.CodeWouldOverwrite, "checkout_safety")
	}

	return nil
}

// analyzeChanges diffs the index against the target commit's tree,
// loading both sides concurrently.
func (m *Manager) analyzeChanges(ctx context.Context, commitSHA objects.ObjectHash) (ChangeAnalysis, error) {
	var change ChangeAnalysis
	var targetFiles map[kcpath.RelativePath]internal.FileInfo
	var idx *index.Index

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := m.treeAnalyzer.GetCommitFiles(ctx, commitSHA)
		if err != nil {
			return fmt.Errorf("get commit files: %w", err)
		}
		targetFiles = files
		return nil
	})

	g.Go(func() error {
		indexData, err := index.Read(m.indexPath)
		if err != nil {
			return fmt.Errorf("read index: %w", err)
		}
		idx = indexData
		return nil
	})

	if err := g.Wait(); err != nil {
		return change, err
	}

	currentFiles := m.treeAnalyzer.GetIndexFiles(idx)
	return m.treeAnalyzer.AnalyzeChanges(currentFiles, targetFiles), nil
}

// performDryRun validates the operation list without touching disk.
func (m *Manager) performDryRun(ops []internal.Operation) UpdateResult {
	dryRunResult := m.transaction.DryRun(ops)

	return UpdateResult{
		Success:      dryRunResult.Valid,
		FilesChanged: 0,
		Operations:   ops,
		Err:          nil,
	}
}

// updateConfig collects UpdateToCommit options.
type updateConfig struct {
	force      bool
	dryRun     bool
	onProgress func(completed, total int, currentFile string)
}

type Option func(*updateConfig)

// WithForce skips the uncommitted-work safety check.
func WithForce() Option {
	return func(c *updateConfig) {
		c.force = true
	}
}

// WithDryRun plans without writing.
func WithDryRun() Option {
	return func(c *updateConfig) {
		c.dryRun = true
	}
}

// WithProgress installs a per-file progress callback.
func WithProgress(fn func(completed, total int, currentFile string)) Option {
	return func(c *updateConfig) {
		c.onProgress = fn
	}
}
