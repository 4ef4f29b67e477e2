package workdir

import (
	"context"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/workdir/internal"
)

// The internal package owns the working types; alias the ones callers
// see so the public API stays in this package.
type (
	ActionType = internal.ActionType

	// Operation is one file change to apply to the working tree.
	Operation = internal.Operation

	// FileInfo is a (hash, mode) pair for one path in a tree or index.
	FileInfo = internal.FileInfo

	// Backup snapshots a file before the transaction touches it.
	Backup = internal.Backup

	FileStatusDetail = internal.FileStatusDetail

	// Status is the working-tree-vs-index comparison result.
	Status = internal.Status

	ChangeSummary = internal.ChangeSummary

	// ChangeAnalysis is the planned operation set for a checkout.
	ChangeAnalysis = internal.ChangeAnalysis

	IndexUpdateResult = internal.IndexUpdateResult
)

const (
	ActionCreate = internal.ActionCreate
	ActionModify = internal.ActionModify
	ActionDelete = internal.ActionDelete
)

// UpdateOptions is the exported form of the update configuration.
type UpdateOptions struct {
	Force      bool
	DryRun     bool
	OnProgress func(completed, total int, currentFile string)
}

// UpdateResult reports what UpdateToCommit did.
type UpdateResult struct {
	Success      bool
	FilesChanged int
	Operations   []Operation

	// IndexUpdate is nil when the index rewrite never ran.
	IndexUpdate *IndexUpdateResult

	Err error
}

// TransactionResult reports an atomic batch of file operations.
type TransactionResult struct {
	Success           bool
	OperationsApplied int
	TotalOperations   int
	Err               error
}

// DryRunResult is the no-write analysis of an operation batch.
type DryRunResult struct {
	Valid     bool
	Analysis  DryRunAnalysis
	Conflicts []string
	Errors    []string
}

// DryRunAnalysis buckets planned operations by kind.
type DryRunAnalysis struct {
	WillCreate []kcpath.RelativePath
	WillModify []kcpath.RelativePath
	WillDelete []kcpath.RelativePath
	Conflicts  []string
}

// FileOperator is the low-level file mutation surface the transaction
// layer drives.
type FileOperator interface {
	ApplyOperation(op Operation) error
	CreateBackup(path kcpath.RelativePath) (*Backup, error)
	RestoreBackup(backup *Backup) error
	CleanupBackup(backup *Backup) error
}

// TreeAnalyzer flattens trees and the index into path maps and diffs
// them into operations.
type TreeAnalyzer interface {
	GetCommitFiles(commitSHA objects.ObjectHash) (map[kcpath.RelativePath]FileInfo, error)
	GetIndexFiles(idx *index.Index) map[kcpath.RelativePath]FileInfo
	AnalyzeChanges(current, target map[kcpath.RelativePath]FileInfo) ChangeAnalysis
}

// Validator answers the two safety questions: is the tree clean, and
// may these specific paths be overwritten.
type Validator interface {
	ValidateCleanState(idx *index.Index) (Status, error)
	CanSafelyOverwrite(paths []kcpath.RelativePath, idx *index.Index) error
}

// TransactionManager applies an operation batch all-or-nothing.
type TransactionManager interface {
	ExecuteAtomically(ctx context.Context, ops []Operation) TransactionResult
	DryRun(ops []Operation) DryRunResult
}

// IndexUpdater rewrites the index after the working tree moved.
type IndexUpdater interface {
	UpdateToMatch(targetFiles map[kcpath.RelativePath]FileInfo) (IndexUpdateResult, error)
	UpdateIncremental(toAdd map[kcpath.RelativePath]FileInfo, toRemove []kcpath.RelativePath) (IndexUpdateResult, error)
}
