package merge

import (
	cerr "github.com/itsSauraj/kit-cat/pkg/common/err"
)

const pkgName = "merge"

// NewNoCommonAncestorError reports that two commit histories share no
// ancestor, so a three-way merge cannot compute a base.
func NewNoCommonAncestorError(operation string, cause error) error {
	return cerr.New(pkgName, cerr.CodeNoCommonAncestor, operation, "no common ancestor between the two histories", cause)
}

// NewConflictsPendingError reports that a merge left unresolved conflicts
// and cannot be finalized until the caller resolves and continues (or
// aborts) the merge.
func NewConflictsPendingError(operation string, paths []string) error {
	return cerr.New(pkgName, cerr.CodeConflictsPending, operation, "conflicts must be resolved before continuing the merge", nil).
		WithContext("paths", paths)
}

// NewNoMergeInProgressError reports that --continue or --abort was
// requested but MERGE_HEAD is absent.
func NewNoMergeInProgressError(operation string) error {
	return cerr.New(pkgName, cerr.CodeInvalidArgument, operation, "no merge in progress", nil)
}

// NewWouldOverwriteError reports that the working tree has uncommitted
// changes that a merge would clobber.
func NewWouldOverwriteError(operation string, cause error) error {
	return cerr.New(pkgName, cerr.CodeWouldOverwrite, operation, "working tree has uncommitted changes; commit or stash before merging", cause)
}

// NewInternalError wraps an unexpected lower-level failure (object store
// read, tree parse) encountered while merging.
func NewInternalError(operation string, cause error) error {
	return cerr.New(pkgName, cerr.CodeInternal, operation, "merge "+operation+" failed", cause)
}
