package diff

import (
	"fmt"

	cerr "github.com/itsSauraj/kit-cat/pkg/common/err"
)

const pkgName = "diff"

// NewInvalidArgumentError reports a malformed or conflicting set of diff
// arguments, such as requesting more than two revisions.
func NewInvalidArgumentError(operation, message string) error {
	return cerr.New(pkgName, cerr.CodeInvalidArgument, operation, message, nil)
}

// NewNotFoundError reports that a requested revision or path could not be
// resolved.
func NewNotFoundError(operation, message string, cause error) error {
	return cerr.New(pkgName, cerr.CodeNotFound, operation, message, cause)
}

// NewInternalError wraps an unexpected lower-level failure (object store
// read, tree parse) encountered while computing a diff.
func NewInternalError(operation string, cause error) error {
	return cerr.New(pkgName, cerr.CodeInternal, operation, fmt.Sprintf("diff %s failed", operation), cause)
}
