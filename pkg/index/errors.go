package index

import (
	"github.com/itsSauraj/kit-cat/pkg/common/err"
)

const pkgName = "index"

// NewLockedError builds the error returned when index.lock is already held by
// another process.
func NewLockedError(op string, cause error) error {
	return err.New(pkgName, err.CodeIndexLocked, op, "index is locked by another operation", cause)
}

// NewCorruptError builds the error returned when the index checksum trailer does
// not match its content.
func NewCorruptError(op, message string, cause error) error {
	return err.New(pkgName, err.CodeCorrupt, op, message, cause)
}
