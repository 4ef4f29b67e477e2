package index

import (
	"fmt"
	"os"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// Lock is an exclusive OS-level lock on index.lock, held for the duration of an
// index write. Acquiring it is what serializes concurrent index mutations; the
// write itself still goes through the usual temp-file-plus-rename path so a
// crash mid-write never corrupts the real index file.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates index.lock exclusively next to the given index file path.
// If the lock file already exists, the index is considered locked by another
// operation and a CodeIndexLocked error is returned.
func AcquireLock(indexPath kcpath.AbsolutePath) (*Lock, error) {
	lockPath := indexPath.String() + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, NewLockedError("acquire_lock", err)
		}
		return nil, fmt.Errorf("failed to create index lock at %s: %w", lockPath, err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release closes and removes the lock file.
func (l *Lock) Release() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close index lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove index lock: %w", err)
	}
	return nil
}

// Path returns the lock file's path.
func (l *Lock) Path() string {
	return l.path
}
