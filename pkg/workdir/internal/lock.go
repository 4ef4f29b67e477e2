package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// LockFile is the exclusive index.lock handle held across a
// working-tree transaction.
type LockFile struct {
	path string
	file *os.File
}

// AcquireLock creates index.lock exclusively; an existing file means
// another operation is mid-flight.
func AcquireLock(kitDir kcpath.KitPath) (*LockFile, error) {
	lockPath := filepath.Join(kitDir.String(), "index.lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("lock error (%s): another process holds the lock: %w", lockPath, ErrLockAcquisitionFailed)
		}
		return nil, fmt.Errorf("lock error (%s): failed to create lock file: %w", lockPath, err)
	}

	return &LockFile{
		path: lockPath,
		file: file,
	}, nil
}

// Release closes and removes the lock file.
func (l *LockFile) Release() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close lock file: %w", err)
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}

	return nil
}

// Path names the lock file.
func (l *LockFile) Path() string {
	return l.path
}
