package fileops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// AtomicWrite replaces targetPath with data via a temp file in the same
// directory followed by a rename. The rename is the commit point: a crash
// before it leaves the old file untouched, and readers never observe a
// partially written file.
func AtomicWrite(targetPath kcpath.AbsolutePath, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(targetPath.String())
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if err := flushTemp(tmpFile, data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	return commitTemp(tmpFile.Name(), targetPath.String(), mode)
}

// flushTemp writes data, fsyncs, and closes the temp file so the bytes
// are durable before the rename makes them visible.
func flushTemp(tmpFile *os.File, data []byte) error {
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// commitTemp sets the final mode on the temp file, then renames it over
// the target in one step.
func commitTemp(tmpPath string, targetPath string, mode os.FileMode) error {
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
