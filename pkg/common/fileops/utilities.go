package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// Exists reports whether something is at p. A stat failure other than
// non-existence is returned as an error.
func Exists(p kcpath.AbsolutePath) (bool, error) {
	_, err := os.Stat(p.String())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("check existence: %w", err)
}

// EnsureDir creates the directory at path, parents included. Already
// existing is not an error.
func EnsureDir(path kcpath.AbsolutePath) error {
	if err := os.MkdirAll(path.String(), 0755); err != nil {
		return fmt.Errorf("ensure directory %s: %w", path.String(), err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of a file path so a
// subsequent write cannot fail on a missing directory.
func EnsureParentDir(p kcpath.AbsolutePath) error {
	dir := filepath.Dir(p.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ensure parent directory: %w", err)
	}
	return nil
}

// ReadStringStrict reads p as a whitespace-trimmed string; a missing file
// is an error. Used for files that must exist, like HEAD.
func ReadStringStrict(p kcpath.AbsolutePath) (string, error) {
	data, err := os.ReadFile(p.String())
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadBytes reads p, returning nil (and no error) when the file does not
// exist. Used for optional files like MERGE_HEAD.
func ReadBytes(p kcpath.AbsolutePath) ([]byte, error) {
	data, err := os.ReadFile(p.String())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// ReadBytesStrict reads p; a missing file is an error.
func ReadBytesStrict(p kcpath.AbsolutePath) ([]byte, error) {
	data, err := os.ReadFile(p.String())
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// WriteConfig writes a 0644 file, creating the parent directory first.
func WriteConfig(p kcpath.AbsolutePath, data []byte) error {
	if err := EnsureParentDir(p); err != nil {
		return err
	}
	if err := os.WriteFile(p.String(), data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// WriteConfigString is WriteConfig for string content.
func WriteConfigString(p kcpath.AbsolutePath, content string) error {
	return WriteConfig(p, []byte(content))
}

// SafeRemove removes p, treating non-existence as success.
func SafeRemove(p kcpath.AbsolutePath) error {
	if err := os.Remove(p.String()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
