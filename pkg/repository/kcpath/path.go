// Package kcpath defines the typed path vocabulary the rest of the tree
// speaks: repository roots, paths inside the .kitcat metadata directory,
// normalized relative paths, and sharded object paths. Using distinct
// string types keeps "working-tree path" and "metadata path" from being
// mixed up at compile time.
package kcpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RepositoryPath is the absolute path of a repository root, the
// directory that contains .kitcat.
type RepositoryPath string

// AbsolutePath is any absolute filesystem path.
type AbsolutePath string

// KitPath is a path inside the .kitcat metadata directory.
type KitPath string

// RelativePath is a normalized repository-relative path: forward
// slashes, no leading "./", no "..".
type RelativePath string

// RefPath is a reference name under .kitcat/refs, or the literal
// "HEAD".
type RefPath string

// ObjectPath is a sharded object location, "<2-hex>/<38-hex>".
type ObjectPath string

func (ap AbsolutePath) String() string {
	return string(ap)
}

func (ap AbsolutePath) IsValid() bool {
	return len(ap) > 0 && filepath.IsAbs(string(ap))
}

// Join appends elements to the absolute path.
func (ap AbsolutePath) Join(elem ...string) AbsolutePath {
	parts := append([]string{string(ap)}, elem...)
	return AbsolutePath(filepath.Join(parts...))
}

// RelativeTo rebases the path onto a repository root, normalizing the
// result.
func (ap AbsolutePath) RelativeTo(base RepositoryPath) (RelativePath, error) {
	rel, err := filepath.Rel(string(base), string(ap))
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	return RelativePath(rel).Normalize(), nil
}

// Base is the final path element.
func (ap AbsolutePath) Base() string {
	return filepath.Base(string(ap))
}

// Dir is everything but the final element.
func (ap AbsolutePath) Dir() AbsolutePath {
	return AbsolutePath(filepath.Dir(string(ap)))
}

// IsPathSafe rejects traversal, absolute paths, and backslashes,
// the checks applied to pattern and user-supplied paths.
func IsPathSafe(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}
