package kcpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (rp RepositoryPath) String() string {
	return string(rp)
}

func (rp RepositoryPath) IsValid() bool {
	return filepath.IsAbs(string(rp))
}

// Join appends raw elements without escape checking; use JoinRelative
// for user-supplied paths.
func (rp RepositoryPath) Join(elem ...string) AbsolutePath {
	parts := append([]string{string(rp)}, elem...)
	return AbsolutePath(filepath.Join(parts...))
}

// JoinRelative joins a validated RelativePath and verifies the result
// still lives under the repository root.
func (rp RepositoryPath) JoinRelative(relPath RelativePath) (AbsolutePath, error) {
	if !relPath.IsValid() {
		return "", fmt.Errorf("invalid relative path: %s", relPath)
	}

	normalized := relPath.Normalize()
	if normalized == "" || normalized == "." {
		return AbsolutePath(rp), nil
	}

	result := filepath.Join(string(rp), string(normalized))
	absResult := AbsolutePath(result)

	relCheck, err := filepath.Rel(string(rp), string(absResult))
	if err != nil {
		return "", fmt.Errorf("failed to validate path: %w", err)
	}

	if filepath.IsAbs(relCheck) || relCheck == ".." || strings.HasPrefix(relCheck, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes repository: %s", relPath)
	}

	return absResult, nil
}

// KitPath locates the .kitcat metadata directory under the root.
func (rp RepositoryPath) KitPath() KitPath {
	return KitPath(filepath.Join(string(rp), KitcatDir))
}

// NewRepositoryPath resolves path to absolute form.
func NewRepositoryPath(path string) (RepositoryPath, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return RepositoryPath(absPath), nil
}
