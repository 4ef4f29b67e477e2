package kcpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (rp RelativePath) String() string {
	return string(rp)
}

// IsValid rejects empty, absolute, and traversal-containing paths.
func (rp RelativePath) IsValid() bool {
	s := string(rp)
	if len(s) == 0 {
		return false
	}

	if filepath.IsAbs(s) || strings.HasPrefix(s, "/") {
		return false
	}

	if strings.Contains(s, "..") {
		return false
	}
	return true
}

// Normalize cleans the path and forces forward slashes, the form
// stored in the index and in tree entries.
func (rp RelativePath) Normalize() RelativePath {
	normalized := filepath.ToSlash(filepath.Clean(string(rp)))
	normalized = strings.TrimPrefix(normalized, "./")
	return RelativePath(normalized)
}

// Components splits the normalized path on "/".
func (rp RelativePath) Components() []string {
	normalized := rp.Normalize()
	if normalized == "" || normalized == "." {
		return []string{}
	}
	return strings.Split(string(normalized), "/")
}

// Join appends elements, renormalizing the result.
func (rp RelativePath) Join(elem ...string) RelativePath {
	parts := append([]string{string(rp)}, elem...)
	joined := filepath.Join(parts...)
	return RelativePath(joined).Normalize()
}

// Base is the final path component.
func (rp RelativePath) Base() string {
	components := rp.Normalize().Components()
	if len(components) == 0 {
		return ""
	}
	return components[len(components)-1]
}

// Dir is everything but the final component, empty for top-level paths.
func (rp RelativePath) Dir() RelativePath {
	components := rp.Normalize().Components()
	if len(components) <= 1 {
		return ""
	}
	return RelativePath(strings.Join(components[:len(components)-1], "/"))
}

// IsInSubdir reports whether the path equals subdir or lives under it.
func (rp RelativePath) IsInSubdir(subdir string) bool {
	normalized := rp.Normalize()
	return strings.HasPrefix(string(normalized), subdir+"/") || string(normalized) == subdir
}

// Depth counts path components.
func (rp RelativePath) Depth() int {
	return len(rp.Components())
}

// NewRelativePath normalizes and validates path.
func NewRelativePath(path string) (RelativePath, error) {
	rp := RelativePath(path).Normalize()
	if !rp.IsValid() {
		return "", fmt.Errorf("invalid relative path: %s", path)
	}
	return rp, nil
}
