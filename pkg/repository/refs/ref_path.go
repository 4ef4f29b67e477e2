package refs

import (
	"fmt"
	"strings"
)

// RefPath is a reference name: "refs/heads/main", "refs/tags/v1.0.0",
// or the literal "HEAD".
type RefPath string

func (rp RefPath) String() string {
	return string(rp)
}

// IsValid applies the ref-name rules: no whitespace or revision-syntax
// characters, no ".lock" suffix, no leading or trailing dot.
func (rp RefPath) IsValid() bool {
	s := string(rp)
	if len(s) == 0 {
		return false
	}

	invalidChars := []string{" ", "~", "^", ":", "?", "*", "[", "\\", "..", "@{", "//"}
	for _, invalid := range invalidChars {
		if strings.Contains(s, invalid) {
			return false
		}
	}

	if strings.HasSuffix(s, ".lock") || strings.HasSuffix(s, ".") {
		return false
	}

	if strings.HasPrefix(s, ".") {
		return false
	}
	return true
}

func (rp RefPath) IsBranch() bool {
	return strings.HasPrefix(string(rp), "refs/heads/")
}

func (rp RefPath) IsTag() bool {
	return strings.HasPrefix(string(rp), "refs/tags/")
}

func (rp RefPath) IsRemote() bool {
	return strings.HasPrefix(string(rp), "refs/remotes/")
}

func (rp RefPath) IsHEAD() bool {
	return rp == RefHEAD
}

// ShortName strips the category prefix: "refs/heads/main" becomes
// "main", "refs/remotes/origin/main" becomes "origin/main", and
// anything else is returned whole.
func (rp RefPath) ShortName() string {
	s := string(rp)
	if rp.IsBranch() {
		return strings.TrimPrefix(s, "refs/heads/")
	}
	if rp.IsTag() {
		return strings.TrimPrefix(s, "refs/tags/")
	}
	if rp.IsRemote() {
		return strings.TrimPrefix(s, "refs/remotes/")
	}
	return s
}

// NewBranchRef builds and validates a "refs/heads/<name>" path.
func NewBranchRef(name string) (RefPath, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("branch name cannot be empty")
	}
	refPath := RefPath("refs/heads/" + name)
	if !refPath.IsValid() {
		return "", fmt.Errorf("invalid branch name: %s", name)
	}
	return refPath, nil
}

// NewTagRef builds and validates a "refs/tags/<name>" path.
func NewTagRef(name string) (RefPath, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("tag name cannot be empty")
	}
	refPath := RefPath("refs/tags/" + name)
	if !refPath.IsValid() {
		return "", fmt.Errorf("invalid tag name: %s", name)
	}
	return refPath, nil
}

// NewRemoteRef builds and validates a "refs/remotes/<remote>/<branch>"
// path.
func NewRemoteRef(remote, branch string) (RefPath, error) {
	if len(remote) == 0 {
		return "", fmt.Errorf("remote name cannot be empty")
	}
	if len(branch) == 0 {
		return "", fmt.Errorf("branch name cannot be empty")
	}
	refPath := RefPath(fmt.Sprintf("refs/remotes/%s/%s", remote, branch))
	if !refPath.IsValid() {
		return "", fmt.Errorf("invalid remote ref: %s/%s", remote, branch)
	}
	return refPath, nil
}
