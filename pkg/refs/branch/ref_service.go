package branch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
)

const (
	// BranchDirName is the subdirectory of refs/ that holds branches.
	BranchDirName = "heads"

	// HeadFile is the HEAD pointer file name.
	HeadFile = "HEAD"

	// BranchRefPrefix prefixes every branch's full ref name.
	BranchRefPrefix = "refs/heads/"
)

// BranchRefManager is the branch-shaped view over the raw ref files:
// name validation, the refs/heads/ prefix, and HEAD handling.
type BranchRefManager struct {
	refManager *refs.RefManager
}

// NewBranchRefManager wraps a raw ref manager.
func NewBranchRefManager(refMgr *refs.RefManager) *BranchRefManager {
	return &BranchRefManager{
		refManager: refMgr,
	}
}

// Init makes sure refs/heads exists.
func (rs *BranchRefManager) Init() error {
	if err := rs.refManager.Init(); err != nil {
		return fmt.Errorf("init ref manager: %w", err)
	}

	branchDir := filepath.Join(rs.refManager.GetRefsPath().String(), BranchDirName)
	if err := os.MkdirAll(branchDir, 0755); err != nil {
		return fmt.Errorf("create branch directory: %w", err)
	}

	return nil
}

// Current reads HEAD and returns the branch name it points at, empty
// when detached.
func (rs *BranchRefManager) Current() (string, error) {
	headPath := rs.refManager.GetHeadPath().ToAbsolutePath()
	content, err := fileops.ReadStringStrict(headPath)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}

	if after, ok := strings.CutPrefix(content, refs.SymbolicRefPrefix); ok {
		refPath := strings.TrimSpace(after)
		if branchName, ok := strings.CutPrefix(refPath, BranchRefPrefix); ok {
			return branchName, nil
		}
		return "", fmt.Errorf("HEAD points to non-branch ref: %s", refPath)
	}

	return "", nil
}

func (rs *BranchRefManager) ValidateExists(name string) error {
	exists, err := rs.Exists(name)
	if err != nil {
		return fmt.Errorf("check branch exists: %w", err)
	}
	if !exists {
		return NewNotFoundError(name)
	}

	return nil
}

// IsDetached reports whether HEAD names a commit rather than a branch.
func (rs *BranchRefManager) IsDetached() (bool, error) {
	current, err := rs.Current()
	if err != nil {
		return false, err
	}
	return current == "", nil
}

// Create writes a new branch ref at sha, refusing to clobber.
func (rs *BranchRefManager) Create(name string, sha objects.ObjectHash) error {
	if err := rs.validateBranchName(name); err != nil {
		return err
	}

	refPath := rs.branchRefPath(name)

	exists, err := rs.refManager.Exists(refPath)
	if err != nil {
		return fmt.Errorf("check branch exists: %w", err)
	}
	if exists {
		return NewAlreadyExistsError(name)
	}

	if err := rs.refManager.UpdateRef(refPath, string(sha)); err != nil {
		return fmt.Errorf("create branch ref: %w", err)
	}

	return nil
}

// Update points an existing branch at a new commit. With force it
// also creates a missing branch, which is how the first commit births
// the default branch.
func (rs *BranchRefManager) Update(name string, sha objects.ObjectHash, force bool) error {
	if err := rs.validateBranchName(name); err != nil {
		return err
	}

	refPath := rs.branchRefPath(name)
	exists, err := rs.refManager.Exists(refPath)
	if err != nil {
		return fmt.Errorf("check branch exists: %w", err)
	}

	if !exists && !force {
		return NewNotFoundError(name)
	}

	if err := rs.refManager.UpdateRef(refPath, string(sha)); err != nil {
		return fmt.Errorf("update branch ref: %w", err)
	}

	return nil
}

// Delete removes a branch ref; the checked-out branch is protected.
func (rs *BranchRefManager) Delete(name string) error {
	if err := rs.validateBranchName(name); err != nil {
		return err
	}

	current, err := rs.Current()
	if err != nil {
		return fmt.Errorf("get current branch: %w", err)
	}
	if current == name {
		return NewIsCurrentError(name)
	}

	refPath := rs.branchRefPath(name)
	deleted, err := rs.refManager.DeleteRef(refPath)
	if err != nil {
		return fmt.Errorf("delete branch ref: %w", err)
	}
	if !deleted {
		return NewNotFoundError(name)
	}

	return nil
}

// Exists reports whether the branch ref file is present.
func (rs *BranchRefManager) Exists(name string) (bool, error) {
	if err := rs.validateBranchName(name); err != nil {
		return false, err
	}

	refPath := rs.branchRefPath(name)
	return rs.refManager.Exists(refPath)
}

// Resolve maps a branch name to the commit hash its ref holds.
func (rs *BranchRefManager) Resolve(name string) (objects.ObjectHash, error) {
	if err := rs.validateBranchName(name); err != nil {
		return "", err
	}

	refPath := rs.branchRefPath(name)
	sha, err := rs.refManager.ResolveToSHA(refPath)
	if err != nil {
		return "", NewNotFoundError(name)
	}

	return objects.ObjectHash(sha), nil
}

// List walks refs/heads and returns every branch name, slash-joined
// for nested names.
func (rs *BranchRefManager) List() ([]string, error) {
	branchDir := filepath.Join(rs.refManager.GetRefsPath().String(), BranchDirName)

	if _, err := os.Stat(branchDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var branches []string

	err := filepath.Walk(branchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(branchDir, path)
		if err != nil {
			return err
		}

		branches = append(branches, filepath.ToSlash(relPath))

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk branch directory: %w", err)
	}

	return branches, nil
}

// Rename moves a branch ref to a new name, following HEAD along when
// the renamed branch is the checked-out one. The new ref is written
// before the old one is removed, so a crash in between leaves both
// names valid rather than neither.
func (rs *BranchRefManager) Rename(oldName, newName string, force bool) error {
	sha, err := rs.Resolve(oldName)
	if err != nil {
		return err
	}

	if err := rs.Update(newName, sha, true); err != nil {
		return fmt.Errorf("write new branch ref: %w", err)
	}

	current, err := rs.Current()
	if err != nil {
		return fmt.Errorf("get current branch: %w", err)
	}
	if current == oldName {
		if err := rs.SetHead(newName); err != nil {
			return fmt.Errorf("repoint HEAD: %w", err)
		}
	}

	if _, err := rs.refManager.DeleteRef(rs.branchRefPath(oldName)); err != nil {
		return fmt.Errorf("remove old branch ref: %w", err)
	}

	return nil
}

// SetHead makes HEAD symbolic, pointing at branchName.
func (rs *BranchRefManager) SetHead(branchName string) error {
	if err := rs.validateBranchName(branchName); err != nil {
		return err
	}

	exists, err := rs.Exists(branchName)
	if err != nil {
		return fmt.Errorf("check branch exists: %w", err)
	}
	if !exists {
		return NewNotFoundError(branchName)
	}

	headPath := rs.refManager.GetHeadPath().ToAbsolutePath()
	content := fmt.Sprintf("ref: refs/heads/%s\n", branchName)

	if err := fileops.WriteConfigString(headPath, content); err != nil {
		return fmt.Errorf("update HEAD: %w", err)
	}

	return nil
}

// SetHeadUnborn points HEAD at a branch that has no ref yet. The
// branch is born when the next commit writes its ref.
func (rs *BranchRefManager) SetHeadUnborn(branchName string) error {
	if err := rs.validateBranchName(branchName); err != nil {
		return err
	}

	headPath := rs.refManager.GetHeadPath().ToAbsolutePath()
	content := fmt.Sprintf("ref: refs/heads/%s\n", branchName)

	if err := fileops.WriteConfigString(headPath, content); err != nil {
		return fmt.Errorf("update HEAD: %w", err)
	}

	return nil
}

// SetHeadDetached points HEAD straight at a commit.
func (rs *BranchRefManager) SetHeadDetached(sha objects.ObjectHash) error {
	if err := sha.Validate(); err != nil {
		return fmt.Errorf("invalid SHA: %w", err)
	}

	headPath := rs.refManager.GetHeadPath().ToAbsolutePath()
	content := sha.String() + "\n"

	if err := fileops.WriteConfigString(headPath, content); err != nil {
		return fmt.Errorf("update HEAD: %w", err)
	}

	return nil
}

// GetHeadSHA resolves HEAD, through its branch when symbolic, to a
// commit hash. Fails on an unborn branch.
func (rs *BranchRefManager) GetHeadSHA() (objects.ObjectHash, error) {
	sha, err := rs.refManager.ResolveToSHA(refs.RefHEAD)
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return objects.ObjectHash(sha), nil
}

// branchRefPath prefixes a validated name into its full ref path.
func (rs *BranchRefManager) branchRefPath(name string) refs.RefPath {
	refPath, _ := refs.NewBranchRef(name)
	return refPath
}

// ValidateBranchName applies the ref-name rules to a candidate name,
// collecting every violation into one error.
func ValidateBranchName(name string) error {
	if name == "" {
		return NewInvalidNameError(name, "branch name cannot be empty")
	}

	var reasons []string

	invalidChars := []string{" ", "~", "^", ":", "?", "*", "[", "\\", "..", "@{"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			reasons = append(reasons, fmt.Sprintf("contains invalid character '%s'", char))
		}
	}

	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		reasons = append(reasons, "cannot start or end with '/'")
	}

	if strings.HasPrefix(name, ".") {
		reasons = append(reasons, "cannot start with '.'")
	}

	if strings.HasSuffix(name, ".lock") {
		reasons = append(reasons, "cannot end with '.lock'")
	}

	if strings.Contains(name, "//") {
		reasons = append(reasons, "cannot contain consecutive slashes")
	}

	if len(reasons) > 0 {
		return NewInvalidNameError(name, reasons...)
	}

	return nil
}

func (rs *BranchRefManager) validateBranchName(name string) error {
	return ValidateBranchName(name)
}
