package branch

import (
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// resolveCommit resolves a full or abbreviated commit hash through the
// object store, which owns the sharded prefix scan and the ambiguity
// rules.
func resolveCommit(commitStr string, repo *kitrepo.KitcatRepository) (objects.ObjectHash, error) {
	if !commit.LooksLikeCommitSHA(commitStr) {
		return "", fmt.Errorf("invalid target '%s': not a valid branch name or commit SHA", commitStr)
	}

	sha, err := repo.ObjectStore().ResolvePrefix(commitStr)
	if err != nil {
		return "", err
	}
	return sha, nil
}

// resolveBranch maps target to its tip when the branch exists, empty
// hash when it does not.
func resolveBranch(refService *BranchRefManager, target string) (objects.ObjectHash, error) {
	exists, err := refService.Exists(target)
	if err != nil {
		return "", fmt.Errorf("check branch exists: %w", err)
	}

	if exists {
		sha, err := refService.Resolve(target)
		if err != nil {
			return "", fmt.Errorf("resolve branch: %w", err)
		}
		return sha, nil
	}

	return "", nil
}

// ResolveOptions configures ResolveRefOrCommit.
type ResolveOptions struct {
	AllowCreate bool

	// CreateFunc makes the missing branch when AllowCreate is set.
	CreateFunc func(string) (objects.ObjectHash, error)

	// DefaultValue stands in for an empty target.
	DefaultValue objects.ObjectHash
}

// ResolveResult reports what a target resolved to.
type ResolveResult struct {
	SHA               objects.ObjectHash
	IsBranch, Created bool
}

func newResolveResult(sha objects.ObjectHash, isBranch, created bool) *ResolveResult {
	return &ResolveResult{
		SHA:      sha,
		IsBranch: isBranch,
		Created:  created,
	}
}

// ResolveRefOrCommit resolves target as a commit hash (full or
// abbreviated) first, then as a branch name. Branch names win only
// when the hash interpretation finds nothing, so an all-hex branch
// name cannot shadow a real commit.
func ResolveRefOrCommit(
	target string,
	refService *BranchRefManager,
	repo *kitrepo.KitcatRepository,
	o ResolveOptions,
) (*ResolveResult, error) {
	if target == "" {
		if o.DefaultValue != "" {
			return newResolveResult(o.DefaultValue, false, false), nil
		}
		return nil, fmt.Errorf("target cannot be empty")
	}

	if commit.LooksLikeCommitSHA(target) {
		sha, err := resolveCommit(target, repo)
		if err == nil {
			return newResolveResult(sha, false, false), nil
		}

		// A partial hash that failed to resolve is an error in its own
		// right; only a full-length candidate falls through to branch
		// lookup (it might be a 40-char branch name).
		if len(target) >= 4 && len(target) < 40 {
			return nil, err
		}
	}

	if err := refService.validateBranchName(target); err == nil {
		sha, err := resolveBranch(refService, target)
		if err != nil {
			return nil, err
		}

		if sha != "" {
			return newResolveResult(sha, true, false), nil
		}

		if o.AllowCreate && o.CreateFunc != nil {
			sha, err := o.CreateFunc(target)
			if err != nil {
				return nil, fmt.Errorf("create branch: %w", err)
			}

			return newResolveResult(sha, true, true), nil
		}

		return nil, NewNotFoundError(target)
	}

	return nil, fmt.Errorf("invalid target '%s': not a valid branch name or commit SHA", target)
}
