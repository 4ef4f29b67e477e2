package commitmanager

import (
	kiterr "github.com/itsSauraj/kit-cat/pkg/common/err"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
)

// CommitOptions parameterizes CreateCommit.
type CommitOptions struct {
	// Message is required; an empty message fails validation.
	Message string

	// Author defaults to the configured identity when nil.
	Author *commit.CommitPerson

	// Committer defaults to Author when nil.
	Committer *commit.CommitPerson

	// Amend replaces the current HEAD commit instead of chaining on it.
	Amend bool

	// AllowEmpty permits a commit whose tree equals its parent's.
	AllowEmpty bool

	// NoVerify is reserved for hook skipping.
	NoVerify bool

	// ExtraParents adds parents after HEAD, in order; a merge commit
	// records the branches it joined this way. Ignored when Amend is set.
	ExtraParents []objects.ObjectHash
}

// CommitResult is the flattened view of a created or loaded commit.
type CommitResult struct {
	SHA        objects.ObjectHash
	TreeSHA    objects.ObjectHash
	ParentSHAs []objects.ObjectHash
	Message    string
	Author     *commit.CommitPerson
	Committer  *commit.CommitPerson
}

// Validate rejects the option combinations CreateCommit cannot honor.
// An empty message wraps its sentinel in an INVALID_ARGUMENT-coded
// error, the same shape the empty-index and missing-identity refusals
// carry.
func (opts *CommitOptions) Validate() error {
	if opts.Message == "" {
		return kiterr.New("commitmanager", kiterr.CodeInvalidArgument, "validate_options",
			"commit message cannot be empty", ErrEmptyMessage)
	}
	return nil
}
