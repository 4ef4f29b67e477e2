package branch

import (
	"time"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// BranchInfo is the display view of one branch, as `branch -v` shows
// it.
type BranchInfo struct {
	Name string

	// SHA is the tip commit.
	SHA objects.ObjectHash

	IsCurrentBranch bool

	// CommitCount counts commits on the tip's first-parent chain.
	CommitCount int

	LastCommitDate    *time.Time
	LastCommitMessage string

	// Ahead/Behind hold commit counts relative to the default branch's
	// tip; nothing in this package sets them, so they read zero.
	Ahead  int
	Behind int
}

// ValidationResult collects every rule a candidate branch name broke.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// CreateConfig collects branch-creation options.
type CreateConfig struct {
	// StartPoint is a commit hash or branch name; HEAD when empty.
	StartPoint string

	// Checkout switches to the branch right after creating it.
	Checkout bool

	// Force replaces an existing branch of the same name.
	Force bool

	// Track is reserved for remote-tracking setup.
	Track string
}

// CreateOption mutates a CreateConfig.
type CreateOption func(*CreateConfig)

// WithStartPoint roots the new branch at ref instead of HEAD.
func WithStartPoint(ref string) CreateOption {
	return func(c *CreateConfig) {
		c.StartPoint = ref
	}
}

// WithCheckout switches to the branch after creating it.
func WithCheckout() CreateOption {
	return func(c *CreateConfig) {
		c.Checkout = true
	}
}

// WithForceCreate replaces an existing branch of the same name.
func WithForceCreate() CreateOption {
	return func(c *CreateConfig) {
		c.Force = true
	}
}

// WithTrack records a remote-tracking hint.
func WithTrack(remote string) CreateOption {
	return func(c *CreateConfig) {
		c.Track = remote
	}
}

// CheckoutConfig collects checkout options.
type CheckoutConfig struct {
	// Force discards uncommitted changes in the target's way.
	Force bool

	// Create makes the branch first when it does not exist.
	Create bool

	// Orphan starts a parentless branch.
	Orphan bool

	// Detach points HEAD at the commit instead of a branch.
	Detach bool
}

// CheckoutOption mutates a CheckoutConfig.
type CheckoutOption func(*CheckoutConfig)

// WithForceCheckout discards uncommitted changes in the way.
func WithForceCheckout() CheckoutOption {
	return func(c *CheckoutConfig) {
		c.Force = true
	}
}

// WithCreateBranch creates the target branch first.
func WithCreateBranch() CheckoutOption {
	return func(c *CheckoutConfig) {
		c.Create = true
	}
}

// WithOrphan starts a parentless branch.
func WithOrphan() CheckoutOption {
	return func(c *CheckoutConfig) {
		c.Orphan = true
	}
}

// WithDetach detaches HEAD at the target commit.
func WithDetach() CheckoutOption {
	return func(c *CheckoutConfig) {
		c.Detach = true
	}
}

// DeleteConfig collects deletion options.
type DeleteConfig struct {
	// Force deletes an unmerged branch.
	Force bool

	// Remote is reserved for remote-branch deletion.
	Remote bool
}

// DeleteOption mutates a DeleteConfig.
type DeleteOption func(*DeleteConfig)

// WithForceDelete deletes even when the branch is unmerged.
func WithForceDelete() DeleteOption {
	return func(c *DeleteConfig) {
		c.Force = true
	}
}

// WithRemoteDelete marks a remote-branch deletion.
func WithRemoteDelete() DeleteOption {
	return func(c *DeleteConfig) {
		c.Remote = true
	}
}

// RenameConfig collects rename options.
type RenameConfig struct {
	// Force clobbers an existing branch at the new name.
	Force bool
}

// RenameOption mutates a RenameConfig.
type RenameOption func(*RenameConfig)

// WithForceRename clobbers an existing branch at the new name.
func WithForceRename() RenameOption {
	return func(c *RenameConfig) {
		c.Force = true
	}
}
