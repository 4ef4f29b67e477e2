package commit

import (
	"fmt"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// CommitBuilder provides a fluent interface for assembling a Commit object
// field by field before validating and producing it.
type CommitBuilder struct {
	commit *Commit
	errs   []error
}

// NewCommitBuilder creates a new CommitBuilder
func NewCommitBuilder() *CommitBuilder {
	return &CommitBuilder{
		commit: &Commit{
			ParentSHAs: make([]objects.ObjectHash, 0),
		},
		errs: make([]error, 0),
	}
}

// Tree sets the tree SHA for the commit from a hex string
func (b *CommitBuilder) Tree(treeSHA string) *CommitBuilder {
	return b.TreeHash(objects.ObjectHash(strings.ToLower(treeSHA)))
}

// Parent adds a single parent SHA to the commit from a hex string
func (b *CommitBuilder) Parent(parentSHA string) *CommitBuilder {
	return b.ParentHash(objects.ObjectHash(strings.ToLower(parentSHA)))
}

// Parents sets multiple parent SHAs for the commit from hex strings
func (b *CommitBuilder) Parents(parentSHAs ...string) *CommitBuilder {
	for _, sha := range parentSHAs {
		b.Parent(sha)
	}
	return b
}

// TreeHash sets the tree SHA for the commit
func (b *CommitBuilder) TreeHash(treeSHA objects.ObjectHash) *CommitBuilder {
	if err := treeSHA.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid tree SHA: %w", err))
	} else {
		b.commit.TreeSHA = treeSHA
	}
	return b
}

// ParentHash adds a single parent SHA to the commit
func (b *CommitBuilder) ParentHash(parentSHA objects.ObjectHash) *CommitBuilder {
	if err := parentSHA.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid parent SHA: %w", err))
	} else {
		b.commit.ParentSHAs = append(b.commit.ParentSHAs, parentSHA)
	}
	return b
}

// ParentHashes sets the parent SHAs for the commit, in order
func (b *CommitBuilder) ParentHashes(parentSHAs ...objects.ObjectHash) *CommitBuilder {
	for _, sha := range parentSHAs {
		b.ParentHash(sha)
	}
	return b
}

// Author sets the author of the commit
func (b *CommitBuilder) Author(author *CommitPerson) *CommitBuilder {
	if author == nil {
		b.errs = append(b.errs, fmt.Errorf("author cannot be nil"))
	} else {
		b.commit.Author = author
	}
	return b
}

// Committer sets the committer of the commit
func (b *CommitBuilder) Committer(committer *CommitPerson) *CommitBuilder {
	if committer == nil {
		b.errs = append(b.errs, fmt.Errorf("committer cannot be nil"))
	} else {
		b.commit.Committer = committer
	}
	return b
}

// Message sets the commit message
func (b *CommitBuilder) Message(message string) *CommitBuilder {
	b.commit.Message = message
	return b
}

// Build creates the Commit, returning an error if validation fails
func (b *CommitBuilder) Build() (*Commit, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("commit builder errors: %v", b.errs)
	}

	if err := b.commit.Validate(); err != nil {
		return nil, err
	}

	return b.commit, nil
}
