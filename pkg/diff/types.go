// Package diff computes and renders differences between two versions of a
// tree: the working directory, the staging index, or a commit's snapshot.
// It covers the four diff modes (working-vs-index, --cached,
// working-vs-commit, commit-vs-commit) on top of the object store's blob
// and tree reader, and renders results as a Git-style unified diff.
package diff

import (
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// ChangeType classifies how a path differs between the two sides of a diff.
type ChangeType int

const (
	// Unchanged means both sides have identical content and mode.
	Unchanged ChangeType = iota
	// Added means the path exists only on the new side.
	Added
	// Deleted means the path exists only on the old side.
	Deleted
	// Modified means the path exists on both sides with different content
	// or mode.
	Modified
)

// String returns a short label for the change type, matching the status
// git status letters (A/D/M).
func (c ChangeType) String() string {
	switch c {
	case Added:
		return "A"
	case Deleted:
		return "D"
	case Modified:
		return "M"
	default:
		return " "
	}
}

// fileSnapshot describes one side (old or new) of a path's state: the blob
// it resolves to, its mode, and the raw content used for line diffing.
type fileSnapshot struct {
	SHA     objects.ObjectHash
	Mode    objects.FileMode
	Content []byte
	Exists  bool
}

// FileDiff holds the computed difference for a single path.
type FileDiff struct {
	// Path is the file's repository-relative path.
	Path kcpath.RelativePath

	// Change classifies the kind of difference.
	Change ChangeType

	// OldSHA/NewSHA are the blob hashes on each side (zero value if the
	// path doesn't exist on that side).
	OldSHA objects.ObjectHash
	NewSHA objects.ObjectHash

	// OldMode/NewMode are the file modes on each side.
	OldMode objects.FileMode
	NewMode objects.FileMode

	// Binary is true when either side's content was detected as binary;
	// Hunks is empty in that case.
	Binary bool

	// Hunks are the line-level edit groups, empty for binary files and
	// for paths with no line-level change (such as a mode-only change).
	Hunks []Hunk

	// Insertions/Deletions are line counts across all hunks, used for
	// --stat summaries without re-walking Hunks.
	Insertions int
	Deletions  int
}

// LineKind classifies a single line within a hunk.
type LineKind int

const (
	// LineContext is a line unchanged between both sides, kept for context.
	LineContext LineKind = iota
	// LineAdd is a line present only on the new side.
	LineAdd
	// LineDelete is a line present only on the old side.
	LineDelete
)

// Line is one rendered row inside a hunk.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous block of changed lines plus surrounding context,
// addressed the way a unified diff addresses it: 1-based start line and
// line count on each side.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Stat summarizes a set of FileDiffs the way `diff --stat` does.
type Stat struct {
	FilesChanged int
	Insertions   int
	Deletions    int
	PerFile      []FileStat
}

// FileStat is one row of a --stat summary.
type FileStat struct {
	Path       kcpath.RelativePath
	Insertions int
	Deletions  int
	Binary     bool
}
