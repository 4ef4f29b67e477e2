package merge

import (
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// Kind categorizes the outcome of a merge attempt.
type Kind int

const (
	// KindUpToDate means theirs is already an ancestor of ours; nothing to do.
	KindUpToDate Kind = iota
	// KindFastForward means ours is an ancestor of theirs; the caller only
	// needs to move the branch ref and working tree forward.
	KindFastForward
	// KindClean means a real merge commit is needed and every path resolved
	// without a conflict.
	KindClean
	// KindConflicted means one or more paths could not be resolved
	// automatically and a MERGE_HEAD is now pending resolution.
	KindConflicted
)

// ConflictInfo describes a single path left unresolved by a merge, with its
// base/ours/theirs index stage entries already written so the caller only
// needs to report it.
type ConflictInfo struct {
	Path   kcpath.RelativePath
	Reason string
}

// Result is the outcome of Engine.Merge.
type Result struct {
	Kind Kind

	// MergeBase is the common ancestor commit used for the three-way
	// comparison; it equals theirs for KindUpToDate and ours for
	// KindFastForward.
	MergeBase objects.ObjectHash

	// TreeSHA is the new tree built for a clean merge (KindClean only).
	TreeSHA objects.ObjectHash

	// Conflicts lists every path left unresolved (KindConflicted only).
	Conflicts []ConflictInfo
}
