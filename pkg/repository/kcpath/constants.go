package kcpath

// Names of the files and directories under a repository's .kitcat
// metadata directory. These are on-disk format, not configuration.
const (
	// KitcatDir is the metadata directory at the repository root.
	KitcatDir = ".kitcat"

	// ObjectsDir holds the sharded content-addressable object store.
	ObjectsDir = "objects"

	// RefsDir holds references.
	RefsDir = "refs"

	// HeadsDir holds branch refs under RefsDir.
	HeadsDir = "heads"

	// TagsDir holds tag refs under RefsDir.
	TagsDir = "tags"

	// IndexFile is the binary staging index.
	IndexFile = "index"

	// ConfigFile is the repository-local configuration.
	ConfigFile = "config"

	// HeadFile is the HEAD pointer, symbolic or detached.
	HeadFile = "HEAD"

	// MergeHeadFile holds the hash being merged into HEAD; its presence
	// marks the repository as mid-merge.
	MergeHeadFile = "MERGE_HEAD"

	// MergeModeFile accompanies MERGE_HEAD while a merge is in progress.
	MergeModeFile = "MERGE_MODE"

	// MergeMsgFile holds the prepared merge commit message, editable
	// before `merge --continue`.
	MergeMsgFile = "MERGE_MSG"
)
