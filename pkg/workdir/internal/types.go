package internal

import (
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

type FileMap = map[kcpath.RelativePath]FileInfo

// ActionType is the kind of working-tree mutation an Operation asks
// for.
type ActionType int

const (
	ActionCreate ActionType = iota
	ActionModify
	ActionDelete
)
func (a ActionType) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionModify:
		return "modify"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is one planned working-tree change; SHA and Mode are only
// meaningful for creates and modifies.
type Operation struct {
	Path   kcpath.RelativePath
	Action ActionType
	SHA    objects.ObjectHash
	Mode   objects.FileMode
}

// Backup records a file's pre-transaction state. Existed=false means
// rollback removes the file instead of restoring content.
type Backup struct {
	Path     kcpath.RelativePath
	TempFile string
	Existed  bool
	Mode     objects.FileMode
}

// Status is the working-tree-vs-index comparison result.
type Status struct {
	Clean          bool
	ModifiedFiles  []kcpath.RelativePath
	DeletedFiles   []kcpath.RelativePath
	UntrackedFiles []kcpath.RelativePath
	Details        []FileStatusDetail
}

// ChangeSummary counts planned operations by kind.
type ChangeSummary struct {
	Created  int
	Modified int
	Deleted  int
}

// IndexUpdateResult reports an index rewrite.
type IndexUpdateResult struct {
	Success        bool
	EntriesUpdated int
	EntriesRemoved int
	Errors         []error
}
