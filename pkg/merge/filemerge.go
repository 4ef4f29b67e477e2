package merge

import (
	"context"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// pathAction classifies how a single path resolves during a three-way merge.
type pathAction int

const (
	actionClean pathAction = iota
	actionDelete
	actionConflict
)

// pathResult is the resolution for one path across base/ours/theirs.
type pathResult struct {
	Path   kcpath.RelativePath
	Action pathAction

	// Clean results (Action == actionClean)
	CleanSHA  objects.ObjectHash
	CleanMode objects.FileMode

	// Conflict results (Action == actionConflict); any side may be absent.
	Reason         string
	BaseEntry      *fileEntry
	OursEntry      *fileEntry
	TheirsEntry    *fileEntry
	WorkingContent []byte
}

// mergePath resolves a single path given its (possibly absent) entry on
// each side of the merge, following the standard three-way state table:
// unchanged-on-one-side always yields the other side's version; changes on
// both sides merge at the line level, falling back to a marked conflict
// when the regions actually collide.
func mergePath(
	ctx context.Context,
	repo *kitrepo.KitcatRepository,
	path kcpath.RelativePath,
	base *fileEntry, ours *fileEntry, theirs *fileEntry,
	oursLabel, theirsLabel string,
) (*pathResult, error) {
	switch {
	case base == nil && ours == nil && theirs != nil:
		return &pathResult{Path: path, Action: actionClean, CleanSHA: theirs.SHA, CleanMode: theirs.Mode}, nil

	case base == nil && ours != nil && theirs == nil:
		return &pathResult{Path: path, Action: actionClean, CleanSHA: ours.SHA, CleanMode: ours.Mode}, nil

	case base == nil && ours != nil && theirs != nil:
		if sameEntry(ours, theirs) {
			return &pathResult{Path: path, Action: actionClean, CleanSHA: ours.SHA, CleanMode: ours.Mode}, nil
		}
		return mergeContent(ctx, repo, path, nil, ours, theirs, oursLabel, theirsLabel, "add/add")

	case base != nil && ours == nil && theirs == nil:
		return &pathResult{Path: path, Action: actionDelete}, nil

	case base != nil && ours == nil && theirs != nil:
		if sameEntry(base, theirs) {
			return &pathResult{Path: path, Action: actionDelete}, nil
		}
		content, err := readEntryContent(repo, theirs)
		if err != nil {
			return nil, err
		}
		return &pathResult{
			Path: path, Action: actionConflict, Reason: "modify/delete",
			BaseEntry: base, TheirsEntry: theirs, WorkingContent: content,
		}, nil

	case base != nil && ours != nil && theirs == nil:
		if sameEntry(base, ours) {
			return &pathResult{Path: path, Action: actionDelete}, nil
		}
		content, err := readEntryContent(repo, ours)
		if err != nil {
			return nil, err
		}
		return &pathResult{
			Path: path, Action: actionConflict, Reason: "delete/modify",
			BaseEntry: base, OursEntry: ours, WorkingContent: content,
		}, nil

	default: // base != nil, ours != nil, theirs != nil
		oursChanged := !sameEntry(base, ours)
		theirsChanged := !sameEntry(base, theirs)

		switch {
		case !oursChanged && !theirsChanged:
			return &pathResult{Path: path, Action: actionClean, CleanSHA: base.SHA, CleanMode: base.Mode}, nil
		case oursChanged && !theirsChanged:
			return &pathResult{Path: path, Action: actionClean, CleanSHA: ours.SHA, CleanMode: ours.Mode}, nil
		case !oursChanged && theirsChanged:
			return &pathResult{Path: path, Action: actionClean, CleanSHA: theirs.SHA, CleanMode: theirs.Mode}, nil
		default:
			if sameEntry(ours, theirs) {
				return &pathResult{Path: path, Action: actionClean, CleanSHA: ours.SHA, CleanMode: ours.Mode}, nil
			}
			return mergeContent(ctx, repo, path, base, ours, theirs, oursLabel, theirsLabel, "content")
		}
	}
}

func sameEntry(a, b *fileEntry) bool {
	return a.SHA == b.SHA && a.Mode == b.Mode
}

func readEntryContent(repo *kitrepo.KitcatRepository, e *fileEntry) ([]byte, error) {
	b, err := repo.ReadBlobObject(e.SHA)
	if err != nil {
		return nil, NewInternalError("read_blob", err)
	}
	content, err := b.Content()
	if err != nil {
		return nil, NewInternalError("blob_content", err)
	}
	return content.Bytes(), nil
}

// mergeContent attempts a line-level merge of a path changed on both sides.
// A binary file on either side can't be line-merged, so it always falls
// back to a conflict; base may be nil to represent an add/add case.
func mergeContent(
	ctx context.Context,
	repo *kitrepo.KitcatRepository,
	path kcpath.RelativePath,
	base, ours, theirs *fileEntry,
	oursLabel, theirsLabel, reason string,
) (*pathResult, error) {
	oursContent, err := readEntryContent(repo, ours)
	if err != nil {
		return nil, err
	}
	theirsContent, err := readEntryContent(repo, theirs)
	if err != nil {
		return nil, err
	}

	if looksBinary(oursContent) || looksBinary(theirsContent) {
		return &pathResult{
			Path: path, Action: actionConflict, Reason: "binary " + reason,
			BaseEntry: base, OursEntry: ours, TheirsEntry: theirs, WorkingContent: oursContent,
		}, nil
	}

	var baseContent []byte
	if base != nil {
		baseContent, err = readEntryContent(repo, base)
		if err != nil {
			return nil, err
		}
	}

	result := mergeLines(
		splitContentLines(string(baseContent)),
		splitContentLines(string(oursContent)),
		splitContentLines(string(theirsContent)),
		oursLabel, theirsLabel,
	)
	merged := []byte(strings.Join(result.Lines, "\n") + "\n")

	if result.Conflict {
		return &pathResult{
			Path: path, Action: actionConflict, Reason: reason,
			BaseEntry: base, OursEntry: ours, TheirsEntry: theirs, WorkingContent: merged,
		}, nil
	}

	mode := ours.Mode
	if base != nil && ours.Mode == base.Mode && theirs.Mode != base.Mode {
		mode = theirs.Mode
	}

	newBlob := blob.NewBlob(merged)
	sha, err := repo.WriteObject(newBlob)
	if err != nil {
		return nil, NewInternalError("write_merged_blob", err)
	}

	return &pathResult{Path: path, Action: actionClean, CleanSHA: sha, CleanMode: mode}, nil
}
