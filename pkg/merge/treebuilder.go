package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// mergeDirNode mirrors commitmanager's directoryNode: a flat path -> blob map
// folded into a hierarchy of tree objects. Kept local because pkg/merge must
// not import pkg/commitmanager (that would cycle through pkg/refs/branch,
// which imports pkg/merge for ahead/behind and merge-base resolution).
type mergeDirNode struct {
	files   map[string]fileEntry
	subdirs map[string]*mergeDirNode
}

func newMergeDirNode() *mergeDirNode {
	return &mergeDirNode{
		files:   make(map[string]fileEntry),
		subdirs: make(map[string]*mergeDirNode),
	}
}

func (n *mergeDirNode) addEntry(path string, e fileEntry) {
	parts := strings.Split(path, "/")
	if len(parts) == 1 {
		n.files[parts[0]] = e
		return
	}

	sub, ok := n.subdirs[parts[0]]
	if !ok {
		sub = newMergeDirNode()
		n.subdirs[parts[0]] = sub
	}
	sub.addEntry(strings.Join(parts[1:], "/"), e)
}

// buildMergeTree writes the tree objects for a flat path -> fileEntry map
// and returns the root tree's hash.
func buildMergeTree(ctx context.Context, repo *kitrepo.KitcatRepository, files map[kcpath.RelativePath]fileEntry) (objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if len(files) == 0 {
		emptyTree := tree.NewTree([]*tree.TreeEntry{})
		sha, err := repo.WriteObject(emptyTree)
		if err != nil {
			return "", NewInternalError("write_empty_tree", err)
		}
		return sha, nil
	}

	root := newMergeDirNode()
	for path, e := range files {
		root.addEntry(path.String(), e)
	}

	return writeMergeDirNode(ctx, repo, root)
}

func writeMergeDirNode(ctx context.Context, repo *kitrepo.KitcatRepository, node *mergeDirNode) (objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	entries := make([]*tree.TreeEntry, 0, len(node.files)+len(node.subdirs))

	for name, e := range node.files {
		entry, err := tree.NewTreeEntry(e.Mode, kcpath.RelativePath(name), e.SHA)
		if err != nil {
			return "", NewInternalError(fmt.Sprintf("tree_entry(%s)", name), err)
		}
		entries = append(entries, entry)
	}

	for name, sub := range node.subdirs {
		subSHA, err := writeMergeDirNode(ctx, repo, sub)
		if err != nil {
			return "", err
		}
		entry, err := tree.NewTreeEntry(objects.FileModeDirectory, kcpath.RelativePath(name), subSHA)
		if err != nil {
			return "", NewInternalError(fmt.Sprintf("tree_entry(%s)", name), err)
		}
		entries = append(entries, entry)
	}

	treeObj := tree.NewTree(entries)
	sha, err := repo.WriteObject(treeObj)
	if err != nil {
		return "", NewInternalError("write_tree", err)
	}
	return sha, nil
}
