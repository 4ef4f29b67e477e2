package commitmanager

import (
	"context"
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// TreeBuilder converts the flat, sorted index into nested tree
// objects, writing each subtree bottom-up.
type TreeBuilder struct {
	repo *kitrepo.KitcatRepository
}

// NewTreeBuilder binds a builder to the repository it writes into.
func NewTreeBuilder(repo *kitrepo.KitcatRepository) *TreeBuilder {
	return &TreeBuilder{
		repo: repo,
	}
}

// BuildFromIndex groups entries by leading path component into a
// directory tree, then writes tree objects leaves-first and returns
// the root hash. An empty index yields the canonical empty tree.
func (tb *TreeBuilder) BuildFromIndex(ctx context.Context, idx *index.Index) (objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if idx.Count() == 0 {
		emptyTree := tree.NewTree([]*tree.TreeEntry{})
		return tb.repo.WriteObject(emptyTree)
	}

	root := newDirectoryNode("")
	for _, entry := range idx.Entries {
		root.addEntry(entry.Path.String(), entry.BlobHash, objects.FileMode(entry.Mode))
	}

	treeSHA, err := tb.buildTree(ctx, root)
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}

	return treeSHA, nil
}

// buildTree writes this node's subtrees, then the node itself. Entry
// modes come straight from the index so executables and symlinks
// survive the round-trip.
func (tb *TreeBuilder) buildTree(ctx context.Context, node *directoryNode) (objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	entries := make([]*tree.TreeEntry, 0, len(node.files)+len(node.subdirs))

	for name, sha := range node.files {
		mode := node.modes[name]
		entry, err := tree.NewTreeEntry(mode, kcpath.RelativePath(name), sha)
		if err != nil {
			return "", fmt.Errorf("create tree entry for %s: %w", name, err)
		}
		entries = append(entries, entry)
	}

	for name, subdir := range node.subdirs {
		subTreeSHA, err := tb.buildTree(ctx, subdir)
		if err != nil {
			return "", fmt.Errorf("build subdirectory %s: %w", name, err)
		}
		entry, err := tree.NewTreeEntry(objects.FileModeDirectory, kcpath.RelativePath(name), subTreeSHA)
		if err != nil {
			return "", fmt.Errorf("create tree entry for directory %s: %w", name, err)
		}
		entries = append(entries, entry)
	}

	treeObj := tree.NewTree(entries)
	treeSHA, err := tb.repo.WriteObject(treeObj)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}

	return treeSHA, nil
}
