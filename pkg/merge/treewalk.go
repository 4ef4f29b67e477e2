package merge

import (
	"context"

	"github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// fileEntry is a path's blob identity within one side of a three-way merge.
type fileEntry struct {
	SHA  objects.ObjectHash
	Mode objects.FileMode
}

// filesAtCommit flattens a commit's root tree into path -> fileEntry, fanning
// out across sibling subdirectories the same way the diff engine's snapshot
// walk does.
func filesAtCommit(ctx context.Context, repo *kitrepo.KitcatRepository, commitSHA objects.ObjectHash) (map[kcpath.RelativePath]fileEntry, error) {
	if commitSHA == "" {
		return map[kcpath.RelativePath]fileEntry{}, nil
	}

	c, err := repo.ReadCommitObject(commitSHA)
	if err != nil {
		return nil, NewInternalError("read_commit", err)
	}

	out := make(map[kcpath.RelativePath]fileEntry)
	if err := walkMergeTree(ctx, repo, c.TreeSHA, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkMergeTree(ctx context.Context, repo *kitrepo.KitcatRepository, treeHash objects.ObjectHash, prefix kcpath.RelativePath, out map[kcpath.RelativePath]fileEntry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if treeHash == "" || treeHash.IsZero() {
		return nil
	}

	t, err := repo.ReadTreeObject(treeHash)
	if err != nil {
		return NewInternalError("read_tree", err)
	}

	var dirEntries []*tree.TreeEntry
	for _, e := range t.Entries() {
		path := joinMergePath(prefix, e.Name())
		if e.IsDirectory() {
			dirEntries = append(dirEntries, e)
			continue
		}
		out[path] = fileEntry{SHA: e.SHA(), Mode: e.Mode()}
	}

	switch len(dirEntries) {
	case 0:
		return nil
	case 1:
		e := dirEntries[0]
		return walkMergeTree(ctx, repo, e.SHA(), joinMergePath(prefix, e.Name()), out)
	default:
		pool := concurrency.NewWorkerPool[*tree.TreeEntry, map[kcpath.RelativePath]fileEntry]()
		results, err := pool.Process(ctx, dirEntries, func(gctx context.Context, e *tree.TreeEntry) (map[kcpath.RelativePath]fileEntry, error) {
			sub := make(map[kcpath.RelativePath]fileEntry)
			if err := walkMergeTree(gctx, repo, e.SHA(), joinMergePath(prefix, e.Name()), sub); err != nil {
				return nil, err
			}
			return sub, nil
		})
		if err != nil {
			return err
		}
		for _, sub := range results {
			for k, v := range sub {
				out[k] = v
			}
		}
		return nil
	}
}

func joinMergePath(prefix kcpath.RelativePath, name string) kcpath.RelativePath {
	if prefix == "" {
		p, _ := kcpath.NewRelativePath(name)
		return p
	}
	return prefix.Join(name)
}
