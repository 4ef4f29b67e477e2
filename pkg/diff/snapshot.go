package diff

import (
	"context"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// snapshotFromTree flattens a tree object (and its subtrees) into a map keyed
// by repository-relative path. Directory fan-out follows the same
// worker-pool tree walk: a directory with more than one subdirectory entry
// is expanded concurrently, bounded by a WorkerPool.
func snapshotFromTree(ctx context.Context, repo *kitrepo.KitcatRepository, rootHash objects.ObjectHash) (map[kcpath.RelativePath]fileSnapshot, error) {
	result := make(map[kcpath.RelativePath]fileSnapshot)
	if rootHash == "" || rootHash.IsZero() {
		return result, nil
	}

	if err := walkTree(ctx, repo, rootHash, "", result); err != nil {
		return nil, err
	}
	return result, nil
}

func walkTree(ctx context.Context, repo *kitrepo.KitcatRepository, treeHash objects.ObjectHash, prefix kcpath.RelativePath, out map[kcpath.RelativePath]fileSnapshot) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t, err := repo.ReadTreeObject(treeHash)
	if err != nil {
		return NewInternalError("read_tree", err)
	}

	entries := t.Entries()

	var dirEntries []*tree.TreeEntry
	for _, e := range entries {
		path := joinRelative(prefix, e.Name())
		if e.IsDirectory() {
			dirEntries = append(dirEntries, e)
			continue
		}

		content, mode, err := readBlobSnapshot(repo, e)
		if err != nil {
			return err
		}
		out[path] = fileSnapshot{SHA: e.SHA(), Mode: mode, Content: content, Exists: true}
	}

	switch len(dirEntries) {
	case 0:
		return nil
	case 1:
		e := dirEntries[0]
		return walkTree(ctx, repo, e.SHA(), joinRelative(prefix, e.Name()), out)
	default:
		pool := concurrency.NewWorkerPool[*tree.TreeEntry, map[kcpath.RelativePath]fileSnapshot]()
		results, err := pool.Process(ctx, dirEntries, func(gctx context.Context, e *tree.TreeEntry) (map[kcpath.RelativePath]fileSnapshot, error) {
			sub := make(map[kcpath.RelativePath]fileSnapshot)
			if err := walkTree(gctx, repo, e.SHA(), joinRelative(prefix, e.Name()), sub); err != nil {
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

func readBlobSnapshot(repo *kitrepo.KitcatRepository, e *tree.TreeEntry) ([]byte, objects.FileMode, error) {
	b, err := repo.ReadBlobObject(e.SHA())
	if err != nil {
		return nil, 0, NewInternalError("read_blob", err)
	}
	content, err := b.Content()
	if err != nil {
		return nil, 0, NewInternalError("blob_content", err)
	}
	return []byte(content), e.Mode(), nil
}

func joinRelative(prefix kcpath.RelativePath, name string) kcpath.RelativePath {
	if prefix == "" {
		p, _ := kcpath.NewRelativePath(name)
		return p
	}
	return prefix.Join(name)
}

// snapshotFromIndex flattens the staging index's Stage-0 entries into path ->
// fileSnapshot, reading blob content from the object store.
func snapshotFromIndex(repo *kitrepo.KitcatRepository, idx *index.Index) (map[kcpath.RelativePath]fileSnapshot, error) {
	result := make(map[kcpath.RelativePath]fileSnapshot, idx.Count())
	for _, e := range idx.Entries {
		if e.Stage != 0 {
			continue
		}
		b, err := repo.ReadBlobObject(e.BlobHash)
		if err != nil {
			return nil, NewInternalError("read_blob", err)
		}
		content, err := b.Content()
		if err != nil {
			return nil, NewInternalError("blob_content", err)
		}
		result[e.Path] = fileSnapshot{SHA: e.BlobHash, Mode: objects.FileMode(e.Mode), Content: []byte(content), Exists: true}
	}
	return result, nil
}

// snapshotFromWorkdir walks the working directory (skipping the source
// metadata directory) and builds path -> fileSnapshot from files on disk. No
// blob hash is computed for unmodified-detection; callers compare raw
// content instead.
func snapshotFromWorkdir(root kcpath.RepositoryPath, metaDirName string) (map[kcpath.RelativePath]fileSnapshot, error) {
	result := make(map[kcpath.RelativePath]fileSnapshot)
	rootStr := root.String()

	err := filepath.Walk(rootStr, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == rootStr {
			return nil
		}

		rel, relErr := filepath.Rel(rootStr, p)
		if relErr != nil {
			return relErr
		}

		base := filepath.Base(rel)
		if info.IsDir() {
			if base == metaDirName {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, pathErr := kcpath.NewRelativePath(filepath.ToSlash(rel))
		if pathErr != nil {
			return pathErr
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return readErr
		}

		mode := objects.FromOSFileMode(info.Mode())
		result[relPath] = fileSnapshot{Mode: mode, Content: data, Exists: true}
		return nil
	})
	if err != nil {
		return nil, NewInternalError("walk_workdir", err)
	}
	return result, nil
}
