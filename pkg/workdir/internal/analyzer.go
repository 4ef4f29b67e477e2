package internal

import (
	"context"
	"fmt"
	"maps"

	pool "github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"golang.org/x/sync/errgroup"
)

// FileInfo is the (hash, mode) identity of one path.
type FileInfo struct {
	SHA  objects.ObjectHash
	Mode objects.FileMode
}

// ChangeAnalysis is the planned operation set plus the target state
// the index will be rewritten from.
type ChangeAnalysis struct {
	Operations  []Operation
	Summary     ChangeSummary
	TargetFiles map[kcpath.RelativePath]FileInfo
}

// Analyzer flattens commit trees into path maps and diffs them
// against the index to plan checkout operations.
type Analyzer struct {
	repo *kitrepo.KitcatRepository
}

// NewAnalyzer binds an analyzer to the repository it reads.
func NewAnalyzer(repo *kitrepo.KitcatRepository) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// GetCommitFiles flattens a commit's tree into a path-to-FileInfo
// map.
func (a *Analyzer) GetCommitFiles(ctx context.Context, commitSHA objects.ObjectHash) (map[kcpath.RelativePath]FileInfo, error) {
	c, err := a.repo.ReadCommitObject(commitSHA)
	if err != nil {
		return nil, err
	}

	if c.TreeSHA == "" {
		return nil, fmt.Errorf("commit %s has no tree", commitSHA.Short())
	}

	return a.getTreeFiles(ctx, c.TreeSHA, kcpath.RelativePath(""))
}

// getTreeFiles walks one tree level, collecting files and fanning
// subdirectories out across the worker pool when there are several.
func (a *Analyzer) getTreeFiles(ctx context.Context, treeSHA objects.ObjectHash, basePath kcpath.RelativePath) (map[kcpath.RelativePath]FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	files := make(map[kcpath.RelativePath]FileInfo)
	treeObj, err := a.repo.ReadTreeObject(treeSHA)
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", treeSHA.Short(), err)
	}

	type dirTask struct {
		sha  objects.ObjectHash
		path kcpath.RelativePath
	}
	var directories []dirTask

	for _, e := range treeObj.Entries() {
		var fullPath kcpath.RelativePath
		if basePath == "" {
			fullPath = kcpath.RelativePath(e.Name())
		} else {
			fullPath = basePath.Join(e.Name())
		}

		if e.IsDirectory() {
			directories = append(directories, dirTask{e.SHA(), fullPath})
			continue
		}

		if a.isSupportedFileType(e) {
			files[fullPath] = FileInfo{
				SHA:  e.SHA(),
				Mode: e.Mode(),
			}
		}
	}

	if len(directories) == 0 {
		return files, nil
	}

	if len(directories) == 1 {
		subFiles, err := a.getTreeFiles(ctx, directories[0].sha, directories[0].path)
		if err != nil {
			return nil, err
		}
		maps.Copy(files, subFiles)
		return files, nil
	}

	pool := pool.NewWorkerPool[dirTask, FileMap]()
	processFn := func(ctx context.Context, task dirTask) (FileMap, error) {
		return a.getTreeFiles(ctx, task.sha, task.path)
	}

	results, err := pool.Process(ctx, directories, processFn)
	if err != nil {
		return nil, err
	}

	for _, subFiles := range results {
		maps.Copy(files, subFiles)
	}

	return files, nil
}

// GetIndexFiles projects the index into the same map shape trees
// flatten to.
func (a *Analyzer) GetIndexFiles(idx *index.Index) FileMap {
	files := make(FileMap)
	for _, entry := range idx.Entries {
		files[entry.Path] = FileInfo{
			SHA:  entry.BlobHash,
			Mode: objects.FileMode(entry.Mode),
		}
	}
	return files
}

// AnalyzeChanges diffs current against target into create/modify/
// delete operations. Deletions and additions scan independently, so
// the two passes run concurrently.
func (a *Analyzer) AnalyzeChanges(current, target FileMap) ChangeAnalysis {
	var operations []Operation
	summary := ChangeSummary{}

	type analysisResult struct {
		ops     []Operation
		deleted int
		created int
		changed int
	}

	var deleteResult, createModifyResult analysisResult
	g := new(errgroup.Group)

	g.Go(func() error {
		var localSummary ChangeSummary
		ops := findDeletedFiles(current, target, &localSummary)
		deleteResult = analysisResult{
			ops:     ops,
			deleted: localSummary.Deleted,
		}
		return nil
	})

	g.Go(func() error {
		var localSummary ChangeSummary
		ops := a.findCreatedAndModifiedFiles(current, target, &localSummary)
		createModifyResult = analysisResult{
			ops:     ops,
			created: localSummary.Created,
			changed: localSummary.Modified,
		}
		return nil
	})

	_ = g.Wait()

	operations = append(operations, deleteResult.ops...)
	operations = append(operations, createModifyResult.ops...)

	summary.Deleted = deleteResult.deleted
	summary.Created = createModifyResult.created
	summary.Modified = createModifyResult.changed

	return ChangeAnalysis{
		Operations:  operations,
		Summary:     summary,
		TargetFiles: target,
	}
}

func findDeletedFiles(current, target FileMap, summary *ChangeSummary) []Operation {
	var operations []Operation

	for path := range current {
		if _, exists := target[path]; !exists {
			operations = append(operations, Operation{
				Path:   path,
				Action: ActionDelete,
			})
			summary.Deleted++
		}
	}

	return operations
}

// findCreatedAndModifiedFiles plans writes for paths new or changed
// in target.
func (a *Analyzer) findCreatedAndModifiedFiles(current, target FileMap, summary *ChangeSummary) []Operation {
	var operations []Operation

	for path, targetInfo := range target {
		currentInfo, exists := current[path]

		if !exists {
			operations = append(operations, Operation{
				Path:   path,
				Action: ActionCreate,
				SHA:    targetInfo.SHA,
				Mode:   targetInfo.Mode,
			})
			summary.Created++
		} else if a.hasChanged(currentInfo, targetInfo) {
			operations = append(operations, Operation{
				Path:   path,
				Action: ActionModify,
				SHA:    targetInfo.SHA,
				Mode:   targetInfo.Mode,
			})
			summary.Modified++
		}
	}

	return operations
}

// AreTreesIdentical short-circuits on equal hashes, else compares the
// flattened maps.
func (a *Analyzer) AreTreesIdentical(ctx context.Context, treeSHA1, treeSHA2 objects.ObjectHash) (bool, error) {
	if treeSHA1 == treeSHA2 {
		return true, nil
	}

	var tree1Files, tree2Files FileMap

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		tree1Files, err = a.getTreeFiles(ctx, treeSHA1, kcpath.RelativePath(""))
		if err != nil {
			return fmt.Errorf("read tree1: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		tree2Files, err = a.getTreeFiles(ctx, treeSHA2, kcpath.RelativePath(""))
		if err != nil {
			return fmt.Errorf("read tree2: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return false, err
	}

	if len(tree1Files) != len(tree2Files) {
		return false, nil
	}

	for path, info1 := range tree1Files {
		info2, exists := tree2Files[path]
		if !exists || a.hasChanged(info1, info2) {
			return false, nil
		}
	}

	return true, nil
}

// isSupportedFileType admits blobs in their three modes; gitlinks are
// skipped.
func (a *Analyzer) isSupportedFileType(entry *tree.TreeEntry) bool {
	return entry.IsFile() || entry.IsExecutable() || entry.IsSymbolicLink()
}

// hasChanged treats either a content or a mode difference as a
// change.
func (a *Analyzer) hasChanged(current, target FileInfo) bool {
	return current.SHA != target.SHA || current.Mode != target.Mode
}
