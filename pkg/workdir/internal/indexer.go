package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	pool "github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// IndexUpdater rewrites the index after checkout moved the working
// tree.
type IndexUpdater struct {
	workDir   string
	indexPath kcpath.AbsolutePath
}

// NewUpdater binds an updater to the index file it rewrites.
func NewUpdater(workDir string, indexPath kcpath.AbsolutePath) *IndexUpdater {
	return &IndexUpdater{
		workDir:   workDir,
		indexPath: indexPath,
	}
}

// UpdateToMatch rebuilds the index from the target file map, stating
// each file for fresh metadata. The write is skipped when any entry
// failed, so the index never half-matches the tree.
func (u *IndexUpdater) UpdateToMatch(targetFiles map[kcpath.RelativePath]FileInfo) (IndexUpdateResult, error) {
	result := IndexUpdateResult{
		Success:        true,
		EntriesUpdated: 0,
		EntriesRemoved: 0,
		Errors:         []error{},
	}

	if len(targetFiles) == 0 {
		newIndex := index.NewIndex()
		if err := newIndex.Write(u.indexPath); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Errorf("index %s failed (%s): %w", "write", u.indexPath.String(), err))
			return result, err
		}
		return result, nil
	}

	newIndex := index.NewIndex()

	entries, errors := u.createEntries(targetFiles)

	for _, entry := range entries {
		newIndex.Add(entry)
		result.EntriesUpdated++
	}

	if len(errors) > 0 {
		result.Success = false
		result.Errors = errors
	}

	if result.Success {
		if err := newIndex.Write(u.indexPath); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Errorf("index %s failed (%s): %w", "write", u.indexPath.String(), err))
			return result, err
		}
	}

	return result, nil
}

// createEntries stats and builds entries across the worker pool,
// collecting every error instead of failing fast.
func (u *IndexUpdater) createEntries(targetFiles map[kcpath.RelativePath]FileInfo) ([]*index.Entry, []error) {
	if len(targetFiles) == 0 {
		return nil, nil
	}

	type task struct {
		path kcpath.RelativePath
		info FileInfo
	}

	type result struct {
		entry *index.Entry
		err   error
		path  kcpath.RelativePath
	}

	pool := pool.NewWorkerPool[task, result]()

	tasks := make([]task, 0, len(targetFiles))
	for path, info := range targetFiles {
		tasks = append(tasks, task{path: path, info: info})
	}

	processFn := func(ctx context.Context, t task) (result, error) {
		entry, err := u.createIndexEntry(t.path, t.info)
		return result{
			entry: entry,
			err:   err,
			path:  t.path,
		}, nil
	}

	results, _ := pool.Process(context.Background(), tasks, processFn)

	var entries []*index.Entry
	var errors []error

	for _, res := range results {
		if res.err != nil {
			errors = append(errors, fmt.Errorf("create entry for %s: %w", res.path, res.err))
		} else if res.entry != nil {
			entries = append(entries, res.entry)
		}
	}

	return entries, errors
}

// UpdateIncremental edits the existing index in place: removals
// first, then freshly-stated additions.
func (u *IndexUpdater) UpdateIncremental(toAdd FileMap, toRemove []kcpath.RelativePath) (IndexUpdateResult, error) {
	result := IndexUpdateResult{
		Success:        true,
		EntriesUpdated: 0,
		EntriesRemoved: 0,
		Errors:         []error{},
	}

	idx, err := index.Read(u.indexPath)
	if err != nil {
		return result, fmt.Errorf("index %s failed (%s): %w", "read", u.indexPath.String(), err)
	}

	for _, path := range toRemove {
		if idx.Remove(path) {
			result.EntriesRemoved++
		}
	}

	if len(toAdd) > 0 {
		entries, errors := u.createEntries(toAdd)

		for _, entry := range entries {
			idx.Add(entry)
			result.EntriesUpdated++
		}

		if len(errors) > 0 {
			result.Success = false
			result.Errors = errors
		}
	}

	if result.Success {
		if err := idx.Write(u.indexPath); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Errorf("index %s failed (%s): %w", "write", u.indexPath.String(), err))
			return result, err
		}
	}

	return result, nil
}

// createIndexEntry stats one file and pairs the metadata with its
// already-known blob hash.
func (u *IndexUpdater) createIndexEntry(path kcpath.RelativePath, info FileInfo) (*index.Entry, error) {
	fullPath := filepath.Join(u.workDir, path.String())

	stats, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	entry, err := index.NewEntryFromFileInfo(path, stats, info.SHA)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	return entry, nil
}
