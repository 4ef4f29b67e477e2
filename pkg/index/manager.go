package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/store"
)

// Manager ties staging operations together: it reads working-tree
// files, writes their blobs, and keeps the on-disk index current.
type Manager struct {
	repoRoot  kcpath.RepositoryPath
	indexPath kcpath.KitPath
	index     *Index
	mu        sync.RWMutex
}

// NewManager builds a manager rooted at repoRoot with an empty
// in-memory index; Initialize loads the on-disk state.
func NewManager(repoRoot kcpath.RepositoryPath) *Manager {
	indexPath := repoRoot.KitPath().IndexPath()
	return &Manager{
		repoRoot:  repoRoot,
		indexPath: indexPath,
		index:     NewIndex(),
	}
}

// Initialize replaces the in-memory index with the on-disk one.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	index, err := Read(m.indexPath.ToAbsolutePath())
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	m.index = index
	return nil
}

// AddResult reports what a staging batch did, path by path.
type AddResult struct {
	Added    []string
	Modified []string
	Ignored  []string
	Failed   []AddFailureResult
}

// AddFailureResult names one path that could not be staged and why.
type AddFailureResult struct {
	Path   string
	Reason string
}

// Add stages paths: each file's content becomes a blob in the store
// and its entry lands in the index, which is rewritten once at the
// end. Per-file failures are collected, not fatal.
func (m *Manager) Add(paths []string, objectStore store.ObjectStore) (*AddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &AddResult{
		Added:    make([]string, 0),
		Modified: make([]string, 0),
		Ignored:  make([]string, 0),
		Failed:   make([]AddFailureResult, 0),
	}

	for _, path := range paths {
		if err := m.addFile(path, objectStore, result); err != nil {
			result.Failed = append(result.Failed, AddFailureResult{
				Path:   path,
				Reason: err.Error(),
			})
		}
	}

	if err := m.saveIndex(); err != nil {
		return result, fmt.Errorf("failed to save index: %w", err)
	}

	return result, nil
}

// addFile stages one file: stat, read, blob write, entry upsert.
func (m *Manager) addFile(path string, objectStore store.ObjectStore, result *AddResult) error {
	absPath, relPath, err := m.resolvePaths(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath.String())
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("cannot add directory (use files within it)")
	}

	content, err := fileops.ReadBytesStrict(absPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	b := blob.NewBlob(content)
	hash, err := objectStore.WriteObject(b)
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	isNew := !m.index.Has(relPath)

	entry, err := NewEntryFromFileInfo(relPath, info, hash)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	m.index.Add(entry)

	if isNew {
		result.Added = append(result.Added, relPath.String())
	} else {
		result.Modified = append(result.Modified, relPath.String())
	}

	return nil
}

// RemoveResult reports an unstaging batch.
type RemoveResult struct {
	Removed []string
	Failed  []RemoveFailureResult
}

// RemoveFailureResult names one path that could not be unstaged.
type RemoveFailureResult struct {
	Path   string
	Reason string
}

// Remove unstages paths, optionally deleting the working-tree files
// too.
func (m *Manager) Remove(paths []string, deleteFromDisk bool) (*RemoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &RemoveResult{
		Removed: make([]string, 0),
		Failed:  make([]RemoveFailureResult, 0),
	}

	for _, path := range paths {
		absPath, relPath, err := m.resolvePaths(path)
		if err != nil {
			result.Failed = append(result.Failed, RemoveFailureResult{
				Path:   path,
				Reason: err.Error(),
			})
			continue
		}

		if !m.index.Has(relPath) {
			result.Failed = append(result.Failed, RemoveFailureResult{
				Path:   relPath.String(),
				Reason: "file not in index",
			})
			continue
		}

		m.index.Remove(relPath)
		result.Removed = append(result.Removed, relPath.String())

		if deleteFromDisk {
			// The index removal already succeeded; a failed disk delete
			// is not reported as a staging failure.
			_ = fileops.SafeRemove(absPath)
		}
	}

	if err := m.saveIndex(); err != nil {
		return result, fmt.Errorf("failed to save index: %w", err)
	}

	return result, nil
}

// StatusResult is the index-vs-working-tree half of status; the full
// tri-comparison against HEAD lives in pkg/workdir.
type StatusResult struct {
	Staged    StagedChanges
	Unstaged  UnstagedChanges
	Untracked []string
	Ignored   []string
}

// StagedChanges classifies index-vs-HEAD differences.
type StagedChanges struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// UnstagedChanges classifies working-tree-vs-index differences.
type UnstagedChanges struct {
	Modified []string
	Deleted  []string
}

// Status scans the index against the working tree, reporting unstaged
// modifications and deletions. The HEAD comparison and untracked scan
// are pkg/workdir's job.
func (m *Manager) Status() (*StatusResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := &StatusResult{
		Staged: StagedChanges{
			Added:    make([]string, 0),
			Modified: make([]string, 0),
			Deleted:  make([]string, 0),
		},
		Unstaged: UnstagedChanges{
			Modified: make([]string, 0),
			Deleted:  make([]string, 0),
		},
		Untracked: make([]string, 0),
		Ignored:   make([]string, 0),
	}

	for _, entry := range m.index.Entries {
		absPath := filepath.Join(m.repoRoot.String(), entry.Path.String())
		info, err := os.Stat(absPath)

		if os.IsNotExist(err) {
			result.Unstaged.Deleted = append(result.Unstaged.Deleted, entry.Path.String())
			continue
		}

		if err != nil {
			continue
		}

		if entry.IsModified(info) {
			result.Unstaged.Modified = append(result.Unstaged.Modified, entry.Path.String())
		}
	}

	return result, nil
}

// Clear empties the index and persists the empty state.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index.Clear()
	return m.saveIndex()
}

// GetIndex exposes the in-memory index. Callers treat it as
// read-only; mutations go through Add/Remove so the lock and the
// on-disk file stay coherent.
func (m *Manager) GetIndex() *Index {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.index
}

// saveIndex flushes to disk; the caller holds m.mu.
func (m *Manager) saveIndex() error {
	return m.index.Write(m.indexPath.ToAbsolutePath())
}

// resolvePaths maps user input to the absolute and repo-relative
// forms staging needs.
func (m *Manager) resolvePaths(path string) (kcpath.AbsolutePath, kcpath.RelativePath, error) {
	var absPath kcpath.AbsolutePath

	if filepath.IsAbs(path) {
		absPath = kcpath.AbsolutePath(filepath.Clean(path))
	} else {
		absPath = m.repoRoot.Join(path)
	}

	relPath, err := absPath.RelativeTo(m.repoRoot)
	if err != nil {
		return "", "", fmt.Errorf("failed to compute relative path: %w", err)
	}

	return absPath, relPath, nil
}

// Read loads an index file; a missing file is an empty index, the
// state of a fresh repository.
func Read(path kcpath.AbsolutePath) (*Index, error) {
	data, err := fileops.ReadBytes(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	if data == nil {
		return NewIndex(), nil
	}

	index := NewIndex()
	if err := index.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to deserialize index: %w", err)
	}

	return index, nil
}
