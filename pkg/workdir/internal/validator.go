package internal

import (
	"context"
	"fmt"
	"os"

	pool "github.com/itsSauraj/kit-cat/pkg/common/concurrency"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// FileStatus classifies how a working-tree file diverged from its
// index entry.
type FileStatus int

const (
	FileDeleted FileStatus = iota
	FileSizeChanged
	FileContentChanged

	// FileTimeChanged means the mtime moved but the content hash did
	// not; the file is effectively unchanged.
	FileTimeChanged
)
func (fs FileStatus) String() string {
	switch fs {
	case FileDeleted:
		return "deleted"
	case FileSizeChanged:
		return "size-changed"
	case FileContentChanged:
		return "content-changed"
	case FileTimeChanged:
		return "time-changed"
	default:
		return "unknown"
	}
}

// FileStatusDetail is one file's divergence report.
type FileStatusDetail struct {
	Path       kcpath.RelativePath
	Status     FileStatus
	IndexSHA   objects.ObjectHash
	WorkingSHA objects.ObjectHash
}

func NewFSD(p kcpath.RelativePath, st FileStatus, ish, wsh objects.ObjectHash) *FileStatusDetail {
	return &FileStatusDetail{
		Path:       p,
		Status:     st,
		IndexSHA:   ish,
		WorkingSHA: wsh,
	}
}

// Validator answers clean/dirty questions by comparing index entries
// with the files on disk, using the stat shortcut before hashing.
type Validator struct {
	workDir kcpath.RepositoryPath
}

// NewValidator roots a validator at the working directory.
func NewValidator(workDir kcpath.RepositoryPath) *Validator {
	return &Validator{
		workDir: workDir,
	}
}

// ValidateCleanState checks every index entry against disk, fanned
// out over the worker pool.
func (v *Validator) ValidateCleanState(idx *index.Index) (Status, error) {
	status := Status{
		Clean:         true,
		ModifiedFiles: []kcpath.RelativePath{},
		DeletedFiles:  []kcpath.RelativePath{},
		Details:       []FileStatusDetail{},
	}

	if len(idx.Entries) == 0 {
		return status, nil
	}

	wp := pool.NewWorkerPool[*index.Entry, *FileStatusDetail]()

	processFn := func(ctx context.Context, entry *index.Entry) (*FileStatusDetail, error) {
		return v.checkFileStatus(entry)
	}

	results, err := wp.Process(context.Background(), idx.Entries, processFn)
	if err != nil {
		return status, err
	}

	for _, detail := range results {
		if detail == nil {
			continue
		}

		// An mtime-only difference with matching content is not a
		// modification; record it but keep the tree clean.
		if detail.Status == FileTimeChanged {
			status.Details = append(status.Details, *detail)
			continue
		}

		status.Clean = false
		status.Details = append(status.Details, *detail)

		if detail.Status == FileDeleted {
			status.DeletedFiles = append(status.DeletedFiles, detail.Path)
		} else {
			status.ModifiedFiles = append(status.ModifiedFiles, detail.Path)
		}
	}

	return status, nil
}

// CanSafelyOverwrite checks only the given paths, the ones a checkout
// will actually touch. An mtime-only change does not block.
func (v *Validator) CanSafelyOverwrite(paths []kcpath.RelativePath, idx *index.Index) error {
	if len(paths) == 0 {
		return nil
	}

	type checkTask struct {
		path  kcpath.RelativePath
		entry *index.Entry
	}

	tasks := make([]checkTask, 0, len(paths))
	for _, path := range paths {
		entry, ok := idx.Get(path)
		if !ok {
			continue
		}
		tasks = append(tasks, checkTask{path: path, entry: entry})
	}

	if len(tasks) == 0 {
		return nil
	}

	wp := pool.NewWorkerPool[checkTask, *FileStatusDetail]()

	results, err := wp.Process(context.Background(), tasks, func(ctx context.Context, task checkTask) (*FileStatusDetail, error) {
		return v.checkFileStatus(task.entry)
	})

	if err != nil {
		return err
	}

	var conflicts []kcpath.RelativePath
	for i, detail := range results {
		if detail != nil && detail.Status != FileTimeChanged {
			conflicts = append(conflicts, tasks[i].path)
		}
	}

	if len(conflicts) > 0 {
		return fmt.Errorf("cannot overwrite files with uncommitted changes: %v", conflicts)
	}

	return nil
}

// checkFileStatus stats one entry's file; nil detail means unchanged.
func (v *Validator) checkFileStatus(entry *index.Entry) (*FileStatusDetail, error) {
	fullPath := v.workDir.Join(entry.Path.String())

	stats, err := os.Stat(fullPath.String())
	if os.IsNotExist(err) {
		return NewFSD(entry.Path, FileDeleted, entry.BlobHash, ""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return v.compareWithIndex(entry, stats)
}

// compareWithIndex applies the stat shortcut: size first, then mtime,
// hashing content only when the cheap checks disagree.
func (v *Validator) compareWithIndex(entry *index.Entry, stats os.FileInfo) (*FileStatusDetail, error) {
	if uint32(stats.Size()) != entry.SizeInBytes {
		return NewFSD(entry.Path, FileSizeChanged, entry.BlobHash, ""), nil
	}

	mtimeSeconds := stats.ModTime().Unix()
	if uint32(mtimeSeconds) != entry.ModificationTime.Seconds {
		contentChanged, currentSHA, err := v.isContentModified(entry)
		if err != nil {
			return nil, fmt.Errorf("check content: %w", err)
		}

		if contentChanged {
			return NewFSD(entry.Path, FileContentChanged, entry.BlobHash, currentSHA), nil
		}

		return NewFSD(entry.Path, FileTimeChanged, entry.BlobHash, currentSHA), nil
	}

	contentChanged, currentSHA, err := v.isContentModified(entry)
	if err != nil {
		return nil, fmt.Errorf("check content: %w", err)
	}

	if contentChanged {
		return NewFSD(entry.Path, FileContentChanged, entry.BlobHash, currentSHA), nil
	}

	return nil, nil
}

// isContentModified re-hashes the file and compares to the staged
// blob.
func (v *Validator) isContentModified(entry *index.Entry) (bool, objects.ObjectHash, error) {
	fullPath := v.workDir.Join(entry.Path.String())

	data, err := os.ReadFile(fullPath.String())
	if err != nil {
		return true, "", fmt.Errorf("read file: %w", err)
	}

	b := blob.NewBlob(data)
	currentHash, err := b.Hash()
	if err != nil {
		return true, "", fmt.Errorf("compute hash: %w", err)
	}

	return currentHash != entry.BlobHash, currentHash, nil
}
