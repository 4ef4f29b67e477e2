package workdir

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/ignore"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// TriStatus is the three-way status comparison: HEAD tree vs index
// (staged), index vs working tree (unstaged), plus untracked paths and
// any conflict-stage entries left by a merge.
type TriStatus struct {
	StagedAdded    []kcpath.RelativePath
	StagedModified []kcpath.RelativePath
	StagedDeleted  []kcpath.RelativePath

	UnstagedModified []kcpath.RelativePath
	UnstagedDeleted  []kcpath.RelativePath

	Untracked []kcpath.RelativePath

	Conflicted []kcpath.RelativePath
}

// IsClean reports whether every bucket is empty.
func (s TriStatus) IsClean() bool {
	return len(s.StagedAdded) == 0 && len(s.StagedModified) == 0 && len(s.StagedDeleted) == 0 &&
		len(s.UnstagedModified) == 0 && len(s.UnstagedDeleted) == 0 &&
		len(s.Untracked) == 0 && len(s.Conflicted) == 0
}

// FullStatus computes the tri-comparison. headCommit is the commit
// HEAD resolves to, or empty on an unborn branch, in which case every
// index entry reports as staged-added.
func (m *Manager) FullStatus(ctx context.Context, headCommit objects.ObjectHash) (TriStatus, error) {
	var status TriStatus

	idx, err := index.Read(m.indexPath)
	if err != nil {
		return status, NewIndexError("read", m.indexPath.String(), err)
	}

	// Staged: HEAD tree vs index.
	headFiles := map[kcpath.RelativePath]internalFileInfo{}
	if headCommit != "" {
		files, err := m.treeAnalyzer.GetCommitFiles(ctx, headCommit)
		if err != nil {
			return status, err
		}
		for path, info := range files {
			headFiles[path] = internalFileInfo{SHA: info.SHA, Mode: info.Mode}
		}
	}

	indexFiles := m.treeAnalyzer.GetIndexFiles(idx)

	for path, info := range indexFiles {
		head, inHead := headFiles[path]
		switch {
		case !inHead:
			status.StagedAdded = append(status.StagedAdded, path)
		case head.SHA != info.SHA || head.Mode != info.Mode:
			status.StagedModified = append(status.StagedModified, path)
		}
	}
	for path := range headFiles {
		if _, inIndex := indexFiles[path]; !inIndex {
			status.StagedDeleted = append(status.StagedDeleted, path)
		}
	}

	// Unstaged: index vs working tree.
	clean, err := m.validator.ValidateCleanState(idx)
	if err != nil {
		return status, err
	}
	status.UnstagedModified = clean.ModifiedFiles
	status.UnstagedDeleted = clean.DeletedFiles

	// Untracked: working-tree files absent from the index, the
	// metadata directory and ignore matches excluded.
	untracked, err := m.scanUntracked(idx)
	if err != nil {
		return status, err
	}
	status.Untracked = untracked

	status.Conflicted = idx.ConflictPaths()

	sortPaths(status.StagedAdded)
	sortPaths(status.StagedModified)
	sortPaths(status.StagedDeleted)
	sortPaths(status.UnstagedModified)
	sortPaths(status.UnstagedDeleted)
	sortPaths(status.Untracked)
	sortPaths(status.Conflicted)

	return status, nil
}

// internalFileInfo mirrors the analyzer's FileInfo shape for the HEAD
// map without exporting a second alias.
type internalFileInfo struct {
	SHA  objects.ObjectHash
	Mode objects.FileMode
}

// scanUntracked walks the working tree collecting paths with no index
// entry at any stage. The .kitcat directory is always excluded; a
// .kitcatignore at the root prunes the rest.
func (m *Manager) scanUntracked(idx *index.Index) ([]kcpath.RelativePath, error) {
	tracked := make(map[kcpath.RelativePath]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		tracked[e.Path] = true
	}

	patterns := ignore.NewPatternSet()
	if data, err := os.ReadFile(filepath.Join(m.workDir, ignore.DefaultSource)); err == nil {
		patterns.AddPatternsFromText(string(data), ignore.DefaultSource)
	}

	var untracked []kcpath.RelativePath

	err := filepath.WalkDir(m.workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == m.workDir {
			return nil
		}

		rel, err := filepath.Rel(m.workDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == kcpath.KitcatDir {
				return filepath.SkipDir
			}
			if patterns.IsIgnored(rel, true, "") {
				return filepath.SkipDir
			}
			return nil
		}

		if patterns.IsIgnored(rel, false, "") {
			return nil
		}

		relPath := kcpath.RelativePath(rel)
		if !tracked[relPath] {
			untracked = append(untracked, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return untracked, nil
}

func sortPaths(paths []kcpath.RelativePath) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}
