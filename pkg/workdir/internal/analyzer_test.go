package internal

import (
	"context"
	"testing"
	"time"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// commitWithFiles writes blobs, a (possibly nested) tree, and a commit
// over them, returning the commit hash.
func commitWithFiles(t *testing.T, repo *kitrepo.KitcatRepository, files map[string]string, modes map[string]objects.FileMode) objects.ObjectHash {
	t.Helper()

	// Group paths one level at a time, building subtrees bottom-up.
	var build func(prefix string) objects.ObjectHash
	build = func(prefix string) objects.ObjectHash {
		byChild := map[string]map[string]string{}
		var entries []*tree.TreeEntry

		for path, content := range files {
			if prefix != "" {
				if len(path) <= len(prefix) || path[:len(prefix)+1] != prefix+"/" {
					continue
				}
				path = path[len(prefix)+1:]
			}
			slash := -1
			for i, c := range path {
				if c == '/' {
					slash = i
					break
				}
			}
			if slash == -1 {
				mode := objects.FileModeRegular
				full := path
				if prefix != "" {
					full = prefix + "/" + path
				}
				if m, ok := modes[full]; ok {
					mode = m
				}
				sha, err := repo.WriteObject(blob.NewBlob([]byte(content)))
				if err != nil {
					t.Fatal(err)
				}
				e, err := tree.NewTreeEntry(mode, kcpath.RelativePath(path), sha)
				if err != nil {
					t.Fatal(err)
				}
				entries = append(entries, e)
			} else {
				child := path[:slash]
				if byChild[child] == nil {
					byChild[child] = map[string]string{}
				}
			}
		}

		for child := range byChild {
			childPrefix := child
			if prefix != "" {
				childPrefix = prefix + "/" + child
			}
			subSHA := build(childPrefix)
			e, err := tree.NewTreeEntry(objects.FileModeDirectory, kcpath.RelativePath(child), subSHA)
			if err != nil {
				t.Fatal(err)
			}
			entries = append(entries, e)
		}

		sha, err := repo.WriteObject(tree.NewTree(entries))
		if err != nil {
			t.Fatal(err)
		}
		return sha
	}

	treeSHA := build("")

	person, err := commit.NewCommitPerson("Test", "t@x.io", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	c, err := commit.NewCommitBuilder().
		TreeHash(treeSHA).
		Author(person).
		Committer(person).
		Message("fixture\n").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	commitSHA, err := repo.WriteObject(c)
	if err != nil {
		t.Fatal(err)
	}
	return commitSHA
}

func TestGetCommitFilesFlattensTree(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	commitSHA := commitWithFiles(t, repo, map[string]string{
		"README.md":       "docs",
		"src/main.go":     "package main",
		"src/util/u.go":   "package util",
		"scripts/build.sh": "#!/bin/sh",
	}, map[string]objects.FileMode{
		"scripts/build.sh": objects.FileModeExecutable,
	})

	files, err := analyzer.GetCommitFiles(context.Background(), commitSHA)
	if err != nil {
		t.Fatalf("GetCommitFiles: %v", err)
	}

	if len(files) != 4 {
		t.Fatalf("file count = %d, want 4: %v", len(files), files)
	}
	for _, path := range []string{"README.md", "src/main.go", "src/util/u.go", "scripts/build.sh"} {
		if _, ok := files[kcpath.RelativePath(path)]; !ok {
			t.Errorf("path %q missing from flattened map", path)
		}
	}
	if files["scripts/build.sh"].Mode != objects.FileModeExecutable {
		t.Errorf("executable mode lost: %v", files["scripts/build.sh"].Mode)
	}
}

func TestGetCommitFilesEmptyTree(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	commitSHA := commitWithFiles(t, repo, map[string]string{}, nil)

	files, err := analyzer.GetCommitFiles(context.Background(), commitSHA)
	if err != nil {
		t.Fatalf("GetCommitFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want empty", files)
	}
}

func TestGetCommitFilesMissingCommit(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	_, err := analyzer.GetCommitFiles(context.Background(), "ffffffffffffffffffffffffffffffffffffffff")
	if err == nil {
		t.Error("missing commit accepted")
	}
}

func TestGetIndexFiles(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	idx := index.NewIndex()
	e := index.NewEntry("staged.txt")
	e.BlobHash = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0"
	e.Mode = index.FileModeExecutable
	idx.Add(e)

	files := analyzer.GetIndexFiles(idx)
	info, ok := files["staged.txt"]
	if !ok {
		t.Fatal("staged path missing")
	}
	if info.SHA != e.BlobHash || info.Mode != objects.FileModeExecutable {
		t.Errorf("info = %+v", info)
	}
}

func TestAnalyzeChanges(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	shaA := objects.ObjectHash("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0")
	shaB := objects.ObjectHash("b1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0")

	current := FileMap{
		"unchanged.txt": {SHA: shaA, Mode: objects.FileModeRegular},
		"modified.txt":  {SHA: shaA, Mode: objects.FileModeRegular},
		"mode-flip.sh":  {SHA: shaA, Mode: objects.FileModeRegular},
		"removed.txt":   {SHA: shaA, Mode: objects.FileModeRegular},
	}
	target := FileMap{
		"unchanged.txt": {SHA: shaA, Mode: objects.FileModeRegular},
		"modified.txt":  {SHA: shaB, Mode: objects.FileModeRegular},
		"mode-flip.sh":  {SHA: shaA, Mode: objects.FileModeExecutable},
		"added.txt":     {SHA: shaB, Mode: objects.FileModeRegular},
	}

	analysis := analyzer.AnalyzeChanges(current, target)

	if analysis.Summary.Created != 1 || analysis.Summary.Modified != 2 || analysis.Summary.Deleted != 1 {
		t.Errorf("summary = %+v", analysis.Summary)
	}

	byPath := map[kcpath.RelativePath]ActionType{}
	for _, op := range analysis.Operations {
		byPath[op.Path] = op.Action
	}
	if byPath["added.txt"] != ActionCreate {
		t.Errorf("added.txt action = %v", byPath["added.txt"])
	}
	if byPath["modified.txt"] != ActionModify {
		t.Errorf("modified.txt action = %v", byPath["modified.txt"])
	}
	if byPath["mode-flip.sh"] != ActionModify {
		t.Errorf("mode-flip.sh action = %v", byPath["mode-flip.sh"])
	}
	if byPath["removed.txt"] != ActionDelete {
		t.Errorf("removed.txt action = %v", byPath["removed.txt"])
	}
	if _, planned := byPath["unchanged.txt"]; planned {
		t.Error("unchanged path got an operation")
	}
}

func TestAnalyzeChangesNoDiff(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	state := FileMap{
		"f.txt": {SHA: "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0", Mode: objects.FileModeRegular},
	}

	analysis := analyzer.AnalyzeChanges(state, state)
	if len(analysis.Operations) != 0 {
		t.Errorf("operations = %v, want none", analysis.Operations)
	}
}

func TestAreTreesIdentical(t *testing.T) {
	repo, _ := setupTestRepo(t)
	analyzer := NewAnalyzer(repo)

	c1 := commitWithFiles(t, repo, map[string]string{"a.txt": "same"}, nil)
	c2 := commitWithFiles(t, repo, map[string]string{"a.txt": "same"}, nil)
	c3 := commitWithFiles(t, repo, map[string]string{"a.txt": "different"}, nil)

	t1 := treeOf(t, repo, c1)
	t2 := treeOf(t, repo, c2)
	t3 := treeOf(t, repo, c3)

	same, err := analyzer.AreTreesIdentical(context.Background(), t1, t2)
	if err != nil || !same {
		t.Errorf("identical trees = %v, %v", same, err)
	}
	same, err = analyzer.AreTreesIdentical(context.Background(), t1, t3)
	if err != nil || same {
		t.Errorf("different trees reported identical: %v, %v", same, err)
	}
	// Identity shortcut.
	same, err = analyzer.AreTreesIdentical(context.Background(), t1, t1)
	if err != nil || !same {
		t.Errorf("self-comparison = %v, %v", same, err)
	}
}

func treeOf(t *testing.T, repo *kitrepo.KitcatRepository, commitSHA objects.ObjectHash) objects.ObjectHash {
	t.Helper()
	c, err := repo.ReadCommitObject(commitSHA)
	if err != nil {
		t.Fatal(err)
	}
	return c.TreeSHA
}
