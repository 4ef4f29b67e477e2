package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// stageRealFile writes a working-tree file and builds a matching index
// entry with its true hash and stat metadata.
func stageRealFile(t *testing.T, repo *kitrepo.KitcatRepository, workDir string, idx *index.Index, path, content string) {
	t.Helper()

	full := filepath.Join(workDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	hash, err := blob.NewBlob([]byte(content)).Hash()
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(full)
	if err != nil {
		t.Fatal(err)
	}
	entry, err := index.NewEntryFromFileInfo(kcpath.RelativePath(path), info, hash)
	if err != nil {
		t.Fatal(err)
	}
	idx.Add(entry)
}

func newValidatorFixture(t *testing.T) (*Validator, *kitrepo.KitcatRepository, string, *index.Index) {
	t.Helper()
	repo, workDir := setupTestRepo(t)
	return NewValidator(repo.WorkingDirectory()), repo, workDir, index.NewIndex()
}

func TestValidateCleanStateClean(t *testing.T) {
	v, repo, workDir, idx := newValidatorFixture(t)
	stageRealFile(t, repo, workDir, idx, "a.txt", "content")

	status, err := v.ValidateCleanState(idx)
	if err != nil {
		t.Fatalf("ValidateCleanState: %v", err)
	}
	if !status.Clean {
		t.Errorf("status = %+v, want clean", status)
	}
}

func TestValidateCleanStateEmptyIndex(t *testing.T) {
	v, _, _, idx := newValidatorFixture(t)

	status, err := v.ValidateCleanState(idx)
	if err != nil || !status.Clean {
		t.Errorf("empty index status = %+v, %v", status, err)
	}
}

func TestValidateCleanStateDetectsModification(t *testing.T) {
	v, repo, workDir, idx := newValidatorFixture(t)
	stageRealFile(t, repo, workDir, idx, "a.txt", "original")

	// Same length, different bytes: only the content hash can tell.
	if err := os.WriteFile(filepath.Join(workDir, "a.txt"), []byte("0riginal"), 0644); err != nil {
		t.Fatal(err)
	}

	status, err := v.ValidateCleanState(idx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Clean {
		t.Fatal("modified file not detected")
	}
	if len(status.ModifiedFiles) != 1 || status.ModifiedFiles[0] != "a.txt" {
		t.Errorf("ModifiedFiles = %v", status.ModifiedFiles)
	}
}

func TestValidateCleanStateDetectsDeletion(t *testing.T) {
	v, repo, workDir, idx := newValidatorFixture(t)
	stageRealFile(t, repo, workDir, idx, "gone.txt", "x")

	if err := os.Remove(filepath.Join(workDir, "gone.txt")); err != nil {
		t.Fatal(err)
	}

	status, err := v.ValidateCleanState(idx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Clean || len(status.DeletedFiles) != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestTouchedFileStaysClean(t *testing.T) {
	v, repo, workDir, idx := newValidatorFixture(t)
	stageRealFile(t, repo, workDir, idx, "a.txt", "stable")

	// Bump the mtime without changing content; the hash check clears it.
	entry, _ := idx.Get("a.txt")
	entry.ModificationTime.Seconds -= 100

	status, err := v.ValidateCleanState(idx)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Clean {
		t.Errorf("mtime-only change flagged dirty: %+v", status)
	}
}

func TestCanSafelyOverwrite(t *testing.T) {
	v, repo, workDir, idx := newValidatorFixture(t)
	stageRealFile(t, repo, workDir, idx, "clean.txt", "clean")
	stageRealFile(t, repo, workDir, idx, "dirty.txt", "original")

	if err := os.WriteFile(filepath.Join(workDir, "dirty.txt"), []byte("edited!!"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("clean path allowed", func(t *testing.T) {
		if err := v.CanSafelyOverwrite([]kcpath.RelativePath{"clean.txt"}, idx); err != nil {
			t.Errorf("clean path blocked: %v", err)
		}
	})

	t.Run("dirty path blocked", func(t *testing.T) {
		if err := v.CanSafelyOverwrite([]kcpath.RelativePath{"dirty.txt"}, idx); err == nil {
			t.Error("dirty path allowed")
		}
	})

	t.Run("dirty path outside scope ignored", func(t *testing.T) {
		// Only clean.txt is in the overwrite set; dirty.txt's state is
		// irrelevant.
		if err := v.CanSafelyOverwrite([]kcpath.RelativePath{"clean.txt"}, idx); err != nil {
			t.Errorf("out-of-scope dirty file blocked the overwrite: %v", err)
		}
	})

	t.Run("untracked paths ignored", func(t *testing.T) {
		if err := v.CanSafelyOverwrite([]kcpath.RelativePath{"untracked.txt"}, idx); err != nil {
			t.Errorf("untracked path blocked: %v", err)
		}
	})

	t.Run("empty set allowed", func(t *testing.T) {
		if err := v.CanSafelyOverwrite(nil, idx); err != nil {
			t.Errorf("empty set blocked: %v", err)
		}
	})
}
