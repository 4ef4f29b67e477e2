package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

func setupTestRepo(t *testing.T) (*kitrepo.KitcatRepository, string) {
	t.Helper()

	tmpDir := t.TempDir()
	repo := kitrepo.NewKitcatRepository()
	if err := repo.Initialize(kcpath.RepositoryPath(tmpDir)); err != nil {
		t.Fatalf("initialize repository: %v", err)
	}
	return repo, tmpDir
}

func createTestBlob(t *testing.T, repo *kitrepo.KitcatRepository, content string) objects.ObjectHash {
	t.Helper()

	hash, err := repo.WriteObject(blob.NewBlob([]byte(content)))
	if err != nil {
		t.Fatalf("write blob: %v", err)
	}
	return hash
}

func TestApplyCreate(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)
	sha := createTestBlob(t, repo, "created content")

	tests := []struct {
		name     string
		path     string
		mode     objects.FileMode
		wantPerm os.FileMode
	}{
		{"regular file", "plain.txt", objects.FileModeRegular, 0644},
		{"executable", "run.sh", objects.FileModeExecutable, 0755},
		{"nested path", "deep/sub/dir/f.txt", objects.FileModeRegular, 0644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ops.ApplyOperation(Operation{
				Path:   kcpath.RelativePath(tt.path),
				Action: ActionCreate,
				SHA:    sha,
				Mode:   tt.mode,
			})
			if err != nil {
				t.Fatalf("ApplyOperation: %v", err)
			}

			full := filepath.Join(workDir, tt.path)
			got, err := os.ReadFile(full)
			if err != nil {
				t.Fatalf("read created file: %v", err)
			}
			if string(got) != "created content" {
				t.Errorf("content = %q", got)
			}
			info, _ := os.Stat(full)
			if info.Mode().Perm() != tt.wantPerm {
				t.Errorf("perm = %v, want %v", info.Mode().Perm(), tt.wantPerm)
			}
		})
	}
}

func TestApplyCreateInvalid(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ops := NewFileOps(repo)

	// Missing SHA.
	err := ops.ApplyOperation(Operation{
		Path:   "f",
		Action: ActionCreate,
		Mode:   objects.FileModeRegular,
	})
	if err == nil {
		t.Error("create without SHA succeeded")
	}

	// SHA of a nonexistent blob.
	err = ops.ApplyOperation(Operation{
		Path:   "f",
		Action: ActionCreate,
		SHA:    "ffffffffffffffffffffffffffffffffffffffff",
		Mode:   objects.FileModeRegular,
	})
	if err == nil {
		t.Error("create from a missing blob succeeded")
	}
}

func TestApplyModify(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)

	target := filepath.Join(workDir, "f.txt")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	sha := createTestBlob(t, repo, "new")
	err := ops.ApplyOperation(Operation{
		Path:   "f.txt",
		Action: ActionModify,
		SHA:    sha,
		Mode:   objects.FileModeRegular,
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "new" {
		t.Errorf("content = %q, want new", got)
	}
}

func TestApplyDeletePrunesEmptyDirs(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)

	nested := filepath.Join(workDir, "a", "b", "c.txt")
	if err := os.MkdirAll(filepath.Dir(nested), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nested, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := ops.ApplyOperation(Operation{Path: "a/b/c.txt", Action: ActionDelete})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}

	if _, err := os.Stat(nested); !os.IsNotExist(err) {
		t.Error("file still present")
	}
	// Both now-empty parents are pruned.
	if _, err := os.Stat(filepath.Join(workDir, "a")); !os.IsNotExist(err) {
		t.Error("empty parent directories not pruned")
	}

	// Deleting a missing path is a no-op.
	if err := ops.ApplyOperation(Operation{Path: "ghost", Action: ActionDelete}); err != nil {
		t.Errorf("delete of missing path: %v", err)
	}
}

func TestBackupRestoreCycle(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)

	target := filepath.Join(workDir, "precious.txt")
	if err := os.WriteFile(target, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ops.CreateBackup("precious.txt")
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if !backup.Existed {
		t.Fatal("backup of an existing file marked Existed=false")
	}

	// Clobber, then restore.
	if err := os.WriteFile(target, []byte("clobbered"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ops.RestoreBackup(backup); err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "original" {
		t.Errorf("restored content = %q", got)
	}

	if err := ops.CleanupBackup(backup); err != nil {
		t.Errorf("CleanupBackup: %v", err)
	}
	if _, err := os.Stat(backup.TempFile); !os.IsNotExist(err) {
		t.Error("backup temp file survived cleanup")
	}
}

func TestBackupOfMissingFileRestoresToAbsent(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)

	backup, err := ops.CreateBackup("never-existed.txt")
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if backup.Existed {
		t.Fatal("missing file marked as existing")
	}

	// A create happens, then the transaction rolls back.
	target := filepath.Join(workDir, "never-existed.txt")
	if err := os.WriteFile(target, []byte("transient"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ops.RestoreBackup(backup); err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("rollback did not remove the created file")
	}
}

func TestDryRunTouchesNothing(t *testing.T) {
	repo, workDir := setupTestRepo(t)
	ops := NewFileOps(repo)
	ops.SetDryRun(true)

	sha := createTestBlob(t, repo, "dry")
	err := ops.ApplyOperation(Operation{
		Path:   "dry.txt",
		Action: ActionCreate,
		SHA:    sha,
		Mode:   objects.FileModeRegular,
	})
	if err != nil {
		t.Fatalf("dry-run ApplyOperation: %v", err)
	}
	if _, err := os.Stat(filepath.Join(workDir, "dry.txt")); !os.IsNotExist(err) {
		t.Error("dry run wrote a file")
	}
}
