package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

func newTxnFixture(t *testing.T) (*Manager, *kitrepo.KitcatRepository, string) {
	t.Helper()
	repo, workDir := setupTestRepo(t)
	mgr := NewManager(NewFileOps(repo), repo.KitcatDirectory())
	return mgr, repo, workDir
}

func createOp(path string, sha objects.ObjectHash) Operation {
	return Operation{
		Path:   kcpath.RelativePath(path),
		Action: ActionCreate,
		SHA:    sha,
		Mode:   objects.FileModeRegular,
	}
}

func TestExecuteEmptyBatch(t *testing.T) {
	mgr, _, _ := newTxnFixture(t)

	result := mgr.ExecuteAtomically(context.Background(), nil)
	if !result.Success || result.OperationsApplied != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestExecuteAppliesAllOperations(t *testing.T) {
	mgr, repo, workDir := newTxnFixture(t)
	sha := createTestBlob(t, repo, "payload")

	ops := []Operation{
		createOp("one.txt", sha),
		createOp("two/nested.txt", sha),
	}

	result := mgr.ExecuteAtomically(context.Background(), ops)
	if !result.Success {
		t.Fatalf("transaction failed: %v", result.Err)
	}
	if result.OperationsApplied != 2 {
		t.Errorf("applied = %d, want 2", result.OperationsApplied)
	}

	for _, p := range []string{"one.txt", "two/nested.txt"} {
		if _, err := os.Stat(filepath.Join(workDir, p)); err != nil {
			t.Errorf("file %s missing after transaction: %v", p, err)
		}
	}
}

func TestExecuteRollsBackOnFailure(t *testing.T) {
	mgr, repo, workDir := newTxnFixture(t)
	sha := createTestBlob(t, repo, "good")

	// Pre-existing file the failing batch will modify.
	existing := filepath.Join(workDir, "keep.txt")
	if err := os.WriteFile(existing, []byte("before"), 0644); err != nil {
		t.Fatal(err)
	}

	ops := []Operation{
		{Path: "keep.txt", Action: ActionModify, SHA: sha, Mode: objects.FileModeRegular},
		createOp("fresh.txt", sha),
		// Missing blob: this operation fails mid-batch.
		createOp("bad.txt", "ffffffffffffffffffffffffffffffffffffffff"),
	}

	result := mgr.ExecuteAtomically(context.Background(), ops)
	if result.Success {
		t.Fatal("transaction with a failing operation reported success")
	}

	// The modified file is rolled back to its prior content.
	got, _ := os.ReadFile(existing)
	if string(got) != "before" {
		t.Errorf("keep.txt = %q after rollback, want before", got)
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	mgr, repo, _ := newTxnFixture(t)
	sha := createTestBlob(t, repo, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := mgr.ExecuteAtomically(ctx, []Operation{createOp("f", sha)})
	if result.Success {
		t.Error("cancelled transaction reported success")
	}
}

func TestExecuteSerializesViaLock(t *testing.T) {
	mgr, repo, _ := newTxnFixture(t)
	sha := createTestBlob(t, repo, "x")

	lock, err := AcquireLock(repo.KitcatDirectory())
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	result := mgr.ExecuteAtomically(context.Background(), []Operation{createOp("f", sha)})
	if result.Success {
		t.Error("transaction proceeded while the lock was held")
	}
}

func TestValidateOperations(t *testing.T) {
	mgr, _, _ := newTxnFixture(t)
	sha := objects.ObjectHash("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0")

	tests := []struct {
		name    string
		ops     []Operation
		wantErr bool
	}{
		{"valid batch", []Operation{createOp("a", sha), {Path: "b", Action: ActionDelete}}, false},
		{"empty path", []Operation{{Path: "", Action: ActionDelete}}, true},
		{"unknown action", []Operation{{Path: "a", Action: ActionType(99)}}, true},
		{"create missing sha", []Operation{{Path: "a", Action: ActionCreate}}, true},
		{"duplicate path", []Operation{createOp("a", sha), createOp("a", sha)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.validateOperations(tt.ops)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOperations = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDryRunBucketsOperations(t *testing.T) {
	mgr, _, _ := newTxnFixture(t)
	sha := objects.ObjectHash("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0")

	result := mgr.DryRun([]Operation{
		createOp("new.txt", sha),
		{Path: "changed.txt", Action: ActionModify, SHA: sha, Mode: objects.FileModeRegular},
		{Path: "gone.txt", Action: ActionDelete},
	})

	if !result.Valid {
		t.Fatalf("DryRun invalid: %v", result.Errors)
	}
	if len(result.Analysis.WillCreate) != 1 || result.Analysis.WillCreate[0] != "new.txt" {
		t.Errorf("WillCreate = %v", result.Analysis.WillCreate)
	}
	if len(result.Analysis.WillModify) != 1 || result.Analysis.WillModify[0] != "changed.txt" {
		t.Errorf("WillModify = %v", result.Analysis.WillModify)
	}
	if len(result.Analysis.WillDelete) != 1 || result.Analysis.WillDelete[0] != "gone.txt" {
		t.Errorf("WillDelete = %v", result.Analysis.WillDelete)
	}
}

func TestDryRunRejectsInvalidBatch(t *testing.T) {
	mgr, _, _ := newTxnFixture(t)

	result := mgr.DryRun([]Operation{{Path: "", Action: ActionDelete}})
	if result.Valid {
		t.Error("invalid batch passed dry run")
	}
	if len(result.Errors) == 0 {
		t.Error("no errors reported for invalid batch")
	}
}
