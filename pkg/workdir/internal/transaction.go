package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

var (
	ErrInvalidOperation = errors.New("invalid operation")

	ErrLockAcquisitionFailed = errors.New("failed to acquire lock")
)

// DryRunAnalysis buckets planned operations by kind.
type DryRunAnalysis struct {
	WillCreate []kcpath.RelativePath
	WillModify []kcpath.RelativePath
	WillDelete []kcpath.RelativePath
	Conflicts  []string
}

// DryRunResult is a validation pass over a batch, no writes.
type DryRunResult struct {
	Valid     bool
	Analysis  DryRunAnalysis
	Conflicts []string
	Errors    []string
}

// TransactionResult reports how far an atomic batch got.
type TransactionResult struct {
	Success           bool
	OperationsApplied int
	TotalOperations   int
	Err               error
}

func newTr(success bool, opsApplied, totalOps int, err error) TransactionResult {
	return TransactionResult{
		Success:           success,
		OperationsApplied: opsApplied,
		TotalOperations:   totalOps,
		Err:               err,
	}
}

func success(opsApplied, totalOps int) TransactionResult {
	return newTr(true, opsApplied, totalOps, nil)
}

func failure(opsApplied, totalOps int, err error) TransactionResult {
	return newTr(false, opsApplied, totalOps, err)
}

// Manager applies file-operation batches all-or-nothing: back up the
// paths it will touch, apply in order, roll the backups back on any
// failure.
type Manager struct {
	fileOps *FileOps
	kitDir  kcpath.KitPath
}

func NewManager(fileOps *FileOps, kitDir kcpath.KitPath) *Manager {
	return &Manager{
		fileOps: fileOps,
		kitDir:  kitDir,
	}
}

// ExecuteAtomically runs the batch under the repository lock. The
// first failure triggers a rollback of everything applied so far.
func (m *Manager) ExecuteAtomically(ctx context.Context, ops []Operation) TransactionResult {
	if len(ops) == 0 {
		return success(0, 0)
	}

	lock, err := AcquireLock(m.kitDir)
	if err != nil {
		return failure(0, len(ops), err)
	}
	defer lock.Release()

	if err := m.validateOperations(ops); err != nil {
		return failure(0, len(ops), err)
	}

	backups, err := m.createBackups(ops)
	if err != nil {
		return failure(0, len(ops), fmt.Errorf("create backups: %w", err))
	}

	applied := 0

	for i, op := range ops {
		select {
		case <-ctx.Done():
			m.rollback(backups)
			return failure(applied, len(ops), ctx.Err())
		default:
		}

		if err := m.fileOps.ApplyOperation(op); err != nil {
			failedOp := &ops[i]
			rollbackOK := m.rollback(backups)

			errMsg := fmt.Sprintf("operation failed (failed at: %s %s)", failedOp.Action, failedOp.Path)
			if applied > 0 {
				errMsg += fmt.Sprintf(" (%d operations completed before failure)", applied)
			}
			if !rollbackOK {
				errMsg += " (WARNING: rollback failed, working directory may be in inconsistent state)"
			}
			errMsg += fmt.Sprintf(": %v", err)

			return failure(applied, len(ops), fmt.Errorf("%s", errMsg))
		}
		applied++
	}

	for _, backup := range backups {
		m.fileOps.CleanupBackup(backup)
	}

	return success(applied, len(ops))
}

// DryRun validates and buckets the batch without touching disk.
func (m *Manager) DryRun(ops []Operation) DryRunResult {
	result := DryRunResult{
		Valid:     true,
		Analysis:  DryRunAnalysis{},
		Conflicts: []string{},
		Errors:    []string{},
	}

	if err := m.validateOperations(ops); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, op := range ops {
		switch op.Action {
		case ActionCreate:
			result.Analysis.WillCreate = append(result.Analysis.WillCreate, op.Path)
		case ActionModify:
			result.Analysis.WillModify = append(result.Analysis.WillModify, op.Path)
		case ActionDelete:
			result.Analysis.WillDelete = append(result.Analysis.WillDelete, op.Path)
		}
	}

	return result
}

// validateOperations rejects malformed batches before any disk
// mutation: bad paths, unknown actions, missing hashes, duplicates.
func (m *Manager) validateOperations(ops []Operation) error {
	pathsSeen := make(map[kcpath.RelativePath]bool)

	for i, op := range ops {
		if !op.Path.IsValid() {
			return fmt.Errorf("%w: operation %d has empty path", ErrInvalidOperation, i)
		}

		if op.Action != ActionCreate &&
			op.Action != ActionModify &&
			op.Action != ActionDelete {
			return fmt.Errorf("%w: operation %d has invalid action %d", ErrInvalidOperation, i, op.Action)
		}

		if (op.Action == ActionCreate || op.Action == ActionModify) && op.SHA == "" {
			return fmt.Errorf("%w: operation %d (%s) missing SHA", ErrInvalidOperation, i, op.Action)
		}

		if pathsSeen[op.Path] {
			return fmt.Errorf("%w: duplicate operation on path %s", ErrInvalidOperation, op.Path)
		}
		pathsSeen[op.Path] = true
	}

	return nil
}

// createBackups snapshots every path a modify or delete will touch.
func (m *Manager) createBackups(ops []Operation) ([]*Backup, error) {
	var backups []*Backup

	for _, op := range ops {
		if op.Action == ActionModify || op.Action == ActionDelete {
			backup, err := m.fileOps.CreateBackup(op.Path)
			if err != nil {
				for _, b := range backups {
					m.fileOps.CleanupBackup(b)
				}
				return nil, fmt.Errorf("backup %s: %w", op.Path, err)
			}
			backups = append(backups, backup)
		}
	}

	return backups, nil
}

// rollback restores backups newest-first and reports whether every
// restore succeeded.
func (m *Manager) rollback(backups []*Backup) bool {
	success := true

	for i := len(backups) - 1; i >= 0; i-- {
		if err := m.fileOps.RestoreBackup(backups[i]); err != nil {
			success = false
		}
	}

	for _, backup := range backups {
		m.fileOps.CleanupBackup(backup)
	}

	return success
}
