package workdir

import (
	"errors"
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/workdir/internal"
)

// Sentinels for errors.Is checks.
var (
	ErrDirtyWorkingDirectory = errors.New("working directory has uncommitted changes")

	ErrInvalidOperation = internal.ErrInvalidOperation

	ErrLockAcquisitionFailed = internal.ErrLockAcquisitionFailed
)

// WorkdirError pairs a failed operation with the path it failed on.
type WorkdirError struct {
	Op   string
	Path kcpath.RelativePath
	Err  error
}

func (e *WorkdirError) Error() string {
	if e.Path.String() != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WorkdirError) Unwrap() error {
	return e.Err
}

// ValidationError reports the dirty paths that blocked an operation,
// truncating long lists in its message.
type ValidationError struct {
	Message       string
	ModifiedFiles []kcpath.RelativePath
	DeletedFiles  []kcpath.RelativePath
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if len(e.ModifiedFiles) > 0 {
		msg += fmt.Sprintf("\n  Modified files (%d):", len(e.ModifiedFiles))
		for i, path := range e.ModifiedFiles {
			if i < 10 {
				msg += fmt.Sprintf("\n    %s", path)
			} else if i == 10 {
				msg += fmt.Sprintf("\n    ... and %d more files", len(e.ModifiedFiles)-10)
				break
			}
		}
	}
	if len(e.DeletedFiles) > 0 {
		msg += fmt.Sprintf("\n  Deleted files (%d):", len(e.DeletedFiles))
		for i, path := range e.DeletedFiles {
			if i < 10 {
				msg += fmt.Sprintf("\n    %s", path)
			} else if i == 10 {
				msg += fmt.Sprintf("\n    ... and %d more files", len(e.DeletedFiles)-10)
				break
			}
		}
	}
	return msg
}

// TransactionError reports where an atomic batch failed and whether
// the rollback restored the prior state.
type TransactionError struct {
	Message             string
	FailedOperation     *Operation
	OperationsCompleted int
	RollbackSucceeded   bool
	Err                 error
}

func (e *TransactionError) Error() string {
	msg := e.Message
	if e.FailedOperation != nil {
		msg += fmt.Sprintf(" (failed at: %s %s)", e.FailedOperation.Action, e.FailedOperation.Path)
	}
	if e.OperationsCompleted > 0 {
		msg += fmt.Sprintf(" (%d operations completed before failure)", e.OperationsCompleted)
	}
	if !e.RollbackSucceeded {
		msg += " (WARNING: rollback failed, working directory may be in inconsistent state)"
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// LockError reports a lock that could not be taken or released.
type LockError struct {
	LockPath string
	Message  string
	Err      error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("lock error (%s): %s: %v", e.LockPath, e.Message, e.Err)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// IndexError reports a failed index read or rewrite.
type IndexError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s failed (%s): %v", e.Operation, e.Path, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// NewWorkdirError builds a WorkdirError.
func NewWorkdirError(op string, path kcpath.RelativePath, err error) *WorkdirError {
	return &WorkdirError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// NewValidationError builds a ValidationError.
func NewValidationError(message string, modified, deleted []kcpath.RelativePath) *ValidationError {
	return &ValidationError{
		Message:       message,
		ModifiedFiles: modified,
		DeletedFiles:  deleted,
	}
}

// NewTransactionError builds a TransactionError.
func NewTransactionError(message string, failedOp *Operation, completed int, rollbackOK bool, err error) *TransactionError {
	return &TransactionError{
		Message:             message,
		FailedOperation:     failedOp,
		OperationsCompleted: completed,
		RollbackSucceeded:   rollbackOK,
		Err:                 err,
	}
}

// NewLockError builds a LockError.
func NewLockError(lockPath, message string, err error) *LockError {
	return &LockError{
		LockPath: lockPath,
		Message:  message,
		Err:      err,
	}
}

// NewIndexError builds an IndexError.
func NewIndexError(operation, path string, err error) *IndexError {
	return &IndexError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}
