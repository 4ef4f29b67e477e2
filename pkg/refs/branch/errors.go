package branch

import (
	"fmt"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/common/err"
)

const pkgName = "branch"

// Branch-specific error codes. Deleting the checked-out branch reuses
// the shared CURRENT_BRANCH code so the CLI maps it uniformly.
const (
	CodeNotFound      = "BRANCH_NOT_FOUND"
	CodeAlreadyExists = "BRANCH_ALREADY_EXISTS"
	CodeInvalidName   = "BRANCH_INVALID_NAME"
	CodeNotMerged     = "BRANCH_NOT_MERGED"
	CodeIsCurrent     = err.CodeCurrentBranch
	CodeDetached      = "BRANCH_DETACHED_HEAD"
)

// NotFoundError: the named branch has no ref.
type NotFoundError struct {
	baseError  *err.Error
	BranchName string
}

// NewNotFoundError builds the lookup failure for name.
func NewNotFoundError(name string) error {
	return &NotFoundError{
		baseError: err.New(
			pkgName,
			CodeNotFound,
			"lookup",
			fmt.Sprintf("branch '%s' not found", name),
			nil,
		),
		BranchName: name,
	}
}

func (e *NotFoundError) Error() string {
	return e.baseError.Error()
}

func (e *NotFoundError) Unwrap() error {
	return e.baseError
}

// AlreadyExistsError: creating over an existing branch without force.
type AlreadyExistsError struct {
	baseError  *err.Error
	BranchName string
}

// NewAlreadyExistsError builds the creation clash for name.
func NewAlreadyExistsError(name string) error {
	return &AlreadyExistsError{
		baseError: err.New(
			pkgName,
			CodeAlreadyExists,
			"create",
			fmt.Sprintf("branch '%s' already exists", name),
			nil,
		),
		BranchName: name,
	}
}

func (e *AlreadyExistsError) Error() string {
	return e.baseError.Error()
}

func (e *AlreadyExistsError) Unwrap() error {
	return e.baseError
}

// InvalidNameError carries every naming rule the candidate broke.
type InvalidNameError struct {
	baseError  *err.Error
	BranchName string
	Reasons    []string
}

// NewInvalidNameError joins the violated rules into one message.
func NewInvalidNameError(name string, reasons ...string) error {
	msg := fmt.Sprintf("invalid branch name '%s'", name)
	if len(reasons) > 0 {
		msg += ": " + strings.Join(reasons, "; ")
	}

	return &InvalidNameError{
		baseError: err.New(
			pkgName,
			CodeInvalidName,
			"validate",
			msg,
			nil,
		),
		BranchName: name,
		Reasons:    reasons,
	}
}

func (e *InvalidNameError) Error() string {
	return e.baseError.Error()
}

func (e *InvalidNameError) Unwrap() error {
	return e.baseError
}

// NotMergedError: deleting a branch whose commits are not reachable
// from the current branch, without force.
type NotMergedError struct {
	baseError  *err.Error
	BranchName string
}

// NewNotMergedError builds the unmerged-deletion refusal for name.
func NewNotMergedError(name string) error {
	return &NotMergedError{
		baseError: err.New(
			pkgName,
			CodeNotMerged,
			"delete",
			fmt.Sprintf("branch '%s' is not fully merged", name),
			nil,
		),
		BranchName: name,
	}
}

func (e *NotMergedError) Error() string {
	return e.baseError.Error()
}

func (e *NotMergedError) Unwrap() error {
	return e.baseError
}

// IsCurrentError: deleting the branch HEAD points at.
type IsCurrentError struct {
	baseError  *err.Error
	BranchName string
}

// NewIsCurrentError builds the checked-out-branch refusal for name.
func NewIsCurrentError(name string) error {
	return &IsCurrentError{
		baseError: err.New(
			pkgName,
			CodeIsCurrent,
			"delete",
			fmt.Sprintf("cannot delete current branch '%s'", name),
			nil,
		),
		BranchName: name,
	}
}

func (e *IsCurrentError) Error() string {
	return e.baseError.Error()
}

func (e *IsCurrentError) Unwrap() error {
	return e.baseError
}

// DetachedHeadError: an operation that needs a branch ran on a
// detached HEAD.
type DetachedHeadError struct {
	baseError *err.Error
	CommitSHA string
}

// NewDetachedHeadError builds the detached-HEAD refusal.
func NewDetachedHeadError(sha string) error {
	msg := "HEAD is detached"
	if sha != "" {
		msg = fmt.Sprintf("HEAD is detached at %s", sha)
	}

	return &DetachedHeadError{
		baseError: err.New(
			pkgName,
			CodeDetached,
			"check",
			msg,
			nil,
		),
		CommitSHA: sha,
	}
}

func (e *DetachedHeadError) Error() string {
	return e.baseError.Error()
}

func (e *DetachedHeadError) Unwrap() error {
	return e.baseError
}
