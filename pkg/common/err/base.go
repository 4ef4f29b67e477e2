package err

import (
	"errors"
	"strings"
)

// Error carries the origin package, a machine-readable code, the failing
// operation, an optional message, an optional wrapped cause, and optional
// structured context. Subsystem error helpers build on it.
type Error struct {
	// Package names the originating subsystem ("index", "store", "merge").
	Package string

	// Code is the machine-readable category callers match on.
	Code string

	// Op is the operation that failed ("read", "write_object", "acquire_lock").
	Op string

	// Message is brief human-readable context; detail belongs in Context
	// or the wrapped cause.
	Message string

	// Err is the wrapped cause, nil for leaf errors.
	Err error

	// Context holds structured metadata, allocated on first WithContext.
	Context map[string]interface{}
}

// Error renders as: [package][code] op: message: cause
func (e *Error) Error() string {
	var parts []string

	var prefix strings.Builder
	if e.Package != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Package)
		prefix.WriteString("]")
	}
	if e.Code != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Code)
		prefix.WriteString("]")
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, ": ")
	if prefix.Len() > 0 {
		if result != "" {
			result = prefix.String() + " " + result
		} else {
			result = prefix.String()
		}
	}

	if e.Err != nil {
		if result != "" {
			result += ": " + e.Err.Error()
		} else {
			result = e.Err.Error()
		}
	}

	return result
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by code. Empty codes never match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext records a key-value pair on the error and returns it for
// chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext looks up a context value, nil when absent.
func (e *Error) GetContext(key string) interface{} {
	if e.Context == nil {
		return nil
	}
	return e.Context[key]
}

// New builds an Error from its parts.
func New(pkg, code, op, message string, err error) *Error {
	return &Error{
		Package: pkg,
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches package and operation context to err. Nil in, nil out.
func Wrap(err error, pkg, op string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Package: pkg,
		Op:      op,
		Err:     err,
	}
}

// WrapWithCode is Wrap plus a code. Nil in, nil out.
func WrapWithCode(err error, pkg, code, op string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Package: pkg,
		Code:    code,
		Op:      op,
		Err:     err,
	}
}

// The shared code taxonomy. Generic codes first, then the repository
// conditions the command surface reports to users.
const (
	// CodeInvalidInput marks malformed input parameters.
	CodeInvalidInput = "INVALID_INPUT"

	// CodeNotFound marks a missing object, ref, or path.
	CodeNotFound = "NOT_FOUND"

	// CodeAlreadyExists marks a resource that should not exist yet.
	CodeAlreadyExists = "ALREADY_EXISTS"

	// CodePermissionDenied marks insufficient filesystem permissions.
	CodePermissionDenied = "PERMISSION_DENIED"

	// CodeTimeout marks an operation that exceeded its deadline.
	CodeTimeout = "TIMEOUT"

	// CodeInternal marks an unexpected internal failure.
	CodeInternal = "INTERNAL"

	// CodeLockFailed marks a lock that could not be acquired.
	CodeLockFailed = "LOCK_FAILED"

	// CodeValidation marks failed data validation.
	CodeValidation = "VALIDATION"

	// CodeTransaction marks a failed transactional update.
	CodeTransaction = "TRANSACTION"

	// CodeConflict marks a clash with current state, e.g. a dirty
	// working directory blocking an operation.
	CodeConflict = "CONFLICT"

	// CodeInvalidFormat marks malformed serialized data.
	CodeInvalidFormat = "INVALID_FORMAT"

	// CodeReadOnly marks a write against read-only data.
	CodeReadOnly = "READ_ONLY"

	// CodeNotRepository: no repository directory found walking up from cwd.
	CodeNotRepository = "NOT_REPOSITORY"

	// CodeAmbiguousHash: a hash prefix matched more than one object.
	CodeAmbiguousHash = "AMBIGUOUS_HASH"

	// CodeCorrupt: object hash mismatch, index checksum mismatch, or
	// malformed serialization.
	CodeCorrupt = "CORRUPT"

	// CodeIndexLocked: the index lock is held by another process.
	CodeIndexLocked = "INDEX_LOCKED"

	// CodeWouldOverwrite: checkout or merge would discard uncommitted work.
	CodeWouldOverwrite = "WOULD_OVERWRITE"

	// CodeCurrentBranch: deleting the checked-out branch without force.
	CodeCurrentBranch = "CURRENT_BRANCH"

	// CodeNoCommonAncestor: merge attempted between disjoint histories.
	CodeNoCommonAncestor = "NO_COMMON_ANCESTOR"

	// CodeConflictsPending: a merge stopped on conflicts awaiting
	// manual resolution.
	CodeConflictsPending = "CONFLICTS_PENDING"

	// CodeInvalidArgument: malformed hash, missing identity, empty commit
	// message, or empty index.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeIo: an underlying filesystem error with no more specific code.
	CodeIo = "IO"
)

// IsCode reports whether err (or anything it wraps) carries code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code, empty when err is not an *Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetPackage extracts the origin package, empty when err is not an *Error.
func GetPackage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Package
	}
	return ""
}

// GetOp extracts the failing operation, empty when err is not an *Error.
func GetOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
