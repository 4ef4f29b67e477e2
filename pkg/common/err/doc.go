// Package err is the error vocabulary shared by every kitcat package.
//
// Subsystems report coded failures as *err.Error values (or wrap one); a
// few keep plain errors.New sentinels as causes. The important field is Code: it is what callers branch on,
// what the CLI maps to exit behavior, and what tests assert against.
// Package and Op exist for log lines and debugging, not for matching.
//
// Creating errors:
//
//	return err.New("index", err.CodeIndexLocked, "acquire_lock",
//	    "index is locked by another process", nil)
//
// Wrapping an underlying cause while keeping its code visible:
//
//	return err.WrapWithCode(ioErr, "store", err.CodeIo, "write_object")
//
// Matching:
//
//	if err.IsCode(e, err.CodeNotFound) { ... }
//
// Codes follow UPPER_SNAKE_CASE. The shared taxonomy lives here; a
// package may add its own codes (pkg/config defines CONVERSION_FAILED
// and INVALID_LEVEL).
package err
