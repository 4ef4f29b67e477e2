package store

import (
	"github.com/itsSauraj/kit-cat/pkg/common/err"
)

const pkgName = "store"

// NewNotFoundError builds the error returned when a hash or prefix matches no object.
func NewNotFoundError(op, hashOrPrefix string) error {
	return err.New(pkgName, err.CodeNotFound, op, "object not found", nil).
		WithContext("hash", hashOrPrefix)
}

// NewAmbiguousHashError builds the error returned when a prefix matches more than one object.
func NewAmbiguousHashError(op, prefix string, matches []string) error {
	return err.New(pkgName, err.CodeAmbiguousHash, op, "ambiguous object prefix", nil).
		WithContext("prefix", prefix).
		WithContext("matches", matches)
}

// NewCorruptError builds the error returned when an object's stored hash does not match
// its recomputed content hash.
func NewCorruptError(op, hash string, cause error) error {
	return err.New(pkgName, err.CodeCorrupt, op, "object content does not match its hash", cause).
		WithContext("hash", hash)
}

// NewInvalidArgumentError builds the error returned for malformed hashes/prefixes.
func NewInvalidArgumentError(op, message string, cause error) error {
	return err.New(pkgName, err.CodeInvalidArgument, op, message, cause)
}
