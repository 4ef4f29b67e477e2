// Package kitrepo locates, opens, and initializes repositories: the
// pairing of a working directory with its .kitcat metadata directory.
package kitrepo

import (
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/store"
)

// Repository is the surface the rest of the tree depends on; the
// concrete implementation is KitcatRepository. Consumers take this
// interface so tests can substitute stubs.
type Repository interface {
	// Initialize creates a new repository layout at path.
	Initialize(path kcpath.RepositoryPath) error

	// WorkingDirectory is the repository root.
	WorkingDirectory() kcpath.RepositoryPath

	// KitcatDirectory is the .kitcat metadata directory.
	KitcatDirectory() kcpath.KitPath

	// ObjectStore exposes the content-addressable store.
	ObjectStore() store.ObjectStore

	// ReadObject loads any object by hash.
	ReadObject(hash objects.ObjectHash) (objects.BaseObject, error)

	// WriteObject stores an object, returning its hash.
	WriteObject(obj objects.BaseObject) (objects.ObjectHash, error)

	// Exists reports whether the repository layout is present on disk.
	Exists() (bool, error)
}
