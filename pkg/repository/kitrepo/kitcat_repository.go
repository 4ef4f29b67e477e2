package kitrepo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/store"
)

// KitcatRepository ties a working directory to its .kitcat metadata
// directory and object store. The on-disk layout it manages:
//
//	<root>/
//	  .kitcat/
//	    objects/<ab>/<38-hex>   sharded loose objects
//	    refs/heads/<name>       branch refs
//	    refs/tags/<name>        tag refs
//	    HEAD                    symbolic or detached pointer
//	    index                   binary staging index
//	    config                  repository configuration
//	  ...                       working-tree files
//
// Methods that need an initialized repository panic or error when the
// struct was constructed but never pointed at a repository; use Open or
// FindRepository to get a usable handle.
type KitcatRepository struct {
	workingDir  kcpath.RepositoryPath
	kitDir      kcpath.KitPath
	objectStore store.ObjectStore
	initialized bool
}

func NewKitcatRepository() *KitcatRepository {
	return &KitcatRepository{
		objectStore: store.NewFileObjectStore(),
	}
}

// Initialize creates the full .kitcat layout at path: the metadata
// directory, object store, refs tree, and the initial HEAD, config,
// and description files. Fails when a repository already exists there.
func (r *KitcatRepository) Initialize(path kcpath.RepositoryPath) error {
	exists, err := RepositoryExists(path)
	if err != nil {
		return fmt.Errorf("failed to check if repository exists: %w", err)
	}
	if exists {
		return fmt.Errorf("already a kitcat repository: %s", path)
	}

	r.workingDir = path
	r.kitDir = path.KitPath()

	if err := r.createDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := r.objectStore.Initialize(r.workingDir); err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	if err := r.createInitialFiles(); err != nil {
		return fmt.Errorf("failed to create initial files: %w", err)
	}

	r.initialized = true
	return nil
}

func (r *KitcatRepository) WorkingDirectory() kcpath.RepositoryPath {
	if !r.initialized {
		panic("repository not initialized")
	}
	return r.workingDir
}

// KitcatDirectory returns the .kitcat metadata directory.
func (r *KitcatRepository) KitcatDirectory() kcpath.KitPath {
	if !r.initialized {
		panic("repository not initialized")
	}
	return r.kitDir
}

func (r *KitcatRepository) ObjectStore() store.ObjectStore {
	return r.objectStore
}

// ReadObject loads any object by hash.
func (r *KitcatRepository) ReadObject(hash objects.ObjectHash) (objects.BaseObject, error) {
	if !r.initialized {
		return nil, fmt.Errorf("repository not initialized")
	}

	obj, err := r.objectStore.ReadObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return obj, nil
}

// WriteObject stores an object and returns its hash.
func (r *KitcatRepository) WriteObject(obj objects.BaseObject) (objects.ObjectHash, error) {
	if !r.initialized {
		return "", fmt.Errorf("repository not initialized")
	}

	hash, err := r.objectStore.WriteObject(obj)
	if err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return hash, nil
}

// Exists re-checks the working directory for a .kitcat directory.
func (r *KitcatRepository) Exists() (bool, error) {
	if !r.initialized {
		return false, fmt.Errorf("repository not initialized")
	}
	return RepositoryExists(r.workingDir)
}

func (r *KitcatRepository) IsInitialized() bool {
	return r.initialized
}

func (r *KitcatRepository) createDirectories() error {
	directories := []kcpath.KitPath{
		r.kitDir,
		r.kitDir.ObjectsPath(),
		r.kitDir.RefsPath(),
		r.kitDir.RefsPath().Join(kcpath.HeadsDir),
		r.kitDir.RefsPath().Join(kcpath.TagsDir),
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir.String(), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (r *KitcatRepository) createInitialFiles() error {
	headContent := "ref: refs/heads/master\n"
	if err := os.WriteFile(r.kitDir.HeadPath().String(), []byte(headContent), 0644); err != nil {
		return fmt.Errorf("failed to create HEAD file: %w", err)
	}

	descriptionContent := "Unnamed repository; edit this file 'description' to name the repository.\n"
	if err := os.WriteFile(r.kitDir.Join("description").String(), []byte(descriptionContent), 0644); err != nil {
		return fmt.Errorf("failed to create description file: %w", err)
	}

	configContent := `[core]
    repositoryformatversion = 0
    filemode = false
    bare = false
`
	if err := os.WriteFile(r.kitDir.ConfigPath().String(), []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// FindRepository walks up from startPath looking for a directory that
// contains .kitcat, returning a handle to the first one found or
// (nil, nil) when the filesystem root is reached without a hit.
func FindRepository(startPath kcpath.RepositoryPath) (*KitcatRepository, error) {
	currentPath := startPath.String()

	for {
		repoPath, err := kcpath.NewRepositoryPath(currentPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create repository path: %w", err)
		}

		exists, err := RepositoryExists(repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check repository existence: %w", err)
		}

		if exists {
			return Open(repoPath)
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			return nil, nil
		}

		currentPath = parentPath
	}
}

// RepositoryExists reports whether path contains a .kitcat directory.
func RepositoryExists(path kcpath.RepositoryPath) (bool, error) {
	info, err := os.Stat(path.KitPath().String())

	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to check metadata directory: %w", err)
	}

	return info.IsDir(), nil
}

// Open returns a handle to an existing repository at path.
func Open(path kcpath.RepositoryPath) (*KitcatRepository, error) {
	exists, err := RepositoryExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check repository existence: %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("not a kitcat repository: %s", path)
	}

	repo := NewKitcatRepository()
	repo.workingDir = path
	repo.kitDir = path.KitPath()

	if err := repo.objectStore.Initialize(path); err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	repo.initialized = true
	return repo, nil
}
