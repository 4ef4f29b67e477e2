package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/common/logger"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// MinPrefixLength is the shortest hash prefix ResolvePrefix will accept.
// Anything shorter is rejected outright: the object store never scans fewer
// than the two hex characters that name a shard directory, plus enough of
// the remainder to make a useful match.
const MinPrefixLength = 4

// FileObjectStore keeps loose objects under .kitcat/objects, one zlib
// stream per object, sharded by the first two hex characters of the
// hash: "abcdef12..." lands at objects/ab/cdef12....
//
// Writes serialize to the canonical header+body form, compress, and go
// through a temp file plus rename. Because file names are content
// hashes, the store is write-once: rewriting an existing object is a
// no-op, and two processes racing on the same object produce identical
// bytes either way.
type FileObjectStore struct {
	objectsPath kcpath.KitPath
}

func NewFileObjectStore() *FileObjectStore {
	return &FileObjectStore{}
}

// Initialize points the store at repoPath's objects directory and
// creates it when missing. Must run before any other operation.
func (f *FileObjectStore) Initialize(repoPath kcpath.RepositoryPath) error {
	f.objectsPath = repoPath.KitPath().ObjectsPath()

	if err := fileops.EnsureDir(f.objectsPath.ToAbsolutePath()); err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	return nil
}

// WriteObject stores an object in the object store.
//
// If the object already exists (based on content hash), it returns the hash without
// rewriting the file. Writes are atomic: the compressed content is written to a
// temporary sibling file and renamed into place, so a crash mid-write never leaves
// a half-written object where a reader can find it.
func (f *FileObjectStore) WriteObject(obj objects.BaseObject) (objects.ObjectHash, error) {
	if f.objectsPath == "" {
		return "", NewInvalidArgumentError("write_object", "object store not initialized", nil)
	}

	serialized, err := f.serializeObject(obj)
	if err != nil {
		return "", err
	}

	hash := objects.NewObjectHash(serialized)
	filePath, err := f.resolveObjectPath(hash)
	if err != nil {
		return "", fmt.Errorf("failed to resolve object path: %w", err)
	}

	if err := f.writeObjectToDisk(serialized, filePath); err != nil {
		return "", fmt.Errorf("failed to write object to disk: %w", err)
	}

	logger.Debug("object written", "type", obj.Type().String(), "hash", hash.String(), "size", len(serialized))
	return hash, nil
}

// serializeObject renders obj into its canonical byte form.
func (f *FileObjectStore) serializeObject(obj objects.BaseObject) (objects.SerializedObject, error) {
	var buf bytes.Buffer
	if err := obj.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize object: %w", err)
	}
	return objects.SerializedObject(buf.Bytes()), nil
}

// writeObjectToDisk compresses and writes via temp file + rename,
// skipping the write entirely when the object is already present.
func (f *FileObjectStore) writeObjectToDisk(obj objects.SerializedObject, filePath kcpath.KitPath) error {
	absPath := filePath.ToAbsolutePath()

	exists, err := fileops.Exists(absPath)
	if err != nil {
		return fmt.Errorf("failed to check object existence: %w", err)
	}
	if exists {
		return nil
	}

	compressed, err := obj.Compress()
	if err != nil {
		return fmt.Errorf("failed to compress object: %w", err)
	}

	if err := fileops.EnsureParentDir(absPath); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := fileops.AtomicWrite(absPath, compressed.Bytes(), 0444); err != nil {
		return fmt.Errorf("failed to write object atomically: %w", err)
	}

	return nil
}

// ReadObject loads an object by full hash: read, inflate, verify the
// content still hashes to the requested name, then dispatch on the
// header type. A hash mismatch surfaces as a Corrupt-coded error, never
// as silently wrong data.
func (f *FileObjectStore) ReadObject(hash objects.ObjectHash) (objects.BaseObject, error) {
	compressed, err := f.readFromDisk(hash)
	if err != nil {
		return nil, err
	}

	decompressed, err := compressed.Decompress()
	if err != nil {
		return nil, fmt.Errorf("failed to decompress object: %w", err)
	}

	actual := objects.NewObjectHash(decompressed)
	if !actual.Equal(hash) {
		return nil, NewCorruptError("read_object", hash.String(), fmt.Errorf("stored content hashes to %s", actual))
	}

	obj, err := f.createObjectFromHeader(decompressed)
	if err != nil {
		return nil, fmt.Errorf("failed to create object from header: %w", err)
	}

	return obj, nil
}

// readFromDisk fetches the raw zlib stream for hash, NotFound-coded
// when absent.
func (f *FileObjectStore) readFromDisk(hash objects.ObjectHash) (objects.CompressedData, error) {
	filePath, err := f.validateAndResolvePath(hash)
	if err != nil {
		return nil, err
	}

	absPath := filePath.ToAbsolutePath()
	exists, err := fileops.Exists(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check object existence: %w", err)
	}
	if !exists {
		return nil, NewNotFoundError("read_object", hash.String())
	}

	compressed, err := fileops.ReadBytes(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read object file: %w", err)
	}

	return objects.CompressedData(compressed), nil
}

// HasObject reports whether the object file for hash exists.
func (f *FileObjectStore) HasObject(hash objects.ObjectHash) (bool, error) {
	filePath, err := f.validateAndResolvePath(hash)
	if err != nil {
		return false, err
	}

	return fileops.Exists(filePath.ToAbsolutePath())
}

// ResolvePrefix resolves a hash or hash prefix to the single full object hash it names.
//
// A prefix shorter than MinPrefixLength hex characters is rejected outright. Since the
// first two characters of a hash select its shard directory, only the files under
// objects/<first-two-hex>/ ever need scanning to resolve the remaining tail.
func (f *FileObjectStore) ResolvePrefix(hashOrPrefix string) (objects.ObjectHash, error) {
	if !f.objectsPath.IsValid() {
		return "", NewInvalidArgumentError("resolve_prefix", "object store not initialized", nil)
	}

	prefix := strings.ToLower(hashOrPrefix)
	if len(prefix) < MinPrefixLength {
		return "", NewInvalidArgumentError("resolve_prefix",
			fmt.Sprintf("hash prefix must be at least %d characters, got %d", MinPrefixLength, len(prefix)), nil)
	}
	if !isHexString(prefix) {
		return "", NewInvalidArgumentError("resolve_prefix", "hash prefix must be hexadecimal", nil)
	}
	if len(prefix) > objects.HashLength {
		return "", NewInvalidArgumentError("resolve_prefix", "hash prefix longer than a full hash", nil)
	}

	if len(prefix) == objects.HashLength {
		hash, err := objects.ParseObjectHash(prefix)
		if err != nil {
			return "", NewInvalidArgumentError("resolve_prefix", "invalid hash", err)
		}
		exists, err := f.HasObject(hash)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", NewNotFoundError("resolve_prefix", hashOrPrefix)
		}
		return hash, nil
	}

	shardDir := f.objectsPath.Join(prefix[:2]).ToAbsolutePath()
	entries, err := os.ReadDir(string(shardDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewNotFoundError("resolve_prefix", hashOrPrefix)
		}
		return "", fmt.Errorf("failed to scan object shard: %w", err)
	}

	tail := prefix[2:]
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), tail) {
			matches = append(matches, prefix[:2]+entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", NewNotFoundError("resolve_prefix", hashOrPrefix)
	case 1:
		return objects.ParseObjectHash(matches[0])
	default:
		sort.Strings(matches)
		return "", NewAmbiguousHashError("resolve_prefix", hashOrPrefix, matches)
	}
}

// ReadObjectByPrefix resolves hashOrPrefix to a full hash and reads the matching object.
func (f *FileObjectStore) ReadObjectByPrefix(hashOrPrefix string) (objects.BaseObject, objects.ObjectHash, error) {
	hash, err := f.ResolvePrefix(hashOrPrefix)
	if err != nil {
		return nil, "", err
	}
	obj, err := f.ReadObject(hash)
	if err != nil {
		return nil, "", err
	}
	return obj, hash, nil
}

// resolveObjectPath maps a full hash onto its sharded file path.
func (f *FileObjectStore) resolveObjectPath(hash objects.ObjectHash) (kcpath.KitPath, error) {
	hashStr := hash.String()
	if len(hashStr) != objects.HashLength {
		return "", fmt.Errorf("invalid hash length: %d", len(hashStr))
	}

	objPath := f.objectsPath.ObjectFilePath(hashStr)
	if objPath == "" {
		return "", fmt.Errorf("failed to create object path for hash: %s", hashStr)
	}

	return objPath, nil
}

// createObjectFromHeader reads the "<type> <size>\0" header and hands
// the bytes to the matching parser.
func (f *FileObjectStore) createObjectFromHeader(data objects.ObjectContent) (objects.BaseObject, error) {
	serialized := objects.SerializedObject(data)
	objType, _, _, err := serialized.ParseHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object header: %w", err)
	}

	fullData := serialized.Bytes()

	switch objType {
	case objects.BlobType:
		return blob.ParseBlob(fullData)
	case objects.TreeType:
		return tree.ParseTree(fullData)
	case objects.CommitType:
		return commit.ParseCommit(fullData)
	default:
		return nil, fmt.Errorf("unknown object type: %s", objType)
	}
}

// IsInitialized reports whether Initialize has run.
func (f *FileObjectStore) IsInitialized() bool {
	return f.objectsPath != ""
}

// GetObjectsPath exposes the objects directory root.
func (f *FileObjectStore) GetObjectsPath() kcpath.KitPath {
	return f.objectsPath
}

// ObjectCount walks the whole store and counts object files. Linear in
// store size.
func (f *FileObjectStore) ObjectCount() (int, error) {
	if !f.IsInitialized() {
		return 0, fmt.Errorf("object store not initialized")
	}

	count := 0
	err := filepath.Walk(f.objectsPath.String(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			count++
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}

	return count, nil
}

// validateAndResolvePath is the shared state+hash validation in front
// of every by-hash read.
func (f *FileObjectStore) validateAndResolvePath(hash objects.ObjectHash) (kcpath.KitPath, error) {
	if !f.objectsPath.IsValid() {
		return "", NewInvalidArgumentError("resolve_path", "object store not initialized", nil)
	}

	if err := hash.Validate(); err != nil {
		return "", NewInvalidArgumentError("resolve_path", "invalid hash", err)
	}

	filePath, err := f.resolveObjectPath(hash)
	if err != nil {
		return "", fmt.Errorf("failed to resolve object path: %w", err)
	}

	return filePath, nil
}

// isHexString reports whether s consists entirely of hex digits.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return len(s) > 0
}
