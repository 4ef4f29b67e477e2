package tree

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

const (
	SHALengthBytes = 20
)

// TreeEntry is one record in a tree body: a mode, a name, and the hash
// of the blob or subtree it points at.
//
// Wire form: "<octal mode> <name>\0" followed by the 20-byte binary
// hash. The mode distinguishes regular files (100644), executables
// (100755), symlinks (120000), subtrees (40000), and gitlinks (160000).
type TreeEntry struct {
	mode objects.FileMode
	name kcpath.RelativePath
	sha  objects.ObjectHash
}

// NewTreeEntry validates the name and hash before constructing.
func NewTreeEntry(mode objects.FileMode, name kcpath.RelativePath, sha objects.ObjectHash) (*TreeEntry, error) {
	if !name.IsValid() {
		return nil, fmt.Errorf("invalid path: %s", name)
	}

	if err := sha.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SHA: %w", err)
	}

	return &TreeEntry{
		mode: mode,
		name: name.Normalize(),
		sha:  sha,
	}, nil
}

// NewTreeEntryFromStrings parses the string forms first, then builds
// the entry. Convenient for tests and wire decoding.
func NewTreeEntryFromStrings(modeStr, name, shaStr string) (*TreeEntry, error) {
	mode, err := objects.FromOctalString(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid mode: %w", err)
	}

	path, err := kcpath.NewRelativePath(name)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	sha, err := objects.ParseObjectHash(shaStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SHA: %w", err)
	}

	return NewTreeEntry(mode, path, sha)
}

func (e *TreeEntry) Mode() objects.FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name.String()
}

func (e *TreeEntry) Path() kcpath.RelativePath {
	return e.name
}

func (e *TreeEntry) SHA() objects.ObjectHash {
	return e.sha
}

func (e *TreeEntry) IsDirectory() bool {
	return e.mode == objects.FileModeDirectory
}

func (e *TreeEntry) IsFile() bool {
	return e.mode == objects.FileModeRegular || e.mode == objects.FileModeExecutable
}

func (e *TreeEntry) IsExecutable() bool {
	return e.mode == objects.FileModeExecutable
}

func (e *TreeEntry) IsSymbolicLink() bool {
	return e.mode == objects.FileModeSymlink
}

func (e *TreeEntry) IsSubmodule() bool {
	return e.mode == objects.FileModeGitlink
}

// Serialize writes "<mode> <name>\0" plus the binary hash to w.
func (e *TreeEntry) Serialize(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%o %s%c", uint32(e.mode), e.name.String(), objects.NullByte); err != nil {
		return fmt.Errorf("failed to write entry header: %w", err)
	}

	shaBytes, err := e.sha.Bytes()
	if err != nil {
		return fmt.Errorf("failed to get SHA bytes: %w", err)
	}

	if _, err := w.Write(shaBytes); err != nil {
		return fmt.Errorf("failed to write SHA bytes: %w", err)
	}

	return nil
}

// sortKey is the name with the implicit trailing slash directories get
// for ordering purposes.
func (e *TreeEntry) sortKey() string {
	if e.IsDirectory() {
		return e.name.String() + "/"
	}
	return e.name.String()
}

// CompareTo orders entries byte-lexicographically with directory names
// compared as "<name>/". That places "foo.txt" before a "foo" subtree
// and keeps hashes identical to what other tools compute.
func (e *TreeEntry) CompareTo(other *TreeEntry) int {
	return strings.Compare(e.sortKey(), other.sortKey())
}

// DeserializeTreeEntry decodes one record starting at offset, returning
// the entry and the offset of the next record.
func DeserializeTreeEntry(data []byte, offset int) (*TreeEntry, int, error) {
	spaceIndex := bytes.IndexByte(data[offset:], objects.SpaceByte)
	if spaceIndex == -1 {
		return nil, 0, fmt.Errorf("invalid tree entry: missing space")
	}
	spaceIndex += offset

	modeStr := string(data[offset:spaceIndex])

	nullIndex := bytes.IndexByte(data[spaceIndex+1:], objects.NullByte)
	if nullIndex == -1 {
		return nil, 0, fmt.Errorf("invalid tree entry: missing null byte")
	}
	nullIndex += spaceIndex + 1

	nameStr := string(data[spaceIndex+1 : nullIndex])

	start := nullIndex + 1
	end := start + SHALengthBytes
	if end > len(data) {
		return nil, 0, fmt.Errorf("invalid tree entry: incomplete SHA")
	}

	shaStr := hex.EncodeToString(data[start:end])

	entry, err := NewTreeEntryFromStrings(modeStr, nameStr, shaStr)
	if err != nil {
		return nil, 0, err
	}

	return entry, end, nil
}
