package index

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

// Index is the staging area: the sorted set of entries that the next
// commit's tree will be built from. The on-disk form is the DIRC v2
// binary layout: a 12-byte header ("DIRC", version, entry count),
// path-sorted entries, then a SHA-1 checksum over everything before it.
// The checksum is verified on every read, so a torn or tampered index
// surfaces as Corrupt instead of silently wrong staging state.
type Index struct {
	// Version is the index file format version (typically 2)
	Version uint32

	// Entries contains all staged files, sorted by path
	Entries []*Entry
}

// NewIndex returns an empty v2 index.
func NewIndex() *Index {
	return &Index{
		Version: IndexVersion,
		Entries: make([]*Entry, 0),
	}
}

// Write persists the index at path under the index.lock exclusive
// lock, through a temp file and rename. A reader never observes a
// partial index; a second writer gets an IndexLocked-coded error.
func (idx *Index) Write(path kcpath.AbsolutePath) error {
	lock, err := AcquireLock(path)
	if err != nil {
		return err
	}
	defer lock.Release()

	buf := new(bytes.Buffer)
	if err := idx.Serialize(buf); err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	if err := fileops.AtomicWrite(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// Add upserts keyed by (Path, Stage): staging a normal entry never
// disturbs conflict stages at the same path and vice versa. The entry
// list is re-sorted afterwards.
func (idx *Index) Add(entry *Entry) {
	for i, e := range idx.Entries {
		if e.Path == entry.Path && e.Stage == entry.Stage {
			idx.Entries[i] = entry
			idx.sort()
			return
		}
	}

	idx.Entries = append(idx.Entries, entry)
	idx.sort()
}

// Remove drops every entry at path, all stages. Returns whether
// anything was removed. RemoveStage exists for dropping a single
// conflict stage.
func (idx *Index) Remove(path kcpath.RelativePath) bool {
	normalizedPath := path.Normalize()
	removed := false
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Path == normalizedPath {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	idx.Entries = kept
	return removed
}

// RemoveStage removes a single conflict-stage entry at path, leaving any
// other stages (and any Stage 0 entry) untouched. Used when resolving a
// merge conflict for one side without disturbing the others.
//
// Returns true if a matching (path, stage) entry was found and removed.
func (idx *Index) RemoveStage(path kcpath.RelativePath, stage uint8) bool {
	normalizedPath := path.Normalize()
	for i, e := range idx.Entries {
		if e.Path == normalizedPath && e.Stage == stage {
			idx.Entries = append(idx.Entries[:i], idx.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Get looks up the normal (stage 0) entry for path. A path present
// only as conflict stages reports not-found here.
func (idx *Index) Get(path kcpath.RelativePath) (*Entry, bool) {
	return idx.GetStage(path, 0)
}

// GetStage retrieves the entry for a path at a specific merge stage
// (0 for normal entries, 1/2/3 for base/ours/theirs during a conflict).
func (idx *Index) GetStage(path kcpath.RelativePath, stage uint8) (*Entry, bool) {
	normalizedPath := path.Normalize()
	for _, e := range idx.Entries {
		if e.Path == normalizedPath && e.Stage == stage {
			return e, true
		}
	}
	return nil, false
}

// GetAllStages returns every entry present at path, across all stages,
// in ascending stage order. Used to inspect or resolve a conflicted path.
func (idx *Index) GetAllStages(path kcpath.RelativePath) []*Entry {
	normalizedPath := path.Normalize()
	var entries []*Entry
	for _, e := range idx.Entries {
		if e.Path == normalizedPath {
			entries = append(entries, e)
		}
	}
	return entries
}

// Has reports whether path has a stage-0 entry.
func (idx *Index) Has(path kcpath.RelativePath) bool {
	_, ok := idx.Get(path)
	return ok
}

// HasConflict reports whether path currently has any conflict-stage
// (Stage 1/2/3) entries in the index.
func (idx *Index) HasConflict(path kcpath.RelativePath) bool {
	normalizedPath := path.Normalize()
	for _, e := range idx.Entries {
		if e.Path == normalizedPath && e.Stage != 0 {
			return true
		}
	}
	return false
}

// ConflictPaths returns the distinct paths that currently carry conflict
// (non-zero stage) entries, in index order.
func (idx *Index) ConflictPaths() []kcpath.RelativePath {
	seen := make(map[kcpath.RelativePath]bool)
	var paths []kcpath.RelativePath
	for _, e := range idx.Entries {
		if e.Stage == 0 || seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		paths = append(paths, e.Path)
	}
	return paths
}

// Clear drops every entry.
func (idx *Index) Clear() {
	idx.Entries = make([]*Entry, 0)
}

// Paths lists every entry's path, in index order.
func (idx *Index) Paths() []kcpath.RelativePath {
	paths := make([]kcpath.RelativePath, len(idx.Entries))
	for i, e := range idx.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Count is the entry count.
func (idx *Index) Count() int {
	return len(idx.Entries)
}

// Serialize emits header, entries, then the SHA-1 trailer over all
// preceding bytes.
func (idx *Index) Serialize(w io.Writer) error {
	buf := new(bytes.Buffer)

	if err := idx.writeHeader(buf); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range idx.Entries {
		if err := entry.Serialize(buf); err != nil {
			return fmt.Errorf("failed to serialize entry %s: %w", entry.Path, err)
		}
	}

	content := buf.Bytes()
	checksum := sha1.Sum(content)

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	if _, err := w.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}

	return nil
}

// writeHeader emits "DIRC", version, and entry count, big-endian.
func (idx *Index) writeHeader(w io.Writer) error {
	if _, err := w.Write([]byte(IndexSignature)); err != nil {
		return fmt.Errorf("failed to write signature: %w", err)
	}

	if err := binary.Write(w, binary.BigEndian, idx.Version); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	entryCount := uint32(len(idx.Entries))
	if err := binary.Write(w, binary.BigEndian, entryCount); err != nil {
		return fmt.Errorf("failed to write entry count: %w", err)
	}

	return nil
}

// Deserialize reads the binary form back, verifying the checksum
// before trusting any of it.
func (idx *Index) Deserialize(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if len(data) < IndexHeaderSize+IndexChecksumSize {
		return NewCorruptError("deserialize", "index file is too small to contain a header and checksum", nil)
	}

	if err := validateChecksum(data); err != nil {
		return err
	}

	content := data[:len(data)-IndexChecksumSize]
	buf := bytes.NewReader(content)
	if err := idx.readHeader(buf); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	for i := range idx.Entries {
		entry := &Entry{}
		if _, err := entry.Deserialize(buf); err != nil {
			return fmt.Errorf("failed to deserialize entry %d: %w", i, err)
		}
		idx.Entries[i] = entry
	}

	return nil
}

// validateChecksum recomputes the trailer hash; a mismatch is
// Corrupt-coded.
func validateChecksum(data []byte) error {
	if len(data) < IndexHeaderSize+IndexChecksumSize {
		return NewCorruptError("validate_checksum", "index file is too small to contain a header and checksum", nil)
	}

	contentSize := len(data) - IndexChecksumSize
	content := data[:contentSize]
	expectedChecksum := data[contentSize:]
	actualChecksum := sha1.Sum(content)

	if !bytes.Equal(expectedChecksum, actualChecksum[:]) {
		return NewCorruptError("validate_checksum", "index checksum does not match its content", nil)
	}
	return nil
}

// readHeader validates the signature and version, then sizes the
// entry slice from the declared count.
func (idx *Index) readHeader(r io.Reader) error {
	sig := make([]byte, 4)
	if _, err := io.ReadFull(r, sig); err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	if string(sig) != IndexSignature {
		return fmt.Errorf("invalid index signature: %s", string(sig))
	}

	if err := binary.Read(r, binary.BigEndian, &idx.Version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if idx.Version != IndexVersion {
		return fmt.Errorf("unsupported index version: %d", idx.Version)
	}

	var entryCount uint32
	if err := binary.Read(r, binary.BigEndian, &entryCount); err != nil {
		return fmt.Errorf("failed to read entry count: %w", err)
	}

	idx.Entries = make([]*Entry, entryCount)
	return nil
}

// sort restores the canonical (path, stage) order after mutation.
func (idx *Index) sort() {
	sort.Slice(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].CompareTo(idx.Entries[j]) < 0
	})
}
