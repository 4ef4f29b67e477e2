// Package tree implements the tree object kind: an ordered directory
// snapshot whose entries point at blobs and subtrees.
package tree

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// Tree is an ordered list of entries. The body serializes as repeated
// "<mode> <name>\0<20-byte sha>" records; entry order is part of the
// hash, so construction always re-sorts.
//
// Sort rule: byte-lexicographic by name, with directory names compared
// as if they ended in "/". That keeps the hash stable and matches what
// other tools produce for the same snapshot.
type Tree struct {
	entries []*TreeEntry
	hash    *objects.ObjectHash
}

// NewTree builds a tree from entries, sorting them into canonical order.
func NewTree(entries []*TreeEntry) *Tree {
	tree := &Tree{
		entries: entries,
	}
	tree.sortEntries()
	return tree
}

func NewEmptyTree() *Tree {
	return &Tree{
		entries: []*TreeEntry{},
	}
}

// ParseTree reads a serialized "tree <size>\0<records>" form back into
// a Tree, caching the input's hash.
func ParseTree(data []byte) (*Tree, error) {
	content, err := objects.ParseSerializedObject(data, objects.TreeType)
	if err != nil {
		return nil, err
	}

	entries, err := parseEntries(content.Bytes())
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		entries: entries,
	}
	tree.sortEntries()

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	tree.hash = &hash

	return tree, nil
}

func (t *Tree) Type() objects.ObjectType {
	return objects.TreeType
}

// Content serializes the entries, header excluded.
func (t *Tree) Content() (objects.ObjectContent, error) {
	data, err := t.serializeContent()
	if err != nil {
		return nil, err
	}
	return objects.ObjectContent(data), nil
}

// Hash returns the hash of the canonical serialized form, computing it
// once.
func (t *Tree) Hash() (objects.ObjectHash, error) {
	if t.hash != nil {
		return *t.hash, nil
	}

	content, err := t.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get content: %w", err)
	}

	hash := objects.ComputeObjectHash(objects.TreeType, content)
	t.hash = &hash
	return hash, nil
}

// RawHash returns the hash in 20-byte binary form.
func (t *Tree) RawHash() (objects.RawHash, error) {
	hash, err := t.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size is the serialized body length.
func (t *Tree) Size() (objects.ObjectSize, error) {
	content, err := t.Content()
	if err != nil {
		return 0, err
	}
	return content.Size(), nil
}

// Serialize writes "tree <size>\0<records>" to w.
func (t *Tree) Serialize(w io.Writer) error {
	content, err := t.Content()
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}

	serialized := objects.NewSerializedObject(objects.TreeType, content)

	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}

	return nil
}

func (t *Tree) String() string {
	hash, err := t.Hash()
	if err != nil {
		return fmt.Sprintf("Tree{entries: %d, error: %v}", len(t.entries), err)
	}
	size, _ := t.Size()
	return fmt.Sprintf("Tree{entries: %d, size: %s, hash: %s}", len(t.entries), size, hash.Short())
}

// Entries returns a copy so callers cannot disturb the canonical order.
func (t *Tree) Entries() []*TreeEntry {
	entries := make([]*TreeEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

func (t *Tree) IsEmpty() bool {
	return len(t.entries) == 0
}

func (t *Tree) sortEntries() {
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].CompareTo(t.entries[j]) < 0
	})
}

func (t *Tree) serializeContent() ([]byte, error) {
	if len(t.entries) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	for _, entry := range t.entries {
		if err := entry.Serialize(&buf); err != nil {
			return nil, fmt.Errorf("failed to serialize tree entry: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func parseEntries(content []byte) ([]*TreeEntry, error) {
	var entries []*TreeEntry
	offset := 0

	for offset < len(content) {
		entry, next, err := DeserializeTreeEntry(content, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tree entry: %w", err)
		}
		entries = append(entries, entry)
		offset = next
	}

	return entries, nil
}
