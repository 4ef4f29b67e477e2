// Package blob implements the blob object kind: opaque file content in
// the content-addressable store.
package blob

import (
	"fmt"
	"io"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// Blob wraps raw file bytes. The hash is computed on first request and
// cached; blobs never mutate after construction.
type Blob struct {
	content objects.ObjectContent
	hash    *objects.ObjectHash
}

// NewBlob wraps data in a Blob. Hashing is deferred until asked for.
func NewBlob(data []byte) *Blob {
	return &Blob{
		content: objects.ObjectContent(data),
	}
}

// ParseBlob reads a serialized "blob <size>\0<bytes>" form back into a
// Blob, caching the hash of the input since it is already canonical.
func ParseBlob(data []byte) (*Blob, error) {
	content, err := objects.ParseSerializedObject(data, objects.BlobType)
	if err != nil {
		return nil, err
	}

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	return &Blob{
		content: content,
		hash:    &hash,
	}, nil
}

func (b *Blob) Type() objects.ObjectType {
	return objects.BlobType
}

// Content returns the stored file bytes.
func (b *Blob) Content() (objects.ObjectContent, error) {
	return b.content, nil
}

// Hash returns the hash of the canonical serialized form, computing it
// once.
func (b *Blob) Hash() (objects.ObjectHash, error) {
	if b.hash != nil {
		return *b.hash, nil
	}

	hash := objects.ComputeObjectHash(objects.BlobType, b.content)
	b.hash = &hash
	return hash, nil
}

// RawHash returns the hash in 20-byte binary form.
func (b *Blob) RawHash() (objects.RawHash, error) {
	hash, err := b.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size is the content length, header excluded.
func (b *Blob) Size() (objects.ObjectSize, error) {
	return b.content.Size(), nil
}

// Serialize writes "blob <size>\0<bytes>" to w.
func (b *Blob) Serialize(w io.Writer) error {
	serialized := objects.NewSerializedObject(objects.BlobType, b.content)

	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return nil
}

func (b *Blob) String() string {
	hash, err := b.Hash()
	if err != nil {
		return fmt.Sprintf("Blob{size: %s, error: %v}", b.content.Size(), err)
	}
	return fmt.Sprintf("Blob{size: %s, hash: %s}", b.content.Size(), hash.Short())
}
