package objects

import (
	"bytes"
	"fmt"
	"io"
)

// ObjectType discriminates the three stored object kinds. It is the
// string that appears in the serialized header, so the values are part
// of the on-disk format.
type ObjectType string

const (
	BlobType   ObjectType = "blob"
	TreeType   ObjectType = "tree"
	CommitType ObjectType = "commit"
)

const (
	NullByte  = byte(0)
	SpaceByte = byte(' ')
)

func (o ObjectType) String() string {
	return string(o)
}

// BaseObject is the common surface of blob, tree, and commit objects.
// Hash and Size derive from the canonical serialized form, so identity
// is always content identity.
type BaseObject interface {
	// Type returns the object type.
	Type() ObjectType

	// Content returns the object body, header excluded.
	Content() (ObjectContent, error)

	// Hash returns the SHA-1 of the canonical serialized form, hex-encoded.
	Hash() (ObjectHash, error)

	// RawHash returns the same hash as the 20-byte array.
	RawHash() (RawHash, error)

	// Size returns the body length in bytes.
	Size() (ObjectSize, error)

	// Serialize writes "<type> <len>\0<body>" to w.
	Serialize(w io.Writer) error

	// String returns a human-readable rendering.
	String() string
}

// ParseObjectType validates and converts a header type string.
func ParseObjectType(s string) (ObjectType, error) {
	switch ObjectType(s) {
	case BlobType, TreeType, CommitType:
		return ObjectType(s), nil
	default:
		return "", fmt.Errorf("unknown object type: %s", s)
	}
}

// ParseHeader reads a "<type> <size>\0" header, checking the type against
// ot. It returns the declared body size and the offset where the body
// begins.
func ParseHeader(data []byte, ot ObjectType) (size int64, contentStart int, err error) {
	nullIndex := bytes.IndexByte(data, NullByte)
	if nullIndex == -1 {
		return -1, -1, fmt.Errorf("invalid object header: missing null byte")
	}

	spaceIndex := bytes.IndexByte(data[:nullIndex], SpaceByte)
	if spaceIndex == -1 {
		return -1, -1, fmt.Errorf("invalid object header: missing space")
	}

	typeBytes := data[:spaceIndex]
	sizeBytes := data[spaceIndex+1 : nullIndex]

	if string(typeBytes) != ot.String() {
		return -1, -1, fmt.Errorf("object type mismatch: expected %s, got %s", ot.String(), string(typeBytes))
	}

	if _, err = fmt.Sscanf(string(sizeBytes), "%d", &size); err != nil {
		return -1, -1, fmt.Errorf("invalid size in header: %w", err)
	}

	return size, nullIndex + 1, nil
}

// ParseContent returns the body of a serialized object of the expected
// type, verifying the declared size.
func ParseContent(data []byte, ot ObjectType) ([]byte, error) {
	size, contentStart, err := ParseHeader(data, ot)
	if err != nil {
		return nil, err
	}

	content := data[contentStart:]
	if int64(len(content)) != size {
		return nil, fmt.Errorf("content size mismatch: expected %d, got %d", size, len(content))
	}

	return content, nil
}

// ParseSerializedObject extracts the body of data, failing when the
// header names a different type than expected.
func ParseSerializedObject(data []byte, expectedType ObjectType) (ObjectContent, error) {
	serialized := SerializedObject(data)

	objType, err := serialized.Type()
	if err != nil {
		return nil, err
	}

	if objType != expectedType {
		return nil, fmt.Errorf("object type mismatch: expected %s, got %s", expectedType, objType)
	}

	return serialized.Content()
}

// CreateHeader renders the canonical "<type> <size>\0" prefix.
func CreateHeader(ot ObjectType, contentSize int64) []byte {
	header := fmt.Sprintf("%s %d%c", ot.String(), contentSize, NullByte)
	return []byte(header)
}
