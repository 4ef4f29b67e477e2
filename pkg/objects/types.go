package objects

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// ObjectContent is an object body before compression, header excluded:
// file bytes for a blob, serialized entries for a tree, the text body
// for a commit.
type ObjectContent []byte

// CompressedData is a zlib stream, the form objects take on disk.
type CompressedData []byte

// SerializedObject is the canonical "<type> <size>\0<body>" byte form.
// Hashing happens over this, so it defines object identity.
type SerializedObject []byte

// ObjectSize is a body length in bytes.
type ObjectSize int64

func (oc ObjectContent) Bytes() []byte {
	return []byte(oc)
}

func (oc ObjectContent) String() string {
	return string(oc)
}

func (oc ObjectContent) Size() ObjectSize {
	return ObjectSize(len(oc))
}

func (oc ObjectContent) IsEmpty() bool {
	return len(oc) == 0
}

// Compress wraps the content in a zlib stream at best compression,
// the framing loose objects use on disk.
func (oc ObjectContent) Compress() (CompressedData, error) {
	if oc.IsEmpty() {
		return CompressedData{}, nil
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	if _, err := w.Write(oc); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compression: %w", err)
	}

	return CompressedData(buf.Bytes()), nil
}

func (cd CompressedData) Bytes() []byte {
	return []byte(cd)
}

func (cd CompressedData) Size() ObjectSize {
	return ObjectSize(len(cd))
}

func (cd CompressedData) IsEmpty() bool {
	return len(cd) == 0
}

// Decompress inflates the zlib stream back into the original bytes.
func (cd CompressedData) Decompress() (ObjectContent, error) {
	if cd.IsEmpty() {
		return ObjectContent{}, nil
	}

	r, zerr := zlib.NewReader(bytes.NewReader(cd))
	if zerr != nil {
		return nil, fmt.Errorf("failed to open zlib stream: %w", zerr)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}

	return ObjectContent(data), nil
}

func (so SerializedObject) Bytes() []byte {
	return []byte(so)
}

func (so SerializedObject) Size() ObjectSize {
	return ObjectSize(len(so))
}

func (so SerializedObject) IsEmpty() bool {
	return len(so) == 0
}

// ParseHeader splits off the "<type> <size>\0" prefix, returning the
// type, the declared body size, and the body offset.
func (so SerializedObject) ParseHeader() (ObjectType, ObjectSize, int, error) {
	data := []byte(so)
	nullIndex := bytes.IndexByte(data, NullByte)
	if nullIndex == -1 {
		return "", 0, 0, fmt.Errorf("invalid object header: missing null byte")
	}

	spaceIndex := bytes.IndexByte(data[:nullIndex], SpaceByte)
	if spaceIndex == -1 {
		return "", 0, 0, fmt.Errorf("invalid object header: missing space")
	}

	typeBytes := data[:spaceIndex]
	sizeBytes := data[spaceIndex+1 : nullIndex]

	objType, err := ParseObjectType(string(typeBytes))
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid object type: %w", err)
	}

	var size int64
	if _, err = fmt.Sscanf(string(sizeBytes), "%d", &size); err != nil {
		return "", 0, 0, fmt.Errorf("invalid size in header: %w", err)
	}

	return objType, ObjectSize(size), nullIndex + 1, nil
}

// Content returns the body, verifying the header's declared size matches
// what is actually there.
func (so SerializedObject) Content() (ObjectContent, error) {
	_, expectedSize, contentStart, err := so.ParseHeader()
	if err != nil {
		return nil, err
	}

	content := []byte(so)[contentStart:]
	if ObjectSize(len(content)) != expectedSize {
		return nil, fmt.Errorf("content size mismatch: expected %d, got %d", expectedSize, len(content))
	}

	return ObjectContent(content), nil
}

// Type reads the type out of the header.
func (so SerializedObject) Type() (ObjectType, error) {
	objType, _, _, err := so.ParseHeader()
	return objType, err
}

// Compress compresses the whole serialized form for storage.
func (so SerializedObject) Compress() (CompressedData, error) {
	return ObjectContent(so).Compress()
}

// NewSerializedObject assembles the canonical form from type and body.
func NewSerializedObject(objType ObjectType, content ObjectContent) SerializedObject {
	header := CreateHeader(objType, int64(content.Size()))
	fullData := append(header, content.Bytes()...)
	return SerializedObject(fullData)
}

func (os ObjectSize) IsValid() bool {
	return os >= 0
}

func (os ObjectSize) String() string {
	return formatBytes(int64(os))
}

func (os ObjectSize) Int64() int64 {
	return int64(os)
}

// formatBytes renders a byte count with a binary-unit suffix.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
