package objects

import (
	"bytes"
	"testing"
)

func TestCreateHeader(t *testing.T) {
	header := CreateHeader(BlobType, 5)
	if !bytes.Equal(header, []byte("blob 5\x00")) {
		t.Errorf("CreateHeader() = %q, want %q", header, "blob 5\x00")
	}
}

func TestParseHeader(t *testing.T) {
	data := []byte("blob 5\x00hello")
	size, contentStart, err := ParseHeader(data, BlobType)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
	if contentStart != 7 {
		t.Errorf("contentStart = %d, want 7", contentStart)
	}
}

func TestParseHeader_TypeMismatch(t *testing.T) {
	data := []byte("tree 5\x00hello")
	if _, _, err := ParseHeader(data, BlobType); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestParseContent(t *testing.T) {
	data := []byte("blob 5\x00hello")
	content, err := ParseContent(data, BlobType)
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	if !bytes.Equal(content, []byte("hello")) {
		t.Errorf("content = %q, want %q", content, "hello")
	}
}

func TestParseSerializedObject(t *testing.T) {
	serialized := NewSerializedObject(TreeType, ObjectContent("abc"))
	content, err := ParseSerializedObject(serialized.Bytes(), TreeType)
	if err != nil {
		t.Fatalf("ParseSerializedObject() error = %v", err)
	}
	if content.String() != "abc" {
		t.Errorf("content = %q, want %q", content.String(), "abc")
	}

	if _, err := ParseSerializedObject(serialized.Bytes(), BlobType); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestComputeHash(t *testing.T) {
	raw := ComputeHash([]byte("blob 0\x00"))
	if raw.IsZero() {
		t.Error("ComputeHash of non-empty data should not be zero")
	}
}
