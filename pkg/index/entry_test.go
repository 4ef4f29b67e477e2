package index

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

const entryTestHash = objects.ObjectHash("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0")

func statTestFile(t *testing.T, content string) (kcpath.RelativePath, os.FileInfo) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	return kcpath.RelativePath("f.txt"), info
}

func TestNewEntryDefaults(t *testing.T) {
	e := NewEntry("./src//main.go")

	if e.Path != "src/main.go" {
		t.Errorf("Path = %q, want normalized form", e.Path)
	}
	if e.Mode != FileModeRegular {
		t.Errorf("Mode = %v, want regular", e.Mode)
	}
	if e.Stage != 0 || e.AssumeValid {
		t.Errorf("unexpected defaults: stage=%d assumeValid=%v", e.Stage, e.AssumeValid)
	}
}

func TestNewEntryFromFileInfo(t *testing.T) {
	relPath, info := statTestFile(t, "twelve bytes")

	e, err := NewEntryFromFileInfo(relPath, info, entryTestHash)
	if err != nil {
		t.Fatalf("NewEntryFromFileInfo: %v", err)
	}

	if e.SizeInBytes != 12 {
		t.Errorf("SizeInBytes = %d, want 12", e.SizeInBytes)
	}
	if e.BlobHash != entryTestHash {
		t.Errorf("BlobHash = %s", e.BlobHash)
	}
	if int64(e.ModificationTime.Seconds) != info.ModTime().Unix() {
		t.Error("mtime not captured")
	}

	if _, err := NewEntryFromFileInfo("../escape", info, entryTestHash); err == nil {
		t.Error("traversal path accepted")
	}
}

func TestIsModified(t *testing.T) {
	relPath, info := statTestFile(t, "stable content")
	e, err := NewEntryFromFileInfo(relPath, info, entryTestHash)
	if err != nil {
		t.Fatal(err)
	}

	if e.IsModified(info) {
		t.Error("freshly staged file reported as modified")
	}

	// A size change must flag modification.
	e.SizeInBytes = 1
	if !e.IsModified(info) {
		t.Error("size mismatch not detected")
	}

	// AssumeValid pins the answer to unchanged.
	e.AssumeValid = true
	if e.IsModified(info) {
		t.Error("AssumeValid entry reported as modified")
	}

	// An mtime change must flag modification.
	e2, _ := NewEntryFromFileInfo(relPath, info, entryTestHash)
	e2.ModificationTime.Seconds -= 100
	if !e2.IsModified(info) {
		t.Error("mtime mismatch not detected")
	}
}

func TestEntryCompareTo(t *testing.T) {
	entry := func(path string, mode FileMode, stage uint8) *Entry {
		e := NewEntry(kcpath.RelativePath(path))
		e.Mode = mode
		e.Stage = stage
		return e
	}

	tests := []struct {
		name string
		a, b *Entry
		want int
	}{
		{"alphabetical", entry("a", FileModeRegular, 0), entry("b", FileModeRegular, 0), -1},
		{"equal", entry("a", FileModeRegular, 0), entry("a", FileModeRegular, 0), 0},
		{"stage ties break", entry("x", FileModeRegular, 1), entry("x", FileModeRegular, 2), -1},
		{"stage zero first", entry("x", FileModeRegular, 0), entry("x", FileModeRegular, 3), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.CompareTo(tt.b)
			switch {
			case tt.want < 0 && got >= 0:
				t.Errorf("CompareTo = %d, want negative", got)
			case tt.want == 0 && got != 0:
				t.Errorf("CompareTo = %d, want 0", got)
			case tt.want > 0 && got <= 0:
				t.Errorf("CompareTo = %d, want positive", got)
			}
		})
	}
}

func TestEntrySerializeDeserializeRoundTrip(t *testing.T) {
	original := NewEntry("src/parser/lex.go")
	original.CreationTime = NewTimestampFromMillis(1609459200123)
	original.ModificationTime = NewTimestampFromMillis(1609459300456)
	original.DeviceID = 2049
	original.Inode = 123456
	original.Mode = FileModeExecutable
	original.UserID = 1000
	original.GroupID = 1000
	original.SizeInBytes = 4096
	original.BlobHash = entryTestHash
	original.Stage = 2

	var buf bytes.Buffer
	if err := original.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// Total record length is padded to an 8-byte multiple.
	if buf.Len()%AlignmentBoundary != 0 {
		t.Errorf("record length %d not 8-byte aligned", buf.Len())
	}

	decoded := &Entry{}
	n, err := decoded.Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if n%AlignmentBoundary != 0 {
		t.Errorf("reported size %d not aligned", n)
	}

	if decoded.Path != original.Path ||
		decoded.Mode != original.Mode ||
		decoded.BlobHash != original.BlobHash ||
		decoded.Stage != original.Stage ||
		decoded.SizeInBytes != original.SizeInBytes ||
		decoded.DeviceID != original.DeviceID ||
		decoded.Inode != original.Inode ||
		decoded.UserID != original.UserID ||
		decoded.GroupID != original.GroupID ||
		!decoded.CreationTime.Equal(original.CreationTime) ||
		!decoded.ModificationTime.Equal(original.ModificationTime) {
		t.Errorf("round-trip mismatch:\noriginal %+v\ndecoded  %+v", original, decoded)
	}
}

func TestEntryPaddingBoundaries(t *testing.T) {
	// Path lengths chosen so the unpadded record size straddles the
	// 8-byte boundary in different ways.
	for _, pathLen := range []int{1, 2, 5, 9, 17, 63} {
		name := make([]byte, pathLen)
		for i := range name {
			name[i] = 'a'
		}

		e := NewEntry(kcpath.RelativePath(name))
		e.BlobHash = entryTestHash

		var buf bytes.Buffer
		if err := e.Serialize(&buf); err != nil {
			t.Fatalf("Serialize len %d: %v", pathLen, err)
		}

		raw := FixedHeaderSize + pathLen + 1
		want := (raw + AlignmentBoundary - 1) / AlignmentBoundary * AlignmentBoundary
		if buf.Len() != want {
			t.Errorf("pathLen %d: record = %d bytes, want %d", pathLen, buf.Len(), want)
		}
	}
}

func TestEntryDeserializeErrors(t *testing.T) {
	t.Run("truncated header", func(t *testing.T) {
		e := &Entry{}
		if _, err := e.Deserialize(bytes.NewReader(make([]byte, 10))); err == nil {
			t.Error("expected error on a truncated header")
		}
	})

	t.Run("missing path terminator", func(t *testing.T) {
		full := NewEntry("f")
		full.BlobHash = entryTestHash
		var buf bytes.Buffer
		if err := full.Serialize(&buf); err != nil {
			t.Fatal(err)
		}
		// Cut off after the fixed header plus one path byte.
		cut := buf.Bytes()[:FixedHeaderSize+1]

		e := &Entry{}
		if _, err := e.Deserialize(bytes.NewReader(cut)); err == nil {
			t.Error("expected error on unterminated path")
		}
	})
}

func TestEntryFlagsRoundTripThroughSerialization(t *testing.T) {
	e := NewEntry("conflicted.txt")
	e.BlobHash = entryTestHash
	e.Stage = 3
	e.AssumeValid = true

	var buf bytes.Buffer
	if err := e.Serialize(&buf); err != nil {
		t.Fatal(err)
	}

	decoded := &Entry{}
	if _, err := decoded.Deserialize(&buf); err != nil {
		t.Fatal(err)
	}
	if decoded.Stage != 3 {
		t.Errorf("Stage = %d, want 3", decoded.Stage)
	}
	if !decoded.AssumeValid {
		t.Error("AssumeValid lost across serialization")
	}
}

func TestEntryTimestampPrecision(t *testing.T) {
	when := time.Date(2021, 6, 1, 12, 0, 0, 123456789, time.UTC)
	relPath, info := statTestFile(t, "x")
	e, err := NewEntryFromFileInfo(relPath, info, entryTestHash)
	if err != nil {
		t.Fatal(err)
	}

	e.ModificationTime = NewTimestampFromMillis(when.UnixMilli())

	var buf bytes.Buffer
	if err := e.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	decoded := &Entry{}
	if _, err := decoded.Deserialize(&buf); err != nil {
		t.Fatal(err)
	}
	if !decoded.ModificationTime.Equal(e.ModificationTime) {
		t.Error("timestamp lost precision across serialization")
	}
}
