package tree

import (
	"bytes"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

const testSHA = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0"

func mustEntry(t *testing.T, modeStr, name, sha string) *TreeEntry {
	t.Helper()
	e, err := NewTreeEntryFromStrings(modeStr, name, sha)
	if err != nil {
		t.Fatalf("NewTreeEntryFromStrings(%q, %q): %v", modeStr, name, err)
	}
	return e
}

func TestNewTreeEntry(t *testing.T) {
	tests := []struct {
		name    string
		mode    objects.FileMode
		ename   kcpath.RelativePath
		sha     objects.ObjectHash
		wantErr bool
	}{
		{"regular file", objects.FileModeRegular, "file.txt", testSHA, false},
		{"executable", objects.FileModeExecutable, "run.sh", testSHA, false},
		{"directory", objects.FileModeDirectory, "src", testSHA, false},
		{"symlink", objects.FileModeSymlink, "link", testSHA, false},
		{"empty name", objects.FileModeRegular, "", testSHA, true},
		{"traversal name", objects.FileModeRegular, "../escape", testSHA, true},
		{"short sha", objects.FileModeRegular, "file.txt", "abc123", true},
		{"non-hex sha", objects.FileModeRegular, "file.txt", objects.ObjectHash("z1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewTreeEntry(tt.mode, tt.ename, tt.sha)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTreeEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if entry.Mode() != tt.mode || entry.SHA() != tt.sha {
				t.Errorf("entry fields not preserved: %v", entry)
			}
		})
	}
}

func TestEntryKindPredicates(t *testing.T) {
	tests := []struct {
		modeStr   string
		isDir     bool
		isFile    bool
		isExec    bool
		isSymlink bool
	}{
		{"100644", false, true, false, false},
		{"100755", false, true, true, false},
		{"040000", true, false, false, false},
		{"120000", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.modeStr, func(t *testing.T) {
			entry := mustEntry(t, tt.modeStr, "x", testSHA)
			if entry.IsDirectory() != tt.isDir {
				t.Errorf("IsDirectory() = %v, want %v", entry.IsDirectory(), tt.isDir)
			}
			if entry.IsFile() != tt.isFile {
				t.Errorf("IsFile() = %v, want %v", entry.IsFile(), tt.isFile)
			}
			if entry.IsExecutable() != tt.isExec {
				t.Errorf("IsExecutable() = %v, want %v", entry.IsExecutable(), tt.isExec)
			}
			if entry.IsSymbolicLink() != tt.isSymlink {
				t.Errorf("IsSymbolicLink() = %v, want %v", entry.IsSymbolicLink(), tt.isSymlink)
			}
		})
	}
}

func TestEntrySerializeFormat(t *testing.T) {
	entry := mustEntry(t, "100644", "hello.txt", testSHA)

	var buf bytes.Buffer
	if err := entry.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got := buf.Bytes()
	wantPrefix := []byte("100644 hello.txt\x00")
	if !bytes.HasPrefix(got, wantPrefix) {
		t.Fatalf("serialized prefix = %q, want %q", got[:len(wantPrefix)], wantPrefix)
	}
	if len(got) != len(wantPrefix)+SHALengthBytes {
		t.Errorf("serialized length = %d, want %d", len(got), len(wantPrefix)+SHALengthBytes)
	}

	shaBytes, _ := objects.ObjectHash(testSHA).Bytes()
	if !bytes.Equal(got[len(wantPrefix):], shaBytes) {
		t.Error("binary sha suffix does not match the entry hash")
	}
}

// Directory names order as if they ended in "/": "foo.txt" ('.', 0x2e)
// sorts before the directory "foo" (whose key is "foo/", 0x2f), which in
// turn sorts before "foo0" ('0', 0x30).
func TestCompareToDirectorySlashRule(t *testing.T) {
	fooTxt := mustEntry(t, "100644", "foo.txt", testSHA)
	fooDir := mustEntry(t, "040000", "foo", testSHA)
	foo0 := mustEntry(t, "100644", "foo0", testSHA)

	if fooTxt.CompareTo(fooDir) >= 0 {
		t.Error("foo.txt should sort before the foo directory")
	}
	if fooDir.CompareTo(foo0) >= 0 {
		t.Error("the foo directory should sort before foo0")
	}

	fileA := mustEntry(t, "100644", "a.txt", testSHA)
	fileB := mustEntry(t, "100644", "b.txt", testSHA)
	if fileA.CompareTo(fileB) >= 0 {
		t.Error("a.txt should sort before b.txt")
	}
	if fileB.CompareTo(fileA) <= 0 {
		t.Error("b.txt should sort after a.txt")
	}
	if fileA.CompareTo(fileA) != 0 {
		t.Error("an entry should compare equal to itself")
	}
}

func TestDeserializeTreeEntry(t *testing.T) {
	entry := mustEntry(t, "100755", "build.sh", testSHA)

	var buf bytes.Buffer
	if err := entry.Serialize(&buf); err != nil {
		t.Fatal(err)
	}

	decoded, next, err := DeserializeTreeEntry(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("DeserializeTreeEntry: %v", err)
	}
	if next != buf.Len() {
		t.Errorf("next offset = %d, want %d", next, buf.Len())
	}
	if decoded.Name() != "build.sh" || decoded.Mode() != objects.FileModeExecutable || decoded.SHA() != testSHA {
		t.Errorf("decoded entry = %v, want original", decoded)
	}
}

func TestDeserializeTreeEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"missing space", []byte("100644hello\x00aaaaaaaaaaaaaaaaaaaa")},
		{"missing null", []byte("100644 hello")},
		{"truncated sha", []byte("100644 hello\x00short")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DeserializeTreeEntry(tt.data, 0); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
