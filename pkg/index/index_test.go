package index

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/common/err"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

func stagedEntry(path string) *Entry {
	e := NewEntry(kcpath.RelativePath(path))
	e.BlobHash = entryTestHash
	return e
}

func conflictEntry(path string, stage uint8) *Entry {
	e := stagedEntry(path)
	e.Stage = stage
	return e
}

func TestAddKeepsSortedOrder(t *testing.T) {
	idx := NewIndex()
	for _, p := range []string{"zebra.txt", "apple.txt", "mango/pit.txt"} {
		idx.Add(stagedEntry(p))
	}

	want := []string{"apple.txt", "mango/pit.txt", "zebra.txt"}
	for i, p := range idx.Paths() {
		if p.String() != want[i] {
			t.Fatalf("order = %v, want %v", idx.Paths(), want)
		}
	}
}

func TestAddReplacesSamePathAndStage(t *testing.T) {
	idx := NewIndex()

	first := stagedEntry("f")
	first.SizeInBytes = 1
	idx.Add(first)

	second := stagedEntry("f")
	second.SizeInBytes = 2
	idx.Add(second)

	if idx.Count() != 1 {
		t.Fatalf("Count = %d, want 1 after duplicate add", idx.Count())
	}
	got, _ := idx.Get("f")
	if got.SizeInBytes != 2 {
		t.Error("duplicate add did not replace the entry")
	}
}

func TestConflictStagesCoexist(t *testing.T) {
	idx := NewIndex()
	idx.Add(conflictEntry("x", 1))
	idx.Add(conflictEntry("x", 2))
	idx.Add(conflictEntry("x", 3))

	if idx.Count() != 3 {
		t.Fatalf("Count = %d, want 3 stages", idx.Count())
	}
	if !idx.HasConflict("x") {
		t.Error("HasConflict = false")
	}
	if got := idx.GetAllStages("x"); len(got) != 3 {
		t.Errorf("GetAllStages returned %d entries", len(got))
	}
	// No stage-0 entry exists for a purely conflicted path.
	if idx.Has("x") {
		t.Error("Has = true for a conflict-only path")
	}

	// Resolving: staging a normal entry coexists until stages drop.
	idx.Add(stagedEntry("x"))
	if !idx.HasConflict("x") {
		t.Error("conflict stages should survive a stage-0 add")
	}
	idx.RemoveStage("x", 1)
	idx.RemoveStage("x", 2)
	idx.RemoveStage("x", 3)
	if idx.HasConflict("x") {
		t.Error("HasConflict = true after all stages removed")
	}
	if !idx.Has("x") {
		t.Error("stage-0 entry lost while clearing conflict stages")
	}
}

func TestConflictPaths(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("clean.txt"))
	idx.Add(conflictEntry("b.txt", 2))
	idx.Add(conflictEntry("b.txt", 3))
	idx.Add(conflictEntry("a.txt", 2))

	got := idx.ConflictPaths()
	if len(got) != 2 {
		t.Fatalf("ConflictPaths = %v", got)
	}
	if got[0] != "a.txt" || got[1] != "b.txt" {
		t.Errorf("ConflictPaths order = %v", got)
	}
}

func TestRemove(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("keep"))
	idx.Add(conflictEntry("drop", 2))
	idx.Add(conflictEntry("drop", 3))

	if !idx.Remove("drop") {
		t.Fatal("Remove reported nothing removed")
	}
	if idx.Count() != 1 {
		t.Errorf("Count = %d after removing all stages of a path", idx.Count())
	}
	if idx.Remove("absent") {
		t.Error("Remove of a missing path reported success")
	}
}

func TestClear(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("a"))
	idx.Add(stagedEntry("b"))

	idx.Clear()
	if idx.Count() != 0 {
		t.Errorf("Count = %d after Clear", idx.Count())
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("README.md"))
	idx.Add(stagedEntry("src/main.go"))
	idx.Add(conflictEntry("conflict.txt", 2))

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	decoded := NewIndex()
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if decoded.Count() != idx.Count() {
		t.Fatalf("Count = %d, want %d", decoded.Count(), idx.Count())
	}
	for i := range idx.Entries {
		a, b := idx.Entries[i], decoded.Entries[i]
		if a.Path != b.Path || a.Stage != b.Stage || a.BlobHash != b.BlobHash {
			t.Errorf("entry %d mismatch: %v vs %v", i, a, b)
		}
	}
}

func TestHeaderLayout(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("f"))

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	if string(raw[:4]) != "DIRC" {
		t.Errorf("signature = %q", raw[:4])
	}
	if raw[7] != 2 {
		t.Errorf("version bytes = % x, want big-endian 2", raw[4:8])
	}
	if raw[11] != 1 {
		t.Errorf("entry count bytes = % x, want big-endian 1", raw[8:12])
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	idx := NewIndex()
	idx.Add(stagedEntry("f"))

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	// Flip one content byte; the trailer no longer matches.
	raw[IndexHeaderSize+3] ^= 0xFF

	decoded := NewIndex()
	derr := decoded.Deserialize(bytes.NewReader(raw))
	if derr == nil {
		t.Fatal("corrupted index accepted")
	}
	if !err.IsCode(derr, err.CodeCorrupt) {
		t.Errorf("error code = %s, want CORRUPT", err.GetCode(derr))
	}
}

func TestDeserializeRejectsTruncatedAndGarbage(t *testing.T) {
	for _, data := range [][]byte{
		{},
		[]byte("DIRC"),
		make([]byte, IndexHeaderSize),
		[]byte("JUNKJUNKJUNKJUNKJUNKJUNKJUNKJUNKJUNK"),
	} {
		decoded := NewIndex()
		if err := decoded.Deserialize(bytes.NewReader(data)); err == nil {
			t.Errorf("accepted %d bytes of invalid data", len(data))
		}
	}
}

func TestWriteReadDisk(t *testing.T) {
	dir := t.TempDir()
	path := kcpath.AbsolutePath(filepath.Join(dir, "index"))

	idx := NewIndex()
	idx.Add(stagedEntry("on/disk.txt"))

	if err := idx.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, rerr := Read(path)
	if rerr != nil {
		t.Fatalf("Read: %v", rerr)
	}
	if got.Count() != 1 || got.Entries[0].Path != "on/disk.txt" {
		t.Errorf("read back %v", got.Entries)
	}

	// No lock file left behind.
	if _, err := os.Stat(path.String() + ".lock"); !os.IsNotExist(err) {
		t.Error("index.lock left behind after Write")
	}
}

func TestReadMissingFileIsEmptyIndex(t *testing.T) {
	got, rerr := Read(kcpath.AbsolutePath(filepath.Join(t.TempDir(), "index")))
	if rerr != nil {
		t.Fatalf("Read: %v", rerr)
	}
	if got.Count() != 0 {
		t.Errorf("Count = %d, want 0 for a fresh repository", got.Count())
	}
}

func TestWriteFailsWhenLocked(t *testing.T) {
	dir := t.TempDir()
	path := kcpath.AbsolutePath(filepath.Join(dir, "index"))

	lock, lerr := AcquireLock(path)
	if lerr != nil {
		t.Fatal(lerr)
	}
	defer lock.Release()

	idx := NewIndex()
	werr := idx.Write(path)
	if werr == nil {
		t.Fatal("Write succeeded while the index was locked")
	}
	if !err.IsCode(werr, err.CodeIndexLocked) {
		t.Errorf("error code = %s, want INDEX_LOCKED", err.GetCode(werr))
	}
}

func TestCrashBetweenWriteAndRenameLeavesOldIndex(t *testing.T) {
	dir := t.TempDir()
	path := kcpath.AbsolutePath(filepath.Join(dir, "index"))

	idx := NewIndex()
	idx.Add(stagedEntry("original"))
	if err := idx.Write(path); err != nil {
		t.Fatal(err)
	}

	// Simulate a stale temp file from a crashed writer; the real index
	// must still read back intact.
	if err := os.WriteFile(filepath.Join(dir, ".tmp-dead"), []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}

	got, rerr := Read(path)
	if rerr != nil {
		t.Fatalf("Read: %v", rerr)
	}
	if got.Count() != 1 || got.Entries[0].Path != "original" {
		t.Error("stale temp file disturbed the committed index")
	}
}
