package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsSauraj/kit-cat/pkg/common/err"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

func newTestStore(t *testing.T) (*FileObjectStore, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewFileObjectStore()
	if err := s.Initialize(kcpath.RepositoryPath(dir)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s, dir
}

func writeTestBlob(t *testing.T, s *FileObjectStore, content string) objects.ObjectHash {
	t.Helper()
	hash, err := s.WriteObject(blob.NewBlob([]byte(content)))
	if err != nil {
		t.Fatalf("WriteObject: %v", err)
	}
	return hash
}

func TestInitializeCreatesObjectsDir(t *testing.T) {
	s, dir := newTestStore(t)

	if !s.IsInitialized() {
		t.Fatal("store not initialized")
	}
	info, err := os.Stat(filepath.Join(dir, ".kitcat", "objects"))
	if err != nil || !info.IsDir() {
		t.Fatalf("objects directory missing: %v", err)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	hash := writeTestBlob(t, s, "hello store\n")

	obj, err := s.ReadObject(hash)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	got, ok := obj.(*blob.Blob)
	if !ok {
		t.Fatalf("object kind = %T, want *blob.Blob", obj)
	}
	content, _ := got.Content()
	if content.String() != "hello store\n" {
		t.Errorf("content = %q", content)
	}

	// The store's hash must equal the object's own.
	own, _ := blob.NewBlob([]byte("hello store\n")).Hash()
	if hash != own {
		t.Errorf("store hash %s != object hash %s", hash, own)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	h1 := writeTestBlob(t, s, "one")
	h2 := writeTestBlob(t, s, "two")

	e1, _ := tree.NewTreeEntry(objects.FileModeRegular, "a.txt", h1)
	e2, _ := tree.NewTreeEntry(objects.FileModeExecutable, "run.sh", h2)
	treeHash, err := s.WriteObject(tree.NewTree([]*tree.TreeEntry{e1, e2}))
	if err != nil {
		t.Fatalf("write tree: %v", err)
	}

	obj, err := s.ReadObject(treeHash)
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}
	got, ok := obj.(*tree.Tree)
	if !ok {
		t.Fatalf("object kind = %T, want *tree.Tree", obj)
	}
	entries := got.Entries()
	if len(entries) != 2 || entries[0].Name() != "a.txt" || entries[1].Name() != "run.sh" {
		t.Errorf("entries = %v", entries)
	}
	if entries[0].SHA() != h1 || entries[1].SHA() != h2 {
		t.Error("entry hashes changed across round-trip")
	}
}

func TestCommitRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	blobHash := writeTestBlob(t, s, "content")
	entry, _ := tree.NewTreeEntry(objects.FileModeRegular, "f", blobHash)
	treeHash, err := s.WriteObject(tree.NewTree([]*tree.TreeEntry{entry}))
	if err != nil {
		t.Fatal(err)
	}

	person, _ := commit.NewCommitPerson("Ada", "ada@x.io", time.Unix(1609459200, 0).UTC())
	c, err := commit.NewCommitBuilder().
		TreeHash(treeHash).
		Author(person).
		Committer(person).
		Message("first\n").
		Build()
	if err != nil {
		t.Fatal(err)
	}

	commitHash, err := s.WriteObject(c)
	if err != nil {
		t.Fatalf("write commit: %v", err)
	}

	obj, err := s.ReadObject(commitHash)
	if err != nil {
		t.Fatalf("read commit: %v", err)
	}
	got, ok := obj.(*commit.Commit)
	if !ok {
		t.Fatalf("object kind = %T, want *commit.Commit", obj)
	}
	if got.TreeSHA != treeHash || got.Message != "first\n" {
		t.Errorf("commit fields changed: %v", got)
	}
}

func TestHasObject(t *testing.T) {
	s, _ := newTestStore(t)

	hash := writeTestBlob(t, s, "present")
	if ok, err := s.HasObject(hash); err != nil || !ok {
		t.Errorf("HasObject = %v, %v for a written object", ok, err)
	}

	missing := objects.ObjectHash("ffffffffffffffffffffffffffffffffffffffff")
	if ok, err := s.HasObject(missing); err != nil || ok {
		t.Errorf("HasObject = %v, %v for a missing object", ok, err)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	h1 := writeTestBlob(t, s, "same bytes")
	h2 := writeTestBlob(t, s, "same bytes")
	if h1 != h2 {
		t.Fatalf("same content produced different hashes: %s vs %s", h1, h2)
	}

	count, err := s.ObjectCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("ObjectCount = %d, want 1 after duplicate write", count)
	}
}

func TestReadMissingObject(t *testing.T) {
	s, _ := newTestStore(t)

	_, rerr := s.ReadObject("ffffffffffffffffffffffffffffffffffffffff")
	if rerr == nil {
		t.Fatal("expected error for missing object")
	}
	if !err.IsCode(rerr, err.CodeNotFound) {
		t.Errorf("error code = %s, want NOT_FOUND", err.GetCode(rerr))
	}
}

func TestReadInvalidHash(t *testing.T) {
	s, _ := newTestStore(t)

	for _, bad := range []objects.ObjectHash{"", "short", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, rerr := s.ReadObject(bad); rerr == nil {
			t.Errorf("ReadObject(%q) should fail", bad)
		}
	}
}

func TestUninitializedStore(t *testing.T) {
	s := NewFileObjectStore()

	if _, rerr := s.WriteObject(blob.NewBlob([]byte("x"))); rerr == nil {
		t.Error("WriteObject should fail before Initialize")
	}
	if _, rerr := s.ResolvePrefix("abcd"); rerr == nil {
		t.Error("ResolvePrefix should fail before Initialize")
	}
}

func TestShardedLayout(t *testing.T) {
	s, dir := newTestStore(t)

	hash := writeTestBlob(t, s, "sharded")
	h := hash.String()

	objFile := filepath.Join(dir, ".kitcat", "objects", h[:2], h[2:])
	if _, err := os.Stat(objFile); err != nil {
		t.Fatalf("object not at sharded path %s: %v", objFile, err)
	}

	// On-disk form is zlib: 0x78 leading byte.
	raw, err := os.ReadFile(objFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 || raw[0] != 0x78 {
		t.Errorf("object file does not look zlib-compressed: % x", raw[:min(4, len(raw))])
	}
}

func TestCorruptObjectDetected(t *testing.T) {
	s, dir := newTestStore(t)

	hash := writeTestBlob(t, s, "to be corrupted")
	h := hash.String()
	objFile := filepath.Join(dir, ".kitcat", "objects", h[:2], h[2:])

	// Replace the file with a valid zlib stream of different content.
	other, _ := objects.NewSerializedObject(objects.BlobType, objects.ObjectContent("tampered")).Compress()
	if err := os.Chmod(objFile, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(objFile, other.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	_, rerr := s.ReadObject(hash)
	if rerr == nil {
		t.Fatal("expected corruption error")
	}
	if !err.IsCode(rerr, err.CodeCorrupt) {
		t.Errorf("error code = %s, want CORRUPT", err.GetCode(rerr))
	}
}

func TestResolvePrefix(t *testing.T) {
	s, _ := newTestStore(t)

	hash := writeTestBlob(t, s, "prefix target")
	h := hash.String()

	t.Run("unique prefix resolves", func(t *testing.T) {
		got, rerr := s.ResolvePrefix(h[:8])
		if rerr != nil {
			t.Fatalf("ResolvePrefix: %v", rerr)
		}
		if got != hash {
			t.Errorf("resolved %s, want %s", got, hash)
		}
	})

	t.Run("full hash resolves", func(t *testing.T) {
		got, rerr := s.ResolvePrefix(h)
		if rerr != nil {
			t.Fatalf("ResolvePrefix: %v", rerr)
		}
		if got != hash {
			t.Errorf("resolved %s, want %s", got, hash)
		}
	})

	t.Run("too short rejected", func(t *testing.T) {
		_, rerr := s.ResolvePrefix(h[:3])
		if !err.IsCode(rerr, err.CodeInvalidArgument) {
			t.Errorf("error = %v, want INVALID_ARGUMENT", rerr)
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, rerr := s.ResolvePrefix("ffffffff")
		if !err.IsCode(rerr, err.CodeNotFound) {
			t.Errorf("error = %v, want NOT_FOUND", rerr)
		}
	})

	t.Run("non-hex rejected", func(t *testing.T) {
		_, rerr := s.ResolvePrefix("zzzz")
		if !err.IsCode(rerr, err.CodeInvalidArgument) {
			t.Errorf("error = %v, want INVALID_ARGUMENT", rerr)
		}
	})
}

func TestResolvePrefixAmbiguous(t *testing.T) {
	s, dir := newTestStore(t)

	hash := writeTestBlob(t, s, "ambiguity base")
	h := hash.String()

	// Fabricate a sibling in the same shard sharing 6 leading chars.
	shard := filepath.Join(dir, ".kitcat", "objects", h[:2])
	fake := h[2:6] + "0000000000000000000000000000000000"
	if fake == h[2:] {
		t.Fatal("fixture collision")
	}
	if err := os.WriteFile(filepath.Join(shard, fake), []byte("x"), 0444); err != nil {
		t.Fatal(err)
	}

	_, rerr := s.ResolvePrefix(h[:6])
	if rerr == nil {
		t.Fatal("expected ambiguity error")
	}
	if !err.IsCode(rerr, err.CodeAmbiguousHash) {
		t.Errorf("error code = %s, want AMBIGUOUS_HASH", err.GetCode(rerr))
	}
}
