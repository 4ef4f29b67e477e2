package main

import (
	"os"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/index"
)

func readIndexFor(t *testing.T, h *TestHelper) *index.Index {
	t.Helper()
	idx, err := index.Read(h.Repo().KitcatDirectory().IndexPath().ToAbsolutePath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	return idx
}

func TestAddCommand(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(origDir)

	t.Run("single file", func(t *testing.T) {
		h := NewTestHelper(t)
		h.InitRepo()
		h.Chdir()
		defer os.Chdir(origDir)

		h.WriteFile("test.txt", "hello world")
		h.Run(newAddCmd, "test.txt")

		idx := readIndexFor(t, h)
		if idx.Count() != 1 || !idx.Has("test.txt") {
			t.Errorf("index = %v", idx.Paths())
		}
	})

	t.Run("multiple files and subdirectories", func(t *testing.T) {
		h := NewTestHelper(t)
		h.InitRepo()
		h.Chdir()
		defer os.Chdir(origDir)

		h.WriteFile("a.txt", "a")
		h.WriteFile("src/main.go", "package main")
		h.Run(newAddCmd, "a.txt", "src/main.go")

		idx := readIndexFor(t, h)
		if idx.Count() != 2 || !idx.Has("src/main.go") {
			t.Errorf("index = %v", idx.Paths())
		}
	})

	t.Run("re-add updates entry", func(t *testing.T) {
		h := NewTestHelper(t)
		h.InitRepo()
		h.Chdir()
		defer os.Chdir(origDir)

		h.WriteFile("f.txt", "v1")
		h.Run(newAddCmd, "f.txt")
		before, _ := readIndexFor(t, h).Get("f.txt")

		h.WriteFile("f.txt", "version two")
		h.Run(newAddCmd, "f.txt")

		idx := readIndexFor(t, h)
		after, _ := idx.Get("f.txt")
		if idx.Count() != 1 {
			t.Errorf("duplicate entry after re-add: %v", idx.Paths())
		}
		if before.BlobHash == after.BlobHash {
			t.Error("re-add kept the stale blob hash")
		}
	})

	t.Run("missing file reports failure without error", func(t *testing.T) {
		h := NewTestHelper(t)
		h.InitRepo()
		h.Chdir()
		defer os.Chdir(origDir)

		// Per-file failures are reported, not fatal.
		if err := h.TryRun(newAddCmd, "no-such-file.txt"); err != nil {
			t.Fatalf("add returned hard error: %v", err)
		}
		if readIndexFor(t, h).Count() != 0 {
			t.Error("missing file ended up staged")
		}
	})

	t.Run("blob lands in the object store", func(t *testing.T) {
		h := NewTestHelper(t)
		h.InitRepo()
		h.Chdir()
		defer os.Chdir(origDir)

		h.WriteFile("f.txt", "stored content")
		h.Run(newAddCmd, "f.txt")

		entry, ok := readIndexFor(t, h).Get("f.txt")
		if !ok {
			t.Fatal("entry missing")
		}
		exists, err := h.Repo().ObjectStore().HasObject(entry.BlobHash)
		if err != nil || !exists {
			t.Errorf("staged blob %s not in store: %v", entry.BlobHash, err)
		}
	})
}
