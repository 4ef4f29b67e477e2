package main

import (
	"bytes"
	"compress/zlib"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
)

// Format-compatibility checks: the bytes kitcat writes are the bytes
// the wider git ecosystem writes, pinned against known hashes and
// layouts rather than a locally installed git binary.

func TestCompatBlobHashVector(t *testing.T) {
	// git hash-object for "what is up, doc?" is the canonical vector.
	h, err := blob.NewBlob([]byte("what is up, doc?")).Hash()
	if err != nil {
		t.Fatal(err)
	}
	if h.String() != "bd9dbf5aae1a3862dd1526723246b20206e5fc37" {
		t.Errorf("blob hash = %s", h)
	}

	// And the empty blob.
	h, err = blob.NewBlob(nil).Hash()
	if err != nil {
		t.Fatal(err)
	}
	if h.String() != "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391" {
		t.Errorf("empty blob hash = %s", h)
	}
}

func TestCompatLooseObjectEncoding(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	h := setupCommittedRepo(t, origDir)

	wantHash, _ := blob.NewBlob([]byte("hello\n")).Hash()
	hs := wantHash.String()

	// hello\n was committed by the fixture; its loose file must be the
	// zlib stream of "blob 6\x00hello\n" at the sharded path.
	objFile := filepath.Join(h.TempDir(), ".kitcat", "objects", hs[:2], hs[2:])
	raw, err := os.ReadFile(objFile)
	if err != nil {
		t.Fatalf("loose object missing: %v", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("object is not a zlib stream: %v", err)
	}
	defer zr.Close()
	inflated, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}

	want := []byte("blob 6\x00hello\n")
	if !bytes.Equal(inflated, want) {
		t.Errorf("inflated object = %q, want %q", inflated, want)
	}
}

func TestCompatCommitWireFormat(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	h := setupCommittedRepo(t, origDir)

	branchMgr := branch.NewManager(h.Repo())
	sha, err := branchMgr.CurrentCommit()
	if err != nil {
		t.Fatal(err)
	}
	c, err := h.Repo().ReadCommitObject(sha)
	if err != nil {
		t.Fatal(err)
	}

	content, err := c.Content()
	if err != nil {
		t.Fatal(err)
	}
	body := content.String()

	// Canonical header order with a blank line before the message.
	if !bytes.HasPrefix([]byte(body), []byte("tree ")) {
		t.Errorf("body does not lead with tree line:\n%s", body)
	}
	for _, want := range []string{
		"\nauthor Test User <test@example.com> ",
		"\ncommitter Test User <test@example.com> ",
		"\n\ninitial",
	} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestCompatRefAndHeadFiles(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	h := setupCommittedRepo(t, origDir)

	head := h.ReadFile(".kitcat/HEAD")
	if head != "ref: refs/heads/master\n" {
		t.Errorf("HEAD = %q", head)
	}

	branchMgr := branch.NewManager(h.Repo())
	sha, _ := branchMgr.CurrentCommit()

	ref := h.ReadFile(".kitcat/refs/heads/master")
	if ref != sha.String()+"\n" {
		t.Errorf("ref file = %q, want 40-hex + LF", ref)
	}
}

func TestCompatIndexSignature(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	h := setupCommittedRepo(t, origDir)

	raw, err := os.ReadFile(filepath.Join(h.TempDir(), ".kitcat", "index"))
	if err != nil {
		t.Fatal(err)
	}

	if len(raw) < 12 || string(raw[:4]) != "DIRC" {
		t.Fatalf("index header = % x", raw[:min(12, len(raw))])
	}
	// Big-endian version 2, one entry from the fixture.
	if raw[7] != 2 {
		t.Errorf("index version bytes = % x", raw[4:8])
	}
	if raw[11] != 1 {
		t.Errorf("index entry count bytes = % x", raw[8:12])
	}
}
