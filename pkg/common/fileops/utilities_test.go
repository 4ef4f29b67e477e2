package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"file", present, true},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "missing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Exists(kcpath.AbsolutePath(tt.path))
			if err != nil {
				t.Fatalf("Exists: %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()

	nested := kcpath.AbsolutePath(filepath.Join(dir, "a", "b", "c"))
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(nested.String())
	if err != nil || !info.IsDir() {
		t.Fatalf("nested directory not created: %v", err)
	}

	// Second call on an existing directory is a no-op.
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir on existing dir: %v", err)
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	file := kcpath.AbsolutePath(filepath.Join(dir, "sub", "deeper", "file.txt"))

	if err := EnsureParentDir(file); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}

	if err := os.WriteFile(file.String(), []byte("x"), 0644); err != nil {
		t.Fatalf("write after EnsureParentDir failed: %v", err)
	}
}

func TestReadStringStrict(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "head")
	if err := os.WriteFile(file, []byte("  ref: refs/heads/main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadStringStrict(kcpath.AbsolutePath(file))
	if err != nil {
		t.Fatalf("ReadStringStrict: %v", err)
	}
	if got != "ref: refs/heads/main" {
		t.Errorf("got %q, want trimmed content", got)
	}

	if _, err := ReadStringStrict(kcpath.AbsolutePath(filepath.Join(dir, "missing"))); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadBytes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "merge_head")
	content := []byte("abc123\n")
	if err := os.WriteFile(file, content, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadBytes(kcpath.AbsolutePath(file))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("got %q, want %q", got, content)
	}

	// A missing optional file reads as nil, nil.
	got, err = ReadBytes(kcpath.AbsolutePath(filepath.Join(dir, "missing")))
	if err != nil {
		t.Fatalf("ReadBytes on missing file: %v", err)
	}
	if got != nil {
		t.Errorf("got %q, want nil for missing file", got)
	}
}

func TestReadBytesStrict(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadBytesStrict(kcpath.AbsolutePath(filepath.Join(dir, "missing"))); err == nil {
		t.Fatal("expected error for missing file")
	}

	file := filepath.Join(dir, "index")
	if err := os.WriteFile(file, []byte{0xDE, 0xAD}, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBytesStrict(kcpath.AbsolutePath(file))
	if err != nil {
		t.Fatalf("ReadBytesStrict: %v", err)
	}
	if len(got) != 2 || got[0] != 0xDE {
		t.Errorf("unexpected bytes %v", got)
	}
}

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	file := kcpath.AbsolutePath(filepath.Join(dir, "cfg", "config"))

	if err := WriteConfigString(file, "[user]\n\tname = kit\n"); err != nil {
		t.Fatalf("WriteConfigString: %v", err)
	}

	info, err := os.Stat(file.String())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	got, _ := os.ReadFile(file.String())
	if string(got) != "[user]\n\tname = kit\n" {
		t.Errorf("content = %q", got)
	}
}

func TestSafeRemove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "merge_mode")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SafeRemove(kcpath.AbsolutePath(file)); err != nil {
		t.Fatalf("SafeRemove: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file still present after SafeRemove")
	}

	// Removing it again is fine.
	if err := SafeRemove(kcpath.AbsolutePath(file)); err != nil {
		t.Errorf("SafeRemove on missing file: %v", err)
	}
}
