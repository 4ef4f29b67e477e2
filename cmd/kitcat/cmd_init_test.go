package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCommand(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(origDir)

	t.Run("creates repository layout", func(t *testing.T) {
		dir := t.TempDir()

		cmd := newInitCmd()
		cmd.SetArgs([]string{dir})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init: %v", err)
		}

		for _, sub := range []string{
			".kitcat",
			".kitcat/objects",
			".kitcat/refs/heads",
			".kitcat/refs/tags",
		} {
			info, err := os.Stat(filepath.Join(dir, sub))
			if err != nil || !info.IsDir() {
				t.Errorf("missing %s: %v", sub, err)
			}
		}

		head, err := os.ReadFile(filepath.Join(dir, ".kitcat", "HEAD"))
		if err != nil {
			t.Fatal(err)
		}
		if string(head) != "ref: refs/heads/master\n" {
			t.Errorf("HEAD = %q", head)
		}
	})

	t.Run("refuses to reinitialize", func(t *testing.T) {
		dir := t.TempDir()

		cmd := newInitCmd()
		cmd.SetArgs([]string{dir})
		if err := cmd.Execute(); err != nil {
			t.Fatal(err)
		}

		again := newInitCmd()
		again.SetArgs([]string{dir})
		again.SilenceUsage = true
		if err := again.Execute(); err == nil {
			t.Error("second init succeeded")
		}
	})
}
