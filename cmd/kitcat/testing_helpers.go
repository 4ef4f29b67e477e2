package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// TestHelper is the shared fixture for CLI tests: a temp repository,
// file helpers, and command runners. The working directory is switched
// into the repo so findRepository resolves it.
type TestHelper struct {
	t        *testing.T
	tempDir  string
	repo     *kitrepo.KitcatRepository
	RepoPath string
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()

	return &TestHelper{
		t:        t,
		tempDir:  tempDir,
		RepoPath: tempDir,
	}
}

// InitRepo creates the .kitcat layout in the helper's directory.
func (th *TestHelper) InitRepo() *kitrepo.KitcatRepository {
	th.t.Helper()

	repoPath, err := kcpath.NewRepositoryPath(th.tempDir)
	if err != nil {
		th.t.Fatalf("failed to create repo path: %v", err)
	}

	repo := kitrepo.NewKitcatRepository()
	if err := repo.Initialize(repoPath); err != nil {
		th.t.Fatalf("failed to initialize repo: %v", err)
	}

	th.repo = repo
	return repo
}

func (th *TestHelper) TempDir() string {
	return th.tempDir
}

// WriteFile puts content at name inside the repo, creating parents.
func (th *TestHelper) WriteFile(name, content string) string {
	th.t.Helper()

	filePath := filepath.Join(th.tempDir, name)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		th.t.Fatalf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		th.t.Fatalf("failed to write file %s: %v", filePath, err)
	}

	return filePath
}

// ReadFile reads a repo-relative file's content.
func (th *TestHelper) ReadFile(name string) string {
	th.t.Helper()

	data, err := os.ReadFile(filepath.Join(th.tempDir, name))
	if err != nil {
		th.t.Fatalf("failed to read file %s: %v", name, err)
	}
	return string(data)
}

// Chdir moves the process into the repo; the caller restores cwd.
func (th *TestHelper) Chdir() {
	th.t.Helper()

	if err := os.Chdir(th.tempDir); err != nil {
		th.t.Fatalf("failed to chdir to %s: %v", th.tempDir, err)
	}
}

// SetIdentity supplies the author identity through the environment
// fallback so commits work without config files.
func (th *TestHelper) SetIdentity() {
	th.t.Helper()
	th.t.Setenv("GIT_AUTHOR_NAME", "Test User")
	th.t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
}

func (th *TestHelper) Repo() *kitrepo.KitcatRepository {
	if th.repo == nil {
		th.t.Fatal("repository not initialized, call InitRepo() first")
	}
	return th.repo
}

// Run executes a freshly built command with args, failing the test on
// error.
func (th *TestHelper) Run(build func() *cobra.Command, args ...string) {
	th.t.Helper()
	if err := th.TryRun(build, args...); err != nil {
		th.t.Fatalf("command %v failed: %v", args, err)
	}
}

// TryRun executes a command and returns its error.
func (th *TestHelper) TryRun(build func() *cobra.Command, args ...string) error {
	th.t.Helper()
	cmd := build()
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	return cmd.Execute()
}
