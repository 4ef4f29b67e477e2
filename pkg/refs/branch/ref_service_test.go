package branch

import (
	"errors"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
)

const refTestSHA = objects.ObjectHash("0123456789abcdef0123456789abcdef01234567")

func newRefServiceFixture(t *testing.T) *BranchRefManager {
	t.Helper()

	repo := kitrepo.NewKitcatRepository()
	if err := repo.Initialize(kcpath.RepositoryPath(t.TempDir())); err != nil {
		t.Fatal(err)
	}

	svc := NewBranchRefManager(refs.NewRefManager(repo))
	if err := svc.Init(); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestRefCreateAndResolve(t *testing.T) {
	svc := newRefServiceFixture(t)

	if err := svc.Create("test-branch", refTestSHA); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Resolve("test-branch")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != refTestSHA {
		t.Errorf("Resolve = %s, want %s", got, refTestSHA)
	}

	if err := svc.Create("test-branch", refTestSHA); err == nil {
		t.Error("duplicate Create succeeded")
	}
}

func TestRefUpdate(t *testing.T) {
	svc := newRefServiceFixture(t)

	// Update without force on a missing branch is refused.
	if err := svc.Update("missing", refTestSHA, false); err == nil {
		t.Error("Update on a missing branch succeeded without force")
	}

	// With force it creates, the path the first commit takes.
	if err := svc.Update("born", refTestSHA, true); err != nil {
		t.Fatalf("forced Update: %v", err)
	}

	newSHA := objects.ObjectHash("fedcba9876543210fedcba9876543210fedcba98")
	if err := svc.Update("born", newSHA, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := svc.Resolve("born"); got != newSHA {
		t.Errorf("Resolve = %s after update, want %s", got, newSHA)
	}
}

func TestRefDeleteGuards(t *testing.T) {
	svc := newRefServiceFixture(t)

	// The checked-out branch (master, via HEAD) cannot be deleted.
	if err := svc.Update("master", refTestSHA, true); err != nil {
		t.Fatal(err)
	}
	var isCurrent *IsCurrentError
	if err := svc.Delete("master"); !errors.As(err, &isCurrent) {
		t.Errorf("deleting the current branch: error = %v, want IsCurrentError", err)
	}

	if err := svc.Create("other", refTestSHA); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("other"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var notFound *NotFoundError
	if err := svc.Delete("other"); !errors.As(err, &notFound) {
		t.Errorf("double delete: error = %v, want NotFoundError", err)
	}
}

func TestRefList(t *testing.T) {
	svc := newRefServiceFixture(t)

	for _, name := range []string{"one", "two", "group/nested"} {
		if err := svc.Create(name, refTestSHA); err != nil {
			t.Fatal(err)
		}
	}

	branches, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got := map[string]bool{}
	for _, b := range branches {
		got[b] = true
	}
	for _, want := range []string{"one", "two", "group/nested"} {
		if !got[want] {
			t.Errorf("List missing %q: %v", want, branches)
		}
	}
}

func TestHeadStateTransitions(t *testing.T) {
	svc := newRefServiceFixture(t)

	// Fresh repo: symbolic HEAD on master, which is unborn.
	current, err := svc.Current()
	if err != nil {
		t.Fatal(err)
	}
	if current != "master" {
		t.Errorf("Current = %q, want master", current)
	}
	if _, err := svc.GetHeadSHA(); err == nil {
		t.Error("GetHeadSHA succeeded on an unborn branch")
	}

	// Give master a commit and switch HEAD between states.
	if err := svc.Update("master", refTestSHA, true); err != nil {
		t.Fatal(err)
	}
	sha, err := svc.GetHeadSHA()
	if err != nil || sha != refTestSHA {
		t.Errorf("GetHeadSHA = %s, %v", sha, err)
	}

	if err := svc.SetHeadDetached(refTestSHA); err != nil {
		t.Fatalf("SetHeadDetached: %v", err)
	}
	if detached, _ := svc.IsDetached(); !detached {
		t.Error("IsDetached = false after SetHeadDetached")
	}
	if current, _ := svc.Current(); current != "" {
		t.Errorf("Current = %q while detached", current)
	}

	if err := svc.SetHead("master"); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	if detached, _ := svc.IsDetached(); detached {
		t.Error("IsDetached = true after SetHead")
	}

	// SetHead refuses an unborn branch; SetHeadUnborn allows it.
	if err := svc.SetHead("unborn"); err == nil {
		t.Error("SetHead to a missing branch succeeded")
	}
	if err := svc.SetHeadUnborn("unborn"); err != nil {
		t.Fatalf("SetHeadUnborn: %v", err)
	}
	if current, _ := svc.Current(); current != "unborn" {
		t.Errorf("Current = %q, want unborn", current)
	}
}

func TestRefRename(t *testing.T) {
	svc := newRefServiceFixture(t)

	if err := svc.Create("before", refTestSHA); err != nil {
		t.Fatal(err)
	}
	if err := svc.Rename("before", "after", false); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if exists, _ := svc.Exists("before"); exists {
		t.Error("old name survived the rename")
	}
	if got, err := svc.Resolve("after"); err != nil || got != refTestSHA {
		t.Errorf("Resolve(after) = %s, %v", got, err)
	}
}

func TestValidateBranchNameRules(t *testing.T) {
	svc := newRefServiceFixture(t)

	valid := []string{"main", "feature/login", "v1.2.3", "under_score", "dash-name"}
	for _, name := range valid {
		if err := svc.validateBranchName(name); err != nil {
			t.Errorf("validateBranchName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "has space", "a..b", "tip~1", "rev^", "a:b", "glob*", "q?", "set[", `back\slash`, "@{upstream}", "/lead", "trail/", ".dot", "x.lock", "a//b"}
	for _, name := range invalid {
		if err := svc.validateBranchName(name); err == nil {
			t.Errorf("validateBranchName(%q) accepted an invalid name", name)
		}
	}
}
