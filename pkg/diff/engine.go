package diff

import (
	"context"
	"sort"

	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// Engine computes diffs between any two snapshot sources: the working
// directory, the staging index, and commit trees.
type Engine struct {
	repo         *kitrepo.KitcatRepository
	refManager   *refs.RefManager
	branchRefSvc *branch.BranchRefManager
}

// NewEngine builds a diff Engine bound to repo, wiring the same ref
// resolution stack branch.Manager uses so revisions like "HEAD", "main", or
// a short SHA all resolve consistently across the CLI.
func NewEngine(repo *kitrepo.KitcatRepository) *Engine {
	refManager := refs.NewRefManager(repo)
	return &Engine{
		repo:         repo,
		refManager:   refManager,
		branchRefSvc: branch.NewBranchRefManager(refManager),
	}
}

// WorkingVsIndex diffs the working directory against the staging index: the
// default `diff` with no flags, showing unstaged changes.
func (e *Engine) WorkingVsIndex(ctx context.Context) ([]FileDiff, error) {
	idx, err := e.loadIndex()
	if err != nil {
		return nil, err
	}
	indexSnap, err := snapshotFromIndex(e.repo, idx)
	if err != nil {
		return nil, err
	}
	workSnap, err := snapshotFromWorkdir(e.repo.WorkingDirectory(), kcpath.KitcatDir)
	if err != nil {
		return nil, err
	}
	return diffSnapshots(indexSnap, workSnap), nil
}

// IndexVsHEAD diffs the staging index against the current commit's tree:
// `diff --cached`, showing staged changes.
func (e *Engine) IndexVsHEAD(ctx context.Context) ([]FileDiff, error) {
	idx, err := e.loadIndex()
	if err != nil {
		return nil, err
	}
	indexSnap, err := snapshotFromIndex(e.repo, idx)
	if err != nil {
		return nil, err
	}
	headSnap, err := e.snapshotFromRevision(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	return diffSnapshots(headSnap, indexSnap), nil
}

// WorkingVsRevision diffs the working directory against an arbitrary
// revision's tree.
func (e *Engine) WorkingVsRevision(ctx context.Context, rev string) ([]FileDiff, error) {
	revSnap, err := e.snapshotFromRevision(ctx, rev)
	if err != nil {
		return nil, err
	}
	workSnap, err := snapshotFromWorkdir(e.repo.WorkingDirectory(), kcpath.KitcatDir)
	if err != nil {
		return nil, err
	}
	return diffSnapshots(revSnap, workSnap), nil
}

// Revisions diffs two revisions' trees directly against each other.
func (e *Engine) Revisions(ctx context.Context, oldRev, newRev string) ([]FileDiff, error) {
	oldSnap, err := e.snapshotFromRevision(ctx, oldRev)
	if err != nil {
		return nil, err
	}
	newSnap, err := e.snapshotFromRevision(ctx, newRev)
	if err != nil {
		return nil, err
	}
	return diffSnapshots(oldSnap, newSnap), nil
}

func (e *Engine) loadIndex() (*index.Index, error) {
	indexPath := kcpath.AbsolutePath(e.repo.KitcatDirectory().IndexPath().String())
	idx, err := index.Read(indexPath)
	if err != nil {
		return nil, NewInternalError("load_index", err)
	}
	return idx, nil
}

// resolveRevision resolves "HEAD", a branch name, or a (possibly short)
// commit SHA to a full ObjectHash.
func (e *Engine) resolveRevision(rev string) (objects.ObjectHash, error) {
	if rev == "" || rev == "HEAD" {
		sha, err := e.refManager.ResolveToSHA(refs.RefPath(kcpath.HeadFile))
		if err != nil {
			return "", NewNotFoundError("resolve_revision", "HEAD does not point at a commit yet", err)
		}
		return objects.NewObjectHashFromString(sha)
	}

	result, err := branch.ResolveRefOrCommit(rev, e.branchRefSvc, e.repo, branch.ResolveOptions{})
	if err != nil {
		return "", NewNotFoundError("resolve_revision", "could not resolve '"+rev+"'", err)
	}
	return result.SHA, nil
}

func (e *Engine) snapshotFromRevision(ctx context.Context, rev string) (map[kcpath.RelativePath]fileSnapshot, error) {
	sha, err := e.resolveRevision(rev)
	if err != nil {
		return nil, err
	}
	c, err := e.repo.ReadCommitObject(sha)
	if err != nil {
		return nil, NewInternalError("read_commit", err)
	}
	return snapshotFromTree(ctx, e.repo, c.TreeSHA)
}

// diffSnapshots compares an "old" and "new" snapshot map and returns a
// sorted, fully-computed FileDiff per changed path. Unchanged paths are
// dropped, mirroring `git diff`'s output.
func diffSnapshots(oldSnap, newSnap map[kcpath.RelativePath]fileSnapshot) []FileDiff {
	paths := make(map[kcpath.RelativePath]struct{}, len(oldSnap)+len(newSnap))
	for p := range oldSnap {
		paths[p] = struct{}{}
	}
	for p := range newSnap {
		paths[p] = struct{}{}
	}

	diffs := make([]FileDiff, 0, len(paths))
	for p := range paths {
		oldFile, oldOk := oldSnap[p]
		newFile, newOk := newSnap[p]

		fd := diffOne(p, oldFile, oldOk, newFile, newOk)
		if fd.Change != Unchanged {
			diffs = append(diffs, fd)
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].Path.String() < diffs[j].Path.String()
	})
	return diffs
}

func diffOne(path kcpath.RelativePath, oldFile fileSnapshot, oldOk bool, newFile fileSnapshot, newOk bool) FileDiff {
	fd := FileDiff{Path: path}

	switch {
	case !oldOk && !newOk:
		return fd
	case !oldOk:
		fd.Change = Added
		fd.NewSHA, fd.NewMode = newFile.SHA, newFile.Mode
	case !newOk:
		fd.Change = Deleted
		fd.OldSHA, fd.OldMode = oldFile.SHA, oldFile.Mode
	default:
		if sameContent(oldFile, newFile) {
			return fd
		}
		fd.Change = Modified
		fd.OldSHA, fd.OldMode = oldFile.SHA, oldFile.Mode
		fd.NewSHA, fd.NewMode = newFile.SHA, newFile.Mode
	}

	if looksBinary(oldFile.Content) || looksBinary(newFile.Content) {
		fd.Binary = true
		return fd
	}

	lines := computeLineDiffs(string(oldFile.Content), string(newFile.Content))
	fd.Hunks = assembleHunks(lines, hunkContext)
	fd.Insertions, fd.Deletions = countChanges(fd.Hunks)
	return fd
}

func sameContent(a, b fileSnapshot) bool {
	if a.Mode != b.Mode {
		return false
	}
	if a.SHA != "" && b.SHA != "" {
		return a.SHA == b.SHA
	}
	return string(a.Content) == string(b.Content)
}

// BuildStat summarizes a set of FileDiffs as `diff --stat` does.
func BuildStat(diffs []FileDiff) Stat {
	stat := Stat{FilesChanged: len(diffs), PerFile: make([]FileStat, 0, len(diffs))}
	for _, d := range diffs {
		stat.Insertions += d.Insertions
		stat.Deletions += d.Deletions
		stat.PerFile = append(stat.PerFile, FileStat{
			Path:       d.Path,
			Insertions: d.Insertions,
			Deletions:  d.Deletions,
			Binary:     d.Binary,
		})
	}
	return stat
}
