package merge

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

// Engine performs three-way merges between two already-resolved commits. It
// never resolves branch names or moves refs/HEAD - that stays in the CLI
// layer so this package can be imported from pkg/refs/branch without a cycle.
type Engine struct {
	repo           *kitrepo.KitcatRepository
	workdirManager *workdir.Manager
	indexPath      kcpath.AbsolutePath
	kitDir      kcpath.KitPath
}

// NewEngine creates a merge Engine for repo.
func NewEngine(repo *kitrepo.KitcatRepository) *Engine {
	kitDir := repo.KitcatDirectory()
	return &Engine{
		repo:           repo,
		workdirManager: workdir.NewManager(repo),
		indexPath:      kitDir.IndexPath().ToAbsolutePath(),
		kitDir:      kitDir,
	}
}

// IsMergeInProgress reports whether a MERGE_HEAD is present, i.e. a previous
// Merge call left conflicts pending resolution.
func (e *Engine) IsMergeInProgress() bool {
	_, err := os.Stat(e.kitDir.MergeHeadPath().String())
	return err == nil
}

// ReadMergeHead returns the commit being merged in, recorded by the Merge
// call that produced the pending conflicts.
func (e *Engine) ReadMergeHead() (objects.ObjectHash, error) {
	data, err := os.ReadFile(e.kitDir.MergeHeadPath().String())
	if err != nil {
		return "", NewNoMergeInProgressError("read_merge_head")
	}
	sha, err := objects.NewObjectHashFromString(string(trimNewline(data)))
	if err != nil {
		return "", NewInternalError("parse_merge_head", err)
	}
	return sha, nil
}

// ReadMergeMsg returns the prepared commit message left by Merge for a
// pending conflicted merge.
func (e *Engine) ReadMergeMsg() (string, error) {
	data, err := os.ReadFile(e.kitDir.MergeMsgPath().String())
	if err != nil {
		return "", NewNoMergeInProgressError("read_merge_msg")
	}
	return string(data), nil
}

// ClearMergeState removes MERGE_HEAD/MERGE_MODE/MERGE_MSG, ending whatever
// merge is in progress. Safe to call when no merge is in progress.
func (e *Engine) ClearMergeState() error {
	for _, p := range []kcpath.KitPath{e.kitDir.MergeHeadPath(), e.kitDir.MergeModePath(), e.kitDir.MergeMsgPath()} {
		if err := os.Remove(p.String()); err != nil && !os.IsNotExist(err) {
			return NewInternalError("clear_merge_state", err)
		}
	}
	return nil
}

// Merge performs a three-way merge of theirs into ours. oursLabel/theirsLabel
// name the two sides in conflict markers and in the MERGE_MSG left behind on
// conflict; message is the commit message to stage for a later --continue.
//
// The working directory must be clean; callers check fast-forward and
// up-to-date cases themselves using the returned Kind before acting, since
// those cases require no file or index changes from this method at all -
// FastForward/UpToDate short-circuit here without touching the working tree.
func (e *Engine) Merge(ctx context.Context, ours, theirs objects.ObjectHash, oursLabel, theirsLabel, message string) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	status, err := e.workdirManager.IsClean()
	if err != nil {
		return nil, NewInternalError("check_clean", err)
	}
	if !status.Clean {
		return nil, NewWouldOverwriteError("merge", nil)
	}

	base, err := FindMergeBase(ctx, e.repo, ours, theirs)
	if err != nil {
		return nil, err
	}

	if base == theirs {
		return &Result{Kind: KindUpToDate, MergeBase: base}, nil
	}
	if base == ours {
		return &Result{Kind: KindFastForward, MergeBase: base}, nil
	}

	var baseFiles, oursFiles, theirsFiles map[kcpath.RelativePath]fileEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { baseFiles, err = filesAtCommit(gctx, e.repo, base); return })
	g.Go(func() (err error) { oursFiles, err = filesAtCommit(gctx, e.repo, ours); return })
	g.Go(func() (err error) { theirsFiles, err = filesAtCommit(gctx, e.repo, theirs); return })
	if err := g.Wait(); err != nil {
		return nil, NewInternalError("load_trees", err)
	}

	paths := unionPaths(baseFiles, oursFiles, theirsFiles)

	results := make([]*pathResult, len(paths))
	g, gctx = errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			baseEntry := lookupEntry(baseFiles, p)
			oursEntry := lookupEntry(oursFiles, p)
			theirsEntry := lookupEntry(theirsFiles, p)
			r, err := mergePath(gctx, e.repo, p, baseEntry, oursEntry, theirsEntry, oursLabel, theirsLabel)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, NewInternalError("merge_paths", err)
	}

	var conflicts []ConflictInfo
	cleanFiles := make(map[kcpath.RelativePath]fileEntry)
	for _, r := range results {
		if r.Action == actionConflict {
			conflicts = append(conflicts, ConflictInfo{Path: r.Path, Reason: r.Reason})
			continue
		}
		if r.Action == actionClean {
			cleanFiles[r.Path] = fileEntry{SHA: r.CleanSHA, Mode: r.CleanMode}
		}
	}

	treeSHA, err := buildMergeTree(ctx, e.repo, cleanFiles)
	if err != nil {
		return nil, err
	}

	idx := index.NewIndex()
	workDir := e.repo.WorkingDirectory()

	for _, r := range results {
		switch r.Action {
		case actionDelete:
			if err := removeWorkingFile(workDir, r.Path); err != nil {
				return nil, NewInternalError("remove_file", err)
			}
		case actionClean:
			entry, err := writeCleanFile(e.repo, workDir, r.Path, r.CleanSHA, r.CleanMode)
			if err != nil {
				return nil, err
			}
			idx.Add(entry)
		case actionConflict:
			if err := writeConflictFile(workDir, r); err != nil {
				return nil, NewInternalError("write_conflict_file", err)
			}
			addConflictStages(idx, r)
		}
	}

	if err := idx.Write(e.indexPath); err != nil {
		return nil, NewInternalError("write_index", err)
	}

	if len(conflicts) > 0 {
		if err := e.writeMergeState(theirs, message); err != nil {
			return nil, err
		}
		return &Result{Kind: KindConflicted, MergeBase: base, Conflicts: conflicts}, nil
	}

	return &Result{Kind: KindClean, MergeBase: base, TreeSHA: treeSHA}, nil
}

// Continue finishes a conflicted merge once the caller has staged resolved
// content for every conflicted path (no stage 1/2/3 entries remain). It
// reports the commit that should become the merge commit's extra parent and
// clears the pending merge state; the caller still has to create the commit.
func (e *Engine) Continue(ctx context.Context) (objects.ObjectHash, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if !e.IsMergeInProgress() {
		return "", NewNoMergeInProgressError("continue")
	}

	idx, err := index.Read(e.indexPath)
	if err != nil {
		return "", NewInternalError("read_index", err)
	}

	if paths := idx.ConflictPaths(); len(paths) > 0 {
		names := make([]string, len(paths))
		for i, p := range paths {
			names[i] = p.String()
		}
		return "", NewConflictsPendingError("continue", names)
	}

	theirs, err := e.ReadMergeHead()
	if err != nil {
		return "", err
	}

	if err := e.ClearMergeState(); err != nil {
		return "", err
	}

	return theirs, nil
}

// Abort discards a pending conflicted merge, restoring the working
// directory and index to ours (the commit HEAD pointed to before the merge
// was attempted) and clearing the merge state.
func (e *Engine) Abort(ctx context.Context, ours objects.ObjectHash) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	theirs, err := e.ReadMergeHead()
	if err != nil {
		return err
	}

	var oursFiles, theirsFiles map[kcpath.RelativePath]fileEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { oursFiles, err = filesAtCommit(gctx, e.repo, ours); return })
	g.Go(func() (err error) { theirsFiles, err = filesAtCommit(gctx, e.repo, theirs); return })
	if err := g.Wait(); err != nil {
		return NewInternalError("load_trees", err)
	}

	workDir := e.repo.WorkingDirectory()
	idx := index.NewIndex()

	for _, p := range unionPaths(oursFiles, theirsFiles) {
		entry, ok := oursFiles[p]
		if !ok {
			if err := removeWorkingFile(workDir, p); err != nil {
				return NewInternalError("remove_file", err)
			}
			continue
		}
		idxEntry, err := writeCleanFile(e.repo, workDir, p, entry.SHA, entry.Mode)
		if err != nil {
			return err
		}
		idx.Add(idxEntry)
	}

	if err := idx.Write(e.indexPath); err != nil {
		return NewInternalError("write_index", err)
	}

	return e.ClearMergeState()
}

func (e *Engine) writeMergeState(theirs objects.ObjectHash, message string) error {
	headPath := e.kitDir.MergeHeadPath().ToAbsolutePath()
	if err := fileops.AtomicWrite(headPath, []byte(theirs.String()+"\n"), 0644); err != nil {
		return NewInternalError("write_merge_head", err)
	}

	modePath := e.kitDir.MergeModePath().ToAbsolutePath()
	if err := fileops.AtomicWrite(modePath, []byte{}, 0644); err != nil {
		return NewInternalError("write_merge_mode", err)
	}

	msgPath := e.kitDir.MergeMsgPath().ToAbsolutePath()
	if err := fileops.AtomicWrite(msgPath, []byte(message+"\n"), 0644); err != nil {
		return NewInternalError("write_merge_msg", err)
	}

	return nil
}

func unionPaths(maps ...map[kcpath.RelativePath]fileEntry) []kcpath.RelativePath {
	seen := make(map[kcpath.RelativePath]bool)
	var paths []kcpath.RelativePath
	for _, m := range maps {
		for p := range m {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func lookupEntry(m map[kcpath.RelativePath]fileEntry, p kcpath.RelativePath) *fileEntry {
	if e, ok := m[p]; ok {
		return &e
	}
	return nil
}

func removeWorkingFile(workDir kcpath.RepositoryPath, path kcpath.RelativePath) error {
	full := workDir.Join(path.String())
	if err := os.Remove(full.String()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeCleanFile(repo *kitrepo.KitcatRepository, workDir kcpath.RepositoryPath, path kcpath.RelativePath, sha objects.ObjectHash, mode objects.FileMode) (*index.Entry, error) {
	b, err := repo.ReadBlobObject(sha)
	if err != nil {
		return nil, NewInternalError("read_blob", err)
	}
	content, err := b.Content()
	if err != nil {
		return nil, NewInternalError("blob_content", err)
	}

	full := workDir.Join(path.String())
	if err := os.MkdirAll(filepath.Dir(full.String()), 0755); err != nil {
		return nil, NewInternalError("mkdir", err)
	}
	if err := fileops.AtomicWrite(full, content.Bytes(), mode.ToOSFileMode()); err != nil {
		return nil, NewInternalError("write_file", err)
	}

	info, err := os.Stat(full.String())
	if err != nil {
		return nil, NewInternalError("stat_file", err)
	}

	entry, err := index.NewEntryFromFileInfo(path, info, sha)
	if err != nil {
		return nil, NewInternalError("build_index_entry", err)
	}
	entry.Mode = index.FileMode(mode)
	return entry, nil
}

func writeConflictFile(workDir kcpath.RepositoryPath, r *pathResult) error {
	full := workDir.Join(r.Path.String())
	if err := os.MkdirAll(filepath.Dir(full.String()), 0755); err != nil {
		return err
	}
	return fileops.AtomicWrite(full, r.WorkingContent, objects.FileModeRegular.ToOSFileMode())
}

func addConflictStages(idx *index.Index, r *pathResult) {
	if r.BaseEntry != nil {
		idx.Add(stageEntry(r.Path, 1, *r.BaseEntry))
	}
	if r.OursEntry != nil {
		idx.Add(stageEntry(r.Path, 2, *r.OursEntry))
	}
	if r.TheirsEntry != nil {
		idx.Add(stageEntry(r.Path, 3, *r.TheirsEntry))
	}
}

func stageEntry(path kcpath.RelativePath, stage uint8, e fileEntry) *index.Entry {
	entry := index.NewEntry(path)
	entry.BlobHash = e.SHA
	entry.Mode = index.FileMode(e.Mode)
	entry.Stage = stage
	return entry
}

func trimNewline(data []byte) []byte {
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data
}
