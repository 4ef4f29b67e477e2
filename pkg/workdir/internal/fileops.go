package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// FileOps performs the raw working-tree mutations: blob-to-file
// writes, deletions with empty-directory pruning, and the backup
// machinery the transaction layer rolls back with.
type FileOps struct {
	repo    *kitrepo.KitcatRepository
	workDir kcpath.RepositoryPath
	tempDir kcpath.AbsolutePath
	dryRun  bool
}

func NewFileOps(repo *kitrepo.KitcatRepository) *FileOps {
	workDir := repo.WorkingDirectory()
	tempDir := workDir.Join(kcpath.KitcatDir, "tmp")
	return &FileOps{
		repo:    repo,
		workDir: workDir,
		tempDir: tempDir,
	}
}

// SetDryRun toggles simulation mode; operations report success
// without touching disk.
func (f *FileOps) SetDryRun(enabled bool) {
	f.dryRun = enabled
}

// ApplyOperation dispatches one create/modify/delete to the working
// tree.
func (f *FileOps) ApplyOperation(op Operation) error {
	if f.dryRun {
		return nil
	}

	switch op.Action {
	case ActionCreate, ActionModify:
		return f.writeFile(op)
	case ActionDelete:
		return f.deleteFile(op.Path)
	default:
		return fmt.Errorf("apply %s: %w: unknown action %v", op.Path, ErrInvalidOperation, op.Action)
	}
}

// writeFile materializes a blob at op.Path with op.Mode's
// permissions, via temp file plus rename.
func (f *FileOps) writeFile(op Operation) error {
	if op.SHA == "" {
		return fmt.Errorf("%s %s: %w: missing SHA", op.Action.String(), op.Path, ErrInvalidOperation)
	}

	blobData, err := f.repo.ReadBlobObject(op.SHA)
	if err != nil {
		return fmt.Errorf("%s %s: object %s is not a blob", op.Action.String(), op.Path, op.SHA.Short())
	}

	content, err := blobData.Content()
	if err != nil {
		return fmt.Errorf("%s %s: get blob content: %w", op.Action.String(), op.Path, err)
	}

	fullPath := f.workDir.Join(op.Path.String())

	if err := f.ensureParentDir(fullPath); err != nil {
		return fmt.Errorf("%s %s: create parent directory: %w", op.Action.String(), op.Path, err)
	}

	if err := f.atomicWrite(fullPath, content.Bytes(), op.Mode.ToOSFileMode()); err != nil {
		return fmt.Errorf("%s %s: write file: %w", op.Action.String(), op.Path, err)
	}

	return nil
}

// atomicWrite is the temp-file-then-rename write every working-tree
// file goes through.
func (f *FileOps) atomicWrite(targetPath kcpath.AbsolutePath, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(f.tempDir.String(), 0755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}

	dir := filepath.Dir(targetPath.String())
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if err := writeTempFile(data, tmpFile); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	return renameTempFile(tmpFile.Name(), targetPath.String(), mode)
}

func writeTempFile(data []byte, tmpFile *os.File) error {
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func renameTempFile(tmpPath string, targetPath string, mode os.FileMode) error {
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// deleteFile removes path and prunes any directories the removal
// emptied. Pruning is best-effort; the delete itself already
// succeeded.
func (f *FileOps) deleteFile(path kcpath.RelativePath) error {
	fullPath := f.workDir.Join(path.String())

	if _, err := os.Stat(fullPath.String()); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath.String()); err != nil {
		return fmt.Errorf("delete %s: remove file: %w", path, err)
	}

	_ = f.cleanEmptyParents(fullPath.Dir())

	return nil
}

// ensureParentDir creates the directories a file write needs.
func (f *FileOps) ensureParentDir(filePath kcpath.AbsolutePath) error {
	dir := filepath.Dir(filePath.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return nil
}

// cleanEmptyParents walks upward removing now-empty directories,
// stopping at the repository root.
func (f *FileOps) cleanEmptyParents(dir kcpath.AbsolutePath) error {
	if !filepath.HasPrefix(dir.String(), f.workDir.String()) || dir.String() == f.workDir.String() {
		return nil
	}

	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		return nil
	}

	if err := os.Remove(dir.String()); err != nil {
		return err
	}

	return f.cleanEmptyParents(dir.Dir())
}

// CreateBackup snapshots path before the transaction touches it. A
// missing file records Existed=false so rollback knows to re-delete.
func (f *FileOps) CreateBackup(path kcpath.RelativePath) (*Backup, error) {
	fullPath := f.workDir.Join(path.String())

	info, err := os.Stat(fullPath.String())
	if os.IsNotExist(err) {
		return &Backup{
			Path:     path,
			TempFile: "",
			Existed:  false,
			Mode:     0,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup %s: stat file: %w", path, err)
	}

	tmpFile, err := f.createTempBackupFile()
	if err != nil {
		return nil, err
	}

	success := false
	defer func() {
		tmpFile.Close()
		if !success {
			os.Remove(tmpFile.Name())
		}
	}()

	if err := f.writeToTemp(tmpFile, path, fullPath); err != nil {
		return nil, err
	}

	success = true
	return &Backup{
		Path:     path,
		TempFile: tmpFile.Name(),
		Existed:  true,
		Mode:     objects.FromOSFileMode(info.Mode()),
	}, nil
}

func (f *FileOps) createTempBackupFile() (*os.File, error) {
	if err := os.MkdirAll(f.tempDir.String(), 0755); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(f.tempDir.String(), "backup-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	return tmpFile, nil
}

func (f *FileOps) writeToTemp(tmpFile *os.File, path kcpath.RelativePath, fullPath kcpath.AbsolutePath) error {
	srcFile, err := os.Open(fullPath.String())
	if err != nil {
		return fmt.Errorf("backup %s: open source: %w", path, err)
	}
	defer srcFile.Close()

	if _, err := io.Copy(tmpFile, srcFile); err != nil {
		return fmt.Errorf("backup %s: copy content: %w", path, err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("backup %s: sync backup: %w", path, err)
	}

	return nil
}

// RestoreBackup puts a file back the way its backup recorded it,
// removing it entirely when it had not existed.
func (f *FileOps) RestoreBackup(backup *Backup) error {
	if backup == nil {
		return fmt.Errorf("nil backup")
	}

	fullPath := f.workDir.Join(backup.Path.String())

	if !backup.Existed {
		err := os.Remove(fullPath.String())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("restore %s: remove file: %w", backup.Path, err)
		}
		return nil
	}

	if backup.TempFile == "" {
		return fmt.Errorf("restore %s: backup has no temp file", backup.Path)
	}

	if err := f.ensureParentDir(fullPath); err != nil {
		return fmt.Errorf("restore %s: create parent directory: %w", backup.Path, err)
	}

	return f.writeFromBackup(backup)
}

func (f *FileOps) writeFromBackup(backup *Backup) error {
	backupPath := f.workDir.Join(backup.Path.String())
	srcFile, err := os.Open(backup.TempFile)
	if err != nil {
		return fmt.Errorf("restore %s: open backup: %w", backup.Path, err)
	}
	defer srcFile.Close()

	data, err := io.ReadAll(srcFile)
	if err != nil {
		return fmt.Errorf("restore %s: read backup: %w", backup.Path, err)
	}

	if err := f.atomicWrite(backupPath, data, backup.Mode.ToOSFileMode()); err != nil {
		return fmt.Errorf("restore %s: write file: %w", backup.Path, err)
	}

	return nil
}

// CleanupBackup discards a backup's temp file once it is not needed.
func (f *FileOps) CleanupBackup(backup *Backup) error {
	if backup == nil || backup.TempFile == "" {
		return nil
	}

	if err := os.Remove(backup.TempFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove backup file: %w", err)
	}

	return nil
}
