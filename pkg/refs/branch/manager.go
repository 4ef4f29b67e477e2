package branch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
	"github.com/itsSauraj/kit-cat/pkg/workdir"
)

// DefaultBranch is the branch a fresh repository's HEAD points at.
const DefaultBranch = "master"

// Manager is the branch porcelain: create, delete, rename, checkout,
// and listing, built on the raw ref layer plus the working-directory
// synchronizer. Not safe for concurrent use.
type Manager struct {
	repo           *kitrepo.KitcatRepository
	refManager     *refs.RefManager
	branchRefSvc   *BranchRefManager
	branchInfoSvc  *InfoService
	workdirManager *workdir.Manager
}

// NewManager wires the branch services onto an opened repository.
func NewManager(repo *kitrepo.KitcatRepository) *Manager {
	refMgr := refs.NewRefManager(repo)
	branchRefSvc := NewBranchRefManager(refMgr)
	branchInfoSvc := NewInfoService(repo, branchRefSvc)
	workdirMgr := workdir.NewManager(repo)

	return &Manager{
		repo:           repo,
		refManager:     refMgr,
		branchRefSvc:   branchRefSvc,
		branchInfoSvc:  branchInfoSvc,
		workdirManager: workdirMgr,
	}
}

// Init makes sure refs/heads exists. Call once after NewManager.
func (m *Manager) Init() error {
	if err := m.refManager.Init(); err != nil {
		return fmt.Errorf("init ref manager: %w", err)
	}

	branchDir := filepath.Join(m.refManager.GetRefsPath().String(), BranchDirName)
	if err := os.MkdirAll(branchDir, 0755); err != nil {
		return fmt.Errorf("create branch directory: %w", err)
	}

	return nil
}

// CreateBranch makes a branch, optionally checking it out when the
// WithCheckout option is set.
func (m *Manager) CreateBranch(ctx context.Context, name string, opts ...CreateOption) (BranchInfo, error) {
	config := &CreateConfig{}
	for _, opt := range opts {
		opt(config)
	}

	creator := NewCreator(m.repo, m.branchRefSvc, m.branchInfoSvc)
	branchInfo, err := creator.Create(ctx, name, config)
	if err != nil {
		return BranchInfo{}, fmt.Errorf("create branch: %w", err)
	}

	if config.Checkout {
		checkoutConfig := &CheckoutConfig{
			Force:  false,
			Detach: false,
		}
		if err := m.checkout(ctx, name, checkoutConfig); err != nil {
			return *branchInfo, fmt.Errorf("checkout new branch: %w", err)
		}
	}

	return *branchInfo, nil
}

// Checkout moves HEAD and the working directory to a branch, commit
// hash, or short hash prefix.
func (m *Manager) Checkout(ctx context.Context, target string, opts ...CheckoutOption) error {
	config := &CheckoutConfig{}
	for _, opt := range opts {
		opt(config)
	}

	return m.checkout(ctx, target, config)
}

// checkout carries the resolved config into the checkout service.
func (m *Manager) checkout(ctx context.Context, target string, config *CheckoutConfig) error {
	creator := NewCreator(m.repo, m.branchRefSvc, m.branchInfoSvc)
	ch := NewCheckout(m.repo, m.branchRefSvc, creator, m.workdirManager)

	if err := ch.Checkout(ctx, target, config); err != nil {
		return fmt.Errorf("checkout %s: %w", target, err)
	}

	return nil
}

// DeleteBranch removes a branch ref. Deleting the checked-out branch
// or an unmerged one fails unless WithForceDelete is given.
func (m *Manager) DeleteBranch(ctx context.Context, name string, opts ...DeleteOption) error {
	config := &DeleteConfig{}
	for _, opt := range opts {
		opt(config)
	}

	d := NewDelete(m.repo, m.branchRefSvc)
	if err := d.Delete(ctx, name, config); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}
	return nil
}

// RenameBranch moves a branch ref, refusing to clobber an existing
// name without WithForceRename.
func (m *Manager) RenameBranch(ctx context.Context, oldName, newName string, opts ...RenameOption) error {
	config := &RenameConfig{}
	for _, opt := range opts {
		opt(config)
	}

	r := NewRename(m.branchRefSvc)
	if err := r.Rename(ctx, oldName, newName, config); err != nil {
		return fmt.Errorf("rename branch %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// GetBranch loads one branch's info.
func (m *Manager) GetBranch(ctx context.Context, name string) (BranchInfo, error) {
	info, err := m.branchInfoSvc.GetInfo(ctx, name)
	if err != nil {
		return BranchInfo{}, fmt.Errorf("get branch %s: %w", name, err)
	}
	return *info, nil
}

// ListBranches loads info for every branch ref.
func (m *Manager) ListBranches(ctx context.Context) ([]BranchInfo, error) {
	branches, err := m.branchInfoSvc.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// CurrentBranch names the checked-out branch, empty when detached.
func (m *Manager) CurrentBranch() (string, error) {
	name, err := m.branchRefSvc.Current()
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return name, nil
}

// IsDetached reports whether HEAD points at a commit directly.
func (m *Manager) IsDetached() (bool, error) {
	detached, err := m.branchRefSvc.IsDetached()
	if err != nil {
		return false, fmt.Errorf("check detached state: %w", err)
	}
	return detached, nil
}

// CurrentCommit resolves HEAD to a commit hash.
func (m *Manager) CurrentCommit() (objects.ObjectHash, error) {
	hash, err := m.branchRefSvc.GetHeadSHA()
	if err != nil {
		return "", fmt.Errorf("get current commit: %w", err)
	}
	return hash, nil
}

// BranchExists reports whether the named branch ref is present.
func (m *Manager) BranchExists(name string) (bool, error) {
	exists, err := m.branchRefSvc.Exists(name)
	if err != nil {
		return false, fmt.Errorf("check branch exists: %w", err)
	}
	return exists, nil
}

// ValidateBranchName applies the ref-name rules to a candidate name.
func (m *Manager) ValidateBranchName(name string) error {
	return ValidateBranchName(name)
}
