package refs

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/common/fileops"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

const (
	// SymbolicRefPrefix marks a ref file whose content names another ref.
	SymbolicRefPrefix = "ref: "

	// MaxRefDepth bounds symbolic ref chains so a cycle cannot loop
	// forever.
	MaxRefDepth = 10
)

// RefManager reads and writes the raw ref files: branch refs under
// refs/ and the HEAD pointer. Higher-level branch semantics live in
// pkg/refs/branch; this layer only knows file content.
type RefManager struct {
	refsPath kcpath.KitPath
	headPath kcpath.KitPath
}

func NewRefManager(repo kitrepo.Repository) *RefManager {
	kitDir := repo.KitcatDirectory()
	return &RefManager{
		refsPath: kitDir.RefsPath(),
		headPath: kitDir.HeadPath(),
	}
}

// Init creates the refs directory and points HEAD at the default
// branch, unborn until the first commit.
func (rm *RefManager) Init() error {
	if err := os.MkdirAll(rm.refsPath.String(), 0755); err != nil {
		return fmt.Errorf("failed to create refs directory: %w", err)
	}

	defaultRef := SymbolicRefPrefix + "refs/heads/master\n"
	if err := os.WriteFile(rm.headPath.String(), []byte(defaultRef), 0644); err != nil {
		return fmt.Errorf("failed to create HEAD file: %w", err)
	}

	return nil
}

// ReadRef returns a ref file's trimmed content.
func (rm *RefManager) ReadRef(ref RefPath) (string, error) {
	fullPath := rm.resolveReferencePath(ref)

	data, err := os.ReadFile(fullPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("ref %s not found", ref)
		}
		return "", fmt.Errorf("error reading ref %s: %w", ref, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// UpdateRef points a ref at sha. The write goes through a temp file and
// rename so a crash never leaves a half-written ref.
func (rm *RefManager) UpdateRef(ref RefPath, sha string) error {
	fullPath := rm.resolveReferencePath(ref)

	if err := fileops.EnsureParentDir(fullPath.ToAbsolutePath()); err != nil {
		return fmt.Errorf("failed to create ref directory: %w", err)
	}

	content := sha + "\n"
	if err := fileops.AtomicWrite(fullPath.ToAbsolutePath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write ref %s: %w", ref, err)
	}

	return nil
}

// ResolveToSHA follows symbolic refs until it reaches a hash, up to
// MaxRefDepth hops.
func (rm *RefManager) ResolveToSHA(ref RefPath) (string, error) {
	currentRef := ref

	for depth := 0; depth < MaxRefDepth; depth++ {
		content, err := rm.ReadRef(currentRef)
		if err != nil {
			return "", fmt.Errorf("error reading ref %s: %w", currentRef, err)
		}

		if strings.HasPrefix(content, SymbolicRefPrefix) {
			currentRef = RefPath(strings.TrimPrefix(content, SymbolicRefPrefix))
			continue
		}

		if isSHA1(content) {
			return content, nil
		}

		return "", fmt.Errorf("invalid ref content: %s", content)
	}

	return "", fmt.Errorf("reference depth exceeded for %s", ref)
}

// DeleteRef removes a ref file, reporting whether it existed.
func (rm *RefManager) DeleteRef(ref RefPath) (bool, error) {
	fullPath := rm.resolveReferencePath(ref)

	if err := os.Remove(fullPath.String()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Exists reports whether the ref file is present.
func (rm *RefManager) Exists(ref RefPath) (bool, error) {
	fullPath := rm.resolveReferencePath(ref)
	_, err := os.Stat(fullPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (rm *RefManager) GetHeadPath() kcpath.KitPath {
	return rm.headPath
}

func (rm *RefManager) GetRefsPath() kcpath.KitPath {
	return rm.refsPath
}

// resolveReferencePath maps a ref name onto its file: "HEAD" to the
// HEAD file, "refs/..." under the refs root without duplicating it,
// and bare names directly under refs/.
func (rm *RefManager) resolveReferencePath(ref RefPath) kcpath.KitPath {
	refStr := strings.TrimSpace(ref.String())

	if refStr == kcpath.HeadFile {
		return rm.headPath
	}

	if strings.HasPrefix(refStr, kcpath.RefsDir+"/") {
		relPath := strings.TrimPrefix(refStr, kcpath.RefsDir+"/")
		return rm.refsPath.Join(relPath)
	}

	return rm.refsPath.Join(refStr)
}

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

func isSHA1(str string) bool {
	return sha1Pattern.MatchString(strings.ToLower(str))
}
