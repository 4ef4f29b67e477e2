package commitmanager

import (
	"path/filepath"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// directoryNode is the in-memory shape between the flat index and
// nested tree objects: files and their modes at this level, plus child
// nodes for subdirectories.
type directoryNode struct {
	name    string
	files   map[string]objects.ObjectHash
	modes   map[string]objects.FileMode
	subdirs map[string]*directoryNode
}

// newDirectoryNode allocates a node; name is empty for the root.
func newDirectoryNode(name string) *directoryNode {
	return &directoryNode{
		name:    name,
		files:   make(map[string]objects.ObjectHash),
		modes:   make(map[string]objects.FileMode),
		subdirs: make(map[string]*directoryNode),
	}
}

// addEntry files a path under this node, splitting off the leading
// component and recursing until only the file name remains.
func (dn *directoryNode) addEntry(path string, sha objects.ObjectHash, mode objects.FileMode) {
	parts := strings.Split(filepath.ToSlash(path), "/")

	if len(parts) == 1 {
		dn.addFile(parts[0], sha, mode)
		return
	}

	firstDir := parts[0]
	restOfPath := strings.Join(parts[1:], "/")

	subdir := dn.getOrCreateSubdir(firstDir)
	subdir.addEntry(restOfPath, sha, mode)
}

// addFile records one file and its mode at this level.
func (dn *directoryNode) addFile(name string, sha objects.ObjectHash, mode objects.FileMode) {
	dn.files[name] = sha
	dn.modes[name] = mode
}

// getOrCreateSubdir returns the named child, allocating it on first use.
func (dn *directoryNode) getOrCreateSubdir(name string) *directoryNode {
	if subdir, exists := dn.subdirs[name]; exists {
		return subdir
	}

	subdir := newDirectoryNode(name)
	dn.subdirs[name] = subdir
	return subdir
}
