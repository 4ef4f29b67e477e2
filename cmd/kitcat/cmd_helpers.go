package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsSauraj/kit-cat/cmd/ui"
	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// findRepository walks up from the current directory to the nearest
// directory containing .kitcat and opens it.
func findRepository() (*kitrepo.KitcatRepository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		kitDir := filepath.Join(dir, kcpath.KitcatDir)
		if info, err := os.Stat(kitDir); err == nil && info.IsDir() {
			repoPath, err := kcpath.NewRepositoryPath(dir)
			if err != nil {
				return nil, fmt.Errorf("invalid repository path: %w", err)
			}
			return kitrepo.Open(repoPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("not a kitcat repository (or any parent up to mount point)")
		}
		dir = parent
	}
}

// The commands render through the shared ui package; these aliases
// keep call sites short.
var (
	colorGreen   = ui.Green
	colorRed     = ui.Red
	colorYellow  = ui.Yellow
	colorBlue    = ui.Blue
	colorCyan    = ui.Cyan
	colorMagenta = ui.Magenta

	formatModified  = ui.FormatModified
	formatDeleted   = ui.FormatDeleted
	formatAdded     = ui.FormatAdded
	formatUntracked = ui.FormatUntracked

	renderHeader  = ui.Header
	renderSection = ui.Section
	renderInfo    = ui.Info
)

const (
	IconModified  = ui.IconModified
	IconDeleted   = ui.IconDeleted
	IconAdded     = ui.IconAdded
	IconUntracked = ui.IconUntracked
	IconBranch    = ui.IconBranch
	IconCommit    = ui.IconCommit
	IconAuthor    = ui.IconAuthor
	IconDate      = ui.IconDate
	IconCheck     = ui.IconCheck
)
