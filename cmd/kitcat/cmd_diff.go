package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/diff"
)

func newDiffCmd() *cobra.Command {
	var cached bool
	var stat bool

	cmd := &cobra.Command{
		Use:   "diff [<commit> [<commit>]]",
		Short: "Show changes between commits, the index, and the working tree",
		Long: `Show changes between the working tree, the staging index, and commits.

With no arguments, diffs the working tree against the index (unstaged changes).
With --cached, diffs the index against HEAD (staged changes).
With one revision, diffs the working tree against that revision's tree.
With two revisions, diffs the two revisions' trees directly.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			engine := diff.NewEngine(repo)
			ctx := context.Background()

			var diffs []diff.FileDiff
			switch {
			case cached:
				diffs, err = engine.IndexVsHEAD(ctx)
			case len(args) == 2:
				diffs, err = engine.Revisions(ctx, args[0], args[1])
			case len(args) == 1:
				diffs, err = engine.WorkingVsRevision(ctx, args[0])
			default:
				diffs, err = engine.WorkingVsIndex(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to compute diff: %w", err)
			}

			if len(diffs) == 0 {
				return nil
			}

			if stat {
				printDiffStat(diffs)
				return nil
			}

			printDiffColored(diffs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Show staged changes (index vs HEAD)")
	cmd.Flags().BoolVar(&stat, "stat", false, "Show a diffstat summary instead of the full patch")

	return cmd
}

// printDiffColored renders the unified diff with git-style coloring: red for
// removed lines, green for added lines.
func printDiffColored(diffs []diff.FileDiff) {
	for _, fd := range diffs {
		fmt.Printf("%s %s\n", colorYellow("diff --git"), fd.Path.String())

		if fd.Binary {
			fmt.Println(colorCyan(fmt.Sprintf("Binary files differ (%s)", fd.Change)))
			continue
		}

		for _, h := range fd.Hunks {
			fmt.Println(colorCyan(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)))
			for _, l := range h.Lines {
				switch l.Kind {
				case diff.LineAdd:
					fmt.Println(colorGreen("+" + l.Text))
				case diff.LineDelete:
					fmt.Println(colorRed("-" + l.Text))
				default:
					fmt.Println(" " + l.Text)
				}
			}
		}
	}
}

// printDiffStat renders a `diff --stat`-style summary table.
func printDiffStat(diffs []diff.FileDiff) {
	stat := diff.BuildStat(diffs)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("File", "Change", "Insertions", "Deletions")

	for _, fs := range stat.PerFile {
		change := "binary"
		if !fs.Binary {
			change = fmt.Sprintf("+%d -%d", fs.Insertions, fs.Deletions)
		}
		table.Append(fs.Path.String(), change, fmt.Sprintf("%d", fs.Insertions), fmt.Sprintf("%d", fs.Deletions))
	}

	table.Render()
	fmt.Printf("%d file(s) changed, %d insertion(s), %d deletion(s)\n", stat.FilesChanged, stat.Insertions, stat.Deletions)
}
