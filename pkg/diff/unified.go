package diff

import (
	"fmt"
	"strings"
)

// RenderUnified renders a single FileDiff as a Git-style unified diff, the
// same shape `git diff` prints: a file header followed by @@ hunk headers
// and +/-/space prefixed lines.
func RenderUnified(fd FileDiff) string {
	var b strings.Builder

	oldLabel, newLabel := diffLabels(fd)
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", fd.Path, fd.Path)

	switch fd.Change {
	case Added:
		fmt.Fprintf(&b, "new file mode %s\n", fd.NewMode.ToOctalString())
	case Deleted:
		fmt.Fprintf(&b, "deleted file mode %s\n", fd.OldMode.ToOctalString())
	case Modified:
		if fd.OldMode != fd.NewMode {
			fmt.Fprintf(&b, "old mode %s\nnew mode %s\n", fd.OldMode.ToOctalString(), fd.NewMode.ToOctalString())
		}
	}

	if fd.Binary {
		fmt.Fprintf(&b, "Binary files %s and %s differ\n", oldLabel, newLabel)
		return b.String()
	}

	if len(fd.Hunks) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "--- %s\n", oldLabel)
	fmt.Fprintf(&b, "+++ %s\n", newLabel)

	for _, h := range fd.Hunks {
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", hunkRange(h.OldStart, h.OldLines), hunkRange(h.NewStart, h.NewLines))
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdd:
				b.WriteString("+")
			case LineDelete:
				b.WriteString("-")
			default:
				b.WriteString(" ")
			}
			b.WriteString(l.Text)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func diffLabels(fd FileDiff) (oldLabel, newLabel string) {
	path := fd.Path.String()
	oldLabel = "a/" + path
	newLabel = "b/" + path
	if fd.Change == Added {
		oldLabel = "/dev/null"
	}
	if fd.Change == Deleted {
		newLabel = "/dev/null"
	}
	return oldLabel, newLabel
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// RenderUnifiedAll renders a set of FileDiffs in path order, the format a
// `diff` CLI invocation prints for its full output.
func RenderUnifiedAll(diffs []FileDiff) string {
	var b strings.Builder
	for _, fd := range diffs {
		b.WriteString(RenderUnified(fd))
	}
	return b.String()
}
