package diff

import (
	"strings"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/stretchr/testify/assert"
)

func TestRenderUnified_Modified(t *testing.T) {
	fd := FileDiff{
		Path:    mustRelPath(t, "file.txt"),
		Change:  Modified,
		OldMode: objects.FileModeRegular,
		NewMode: objects.FileModeRegular,
		Hunks: []Hunk{
			{
				OldStart: 1, OldLines: 2, NewStart: 1, NewLines: 2,
				Lines: []Line{
					{Kind: LineDelete, Text: "old line"},
					{Kind: LineAdd, Text: "new line"},
				},
			},
		},
	}

	out := RenderUnified(fd)
	assert.Contains(t, out, "--- a/file.txt")
	assert.Contains(t, out, "+++ b/file.txt")
	assert.Contains(t, out, "@@ -1,2 +1,2 @@")
	assert.True(t, strings.Contains(out, "-old line"))
	assert.True(t, strings.Contains(out, "+new line"))
}

func TestRenderUnified_Added(t *testing.T) {
	fd := FileDiff{
		Path:    mustRelPath(t, "new.txt"),
		Change:  Added,
		NewMode: objects.FileModeRegular,
		Hunks: []Hunk{
			{OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 1, Lines: []Line{{Kind: LineAdd, Text: "hello"}}},
		},
	}

	out := RenderUnified(fd)
	assert.Contains(t, out, "new file mode")
	assert.Contains(t, out, "--- /dev/null")
	assert.Contains(t, out, "+++ b/new.txt")
}

func TestRenderUnified_Binary(t *testing.T) {
	fd := FileDiff{
		Path:   mustRelPath(t, "image.png"),
		Change: Modified,
		Binary: true,
	}

	out := RenderUnified(fd)
	assert.Contains(t, out, "Binary files a/image.png and b/image.png differ")
}
