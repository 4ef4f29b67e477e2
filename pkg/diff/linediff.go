package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// hunkContext is the number of unchanged lines kept around each change,
// matching git's default -U3.
const hunkContext = 3

// computeLineDiffs runs a line-granular Myers diff between two file
// contents. It tokenizes each line to a single rune via DiffLinesToChars so
// DiffMain operates over whole lines instead of characters, then expands the
// result back to text with DiffCharsToLines.
func computeLineDiffs(oldText, newText string) []Line {
	if oldText == newText {
		return contextOnly(oldText)
	}

	dmp := diffmatchpatch.New()
	aChars, bChars, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var lines []Line
	for _, d := range diffs {
		var kind LineKind
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = LineContext
		case diffmatchpatch.DiffInsert:
			kind = LineAdd
		case diffmatchpatch.DiffDelete:
			kind = LineDelete
		}
		for _, text := range splitLinesKeepEmpty(d.Text) {
			lines = append(lines, Line{Kind: kind, Text: text})
		}
	}
	return lines
}

func contextOnly(text string) []Line {
	var lines []Line
	for _, text := range splitLinesKeepEmpty(text) {
		lines = append(lines, Line{Kind: LineContext, Text: text})
	}
	return lines
}

// splitLinesKeepEmpty splits text on "\n", dropping exactly one trailing
// empty element produced by a final newline (files ending without a newline
// keep their last, incomplete line intact).
func splitLinesKeepEmpty(text string) []string {
	if text == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(text, "\n")
	return strings.Split(trimmed, "\n")
}

// posLine tags a diff line with its 1-based position in the old and new
// file; a line missing from a side carries 0 for that side.
type posLine struct {
	Line
	oldNum int
	newNum int
}

// assembleHunks groups a flat line-diff sequence into hunks, keeping
// `context` unchanged lines around each changed run and merging runs that
// fall within 2*context of each other so they share a single hunk header.
func assembleHunks(lines []Line, context int) []Hunk {
	seq := numberLines(lines)

	var changedIdx []int
	for i, l := range seq {
		if l.Kind != LineContext {
			changedIdx = append(changedIdx, i)
		}
	}
	if len(changedIdx) == 0 {
		return nil
	}

	type span struct{ lo, hi int }
	var spans []span
	lo, hi := changedIdx[0], changedIdx[0]
	for _, idx := range changedIdx[1:] {
		if idx-hi <= 2*context {
			hi = idx
			continue
		}
		spans = append(spans, span{lo, hi})
		lo, hi = idx, idx
	}
	spans = append(spans, span{lo, hi})

	hunks := make([]Hunk, 0, len(spans))
	for _, s := range spans {
		start := s.lo - context
		if start < 0 {
			start = 0
		}
		end := s.hi + context
		if end > len(seq)-1 {
			end = len(seq) - 1
		}

		hunkLines := make([]Line, 0, end-start+1)
		oldCount, newCount := 0, 0
		for i := start; i <= end; i++ {
			hunkLines = append(hunkLines, seq[i].Line)
			if seq[i].Kind != LineAdd {
				oldCount++
			}
			if seq[i].Kind != LineDelete {
				newCount++
			}
		}

		hunks = append(hunks, Hunk{
			OldStart: hunkOldStart(seq, start),
			OldLines: oldCount,
			NewStart: hunkNewStart(seq, start),
			NewLines: newCount,
			Lines:    hunkLines,
		})
	}
	return hunks
}

func numberLines(lines []Line) []posLine {
	seq := make([]posLine, len(lines))
	oldNum, newNum := 1, 1
	for i, l := range lines {
		switch l.Kind {
		case LineContext:
			seq[i] = posLine{l, oldNum, newNum}
			oldNum++
			newNum++
		case LineDelete:
			seq[i] = posLine{l, oldNum, 0}
			oldNum++
		case LineAdd:
			seq[i] = posLine{l, 0, newNum}
			newNum++
		}
	}
	return seq
}

func hunkOldStart(seq []posLine, start int) int {
	if seq[start].oldNum > 0 {
		return seq[start].oldNum
	}
	for i := start - 1; i >= 0; i-- {
		if seq[i].oldNum > 0 {
			return seq[i].oldNum + 1
		}
	}
	return 0
}

func hunkNewStart(seq []posLine, start int) int {
	if seq[start].newNum > 0 {
		return seq[start].newNum
	}
	for i := start - 1; i >= 0; i-- {
		if seq[i].newNum > 0 {
			return seq[i].newNum + 1
		}
	}
	return 0
}

// countChanges tallies insertions and deletions across a set of hunks.
func countChanges(hunks []Hunk) (insertions, deletions int) {
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdd:
				insertions++
			case LineDelete:
				deletions++
			}
		}
	}
	return insertions, deletions
}
