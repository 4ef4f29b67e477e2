package merge

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// changeBlock is a contiguous run of base lines [Lo, Hi) one side replaced
// with New. Lo == Hi for a pure insertion at that base position.
type changeBlock struct {
	Lo, Hi int
	New    []string
}

// diffBlocks runs a line-granular Myers diff between base and side (same
// tokenize-to-chars trick the diff package uses) and returns the base-index
// change blocks - the runs where side's content diverges from base.
func diffBlocks(baseLines, sideLines []string) []changeBlock {
	dmp := diffmatchpatch.New()
	baseText := strings.Join(baseLines, "\n")
	sideText := strings.Join(sideLines, "\n")

	aChars, bChars, lineArray := dmp.DiffLinesToChars(baseText, sideText)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var blocks []changeBlock
	basePos := 0
	var pending *changeBlock

	flush := func() {
		if pending != nil {
			blocks = append(blocks, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			basePos += len(lines)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &changeBlock{Lo: basePos, Hi: basePos}
			}
			pending.Hi += len(lines)
			basePos += len(lines)
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &changeBlock{Lo: basePos, Hi: basePos}
			}
			pending.New = append(pending.New, lines...)
		}
	}
	flush()

	return blocks
}

// splitDiffLines splits diffmatchpatch's line-joined text back into lines.
// DiffLinesToChars/DiffCharsToLines preserve a trailing "\n" per source
// line, including the very last one, so a plain strings.Split leaves a
// trailing empty element that must be trimmed.
func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" {
		return []string{""}
	}
	return strings.Split(trimmed, "\n")
}

// lineMergeResult is the outcome of a diff3-style merge of one file's
// content across base/ours/theirs.
type lineMergeResult struct {
	Lines    []string
	Conflict bool
}

// mergeLines performs a diff3-style three-way merge at line granularity,
// wrapping any region both sides changed differently in git-style conflict
// markers. An empty base (both blocks anchored at [0,0)) falls out of the
// same code path, so add/add conflicts are handled without special-casing.
func mergeLines(baseLines, oursLines, theirsLines []string, oursLabel, theirsLabel string) lineMergeResult {
	oursBlocks := diffBlocks(baseLines, oursLines)
	theirsBlocks := diffBlocks(baseLines, theirsLines)

	regions := mergeRegions(oursBlocks, theirsBlocks)

	var out []string
	conflict := false
	cursor := 0

	for _, r := range regions {
		out = append(out, baseLines[cursor:r.lo]...)

		oursHere := blocksIn(oursBlocks, r.lo, r.hi)
		theirsHere := blocksIn(theirsBlocks, r.lo, r.hi)

		oursView := reconstruct(baseLines, r.lo, r.hi, oursHere)
		theirsView := reconstruct(baseLines, r.lo, r.hi, theirsHere)

		switch {
		case len(oursHere) == 0:
			out = append(out, theirsView...)
		case len(theirsHere) == 0:
			out = append(out, oursView...)
		case sameLines(oursView, theirsView):
			out = append(out, oursView...)
		default:
			conflict = true
			out = append(out, "<<<<<<< "+oursLabel)
			out = append(out, oursView...)
			out = append(out, "=======")
			out = append(out, theirsView...)
			out = append(out, ">>>>>>> "+theirsLabel)
		}

		cursor = r.hi
	}
	out = append(out, baseLines[cursor:]...)

	return lineMergeResult{Lines: out, Conflict: conflict}
}

type region struct{ lo, hi int }

// mergeRegions unions overlapping/touching change blocks from both sides
// into a single ordered list of base-index regions, so a conflict spanning
// different-sized hunks on each side is handled as one merged region.
func mergeRegions(a, b []changeBlock) []region {
	var regions []region
	for _, blk := range a {
		regions = append(regions, region{blk.Lo, blk.Hi})
	}
	for _, blk := range b {
		regions = append(regions, region{blk.Lo, blk.Hi})
	}
	if len(regions) == 0 {
		return nil
	}

	sortRegions(regions)

	var merged []region
	cur := regions[0]
	for _, r := range regions[1:] {
		if r.lo <= cur.hi {
			if r.hi > cur.hi {
				cur.hi = r.hi
			}
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	merged = append(merged, cur)
	return merged
}

func sortRegions(regions []region) {
	for i := 1; i < len(regions); i++ {
		for j := i; j > 0 && regions[j-1].lo > regions[j].lo; j-- {
			regions[j-1], regions[j] = regions[j], regions[j-1]
		}
	}
}

func blocksIn(blocks []changeBlock, lo, hi int) []changeBlock {
	var out []changeBlock
	for _, b := range blocks {
		if b.Lo >= lo && b.Hi <= hi {
			out = append(out, b)
		}
	}
	return out
}

// reconstruct rebuilds a side's view of base[lo:hi] by splicing in that
// side's change blocks and passing through untouched base lines elsewhere.
func reconstruct(baseLines []string, lo, hi int, blocks []changeBlock) []string {
	var out []string
	cursor := lo
	for _, b := range blocks {
		out = append(out, baseLines[cursor:b.Lo]...)
		out = append(out, b.New...)
		cursor = b.Hi
	}
	out = append(out, baseLines[cursor:hi]...)
	return out
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// splitContentLines splits file content into lines the same way the diff
// package does: a trailing newline does not produce a phantom empty line.
func splitContentLines(content string) []string {
	if content == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(content, "\n")
	return strings.Split(trimmed, "\n")
}
