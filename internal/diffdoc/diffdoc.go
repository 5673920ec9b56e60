// Package diffdoc turns two versions of a text into one document whose lines
// carry Add/Del tags, hunk numbers and colour overrides on the changed words.
package diffdoc

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kobzarvs/cedit/internal/document"
)

// Colour override ids used on changed words. They index the theme palette.
const (
	ColorChanged = 1
	ColorReset   = -1
)

// Build diffs before against after line by line. Unchanged lines are Normal
// with no hunk; deleted lines keep their old line number.
func Build(before, after string) []document.Line {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []document.Line
	oldNo, newNo, hunk := 0, 0, -1
	inHunk := false
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			line := document.Line{HunkNumber: -1, Text: []byte(text)}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				inHunk = false
				oldNo++
				newNo++
				line.Type = document.Normal
				line.LineNumber = newNo
			case diffmatchpatch.DiffDelete:
				if !inHunk {
					hunk++
					inHunk = true
				}
				oldNo++
				line.Type = document.Del
				line.HunkNumber = hunk
				line.LineNumber = oldNo
			case diffmatchpatch.DiffInsert:
				if !inHunk {
					hunk++
					inHunk = true
				}
				newNo++
				line.Type = document.Add
				line.HunkNumber = hunk
				line.LineNumber = newNo
			}
			out = append(out, line)
		}
	}
	markWordChanges(dmp, out)
	return out
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(strings.TrimSuffix(p, "\n"), "\r")
	}
	return parts
}

// markWordChanges pairs the n-th deleted line of a hunk with its n-th added
// line and colours the words that differ.
func markWordChanges(dmp *diffmatchpatch.DiffMatchPatch, lines []document.Line) {
	dels := map[int][]int{}
	adds := map[int][]int{}
	for i, l := range lines {
		switch l.Type {
		case document.Del:
			dels[l.HunkNumber] = append(dels[l.HunkNumber], i)
		case document.Add:
			adds[l.HunkNumber] = append(adds[l.HunkNumber], i)
		}
	}
	for hunk, ds := range dels {
		as := adds[hunk]
		for k := 0; k < len(ds) && k < len(as); k++ {
			markPair(dmp, &lines[ds[k]], &lines[as[k]])
		}
	}
}

func markPair(dmp *diffmatchpatch.DiffMatchPatch, del, add *document.Line) {
	diffs := dmp.DiffMain(string(del.Text), string(add.Text), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	oldOff, newOff := 0, 0
	for _, d := range diffs {
		n := len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldOff += n
			newOff += n
		case diffmatchpatch.DiffDelete:
			mark(del, oldOff, oldOff+n)
			oldOff += n
		case diffmatchpatch.DiffInsert:
			mark(add, newOff, newOff+n)
			newOff += n
		}
	}
}

// mark colours [from, to). A reset at to is replaced when the next changed
// segment starts there.
func mark(l *document.Line, from, to int) {
	if from >= to {
		return
	}
	l.InsertColor(document.ColorOverride{Offset: from, Color: ColorChanged})
	if to < len(l.Text) {
		l.InsertColor(document.ColorOverride{Offset: to, Color: ColorReset})
	}
}

// Stats counts added and deleted lines and hunks.
func Stats(lines []document.Line) (added, deleted, hunks int) {
	seen := map[int]bool{}
	for _, l := range lines {
		switch l.Type {
		case document.Add:
			added++
		case document.Del:
			deleted++
		default:
			continue
		}
		if !seen[l.HunkNumber] {
			seen[l.HunkNumber] = true
			hunks++
		}
	}
	return added, deleted, hunks
}
