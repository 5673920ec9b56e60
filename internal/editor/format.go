package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/cedit/internal/document"
)

// NoStyle is the StyleID of text without a colour override.
const NoStyle = -1

// FormattedRun is a maximal run of columns sharing a style and a selection
// state. Selection is painted over the style by the host.
type FormattedRun struct {
	Text     string
	StyleID  int
	Selected bool
	Col      int
	Width    int
}

// FormatLine splits a parsed line into runs. row and the anchors decide which
// cells are selected.
func FormatLine(line *document.Line, parsed *ParsedLine, row int, a0, a1 SelectionAnchor) []FormattedRun {
	if len(parsed.Chars) == 0 {
		return nil
	}
	var runs []FormattedRun
	var sb strings.Builder
	cur := FormattedRun{StyleID: NoStyle}
	open := false
	flush := func() {
		if !open {
			return
		}
		cur.Text = sb.String()
		runs = append(runs, cur)
		sb.Reset()
		open = false
	}
	colorIdx := -1
	for i, c := range parsed.Chars {
		for colorIdx+1 < len(line.Colors) && line.Colors[colorIdx+1].Offset <= c.Pos {
			colorIdx++
		}
		style := NoStyle
		if colorIdx >= 0 {
			style = line.Colors[colorIdx].Color
		}
		col := parsed.Cols[i]
		w := parsed.unitEnd(i) - col
		selected := IsInRange(row, col, a0, a1)
		if open && (style != cur.StyleID || selected != cur.Selected) {
			flush()
		}
		if !open {
			cur = FormattedRun{StyleID: style, Selected: selected, Col: col}
			open = true
		}
		switch {
		case c.Unicode == '\t':
			sb.WriteByte(' ')
		case c.Unicode > utf8.MaxRune:
			sb.WriteRune(utf8.RuneError)
		case c.Unicode < 0x20 || c.Unicode == 0x7F:
			// control bytes have no glyph
		default:
			sb.WriteRune(rune(c.Unicode))
		}
		cur.Width += w
	}
	flush()
	return runs
}
