package editor

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/cedit/internal/document"
)

// Paint draws the whole screen through p: header bar, line numbers, the
// editor viewport and the footer or dialog bar.
func (e *Engine) Paint(p Printer) {
	if e.paintingSuppressed {
		return
	}
	if e.showHeader {
		e.printInvertedBar(p, 0, 0, e.headerText())
	}
	if e.showLines {
		e.paintLineNumbers(p)
	}
	e.printArea(p, e.editorCx, !e.dialogMode)
	bottom := e.screenHeight - 1
	switch {
	case e.dialogMode && e.dialogCx != nil:
		title := " " + e.dialogTitle + " "
		e.printInvertedBar(p, 0, bottom, TruncateWidth(title, e.dialogCx.viewportOrgX))
		e.printArea(p, e.dialogCx, false)
	case e.showFooter:
		e.printInvertedBar(p, 0, bottom, e.StatusLine())
	}
}

// printInvertedBar prints text on an inverted row padded to the screen edge.
func (e *Engine) printInvertedBar(p Printer, x, y int, text string) {
	w := e.screenWidth - x
	if w <= 0 {
		return
	}
	text = TruncateWidth(text, w)
	if pad := w - StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	p.Print(x, y, text, Option{
		Attr: CharAttr{Index: AttrInvert, Color: NoStyle},
		Clip: Rect{X: x, Y: y, W: w, H: 1},
	})
}

// paintLineNumbers fills the gutter left of the editor viewport. Deleted
// lines of a diff get no number.
func (e *Engine) paintLineNumbers(p Printer) {
	cx := e.editorCx
	w := cx.viewportOrgX
	if w <= 0 {
		return
	}
	for y := 0; y < cx.viewportHeight; y++ {
		row := cx.scrollRowPos + y
		label := strings.Repeat(" ", w)
		attr := CharAttr{Index: AttrNormal, Flags: FlagLineNumber, Color: NoStyle}
		if row < cx.lines() {
			line := cx.doc.Line(row)
			attr.Line = line.Type
			if row == cx.currentRow {
				attr.Flags |= FlagCurrentLine
			}
			if line.Type != document.Del {
				label = fmt.Sprintf("%*d ", w-1, line.LineNumber)
			}
		}
		p.Print(0, cx.viewportOrgY+y, TruncateWidth(label, w), Option{
			Attr: attr,
			Clip: Rect{X: 0, Y: cx.viewportOrgY + y, W: w, H: 1},
		})
	}
}

// printArea paints the visible rows of cx run by run, clipped to its
// viewport. Rows past the end of the document are blanked.
func (e *Engine) printArea(p Printer, cx *textContext, markCurrent bool) {
	blank := strings.Repeat(" ", cx.viewportWidth)
	a0, a1 := cx.sel.a0, cx.sel.a1
	for y := 0; y < cx.viewportHeight; y++ {
		row := cx.scrollRowPos + y
		sy := cx.viewportOrgY + y
		clip := Rect{X: cx.viewportOrgX, Y: sy, W: cx.viewportWidth, H: 1}
		base := CharAttr{Index: AttrNormal, Color: NoStyle}
		if row >= cx.lines() {
			p.Print(cx.viewportOrgX, sy, blank, Option{Attr: base, Clip: clip})
			continue
		}
		line := cx.doc.Line(row)
		base.Line = line.Type
		if markCurrent && row == cx.currentRow {
			base.Flags |= FlagCurrentLine
		}
		p.Print(cx.viewportOrgX, sy, blank, Option{Attr: base, Clip: clip})
		var parsed *ParsedLine
		if row == cx.currentRow {
			parsed = cx.current()
		} else {
			parsed = Parse(line.Text, cx.tabSpan)
		}
		for _, run := range FormatLine(line, parsed, row, a0, a1) {
			if run.Col+run.Width <= cx.scrollColPos || run.Col >= cx.scrollColPos+cx.viewportWidth {
				continue
			}
			attr := base
			attr.Color = run.StyleID
			if run.Selected {
				attr.Flags |= FlagSelected
			}
			x := cx.viewportOrgX + run.Col - cx.scrollColPos
			p.Print(x, sy, run.Text, Option{Attr: attr, Clip: clip})
		}
	}
}
