package editor

// margins returns the scroll margins for cx, each at most half the viewport
// width.
func (e *Engine) margins(cx *textContext) (left, right int) {
	half := cx.viewportWidth / 2
	return min(e.leftMargin, half), min(e.rightMargin, half)
}

// updateCursorPos refreshes the glyph span under the cursor, drags the live
// selection end along and asks the host to update.
func (e *Engine) updateCursorPos(cx *textContext, ensure, changeCol, autoScroll bool) {
	cx.currentCharSpan = cx.current().SpanAt(cx.currentCol)
	if cx.sel.origin.IsEnabled() {
		cx.sel.update(cx.currentRow, cx.currentCol)
	}
	e.updateVisibility(ensure, changeCol, autoScroll)
}

func (e *Engine) clampRow(cx *textContext, row int) int {
	if cx.singleLine || row < 0 {
		return 0
	}
	if n := cx.lines(); row >= n {
		return n - 1
	}
	return row
}

// SetCursorRow moves to row and reapplies the column hint to the new line.
// The hint itself is left alone.
func (e *Engine) SetCursorRow(row int, autoScroll, byMouse bool) {
	cx := e.cx()
	cx.currentRow = e.clampRow(cx, row)
	cx.currentCol = cx.current().Snap(cx.currentColHint)
	e.updateCursorPos(cx, true, true, autoScroll)
}

// SetCursorCol moves within the current line. A mouse click keeps the
// requested column as the hint even past the end of a short line.
func (e *Engine) SetCursorCol(col int, autoScroll, byMouse bool) {
	cx := e.cx()
	col = max(0, col)
	cx.currentCol = cx.current().Snap(col)
	if byMouse {
		cx.currentColHint = col
	} else {
		cx.currentColHint = cx.currentCol
	}
	e.updateCursorPos(cx, false, true, autoScroll)
}

func (e *Engine) SetCursorPos(row, col int) {
	cx := e.cx()
	cx.currentRow = e.clampRow(cx, row)
	cx.currentCol = cx.current().Snap(max(0, col))
	cx.currentColHint = cx.currentCol
	e.updateCursorPos(cx, true, true, true)
}

// beginMove applies the shift modifier before a cursor move: shift starts or
// keeps an easy selection, a plain move drops one. Hard selections persist.
func (e *Engine) beginMove() {
	cx := e.cx()
	if e.IsShiftModifierPressed() {
		if !cx.sel.origin.IsEnabled() {
			cx.sel.start(AnchorEasy, cx.currentRow, cx.currentCol)
		}
		return
	}
	if cx.sel.mode() == AnchorEasy {
		cx.sel.clear()
	}
}

func (e *Engine) MoveCursorUp() {
	e.beginMove()
	cx := e.cx()
	if cx.currentRow > 0 {
		e.SetCursorRow(cx.currentRow-1, true, false)
		return
	}
	e.updateVisibility(false, false, false)
}

func (e *Engine) MoveCursorDown() {
	e.beginMove()
	cx := e.cx()
	if cx.currentRow+1 < cx.lines() {
		e.SetCursorRow(cx.currentRow+1, true, false)
		return
	}
	e.updateVisibility(false, false, false)
}

// MoveCursorLeft steps back one glyph, wrapping to the end of the previous
// line.
func (e *Engine) MoveCursorLeft() {
	e.beginMove()
	cx := e.cx()
	if cx.currentCol > 0 {
		e.SetCursorCol(cx.current().PrevColumn(cx.currentCol), true, false)
		return
	}
	if cx.currentRow > 0 {
		row := cx.currentRow - 1
		e.SetCursorPos(row, cx.parsed(row).Width)
		return
	}
	e.updateVisibility(false, false, false)
}

// MoveCursorRight steps over one glyph, wrapping to the start of the next
// line.
func (e *Engine) MoveCursorRight() {
	e.beginMove()
	cx := e.cx()
	p := cx.current()
	if cx.currentCol < p.Width {
		e.SetCursorCol(p.NextColumn(cx.currentCol), true, false)
		return
	}
	if cx.currentRow+1 < cx.lines() {
		e.SetCursorPos(cx.currentRow+1, 0)
		return
	}
	e.updateVisibility(false, false, false)
}

func (e *Engine) MoveCursorHome() {
	e.beginMove()
	e.SetCursorCol(0, true, false)
}

func (e *Engine) MoveCursorEnd() {
	e.beginMove()
	e.SetCursorCol(e.cx().current().Width, true, false)
}

func (e *Engine) pageStep(cx *textContext) int {
	return max(1, cx.viewportHeight-1)
}

// MovePageUp moves the cursor and the view by one page, keeping one line of
// overlap.
func (e *Engine) MovePageUp() {
	e.beginMove()
	cx := e.cx()
	step := e.pageStep(cx)
	cx.scrollRowPos = max(0, cx.scrollRowPos-step)
	e.SetCursorRow(cx.currentRow-step, true, false)
}

func (e *Engine) MovePageDown() {
	e.beginMove()
	cx := e.cx()
	step := e.pageStep(cx)
	cx.scrollRowPos = min(e.ScrollBottomLimit(), cx.scrollRowPos+step)
	e.SetCursorRow(cx.currentRow+step, true, false)
}

func (e *Engine) MoveToTop() {
	e.beginMove()
	cx := e.cx()
	cx.scrollRowPos = 0
	cx.currentColHint = 0
	e.SetCursorPos(0, 0)
}

func (e *Engine) MoveToBottom() {
	e.beginMove()
	cx := e.cx()
	cx.currentColHint = 0
	e.SetCursorPos(cx.lines()-1, 0)
}

// LogicalMoveToBottom puts the cursor at the end of the last line without
// scrolling or repainting.
func (e *Engine) LogicalMoveToBottom() {
	cx := e.cx()
	cx.currentRow = cx.lines() - 1
	cx.currentCol = cx.current().Width
	cx.currentColHint = cx.currentCol
	cx.currentCharSpan = 1
}

func (e *Engine) IsBottom() bool {
	cx := e.cx()
	return cx.currentRow == cx.lines()-1
}

// ScrollBottomLimit is the largest first visible row: the view may scroll
// until half a page of the document is left.
func (e *Engine) ScrollBottomLimit() int {
	cx := e.cx()
	if cx.singleLine {
		return 0
	}
	return max(0, cx.lines()-cx.viewportHeight/2)
}

func (e *Engine) ScrollUp() {
	cx := e.cx()
	if cx.scrollRowPos > 0 {
		cx.scrollRowPos--
	}
	e.updateVisibility(false, false, false)
}

func (e *Engine) ScrollDown() {
	cx := e.cx()
	if cx.scrollRowPos < e.ScrollBottomLimit() {
		cx.scrollRowPos++
	}
	e.updateVisibility(false, false, false)
}

func (e *Engine) ScrollLeft() {
	cx := e.cx()
	if cx.scrollColPos > 0 {
		cx.scrollColPos--
	}
	e.updateVisibility(false, false, false)
}

func (e *Engine) ScrollRight() {
	cx := e.cx()
	cx.scrollColPos++
	e.updateVisibility(false, false, false)
}

func (e *Engine) ScrollToTop() {
	cx := e.cx()
	cx.scrollRowPos = 0
	e.updateVisibility(false, false, false)
}

// DecideColumnScrollPos returns the horizontal scroll offset that shows the
// cursor with the scroll margins kept on both sides. Column 0 stays flush
// with the left edge.
func (e *Engine) DecideColumnScrollPos() int {
	cx := e.cx()
	left, right := e.margins(cx)
	pos := cx.scrollColPos
	x := cx.currentCol
	if x < pos+left {
		pos = x - left
	}
	span := max(1, cx.currentCharSpan)
	if x+span > pos+cx.viewportWidth-right {
		pos = x + span - cx.viewportWidth + right
	}
	return max(0, pos)
}

// EnsureCurrentLineVisible scrolls the least amount that brings the cursor
// into the viewport.
func (e *Engine) EnsureCurrentLineVisible() {
	cx := e.cx()
	if cx.currentRow < cx.scrollRowPos {
		cx.scrollRowPos = cx.currentRow
	} else if cx.currentRow >= cx.scrollRowPos+cx.viewportHeight {
		cx.scrollRowPos = cx.currentRow - cx.viewportHeight + 1
	}
	cx.scrollRowPos = max(0, min(cx.scrollRowPos, max(e.ScrollBottomLimit(), cx.currentRow)))
	cx.scrollColPos = e.DecideColumnScrollPos()
}

// SavePos remembers the cursor of the active context. A second call replaces
// the first.
func (e *Engine) SavePos() {
	cx := e.cx()
	cx.savedRow = cx.currentRow
	cx.savedCol = cx.currentCol
	cx.savedColHint = cx.currentColHint
}

func (e *Engine) RestorePos() {
	cx := e.cx()
	cx.currentRow = e.clampRow(cx, cx.savedRow)
	cx.currentCol = cx.current().Snap(cx.savedCol)
	cx.currentColHint = cx.savedColHint
	e.updateCursorPos(cx, true, true, true)
}
