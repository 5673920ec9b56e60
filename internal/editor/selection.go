package editor

// SetSelectionAnchor starts a selection of the given mode at the cursor.
// With updateAnchor false an existing selection keeps its origin and only
// changes mode. AnchorNone deselects.
func (e *Engine) SetSelectionAnchor(mode AnchorMode, updateAnchor, autoScroll bool) {
	cx := e.cx()
	if mode == AnchorNone {
		e.deselect()
		return
	}
	if updateAnchor || !cx.sel.origin.IsEnabled() {
		cx.sel.start(mode, cx.currentRow, cx.currentCol)
	} else {
		cx.sel.origin.Enabled = mode
		cx.sel.update(cx.currentRow, cx.currentCol)
	}
	e.updateVisibility(false, false, autoScroll)
}

// ToggleSelectionAnchor starts a hard selection at the cursor, or drops the
// current one.
func (e *Engine) ToggleSelectionAnchor() {
	if !e.toggleSelectionEnabled {
		return
	}
	if e.cx().sel.origin.IsEnabled() {
		e.deselect()
		return
	}
	e.SetSelectionAnchor(AnchorHard, true, false)
}

func (e *Engine) IsSelectionAnchorEnabled() bool {
	return e.cx().sel.origin.IsEnabled()
}

// SelectionAnchors returns the ordered ends of the active context's
// selection.
func (e *Engine) SelectionAnchors() (SelectionAnchor, SelectionAnchor) {
	cx := e.cx()
	return cx.sel.a0, cx.sel.a1
}

func (e *Engine) deselect() {
	e.cx().sel.clear()
	e.updateVisibility(false, false, false)
}
