package editor

import (
	"github.com/kobzarvs/cedit/internal/document"
	"github.com/kobzarvs/cedit/internal/logger"
)

func (e *Engine) IsDialogMode() bool {
	return e.dialogMode
}

// DialogValue is the text currently typed in the dialog.
func (e *Engine) DialogValue() string {
	if e.dialogCx == nil {
		return ""
	}
	return string(e.dialogCx.doc.Line(0).Text)
}

// ExecDialog opens a one-line prompt holding value and returns at once.
// handler runs exactly once, from PressEnter or PressEscape. Opening a dialog
// while one is open cancels the first.
func (e *Engine) ExecDialog(title, value string, handler DialogHandler) {
	if e.dialogMode {
		e.closeDialog(false)
	}
	cx := newTextContext(document.FromLines([]document.Line{document.NewLine(value)}), e.tabSpan)
	cx.singleLine = true
	e.dialogTitle = title
	e.dialogHandler = handler
	e.layoutDialog(cx)
	e.dialogCx = cx
	e.dialogMode = true
	logger.Debug("dialog opened", "title", title)
	e.moveTo(cx, 0, cx.current().Width)
	e.updateCursorPos(cx, true, true, true)
}

// PressEnter commits the dialog, or splits the line in the editor.
func (e *Engine) PressEnter() {
	if e.dialogMode {
		e.closeDialog(true)
		return
	}
	e.WriteNewLine()
}

// PressEscape cancels the dialog, or drops the selection in the editor.
func (e *Engine) PressEscape() {
	if e.dialogMode {
		e.closeDialog(false)
		return
	}
	e.deselect()
}

// closeDialog leaves dialog mode before calling the handler, so the handler
// may open another dialog.
func (e *Engine) closeDialog(ok bool) {
	if !e.dialogMode {
		return
	}
	value := ""
	if ok {
		value = e.DialogValue()
	}
	handler := e.dialogHandler
	e.dialogHandler = nil
	e.dialogMode = false
	e.dialogCx = nil
	e.dialogTitle = ""
	logger.Debug("dialog closed", "ok", ok)
	e.updateVisibility(true, true, true)
	if handler != nil {
		handler(ok, value)
	}
}

// OpenFileDialog asks for a path and opens it.
func (e *Engine) OpenFileDialog() {
	e.ExecDialog("Open File", e.recentPath, func(ok bool, value string) {
		if !ok || value == "" {
			return
		}
		if err := e.OpenFile(value); err != nil {
			logger.Error("open failed", "path", value, "error", err)
			e.setStatus(err.Error())
			e.updateVisibility(false, false, false)
		}
	})
}

// SaveFileDialog asks for a path, defaulting to the current file, and saves
// to it.
func (e *Engine) SaveFileDialog() {
	path := e.path
	if path == "" {
		path = e.recentPath
	}
	e.ExecDialog("Save File", path, func(ok bool, value string) {
		if !ok || value == "" {
			return
		}
		if err := e.SaveFile(value); err != nil {
			logger.Error("save failed", "path", value, "error", err)
			e.setStatus(err.Error())
			e.updateVisibility(false, false, false)
		}
	})
}
