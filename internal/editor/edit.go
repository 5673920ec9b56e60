package editor

import (
	"bytes"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/kobzarvs/cedit/internal/document"
	"github.com/kobzarvs/cedit/internal/logger"
)

// clipboardNewline separates lines in the clipboard.
var clipboardNewline = Char{Unicode: '\n', Pos: -1}

// IsCurrentLineWritable reports whether edits at the cursor are allowed. The
// dialog line is always writable; the editor is not when read-only, and in
// terminal mode only its last line is.
func (e *Engine) IsCurrentLineWritable() bool {
	cx := e.cx()
	if e.dialogMode {
		return cx.currentRow == 0
	}
	if e.readOnly {
		return false
	}
	if e.terminalMode && !e.IsBottom() {
		return false
	}
	return true
}

// modified drops the parse cache and renumbers after a buffer change.
func (e *Engine) modified(cx *textContext) {
	cx.invalidate()
	cx.doc.Renumber()
	if cx == e.editorCx {
		e.changed = true
	}
}

// moveTo places the cursor without notifying the host.
func (e *Engine) moveTo(cx *textContext, row, col int) {
	cx.currentRow = e.clampRow(cx, row)
	cx.currentCol = cx.current().Snap(col)
	cx.currentColHint = cx.currentCol
}

// Write handles one codepoint of input. Control codes are dispatched as
// commands; anything else is inserted or overwritten at the cursor.
func (e *Engine) Write(c uint32, byKeyboard bool) {
	if byKeyboard {
		e.status = ""
	}
	switch {
	case c == '\r' || c == '\n':
		if e.terminalMode && !e.dialogMode {
			e.AddNewLineToBottom()
			return
		}
		e.PressEnter()
		return
	case c == 0x08 || c == 0x7f:
		e.DoBackspace()
		return
	case c == 0x1b:
		e.PressEscape()
		return
	case c == '\t':
	case c >= 1 && c <= 26:
		e.pressLetterWithControl(rune('a' + c - 1))
		return
	case c < 0x20:
		return
	}
	if e.IsControlModifierPressed() && isControlLetter(c) {
		e.pressLetterWithControl(unicode.ToLower(rune(c)))
		return
	}
	if e.terminalMode && !e.dialogMode && !e.IsBottom() {
		e.LogicalMoveToBottom()
	}
	if !e.IsCurrentLineWritable() {
		return
	}
	r := rune(c)
	if c > utf8.MaxRune || utf16.IsSurrogate(r) {
		r = utf8.RuneError
	}
	cx := e.cx()
	e.deleteIfSelected()
	buf := utf8.AppendRune(nil, r)
	if e.writeMode == WriteOverwrite {
		e.overwrite(cx, buf, CharWidth(uint32(r)))
	} else {
		e.insertText(cx, buf)
	}
	e.updateCursorPos(cx, true, true, true)
}

// WriteBytes decodes escape sequences and UTF-8 text from b and feeds them
// to the engine. An unfinished sequence at the end of b is held until the
// next call.
func (e *Engine) WriteBytes(b []byte, byKeyboard bool) {
	if len(e.pendingEscape) > 0 {
		b = append(e.pendingEscape, b...)
		e.pendingEscape = nil
	}
	inputs, rest := e.escapes.DecodePrefix(b)
	if len(rest) > 0 {
		e.pendingEscape = append([]byte(nil), rest...)
	}
	for _, in := range inputs {
		if in.Cmd != CmdNone {
			e.Exec(in.Cmd)
			continue
		}
		for t := in.Text; len(t) > 0; {
			r, size := utf8.DecodeRune(t)
			e.Write(uint32(r), byKeyboard)
			t = t[size:]
		}
	}
}

func (e *Engine) WriteString(s string) {
	e.WriteBytes([]byte(s), false)
}

// WriteUTF16 joins surrogate pairs before writing. A high surrogate at the
// end of units waits for the next call.
func (e *Engine) WriteUTF16(units []uint16, byKeyboard bool) {
	for _, u := range units {
		r := rune(u)
		switch {
		case r >= 0xD800 && r < 0xDC00:
			if e.pendingHigh != 0 {
				e.Write(utf8.RuneError, byKeyboard)
			}
			e.pendingHigh = u
		case utf16.IsSurrogate(r):
			if e.pendingHigh == 0 {
				e.Write(utf8.RuneError, byKeyboard)
				continue
			}
			full := utf16.DecodeRune(rune(e.pendingHigh), r)
			e.pendingHigh = 0
			e.Write(uint32(full), byKeyboard)
		default:
			if e.pendingHigh != 0 {
				e.pendingHigh = 0
				e.Write(utf8.RuneError, byKeyboard)
			}
			e.Write(uint32(r), byKeyboard)
		}
	}
}

// insertText splices text at the cursor and leaves the cursor after it. A
// single-line context drops line breaks.
func (e *Engine) insertText(cx *textContext, text []byte) {
	if cx.singleLine {
		text = bytes.ReplaceAll(text, []byte{'\n'}, nil)
	}
	row := cx.currentRow
	off := cx.current().ByteOffsetOf(cx.currentCol)
	line := cx.doc.Line(row)
	parts := bytes.Split(text, []byte{'\n'})
	if len(parts) == 1 {
		line.Splice(off, 0, text)
		e.modified(cx)
		e.moveTo(cx, row, cx.current().ColumnOf(off+len(text)))
		return
	}
	tail := line.SplitAt(off)
	line.Splice(len(line.Text), 0, parts[0])
	last := parts[len(parts)-1]
	tail.Splice(0, 0, last)
	added := make([]document.Line, 0, len(parts)-1)
	for _, p := range parts[1 : len(parts)-1] {
		added = append(added, document.NewLine(string(p)))
	}
	added = append(added, tail)
	cx.doc.Insert(row+1, added...)
	e.modified(cx)
	endRow := row + len(parts) - 1
	e.moveTo(cx, endRow, cx.parsed(endRow).ColumnOf(len(last)))
}

// overwrite replaces the glyphs under the columns the new glyph will cover.
// Columns of a wider glyph or tab that are left over become spaces so the
// rest of the line keeps its columns. At the end of the line it inserts.
func (e *Engine) overwrite(cx *textContext, buf []byte, w int) {
	p := cx.current()
	col := cx.currentCol
	if col >= p.Width || w == 0 {
		e.insertText(cx, buf)
		return
	}
	end := col
	for end < col+w && end < p.Width {
		next := p.NextColumn(end)
		if next <= end {
			break
		}
		end = next
	}
	start := p.ByteOffsetOf(col)
	stop := p.ByteOffsetOf(end)
	ins := buf
	if end > col+w {
		ins = append(ins, bytes.Repeat([]byte{' '}, end-col-w)...)
	}
	cx.doc.Line(cx.currentRow).Splice(start, stop-start, ins)
	e.modified(cx)
	e.moveTo(cx, cx.currentRow, col+w)
}

// collectRange copies the units between two anchors, with a newline unit
// between lines.
func (e *Engine) collectRange(cx *textContext, a0, a1 SelectionAnchor) []Char {
	var out []Char
	for row := a0.Row; row <= a1.Row && row < cx.lines(); row++ {
		p := Parse(cx.doc.Line(row).Text, cx.tabSpan)
		from, to := 0, p.Width
		if row == a0.Row {
			from = a0.Col
		}
		if row == a1.Row {
			to = a1.Col
		}
		if row > a0.Row {
			out = append(out, clipboardNewline)
		}
		out = append(out, p.Slice(from, to)...)
	}
	return out
}

// deleteRange removes the text between two ordered anchors and joins the
// boundary lines.
func (e *Engine) deleteRange(cx *textContext, a0, a1 SelectionAnchor) {
	r0 := e.clampRow(cx, a0.Row)
	r1 := e.clampRow(cx, a1.Row)
	first := cx.doc.Line(r0)
	start := Parse(first.Text, cx.tabSpan).ByteOffsetOf(a0.Col)
	last := cx.doc.Line(r1)
	stop := Parse(last.Text, cx.tabSpan).ByteOffsetOf(a1.Col)
	if r0 == r1 {
		if stop > start {
			first.Splice(start, stop-start, nil)
		}
		return
	}
	tail := last.Clone()
	tail.Splice(0, stop, nil)
	first.Splice(start, len(first.Text)-start, nil)
	first.Join(tail)
	cx.doc.Delete(r0+1, r1-r0)
}

// deleteIfSelected removes a non-empty selection and puts the cursor at its
// start. The host is not notified.
func (e *Engine) deleteIfSelected() bool {
	cx := e.cx()
	if cx.sel.empty() {
		return false
	}
	a0, a1 := cx.sel.a0, cx.sel.a1
	cx.sel.clear()
	e.deleteRange(cx, a0, a1)
	e.modified(cx)
	e.moveTo(cx, a0.Row, a0.Col)
	return true
}

// DoDelete removes the glyph under the cursor, or joins the next line at the
// end of a line. A selection is deleted instead.
func (e *Engine) DoDelete() {
	if !e.IsCurrentLineWritable() {
		return
	}
	cx := e.cx()
	if e.deleteIfSelected() {
		e.updateCursorPos(cx, true, true, true)
		return
	}
	p := cx.current()
	line := cx.doc.Line(cx.currentRow)
	switch {
	case cx.currentCol < p.Width:
		off := p.ByteOffsetOf(cx.currentCol)
		next := p.ByteOffsetOf(p.NextColumn(cx.currentCol))
		line.Splice(off, next-off, nil)
	case !cx.singleLine && cx.currentRow+1 < cx.lines():
		line.Join(*cx.doc.Line(cx.currentRow + 1))
		cx.doc.Delete(cx.currentRow+1, 1)
	default:
		return
	}
	e.modified(cx)
	e.moveTo(cx, cx.currentRow, cx.currentCol)
	e.updateCursorPos(cx, false, true, true)
}

// DoBackspace removes the glyph before the cursor, or joins the line onto the
// previous one at column 0. A selection is deleted instead.
func (e *Engine) DoBackspace() {
	if !e.IsCurrentLineWritable() {
		return
	}
	cx := e.cx()
	if e.deleteIfSelected() {
		e.updateCursorPos(cx, true, true, true)
		return
	}
	row, col := cx.currentRow, cx.currentCol
	switch {
	case col > 0:
		p := cx.current()
		prev := p.PrevColumn(col)
		off := p.ByteOffsetOf(prev)
		stop := p.ByteOffsetOf(col)
		cx.doc.Line(row).Splice(off, stop-off, nil)
		e.modified(cx)
		e.moveTo(cx, row, prev)
	case !cx.singleLine && row > 0:
		above := cx.doc.Line(row - 1)
		width := Parse(above.Text, cx.tabSpan).Width
		above.Join(*cx.doc.Line(row))
		cx.doc.Delete(row, 1)
		e.modified(cx)
		e.moveTo(cx, row-1, width)
	default:
		return
	}
	e.updateCursorPos(cx, true, true, true)
}

// splitLine breaks row at the byte offset off. The new line is untagged.
func (e *Engine) splitLine(cx *textContext, row, off int) {
	tail := cx.doc.Line(row).SplitAt(off)
	cx.doc.Insert(row+1, tail)
	e.modified(cx)
}

// WriteNewLine splits the current line at the cursor and moves to the start
// of the new line.
func (e *Engine) WriteNewLine() {
	if !e.IsCurrentLineWritable() {
		return
	}
	cx := e.cx()
	if cx.singleLine {
		return
	}
	e.deleteIfSelected()
	row := cx.currentRow
	e.splitLine(cx, row, cx.current().ByteOffsetOf(cx.currentCol))
	e.moveTo(cx, row+1, 0)
	e.updateCursorPos(cx, true, true, true)
}

// AppendNewLine opens an empty line below the current one, leaving the
// current line intact.
func (e *Engine) AppendNewLine() {
	if !e.IsCurrentLineWritable() {
		return
	}
	cx := e.cx()
	if cx.singleLine {
		return
	}
	row := cx.currentRow
	e.splitLine(cx, row, len(cx.doc.Line(row).Text))
	e.moveTo(cx, row+1, 0)
	e.updateCursorPos(cx, true, true, true)
}

// AddNewLineToBottom appends an empty line to the document and moves there.
func (e *Engine) AddNewLineToBottom() {
	cx := e.cx()
	if e.readOnly || cx.singleLine {
		return
	}
	cx.doc.Insert(cx.lines(), document.NewLine(""))
	e.modified(cx)
	e.moveTo(cx, cx.lines()-1, 0)
	e.updateCursorPos(cx, true, true, true)
}

type editOperation int

const (
	editCut editOperation = iota
	editCopy
)

func (e *Engine) editSelected(op editOperation) {
	cx := e.cx()
	if cx.sel.empty() {
		return
	}
	a0, a1 := cx.sel.a0, cx.sel.a1
	e.clipboard = e.collectRange(cx, a0, a1)
	e.mirrorClipboard()
	if op == editCopy {
		e.updateVisibility(false, false, false)
		return
	}
	cx.sel.clear()
	e.deleteRange(cx, a0, a1)
	e.modified(cx)
	e.moveTo(cx, a0.Row, a0.Col)
	e.updateCursorPos(cx, true, true, true)
}

func (e *Engine) mirrorClipboard() {
	if e.clipboardSink == nil {
		return
	}
	if err := e.clipboardSink(string(EncodeChars(e.clipboard))); err != nil {
		logger.Warn("clipboard sink failed", "error", err)
	}
}

// EditCut moves the selection to the clipboard.
func (e *Engine) EditCut() {
	if !e.IsCurrentLineWritable() {
		return
	}
	e.editSelected(editCut)
}

// EditCopy copies the selection to the clipboard and keeps it selected.
func (e *Engine) EditCopy() {
	e.editSelected(editCopy)
}

// EditPaste inserts the clipboard at the cursor, replacing a selection.
func (e *Engine) EditPaste() {
	if !e.IsCurrentLineWritable() || len(e.clipboard) == 0 {
		return
	}
	cx := e.cx()
	e.deleteIfSelected()
	e.insertText(cx, EncodeChars(e.clipboard))
	e.updateCursorPos(cx, true, true, true)
}

// Clipboard returns a copy of the clipboard units.
func (e *Engine) Clipboard() []Char {
	return append([]Char(nil), e.clipboard...)
}

func (e *Engine) ClipboardText() string {
	return string(EncodeChars(e.clipboard))
}
