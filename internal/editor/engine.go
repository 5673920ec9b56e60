package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kobzarvs/cedit/internal/codec"
	"github.com/kobzarvs/cedit/internal/config"
	"github.com/kobzarvs/cedit/internal/document"
	"github.com/kobzarvs/cedit/internal/logger"
)

// DefaultLineNumberWidth is the gutter width used when the configuration
// gives none.
const DefaultLineNumberWidth = 8

type WriteMode int

const (
	WriteInsert WriteMode = iota
	WriteOverwrite
)

func (m WriteMode) String() string {
	if m == WriteOverwrite {
		return "OVR"
	}
	return "INS"
}

type State int

const (
	StateNormal State = iota
	StateExit
)

type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModControl
)

type AttrIndex int

const (
	AttrNormal AttrIndex = iota
	AttrInvert
	AttrHilite
)

type AttrFlags int

const (
	FlagSelected AttrFlags = 1 << iota
	FlagCurrentLine
	FlagLineNumber
)

// CharAttr describes how a printed cell is drawn. Color is a colour override
// id or NoStyle; Line is the diff tag of the document line being painted.
type CharAttr struct {
	Index AttrIndex
	Flags AttrFlags
	Color int
	Line  document.LineType
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Option is passed to every Print call. An empty Clip means the whole
// screen.
type Option struct {
	Attr CharAttr
	Clip Rect
}

// Printer draws text at a screen cell and returns the number of columns the
// text advanced.
type Printer interface {
	Print(x, y int, text string, opt Option) int
}

// Host owns the display. UpdateVisibility is called after every change that
// may need a re-scroll or repaint; the host usually answers with Refresh.
type Host interface {
	Printer
	UpdateVisibility(ensureCurrentLineVisible, changeCol, autoScroll bool)
}

// DialogHandler receives the outcome of a dialog exactly once.
type DialogHandler func(ok bool, value string)

type Engine struct {
	host   Host
	screen *CharScreen

	editorCx *textContext
	dialogCx *textContext

	dialogMode    bool
	dialogTitle   string
	dialogHandler DialogHandler

	clipboard     []Char
	clipboardSink func(string) error

	controlKeys map[rune]Command
	escapes     *EscapeMatcher
	pendingHigh uint16

	// pendingEscape holds an unfinished escape sequence from WriteBytes.
	pendingEscape []byte

	state        State
	readOnly     bool
	writeMode    WriteMode
	changed      bool
	modifiers    Modifiers
	terminalMode bool

	toggleSelectionEnabled bool

	tabSpan     int
	leftMargin  int
	rightMargin int

	screenWidth     int
	screenHeight    int
	autoLayout      bool
	showLines       bool
	lineNumberWidth int
	showHeader      bool
	showFooter      bool

	cursorVisible      bool
	paintingSuppressed bool

	codec      *codec.Codec
	path       string
	recentPath string
	branch     string
	status     string
}

func New(cfg config.Config) *Engine {
	tabSpan := cfg.Editor.TabWidth
	if tabSpan < 1 {
		tabSpan = 1
	}
	c, err := codec.Lookup(cfg.Editor.Codec)
	if err != nil {
		logger.Warn("falling back to utf-8", "codec", cfg.Editor.Codec, "error", err)
		c = codec.UTF8()
	}
	lineNumberWidth := cfg.Editor.LineNumberWidth
	if lineNumberWidth < 1 {
		lineNumberWidth = DefaultLineNumberWidth
	}
	e := &Engine{
		screen:                 NewCharScreen(80, 24),
		editorCx:               newTextContext(document.New(), tabSpan),
		controlKeys:            controlKeymap(cfg.Keymap.Control),
		escapes:                DefaultEscapeMatcher(),
		readOnly:               cfg.Editor.ReadOnly,
		toggleSelectionEnabled: true,
		tabSpan:                tabSpan,
		leftMargin:             cfg.Editor.ScrollLeftMargin,
		rightMargin:            cfg.Editor.ScrollRightMargin,
		screenWidth:            80,
		screenHeight:           24,
		autoLayout:             true,
		showLines:              cfg.Editor.LineNumbers,
		lineNumberWidth:        lineNumberWidth,
		showHeader:             cfg.Editor.Header,
		showFooter:             cfg.Editor.Footer,
		cursorVisible:          true,
		codec:                  c,
	}
	if strings.EqualFold(cfg.Editor.WriteMode, "overwrite") {
		e.writeMode = WriteOverwrite
	}
	e.LayoutEditor()
	return e
}

func controlKeymap(m map[string]string) map[rune]Command {
	out := make(map[rune]Command, len(m))
	for k, v := range m {
		r := []rune(strings.ToLower(strings.TrimSpace(k)))
		if len(r) != 1 {
			logger.Warn("ignoring control key binding", "key", k)
			continue
		}
		cmd, ok := ParseCommand(v)
		if !ok {
			logger.Warn("ignoring unknown command", "key", k, "command", v)
			continue
		}
		out[r[0]] = cmd
	}
	return out
}

// SetHost installs the display. A nil host makes the engine paint into its
// own CharScreen.
func (e *Engine) SetHost(h Host) {
	e.host = h
}

// SetClipboardSink mirrors every cut and copy to f as UTF-8 text.
func (e *Engine) SetClipboardSink(f func(string) error) {
	e.clipboardSink = f
}

// cx is the context commands act on: the dialog while one is open.
func (e *Engine) cx() *textContext {
	if e.dialogMode && e.dialogCx != nil {
		return e.dialogCx
	}
	return e.editorCx
}

func (e *Engine) Document() *document.Document {
	return e.editorCx.doc
}

func (e *Engine) DocumentLines() int {
	return e.cx().lines()
}

// SetDocument replaces the editor buffer with copies of lines and resets the
// editor context.
func (e *Engine) SetDocument(lines []document.Line) {
	tabSpan := e.editorCx.tabSpan
	cx := newTextContext(document.FromLines(lines), tabSpan)
	cx.viewportOrgX = e.editorCx.viewportOrgX
	cx.viewportOrgY = e.editorCx.viewportOrgY
	cx.viewportWidth = e.editorCx.viewportWidth
	cx.viewportHeight = e.editorCx.viewportHeight
	e.editorCx = cx
	e.changed = false
	e.updateCursorPos(cx, true, true, true)
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) SetReadOnly(f bool) {
	e.readOnly = f
}

func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

func (e *Engine) SetWriteMode(m WriteMode) {
	e.writeMode = m
	e.updateVisibility(false, false, false)
}

func (e *Engine) IsInsertMode() bool {
	return e.writeMode == WriteInsert
}

func (e *Engine) IsOverwriteMode() bool {
	return e.writeMode == WriteOverwrite
}

func (e *Engine) toggleWriteMode() {
	if e.writeMode == WriteInsert {
		e.SetWriteMode(WriteOverwrite)
		return
	}
	e.SetWriteMode(WriteInsert)
}

// SetTerminalMode makes typed input always land on the last line, the way a
// console log grows.
func (e *Engine) SetTerminalMode(f bool) {
	e.terminalMode = f
}

func (e *Engine) IsTerminalMode() bool {
	return e.terminalMode
}

func (e *Engine) IsChanged() bool {
	return e.changed
}

func (e *Engine) SetChanged(f bool) {
	e.changed = f
}

func (e *Engine) SetModifierKeys(m Modifiers) {
	e.modifiers = m
}

func (e *Engine) IsShiftModifierPressed() bool {
	return e.modifiers&ModShift != 0
}

func (e *Engine) IsControlModifierPressed() bool {
	return e.modifiers&ModControl != 0
}

func (e *Engine) ClearShiftModifier() {
	e.modifiers &^= ModShift
}

func (e *Engine) SetCursorVisible(f bool) {
	e.cursorVisible = f
	e.updateVisibility(false, false, false)
}

func (e *Engine) IsCursorVisible() bool {
	return e.cursorVisible
}

func (e *Engine) IsPaintingSuppressed() bool {
	return e.paintingSuppressed
}

// SetPaintingSuppressed stops Paint from drawing. Turning it back off
// repaints once.
func (e *Engine) SetPaintingSuppressed(f bool) {
	e.paintingSuppressed = f
	if !f {
		e.updateVisibility(false, false, false)
	}
}

func (e *Engine) SetToggleSelectionAnchorEnabled(f bool) {
	e.toggleSelectionEnabled = f
}

// SetScrollMargins sets how many columns the cursor keeps from the left and
// right viewport edges.
func (e *Engine) SetScrollMargins(left, right int) {
	e.leftMargin = max(0, left)
	e.rightMargin = max(0, right)
}

func (e *Engine) ScreenWidth() int {
	return e.screenWidth
}

func (e *Engine) ScreenHeight() int {
	return e.screenHeight
}

// Screen is the in-memory printer used when no host is installed.
func (e *Engine) Screen() *CharScreen {
	return e.screen
}

func (e *Engine) SetScreenSize(w, h int, updateLayout bool) {
	e.screenWidth = max(1, w)
	e.screenHeight = max(1, h)
	e.screen.Resize(e.screenWidth, e.screenHeight)
	if updateLayout || e.autoLayout {
		e.LayoutEditor()
	}
	e.updateVisibility(true, true, true)
}

func (e *Engine) SetAutoLayout(f bool) {
	e.autoLayout = f
}

func (e *Engine) IsAutoLayout() bool {
	return e.autoLayout
}

func (e *Engine) IsLineNumberVisible() bool {
	return e.showLines
}

// ShowLineNumber toggles the number gutter. width < 1 keeps the current
// width.
func (e *Engine) ShowLineNumber(show bool, width int) {
	e.showLines = show
	if width > 0 {
		e.lineNumberWidth = width
	}
	e.relayout()
}

func (e *Engine) SetLineMargin(n int) {
	if n > 0 {
		e.lineNumberWidth = n
	}
	e.relayout()
}

func (e *Engine) ShowHeader(f bool) {
	e.showHeader = f
	e.relayout()
}

func (e *Engine) ShowFooter(f bool) {
	e.showFooter = f
	e.relayout()
}

func (e *Engine) relayout() {
	if e.autoLayout {
		e.LayoutEditor()
	}
	e.updateVisibility(true, true, true)
}

// SetNormalTextEditorMode switches between a plain editor (header, footer,
// numbers, writable) and a bare read-only viewer.
func (e *Engine) SetNormalTextEditorMode(f bool) {
	e.autoLayout = true
	e.showHeader = f
	e.showFooter = f
	e.showLines = f
	e.toggleSelectionEnabled = f
	e.readOnly = !f
	e.relayout()
}

// LayoutEditor recomputes the editor viewport from the screen size and the
// visible chrome.
func (e *Engine) LayoutEditor() {
	cx := e.editorCx
	top := 0
	if e.showHeader {
		top = 1
	}
	bottom := 0
	if e.showFooter {
		bottom = 1
	}
	left := 0
	if e.showLines {
		left = min(e.lineNumberWidth, e.screenWidth-1)
	}
	cx.viewportOrgX = left
	cx.viewportOrgY = top
	cx.viewportWidth = max(1, e.screenWidth-left)
	cx.viewportHeight = max(1, e.screenHeight-top-bottom)
	if e.dialogCx != nil {
		e.layoutDialog(e.dialogCx)
	}
}

func (e *Engine) layoutDialog(cx *textContext) {
	cx.viewportOrgX = min(StringWidth(e.dialogTitle)+2, e.screenWidth-1)
	cx.viewportOrgY = e.screenHeight - 1
	cx.viewportWidth = max(1, e.screenWidth-cx.viewportOrgX)
	cx.viewportHeight = 1
}

// CursorX and CursorY give the screen cell of the cursor of the active
// context.
func (e *Engine) CursorX() int {
	cx := e.cx()
	return cx.viewportOrgX + cx.currentCol - cx.scrollColPos
}

func (e *Engine) CursorY() int {
	cx := e.cx()
	return cx.viewportOrgY + cx.currentRow - cx.scrollRowPos
}

func (e *Engine) CurrentRow() int {
	return e.cx().currentRow
}

func (e *Engine) CurrentCol() int {
	return e.cx().currentCol
}

func (e *Engine) CurrentColHint() int {
	return e.cx().currentColHint
}

// CurrentCharSpan is the number of columns of the glyph under the cursor.
func (e *Engine) CurrentCharSpan() int {
	return e.cx().currentCharSpan
}

func (e *Engine) ScrollPos() (row, col int) {
	cx := e.cx()
	return cx.scrollRowPos, cx.scrollColPos
}

// SetScrollPos sets the first visible row and column of the active context.
// The cursor is not moved.
func (e *Engine) SetScrollPos(row, col int) {
	cx := e.cx()
	cx.scrollRowPos = max(0, min(row, e.ScrollBottomLimit()))
	cx.scrollColPos = max(0, col)
	e.updateVisibility(false, false, false)
}

func (e *Engine) Viewport() Rect {
	cx := e.cx()
	return Rect{X: cx.viewportOrgX, Y: cx.viewportOrgY, W: cx.viewportWidth, H: cx.viewportHeight}
}

// SetBranch sets the VCS branch shown in the header.
func (e *Engine) SetBranch(name string) {
	if e.branch == name {
		return
	}
	e.branch = name
	e.updateVisibility(false, false, false)
}

func (e *Engine) setStatus(msg string) {
	e.status = msg
}

func (e *Engine) Status() string {
	return e.status
}

// StatusLine is the text of the footer bar.
func (e *Engine) StatusLine() string {
	cx := e.editorCx
	var sb strings.Builder
	fmt.Fprintf(&sb, " %d:%d  %s  %s", cx.currentRow+1, cx.currentCol+1, e.writeMode, e.codec.Name())
	if e.readOnly {
		sb.WriteString("  RO")
	}
	if e.terminalMode {
		sb.WriteString("  TERM")
	}
	if e.status != "" {
		sb.WriteString("  ")
		sb.WriteString(e.status)
	}
	return sb.String()
}

func (e *Engine) headerText() string {
	name := e.path
	if name == "" {
		name = "[untitled]"
	}
	if e.changed {
		name += " *"
	}
	if e.branch != "" {
		name += " [" + e.branch + "]"
	}
	return " cedit - " + name
}

// RetrieveLastText returns the tail of the editor document, at most maxlen
// bytes.
func (e *Engine) RetrieveLastText(maxlen int) []byte {
	return e.editorCx.doc.RetrieveLastText(maxlen)
}

func (e *Engine) updateVisibility(ensure, changeCol, autoScroll bool) {
	if e.host != nil {
		e.host.UpdateVisibility(ensure, changeCol, autoScroll)
		return
	}
	e.Refresh(ensure, changeCol, autoScroll)
}

// Refresh applies the scrolling a visibility update asks for and repaints
// into the host, or into the engine's own screen when there is none.
func (e *Engine) Refresh(ensure, changeCol, autoScroll bool) {
	if autoScroll {
		if ensure {
			e.EnsureCurrentLineVisible()
		} else if changeCol {
			cx := e.cx()
			cx.scrollColPos = e.DecideColumnScrollPos()
		}
	}
	if e.host != nil {
		e.Paint(e.host)
		return
	}
	e.Paint(e.screen)
}

func isControlLetter(c uint32) bool {
	return c < 0x80 && unicode.IsLetter(rune(c))
}
