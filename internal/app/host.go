package app

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cedit/internal/config"
	"github.com/kobzarvs/cedit/internal/document"
	"github.com/kobzarvs/cedit/internal/editor"
)

type styles struct {
	main        tcell.Style
	invert      tcell.Style
	hilite      tcell.Style
	selection   tcell.Style
	lineNumber  tcell.Color
	currentLine tcell.Color
	addBg       tcell.Color
	delBg       tcell.Color
	palette     []tcell.Color
}

func newStyles(t config.Theme) styles {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	s := styles{
		main:        tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		invert:      tcell.StyleDefault.Foreground(parseColor(t.InvertForeground, mainBg)).Background(parseColor(t.InvertBackground, mainFg)),
		hilite:      tcell.StyleDefault.Foreground(parseColor(t.HiliteForeground, mainBg)).Background(parseColor(t.HiliteBackground, tcell.ColorYellow)),
		selection:   tcell.StyleDefault.Foreground(parseColor(t.SelectionForeground, mainFg)).Background(parseColor(t.SelectionBackground, tcell.ColorNavy)),
		lineNumber:  parseColor(t.LineNumberForeground, tcell.ColorGray),
		currentLine: parseColor(t.CurrentLineBackground, mainBg),
		addBg:       parseColor(t.AddBackground, tcell.ColorDarkGreen),
		delBg:       parseColor(t.DelBackground, tcell.ColorDarkRed),
	}
	for _, c := range t.Palette {
		s.palette = append(s.palette, parseColor(c, mainFg))
	}
	return s
}

// style maps a cell attribute to a tcell style. The diff tag sets the
// background, a colour override the foreground, and selection wins over both.
func (s styles) style(a editor.CharAttr) tcell.Style {
	switch a.Index {
	case editor.AttrInvert:
		return s.invert
	case editor.AttrHilite:
		return s.hilite
	}
	st := s.main
	switch {
	case a.Line == document.Add:
		st = st.Background(s.addBg)
	case a.Line == document.Del:
		st = st.Background(s.delBg)
	case a.Flags&editor.FlagCurrentLine != 0:
		st = st.Background(s.currentLine)
	}
	if a.Color >= 0 && a.Color < len(s.palette) {
		st = st.Foreground(s.palette[a.Color])
	}
	if a.Flags&editor.FlagLineNumber != 0 {
		st = st.Foreground(s.lineNumber)
	}
	if a.Flags&editor.FlagSelected != 0 {
		st = s.selection
	}
	return st
}

// host draws the engine onto a tcell screen.
type host struct {
	screen tcell.Screen
	ed     *editor.Engine
	styles styles
}

func newHost(s tcell.Screen, ed *editor.Engine, theme config.Theme) *host {
	return &host{screen: s, ed: ed, styles: newStyles(theme)}
}

func (h *host) Print(x, y int, text string, opt editor.Option) int {
	w, ht := h.screen.Size()
	clip := opt.Clip
	if clip.W <= 0 || clip.H <= 0 {
		clip = editor.Rect{W: w, H: ht}
	}
	visible := func(cx int) bool {
		return cx >= clip.X && cx < clip.X+clip.W && y >= clip.Y && y < clip.Y+clip.H &&
			cx >= 0 && cx < w && y >= 0 && y < ht
	}
	st := h.styles.style(opt.Attr)
	col := x
	for _, r := range text {
		cw := editor.CharWidth(uint32(r))
		if cw == 0 {
			continue
		}
		switch {
		case cw == 2 && !visible(col+1):
			if visible(col) {
				h.screen.SetContent(col, y, ' ', nil, st)
			}
		case visible(col):
			h.screen.SetContent(col, y, r, nil, st)
		case cw == 2 && visible(col+1):
			h.screen.SetContent(col+1, y, ' ', nil, st)
		}
		col += cw
	}
	return col - x
}

func (h *host) UpdateVisibility(ensure, changeCol, autoScroll bool) {
	h.ed.Refresh(ensure, changeCol, autoScroll)
	if h.ed.IsCursorVisible() {
		h.screen.ShowCursor(h.ed.CursorX(), h.ed.CursorY())
	} else {
		h.screen.HideCursor()
	}
	h.screen.Show()
}

var keyEscapes = map[tcell.Key]string{
	tcell.KeyUp:     "\x1b[A",
	tcell.KeyDown:   "\x1b[B",
	tcell.KeyRight:  "\x1b[C",
	tcell.KeyLeft:   "\x1b[D",
	tcell.KeyHome:   "\x1bOH",
	tcell.KeyEnd:    "\x1bOF",
	tcell.KeyInsert: "\x1b[2~",
	tcell.KeyDelete: "\x1b[3~",
	tcell.KeyPgUp:   "\x1b[5~",
	tcell.KeyPgDn:   "\x1b[6~",
}

// handleKey turns a key event into the codepoints or escape bytes the engine
// reads.
func (h *host) handleKey(ev *tcell.EventKey) {
	var mods editor.Modifiers
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= editor.ModShift
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 && ev.Key() == tcell.KeyRune {
		mods |= editor.ModControl
	}
	h.ed.SetModifierKeys(mods)
	defer h.ed.SetModifierKeys(0)

	key := ev.Key()
	if seq, ok := keyEscapes[key]; ok {
		h.ed.WriteBytes([]byte(seq), true)
		return
	}
	switch {
	case key == tcell.KeyRune:
		h.ed.Write(uint32(ev.Rune()), true)
	case key == tcell.KeyEnter:
		h.ed.Write('\r', true)
	case key == tcell.KeyTab:
		h.ed.Write('\t', true)
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		h.ed.Write(0x7f, true)
	case key == tcell.KeyEscape:
		h.ed.Write(0x1b, true)
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		h.ed.Write(controlCode(key), true)
	}
}

// controlCode maps tcell's Ctrl+letter keys onto the C0 codes 1..26.
func controlCode(key tcell.Key) uint32 {
	return uint32(key-tcell.KeyCtrlA) + 1
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
