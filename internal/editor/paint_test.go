package editor

import (
	"strings"
	"testing"

	"github.com/kobzarvs/cedit/internal/config"
	"github.com/kobzarvs/cedit/internal/document"
)

func TestPaintLayout(t *testing.T) {
	e := newTestEngine("first", "second")
	e.SetScreenSize(30, 5, true)
	s := e.Screen()
	if got := s.Row(0); got != " cedit - [untitled]" {
		t.Fatalf("header = %q", got)
	}
	if got := s.Row(1); got != "      1 first" {
		t.Fatalf("row 1 = %q", got)
	}
	if got := s.Row(2); got != "      2 second" {
		t.Fatalf("row 2 = %q", got)
	}
	if got := s.Row(3); got != "" {
		t.Fatalf("row past the end = %q", got)
	}
	if got := s.Row(4); got != " 1:1  INS  utf-8" {
		t.Fatalf("footer = %q", got)
	}
	if a := s.Cell(0, 0).Attr; a.Index != AttrInvert {
		t.Fatalf("header attr = %+v", a)
	}
	if a := s.Cell(8, 1).Attr; a.Flags&FlagCurrentLine == 0 {
		t.Fatalf("current line not flagged: %+v", a)
	}
	if a := s.Cell(8, 2).Attr; a.Flags&FlagCurrentLine != 0 {
		t.Fatalf("other line flagged current: %+v", a)
	}
	if a := s.Cell(0, 1).Attr; a.Flags&FlagLineNumber == 0 {
		t.Fatalf("gutter not flagged: %+v", a)
	}
}

func TestPaintHeaderShowsChangeAndBranch(t *testing.T) {
	e := newTestEngine("x")
	e.SetScreenSize(40, 5, true)
	e.SetBranch("feature/x")
	e.Write('y', true)
	if got := e.Screen().Row(0); got != " cedit - [untitled] * [feature/x]" {
		t.Fatalf("header = %q", got)
	}
	e.SetReadOnly(true)
	e.SetTerminalMode(true)
	e.Refresh(false, false, false)
	if got := e.Screen().Row(4); !strings.Contains(got, "RO") || !strings.Contains(got, "TERM") {
		t.Fatalf("footer = %q", got)
	}
}

func TestPaintSelectionFlags(t *testing.T) {
	e := newTestEngine("abcd")
	e.SetScreenSize(30, 5, true)
	selectRange(e, 0, 1, 0, 3)
	s := e.Screen()
	for x, want := range map[int]bool{8: false, 9: true, 10: true, 11: false} {
		if got := s.Cell(x, 1).Attr.Flags&FlagSelected != 0; got != want {
			t.Fatalf("cell %d selected = %v, want %v", x, got, want)
		}
	}
}

func TestPaintHorizontalScroll(t *testing.T) {
	e := newTestEngine("0123456789abcdef")
	e.SetScreenSize(30, 5, true)
	e.SetScrollPos(0, 5)
	if c := e.Screen().Cell(8, 1).C; c != '5' {
		t.Fatalf("first visible cell = %q, want '5'", c)
	}
}

func TestPaintWideGlyphAtViewportEdge(t *testing.T) {
	e := newTestEngine("abcdefghijklmnopqrstu日")
	e.SetScreenSize(30, 5, true)
	// 22 columns wide: the glyph at column 21 does not fit.
	if c := e.Screen().Cell(29, 1).C; c != ' ' {
		t.Fatalf("edge cell = %q, want space", c)
	}
}

func TestPaintDiffDocument(t *testing.T) {
	e := New(config.Default())
	e.SetScreenSize(60, 20, true)
	e.LoadExampleFile()
	s := e.Screen()
	var del, add int
	for y := 1; y < 19; y++ {
		switch s.Cell(10, y).Attr.Line {
		case document.Del:
			del++
			if label := strings.TrimSpace(s.Row(y)[:8]); label != "" {
				t.Fatalf("deleted row %d has number %q", y, label)
			}
		case document.Add:
			add++
		}
	}
	if del == 0 || add == 0 {
		t.Fatalf("diff rows: %d deleted, %d added", del, add)
	}
}

func TestPaintingSuppressed(t *testing.T) {
	e := newTestEngine("")
	e.SetScreenSize(30, 5, true)
	e.SetPaintingSuppressed(true)
	e.WriteString("hidden")
	if got := e.Screen().Row(1); strings.Contains(got, "hidden") {
		t.Fatalf("painted while suppressed: %q", got)
	}
	e.SetPaintingSuppressed(false)
	if got := e.Screen().Row(1); got != "      1 hidden" {
		t.Fatalf("row after resume = %q", got)
	}
}

func TestPlainViewerMode(t *testing.T) {
	e := newTestEngine("first", "second")
	e.SetScreenSize(30, 5, true)
	e.SetNormalTextEditorMode(false)
	if got := e.Screen().Row(0); got != "first" {
		t.Fatalf("row 0 = %q", got)
	}
	if !e.IsReadOnly() || e.IsLineNumberVisible() {
		t.Fatalf("viewer mode not read-only or shows numbers")
	}
	e.Write('x', true)
	if got := docText(e); got != "first\nsecond" {
		t.Fatalf("viewer accepted typing: %q", got)
	}
	e.SetNormalTextEditorMode(true)
	if got := e.Screen().Row(1); got != "      1 first" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestShowLineNumberWidth(t *testing.T) {
	e := newTestEngine("a")
	e.SetScreenSize(30, 5, true)
	e.ShowLineNumber(true, 4)
	if vp := e.Viewport(); vp.X != 4 || vp.W != 26 {
		t.Fatalf("viewport = %+v", vp)
	}
	if got := e.Screen().Row(1); got != "  1 a" {
		t.Fatalf("row 1 = %q", got)
	}
	e.ShowHeader(false)
	e.ShowFooter(false)
	if vp := e.Viewport(); vp.Y != 0 || vp.H != 5 {
		t.Fatalf("viewport without bars = %+v", vp)
	}
}

func TestLineNumberWidthFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.LineNumberWidth = 5
	e := New(cfg)
	e.SetScreenSize(30, 5, true)
	if vp := e.Viewport(); vp.X != 5 || vp.W != 25 {
		t.Fatalf("viewport = %+v, want X 5 W 25", vp)
	}
	cfg.Editor.LineNumberWidth = 0
	e = New(cfg)
	e.SetScreenSize(30, 5, true)
	if vp := e.Viewport(); vp.X != DefaultLineNumberWidth {
		t.Fatalf("viewport X = %d, want %d", vp.X, DefaultLineNumberWidth)
	}
}
