package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/cedit/internal/config"
	"github.com/kobzarvs/cedit/internal/editor"
	"github.com/kobzarvs/cedit/internal/session"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CEDIT_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("CEDIT_LOG_FILE", filepath.Join(dir, "cedit.log"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestPrintPaintsDocument(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\n"), 0o644))

	var out bytes.Buffer
	a := New(Options{Path: path, Print: true, Width: 30, Height: 6})
	a.out = &out
	require.NoError(t, a.Run())

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	require.True(t, strings.HasPrefix(lines[0], " cedit - "), "header = %q", lines[0])
	require.Equal(t, "      1 first", lines[1])
	require.Equal(t, "      2 second", lines[2])
}

func TestPrintExample(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	a := New(Options{Example: true, Print: true, Width: 60, Height: 20})
	a.out = &out
	require.NoError(t, a.Run())
	require.Contains(t, out.String(), "fmt.Println")
}

func TestCommandRejectsDiffWithoutFile(t *testing.T) {
	isolate(t)
	cmd := NewCommand()
	cmd.SetArgs([]string{"--diff"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--diff")
}

func TestCommandPrintsFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetArgs([]string{"--print", "--width", "20", "--height", "4", path})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "hello")
}

func TestRunEditsAndQuits(t *testing.T) {
	isolate(t)
	s := newSimScreen(t, 30, 6)
	ed := editor.New(config.Default())
	a := New(Options{})

	s.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	require.NoError(t, a.run(s, ed, config.Default()))

	require.Equal(t, editor.StateExit, ed.State())
	require.Equal(t, "hi\nx", string(ed.Document().Text()))
	require.Equal(t, "      1 hi", rowText(s, 1))
	require.Equal(t, "      2 x", rowText(s, 2))
}

func TestHandleKeyArrowsAndShiftSelect(t *testing.T) {
	s := newSimScreen(t, 30, 6)
	ed := editor.New(config.Default())
	h := newHost(s, ed, config.Default().Theme)
	ed.SetHost(h)
	ed.SetScreenSize(30, 6, true)
	ed.WriteString("abcd")

	h.handleKey(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	if col := ed.CurrentCol(); col != 0 {
		t.Fatalf("col after Home = %d, want 0", col)
	}
	h.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	h.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	if !ed.IsSelectionAnchorEnabled() {
		t.Fatalf("shift+right did not start a selection")
	}
	h.handleKey(tcell.NewEventKey(tcell.KeyCtrlX, 0, tcell.ModCtrl))
	if got := ed.ClipboardText(); got != "ab" {
		t.Fatalf("clipboard = %q, want %q", got, "ab")
	}
	if got := string(ed.Document().Text()); got != "cd" {
		t.Fatalf("text = %q, want %q", got, "cd")
	}
	h.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	h.handleKey(tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone))
	if got := string(ed.Document().Text()); got != "d" {
		t.Fatalf("text after delete = %q, want %q", got, "d")
	}
}

func TestHostPrintClipsWideGlyph(t *testing.T) {
	s := newSimScreen(t, 4, 1)
	ed := editor.New(config.Default())
	h := newHost(s, ed, config.Default().Theme)

	n := h.Print(0, 0, "a日本", editor.Option{Clip: editor.Rect{W: 2, H: 1}})
	if n != 5 {
		t.Fatalf("Print advanced %d, want 5", n)
	}
	s.Show()
	cells, _, _ := s.GetContents()
	if r := cells[0].Runes; len(r) == 0 || r[0] != 'a' {
		t.Fatalf("cell 0 = %q, want 'a'", r)
	}
	if r := cells[1].Runes; len(r) == 0 || r[0] != ' ' {
		t.Fatalf("clipped wide glyph cell = %q, want space", r)
	}
}

func TestHandleKeyControlRune(t *testing.T) {
	ed := editor.New(config.Default())
	h := newHost(newSimScreen(t, 20, 5), ed, config.Default().Theme)
	ed.SetHost(h)
	h.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl))
	if ed.State() != editor.StateExit {
		t.Fatalf("ctrl+q rune did not quit")
	}
	if string(ed.Document().Text()) != "" {
		t.Fatalf("ctrl+q inserted text %q", ed.Document().Text())
	}
}

func TestControlCode(t *testing.T) {
	for key, want := range map[tcell.Key]uint32{
		tcell.KeyCtrlA: 1,
		tcell.KeyCtrlQ: 17,
		tcell.KeyCtrlS: 19,
		tcell.KeyCtrlX: 24,
		tcell.KeyCtrlZ: 26,
	} {
		if got := controlCode(key); got != want {
			t.Fatalf("controlCode(%v) = %d, want %d", key, got, want)
		}
	}
}

func TestHandleKeyCtrlChords(t *testing.T) {
	ed := editor.New(config.Default())
	h := newHost(newSimScreen(t, 30, 5), ed, config.Default().Theme)
	ed.SetHost(h)
	ed.SetScreenSize(30, 5, true)
	ed.WriteString("ab")

	h.handleKey(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	if !ed.IsDialogMode() {
		t.Fatalf("ctrl+s did not open the save dialog")
	}
	h.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if ed.IsDialogMode() {
		t.Fatalf("escape left the dialog open")
	}
	if got := string(ed.Document().Text()); got != "ab" {
		t.Fatalf("ctrl chords inserted text: %q", got)
	}
	h.handleKey(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	if ed.State() != editor.StateExit {
		t.Fatalf("ctrl+q did not quit")
	}
}

func TestRunRecordsSessionOnTick(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	sessPath := filepath.Join(dir, "session.json")
	sm, err := session.NewManager(sessPath, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sm.Stop() })

	a := New(Options{Path: path})
	ed, err := a.newEngine(config.Default(), sm)
	require.NoError(t, err)
	a.sess = sm

	s := newSimScreen(t, 30, 6)
	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	require.NoError(t, s.PostEvent(tcell.NewEventInterrupt(nil)))
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	require.NoError(t, a.run(s, ed, config.Default()))

	// Nothing called Stop: the autosave loop wrote the file.
	require.Eventually(t, func() bool {
		reloaded, err := session.NewManager(sessPath, 0)
		if err != nil {
			return false
		}
		st, ok := reloaded.FileState(abs)
		return ok && st.CursorRow == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStyleSelectionWins(t *testing.T) {
	st := newStyles(config.Default().Theme)
	sel := st.style(editor.CharAttr{Flags: editor.FlagSelected | editor.FlagCurrentLine, Color: 1})
	require.Equal(t, st.selection, sel)
	inv := st.style(editor.CharAttr{Index: editor.AttrInvert})
	require.Equal(t, st.invert, inv)
}

func TestParseColor(t *testing.T) {
	require.Equal(t, tcell.NewRGBColor(0x12, 0x34, 0x56), parseColor("#123456", tcell.ColorRed))
	require.Equal(t, tcell.ColorRed, parseColor("", tcell.ColorRed))
	require.Equal(t, tcell.ColorRed, parseColor("#12", tcell.ColorRed))
	require.Equal(t, tcell.ColorDefault, parseColor("default", tcell.ColorRed))
	require.Equal(t, tcell.ColorBlue, parseColor("Blue", tcell.ColorRed))
}

func TestNewEngineRestoresSession(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.txt")
	var text strings.Builder
	for i := 0; i < 50; i++ {
		text.WriteString("line of text\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(text.String()), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	sm, err := session.NewManager(filepath.Join(dir, "session.json"), 0)
	require.NoError(t, err)
	sm.SetFileState(abs, session.FileState{CursorRow: 30, CursorCol: 5, ScrollRow: 20})

	a := New(Options{Path: path})
	ed, err := a.newEngine(config.Default(), sm)
	require.NoError(t, err)
	require.Equal(t, 30, ed.CurrentRow())
	require.Equal(t, 5, ed.CurrentCol())
	row, _ := ed.ScrollPos()
	require.Equal(t, 20, row)

	ed.MoveCursorDown()
	a.saveSession(sm, ed)
	st, ok := sm.FileState(abs)
	require.True(t, ok)
	require.Equal(t, 31, st.CursorRow)
	require.Equal(t, "utf-8", st.Codec)
	require.NoError(t, sm.Stop())
}

func TestNewEngineStartsNewFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "missing.txt")
	ed, err := New(Options{Path: path}).newEngine(config.Default(), nil)
	require.NoError(t, err)
	require.Equal(t, path, ed.RecentlyUsedPath())
	require.Equal(t, 1, ed.DocumentLines())
}
