package editor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/cedit/internal/codec"
	"github.com/kobzarvs/cedit/internal/document"
)

func TestOpenSaveWithCodec(t *testing.T) {
	dir := t.TempDir()
	sjis, err := codec.Lookup("shift_jis")
	require.NoError(t, err)
	raw, err := sjis.Encode([]byte("日本\nabc\n"))
	require.NoError(t, err)
	src := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(src, raw, 0o644))

	e := newTestEngine("")
	require.NoError(t, e.SetTextCodec("Shift_JIS"))
	require.NoError(t, e.OpenFile(src))
	require.Equal(t, "日本\nabc", docText(e))
	require.Equal(t, src, e.Path())
	require.Equal(t, src, e.RecentlyUsedPath())
	require.False(t, e.IsChanged())

	e.Write('X', true)
	require.True(t, e.IsChanged())

	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, e.SaveFile(dst))
	require.False(t, e.IsChanged())
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	want, err := sjis.Encode([]byte("X日本\nabc\n"))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOpenMissingFile(t *testing.T) {
	e := newTestEngine("keep")
	err := e.OpenFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))
	require.Equal(t, "keep", docText(e))
}

func TestSetTextCodecUnknown(t *testing.T) {
	e := newTestEngine("")
	err := e.SetTextCodec("klingon")
	require.ErrorIs(t, err, codec.ErrUnknownCodec)
	require.Equal(t, "utf-8", e.TextCodec())
}

func TestSaveRejectsUnencodableText(t *testing.T) {
	e := newTestEngine("Я")
	require.NoError(t, e.SetTextCodec("iso-8859-1"))
	err := e.SaveFile(filepath.Join(t.TempDir(), "x.txt"))
	require.Error(t, err)
}

func TestSaveSkipsDeletedLines(t *testing.T) {
	e := newTestEngine("")
	e.LoadExampleFile()
	path := filepath.Join(t.TempDir(), "example.go")
	require.NoError(t, e.SaveFile(path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, exampleAfter, string(got))
}

func TestOpenDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nc\n"), 0o644))

	e := newTestEngine("")
	require.NoError(t, e.OpenDiff(path, []byte("a\nb\n")))
	lines := e.Document().Lines()
	require.Len(t, lines, 3)
	require.Equal(t, document.Normal, lines[0].Type)
	require.Equal(t, document.Del, lines[1].Type)
	require.Equal(t, "b", string(lines[1].Text))
	require.Equal(t, document.Add, lines[2].Type)
	require.True(t, strings.HasPrefix(e.Status(), "+1 -1"), "status = %q", e.Status())
}

func TestFileDialogsUsePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	e := newTestEngine("")
	e.SetRecentlyUsedPath(path)
	e.Write(0x0f, true) // ^O
	require.True(t, e.IsDialogMode())
	require.Equal(t, path, e.DialogValue())
	e.PressEnter()
	require.Equal(t, "one", docText(e))

	e.Write(0x13, true) // ^S
	require.Equal(t, path, e.DialogValue())
	e.MoveCursorEnd()
	e.WriteString(".bak")
	e.PressEnter()
	saved, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "one\n", string(saved))
	require.Equal(t, path+".bak", e.Path())
}

func TestOpenDialogReportsErrors(t *testing.T) {
	e := newTestEngine("")
	e.OpenFileDialog()
	e.WriteString(filepath.Join(t.TempDir(), "missing"))
	e.PressEnter()
	require.False(t, e.IsDialogMode())
	require.Contains(t, e.Status(), "missing")
}
