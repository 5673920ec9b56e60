package document

import (
	"bytes"
	"sort"
)

type LineType int

const (
	Unknown LineType = iota
	Normal
	Add
	Del
)

func (t LineType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Add:
		return "add"
	case Del:
		return "del"
	default:
		return "unknown"
	}
}

// ColorOverride switches the colour of a line from Offset (a byte offset into
// Line.Text) up to the next override.
type ColorOverride struct {
	Offset int
	Color  int
}

type Line struct {
	Type       LineType
	HunkNumber int
	LineNumber int
	ByteOffset int
	Text       []byte
	Colors     []ColorOverride
}

// NewLine returns an untagged Normal line holding a copy of text.
func NewLine(text string) Line {
	return Line{Type: Normal, HunkNumber: -1, Text: []byte(text)}
}

func (l Line) Clone() Line {
	out := l
	out.Text = append([]byte(nil), l.Text...)
	if l.Colors != nil {
		out.Colors = append([]ColorOverride(nil), l.Colors...)
	}
	return out
}

// FindColor returns the index of the last override whose offset is <= offset,
// or -1.
func (l *Line) FindColor(offset int) int {
	i := sort.Search(len(l.Colors), func(i int) bool {
		return l.Colors[i].Offset > offset
	})
	return i - 1
}

// ColorAt returns the colour in effect at offset, or -1.
func (l *Line) ColorAt(offset int) int {
	i := l.FindColor(offset)
	if i < 0 {
		return -1
	}
	return l.Colors[i].Color
}

// InsertColor adds an override keeping Colors sorted; an override at the same
// offset is replaced.
func (l *Line) InsertColor(a ColorOverride) {
	i := sort.Search(len(l.Colors), func(i int) bool {
		return l.Colors[i].Offset >= a.Offset
	})
	if i < len(l.Colors) && l.Colors[i].Offset == a.Offset {
		l.Colors[i] = a
		return
	}
	l.Colors = append(l.Colors, ColorOverride{})
	copy(l.Colors[i+1:], l.Colors[i:])
	l.Colors[i] = a
}

// ShiftColors moves overrides at or after at by delta bytes. When delta is
// negative the overrides that fall inside the removed range collapse onto at,
// keeping only the last of them.
func (l *Line) ShiftColors(at, delta int) {
	if delta == 0 || len(l.Colors) == 0 {
		return
	}
	out := l.Colors[:0]
	for _, c := range l.Colors {
		if c.Offset >= at {
			c.Offset += delta
			if c.Offset < at {
				c.Offset = at
			}
		}
		if n := len(out); n > 0 && out[n-1].Offset == c.Offset {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	l.Colors = out
}

// Splice replaces n bytes at off with ins. Overrides inside the removed bytes
// collapse onto off; overrides after it move with the text.
func (l *Line) Splice(off, n int, ins []byte) {
	if off < 0 {
		off = 0
	}
	if off > len(l.Text) {
		off = len(l.Text)
	}
	if n < 0 {
		n = 0
	}
	if off+n > len(l.Text) {
		n = len(l.Text) - off
	}
	text := make([]byte, 0, len(l.Text)-n+len(ins))
	text = append(text, l.Text[:off]...)
	text = append(text, ins...)
	text = append(text, l.Text[off+n:]...)
	l.Text = text
	l.ShiftColors(off, -n)
	l.ShiftColors(off+1, len(ins))
}

// SplitAt cuts the line at off. The receiver keeps the head; the tail is
// returned as an untagged Normal line that starts in the colour in effect at
// off.
func (l *Line) SplitAt(off int) Line {
	if off < 0 {
		off = 0
	}
	if off > len(l.Text) {
		off = len(l.Text)
	}
	tail := NewLine(string(l.Text[off:]))
	if c := l.ColorAt(off); c >= 0 {
		tail.Colors = append(tail.Colors, ColorOverride{Offset: 0, Color: c})
	}
	var head []ColorOverride
	for _, c := range l.Colors {
		if c.Offset < off {
			head = append(head, c)
			continue
		}
		tail.InsertColor(ColorOverride{Offset: c.Offset - off, Color: c.Color})
	}
	l.Text = append([]byte(nil), l.Text[:off]...)
	l.Colors = head
	return tail
}

// Join appends next to the line, carrying its overrides along.
func (l *Line) Join(next Line) {
	base := len(l.Text)
	text := make([]byte, 0, base+len(next.Text))
	text = append(text, l.Text...)
	l.Text = append(text, next.Text...)
	for _, c := range next.Colors {
		l.InsertColor(ColorOverride{Offset: base + c.Offset, Color: c.Color})
	}
}

// Document is an ordered list of lines. It always holds at least one line.
type Document struct {
	lines []Line
}

func New() *Document {
	return &Document{lines: []Line{NewLine("")}}
}

// FromLines builds a document from copies of lines.
func FromLines(lines []Line) *Document {
	d := &Document{}
	d.SetLines(lines)
	return d
}

// FromText splits text on '\n', dropping a trailing '\r' from each line.
func FromText(text []byte) *Document {
	parts := bytes.Split(text, []byte{'\n'})
	if len(parts) > 1 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	lines := make([]Line, len(parts))
	for i, p := range parts {
		p = bytes.TrimSuffix(p, []byte{'\r'})
		lines[i] = Line{Type: Normal, HunkNumber: -1, Text: append([]byte(nil), p...)}
	}
	d := &Document{}
	d.SetLines(lines)
	return d
}

func (d *Document) SetLines(lines []Line) {
	d.lines = make([]Line, 0, len(lines))
	for _, l := range lines {
		d.lines = append(d.lines, l.Clone())
	}
	if len(d.lines) == 0 {
		d.lines = append(d.lines, NewLine(""))
	}
	d.Renumber()
}

func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns the line at row. Out of range rows are clamped.
func (d *Document) Line(row int) *Line {
	if row < 0 {
		row = 0
	}
	if row >= len(d.lines) {
		row = len(d.lines) - 1
	}
	return &d.lines[row]
}

func (d *Document) Lines() []Line {
	return d.lines
}

// Set replaces the line at row. Out of range rows are ignored.
func (d *Document) Set(row int, line Line) {
	if row < 0 || row >= len(d.lines) {
		return
	}
	d.lines[row] = line
}

// Insert places lines before row; row == Len() appends.
func (d *Document) Insert(row int, lines ...Line) {
	if row < 0 {
		row = 0
	}
	if row > len(d.lines) {
		row = len(d.lines)
	}
	newLines := make([]Line, 0, len(d.lines)+len(lines))
	newLines = append(newLines, d.lines[:row]...)
	newLines = append(newLines, lines...)
	newLines = append(newLines, d.lines[row:]...)
	d.lines = newLines
}

// Delete removes n lines starting at row. A blank line is left behind when the
// document would otherwise become empty.
func (d *Document) Delete(row, n int) {
	if row < 0 || row >= len(d.lines) || n <= 0 {
		return
	}
	if row+n > len(d.lines) {
		n = len(d.lines) - row
	}
	d.lines = append(d.lines[:row], d.lines[row+n:]...)
	if len(d.lines) == 0 {
		d.lines = append(d.lines, NewLine(""))
	}
}

// Renumber recomputes ByteOffset over the document as one stream with a one
// byte separator per line, and numbers every line except Del lines, which
// keep the number they came with.
func (d *Document) Renumber() {
	offset := 0
	number := 0
	for i := range d.lines {
		l := &d.lines[i]
		l.ByteOffset = offset
		offset += len(l.Text) + 1
		if l.Type == Del {
			continue
		}
		number++
		l.LineNumber = number
	}
}

// Text joins all lines with '\n'.
func (d *Document) Text() []byte {
	var buf bytes.Buffer
	for i, l := range d.lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(l.Text)
	}
	return buf.Bytes()
}

// RetrieveLastText returns at most maxlen bytes from the end of the document.
func (d *Document) RetrieveLastText(maxlen int) []byte {
	if maxlen <= 0 {
		return nil
	}
	var parts [][]byte
	total := 0
	for i := len(d.lines) - 1; i >= 0 && total < maxlen; i-- {
		text := d.lines[i].Text
		if i < len(d.lines)-1 {
			text = append(append([]byte(nil), text...), '\n')
		}
		parts = append(parts, text)
		total += len(text)
	}
	out := make([]byte, 0, total)
	for i := len(parts) - 1; i >= 0; i-- {
		out = append(out, parts[i]...)
	}
	if len(out) > maxlen {
		out = out[len(out)-maxlen:]
	}
	return out
}
