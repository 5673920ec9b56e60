package editor

import (
	"sort"
	"unicode/utf8"
)

// Char is one screen unit of a parsed line. A tab yields several units that
// all carry the tab's byte offset.
type Char struct {
	Unicode uint32
	Pos     int
}

// ParsedLine maps a line's bytes to screen columns.
type ParsedLine struct {
	Chars []Char
	Cols  []int // start column of each unit
	Width int   // total columns
	End   int   // byte length of the line
}

func unitWidth(c uint32) int {
	if c == '\t' {
		return 1
	}
	return CharWidth(c)
}

// Parse decodes text as UTF-8 and expands tabs to multiples of tabSpan.
// Malformed bytes become one U+FFFD unit per byte.
func Parse(text []byte, tabSpan int) *ParsedLine {
	if tabSpan < 1 {
		tabSpan = 1
	}
	p := &ParsedLine{
		Chars: make([]Char, 0, len(text)),
		Cols:  make([]int, 0, len(text)),
		End:   len(text),
	}
	col := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		if r == '\t' {
			n := tabSpan - col%tabSpan
			for k := 0; k < n; k++ {
				p.Chars = append(p.Chars, Char{Unicode: '\t', Pos: i})
				p.Cols = append(p.Cols, col)
				col++
			}
			i += size
			continue
		}
		c := uint32(r)
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		p.Chars = append(p.Chars, Char{Unicode: c, Pos: i})
		p.Cols = append(p.Cols, col)
		col += unitWidth(c)
		i += size
	}
	p.Width = col
	return p
}

func (p *ParsedLine) unitEnd(i int) int {
	if i+1 < len(p.Cols) {
		return p.Cols[i+1]
	}
	return p.Width
}

// groupStart returns the first unit sharing the byte offset of unit i.
func (p *ParsedLine) groupStart(i int) int {
	for i > 0 && p.Chars[i-1].Pos == p.Chars[i].Pos {
		i--
	}
	return i
}

// ColumnOf returns the column of the closest unit starting at or before off.
func (p *ParsedLine) ColumnOf(off int) int {
	if off <= 0 || len(p.Chars) == 0 {
		return 0
	}
	if off >= p.End {
		return p.Width
	}
	i := sort.Search(len(p.Chars), func(i int) bool {
		return p.Chars[i].Pos > off
	}) - 1
	if i < 0 {
		return 0
	}
	return p.Cols[p.groupStart(i)]
}

// indexAt returns the unit covering col, skipping zero-width units, or
// len(Chars) when col is at or beyond the end of the line.
func (p *ParsedLine) indexAt(col int) int {
	if col >= p.Width {
		return len(p.Chars)
	}
	if col < 0 {
		col = 0
	}
	i := sort.Search(len(p.Cols), func(i int) bool {
		return p.Cols[i] > col
	}) - 1
	if i < 0 {
		return 0
	}
	for i < len(p.Chars) && p.unitEnd(i) <= col {
		i++
	}
	for i > 0 && p.Cols[i-1] == p.Cols[i] && p.unitEnd(i-1) > col {
		i--
	}
	return i
}

// ByteOffsetOf returns the start offset of the glyph or tab covering col.
func (p *ParsedLine) ByteOffsetOf(col int) int {
	if col <= 0 || len(p.Chars) == 0 {
		return 0
	}
	i := p.indexAt(col)
	if i >= len(p.Chars) {
		return p.End
	}
	return p.Chars[i].Pos
}

// Snap moves col back to the start of the glyph that covers it and clamps it
// to [0, Width].
func (p *ParsedLine) Snap(col int) int {
	if col <= 0 {
		return 0
	}
	if col >= p.Width {
		return p.Width
	}
	return p.ColumnOf(p.ByteOffsetOf(col))
}

// NextColumn returns the column of the glyph following the one at col.
func (p *ParsedLine) NextColumn(col int) int {
	off := p.ByteOffsetOf(col)
	i := sort.Search(len(p.Chars), func(i int) bool {
		return p.Chars[i].Pos > off
	})
	for i < len(p.Chars) && p.unitEnd(i) == p.Cols[i] {
		i++
	}
	if i >= len(p.Chars) {
		return p.Width
	}
	return p.Cols[i]
}

// PrevColumn returns the column of the glyph preceding the one at col.
func (p *ParsedLine) PrevColumn(col int) int {
	if col <= 0 {
		return 0
	}
	off := p.ByteOffsetOf(col)
	if col >= p.Width {
		off = p.End
	}
	i := sort.Search(len(p.Chars), func(i int) bool {
		return p.Chars[i].Pos >= off
	}) - 1
	for i > 0 && p.unitEnd(i) == p.Cols[i] {
		i--
	}
	if i < 0 {
		return 0
	}
	return p.Cols[p.groupStart(i)]
}

// SpanAt is the number of columns covered by the glyph at col: the full run
// for a tab, 2 for a wide glyph, 1 at end of line.
func (p *ParsedLine) SpanAt(col int) int {
	i := p.indexAt(col)
	if i >= len(p.Chars) {
		return 1
	}
	i = p.groupStart(i)
	start := p.Cols[i]
	j := i
	for j+1 < len(p.Chars) && p.Chars[j+1].Pos == p.Chars[i].Pos {
		j++
	}
	span := p.unitEnd(j) - start
	if span < 1 {
		span = 1
	}
	return span
}

// ColumnStops lists the start column of every glyph plus the end column.
func (p *ParsedLine) ColumnStops() []int {
	out := make([]int, 0, len(p.Chars)+1)
	for i := range p.Chars {
		if i > 0 && p.Chars[i].Pos == p.Chars[i-1].Pos {
			continue
		}
		if p.unitEnd(i) == p.Cols[i] {
			continue
		}
		out = append(out, p.Cols[i])
	}
	return append(out, p.Width)
}

// Slice returns the units in columns [from, to).
func (p *ParsedLine) Slice(from, to int) []Char {
	i := p.indexAt(from)
	j := p.indexAt(to)
	if i > j {
		return nil
	}
	return append([]Char(nil), p.Chars[i:j]...)
}

// EncodeChars turns units back into UTF-8. Tab units that share a byte offset
// produce a single tab.
func EncodeChars(chars []Char) []byte {
	out := make([]byte, 0, len(chars))
	for i, c := range chars {
		if c.Unicode == '\t' && i > 0 && chars[i-1].Unicode == '\t' && chars[i-1].Pos == c.Pos {
			continue
		}
		if c.Unicode > utf8.MaxRune {
			out = utf8.AppendRune(out, utf8.RuneError)
			continue
		}
		out = utf8.AppendRune(out, rune(c.Unicode))
	}
	return out
}
