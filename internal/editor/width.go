package editor

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// CharWidth returns the number of screen columns the codepoint c occupies:
// 0 for control and combining codepoints, 2 for East Asian wide and fullwidth
// forms, 1 otherwise. Values outside the Unicode range count as 1.
func CharWidth(c uint32) int {
	if c > utf8.MaxRune || (c >= 0xD800 && c <= 0xDFFF) {
		return 1
	}
	r := rune(c)
	if r < 0x20 || (r >= 0x7F && r < 0xA0) {
		return 0
	}
	return widthCondition.RuneWidth(r)
}

// StringWidth is the column width of s measured by grapheme cluster, used for
// labels painted outside the document grid (titles, status line).
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// TruncateWidth cuts s to at most w columns without splitting a cluster.
func TruncateWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if StringWidth(s) <= w {
		return s
	}
	out := make([]byte, 0, len(s))
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cw := g.Width()
		if used+cw > w {
			break
		}
		out = append(out, g.Str()...)
		used += cw
	}
	return string(out)
}
