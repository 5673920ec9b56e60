package editor

import "github.com/kobzarvs/cedit/internal/document"

// textContext is the cursor and viewport state of one view. The editor and
// the dialog each own one.
type textContext struct {
	singleLine bool

	currentRow     int
	currentCol     int
	currentColHint int
	savedRow       int
	savedCol       int
	savedColHint   int

	// columns covered by the glyph under the cursor
	currentCharSpan int

	scrollRowPos int
	scrollColPos int

	viewportOrgX   int
	viewportOrgY   int
	viewportWidth  int
	viewportHeight int

	tabSpan     int
	bottomLineY int

	doc *document.Document
	sel selection

	cacheRow    int
	cacheLine   *ParsedLine
	cacheSource []byte
}

func newTextContext(doc *document.Document, tabSpan int) *textContext {
	if doc == nil {
		doc = document.New()
	}
	if tabSpan < 1 {
		tabSpan = 4
	}
	return &textContext{
		currentCharSpan: 1,
		viewportOrgY:    1,
		viewportWidth:   80,
		viewportHeight:  23,
		tabSpan:         tabSpan,
		bottomLineY:     -1,
		doc:             doc,
		cacheRow:        -1,
	}
}

// parsed returns the parse of row, reusing the cached parse when the row and
// its bytes are unchanged.
func (cx *textContext) parsed(row int) *ParsedLine {
	line := cx.doc.Line(row)
	if cx.cacheLine != nil && cx.cacheRow == row && sameBacking(cx.cacheSource, line.Text) {
		return cx.cacheLine
	}
	cx.cacheLine = Parse(line.Text, cx.tabSpan)
	cx.cacheRow = row
	cx.cacheSource = line.Text
	return cx.cacheLine
}

func (cx *textContext) invalidate() {
	cx.cacheLine = nil
	cx.cacheSource = nil
	cx.cacheRow = -1
}

func (cx *textContext) current() *ParsedLine {
	return cx.parsed(cx.currentRow)
}

func (cx *textContext) lines() int {
	return cx.doc.Len()
}

func sameBacking(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
