package editor

import "strings"

// Character is one cell of a CharScreen. The right half of a wide glyph holds
// C == 0.
type Character struct {
	C    rune
	Attr CharAttr
}

// CharScreen is an in-memory Printer. The engine paints into it when no host
// is installed; the headless mode prints it.
type CharScreen struct {
	width  int
	height int
	cells  []Character
}

func NewCharScreen(w, h int) *CharScreen {
	s := &CharScreen{}
	s.Resize(w, h)
	return s
}

func (s *CharScreen) Resize(w, h int) {
	s.width = max(0, w)
	s.height = max(0, h)
	s.cells = make([]Character, s.width*s.height)
	s.Clear()
}

func (s *CharScreen) Clear() {
	for i := range s.cells {
		s.cells[i] = Character{C: ' ', Attr: CharAttr{Color: NoStyle}}
	}
}

func (s *CharScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *CharScreen) Cell(x, y int) Character {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return Character{}
	}
	return s.cells[y*s.width+x]
}

// Print writes text from (x, y), skipping cells outside opt.Clip and the
// screen. Zero-width codepoints are dropped. It returns the columns advanced.
func (s *CharScreen) Print(x, y int, text string, opt Option) int {
	clip := opt.Clip
	if clip.empty() {
		clip = Rect{W: s.width, H: s.height}
	}
	col := x
	for _, r := range text {
		w := CharWidth(uint32(r))
		if w == 0 {
			continue
		}
		if w == 2 && (!clip.contains(col+1, y) || col+1 >= s.width) {
			// half a wide glyph does not fit
			if s.visible(col, y, clip) {
				s.cells[y*s.width+col] = Character{C: ' ', Attr: opt.Attr}
			}
			col += w
			continue
		}
		if s.visible(col, y, clip) {
			s.cells[y*s.width+col] = Character{C: r, Attr: opt.Attr}
			if w == 2 {
				s.cells[y*s.width+col+1] = Character{C: 0, Attr: opt.Attr}
			}
		} else if w == 2 && s.visible(col+1, y, clip) {
			s.cells[y*s.width+col+1] = Character{C: ' ', Attr: opt.Attr}
		}
		col += w
	}
	return col - x
}

func (s *CharScreen) visible(x, y int, clip Rect) bool {
	return clip.contains(x, y) && x >= 0 && y >= 0 && x < s.width && y < s.height
}

// Row returns row y as text with trailing blanks removed.
func (s *CharScreen) Row(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < s.width; x++ {
		c := s.cells[y*s.width+x].C
		if c == 0 {
			continue
		}
		sb.WriteRune(c)
	}
	return strings.TrimRight(sb.String(), " ")
}

func (s *CharScreen) String() string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
