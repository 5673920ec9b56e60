package editor

type AnchorMode int

const (
	AnchorNone AnchorMode = iota
	AnchorHard
	AnchorEasy
)

// SelectionAnchor is one end of a selection. A disabled anchor orders before
// an enabled one; enabled anchors order by (Row, Col).
type SelectionAnchor struct {
	Enabled AnchorMode
	Row     int
	Col     int
}

func (a SelectionAnchor) IsEnabled() bool {
	return a.Enabled != AnchorNone
}

func (a SelectionAnchor) Compare(b SelectionAnchor) int {
	if a.IsEnabled() && b.IsEnabled() {
		switch {
		case a.Row < b.Row:
			return -1
		case a.Row > b.Row:
			return 1
		case a.Col < b.Col:
			return -1
		case a.Col > b.Col:
			return 1
		}
		return 0
	}
	if b.IsEnabled() {
		return -1
	}
	if a.IsEnabled() {
		return 1
	}
	return 0
}

// IsInRange reports whether the cell (row, col) lies in [a0, a1). Rows
// strictly between the anchors are selected whole.
func IsInRange(row, col int, a0, a1 SelectionAnchor) bool {
	if !a0.IsEnabled() || !a1.IsEnabled() {
		return false
	}
	if a1.Compare(a0) < 0 {
		a0, a1 = a1, a0
	}
	if row < a0.Row || row > a1.Row {
		return false
	}
	if row == a0.Row && col < a0.Col {
		return false
	}
	if row == a1.Row && col >= a1.Col {
		return false
	}
	return true
}

// selection holds the anchors of one context. origin is where the selection
// started; a0 and a1 are origin and the live end, ordered.
type selection struct {
	origin SelectionAnchor
	a0     SelectionAnchor
	a1     SelectionAnchor
}

func (s *selection) active() bool {
	return s.a0.IsEnabled() && s.a1.IsEnabled()
}

func (s *selection) empty() bool {
	return !s.active() || s.a0.Compare(s.a1) == 0
}

func (s *selection) mode() AnchorMode {
	return s.origin.Enabled
}

func (s *selection) start(mode AnchorMode, row, col int) {
	s.origin = SelectionAnchor{Enabled: mode, Row: row, Col: col}
	s.a0 = s.origin
	s.a1 = s.origin
}

// update moves the live end and keeps a0 <= a1.
func (s *selection) update(row, col int) {
	if !s.origin.IsEnabled() {
		return
	}
	live := SelectionAnchor{Enabled: s.origin.Enabled, Row: row, Col: col}
	s.a0, s.a1 = s.origin, live
	if s.a0.Compare(s.a1) > 0 {
		s.a0, s.a1 = s.a1, s.a0
	}
}

func (s *selection) clear() {
	*s = selection{}
}
