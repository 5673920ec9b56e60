package editor

import (
	"testing"

	"pgregory.net/rapid"
)

func TestAnchorCompare(t *testing.T) {
	off := SelectionAnchor{}
	a := SelectionAnchor{Enabled: AnchorHard, Row: 1, Col: 4}
	b := SelectionAnchor{Enabled: AnchorEasy, Row: 1, Col: 6}
	c := SelectionAnchor{Enabled: AnchorHard, Row: 2, Col: 0}

	if got := off.Compare(a); got != -1 {
		t.Fatalf("disabled vs enabled = %d, want -1", got)
	}
	if got := a.Compare(off); got != 1 {
		t.Fatalf("enabled vs disabled = %d, want 1", got)
	}
	if got := off.Compare(SelectionAnchor{Row: 9}); got != 0 {
		t.Fatalf("disabled vs disabled = %d, want 0", got)
	}
	if a.Compare(b) != -1 || b.Compare(c) != -1 || c.Compare(a) != 1 {
		t.Fatalf("enabled anchors not ordered by row then column")
	}
	if got := a.Compare(SelectionAnchor{Enabled: AnchorEasy, Row: 1, Col: 4}); got != 0 {
		t.Fatalf("same position with other mode = %d, want 0", got)
	}
}

func TestIsInRangeHalfOpen(t *testing.T) {
	a0 := SelectionAnchor{Enabled: AnchorHard, Row: 0, Col: 1}
	a1 := SelectionAnchor{Enabled: AnchorHard, Row: 0, Col: 3}
	for col, want := range []bool{false, true, true, false} {
		if got := IsInRange(0, col, a0, a1); got != want {
			t.Fatalf("IsInRange(0, %d) = %v, want %v", col, got, want)
		}
	}
	if !IsInRange(0, 2, a1, a0) {
		t.Fatalf("reversed anchors not normalised")
	}
	if IsInRange(0, 2, SelectionAnchor{}, a1) {
		t.Fatalf("disabled anchor selects")
	}

	b0 := SelectionAnchor{Enabled: AnchorEasy, Row: 1, Col: 5}
	b1 := SelectionAnchor{Enabled: AnchorEasy, Row: 3, Col: 2}
	if !IsInRange(2, 100, b0, b1) {
		t.Fatalf("middle row not fully selected")
	}
	if IsInRange(1, 4, b0, b1) || !IsInRange(1, 5, b0, b1) {
		t.Fatalf("first row boundary wrong")
	}
	if !IsInRange(3, 1, b0, b1) || IsInRange(3, 2, b0, b1) {
		t.Fatalf("last row boundary wrong")
	}
}

func TestPropertySelectionOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var s selection
		mode := rapid.SampledFrom([]AnchorMode{AnchorHard, AnchorEasy}).Draw(t, "mode")
		s.start(mode, rapid.IntRange(0, 20).Draw(t, "row"), rapid.IntRange(0, 40).Draw(t, "col"))
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			s.update(rapid.IntRange(0, 20).Draw(t, "r"), rapid.IntRange(0, 40).Draw(t, "c"))
			if s.a0.Compare(s.a1) > 0 {
				t.Fatalf("a0 %+v after a1 %+v", s.a0, s.a1)
			}
			if s.a0 != s.origin && s.a1 != s.origin {
				t.Fatalf("origin %+v lost", s.origin)
			}
		}
	})
}
