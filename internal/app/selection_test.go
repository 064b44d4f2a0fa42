package app

import (
	"reflect"
	"testing"
)

func candidates(eligible ...bool) []selectionCandidate {
	items := make([]selectionCandidate, len(eligible))
	for i, ok := range eligible {
		items[i] = selectionCandidate{id: int64(i + 1), eligible: ok}
	}
	return items
}

func TestMoveHighlightWrapsAndClearsRange(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, true, true))
	s.ExtendSelection(1)
	s.ExtendSelection(1)
	if !s.HasSelection() {
		t.Fatalf("expected an active range before moving")
	}
	// The two extensions left the highlight on the last row, so the next
	// plain move both drops the range and wraps to the top.
	s.MoveHighlight(1)
	if s.HasSelection() {
		t.Fatalf("expected plain movement to drop the range")
	}
	if s.Highlight() != 0 {
		t.Fatalf("expected wrap to the top, got %d", s.Highlight())
	}
	s.MoveHighlight(-1)
	if s.Highlight() != 2 {
		t.Fatalf("expected wrap to the bottom, got %d", s.Highlight())
	}
}

func TestExtendSelectionSkipsIneligible(t *testing.T) {
	s := NewRangeSelector()
	// ids 1..5; 2 and 4 are already bound elsewhere.
	s.SetItems(candidates(true, false, true, false, true))
	s.ExtendSelection(1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
	s.ExtendSelection(1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 3, 5}) {
		t.Fatalf("expected [1 3 5], got %v", got)
	}
	// Past the end of eligible candidates the call is idempotent.
	s.ExtendSelection(1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 3, 5}) {
		t.Fatalf("expected selection unchanged at the edge, got %v", got)
	}
	if s.Highlight() != 4 {
		t.Fatalf("expected highlight pinned at last eligible index, got %d", s.Highlight())
	}
}

func TestExtendSelectionAnchorsOnNextEligible(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(false, false, true, true))
	// Highlight sits on an ineligible row; the anchor scans forward.
	if !s.ExtendSelection(1) {
		t.Fatalf("expected extension to succeed from ineligible highlight")
	}
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{3, 4}) {
		t.Fatalf("expected [3 4], got %v", got)
	}
}

func TestExtendSelectionSingletonAtEdge(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, true, true))
	s.MoveHighlight(-1) // wraps to the last row
	if !s.ExtendSelection(1) {
		t.Fatalf("expected a singleton selection at the list edge")
	}
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{3}) {
		t.Fatalf("expected [3], got %v", got)
	}
}

func TestExtendSelectionContiguousEligibleRun(t *testing.T) {
	// Repeated one-direction extensions select exactly the contiguous
	// run of eligible candidates between anchor and final highlight.
	eligible := []bool{true, false, true, true, false, true, true}
	s := NewRangeSelector()
	s.SetItems(candidates(eligible...))
	for i := 0; i < len(eligible); i++ {
		s.ExtendSelection(1)
	}
	var want []int64
	for i, ok := range eligible {
		if ok {
			want = append(want, int64(i+1))
		}
	}
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtendSelectionShrinksBackward(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, true, true))
	s.ExtendSelection(1)
	s.ExtendSelection(1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("expected full range, got %v", got)
	}
	s.ExtendSelection(-1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected range shrunk to [1 2], got %v", got)
	}
}

func TestToggleSingleClearsAnchor(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, true, true, true))
	s.ExtendSelection(1)
	s.ToggleSingle(4)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 2, 4}) {
		t.Fatalf("expected toggle to add without anchor logic, got %v", got)
	}
	// The next extension re-anchors at the highlight instead of
	// growing the old interval.
	s.ExtendSelection(1)
	if got := s.SelectedIDs(); !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Fatalf("expected fresh anchor at highlight, got %v", got)
	}
}

func TestToggleSingleRejectsIneligible(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, false))
	if s.ToggleSingle(2) {
		t.Fatalf("expected ineligible candidate to be unselectable")
	}
	if s.ToggleSingle(99) {
		t.Fatalf("expected unknown id to be rejected")
	}
	if !s.ToggleSingle(1) || !s.IsSelected(1) {
		t.Fatalf("expected eligible candidate to toggle on")
	}
	if !s.ToggleSingle(1) || s.IsSelected(1) {
		t.Fatalf("expected second toggle to deselect")
	}
}

func TestSetItemsResetsSelection(t *testing.T) {
	s := NewRangeSelector()
	s.SetItems(candidates(true, true))
	s.ExtendSelection(1)
	s.SetItems(candidates(true))
	if s.HasSelection() {
		t.Fatalf("expected new list identity to clear selection")
	}
	if s.Highlight() != 0 {
		t.Fatalf("expected highlight clamped to new list, got %d", s.Highlight())
	}
}
