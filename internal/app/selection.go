package app

// selectionCandidate is one row of the match dropdown. Ineligible rows
// (prompts already bound to another group) render but never select.
type selectionCandidate struct {
	id       int64
	eligible bool
}

// RangeSelector tracks the highlighted row plus an anchor-based multi
// selection over an ordered candidate list. Ineligible candidates are
// structurally inert: they can be highlighted but never enter the
// selection, and range extension skips over them.
type RangeSelector struct {
	items     []selectionCandidate
	highlight int
	anchor    int
	selected  map[int64]bool
}

func NewRangeSelector() *RangeSelector {
	return &RangeSelector{anchor: -1, selected: map[int64]bool{}}
}

// SetItems replaces the candidate list. A new list is a new identity,
// so any active selection and anchor are discarded.
func (s *RangeSelector) SetItems(items []selectionCandidate) {
	s.items = append(s.items[:0], items...)
	s.Clear()
	if s.highlight >= len(s.items) {
		s.highlight = max(0, len(s.items)-1)
	}
}

func (s *RangeSelector) Len() int {
	return len(s.items)
}

func (s *RangeSelector) Highlight() int {
	return s.highlight
}

func (s *RangeSelector) IsSelected(id int64) bool {
	return s.selected[id]
}

// SelectedIDs returns the selection in list order.
func (s *RangeSelector) SelectedIDs() []int64 {
	if len(s.selected) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(s.selected))
	for _, item := range s.items {
		if s.selected[item.id] {
			ids = append(ids, item.id)
		}
	}
	return ids
}

// MoveHighlight moves the highlight one step, wrapping at the ends, and
// drops any active range.
func (s *RangeSelector) MoveHighlight(delta int) bool {
	if len(s.items) == 0 || delta == 0 {
		return false
	}
	s.Clear()
	next := (s.highlight + delta) % len(s.items)
	if next < 0 {
		next += len(s.items)
	}
	s.highlight = next
	return true
}

// ExtendSelection grows the range one eligible candidate in the given
// direction. With no anchor yet, the anchor is first placed on the
// nearest eligible candidate at or after the highlight; the selection
// then becomes every eligible member of the closed interval between the
// anchor and the new highlight. Hitting the end of eligible candidates
// is not an error, the highlight simply stays.
func (s *RangeSelector) ExtendSelection(delta int) bool {
	if len(s.items) == 0 || delta == 0 {
		return false
	}
	hadAnchor := s.anchor >= 0
	if !hadAnchor {
		anchor := s.nextEligible(s.highlight, 1)
		if anchor < 0 {
			return false
		}
		s.anchor = anchor
		s.highlight = anchor
	}

	step := 1
	if delta < 0 {
		step = -1
	}
	next := s.nextEligible(s.highlight+step, step)
	if next < 0 {
		if !hadAnchor {
			// Nothing beyond the anchor in that direction: establish a
			// singleton selection at the current position.
			s.applyRange()
			return true
		}
		return false
	}
	s.highlight = next
	s.applyRange()
	return true
}

// ToggleSingle flips one candidate in or out of the selection without
// engaging the anchor.
func (s *RangeSelector) ToggleSingle(id int64) bool {
	idx := s.indexOf(id)
	if idx < 0 || !s.items[idx].eligible {
		return false
	}
	s.anchor = -1
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	return true
}

func (s *RangeSelector) Clear() {
	s.anchor = -1
	if len(s.selected) > 0 {
		s.selected = map[int64]bool{}
	}
}

func (s *RangeSelector) HasSelection() bool {
	return len(s.selected) > 0
}

// applyRange rebuilds the selection as the eligible members of the
// closed interval between anchor and highlight.
func (s *RangeSelector) applyRange() {
	lo, hi := s.anchor, s.highlight
	if lo > hi {
		lo, hi = hi, lo
	}
	s.selected = map[int64]bool{}
	for i := lo; i <= hi && i < len(s.items); i++ {
		if i >= 0 && s.items[i].eligible {
			s.selected[s.items[i].id] = true
		}
	}
}

// nextEligible scans from start in the given step direction and returns
// the first eligible index, or -1 when the scan runs off the list.
func (s *RangeSelector) nextEligible(start, step int) int {
	for i := start; i >= 0 && i < len(s.items); i += step {
		if s.items[i].eligible {
			return i
		}
	}
	return -1
}

func (s *RangeSelector) indexOf(id int64) int {
	for i, item := range s.items {
		if item.id == id {
			return i
		}
	}
	return -1
}
