package app

import (
	"reflect"
	"testing"

	"curator/internal/types"
)

func TestSearchPanelMarksBoundCandidatesIneligible(t *testing.T) {
	p := NewSearchPanel(60, 10)
	p.SetMatches([]types.CandidateMatch{
		{PromptID: 1, PromptText: "buy shoes", Similarity: 0.91},
		{PromptID: 2, PromptText: "buy boots", Similarity: 0.88},
		{PromptID: 3, PromptText: "buy sandals", Similarity: 0.80},
	}, map[int64]bool{2: true})

	p.ExtendSelection(1)
	p.ExtendSelection(1)
	if got := p.SelectedIDs(); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("expected bound prompt skipped, got %v", got)
	}
}

func TestSearchPanelNewResultsDropSelection(t *testing.T) {
	p := NewSearchPanel(60, 10)
	p.SetMatches([]types.CandidateMatch{{PromptID: 1, PromptText: "a", Similarity: 0.9}}, nil)
	p.ToggleHighlighted()
	if len(p.SelectedIDs()) != 1 {
		t.Fatalf("expected one selected candidate")
	}
	p.SetMatches([]types.CandidateMatch{{PromptID: 5, PromptText: "b", Similarity: 0.9}}, nil)
	if len(p.SelectedIDs()) != 0 {
		t.Fatalf("expected fresh results to clear selection")
	}
}

func TestSearchPanelHighlightedMatch(t *testing.T) {
	p := NewSearchPanel(60, 10)
	if p.HighlightedMatch() != nil {
		t.Fatalf("expected nil highlight on empty panel")
	}
	p.SetMatches([]types.CandidateMatch{
		{PromptID: 1, PromptText: "a", Similarity: 0.9},
		{PromptID: 2, PromptText: "b", Similarity: 0.8},
	}, nil)
	p.MoveHighlight(1)
	match := p.HighlightedMatch()
	if match == nil || match.PromptID != 2 {
		t.Fatalf("expected highlight on second candidate, got %+v", match)
	}
}
