package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"curator/internal/client"
	"curator/internal/logging"
	"curator/internal/types"
)

type fakeSearchAPI struct {
	calls   []string
	results map[string][]types.CandidateMatch
	fail    map[string]error
}

func (f *fakeSearchAPI) SearchSimilar(ctx context.Context, text string, k int, minSimilarity float64) (*client.SearchResponse, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.fail[text]; ok {
		return nil, err
	}
	matches := f.results[text]
	return &client.SearchResponse{Matches: matches, TotalFound: len(matches)}, nil
}

func TestLookupSkipsShortQueries(t *testing.T) {
	api := &fakeSearchAPI{}
	engine := NewEngine(api, logging.Nop(), 2, 5, 0.3)
	for _, query := range []string{"", " ", "a", " a "} {
		matches, issued, err := engine.Lookup(context.Background(), query)
		if err != nil {
			t.Fatalf("lookup %q: %v", query, err)
		}
		if issued {
			t.Fatalf("expected no remote call for %q", query)
		}
		if matches != nil {
			t.Fatalf("expected nil matches for %q, got %v", query, matches)
		}
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected zero remote calls, got %v", api.calls)
	}
}

func TestLookupCachesByRequestKey(t *testing.T) {
	api := &fakeSearchAPI{results: map[string][]types.CandidateMatch{
		"buy shoes": {{PromptID: 1, PromptText: "buy shoes", Similarity: 0.9}},
	}}
	engine := NewEngine(api, logging.Nop(), 2, 5, 0.3)

	matches, issued, err := engine.Lookup(context.Background(), "buy shoes")
	if err != nil || !issued {
		t.Fatalf("first lookup: issued=%v err=%v", issued, err)
	}
	if len(matches) != 1 || matches[0].PromptID != 1 {
		t.Fatalf("unexpected matches %v", matches)
	}

	_, issued, err = engine.Lookup(context.Background(), "  buy shoes ")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if issued {
		t.Fatalf("expected cached result, but a remote call was issued")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected exactly one remote call, got %v", api.calls)
	}
}

func TestLookupBatchIsolatesPerItemFailures(t *testing.T) {
	api := &fakeSearchAPI{
		results: map[string][]types.CandidateMatch{
			"good": {{PromptID: 4, PromptText: "good", Similarity: 0.7}},
		},
		fail: map[string]error{"bad": errors.New("boom")},
	}
	engine := NewEngine(api, logging.Nop(), 2, 5, 0.3)

	out := engine.LookupBatch(context.Background(), []string{"good", "bad", "good"})
	if len(out) != 2 {
		t.Fatalf("expected two entries, got %v", out)
	}
	if len(out["good"]) != 1 {
		t.Fatalf("expected a match for good, got %v", out["good"])
	}
	if got, ok := out["bad"]; !ok || len(got) != 0 {
		t.Fatalf("expected degraded empty result for bad, got %v (present=%v)", got, ok)
	}
	// Duplicate text resolved once.
	if len(api.calls) != 2 {
		t.Fatalf("expected two remote calls, got %v", api.calls)
	}
}

func TestBestPicksHighestSimilarity(t *testing.T) {
	matches := []types.CandidateMatch{
		{PromptID: 1, Similarity: 0.4},
		{PromptID: 2, Similarity: 0.9},
		{PromptID: 3, Similarity: 0.6},
	}
	best := Best(matches)
	if best == nil || best.PromptID != 2 {
		t.Fatalf("expected prompt 2, got %v", best)
	}
	if Best(nil) != nil {
		t.Fatalf("expected nil best for empty matches")
	}
}

func TestDebouncerTokens(t *testing.T) {
	d := NewDebouncer(300 * time.Millisecond)
	first := d.Arm()
	second := d.Arm()
	if d.Current(first) {
		t.Fatalf("expected first token to be superseded")
	}
	if !d.Current(second) {
		t.Fatalf("expected second token to be current")
	}
	d.Cancel()
	if d.Current(second) {
		t.Fatalf("expected cancel to void the pending token")
	}
}
