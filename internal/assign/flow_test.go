package assign

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"curator/internal/client"
	"curator/internal/types"
)

type fakeAssignAPI struct {
	createGroupErr   error
	createPromptsErr error
	addBindingsErr   error

	createdGroup *types.Group
	createdTexts []string
	boundGroupID int64
	boundIDs     []int64
	bindChange   client.BindingChange
}

func (f *fakeAssignAPI) CreateGroup(ctx context.Context, title string, brand *types.BrandInfo) (*types.Group, error) {
	if f.createGroupErr != nil {
		return nil, f.createGroupErr
	}
	f.createdGroup = &types.Group{ID: 42, Title: title, Brand: brand}
	return f.createdGroup, nil
}

func (f *fakeAssignAPI) CreatePrompts(ctx context.Context, texts []string) (*client.CreatePromptsResponse, error) {
	if f.createPromptsErr != nil {
		return nil, f.createPromptsErr
	}
	f.createdTexts = texts
	resp := &client.CreatePromptsResponse{}
	for i, text := range texts {
		resp.Created = append(resp.Created, &types.Prompt{ID: int64(1000 + i), Text: text})
	}
	return resp, nil
}

func (f *fakeAssignAPI) AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error) {
	if f.addBindingsErr != nil {
		return nil, f.addBindingsErr
	}
	f.boundGroupID = groupID
	f.boundIDs = promptIDs
	change := f.bindChange
	if change.Added == 0 && change.Skipped == 0 {
		change = client.BindingChange{Added: len(promptIDs)}
	}
	return &change, nil
}

type fixedSearcher struct {
	matches map[string][]types.CandidateMatch
}

func (s fixedSearcher) LookupBatch(ctx context.Context, texts []string) map[string][]types.CandidateMatch {
	out := map[string][]types.CandidateMatch{}
	for _, text := range texts {
		out[text] = s.matches[text]
	}
	return out
}

func TestClassifyMarksDuplicatesAndSimilar(t *testing.T) {
	searcher := fixedSearcher{matches: map[string][]types.CandidateMatch{
		"buy shoes": {{PromptID: 1, PromptText: "buy shoes", Similarity: 1.0}},
		"buy боты":  {{PromptID: 2, PromptText: "buy boots", Similarity: 0.7}},
		"novel":     {},
	}}
	flow := NewFlow(&fakeAssignAPI{}, searcher, 0.995)

	// The same text submitted twice is classified per occurrence; both are
	// duplicates when the corpus already holds it.
	got := flow.Classify(context.Background(), []string{"buy shoes", "buy shoes", "buy боты", "novel"})
	if len(got) != 4 {
		t.Fatalf("expected four classifications, got %d", len(got))
	}
	for i := 0; i < 2; i++ {
		if !got[i].Duplicate {
			t.Fatalf("expected occurrence %d of buy shoes classified duplicate, got %+v", i, got[i])
		}
	}
	if got[2].Duplicate || !got[2].HasSimilar {
		t.Fatalf("expected has-similar for near match, got %+v", got[2])
	}
	if got[3].Duplicate || got[3].HasSimilar || got[3].Best != nil {
		t.Fatalf("expected clean classification for novel text, got %+v", got[3])
	}
}

func TestClassifyDuplicateThresholdBoundary(t *testing.T) {
	searcher := fixedSearcher{matches: map[string][]types.CandidateMatch{
		"at":    {{PromptID: 1, Similarity: 0.995}},
		"under": {{PromptID: 2, Similarity: 0.9949}},
	}}
	flow := NewFlow(&fakeAssignAPI{}, searcher, 0.995)
	got := flow.Classify(context.Background(), []string{"at", "under"})
	if !got[0].Duplicate {
		t.Fatalf("expected similarity at threshold to be a duplicate")
	}
	if got[1].Duplicate || !got[1].HasSimilar {
		t.Fatalf("expected similarity under threshold to be has-similar, got %+v", got[1])
	}
}

func TestPartitionSplitsDisjointSets(t *testing.T) {
	existing, fresh := Partition([]Decision{
		{Text: "reuse me", UseExisting: true, PromptID: 5},
		{Text: "reuse me too", UseExisting: true, PromptID: 5},
		{Text: " keep new ", UseExisting: false},
		{Text: "", UseExisting: false},
		{Text: "orphan reuse", UseExisting: true, PromptID: 0},
	})
	if !reflect.DeepEqual(existing, []int64{5}) {
		t.Fatalf("expected deduplicated existing ids, got %v", existing)
	}
	if !reflect.DeepEqual(fresh, []string{"keep new"}) {
		t.Fatalf("expected trimmed new texts, got %v", fresh)
	}
}

func TestCommitCreatesGroupThenPromptsThenBinds(t *testing.T) {
	api := &fakeAssignAPI{}
	flow := NewFlow(api, fixedSearcher{}, 0.995)

	outcome, err := flow.Commit(context.Background(), Target{NewTitle: "Shoes"}, []int64{7}, []string{"new one", "new two"})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if api.createdGroup == nil || api.createdGroup.Title != "Shoes" {
		t.Fatalf("expected group created first, got %+v", api.createdGroup)
	}
	if outcome.GroupID != 42 {
		t.Fatalf("expected outcome bound to created group, got %d", outcome.GroupID)
	}
	if !reflect.DeepEqual(api.createdTexts, []string{"new one", "new two"}) {
		t.Fatalf("expected both texts created in one batch, got %v", api.createdTexts)
	}
	if !reflect.DeepEqual(api.boundIDs, []int64{7, 1000, 1001}) {
		t.Fatalf("expected reused plus created ids bound together, got %v", api.boundIDs)
	}
	if outcome.Added != 3 {
		t.Fatalf("expected three additions, got %+v", outcome)
	}
}

func TestCommitBindFailureKeepsCreatePhaseResult(t *testing.T) {
	api := &fakeAssignAPI{addBindingsErr: errors.New("bind down")}
	flow := NewFlow(api, fixedSearcher{}, 0.995)

	outcome, err := flow.Commit(context.Background(), Target{GroupID: 9}, nil, []string{"kept"})
	if !errors.Is(err, ErrBindPhase) {
		t.Fatalf("expected bind phase error, got %v", err)
	}
	if outcome == nil || !reflect.DeepEqual(outcome.CreatedIDs, []int64{1000}) {
		t.Fatalf("expected created ids preserved for retry, got %+v", outcome)
	}
}

func TestCommitGroupPhaseFailure(t *testing.T) {
	api := &fakeAssignAPI{createGroupErr: errors.New("nope")}
	flow := NewFlow(api, fixedSearcher{}, 0.995)
	if _, err := flow.Commit(context.Background(), Target{NewTitle: "X"}, nil, nil); !errors.Is(err, ErrGroupPhase) {
		t.Fatalf("expected group phase error, got %v", err)
	}
	if api.createdTexts != nil {
		t.Fatalf("expected no create call after group failure")
	}
}

func TestCommitSkippedCountsPassThrough(t *testing.T) {
	api := &fakeAssignAPI{bindChange: client.BindingChange{Added: 0, Skipped: 1}}
	flow := NewFlow(api, fixedSearcher{}, 0.995)
	outcome, err := flow.Commit(context.Background(), Target{GroupID: 3}, []int64{8}, nil)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if outcome.Added != 0 || outcome.Skipped != 1 {
		t.Fatalf("expected idempotent re-add to report skipped, got %+v", outcome)
	}
}
