package wizard

import (
	"errors"
	"testing"

	"curator/internal/types"
)

func analyzedState(t *testing.T) State {
	t.Helper()
	state := New(1, 0.98)
	state = Reduce(state, SubmitConfigure{Target: "example.com", Locale: "UA"})
	if !state.Analyzing {
		t.Fatalf("expected analyze to be pending after submit")
	}
	state = Reduce(state, AnalyzeResult{
		Session:         1,
		Meta:            &types.SiteMeta{Title: "Example"},
		Matched:         []string{"running shoes", "trail boots"},
		Unmatched:       []string{"climbing gear"},
		BrandVariations: []string{"Example", "example.com"},
	})
	return state
}

func TestSubmitConfigureValidatesLocally(t *testing.T) {
	state := New(1, 0.98)
	state = Reduce(state, SubmitConfigure{Target: "  ", Locale: "UA"})
	if state.Analyzing {
		t.Fatalf("expected no analyze for empty target")
	}
	if state.Err == "" {
		t.Fatalf("expected inline validation error")
	}
	state = Reduce(state, SubmitConfigure{Target: "example.com", Locale: "UA"})
	if !state.Analyzing || state.Err != "" {
		t.Fatalf("expected valid submit to clear error and start analyzing, got %+v", state)
	}
}

func TestAnalyzeFailureStaysInConfigure(t *testing.T) {
	state := New(1, 0.98)
	state = Reduce(state, SubmitConfigure{Target: "example.com", Locale: "UA"})
	state = Reduce(state, AnalyzeResult{Session: 1, Err: errors.New("upstream 500")})
	if state.Step != StepConfigure {
		t.Fatalf("expected to remain in configure, got %s", state.Step)
	}
	if state.Err != "upstream 500" || state.Analyzing {
		t.Fatalf("expected surfaced error, got %+v", state)
	}
}

func TestAnalyzeSuccessAdvancesToMatched(t *testing.T) {
	state := analyzedState(t)
	if state.Step != StepMatched {
		t.Fatalf("expected matched step, got %s", state.Step)
	}
	if len(state.Matched) != 2 || state.Matched[0].Name != "running shoes" {
		t.Fatalf("expected two topic cards, got %+v", state.Matched)
	}
	if state.Matched[0].Expanded || state.Matched[0].Loaded {
		t.Fatalf("expected topics to begin unexpanded with no prompts")
	}
	if state.Err != "" {
		t.Fatalf("expected error cleared on transition")
	}
}

func TestTopicPromptsLoadExactlyOnce(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, ToggleTopicExpand{Index: 0})
	if !state.Matched[0].Expanded || !state.Matched[0].Loading {
		t.Fatalf("expected first expansion to start loading, got %+v", state.Matched[0])
	}
	state = Reduce(state, TopicPromptsResult{
		Session: 1,
		Topic:   "running shoes",
		Prompts: []*types.Prompt{{ID: 1, Text: "best running shoes"}},
	})
	if !state.Matched[0].Loaded || state.Matched[0].Loading {
		t.Fatalf("expected topic loaded, got %+v", state.Matched[0])
	}
	// Collapse and re-expand: no second load is started.
	state = Reduce(state, ToggleTopicExpand{Index: 0})
	state = Reduce(state, ToggleTopicExpand{Index: 0})
	if state.Matched[0].Loading {
		t.Fatalf("expected re-expansion not to refetch")
	}
}

func TestContinueIsTerminalWithoutUnmatchedTopics(t *testing.T) {
	state := New(1, 0.98)
	state = Reduce(state, SubmitConfigure{Target: "example.com", Locale: "UA"})
	state = Reduce(state, AnalyzeResult{Session: 1, Matched: []string{"only topic"}})
	state = Reduce(state, Continue{})
	if !state.Closing {
		t.Fatalf("expected continue to close the wizard with nothing to generate")
	}
}

func TestGenerateHappyPath(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, Continue{})
	if state.Step != StepGenerate {
		t.Fatalf("expected generate step, got %s", state.Step)
	}
	state = Reduce(state, ToggleUnmatched{Name: "climbing gear"})
	state = Reduce(state, SetBrands{Brands: []string{"Example"}})
	state = Reduce(state, RequestGenerate{})
	if !state.NeedsConfirm {
		t.Fatalf("expected affordability confirmation to open")
	}
	state = Reduce(state, PriceResult{Session: 1, Price: &types.GenerationPrice{PerTopic: 2}, Balance: &types.Balance{Amount: 10}})
	state = Reduce(state, ConfirmGenerate{})
	if state.NeedsConfirm || !state.Generating {
		t.Fatalf("expected confirmed generation to be in flight, got %+v", state)
	}

	state = Reduce(state, GenerateComplete{
		Session: 1,
		Topics: []types.GeneratedTopic{{
			Topic: "climbing gear",
			Clusters: []types.GeneratedCluster{{
				Keywords:    []string{"rope", "harness"},
				PromptTexts: []string{"buy climbing rope", "harness sizing guide", "chalk bag reviews"},
			}},
		}},
		Best: map[string]*types.CandidateMatch{
			"buy climbing rope": {PromptID: 9, PromptText: "buy climbing rope online", Similarity: 0.99},
		},
	})
	if state.Step != StepReview {
		t.Fatalf("expected review step, got %s", state.Step)
	}
	prompts := state.Review[0].Prompts
	if len(prompts) != 3 {
		t.Fatalf("expected three generated prompts, got %d", len(prompts))
	}
	if !prompts[0].UseMatch {
		t.Fatalf("expected near-identical prompt pre-selected as use-match")
	}
	if prompts[1].UseMatch || prompts[2].UseMatch {
		t.Fatalf("expected unmatched prompts to default to keep-as-new")
	}

	state = Reduce(state, ReviewCommitted{Session: 1, TopicIndex: 0, GroupID: 5})
	if !state.Review[0].Committed || state.Review[0].GroupID != 5 {
		t.Fatalf("expected committed topic recorded, got %+v", state.Review[0])
	}
}

func TestAutoSelectThresholdBoundary(t *testing.T) {
	for _, tc := range []struct {
		similarity float64
		useMatch   bool
	}{
		{0.98, true},
		{0.9799, false},
	} {
		state := analyzedState(t)
		state = Reduce(state, Continue{})
		state = Reduce(state, ToggleUnmatched{Name: "climbing gear"})
		state = Reduce(state, RequestGenerate{})
		state = Reduce(state, ConfirmGenerate{})
		state = Reduce(state, GenerateComplete{
			Session: 1,
			Topics: []types.GeneratedTopic{{
				Topic:    "climbing gear",
				Clusters: []types.GeneratedCluster{{PromptTexts: []string{"buy rope"}}},
			}},
			Best: map[string]*types.CandidateMatch{
				"buy rope": {PromptID: 3, Similarity: tc.similarity},
			},
		})
		if got := state.Review[0].Prompts[0].UseMatch; got != tc.useMatch {
			t.Fatalf("similarity %v: expected use-match=%v, got %v", tc.similarity, tc.useMatch, got)
		}
	}
}

func TestInsufficientBalanceReopensConfirmation(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, Continue{})
	state = Reduce(state, ToggleUnmatched{Name: "climbing gear"})
	state = Reduce(state, RequestGenerate{})
	state = Reduce(state, ConfirmGenerate{})
	state = Reduce(state, GenerateComplete{Session: 1, InsufficientBalance: true})
	if state.Step != StepGenerate {
		t.Fatalf("expected to remain in generate, got %s", state.Step)
	}
	if !state.NeedsConfirm || state.Err != "" {
		t.Fatalf("expected confirmation re-opened without a generic error, got %+v", state)
	}
}

func TestGenerateFailurePreservesSelections(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, Continue{})
	state = Reduce(state, ToggleUnmatched{Name: "climbing gear"})
	state = Reduce(state, SetBrands{Brands: []string{"Example", "Examp1e"}})
	state = Reduce(state, RequestGenerate{})
	state = Reduce(state, ConfirmGenerate{})
	state = Reduce(state, GenerateComplete{Session: 1, Err: errors.New("gateway timeout")})
	if state.Step != StepGenerate || state.Err != "gateway timeout" {
		t.Fatalf("expected failure surfaced in place, got %+v", state)
	}
	if !state.SelectedUnmatched["climbing gear"] || len(state.Brands) != 2 {
		t.Fatalf("expected topic selection and brand edits preserved for retry")
	}
}

func TestBackWalksStrictlyEarlier(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, Continue{})
	state = Reduce(state, Back{})
	if state.Step != StepMatched {
		t.Fatalf("expected back to matched, got %s", state.Step)
	}
	state = Reduce(state, Back{})
	if state.Step != StepConfigure {
		t.Fatalf("expected back to configure, got %s", state.Step)
	}
	state = Reduce(state, Back{})
	if state.Step != StepConfigure {
		t.Fatalf("expected back at configure to be a no-op, got %s", state.Step)
	}
}

func TestStaleSessionResultsAreNoOps(t *testing.T) {
	state := analyzedState(t)
	stale := Reduce(state, AnalyzeResult{Session: 99, Matched: []string{"hijack"}})
	if len(stale.Matched) != 2 {
		t.Fatalf("expected stale analyze result to be dropped")
	}
	stale = Reduce(state, GenerateComplete{Session: 99, Topics: []types.GeneratedTopic{{Topic: "x"}}})
	if stale.Step != StepMatched {
		t.Fatalf("expected stale generate result to be dropped")
	}
}

func TestCloseThenResetDiscardsSession(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, Close{})
	if !state.Closing {
		t.Fatalf("expected closing flag set")
	}
	// Late in-flight results are no-ops after close.
	afterLate := Reduce(state, TopicPromptsResult{Session: 1, Topic: "running shoes", Prompts: []*types.Prompt{{ID: 1}}})
	if afterLate.Matched[0].Loaded {
		t.Fatalf("expected late resolution to be a no-op on a closed session")
	}
	// A reset scheduled for an older session leaves a newer one alone.
	fresh := Reduce(state, Reset{Session: 1})
	if fresh.Session != 2 || fresh.Step != StepConfigure || len(fresh.Matched) != 0 {
		t.Fatalf("expected a fresh session after reset, got %+v", fresh)
	}
	untouched := Reduce(fresh, Reset{Session: 1})
	if untouched.Session != 2 {
		t.Fatalf("expected stale reset to be ignored, got session %d", untouched.Session)
	}
}

func TestReducerDoesNotAliasPreviousState(t *testing.T) {
	state := analyzedState(t)
	state = Reduce(state, ToggleTopicExpand{Index: 0})
	next := Reduce(state, TopicPromptsResult{Session: 1, Topic: "running shoes", Prompts: []*types.Prompt{{ID: 1, Text: "p"}}})
	if state.Matched[0].Loaded {
		t.Fatalf("expected prior state value untouched by reduction")
	}
	next.Matched[0].Name = "mutated"
	if state.Matched[0].Name != "running shoes" {
		t.Fatalf("expected deep copy between states")
	}
}
