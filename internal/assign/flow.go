// Package assign resolves a batch of candidate texts against the existing
// corpus and binds the outcome to a target group. Classification, creation,
// and binding are separate phases; a later phase failing never unwinds an
// earlier one, so each is independently retryable.
package assign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"curator/internal/client"
	"curator/internal/search"
	"curator/internal/types"
)

var (
	ErrGroupPhase  = errors.New("group phase failed")
	ErrCreatePhase = errors.New("create phase failed")
	ErrBindPhase   = errors.New("bind phase failed")
)

type API interface {
	CreateGroup(ctx context.Context, title string, brand *types.BrandInfo) (*types.Group, error)
	CreatePrompts(ctx context.Context, texts []string) (*client.CreatePromptsResponse, error)
	AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error)
}

type Searcher interface {
	LookupBatch(ctx context.Context, texts []string) map[string][]types.CandidateMatch
}

type Flow struct {
	api          API
	search       Searcher
	dupThreshold float64
}

func NewFlow(api API, searcher Searcher, duplicateThreshold float64) *Flow {
	if duplicateThreshold <= 0 || duplicateThreshold > 1 {
		duplicateThreshold = 0.995
	}
	return &Flow{api: api, search: searcher, dupThreshold: duplicateThreshold}
}

// Classification is the per-text reconciliation verdict. A duplicate is
// ineligible for independent selection; "has similar" is informational only.
type Classification struct {
	Text       string
	Matches    []types.CandidateMatch
	Best       *types.CandidateMatch
	Duplicate  bool
	HasSimilar bool
}

// Classify reconciles every input text against the corpus, one entry per
// input occurrence. Lookup failures have already been degraded to empty
// match lists by the engine, so classification itself cannot fail.
func (f *Flow) Classify(ctx context.Context, texts []string) []Classification {
	lookups := f.search.LookupBatch(ctx, texts)
	out := make([]Classification, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		matches := lookups[text]
		best := search.Best(matches)
		c := Classification{Text: text, Matches: matches, Best: best}
		if best != nil {
			if best.Similarity >= f.dupThreshold {
				c.Duplicate = true
			} else {
				c.HasSimilar = true
			}
		}
		out = append(out, c)
	}
	return out
}

// Decision is the user's final verdict for one candidate text.
type Decision struct {
	Text        string
	UseExisting bool
	PromptID    int64
}

// Partition splits decisions into the two disjoint sets the commit phase
// consumes: ids of prompts to reuse and texts to create. Reused ids are
// deduplicated; the same prompt bound twice would only be skipped server-side
// anyway.
func Partition(decisions []Decision) (existingIDs []int64, newTexts []string) {
	seen := map[int64]struct{}{}
	for _, d := range decisions {
		if d.UseExisting {
			if d.PromptID == 0 {
				continue
			}
			if _, ok := seen[d.PromptID]; ok {
				continue
			}
			seen[d.PromptID] = struct{}{}
			existingIDs = append(existingIDs, d.PromptID)
			continue
		}
		text := strings.TrimSpace(d.Text)
		if text != "" {
			newTexts = append(newTexts, text)
		}
	}
	return existingIDs, newTexts
}

// Target names the group to bind into. A zero GroupID with a NewTitle means
// the group is created first.
type Target struct {
	GroupID  int64
	NewTitle string
	Brand    *types.BrandInfo
}

type Outcome struct {
	GroupID    int64
	CreatedIDs []int64
	ReusedIDs  []int64
	Added      int
	Skipped    int
}

// Commit runs the remote phases in order: resolve (or create) the target
// group, create the new texts in one batch, then bind reused and created ids
// together. Errors are wrapped with the failing phase's sentinel so callers
// can retry just that phase.
func (f *Flow) Commit(ctx context.Context, target Target, existingIDs []int64, newTexts []string) (*Outcome, error) {
	groupID := target.GroupID
	if groupID == 0 {
		title := strings.TrimSpace(target.NewTitle)
		if title == "" {
			return nil, fmt.Errorf("%w: a group id or new title is required", ErrGroupPhase)
		}
		group, err := f.api.CreateGroup(ctx, title, target.Brand)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGroupPhase, err)
		}
		groupID = group.ID
	}

	outcome := &Outcome{GroupID: groupID, ReusedIDs: append([]int64(nil), existingIDs...)}
	if len(newTexts) > 0 {
		created, err := f.api.CreatePrompts(ctx, newTexts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCreatePhase, err)
		}
		for _, p := range created.Created {
			if p != nil {
				outcome.CreatedIDs = append(outcome.CreatedIDs, p.ID)
			}
		}
		// Concurrent duplicate creation is resolved server-side; reused
		// ids still need binding.
		for _, p := range created.Reused {
			if p != nil {
				outcome.CreatedIDs = append(outcome.CreatedIDs, p.ID)
			}
		}
	}

	bindIDs := append(append([]int64(nil), outcome.ReusedIDs...), outcome.CreatedIDs...)
	if len(bindIDs) == 0 {
		return outcome, nil
	}
	change, err := f.api.AddBindings(ctx, groupID, bindIDs)
	if err != nil {
		return outcome, fmt.Errorf("%w: %v", ErrBindPhase, err)
	}
	outcome.Added = change.Added
	outcome.Skipped = change.Skipped
	return outcome, nil
}
