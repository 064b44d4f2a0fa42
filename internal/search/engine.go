// Package search turns free-text input into ranked candidate matches against
// the remote prompt corpus. The engine gates short queries, caches results by
// their full request key, and degrades per-item batch failures to empty
// results instead of failing the batch.
package search

import (
	"context"
	"strings"
	"sync"

	"curator/internal/client"
	"curator/internal/logging"
	"curator/internal/types"
)

type API interface {
	SearchSimilar(ctx context.Context, text string, k int, minSimilarity float64) (*client.SearchResponse, error)
}

type resultKey struct {
	query         string
	k             int
	minSimilarity float64
}

type Engine struct {
	api           API
	log           logging.Logger
	minQuery      int
	k             int
	minSimilarity float64

	mu    sync.Mutex
	cache map[resultKey][]types.CandidateMatch
}

func NewEngine(api API, log logging.Logger, minQuery, k int, minSimilarity float64) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	if minQuery < 1 {
		minQuery = 1
	}
	if k < 1 {
		k = 1
	}
	return &Engine{
		api:           api,
		log:           log,
		minQuery:      minQuery,
		k:             k,
		minSimilarity: minSimilarity,
		cache:         map[resultKey][]types.CandidateMatch{},
	}
}

// Lookup resolves a single interactive query. Queries shorter than the
// minimum length are skipped without touching the network; issued reports
// whether a remote call was made. Results are cached by (query, k,
// minSimilarity) so a superseded in-flight response lands under its own key
// and never overwrites a newer query's results.
func (e *Engine) Lookup(ctx context.Context, query string) (matches []types.CandidateMatch, issued bool, err error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < e.minQuery {
		return nil, false, nil
	}
	key := resultKey{query: query, k: e.k, minSimilarity: e.minSimilarity}
	if cached, ok := e.cached(key); ok {
		return cached, false, nil
	}
	resp, err := e.api.SearchSimilar(ctx, query, e.k, e.minSimilarity)
	if err != nil {
		return nil, true, err
	}
	e.put(key, resp.Matches)
	return resp.Matches, true, nil
}

// LookupBatch reconciles a batch of texts, one search each. A failed lookup
// degrades to an empty match list for that text only; the batch itself never
// fails. Duplicate texts are looked up once.
func (e *Engine) LookupBatch(ctx context.Context, texts []string) map[string][]types.CandidateMatch {
	out := make(map[string][]types.CandidateMatch, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, done := out[text]; done {
			continue
		}
		key := resultKey{query: text, k: e.k, minSimilarity: e.minSimilarity}
		if cached, ok := e.cached(key); ok {
			out[text] = cached
			continue
		}
		resp, err := e.api.SearchSimilar(ctx, text, e.k, e.minSimilarity)
		if err != nil {
			e.log.Warn("batch lookup degraded", logging.F("text", text), logging.F("err", err))
			out[text] = []types.CandidateMatch{}
			continue
		}
		e.put(key, resp.Matches)
		out[text] = resp.Matches
	}
	return out
}

// Best returns the highest-similarity match, or nil for an empty list.
func Best(matches []types.CandidateMatch) *types.CandidateMatch {
	var best *types.CandidateMatch
	for i := range matches {
		if best == nil || matches[i].Similarity > best.Similarity {
			best = &matches[i]
		}
	}
	return best
}

func (e *Engine) MinQueryLength() int {
	return e.minQuery
}

func (e *Engine) cached(key resultKey) ([]types.CandidateMatch, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	matches, ok := e.cache[key]
	return matches, ok
}

func (e *Engine) put(key resultKey, matches []types.CandidateMatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if matches == nil {
		matches = []types.CandidateMatch{}
	}
	e.cache[key] = matches
}
