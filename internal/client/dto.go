package client

import "curator/internal/types"

type SearchRequest struct {
	Text          string  `json:"text"`
	K             int     `json:"k"`
	MinSimilarity float64 `json:"min_similarity"`
}

type SearchResponse struct {
	Matches    []types.CandidateMatch `json:"matches"`
	TotalFound int                    `json:"total_found"`
}

type AnalyzeRequest struct {
	Target string `json:"target"`
	Locale string `json:"locale"`
}

type AnalyzeResponse struct {
	Meta            *types.SiteMeta `json:"meta,omitempty"`
	MatchedTopics   []string        `json:"matched_topics"`
	UnmatchedTopics []string        `json:"unmatched_topics"`
	BrandVariations []string        `json:"brand_variations"`
}

type TopicPromptsRequest struct {
	Topics []string `json:"topics"`
}

type TopicPromptsResponse struct {
	Prompts map[string][]*types.Prompt `json:"prompts"`
}

type GenerateRequest struct {
	Target          string   `json:"target"`
	Locale          string   `json:"locale"`
	Topics          []string `json:"topics"`
	BrandExclusions []string `json:"brand_exclusions,omitempty"`
}

type GenerateResponse struct {
	Topics []types.GeneratedTopic `json:"topics"`
}

type CreatePromptsRequest struct {
	Texts []string `json:"texts"`
}

// CreatePromptsResponse reports the prompts assigned to each input text.
// Identical text reuses an existing id server-side instead of duplicating,
// so ids may appear under reused rather than created.
type CreatePromptsResponse struct {
	Created []*types.Prompt `json:"created"`
	Reused  []*types.Prompt `json:"reused"`
}

// PromptIDs returns every id from the response, created and reused alike.
func (r *CreatePromptsResponse) PromptIDs() []int64 {
	if r == nil {
		return nil
	}
	out := make([]int64, 0, len(r.Created)+len(r.Reused))
	for _, p := range r.Created {
		if p != nil {
			out = append(out, p.ID)
		}
	}
	for _, p := range r.Reused {
		if p != nil {
			out = append(out, p.ID)
		}
	}
	return out
}

type GroupsResponse struct {
	Groups []*types.Group `json:"groups"`
}

type CreateGroupRequest struct {
	Title string           `json:"title"`
	Brand *types.BrandInfo `json:"brand,omitempty"`
}

type UpdateGroupRequest struct {
	Title *string          `json:"title,omitempty"`
	Brand *types.BrandInfo `json:"brand,omitempty"`
}

type BindingsRequest struct {
	PromptIDs []int64 `json:"prompt_ids"`
}

// BindingChange reports how many of the requested prompt ids were actually
// bound. Already-bound prompts are counted as skipped, not errors.
type BindingChange struct {
	Added   int `json:"added_count"`
	Skipped int `json:"skipped_count"`
}

type ReportPreviewResponse struct {
	GroupID  int64  `json:"group_id"`
	Markdown string `json:"markdown"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
}
