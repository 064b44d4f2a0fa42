package types

import "time"

// Prompt is an atomic text item in the remote corpus. Prompts are immutable
// once created; identity is the numeric id assigned by the hub.
type Prompt struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// CandidateMatch links a query text to an existing prompt with a similarity
// score in [0,1]. Matches are ephemeral and recomputed per query.
type CandidateMatch struct {
	PromptID   int64   `json:"prompt_id"`
	PromptText string  `json:"prompt_text"`
	Similarity float64 `json:"similarity"`
}

// PromptBinding joins a prompt to a group. Binding identity is distinct from
// prompt identity; the same prompt may be bound to several groups.
type PromptBinding struct {
	ID         int64     `json:"id"`
	PromptID   int64     `json:"prompt_id"`
	PromptText string    `json:"prompt_text"`
	AddedAt    time.Time `json:"added_at"`
}

func ClonePrompt(p *Prompt) *Prompt {
	if p == nil {
		return nil
	}
	copy := *p
	return &copy
}
