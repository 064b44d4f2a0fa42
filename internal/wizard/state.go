// Package wizard holds the state machine behind the guided discovery flow:
// configure → matched → generate → review. All remote side effects live with
// the caller; the reducer here is a pure transition function over immutable
// state values, so every transition is unit-testable without I/O.
package wizard

import "curator/internal/types"

type Step int

const (
	StepConfigure Step = iota
	StepMatched
	StepGenerate
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepConfigure:
		return "configure"
	case StepMatched:
		return "matched"
	case StepGenerate:
		return "generate"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Topic is one matched topic card. Prompts load lazily on first expansion
// and exactly once; later expand/collapse toggles reuse the loaded list.
type Topic struct {
	Name     string
	Expanded bool
	Loading  bool
	Loaded   bool
	Prompts  []*types.Prompt
	Selected map[int64]bool
	// Committed topics remember which group took their prompts.
	Committed bool
	GroupID   int64
}

func (t Topic) SelectedIDs() []int64 {
	out := make([]int64, 0, len(t.Selected))
	for _, prompt := range t.Prompts {
		if prompt != nil && t.Selected[prompt.ID] {
			out = append(out, prompt.ID)
		}
	}
	return out
}

// ReviewPrompt is one generated prompt awaiting a reuse-vs-keep decision.
type ReviewPrompt struct {
	Text     string
	Best     *types.CandidateMatch
	UseMatch bool
}

type ReviewTopic struct {
	Name      string
	Prompts   []ReviewPrompt
	Committed bool
	GroupID   int64
}

// State is the whole wizard session. One live instance exists per open
// wizard; Session is the token that fences off async results from a session
// that has since been torn down.
type State struct {
	Session int
	Step    Step
	Closing bool
	Err     string

	Target    string
	Locale    string
	Analyzing bool
	Meta      *types.SiteMeta

	Matched           []Topic
	Unmatched         []string
	SelectedUnmatched map[string]bool

	Brands       []string
	AutoSelect   float64
	NeedsConfirm bool
	Price        *types.GenerationPrice
	Balance      *types.Balance
	Generating   bool

	Review []ReviewTopic
}

// New starts a fresh session. autoSelect is the similarity at or above which
// a generated prompt defaults to reusing its best match.
func New(session int, autoSelect float64) State {
	if autoSelect <= 0 || autoSelect > 1 {
		autoSelect = 0.98
	}
	return State{
		Session:           session,
		Step:              StepConfigure,
		AutoSelect:        autoSelect,
		SelectedUnmatched: map[string]bool{},
	}
}

// GeneratableTopics returns the unmatched topics the user has ticked, in
// the analyze response's order.
func (s State) GeneratableTopics() []string {
	var out []string
	for _, name := range s.Unmatched {
		if s.SelectedUnmatched[name] {
			out = append(out, name)
		}
	}
	return out
}

// Clone deep-copies the state so a reducer can derive the next value without
// aliasing the previous one.
func (s State) Clone() State {
	next := s
	next.Meta = cloneMeta(s.Meta)
	next.Matched = make([]Topic, len(s.Matched))
	for i, topic := range s.Matched {
		next.Matched[i] = cloneTopic(topic)
	}
	next.Unmatched = append([]string(nil), s.Unmatched...)
	next.SelectedUnmatched = make(map[string]bool, len(s.SelectedUnmatched))
	for name, on := range s.SelectedUnmatched {
		next.SelectedUnmatched[name] = on
	}
	next.Brands = append([]string(nil), s.Brands...)
	if s.Price != nil {
		price := *s.Price
		next.Price = &price
	}
	if s.Balance != nil {
		balance := *s.Balance
		next.Balance = &balance
	}
	next.Review = make([]ReviewTopic, len(s.Review))
	for i, topic := range s.Review {
		next.Review[i] = cloneReviewTopic(topic)
	}
	return next
}

func cloneMeta(meta *types.SiteMeta) *types.SiteMeta {
	if meta == nil {
		return nil
	}
	copy := *meta
	return &copy
}

func cloneTopic(topic Topic) Topic {
	next := topic
	next.Prompts = make([]*types.Prompt, len(topic.Prompts))
	for i, prompt := range topic.Prompts {
		next.Prompts[i] = types.ClonePrompt(prompt)
	}
	next.Selected = make(map[int64]bool, len(topic.Selected))
	for id, on := range topic.Selected {
		next.Selected[id] = on
	}
	return next
}

func cloneReviewTopic(topic ReviewTopic) ReviewTopic {
	next := topic
	next.Prompts = make([]ReviewPrompt, len(topic.Prompts))
	for i, prompt := range topic.Prompts {
		p := prompt
		if prompt.Best != nil {
			best := *prompt.Best
			p.Best = &best
		}
		next.Prompts[i] = p
	}
	return next
}
