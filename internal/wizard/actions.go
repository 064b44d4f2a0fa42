package wizard

import "curator/internal/types"

// Action is the tagged union the reducer consumes. Actions carrying results
// of async work embed the session token they were issued for; the reducer
// drops any whose token no longer matches the live session.
type Action interface {
	isAction()
}

// sessioned is implemented by actions fenced by a session token.
type sessioned interface {
	session() int
}

type SubmitConfigure struct {
	Target string
	Locale string
}

type AnalyzeResult struct {
	Session         int
	Meta            *types.SiteMeta
	Matched         []string
	Unmatched       []string
	BrandVariations []string
	Err             error
}

type ToggleTopicExpand struct {
	Index int
}

type TopicPromptsResult struct {
	Session int
	Topic   string
	Prompts []*types.Prompt
	Err     error
}

type ToggleTopicPrompt struct {
	TopicIndex int
	PromptID   int64
}

type SetTopicSelection struct {
	TopicIndex int
	SelectAll  bool
}

type TopicCommitted struct {
	Session    int
	TopicIndex int
	GroupID    int64
	Err        error
}

type Continue struct{}

type Back struct{}

type ToggleUnmatched struct {
	Name string
}

type SetBrands struct {
	Brands []string
}

// RequestGenerate opens the affordability confirmation.
type RequestGenerate struct{}

type PriceResult struct {
	Session int
	Price   *types.GenerationPrice
	Balance *types.Balance
	Err     error
}

type ConfirmGenerate struct{}

type CancelConfirm struct{}

// GenerateComplete carries the generation output together with the batch
// reconciliation's best match per generated text.
type GenerateComplete struct {
	Session             int
	Topics              []types.GeneratedTopic
	Best                map[string]*types.CandidateMatch
	Err                 error
	InsufficientBalance bool
}

type ToggleReviewPrompt struct {
	TopicIndex  int
	PromptIndex int
}

type ReviewCommitted struct {
	Session    int
	TopicIndex int
	GroupID    int64
	Err        error
}

type Close struct{}

// Reset discards a closed session after the exit delay. It carries the
// session it was scheduled for so a wizard reopened in the meantime is
// untouched.
type Reset struct {
	Session int
}

func (SubmitConfigure) isAction()    {}
func (AnalyzeResult) isAction()      {}
func (ToggleTopicExpand) isAction()  {}
func (TopicPromptsResult) isAction() {}
func (ToggleTopicPrompt) isAction()  {}
func (SetTopicSelection) isAction()  {}
func (TopicCommitted) isAction()     {}
func (Continue) isAction()           {}
func (Back) isAction()               {}
func (ToggleUnmatched) isAction()    {}
func (SetBrands) isAction()          {}
func (RequestGenerate) isAction()    {}
func (PriceResult) isAction()        {}
func (ConfirmGenerate) isAction()    {}
func (CancelConfirm) isAction()      {}
func (GenerateComplete) isAction()   {}
func (ToggleReviewPrompt) isAction() {}
func (ReviewCommitted) isAction()    {}
func (Close) isAction()              {}
func (Reset) isAction()              {}

func (a AnalyzeResult) session() int      { return a.Session }
func (a TopicPromptsResult) session() int { return a.Session }
func (a TopicCommitted) session() int     { return a.Session }
func (a PriceResult) session() int        { return a.Session }
func (a GenerateComplete) session() int   { return a.Session }
func (a ReviewCommitted) session() int    { return a.Session }
