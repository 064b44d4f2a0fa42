package app

import (
	"curator/internal/assign"
	"curator/internal/cache"
	"curator/internal/store"
	"curator/internal/types"
)

type groupsMsg struct {
	groups []*types.Group
	err    error
}

type groupMsg struct {
	id    int64
	group *types.Group
	err   error
}

type createGroupMsg struct {
	group *types.Group
	err   error
}

type updateGroupMsg struct {
	group *types.Group
	err   error
}

type deleteGroupMsg struct {
	id  int64
	err error
}

type moveBindingMsg struct {
	fromID   int64
	toID     int64
	promptID int64
	result   *cache.MoveResult
	err      error
}

// searchDebounceMsg fires after the quiet period; a stale token means a
// later keystroke superseded this one.
type searchDebounceMsg struct {
	token int
}

type searchResultsMsg struct {
	query   string
	matches []types.CandidateMatch
	err     error
}

type analyzeMsg struct {
	session int
	meta    *types.SiteMeta
	matched []string
	unmatch []string
	brands  []string
	err     error
}

type topicPromptsMsg struct {
	session int
	topic   string
	prompts []*types.Prompt
	err     error
}

type topicCommitMsg struct {
	session    int
	topicIndex int
	review     bool
	outcome    *assign.Outcome
	err        error
}

type priceMsg struct {
	session int
	price   *types.GenerationPrice
	balance *types.Balance
	err     error
}

type generateMsg struct {
	session      int
	topics       []types.GeneratedTopic
	best         map[string]*types.CandidateMatch
	insufficient bool
	err          error
}

type wizardResetMsg struct {
	session int
}

type reportPreviewMsg struct {
	groupID  int64
	rendered string
	err      error
}

type balanceMsg struct {
	balance *types.Balance
	err     error
}

type bindResultMsg struct {
	outcome *assign.Outcome
	err     error
}

type uiStateLoadedMsg struct {
	state store.UIState
	err   error
}

type uiStateSavedMsg struct {
	err error
}

type brandListSavedMsg struct {
	target string
	err    error
}
