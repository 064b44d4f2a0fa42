package wizard

import "strings"

// Reduce derives the next session state from an action. It never performs
// I/O; the caller runs the remote call first and dispatches its result.
// Stale async results (wrong session token) and anything arriving after the
// session started closing are dropped unchanged.
func Reduce(state State, action Action) State {
	if reset, ok := action.(Reset); ok {
		if reset.Session != state.Session {
			return state
		}
		return New(state.Session+1, state.AutoSelect)
	}
	if state.Closing {
		return state
	}
	if scoped, ok := action.(sessioned); ok && scoped.session() != state.Session {
		return state
	}

	next := state.Clone()
	switch action := action.(type) {
	case SubmitConfigure:
		reduceSubmitConfigure(&next, action)
	case AnalyzeResult:
		reduceAnalyzeResult(&next, action)
	case ToggleTopicExpand:
		reduceToggleTopicExpand(&next, action)
	case TopicPromptsResult:
		reduceTopicPromptsResult(&next, action)
	case ToggleTopicPrompt:
		reduceToggleTopicPrompt(&next, action)
	case SetTopicSelection:
		reduceSetTopicSelection(&next, action)
	case TopicCommitted:
		reduceTopicCommitted(&next, action)
	case Continue:
		reduceContinue(&next)
	case Back:
		reduceBack(&next)
	case ToggleUnmatched:
		if next.Step == StepGenerate {
			next.SelectedUnmatched[action.Name] = !next.SelectedUnmatched[action.Name]
		}
	case SetBrands:
		if next.Step == StepGenerate {
			next.Brands = append([]string(nil), action.Brands...)
		}
	case RequestGenerate:
		reduceRequestGenerate(&next)
	case PriceResult:
		reducePriceResult(&next, action)
	case ConfirmGenerate:
		if next.Step == StepGenerate && next.NeedsConfirm {
			next.NeedsConfirm = false
			next.Generating = true
			next.Err = ""
		}
	case CancelConfirm:
		next.NeedsConfirm = false
	case GenerateComplete:
		reduceGenerateComplete(&next, action)
	case ToggleReviewPrompt:
		reduceToggleReviewPrompt(&next, action)
	case ReviewCommitted:
		reduceReviewCommitted(&next, action)
	case Close:
		next.Closing = true
	}
	return next
}

func reduceSubmitConfigure(next *State, action SubmitConfigure) {
	if next.Step != StepConfigure || next.Analyzing {
		return
	}
	target := strings.TrimSpace(action.Target)
	locale := strings.TrimSpace(action.Locale)
	if target == "" {
		next.Err = "target is required"
		return
	}
	if locale == "" {
		next.Err = "locale is required"
		return
	}
	next.Target = target
	next.Locale = locale
	next.Analyzing = true
	next.Err = ""
}

func reduceAnalyzeResult(next *State, action AnalyzeResult) {
	if next.Step != StepConfigure || !next.Analyzing {
		return
	}
	next.Analyzing = false
	if action.Err != nil {
		next.Err = action.Err.Error()
		return
	}
	next.Meta = action.Meta
	next.Matched = make([]Topic, 0, len(action.Matched))
	for _, name := range action.Matched {
		next.Matched = append(next.Matched, Topic{Name: name, Selected: map[int64]bool{}})
	}
	next.Unmatched = append([]string(nil), action.Unmatched...)
	next.SelectedUnmatched = map[string]bool{}
	next.Brands = append([]string(nil), action.BrandVariations...)
	next.Step = StepMatched
	next.Err = ""
}

func reduceToggleTopicExpand(next *State, action ToggleTopicExpand) {
	if next.Step != StepMatched || action.Index < 0 || action.Index >= len(next.Matched) {
		return
	}
	topic := &next.Matched[action.Index]
	topic.Expanded = !topic.Expanded
	if topic.Expanded && !topic.Loaded && !topic.Loading {
		topic.Loading = true
	}
}

func reduceTopicPromptsResult(next *State, action TopicPromptsResult) {
	for i := range next.Matched {
		topic := &next.Matched[i]
		if topic.Name != action.Topic {
			continue
		}
		topic.Loading = false
		if action.Err != nil {
			next.Err = action.Err.Error()
			return
		}
		topic.Loaded = true
		topic.Prompts = action.Prompts
		return
	}
}

func reduceToggleTopicPrompt(next *State, action ToggleTopicPrompt) {
	if next.Step != StepMatched || action.TopicIndex < 0 || action.TopicIndex >= len(next.Matched) {
		return
	}
	topic := &next.Matched[action.TopicIndex]
	if !topic.Loaded || topic.Committed {
		return
	}
	topic.Selected[action.PromptID] = !topic.Selected[action.PromptID]
}

func reduceSetTopicSelection(next *State, action SetTopicSelection) {
	if next.Step != StepMatched || action.TopicIndex < 0 || action.TopicIndex >= len(next.Matched) {
		return
	}
	topic := &next.Matched[action.TopicIndex]
	if !topic.Loaded || topic.Committed {
		return
	}
	topic.Selected = map[int64]bool{}
	if action.SelectAll {
		for _, prompt := range topic.Prompts {
			if prompt != nil {
				topic.Selected[prompt.ID] = true
			}
		}
	}
}

func reduceTopicCommitted(next *State, action TopicCommitted) {
	if action.TopicIndex < 0 || action.TopicIndex >= len(next.Matched) {
		return
	}
	if action.Err != nil {
		next.Err = action.Err.Error()
		return
	}
	topic := &next.Matched[action.TopicIndex]
	topic.Committed = true
	topic.GroupID = action.GroupID
	topic.Selected = map[int64]bool{}
	next.Err = ""
}

func reduceContinue(next *State) {
	if next.Step != StepMatched {
		return
	}
	// With nothing left to generate, continue is terminal.
	if len(next.Unmatched) == 0 {
		next.Closing = true
		return
	}
	next.Step = StepGenerate
	next.Err = ""
}

func reduceBack(next *State) {
	switch next.Step {
	case StepMatched:
		next.Step = StepConfigure
	case StepGenerate:
		next.Step = StepMatched
		next.NeedsConfirm = false
	case StepReview:
		next.Step = StepGenerate
	default:
		return
	}
	next.Err = ""
}

func reduceRequestGenerate(next *State) {
	if next.Step != StepGenerate || next.Generating {
		return
	}
	if len(next.GeneratableTopics()) == 0 {
		next.Err = "select at least one topic to generate"
		return
	}
	next.NeedsConfirm = true
	next.Err = ""
}

func reducePriceResult(next *State, action PriceResult) {
	if action.Err != nil {
		next.NeedsConfirm = false
		next.Err = action.Err.Error()
		return
	}
	next.Price = action.Price
	next.Balance = action.Balance
}

func reduceGenerateComplete(next *State, action GenerateComplete) {
	if next.Step != StepGenerate || !next.Generating {
		return
	}
	next.Generating = false
	if action.InsufficientBalance {
		// Not a generic failure: re-open the spend confirmation instead.
		next.NeedsConfirm = true
		next.Err = ""
		return
	}
	if action.Err != nil {
		next.Err = action.Err.Error()
		return
	}
	next.Review = make([]ReviewTopic, 0, len(action.Topics))
	for _, generated := range action.Topics {
		review := ReviewTopic{Name: generated.Topic}
		for _, text := range generated.PromptTexts() {
			prompt := ReviewPrompt{Text: text, Best: action.Best[text]}
			if prompt.Best != nil && prompt.Best.Similarity >= next.AutoSelect {
				prompt.UseMatch = true
			}
			review.Prompts = append(review.Prompts, prompt)
		}
		next.Review = append(next.Review, review)
	}
	next.Step = StepReview
	next.Err = ""
}

func reduceToggleReviewPrompt(next *State, action ToggleReviewPrompt) {
	if next.Step != StepReview || action.TopicIndex < 0 || action.TopicIndex >= len(next.Review) {
		return
	}
	topic := &next.Review[action.TopicIndex]
	if topic.Committed || action.PromptIndex < 0 || action.PromptIndex >= len(topic.Prompts) {
		return
	}
	prompt := &topic.Prompts[action.PromptIndex]
	if prompt.Best == nil {
		// Nothing to reuse; the decision stays keep-as-new.
		return
	}
	prompt.UseMatch = !prompt.UseMatch
}

func reduceReviewCommitted(next *State, action ReviewCommitted) {
	if action.TopicIndex < 0 || action.TopicIndex >= len(next.Review) {
		return
	}
	if action.Err != nil {
		next.Err = action.Err.Error()
		return
	}
	topic := &next.Review[action.TopicIndex]
	topic.Committed = true
	topic.GroupID = action.GroupID
	next.Err = ""
}
