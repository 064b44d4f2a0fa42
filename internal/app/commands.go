package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/assign"
	"curator/internal/cache"
	"curator/internal/client"
	"curator/internal/search"
	"curator/internal/store"
	"curator/internal/types"
)

func fetchGroupsCmd(api GroupAPI, memo *cache.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		memo.TrackInflight(cache.GroupsKey(), cancel)
		defer memo.ForgetInflight(cache.GroupsKey())
		groups, err := api.ListGroups(ctx)
		return groupsMsg{groups: groups, err: err}
	}
}

func fetchGroupCmd(api GroupAPI, memo *cache.Cache, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		memo.TrackInflight(cache.GroupKey(id), cancel)
		defer memo.ForgetInflight(cache.GroupKey(id))
		group, err := api.GetGroup(ctx, id)
		return groupMsg{id: id, group: group, err: err}
	}
}

func createGroupCmd(api GroupAPI, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		group, err := api.CreateGroup(ctx, title, nil)
		return createGroupMsg{group: group, err: err}
	}
}

func renameGroupCmd(api GroupAPI, id int64, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		group, err := api.UpdateGroup(ctx, id, client.UpdateGroupRequest{Title: &title})
		return updateGroupMsg{group: group, err: err}
	}
}

func deleteGroupCmd(api GroupAPI, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		err := api.DeleteGroup(ctx, id)
		return deleteGroupMsg{id: id, err: err}
	}
}

func moveBindingCmd(coord *cache.Coordinator, fromID, toID, promptID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result, err := coord.MoveBinding(ctx, fromID, toID, promptID)
		return moveBindingMsg{fromID: fromID, toID: toID, promptID: promptID, result: result, err: err}
	}
}

func debounceCmd(bounce *search.Debouncer, token int) tea.Cmd {
	return tea.Tick(bounce.Quiet(), func(time.Time) tea.Msg {
		return searchDebounceMsg{token: token}
	})
}

func searchCmd(engine *search.Engine, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		matches, _, err := engine.Lookup(ctx, query)
		return searchResultsMsg{query: query, matches: matches, err: err}
	}
}

func analyzeCmd(api WizardAPI, session int, target, locale string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := api.Analyze(ctx, target, locale)
		if err != nil {
			return analyzeMsg{session: session, err: err}
		}
		return analyzeMsg{
			session: session,
			meta:    resp.Meta,
			matched: resp.MatchedTopics,
			unmatch: resp.UnmatchedTopics,
			brands:  resp.BrandVariations,
		}
	}
}

func topicPromptsCmd(api WizardAPI, session int, topic string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		byTopic, err := api.LoadTopicPrompts(ctx, []string{topic})
		if err != nil {
			return topicPromptsMsg{session: session, topic: topic, err: err}
		}
		return topicPromptsMsg{session: session, topic: topic, prompts: byTopic[topic]}
	}
}

func priceCmd(api BillingAPI, session int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		price, err := api.GetGenerationPrice(ctx)
		if err != nil {
			return priceMsg{session: session, err: err}
		}
		balance, err := api.GetBalance(ctx)
		return priceMsg{session: session, price: price, balance: balance, err: err}
	}
}

// generateCmd runs the long generation call, then reconciles every
// produced text against the corpus in one batch so the review step can
// pre-select near-identical prompts.
func generateCmd(api WizardAPI, engine *search.Engine, session int, req client.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := api.Generate(ctx, req)
		if err != nil {
			if client.IsInsufficientBalance(err) {
				return generateMsg{session: session, insufficient: true}
			}
			return generateMsg{session: session, err: err}
		}
		var texts []string
		for _, topic := range resp.Topics {
			texts = append(texts, topic.PromptTexts()...)
		}
		lookCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		matches := engine.LookupBatch(lookCtx, texts)
		best := make(map[string]*types.CandidateMatch, len(texts))
		for text, found := range matches {
			if top := search.Best(found); top != nil {
				best[text] = top
			}
		}
		return generateMsg{session: session, topics: resp.Topics, best: best}
	}
}

func commitTopicCmd(flow *assign.Flow, session, topicIndex int, review bool, target assign.Target, existingIDs []int64, newTexts []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		outcome, err := flow.Commit(ctx, target, existingIDs, newTexts)
		return topicCommitMsg{session: session, topicIndex: topicIndex, review: review, outcome: outcome, err: err}
	}
}

func wizardResetCmd(session int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return wizardResetMsg{session: session}
	})
}

func reportPreviewCmd(api GroupAPI, memo *cache.Cache, groupID int64, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		memo.TrackInflight(cache.ReportKey(groupID), cancel)
		defer memo.ForgetInflight(cache.ReportKey(groupID))
		resp, err := api.GetReportPreview(ctx, groupID)
		if err != nil {
			return reportPreviewMsg{groupID: groupID, err: err}
		}
		return reportPreviewMsg{groupID: groupID, rendered: renderMarkdown(resp.Markdown, width)}
	}
}

func fetchBalanceCmd(api BillingAPI, memo *cache.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		memo.TrackInflight(cache.BalanceKey(), cancel)
		defer memo.ForgetInflight(cache.BalanceKey())
		balance, err := api.GetBalance(ctx)
		return balanceMsg{balance: balance, err: err}
	}
}

func bindPromptsCmd(flow *assign.Flow, target assign.Target, existingIDs []int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		outcome, err := flow.Commit(ctx, target, existingIDs, nil)
		return bindResultMsg{outcome: outcome, err: err}
	}
}

func loadUIStateCmd(db *store.Store) tea.Cmd {
	return func() tea.Msg {
		state, err := db.UIState()
		if err != nil {
			return uiStateLoadedMsg{err: err}
		}
		return uiStateLoadedMsg{state: *state}
	}
}

func saveUIStateCmd(db *store.Store, state store.UIState) tea.Cmd {
	return func() tea.Msg {
		return uiStateSavedMsg{err: db.SaveUIState(&state)}
	}
}

func saveBrandListCmd(db *store.Store, target string, variations []string) tea.Cmd {
	return func() tea.Msg {
		_, err := db.SaveBrandList(target, variations)
		return brandListSavedMsg{target: target, err: err}
	}
}
