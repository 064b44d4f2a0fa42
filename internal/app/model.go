package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"curator/internal/assign"
	"curator/internal/cache"
	"curator/internal/client"
	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/search"
	"curator/internal/store"
	"curator/internal/types"
	"curator/internal/wizard"
)

const (
	minListWidth     = 24
	maxListWidth     = 40
	minContentHeight = 6
	searchPanelRows  = 12
)

type uiMode int

const (
	uiModeNormal uiMode = iota
	uiModeSearch
	uiModeWizard
	uiModePickGroup
	uiModeConfirmDelete
	uiModeRenameGroup
	uiModeReport
)

// pickerIntent says what the group picker is choosing a target for.
type pickerIntent int

const (
	pickerIntentNone pickerIntent = iota
	pickerIntentMove
	pickerIntentBind
)

type pendingMove struct {
	promptID int64
	fromID   int64
}

type Model struct {
	groupAPI  GroupAPI
	billing   BillingAPI
	memo      *cache.Cache
	coord     *cache.Coordinator
	engine    *search.Engine
	bounce    *search.Debouncer
	flow      *assign.Flow
	wizardCtl *WizardController
	picker    *GroupPicker
	searchPnl *SearchPanel
	db        *store.Store
	log       logging.Logger

	mode          uiMode
	width         int
	height        int
	status        string
	statusErr     bool
	loading       bool
	loader        spinner.Model
	groups        []*types.Group
	groupCursor   int
	groupOffset   int
	bindingCursor int
	activeGroupID int64
	balance       *types.Balance
	report        string
	reportGroupID int64

	intent      pickerIntent
	move        *pendingMove
	bindIDs     []int64
	mutating    bool
	renameInput textinput.Model
	renameID    int64
	uiState     store.UIState
	hasUIState  bool
	lastTarget  string
	lastLocale  string
}

func NewModel(hub *client.Client, cfg config.Config, db *store.Store, log logging.Logger) Model {
	api := NewClientAPI(hub)
	memo := cache.New()
	engine := search.NewEngine(hub, log, cfg.SearchMinQueryLength(), cfg.SearchMaxResults(), cfg.SearchMinSimilarity())
	flow := assign.NewFlow(hub, engine, cfg.DuplicateThreshold())
	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = lipgloss.NewStyle()
	rename := textinput.New()
	rename.Prompt = "title: "
	rename.CharLimit = 120

	return Model{
		groupAPI:    api,
		billing:     api,
		memo:        memo,
		coord:       cache.NewCoordinator(memo, hub, log),
		engine:      engine,
		bounce:      search.NewDebouncer(cfg.SearchDebounce()),
		flow:        flow,
		wizardCtl:   NewWizardController(api, api, flow, engine, cfg.AutoSelectThreshold(), config.WizardResetDelay()),
		picker:      NewGroupPicker(minListWidth, minContentHeight),
		searchPnl:   NewSearchPanel(minListWidth, searchPanelRows),
		db:          db,
		log:         log,
		loader:      loader,
		renameInput: rename,
		loading:     true,
	}
}

func Run(hub *client.Client, cfg config.Config, db *store.Store, log logging.Logger) error {
	model := NewModel(hub, cfg, db, log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchGroupsCmd(m.groupAPI, m.memo),
		fetchBalanceCmd(m.billing, m.memo),
		loadUIStateCmd(m.db),
		m.loader.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchPnl.SetSize(m.contentWidth(), searchPanelRows)
		m.picker.SetSize(minListWidth+8, minContentHeight+6)
		m.wizardCtl.SetSize(m.width-4, m.height-2)
		return m, nil
	case spinner.TickMsg:
		if !m.loading && !m.mutating {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m.updateMessage(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case uiModeSearch:
		return m.updateSearchKey(msg)
	case uiModeWizard:
		before := m.wizardCtl.State()
		cmd := m.wizardCtl.HandleKey(msg)
		after := m.wizardCtl.State()
		if after.Step == wizard.StepGenerate && after.Target != "" && !sameStrings(before.Brands, after.Brands) {
			return m, tea.Batch(cmd, saveBrandListCmd(m.db, after.Target, after.Brands))
		}
		return m, cmd
	case uiModePickGroup:
		return m.updatePickerKey(msg)
	case uiModeConfirmDelete:
		return m.updateConfirmKey(msg)
	case uiModeRenameGroup:
		return m.updateRenameKey(msg)
	case uiModeReport:
		if msg.String() == "esc" || msg.String() == "q" {
			m.mode = uiModeNormal
		}
		return m, nil
	}
	return m.updateNormalKey(msg)
}

func (m Model) updateNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveGroupCursor(-1)
	case "down", "j":
		m.moveGroupCursor(1)
	case "K", "shift+up":
		m.moveBindingCursor(-1)
	case "J", "shift+down":
		m.moveBindingCursor(1)
	case "enter":
		return m.activateHighlightedGroup()
	case "/":
		m.mode = uiModeSearch
		m.searchPnl.Reset()
		m.searchPnl.Focus()
	case "w":
		m.mode = uiModeWizard
		m.wizardCtl.Open(m.uiState.LastTarget, m.uiState.LastLocale)
	case "m":
		return m.beginMove()
	case "e":
		return m.beginRename()
	case "d":
		if m.highlightedGroup() != nil {
			m.mode = uiModeConfirmDelete
		}
	case "c":
		if binding := m.highlightedBinding(); binding != nil {
			if err := copyTextToClipboard(binding.PromptText); err != nil {
				m.setStatusError("copy failed: " + err.Error())
			} else {
				m.setStatus("copied prompt text")
			}
		}
	case "r":
		return m.openReport()
	case "R":
		m.memo.Invalidate(cache.GroupsKey(), cache.BalanceKey())
		m.loading = true
		return m, tea.Batch(fetchGroupsCmd(m.groupAPI, m.memo), fetchBalanceCmd(m.billing, m.memo), m.loader.Tick)
	}
	return m, nil
}

func (m Model) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = uiModeNormal
		m.bounce.Cancel()
		m.searchPnl.Reset()
		m.searchPnl.Blur()
		return m, nil
	case "up":
		m.searchPnl.MoveHighlight(-1)
		return m, nil
	case "down":
		m.searchPnl.MoveHighlight(1)
		return m, nil
	case "shift+up":
		m.searchPnl.ExtendSelection(-1)
		return m, nil
	case "shift+down":
		m.searchPnl.ExtendSelection(1)
		return m, nil
	case "ctrl+@", "ctrl+space":
		m.searchPnl.ToggleHighlighted()
		return m, nil
	case "enter":
		ids := m.searchPnl.SelectedIDs()
		if len(ids) == 0 {
			if match := m.searchPnl.HighlightedMatch(); match != nil {
				ids = []int64{match.PromptID}
			}
		}
		if len(ids) == 0 {
			return m, nil
		}
		m.bindIDs = ids
		m.intent = pickerIntentBind
		m.picker.SetGroups(m.groups, 0)
		m.picker.SetQuery("")
		m.mode = uiModePickGroup
		return m, nil
	}
	changed, inputCmd := m.searchPnl.UpdateInput(msg)
	if !changed {
		return m, inputCmd
	}
	// Selection does not survive a query edit: the result list identity
	// is about to change.
	m.searchPnl.Selector().Clear()
	token := m.bounce.Arm()
	return m, tea.Batch(inputCmd, debounceCmd(m.bounce, token))
}

func (m Model) updatePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = uiModeNormal
		m.intent = pickerIntentNone
		m.move = nil
		m.bindIDs = nil
		return m, nil
	case "up":
		m.picker.Move(-1)
		return m, nil
	case "down":
		m.picker.Move(1)
		return m, nil
	case "backspace":
		m.picker.BackspaceQuery()
		return m, nil
	case "enter":
		return m.resolvePickerChoice()
	}
	if key := msg.String(); len([]rune(key)) == 1 {
		m.picker.AppendQuery(key)
	}
	return m, nil
}

func (m Model) resolvePickerChoice() (tea.Model, tea.Cmd) {
	id, newTitle, ok := m.picker.Selected()
	if !ok {
		return m, nil
	}
	intent := m.intent
	m.mode = uiModeNormal
	m.intent = pickerIntentNone
	switch intent {
	case pickerIntentMove:
		move := m.move
		m.move = nil
		if move == nil {
			return m, nil
		}
		if newTitle != "" {
			// Moving into a group that does not exist yet: create it
			// first, the move continues when the create resolves.
			m.move = move
			m.intent = pickerIntentMove
			m.mutating = true
			return m, tea.Batch(createGroupCmd(m.groupAPI, newTitle), m.loader.Tick)
		}
		m.mutating = true
		return m, tea.Batch(moveBindingCmd(m.coord, move.fromID, id, move.promptID), m.loader.Tick)
	case pickerIntentBind:
		ids := m.bindIDs
		m.bindIDs = nil
		if len(ids) == 0 {
			return m, nil
		}
		target := assign.Target{GroupID: id}
		if newTitle != "" {
			target = assign.Target{NewTitle: newTitle}
		}
		m.mutating = true
		m.searchPnl.Reset()
		return m, tea.Batch(bindPromptsCmd(m.flow, target, ids), m.loader.Tick)
	}
	return m, nil
}

func (m Model) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.mode = uiModeNormal
		if group := m.highlightedGroup(); group != nil {
			m.mutating = true
			return m, tea.Batch(deleteGroupCmd(m.groupAPI, group.ID), m.loader.Tick)
		}
	case "n", "esc":
		m.mode = uiModeNormal
	}
	return m, nil
}

func (m Model) beginRename() (tea.Model, tea.Cmd) {
	if m.mutating {
		return m, nil
	}
	group := m.highlightedGroup()
	if group == nil {
		return m, nil
	}
	m.renameID = group.ID
	m.renameInput.SetValue(group.Title)
	m.renameInput.CursorEnd()
	m.renameInput.Focus()
	m.mode = uiModeRenameGroup
	return m, nil
}

func (m Model) updateRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = uiModeNormal
		m.renameInput.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.renameInput.Value())
		id := m.renameID
		m.mode = uiModeNormal
		m.renameInput.Blur()
		if title == "" || id == 0 {
			return m, nil
		}
		if group := m.highlightedGroup(); group != nil && group.ID == id && group.Title == title {
			return m, nil
		}
		m.mutating = true
		return m, tea.Batch(renameGroupCmd(m.groupAPI, id, title), m.loader.Tick)
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) beginMove() (tea.Model, tea.Cmd) {
	if m.mutating {
		return m, nil
	}
	binding := m.highlightedBinding()
	if binding == nil || m.activeGroupID == 0 {
		return m, nil
	}
	m.move = &pendingMove{promptID: binding.PromptID, fromID: m.activeGroupID}
	m.intent = pickerIntentMove
	m.picker.SetGroups(m.groups, m.activeGroupID)
	m.picker.SetQuery("")
	m.mode = uiModePickGroup
	return m, nil
}

func (m Model) activateHighlightedGroup() (tea.Model, tea.Cmd) {
	group := m.highlightedGroup()
	if group == nil {
		return m, nil
	}
	m.activeGroupID = group.ID
	m.bindingCursor = 0
	m.uiState.ActiveGroupID = group.ID
	cmds := []tea.Cmd{saveUIStateCmd(m.db, m.uiState)}
	if cached, ok := m.memo.Get(cache.GroupKey(group.ID)); ok && !m.memo.IsStale(cache.GroupKey(group.ID)) {
		if detail, ok := cached.(*types.Group); ok {
			m.applyGroupDetail(detail)
			return m, tea.Batch(cmds...)
		}
	}
	cmds = append(cmds, fetchGroupCmd(m.groupAPI, m.memo, group.ID))
	return m, tea.Batch(cmds...)
}

func (m Model) openReport() (tea.Model, tea.Cmd) {
	group := m.activeGroup()
	if group == nil {
		return m, nil
	}
	key := cache.ReportKey(group.ID)
	if cached, ok := m.memo.Get(key); ok && !m.memo.IsStale(key) {
		if rendered, ok := cached.(string); ok {
			m.report = rendered
			m.reportGroupID = group.ID
			m.mode = uiModeReport
			return m, nil
		}
	}
	m.loading = true
	return m, tea.Batch(reportPreviewCmd(m.groupAPI, m.memo, group.ID, m.contentWidth()), m.loader.Tick)
}

func (m Model) updateMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case groupsMsg:
		m.loading = false
		if msg.err != nil {
			if !isCanceled(msg.err) {
				m.setStatusError(msg.err.Error())
			}
			return m, nil
		}
		m.groups = msg.groups
		m.memo.Put(cache.GroupsKey(), msg.groups)
		m.clampGroupCursor()
		if !m.hasUIState {
			return m, nil
		}
		return m, m.restoreActiveGroup()
	case groupMsg:
		if msg.err != nil {
			// Refetches cancelled by an optimistic mutation resolve here
			// with context.Canceled; the mutation already scheduled its
			// own refresh.
			if !isCanceled(msg.err) {
				m.setStatusError(msg.err.Error())
			}
			return m, nil
		}
		m.memo.Put(cache.GroupKey(msg.id), msg.group)
		m.applyGroupDetail(msg.group)
		return m, nil
	case uiStateLoadedMsg:
		if msg.err == nil {
			m.uiState = msg.state
			m.hasUIState = true
			if len(m.groups) > 0 {
				return m, m.restoreActiveGroup()
			}
		}
		return m, nil
	case createGroupMsg:
		return m.handleCreateGroup(msg)
	case updateGroupMsg:
		m.mutating = false
		if msg.err != nil {
			m.setStatusError("rename failed: " + msg.err.Error())
			return m, nil
		}
		m.memo.Invalidate(cache.GroupsKey())
		if msg.group != nil {
			m.memo.Invalidate(cache.GroupDependents(msg.group.ID)...)
			m.setStatus(fmt.Sprintf("renamed group to %q", msg.group.Title))
		}
		return m, fetchGroupsCmd(m.groupAPI, m.memo)
	case deleteGroupMsg:
		m.mutating = false
		if msg.err != nil {
			m.setStatusError(msg.err.Error())
			return m, nil
		}
		if m.activeGroupID == msg.id {
			m.activeGroupID = 0
		}
		m.memo.Drop(cache.GroupDependents(msg.id)...)
		m.setStatus("group deleted")
		return m, fetchGroupsCmd(m.groupAPI, m.memo)
	case moveBindingMsg:
		return m.handleMoveResult(msg)
	case bindResultMsg:
		return m.handleBindResult(msg)
	case searchDebounceMsg:
		if !m.bounce.Current(msg.token) || m.mode != uiModeSearch {
			return m, nil
		}
		query := m.searchPnl.Query()
		if len(strings.TrimSpace(query)) < m.engine.MinQueryLength() {
			m.searchPnl.ClearResults()
			return m, nil
		}
		m.searchPnl.SetLoading(true)
		return m, searchCmd(m.engine, query)
	case searchResultsMsg:
		if m.mode != uiModeSearch || msg.query != m.searchPnl.Query() {
			return m, nil
		}
		if msg.err != nil {
			m.searchPnl.SetLoading(false)
			m.setStatusError(msg.err.Error())
			return m, nil
		}
		m.searchPnl.SetMatches(msg.matches, m.activeBoundIDs())
		return m, nil
	case balanceMsg:
		if msg.err == nil {
			m.balance = msg.balance
			m.memo.Put(cache.BalanceKey(), msg.balance)
		}
		return m, nil
	case reportPreviewMsg:
		m.loading = false
		if msg.err != nil {
			if !isCanceled(msg.err) {
				m.setStatusError(msg.err.Error())
			}
			return m, nil
		}
		m.memo.Put(cache.ReportKey(msg.groupID), msg.rendered)
		m.report = msg.rendered
		m.reportGroupID = msg.groupID
		m.mode = uiModeReport
		return m, nil
	case uiStateSavedMsg:
		if msg.err != nil {
			m.log.Warn("ui state save failed", logging.F("error", msg.err))
		}
		return m, nil
	case brandListSavedMsg:
		if msg.err != nil {
			m.log.Warn("brand list save failed", logging.F("target", msg.target), logging.F("error", msg.err))
		}
		return m, nil
	case wizardResetMsg:
		cmd := m.wizardCtl.Apply(wizard.Reset{Session: msg.session})
		if !m.wizardCtl.IsOpen() && m.mode == uiModeWizard {
			m.mode = uiModeNormal
		}
		return m, cmd
	case analyzeMsg:
		m.lastTarget = m.wizardCtl.State().Target
		m.lastLocale = m.wizardCtl.State().Locale
		brands := msg.brands
		if msg.err == nil {
			// Locally remembered exclusions for this target join the
			// hub's detected variations.
			if stored, err := m.db.BrandList(m.lastTarget); err == nil {
				brands = mergeStrings(brands, stored.Variations)
			}
		}
		cmd := m.wizardCtl.Apply(wizard.AnalyzeResult{
			Session:         msg.session,
			Meta:            msg.meta,
			Matched:         msg.matched,
			Unmatched:       msg.unmatch,
			BrandVariations: brands,
			Err:             msg.err,
		})
		if msg.err == nil && m.lastTarget != "" {
			m.uiState.LastTarget = m.lastTarget
			m.uiState.LastLocale = m.lastLocale
			return m, tea.Batch(cmd, saveUIStateCmd(m.db, m.uiState))
		}
		return m, cmd
	case topicPromptsMsg:
		return m, m.wizardCtl.Apply(wizard.TopicPromptsResult{
			Session: msg.session,
			Topic:   msg.topic,
			Prompts: msg.prompts,
			Err:     msg.err,
		})
	case priceMsg:
		return m, m.wizardCtl.Apply(wizard.PriceResult{
			Session: msg.session,
			Price:   msg.price,
			Balance: msg.balance,
			Err:     msg.err,
		})
	case generateMsg:
		return m, m.wizardCtl.Apply(wizard.GenerateComplete{
			Session:             msg.session,
			Topics:              msg.topics,
			Best:                msg.best,
			Err:                 msg.err,
			InsufficientBalance: msg.insufficient,
		})
	case topicCommitMsg:
		return m.handleTopicCommit(msg)
	}
	return m, nil
}

func (m Model) handleCreateGroup(msg createGroupMsg) (tea.Model, tea.Cmd) {
	m.mutating = false
	if msg.err != nil {
		m.move = nil
		m.intent = pickerIntentNone
		m.setStatusError(msg.err.Error())
		return m, nil
	}
	m.memo.Invalidate(cache.GroupsKey())
	cmds := []tea.Cmd{fetchGroupsCmd(m.groupAPI, m.memo)}
	if m.intent == pickerIntentMove && m.move != nil && msg.group != nil {
		move := m.move
		m.move = nil
		m.intent = pickerIntentNone
		m.mutating = true
		cmds = append(cmds, moveBindingCmd(m.coord, move.fromID, msg.group.ID, move.promptID))
	} else if msg.group != nil {
		m.setStatus(fmt.Sprintf("created group %q", msg.group.Title))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleMoveResult(msg moveBindingMsg) (tea.Model, tea.Cmd) {
	m.mutating = false
	// Dependents were invalidated by the coordinator either way; pull
	// fresh copies of everything the move touched.
	cmds := []tea.Cmd{
		fetchGroupsCmd(m.groupAPI, m.memo),
		fetchGroupCmd(m.groupAPI, m.memo, msg.fromID),
		fetchGroupCmd(m.groupAPI, m.memo, msg.toID),
	}
	if msg.err != nil {
		m.setStatusError("move failed: " + msg.err.Error())
		return m, tea.Batch(cmds...)
	}
	m.setStatus(fmt.Sprintf("moved prompt to group %d", msg.toID))
	return m, tea.Batch(cmds...)
}

func (m Model) handleBindResult(msg bindResultMsg) (tea.Model, tea.Cmd) {
	m.mutating = false
	if msg.err != nil {
		m.setStatusError("bind failed: " + msg.err.Error())
		return m, nil
	}
	m.memo.Invalidate(cache.GroupDependents(msg.outcome.GroupID)...)
	m.setStatus(fmt.Sprintf("bound %d prompt(s), %d already present", msg.outcome.Added, msg.outcome.Skipped))
	m.mode = uiModeNormal
	return m, tea.Batch(
		fetchGroupsCmd(m.groupAPI, m.memo),
		fetchGroupCmd(m.groupAPI, m.memo, msg.outcome.GroupID),
	)
}

func (m Model) handleTopicCommit(msg topicCommitMsg) (tea.Model, tea.Cmd) {
	var action wizard.Action
	if msg.review {
		action = wizard.ReviewCommitted{Session: msg.session, TopicIndex: msg.topicIndex, GroupID: outcomeGroupID(msg.outcome), Err: msg.err}
	} else {
		action = wizard.TopicCommitted{Session: msg.session, TopicIndex: msg.topicIndex, GroupID: outcomeGroupID(msg.outcome), Err: msg.err}
	}
	cmd := m.wizardCtl.Apply(action)
	if msg.err == nil && msg.outcome != nil {
		m.memo.Invalidate(cache.GroupDependents(msg.outcome.GroupID)...)
		return m, tea.Batch(cmd, fetchGroupsCmd(m.groupAPI, m.memo))
	}
	return m, cmd
}

func outcomeGroupID(outcome *assign.Outcome) int64 {
	if outcome == nil {
		return 0
	}
	return outcome.GroupID
}

func (m *Model) restoreActiveGroup() tea.Cmd {
	if m.uiState.ActiveGroupID == 0 {
		return nil
	}
	for i, group := range m.groups {
		if group != nil && group.ID == m.uiState.ActiveGroupID {
			m.groupCursor = i
			m.activeGroupID = group.ID
			return fetchGroupCmd(m.groupAPI, m.memo, group.ID)
		}
	}
	return nil
}

func (m *Model) applyGroupDetail(detail *types.Group) {
	if detail == nil {
		return
	}
	for i, group := range m.groups {
		if group != nil && group.ID == detail.ID {
			m.groups[i] = detail
		}
	}
	if m.bindingCursor >= len(detail.Bindings) {
		m.bindingCursor = max(0, len(detail.Bindings)-1)
	}
}

func (m *Model) moveGroupCursor(delta int) {
	if len(m.groups) == 0 {
		return
	}
	m.groupCursor = clamp(m.groupCursor+delta, 0, len(m.groups)-1)
}

func (m *Model) moveBindingCursor(delta int) {
	group := m.activeGroup()
	if group == nil || len(group.Bindings) == 0 {
		return
	}
	m.bindingCursor = clamp(m.bindingCursor+delta, 0, len(group.Bindings)-1)
}

func (m *Model) clampGroupCursor() {
	if len(m.groups) == 0 {
		m.groupCursor = 0
		return
	}
	m.groupCursor = clamp(m.groupCursor, 0, len(m.groups)-1)
}

func (m *Model) highlightedGroup() *types.Group {
	if m.groupCursor < 0 || m.groupCursor >= len(m.groups) {
		return nil
	}
	return m.groups[m.groupCursor]
}

func (m *Model) activeGroup() *types.Group {
	if m.activeGroupID == 0 {
		return nil
	}
	for _, group := range m.groups {
		if group != nil && group.ID == m.activeGroupID {
			return group
		}
	}
	return nil
}

func (m *Model) highlightedBinding() *types.PromptBinding {
	group := m.activeGroup()
	if group == nil || m.bindingCursor < 0 || m.bindingCursor >= len(group.Bindings) {
		return nil
	}
	return group.Bindings[m.bindingCursor]
}

func (m *Model) activeBoundIDs() map[int64]bool {
	group := m.activeGroup()
	if group == nil {
		return nil
	}
	bound := make(map[int64]bool, len(group.Bindings))
	for _, binding := range group.Bindings {
		if binding != nil {
			bound[binding.PromptID] = true
		}
	}
	return bound
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setStatusError(text string) {
	m.status = text
	m.statusErr = true
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeStrings(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	merged := make([]string, 0, len(base)+len(extra))
	for _, value := range base {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, value)
	}
	for _, value := range extra {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, value)
	}
	return merged
}

func (m Model) contentWidth() int {
	width := m.width - m.listWidth() - 3
	if width < 20 {
		return 20
	}
	return width
}

func (m Model) listWidth() int {
	return clamp(m.width/3, minListWidth, maxListWidth)
}
