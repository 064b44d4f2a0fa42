package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/assign"
	"curator/internal/client"
	"curator/internal/search"
	"curator/internal/wizard"
)

const (
	wizardFocusTarget = iota
	wizardFocusLocale
)

// WizardController hosts the discovery wizard: it owns the session
// state, feeds user intent through the reducer, and turns state
// transitions into remote commands. All progression logic lives in the
// reducer; this controller only maps keys to actions and actions to
// follow-up commands.
type WizardController struct {
	api        WizardAPI
	billing    BillingAPI
	flow       *assign.Flow
	engine     *search.Engine
	state      wizard.State
	open       bool
	width      int
	height     int
	focus      int
	cursor     int
	editBrands bool
	resetDelay time.Duration

	targetInput textinput.Model
	localeInput textinput.Model
	brandInput  textinput.Model
}

func NewWizardController(api WizardAPI, billing BillingAPI, flow *assign.Flow, engine *search.Engine, autoSelect float64, resetDelay time.Duration) *WizardController {
	target := textinput.New()
	target.Placeholder = "example.com"
	target.Prompt = "target: "
	target.CharLimit = 120
	locale := textinput.New()
	locale.Placeholder = "UA"
	locale.Prompt = "locale: "
	locale.CharLimit = 8
	brands := textinput.New()
	brands.Prompt = "brands: "
	brands.CharLimit = 400
	return &WizardController{
		api:         api,
		billing:     billing,
		flow:        flow,
		engine:      engine,
		state:       wizard.New(1, autoSelect),
		resetDelay:  resetDelay,
		targetInput: target,
		localeInput: locale,
		brandInput:  brands,
	}
}

func (w *WizardController) SetSize(width, height int) {
	w.width = width
	w.height = height
	fieldWidth := max(16, width-14)
	w.targetInput.Width = fieldWidth
	w.localeInput.Width = 8
	w.brandInput.Width = fieldWidth
}

func (w *WizardController) IsOpen() bool {
	return w.open
}

func (w *WizardController) State() wizard.State {
	return w.state
}

func (w *WizardController) Open(lastTarget, lastLocale string) {
	w.open = true
	w.focus = wizardFocusTarget
	w.cursor = 0
	w.editBrands = false
	if w.targetInput.Value() == "" {
		w.targetInput.SetValue(lastTarget)
	}
	if w.localeInput.Value() == "" {
		w.localeInput.SetValue(lastLocale)
	}
	w.targetInput.Focus()
	w.localeInput.Blur()
}

// Apply runs one action through the reducer and derives any remote
// command the resulting transition calls for.
func (w *WizardController) Apply(action wizard.Action) tea.Cmd {
	prev := w.state
	w.state = wizard.Reduce(w.state, action)

	if _, ok := action.(wizard.Reset); ok && w.state.Session != prev.Session {
		w.open = false
		w.cursor = 0
		w.editBrands = false
		w.targetInput.SetValue("")
		w.localeInput.SetValue("")
		w.brandInput.SetValue("")
		return nil
	}
	if w.state.Closing && !prev.Closing {
		return wizardResetCmd(w.state.Session, w.resetDelay)
	}
	if w.state.Analyzing && !prev.Analyzing {
		return analyzeCmd(w.api, w.state.Session, w.state.Target, w.state.Locale)
	}
	if toggle, ok := action.(wizard.ToggleTopicExpand); ok {
		if idx := toggle.Index; idx >= 0 && idx < len(w.state.Matched) {
			if w.state.Matched[idx].Loading && !prev.Matched[idx].Loading {
				return topicPromptsCmd(w.api, w.state.Session, w.state.Matched[idx].Name)
			}
		}
	}
	if w.state.NeedsConfirm && !prev.NeedsConfirm && !w.state.Generating {
		return priceCmd(w.billing, w.state.Session)
	}
	if w.state.Generating && !prev.Generating {
		return generateCmd(w.api, w.engine, w.state.Session, client.GenerateRequest{
			Target:          w.state.Target,
			Locale:          w.state.Locale,
			Topics:          w.state.GeneratableTopics(),
			BrandExclusions: w.state.Brands,
		})
	}
	if w.state.Step != prev.Step {
		w.cursor = 0
	}
	return nil
}

func (w *WizardController) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch w.state.Step {
	case wizard.StepConfigure:
		return w.handleConfigureKey(msg)
	case wizard.StepMatched:
		return w.handleMatchedKey(msg)
	case wizard.StepGenerate:
		return w.handleGenerateKey(msg)
	case wizard.StepReview:
		return w.handleReviewKey(msg)
	}
	return nil
}

func (w *WizardController) handleConfigureKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return w.Apply(wizard.Close{})
	case "tab", "shift+tab":
		if w.focus == wizardFocusTarget {
			w.focus = wizardFocusLocale
			w.targetInput.Blur()
			w.localeInput.Focus()
		} else {
			w.focus = wizardFocusTarget
			w.localeInput.Blur()
			w.targetInput.Focus()
		}
		return nil
	case "enter":
		return w.Apply(wizard.SubmitConfigure{
			Target: w.targetInput.Value(),
			Locale: w.localeInput.Value(),
		})
	}
	var cmd tea.Cmd
	if w.focus == wizardFocusTarget {
		w.targetInput, cmd = w.targetInput.Update(msg)
	} else {
		w.localeInput, cmd = w.localeInput.Update(msg)
	}
	return cmd
}

// matchedRow flattens topic cards and their expanded prompts into one
// navigable list.
type matchedRow struct {
	topicIndex  int
	promptIndex int // -1 for the topic card itself
}

func (w *WizardController) matchedRows() []matchedRow {
	var rows []matchedRow
	for i, topic := range w.state.Matched {
		rows = append(rows, matchedRow{topicIndex: i, promptIndex: -1})
		if !topic.Expanded {
			continue
		}
		for j := range topic.Prompts {
			rows = append(rows, matchedRow{topicIndex: i, promptIndex: j})
		}
	}
	return rows
}

func (w *WizardController) handleMatchedKey(msg tea.KeyMsg) tea.Cmd {
	rows := w.matchedRows()
	switch msg.String() {
	case "esc":
		return w.Apply(wizard.Close{})
	case "up", "k":
		w.cursor = clamp(w.cursor-1, 0, max(0, len(rows)-1))
	case "down", "j":
		w.cursor = clamp(w.cursor+1, 0, max(0, len(rows)-1))
	case " ", "space":
		if w.cursor >= len(rows) {
			return nil
		}
		row := rows[w.cursor]
		if row.promptIndex < 0 {
			return w.Apply(wizard.ToggleTopicExpand{Index: row.topicIndex})
		}
		topic := w.state.Matched[row.topicIndex]
		if row.promptIndex < len(topic.Prompts) && topic.Prompts[row.promptIndex] != nil {
			return w.Apply(wizard.ToggleTopicPrompt{
				TopicIndex: row.topicIndex,
				PromptID:   topic.Prompts[row.promptIndex].ID,
			})
		}
	case "a":
		if w.cursor < len(rows) {
			return w.Apply(wizard.SetTopicSelection{TopicIndex: rows[w.cursor].topicIndex, SelectAll: true})
		}
	case "A":
		if w.cursor < len(rows) {
			return w.Apply(wizard.SetTopicSelection{TopicIndex: rows[w.cursor].topicIndex})
		}
	case "b":
		if w.cursor < len(rows) {
			return w.commitMatchedTopic(rows[w.cursor].topicIndex)
		}
	case "enter", "c":
		return w.Apply(wizard.Continue{})
	}
	return nil
}

// commitMatchedTopic binds the topic's selected prompts to a group
// titled after the topic, creating it when needed.
func (w *WizardController) commitMatchedTopic(topicIndex int) tea.Cmd {
	if topicIndex < 0 || topicIndex >= len(w.state.Matched) {
		return nil
	}
	topic := w.state.Matched[topicIndex]
	if topic.Committed {
		return nil
	}
	ids := topic.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	target := assign.Target{NewTitle: topic.Name}
	if topic.GroupID != 0 {
		target = assign.Target{GroupID: topic.GroupID}
	}
	return commitTopicCmd(w.flow, w.state.Session, topicIndex, false, target, ids, nil)
}

func (w *WizardController) handleGenerateKey(msg tea.KeyMsg) tea.Cmd {
	if w.state.NeedsConfirm {
		switch msg.String() {
		case "enter", "y":
			return w.Apply(wizard.ConfirmGenerate{})
		case "esc", "n":
			return w.Apply(wizard.CancelConfirm{})
		}
		return nil
	}
	if w.editBrands {
		switch msg.String() {
		case "enter":
			w.editBrands = false
			w.brandInput.Blur()
			return w.Apply(wizard.SetBrands{Brands: splitBrands(w.brandInput.Value())})
		case "esc":
			w.editBrands = false
			w.brandInput.Blur()
			return nil
		}
		var cmd tea.Cmd
		w.brandInput, cmd = w.brandInput.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "esc":
		return w.Apply(wizard.Close{})
	case "backspace", "left", "h":
		return w.Apply(wizard.Back{})
	case "up", "k":
		w.cursor = clamp(w.cursor-1, 0, max(0, len(w.state.Unmatched)-1))
	case "down", "j":
		w.cursor = clamp(w.cursor+1, 0, max(0, len(w.state.Unmatched)-1))
	case " ", "space":
		if w.cursor < len(w.state.Unmatched) {
			return w.Apply(wizard.ToggleUnmatched{Name: w.state.Unmatched[w.cursor]})
		}
	case "e":
		w.editBrands = true
		w.brandInput.SetValue(strings.Join(w.state.Brands, ", "))
		w.brandInput.Focus()
	case "enter", "g":
		return w.Apply(wizard.RequestGenerate{})
	}
	return nil
}

type reviewRow struct {
	topicIndex  int
	promptIndex int
}

func (w *WizardController) reviewRows() []reviewRow {
	var rows []reviewRow
	for i, topic := range w.state.Review {
		rows = append(rows, reviewRow{topicIndex: i, promptIndex: -1})
		for j := range topic.Prompts {
			rows = append(rows, reviewRow{topicIndex: i, promptIndex: j})
		}
	}
	return rows
}

func (w *WizardController) handleReviewKey(msg tea.KeyMsg) tea.Cmd {
	rows := w.reviewRows()
	switch msg.String() {
	case "esc":
		return w.Apply(wizard.Close{})
	case "backspace", "left", "h":
		return w.Apply(wizard.Back{})
	case "up", "k":
		w.cursor = clamp(w.cursor-1, 0, max(0, len(rows)-1))
	case "down", "j":
		w.cursor = clamp(w.cursor+1, 0, max(0, len(rows)-1))
	case " ", "space":
		if w.cursor < len(rows) && rows[w.cursor].promptIndex >= 0 {
			return w.Apply(wizard.ToggleReviewPrompt{
				TopicIndex:  rows[w.cursor].topicIndex,
				PromptIndex: rows[w.cursor].promptIndex,
			})
		}
	case "enter", "b":
		if w.cursor < len(rows) {
			return w.commitReviewTopic(rows[w.cursor].topicIndex)
		}
	}
	return nil
}

// commitReviewTopic splits the topic's prompts into reused ids and new
// texts, then creates and binds them in one pass.
func (w *WizardController) commitReviewTopic(topicIndex int) tea.Cmd {
	if topicIndex < 0 || topicIndex >= len(w.state.Review) {
		return nil
	}
	topic := w.state.Review[topicIndex]
	if topic.Committed || len(topic.Prompts) == 0 {
		return nil
	}
	decisions := make([]assign.Decision, 0, len(topic.Prompts))
	for _, prompt := range topic.Prompts {
		decision := assign.Decision{Text: prompt.Text}
		if prompt.UseMatch && prompt.Best != nil {
			decision.UseExisting = true
			decision.PromptID = prompt.Best.PromptID
		}
		decisions = append(decisions, decision)
	}
	existingIDs, newTexts := assign.Partition(decisions)
	return commitTopicCmd(w.flow, w.state.Session, topicIndex, true, assign.Target{NewTitle: topic.Name}, existingIDs, newTexts)
}

func splitBrands(raw string) []string {
	parts := strings.Split(raw, ",")
	brands := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brands = append(brands, trimmed)
		}
	}
	return brands
}
