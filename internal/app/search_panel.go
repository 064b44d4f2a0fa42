package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/types"
)

// SearchPanel is the similarity-search dropdown: a query input over a
// candidate list with range selection. Candidates already bound to the
// active group render dimmed and cannot be selected.
type SearchPanel struct {
	width    int
	height   int
	input    textinput.Model
	matches  []types.CandidateMatch
	selector *RangeSelector
	bound    map[int64]bool
	loading  bool
	offset   int
}

func NewSearchPanel(width, height int) *SearchPanel {
	input := textinput.New()
	input.Placeholder = "search prompts"
	input.Prompt = "/ "
	input.CharLimit = 200
	return &SearchPanel{
		width:    width,
		height:   height,
		input:    input,
		selector: NewRangeSelector(),
		bound:    map[int64]bool{},
	}
}

func (p *SearchPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-4)
}

func (p *SearchPanel) Focus() {
	p.input.Focus()
}

func (p *SearchPanel) Blur() {
	p.input.Blur()
}

func (p *SearchPanel) Query() string {
	return p.input.Value()
}

func (p *SearchPanel) SetLoading(loading bool) {
	p.loading = loading
}

// SetMatches installs fresh results. boundIDs marks prompts that are
// already members of the active group; they stay visible for context
// but are excluded from selection.
func (p *SearchPanel) SetMatches(matches []types.CandidateMatch, boundIDs map[int64]bool) {
	p.matches = matches
	p.bound = boundIDs
	if p.bound == nil {
		p.bound = map[int64]bool{}
	}
	items := make([]selectionCandidate, len(matches))
	for i, match := range matches {
		items[i] = selectionCandidate{id: match.PromptID, eligible: !p.bound[match.PromptID]}
	}
	p.selector.SetItems(items)
	p.offset = 0
	p.loading = false
}

// ClearResults drops the candidate list, selection included.
func (p *SearchPanel) ClearResults() {
	p.SetMatches(nil, nil)
}

func (p *SearchPanel) Reset() {
	p.input.SetValue("")
	p.ClearResults()
}

func (p *SearchPanel) Selector() *RangeSelector {
	return p.selector
}

func (p *SearchPanel) SelectedIDs() []int64 {
	return p.selector.SelectedIDs()
}

// HighlightedMatch returns the candidate under the highlight.
func (p *SearchPanel) HighlightedMatch() *types.CandidateMatch {
	idx := p.selector.Highlight()
	if idx < 0 || idx >= len(p.matches) {
		return nil
	}
	return &p.matches[idx]
}

// UpdateInput feeds a key event to the query field and reports whether
// the text changed, which restarts the debounce timer.
func (p *SearchPanel) UpdateInput(msg tea.KeyMsg) (changed bool, cmd tea.Cmd) {
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	return p.input.Value() != before, cmd
}

func (p *SearchPanel) MoveHighlight(delta int) {
	if p.selector.MoveHighlight(delta) {
		p.ensureVisible()
	}
}

func (p *SearchPanel) ExtendSelection(delta int) {
	if p.selector.ExtendSelection(delta) {
		p.ensureVisible()
	}
}

func (p *SearchPanel) ToggleHighlighted() {
	if match := p.HighlightedMatch(); match != nil {
		p.selector.ToggleSingle(match.PromptID)
	}
}

func (p *SearchPanel) View() string {
	if p.height <= 0 {
		return ""
	}
	lines := make([]string, 0, p.height)
	lines = append(lines, p.input.View())
	switch {
	case p.loading:
		lines = append(lines, helpStyle.Render(" searching…"))
	case len(p.matches) == 0:
		lines = append(lines, helpStyle.Render(" (no matches)"))
	default:
		for i := 0; i < p.listHeight(); i++ {
			idx := p.offset + i
			if idx >= len(p.matches) {
				break
			}
			lines = append(lines, p.renderRow(idx))
		}
	}
	for len(lines) < p.height {
		lines = append(lines, "")
	}
	return padLines(lines[:p.height], p.width)
}

func (p *SearchPanel) renderRow(idx int) string {
	match := p.matches[idx]
	marker := "[ ]"
	if p.selector.IsSelected(match.PromptID) {
		marker = checkedStyle.Render("[x]")
	}
	if p.bound[match.PromptID] {
		marker = ineligibleStyle.Render("[-]")
	}
	score := similarityStyle.Render(fmt.Sprintf("%.3f", match.Similarity))
	text := truncateToWidth(match.PromptText, max(1, p.width-12))
	line := fmt.Sprintf(" %s %s %s", marker, score, text)
	if p.bound[match.PromptID] {
		line = ineligibleStyle.Render(fmt.Sprintf(" %s %.3f %s", "[-]", match.Similarity, text))
	}
	if idx == p.selector.Highlight() {
		line = selectedStyle.Render(line)
	}
	return line
}

func (p *SearchPanel) listHeight() int {
	height := p.height - 1
	if height < 0 {
		return 0
	}
	return height
}

func (p *SearchPanel) ensureVisible() {
	if p.listHeight() <= 0 {
		p.offset = 0
		return
	}
	cursor := p.selector.Highlight()
	if cursor < p.offset {
		p.offset = cursor
	}
	if cursor >= p.offset+p.listHeight() {
		p.offset = cursor - p.listHeight() + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}
