package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"curator/internal/cache"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.mode {
	case uiModeWizard:
		return m.wizardCtl.View()
	case uiModeReport:
		return m.viewReport()
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewGroupList(),
		dividerStyle.Render(strings.Repeat("│\n", max(1, m.bodyHeight()))),
		m.viewDetail(),
	)
	sections := []string{m.viewHeader(), body, m.viewStatusLine()}
	base := strings.Join(sections, "\n")

	switch m.mode {
	case uiModePickGroup, uiModeConfirmDelete, uiModeRenameGroup:
		return base + "\n" + m.viewOverlay()
	}
	return base
}

func (m Model) viewHeader() string {
	title := headerStyle.Render(" curator ")
	parts := []string{title}
	if m.balance != nil {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("balance %.2f %s", m.balance.Amount, m.balance.Currency)))
	}
	if m.loading || m.mutating {
		parts = append(parts, m.loader.View())
	}
	return truncateToWidth(strings.Join(parts, "  "), m.width)
}

func (m Model) viewGroupList() string {
	width := m.listWidth()
	lines := make([]string, 0, m.bodyHeight())
	lines = append(lines, headerStyle.Render(" groups"))
	if len(m.groups) == 0 {
		lines = append(lines, helpStyle.Render(" (none)"))
	}
	visible := m.bodyHeight() - 1
	offset := 0
	if m.groupCursor >= visible {
		offset = m.groupCursor - visible + 1
	}
	for i := offset; i < len(m.groups) && i-offset < visible; i++ {
		group := m.groups[i]
		if group == nil {
			continue
		}
		label := fmt.Sprintf(" %s (%d)", group.Title, len(group.Bindings))
		label = truncateToWidth(label, width-1)
		switch {
		case i == m.groupCursor:
			label = selectedStyle.Render(label)
		case group.ID == m.activeGroupID:
			label = groupActiveStyle.Render(label)
		default:
			label = groupStyle.Render(label)
		}
		lines = append(lines, label)
	}
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}
	return padLines(lines[:m.bodyHeight()], width)
}

func (m Model) viewDetail() string {
	width := m.contentWidth()
	if m.mode == uiModeSearch {
		m.searchPnl.SetSize(width, min(searchPanelRows, m.bodyHeight()))
		panel := m.searchPnl.View()
		lines := strings.Split(panel, "\n")
		for len(lines) < m.bodyHeight() {
			lines = append(lines, "")
		}
		return padLines(lines[:m.bodyHeight()], width)
	}

	group := m.activeGroup()
	lines := make([]string, 0, m.bodyHeight())
	if group == nil {
		lines = append(lines, helpStyle.Render(" select a group (enter) or search (/)"))
		for len(lines) < m.bodyHeight() {
			lines = append(lines, "")
		}
		return padLines(lines[:m.bodyHeight()], width)
	}
	header := " " + group.Title
	if m.memo.IsStale(cache.GroupKey(group.ID)) {
		header += staleStyle.Render(" (refreshing)")
	}
	lines = append(lines, headerStyle.Render(truncateToWidth(header, width)))
	if group.Brand != nil && group.Brand.Name != "" {
		lines = append(lines, statusStyle.Render(truncateToWidth(" brand: "+group.Brand.Name, width)))
	}
	if len(group.Bindings) == 0 {
		lines = append(lines, helpStyle.Render(" (no prompts bound)"))
	}
	visible := m.bodyHeight() - len(lines)
	offset := 0
	if m.bindingCursor >= visible && visible > 0 {
		offset = m.bindingCursor - visible + 1
	}
	for i := offset; i < len(group.Bindings) && i-offset < visible; i++ {
		binding := group.Bindings[i]
		if binding == nil {
			continue
		}
		line := bindingStyle.Render(truncateToWidth(fmt.Sprintf(" %s", binding.PromptText), width-1))
		if i == m.bindingCursor {
			line = selectedStyle.Render(truncateToWidth(fmt.Sprintf(" %s", binding.PromptText), width-1))
		}
		lines = append(lines, line)
	}
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}
	return padLines(lines[:m.bodyHeight()], width)
}

func (m Model) viewOverlay() string {
	if m.mode == uiModeRenameGroup {
		return dialogBorderStyle.Render(" rename group · " + m.renameInput.View() + " ")
	}
	if m.mode == uiModeConfirmDelete {
		group := m.highlightedGroup()
		title := ""
		if group != nil {
			title = group.Title
		}
		prompt := fmt.Sprintf(" delete group %q? (y/n) ", title)
		return dialogBorderStyle.Render(prompt)
	}
	return dialogBorderStyle.Render(m.picker.View())
}

func (m Model) viewReport() string {
	lines := []string{headerStyle.Render(fmt.Sprintf(" report preview · group %d", m.reportGroupID)), ""}
	lines = append(lines, strings.Split(m.report, "\n")...)
	lines = append(lines, "", helpStyle.Render(" esc close"))
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return padLines(lines, m.width)
}

func (m Model) viewStatusLine() string {
	text := m.status
	if text == "" {
		text = m.helpLine()
	}
	if m.statusErr {
		return toastErrorStyle.Render(truncateToWidth(" "+text+" ", m.width))
	}
	if m.status != "" {
		return toastInfoStyle.Render(truncateToWidth(" "+text+" ", m.width))
	}
	return helpStyle.Render(truncateToWidth(" "+text, m.width))
}

func (m Model) helpLine() string {
	switch m.mode {
	case uiModeSearch:
		return "type to search · shift+↑/↓ extend · ctrl+space toggle · enter bind · esc close"
	case uiModePickGroup:
		return "type to filter · ↑/↓ move · enter choose · esc cancel"
	case uiModeRenameGroup:
		return "enter rename · esc cancel"
	}
	return "↑/↓ groups · J/K prompts · enter open · / search · w wizard · m move · e rename · r report · c copy · d delete · q quit"
}

func (m Model) bodyHeight() int {
	height := m.height - 2
	if height < minContentHeight-2 {
		return minContentHeight - 2
	}
	return height
}
