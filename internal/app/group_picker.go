package app

import (
	"fmt"
	"strings"

	"curator/internal/types"
)

// GroupPicker is the modal list used to choose a target group for
// binding or moving prompts. Typing filters by title; a query that
// matches no group offers to create one with that title.
type GroupPicker struct {
	width   int
	height  int
	cursor  int
	offset  int
	query   string
	groups  []*types.Group
	visible []int
	exclude int64
}

func NewGroupPicker(width, height int) *GroupPicker {
	return &GroupPicker{width: width, height: height, exclude: -1}
}

func (p *GroupPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clampOffset()
}

// SetGroups replaces the option list. excludeID hides one group, used
// when moving a binding so its current group is not a target.
func (p *GroupPicker) SetGroups(groups []*types.Group, excludeID int64) {
	p.groups = append(p.groups[:0], groups...)
	p.exclude = excludeID
	p.cursor = 0
	p.offset = 0
	p.rebuildVisible()
}

func (p *GroupPicker) Move(delta int) bool {
	if p.rowCount() == 0 || delta == 0 {
		return false
	}
	next := clamp(p.cursor+delta, 0, p.rowCount()-1)
	if next == p.cursor {
		return false
	}
	p.cursor = next
	p.ensureVisible()
	return true
}

// Selected returns the chosen group id, or 0 with the typed title when
// the cursor sits on the create-new row.
func (p *GroupPicker) Selected() (id int64, newTitle string, ok bool) {
	if p.cursor >= 0 && p.cursor < len(p.visible) {
		group := p.groups[p.visible[p.cursor]]
		return group.ID, "", true
	}
	if p.hasCreateRow() && p.cursor == len(p.visible) {
		return 0, strings.TrimSpace(p.query), true
	}
	return 0, "", false
}

func (p *GroupPicker) Query() string {
	return p.query
}

func (p *GroupPicker) SetQuery(query string) bool {
	if query == p.query {
		return false
	}
	p.query = query
	p.cursor = 0
	p.offset = 0
	p.rebuildVisible()
	return true
}

func (p *GroupPicker) AppendQuery(text string) bool {
	if text == "" {
		return false
	}
	return p.SetQuery(p.query + text)
}

func (p *GroupPicker) BackspaceQuery() bool {
	if p.query == "" {
		return false
	}
	runes := []rune(p.query)
	return p.SetQuery(string(runes[:len(runes)-1]))
}

func (p *GroupPicker) View() string {
	if p.height <= 0 {
		return ""
	}
	lines := make([]string, 0, p.height)
	lines = append(lines, " filter: "+p.query+"▌")
	if p.visibleHeight() <= 0 {
		return padLines(lines, p.width)
	}
	if p.rowCount() == 0 {
		lines = append(lines, " (no groups)")
		for len(lines) < p.height {
			lines = append(lines, "")
		}
		return padLines(lines, p.width)
	}
	for i := 0; i < p.visibleHeight(); i++ {
		idx := p.offset + i
		if idx >= p.rowCount() {
			lines = append(lines, "")
			continue
		}
		line := " " + p.rowLabel(idx)
		if idx == p.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return padLines(lines, p.width)
}

func (p *GroupPicker) rowLabel(idx int) string {
	if idx < len(p.visible) {
		group := p.groups[p.visible[idx]]
		label := fmt.Sprintf("%s (%d)", group.Title, len(group.Bindings))
		return truncateToWidth(label, max(1, p.width-2))
	}
	return truncateToWidth("+ create "+strings.TrimSpace(p.query), max(1, p.width-2))
}

func (p *GroupPicker) rowCount() int {
	count := len(p.visible)
	if p.hasCreateRow() {
		count++
	}
	return count
}

func (p *GroupPicker) hasCreateRow() bool {
	title := strings.TrimSpace(p.query)
	if title == "" {
		return false
	}
	for _, group := range p.groups {
		if strings.EqualFold(strings.TrimSpace(group.Title), title) {
			return false
		}
	}
	return true
}

func (p *GroupPicker) rebuildVisible() {
	p.visible = p.visible[:0]
	needle := strings.ToLower(strings.TrimSpace(p.query))
	for i, group := range p.groups {
		if group == nil || group.ID == p.exclude {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(group.Title), needle) {
			continue
		}
		p.visible = append(p.visible, i)
	}
	if p.cursor >= p.rowCount() {
		p.cursor = max(0, p.rowCount()-1)
	}
	p.ensureVisible()
}

func (p *GroupPicker) visibleHeight() int {
	height := p.height - 1
	if height <= 0 {
		return 0
	}
	return height
}

func (p *GroupPicker) ensureVisible() {
	if p.visibleHeight() <= 0 {
		p.offset = 0
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.visibleHeight() {
		p.offset = p.cursor - p.visibleHeight() + 1
	}
	p.clampOffset()
}

func (p *GroupPicker) clampOffset() {
	if p.visibleHeight() <= 0 {
		p.offset = 0
		return
	}
	if p.offset < 0 {
		p.offset = 0
	}
	maxOffset := max(0, p.rowCount()-p.visibleHeight())
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
}
