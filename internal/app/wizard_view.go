package app

import (
	"fmt"
	"strings"

	"curator/internal/wizard"
)

func (w *WizardController) View() string {
	if !w.open {
		return ""
	}
	var lines []string
	lines = append(lines, w.stepHeader())
	lines = append(lines, "")
	switch w.state.Step {
	case wizard.StepConfigure:
		lines = append(lines, w.viewConfigure()...)
	case wizard.StepMatched:
		lines = append(lines, w.viewMatched()...)
	case wizard.StepGenerate:
		lines = append(lines, w.viewGenerate()...)
	case wizard.StepReview:
		lines = append(lines, w.viewReview()...)
	}
	if w.state.Err != "" {
		lines = append(lines, "", errorStyle.Render(" "+w.state.Err))
	}
	lines = append(lines, "", helpStyle.Render(w.stepHelp()))
	body := padLines(lines, max(20, w.width-4))
	return wizardFrameStyle.Render(body)
}

func (w *WizardController) stepHeader() string {
	steps := []wizard.Step{wizard.StepConfigure, wizard.StepMatched, wizard.StepGenerate, wizard.StepReview}
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		label := step.String()
		switch {
		case step == w.state.Step:
			label = stepActiveStyle.Render(label)
		case step < w.state.Step:
			label = stepDoneStyle.Render(label)
		default:
			label = stepPendingStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return " " + strings.Join(parts, dividerStyle.Render(" › "))
}

func (w *WizardController) viewConfigure() []string {
	lines := []string{
		" " + w.targetInput.View(),
		" " + w.localeInput.View(),
	}
	if w.state.Analyzing {
		lines = append(lines, "", statusStyle.Render(" analyzing…"))
	}
	return lines
}

func (w *WizardController) viewMatched() []string {
	if w.state.Meta != nil && w.state.Meta.Title != "" {
		return append([]string{statusStyle.Render(" " + w.state.Meta.Title), ""}, w.matchedList()...)
	}
	return w.matchedList()
}

func (w *WizardController) matchedList() []string {
	rows := w.matchedRows()
	var lines []string
	for i, row := range rows {
		topic := w.state.Matched[row.topicIndex]
		var line string
		if row.promptIndex < 0 {
			caret := "▸"
			if topic.Expanded {
				caret = "▾"
			}
			line = fmt.Sprintf(" %s %s (%d selected)", caret, topic.Name, len(topic.SelectedIDs()))
			if topic.Committed {
				line += committedTickStyle.Render(" ✓ bound")
			} else if topic.Loading {
				line += statusStyle.Render(" loading…")
			}
			line = groupStyle.Render(line)
		} else {
			prompt := topic.Prompts[row.promptIndex]
			marker := "[ ]"
			if prompt != nil && topic.Selected[prompt.ID] {
				marker = checkedStyle.Render("[x]")
			}
			text := ""
			if prompt != nil {
				text = prompt.Text
			}
			line = fmt.Sprintf("   %s %s", marker, truncateToWidth(text, max(1, w.width-12)))
		}
		if i == w.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, helpStyle.Render(" (no matched topics)"))
	}
	return lines
}

func (w *WizardController) viewGenerate() []string {
	if w.state.NeedsConfirm {
		return w.viewConfirm()
	}
	var lines []string
	for i, name := range w.state.Unmatched {
		marker := "[ ]"
		if w.state.SelectedUnmatched[name] {
			marker = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf(" %s %s", marker, name)
		if i == w.cursor && !w.editBrands {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	if w.editBrands {
		lines = append(lines, " "+w.brandInput.View())
	} else {
		lines = append(lines, helpStyle.Render(" brand exclusions: ")+strings.Join(w.state.Brands, ", "))
	}
	if w.state.Generating {
		lines = append(lines, "", statusStyle.Render(" generating…"))
	}
	return lines
}

func (w *WizardController) viewConfirm() []string {
	topics := w.state.GeneratableTopics()
	lines := []string{fmt.Sprintf(" generate prompts for %d topic(s)?", len(topics))}
	if w.state.Price != nil {
		total := w.state.Price.PerTopic * float64(len(topics))
		lines = append(lines, priceStyle.Render(fmt.Sprintf(" cost: %.2f %s", total, w.state.Price.Currency)))
	}
	if w.state.Balance != nil {
		lines = append(lines, statusStyle.Render(fmt.Sprintf(" balance: %.2f %s", w.state.Balance.Amount, w.state.Balance.Currency)))
		if w.state.Price != nil && !w.state.Balance.Affordable(*w.state.Price, len(topics)) {
			lines = append(lines, errorStyle.Render(" insufficient balance"))
		}
	}
	return lines
}

func (w *WizardController) viewReview() []string {
	rows := w.reviewRows()
	var lines []string
	for i, row := range rows {
		topic := w.state.Review[row.topicIndex]
		var line string
		if row.promptIndex < 0 {
			line = groupStyle.Render(" " + topic.Name)
			if topic.Committed {
				line += committedTickStyle.Render(fmt.Sprintf(" ✓ group %d", topic.GroupID))
			}
		} else {
			prompt := topic.Prompts[row.promptIndex]
			marker := "new"
			if prompt.UseMatch && prompt.Best != nil {
				marker = duplicateStyle.Render(fmt.Sprintf("reuse %.3f", prompt.Best.Similarity))
			}
			line = fmt.Sprintf("   [%s] %s", marker, truncateToWidth(prompt.Text, max(1, w.width-20)))
		}
		if i == w.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (w *WizardController) stepHelp() string {
	switch w.state.Step {
	case wizard.StepConfigure:
		return " tab switch · enter analyze · esc close"
	case wizard.StepMatched:
		return " space expand/toggle · a select all · b bind · enter continue · esc close"
	case wizard.StepGenerate:
		if w.state.NeedsConfirm {
			return " enter confirm · esc cancel"
		}
		return " space toggle · e brands · enter generate · backspace back · esc close"
	case wizard.StepReview:
		return " space reuse/new · enter commit topic · backspace back · esc close"
	}
	return ""
}
