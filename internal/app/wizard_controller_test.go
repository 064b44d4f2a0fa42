package app

import (
	"testing"
	"time"

	"curator/internal/wizard"
)

func newTestWizard() *WizardController {
	return NewWizardController(nil, nil, nil, nil, 0.98, 10*time.Millisecond)
}

func TestWizardSubmitStartsAnalyze(t *testing.T) {
	w := newTestWizard()
	w.Open("", "")
	cmd := w.Apply(wizard.SubmitConfigure{Target: "example.com", Locale: "UA"})
	if cmd == nil {
		t.Fatalf("expected analyze command for a valid submit")
	}
	if !w.State().Analyzing {
		t.Fatalf("expected analyzing state")
	}
	if cmd := w.Apply(wizard.SubmitConfigure{Target: "", Locale: ""}); cmd != nil {
		t.Fatalf("expected no command while a submit is already pending")
	}
}

func TestWizardInvalidSubmitIssuesNothing(t *testing.T) {
	w := newTestWizard()
	w.Open("", "")
	if cmd := w.Apply(wizard.SubmitConfigure{Target: "   ", Locale: "UA"}); cmd != nil {
		t.Fatalf("expected local validation to short-circuit the remote call")
	}
}

func TestWizardFirstExpandLoadsPrompts(t *testing.T) {
	w := newTestWizard()
	w.Open("", "")
	w.Apply(wizard.SubmitConfigure{Target: "example.com", Locale: "UA"})
	w.Apply(wizard.AnalyzeResult{Session: 1, Matched: []string{"shoes"}, Unmatched: []string{"gear"}})
	if cmd := w.Apply(wizard.ToggleTopicExpand{Index: 0}); cmd == nil {
		t.Fatalf("expected first expansion to issue a prompt load")
	}
	w.Apply(wizard.TopicPromptsResult{Session: 1, Topic: "shoes"})
	w.Apply(wizard.ToggleTopicExpand{Index: 0})
	if cmd := w.Apply(wizard.ToggleTopicExpand{Index: 0}); cmd != nil {
		t.Fatalf("expected re-expansion not to refetch")
	}
}

func TestWizardConfirmTriggersGeneration(t *testing.T) {
	w := newTestWizard()
	w.Open("", "")
	w.Apply(wizard.SubmitConfigure{Target: "example.com", Locale: "UA"})
	w.Apply(wizard.AnalyzeResult{Session: 1, Matched: []string{"shoes"}, Unmatched: []string{"gear"}})
	w.Apply(wizard.Continue{})
	w.Apply(wizard.ToggleUnmatched{Name: "gear"})
	if cmd := w.Apply(wizard.RequestGenerate{}); cmd == nil {
		t.Fatalf("expected a price lookup when the confirmation opens")
	}
	if cmd := w.Apply(wizard.ConfirmGenerate{}); cmd == nil {
		t.Fatalf("expected the generation command on confirm")
	}
}

func TestWizardCloseThenResetClearsController(t *testing.T) {
	w := newTestWizard()
	w.Open("example.com", "UA")
	if cmd := w.Apply(wizard.Close{}); cmd == nil {
		t.Fatalf("expected a delayed reset after close")
	}
	session := w.State().Session
	w.Apply(wizard.Reset{Session: session})
	if w.IsOpen() {
		t.Fatalf("expected controller closed after reset")
	}
	if w.State().Session != session+1 {
		t.Fatalf("expected a fresh session token, got %d", w.State().Session)
	}
}
