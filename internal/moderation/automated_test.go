package moderation

import (
	"context"
	"strings"
	"testing"
)

// TestAutomatedActionsBelowThreshold verifies the immediate action set for a
// first-time poster: remove and notify, no mute.
func TestAutomatedActionsBelowThreshold(t *testing.T) {
	reg := NewRegistry()
	rec := reg.FileAutomatedReport(testRef(), 0.95, true)
	d := &fakeDispatcher{}

	if err := rec.ActOnVeryHighConfidence(context.Background(), d, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Action{ActionRemovePost, ActionNotifyPoster}
	taken := rec.ActionsTaken()
	if len(taken) != len(want) {
		t.Fatalf("Expected %d actions, got %v", len(want), taken)
	}
	for i, act := range want {
		if taken[i] != act {
			t.Errorf("Expected action %d to be %s, got %s", i, act, taken[i])
		}
	}
	if len(d.calls) != 2 {
		t.Errorf("Expected 2 dispatches, got %d", len(d.calls))
	}
}

// TestAutomatedActionsAtThreshold verifies the mute step kicks in once the
// poster's flagged-post history reaches the policy threshold.
func TestAutomatedActionsAtThreshold(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 5; i++ {
		reg.IncrementFlaggedPosts("poster")
	}
	rec := reg.FileAutomatedReport(testRef(), 0.95, true)
	d := &fakeDispatcher{}

	if err := rec.ActOnVeryHighConfidence(context.Background(), d, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	taken := rec.ActionsTaken()
	if len(taken) != 3 || taken[2] != ActionTempMutePoster {
		t.Fatalf("Expected remove, notify, mute; got %v", taken)
	}

	summary := rec.Summary()
	if !strings.Contains(summary, "high number of previously flagged posts") {
		t.Errorf("Summary missing repeat offender warning: %q", summary)
	}
}

// TestAutomatedPartialFailure verifies the audit trail records the failed
// attempt and the remaining steps are not tried.
func TestAutomatedPartialFailure(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 5; i++ {
		reg.IncrementFlaggedPosts("poster")
	}
	rec := reg.FileAutomatedReport(testRef(), 0.95, true)
	d := &fakeDispatcher{failOn: ActionNotifyPoster}

	err := rec.ActOnVeryHighConfidence(context.Background(), d, 5)
	if err == nil {
		t.Fatal("Expected dispatch failure to propagate")
	}

	taken := rec.ActionsTaken()
	if len(taken) != 2 || taken[0] != ActionRemovePost || taken[1] != ActionNotifyPoster {
		t.Fatalf("Expected attempts up to the failure, got %v", taken)
	}
	if len(d.calls) != 2 {
		t.Errorf("Expected the mute step to be skipped, got %v", d.calls)
	}
}

// TestAutomatedSummary verifies the rendered report carries the priority
// tag, probability, and the taken-action messages in order.
func TestAutomatedSummary(t *testing.T) {
	reg := NewRegistry()
	rec := reg.FileAutomatedReport(testRef(), 0.93, true)
	d := &fakeDispatcher{}
	if err := rec.ActOnVeryHighConfidence(context.Background(), d, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := rec.Summary()
	for _, want := range []string{
		"Report ID: 1",
		"Priority: HIGH",
		"Disinformation probability: 0.93",
		ActionRemovePost.Message(),
		ActionNotifyPoster.Message(),
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q: %q", want, summary)
		}
	}
	if !strings.Contains(summary, "flagged transgressions.") {
		t.Errorf("Summary missing metadata block: %q", summary)
	}
}
