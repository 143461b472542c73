package moderation

import "testing"

// TestSelectionIdempotent verifies set semantics: re-selecting the same
// symbol in the same state does not grow the selection.
func TestSelectionIdempotent(t *testing.T) {
	sel := NewSelections[ReportState]()
	opt, _ := optionAt(reportOptions[StateReportStarted], "👤")

	sel.Select(StateReportStarted, opt)
	sel.Select(StateReportStarted, opt)

	if got := sel.Count(StateReportStarted); got != 1 {
		t.Errorf("Expected 1 selection, got %d", got)
	}
}

// TestSelectionVisitOrder verifies the summary renders states in visitation
// order, including visited states with no selection.
func TestSelectionVisitOrder(t *testing.T) {
	sel := NewSelections[ReportState]()
	sel.Visit(StateReportStarted)
	sel.Visit(StateScaleIdentified)
	opt, _ := optionAt(reportOptions[StateScaleIdentified], "❌")
	sel.Select(StateScaleIdentified, opt)

	lines := sel.Render(reportPrompts)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 summary lines, got %d", len(lines))
	}
	if lines[0] != reportPrompts[StateReportStarted]+" -> (no selection)" {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
	if lines[1] != reportPrompts[StateScaleIdentified]+" -> False Information" {
		t.Errorf("Unexpected second line: %q", lines[1])
	}
}

// TestSelectionChosenOrderedBySymbol verifies in-state ordering is
// normalized regardless of selection order.
func TestSelectionChosenOrderedBySymbol(t *testing.T) {
	sel := NewSelections[ResponseState]()
	b, _ := optionAt(responseOptions[StateAskUserActions], "3️⃣")
	a, _ := optionAt(responseOptions[StateAskUserActions], "1️⃣")
	sel.Select(StateAskUserActions, b)
	sel.Select(StateAskUserActions, a)

	chosen := sel.Chosen(StateAskUserActions)
	if len(chosen) != 2 {
		t.Fatalf("Expected 2 chosen options, got %d", len(chosen))
	}
	if chosen[0].Symbol != "1️⃣" || chosen[1].Symbol != "3️⃣" {
		t.Errorf("Expected symbol order 1️⃣, 3️⃣; got %s, %s", chosen[0].Symbol, chosen[1].Symbol)
	}
}
