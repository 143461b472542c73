package moderation

import (
	"context"
	"strings"
	"testing"

	"modwatch/internal/classifier"
)

func newTestEngine(tr *fakeTransport, d *fakeDispatcher) (*Engine, *Registry) {
	reg := NewRegistry()
	e := NewEngine(tr, d, reg, nil, Policy{
		Thresholds:      classifier.Thresholds{Moderate: 0.6, VeryHigh: 0.9},
		HighReportCount: 5,
	})
	e.SetModChannel("mod-channel")
	return e, reg
}

// TestEngineIgnoresStrayText verifies free text outside a session starts
// nothing and gets no reply.
func TestEngineIgnoresStrayText(t *testing.T) {
	e, reg := newTestEngine(&fakeTransport{ref: testRef()}, &fakeDispatcher{})

	replies, err := e.HandleDirectMessage(context.Background(), "alice", "hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replies != nil {
		t.Errorf("Expected no reply, got %v", replies)
	}
	if reg.ReportSessionCount() != 0 {
		t.Error("Expected no session to be created")
	}
}

// TestEngineSingleSessionPerReporter verifies a second `report` message
// feeds the existing session instead of opening another.
func TestEngineSingleSessionPerReporter(t *testing.T) {
	e, reg := newTestEngine(&fakeTransport{ref: testRef()}, &fakeDispatcher{})
	ctx := context.Background()

	e.HandleDirectMessage(ctx, "alice", StartKeyword)
	if reg.ReportSessionCount() != 1 {
		t.Fatal("Expected one open session")
	}
	session, _ := reg.ReportSession("alice")

	// The session is now awaiting the link; "report" is just bad input.
	e.HandleDirectMessage(ctx, "alice", StartKeyword)
	again, _ := reg.ReportSession("alice")
	if again != session {
		t.Error("Expected the same session instance")
	}
	if reg.ReportSessionCount() != 1 {
		t.Errorf("Expected one open session, got %d", reg.ReportSessionCount())
	}
}

// TestEngineFilesFinishedReport verifies a completed reporter flow files a
// record, removes the session, and sends the summary to the mod channel.
func TestEngineFilesFinishedReport(t *testing.T) {
	tr := &fakeTransport{ref: testRef()}
	e, reg := newTestEngine(tr, &fakeDispatcher{})
	ctx := context.Background()

	steps := []struct {
		text    string
		symbols []string
	}{
		{StartKeyword, nil},
		{"/100/200/300", nil},
		{ContinueKeyword, []string{"👤"}},
		{ContinueKeyword, []string{"❌"}},
		{ContinueKeyword, []string{"✅"}},
		{ContinueKeyword, []string{"🔴"}},
		{ContinueKeyword, []string{"🟥"}},
		{ContinueKeyword, []string{"🧹"}},
		{ContinueKeyword, nil},
	}
	for _, step := range steps {
		if _, err := e.HandleDirectMessage(ctx, "alice", step.text); err != nil {
			t.Fatalf("step %q: %v", step.text, err)
		}
		for _, sym := range step.symbols {
			e.HandleDirectReaction(ctx, "alice", sym)
		}
	}

	if reg.ReportSessionCount() != 0 {
		t.Error("Expected session to be removed after completion")
	}
	rec, ok := reg.Report(1)
	if !ok {
		t.Fatal("Expected report 1 to be filed")
	}
	if rec.HighPriority() {
		t.Error("Expected moderate priority for the 🟥 category")
	}

	if len(tr.replies) == 0 {
		t.Fatal("Expected the summary to be sent")
	}
	last := tr.replies[len(tr.replies)-1]
	if !strings.HasPrefix(last, "mod-channel|") || !strings.Contains(last, "Report ID: 1") {
		t.Errorf("Expected summary in mod channel, got %q", last)
	}
}

// TestEngineScanCreatesAutomatedReport verifies the classifier marker
// synthesizes reports at the right tiers.
func TestEngineScanCreatesAutomatedReport(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantReports int
		wantActions int
	}{
		{"no marker", "just chatting", 0, 0},
		{"malformed marker", "AUTO_FLAG DISINFO_PROB=oops", 0, 0},
		{"below moderate", "AUTO_FLAG DISINFO_PROB=0.35", 0, 0},
		{"moderate", "AUTO_FLAG DISINFO_PROB=0.75", 1, 0},
		{"very high", "AUTO_FLAG DISINFO_PROB=0.95", 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{}
			d := &fakeDispatcher{}
			e, reg := newTestEngine(tr, d)

			ref := testRef()
			ref.Content = tt.content
			if err := e.ScanChannelMessage(context.Background(), ref); err != nil {
				t.Fatalf("scan: %v", err)
			}

			if got := reg.ReportCount(); got != tt.wantReports {
				t.Errorf("Expected %d reports, got %d", tt.wantReports, got)
			}
			if len(d.calls) != tt.wantActions {
				t.Errorf("Expected %d actions, got %v", tt.wantActions, d.calls)
			}
			if tt.wantReports > 0 && len(tr.replies) == 0 {
				t.Error("Expected automated summary in mod channel")
			}
		})
	}
}

// TestEngineFinishedResponseCountsFlaggedPost verifies a completed moderator
// response bumps the reported author's flagged-post counter.
func TestEngineFinishedResponseCountsFlaggedPost(t *testing.T) {
	tr := &fakeTransport{ref: testRef()}
	e, reg := newTestEngine(tr, &fakeDispatcher{})
	ctx := context.Background()

	r := startReport(t, tr)
	runFullReport(t, r)
	reg.FileUserReport(r)

	for _, text := range []string{
		RespondKeyword, "1",
		ContinueKeyword, ContinueKeyword, ContinueKeyword, ContinueKeyword,
	} {
		if _, err := e.HandleModMessage(ctx, "mod", text); err != nil {
			t.Fatalf("mod step %q: %v", text, err)
		}
	}
	e.HandleModReaction(ctx, "mod", "❎")
	if _, err := e.HandleModMessage(ctx, "mod", ContinueKeyword); err != nil {
		t.Fatalf("final continue: %v", err)
	}

	if reg.ResponseSessionCount() != 0 {
		t.Error("Expected response session to be removed")
	}
	if got := reg.FlaggedPostCount("poster"); got != 1 {
		t.Errorf("Expected flagged-post count 1, got %d", got)
	}
}

// TestEngineCancelRemovesSession verifies cancellation destroys the session
// so a fresh `report` starts over.
func TestEngineCancelRemovesSession(t *testing.T) {
	e, reg := newTestEngine(&fakeTransport{ref: testRef()}, &fakeDispatcher{})
	ctx := context.Background()

	e.HandleDirectMessage(ctx, "alice", StartKeyword)
	e.HandleDirectMessage(ctx, "alice", CancelKeyword)
	if reg.ReportSessionCount() != 0 {
		t.Error("Expected cancelled session to be removed")
	}

	e.HandleDirectMessage(ctx, "alice", StartKeyword)
	session, ok := reg.ReportSession("alice")
	if !ok || session.State() != StateAwaitingTarget {
		t.Error("Expected a fresh session after cancellation")
	}
}
