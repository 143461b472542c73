package audit

import (
	"errors"
	"path/filepath"
	"testing"

	"modwatch/internal/moderation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRef() *moderation.MessageRef {
	return &moderation.MessageRef{
		GuildID:   "100",
		ChannelID: "200",
		MessageID: "300",
		AuthorID:  "poster",
	}
}

// TestReportFiled verifies filed reports are persisted.
func TestReportFiled(t *testing.T) {
	s := openTestStore(t)
	reg := moderation.NewRegistry()
	rec := reg.FileAutomatedReport(testRef(), 0.95, true)

	if err := s.ReportFiled(rec, "automated"); err != nil {
		t.Fatalf("record report: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM reports WHERE kind = 'automated' AND priority = 'high'`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 report row, got %d", n)
	}
}

// TestActionDispatched verifies both outcomes land in the trail.
func TestActionDispatched(t *testing.T) {
	s := openTestStore(t)
	ref := testRef()

	if err := s.ActionDispatched(moderation.ActionRemovePost, ref, nil); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := s.ActionDispatched(moderation.ActionTempMutePoster, ref, errors.New("boom")); err != nil {
		t.Fatalf("record failed action: %v", err)
	}

	total, err := s.ActionCount(false)
	if err != nil {
		t.Fatal(err)
	}
	failed, err := s.ActionCount(true)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || failed != 1 {
		t.Errorf("Expected 2 actions with 1 failure, got %d/%d", total, failed)
	}
}

// TestSessionClosed verifies session outcomes are persisted.
func TestSessionClosed(t *testing.T) {
	s := openTestStore(t)
	if err := s.SessionClosed("report", "alice", "cancelled"); err != nil {
		t.Fatalf("record session: %v", err)
	}

	var outcome string
	if err := s.db.QueryRow(`SELECT outcome FROM sessions WHERE actor_id = 'alice'`).Scan(&outcome); err != nil {
		t.Fatalf("query: %v", err)
	}
	if outcome != "cancelled" {
		t.Errorf("Expected cancelled, got %s", outcome)
	}
}
