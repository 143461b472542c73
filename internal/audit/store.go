// Package audit persists moderation decisions to SQLite so every filed
// report and dispatched action leaves a reviewable trail.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"modwatch/internal/moderation"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	report_id  INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	guild_id   TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	author_id  TEXT NOT NULL,
	priority   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS actions (
	action     TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	author_id  TEXT NOT NULL,
	ok         INTEGER NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	flow       TEXT NOT NULL,
	actor_id   TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Store is a SQLite-backed audit trail implementing moderation.Auditor.
type Store struct {
	db *sql.DB
}

// Open opens or creates the audit database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReportFiled records a newly filed report.
func (s *Store) ReportFiled(rec moderation.Record, kind string) error {
	ref := rec.Ref()
	priority := "moderate"
	if rec.HighPriority() {
		priority = "high"
	}
	_, err := s.db.Exec(
		`INSERT INTO reports (report_id, kind, guild_id, channel_id, message_id, author_id, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID(), kind, ref.GuildID, ref.ChannelID, ref.MessageID, ref.AuthorID, priority, now())
	return err
}

// ActionDispatched records an attempted action and its outcome.
func (s *Store) ActionDispatched(act moderation.Action, ref *moderation.MessageRef, dispatchErr error) error {
	ok := 1
	msg := ""
	if dispatchErr != nil {
		ok = 0
		msg = dispatchErr.Error()
	}
	_, err := s.db.Exec(
		`INSERT INTO actions (action, channel_id, message_id, author_id, ok, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		act.String(), ref.ChannelID, ref.MessageID, ref.AuthorID, ok, msg, now())
	return err
}

// SessionClosed records how a session ended.
func (s *Store) SessionClosed(flow, actorID, outcome string) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (flow, actor_id, outcome, created_at) VALUES (?, ?, ?, ?)`,
		flow, actorID, outcome, now())
	return err
}

// ActionCount returns how many actions have been recorded, optionally
// filtered to failures.
func (s *Store) ActionCount(failedOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM actions`
	if failedOnly {
		q += ` WHERE ok = 0`
	}
	var n int
	if err := s.db.QueryRow(q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
