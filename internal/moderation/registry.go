package moderation

import (
	"fmt"
	"sync"
)

// Record is a filed report, user-originated or automated, addressable by its
// registry-assigned identifier.
type Record interface {
	ID() int64
	Ref() *MessageRef
	// HighPriority reports the derived severity flag.
	HighPriority() bool
	// ActionsTaken lists actions already executed for this report, in the
	// order they were attempted. Empty for user reports.
	ActionsTaken() []Action
	// Summary renders the human-readable report description sent to the
	// moderator channel.
	Summary() string
}

// Registry holds the correlation state shared by all flows: filed report
// records, open sessions keyed by actor, and the moderation counters. It is
// injected into sessions rather than accessed as a process-wide singleton,
// and serializes access internally since chat handlers may run on different
// goroutines.
type Registry struct {
	mu               sync.Mutex
	nextID           int64
	reports          map[int64]Record
	reportSessions   map[string]*Report
	responseSessions map[string]*Response
	flaggedPosts     map[string]int // author id -> posts flagged by finished responses or automated action
	channelFlags     map[string]int // channel id -> group transgression counter
}

// NewRegistry returns an empty registry. Report identifiers start at 1 and
// are never reused.
func NewRegistry() *Registry {
	return &Registry{
		nextID:           1,
		reports:          make(map[int64]Record),
		reportSessions:   make(map[string]*Report),
		responseSessions: make(map[string]*Response),
		flaggedPosts:     make(map[string]int),
		channelFlags:     make(map[string]int),
	}
}

// FileUserReport assigns the next report id to a finished reporter session
// and stores the resulting record. The record outlives the session.
func (g *Registry) FileUserReport(r *Report) *UserReport {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := &UserReport{
		id:     g.nextID,
		reg:    g,
		ref:    r.ref,
		severe: r.severe,
		sel:    r.sel,
	}
	g.nextID++
	g.reports[rec.id] = rec
	return rec
}

// FileAutomatedReport stores a classifier-originated record and assigns the
// next report id. Construction performs no side effects.
func (g *Registry) FileAutomatedReport(ref *MessageRef, prob float64, veryHigh bool) *AutomatedReport {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := &AutomatedReport{
		id:       g.nextID,
		reg:      g,
		ref:      ref,
		prob:     prob,
		veryHigh: veryHigh,
	}
	g.nextID++
	g.reports[rec.id] = rec
	return rec
}

// Report looks up a filed record by id.
func (g *Registry) Report(id int64) (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.reports[id]
	return rec, ok
}

// ReportCount returns the number of filed records.
func (g *Registry) ReportCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reports)
}

// ReportSession returns the open reporter session for an actor, if any.
func (g *Registry) ReportSession(actorID string) (*Report, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.reportSessions[actorID]
	return r, ok
}

// PutReportSession registers the single open reporter session for an actor.
func (g *Registry) PutReportSession(actorID string, r *Report) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reportSessions[actorID] = r
}

// DropReportSession removes an actor's reporter session.
func (g *Registry) DropReportSession(actorID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.reportSessions, actorID)
}

// ReportSessionCount returns the number of open reporter sessions.
func (g *Registry) ReportSessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reportSessions)
}

// ResponseSession returns the open moderator session for an actor, if any.
func (g *Registry) ResponseSession(actorID string) (*Response, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.responseSessions[actorID]
	return r, ok
}

// PutResponseSession registers the single open moderator session for an actor.
func (g *Registry) PutResponseSession(actorID string, r *Response) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responseSessions[actorID] = r
}

// DropResponseSession removes a moderator's response session.
func (g *Registry) DropResponseSession(actorID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.responseSessions, actorID)
}

// ResponseSessionCount returns the number of open moderator sessions.
func (g *Registry) ResponseSessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.responseSessions)
}

// FlaggedPostCount returns how many of an author's posts have been flagged.
func (g *Registry) FlaggedPostCount(authorID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flaggedPosts[authorID]
}

// IncrementFlaggedPosts bumps an author's flagged-post counter.
func (g *Registry) IncrementFlaggedPosts(authorID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flaggedPosts[authorID]++
}

// ChannelFlagCount returns a channel's group transgression counter.
func (g *Registry) ChannelFlagCount(channelID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.channelFlags[channelID]
}

// IncrementChannelFlags bumps a channel's group transgression counter.
func (g *Registry) IncrementChannelFlags(channelID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channelFlags[channelID]++
}

// MessageMetadata renders the shared metadata block used by report
// summaries: the message, its author, and the standing counters.
func (g *Registry) MessageMetadata(ref *MessageRef) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf(
		"The following message: %s\n"+
			"Was created by: %s\n"+
			"%s's previously flagged post count is: %d\n"+
			"It was posted in the following channel: %s\n"+
			"The channel %s has a total of %d flagged transgressions.",
		ref.Content, ref.AuthorName, ref.AuthorName, g.flaggedPosts[ref.AuthorID],
		ref.ChannelName, ref.ChannelName, g.channelFlags[ref.ChannelID])
}
