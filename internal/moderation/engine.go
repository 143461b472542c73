package moderation

import (
	"context"
	"strings"
	"sync"

	"modwatch/internal/classifier"
	"modwatch/internal/logging"
)

// Auditor records moderation decisions for later review. Implementations
// must tolerate being called mid-turn; audit failures are logged, never
// allowed to abort a session's turn.
type Auditor interface {
	ReportFiled(rec Record, kind string) error
	ActionDispatched(act Action, ref *MessageRef, dispatchErr error) error
	SessionClosed(flow, actorID, outcome string) error
}

// Policy holds the configuration constants the engine depends on. Values
// are policy, not protocol.
type Policy struct {
	Thresholds classifier.Thresholds
	// HighReportCount is the flagged-post count at which the automated flow
	// also mutes the poster.
	HighReportCount int
}

// DefaultPolicy mirrors the shipped moderation policy.
var DefaultPolicy = Policy{Thresholds: classifier.DefaultThresholds, HighReportCount: 5}

// Engine routes inbound chat events to the owning per-actor session and
// coordinates the cross-flow pieces: filing finished reports, synthesizing
// automated reports from classifier signals, and keeping the counters. One
// mutex serializes turns so each event's handler runs to completion before
// the next event is processed.
type Engine struct {
	mu        sync.Mutex
	transport Transport
	dispatch  Dispatcher
	reg       *Registry
	policy    Policy
	audit     Auditor

	// modChannelID is where report summaries land; set by the gateway once
	// the mod channel has been resolved.
	modChannelID string
}

// NewEngine wires the workflow engine. audit may be nil.
func NewEngine(transport Transport, dispatch Dispatcher, reg *Registry, audit Auditor, policy Policy) *Engine {
	e := &Engine{
		transport: transport,
		reg:       reg,
		policy:    policy,
		audit:     audit,
	}
	e.dispatch = auditedDispatcher{next: dispatch, engine: e}
	return e
}

// SetModChannel binds the moderator channel summaries are sent to.
func (e *Engine) SetModChannel(channelID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modChannelID = channelID
}

// Registry exposes the correlation registry, e.g. for the status command.
func (e *Engine) Registry() *Registry { return e.reg }

// HandleDirectMessage processes a DM from a (potential) reporter and
// returns the reply lines for that user.
func (e *Engine) HandleDirectMessage(ctx context.Context, actorID, content string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if content == HelpKeyword {
		return []string{
			"Use the `report` command to begin the reporting process.\n" +
				"Use the `cancel` command to cancel the report process.",
		}, nil
	}

	session, open := e.reg.ReportSession(actorID)
	if !open {
		// Free text outside a session only matters if it starts one.
		if !strings.HasPrefix(content, StartKeyword) {
			return nil, nil
		}
		session = NewReport(e.transport)
		e.reg.PutReportSession(actorID, session)
	}

	replies, err := session.HandleMessage(ctx, content)
	if err != nil {
		return replies, err
	}

	if session.Cancelled() {
		e.reg.DropReportSession(actorID)
		e.auditSessionClosed("report", actorID, "cancelled")
		return replies, nil
	}
	if session.Finished() {
		e.reg.DropReportSession(actorID)
		e.auditSessionClosed("report", actorID, "finished")
		rec := e.reg.FileUserReport(session)
		e.auditReportFiled(rec, "user")
		if err := e.sendToModChannel(ctx, rec.Summary()); err != nil {
			return replies, err
		}
	}
	return replies, nil
}

// HandleDirectReaction forwards a reporter's reaction to their open
// session. Reactions without a bound session are silently ignored.
func (e *Engine) HandleDirectReaction(ctx context.Context, actorID, symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, open := e.reg.ReportSession(actorID)
	if !open {
		return
	}
	logging.Debug("engine", "reporter %s reacted %s in state %d", actorID, symbol, session.State())
	session.HandleChoice(symbol)
}

// HandleModMessage processes a moderator-channel message and returns the
// reply lines for that channel.
func (e *Engine) HandleModMessage(ctx context.Context, actorID, content string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if content == HelpKeyword {
		return []string{
			"Use the `start` command to begin responding to a report.\n" +
				"Use the `cancel` command to cancel the response.",
		}, nil
	}

	session, open := e.reg.ResponseSession(actorID)
	if !open {
		if !strings.HasPrefix(content, RespondKeyword) {
			return nil, nil
		}
		session = NewResponse(e.reg, e.dispatch)
		e.reg.PutResponseSession(actorID, session)
	}

	replies, err := session.HandleMessage(ctx, content)
	if err != nil {
		return replies, err
	}

	if session.Cancelled() {
		e.reg.DropResponseSession(actorID)
		e.auditSessionClosed("response", actorID, "cancelled")
		return replies, nil
	}
	if session.Finished() {
		e.reg.DropResponseSession(actorID)
		e.auditSessionClosed("response", actorID, "finished")
		// A completed response counts one more flagged post against the
		// reported author.
		if rec := session.Record(); rec != nil {
			e.reg.IncrementFlaggedPosts(rec.Ref().AuthorID)
		}
	}
	return replies, nil
}

// HandleModReaction forwards a moderator's reaction to their open session.
func (e *Engine) HandleModReaction(ctx context.Context, actorID, symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, open := e.reg.ResponseSession(actorID)
	if !open {
		return
	}
	logging.Debug("engine", "moderator %s reacted %s in state %d", actorID, symbol, session.State())
	session.HandleChoice(symbol)
}

// ScanChannelMessage checks a watched-channel message for the classifier's
// marker and synthesizes an automated report when the probability clears
// the moderate threshold. Very-high-confidence reports execute their fixed
// action set before the summary is filed.
func (e *Engine) ScanChannelMessage(ctx context.Context, ref *MessageRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prob, ok := classifier.ParseSignal(ref.Content)
	if !ok {
		return nil
	}
	level := e.policy.Thresholds.Assess(prob)
	if level == classifier.LevelNone {
		return nil
	}

	rec := e.reg.FileAutomatedReport(ref, prob, level == classifier.LevelVeryHigh)
	e.auditReportFiled(rec, "automated")
	logging.Info("engine", "automated report %d filed (prob=%.2f, level=%d)", rec.ID(), prob, level)

	if level == classifier.LevelVeryHigh {
		if err := rec.ActOnVeryHighConfidence(ctx, e.dispatch, e.policy.HighReportCount); err != nil {
			// The summary still goes out; the taken-action list reflects
			// only the attempts made before the failure.
			logging.Info("engine", "automated actions for report %d aborted: %v", rec.ID(), err)
		}
	}

	return e.sendToModChannel(ctx, rec.Summary())
}

func (e *Engine) sendToModChannel(ctx context.Context, text string) error {
	if e.modChannelID == "" {
		logging.Info("engine", "no mod channel bound, dropping summary")
		return nil
	}
	return e.transport.SendReply(ctx, e.modChannelID, text)
}

func (e *Engine) auditSessionClosed(flow, actorID, outcome string) {
	if e.audit == nil {
		return
	}
	if err := e.audit.SessionClosed(flow, actorID, outcome); err != nil {
		logging.Info("engine", "audit session close: %v", err)
	}
}

func (e *Engine) auditReportFiled(rec Record, kind string) {
	if e.audit == nil {
		return
	}
	if err := e.audit.ReportFiled(rec, kind); err != nil {
		logging.Info("engine", "audit report filed: %v", err)
	}
}

// auditedDispatcher wraps the transport's dispatcher so every attempted
// action lands in the audit trail, successful or not.
type auditedDispatcher struct {
	next   Dispatcher
	engine *Engine
}

func (d auditedDispatcher) Dispatch(ctx context.Context, act Action, ref *MessageRef) error {
	err := d.next.Dispatch(ctx, act, ref)
	if d.engine.audit != nil {
		if aerr := d.engine.audit.ActionDispatched(act, ref, err); aerr != nil {
			logging.Info("engine", "audit action: %v", aerr)
		}
	}
	return err
}
