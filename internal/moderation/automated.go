package moderation

import (
	"context"
	"fmt"
	"strings"
)

// AutomatedReport is a report record synthesized from a classifier signal
// instead of human input. Construction performs no side effects; when the
// very-high-confidence flag is set the caller invokes
// ActOnVeryHighConfidence exactly once to execute the fixed action set.
type AutomatedReport struct {
	id       int64
	reg      *Registry
	ref      *MessageRef
	prob     float64
	veryHigh bool

	// taken is the best-effort audit trail: each action is recorded when it
	// is attempted, so the record stays truthful across partial failure.
	taken      []Action
	warnRepeat bool
}

func (a *AutomatedReport) ID() int64        { return a.id }
func (a *AutomatedReport) Ref() *MessageRef { return a.ref }

// Probability returns the classifier's disinformation probability.
func (a *AutomatedReport) Probability() float64 { return a.prob }

// HighPriority mirrors the very-high-confidence flag.
func (a *AutomatedReport) HighPriority() bool { return a.veryHigh }

// ActionsTaken lists the actions attempted so far, in order.
func (a *AutomatedReport) ActionsTaken() []Action {
	return append([]Action(nil), a.taken...)
}

// ActOnVeryHighConfidence executes the immediate-response set, in fixed
// order: remove the post, notify the poster, and mute the poster when their
// flagged-post history is at or above highCountThreshold. Each action is
// recorded before the attempt; a dispatch failure aborts the remaining
// steps and propagates.
func (a *AutomatedReport) ActOnVeryHighConfidence(ctx context.Context, d Dispatcher, highCountThreshold int) error {
	steps := []Action{ActionRemovePost, ActionNotifyPoster}
	if a.reg.FlaggedPostCount(a.ref.AuthorID) >= highCountThreshold {
		a.warnRepeat = true
		steps = append(steps, ActionTempMutePoster)
	}
	for _, act := range steps {
		a.taken = append(a.taken, act)
		if err := d.Dispatch(ctx, act, a.ref); err != nil {
			return fmt.Errorf("automated %s: %w", act, err)
		}
	}
	return nil
}

// Summary renders the automated report for the moderator channel: priority
// tag, message metadata, the ordered actions already taken, and a repeat
// offender warning when the mute threshold was met.
func (a *AutomatedReport) Summary() string {
	var b strings.Builder
	b.WriteString("New automated report received!\n")
	fmt.Fprintf(&b, "Report ID: %d\n", a.id)
	fmt.Fprintf(&b, "Priority: %s\n", priorityTag(a.veryHigh))
	fmt.Fprintf(&b, "Disinformation probability: %.2f\n", a.prob)
	b.WriteString(a.reg.MessageMetadata(a.ref))
	if len(a.taken) > 0 {
		b.WriteString("\nActions already taken automatically:")
		for _, act := range a.taken {
			b.WriteString("\n- ")
			b.WriteString(act.Message())
		}
	}
	if a.warnRepeat {
		b.WriteString("\nWarning: the poster has a high number of previously flagged posts.")
	}
	return b.String()
}
