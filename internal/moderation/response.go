package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// autoHandledMarker prefixes option labels whose action an automated report
// already executed. Marked options stay selectable so a moderator can still
// override the automated decision.
const autoHandledMarker = "[already handled automatically] "

// Response is the moderator-facing session: it binds to a filed report
// record, walks the post/user/group action prompts, dispatches the chosen
// actions, and optionally escalates to advanced moderators.
type Response struct {
	state    ResponseState
	reg      *Registry
	dispatch Dispatcher

	record       Record
	alreadyTaken map[Action]bool
	sel          *Selections[ResponseState]
	escalate     bool
}

// NewResponse starts a moderator session in its initial state.
func NewResponse(reg *Registry, dispatch Dispatcher) *Response {
	return &Response{
		state:        StateResponseStart,
		reg:          reg,
		dispatch:     dispatch,
		alreadyTaken: make(map[Action]bool),
		sel:          NewSelections[ResponseState](),
	}
}

// State returns the session's current state.
func (r *Response) State() ResponseState { return r.state }

// Record returns the bound report record, nil until a report id resolves.
func (r *Response) Record() Record { return r.record }

// Cancelled reports whether the session reached the cancelled terminal.
func (r *Response) Cancelled() bool { return r.state == StateResponseCancelled }

// Finished reports whether the session completed the full flow.
func (r *Response) Finished() bool { return r.state == StateResponseFinished }

// Escalated reports whether the moderator forwarded the report.
func (r *Response) Escalated() bool { return r.escalate }

// Cancel aborts the session from any state.
func (r *Response) Cancel() []string {
	r.state = StateResponseCancelled
	return []string{"Report response cancelled."}
}

// HandleMessage advances the session on moderator-typed free text and
// returns the reply lines. A dispatch failure aborts the turn's remaining
// effects and propagates alongside the lines already produced.
func (r *Response) HandleMessage(ctx context.Context, content string) ([]string, error) {
	if content == CancelKeyword {
		return r.Cancel(), nil
	}

	switch r.state {
	case StateResponseStart:
		r.state = StateAwaitingReportID
		return []string{
			"Thank you for responding to a report. " +
				"Say `help` at any time for more information.\n\n" +
				"Please type the ID number of the report you would like to respond to.",
		}, nil

	case StateAwaitingReportID:
		return r.bindReport(content), nil
	}

	if content == ContinueKeyword {
		return r.advance(ctx)
	}
	return nil, nil
}

// bindReport resolves a typed report id against the registry. Unresolved ids
// reprompt without a state change; the binding is immutable once made.
func (r *Response) bindReport(content string) []string {
	id, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil || id < 1 {
		return []string{"I'm sorry, I couldn't read the report number. Please try again or say `cancel` to cancel."}
	}
	rec, ok := r.reg.Report(id)
	if !ok {
		return []string{fmt.Sprintf("I couldn't find report number %d. Please try again or say `cancel` to cancel.", id)}
	}

	r.record = rec
	for _, act := range rec.ActionsTaken() {
		r.alreadyTaken[act] = true
	}

	r.state = StateReportIdentified
	return []string{
		fmt.Sprintf("Thank you for beginning a response to report number %d!", id),
		"We'll be asking you a few questions to gather your full response to the report.\n" +
			"Type `continue` to continue the response, and say `cancel` to cancel at any point.",
	}
}

// HandleChoice records the option a symbol selects in the current state.
// Invalid symbols are silently ignored.
func (r *Response) HandleChoice(symbol string) {
	opt, ok := optionAt(responseOptions[r.state], symbol)
	if !ok {
		return
	}
	r.sel.Select(r.state, opt)
}

// advance runs one continuation turn: dispatch the actions selected in the
// state being left, then move to the next state and render its prompt.
func (r *Response) advance(ctx context.Context) ([]string, error) {
	lines, err := r.dispatchSelected(ctx)
	if err != nil {
		return lines, err
	}

	r.state = nextResponseState(r.state, r.sel)
	if r.state == StateAskEscalationReason {
		r.escalate = true
	}

	if r.state == StateEscalationSummary {
		lines = append(lines, r.escalationSummary())
		r.state = StateResponseFinished
		return lines, nil
	}

	var reply strings.Builder
	reply.WriteString(responsePrompts[r.state])

	if opts := responseOptions[r.state]; len(opts) > 0 {
		r.sel.Visit(r.state)
		reply.WriteString(symbolPreamble)
		for _, o := range opts {
			fmt.Fprintf(&reply, "%s: %s\n", o.Symbol, r.decorateLabel(o))
		}
	}

	if r.state != StateThankModerator {
		reply.WriteString(continueReminder)
	} else {
		r.state = StateResponseFinished
	}

	return append(lines, reply.String()), nil
}

// dispatchSelected executes every action among the current state's selected
// options, in the order the state's table lists them, and collects their
// confirmation messages. The first failure stops the turn.
func (r *Response) dispatchSelected(ctx context.Context) ([]string, error) {
	var lines []string
	for _, opt := range responseOptions[r.state] {
		if opt.Action == ActionNone || !r.sel.Has(r.state, opt.Symbol) {
			continue
		}
		if err := r.dispatch.Dispatch(ctx, opt.Action, r.record.Ref()); err != nil {
			return lines, fmt.Errorf("dispatch %s: %w", opt.Action, err)
		}
		if opt.PostActionMessage != "" {
			lines = append(lines, opt.PostActionMessage)
		}
	}
	return lines, nil
}

// decorateLabel marks options whose action was already executed by the
// automated flow. They are shown, not suppressed.
func (r *Response) decorateLabel(o Option) string {
	if o.Action != ActionNone && r.alreadyTaken[o.Action] {
		return autoHandledMarker + o.Label
	}
	return o.Label
}

// escalationSummary renders the banner, the bound report's own summary, and
// this session's visited-state selections for the advanced moderator tier.
func (r *Response) escalationSummary() string {
	var b strings.Builder
	b.WriteString(responsePrompts[StateEscalationSummary])
	b.WriteString("\n\n")
	b.WriteString(r.record.Summary())
	b.WriteString("\n\nModerator response:\n")
	for _, line := range r.sel.Render(responsePrompts) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
