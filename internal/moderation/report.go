package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Keywords the session layer recognizes in actor-typed free text.
const (
	StartKeyword    = "report"
	RespondKeyword  = "start"
	CancelKeyword   = "cancel"
	ContinueKeyword = "continue"
	HelpKeyword     = "help"
)

const (
	symbolPreamble   = " React to this message with the emoji corresponding to the correct category / categories.\n"
	continueReminder = "Once you're done selecting, please type `continue`. Type `cancel` to cancel at any point."
)

var targetLocatorRe = regexp.MustCompile(`/(\d+)/(\d+)/(\d+)`)

// Report is the reporter-facing session: a per-actor state machine that
// resolves the reported message, walks the guided category and severity
// prompts, and renders the summary filed to the moderator channel.
type Report struct {
	state     ReportState
	transport Transport
	ref       *MessageRef
	sel       *Selections[ReportState]
	severe    bool
}

// NewReport starts a reporter session in its initial state.
func NewReport(transport Transport) *Report {
	return &Report{
		state:     StateReportStart,
		transport: transport,
		sel:       NewSelections[ReportState](),
	}
}

// State returns the session's current state.
func (r *Report) State() ReportState { return r.state }

// Ref returns the bound message reference, nil until the target resolves.
func (r *Report) Ref() *MessageRef { return r.ref }

// Cancelled reports whether the session reached the cancelled terminal.
func (r *Report) Cancelled() bool { return r.state == StateReportCancelled }

// Finished reports whether the session completed the full flow.
func (r *Report) Finished() bool { return r.state == StateReportFinished }

// HighPriority reports the severity flag derived from the category branch.
func (r *Report) HighPriority() bool { return r.severe }

// Cancel aborts the session from any state.
func (r *Report) Cancel() []string {
	r.state = StateReportCancelled
	return []string{"Report cancelled."}
}

// HandleMessage advances the session on actor-typed free text and returns
// the reply lines to send back. Text that is neither an awaited datum nor a
// recognized keyword is ignored.
func (r *Report) HandleMessage(ctx context.Context, content string) ([]string, error) {
	if content == CancelKeyword {
		return r.Cancel(), nil
	}

	switch r.state {
	case StateReportStart:
		r.state = StateAwaitingTarget
		return []string{
			"Thank you for starting the reporting process. " +
				"Say `help` at any time for more information.\n\n" +
				"Please copy paste the link to the message you want to report.\n" +
				"You can obtain this link by right-clicking the message and clicking `Copy Message Link`.",
		}, nil

	case StateAwaitingTarget:
		return r.resolveTarget(ctx, content)
	}

	if content == ContinueKeyword {
		return r.advance(), nil
	}
	return nil, nil
}

// resolveTarget parses the three-part locator and binds the referenced
// message. Parse and lookup failures leave the state unchanged and reprompt.
func (r *Report) resolveTarget(ctx context.Context, content string) ([]string, error) {
	m := targetLocatorRe.FindStringSubmatch(content)
	if m == nil {
		return []string{"I'm sorry, I couldn't read that link. Please try again or say `cancel` to cancel."}, nil
	}
	ref, err := r.transport.ResolveTarget(ctx, m[1], m[2], m[3])
	switch {
	case errors.Is(err, ErrUnknownGuild):
		return []string{"I cannot accept reports of messages from guilds that I'm not in. Please have the guild owner add me to the guild and try again."}, nil
	case errors.Is(err, ErrUnknownChannel):
		return []string{"It seems this channel was deleted or never existed. Please try again or say `cancel` to cancel."}, nil
	case errors.Is(err, ErrUnknownMessage):
		return []string{"It seems this message was deleted or never existed. Please try again or say `cancel` to cancel."}, nil
	case err != nil:
		return nil, fmt.Errorf("resolve report target: %w", err)
	}

	r.ref = ref
	r.state = StateTargetIdentified
	return []string{
		"I found this message:",
		ref.Quote(),
		"Thank you for creating a report! We'll be asking you a few questions to gather extra details about the report.\n" +
			"Type `continue` to continue, and say `cancel` to cancel at any point.",
	}, nil
}

// HandleChoice records the option a symbol selects in the current state.
// Symbols the state does not offer are silently ignored; selection is
// fire-and-forget relative to the eventual continuation step.
func (r *Report) HandleChoice(symbol string) {
	opt, ok := optionAt(reportOptions[r.state], symbol)
	if !ok {
		return
	}
	r.sel.Select(r.state, opt)
}

// advance runs one continuation turn: resolve the next state (including the
// three branch points), emit any pass-through summary line, and render the
// new state's prompt, option listing, and reminder.
func (r *Report) advance() []string {
	var lines []string

	r.state = nextReportState(r.state, r.sel)

	// Severity states only contribute their acknowledgement line before the
	// flow moves on in the same turn.
	if r.state == StateSeverityModerate || r.state == StateSeverityHigh {
		r.severe = r.state == StateSeverityHigh
		lines = append(lines, reportPrompts[r.state])
		r.state = reportSingleNext[r.state]
	}

	// Out-of-scope categories close the report immediately.
	if r.state == StateOutOfScope {
		lines = append(lines, reportPrompts[StateOutOfScope])
		r.state = StateReportCancelled
		return lines
	}

	var reply strings.Builder
	reply.WriteString(reportPrompts[r.state])

	if opts := reportOptions[r.state]; len(opts) > 0 {
		r.sel.Visit(r.state)
		reply.WriteString(symbolPreamble)
		for _, o := range opts {
			fmt.Fprintf(&reply, "%s: %s\n", o.Symbol, o.Label)
		}
	}

	if r.state != StateThankReporter {
		reply.WriteString(continueReminder)
	} else {
		r.state = StateReportFinished
	}

	return append(lines, reply.String())
}

// summarize renders the filed report for the moderator channel: priority
// tag, message metadata, then one line per visited prompting state.
func (r *Report) summarize(id int64, meta string) string {
	var b strings.Builder
	b.WriteString("New user report received!\n")
	fmt.Fprintf(&b, "Report ID: %d\n", id)
	fmt.Fprintf(&b, "Priority: %s\n", priorityTag(r.severe))
	b.WriteString(meta)
	b.WriteString("\n")
	for _, line := range r.sel.Render(reportPrompts) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func priorityTag(high bool) string {
	if high {
		return "HIGH"
	}
	return "MODERATE"
}
