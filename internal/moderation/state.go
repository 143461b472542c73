package moderation

// ReportState enumerates the reporter flow. The backbone is linear; the
// three branch points are resolved by the pure functions below instead of
// the single-next table.
type ReportState int

const (
	StateReportStart ReportState = iota
	StateAwaitingTarget
	StateTargetIdentified
	StateReportStarted
	StateScaleIdentified
	StateAskIfDomainMatch
	StateDomainConfirmed
	StateCategoryIdentified
	StateSeverityModerate
	StateSeverityHigh
	StateOutOfScope
	StateAskFeedMods
	StateThankReporter
	StateReportFinished
	StateReportCancelled
)

// reportPrompts holds the message prefix shown on entering a state.
var reportPrompts = map[ReportState]string{
	StateReportStarted:      "First, we'd like to know who your post affects.",
	StateScaleIdentified:    "What category of abuse would this fall under?",
	StateAskIfDomainMatch:   "Does the false information concern public health or COVID-19?",
	StateDomainConfirmed:    "What category of disinformation would this fall under?",
	StateCategoryIdentified: "What is the severity?",
	StateSeverityModerate:   "Thank you! We'll review your report and look into removing the person's post, as well as temporarily muting their account.",
	StateSeverityHigh:       "Thank you! We'll review your report and look into banning this person's account.",
	StateOutOfScope:         "This category is handled by a different reporting flow, so this report has been closed. Thank you for helping keep the community safe.",
	StateAskFeedMods:        "How would you like to update your feed going forward?",
	StateThankReporter:      "Thank you for your report! We appreciate your help in keeping our platform safe for our community.",
}

// reportSingleNext covers every non-branching transition of the reporter flow.
var reportSingleNext = map[ReportState]ReportState{
	StateTargetIdentified: StateReportStarted,
	StateReportStarted:    StateScaleIdentified,
	StateDomainConfirmed:  StateCategoryIdentified,
	StateSeverityModerate: StateAskFeedMods,
	StateSeverityHigh:     StateAskFeedMods,
	StateAskFeedMods:      StateThankReporter,
}

// nextAfterScale keeps the report open only when the reporter picked the
// false-information category; everything else is out of scope.
func nextAfterScale(sel *Selections[ReportState]) ReportState {
	if sel.Any(StateScaleIdentified, func(o Option) bool { return o.Disinfo }) {
		return StateAskIfDomainMatch
	}
	return StateOutOfScope
}

// nextAfterDomainMatch closes the report unless the reporter confirmed the
// disinformation concerns the moderated domain.
func nextAfterDomainMatch(sel *Selections[ReportState]) ReportState {
	if sel.Any(StateAskIfDomainMatch, func(o Option) bool { return o.Affirm }) {
		return StateDomainConfirmed
	}
	return StateOutOfScope
}

// nextAfterCategory derives the severity tier from the selected categories.
func nextAfterCategory(sel *Selections[ReportState]) ReportState {
	if sel.Any(StateCategoryIdentified, func(o Option) bool { return o.Severe }) {
		return StateSeverityHigh
	}
	return StateSeverityModerate
}

// nextReportState resolves the successor of a state given the selections
// accumulated so far.
func nextReportState(cur ReportState, sel *Selections[ReportState]) ReportState {
	switch cur {
	case StateScaleIdentified:
		return nextAfterScale(sel)
	case StateAskIfDomainMatch:
		return nextAfterDomainMatch(sel)
	case StateCategoryIdentified:
		return nextAfterCategory(sel)
	}
	if next, ok := reportSingleNext[cur]; ok {
		return next
	}
	return cur
}

// ResponseState enumerates the moderator flow.
type ResponseState int

const (
	StateResponseStart ResponseState = iota
	StateAwaitingReportID
	StateReportIdentified
	StateAskPostActions
	StateAskUserActions
	StateAskGroupActions
	StateAskEscalate
	StateAskEscalationReason
	StateEscalationSummary
	StateThankModerator
	StateResponseFinished
	StateResponseCancelled
)

var responsePrompts = map[ResponseState]string{
	StateAskPostActions:      "What actions should be taken on the post?",
	StateAskUserActions:      "What actions should be taken on the user who created the post?",
	StateAskGroupActions:     "What actions should be taken on the group in which the post was made?",
	StateAskEscalate:         "Should this report be forwarded to advanced moderators?",
	StateAskEscalationReason: "Why should this report be forwarded to advanced moderators?",
	StateEscalationSummary:   "[ADVANCED MODERATOR REPORT NOTIFICATION]",
	StateThankModerator:      "Thank you for responding to the report! Begin a new response at any time by typing `start`.",
}

var responseSingleNext = map[ResponseState]ResponseState{
	StateReportIdentified:    StateAskPostActions,
	StateAskPostActions:      StateAskUserActions,
	StateAskUserActions:      StateAskGroupActions,
	StateAskGroupActions:     StateAskEscalate,
	StateAskEscalationReason: StateEscalationSummary,
}

// nextAfterEscalate branches on whether the moderator opted to escalate.
func nextAfterEscalate(sel *Selections[ResponseState]) ResponseState {
	if sel.Any(StateAskEscalate, func(o Option) bool { return o.Affirm }) {
		return StateAskEscalationReason
	}
	return StateThankModerator
}

func nextResponseState(cur ResponseState, sel *Selections[ResponseState]) ResponseState {
	if cur == StateAskEscalate {
		return nextAfterEscalate(sel)
	}
	if next, ok := responseSingleNext[cur]; ok {
		return next
	}
	return cur
}
