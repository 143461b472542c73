package moderation

// Option is a selectable choice offered at a prompting state. Options are
// immutable after construction; identity is the (state, Symbol) pair within
// a state's table.
type Option struct {
	Symbol string
	Label  string
	// Action is the side effect tied to the option, if any.
	Action Action
	// PostActionMessage is shown after the action has been dispatched.
	PostActionMessage string
	// Severe marks options that escalate the derived report priority.
	Severe bool
	// Affirm marks the "yes" option at yes/no branch states.
	Affirm bool
	// Disinfo marks the category option that keeps a report in scope.
	Disinfo bool
}

// reportOptions are the static per-state tables for the reporter flow.
// Slices keep listing order deterministic.
var reportOptions = map[ReportState][]Option{
	StateReportStarted: {
		{Symbol: "👤", Label: "Individual"},
		{Symbol: "👥", Label: "Local Community"},
		{Symbol: "🌐", Label: "Nationwide"},
	},
	StateScaleIdentified: {
		{Symbol: "❌", Label: "False Information", Disinfo: true},
		{Symbol: "😡", Label: "Harassment or Hate Speech"},
		{Symbol: "📢", Label: "Spam or Unwanted Promotion"},
	},
	StateAskIfDomainMatch: {
		{Symbol: "✅", Label: "Yes, it concerns public health", Affirm: true},
		{Symbol: "❎", Label: "No, it is about something else"},
	},
	StateDomainConfirmed: {
		{Symbol: "🔴", Label: "Medical Disinformation: Politicizing Medical Response"},
		{Symbol: "🟠", Label: "Medical Disinformation: Treatment"},
	},
	StateCategoryIdentified: {
		{Symbol: "🟥", Label: "Purposefully Confusing / Untrue Content"},
		{Symbol: "🟧", Label: "Misinterpreting or Disobeying Official Government Health Orders", Severe: true},
	},
	StateAskFeedMods: {
		{Symbol: "🧹", Label: "Remove Post From Feed"},
		{Symbol: "🙈", Label: "Mute Poster", Action: ActionMutePosterForReporter, PostActionMessage: ActionMutePosterForReporter.Message()},
		{Symbol: "🚫", Label: "Block Poster", Action: ActionBlockPosterForReporter, PostActionMessage: ActionBlockPosterForReporter.Message()},
	},
}

// responseOptions are the static per-state tables for the moderator flow.
var responseOptions = map[ResponseState][]Option{
	StateAskPostActions: {
		{Symbol: "❌", Label: "Remove post", Action: ActionRemovePost, PostActionMessage: ActionRemovePost.Message()},
		{Symbol: "⚠️", Label: "Add disclaimer for users and link reliable resources (ex: CDC, WHO)", Action: ActionAddDisclaimer, PostActionMessage: ActionAddDisclaimer.Message()},
	},
	StateAskUserActions: {
		{Symbol: "1️⃣", Label: "Notify user of transgression", Action: ActionNotifyPoster, PostActionMessage: ActionNotifyPoster.Message()},
		{Symbol: "2️⃣", Label: "Temporarily mute user", Action: ActionTempMutePoster, PostActionMessage: ActionTempMutePoster.Message()},
		{Symbol: "3️⃣", Label: "Permanently remove user", Action: ActionRemovePoster, PostActionMessage: ActionRemovePoster.Message()},
	},
	StateAskGroupActions: {
		{Symbol: "1️⃣", Label: "Notify group of transgressions", Action: ActionNotifyGroup, PostActionMessage: ActionNotifyGroup.Message()},
		{Symbol: "2️⃣", Label: "Increment group transgression counter", Action: ActionIncrementGroupCounter, PostActionMessage: ActionIncrementGroupCounter.Message()},
	},
	StateAskEscalate: {
		{Symbol: "✅", Label: "Yes, forward to advanced moderators", Action: ActionEscalate, PostActionMessage: ActionEscalate.Message(), Affirm: true},
		{Symbol: "❎", Label: "No, this response is sufficient"},
	},
	StateAskEscalationReason: {
		{Symbol: "1️⃣", Label: "Severity of the post"},
		{Symbol: "2️⃣", Label: "Repeat offender"},
		{Symbol: "3️⃣", Label: "Policy is unclear for this case"},
	},
}

// optionAt returns the option a symbol selects in a state's table.
func optionAt(opts []Option, symbol string) (Option, bool) {
	for _, o := range opts {
		if o.Symbol == symbol {
			return o, true
		}
	}
	return Option{}, false
}
