package moderation

import "context"

// Action identifies a moderation side effect. The full tag set is shared by
// the automated flow and the moderator flow; both dispatch through the same
// Dispatcher so an action means the same thing no matter who triggered it.
type Action int

const (
	ActionNone Action = iota
	ActionRemovePost
	ActionAddDisclaimer
	ActionNotifyPoster
	ActionTempMutePoster
	ActionRemovePoster
	ActionNotifyGroup
	ActionIncrementGroupCounter
	ActionEscalate
	ActionBlockPosterForReporter
	ActionMutePosterForReporter
)

// String returns a stable identifier used in logs and the audit trail.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRemovePost:
		return "remove_post"
	case ActionAddDisclaimer:
		return "add_disclaimer"
	case ActionNotifyPoster:
		return "notify_poster"
	case ActionTempMutePoster:
		return "temp_mute_poster"
	case ActionRemovePoster:
		return "remove_poster"
	case ActionNotifyGroup:
		return "notify_group"
	case ActionIncrementGroupCounter:
		return "increment_group_counter"
	case ActionEscalate:
		return "escalate"
	case ActionBlockPosterForReporter:
		return "block_poster_for_reporter"
	case ActionMutePosterForReporter:
		return "mute_poster_for_reporter"
	}
	return "unknown"
}

// actionMessages maps each action to the confirmation line shown after the
// action has been carried out.
var actionMessages = map[Action]string{
	ActionRemovePost:             "The post has been removed.",
	ActionAddDisclaimer:          "A disclaimer has been added to the post alongside links to reliable sources.",
	ActionNotifyPoster:           "The user who created the post has been notified of the transgression.",
	ActionTempMutePoster:         "The user who created the post has been temporarily muted.",
	ActionRemovePoster:           "The user who created the post has been permanently removed.",
	ActionNotifyGroup:            "The group in which the post was made has been notified of the high volume of disinformation transgressions.",
	ActionIncrementGroupCounter:  "The group transgression count has been updated.",
	ActionEscalate:               "This report has been flagged to advanced moderators.",
	ActionBlockPosterForReporter: "The reported poster has been blocked from your account.",
	ActionMutePosterForReporter:  "The reported poster has been muted and you will no longer see their messages on your feed.",
}

// Message returns the human-readable confirmation line for an action.
func (a Action) Message() string {
	return actionMessages[a]
}

// Dispatcher turns an action tag into its observable side effect. The only
// implementation with the authority to mutate chat state lives in the
// transport layer; sessions and automated reports treat it as injected
// behavior and never reimplement the mapping.
type Dispatcher interface {
	Dispatch(ctx context.Context, action Action, ref *MessageRef) error
}
