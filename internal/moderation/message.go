package moderation

import (
	"context"
	"errors"
	"fmt"
)

// MessageRef is the transport-resolved reference to a reported message.
// It carries enough metadata for summaries so the core never has to call
// back into the chat API while rendering text.
type MessageRef struct {
	GuildID     string
	ChannelID   string
	ChannelName string
	MessageID   string
	AuthorID    string
	AuthorName  string
	Content     string
}

// Resolution failures surfaced by Transport.ResolveTarget. The report flow
// maps each one to a distinct retry prompt.
var (
	ErrUnknownGuild   = errors.New("guild not found")
	ErrUnknownChannel = errors.New("channel not found")
	ErrUnknownMessage = errors.New("message not found")
)

// Transport is the chat layer as seen by the workflow engine. The concrete
// implementation lives in the gateway package.
type Transport interface {
	// ResolveTarget looks up a message by its three-part locator.
	ResolveTarget(ctx context.Context, guildID, channelID, messageID string) (*MessageRef, error)
	// SendReply posts text to a channel.
	SendReply(ctx context.Context, channelID, text string) error
	// SendDirect delivers text to a user's DM channel.
	SendDirect(ctx context.Context, userID, text string) error
	// DeleteMessage removes the referenced message.
	DeleteMessage(ctx context.Context, ref *MessageRef) error
}

// Quote renders the referenced message the way it is echoed back to users.
func (r *MessageRef) Quote() string {
	return fmt.Sprintf("```%s: %s```", r.AuthorName, r.Content)
}
