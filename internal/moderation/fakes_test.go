package moderation

import (
	"context"
	"errors"
	"fmt"
)

// fakeTransport is an in-memory Transport for session tests.
type fakeTransport struct {
	ref        *MessageRef
	resolveErr error
	replies    []string
	directs    []string
	deleted    []string
}

func testRef() *MessageRef {
	return &MessageRef{
		GuildID:     "100",
		ChannelID:   "200",
		ChannelName: "general",
		MessageID:   "300",
		AuthorID:    "poster",
		AuthorName:  "Poster",
		Content:     "the moon landing was staged",
	}
}

func (f *fakeTransport) ResolveTarget(ctx context.Context, guildID, channelID, messageID string) (*MessageRef, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.ref, nil
}

func (f *fakeTransport) SendReply(ctx context.Context, channelID, text string) error {
	f.replies = append(f.replies, fmt.Sprintf("%s|%s", channelID, text))
	return nil
}

func (f *fakeTransport) SendDirect(ctx context.Context, userID, text string) error {
	f.directs = append(f.directs, fmt.Sprintf("%s|%s", userID, text))
	return nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, ref *MessageRef) error {
	f.deleted = append(f.deleted, ref.MessageID)
	return nil
}

// fakeDispatcher records every dispatched action and can be told to fail on
// a specific one.
type fakeDispatcher struct {
	calls  []Action
	failOn Action
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, act Action, ref *MessageRef) error {
	d.calls = append(d.calls, act)
	if d.failOn != ActionNone && act == d.failOn {
		return errors.New("dispatch failed")
	}
	return nil
}
