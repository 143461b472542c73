package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"modwatch/internal/logging"
	"modwatch/internal/moderation"
)

const (
	disclaimerNotice = "WARNING! This message may contain disinformation."
	posterNotice     = "Dear user, we regret to inform you that your message has been flagged for disinformation. " +
		"We will investigate your post and take actions accordingly."
	removalNotice  = "We regret to inform you that you've been removed from our social network!"
	defaultMuteFor = 5 * time.Second
	resourceLink   = "https://www.cdc.gov/"
)

// muteTimers tracks scheduled unmute notices so Stop can drain them.
type muteTimers struct {
	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

func (m *muteTimers) add(t *time.Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timers == nil {
		m.timers = make(map[*time.Timer]struct{})
	}
	m.timers[t] = struct{}{}
}

func (m *muteTimers) remove(t *time.Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, t)
}

func (m *muteTimers) stopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for t := range m.timers {
		t.Stop()
	}
	m.timers = nil
}

// Dispatch implements moderation.Dispatcher: the single tag-to-effect
// mapping shared by the automated and human-driven flows.
func (g *Gateway) Dispatch(ctx context.Context, action moderation.Action, ref *moderation.MessageRef) error {
	logging.Debug("gateway", "dispatch %s for message %s", action, ref.MessageID)

	switch action {
	case moderation.ActionRemovePost:
		return g.DeleteMessage(ctx, ref)

	case moderation.ActionAddDisclaimer:
		for _, line := range []string{
			disclaimerNotice,
			"Message sent by: " + ref.Quote(),
			"Please visit " + resourceLink + " for reliable information.",
		} {
			if err := g.SendReply(ctx, ref.ChannelID, line); err != nil {
				return err
			}
		}
		return nil

	case moderation.ActionNotifyPoster:
		text := fmt.Sprintf("%s\nThe following post:\n%s\nWas reported in the following channel: %s",
			posterNotice, ref.Content, ref.ChannelName)
		return g.SendDirect(ctx, ref.AuthorID, text)

	case moderation.ActionTempMutePoster:
		return g.tempMute(ctx, ref)

	case moderation.ActionRemovePoster:
		notice := fmt.Sprintf("User <@%s> has been removed from this channel!", ref.AuthorID)
		if err := g.SendReply(ctx, ref.ChannelID, notice); err != nil {
			return err
		}
		return g.SendDirect(ctx, ref.AuthorID, removalNotice)

	case moderation.ActionNotifyGroup:
		return g.SendReply(ctx, ref.ChannelID,
			"Dear users of this group, we regret to inform you that this group has been found to have a high volume of disinformation content. Please be advised!")

	case moderation.ActionIncrementGroupCounter:
		g.engine.Registry().IncrementChannelFlags(ref.ChannelID)
		return nil

	case moderation.ActionEscalate:
		if g.modChannelID == "" {
			return nil
		}
		return g.SendReply(ctx, g.modChannelID,
			fmt.Sprintf("A response concerning a message in #%s has been forwarded to advanced moderators.", ref.ChannelName))

	case moderation.ActionBlockPosterForReporter, moderation.ActionMutePosterForReporter:
		// Reporter-feed preferences have no chat-level effect to apply; they
		// only shape the report summary.
		return nil
	}
	return fmt.Errorf("unknown action: %s", action)
}

// tempMute announces the mute, then schedules the unmute notice on a timer
// so the event loop stays responsive for the duration.
func (g *Gateway) tempMute(ctx context.Context, ref *moderation.MessageRef) error {
	if err := g.SendReply(ctx, ref.ChannelID, fmt.Sprintf("<@%s> has been muted!", ref.AuthorID)); err != nil {
		return err
	}
	var timer *time.Timer
	timer = time.AfterFunc(g.muteFor(), func() {
		g.timers.remove(timer)
		if err := g.SendReply(context.Background(), ref.ChannelID, fmt.Sprintf("<@%s> has been unmuted!", ref.AuthorID)); err != nil {
			logging.Info("gateway", "unmute notice: %v", err)
		}
	})
	g.timers.add(timer)
	return nil
}

func (g *Gateway) muteFor() time.Duration {
	if g.cfg.MuteDuration > 0 {
		return g.cfg.MuteDuration
	}
	return defaultMuteFor
}

func (g *Gateway) stopMuteTimers() {
	g.timers.stopAll()
}
