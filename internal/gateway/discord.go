// Package gateway adapts Discord to the workflow engine: it listens for
// messages and reactions, routes them to the owning session by actor, and
// implements both the transport surface and the action dispatcher over the
// Discord API.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modwatch/internal/logging"
	"modwatch/internal/moderation"
	"modwatch/internal/status"
)

const statusKeyword = "status"

// Config holds Discord connection and routing settings.
type Config struct {
	Token string
	// ModChannelName is the name of the moderator channel in each guild.
	ModChannelName string
	// WatchChannelName limits classifier scanning to one channel per guild.
	// Empty means every non-moderator channel is scanned.
	WatchChannelName string
	// MuteDuration is how long a temporary mute lasts.
	MuteDuration time.Duration
}

// Gateway is the Discord transport adapter.
type Gateway struct {
	session *discordgo.Session
	engine  *moderation.Engine
	cfg     Config

	botID        string
	modChannelID string
	timers       muteTimers
}

// New creates a gateway bound to an engine. The engine's transport and
// dispatcher must be this gateway (see cmd/modwatch for the wiring order).
func New(cfg Config) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	g := &Gateway{session: session, cfg: cfg}

	session.AddHandler(g.handleReady)
	session.AddHandler(g.handleMessage)
	session.AddHandler(g.handleReactionAdd)

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	return g, nil
}

// SetEngine binds the workflow engine events are routed into.
func (g *Gateway) SetEngine(engine *moderation.Engine) {
	g.engine = engine
}

// Start connects to Discord and begins listening.
func (g *Gateway) Start() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	g.botID = g.session.State.User.ID
	logging.Info("gateway", "Connected as %s", g.session.State.User.Username)
	return nil
}

// Stop disconnects from Discord and drains pending unmute timers.
func (g *Gateway) Stop() error {
	g.stopMuteTimers()
	return g.session.Close()
}

// handleReady resolves the moderator channel by name once the guild list is
// available.
func (g *Gateway) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, guild := range r.Guilds {
		channels, err := s.GuildChannels(guild.ID)
		if err != nil {
			logging.Info("gateway", "list channels for guild %s: %v", guild.ID, err)
			continue
		}
		for _, ch := range channels {
			if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == g.cfg.ModChannelName {
				g.modChannelID = ch.ID
				g.engine.SetModChannel(ch.ID)
				logging.Info("gateway", "moderator channel is #%s (%s)", ch.Name, ch.ID)
				return
			}
		}
	}
	logging.Info("gateway", "no #%s channel found; report summaries will be dropped", g.cfg.ModChannelName)
}

// handleMessage routes an inbound message to the matching flow: DMs feed
// the reporter flow, the moderator channel feeds the response flow, and
// watched guild channels are scanned for classifier signals.
func (g *Gateway) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == g.botID {
		return
	}
	ctx := context.Background()

	if m.GuildID == "" {
		replies, err := g.engine.HandleDirectMessage(ctx, m.Author.ID, m.Content)
		if err != nil {
			logging.Info("gateway", "report turn for %s: %v", m.Author.ID, err)
		}
		g.sendAll(m.ChannelID, replies)
		return
	}

	if m.ChannelID == g.modChannelID {
		g.handleModChannelMessage(ctx, m)
		return
	}

	ref, err := g.refFromMessage(m.Message)
	if err != nil {
		logging.Info("gateway", "build ref: %v", err)
		return
	}
	if g.cfg.WatchChannelName != "" && ref.ChannelName != g.cfg.WatchChannelName {
		return
	}
	if err := g.engine.ScanChannelMessage(ctx, ref); err != nil {
		logging.Info("gateway", "scan %s: %v", logging.Truncate(m.Content, 50), err)
	}
}

func (g *Gateway) handleModChannelMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Content == statusKeyword {
		report, err := status.Report(g.engine.Registry())
		if err != nil {
			logging.Info("gateway", "status: %v", err)
			return
		}
		g.sendAll(m.ChannelID, []string{report})
		return
	}

	replies, err := g.engine.HandleModMessage(ctx, m.Author.ID, m.Content)
	if err != nil {
		logging.Info("gateway", "response turn for %s: %v", m.Author.ID, err)
	}
	g.sendAll(m.ChannelID, replies)
}

// handleReactionAdd routes a reaction to the session owned by the reacting
// actor. Reactions outside a bound session are dropped without reply.
func (g *Gateway) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == g.botID {
		return
	}
	ctx := context.Background()

	if r.GuildID == "" {
		g.engine.HandleDirectReaction(ctx, r.UserID, r.Emoji.Name)
		return
	}
	if r.ChannelID == g.modChannelID {
		g.engine.HandleModReaction(ctx, r.UserID, r.Emoji.Name)
	}
}

// ResolveTarget implements moderation.Transport.
func (g *Gateway) ResolveTarget(ctx context.Context, guildID, channelID, messageID string) (*moderation.MessageRef, error) {
	if _, err := g.session.State.Guild(guildID); err != nil {
		return nil, moderation.ErrUnknownGuild
	}
	channel, err := g.session.Channel(channelID)
	if err != nil || channel.GuildID != guildID {
		return nil, moderation.ErrUnknownChannel
	}
	msg, err := g.session.ChannelMessage(channelID, messageID)
	if err != nil {
		return nil, moderation.ErrUnknownMessage
	}
	return &moderation.MessageRef{
		GuildID:     guildID,
		ChannelID:   channelID,
		ChannelName: channel.Name,
		MessageID:   messageID,
		AuthorID:    msg.Author.ID,
		AuthorName:  msg.Author.Username,
		Content:     msg.Content,
	}, nil
}

// SendReply implements moderation.Transport.
func (g *Gateway) SendReply(ctx context.Context, channelID, text string) error {
	_, err := g.session.ChannelMessageSend(channelID, text)
	return err
}

// SendDirect implements moderation.Transport.
func (g *Gateway) SendDirect(ctx context.Context, userID, text string) error {
	dm, err := g.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM with %s: %w", userID, err)
	}
	_, err = g.session.ChannelMessageSend(dm.ID, text)
	return err
}

// DeleteMessage implements moderation.Transport.
func (g *Gateway) DeleteMessage(ctx context.Context, ref *moderation.MessageRef) error {
	return g.session.ChannelMessageDelete(ref.ChannelID, ref.MessageID)
}

// refFromMessage builds a MessageRef from an already-delivered message.
func (g *Gateway) refFromMessage(m *discordgo.Message) (*moderation.MessageRef, error) {
	channel, err := g.session.Channel(m.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("lookup channel %s: %w", m.ChannelID, err)
	}
	return &moderation.MessageRef{
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		ChannelName: channel.Name,
		MessageID:   m.ID,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		Content:     m.Content,
	}, nil
}

func (g *Gateway) sendAll(channelID string, replies []string) {
	for _, r := range replies {
		if _, err := g.session.ChannelMessageSend(channelID, r); err != nil {
			logging.Info("gateway", "send reply: %v", err)
		}
	}
}
