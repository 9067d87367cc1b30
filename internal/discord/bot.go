// internal/discord/bot.go
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/config"
	"github.com/R4F405/discord-jira-bot/internal/logger"
	"github.com/R4F405/discord-jira-bot/internal/state"
	"github.com/R4F405/discord-jira-bot/internal/text"
)

// ErrChannelNotFound is returned by Send when the destination channel
// cannot be resolved.
var ErrChannelNotFound = errors.New("discord channel not found")

// Bot connects the command group to a Discord gateway session and sends
// notifications to channels.
type Bot struct {
	session *discordgo.Session
	api     API
	group   *commands.Group
	router  *commands.PrefixRouter
	tracker *state.MessageTracker
	guildID string

	ctx   context.Context
	botID string
}

// Option customises a Bot.
type Option func(*Bot)

// WithPrefixCommands enables plain-message commands routed by r.
func WithPrefixCommands(r *commands.PrefixRouter) Option {
	return func(b *Bot) { b.router = r }
}

// New creates a bot for cfg.  No connection is made until Open.
func New(cfg config.DiscordConfig, g *commands.Group, opts ...Option) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	b := newBot(s, g, cfg.GuildID, opts...)
	b.session = s
	s.Identify.Intents = b.intents()
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteraction)
	s.AddHandler(b.onMessageCreate)
	s.AddHandler(b.onMessageDelete)
	return b, nil
}

// NewSender returns a Bot that only posts channel messages over REST.  It
// never connects to the gateway and cannot be opened.
func NewSender(cfg config.DiscordConfig) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	b := newBot(s, nil, cfg.GuildID)
	b.session = s
	return b, nil
}

func newBot(api API, g *commands.Group, guildID string, opts ...Option) *Bot {
	b := &Bot{
		api:     api,
		group:   g,
		tracker: state.NewMessageTracker(state.DefaultTrackerSize),
		guildID: guildID,
		ctx:     context.Background(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// intents requests message content only for prefix commands.  It is a
// privileged intent; Discord closes the gateway with 4014 when the
// application was not granted it.
func (b *Bot) intents() discordgo.Intent {
	if b.router == nil {
		return discordgo.IntentGuilds
	}
	return discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent
}

// Open connects to the gateway and registers the application commands,
// scoped to the configured guild when there is one.  ctx becomes the
// parent of every handler context.
func (b *Bot) Open(ctx context.Context) error {
	if b.group == nil {
		return errors.New("discord sender has no commands to serve")
	}
	b.ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bot.discord"})
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	appID := b.session.State.User.ID
	b.botID = appID
	created, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID,
		[]*discordgo.ApplicationCommand{ApplicationCommand(b.group)}, discordgo.WithContext(ctx))
	if err != nil {
		_ = b.session.Close()
		return fmt.Errorf("register application commands: %w", err)
	}
	slog.InfoContext(b.ctx, "application commands registered",
		"count", len(created), "guild_id", b.guildID, "prefix_commands", b.router != nil)
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

// Send posts content to channelID.  The channel is resolved first so that
// a misconfigured id fails with ErrChannelNotFound.
func (b *Bot) Send(ctx context.Context, channelID, content string) error {
	if _, err := b.channel(ctx, channelID); err != nil {
		return err
	}
	_, err := b.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         text.Truncate(content, text.MaxMessageLen),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	return nil
}

func (b *Bot) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if b.session != nil && b.session.State != nil {
		if ch, err := b.session.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	ch, err := b.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChannelNotFound, channelID, err)
	}
	return ch, nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.InfoContext(b.ctx, "discord gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.handleInteraction(b.ctx, ic.Interaction)
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, mc *discordgo.MessageCreate) {
	b.handleMessage(b.ctx, mc.Message)
}

func (b *Bot) onMessageDelete(_ *discordgo.Session, md *discordgo.MessageDelete) {
	b.handleDelete(b.ctx, md.Message)
}

func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != b.group.Name {
		return
	}
	name, args := CommandArgs(data)
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(interactionUser(i))})

	if err := b.group.Dispatch(ctx, name, args, &interactionResponder{api: b.api, i: i}); err != nil {
		slog.ErrorContext(ctx, "slash command failed", "command", name, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *discordgo.Message) {
	if b.router == nil || m.Author == nil || m.Author.Bot || m.Author.ID == b.botID {
		return
	}
	inv, ok := b.router.Match(m.Content)
	if !ok {
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(m.Author.ID)})

	r := &messageResponder{api: b.api, m: m, tracker: b.tracker}
	if err := b.group.Dispatch(ctx, inv.Command, inv.Args, r); err != nil {
		slog.ErrorContext(ctx, "prefix command failed", "command", inv.Command, "error", err)
	}
}

// handleDelete removes the bot's reply to a deleted command message.
func (b *Bot) handleDelete(ctx context.Context, m *discordgo.Message) {
	if m == nil {
		return
	}
	replyID, ok := b.tracker.Take(m.ChannelID, m.ID)
	if !ok {
		return
	}
	if err := b.api.ChannelMessageDelete(m.ChannelID, replyID, discordgo.WithContext(ctx)); err != nil {
		slog.WarnContext(ctx, "could not delete reply", "channel_id", m.ChannelID, "reply_id", replyID, "error", err)
	}
}

func interactionUser(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
