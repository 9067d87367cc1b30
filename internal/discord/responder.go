// internal/discord/responder.go
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/state"
)

// API is the part of *discordgo.Session used by the bot.
type API interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// interactionResponder answers a slash-command interaction.  Defer shows
// Discord's "thinking" state; the result is sent as a followup.
type interactionResponder struct {
	api API
	i   *discordgo.Interaction
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	return r.api.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

func (r *interactionResponder) Followup(ctx context.Context, reply chat.Reply) error {
	_, err := r.api.FollowupMessageCreate(r.i, true, FollowupParams(reply), discordgo.WithContext(ctx))
	return err
}

func (r *interactionResponder) Respond(ctx context.Context, reply chat.Reply) error {
	return r.api.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: InteractionData(reply),
	}, discordgo.WithContext(ctx))
}

// messageResponder answers a prefix command typed as a plain message.
// The acknowledgment is a typing indicator; the result is a reply to the
// user's message, remembered so it can be removed with it.
type messageResponder struct {
	api     API
	m       *discordgo.Message
	tracker *state.MessageTracker
}

func (r *messageResponder) Defer(ctx context.Context) error {
	return r.api.ChannelTyping(r.m.ChannelID, discordgo.WithContext(ctx))
}

func (r *messageResponder) Followup(ctx context.Context, reply chat.Reply) error {
	return r.Respond(ctx, reply)
}

func (r *messageResponder) Respond(ctx context.Context, reply chat.Reply) error {
	sent, err := r.api.ChannelMessageSendComplex(r.m.ChannelID, MessageSend(reply, r.m.Reference()), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("reply to message %s: %w", r.m.ID, err)
	}
	if r.tracker != nil && sent != nil {
		r.tracker.Track(r.m.ChannelID, r.m.ID, sent.ID)
	}
	return nil
}
