// internal/discord/convert.go
package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/text"
)

// ApplicationCommand describes g as one slash command whose leaves are
// sub-commands with string options.
func ApplicationCommand(g *commands.Group) *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        g.Name,
		Description: text.OrDefault(g.Description, g.Name),
	}
	for _, c := range g.Commands() {
		sub := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        c.Name,
			Description: text.Truncate(text.OrDefault(c.Description, c.Name), 100),
		}
		for _, p := range c.Params {
			sub.Options = append(sub.Options, &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        p.Name,
				Description: text.Truncate(text.OrDefault(p.Description, p.Name), 100),
				Required:    p.Required,
			})
		}
		ac.Options = append(ac.Options, sub)
	}
	return ac
}

// CommandArgs extracts the invoked sub-command and its string options.
func CommandArgs(data discordgo.ApplicationCommandInteractionData) (string, map[string]string) {
	args := map[string]string{}
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			continue
		}
		for _, o := range opt.Options {
			if o.Type == discordgo.ApplicationCommandOptionString {
				args[o.Name] = o.StringValue()
			}
		}
		return opt.Name, args
	}
	return "", args
}

// Embed converts a chat embed, enforcing Discord's size limits.
func Embed(e *chat.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}
	me := &discordgo.MessageEmbed{
		Title:       text.Truncate(e.Title, text.MaxEmbedTitleLen),
		URL:         e.URL,
		Description: text.Truncate(e.Description, text.MaxEmbedDescriptionLen),
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		me.Fields = append(me.Fields, &discordgo.MessageEmbedField{
			Name:   text.Truncate(f.Name, text.MaxEmbedTitleLen),
			Value:  text.Truncate(text.OrDefault(f.Value, "-"), text.MaxEmbedFieldValueLen),
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return me
}

func embeds(r chat.Reply) []*discordgo.MessageEmbed {
	if r.Embed == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{Embed(r.Embed)}
}

func flags(r chat.Reply) discordgo.MessageFlags {
	if r.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// InteractionData is the payload of an immediate interaction response.
func InteractionData(r chat.Reply) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: text.Truncate(r.Content, text.MaxMessageLen),
		Embeds:  embeds(r),
		Flags:   flags(r),
	}
}

// FollowupParams is the payload of a followup after a deferred response.
func FollowupParams(r chat.Reply) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content: text.Truncate(r.Content, text.MaxMessageLen),
		Embeds:  embeds(r),
		Flags:   flags(r),
	}
}

// MessageSend is the payload of a channel message replying to ref.  A nil
// ref posts a standalone message.  Mentions are never pinged.
func MessageSend(r chat.Reply, ref *discordgo.MessageReference) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         text.Truncate(r.Content, text.MaxMessageLen),
		Embeds:          embeds(r),
		Reference:       ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
}
