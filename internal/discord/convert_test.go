package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/commands"
)

func testGroup(run commands.Handler) *commands.Group {
	g := commands.NewGroup("jira", "Comandos para interactuar con Jira")
	g.MustRegister(
		commands.Command{Name: "info", Description: "Ayuda", Run: run},
		commands.Command{
			Name:        "ver",
			Description: "Ver un ticket",
			Params:      []commands.Param{{Name: "ticket_id", Description: "El ID", Required: true}},
			Deferred:    true,
			Run:         run,
		},
	)
	return g
}

func noop(context.Context, map[string]string) chat.Reply { return chat.Reply{} }

var _ = Describe("conversions", func() {
	It("publishes the group as sub-commands with string options", func() {
		ac := ApplicationCommand(testGroup(noop))

		Expect(ac.Name).To(Equal("jira"))
		Expect(ac.Options).To(HaveLen(2))
		Expect(ac.Options[0].Type).To(Equal(discordgo.ApplicationCommandOptionSubCommand))
		Expect(ac.Options[0].Options).To(BeEmpty())
		ver := ac.Options[1]
		Expect(ver.Name).To(Equal("ver"))
		Expect(ver.Options).To(HaveLen(1))
		Expect(ver.Options[0].Type).To(Equal(discordgo.ApplicationCommandOptionString))
		Expect(ver.Options[0].Name).To(Equal("ticket_id"))
		Expect(ver.Options[0].Required).To(BeTrue())
	})

	It("reads the sub-command and its options", func() {
		data := discordgo.ApplicationCommandInteractionData{
			Name: "jira",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: "ver",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name:  "ticket_id",
					Type:  discordgo.ApplicationCommandOptionString,
					Value: "abc-1",
				}},
			}},
		}

		name, args := CommandArgs(data)

		Expect(name).To(Equal("ver"))
		Expect(args).To(Equal(map[string]string{"ticket_id": "abc-1"}))
	})

	It("converts embeds within Discord's limits", func() {
		me := Embed(&chat.Embed{
			Title:  strings.Repeat("t", 300),
			Fields: []chat.Field{{Name: "Descripción", Value: ""}},
			Footer: "pie",
			Color:  chat.ColorGreen,
		})

		Expect([]rune(me.Title)).To(HaveLen(256))
		Expect(me.Fields[0].Value).To(Equal("-"))
		Expect(me.Footer.Text).To(Equal("pie"))
		Expect(me.Color).To(Equal(chat.ColorGreen))
	})

	It("marks ephemeral replies", func() {
		Expect(InteractionData(chat.Reply{Content: "x", Ephemeral: true}).Flags).To(Equal(discordgo.MessageFlagsEphemeral))
		Expect(FollowupParams(chat.Text("x")).Flags).To(BeZero())
	})
})
