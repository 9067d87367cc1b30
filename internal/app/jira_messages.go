// internal/app/jira_messages.go
package app

import (
	"fmt"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/jira"
	"github.com/R4F405/discord-jira-bot/internal/text"
)

// User-visible messages.
const (
	TicketNetworkErrorText    = "Ocurrió un error de red al consultar el ticket de Jira."
	SearchNetworkErrorText    = "Ocurrió un error de red al consultar a Jira."
	SearchUnexpectedErrorText = "Ocurrió un error inesperado al procesar la búsqueda."
	UnknownErrorText          = "Error desconocido"
	TruncatedFooter           = "Se muestran los 30 tickets más recientes. Puede haber más resultados."
)

func notFoundMsg(key string) string {
	return fmt.Sprintf("❌ No se pudo encontrar el ticket **%s**.", key)
}

func serverErrorMsg(status int) string {
	return fmt.Sprintf("Error del servidor de Jira: %d", status)
}

func jqlErrorMsg(msg string) string {
	return "Error en la consulta JQL: " + msg
}

func searchStatusMsg(status int) string {
	return fmt.Sprintf("No se pudo realizar la búsqueda. Código de estado: %d", status)
}

func noResultsMsg(kind, user string) string {
	return fmt.Sprintf("ℹ️ No se encontraron tickets %s para '%s'.", kind, user)
}

// ticketEmbed renders the detailed card for one issue.
func ticketEmbed(rec jira.IssueRecord, url string) *chat.Embed {
	return &chat.Embed{
		Title: text.Truncate(fmt.Sprintf("Ticket: [%s] %s", rec.Key, rec.Summary), text.MaxEmbedTitleLen),
		URL:   url,
		Color: chat.ColorBlue,
		Fields: []chat.Field{
			{Name: "Estado", Value: rec.Status, Inline: true},
			{Name: "Asignado a", Value: rec.Assignee, Inline: true},
			{Name: "Creado por", Value: rec.Creator, Inline: true},
			{Name: "Fecha de Creación", Value: rec.Created, Inline: true},
			{Name: "Descripción", Value: rec.Description},
		},
	}
}

// listEmbed renders search hits as a numbered list, one linked key per
// line.  Lines that do not fit the embed are dropped whole.  A page
// holding exactly jira.MaxResults hits, or one that lost lines, gets the
// truncation footer; Jira may or may not have more.
func listEmbed(label, user string, issues []jira.IssueSummary, browse func(string) string) *chat.Embed {
	lines := make([]string, 0, len(issues))
	for i, it := range issues {
		lines = append(lines, fmt.Sprintf("%d. %s — %s *(%s)*",
			i+1, text.Bold(text.Link(it.Key, browse(it.Key))), it.Summary, it.Status))
	}
	desc, cut := text.JoinLines(lines, text.MaxEmbedDescriptionLen)
	e := &chat.Embed{
		Title:       text.Truncate(fmt.Sprintf("🔎 Tickets %s de %s", label, user), text.MaxEmbedTitleLen),
		Description: desc,
		Color:       chat.ColorGreen,
	}
	if cut || len(issues) == jira.MaxResults {
		e.Footer = TruncatedFooter
	}
	return e
}

// helpReply lists every command of g with its usage line.  help overrides
// the short command descriptions.
func helpReply(g *commands.Group, help map[string]string) chat.Reply {
	e := &chat.Embed{
		Title:       "🤖 Ayuda del Bot de Jira",
		Description: "Aquí están los comandos que puedes usar:",
		Color:       chat.ColorBlue,
	}
	for _, c := range g.Commands() {
		if c.Name == CmdInfo {
			continue
		}
		desc := help[c.Name]
		if desc == "" {
			desc = c.Description
		}
		e.Fields = append(e.Fields, chat.Field{Name: "`" + c.Usage(g.Name) + "`", Value: desc})
	}
	return chat.Reply{Embed: e, Ephemeral: true}
}
