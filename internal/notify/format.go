// internal/notify/format.go
package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/R4F405/discord-jira-bot/internal/jira"
	"github.com/R4F405/discord-jira-bot/internal/text"
	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

// Banner frames every templated notification.
const Banner = "━━━━━━━━━━━━━━━━━━━━━━━━"

// vocabulary holds the words that change between issues and sub-tasks.
// Spanish adjectives agree with the noun, so they are part of the set.
type vocabulary struct {
	Label   string // field-label position: "Ticket"
	Noun    string // inside a sentence: "ticket"
	New     string
	Created string
	Updated string
	Deleted string
}

var (
	ticketWords  = vocabulary{Label: "Ticket", Noun: "ticket", New: "Nuevo", Created: "creado", Updated: "actualizado", Deleted: "eliminado"}
	subtaskWords = vocabulary{Label: "Subtarea", Noun: "subtarea", New: "Nueva", Created: "creada", Updated: "actualizada", Deleted: "eliminada"}
)

func wordsFor(ev webhook.Event) vocabulary {
	if ev.IsSubtask {
		return subtaskWords
	}
	return ticketWords
}

// headlines renders the bold title line of each templated kind.
var headlines = map[webhook.Kind]func(v vocabulary) string{
	webhook.KindCreated: func(v vocabulary) string {
		return fmt.Sprintf("🆕 **%s %s %s en Jira** 🆕", v.New, v.Noun, v.Created)
	},
	webhook.KindUpdated: func(v vocabulary) string {
		return fmt.Sprintf("🔄 **%s %s en Jira** 🔄", v.Label, v.Updated)
	},
	webhook.KindCommented: func(v vocabulary) string {
		return fmt.Sprintf("💬 **Nuevo comentario en %s de Jira** 💬", v.Noun)
	},
	webhook.KindAssigned: func(v vocabulary) string {
		return fmt.Sprintf("👤 **Asignación actualizada en %s de Jira** 👤", v.Noun)
	},
	webhook.KindDescriptionUpdated: func(v vocabulary) string {
		return fmt.Sprintf("📝 **Descripción actualizada en %s de Jira** 📝", v.Noun)
	},
	webhook.KindSummaryUpdated: func(v vocabulary) string {
		return fmt.Sprintf("📋 **Resumen actualizado en %s de Jira** 📋", v.Noun)
	},
	webhook.KindPriorityUpdated: func(v vocabulary) string {
		return fmt.Sprintf("⚠️ **Prioridad actualizada en %s de Jira** ⚠️", v.Noun)
	},
	webhook.KindAttachmentAdded: func(v vocabulary) string {
		return fmt.Sprintf("📎 **Archivo adjunto añadido en %s de Jira** 📎", v.Noun)
	},
	webhook.KindDeleted: func(v vocabulary) string {
		return fmt.Sprintf("❌ **%s %s en Jira** ❌", v.Label, v.Deleted)
	},
}

// Formatter renders events as Discord messages.  With an empty BaseURL
// ticket keys are shown as plain text.
type Formatter struct {
	BaseURL string
}

// Format renders ev using the template of its kind.  Kinds without a
// template use the generic "Evento de Jira" layout.  The result never
// exceeds Discord's message limit; detail lines are cut first.
func (f Formatter) Format(ev webhook.Event) string {
	v := wordsFor(ev)
	keyLine := fmt.Sprintf("**%s:** %s", v.Label, text.Link(ev.TicketKey, jira.BrowseURL(f.BaseURL, ev.TicketKey)))
	details := strings.Join(ev.Details, "\n")

	headline, ok := headlines[ev.Kind]
	if !ok {
		head := fmt.Sprintf("🔔 **Evento de Jira (%s)**\n%s\n", ev.Kind, keyLine)
		return head + fit(details, text.MaxMessageLen-utf8.RuneCountInString(head))
	}

	head := Banner + "\n" + headline(v) + "\n" + keyLine + "\n"
	tail := "\n" + Banner
	budget := text.MaxMessageLen - utf8.RuneCountInString(head) - utf8.RuneCountInString(tail)
	return head + fit(details, budget) + tail
}

func fit(s string, budget int) string {
	if budget < 0 {
		budget = 0
	}
	return text.Truncate(s, budget)
}
