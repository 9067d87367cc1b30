// internal/webhook/normalize.go
package webhook

import (
	"strings"

	"github.com/R4F405/discord-jira-bot/internal/jira"
)

// Result statuses, echoed in the webhook HTTP response.
const (
	StatusSuccess = "success"
	StatusIgnored = "ignored"
)

// Reasons and messages for ignored payloads.
const (
	MsgNoIssueKey     = "No issue key found"
	ReasonNoChanges   = "No changes detected"
	ReasonNoMapped    = "No mapped changes"
	ReasonSubtaskGone = "subtask deletion"
)

// Result is the outcome of classifying one payload.  Events are listed in
// changelog order.  Exactly one of Message, Reason or Event explains an
// ignored payload.
type Result struct {
	Status  string
	Message string
	Reason  string
	Event   string
	Events  []Event
}

func ignored(r Result) Result {
	r.Status = StatusIgnored
	return r
}

// Normalize classifies a webhook payload.  Rules are evaluated in order and
// the first match wins: missing key, comment, issue update, creation,
// deletion, anything else.
func Normalize(p Payload) Result {
	key := p.IssueKey()
	if key == "" {
		return ignored(Result{Message: MsgNoIssueKey})
	}
	base := Event{TicketKey: key, IsSubtask: p.IsSubtask()}
	name := p.Event

	switch {
	case strings.Contains(name, "comment_created"), strings.Contains(name, "comment_updated"):
		return success(commented(base, p))
	case strings.Contains(name, "issue_updated"):
		if len(p.Items) == 0 {
			return ignored(Result{Reason: ReasonNoChanges})
		}
		evs := updated(base, p)
		if len(evs) == 0 {
			return ignored(Result{Reason: ReasonNoMapped})
		}
		return success(evs...)
	case strings.Contains(name, "issue_created"):
		return success(created(base, p))
	case strings.Contains(name, "issue_deleted"):
		if base.IsSubtask {
			return ignored(Result{Reason: ReasonSubtaskGone})
		}
		return success(deleted(base, p))
	default:
		return ignored(Result{Event: name})
	}
}

func success(evs ...Event) Result {
	return Result{Status: StatusSuccess, Events: evs}
}

func commented(ev Event, p Payload) Event {
	ev.Kind = KindCommented
	ev.Actor = jira.String(p.Comment, "author.displayName", p.Actor())
	body := jira.FlattenText(jira.Value(p.Comment, "body"), jira.CommentText)
	ev.Details = []string{
		"**Comentado por:** " + ev.Actor,
		"**Comentario:** " + body,
	}
	return ev
}

func updated(base Event, p Payload) []Event {
	actor := p.Actor()
	var out []Event
	for _, it := range p.Items {
		kind, ok := KindForField(it.Field)
		if !ok {
			continue
		}
		ev := base
		ev.Kind = kind
		ev.Actor = actor
		switch kind {
		case KindDescriptionUpdated:
			ev.Details = []string{"**Descripción actualizada por:** " + actor}
		case KindAttachmentAdded:
			ev.Details = []string{
				"**Archivo adjunto añadido por:** " + actor,
				"**Archivo:** " + it.To,
			}
		default:
			ev.Details = []string{
				"**Actualizado por:** " + actor,
				"**Cambio:** " + it.From + " → " + it.To,
			}
		}
		out = append(out, ev)
	}
	return out
}

func created(ev Event, p Payload) Event {
	rec := jira.ExtractIssue(p.Issue)
	ev.Kind = KindCreated
	ev.Actor = rec.Creator
	ev.Details = []string{
		"**Resumen:** " + rec.Summary,
		"**Estado inicial:** " + rec.Status,
		"**Creado por:** " + rec.Creator,
		"**Asignado a:** " + rec.Assignee,
	}
	return ev
}

func deleted(ev Event, p Payload) Event {
	ev.Kind = KindDeleted
	ev.Actor = p.Actor()
	if summary := jira.String(p.Issue, "fields.summary", ""); summary != "" {
		ev.Details = append(ev.Details, "**Resumen:** "+summary)
	}
	ev.Details = append(ev.Details, "**Eliminado por:** "+ev.Actor)
	return ev
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
