// internal/app/service.go
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/jira"
	"github.com/R4F405/discord-jira-bot/internal/logger"
)

// Command and parameter names published under /jira.
const (
	GroupName = "jira"

	CmdInfo        = "info"
	CmdVer         = "ver"
	CmdPendientes  = "pendientes"
	CmdEnCurso     = "encurso"
	CmdBloqueados  = "bloqueados"
	CmdFinalizados = "finalizados"

	ParamTicketID = "ticket_id"
	ParamUsuario  = "usuario"
)

// LegacyAliases maps the words accepted by the first prefix-command
// version of the bot onto the current commands.
var LegacyAliases = map[string]string{
	"assigned": CmdPendientes,
	"dev":      CmdEnCurso,
	"finished": CmdFinalizados,
}

// IssueSource is the subset of the Jira client used by the query
// handlers.
type IssueSource interface {
	GetIssue(ctx context.Context, key string) (map[string]any, error)
	SearchJQL(ctx context.Context, jql string, maxResults int, fields []string) (jira.SearchResult, error)
	BrowseURL(key string) string
}

// Service implements the read-only Jira queries behind the chat
// commands.  It holds no mutable state and is safe for concurrent use.
type Service struct {
	Jira IssueSource
}

// NewService constructs a Service backed by src.
func NewService(src IssueSource) *Service {
	return &Service{Jira: src}
}

// listQuery describes one list command.
type listQuery struct {
	name     string
	desc     string
	help     string
	statuses []string
	label    string // used in the embed title
	empty    string // used in the "no results" sentence
}

var listQueries = []listQuery{
	{
		name:     CmdPendientes,
		desc:     "Lista tickets en BACKLOG o SELECCIONADO PARA DESARROLLO.",
		help:     "Lista tickets en 'BACKLOG' o 'SELECCIONADO PARA DESARROLLO'.",
		statuses: jira.StatusesPending,
		label:    "Pendientes",
		empty:    "pendientes",
	},
	{
		name:     CmdEnCurso,
		desc:     "Lista tickets en estado 'EN CURSO'.",
		help:     "Lista los tickets que están 'EN CURSO'.",
		statuses: jira.StatusesInProgress,
		label:    "EN CURSO",
		empty:    "EN CURSO",
	},
	{
		name:     CmdBloqueados,
		desc:     "Lista tickets en estado 'BLOCK'.",
		help:     "Lista los tickets en estado 'BLOCK'.",
		statuses: jira.StatusesBlocked,
		label:    "Bloqueados",
		empty:    "bloqueados",
	},
	{
		name:     CmdFinalizados,
		desc:     "Lista tickets en CODE REVIEW, QA o LISTO.",
		help:     "Lista tickets en 'CODE REVIEW', 'QA' o 'LISTO'.",
		statuses: jira.StatusesFinished,
		label:    "Finalizados",
		empty:    "finalizados",
	},
}

// NewGroup builds the "jira" command group.  The info command renders
// its help from the group itself, so it always lists what is registered.
func (s *Service) NewGroup() *commands.Group {
	g := commands.NewGroup(GroupName, "Comandos para interactuar con Jira")
	help := map[string]string{
		CmdVer: "Obtiene información detallada de un ticket de Jira (ej. `ABC-123`).",
	}
	user := []commands.Param{{
		Name:        ParamUsuario,
		Description: "El 'username' o 'displayName' del usuario en Jira",
		Required:    true,
	}}

	g.MustRegister(
		commands.Command{
			Name:        CmdInfo,
			Description: "Muestra información sobre los comandos disponibles.",
			Run: func(context.Context, map[string]string) chat.Reply {
				return helpReply(g, help)
			},
		},
		commands.Command{
			Name:        CmdVer,
			Description: "Obtiene información detallada de un ticket de Jira.",
			Params: []commands.Param{{
				Name:        ParamTicketID,
				Description: "El ID del ticket (ej. ABC-123)",
				Required:    true,
			}},
			Deferred: true,
			Run: func(ctx context.Context, args map[string]string) chat.Reply {
				return s.Ticket(ctx, args[ParamTicketID])
			},
		},
	)
	for _, q := range listQueries {
		help[q.name] = q.help
		g.MustRegister(commands.Command{
			Name:        q.name,
			Description: q.desc,
			Params:      user,
			Deferred:    true,
			Run: func(ctx context.Context, args map[string]string) chat.Reply {
				return s.list(ctx, q, args[ParamUsuario])
			},
		})
	}
	return g
}

// Ticket looks up one issue and renders it.
func (s *Service) Ticket(ctx context.Context, key string) chat.Reply {
	key = strings.ToUpper(strings.TrimSpace(key))
	ctx = logger.WithLogFields(ctx, logger.LogFields{TicketKey: logger.Ptr(key)})

	doc, err := s.Jira.GetIssue(ctx, key)
	if err != nil {
		var se *jira.StatusError
		var te *jira.TransportError
		switch {
		case jira.IsNotFound(err):
			slog.InfoContext(ctx, "ticket not found")
			return chat.Text(notFoundMsg(key))
		case errors.As(err, &se):
			slog.WarnContext(ctx, "jira rejected ticket lookup", "status", se.StatusCode, "error", err)
			return chat.Text(serverErrorMsg(se.StatusCode))
		case errors.As(err, &te):
			slog.ErrorContext(ctx, "jira ticket lookup failed", "error", err)
			return chat.Text(TicketNetworkErrorText)
		default:
			slog.ErrorContext(ctx, "ticket lookup failed", "error", err)
			return chat.Text(commands.UnexpectedErrorText)
		}
	}

	rec := jira.ExtractIssue(doc)
	if rec.Key == jira.NoKey {
		rec.Key = key
	}
	return chat.Reply{Embed: ticketEmbed(rec, s.Jira.BrowseURL(rec.Key))}
}

func (s *Service) list(ctx context.Context, q listQuery, user string) chat.Reply {
	user = strings.TrimSpace(user)
	jql := jira.AssigneeStatusJQL(user, q.statuses)
	slog.DebugContext(ctx, "jira list search", "jql", jql)

	res, err := s.Jira.SearchJQL(ctx, jql, jira.MaxResults, jira.ListFields)
	if err != nil {
		var se *jira.StatusError
		var te *jira.TransportError
		switch {
		case errors.As(err, &se) && se.StatusCode == 400:
			slog.InfoContext(ctx, "jira rejected jql", "error", err)
			return chat.Text(jqlErrorMsg(se.FirstMessage(UnknownErrorText)))
		case errors.As(err, &se):
			slog.WarnContext(ctx, "jira search failed", "status", se.StatusCode, "error", err)
			return chat.Text(searchStatusMsg(se.StatusCode))
		case errors.As(err, &te):
			slog.ErrorContext(ctx, "jira search transport failure", "error", err)
			return chat.Text(SearchNetworkErrorText)
		default:
			slog.ErrorContext(ctx, "jira search failed", "error", err)
			return chat.Text(SearchUnexpectedErrorText)
		}
	}

	issues := res.Summaries()
	if len(issues) == 0 {
		return chat.Text(noResultsMsg(q.empty, user))
	}
	return chat.Reply{Embed: listEmbed(q.label, user, issues, s.Jira.BrowseURL)}
}
