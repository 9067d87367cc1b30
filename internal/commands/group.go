// internal/commands/group.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/logger"
)

// ErrUnknownCommand is returned by Dispatch for names not registered in
// the group.
var ErrUnknownCommand = errors.New("unknown command")

// UnexpectedErrorText is shown when a handler panics.
const UnexpectedErrorText = "Ocurrió un error inesperado al procesar la solicitud."

// Param describes one typed string parameter of a command.
type Param struct {
	Name        string
	Description string
	Required    bool
}

// Handler runs a command.  Handlers convert their own failures into a
// user-visible reply; they never return errors.
type Handler func(ctx context.Context, args map[string]string) chat.Reply

// Command is one leaf of a command group.  Deferred commands perform
// network I/O: the invoker is acknowledged before Run starts and the
// result is delivered as a followup.
type Command struct {
	Name        string
	Description string
	Params      []Param
	Deferred    bool
	Run         Handler
}

// Usage renders "/group name <param>" for help texts and error replies.
func (c Command) Usage(group string) string {
	var b strings.Builder
	b.WriteString("/" + group + " " + c.Name)
	for _, p := range c.Params {
		if p.Required {
			b.WriteString(" <" + p.Name + ">")
		} else {
			b.WriteString(" [" + p.Name + "]")
		}
	}
	return b.String()
}

// Group is an ordered set of commands published under one top-level name.
type Group struct {
	Name        string
	Description string

	cmds  []Command
	index map[string]int
}

// NewGroup returns an empty group.
func NewGroup(name, description string) *Group {
	return &Group{Name: name, Description: description, index: make(map[string]int)}
}

// Register adds c to the group.  Names are case-insensitive and unique.
func (g *Group) Register(c Command) error {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	if name == "" {
		return errors.New("command name is empty")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q has no handler", name)
	}
	if _, dup := g.index[name]; dup {
		return fmt.Errorf("command %q already registered", name)
	}
	c.Name = name
	g.index[name] = len(g.cmds)
	g.cmds = append(g.cmds, c)
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (g *Group) MustRegister(cmds ...Command) *Group {
	for _, c := range cmds {
		if err := g.Register(c); err != nil {
			panic(err)
		}
	}
	return g
}

// Commands returns the registered commands in registration order.
func (g *Group) Commands() []Command {
	out := make([]Command, len(g.cmds))
	copy(out, g.cmds)
	return out
}

// Lookup finds a command by name.
func (g *Group) Lookup(name string) (Command, bool) {
	i, ok := g.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Command{}, false
	}
	return g.cmds[i], true
}

// Dispatch runs the named command and delivers its reply through r.
//
// Missing required parameters are answered with a usage error without
// running the handler.  Deferred commands are acknowledged first; the
// final reply is delivered as a followup.  Errors returned by Dispatch
// come from the responder or name an unknown command; the handler's own
// failures are already part of the reply.
func (g *Group) Dispatch(ctx context.Context, name string, args map[string]string, r chat.Responder) error {
	cmd, ok := g.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Command:   logger.Ptr(cmd.Name),
		Component: "bot.commands",
	})
	sc := logger.StartSpan(ctx, "command."+cmd.Name)
	defer sc.End()
	ctx = sc.Context()

	clean := make(map[string]string, len(cmd.Params))
	for _, p := range cmd.Params {
		v := strings.TrimSpace(args[p.Name])
		if v == "" && p.Required {
			slog.InfoContext(ctx, "command rejected: missing parameter", "param", p.Name)
			return r.Respond(ctx, chat.Reply{
				Content:   fmt.Sprintf("❌ Falta el parámetro obligatorio `%s`. Uso: `%s`", p.Name, cmd.Usage(g.Name)),
				Ephemeral: true,
			})
		}
		clean[p.Name] = v
	}

	if !cmd.Deferred {
		return r.Respond(ctx, run(ctx, cmd, clean))
	}

	if err := r.Defer(ctx); err != nil {
		sc.RecordError(err)
		return fmt.Errorf("acknowledge %s: %w", cmd.Name, err)
	}
	reply := run(ctx, cmd, clean)
	if err := r.Followup(ctx, reply); err != nil {
		sc.RecordError(err)
		return fmt.Errorf("deliver %s: %w", cmd.Name, err)
	}
	return nil
}

func run(ctx context.Context, cmd Command, args map[string]string) (reply chat.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "command panicked", "panic", fmt.Sprint(rec))
			reply = chat.Text(UnexpectedErrorText)
		}
	}()
	return cmd.Run(ctx, args)
}
