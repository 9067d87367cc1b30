// internal/cli/query.go
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/R4F405/discord-jira-bot/internal/app"
	"github.com/R4F405/discord-jira-bot/internal/chat"
	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/config"
	"github.com/R4F405/discord-jira-bot/internal/jira"
	"github.com/R4F405/discord-jira-bot/internal/logger"
)

func handleQuery(ctx context.Context, out io.Writer, name string, rest []string) error {
	cfg := config.Load()
	if err := cfg.Validate(config.ServiceQuery); err != nil {
		return err
	}
	if err := logger.Setup(cfg); err != nil {
		return err
	}
	defer logger.Flush(2 * time.Second)

	g := app.NewService(jira.NewClient(cfg.Jira)).NewGroup()
	return runQuery(ctx, out, g, name, rest)
}

// runQuery dispatches one command with the joined arguments bound to its
// first parameter, exactly as a slash command would receive them.
func runQuery(ctx context.Context, out io.Writer, g *commands.Group, name string, rest []string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	cmd, ok := g.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s (try %q)", commands.ErrUnknownCommand, name, app.CmdInfo)
	}
	args := map[string]string{}
	if len(cmd.Params) > 0 && len(rest) > 0 {
		args[cmd.Params[0].Name] = strings.Join(rest, " ")
	}
	return g.Dispatch(ctx, name, args, &writerResponder{out: out})
}

// writerResponder prints replies as plain text.
type writerResponder struct {
	out io.Writer
}

func (w *writerResponder) Defer(context.Context) error { return nil }

func (w *writerResponder) Followup(_ context.Context, r chat.Reply) error {
	_, err := fmt.Fprintln(w.out, chat.PlainText(r))
	return err
}

func (w *writerResponder) Respond(ctx context.Context, r chat.Reply) error {
	return w.Followup(ctx, r)
}
