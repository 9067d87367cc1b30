// internal/cli/serve.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/R4F405/discord-jira-bot/internal/app"
	"github.com/R4F405/discord-jira-bot/internal/commands"
	"github.com/R4F405/discord-jira-bot/internal/config"
	"github.com/R4F405/discord-jira-bot/internal/discord"
	bothttp "github.com/R4F405/discord-jira-bot/internal/http"
	"github.com/R4F405/discord-jira-bot/internal/id"
	"github.com/R4F405/discord-jira-bot/internal/jira"
	"github.com/R4F405/discord-jira-bot/internal/logger"
	"github.com/R4F405/discord-jira-bot/internal/notify"
	"github.com/R4F405/discord-jira-bot/internal/otel"
)

type serveOptions struct {
	// Worker runs the notification worker in this process.  Without it
	// jobs are only published, for a separate `worker` to send.
	Worker bool
}

func (o serveOptions) validate(cfg config.Config) error {
	if !o.Worker && cfg.Notify.Transport != config.TransportRedis {
		return fmt.Errorf("--worker=false needs NOTIFY_TRANSPORT=%s, got %q", config.TransportRedis, cfg.Notify.Transport)
	}
	return nil
}

func handleServe(ctx context.Context, opts serveOptions) error {
	cfg := config.Load()
	if err := cfg.Validate(config.ServiceServe); err != nil {
		return err
	}
	if err := opts.validate(cfg); err != nil {
		return err
	}

	telemetry, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	if err := id.Init(1); err != nil {
		return fmt.Errorf("id init: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bot.server"})
	slog.InfoContext(ctx, "starting discord-jira-bot",
		"env", cfg.Env,
		"port", cfg.Port,
		"transport", cfg.Notify.Transport,
		"worker", opts.Worker,
		"guild_id", cfg.Discord.GuildID,
		"discord_token", config.MaskPresent(cfg.Discord.Token),
		"jira_token", config.MaskPresent(cfg.Jira.APIToken),
		"prefix_commands", cfg.Discord.PrefixCommandsEnabled,
		"otel_enabled", cfg.OTel.Enabled())

	jiraClient := jira.NewClient(cfg.Jira)
	group := app.NewService(jiraClient).NewGroup()

	var botOpts []discord.Option
	if cfg.Discord.PrefixCommandsEnabled {
		router := commands.NewPrefixRouter(cfg.Discord.CommandPrefix, group, app.CmdVer, app.LegacyAliases)
		botOpts = append(botOpts, discord.WithPrefixCommands(router))
	}
	bot, err := discord.New(cfg.Discord, group, botOpts...)
	if err != nil {
		return err
	}
	if err := bot.Open(ctx); err != nil {
		return err
	}
	defer bot.Close()

	queue, err := newQueue(ctx, cfg.Notify)
	if err != nil {
		return err
	}
	defer queue.Close()

	// the worker subscribes before the listener accepts webhooks
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	var workerDone <-chan error
	if opts.Worker {
		worker := notify.NewWorker(queue, bot, notify.Formatter{BaseURL: cfg.Jira.BaseURL})
		if workerDone, err = worker.Start(workerCtx); err != nil {
			return err
		}
	}

	dispatcher := notify.Dispatcher{Queue: queue, ChannelID: cfg.Discord.ChannelID}
	router := bothttp.NewRouter(bothttp.RouterConfig{
		IsProduction: cfg.IsProduction(),
		OTelEnabled:  cfg.OTel.Enabled(),
		ServiceName:  cfg.OTel.ServiceName,
	}, bothttp.NewWebhookHandler(dispatcher))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "webhook listener started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	workerExited, runErr := wait(ctx, serverErr, workerDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "server forced to shutdown", "error", err)
	}
	stopWorker()
	if workerDone != nil && !workerExited {
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			slog.WarnContext(ctx, "notification worker did not stop in time")
		}
	}
	shutdownTelemetry(ctx, shutdownCtx, telemetry)
	return runErr
}

// handleWorker only sends notifications published by `serve --worker=false`.
// It talks to Discord over REST and never joins the gateway, so it does
// not answer commands.
func handleWorker(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(config.ServiceWorker); err != nil {
		return err
	}
	telemetry, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bot.worker"})
	slog.InfoContext(ctx, "starting notification worker",
		"env", cfg.Env,
		"channel", cfg.Notify.RedisChannel,
		"discord_token", config.MaskPresent(cfg.Discord.Token))

	sender, err := discord.NewSender(cfg.Discord)
	if err != nil {
		return err
	}
	queue, err := newQueue(ctx, cfg.Notify)
	if err != nil {
		return err
	}
	defer queue.Close()

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	done, err := notify.NewWorker(queue, sender, notify.Formatter{BaseURL: cfg.Jira.BaseURL}).Start(workerCtx)
	if err != nil {
		return err
	}

	exited, runErr := wait(ctx, nil, done)
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if !exited {
		select {
		case <-done:
		case <-shutdownCtx.Done():
			slog.WarnContext(ctx, "notification worker did not stop in time")
		}
	}
	shutdownTelemetry(ctx, shutdownCtx, telemetry)
	return runErr
}

func setupTelemetry(ctx context.Context, cfg config.Config) (*otel.Telemetry, error) {
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		return nil, fmt.Errorf("otel setup: %w", err)
	}
	if err := logger.Setup(cfg); err != nil {
		return nil, fmt.Errorf("logger setup: %w", err)
	}
	return telemetry, nil
}

func shutdownTelemetry(ctx, shutdownCtx context.Context, telemetry *otel.Telemetry) {
	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "telemetry shutdown failed", "error", err)
		}
	}
	slog.InfoContext(ctx, "server exited")
	logger.Flush(2 * time.Second)
}

// wait blocks until a termination signal, a listener failure or the end of
// the worker.  A nil channel is never selected.
func wait(ctx context.Context, serverErr, workerDone <-chan error) (workerExited bool, err error) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		slog.InfoContext(ctx, "shutting down", "signal", sig.String())
		return false, nil
	case err = <-serverErr:
		slog.ErrorContext(ctx, "webhook listener failed", "error", err)
		return false, err
	case err = <-workerDone:
		slog.ErrorContext(ctx, "notification worker exited", "error", err)
		return true, err
	}
}

// newQueue builds the notification transport selected by cfg.Transport.
func newQueue(ctx context.Context, cfg config.NotifyConfig) (notify.Queue, error) {
	switch cfg.Transport {
	case config.TransportRedis:
		q, err := notify.NewRedisQueue(ctx, cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		return notify.NewMemoryQueue(cfg.QueueSize), nil
	}
}
