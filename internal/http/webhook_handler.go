// internal/http/webhook_handler.go
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/R4F405/discord-jira-bot/internal/logger"
	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

// MaxWebhookBodyBytes bounds a single delivery.  Jira payloads with long
// descriptions and comments stay well below it.
const MaxWebhookBodyBytes = 1 << 20

// EventDispatcher hands normalized events to the notification pipeline.
type EventDispatcher interface {
	Dispatch(ctx context.Context, eventName string, events []webhook.Event) error
}

// WebhookHandler receives Jira webhook deliveries.  It answers as soon
// as the notifications are queued; delivery to Discord happens later and
// its outcome never reaches the caller.
type WebhookHandler struct {
	dispatcher EventDispatcher
}

func NewWebhookHandler(d EventDispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: d}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "bot.http.webhook"})

	p, err := webhook.Decode(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		slog.WarnContext(ctx, "webhook payload too large", "limit", tooLarge.Limit)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "message": "payload too large"})
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "invalid webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
		return
	}

	fields := logger.LogFields{EventType: logger.Ptr(p.Event)}
	if key := p.IssueKey(); key != "" {
		fields.TicketKey = logger.Ptr(key)
	}
	ctx = logger.WithLogFields(ctx, fields)
	slog.InfoContext(ctx, "jira webhook received", "changes", len(p.Items))

	res := webhook.Normalize(p)
	if res.Status == webhook.StatusIgnored {
		slog.InfoContext(ctx, "jira webhook ignored", "reason", res.Reason, "message", res.Message, "event", res.Event)
		c.JSON(http.StatusOK, ignoredBody(res))
		return
	}

	if err := h.dispatcher.Dispatch(ctx, p.Event, res.Events); err != nil {
		slog.ErrorContext(ctx, "could not queue notifications", "error", err, "events", len(res.Events))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	slog.InfoContext(ctx, "notifications queued", "events", len(res.Events))
	c.JSON(http.StatusOK, gin.H{"status": webhook.StatusSuccess})
}

func ignoredBody(res webhook.Result) gin.H {
	body := gin.H{"status": webhook.StatusIgnored}
	switch {
	case res.Message != "":
		body["message"] = res.Message
	case res.Reason != "":
		body["reason"] = res.Reason
	default:
		body["event"] = res.Event
	}
	return body
}
