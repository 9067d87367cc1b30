// internal/notify/worker.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/R4F405/discord-jira-bot/internal/id"
	"github.com/R4F405/discord-jira-bot/internal/logger"
	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

// Sender posts a message to a chat channel.
type Sender interface {
	Send(ctx context.Context, channelID, content string) error
}

// Dispatcher turns normalized events into jobs for the configured channel.
type Dispatcher struct {
	Queue     Queue
	ChannelID string
}

// Dispatch enqueues one job per event, in order.  It stops at the first
// enqueue failure; earlier jobs stay queued.
func (d Dispatcher) Dispatch(ctx context.Context, eventName string, events []webhook.Event) error {
	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	for i, ev := range events {
		job := Job{ID: id.New(), ChannelID: d.ChannelID, EventName: eventName, Event: ev, TraceID: traceID}
		if err := d.Queue.Enqueue(ctx, job); err != nil {
			return fmt.Errorf("enqueue notification %d/%d for %s: %w", i+1, len(events), ev.TicketKey, err)
		}
	}
	return nil
}

// Worker owns every outbound notification send.  Jobs are handled one at
// a time in queue order; a failed send is logged and never retried.
type Worker struct {
	queue  Queue
	sender Sender
	format Formatter
}

func NewWorker(q Queue, s Sender, f Formatter) *Worker {
	return &Worker{queue: q, sender: s, format: f}
}

// Start attaches the queue to its broker, then runs the worker in the
// background.  Once Start returns, published jobs are not lost for lack
// of a subscriber.  The channel yields Run's result.
func (w *Worker) Start(ctx context.Context) (<-chan error, error) {
	if sub, ok := w.queue.(Subscriber); ok {
		if err := sub.Subscribe(ctx); err != nil {
			return nil, err
		}
	}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return done, nil
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bot.notify.worker"})
	slog.InfoContext(ctx, "notification worker started")
	err := w.queue.Consume(ctx, w.Handle)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	slog.InfoContext(ctx, "notification worker stopped")
	return err
}

// Handle sends a single job.  It never panics or returns an error.
func (w *Worker) Handle(ctx context.Context, job Job) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     logger.Ptr(job.ID),
		TicketKey: logger.Ptr(job.Event.TicketKey),
		EventType: logger.Ptr(job.EventName),
	})
	sc := logger.StartSpanFromTraceID(ctx, job.TraceID, "notify.deliver",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("notify.kind", string(job.Event.Kind)),
			attribute.String("jira.issue_key", job.Event.TicketKey),
		),
	)
	defer sc.End()
	ctx = sc.Context()

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			sc.RecordError(err)
			slog.ErrorContext(ctx, "notification job panicked", "error", err)
		}
	}()

	content := w.format.Format(job.Event)
	if err := w.sender.Send(ctx, job.ChannelID, content); err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "notification send failed", "error", err, "kind", job.Event.Kind)
		return
	}
	slog.InfoContext(ctx, "notification sent", "kind", job.Event.Kind)
}
