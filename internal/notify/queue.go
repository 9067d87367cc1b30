// internal/notify/queue.go
package notify

import (
	"context"
	"errors"

	"github.com/R4F405/discord-jira-bot/internal/webhook"
)

// Job is one notification waiting to be sent.
type Job struct {
	ID        int64         `json:"id"`
	ChannelID string        `json:"channel_id"`
	EventName string        `json:"event_name"`
	Event     webhook.Event `json:"event"`
	TraceID   string        `json:"trace_id,omitempty"`
}

// ErrQueueFull is returned by MemoryQueue.Enqueue when the buffer is full.
var ErrQueueFull = errors.New("notification queue is full")

// Queue hands jobs from the webhook handler to the worker.  Delivery is
// at most once: jobs lost on shutdown or transport failure are not
// replayed.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Consume calls handle for every job, in arrival order, until ctx is
	// done.
	Consume(ctx context.Context, handle func(context.Context, Job)) error
	Close() error
}

// Subscriber is implemented by queues that attach to a broker.  Until
// Subscribe returns, enqueued jobs may not reach any consumer.
type Subscriber interface {
	Subscribe(ctx context.Context) error
}

// MemoryQueue is an in-process Queue backed by a buffered channel.
type MemoryQueue struct {
	jobs chan Job
}

// NewMemoryQueue returns a queue holding up to size pending jobs.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{jobs: make(chan Job, size)}
}

// Enqueue never blocks; a full buffer drops the job with ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, handle func(context.Context, Job)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-q.jobs:
			handle(ctx, job)
		}
	}
}

// Len reports the number of pending jobs.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

func (q *MemoryQueue) Close() error {
	return nil
}
