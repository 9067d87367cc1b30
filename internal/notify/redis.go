// internal/notify/redis.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/R4F405/discord-jira-bot/internal/logger"
)

// RedisQueue carries jobs over a Redis Pub/Sub channel, so the webhook
// listener (serve --worker=false) and the Discord sender (worker) may run
// in different processes.  Pub/Sub keeps no backlog: jobs published while
// no worker is subscribed are lost, and every subscriber receives every
// job, so exactly one consumer should run per channel.
type RedisQueue struct {
	client  *redis.Client
	channel string

	mu     sync.Mutex
	pubsub *redis.PubSub
}

// NewRedisQueue connects to url and verifies the connection.
func NewRedisQueue(ctx context.Context, url, channel string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisQueue{client: client, channel: channel}, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	b, err := EncodeJob(job)
	if err != nil {
		return err
	}
	if err := q.client.Publish(ctx, q.channel, b).Err(); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Subscribe attaches to the channel and waits for Redis to confirm.  Jobs
// published after it returns reach the next Consume.  Calling it again is
// a no-op.
func (q *RedisQueue) Subscribe(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pubsub != nil {
		return nil
	}
	pubsub := q.client.Subscribe(ctx, q.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", q.channel, err)
	}
	q.pubsub = pubsub
	slog.InfoContext(ctx, "subscribed to notification channel", "channel", q.channel)
	return nil
}

func (q *RedisQueue) Consume(ctx context.Context, handle func(context.Context, Job)) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "bot.notify.redis"})
	if err := q.Subscribe(ctx); err != nil {
		return err
	}

	q.mu.Lock()
	ch := q.pubsub.Channel()
	q.mu.Unlock()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			job, err := DecodeJob([]byte(msg.Payload))
			if err != nil {
				slog.WarnContext(ctx, "dropping undecodable job", "error", err, "payload", logger.Truncate(msg.Payload, 200))
				continue
			}
			handle(ctx, job)
		}
	}
}

func (q *RedisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pubsub != nil {
		_ = q.pubsub.Close()
		q.pubsub = nil
	}
	return q.client.Close()
}

// EncodeJob is the wire form of a job on the Redis channel.
func EncodeJob(job Job) ([]byte, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}
	return b, nil
}

// DecodeJob reverses EncodeJob.
func DecodeJob(b []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(b, &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	if job.Event.TicketKey == "" {
		return Job{}, fmt.Errorf("decode job: missing ticket key")
	}
	return job, nil
}
