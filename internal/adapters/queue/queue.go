package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// QueueEmails is the Redis list key for outbound email jobs.
	QueueEmails = "worker:emails"
	// QueueDLQ holds jobs that exhausted their retries.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of attempts before a job moves to the DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 10 * time.Second

	dequeueTimeout = 5 * time.Second
)

// EmailJob is a fully rendered email waiting to be sent.
type EmailJob struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	HTMLBody  string    `json:"html_body"`
	TextBody  string    `json:"text_body"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue enqueues and dequeues email jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewQueue creates a Redis-backed email job queue.
func NewQueue(client *redis.Client, logger *slog.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

// Enqueue pushes a job onto the email queue. A missing ID is filled in.
func (q *Queue) Enqueue(ctx context.Context, job *EmailJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, QueueEmails, raw).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	q.logger.Debug("email job enqueued", "job_id", job.ID, "to", job.To)
	return nil
}

// EnqueueEmail implements domain.MailQueue for pre-rendered emails.
func (q *Queue) EnqueueEmail(ctx context.Context, to, subject, html, text string) error {
	return q.Enqueue(ctx, &EmailJob{To: to, Subject: subject, HTMLBody: html, TextBody: text})
}

// Dequeue blocks up to a few seconds for the next job. A nil job with
// nil error means the wait timed out; callers just loop.
func (q *Queue) Dequeue(ctx context.Context) (*EmailJob, error) {
	res, err := q.client.BRPop(ctx, dequeueTimeout, QueueEmails).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}
	// BRPop returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected brpop result length %d", len(res))
	}
	var job EmailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Retry re-enqueues a failed job or moves it to the DLQ after
// MaxRetries attempts.
func (q *Queue) Retry(ctx context.Context, job *EmailJob) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if job.Attempt >= MaxRetries {
		q.logger.Warn("email job moved to DLQ", "job_id", job.ID, "to", job.To, "attempts", job.Attempt)
		return q.client.LPush(ctx, QueueDLQ, raw).Err()
	}
	return q.client.LPush(ctx, QueueEmails, raw).Err()
}
