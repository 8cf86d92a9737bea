// Package worker runs the background jobs: queued email delivery and
// the event completion sweep.
package worker

import (
	"context"
	"log/slog"
	"time"

	"cerclepartages/internal/adapters/queue"
	"cerclepartages/internal/domain"
)

// MailWorker drains the email queue and hands jobs to the mailer.
type MailWorker struct {
	queue  *queue.Queue
	mailer domain.Mailer
	logger *slog.Logger
}

func NewMailWorker(q *queue.Queue, mailer domain.Mailer, logger *slog.Logger) *MailWorker {
	return &MailWorker{queue: q, mailer: mailer, logger: logger}
}

// Run blocks until the context is cancelled, delivering jobs as they
// arrive. Failed sends go back through the queue's retry path.
func (w *MailWorker) Run(ctx context.Context) {
	w.logger.Info("mail worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mail worker stopped")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("dequeue email job", "error", err)
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.mailer.Send(job.To, job.Subject, job.HTMLBody, job.TextBody); err != nil {
			w.logger.Warn("email delivery failed", "job_id", job.ID, "to", job.To, "attempt", job.Attempt, "error", err)
			if err := w.queue.Retry(ctx, job); err != nil {
				w.logger.Error("requeue email job", "job_id", job.ID, "error", err)
			}
			continue
		}
		w.logger.Info("email delivered", "job_id", job.ID, "to", job.To)
	}
}
