package worker

import (
	"context"
	"log/slog"
	"time"

	"cerclepartages/internal/domain"
)

// Completer periodically marks published events whose date has passed
// as completed.
type Completer struct {
	eventRepo domain.EventRepository
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewCompleter creates the completion sweeper. The now func is
// injectable for tests; pass time.Now in production wiring.
func NewCompleter(eventRepo domain.EventRepository, interval time.Duration, logger *slog.Logger, now func() time.Time) *Completer {
	return &Completer{
		eventRepo: eventRepo,
		interval:  interval,
		logger:    logger,
		now:       now,
	}
}

// Run sweeps immediately, then on every tick, until the context is
// cancelled.
func (c *Completer) Run(ctx context.Context) {
	c.logger.Info("completion sweeper started", "interval", c.interval)
	if err := c.Sweep(ctx); err != nil {
		c.logger.Error("completion sweep", "error", err)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("completion sweeper stopped")
			return
		case <-ticker.C:
			if err := c.Sweep(ctx); err != nil {
				c.logger.Error("completion sweep", "error", err)
			}
		}
	}
}

// Sweep completes every published event dated before now. Events that
// fail to update are logged and skipped so one bad row cannot wedge
// the sweep.
func (c *Completer) Sweep(ctx context.Context) error {
	cutoff := c.now()
	events, err := c.eventRepo.ListPublishedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	for _, event := range events {
		if !domain.CanTransition(event.Status, domain.EventStatusCompleted) {
			continue
		}
		if err := c.eventRepo.SetStatus(ctx, event.ID, domain.EventStatusCompleted); err != nil {
			c.logger.Error("complete event", "event_id", event.ID, "error", err)
			continue
		}
		c.logger.Info("event completed", "event_id", event.ID, "date", event.Date)
	}
	return nil
}
