// Package orders assembles completed order records, relays them to the
// admin and optionally keeps a history in Postgres.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dokonbot/core/logger"

	"github.com/google/uuid"
)

// Notifier delivers the rendered order notification to the admin sink.
type Notifier interface {
	NotifyAdmin(ctx context.Context, text string) error
}

// Dispatcher relays completed orders. Notification failure is reported to
// the caller and never retried here; history persistence failure is logged
// but does not fail the dispatch.
type Dispatcher struct {
	notifier Notifier
	repo     *Repo
}

// NewDispatcher builds a dispatcher. repo may be nil to disable history.
func NewDispatcher(n Notifier, repo *Repo) *Dispatcher {
	return &Dispatcher{notifier: n, repo: repo}
}

// Dispatch sends the admin notification and records the order. The text is
// rendered by the caller so the notification keeps the exact draft built at
// order time.
func (d *Dispatcher) Dispatch(ctx context.Context, rec Record, text string) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if err := d.notifier.NotifyAdmin(ctx, text); err != nil {
		logger.SVCOrders.LogAttrs(ctx, slog.LevelError, "order.failed",
			slog.String("order_id", rec.ID.String()),
			slog.Int64("user_id", rec.UserID),
			slog.String("product", rec.ProductName),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return fmt.Errorf("orders: notify admin: %w", err)
	}

	if d.repo != nil {
		if err := d.repo.Insert(ctx, rec); err != nil {
			logger.SVCOrders.LogAttrs(ctx, slog.LevelWarn, "order.history_failed",
				slog.String("order_id", rec.ID.String()),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	logger.SVCOrders.LogAttrs(ctx, slog.LevelInfo, "order.dispatched",
		slog.String("order_id", rec.ID.String()),
		slog.Int64("user_id", rec.UserID),
		slog.String("product", rec.ProductName),
	)
	return nil
}

// History exposes the repo for admin listings, or nil when disabled.
func (d *Dispatcher) History() *Repo {
	return d.repo
}
