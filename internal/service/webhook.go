package service

import (
	"context"
	"time"

	"github.com/yansassi23/restaurapro/internal/events"
	"github.com/yansassi23/restaurapro/internal/logger"
	"github.com/yansassi23/restaurapro/internal/models"
	"go.uber.org/zap"
)

// ReconcilerRepository is the storage surface the reconciler writes through
type ReconcilerRepository interface {
	// GetPaymentStatus returns payment status of order
	GetPaymentStatus(ctx context.Context, num string) (string, error)
	// SetPaymentStatus conditionally writes payment status, returns rows updated
	SetPaymentStatus(ctx context.Context, num string, status string) (int64, error)
}

// EventPublisher emits payment events for downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event events.PaymentStatusChanged) error
}

// WebhookService is the sole authoritative writer of payment status
type WebhookService struct {
	repo      ReconcilerRepository
	publisher EventPublisher
}

// NewWebhookService creates new WebhookService instance. publisher may be
// nil when no broker is configured.
func NewWebhookService(repo ReconcilerRepository, publisher EventPublisher) *WebhookService {
	return &WebhookService{
		repo:      repo,
		publisher: publisher,
	}
}

// NormalizeStatus maps provider status tokens to the canonical payment
// status. Unrecognized tokens mean "no new information" and map to pending.
func NormalizeStatus(status, paymentStatus string) string {
	switch {
	case status == "paid" || status == "approved" || paymentStatus == models.PaymentStatusConfirmed:
		return models.PaymentStatusConfirmed
	case status == "failed" || status == "cancelled" || paymentStatus == models.PaymentStatusFailed:
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// Reconcile applies a normalized provider status to the order. Returns the
// resulting canonical status and the number of logically updated orders.
//
// Terminal states are sticky: the first terminal write wins. Re-delivery of
// the same terminal status is a no-op success; a conflicting terminal
// status is logged and rejected with ErrTerminalStatus. A pending status
// carries no new information and never writes.
func (ws *WebhookService) Reconcile(ctx context.Context, num string, status string) (string, int64, error) {
	if num == "" {
		return "", 0, models.ErrMissingOrderID
	}

	if !models.IsTerminalStatus(status) {
		// nothing to write, echo the current state
		current, err := ws.repo.GetPaymentStatus(ctx, num)
		if err != nil {
			return "", 0, err
		}
		return current, 0, nil
	}

	updated, err := ws.repo.SetPaymentStatus(ctx, num, status)
	if err != nil {
		return "", 0, err
	}

	if updated > 0 {
		logger.Log.Info("payment status updated",
			zap.String("number", num),
			zap.String("status", status))
		ws.publish(ctx, num, status)
		return status, updated, nil
	}

	// no row transitioned: the order is unknown or already terminal
	current, err := ws.repo.GetPaymentStatus(ctx, num)
	if err != nil {
		return "", 0, err
	}

	if current == status {
		// duplicate delivery of the same terminal status
		return status, 1, nil
	}

	logger.Log.Warn("conflicting terminal status rejected",
		zap.String("number", num),
		zap.String("current", current),
		zap.String("rejected", status))
	return current, 0, models.ErrTerminalStatus
}

func (ws *WebhookService) publish(ctx context.Context, num string, status string) {
	if ws.publisher == nil {
		return
	}

	event := events.PaymentStatusChanged{
		OrderNumber:   num,
		PaymentStatus: status,
		OccurredAt:    time.Now(),
	}
	if err := ws.publisher.Publish(ctx, event); err != nil {
		// notification side effects must not fail the reconciliation
		logger.Log.Error("payment event publish failed",
			zap.String("number", num),
			zap.Error(err))
	}
}
