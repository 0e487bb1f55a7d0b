package worker

import (
	"context"
	"time"

	"github.com/yansassi23/restaurapro/internal/logger"
)

type RepairService interface {
	RelinkOrders(ctx context.Context) error
	PurgeStale(ctx context.Context, ttl time.Duration) error
}

// Reconciler is worker performing the periodic repair pass: re-linking
// orphaned assets and purging abandoned pending orders
type Reconciler struct {
	svc      RepairService
	interval time.Duration
	ttl      time.Duration
}

// NewReconciler creates new reconcile worker
func NewReconciler(svc RepairService, interval, ttl time.Duration) *Reconciler {
	return &Reconciler{
		svc:      svc,
		interval: interval,
		ttl:      ttl,
	}
}

// Run drives the repair pass until ctx is cancelled
func (rc *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("reconcile worker is done")
			return
		case <-ticker.C:
			if err := rc.svc.RelinkOrders(ctx); err != nil {
				logger.Log.Error("error relinking orders")
			}
			if err := rc.svc.PurgeStale(ctx, rc.ttl); err != nil {
				logger.Log.Error("error purging stale orders")
			}
		}
	}
}
