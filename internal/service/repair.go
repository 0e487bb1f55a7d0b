package service

import (
	"context"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yansassi23/restaurapro/internal/logger"
	"github.com/yansassi23/restaurapro/internal/models"
	"go.uber.org/zap"
)

// RepairRepository is the storage surface of the repair pass
type RepairRepository interface {
	// GetUnlinkedOrders returns orders whose final linkage update did not land
	GetUnlinkedOrders(ctx context.Context) ([]models.Order, error)
	// UpdateAssetRefs stores the ordered asset reference list
	UpdateAssetRefs(ctx context.Context, num string, refs []string) error
	// PurgeStalePending deletes pending orders older than cutoff
	PurgeStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// AssetLister lists stored assets under a key prefix
type AssetLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// RepairService reconciles orphaned assets and purges abandoned orders
type RepairService struct {
	repo   RepairRepository
	lister AssetLister
}

// NewRepairService creates new RepairService instance
func NewRepairService(repo RepairRepository, lister AssetLister) *RepairService {
	return &RepairService{
		repo:   repo,
		lister: lister,
	}
}

// RelinkOrders finds orders with uploaded but unlinked assets and retries
// the linkage update from an asset store listing. Orders whose assets are
// genuinely absent are left alone, a retried submission covers those.
func (rs *RepairService) RelinkOrders(ctx context.Context) error {
	orders, err := rs.repo.GetUnlinkedOrders(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		plan, err := models.PlanByID(order.PlanID)
		if err != nil {
			logger.Log.Warn("unlinked order with unknown plan",
				zap.String("number", order.Number),
				zap.String("plan", order.PlanID))
			continue
		}

		refs, err := rs.lister.List(ctx, order.Number+"/")
		if err != nil {
			logger.Log.Error("asset listing failed",
				zap.String("number", order.Number),
				zap.Error(err))
			continue
		}

		if len(refs) != plan.Images {
			// incomplete upload, not repairable here
			continue
		}

		// listing order is the store's, not the customer's; restore the
		// upload slot order before relinking
		sort.Slice(refs, func(i, j int) bool {
			return slotIndex(refs[i]) < slotIndex(refs[j])
		})

		if err := rs.repo.UpdateAssetRefs(ctx, order.Number, refs); err != nil {
			logger.Log.Error("relink failed",
				zap.String("number", order.Number),
				zap.Error(err))
			continue
		}

		logger.Log.Info("order relinked", zap.String("number", order.Number))
	}

	return nil
}

// slotIndex extracts N from an asset key of the form {order}/image_{N}{ext}.
// Keys outside the naming scheme sort last.
func slotIndex(ref string) int {
	base := path.Base(ref)
	base = strings.TrimSuffix(base, path.Ext(base))
	n, err := strconv.Atoi(strings.TrimPrefix(base, "image_"))
	if err != nil {
		return math.MaxInt
	}
	return n
}

// PurgeStale removes pending orders older than ttl. A webhook arriving for
// a purged order is answered with not found, the provider's own retry
// policy applies.
func (rs *RepairService) PurgeStale(ctx context.Context, ttl time.Duration) error {
	purged, err := rs.repo.PurgeStalePending(ctx, time.Now().Add(-ttl))
	if err != nil {
		return err
	}

	if purged > 0 {
		logger.Log.Info("stale pending orders purged", zap.Int64("count", purged))
	}

	return nil
}
