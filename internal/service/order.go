package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/yansassi23/restaurapro/internal/logger"
	"github.com/yansassi23/restaurapro/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
	// GetPaymentStatus returns payment status of order
	GetPaymentStatus(ctx context.Context, num string) (string, error)
	// UpdateAssetRefs stores the ordered asset reference list
	UpdateAssetRefs(ctx context.Context, num string, refs []string) error
}

// AssetUploader stores asset content and returns a public reference
type AssetUploader interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SubmitFile is one uploaded image
type SubmitFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// OrderService implements order assembly
type OrderService struct {
	repo     OrderRepository
	uploader AssetUploader
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, uploader AssetUploader) *OrderService {
	return &OrderService{
		repo:     repo,
		uploader: uploader,
	}
}

// NewOrderNumber generates a random order number
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
}

// Submit persists the order record, uploads assets strictly in sequence
// and links their references to the record.
//
// The record is inserted before any upload so asset keys can be derived
// from the order number. The first upload failure aborts the submission;
// the customer retries with an error naming the failed slot. A failure of
// the final linkage update is non-fatal: the order proceeds to payment and
// the reconcile worker re-links it later.
func (os *OrderService) Submit(ctx context.Context, customer models.Customer, planID string, files []SubmitFile) (*models.Order, error) {
	plan, err := models.PlanByID(planID)
	if err != nil {
		return nil, err
	}

	// validate before any network call
	if len(files) != plan.Images {
		return nil, models.NewWrongFileCountError(plan.Images, len(files))
	}
	if len(customer.DeliveryMethods) == 0 {
		return nil, models.ErrNoDeliveryMethod
	}

	order := &models.Order{
		Number:   NewOrderNumber(),
		Customer: customer,
		PlanID:   plan.ID,
	}

	order, err = os.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	// upload assets in sequence, index 1..N, fail-fast
	refs := make([]string, 0, len(files))
	for i, file := range files {
		key := assetKey(order.Number, i+1, file.Name)
		ref, err := os.uploader.Put(ctx, key, file.Data, file.ContentType)
		if err != nil {
			logger.Log.Error("asset upload failed",
				zap.String("number", order.Number),
				zap.Int("index", i+1),
				zap.Error(err))
			return nil, &models.UploadError{Index: i + 1, Err: err}
		}
		refs = append(refs, ref)
	}

	if err := os.repo.UpdateAssetRefs(ctx, order.Number, refs); err != nil {
		// assets and record exist but are not linked yet, the reconcile
		// worker repairs this later
		logger.Log.Error("asset linkage update failed",
			zap.String("number", order.Number),
			zap.Error(err))
	} else {
		order.AssetsLinked = true
	}

	order.AssetRefs = refs

	return order, nil
}

// Get returns order by number
func (os *OrderService) Get(ctx context.Context, num string) (*models.Order, error) {
	return os.repo.GetOrderByNumber(ctx, num)
}

// PaymentStatus returns payment status of order
func (os *OrderService) PaymentStatus(ctx context.Context, num string) (string, error) {
	return os.repo.GetPaymentStatus(ctx, num)
}

// assetKey derives the storage key of slot i
func assetKey(num string, i int, fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("%s/image_%d%s", num, i, ext)
}
