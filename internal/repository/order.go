package repository

import (
	"context"
	"time"

	"github.com/yansassi23/restaurapro/internal/models"
	"github.com/yansassi23/restaurapro/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (number, name, email, phone, delivery_methods, plan_id)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, payment_status, created_at
`
	selectOrderByNumQuery = `
						SELECT id, number, name, email, phone, delivery_methods, plan_id,
						       asset_refs, assets_linked, payment_status, created_at
						FROM orders
						WHERE number = $1
`
	selectPaymentStatusQuery = `
						SELECT payment_status FROM orders
						WHERE number = $1
`
	updateAssetRefsQuery = `
						UPDATE orders
						SET asset_refs = $1, assets_linked = TRUE
						WHERE number = $2
`
	updatePaymentStatusQuery = `
						UPDATE orders
						SET payment_status = $1
						WHERE number = $2 AND payment_status = 'pending'
`
	selectUnlinkedQuery = `
						SELECT id, number, name, email, phone, delivery_methods, plan_id,
						       asset_refs, assets_linked, payment_status, created_at
						FROM orders
						WHERE assets_linked = FALSE
`
	purgeStalePendingQuery = `
						DELETE FROM orders
						WHERE payment_status = 'pending' AND created_at < $1
`
)

// OrderRepository stores orders in postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database. The record is inserted before
// any asset upload so asset keys can be derived from the order number.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.Number,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.DeliveryMethods,
		order.PlanID,
	).Scan(&order.ID, &order.PaymentStatus, &order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber returns order by number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, num string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByNumQuery, num).Scan(
		&order.ID,
		&order.Number,
		&order.Customer.Name,
		&order.Customer.Email,
		&order.Customer.Phone,
		&order.Customer.DeliveryMethods,
		&order.PlanID,
		&order.AssetRefs,
		&order.AssetsLinked,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetPaymentStatus returns payment status of order
func (or *OrderRepository) GetPaymentStatus(ctx context.Context, num string) (string, error) {
	var status string
	err := or.db.QueryRow(ctx, selectPaymentStatusQuery, num).Scan(&status)
	if err != nil {
		if postgres.IsNoRows(err) {
			return "", models.ErrDataNotFound
		}
		return "", err
	}

	return status, nil
}

// UpdateAssetRefs stores the full ordered list of asset references in one
// batch write and marks the order linked
func (or *OrderRepository) UpdateAssetRefs(ctx context.Context, num string, refs []string) error {
	cmd, err := or.db.Exec(ctx, updateAssetRefsQuery, refs, num)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// SetPaymentStatus writes payment status of the matching order. The update
// is conditional on the current status still being pending, so terminal
// states are sticky at the storage layer. Returns number of updated rows.
func (or *OrderRepository) SetPaymentStatus(ctx context.Context, num string, status string) (int64, error) {
	cmd, err := or.db.Exec(ctx, updatePaymentStatusQuery, status, num)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

// GetUnlinkedOrders returns orders whose assets were uploaded but whose
// final linkage update did not land
func (or *OrderRepository) GetUnlinkedOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectUnlinkedQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(
			&order.ID,
			&order.Number,
			&order.Customer.Name,
			&order.Customer.Email,
			&order.Customer.Phone,
			&order.Customer.DeliveryMethods,
			&order.PlanID,
			&order.AssetRefs,
			&order.AssetsLinked,
			&order.PaymentStatus,
			&order.CreatedAt,
		)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// PurgeStalePending deletes pending orders older than cutoff. Returns the
// number of purged orders.
func (or *OrderRepository) PurgeStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := or.db.Exec(ctx, purgeStalePendingQuery, cutoff)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
