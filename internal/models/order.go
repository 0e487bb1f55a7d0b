package models

import "time"

// payment status
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// IsTerminalStatus reports whether status is terminal. Once an order reaches
// a terminal status no further transition is accepted.
func IsTerminalStatus(status string) bool {
	return status == PaymentStatusConfirmed || status == PaymentStatusFailed
}

// delivery methods
const (
	DeliveryEmail    = "email"
	DeliveryWhatsApp = "whatsapp"
)

// Customer is customer intake data
type Customer struct {
	Name            string
	Email           string
	Phone           string
	DeliveryMethods []string
}

// Order is order entity. AssetRefs holds one public locator per required
// plan slot, in original selection order. AssetsLinked is false when the
// assets were stored but the final linkage update did not land.
type Order struct {
	ID            uint64
	Number        string
	Customer      Customer
	PlanID        string
	AssetRefs     []string
	AssetsLinked  bool
	PaymentStatus string
	CreatedAt     time.Time
}
