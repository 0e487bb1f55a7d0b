package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yansassi23/restaurapro/internal/models"
	"github.com/yansassi23/restaurapro/internal/service"
)

type WebhookService interface {
	// Reconcile applies a normalized provider status to the order
	Reconcile(ctx context.Context, num string, status string) (string, int64, error)
}

// WebhookHandler receives asynchronous payment provider callbacks. The
// caller is the provider's infrastructure, not the browser; delivery is
// at-least-once and unordered.
type WebhookHandler struct {
	svc WebhookService
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(svc WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// webhookPayload tolerates provider schema variance: the order may arrive
// as order_number or order_id, the status as status or payment_status.
type webhookPayload struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TransactionID string `json:"transaction_id"`
	WebhookID     string `json:"webhook_id"`
}

type webhookResponse struct {
	Success        bool   `json:"success"`
	OrderNumber    string `json:"order_number"`
	PaymentStatus  string `json:"payment_status"`
	UpdatedRecords int64  `json:"updated_records"`
}

type webhookError struct {
	Error string `json:"error"`
}

// HandleWebhook normalizes the provider callback and performs the
// authoritative payment status transition
// 200 — status applied (or no-op redelivery);
// 400 — missing order number;
// 404 — order not found;
// 405 — not a POST;
// 409 — conflicting terminal status rejected;
// 500 — storage write failed.
func (wh *WebhookHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			// preflight is answered without business logic
			w.WriteHeader(http.StatusOK)
			return
		}

		if r.Method != http.MethodPost {
			writeWebhookError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeWebhookError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		defer r.Body.Close()

		num := payload.OrderNumber
		if num == "" {
			num = payload.OrderID
		}
		if num == "" {
			writeWebhookError(w, http.StatusBadRequest, "Missing order_number")
			return
		}

		status := service.NormalizeStatus(payload.Status, payload.PaymentStatus)

		resulting, updated, err := wh.svc.Reconcile(r.Context(), num, status)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				writeWebhookError(w, http.StatusNotFound, "Order not found")
			case errors.Is(err, models.ErrTerminalStatus):
				writeWebhookError(w, http.StatusConflict, "Conflicting terminal status")
			default:
				writeWebhookError(w, http.StatusInternalServerError, "Database update failed")
			}
			return
		}

		webhookResp := webhookResponse{
			Success:        true,
			OrderNumber:    num,
			PaymentStatus:  resulting,
			UpdatedRecords: updated,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(webhookResp); err != nil {
			return
		}
	}
}

func writeWebhookError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(webhookError{Error: msg})
}
