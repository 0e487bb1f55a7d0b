package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yansassi23/restaurapro/internal/models"
	"github.com/yansassi23/restaurapro/internal/service"
)

// maximum size of a submitted form, uploads included
const maxSubmitSize = 64 << 20

type OrderService interface {
	// Submit assembles and persists a new order
	Submit(ctx context.Context, customer models.Customer, planID string, files []service.SubmitFile) (*models.Order, error)
	// Get returns order by number
	Get(ctx context.Context, num string) (*models.Order, error)
	// PaymentStatus returns payment status of order
	PaymentStatus(ctx context.Context, num string) (string, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type submitResponse struct {
	OrderNumber string   `json:"order_number"`
	PaymentLink string   `json:"payment_link"`
	AssetRefs   []string `json:"asset_refs"`
}

// SubmitOrder accepts the finalized customer form together with the plan's
// image files and assembles the order
// 201 — order created;
// 400 — malformed request or validation failure;
// 409 — order number already exists;
// 502 — asset upload failed;
// 500 — internal server error.
func (oh *OrderHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxSubmitSize); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		customer := models.Customer{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Phone:           r.FormValue("phone"),
			DeliveryMethods: r.MultipartForm.Value["delivery_method"],
		}
		planID := r.FormValue("plan")

		if customer.Name == "" || customer.Email == "" {
			http.Error(w, "name and email are required", http.StatusBadRequest)
			return
		}

		files := []service.SubmitFile{}
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			files = append(files, service.SubmitFile{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		order, err := oh.svc.Submit(r.Context(), customer, planID, files)
		if err != nil {
			var wrongCount *models.WrongFileCountError
			var uploadErr *models.UploadError
			switch {
			case errors.As(err, &wrongCount), errors.Is(err, models.ErrNoDeliveryMethod), errors.Is(err, models.ErrInvalidPlan):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "order already exists", http.StatusConflict)
			case errors.As(err, &uploadErr):
				http.Error(w, uploadErr.Error(), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		plan, err := models.PlanByID(order.PlanID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		submitResp := submitResponse{
			OrderNumber: order.Number,
			PaymentLink: plan.PaymentLink,
			AssetRefs:   order.AssetRefs,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(submitResp); err != nil {
			return
		}
	}
}

type paymentStatusResponse struct {
	OrderNumber   string `json:"order_number"`
	PaymentStatus string `json:"payment_status"`
}

// GetPaymentStatus returns payment status of order. The polling client
// calls it on a fixed interval and on demand.
// 200 — success;
// 404 — order not found;
// 500 — internal server error.
func (oh *OrderHandler) GetPaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		num := chi.URLParam(r, "number")

		status, err := oh.svc.PaymentStatus(r.Context(), num)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		statusResp := paymentStatusResponse{
			OrderNumber:   num,
			PaymentStatus: status,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(statusResp); err != nil {
			return
		}
	}
}

type orderResponse struct {
	OrderNumber     string   `json:"order_number"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	DeliveryMethods []string `json:"delivery_methods"`
	Plan            string   `json:"plan"`
	AssetRefs       []string `json:"asset_refs"`
	AssetsLinked    bool     `json:"assets_linked"`
	PaymentStatus   string   `json:"payment_status"`
	CreatedAt       string   `json:"created_at"`
}

// GetOrder returns the full order record for the operator surface
// 200 — success;
// 404 — order not found;
// 500 — internal server error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		num := chi.URLParam(r, "number")

		order, err := oh.svc.Get(r.Context(), num)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		orderResp := orderResponse{
			OrderNumber:     order.Number,
			Name:            order.Customer.Name,
			Email:           order.Customer.Email,
			Phone:           order.Customer.Phone,
			DeliveryMethods: order.Customer.DeliveryMethods,
			Plan:            order.PlanID,
			AssetRefs:       order.AssetRefs,
			AssetsLinked:    order.AssetsLinked,
			PaymentStatus:   order.PaymentStatus,
			CreatedAt:       order.CreatedAt.Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(orderResp); err != nil {
			return
		}
	}
}
