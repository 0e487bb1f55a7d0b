package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yansassi23/restaurapro/internal/models"
)

// PlanHandler serves the static plan catalog
type PlanHandler struct{}

// NewPlanHandler creates new PlanHandler instance
func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// ListPlans returns the plan catalog
// 200 — success.
func (ph *PlanHandler) ListPlans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(models.Plans); err != nil {
			return
		}
	}
}
