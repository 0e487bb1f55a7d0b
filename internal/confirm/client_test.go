package confirm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yansassi23/restaurapro/internal/models"
)

func TestStatusClient_ReadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ORD123/payment", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statusResponse{
			OrderNumber:   "ORD123",
			PaymentStatus: models.PaymentStatusConfirmed,
		})
	}))
	defer srv.Close()

	client := NewStatusClient(srv.URL)

	status, err := client.ReadStatus(context.Background(), "ORD123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusConfirmed, status)
}

func TestStatusClient_ReadStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewStatusClient(srv.URL)

	_, err := client.ReadStatus(context.Background(), "UNKNOWN1")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
