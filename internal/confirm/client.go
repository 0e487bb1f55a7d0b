package confirm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/yansassi23/restaurapro/internal/models"
)

// StatusClient reads payment status from the checkout server
type StatusClient struct {
	client  *http.Client
	baseURL string
}

// NewStatusClient creates new StatusClient instance
func NewStatusClient(baseURL string) *StatusClient {
	return &StatusClient{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type statusResponse struct {
	OrderNumber   string `json:"order_number"`
	PaymentStatus string `json:"payment_status"`
}

// ReadStatus returns payment status of order.
// GET /api/orders/{number}/payment
func (c *StatusClient) ReadStatus(ctx context.Context, num string) (string, error) {
	u, err := url.JoinPath(c.baseURL, "api", "orders", num, "payment")
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		stResp := statusResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&stResp); err != nil {
			return "", err
		}
		return stResp.PaymentStatus, nil
	case http.StatusNotFound:
		return "", models.ErrDataNotFound
	default:
		return "", models.ErrInternalError
	}
}
