package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yansassi23/restaurapro/internal/handler/http/mocks"
	"github.com/yansassi23/restaurapro/internal/models"
)

func TestWebhookHandler_HandleWebhook(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		setup          func(t *testing.T) *mocks.MockWebhookService
		wantStatusCode int
		wantBody       *webhookResponse
	}{
		{
			name:   "approved_status_return_200",
			method: http.MethodPost,
			body:   `{"order_number":"ORD123","status":"approved"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), "ORD123", models.PaymentStatusConfirmed).Return(models.PaymentStatusConfirmed, int64(1), nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &webhookResponse{
				Success:        true,
				OrderNumber:    "ORD123",
				PaymentStatus:  models.PaymentStatusConfirmed,
				UpdatedRecords: 1,
			},
		},
		{
			name:   "order_id_field_accepted_return_200",
			method: http.MethodPost,
			body:   `{"order_id":"ORD123","status":"cancelled"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), "ORD123", models.PaymentStatusFailed).Return(models.PaymentStatusFailed, int64(1), nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &webhookResponse{
				Success:        true,
				OrderNumber:    "ORD123",
				PaymentStatus:  models.PaymentStatusFailed,
				UpdatedRecords: 1,
			},
		},
		{
			name:   "missing_order_number_return_400",
			method: http.MethodPost,
			body:   `{"status":"approved"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "malformed_payload_return_400",
			method: http.MethodPost,
			body:   `{not json`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "unknown_order_return_404",
			method: http.MethodPost,
			body:   `{"order_number":"UNKNOWN1","status":"paid"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Return("", int64(0), models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "conflicting_terminal_return_409",
			method: http.MethodPost,
			body:   `{"order_number":"ORD123","status":"failed"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.PaymentStatusConfirmed, int64(0), models.ErrTerminalStatus).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:   "storage_failure_return_500",
			method: http.MethodPost,
			body:   `{"order_number":"ORD123","status":"paid"}`,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Return("", int64(0), models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:   "get_method_return_405",
			method: http.MethodGet,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusMethodNotAllowed,
		},
		{
			name:   "preflight_return_200_without_business_logic",
			method: http.MethodOptions,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Reconcile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, "/api/payment/webhook", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewWebhookHandler(st)
			h := handler.HandleWebhook()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got webhookResponse
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
