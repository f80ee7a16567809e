package paymentservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "sk_test", 5*time.Second, logger.NewNop())
}

func TestClient_CreatePaymentIntent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body createIntentRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "eur", body.Currency)
		_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"cs","amount":9000,"currency":"eur","status":"requires_confirmation"}`))
	})

	intent, err := client.CreatePaymentIntent(context.Background(), 9000, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, int64(9000), intent.Amount)

	_, err = client.CreatePaymentIntent(context.Background(), 0, "EUR")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestClient_SetupRecurringPayment_IdempotencyKey(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		keys []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"id":"rp_1","customer":"cus_1","payment_method":"pm_1","amount":9000,"currency":"eur","status":"active"}`))
	})

	req := RecurringPaymentRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: "pm_1",
		AmountMinor:     9000,
		Currency:        "EUR",
		Interval:        "week",
		IntervalCount:   1,
		IdempotencyKey:  "flow-42",
	}
	payment, err := client.SetupRecurringPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "rp_1", payment.ID)

	req.IdempotencyKey = ""
	_, err = client.SetupRecurringPayment(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, "flow-42", keys[0])
	_, parseErr := uuid.Parse(keys[1])
	assert.NoError(t, parseErr)
}

func TestClient_SetupRecurringPayment_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "declined", status: http.StatusPaymentRequired, want: ErrPaymentDeclined},
		{name: "bad request", status: http.StatusBadRequest, want: ErrInvalidRequest},
		{name: "server error", status: http.StatusInternalServerError, want: ErrRequestFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"nope"}}`))
			})

			_, err := client.SetupRecurringPayment(context.Background(), RecurringPaymentRequest{
				CustomerID:      "cus_1",
				PaymentMethodID: "pm_1",
				AmountMinor:     9000,
				Currency:        "EUR",
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	_, err := client.SetupRecurringPayment(context.Background(), RecurringPaymentRequest{AmountMinor: 100})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
