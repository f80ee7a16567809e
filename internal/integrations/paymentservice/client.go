package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TherapySessions/pkg/restclient"
)

const target = "paymentservice"

// Client клиент платёжного сервиса
type Client struct {
	rest *restclient.Client
	log  Logger
}

// NewClient создает новый экземпляр клиента; secretKey передаётся как Bearer токен
func NewClient(baseURL, secretKey string, timeout time.Duration, log Logger, opts ...restclient.Option) *Client {
	opts = append([]restclient.Option{restclient.WithHeader("Authorization", "Bearer "+secretKey)}, opts...)
	return &Client{
		rest: restclient.New(target, baseURL, timeout, opts...),
		log:  log,
	}
}

// CreatePaymentIntent создает разовый платёж на сумму в минимальных единицах валюты
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*PaymentIntent, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidRequest, amountMinor)
	}

	var intent PaymentIntent
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      "/v1/payment_intents",
		Body:      createIntentRequest{Amount: amountMinor, Currency: strings.ToLower(currency)},
		Headers:   map[string]string{"Idempotency-Key": uuid.NewString()},
		Operation: "create_payment_intent",
	}, &intent)
	if err != nil {
		return nil, c.wrap("CreatePaymentIntent", err)
	}

	c.log.Info("CreatePaymentIntent: payment intent created: id=%s, amount=%d %s", intent.ID, amountMinor, currency)
	return &intent, nil
}

// SetupRecurringPayment регистрирует регулярное списание.
// Повтор с тем же IdempotencyKey возвращает ранее созданную регистрацию.
func (c *Client) SetupRecurringPayment(ctx context.Context, req RecurringPaymentRequest) (*RecurringPayment, error) {
	if req.CustomerID == "" || req.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: customer and payment method are required", ErrInvalidRequest)
	}
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidRequest, req.AmountMinor)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	var payment RecurringPayment
	err := c.rest.Do(ctx, restclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/recurring_payments",
		Body: recurringPaymentBody{
			Customer:      req.CustomerID,
			PaymentMethod: req.PaymentMethodID,
			Amount:        req.AmountMinor,
			Currency:      strings.ToLower(req.Currency),
			Interval:      req.Interval,
			IntervalCount: req.IntervalCount,
		},
		Headers:   map[string]string{"Idempotency-Key": key},
		Operation: "setup_recurring_payment",
	}, &payment)
	if err != nil {
		return nil, c.wrap("SetupRecurringPayment", err)
	}

	c.log.Info("SetupRecurringPayment: recurring payment registered: id=%s, customer=%s", payment.ID, req.CustomerID)
	return &payment, nil
}

func (c *Client) wrap(op string, err error) error {
	var statusErr *restclient.StatusError
	if !errors.As(err, &statusErr) {
		c.log.Error("%s: payment service call failed: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}

	c.log.Warn("%s: payment service responded with status %d: %s", op, statusErr.StatusCode, statusErr.Body)
	switch statusErr.StatusCode {
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s: %v", ErrPaymentDeclined, op, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s: %v", ErrInvalidRequest, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
	}
}
