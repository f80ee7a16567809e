package paymentservice

// PaymentIntent разовый платёж
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// RecurringPaymentRequest параметры регистрации регулярного списания
type RecurringPaymentRequest struct {
	CustomerID      string
	PaymentMethodID string
	AmountMinor     int64
	Currency        string
	Interval        string // week, month
	IntervalCount   int
	// IdempotencyKey повторный запрос с тем же ключом не создаёт вторую регистрацию; пустой - сгенерировать
	IdempotencyKey string
}

// RecurringPayment регистрация регулярного списания
type RecurringPayment struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customer"`
	PaymentMethodID string `json:"payment_method"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type recurringPaymentBody struct {
	Customer      string `json:"customer"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval,omitempty"`
	IntervalCount int    `json:"interval_count,omitempty"`
}

// ErrorResponse модель ошибки платёжного сервиса
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
