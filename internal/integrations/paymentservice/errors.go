package paymentservice

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда платёж или способ оплаты отклонён
	ErrPaymentDeclined = errors.New("paymentservice: payment declined")

	// ErrInvalidRequest возвращается, когда сервис отклонил параметры запроса
	ErrInvalidRequest = errors.New("paymentservice: invalid request")

	// ErrRequestFailed возвращается при любом другом ответе вне диапазона 2xx
	ErrRequestFailed = errors.New("paymentservice: request failed")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, сериализация)
	ErrInternal = errors.New("paymentservice client: internal error")
)
