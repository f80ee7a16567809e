package dataservice

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

var (
	// ErrRequestFailed возвращается при любом ответе вне диапазона 2xx
	ErrRequestFailed = errors.New("dataservice: request failed")

	// ErrNotFound запись не найдена
	ErrNotFound = fmt.Errorf("dataservice: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, сериализация)
	ErrInternal = errors.New("dataservice client: internal error")
)
