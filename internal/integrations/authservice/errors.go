package authservice

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("authservice: invalid credentials")

	// ErrUserAlreadyExists возвращается при регистрации на уже занятый email
	ErrUserAlreadyExists = errors.New("authservice: user already registered")

	// ErrInvalidToken возвращается, когда refresh token недействителен или истёк
	ErrInvalidToken = errors.New("authservice: invalid or expired token")

	// ErrRequestFailed возвращается при любом другом ответе вне диапазона 2xx
	ErrRequestFailed = errors.New("authservice: request failed")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, сериализация)
	ErrInternal = errors.New("authservice client: internal error")
)
