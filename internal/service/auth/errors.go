package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserAlreadyExists возвращается при регистрации на занятый email
	ErrUserAlreadyExists = errors.New("user already registered")

	// ErrInvalidToken возвращается, когда refresh token недействителен
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUnauthorized возвращается, когда у access token нет активной сессии
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
