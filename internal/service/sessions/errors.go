package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда сессия уже прошла или отменена
	ErrCannotCancel = errors.New("session cannot be cancelled")

	// ErrTooLateToCancel возвращается, когда до начала сессии осталось меньше допустимого срока
	ErrTooLateToCancel = errors.New("session starts too soon to be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
