package complete_setup

import "errors"

var (
	// ErrFlowNotFound возвращается, когда сценарий не найден или истёк
	ErrFlowNotFound = errors.New("complete_setup: setup flow not found")

	// ErrAccessDenied возвращается, когда сценарий принадлежит другому пользователю
	ErrAccessDenied = errors.New("complete_setup: access denied")

	// ErrNotFinalStep возвращается, когда сценарий ещё не дошёл до подтверждения
	ErrNotFinalStep = errors.New("complete_setup: flow is not at the final step")

	// ErrFlowInvalid возвращается, когда данные одного из шагов больше не проходят проверку;
	// в цепочке ошибок есть *validation.FieldsError
	ErrFlowInvalid = errors.New("complete_setup: flow data is invalid")

	// ErrAlreadyProcessing возвращается при повторном запросе, пока первый не завершён
	ErrAlreadyProcessing = errors.New("complete_setup: flow is already being processed")

	// ErrNoSessions возвращается, когда расписание не даёт ни одной сессии
	ErrNoSessions = errors.New("complete_setup: schedule yields no sessions")

	// ErrPaymentDeclined возвращается, когда платёжный сервис отклонил способ оплаты
	ErrPaymentDeclined = errors.New("complete_setup: payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_setup: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_setup: internal error")
)
