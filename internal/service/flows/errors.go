package flows

import "errors"

var (
	// ErrFlowNotFound возвращается, когда сценарий не найден, завершён или истёк
	ErrFlowNotFound = errors.New("setup flow not found")

	// ErrAccessDenied возвращается, когда сценарий принадлежит другому пользователю
	ErrAccessDenied = errors.New("access denied")

	// ErrStepInvalid возвращается, когда данные текущего шага не прошли проверку;
	// в цепочке ошибок есть *validation.FieldsError
	ErrStepInvalid = errors.New("current step is invalid")

	// ErrStepLocked возвращается при попытке заполнить шаг, до которого сценарий ещё не дошёл
	ErrStepLocked = errors.New("step is not reached yet")

	// ErrNoPreviousStep возвращается при возврате с первого шага
	ErrNoPreviousStep = errors.New("already at the first step")

	// ErrNoNextStep возвращается при переходе дальше последнего шага
	ErrNoNextStep = errors.New("already at the last step")

	// ErrAlreadyProcessing возвращается, пока по сценарию выполняется внешний вызов
	ErrAlreadyProcessing = errors.New("setup flow is being processed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
