package check_password

import "github.com/m04kA/SMC-TherapySessions/internal/validation"

type AuthService interface {
	CheckPassword(password string) validation.Result
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
