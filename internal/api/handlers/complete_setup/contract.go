package complete_setup

import (
	"context"

	completeSetup "github.com/m04kA/SMC-TherapySessions/internal/usecase/complete_setup"
)

type CompleteSetupUseCase interface {
	Execute(ctx context.Context, req *completeSetup.Request) (*completeSetup.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
