package start_setup

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
)

type FlowService interface {
	Start(ctx context.Context, userID string) *models.FlowResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
