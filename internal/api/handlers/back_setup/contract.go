package back_setup

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
)

type FlowService interface {
	Back(ctx context.Context, id, userID string) (*models.FlowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
