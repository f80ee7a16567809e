package update_setup

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
)

type FlowService interface {
	Update(ctx context.Context, id, userID string, req *models.UpdateFlowRequest) (*models.FlowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
