package refresh_session

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
)

type AuthService interface {
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
