package get_subscriptions

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
)

type SubscriptionService interface {
	List(ctx context.Context, userID string) (*models.SubscriptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
