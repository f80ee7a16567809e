package cancel_subscription

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
)

type SubscriptionService interface {
	Cancel(ctx context.Context, id string, req *models.CancelSubscriptionRequest) (*models.CancelSubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
