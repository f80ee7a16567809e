package cancel_subscription

import (
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
)

// CancelSubscriptionRequest HTTP request model; тело необязательно
type CancelSubscriptionRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelSubscriptionRequest) ToServiceRequest(userID string) *models.CancelSubscriptionRequest {
	return &models.CancelSubscriptionRequest{
		UserID: userID,
		Reason: r.Reason,
	}
}

// CancelSubscriptionResponse HTTP response model
type CancelSubscriptionResponse struct {
	*models.CancelSubscriptionResponse
	Notice notice.Notice `json:"notice"`
}
