package complete_setup

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	flowModels "github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
	subscriptionModels "github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
	completeSetup "github.com/m04kA/SMC-TherapySessions/internal/usecase/complete_setup"
)

// CompleteSetupResponse HTTP response model
type CompleteSetupResponse struct {
	Subscription *subscriptionModels.SubscriptionResponse `json:"subscription"`
	Plan         flowModels.PlanResponse                  `json:"plan"`
	Summary      string                                   `json:"summary"`
	Sessions     []SessionItemResponse                    `json:"sessions"`
	Notice       notice.Notice                            `json:"notice"`
}

// SessionItemResponse запланированная сессия
type SessionItemResponse struct {
	ID          string `json:"id"`
	StartsAt    string `json:"startsAt"` // ISO 8601, UTC
	Display     string `json:"display"`
	DisplayDual string `json:"displayDual"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *completeSetup.Response) *CompleteSetupResponse {
	out := &CompleteSetupResponse{
		Subscription: subscriptionModels.FromDomainSubscription(resp.Subscription),
		Plan:         flowModels.FromDomainPlan(resp.Plan),
		Summary:      resp.Summary,
		Sessions:     make([]SessionItemResponse, 0, len(resp.Sessions)),
		Notice:       notice.Success(notice.OpCompleteSetup),
	}
	for _, s := range resp.Sessions {
		out.Sessions = append(out.Sessions, SessionItemResponse{
			ID:          s.ID,
			StartsAt:    s.StartsAt.UTC().Format(time.RFC3339),
			Display:     s.Display,
			DisplayDual: s.DisplayDual,
		})
	}
	return out
}
