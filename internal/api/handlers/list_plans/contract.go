package list_plans

import "github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"

type PlanService interface {
	Plans() *models.PlanListResponse
}
