package list_plans

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
)

type Handler struct {
	service PlanService
}

func NewHandler(service PlanService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/plans
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.Plans())
}
