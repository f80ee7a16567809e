package start_setup

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
)

const msgMissingUserID = "missing user ID"

type Handler struct {
	service FlowService
	logger  Logger
}

func NewHandler(service FlowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/setup
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /setup - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	flow := h.service.Start(r.Context(), userID)

	h.logger.Info("POST /setup - Setup flow started: flow_id=%s, user_id=%s", flow.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, flow)
}
