package get_subscriptions

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
)

const msgMissingUserID = "missing user ID"

type Handler struct {
	service SubscriptionService
	logger  Logger
}

func NewHandler(service SubscriptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/subscriptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /subscriptions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /subscriptions - Failed to list subscriptions: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /subscriptions - Subscriptions retrieved: user_id=%s, count=%d",
		userID, len(resp.Subscriptions))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
