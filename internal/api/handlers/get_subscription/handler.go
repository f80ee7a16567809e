package get_subscription

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions"
)

const (
	msgInvalidSubscriptionID = "invalid subscription ID"
	msgMissingUserID         = "missing user ID"
	msgNotFound              = "subscription not found"
	msgForbidden             = "access denied"
)

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

// Handle GET /api/v1/subscriptions/{subscriptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID := mux.Vars(r)["subscriptionId"]
	if subscriptionID == "" {
		h.logger.Warn("GET /subscriptions/{id} - Empty subscription ID")
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /subscriptions/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Сервис сам проверит, что подписка принадлежит пользователю
	sub, err := h.service.GetByID(r.Context(), subscriptionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrSubscriptionNotFound):
			h.logger.Warn("GET /subscriptions/{id} - Subscription not found: subscription_id=%s", subscriptionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, subscriptions.ErrAccessDenied):
			h.logger.Warn("GET /subscriptions/{id} - Access denied: subscription_id=%s, user_id=%s", subscriptionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /subscriptions/{id} - Failed to get subscription: subscription_id=%s, error=%v",
				subscriptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /subscriptions/{id} - Subscription retrieved: subscription_id=%s, user_id=%s",
		subscriptionID, userID)
	handlers.RespondJSON(w, http.StatusOK, sub)
}
