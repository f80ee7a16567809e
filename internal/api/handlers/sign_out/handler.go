package sign_out

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/api/middleware"
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
)

const msgMissingToken = "missing access token"

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/sign-out
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Токен кладёт middleware Auth
	token, ok := middleware.GetAccessToken(r.Context())
	if !ok {
		h.logger.Warn("POST /auth/sign-out - Missing access token")
		handlers.RespondUnauthorized(w, msgMissingToken)
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.SignOut(r.Context(), token); err != nil {
		h.logger.Error("POST /auth/sign-out - Failed to sign out: user_id=%s, error=%v", userID, err)
		handlers.RespondErrorNotice(w, http.StatusInternalServerError, notice.GenericErrorMessage,
			notice.FromError(notice.OpSignOut, err))
		return
	}

	h.logger.Info("POST /auth/sign-out - User signed out: user_id=%s", userID)
	handlers.RespondJSON(w, http.StatusOK, SignOutResponse{
		Success: true,
		Notice:  notice.Success(notice.OpSignOut),
	})
}
