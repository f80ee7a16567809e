package check_password

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	fieldPassword         = "password"
)

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

// Handle POST /api/v1/validation/password
// Проверка для подсказок в форме: невалидный пароль - это 200 с valid=false, а не ошибка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordCheckRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /validation/password - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result := h.service.CheckPassword(req.Password)

	resp := models.PasswordCheckResponse{
		Valid:  result.Valid(),
		Errors: result[fieldPassword],
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
