package preview_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const msgInvalidRequestBody = "invalid request body"

type Handler struct {
	useCase PreviewUseCase
	logger  Logger
}

func NewHandler(useCase PreviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedules/preview
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules/preview - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if result := validation.ValidateStruct(&req); !result.Valid() {
		h.logger.Warn("POST /schedules/preview - Invalid request fields: %v", result.Err())
		handlers.RespondValidation(w, result, nil)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		if result, ok := validation.AsResult(err); ok {
			h.logger.Warn("POST /schedules/preview - Validation failed: %v", err)
			handlers.RespondValidation(w, result, nil)
			return
		}
		h.logger.Error("POST /schedules/preview - Failed to preview schedule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /schedules/preview - Preview built: occurrences=%d", len(resp.Occurrences))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
