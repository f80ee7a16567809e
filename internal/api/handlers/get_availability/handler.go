package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/service/availability"
	"github.com/m04kA/SMC-TherapySessions/internal/service/availability/models"
)

const (
	msgMissingTherapistID = "therapistId is required"
	msgInvalidDate        = "invalid date: use YYYY-MM-DD"
	msgInvalidTimezone    = "invalid timezone"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?therapistId=...&date=YYYY-MM-DD&timezone=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := &models.GetAvailabilityRequest{
		TherapistID: q.Get("therapistId"),
		Timezone:    q.Get("timezone"),
	}
	if req.TherapistID == "" {
		h.logger.Warn("GET /availability - Missing therapistId")
		handlers.RespondBadRequest(w, msgMissingTherapistID)
		return
	}
	if v := q.Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid date %q: %v", v, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	resp, err := h.service.GetAvailability(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		default:
			h.logger.Error("GET /availability - Failed to get availability: therapist_id=%s, error=%v",
				req.TherapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability retrieved: therapist_id=%s, slots=%d",
		req.TherapistID, len(resp.Slots))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
