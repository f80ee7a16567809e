package preview_schedule

import (
	"time"

	previewSchedule "github.com/m04kA/SMC-TherapySessions/internal/usecase/preview_schedule"
)

// PreviewRequest HTTP request model
type PreviewRequest struct {
	Weekday        *int     `json:"weekday" validate:"required,gte=0,lte=6"`
	TimeOfDay      string   `json:"timeOfDay" validate:"required,hhmm"`
	Frequency      string   `json:"frequency" validate:"required"`
	IntervalWeeks  int      `json:"intervalWeeks,omitempty" validate:"gte=0"`
	Timezone       string   `json:"timezone" validate:"required"`
	StartsOn       string   `json:"startsOn,omitempty" validate:"omitempty,date"`
	EndsOn         string   `json:"endsOn,omitempty" validate:"omitempty,date"`
	SkipDates      []string `json:"skipDates,omitempty" validate:"omitempty,dive,date"`
	SkipHolidays   bool     `json:"skipHolidays,omitempty"`
	Count          int      `json:"count,omitempty" validate:"gte=0,lte=52"`
	ViewerTimezone string   `json:"viewerTimezone,omitempty" validate:"omitempty,timezone"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *PreviewRequest) ToUseCaseRequest() *previewSchedule.Request {
	return &previewSchedule.Request{
		Weekday:        r.Weekday,
		TimeOfDay:      r.TimeOfDay,
		Frequency:      r.Frequency,
		IntervalWeeks:  r.IntervalWeeks,
		Timezone:       r.Timezone,
		StartsOn:       r.StartsOn,
		EndsOn:         r.EndsOn,
		SkipDates:      r.SkipDates,
		SkipHolidays:   r.SkipHolidays,
		Count:          r.Count,
		ViewerTimezone: r.ViewerTimezone,
	}
}

// PreviewResponse HTTP response model
type PreviewResponse struct {
	Summary     string               `json:"summary"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// OccurrenceResponse одна сессия в предпросмотре
type OccurrenceResponse struct {
	StartsAt    string `json:"startsAt"` // ISO 8601, UTC
	Local       string `json:"local"`
	Display     string `json:"display"`
	DisplayDual string `json:"displayDual"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *previewSchedule.Response) *PreviewResponse {
	out := &PreviewResponse{
		Summary:     resp.Summary,
		Occurrences: make([]OccurrenceResponse, 0, len(resp.Occurrences)),
	}
	for _, occ := range resp.Occurrences {
		out.Occurrences = append(out.Occurrences, OccurrenceResponse{
			StartsAt:    occ.At.UTC().Format(time.RFC3339),
			Local:       occ.Local,
			Display:     occ.Display,
			DisplayDual: occ.DisplayDual,
		})
	}
	return out
}
