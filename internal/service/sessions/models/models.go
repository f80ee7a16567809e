package models

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
)

// ListSessionsRequest запрос списка сессий
type ListSessionsRequest struct {
	UserID         string
	SubscriptionID *string
	From           *time.Time
	To             *time.Time
	Status         *string
	// Timezone часовой пояс клиента для отображения; пустой - пояс терапевта
	Timezone string
}

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              string `json:"id"`
	SubscriptionID  string `json:"subscriptionId"`
	TherapistID     string `json:"therapistId"`
	StartsAt        string `json:"startsAt"` // ISO 8601, UTC
	EndsAt          string `json:"endsAt"`
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"` // "50 min"
	Timezone        string `json:"timezone"`
	Status          string `json:"status"`

	// Display время в поясе клиента; DisplayDual - в поясе терапевта с пометкой времени клиента
	Display     string `json:"display"`
	DisplayDual string `json:"displayDual"`

	CancelledAt *string `json:"cancelledAt,omitempty"`
}

// SessionListResponse ответ со списком сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// FromDomainSession конвертирует domain модель в DTO; viewerTZ уже проверен
func FromDomainSession(s *domain.Session, viewerTZ string) (*SessionResponse, error) {
	occ := s.Occurrence()
	display, err := formatting.FormatClientOnly(occ, viewerTZ)
	if err != nil {
		return nil, err
	}
	dual, err := formatting.FormatDual(occ, viewerTZ)
	if err != nil {
		return nil, err
	}

	resp := &SessionResponse{
		ID:              s.ID,
		SubscriptionID:  s.SubscriptionID,
		TherapistID:     s.TherapistID,
		StartsAt:        s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:          s.EndsAt().UTC().Format(time.RFC3339),
		DurationMinutes: s.DurationMinutes,
		Duration:        formatting.FormatDuration(s.DurationMinutes),
		Timezone:        s.Timezone,
		Status:          string(s.Status),
		Display:         display,
		DisplayDual:     dual,
	}
	if s.CancelledAt != nil {
		cancelled := s.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}
	return resp, nil
}

// ToDomainSessionStatus конвертирует строку в domain.SessionStatus с валидацией
func ToDomainSessionStatus(status string) (domain.SessionStatus, bool) {
	s := domain.SessionStatus(status)
	switch s {
	case domain.SessionScheduled, domain.SessionCompleted, domain.SessionCancelled, domain.SessionNoShow:
		return s, true
	}
	return "", false
}
