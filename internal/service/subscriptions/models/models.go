package models

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
)

// CancelSubscriptionRequest запрос на отмену подписки
type CancelSubscriptionRequest struct {
	UserID string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

// CancelSubscriptionResponse результат отмены
type CancelSubscriptionResponse struct {
	SubscriptionID    string `json:"subscriptionId"`
	CancelledSessions int    `json:"cancelledSessions"`
}

// SubscriptionResponse ответ с данными подписки
type SubscriptionResponse struct {
	ID          string `json:"id"`
	TherapistID string `json:"therapistId"`
	PlanCode    string `json:"planCode"`

	Weekday        int    `json:"weekday"`
	WeekdayName    string `json:"weekdayName"`
	StartTime      string `json:"startTime"` // "18:30"
	Frequency      string `json:"frequency"`
	FrequencyLabel string `json:"frequencyLabel"`
	Timezone       string `json:"timezone"`
	Summary        string `json:"summary"` // "Every week on Monday at 18:30 (Europe/Berlin)"

	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"` // "90.00"
	Currency        string `json:"currency"`

	Status             string  `json:"status"`
	StartsOn           string  `json:"startsOn"` // "2025-01-13"
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
}

// SubscriptionListResponse ответ со списком подписок
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

// FromDomainSubscription конвертирует domain модель в DTO
func FromDomainSubscription(s *domain.Subscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}

	resp := &SubscriptionResponse{
		ID:                 s.ID,
		TherapistID:        s.TherapistID,
		PlanCode:           s.PlanCode,
		Weekday:            s.Weekday,
		WeekdayName:        formatting.WeekdayName(s.Weekday),
		StartTime:          s.StartTime.String(),
		Frequency:          string(s.Frequency),
		FrequencyLabel:     formatting.FrequencyLabel(s.Frequency),
		Timezone:           s.Timezone,
		Summary:            formatting.ScheduleSummary(s.Schedule()),
		DurationMinutes:    s.DurationMinutes,
		Price:              domain.FromMinorUnits(s.PriceMinor, s.Currency).StringFixed(2),
		Currency:           s.Currency,
		Status:             string(s.Status),
		StartsOn:           s.StartsOn.Format(domain.DateFormat),
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
	}

	if s.CancelledAt != nil {
		cancelled := s.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainSubscriptionList конвертирует список domain моделей в DTO
func FromDomainSubscriptionList(subs []*domain.Subscription) *SubscriptionListResponse {
	resp := &SubscriptionListResponse{
		Subscriptions: make([]SubscriptionResponse, 0, len(subs)),
	}
	for _, s := range subs {
		if item := FromDomainSubscription(s); item != nil {
			resp.Subscriptions = append(resp.Subscriptions, *item)
		}
	}
	return resp
}
