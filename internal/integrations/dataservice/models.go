package dataservice

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// SubscriptionRow строка таблицы subscriptions
type SubscriptionRow struct {
	ID                    string                    `json:"id"`
	UserID                string                    `json:"user_id"`
	TherapistID           string                    `json:"therapist_id"`
	PlanCode              string                    `json:"plan_code"`
	Weekday               int                       `json:"weekday"`
	StartTime             string                    `json:"start_time"`
	Frequency             domain.Frequency          `json:"frequency"`
	Timezone              string                    `json:"timezone"`
	DurationMinutes       int                       `json:"duration_minutes"`
	PriceMinor            int64                     `json:"price_minor"`
	Currency              string                    `json:"currency"`
	Status                domain.SubscriptionStatus `json:"status"`
	PaymentRegistrationID *string                   `json:"payment_registration_id"`
	StartsOn              string                    `json:"starts_on"`
	CancellationReason    *string                   `json:"cancellation_reason,omitempty"`
	CancelledAt           *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt             *time.Time                `json:"created_at,omitempty"`
	UpdatedAt             *time.Time                `json:"updated_at,omitempty"`
}

func subscriptionToRow(s *domain.Subscription) SubscriptionRow {
	return SubscriptionRow{
		ID:                    s.ID,
		UserID:                s.UserID,
		TherapistID:           s.TherapistID,
		PlanCode:              s.PlanCode,
		Weekday:               s.Weekday,
		StartTime:             s.StartTime.String(),
		Frequency:             s.Frequency,
		Timezone:              s.Timezone,
		DurationMinutes:       s.DurationMinutes,
		PriceMinor:            s.PriceMinor,
		Currency:              s.Currency,
		Status:                s.Status,
		PaymentRegistrationID: s.PaymentRegistrationID,
		StartsOn:              s.StartsOn.Format(domain.DateFormat),
	}
}

func (r SubscriptionRow) toDomain() (*domain.Subscription, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	startsOn, err := time.Parse(domain.DateFormat, r.StartsOn)
	if err != nil {
		return nil, err
	}
	sub := &domain.Subscription{
		ID:                    r.ID,
		UserID:                r.UserID,
		TherapistID:           r.TherapistID,
		PlanCode:              r.PlanCode,
		Weekday:               r.Weekday,
		StartTime:             startTime,
		Frequency:             r.Frequency,
		Timezone:              r.Timezone,
		DurationMinutes:       r.DurationMinutes,
		PriceMinor:            r.PriceMinor,
		Currency:              r.Currency,
		Status:                r.Status,
		PaymentRegistrationID: r.PaymentRegistrationID,
		StartsOn:              startsOn,
		CancellationReason:    r.CancellationReason,
		CancelledAt:           r.CancelledAt,
	}
	if r.CreatedAt != nil {
		sub.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		sub.UpdatedAt = *r.UpdatedAt
	}
	return sub, nil
}

// SessionRow строка таблицы sessions
type SessionRow struct {
	ID              string               `json:"id"`
	SubscriptionID  string               `json:"subscription_id"`
	UserID          string               `json:"user_id"`
	TherapistID     string               `json:"therapist_id"`
	StartsAt        time.Time            `json:"starts_at"`
	DurationMinutes int                  `json:"duration_minutes"`
	Timezone        string               `json:"timezone"`
	Status          domain.SessionStatus `json:"status"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt       *time.Time           `json:"created_at,omitempty"`
}

func sessionToRow(s *domain.Session) SessionRow {
	return SessionRow{
		ID:              s.ID,
		SubscriptionID:  s.SubscriptionID,
		UserID:          s.UserID,
		TherapistID:     s.TherapistID,
		StartsAt:        s.StartsAt.UTC(),
		DurationMinutes: s.DurationMinutes,
		Timezone:        s.Timezone,
		Status:          s.Status,
	}
}

func (r SessionRow) toDomain() *domain.Session {
	s := &domain.Session{
		ID:              r.ID,
		SubscriptionID:  r.SubscriptionID,
		UserID:          r.UserID,
		TherapistID:     r.TherapistID,
		StartsAt:        r.StartsAt.UTC(),
		DurationMinutes: r.DurationMinutes,
		Timezone:        r.Timezone,
		Status:          r.Status,
		CancelledAt:     r.CancelledAt,
	}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}
	return s
}

// AgreementRow строка таблицы agreements
type AgreementRow struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SubscriptionID string    `json:"subscription_id"`
	Version        string    `json:"version"`
	AcceptedAt     time.Time `json:"accepted_at"`
}

// EmergencyContactRow строка таблицы emergency_contacts
type EmergencyContactRow struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Email        *string `json:"email,omitempty"`
	Relationship string  `json:"relationship"`
}

// AvailabilityRow строка таблицы availability
type AvailabilityRow struct {
	TherapistID string `json:"therapist_id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Timezone    string `json:"timezone"`
}

func (r AvailabilityRow) toDomain() (domain.AvailabilitySlot, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}
	return domain.AvailabilitySlot{
		TherapistID: r.TherapistID,
		Weekday:     r.Weekday,
		StartTime:   start,
		EndTime:     end,
		Timezone:    r.Timezone,
	}, nil
}

// AnalyticsRow строка таблицы analytics
type AnalyticsRow struct {
	UserID     string                 `json:"user_id"`
	Event      string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
