package domain

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring therapy plan booked by a client
type Subscription struct {
	ID          string
	UserID      string
	TherapistID string
	PlanCode    string

	Weekday   int
	StartTime types.TimeString
	Frequency Frequency
	Timezone  string

	DurationMinutes int
	PriceMinor      int64
	Currency        string

	Status                SubscriptionStatus
	PaymentRegistrationID *string
	StartsOn              time.Time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule rebuilds the recurring schedule value of the subscription
func (s *Subscription) Schedule() RecurringSchedule {
	startsOn := s.StartsOn
	return NewRecurringSchedule(s.Weekday, s.StartTime, s.Frequency, s.Timezone).
		WithBounds(&startsOn, nil)
}

// CanBeCancelled returns true if the subscription can be cancelled
func (s *Subscription) CanBeCancelled() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionPaused || s.Status == SubscriptionPending
}

// SessionStatus represents the state of a single therapy session
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionNoShow    SessionStatus = "no_show"
)

// Session is one booked occurrence of a subscription
type Session struct {
	ID              string
	SubscriptionID  string
	UserID          string
	TherapistID     string
	StartsAt        time.Time // UTC
	DurationMinutes int
	Timezone        string // authoring timezone
	Status          SessionStatus

	CancelledAt *time.Time
	CreatedAt   time.Time
}

// EndsAt returns the end instant of the session
func (s *Session) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// CanBeCancelled returns true if the session is still upcoming
func (s *Session) CanBeCancelled() bool {
	return s.Status == SessionScheduled
}

// Occurrence converts the session into a display occurrence
func (s *Session) Occurrence() ScheduledOccurrence {
	return ScheduledOccurrence{At: s.StartsAt.UTC(), AuthoringTimezone: s.Timezone}
}

// SessionsFilter filter for listing sessions of a user
type SessionsFilter struct {
	UserID         string
	SubscriptionID *string
	From           *time.Time
	To             *time.Time
	Status         *SessionStatus
}

// Agreement is the therapeutic frame consent recorded before recurring billing starts
type Agreement struct {
	ID             string
	UserID         string
	SubscriptionID string
	Version        string
	AcceptedAt     time.Time
}

// EmergencyContact is the person to reach if the client is in crisis
type EmergencyContact struct {
	ID           string
	UserID       string
	Name         string
	Phone        string
	Email        *string
	Relationship string
	CreatedAt    time.Time
}

// AvailabilitySlot is a weekly window in which a therapist accepts recurring sessions
type AvailabilitySlot struct {
	TherapistID string
	Weekday     int
	StartTime   types.TimeString
	EndTime     types.TimeString
	Timezone    string
}

// Contains reports whether a session starting at t for duration minutes fits the slot
func (a AvailabilitySlot) Contains(weekday int, t types.TimeString, durationMinutes int) bool {
	if weekday != a.Weekday {
		return false
	}
	end, err := t.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return !t.IsBefore(a.StartTime) && !end.IsAfter(a.EndTime)
}
