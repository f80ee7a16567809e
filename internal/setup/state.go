package setup

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// ScheduleDraft is the slot picked on the first step. Weekday is a pointer because 0 (Sunday) is a valid value.
type ScheduleDraft struct {
	TherapistID string
	Weekday     *int
	TimeOfDay   string
	Frequency   string
	Timezone    string
	StartsOn    string // YYYY-MM-DD, optional
}

// ToSchedule builds the domain schedule; StartsOn is interpreted in the draft timezone
func (d ScheduleDraft) ToSchedule() (domain.RecurringSchedule, error) {
	weekday := -1
	if d.Weekday != nil {
		weekday = *d.Weekday
	}
	s := domain.NewRecurringSchedule(weekday, types.TimeString(d.TimeOfDay), domain.Frequency(d.Frequency), d.Timezone)

	if d.StartsOn == "" {
		return s, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return s, fmt.Errorf("load timezone %q: %w", d.Timezone, err)
	}
	startsOn, err := time.ParseInLocation(domain.DateFormat, d.StartsOn, loc)
	if err != nil {
		return s, fmt.Errorf("parse startsOn %q: %w", d.StartsOn, err)
	}
	return s.WithBounds(&startsOn, nil), nil
}

// PricingDraft is the plan the client agreed to pay for
type PricingDraft struct {
	PlanCode  string
	Confirmed bool
}

// AgreementDraft is the therapeutic frame consent
type AgreementDraft struct {
	Accepted   bool
	Version    string
	AcceptedAt *time.Time
}

// PaymentDraft references a payment method already tokenised by the payment provider
type PaymentDraft struct {
	CustomerID      string
	PaymentMethodID string
}

// EmergencyContactDraft is the person to reach in a crisis
type EmergencyContactDraft struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
}

// State is the progress record of one setup flow
type State struct {
	ID      string
	OwnerID string
	Step    Step

	Schedule         ScheduleDraft
	Pricing          PricingDraft
	Agreement        AgreementDraft
	Payment          PaymentDraft
	EmergencyContact EmergencyContactDraft

	// Errors holds the violations reported by the last rejected Advance
	Errors     validation.Result
	Processing bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewState starts a flow at the first step
func NewState(id, ownerID string, now time.Time) *State {
	return &State{
		ID:        id,
		OwnerID:   ownerID,
		Step:      StepScheduleSelection,
		Errors:    validation.NewResult(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := *s
	if s.Schedule.Weekday != nil {
		w := *s.Schedule.Weekday
		c.Schedule.Weekday = &w
	}
	if s.Agreement.AcceptedAt != nil {
		at := *s.Agreement.AcceptedAt
		c.Agreement.AcceptedAt = &at
	}
	c.Errors = validation.NewResult().Merge(s.Errors)
	return &c
}

// StepValidator reports the violations of one step of a state
type StepValidator interface {
	ValidateStep(s *State, step Step) validation.Result
}

// Advance moves to the next step when the current one has no violations.
// Violations are stored in Errors and returned wrapped in ErrStepInvalid.
func (s *State) Advance(v StepValidator) error {
	if s.Processing {
		return ErrAlreadyProcessing
	}
	next, ok := s.Step.Next()
	if !ok {
		return ErrNoNextStep
	}

	result := v.ValidateStep(s, s.Step)
	if !result.Valid() {
		s.Errors = result
		return fmt.Errorf("%w: %s: %w", ErrStepInvalid, s.Step, result.Err())
	}

	s.Step = next
	s.Errors = validation.NewResult()
	return nil
}

// Back returns to the previous step; entered data is kept
func (s *State) Back() error {
	if s.Processing {
		return ErrAlreadyProcessing
	}
	prev, ok := s.Step.Prev()
	if !ok {
		return ErrNoPreviousStep
	}
	s.Step = prev
	s.Errors = validation.NewResult()
	return nil
}

// ValidateAll checks every step before the final one, used right before completion
func (s *State) ValidateAll(v StepValidator) validation.Result {
	r := validation.NewResult()
	for _, step := range Steps {
		if step.IsFinal() {
			continue
		}
		r.Merge(v.ValidateStep(s, step))
	}
	return r
}

// BeginProcessing must succeed before any outbound call made on behalf of the flow
func (s *State) BeginProcessing() error {
	if s.Processing {
		return ErrAlreadyProcessing
	}
	s.Processing = true
	return nil
}

// EndProcessing clears the flag after the call finished, successfully or not
func (s *State) EndProcessing() error {
	if !s.Processing {
		return ErrNotProcessing
	}
	s.Processing = false
	return nil
}

// Patch carries new data for one or more steps; nil sections are left untouched
type Patch struct {
	Schedule         *ScheduleDraft
	Pricing          *PricingDraft
	Agreement        *AgreementDraft
	Payment          *PaymentDraft
	EmergencyContact *EmergencyContactDraft
}

// Apply stores the patch. Only the current step and the steps before it may be edited;
// a patch touching a later step is rejected as a whole.
func (s *State) Apply(p Patch, now time.Time) error {
	if s.Processing {
		return ErrAlreadyProcessing
	}

	touched := map[Step]bool{
		StepScheduleSelection:   p.Schedule != nil,
		StepPricingConfirmation: p.Pricing != nil,
		StepTherapeuticFrame:    p.Agreement != nil,
		StepPaymentSetup:        p.Payment != nil,
		StepEmergencyContact:    p.EmergencyContact != nil,
	}
	for step, ok := range touched {
		if ok && step.Index() > s.Step.Index() {
			return fmt.Errorf("%w: %s", ErrStepLocked, step)
		}
	}

	if p.Schedule != nil {
		s.Schedule = *p.Schedule
		if p.Schedule.Weekday != nil {
			w := *p.Schedule.Weekday
			s.Schedule.Weekday = &w
		}
	}
	if p.Pricing != nil {
		s.Pricing = *p.Pricing
	}
	if p.Agreement != nil {
		s.Agreement = AgreementDraft{Accepted: p.Agreement.Accepted, Version: p.Agreement.Version}
		if p.Agreement.Accepted {
			at := now
			s.Agreement.AcceptedAt = &at
		}
	}
	if p.Payment != nil {
		s.Payment = *p.Payment
	}
	if p.EmergencyContact != nil {
		s.EmergencyContact = *p.EmergencyContact
	}
	return nil
}
