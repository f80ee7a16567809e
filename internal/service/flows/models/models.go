package models

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
)

// ScheduleInput данные шага выбора расписания
type ScheduleInput struct {
	TherapistID string `json:"therapistId" validate:"max=64"`
	Weekday     *int   `json:"weekday" validate:"omitempty,gte=0,lte=6"`
	TimeOfDay   string `json:"timeOfDay" validate:"omitempty,hhmm"`
	Frequency   string `json:"frequency" validate:"omitempty,oneof=weekly biweekly monthly"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
	StartsOn    string `json:"startsOn,omitempty" validate:"omitempty,date"`
}

// PricingInput данные шага подтверждения цены
type PricingInput struct {
	PlanCode  string `json:"planCode" validate:"max=64"`
	Confirmed bool   `json:"confirmed"`
}

// AgreementInput данные шага терапевтической рамки
type AgreementInput struct {
	Accepted   bool       `json:"accepted"`
	Version    string     `json:"version" validate:"max=32"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

// PaymentInput данные шага оплаты
type PaymentInput struct {
	CustomerID      string `json:"customerId" validate:"max=255"`
	PaymentMethodID string `json:"paymentMethodId" validate:"max=255"`
}

// EmergencyContactInput данные шага экстренного контакта
type EmergencyContactInput struct {
	Name         string `json:"name" validate:"max=100"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Relationship string `json:"relationship" validate:"max=50"`
}

// UpdateFlowRequest запрос на сохранение данных шагов; пустые секции не меняются
type UpdateFlowRequest struct {
	Schedule         *ScheduleInput         `json:"schedule,omitempty"`
	Pricing          *PricingInput          `json:"pricing,omitempty"`
	Agreement        *AgreementInput        `json:"agreement,omitempty"`
	Payment          *PaymentInput          `json:"payment,omitempty"`
	EmergencyContact *EmergencyContactInput `json:"emergencyContact,omitempty"`
}

// FlowResponse состояние сценария оформления подписки
type FlowResponse struct {
	ID               string                `json:"id"`
	Step             string                `json:"step"`
	StepIndex        int                   `json:"stepIndex"`
	TotalSteps       int                   `json:"totalSteps"`
	CanGoBack        bool                  `json:"canGoBack"`
	IsFinal          bool                  `json:"isFinal"`
	Processing       bool                  `json:"processing"`
	Schedule         ScheduleInput         `json:"schedule"`
	ScheduleSummary  *string               `json:"scheduleSummary,omitempty"`
	Pricing          PricingInput          `json:"pricing"`
	Plan             *PlanResponse         `json:"plan,omitempty"`
	Agreement        AgreementInput        `json:"agreement"`
	Payment          PaymentInput          `json:"payment"`
	EmergencyContact EmergencyContactInput `json:"emergencyContact"`
	Errors           map[string][]string   `json:"errors,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	ExpiresAt        *time.Time            `json:"expiresAt,omitempty"`
}

// PlanResponse тарифный план
type PlanResponse struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	PriceMinor      int64  `json:"priceMinor"`
	Currency        string `json:"currency"`
	Frequency       string `json:"frequency"`
	FrequencyLabel  string `json:"frequencyLabel"`
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"`
}

// PlanListResponse список тарифных планов
type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// ToPatch преобразует запрос в изменение состояния сценария
func (r *UpdateFlowRequest) ToPatch() setup.Patch {
	var p setup.Patch
	if r.Schedule != nil {
		p.Schedule = &setup.ScheduleDraft{
			TherapistID: r.Schedule.TherapistID,
			Weekday:     r.Schedule.Weekday,
			TimeOfDay:   r.Schedule.TimeOfDay,
			Frequency:   r.Schedule.Frequency,
			Timezone:    r.Schedule.Timezone,
			StartsOn:    r.Schedule.StartsOn,
		}
	}
	if r.Pricing != nil {
		p.Pricing = &setup.PricingDraft{PlanCode: r.Pricing.PlanCode, Confirmed: r.Pricing.Confirmed}
	}
	if r.Agreement != nil {
		p.Agreement = &setup.AgreementDraft{Accepted: r.Agreement.Accepted, Version: r.Agreement.Version}
	}
	if r.Payment != nil {
		p.Payment = &setup.PaymentDraft{CustomerID: r.Payment.CustomerID, PaymentMethodID: r.Payment.PaymentMethodID}
	}
	if r.EmergencyContact != nil {
		p.EmergencyContact = &setup.EmergencyContactDraft{
			Name:         r.EmergencyContact.Name,
			Phone:        r.EmergencyContact.Phone,
			Email:        r.EmergencyContact.Email,
			Relationship: r.EmergencyContact.Relationship,
		}
	}
	return p
}

// IsEmpty сообщает, что запрос не содержит ни одной секции
func (r *UpdateFlowRequest) IsEmpty() bool {
	return r.Schedule == nil && r.Pricing == nil && r.Agreement == nil && r.Payment == nil && r.EmergencyContact == nil
}

// FromState преобразует состояние сценария в ответ; ttl = 0 означает бессрочное хранение
func FromState(s *setup.State, plans []domain.Plan, ttl time.Duration) *FlowResponse {
	_, canGoBack := s.Step.Prev()
	resp := &FlowResponse{
		ID:         s.ID,
		Step:       string(s.Step),
		StepIndex:  s.Step.Index(),
		TotalSteps: len(setup.Steps),
		CanGoBack:  canGoBack && !s.Processing,
		IsFinal:    s.Step.IsFinal(),
		Processing: s.Processing,
		Schedule: ScheduleInput{
			TherapistID: s.Schedule.TherapistID,
			Weekday:     s.Schedule.Weekday,
			TimeOfDay:   s.Schedule.TimeOfDay,
			Frequency:   s.Schedule.Frequency,
			Timezone:    s.Schedule.Timezone,
			StartsOn:    s.Schedule.StartsOn,
		},
		Pricing: PricingInput{PlanCode: s.Pricing.PlanCode, Confirmed: s.Pricing.Confirmed},
		Agreement: AgreementInput{
			Accepted:   s.Agreement.Accepted,
			Version:    s.Agreement.Version,
			AcceptedAt: s.Agreement.AcceptedAt,
		},
		Payment: PaymentInput{CustomerID: s.Payment.CustomerID, PaymentMethodID: s.Payment.PaymentMethodID},
		EmergencyContact: EmergencyContactInput{
			Name:         s.EmergencyContact.Name,
			Phone:        s.EmergencyContact.Phone,
			Email:        s.EmergencyContact.Email,
			Relationship: s.EmergencyContact.Relationship,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if !s.Errors.Valid() {
		resp.Errors = s.Errors
	}
	// сводка только для шагов после выбора расписания: там оно уже проверено
	if s.Step.Index() > setup.StepScheduleSelection.Index() {
		if schedule, err := s.Schedule.ToSchedule(); err == nil {
			summary := formatting.ScheduleSummary(schedule)
			resp.ScheduleSummary = &summary
		}
	}
	if plan, ok := domain.FindPlan(plans, s.Pricing.PlanCode); ok {
		p := FromDomainPlan(plan)
		resp.Plan = &p
	}
	if ttl > 0 {
		expiresAt := s.UpdatedAt.Add(ttl)
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// FromDomainPlan преобразует тарифный план в ответ
func FromDomainPlan(p domain.Plan) PlanResponse {
	return PlanResponse{
		Code:            p.Code,
		Name:            p.Name,
		Price:           p.Price.StringFixed(2),
		PriceMinor:      p.MinorUnits(),
		Currency:        p.Currency,
		Frequency:       string(p.Frequency),
		FrequencyLabel:  formatting.FrequencyLabel(p.Frequency),
		DurationMinutes: p.DurationMinutes,
		Duration:        formatting.FormatDuration(p.DurationMinutes),
	}
}

// FromDomainPlans преобразует список тарифных планов
func FromDomainPlans(plans []domain.Plan) *PlanListResponse {
	resp := &PlanListResponse{Plans: make([]PlanResponse, 0, len(plans))}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, FromDomainPlan(p))
	}
	return resp
}
