package setup

import (
	"strconv"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

// Rules validates the steps against the configured plans and agreement version
type Rules struct {
	Plans            []domain.Plan
	AgreementVersion string
}

// ValidateStep implements StepValidator. Field names are prefixed with the step section
// ("schedule.timezone") so that errors of different steps never collide.
func (r Rules) ValidateStep(s *State, step Step) validation.Result {
	switch step {
	case StepScheduleSelection:
		return r.validateSchedule(s.Schedule)
	case StepPricingConfirmation:
		return r.validatePricing(s.Pricing, s.Schedule)
	case StepTherapeuticFrame:
		return r.validateAgreement(s.Agreement)
	case StepPaymentSetup:
		return validatePayment(s.Payment)
	case StepEmergencyContact:
		return validateEmergencyContact(s.EmergencyContact)
	case StepFinalConfirmation:
		return s.ValidateAll(r)
	default:
		res := validation.NewResult()
		res.Add("step", "unknown step "+strconv.Quote(string(step)))
		return res
	}
}

func (r Rules) validateSchedule(d ScheduleDraft) validation.Result {
	res := validation.NewResult()
	res.Merge(validation.ValidateField(d.TherapistID, "schedule.therapistId", validation.Required))
	res.Merge(validation.ValidateField(d.StartsOn, "schedule.startsOn", validation.Date))

	if d.Weekday == nil {
		res.Add("schedule.weekday", "is required")
	}
	if d.Frequency == "" {
		res.Add("schedule.frequency", "is required")
	}

	// a bad timezone or start date is reported as a field violation
	schedule, _ := d.ToSchedule()
	for field, messages := range validation.ValidateSchedule(schedule) {
		key := "schedule." + field
		if (field == "weekday" && d.Weekday == nil) || (field == "frequency" && d.Frequency == "") {
			continue
		}
		for _, m := range messages {
			res.Add(key, m)
		}
	}
	return res
}

func (r Rules) validatePricing(p PricingDraft, schedule ScheduleDraft) validation.Result {
	codes := make([]string, 0, len(r.Plans))
	for _, plan := range r.Plans {
		codes = append(codes, plan.Code)
	}

	res := validation.ValidateField(p.PlanCode, "pricing.planCode", validation.Required, validation.OneOf(codes...))
	if !p.Confirmed {
		res.Add("pricing.confirmed", "the price must be confirmed")
	}

	if plan, ok := domain.FindPlan(r.Plans, p.PlanCode); ok && schedule.Frequency != "" &&
		string(plan.Frequency) != schedule.Frequency {
		res.Add("pricing.planCode", "plan does not match the selected frequency")
	}
	return res
}

func (r Rules) validateAgreement(a AgreementDraft) validation.Result {
	res := validation.NewResult()
	if !a.Accepted {
		res.Add("agreement.accepted", "the therapeutic frame agreement must be accepted")
	}
	if r.AgreementVersion != "" && a.Version != r.AgreementVersion {
		res.Add("agreement.version", "must be the current agreement version "+r.AgreementVersion)
	}
	return res
}

func validatePayment(p PaymentDraft) validation.Result {
	return validation.ValidateForm(
		map[string]string{
			"payment.customerId":      p.CustomerID,
			"payment.paymentMethodId": p.PaymentMethodID,
		},
		map[string][]validation.Validator{
			"payment.customerId":      {validation.Required},
			"payment.paymentMethodId": {validation.Required},
		},
	)
}

func validateEmergencyContact(c EmergencyContactDraft) validation.Result {
	return validation.ValidateForm(
		map[string]string{
			"emergencyContact.name":         c.Name,
			"emergencyContact.phone":        c.Phone,
			"emergencyContact.email":        c.Email,
			"emergencyContact.relationship": c.Relationship,
		},
		map[string][]validation.Validator{
			"emergencyContact.name":         {validation.Required, validation.MaxLength(domain.MaxNameLength)},
			"emergencyContact.phone":        {validation.Required, validation.Phone},
			"emergencyContact.email":        {validation.Email},
			"emergencyContact.relationship": {validation.Required, validation.MaxLength(domain.MaxRelationshipLength)},
		},
	)
}
