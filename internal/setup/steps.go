package setup

// Step is one screen of the subscription setup flow
type Step string

const (
	StepScheduleSelection   Step = "schedule_selection"
	StepPricingConfirmation Step = "pricing_confirmation"
	StepTherapeuticFrame    Step = "therapeutic_frame"
	StepPaymentSetup        Step = "payment_setup"
	StepEmergencyContact    Step = "emergency_contact"
	StepFinalConfirmation   Step = "final_confirmation"
)

// Steps in the only order the flow may visit them
var Steps = []Step{
	StepScheduleSelection,
	StepPricingConfirmation,
	StepTherapeuticFrame,
	StepPaymentSetup,
	StepEmergencyContact,
	StepFinalConfirmation,
}

// Index returns the position of the step, -1 for unknown values
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is a known step
func (s Step) IsValid() bool {
	return s.Index() >= 0
}

// Next returns the following step
func (s Step) Next() (Step, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(Steps) {
		return "", false
	}
	return Steps[i+1], true
}

// Prev returns the preceding step
func (s Step) Prev() (Step, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return Steps[i-1], true
}

// IsFinal reports whether s is the final confirmation step
func (s Step) IsFinal() bool {
	return s == StepFinalConfirmation
}
